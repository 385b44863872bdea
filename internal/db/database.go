// Package db is the SQLite store behind the tag cloud: imported entries
// (labels), their tags, and the assignments linking them. A tag's
// occurrence count is the number of entries carrying it.
package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"tag-cloud-maker/internal/models"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// LabelData represents an entry to be inserted
type LabelData struct {
	Label  string
	Length int
}

// TagAssignment links a tag to an entry
type TagAssignment struct {
	LabelID int64
	TagID   int64
}

// New opens (or creates) the database at dbPath and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.applyPragmas(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// applyPragmas tunes SQLite for bulk imports
func (db *DB) applyPragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.conn.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS labels (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		label TEXT UNIQUE NOT NULL,
		length INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_labels_label ON labels(label);

	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS label_tags (
		label_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		PRIMARY KEY (label_id, tag_id),
		FOREIGN KEY (label_id) REFERENCES labels(id) ON DELETE CASCADE,
		FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_label_tags_label_id ON label_tags(label_id);
	CREATE INDEX IF NOT EXISTS idx_label_tags_tag_id ON label_tags(tag_id);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// InsertLabel inserts an entry, returning its ID. Existing entries are
// left untouched and their ID is returned.
func (db *DB) InsertLabel(label string, length int) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT OR IGNORE INTO labels (label, length) VALUES (?, ?)",
		label, length,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert label: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	// ID 0 means the entry already existed, so fetch it
	if id == 0 {
		err = db.conn.QueryRow(
			"SELECT id FROM labels WHERE label = ?",
			label,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to fetch existing label: %w", err)
		}
	}

	return id, nil
}

// GetLabelID returns the ID of an entry by name
func (db *DB) GetLabelID(label string) (int64, error) {
	var id int64
	err := db.conn.QueryRow(
		"SELECT id FROM labels WHERE label = ?",
		label,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("label not found: %s", label)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query label: %w", err)
	}
	return id, nil
}

// GetOrCreateTag returns a tag ID, creating the tag if needed.
// Not for use inside a transaction; see GetOrCreateTagTx.
func (db *DB) GetOrCreateTag(tagName string) (int64, error) {
	var tagID int64
	err := db.conn.QueryRow(
		"SELECT id FROM tags WHERE name = ?",
		tagName,
	).Scan(&tagID)

	if err == sql.ErrNoRows {
		result, err := db.conn.Exec("INSERT INTO tags (name) VALUES (?)", tagName)
		if err != nil {
			return 0, fmt.Errorf("failed to create tag: %w", err)
		}
		tagID, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to get tag id: %w", err)
		}
		return tagID, nil
	} else if err != nil {
		return 0, fmt.Errorf("failed to query tag: %w", err)
	}

	return tagID, nil
}

// GetOrCreateTagTx is GetOrCreateTag running on an open transaction
func GetOrCreateTagTx(tx *sql.Tx, tagName string) (int64, error) {
	var tagID int64
	err := tx.QueryRow(
		"SELECT id FROM tags WHERE name = ?",
		tagName,
	).Scan(&tagID)

	if err == sql.ErrNoRows {
		result, err := tx.Exec("INSERT INTO tags (name) VALUES (?)", tagName)
		if err != nil {
			return 0, fmt.Errorf("failed to create tag: %w", err)
		}
		tagID, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to get tag id: %w", err)
		}
		return tagID, nil
	} else if err != nil {
		return 0, fmt.Errorf("failed to query tag: %w", err)
	}

	return tagID, nil
}

// AddTagToLabel assigns a tag to an entry; duplicates are ignored
func (db *DB) AddTagToLabel(labelID, tagID int64) error {
	_, err := db.conn.Exec(
		"INSERT OR IGNORE INTO label_tags (label_id, tag_id) VALUES (?, ?)",
		labelID, tagID,
	)
	if err != nil {
		return fmt.Errorf("failed to add tag to label: %w", err)
	}
	return nil
}

// BeginTransaction starts a new transaction
func (db *DB) BeginTransaction() (*sql.Tx, error) {
	return db.conn.Begin()
}

// LoadAllLabelIDs loads every entry ID into a label -> ID map for fast
// duplicate checks during import
func LoadAllLabelIDs(tx *sql.Tx) (map[string]int64, error) {
	return loadIDMap(tx, "SELECT id, label FROM labels")
}

// LoadAllTagIDs loads every tag ID into a name -> ID map
func LoadAllTagIDs(tx *sql.Tx) (map[string]int64, error) {
	return loadIDMap(tx, "SELECT id, name FROM tags")
}

func loadIDMap(tx *sql.Tx, query string) (map[string]int64, error) {
	m := make(map[string]int64)

	rows, err := tx.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		m[name] = id
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return m, nil
}

// SQLite caps a statement at 999 bound parameters; rows carry two values
// each, so inserts are chunked at 499 rows.
const (
	maxParams        = 999
	valuesPerRow     = 2
	maxRowsPerInsert = maxParams / valuesPerRow
)

// BulkInsertResult contains the results of a bulk insert operation
type BulkInsertResult struct {
	LabelMap      map[string]int64
	NewCount      int
	ExistingCount int
}

// BulkInsertLabels inserts entries in chunks, skipping ones already in
// existingLabelMap. Returns the label -> ID map for the whole batch plus
// new/existing counts.
func (db *DB) BulkInsertLabels(tx *sql.Tx, labels []LabelData, existingLabelMap map[string]int64) (*BulkInsertResult, error) {
	result := &BulkInsertResult{
		LabelMap: make(map[string]int64, len(labels)),
	}
	if len(labels) == 0 {
		return result, nil
	}

	newLabels := make([]LabelData, 0, len(labels))
	seenInBatch := make(map[string]bool)

	for _, l := range labels {
		if id, exists := existingLabelMap[l.Label]; exists {
			result.LabelMap[l.Label] = id
			result.ExistingCount++
			continue
		}
		if seenInBatch[l.Label] {
			continue
		}
		newLabels = append(newLabels, l)
		seenInBatch[l.Label] = true
	}

	result.NewCount = len(newLabels)
	if len(newLabels) == 0 {
		return result, nil
	}

	for i := 0; i < len(newLabels); i += maxRowsPerInsert {
		end := i + maxRowsPerInsert
		if end > len(newLabels) {
			end = len(newLabels)
		}
		chunk := newLabels[i:end]

		var query strings.Builder
		query.WriteString("INSERT INTO labels (label, length) VALUES ")
		args := make([]interface{}, 0, len(chunk)*valuesPerRow)

		for j, l := range chunk {
			if j > 0 {
				query.WriteString(",")
			}
			query.WriteString("(?, ?)")
			args = append(args, l.Label, l.Length)
		}

		// RETURNING id gives the inserted IDs in insert order
		query.WriteString(" RETURNING id")

		rows, err := tx.Query(query.String(), args...)
		if err != nil {
			return nil, fmt.Errorf("failed to bulk insert labels: %w", err)
		}

		idx := 0
		for rows.Next() {
			if idx >= len(chunk) {
				rows.Close()
				return nil, fmt.Errorf("retrieved more IDs than inserted rows")
			}
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan returned id: %w", err)
			}
			result.LabelMap[chunk[idx].Label] = id
			idx++
		}
		rows.Close()

		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error iterating returned ids: %w", err)
		}
		if idx != len(chunk) {
			return nil, fmt.Errorf("expected %d IDs, got %d", len(chunk), idx)
		}
	}

	return result, nil
}

// BulkAssignTags inserts tag assignments in chunks, ignoring duplicates
func (db *DB) BulkAssignTags(tx *sql.Tx, assignments []TagAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	for i := 0; i < len(assignments); i += maxRowsPerInsert {
		end := i + maxRowsPerInsert
		if end > len(assignments) {
			end = len(assignments)
		}
		chunk := assignments[i:end]

		var query strings.Builder
		query.WriteString("INSERT OR IGNORE INTO label_tags (label_id, tag_id) VALUES ")
		args := make([]interface{}, 0, len(chunk)*valuesPerRow)

		for j, a := range chunk {
			if j > 0 {
				query.WriteString(",")
			}
			query.WriteString("(?, ?)")
			args = append(args, a.LabelID, a.TagID)
		}

		if _, err := tx.Exec(query.String(), args...); err != nil {
			return fmt.Errorf("failed to bulk insert tag assignments: %w", err)
		}
	}

	return nil
}

// TagCounts returns every tag with the number of entries carrying it.
// Tags with no assignments are omitted; the cloud has nothing to size
// them by.
func (db *DB) TagCounts() ([]models.TagCount, error) {
	query := `
		SELECT t.name, COUNT(lt.label_id) AS cnt
		FROM tags t
		JOIN label_tags lt ON lt.tag_id = t.id
		GROUP BY t.id, t.name
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag counts: %w", err)
	}
	defer rows.Close()

	var counts []models.TagCount
	for rows.Next() {
		var tc models.TagCount
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tag count: %w", err)
		}
		counts = append(counts, tc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag counts: %w", err)
	}

	return counts, nil
}

// TagsForLabel returns the tag names assigned to an entry
func (db *DB) TagsForLabel(label string) ([]string, error) {
	query := `
		SELECT t.name
		FROM tags t
		JOIN label_tags lt ON lt.tag_id = t.id
		JOIN labels l ON l.id = lt.label_id
		WHERE l.label = ?
		ORDER BY t.name
	`

	rows, err := db.conn.Query(query, label)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, nil
}
