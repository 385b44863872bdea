// Package importer loads tagged entries into the store from CSV files
// and Excel workbooks. Each imported row is one entry (first column)
// plus any number of tags (remaining columns); tag occurrence counts
// derived from these rows are what the cloud is built from.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	dbpkg "tag-cloud-maker/internal/db"
	"tag-cloud-maker/internal/tagger"
)

// Type aliases to ensure types are accessible
type LabelData = dbpkg.LabelData
type TagAssignment = dbpkg.TagAssignment

// ImportStats tracks statistics for an import
type ImportStats struct {
	Imported       int // Total entries processed (new + existing)
	NewLabels      int // Newly inserted entries
	ExistingLabels int // Entries that already existed
	Skipped        int
	TagsAssigned   int
	InvalidTags    int
	HeaderSkipped  bool
	Errors         []string
	StartTime      time.Time
}

const batchSize = 5000

// ImportCSV imports entries from a CSV file into the database.
// The first column is the entry name; every further column is a tag.
// If autoTag is true a length tag (len-N) is added to each entry.
// If fileTag is not empty it is added as a tag to all imported entries.
// Malformed rows and invalid tags are recorded in the stats and skipped,
// never fatal.
func ImportCSV(db *dbpkg.DB, csvPath string, autoTag bool, fileTag string) (*ImportStats, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Allow variable number of fields per record
	reader.FieldsPerRecord = -1

	rows, stats := readRows(reader)
	if err := importRows(db, rows, stats, autoTag, fileTag); err != nil {
		return nil, err
	}
	return stats, nil
}

// taggedRow is one entry with its per-row tags, already normalized
type taggedRow struct {
	label string
	tags  []string
}

// readRows drains a CSV reader into tagged rows, collecting per-line
// problems in the stats instead of failing
func readRows(reader *csv.Reader) ([]taggedRow, *ImportStats) {
	stats := &ImportStats{
		StartTime: time.Now(),
		Errors:    make([]string, 0),
	}

	var rows []taggedRow
	lineNum := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("line %d: %v", lineNum, err))
			continue
		}

		if len(record) == 0 {
			stats.Skipped++
			continue
		}

		label := strings.ToLower(strings.TrimSpace(record[0]))
		if label == "" {
			stats.Skipped++
			continue
		}

		if !stats.HeaderSkipped && isHeaderRow(label) {
			stats.HeaderSkipped = true
			stats.Skipped++
			continue
		}

		var tags []string
		for _, raw := range record[1:] {
			tag := strings.ToLower(strings.TrimSpace(raw))
			if tag == "" {
				continue
			}
			if err := ValidateTag(tag); err != nil {
				stats.InvalidTags++
				stats.Errors = append(stats.Errors, fmt.Sprintf("line %d: skipped invalid tag '%s': %v", lineNum, tag, err))
				continue
			}
			tags = append(tags, tag)
		}

		rows = append(rows, taggedRow{label: label, tags: tags})
	}

	return rows, stats
}

// importRows writes tagged rows to the store in batched bulk inserts
// inside a single transaction
func importRows(db *dbpkg.DB, rows []taggedRow, stats *ImportStats, autoTag bool, fileTag string) error {
	tx, err := db.BeginTransaction()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Pre-load existing IDs so duplicate checks stay in memory
	existingLabelMap, err := dbpkg.LoadAllLabelIDs(tx)
	if err != nil {
		return fmt.Errorf("failed to load existing label IDs: %w", err)
	}
	existingTagMap, err := dbpkg.LoadAllTagIDs(tx)
	if err != nil {
		return fmt.Errorf("failed to load existing tag IDs: %w", err)
	}

	tagID := func(name string) (int64, error) {
		if id, ok := existingTagMap[name]; ok {
			return id, nil
		}
		id, err := dbpkg.GetOrCreateTagTx(tx, name)
		if err != nil {
			return 0, fmt.Errorf("failed to create tag %s: %w", name, err)
		}
		existingTagMap[name] = id
		return id, nil
	}

	var fileTagID int64
	if fileTag != "" {
		if fileTagID, err = tagID(fileTag); err != nil {
			return err
		}
	}

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		labels := make([]LabelData, 0, len(batch))
		for _, row := range batch {
			labels = append(labels, LabelData{Label: row.label, Length: len(row.label)})
		}

		insertResult, err := db.BulkInsertLabels(tx, labels, existingLabelMap)
		if err != nil {
			return fmt.Errorf("failed to bulk insert labels: %w", err)
		}
		for label, id := range insertResult.LabelMap {
			existingLabelMap[label] = id
		}

		stats.NewLabels += insertResult.NewCount
		stats.ExistingLabels += insertResult.ExistingCount
		stats.Imported += len(batch)

		assignments := make([]TagAssignment, 0, len(batch)*2)
		for _, row := range batch {
			labelID, ok := existingLabelMap[row.label]
			if !ok {
				continue
			}

			rowTags := row.tags
			if autoTag {
				rowTags = append(rowTags, tagger.GenerateLengthTag(len(row.label)))
			}
			for _, tag := range rowTags {
				id, err := tagID(tag)
				if err != nil {
					return err
				}
				assignments = append(assignments, TagAssignment{LabelID: labelID, TagID: id})
			}
			if fileTag != "" {
				assignments = append(assignments, TagAssignment{LabelID: labelID, TagID: fileTagID})
			}
		}

		if err := db.BulkAssignTags(tx, assignments); err != nil {
			return fmt.Errorf("failed to bulk assign tags: %w", err)
		}
		stats.TagsAssigned += len(assignments)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CountCSVLines counts the total number of lines in a CSV file
func CountCSVLines(csvPath string) (int, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	count := 0
	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

// isHeaderRow checks if the first column value looks like a header
func isHeaderRow(firstCol string) bool {
	firstColLower := strings.ToLower(strings.TrimSpace(firstCol))

	headerKeywords := []string{
		"label", "labels",
		"entry", "entries",
		"name", "names",
		"title", "titles",
		"post", "posts",
		"slug", "slugs",
	}

	for _, keyword := range headerKeywords {
		if firstColLower == keyword {
			return true
		}
	}

	return false
}
