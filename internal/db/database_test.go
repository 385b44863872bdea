package db

import (
	"path/filepath"
	"testing"

	"tag-cloud-maker/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func mustInsertLabel(t *testing.T, database *DB, label string) int64 {
	t.Helper()
	id, err := database.InsertLabel(label, len(label))
	if err != nil {
		t.Fatalf("failed to insert label %s: %v", label, err)
	}
	return id
}

func mustTag(t *testing.T, database *DB, labelID int64, tag string) {
	t.Helper()
	tagID, err := database.GetOrCreateTag(tag)
	if err != nil {
		t.Fatalf("failed to get or create tag %s: %v", tag, err)
	}
	if err := database.AddTagToLabel(labelID, tagID); err != nil {
		t.Fatalf("failed to assign tag %s: %v", tag, err)
	}
}

func TestInsertLabel_Idempotent(t *testing.T) {
	database := openTestDB(t)

	first := mustInsertLabel(t, database, "hello")
	second := mustInsertLabel(t, database, "hello")
	if first != second {
		t.Errorf("expected same ID for duplicate label, got %d and %d", first, second)
	}

	id, err := database.GetLabelID("hello")
	if err != nil {
		t.Fatalf("failed to look up label: %v", err)
	}
	if id != first {
		t.Errorf("GetLabelID returned %d, want %d", id, first)
	}
}

func TestGetLabelID_NotFound(t *testing.T) {
	database := openTestDB(t)

	if _, err := database.GetLabelID("missing"); err == nil {
		t.Errorf("expected error for missing label")
	}
}

func TestTagCounts(t *testing.T) {
	database := openTestDB(t)

	a := mustInsertLabel(t, database, "first-post")
	b := mustInsertLabel(t, database, "second-post")
	c := mustInsertLabel(t, database, "third-post")

	mustTag(t, database, a, "go")
	mustTag(t, database, b, "go")
	mustTag(t, database, c, "go")
	mustTag(t, database, a, "sql")
	// Assigning the same tag twice must not inflate the count
	mustTag(t, database, a, "sql")

	// An unassigned tag must not appear at all
	if _, err := database.GetOrCreateTag("orphan"); err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}

	counts, err := database.TagCounts()
	if err != nil {
		t.Fatalf("failed to read tag counts: %v", err)
	}

	got := make(map[string]int, len(counts))
	for _, tc := range counts {
		got[tc.Name] = tc.Count
	}

	want := map[string]int{"go": 3, "sql": 1}
	if len(got) != len(want) {
		t.Errorf("got %d tags, want %d: %v", len(got), len(want), got)
	}
	for name, count := range want {
		if got[name] != count {
			t.Errorf("tag %s: got count %d, want %d", name, got[name], count)
		}
	}
	if _, ok := got["orphan"]; ok {
		t.Errorf("unassigned tag must not appear in counts")
	}
}

func TestTagsForLabel(t *testing.T) {
	database := openTestDB(t)

	id := mustInsertLabel(t, database, "post")
	mustTag(t, database, id, "go")
	mustTag(t, database, id, "database")

	tags, err := database.TagsForLabel("post")
	if err != nil {
		t.Fatalf("failed to read tags: %v", err)
	}
	if len(tags) != 2 || tags[0] != "database" || tags[1] != "go" {
		t.Errorf("got tags %v, want [database go]", tags)
	}
}

func TestBulkInsertLabels(t *testing.T) {
	database := openTestDB(t)

	// Pre-existing label should be counted as existing, not re-inserted
	existingID := mustInsertLabel(t, database, "already-here")

	tx, err := database.BeginTransaction()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	existingMap, err := LoadAllLabelIDs(tx)
	if err != nil {
		t.Fatalf("failed to load label IDs: %v", err)
	}

	batch := []LabelData{
		{Label: "already-here", Length: 12},
		{Label: "fresh", Length: 5},
		{Label: "fresh", Length: 5}, // duplicate within the batch
		{Label: "another", Length: 7},
	}

	result, err := database.BulkInsertLabels(tx, batch, existingMap)
	if err != nil {
		t.Fatalf("bulk insert failed: %v", err)
	}

	if result.NewCount != 2 {
		t.Errorf("got %d new labels, want 2", result.NewCount)
	}
	if result.ExistingCount != 1 {
		t.Errorf("got %d existing labels, want 1", result.ExistingCount)
	}
	if result.LabelMap["already-here"] != existingID {
		t.Errorf("existing label mapped to %d, want %d", result.LabelMap["already-here"], existingID)
	}
	if result.LabelMap["fresh"] == 0 || result.LabelMap["another"] == 0 {
		t.Errorf("new labels missing from result map: %v", result.LabelMap)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
}

func TestBulkAssignTags(t *testing.T) {
	database := openTestDB(t)

	a := mustInsertLabel(t, database, "one")
	b := mustInsertLabel(t, database, "two")
	tagID, err := database.GetOrCreateTag("shared")
	if err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}

	tx, err := database.BeginTransaction()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	assignments := []TagAssignment{
		{LabelID: a, TagID: tagID},
		{LabelID: b, TagID: tagID},
		{LabelID: b, TagID: tagID}, // duplicate, must be ignored
	}
	if err := database.BulkAssignTags(tx, assignments); err != nil {
		t.Fatalf("bulk assign failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	counts, err := database.TagCounts()
	if err != nil {
		t.Fatalf("failed to read tag counts: %v", err)
	}
	want := []models.TagCount{{Name: "shared", Count: 2}}
	if len(counts) != 1 || counts[0] != want[0] {
		t.Errorf("got counts %v, want %v", counts, want)
	}
}
