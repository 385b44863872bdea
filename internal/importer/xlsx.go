package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	dbpkg "tag-cloud-maker/internal/db"
)

// ImportXLSX imports entries from every plausible sheet of an Excel
// workbook. Rows follow the CSV layout (entry in the first column, tags
// in the rest) and each sheet's name becomes an extra tag on its
// entries, the same way a CSV import tags entries with the filename.
// Sheets whose first column does not look like entries are skipped.
func ImportXLSX(db *dbpkg.DB, xlsxPath string, autoTag bool) (*ImportStats, error) {
	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	stats := &ImportStats{StartTime: time.Now(), Errors: make([]string, 0)}
	var processed, skipped []string

	for _, sheetName := range sheetList {
		records, err := f.GetRows(sheetName)
		if err != nil {
			fmt.Printf("Warning: failed to read sheet '%s': %v\n", sheetName, err)
			skipped = append(skipped, fmt.Sprintf("%s (read error)", sheetName))
			continue
		}

		if !isValidEntrySheet(records) {
			skipped = append(skipped, fmt.Sprintf("%s (first column doesn't appear to contain entries)", sheetName))
			continue
		}

		sheetTag := sanitizeSheetTag(sheetName)
		if sheetTag == "" {
			fmt.Printf("Warning: sheet name '%s' is not usable as a tag, importing without it\n", sheetName)
		}

		rows := rowsFromRecords(records, sheetName, stats)
		if err := importRows(db, rows, stats, autoTag, sheetTag); err != nil {
			fmt.Printf("Warning: failed to import sheet '%s': %v\n", sheetName, err)
			skipped = append(skipped, fmt.Sprintf("%s (import error)", sheetName))
			continue
		}

		processed = append(processed, sheetName)
		fmt.Printf("Imported sheet '%s' (%d rows, tag: %s)\n", sheetName, len(rows), sheetTag)
	}

	fmt.Println()
	fmt.Printf("Summary:\n")
	fmt.Printf("  Processed: %d sheet(s)\n", len(processed))
	for _, name := range processed {
		fmt.Printf("    - %s\n", name)
	}
	fmt.Printf("  Skipped: %d sheet(s)\n", len(skipped))
	for _, name := range skipped {
		fmt.Printf("    - %s\n", name)
	}

	return stats, nil
}

// rowsFromRecords normalizes sheet records into tagged rows, mirroring
// the CSV reader's per-line handling
func rowsFromRecords(records [][]string, sheetName string, stats *ImportStats) []taggedRow {
	var rows []taggedRow

	for i, record := range records {
		if len(record) == 0 {
			stats.Skipped++
			continue
		}

		label := strings.ToLower(strings.TrimSpace(record[0]))
		if label == "" {
			stats.Skipped++
			continue
		}

		if i == 0 && isHeaderRow(label) {
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
				stats.Errors = append(stats.Errors, fmt.Sprintf("sheet %s row %d: skipped invalid tag '%s': %v", sheetName, i+1, tag, err))
				continue
			}
			tags = append(tags, tag)
		}

		rows = append(rows, taggedRow{label: label, tags: tags})
	}

	return rows
}

// isValidEntrySheet checks if the sheet appears to have entries in the
// first column: at least one data row whose first cell looks like a
// slug (alphanumeric with hyphens or dots)
func isValidEntrySheet(records [][]string) bool {
	if len(records) == 0 {
		return false
	}

	startRow := 0
	if len(records[0]) > 0 && isHeaderRow(strings.TrimSpace(records[0][0])) {
		startRow = 1
	}
	if startRow >= len(records) {
		return false
	}

	entryPattern := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9.-]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)

	// Check up to 10 rows
	for i := startRow; i < len(records) && i < startRow+10; i++ {
		if len(records[i]) == 0 {
			continue
		}
		firstCol := strings.TrimSpace(records[i][0])
		if firstCol != "" && entryPattern.MatchString(firstCol) {
			return true
		}
	}

	return false
}

var sheetTagInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)

// sanitizeSheetTag turns a sheet name into a usable tag name, or ""
// when nothing valid remains
func sanitizeSheetTag(name string) string {
	tag := strings.ToLower(strings.TrimSpace(name))
	tag = sheetTagInvalidChars.ReplaceAllString(tag, "-")
	tag = strings.Trim(tag, "-")
	if ValidateTag(tag) != nil {
		return ""
	}
	return tag
}
