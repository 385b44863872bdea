package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tag-cloud-maker/internal/db"
	"tag-cloud-maker/internal/importer"
	"tag-cloud-maker/internal/server"
)

var (
	dbPath string

	// Build information (injected by GoReleaser)
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tag-cloud-maker",
		Short: "Generate tag clouds from tagged entries",
		Long:  "A tool for importing tagged entries and rendering frequency-weighted tag cloud markup",
	}

	// Global flag for database path
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "tagcloud.db", "path to SQLite database file")

	// Import command
	importCmd := &cobra.Command{
		Use:   "import <folder>",
		Short: "Import tagged entries from all CSV files in a folder",
		Long:  "Import entries from all CSV files in the specified folder. The first column is the entry name, further columns are tags. Automatically adds length-based tags and a filename-based tag.",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
	rootCmd.AddCommand(importCmd)

	// Import XLSX command
	importXlsxCmd := &cobra.Command{
		Use:   "import-xlsx <xlsx-file>",
		Short: "Import tagged entries from an Excel workbook",
		Long:  "Import entries from every sheet of an Excel (.xlsx) workbook. Rows follow the CSV layout and each sheet name is added as a tag to its entries.",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportXLSX,
	}
	rootCmd.AddCommand(importXlsxCmd)

	// Tag command
	tagCmd := &cobra.Command{
		Use:   "tag <entry> <tag1> [tag2...]",
		Short: "Add tags to an entry",
		Long:  "Add one or more tags to an entry. Tags are created if they don't exist.",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runTag,
	}
	rootCmd.AddCommand(tagCmd)

	// Render command
	var basePath string
	var output string
	var seed int64

	renderCmd := &cobra.Command{
		Use:   "render [directive]",
		Short: "Render the tag cloud markup fragment",
		Long:  "Render the tag cloud from the stored tag counts. The optional directive string configures sizing, threshold, limit, sort and style, e.g. 'font-size: 70 - 170%, threshold: 2, sort: freq'.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			return runRender(raw, basePath, output, seed)
		},
	}
	renderCmd.Flags().StringVar(&basePath, "base-path", "/tags", "link prefix for tag anchors")
	renderCmd.Flags().StringVarP(&output, "output", "o", "", "write the fragment to a file instead of stdout")
	renderCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for 'sort: rand' (0 = time-based)")
	rootCmd.AddCommand(renderCmd)

	// Serve command
	var addr string
	var serveBasePath string
	var defaultDirective string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live tag cloud preview over HTTP",
		Long:  "Start an HTTP server with a live preview of the tag cloud. GET /cloud returns the bare fragment, GET / a wrapping page; both accept a ?directive= query parameter.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, serveBasePath, defaultDirective)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().StringVar(&serveBasePath, "base-path", "/tags", "link prefix for tag anchors")
	serveCmd.Flags().StringVar(&defaultDirective, "directive", "", "directive used when the request has none")
	rootCmd.AddCommand(serveCmd)

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tag-cloud-maker version %s\n", version)
			fmt.Printf("commit: %s\n", commit)
			fmt.Printf("built at: %s\n", date)
		},
	}
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	folderPath := args[0]

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return fmt.Errorf("failed to read folder: %w", err)
	}

	var csvFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			csvFiles = append(csvFiles, entry.Name())
		}
	}

	if len(csvFiles) == 0 {
		return fmt.Errorf("no CSV files found in folder: %s", folderPath)
	}

	fmt.Printf("Found %d CSV file(s) to import\n", len(csvFiles))

	total := &importer.ImportStats{Errors: make([]string, 0)}
	filesProcessed := 0

	for _, csvFile := range csvFiles {
		csvPath := filepath.Join(folderPath, csvFile)

		// Filename tag (filename without .csv extension)
		fileTag := strings.ToLower(strings.TrimSuffix(strings.TrimSuffix(csvFile, ".csv"), ".CSV"))

		if lineCount, err := importer.CountCSVLines(csvPath); err == nil {
			fmt.Printf("\nImporting %s (tag: %s, %d lines)...\n", csvFile, fileTag, lineCount)
		} else {
			fmt.Printf("\nImporting %s (tag: %s)...\n", csvFile, fileTag)
		}

		stats, err := importer.ImportCSV(database, csvPath, true, fileTag)
		if err != nil {
			fmt.Printf("Error importing %s: %v\n", csvFile, err)
			total.Errors = append(total.Errors, fmt.Sprintf("%s: %v", csvFile, err))
			continue
		}

		filesProcessed++
		total.Imported += stats.Imported
		total.NewLabels += stats.NewLabels
		total.ExistingLabels += stats.ExistingLabels
		total.Skipped += stats.Skipped
		total.TagsAssigned += stats.TagsAssigned
		total.InvalidTags += stats.InvalidTags
		total.Errors = append(total.Errors, stats.Errors...)
	}

	printSummaryReport(total, filesProcessed, len(csvFiles), time.Since(startTime))
	return nil
}

func runImportXLSX(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	xlsxPath := args[0]

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	stats, err := importer.ImportXLSX(database, xlsxPath, true)
	if err != nil {
		return err
	}

	printSummaryReport(stats, 1, 1, time.Since(startTime))
	return nil
}

func printSummaryReport(stats *importer.ImportStats, filesProcessed, totalFiles int, totalDuration time.Duration) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("IMPORT SUMMARY")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("  Files Processed:   %d of %d\n", filesProcessed, totalFiles)
	fmt.Printf("  Entries Processed: %d\n", stats.Imported)
	if stats.ExistingLabels > 0 {
		fmt.Printf("    - New:           %d\n", stats.NewLabels)
		fmt.Printf("    - Existing:      %d (already in database)\n", stats.ExistingLabels)
	} else {
		fmt.Printf("  New Entries:       %d\n", stats.NewLabels)
	}
	fmt.Printf("  Rows Skipped:      %d\n", stats.Skipped)
	fmt.Printf("  Tags Assigned:     %d\n", stats.TagsAssigned)
	fmt.Printf("  Invalid Tags:      %d\n", stats.InvalidTags)
	fmt.Printf("  Total Runtime:     %v\n", totalDuration.Round(time.Millisecond))

	if len(stats.Errors) > 0 {
		fmt.Printf("\nErrors encountered: %d\n", len(stats.Errors))
		limit := 10
		if len(stats.Errors) < limit {
			limit = len(stats.Errors)
		}
		for _, errStr := range stats.Errors[:limit] {
			fmt.Printf("  - %s\n", errStr)
		}
		if len(stats.Errors) > limit {
			fmt.Printf("  ... and %d more errors\n", len(stats.Errors)-limit)
		}
	}

	fmt.Println(strings.Repeat("=", 60))
}

func runTag(cmd *cobra.Command, args []string) error {
	entry := strings.ToLower(strings.TrimSpace(args[0]))
	tags := args[1:]

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	// Get or create the entry
	labelID, err := database.GetLabelID(entry)
	if err != nil {
		labelID, err = database.InsertLabel(entry, len(entry))
		if err != nil {
			return fmt.Errorf("failed to create entry: %w", err)
		}
	}

	for _, tagName := range tags {
		tagName = strings.ToLower(strings.TrimSpace(tagName))
		if err := importer.ValidateTag(tagName); err != nil {
			return fmt.Errorf("invalid tag %q: %w", tagName, err)
		}
		tagID, err := database.GetOrCreateTag(tagName)
		if err != nil {
			return fmt.Errorf("failed to get or create tag %s: %w", tagName, err)
		}
		if err := database.AddTagToLabel(labelID, tagID); err != nil {
			return fmt.Errorf("failed to add tag %s to entry: %w", tagName, err)
		}
	}

	fmt.Printf("Added %d tag(s) to entry '%s'\n", len(tags), entry)
	return nil
}

func runServe(addr, basePath, defaultDirective string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	srv := server.New(server.Config{
		Addr:             addr,
		BasePath:         basePath,
		DefaultDirective: defaultDirective,
	}, database)

	fmt.Printf("Serving tag cloud preview on %s\n", addr)
	return srv.ListenAndServe()
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
