package main

import (
	"fmt"
	"os"
	"path/filepath"

	"tag-cloud-maker/internal/cloud"
	"tag-cloud-maker/internal/db"
)

func runRender(raw, basePath, output string, seed int64) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	counts, err := database.TagCounts()
	if err != nil {
		return fmt.Errorf("failed to read tag counts: %w", err)
	}
	if len(counts) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no tags in database, output will be empty")
	}

	fragment := cloud.Generate(raw, counts, basePath, newRand(seed))

	if output == "" {
		fmt.Print(fragment)
		return nil
	}

	outputDir := filepath.Dir(output)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(output, []byte(fragment), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %d bytes to %s\n", len(fragment), output)
	return nil
}
