package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/timbenroeck/macos-capture-transcripts/internal/config"
	"github.com/timbenroeck/macos-capture-transcripts/internal/index"
)

func doctorCmd() *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, output dir, archive DB, and FTS5",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			cfgPath := config.Path(home)

			fmt.Println("=== Config ===")
			if _, err := os.Stat(cfgPath); err != nil {
				fmt.Printf("  File: %s (not found, using defaults)\n", cfgPath)
			} else {
				fmt.Printf("  File: %s (OK)\n", cfgPath)
			}
			cfg, err := config.LoadFrom(cfgPath, home)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			fmt.Printf("  Source: %s  Matcher: %s  Threshold: %.2f  Min overlap: %d\n",
				cfg.Source, cfg.Matcher, cfg.FuzzyThreshold, cfg.MinOverlap)

			fmt.Println("\n=== Output ===")
			checkOutputDir(cfg.OutputDir)

			fmt.Println("\n=== Archive ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if !cfg.Archive {
				fmt.Println("  Status: disabled (archive = false)")
			}
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (convert a transcript first)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			if prune {
				n, err := index.Prune(db)
				if err != nil {
					return fmt.Errorf("prune: %w", err)
				}
				fmt.Printf("  Pruned: %d transcript(s) with missing output files\n", n)
			}

			transcriptCount, err := db.TranscriptCount()
			if err != nil {
				return fmt.Errorf("count transcripts: %w", err)
			}
			blockCount, err := db.BlockCount()
			if err != nil {
				return fmt.Errorf("count blocks: %w", err)
			}
			fmt.Printf("  Transcripts: %d\n", transcriptCount)
			fmt.Printf("  Blocks:      %d\n", blockCount)

			if recent, err := db.ListTranscripts("", 1); err == nil && len(recent) > 0 {
				last := recent[0].ConvertedAt
				if t, err := time.Parse(time.RFC3339, last); err == nil {
					last = humanize.Time(t)
				}
				fmt.Printf("  Last conversion: %s (%s)\n", recent[0].Key, last)
			}

			fmt.Println("\n=== FTS5 ===")
			var ftsCount int
			err = db.Raw().QueryRow("SELECT COUNT(*) FROM blocks_fts").Scan(&ftsCount)
			if err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
			} else {
				fmt.Printf("  FTS5 entries: %d\n", ftsCount)
				if ftsCount == blockCount {
					fmt.Println("  Status: OK (synced)")
				} else {
					fmt.Printf("  Status: MISMATCH (blocks=%d, fts=%d)\n", blockCount, ftsCount)
				}
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				fmt.Printf("\n=== DB Size: %s ===\n", humanize.Bytes(uint64(info.Size())))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "Remove archived transcripts whose output file no longer exists")

	return cmd
}

func checkOutputDir(path string) {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("  Dir: %s (NOT FOUND, created on first conversion)\n", path)
		return
	}
	if !info.IsDir() {
		fmt.Printf("  Dir: %s (NOT A DIRECTORY)\n", path)
		return
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		fmt.Printf("  Dir: %s (%v)\n", path, err)
		return
	}
	var count int
	var size int64
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		if fi, err := e.Info(); err == nil {
			count++
			size += fi.Size()
		}
	}
	fmt.Printf("  Dir: %s (OK)\n", path)
	fmt.Printf("  Transcripts: %d (%s)\n", count, humanize.Bytes(uint64(size)))
}
