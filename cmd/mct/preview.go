package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/timbenroeck/macos-capture-transcripts/internal/config"
	"github.com/timbenroeck/macos-capture-transcripts/internal/index"
	"github.com/timbenroeck/macos-capture-transcripts/internal/render"
)

func previewCmd() *cobra.Command {
	var hitBlockID int
	var context int
	var query string

	cmd := &cobra.Command{
		Use:   "preview <transcriptKey>",
		Short: "Preview a converted transcript with context around a hit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			out, _, err := render.RenderTranscript(db, args[0], render.Options{
				HitBlockID: hitBlockID,
				Context:    context,
				Query:      query,
			})
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&hitBlockID, "hit", -1, "Block ID to highlight")
	cmd.Flags().IntVar(&context, "context", 10, "Blocks before/after hit to show")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")

	return cmd
}
