package main

import (
	"github.com/spf13/cobra"
	"github.com/timbenroeck/macos-capture-transcripts/internal/config"
	"github.com/timbenroeck/macos-capture-transcripts/internal/index"
	"github.com/timbenroeck/macos-capture-transcripts/internal/search"
	"github.com/timbenroeck/macos-capture-transcripts/internal/tui"
)

func listCmd() *cobra.Command {
	var source, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse converted transcripts, newest first",
		Long:  `Opens a TUI panel showing all archived transcripts sorted by conversion time (newest first). Type to filter by name or speaker.`,
		Args:  cobra.NoArgs,
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

			// drop entries whose text file was deleted since conversion
			if _, err := index.Prune(db); err != nil {
				return err
			}

			opts := search.Options{
				Source: source,
				Since:  since,
				Limit:  limit,
			}

			return tui.RunList(db, opts)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Filter by source (teams/zoom/webex/canonical)")
	cmd.Flags().StringVar(&since, "since", "", "Filter transcripts converted since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = no limit)")

	return cmd
}
