package main

import (
	"github.com/spf13/cobra"
	"github.com/timbenroeck/macos-capture-transcripts/internal/config"
	"github.com/timbenroeck/macos-capture-transcripts/internal/index"
	"github.com/timbenroeck/macos-capture-transcripts/internal/open"
)

func openCmd() *cobra.Command {
	var hitBlockID int

	cmd := &cobra.Command{
		Use:   "open <transcriptKey>",
		Short: "Open the converted transcript in $EDITOR at the hit block",
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

			return open.OpenTranscript(db, args[0], hitBlockID)
		},
	}

	cmd.Flags().IntVar(&hitBlockID, "hit", -1, "Block ID to jump to")

	return cmd
}
