package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var flags convertFlags

	rootCmd := &cobra.Command{
		Use:   "mct <path>",
		Short: "macOS Capture Transcripts - rebuild meeting transcripts from caption snapshots",
		Long: `Convert captured caption snapshots into a plain-text transcript.

A directory of timestamped snapshots is reconciled into speaker paragraphs;
a single file is rendered as a timestamped full history.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runConvert(cmd, args[0], flags)
		},
	}
	flags.register(rootCmd)

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
