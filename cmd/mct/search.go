package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/timbenroeck/macos-capture-transcripts/internal/config"
	"github.com/timbenroeck/macos-capture-transcripts/internal/index"
	"github.com/timbenroeck/macos-capture-transcripts/internal/parse"
	"github.com/timbenroeck/macos-capture-transcripts/internal/search"
	"github.com/timbenroeck/macos-capture-transcripts/internal/tui"
	"golang.org/x/term"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorBlue    = "\033[1;34m"
	sColorGreen   = "\033[1;32m"
	sColorYellow  = "\033[1;33m"
	sColorDim     = "\033[2m"
)

func colorizeSource(source string) string {
	switch source {
	case parse.SourceTeams:
		return sColorBlue + source + sColorReset
	case parse.SourceZoom:
		return sColorGreen + source + sColorReset
	case parse.SourceWebex:
		return sColorYellow + source + sColorReset
	default:
		return source
	}
}

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

func tsvField(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func searchCmd() *cobra.Command {
	var source, speaker, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across converted transcripts",
		Long: `Search archived transcripts using FTS5. Output is TSV for fzf integration:
  transcriptKey, blockId, convertedAt, source, speaker, snippet

Recommended shell function (add to .zshrc):
  mctf() {
    mct search "$*" | fzf \
      --ansi \
      --delimiter='\t' --with-nth=3.. \
      --preview 'mct preview {1} --hit {2} --context 5 --query {q}' \
      --preview-window=right:60%:wrap \
      --bind 'enter:execute(mct open {1} --hit {2})'
  }`,
		Args: cobra.ExactArgs(1),
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

			opts := search.Options{
				Source:  source,
				Speaker: speaker,
				Since:   since,
				Limit:   limit,
			}

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, args[0], opts)
			}

			opts.Query = args[0]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			for _, r := range results {
				who := r.Speaker
				if who == "" {
					who = "-"
				}
				// first two fields (key, blockID) stay plain for fzf {1} {2}
				fmt.Printf("%s\t%d\t%s%s%s\t%s\t%s\t%s\n",
					r.Key,
					r.BlockID,
					sColorDim, r.ConvertedAt, sColorReset,
					colorizeSource(r.Source),
					tsvField(who),
					colorizeSnippet(tsvField(r.Snippet)),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Filter by source (teams/zoom/webex/canonical)")
	cmd.Flags().StringVar(&speaker, "speaker", "", "Filter by speaker name")
	cmd.Flags().StringVar(&since, "since", "", "Filter transcripts converted since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
