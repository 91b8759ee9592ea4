package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/timbenroeck/macos-capture-transcripts/internal/config"
	"github.com/timbenroeck/macos-capture-transcripts/internal/convert"
	"github.com/timbenroeck/macos-capture-transcripts/internal/index"
	"github.com/timbenroeck/macos-capture-transcripts/internal/transcript"
)

type convertFlags struct {
	source     string
	out        string
	matcher    string
	threshold  float64
	minOverlap int
	noArchive  bool
	verbose    bool
}

func (f *convertFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.source, "source", "", "Snapshot format (auto/canonical/teams/zoom/webex)")
	cmd.Flags().StringVar(&f.out, "out", "", "Output directory (default from config: converted_transcripts)")
	cmd.Flags().StringVar(&f.matcher, "matcher", "", "Entry matching strategy (exact/fuzzy)")
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "Similarity threshold for the fuzzy matcher")
	cmd.Flags().IntVar(&f.minOverlap, "min-overlap", 0, "Shortest overlap accepted between snapshots")
	cmd.Flags().BoolVar(&f.noArchive, "no-archive", false, "Do not record the conversion in the search archive")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Debug logging")
}

// apply overrides cfg with the flags the user actually set.
func (f *convertFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = f.source
	}
	if flags.Changed("out") {
		cfg.OutputDir = f.out
	}
	if flags.Changed("matcher") {
		cfg.Matcher = f.matcher
	}
	if flags.Changed("threshold") {
		cfg.FuzzyThreshold = f.threshold
	}
	if flags.Changed("min-overlap") {
		cfg.MinOverlap = f.minOverlap
	}
	if f.noArchive {
		cfg.Archive = false
	}
	return cfg.Validate()
}

func convertCmd() *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert <path>",
		Short: "Convert a snapshot directory or a single capture file",
		Long: `Convert a directory of caption snapshots (reconciled into speaker paragraphs)
or a single capture file (full history with timestamps) into a .txt transcript.

Snapshot files are ordered by the YYYY-MM-DD-HH-MM-SS timestamp in their name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runConvert(cmd *cobra.Command, input string, flags convertFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return err
	}
	match, err := transcript.MatcherByName(cfg.Matcher, cfg.FuzzyThreshold)
	if err != nil {
		return err
	}

	logger := newLogger(flags.verbose)
	rep, err := convert.Run(cmd.Context(), input, convert.Options{
		Source:     cfg.Source,
		OutputDir:  cfg.OutputDir,
		Match:      match,
		MinOverlap: cfg.MinOverlap,
		Logger:     logger,
		Progress:   os.Stdout,
	})
	if err != nil {
		return err
	}

	for _, s := range rep.Skipped {
		fmt.Fprintf(os.Stderr, "  skipped %s: %v\n", s.Path, s.Err)
	}
	for _, d := range rep.Discontinuities {
		fmt.Fprintf(os.Stderr, "  gap before %s (transcript entry %d)\n", d.Name, d.Position)
	}

	if cfg.Archive {
		archive(logger, cfg.DBPath, rep)
	}

	fmt.Printf("Wrote %s (%s)\n", rep.OutputPath, rep)
	return nil
}

// archive records rep in the search index. Failures only warn: the text
// file is already written.
func archive(logger *slog.Logger, dbPath string, rep *convert.Report) {
	db, err := index.OpenDB(dbPath)
	if err != nil {
		logger.Warn("archive unavailable", "db", dbPath, "err", err)
		return
	}
	defer db.Close()

	runID, err := index.Save(db, index.Record{
		Source:          rep.Source,
		InputPath:       absPath(rep.InputPath),
		OutputPath:      absPath(rep.OutputPath),
		Document:        rep.Document,
		Snapshots:       rep.Snapshots,
		Skipped:         len(rep.Skipped),
		Discontinuities: len(rep.Discontinuities),
		Entries:         rep.Entries,
	})
	if err != nil {
		logger.Warn("archive failed", "db", dbPath, "err", err)
		return
	}
	logger.Debug("archived", "run_id", runID, "db", dbPath)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
