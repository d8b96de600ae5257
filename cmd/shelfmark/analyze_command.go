package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"shelfmark/internal/batch"
	"shelfmark/internal/detect"
	"shelfmark/internal/library"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		inputPath     string
		minConfidence int
		delayMS       int
		quiet         bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run series detection across the whole collection",
		Long: `Analyze every book in the library (or a JSON file of book records) and
report how many belong to series. A single failing book is recorded and
skipped; the batch always completes.

Examples:
  shelfmark analyze
  shelfmark analyze --input books.json
  shelfmark analyze --min-confidence 85 --quiet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			cat, err := ctx.ensureCatalog()
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			var books []detect.Book
			if inputPath != "" {
				books, err = loadBooksFile(inputPath)
				if err != nil {
					return err
				}
			} else {
				store, openErr := library.Open(cfg)
				if openErr != nil {
					return fmt.Errorf("open library: %w", openErr)
				}
				defer store.Close()
				stored, listErr := store.List(cmd.Context())
				if listErr != nil {
					return listErr
				}
				for _, book := range stored {
					books = append(books, book.DetectInput())
				}
			}

			detector := detect.NewDetector(cat,
				detect.WithThreshold(cfg.Detection.MaskThreshold),
				detect.WithLogger(logger),
			)
			orchestrator := batch.New(detector, logger)

			out := cmd.OutOrStdout()
			opts := batch.Options{
				Delay: time.Duration(cfg.Batch.DelayMS) * time.Millisecond,
			}
			if cmd.Flags().Changed("min-confidence") {
				opts.MinConfidence = minConfidence
			}
			if cmd.Flags().Changed("delay-ms") {
				opts.Delay = time.Duration(delayMS) * time.Millisecond
			}
			if !quiet {
				opts.OnProgress = func(current, total, percent int) {
					fmt.Fprintf(out, "\ranalyzing %d/%d (%d%%)", current, total, percent)
					if current == total {
						fmt.Fprintln(out)
					}
				}
			}

			summary := orchestrator.Run(cmd.Context(), books, opts)

			fmt.Fprintf(out, "Run:        %s\n", summary.RunID)
			fmt.Fprintf(out, "Analyzed:   %d\n", summary.BooksAnalyzed)
			fmt.Fprintf(out, "Series:     %d\n", summary.SeriesDetected)
			fmt.Fprintf(out, "Standalone: %d\n", summary.StandaloneBooks)
			fmt.Fprintf(out, "Errors:     %d\n", summary.Errors)
			fmt.Fprintf(out, "Elapsed:    %s\n", summary.Elapsed.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "JSON file of book records instead of the library")
	cmd.Flags().IntVar(&minConfidence, "min-confidence", 0, "Override the configured mask threshold")
	cmd.Flags().IntVar(&delayMS, "delay-ms", 0, "Override the configured inter-book delay")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress per-book progress output")
	return cmd
}

func loadBooksFile(path string) ([]detect.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file %s: %w", path, err)
	}
	var records []library.ImportRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse input file %s: %w", path, err)
	}
	books := make([]detect.Book, 0, len(records))
	for _, record := range records {
		books = append(books, detect.Book{
			Title:    record.Title,
			Author:   record.Author,
			Category: record.Category,
			Series:   record.Series,
			Volume:   record.Volume,
		})
	}
	return books, nil
}
