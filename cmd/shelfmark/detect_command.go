package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shelfmark/internal/detect"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var (
		author        string
		category      string
		explicit      string
		volume        int
		minConfidence int
	)

	cmd := &cobra.Command{
		Use:   "detect <title>",
		Short: "Detect whether a book belongs to a known series",
		Long: `Run series detection for a single book and show how the decision was made.
This command is useful for troubleshooting catalog coverage without touching
the library: it prints the winning strategy, the confidence score, and the
reasons behind the decision.

Examples:
  shelfmark detect "Harry Potter and the Goblet of Fire"
  shelfmark detect "Astérix chez les Bretons" --category comic
  shelfmark detect "Tome 3" --min-confidence 60`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.ensureCatalog()
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			threshold := cfg.Detection.MaskThreshold
			if cmd.Flags().Changed("min-confidence") {
				threshold = minConfidence
			}

			detector := detect.NewDetector(cat,
				detect.WithThreshold(threshold),
				detect.WithLogger(logger),
			)

			book := detect.Book{
				Title:    strings.TrimSpace(args[0]),
				Author:   author,
				Category: category,
				Series:   explicit,
				Volume:   volume,
			}
			result := detector.Detect(book)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:      %s\n", book.Title)
			fmt.Fprintf(out, "Belongs:    %s\n", yesNo(result.Belongs))
			if result.SeriesName != "" {
				fmt.Fprintf(out, "Series:     %s\n", result.SeriesName)
			}
			fmt.Fprintf(out, "Confidence: %d (threshold %d)\n", result.Confidence, threshold)
			fmt.Fprintf(out, "Method:     %s\n", result.Method)
			for _, reason := range result.Reasons {
				fmt.Fprintf(out, "  - %s\n", reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Book author")
	cmd.Flags().StringVar(&category, "category", "", "Book category (novel, comic, manga)")
	cmd.Flags().StringVar(&explicit, "series", "", "Explicit series name from the source record")
	cmd.Flags().IntVar(&volume, "volume", 0, "Volume number from the source record")
	cmd.Flags().IntVar(&minConfidence, "min-confidence", 0, "Override the configured mask threshold")

	return cmd
}
