package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shelfmark/internal/detect"
	"shelfmark/internal/grouping"
	"shelfmark/internal/library"
)

func newShelfCommand(ctx *commandContext) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "Show the library grouped by detected series",
		Long: `Render the collection view: books grouped under their detected series with
read progress, followed by standalone books. Books absorbed into a series
group are hidden unless --all is given.`,
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

			store, err := library.Open(cfg)
			if err != nil {
				return fmt.Errorf("open library: %w", err)
			}
			defer store.Close()

			books, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			states, err := store.ReadStates(cmd.Context())
			if err != nil {
				return err
			}

			inputs := make([]detect.Book, 0, len(books))
			for _, book := range books {
				inputs = append(inputs, book.DetectInput())
			}

			detector := detect.NewDetector(cat,
				detect.WithThreshold(cfg.Detection.MaskThreshold),
				detect.WithLogger(logger),
			)
			partition := grouping.Run(inputs, detector, func(book detect.Book) bool {
				return states[library.StateKey(book.Title, book.Author)]
			})

			out := cmd.OutOrStdout()
			tty := stdoutIsTerminal()

			if len(partition.Groups) > 0 {
				headers := []string{"Series", "Books", "Read", "Progress"}
				rows := make([][]string, 0, len(partition.Groups))
				for _, group := range partition.Groups {
					rows = append(rows, []string{
						group.DisplayName,
						strconv.Itoa(group.TotalCount),
						strconv.Itoa(group.ReadCount),
						completionBar(group.CompletionPercent, 8),
					})
				}
				fmt.Fprintln(out, colorize(ansiGreen, "Series", tty))
				fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignRight, alignRight, alignLeft}))

				if showAll {
					for _, group := range partition.Groups {
						fmt.Fprintf(out, "%s:\n", group.DisplayName)
						for _, member := range group.Members {
							fmt.Fprintf(out, "  - %s\n", member)
						}
					}
					fmt.Fprintln(out)
				}
			}

			if len(partition.Standalone) > 0 {
				headers := []string{"Title", "Author", "Read"}
				rows := make([][]string, 0, len(partition.Standalone))
				for _, item := range partition.Standalone {
					rows = append(rows, []string{
						item.Book.Title,
						item.Book.Author,
						yesNo(states[library.StateKey(item.Book.Title, item.Book.Author)]),
					})
				}
				fmt.Fprintln(out, colorize(ansiYellow, "Standalone", tty))
				fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignLeft}))
			}

			if len(partition.Groups) == 0 && len(partition.Standalone) == 0 {
				fmt.Fprintln(out, "Library is empty. Add books with `shelfmark library add`.")
				return nil
			}

			masked := 0
			for _, r := range partition.Results {
				if r.Hidden {
					masked++
				}
			}
			fmt.Fprintf(out, "%s\n", colorize(ansiDim,
				fmt.Sprintf("%d book(s) masked into %d series; %d standalone", masked, len(partition.Groups), len(partition.Standalone)),
				tty))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "List the books inside each series group")
	return cmd
}
