package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelfmark/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the series catalog",
	}

	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogSearchCommand(ctx))

	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var (
		categoryFilter string
		authorFilter   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog series",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.ensureCatalog()
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			series := cat.Entries()
			if categoryFilter != "" {
				series = cat.ByCategory(catalog.Category(strings.ToLower(categoryFilter)))
			}
			if authorFilter != "" {
				series = intersectByAuthor(series, cat.ByAuthor(authorFilter))
			}

			writeSeriesTable(cmd, series)
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryFilter, "category", "", "Only series in this category (novel, comic, manga)")
	cmd.Flags().StringVar(&authorFilter, "author", "", "Only series whose author matches this fragment")
	return cmd
}

func newCatalogSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog by name, author, or keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.ensureCatalog()
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			matches := cat.Search(args[0])
			if len(matches) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No series matching %q\n", args[0])
				return nil
			}
			writeSeriesTable(cmd, matches)
			return nil
		},
	}
}

func writeSeriesTable(cmd *cobra.Command, series []catalog.Series) {
	out := cmd.OutOrStdout()
	if len(series) == 0 {
		fmt.Fprintln(out, "No series found")
		return
	}

	headers := []string{"Name", "Category", "Volumes", "Status", "Authors"}
	rows := make([][]string, 0, len(series))
	for _, s := range series {
		volumes := ""
		if s.Volumes > 0 {
			volumes = strconv.Itoa(s.Volumes)
		}
		rows = append(rows, []string{
			s.Name,
			string(s.Category),
			volumes,
			string(s.Status),
			strings.Join(s.Authors, ", "),
		})
	}
	fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft}))
}

func intersectByAuthor(base, byAuthor []catalog.Series) []catalog.Series {
	allowed := make(map[string]struct{}, len(byAuthor))
	for _, s := range byAuthor {
		allowed[s.Name] = struct{}{}
	}
	filtered := make([]catalog.Series, 0, len(base))
	for _, s := range base {
		if _, ok := allowed[s.Name]; ok {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
