package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shelfmark/internal/library"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the book library",
	}

	libraryCmd.AddCommand(newLibraryAddCommand(ctx))
	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibraryImportCommand(ctx))
	libraryCmd.AddCommand(newLibraryReadCommand(ctx))

	return libraryCmd
}

func withStore(ctx *commandContext, fn func(*library.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	store, err := library.Open(cfg)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newLibraryAddCommand(ctx *commandContext) *cobra.Command {
	var (
		author   string
		category string
		series   string
		volume   int
		read     bool
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a book to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *library.Store) error {
				book, err := store.Add(cmd.Context(), library.Book{
					Title:    args[0],
					Author:   author,
					Category: category,
					Series:   series,
					Volume:   volume,
					Read:     read,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q (id %d)\n", book.Title, book.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Book author")
	cmd.Flags().StringVar(&category, "category", "", "Book category (novel, comic, manga)")
	cmd.Flags().StringVar(&series, "series", "", "Explicit series name from the source record")
	cmd.Flags().IntVar(&volume, "volume", 0, "Volume number")
	cmd.Flags().BoolVar(&read, "read", false, "Mark the book as already read")
	return cmd
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every book in the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *library.Store) error {
				books, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(books) == 0 {
					fmt.Fprintln(out, "Library is empty")
					return nil
				}

				headers := []string{"ID", "Title", "Author", "Category", "Series", "Vol", "Read"}
				rows := make([][]string, 0, len(books))
				for _, book := range books {
					volume := ""
					if book.Volume > 0 {
						volume = strconv.Itoa(book.Volume)
					}
					rows = append(rows, []string{
						strconv.FormatInt(book.ID, 10),
						book.Title,
						book.Author,
						book.Category,
						book.Series,
						volume,
						yesNo(book.Read),
					})
				}
				fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{
					alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft,
				}))
				return nil
			})
		},
	}
}

func newLibraryImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import books from a JSON file",
		Long: `Import book records from a JSON array file. Each record carries a title
plus optional author, category, series, volume, and read fields. Records
without a title are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *library.Store) error {
				result, err := store.ImportJSON(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d book(s), skipped %d\n", result.Imported, result.Skipped)
				return nil
			})
		},
	}
}

func newLibraryReadCommand(ctx *commandContext) *cobra.Command {
	var (
		author string
		unread bool
	)

	cmd := &cobra.Command{
		Use:   "read <title>",
		Short: "Mark a book as read",
		Long: `Mark every copy of a book as read (or unread with --unread). Titles and
authors are compared loosely: accents, case, and punctuation are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *library.Store) error {
				updated, err := store.MarkRead(cmd.Context(), args[0], author, !unread)
				if err != nil {
					return err
				}
				state := "read"
				if unread {
					state = "unread"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %d book(s) as %s\n", updated, state)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Book author")
	cmd.Flags().BoolVar(&unread, "unread", false, "Clear the read flag instead of setting it")
	return cmd
}
