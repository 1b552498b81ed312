package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"shelf/internal/logging"
)

func newBookCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newAddCommand(ctx),
		newSearchCommand(ctx),
		newBorrowCommand(ctx),
		newReturnCommand(ctx),
		newListCommand(ctx),
		newStatsCommand(ctx),
	}
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var id, title, author string
	var year, copies int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(sess *session) error {
				rec := newRecord(id, title, author, year, copies)
				if err := sess.store.Add(rec); err != nil {
					return fmt.Errorf("add %s: %w", rec.ID, err)
				}
				if err := sess.save(cmd.Context()); err != nil {
					return err
				}
				sess.logger.Info("book added",
					logging.String(logging.FieldEventType, "add"),
					logging.String(logging.FieldBookID, rec.ID),
				)
				newPrinter(cmd.OutOrStdout(), sess.cfg.Display.Color).
					status(statusOK, "Added book: %s [%s]", rec.Title, rec.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Book ID (generated when empty)")
	cmd.Flags().StringVar(&title, "title", "", "Book title")
	cmd.Flags().StringVar(&author, "author", "", "Book author")
	cmd.Flags().IntVar(&year, "year", 0, "Publication year")
	cmd.Flags().IntVar(&copies, "copies", 1, "Number of copies owned")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Find books by title or author",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := ""
			if len(args) == 1 {
				keyword = args[0]
			}
			return ctx.withSession(cmd, func(sess *session) error {
				results := sess.store.Search(keyword)
				if jsonOutput {
					return writeJSON(cmd, bookViews(results))
				}
				p := newPrinter(cmd.OutOrStdout(), sess.cfg.Display.Color)
				if len(results) == 0 {
					p.status(statusWarn, "No matching books found.")
					return nil
				}
				p.println(renderBooks(results))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newBorrowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "borrow <id>",
		Short: "Lend out one copy of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return ctx.withSession(cmd, func(sess *session) error {
				rec, err := sess.store.Lend(id)
				if err != nil {
					return fmt.Errorf("borrow %s: %w", id, err)
				}
				if err := sess.save(cmd.Context()); err != nil {
					return err
				}
				sess.logger.Info("loan updated",
					logging.String(logging.FieldEventType, "borrow"),
					logging.String(logging.FieldBookID, rec.ID),
				)
				newPrinter(cmd.OutOrStdout(), sess.cfg.Display.Color).
					status(statusOK, "Borrowed: %s (%d left)", rec.Title, rec.Available())
				return nil
			})
		},
	}
}

func newReturnCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "return <id>",
		Short: "Take back one lent copy of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return ctx.withSession(cmd, func(sess *session) error {
				rec, err := sess.store.Return(id)
				if err != nil {
					return fmt.Errorf("return %s: %w", id, err)
				}
				if err := sess.save(cmd.Context()); err != nil {
					return err
				}
				sess.logger.Info("loan updated",
					logging.String(logging.FieldEventType, "return"),
					logging.String(logging.FieldBookID, rec.ID),
				)
				newPrinter(cmd.OutOrStdout(), sess.cfg.Display.Color).
					status(statusOK, "Returned: %s (%d available)", rec.Title, rec.Available())
				return nil
			})
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every book with its availability",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(sess *session) error {
				records := slices.Collect(sess.store.All())
				if jsonOutput {
					return writeJSON(cmd, bookViews(records))
				}
				p := newPrinter(cmd.OutOrStdout(), sess.cfg.Display.Color)
				if len(records) == 0 {
					p.status(statusWarn, "No books in library.")
					return nil
				}
				p.println(renderBooks(records))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show copy and loan totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(sess *session) error {
				stats := sess.store.Stats()
				if jsonOutput {
					return writeJSON(cmd, stats)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderStats(stats))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
