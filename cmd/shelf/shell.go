package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"shelf/internal/catalog"
	"shelf/internal/logging"
)

const menuText = `
======= Library Menu =======
1. Add new book
2. Search book
3. Borrow book
4. Return book
5. List all books
6. Show statistics
7. Save and exit
============================`

var errInvalidNumber = errors.New("invalid number")

func newShellCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open the interactive library menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, ctx)
		},
	}
}

func runShell(cmd *cobra.Command, ctx *commandContext) error {
	return ctx.withSession(cmd, func(sess *session) error {
		sh := &shell{
			sess: sess,
			in:   bufio.NewScanner(cmd.InOrStdin()),
			out:  newPrinter(cmd.OutOrStdout(), sess.cfg.Display.Color),
		}
		return sh.run(cmd.Context())
	})
}

// shell drives the numbered menu over line-oriented input.
type shell struct {
	sess *session
	in   *bufio.Scanner
	out  printer
}

func (s *shell) run(ctx context.Context) error {
	for {
		s.out.println(menuText)
		choice, err := s.prompt("Enter choice: ")
		if err == nil {
			var done bool
			done, err = s.dispatch(ctx, strings.TrimSpace(choice))
			if done {
				return err
			}
		}
		if errors.Is(err, io.EOF) {
			s.out.status(statusWarn, "End of input; exiting without saving.")
			s.sess.logger.Info("shell closed without saving")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// dispatch runs one menu option. done reports that the session is over.
func (s *shell) dispatch(ctx context.Context, choice string) (done bool, err error) {
	switch choice {
	case "1":
		return false, s.addBook()
	case "2":
		return false, s.searchBooks()
	case "3":
		return false, s.borrowBook()
	case "4":
		return false, s.returnBook()
	case "5":
		s.listBooks()
		return false, nil
	case "6":
		s.showStats()
		return false, nil
	case "7":
		if err := s.sess.save(ctx); err != nil {
			return true, err
		}
		s.out.status(statusOK, "Data saved to %s. Exiting...", s.sess.backend.Path())
		return true, nil
	default:
		s.out.status(statusWarn, "Invalid choice. Try again.")
		return false, nil
	}
}

// prompt writes label and reads one line. io.EOF means input is exhausted.
func (s *shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out.out, label)
	if !s.in.Scan() {
		fmt.Fprintln(s.out.out)
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return s.in.Text(), nil
}

func (s *shell) promptInt(label string) (int, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errInvalidNumber
	}
	return value, nil
}

func (s *shell) addBook() error {
	id, err := s.prompt("Enter book ID (empty to generate): ")
	if err != nil {
		return err
	}
	title, err := s.prompt("Enter title: ")
	if err != nil {
		return err
	}
	author, err := s.prompt("Enter author: ")
	if err != nil {
		return err
	}
	year, err := s.promptInt("Enter year: ")
	if errors.Is(err, errInvalidNumber) {
		s.out.status(statusWarn, "Invalid input.")
		return nil
	}
	if err != nil {
		return err
	}
	copies, err := s.promptInt("Enter number of copies: ")
	if errors.Is(err, errInvalidNumber) {
		s.out.status(statusWarn, "Invalid input.")
		return nil
	}
	if err != nil {
		return err
	}

	rec := newRecord(id, title, author, year, copies)
	if err := s.sess.store.Add(rec); err != nil {
		kind, msg := describeFailure(err)
		s.out.status(kind, "%s", msg)
		s.sess.logger.Debug("add rejected", logging.String(logging.FieldBookID, rec.ID), logging.Error(err))
		return nil
	}
	s.out.status(statusOK, "Added book: %s [%s]", rec.Title, rec.ID)
	s.sess.logger.Info("book added",
		logging.String(logging.FieldEventType, "add"),
		logging.String(logging.FieldBookID, rec.ID),
	)
	return nil
}

func (s *shell) searchBooks() error {
	keyword, err := s.prompt("Enter keyword: ")
	if err != nil {
		return err
	}
	results := s.sess.store.Search(keyword)
	if len(results) == 0 {
		s.out.status(statusWarn, "No matching books found.")
		return nil
	}
	s.out.section("Search results")
	s.out.println(renderBooks(results))
	return nil
}

func (s *shell) borrowBook() error {
	id, err := s.prompt("Enter book ID to borrow: ")
	if err != nil {
		return err
	}
	rec, err := s.sess.store.Lend(id)
	s.reportLoan("borrow", rec, err, "Borrowed: %s (%d left)")
	return nil
}

func (s *shell) returnBook() error {
	id, err := s.prompt("Enter book ID to return: ")
	if err != nil {
		return err
	}
	rec, err := s.sess.store.Return(id)
	s.reportLoan("return", rec, err, "Returned: %s (%d available)")
	return nil
}

func (s *shell) reportLoan(event string, rec catalog.Record, err error, okFormat string) {
	if err != nil {
		kind, msg := describeFailure(err)
		s.out.status(kind, "%s", msg)
		s.sess.logger.Debug(event+" rejected", logging.Error(err))
		return
	}
	s.out.status(statusOK, okFormat, rec.Title, rec.Available())
	s.sess.logger.Info("loan updated",
		logging.String(logging.FieldEventType, event),
		logging.String(logging.FieldBookID, rec.ID),
		logging.Int("available", rec.Available()),
	)
}

func (s *shell) listBooks() {
	s.out.section("Library Books")
	if s.sess.store.Len() == 0 {
		s.out.status(statusWarn, "No books in library.")
		return
	}
	records := make([]catalog.Record, 0, s.sess.store.Len())
	for rec := range s.sess.store.All() {
		records = append(records, rec)
	}
	s.out.println(renderBooks(records))
}

func (s *shell) showStats() {
	s.out.section("Statistics")
	s.out.println(renderStats(s.sess.store.Stats()))
}

// newRecord builds a record from user input as typed, generating an ID when
// none was entered.
func newRecord(id, title, author string, year, copies int) catalog.Record {
	if id == "" {
		id = uuid.NewString()
	}
	return catalog.Record{
		ID:     id,
		Title:  title,
		Author: author,
		Year:   year,
		Copies: copies,
	}
}
