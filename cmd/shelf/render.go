package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"shelf/internal/catalog"
	"shelf/internal/config"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// printer writes user-facing lines, coloring them by status when enabled.
type printer struct {
	out      io.Writer
	colorize bool
}

func newPrinter(out io.Writer, mode string) printer {
	return printer{out: out, colorize: shouldColorize(out, mode)}
}

func (p printer) status(kind statusKind, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if p.colorize {
		if color := statusKindColor(kind); color != "" {
			line = color + line + ansiReset
		}
	}
	fmt.Fprintln(p.out, line)
}

func (p printer) println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

func (p printer) section(title string) {
	for _, line := range renderSectionHeader(title, p.colorize) {
		fmt.Fprintln(p.out, line)
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer, mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// describeFailure maps a catalog outcome to the message shown to the user.
func describeFailure(err error) (statusKind, string) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return statusError, "Book not found."
	case errors.Is(err, catalog.ErrNoCopiesAvailable):
		return statusError, "No copies available."
	case errors.Is(err, catalog.ErrNothingToReturn):
		return statusWarn, "No borrowed copies to return."
	case errors.Is(err, catalog.ErrDuplicate):
		return statusWarn, "A book with that ID already exists."
	case errors.Is(err, catalog.ErrInvalidRecord):
		return statusWarn, "Invalid input."
	default:
		return statusError, err.Error()
	}
}

func bookRows(records []catalog.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.ID,
			rec.Title,
			rec.Author,
			strconv.Itoa(rec.Year),
			strconv.Itoa(rec.Copies),
			strconv.Itoa(rec.Available()),
		})
	}
	return rows
}

func renderBooks(records []catalog.Record) string {
	return renderTable(
		[]column{left("ID"), left("Title"), left("Author"), right("Year"), right("Copies"), right("Available")},
		bookRows(records),
	)
}

func renderStats(stats catalog.Stats) string {
	return renderTable(
		[]column{left("Metric"), right("Count")},
		[][]string{
			{"Distinct titles", strconv.Itoa(stats.Titles)},
			{"Total copies", strconv.Itoa(stats.Copies)},
			{"Borrowed copies", strconv.Itoa(stats.Borrowed)},
			{"Available copies", strconv.Itoa(stats.Available)},
		},
	)
}

// bookView is the JSON shape for list and search output.
type bookView struct {
	ID        string `json:"book_id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Year      int    `json:"year"`
	Copies    int    `json:"copies"`
	Borrowed  int    `json:"borrowed"`
	Available int    `json:"available"`
}

func bookViews(records []catalog.Record) []bookView {
	views := make([]bookView, 0, len(records))
	for _, rec := range records {
		views = append(views, bookView{
			ID:        rec.ID,
			Title:     rec.Title,
			Author:    rec.Author,
			Year:      rec.Year,
			Copies:    rec.Copies,
			Borrowed:  rec.Borrowed,
			Available: rec.Available(),
		})
	}
	return views
}
