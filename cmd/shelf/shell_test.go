package main

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"shelf/internal/catalog"
	"shelf/internal/testsupport"
)

func TestShellAddBorrowSave(t *testing.T) {
	env := setupCLITestEnv(t)

	input := lines(
		"1", "b1", "Dune", "Frank Herbert", "1965", "2",
		"3", "b1",
		"3", "b1",
		"3", "b1",
		"4", "b1",
		"7",
	)
	out, _, err := env.run(t, input)
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	requireContains(t, out, "Added book: Dune [b1]")
	requireContains(t, out, "Borrowed: Dune (1 left)")
	requireContains(t, out, "Borrowed: Dune (0 left)")
	requireContains(t, out, "No copies available.")
	requireContains(t, out, "Returned: Dune (1 available)")
	requireContains(t, out, "Data saved")

	store := testsupport.MustLoadStore(t, env.cfg)
	rec, ok := store.Get("b1")
	if !ok {
		t.Fatal("expected b1 to be saved")
	}
	want := catalog.Record{ID: "b1", Title: "Dune", Author: "Frank Herbert", Year: 1965, Copies: 2, Borrowed: 1}
	if rec != want {
		t.Fatalf("saved record = %+v, want %+v", rec, want)
	}
}

func TestShellRejectsNonIntegerInput(t *testing.T) {
	env := setupCLITestEnv(t)

	input := lines(
		"1", "b1", "Dune", "Herbert", "nineteen sixty-five",
		"1", "b2", "Emma", "Austen", "1815", "-1",
		"5",
		"7",
	)
	out, _, err := env.run(t, input)
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	if got := strings.Count(out, "Invalid input."); got != 2 {
		t.Fatalf("expected two invalid input notices, got %d:\n%s", got, out)
	}
	requireContains(t, out, "No books in library.")

	if store := testsupport.MustLoadStore(t, env.cfg); store.Len() != 0 {
		t.Fatalf("expected no records after rejected input, got %d", store.Len())
	}
}

func TestShellInvalidChoiceRedisplaysMenu(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, lines("9", "", "7"))
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	if got := strings.Count(out, "Invalid choice. Try again."); got != 2 {
		t.Fatalf("expected two invalid choice notices, got %d", got)
	}
	if got := strings.Count(out, "1. Add new book"); got != 3 {
		t.Fatalf("expected menu shown three times, got %d", got)
	}
}

func TestShellDuplicateAndUnknownIDs(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedData(t, env.cfg,
		catalog.Record{ID: "b1", Title: "Dune", Author: "Herbert", Year: 1965, Copies: 1},
	)

	input := lines(
		"1", "b1", "Other", "Someone", "2000", "1",
		"3", "nope",
		"4", "b1",
		"7",
	)
	out, _, err := env.run(t, input)
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	requireContains(t, out, "A book with that ID already exists.")
	requireContains(t, out, "Book not found.")
	requireContains(t, out, "No borrowed copies to return.")

	rec, _ := testsupport.MustLoadStore(t, env.cfg).Get("b1")
	if rec.Title != "Dune" {
		t.Fatalf("duplicate add overwrote record: %+v", rec)
	}
}

func TestShellSearchListAndStats(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedData(t, env.cfg,
		catalog.Record{ID: "b1", Title: "Dune", Author: "Frank Herbert", Year: 1965, Copies: 2, Borrowed: 1},
		catalog.Record{ID: "b2", Title: "Foundation", Author: "Isaac Asimov", Year: 1951, Copies: 3},
	)

	input := lines(
		"2", "HERBERT",
		"2", "tolkien",
		"5",
		"6",
		"7",
	)
	out, _, err := env.run(t, input)
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	requireContains(t, out, "Search results")
	requireContains(t, out, "No matching books found.")
	requireContains(t, out, "Library Books")
	requireContains(t, out, "Foundation")
	requireContains(t, out, "Statistics")
	requireContains(t, out, "Total copies")

	for _, want := range []string{"│ Total copies     │     5 │", "│ Borrowed copies  │     1 │", "│ Available copies │     4 │"} {
		requireContains(t, out, want)
	}
}

func TestShellEndOfInputDoesNotSave(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedData(t, env.cfg,
		catalog.Record{ID: "b1", Title: "Dune", Author: "Herbert", Year: 1965, Copies: 2},
	)

	out, _, err := env.run(t, lines("3", "b1"))
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	requireContains(t, out, "Borrowed: Dune")
	requireContains(t, out, "exiting without saving")

	rec, _ := testsupport.MustLoadStore(t, env.cfg).Get("b1")
	if rec.Borrowed != 0 {
		t.Fatalf("expected unsaved loan to be discarded, got borrowed=%d", rec.Borrowed)
	}
}

func TestShellEndOfInputOnFirstRunLeavesNoFile(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := env.run(t, "", "shell"); err != nil {
		t.Fatalf("shell: %v", err)
	}
	if _, err := os.Stat(env.cfg.Storage.Path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no data file, got %v", err)
	}
}

func TestShellGeneratesEmptyID(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := env.run(t, lines("1", "", "Dune", "Herbert", "1965", "1", "7")); err != nil {
		t.Fatalf("shell: %v", err)
	}

	store := testsupport.MustLoadStore(t, env.cfg)
	if store.Len() != 1 {
		t.Fatalf("expected one record, got %d", store.Len())
	}
	for rec := range store.All() {
		if _, err := uuid.Parse(rec.ID); err != nil {
			t.Fatalf("expected generated uuid, got %q", rec.ID)
		}
	}
}

func TestShellKeepsIDsAndKeywordsAsTyped(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedData(t, env.cfg,
		catalog.Record{ID: " b1", Title: "Dune", Author: "Herbert", Year: 1965, Copies: 1},
		catalog.Record{ID: "b2", Title: "War and Peace", Author: "Tolstoy", Year: 1869, Copies: 1},
		catalog.Record{ID: "", Title: "Untitled", Author: "Anon", Year: 2000, Copies: 1},
	)

	input := lines(
		"3", " b1",
		"3", "b1",
		"3", "",
		"1", "  ", " Emma", "Austen ", "1815", "1",
		"2", " ",
		"7",
	)
	out, _, err := env.run(t, input)
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	requireContains(t, out, "Borrowed: Dune (0 left)")
	requireContains(t, out, "Book not found.")
	requireContains(t, out, "Borrowed: Untitled (0 left)")
	requireContains(t, out, "Added book:  Emma [  ]")
	_, results, found := strings.Cut(out, "Search results")
	if !found {
		t.Fatalf("expected search results section:\n%s", out)
	}
	requireContains(t, results, "War and Peace")
	requireContains(t, results, "Austen")
	for _, unexpected := range []string{"Untitled", "Dune"} {
		if strings.Contains(results, unexpected) {
			t.Fatalf("keyword %q should only match text containing a space, got %q in:\n%s", " ", unexpected, results)
		}
	}

	store := testsupport.MustLoadStore(t, env.cfg)
	for _, id := range []string{" b1", ""} {
		if rec, ok := store.Get(id); !ok || rec.Borrowed != 1 {
			t.Fatalf("expected %q to be borrowed once, got %+v (found=%v)", id, rec, ok)
		}
	}
	rec, ok := store.Get("  ")
	if !ok || rec.Title != " Emma" || rec.Author != "Austen " {
		t.Fatalf("expected record stored as typed, got %+v (found=%v)", rec, ok)
	}
}
