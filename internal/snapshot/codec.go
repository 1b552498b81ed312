package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"

	"shelf/internal/catalog"
)

var fileAPI = jsoniter.Config{
	IndentionStep: 4,
	EscapeHTML:    false,
	CaseSensitive: true,
}.Froze()

// fileRecord fixes the on-disk field order.
type fileRecord struct {
	BookID   string `json:"book_id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Year     int    `json:"year"`
	Copies   int    `json:"copies"`
	Borrowed int    `json:"borrowed"`
}

// wireRecord distinguishes absent fields from zero values while decoding.
type wireRecord struct {
	BookID   *string `json:"book_id"`
	Title    *string `json:"title"`
	Author   *string `json:"author"`
	Year     *int    `json:"year"`
	Copies   *int    `json:"copies"`
	Borrowed *int    `json:"borrowed"`
}

func (w wireRecord) record(key string) (catalog.Record, error) {
	missing := func(name string) error {
		return fmt.Errorf("%w: entry %q is missing %q", ErrMalformed, key, name)
	}
	switch {
	case w.BookID == nil:
		return catalog.Record{}, missing("book_id")
	case w.Title == nil:
		return catalog.Record{}, missing("title")
	case w.Author == nil:
		return catalog.Record{}, missing("author")
	case w.Year == nil:
		return catalog.Record{}, missing("year")
	case w.Copies == nil:
		return catalog.Record{}, missing("copies")
	}
	for name, value := range map[string]string{"book_id": *w.BookID, "title": *w.Title, "author": *w.Author} {
		if !utf8.ValidString(value) {
			return catalog.Record{}, fmt.Errorf("%w: entry %q has invalid UTF-8 in %q", ErrMalformed, key, name)
		}
	}
	if *w.BookID != key {
		return catalog.Record{}, fmt.Errorf("%w: entry %q has book_id %q", ErrMalformed, key, *w.BookID)
	}

	rec := catalog.Record{
		ID:     key,
		Title:  *w.Title,
		Author: *w.Author,
		Year:   *w.Year,
		Copies: *w.Copies,
	}
	if w.Borrowed != nil {
		rec.Borrowed = *w.Borrowed
	}
	if err := rec.Validate(); err != nil {
		return catalog.Record{}, fmt.Errorf("%w: entry %q: %v", ErrMalformed, key, err)
	}
	return rec, nil
}

func encodeRecords(records []catalog.Record) ([]byte, error) {
	stream := jsoniter.NewStream(fileAPI, nil, 512)
	if len(records) == 0 {
		stream.WriteEmptyObject()
	} else {
		stream.WriteObjectStart()
		for i, rec := range records {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(rec.ID)
			stream.WriteVal(fileRecord{
				BookID:   rec.ID,
				Title:    rec.Title,
				Author:   rec.Author,
				Year:     rec.Year,
				Copies:   rec.Copies,
				Borrowed: rec.Borrowed,
			})
		}
		stream.WriteObjectEnd()
	}
	stream.WriteRaw("\n")
	if stream.Error != nil {
		return nil, fmt.Errorf("encode snapshot: %w", stream.Error)
	}
	return bytes.Clone(stream.Buffer()), nil
}

func decodeRecords(data []byte) ([]catalog.Record, error) {
	if !fileAPI.Valid(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrMalformed)
	}

	iter := jsoniter.ParseBytes(fileAPI, data)
	if next := iter.WhatIsNext(); next != jsoniter.ObjectValue {
		return nil, fmt.Errorf("%w: top-level value must be an object", ErrMalformed)
	}

	records := make([]catalog.Record, 0)
	seen := make(map[string]struct{})
	var entryErr error
	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		if !utf8.ValidString(key) {
			entryErr = fmt.Errorf("%w: entry key %q is not valid UTF-8", ErrMalformed, key)
			return false
		}
		if _, dup := seen[key]; dup {
			entryErr = fmt.Errorf("%w: duplicate entry %q", ErrMalformed, key)
			return false
		}
		seen[key] = struct{}{}
		var w wireRecord
		it.ReadVal(&w)
		if it.Error != nil {
			return false
		}
		rec, err := w.record(key)
		if err != nil {
			entryErr = err
			return false
		}
		records = append(records, rec)
		return true
	})
	if entryErr != nil {
		return nil, entryErr
	}
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, iter.Error)
	}
	// Valid only checks the first value; anything but EOF after it is junk.
	iter.WhatIsNext()
	if !errors.Is(iter.Error, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected content after top-level object", ErrMalformed)
	}
	return records, nil
}
