package savetrack

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// This file persists a Dataset in a folder, one JSONL file per collection so
// that the data stays human-readable and diff friendly. The streak, being a
// single record, is a plain JSON file.

const (
	entriesFilename    = "entries.jsonl"
	goalsFilename      = "goals.jsonl"
	categoriesFilename = "categories.jsonl"
	templatesFilename  = "templates.jsonl"
	streakFilename     = "streak.json"
)

// Files reads and replaces whole files by name.
type Files interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
}

// FolderBackend is a Backend storing the dataset as files.
type FolderBackend struct {
	files Files
}

func NewFolderBackend(files Files) *FolderBackend { return &FolderBackend{files: files} }

// Load reads every collection. Missing files are empty collections.
func (b *FolderBackend) Load() (*Dataset, error) {
	d := &Dataset{}
	var err error
	if d.Entries, err = decodeFile[Entry](b.files, entriesFilename); err != nil {
		return nil, err
	}
	if d.Goals, err = decodeFile[Goal](b.files, goalsFilename); err != nil {
		return nil, err
	}
	if d.Categories, err = decodeFile[Category](b.files, categoriesFilename); err != nil {
		return nil, err
	}
	if d.Templates, err = decodeFile[EntryTemplate](b.files, templatesFilename); err != nil {
		return nil, err
	}

	data, err := b.files.ReadFile(streakFilename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("load error: cannot read %q: %w", streakFilename, err)
	default:
		if err := json.Unmarshal(data, &d.Streak); err != nil {
			return nil, fmt.Errorf("load error: format error in %q: %w", streakFilename, err)
		}
	}

	for _, e := range d.Entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("load error: %q: %w", entriesFilename, err)
		}
	}
	return d, nil
}

// Save rewrites every collection.
func (b *FolderBackend) Save(d *Dataset) error {
	if err := encodeFile(b.files, entriesFilename, d.Entries); err != nil {
		return err
	}
	if err := encodeFile(b.files, goalsFilename, d.Goals); err != nil {
		return err
	}
	if err := encodeFile(b.files, categoriesFilename, d.Categories); err != nil {
		return err
	}
	if err := encodeFile(b.files, templatesFilename, d.Templates); err != nil {
		return err
	}
	data, err := json.MarshalIndent(d.Streak, "", "  ")
	if err != nil {
		return fmt.Errorf("persist error: cannot marshal streak: %w", err)
	}
	if err := b.files.WriteFile(streakFilename, append(data, '\n')); err != nil {
		return fmt.Errorf("persist error: cannot write %q: %w", streakFilename, err)
	}
	return nil
}

// decodeFile reads a JSONL file, one item per line.
func decodeFile[T any](files Files, filename string) ([]T, error) {
	data, err := files.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load error: cannot read %q: %w", filename, err)
	}

	var items []T
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for i := 1; scanner.Scan(); i++ {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("load error: format error in %s:%d: %w", filename, i, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("load error: cannot scan %q: %w", filename, err)
	}
	return items, nil
}

// encodeFile writes items as JSONL.
func encodeFile[T any](files Files, filename string, items []T) error {
	var buf bytes.Buffer
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("persist error: cannot marshal item of %q: %w", filename, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	if err := files.WriteFile(filename, buf.Bytes()); err != nil {
		return fmt.Errorf("persist error: cannot write %q: %w", filename, err)
	}
	return nil
}
