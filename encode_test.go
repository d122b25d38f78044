package savetrack

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// mapFiles is an in-memory Files.
type mapFiles map[string][]byte

func (m mapFiles) ReadFile(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m mapFiles) WriteFile(name string, data []byte) error {
	m[name] = append([]byte(nil), data...)
	return nil
}

func TestFolderBackend_EmptyFolder(t *testing.T) {
	d, err := NewFolderBackend(mapFiles{}).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(d.Entries)+len(d.Goals)+len(d.Categories)+len(d.Templates) != 0 {
		t.Errorf("Load() of an empty folder = %+v, want empty", d)
	}
}

func TestFolderBackend_Roundtrip(t *testing.T) {
	files := mapFiles{}
	b := NewFolderBackend(files)

	doc := exportFixture(t)
	entries := doc.Entries
	want := &Dataset{
		Entries:    entries,
		Goals:      doc.Goals,
		Categories: doc.Categories,
		Templates:  []EntryTemplate{NewEntryTemplate("Coffee", dec("3.50"), OtherID, "home brew", testNow)},
		Streak:     ComputeStreak(entries, Streak{}, testNow),
	}
	if err := b.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := strings.Count(string(files[entriesFilename]), "\n"); got != len(entries) {
		t.Errorf("%s has %d lines, want %d", entriesFilename, got, len(entries))
	}

	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got, cmpOpts...); diff != "" {
		t.Errorf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestFolderBackend_Corrupted(t *testing.T) {
	files := mapFiles{
		entriesFilename: []byte(`{"id":"11111111-1111-1111-1111-111111111111","amount":"1","timestamp":"2025-10-16T12:00:00Z"}` + "\n{oops\n"),
	}
	_, err := NewFolderBackend(files).Load()
	if err == nil || !strings.Contains(err.Error(), entriesFilename+":2") {
		t.Errorf("Load() error = %v, want a format error on line 2", err)
	}
}
