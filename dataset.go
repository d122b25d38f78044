package savetrack

import (
	"cmp"
	"slices"
	"time"
)

// Dataset is everything a Backend persists.
type Dataset struct {
	Entries    []Entry
	Goals      []Goal
	Categories []Category
	Templates  []EntryTemplate
	Streak     Streak
}

// NewDataset returns an empty dataset holding the default categories.
func NewDataset(now time.Time) *Dataset {
	return &Dataset{Categories: DefaultCategories(now)}
}

// normalize sorts every collection in its canonical order.
func (d *Dataset) normalize() {
	slices.SortStableFunc(d.Entries, func(a, b Entry) int { return b.Timestamp.Compare(a.Timestamp) })
	sortGoals(d.Goals)
	sortCategories(d.Categories)
	slices.SortStableFunc(d.Templates, func(a, b EntryTemplate) int { return cmp.Compare(a.Name, b.Name) })
}

func (d *Dataset) clone() *Dataset {
	return &Dataset{
		Entries:    slices.Clone(d.Entries),
		Goals:      slices.Clone(d.Goals),
		Categories: slices.Clone(d.Categories),
		Templates:  slices.Clone(d.Templates),
		Streak:     d.Streak.clone(),
	}
}

// Backend persists a Dataset as a whole.
type Backend interface {
	// Load returns the stored dataset. An empty store loads as an empty
	// dataset, not as an error.
	Load() (*Dataset, error)
	Save(*Dataset) error
}

// MemoryBackend keeps the dataset in memory only.
type MemoryBackend struct {
	data *Dataset
}

func (m *MemoryBackend) Load() (*Dataset, error) {
	if m.data == nil {
		return &Dataset{}, nil
	}
	return m.data.clone(), nil
}

func (m *MemoryBackend) Save(d *Dataset) error {
	m.data = d.clone()
	return nil
}
