package savetrack

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ChangeKind identifies a store mutation.
type ChangeKind int

const (
	EntryAdded ChangeKind = iota
	EntryUpdated
	EntryDeleted
	GoalsSaved
	GoalDeleted
	CategoryAdded
	CategoryDeleted
	TemplateSaved
	TemplateDeleted
	StreakSaved
	DataImported
)

func (k ChangeKind) String() string {
	return [...]string{
		"entry-added", "entry-updated", "entry-deleted",
		"goals-saved", "goal-deleted",
		"category-added", "category-deleted",
		"template-saved", "template-deleted",
		"streak-saved", "data-imported",
	}[k]
}

// Change is sent to subscribers after a successful mutation.
type Change struct {
	Kind ChangeKind
	ID   uuid.UUID // the mutated item, if any
}

type subscriber struct {
	id int
	fn func(Change)
}

// Store holds the tracked data in memory and writes every mutation through
// its Backend. It is safe for concurrent use.
type Store struct {
	backend Backend
	now     func() time.Time

	mu          sync.RWMutex
	data        *Dataset
	subscribers []subscriber
	nextID      int
}

// NewStore loads the backend's dataset. The default categories are seeded
// when the store has none. A nil now uses the wall clock.
func NewStore(backend Backend, now func() time.Time) (*Store, error) {
	if now == nil {
		now = time.Now
	}
	data, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("cannot load data: %w", err)
	}
	s := &Store{backend: backend, now: now, data: data}
	if len(data.Categories) == 0 {
		data.Categories = DefaultCategories(now())
		if err := backend.Save(data); err != nil {
			return nil, fmt.Errorf("cannot seed default categories: %w", err)
		}
	}
	data.normalize()
	return s, nil
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time { return s.now() }

// Subscribe registers fn to be called after each mutation. It returns a
// function that cancels the subscription.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subscribers = append(s.subscribers, subscriber{id, fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subscribers = slices.DeleteFunc(s.subscribers, func(sub subscriber) bool { return sub.id == id })
	}
}

// update applies mutate on a copy of the data, persists it and only then
// makes it visible and notifies subscribers.
func (s *Store) update(change Change, mutate func(d *Dataset) error) error {
	s.mu.Lock()
	next := s.data.clone()
	if err := mutate(next); err != nil {
		s.mu.Unlock()
		return err
	}
	next.normalize()
	if err := s.backend.Save(next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("cannot save data: %w", err)
	}
	s.data = next
	subscribers := slices.Clone(s.subscribers)
	s.mu.Unlock()

	for _, sub := range subscribers {
		sub.fn(change)
	}
	return nil
}

// Entries returns all entries, most recent first.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Entries)
}

// Goals returns all goals, most recently created first.
func (s *Store) Goals() []Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Goals)
}

// Categories returns default categories first, then custom ones by name.
func (s *Store) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Categories)
}

func (s *Store) Templates() []EntryTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Templates)
}

func (s *Store) Streak() Streak {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Streak.clone()
}

// Snapshot returns a consistent copy of the data, formatted in currency.
func (s *Store) Snapshot(currency string) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := s.data.clone()
	return Snapshot{
		Entries:    d.Entries,
		Goals:      d.Goals,
		Categories: d.Categories,
		Streak:     d.Streak,
		Currency:   currency,
	}
}

// Entry returns the entry with id.
func (s *Store) Entry(id uuid.UUID) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.data.Entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return Entry{}, fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	return s.data.Entries[i], nil
}

// Goal returns the goal with id.
func (s *Store) Goal(id uuid.UUID) (Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.data.Goals, func(g Goal) bool { return g.ID == id })
	if i < 0 {
		return Goal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	return s.data.Goals[i], nil
}

// Template returns the template with id.
func (s *Store) Template(id uuid.UUID) (EntryTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.data.Templates, func(t EntryTemplate) bool { return t.ID == id })
	if i < 0 {
		return EntryTemplate{}, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return s.data.Templates[i], nil
}

// AddEntry stores a new entry.
func (s *Store) AddEntry(e Entry) error {
	_, err := s.CreditEntry(e, nil)
	return err
}

// CreditEntry stores a new entry and, in the same write, replaces every goal
// for which credit reports a change. It returns the changed goals. Either
// both the entry and the goals are saved, or nothing is.
func (s *Store) CreditEntry(e Entry, credit func(Goal) (Goal, bool)) ([]Goal, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	var credited []Goal
	err := s.update(Change{EntryAdded, e.ID}, func(d *Dataset) error {
		if slices.ContainsFunc(d.Entries, func(x Entry) bool { return x.ID == e.ID }) {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidEntry, e.ID)
		}
		d.Entries = append(d.Entries, e)
		if credit == nil {
			return nil
		}
		for i, g := range d.Goals {
			next, changed := credit(g)
			if !changed {
				continue
			}
			if err := next.Validate(); err != nil {
				return err
			}
			d.Goals[i] = next
			credited = append(credited, next)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return credited, nil
}

// UpdateEntry replaces an existing entry. Its creation time is kept and its
// update time is set to now.
func (s *Store) UpdateEntry(e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return s.update(Change{EntryUpdated, e.ID}, func(d *Dataset) error {
		i := slices.IndexFunc(d.Entries, func(x Entry) bool { return x.ID == e.ID })
		if i < 0 {
			return fmt.Errorf("entry %s: %w", e.ID, ErrNotFound)
		}
		e.CreatedAt = d.Entries[i].CreatedAt
		e.UpdatedAt = s.now()
		d.Entries[i] = e
		return nil
	})
}

func (s *Store) DeleteEntry(id uuid.UUID) error {
	return s.update(Change{EntryDeleted, id}, func(d *Dataset) error {
		n := len(d.Entries)
		d.Entries = slices.DeleteFunc(d.Entries, func(x Entry) bool { return x.ID == id })
		if len(d.Entries) == n {
			return fmt.Errorf("entry %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// SaveGoals inserts or replaces goals in a single write.
func (s *Store) SaveGoals(goals ...Goal) error {
	for _, g := range goals {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	var id uuid.UUID
	if len(goals) == 1 {
		id = goals[0].ID
	}
	return s.update(Change{GoalsSaved, id}, func(d *Dataset) error {
		for _, g := range goals {
			if i := slices.IndexFunc(d.Goals, func(x Goal) bool { return x.ID == g.ID }); i >= 0 {
				d.Goals[i] = g
			} else {
				d.Goals = append(d.Goals, g)
			}
		}
		return nil
	})
}

func (s *Store) DeleteGoal(id uuid.UUID) error {
	return s.update(Change{GoalDeleted, id}, func(d *Dataset) error {
		n := len(d.Goals)
		d.Goals = slices.DeleteFunc(d.Goals, func(x Goal) bool { return x.ID == id })
		if len(d.Goals) == n {
			return fmt.Errorf("goal %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// AddCategory stores a custom category.
func (s *Store) AddCategory(c Category) error {
	if c.ID == uuid.Nil || c.Name == "" {
		return fmt.Errorf("%w: missing id or name", ErrInvalidCategory)
	}
	c.IsCustom, c.IsDefault = true, false
	return s.update(Change{CategoryAdded, c.ID}, func(d *Dataset) error {
		if slices.ContainsFunc(d.Categories, func(x Category) bool { return x.ID == c.ID }) {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidCategory, c.ID)
		}
		d.Categories = append(d.Categories, c)
		return nil
	})
}

// DeleteCategory removes a custom category. Entries referencing it are kept.
func (s *Store) DeleteCategory(id uuid.UUID) error {
	return s.update(Change{CategoryDeleted, id}, func(d *Dataset) error {
		i := slices.IndexFunc(d.Categories, func(x Category) bool { return x.ID == id })
		switch {
		case i < 0:
			return fmt.Errorf("category %s: %w", id, ErrNotFound)
		case !d.Categories[i].IsCustom:
			return fmt.Errorf("category %q: %w", d.Categories[i].Name, ErrDefaultCategory)
		}
		d.Categories = slices.Delete(d.Categories, i, i+1)
		return nil
	})
}

func (s *Store) SaveTemplate(t EntryTemplate) error {
	if t.ID == uuid.Nil || t.Name == "" || t.Amount.IsNegative() {
		return fmt.Errorf("%w: invalid template %q", ErrInvalidEntry, t.Name)
	}
	return s.update(Change{TemplateSaved, t.ID}, func(d *Dataset) error {
		if i := slices.IndexFunc(d.Templates, func(x EntryTemplate) bool { return x.ID == t.ID }); i >= 0 {
			d.Templates[i] = t
		} else {
			d.Templates = append(d.Templates, t)
		}
		return nil
	})
}

func (s *Store) DeleteTemplate(id uuid.UUID) error {
	return s.update(Change{TemplateDeleted, id}, func(d *Dataset) error {
		n := len(d.Templates)
		d.Templates = slices.DeleteFunc(d.Templates, func(x EntryTemplate) bool { return x.ID == id })
		if len(d.Templates) == n {
			return fmt.Errorf("template %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// SaveStreak stores the derived streak.
func (s *Store) SaveStreak(st Streak) error {
	return s.update(Change{Kind: StreakSaved}, func(d *Dataset) error {
		d.Streak = st.clone()
		return nil
	})
}

// Import replaces entries, goals and custom categories with the document's.
// Default categories are kept. The document must have been validated.
func (s *Store) Import(doc *Export) error {
	return s.update(Change{Kind: DataImported}, func(d *Dataset) error {
		d.Entries = slices.Clone(doc.Entries)
		d.Goals = slices.Clone(doc.Goals)
		d.Categories = slices.DeleteFunc(d.Categories, func(c Category) bool { return c.IsCustom })
		for _, c := range doc.Categories {
			if c.IsCustom && !slices.ContainsFunc(d.Categories, func(x Category) bool { return x.ID == c.ID }) {
				d.Categories = append(d.Categories, c)
			}
		}
		return nil
	})
}
