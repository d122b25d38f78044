package savetrack

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is a consistent view of the tracked data. Insights and analytics
// are pure functions of a snapshot and a reference time.
type Snapshot struct {
	Entries    []Entry
	Goals      []Goal
	Categories []Category
	Streak     Streak
	Currency   string
}

// Category returns the category with id.
func (s Snapshot) Category(id uuid.UUID) (Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Money formats an amount in the snapshot currency.
func (s Snapshot) Money(amount decimal.Decimal) Money { return M(amount, s.Currency) }

// Total returns the amount saved across all entries.
func (s Snapshot) Total() decimal.Decimal { return total(s.Entries) }

// Today returns the entries logged on the same day as now.
func (s Snapshot) Today(now time.Time) []Entry {
	return entriesOn(s.Entries, DateOf(now))
}

func entriesOn(entries []Entry, day Date) []Entry {
	var on []Entry
	for _, e := range entries {
		if e.Day() == day {
			on = append(on, e)
		}
	}
	return on
}

// entriesSince returns entries with from <= timestamp <= now.
func entriesSince(entries []Entry, from, now time.Time) []Entry {
	var in []Entry
	for _, e := range entries {
		if !e.Timestamp.Before(from) && !e.Timestamp.After(now) {
			in = append(in, e)
		}
	}
	return in
}

func total(entries []Entry) decimal.Decimal {
	t := decimal.Zero
	for _, e := range entries {
		t = t.Add(e.Amount)
	}
	return t
}
