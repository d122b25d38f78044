package savetrack

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EntryFilter selects entries for the history view. Zero fields match
// everything.
type EntryFilter struct {
	Search     string      // case-insensitive substring of the note
	Categories []uuid.UUID // any of
	From, To   Date        // inclusive days
}

// Match reports whether e passes the filter.
func (f EntryFilter) Match(e Entry) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(e.Note), strings.ToLower(f.Search)) {
		return false
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, e.CategoryID) {
		return false
	}
	if !f.From.IsZero() && e.Day().Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Day().After(f.To) {
		return false
	}
	return true
}

// FilterEntries returns the entries matching f, in their original order.
func FilterEntries(entries []Entry, f EntryFilter) []Entry {
	var out []Entry
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// SortOrder orders the history view.
type SortOrder int

const (
	DateDesc SortOrder = iota
	DateAsc
	AmountDesc
	AmountAsc
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "date", "date-desc":
		return DateDesc, nil
	case "date-asc":
		return DateAsc, nil
	case "amount", "amount-desc":
		return AmountDesc, nil
	case "amount-asc":
		return AmountAsc, nil
	default:
		return DateDesc, fmt.Errorf("unknown sort order %q", s)
	}
}

// SortEntries sorts entries in place.
func SortEntries(entries []Entry, order SortOrder) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch order {
		case DateAsc:
			return a.Timestamp.Compare(b.Timestamp)
		case AmountDesc:
			return b.Amount.Cmp(a.Amount)
		case AmountAsc:
			return a.Amount.Cmp(b.Amount)
		default:
			return b.Timestamp.Compare(a.Timestamp)
		}
	})
}

// DayGroup is a history section: the entries of a single day.
type DayGroup struct {
	Day     Date
	Label   string
	Entries []Entry
}

// GroupByDay groups entries per day, most recent day first. Entries keep
// their relative order inside a group. Today and yesterday get a label of
// their own.
func GroupByDay(entries []Entry, now time.Time) []DayGroup {
	today := DateOf(now)
	index := make(map[Date]int)
	var groups []DayGroup
	for _, e := range entries {
		d := e.Day()
		i, ok := index[d]
		if !ok {
			i = len(groups)
			index[d] = i
			groups = append(groups, DayGroup{Day: d, Label: dayLabel(d, today)})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	slices.SortFunc(groups, func(a, b DayGroup) int { return b.Day.Sub(a.Day) })
	return groups
}

func dayLabel(d, today Date) string {
	switch d {
	case today:
		return "Today"
	case today.Add(-1):
		return "Yesterday"
	default:
		return d.Format("Monday, January 2, 2006")
	}
}
