package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/savetrack"
	"github.com/google/uuid"
)

// findByID returns the single item whose id starts with prefix, as displayed
// in the short form of the reports.
func findByID[T any](items []T, id func(T) uuid.UUID, prefix string) (T, error) {
	var (
		zero  T
		found []T
	)
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return zero, fmt.Errorf("missing id")
	}
	for _, item := range items {
		if strings.HasPrefix(id(item).String(), prefix) {
			found = append(found, item)
		}
	}
	switch len(found) {
	case 0:
		return zero, fmt.Errorf("%q: %w", prefix, savetrack.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return zero, fmt.Errorf("%q is ambiguous, %d matches", prefix, len(found))
	}
}

func findEntry(entries []savetrack.Entry, prefix string) (savetrack.Entry, error) {
	return findByID(entries, func(e savetrack.Entry) uuid.UUID { return e.ID }, prefix)
}

// findGoal looks up a goal by name, case-insensitive, or by id prefix.
func findGoal(goals []savetrack.Goal, key string) (savetrack.Goal, error) {
	for _, g := range goals {
		if strings.EqualFold(g.Name, strings.TrimSpace(key)) {
			return g, nil
		}
	}
	return findByID(goals, func(g savetrack.Goal) uuid.UUID { return g.ID }, key)
}

// findTemplate looks up a template by name, case-insensitive, or by id prefix.
func findTemplate(templates []savetrack.EntryTemplate, key string) (savetrack.EntryTemplate, error) {
	for _, t := range templates {
		if strings.EqualFold(t.Name, strings.TrimSpace(key)) {
			return t, nil
		}
	}
	return findByID(templates, func(t savetrack.EntryTemplate) uuid.UUID { return t.ID }, key)
}

func findCategory(categories []savetrack.Category, key string) (savetrack.Category, error) {
	c, ok := savetrack.FindCategory(categories, key)
	if !ok {
		return c, fmt.Errorf("category %q: %w", key, savetrack.ErrNotFound)
	}
	return c, nil
}

// at returns the instant of an entry logged on the day described by date, at
// the current time of day.
func at(date string) (time.Time, error) {
	now := Now()
	if date == "" {
		return now, nil
	}
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	h, m, s := now.Clock()
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, s, 0, now.Location()), nil
}
