package savetrack

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// EventKind identifies a celebration worth notifying.
type EventKind int

const (
	BadgeEarned EventKind = iota
	GoalCompleted
)

// Event is emitted when a mutation earns a badge or completes a goal.
type Event struct {
	Kind  EventKind
	Badge Badge // BadgeEarned only
	Goal  Goal  // GoalCompleted only
	At    time.Time
}

// Title returns the notification title.
func (e Event) Title() string {
	if e.Kind == GoalCompleted {
		return "🎉 Goal Achieved!"
	}
	return "🏆 Badge Earned!"
}

// Body returns the notification text.
func (e Event) Body() string {
	if e.Kind == GoalCompleted {
		return fmt.Sprintf("Congratulations! You've reached your goal: %s", e.Goal.Name)
	}
	return fmt.Sprintf("You've earned the %s badge for %d days!", e.Badge.Name, e.Badge.Milestone)
}

func (e Event) String() string { return e.Title() + " " + e.Body() }

// Notifier delivers events. Delivery is best effort.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

// Tracker applies the derivation rules after each entry mutation: the streak
// is recomputed from all entries, and a new entry is credited to every active
// goal.
type Tracker struct {
	store    *Store
	notifier Notifier
}

// NewTracker returns a tracker over store. notifier may be nil.
func NewTracker(store *Store, notifier Notifier) *Tracker {
	return &Tracker{store: store, notifier: notifier}
}

func (t *Tracker) Store() *Store { return t.store }

// LogEntry stores a new entry credited to the active goals, then updates the
// streak. The streak is derived from the entries, so a failure to save it is
// repaired by the next Refresh.
func (t *Tracker) LogEntry(e Entry) ([]Event, error) {
	now := t.store.Now()
	today := DateOf(now)
	credited, err := t.store.CreditEntry(e, func(g Goal) (Goal, bool) {
		if !g.IsActive(today) {
			return g, false
		}
		return ApplyEntry(g, e, now), true
	})
	if err != nil {
		return nil, err
	}

	var events []Event
	for _, g := range credited {
		if g.IsCompleted {
			events = append(events, Event{Kind: GoalCompleted, Goal: g, At: now})
		}
	}
	t.notify(events)

	streakEvents, err := t.refreshStreak(now)
	return append(events, streakEvents...), err
}

// UpdateEntry replaces an entry and updates the streak. Goals are not
// adjusted.
func (t *Tracker) UpdateEntry(e Entry) ([]Event, error) {
	if err := t.store.UpdateEntry(e); err != nil {
		return nil, err
	}
	return t.refreshStreak(t.store.Now())
}

// DeleteEntry removes an entry and updates the streak. Goals are not
// adjusted.
func (t *Tracker) DeleteEntry(id uuid.UUID) ([]Event, error) {
	if err := t.store.DeleteEntry(id); err != nil {
		return nil, err
	}
	return t.refreshStreak(t.store.Now())
}

// Import replaces the data with doc and updates the streak. Imported goals
// keep their amounts.
func (t *Tracker) Import(doc *Export) ([]Event, error) {
	if err := t.store.Import(doc); err != nil {
		return nil, err
	}
	return t.refreshStreak(t.store.Now())
}

// Refresh recomputes the streak, typically on start up so that a streak
// broken by the passing of days is not left stale.
func (t *Tracker) Refresh() ([]Event, error) { return t.refreshStreak(t.store.Now()) }

func (t *Tracker) refreshStreak(now time.Time) ([]Event, error) {
	previous := t.store.Streak()
	next := ComputeStreak(t.store.Entries(), previous, now)
	if err := t.store.SaveStreak(next); err != nil {
		return nil, err
	}
	var events []Event
	for _, m := range NewBadges(previous, next) {
		b, _ := BadgeFor(m)
		events = append(events, Event{Kind: BadgeEarned, Badge: b, At: now})
	}
	t.notify(events)
	return events, nil
}

func (t *Tracker) notify(events []Event) {
	for _, e := range events {
		log.Printf("event %q", e)
		if t.notifier != nil {
			t.notifier.Notify(e)
		}
	}
}

// Snapshot returns the current data formatted in currency.
func (t *Tracker) Snapshot(currency string) Snapshot { return t.store.Snapshot(currency) }

// Insights returns the current insights.
func (t *Tracker) Insights(currency string) []Insight {
	return GenerateInsights(t.store.Snapshot(currency), t.store.Now())
}
