package savetrack

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// Widget is the compact summary shown by home screen widgets and status bars.
type Widget struct {
	Date          Date             `json:"date"`
	CurrentStreak int              `json:"currentStreak"`
	LongestStreak int              `json:"longestStreak"`
	Today         WidgetAmount     `json:"today"`
	NextMilestone *WidgetMilestone `json:"nextMilestone,omitempty"`
	Goals         []WidgetGoal     `json:"goals"`
}

// WidgetAmount is a total with its display form.
type WidgetAmount struct {
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
	Count     int             `json:"count"`
}

type WidgetMilestone struct {
	Days     int    `json:"days"`
	Badge    string `json:"badge"`
	DaysToGo int    `json:"daysToGo"`
}

type WidgetGoal struct {
	Name      string  `json:"name"`
	Progress  float64 `json:"progress"` // percent
	Remaining string  `json:"remaining"`
}

// NewWidget summarizes s at now. Goals are the active ones, in display
// order.
func NewWidget(s Snapshot, now time.Time) Widget {
	today := DateOf(now)
	t := TodayTotal(s.Entries, today)
	w := Widget{
		Date:          today,
		CurrentStreak: s.Streak.CurrentStreak,
		LongestStreak: s.Streak.LongestStreak,
		Today:         WidgetAmount{Amount: t.Amount, Formatted: s.Money(t.Amount).String(), Count: t.Count},
		Goals:         []WidgetGoal{},
	}
	if next, ok := s.Streak.NextMilestone(); ok {
		b, _ := BadgeFor(next)
		w.NextMilestone = &WidgetMilestone{Days: next, Badge: b.Name, DaysToGo: next - s.Streak.CurrentStreak}
	}
	for _, g := range ActiveGoals(s.Goals, today) {
		w.Goals = append(w.Goals, WidgetGoal{
			Name:      g.Name,
			Progress:  float64(g.Progress()),
			Remaining: s.Money(g.Remaining()).String(),
		})
	}
	return w
}

// Query evaluates a JSONPath expression, like "$.today.formatted", against
// the JSON form of w. A single match is returned unwrapped.
func (w Widget) Query(path string) (any, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, err
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}
	// jsonpath returns a list for wildcard expressions
	if jlist, ok := jval.([]any); ok && len(jlist) == 1 {
		jval = jlist[0]
	}
	return jval, nil
}
