package savetrack

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Goal is a savings target filled by logged entries.
type Goal struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Period        Period          `json:"period"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	IsCompleted   bool            `json:"isCompleted"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// NewGoal creates a goal starting now. end is optional.
func NewGoal(name string, target decimal.Decimal, period Period, end *time.Time, now time.Time) (Goal, error) {
	g := Goal{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(name),
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		Period:        period,
		StartDate:     now,
		EndDate:       end,
		CreatedAt:     now,
	}
	return g, g.Validate()
}

// Validate checks the goal invariants.
func (g Goal) Validate() error {
	switch {
	case g.ID == uuid.Nil:
		return fmt.Errorf("%w: missing id", ErrInvalidGoal)
	case g.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidGoal)
	case !g.TargetAmount.IsPositive():
		return fmt.Errorf("%w: target %s must be positive", ErrInvalidGoal, g.TargetAmount)
	case g.CurrentAmount.IsNegative():
		return fmt.Errorf("%w: negative current amount %s", ErrInvalidGoal, g.CurrentAmount)
	case g.Period != Monthly && g.Period != Yearly:
		return fmt.Errorf("%w: period must be monthly or yearly, got %s", ErrInvalidGoal, g.Period)
	case g.IsCompleted && g.CompletedAt == nil:
		return fmt.Errorf("%w: completed without completion date", ErrInvalidGoal)
	}
	return nil
}

// IsActive reports whether the goal still accepts entries on day today.
func (g Goal) IsActive(today Date) bool {
	if g.IsCompleted {
		return false
	}
	return g.EndDate == nil || !DateOf(*g.EndDate).Before(today)
}

// Progress returns the completion ratio clamped to [0, 100].
func (g Goal) Progress() Percent { return Percent(g.progress().InexactFloat64()) }

// progress is the exact completion percentage clamped to [0, 100].
func (g Goal) progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := percentOf(g.CurrentAmount, g.TargetAmount)
	return decimal.Max(decimal.Zero, decimal.Min(p, hundred))
}

// Remaining returns the amount still to save, never negative.
func (g Goal) Remaining() decimal.Decimal {
	r := g.TargetAmount.Sub(g.CurrentAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// DaysRemaining returns the number of days from today to the deadline.
// ok is false when the goal has no deadline.
func (g Goal) DaysRemaining(today Date) (days int, ok bool) {
	if g.EndDate == nil {
		return 0, false
	}
	return DateOf(*g.EndDate).Sub(today), true
}

// DailyTarget returns the amount to save each remaining day to reach the
// target by the deadline. On the deadline day itself the whole remainder is due.
func (g Goal) DailyTarget(today Date) (decimal.Decimal, bool) {
	days, ok := g.DaysRemaining(today)
	if !ok {
		return decimal.Zero, false
	}
	return g.Remaining().Div(decimal.NewFromInt(int64(max(days, 1)))), true
}

// ApplyEntry returns g with the entry amount added. The goal is completed the
// first time the target is reached; completed goals are returned unchanged.
func ApplyEntry(g Goal, e Entry, now time.Time) Goal {
	if g.IsCompleted {
		return g
	}
	g.CurrentAmount = g.CurrentAmount.Add(e.Amount)
	if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.IsCompleted = true
		g.CompletedAt = &now
	}
	return g
}

// Archive completes the goal manually, whatever its progress.
func (g Goal) Archive(now time.Time) Goal {
	if g.IsCompleted {
		return g
	}
	g.IsCompleted = true
	g.CompletedAt = &now
	return g
}

// ActiveGoals returns active goals, nearest deadline first then most advanced.
func ActiveGoals(goals []Goal, today Date) []Goal {
	var active []Goal
	for _, g := range goals {
		if g.IsActive(today) {
			active = append(active, g)
		}
	}
	slices.SortStableFunc(active, func(a, b Goal) int {
		da, aok := a.DaysRemaining(today)
		db, bok := b.DaysRemaining(today)
		if aok && bok && da != db {
			return cmp.Compare(da, db)
		}
		return cmp.Compare(b.Progress(), a.Progress())
	})
	return active
}

// CompletedGoals returns completed goals, most recently completed first.
func CompletedGoals(goals []Goal) []Goal {
	var done []Goal
	for _, g := range goals {
		if g.IsCompleted {
			done = append(done, g)
		}
	}
	slices.SortStableFunc(done, func(a, b Goal) int {
		return b.completedOrCreated().Compare(a.completedOrCreated())
	})
	return done
}

func (g Goal) completedOrCreated() time.Time {
	if g.CompletedAt != nil {
		return *g.CompletedAt
	}
	return g.CreatedAt
}

// sortGoals orders goals by creation, newest first.
func sortGoals(goals []Goal) {
	slices.SortStableFunc(goals, func(a, b Goal) int { return b.CreatedAt.Compare(a.CreatedAt) })
}
