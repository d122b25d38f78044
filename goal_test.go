package savetrack

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testGoal(t *testing.T, target, current string, end *time.Time) Goal {
	t.Helper()
	g, err := NewGoal("Vacation", dec(target), Monthly, end, daysAgo(30))
	if err != nil {
		t.Fatalf("NewGoal() error = %v", err)
	}
	g.CurrentAmount = dec(current)
	return g
}

func TestApplyEntry_CompletesOnce(t *testing.T) {
	g := testGoal(t, "100", "90", nil)

	g = ApplyEntry(g, entry(0, "15", OtherID), testNow)
	if got, want := g.CurrentAmount, dec("105"); !got.Equal(want) {
		t.Errorf("CurrentAmount = %v, want %v", got, want)
	}
	if !g.IsCompleted || g.CompletedAt == nil || !g.CompletedAt.Equal(testNow) {
		t.Fatalf("goal not completed at %v: %+v", testNow, g)
	}

	later := testNow.Add(time.Hour)
	again := ApplyEntry(g, entry(0, "10", OtherID), later)
	if got, want := again.CurrentAmount, dec("105"); !got.Equal(want) {
		t.Errorf("CurrentAmount after completion = %v, want %v", got, want)
	}
	if !again.CompletedAt.Equal(testNow) {
		t.Errorf("CompletedAt = %v, want unchanged %v", again.CompletedAt, testNow)
	}
}

func TestGoal_Progress(t *testing.T) {
	tests := []struct {
		target, current string
		want            Percent
	}{
		{"100", "0", 0},
		{"100", "25", 25},
		{"100", "150", 100},
		{"200", "50", 25},
		{"100", "57", 57},
		{"1", "0.29", 29},
	}
	for _, tt := range tests {
		g := Goal{TargetAmount: dec(tt.target), CurrentAmount: dec(tt.current)}
		if got := g.Progress(); !got.Equal(tt.want) {
			t.Errorf("Progress(%s/%s) = %v, want %v", tt.current, tt.target, got, tt.want)
		}
		if got, want := int(g.Progress()), int(tt.want); got != want {
			t.Errorf("whole Progress(%s/%s) = %d, want %d", tt.current, tt.target, got, want)
		}
	}
	if got := (Goal{TargetAmount: decimal.Zero, CurrentAmount: dec("10")}).Progress(); got != 0 {
		t.Errorf("Progress() with zero target = %v, want 0", got)
	}
}

func TestGoal_IsActive(t *testing.T) {
	yesterday, today := daysAgo(1), testNow.Add(6*time.Hour)
	tests := []struct {
		name string
		goal Goal
		want bool
	}{
		{"no deadline", testGoal(t, "100", "0", nil), true},
		{"due today", testGoal(t, "100", "0", &today), true},
		{"overdue", testGoal(t, "100", "0", &yesterday), false},
		{"completed", testGoal(t, "100", "0", nil).Archive(testNow), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.goal.IsActive(testToday); got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGoal_DailyTarget(t *testing.T) {
	inFive, dueToday := daysAgo(-5), testNow

	g := testGoal(t, "100", "50", &inFive)
	if days, _ := g.DaysRemaining(testToday); days != 5 {
		t.Errorf("DaysRemaining() = %d, want 5", days)
	}
	if got, _ := g.DailyTarget(testToday); !got.Equal(dec("10")) {
		t.Errorf("DailyTarget() = %v, want 10", got)
	}

	g = testGoal(t, "100", "50", &dueToday)
	if got, ok := g.DailyTarget(testToday); !ok || !got.Equal(dec("50")) {
		t.Errorf("DailyTarget() on the deadline = %v, %v, want 50, true", got, ok)
	}

	g = testGoal(t, "100", "50", nil)
	if _, ok := g.DailyTarget(testToday); ok {
		t.Error("DailyTarget() without deadline ok = true")
	}
}

func TestGoal_Validate(t *testing.T) {
	if _, err := NewGoal("Bike", dec("0"), Monthly, nil, testNow); !errors.Is(err, ErrInvalidGoal) {
		t.Errorf("NewGoal(zero target) error = %v, want ErrInvalidGoal", err)
	}
	if _, err := NewGoal("Bike", dec("10"), Weekly, nil, testNow); !errors.Is(err, ErrInvalidGoal) {
		t.Errorf("NewGoal(weekly) error = %v, want ErrInvalidGoal", err)
	}
	g := testGoal(t, "100", "0", nil)
	g.IsCompleted = true
	if err := g.Validate(); !errors.Is(err, ErrInvalidGoal) {
		t.Errorf("Validate(completed without date) error = %v, want ErrInvalidGoal", err)
	}
}

func TestActiveGoals_Order(t *testing.T) {
	inTwo, inTen := daysAgo(-2), daysAgo(-10)
	far := testGoal(t, "100", "90", &inTen)
	far.Name = "far"
	near := testGoal(t, "100", "10", &inTwo)
	near.Name = "near"
	open := testGoal(t, "100", "50", nil)
	open.Name = "open"
	openLow := testGoal(t, "100", "5", nil)
	openLow.Name = "open-low"
	done := testGoal(t, "100", "0", nil).Archive(testNow)

	got := ActiveGoals([]Goal{openLow, far, done, open, near}, testToday)

	var names []string
	for _, g := range got {
		names = append(names, g.Name)
	}
	want := []string{"near", "far", "open", "open-low"}
	if len(names) != len(want) {
		t.Fatalf("ActiveGoals() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ActiveGoals() = %v, want %v", names, want)
		}
	}
}

func TestApplyEntry_Sequence(t *testing.T) {
	g := testGoal(t, "100", "0", nil)
	completions := 0
	for i, amount := range []string{"30", "40", "30"} {
		wasCompleted := g.IsCompleted
		g = ApplyEntry(g, entry(0, amount, OtherID), testNow.Add(time.Duration(i)*time.Minute))
		if g.IsCompleted && !wasCompleted {
			completions++
		}
	}
	if got, want := g.CurrentAmount, dec("100"); !got.Equal(want) {
		t.Errorf("CurrentAmount = %v, want %v", got, want)
	}
	if !g.IsCompleted || completions != 1 {
		t.Errorf("IsCompleted = %v after %d completions, want true after 1", g.IsCompleted, completions)
	}
	if want := testNow.Add(2 * time.Minute); g.CompletedAt == nil || !g.CompletedAt.Equal(want) {
		t.Errorf("CompletedAt = %v, want %v", g.CompletedAt, want)
	}
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		num, den string
		want     int64
	}{
		{"57", "100", 57},
		{"0.29", "1", 29},
		{"1", "3", 33},
		{"2", "3", 66},
		{"5", "0", 0},
	}
	for _, tt := range tests {
		if got := percentOf(dec(tt.num), dec(tt.den)).IntPart(); got != tt.want {
			t.Errorf("percentOf(%s, %s) = %d, want %d", tt.num, tt.den, got, tt.want)
		}
	}
}
