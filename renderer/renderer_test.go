package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/savetrack"
	"github.com/shopspring/decimal"
)

var now = time.Date(2025, time.October, 16, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func snapshot(t *testing.T) savetrack.Snapshot {
	t.Helper()
	var entries []savetrack.Entry
	for n := range 8 {
		at := now.AddDate(0, 0, -n)
		entries = append(entries, savetrack.NewEntry(dec("2.50"), savetrack.CookedAtHomeID, "leftovers", at, at))
	}
	end := now.AddDate(0, 0, 10)
	bike, err := savetrack.NewGoal("Bike", dec("100"), savetrack.Monthly, &end, now.AddDate(0, 0, -20))
	if err != nil {
		t.Fatal(err)
	}
	bike.CurrentAmount = dec("80")
	return savetrack.Snapshot{
		Entries:    entries,
		Goals:      []savetrack.Goal{bike},
		Categories: savetrack.DefaultCategories(now),
		Streak:     savetrack.ComputeStreak(entries, savetrack.Streak{}, now),
		Currency:   "USD",
	}
}

// assertContains checks that every want appears in got.
func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{6, "Good morning"},
		{12, "Good afternoon"},
		{16, "Good afternoon"},
		{17, "Good evening"},
		{23, "Good evening"},
	}
	for _, tt := range tests {
		at := time.Date(2025, time.October, 16, tt.hour, 0, 0, 0, time.UTC)
		if got := Greeting(at); got != tt.want {
			t.Errorf("Greeting(%dh) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestHomeMarkdown(t *testing.T) {
	got := HomeMarkdown(snapshot(t), now)
	assertContains(t, got,
		"# Good afternoon!",
		"Today you saved **$2.50** in 1 entry.",
		"8 days current, 8 days longest.",
		"22 days to ⭐ Monthly Master.",
		"Bike",
		"$80.00",
		"2025-10-26 (10 days left)",
		"$2.00",
	)
}

func TestHomeMarkdown_Empty(t *testing.T) {
	got := HomeMarkdown(savetrack.Snapshot{}, now)
	assertContains(t, got, "Nothing logged today yet.", "No active goal.")
}

func TestGoalsMarkdown(t *testing.T) {
	s := snapshot(t)
	done, _ := savetrack.NewGoal("Phone", dec("50"), savetrack.Yearly, nil, now.AddDate(0, -1, 0))
	s.Goals = append(s.Goals, done.Archive(now))

	got := GoalsMarkdown(s, now, true)
	assertContains(t, got, "# Goals", "████████░░ 80.00%", "## Completed", "🎉 Phone", "2025-10-16")

	if got := GoalsMarkdown(s, now, false); strings.Contains(got, "Phone") {
		t.Errorf("completed goal listed without the completed flag:\n%s", got)
	}
}

func TestBadgesMarkdown(t *testing.T) {
	got := BadgesMarkdown(snapshot(t).Streak)
	assertContains(t, got, "1 of 5 badges earned.", "🔥 Week Warrior", "✅ earned on 2025-10-16", "🔒 22 days to go")
}

func TestInsightsMarkdown(t *testing.T) {
	s := snapshot(t)
	got := InsightsMarkdown(savetrack.GenerateInsights(s, now))
	assertContains(t, got, "### 🎯 Almost There!", "You're 80% towards 'Bike'. Just $20.00 to go!")

	assertContains(t, InsightsMarkdown(nil), "Nothing to report yet.")
}

func TestHistoryMarkdown(t *testing.T) {
	s := snapshot(t)
	got := HistoryMarkdown(s, savetrack.GroupByDay(s.Entries, now))
	assertContains(t, got, "## Today · $2.50", "## Yesterday · $2.50", "🏠 Cooked at Home", "leftovers", "12:00")
}

func TestChartsMarkdown(t *testing.T) {
	got := ChartsMarkdown(snapshot(t), savetrack.WeekWindow, now)
	assertContains(t, got,
		"# Savings over the last week",
		"$20.00", // 8 entries, the window bounds are included
		"🏠 Cooked at Home",
		"100.00%",
		"## Monthly",
		"Oct 2025",
		"## Trends",
		"Thursday",
		strings.Repeat("▇", barWidth),
	)
}

func TestCategoriesMarkdown(t *testing.T) {
	custom, _ := savetrack.NewCategory("Thrift", "🧥", now)
	got := CategoriesMarkdown(append(savetrack.DefaultCategories(now), custom))
	assertContains(t, got, "🛒 Skipped Purchase", "🧥 Thrift", "custom", savetrack.OtherID.String())
}

func TestTemplatesMarkdown(t *testing.T) {
	s := snapshot(t)
	tpl := savetrack.NewEntryTemplate("Coffee", dec("3.5"), savetrack.SkippedPurchaseID, "no latte", now)
	assertContains(t, TemplatesMarkdown(s, []savetrack.EntryTemplate{tpl}), "Coffee", "$3.50", "🛒 Skipped Purchase", "no latte")
	assertContains(t, TemplatesMarkdown(s, nil), "No template.")
}

func TestRenderShare(t *testing.T) {
	got := RenderShare(NewShare(snapshot(t), now))
	assertContains(t, got,
		"# 💰 My SaveTrack progress, 2025-10-16",
		"I saved **$20.00** in 8 small wins.",
		"## 🔥 8-day streak",
		"Badges: 🔥 Week Warrior",
		"- ████████░░ Bike: 80.00%",
	)
	if strings.Contains(got, "error") {
		t.Errorf("template error:\n%s", got)
	}
}

func TestRenderShare_NoGoals(t *testing.T) {
	got := RenderShare(NewShare(savetrack.Snapshot{}, now))
	if strings.Contains(got, "Goals") || strings.Contains(got, "error") {
		t.Errorf("unexpected goals section:\n%s", got)
	}
}

func TestStreakCard(t *testing.T) {
	got := StreakCard(snapshot(t).Streak, DefaultStyles())
	assertContains(t, got, "8 days streak", "Longest: 8 days", "Monthly Master")
}
