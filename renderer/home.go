package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/etnz/savetrack"
	md "github.com/nao1215/markdown"
)

// Greeting returns the salutation for the hour of now.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// HomeMarkdown renders the dashboard: today's savings, the streak and the
// active goals.
func HomeMarkdown(s savetrack.Snapshot, now time.Time) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	today := savetrack.DateOf(now)

	doc.H1(Greeting(now) + "!")

	t := savetrack.TodayTotal(s.Entries, today)
	if t.Count == 0 {
		doc.PlainText("Nothing logged today yet. Every small saving counts!")
	} else {
		doc.PlainText(fmt.Sprintf("Today you saved %s in %s.", md.Bold(s.Money(t.Amount).String()), plural(t.Count, "entry", "entries")))
	}

	doc.H2("Streak")
	doc.PlainText(streakLine(s.Streak))

	doc.H2("Active Goals")
	if active := savetrack.ActiveGoals(s.Goals, today); len(active) == 0 {
		doc.PlainText("No active goal. Create one with `svt goal`.")
	} else {
		doc.Table(goalsTable(s, active, today))
	}
	return doc.String()
}

func streakLine(st savetrack.Streak) string {
	line := fmt.Sprintf("🔥 %s current, %s longest.", plural(st.CurrentStreak, "day", "days"), plural(st.LongestStreak, "day", "days"))
	if next, ok := st.NextMilestone(); ok {
		b, _ := savetrack.BadgeFor(next)
		line += fmt.Sprintf(" %s to %s %s.", plural(next-st.CurrentStreak, "day", "days"), b.Emoji, b.Name)
	}
	return line
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
