package renderer

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/savetrack"
	md "github.com/nao1215/markdown"
)

// GoalsMarkdown lists active goals and, optionally, completed ones.
func GoalsMarkdown(s savetrack.Snapshot, now time.Time, completed bool) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	today := savetrack.DateOf(now)

	doc.H1("Goals")
	if active := savetrack.ActiveGoals(s.Goals, today); len(active) > 0 {
		doc.Table(goalsTable(s, active, today))
	} else {
		doc.PlainText("No active goal.")
	}

	if completed {
		doc.H2("Completed")
		done := savetrack.CompletedGoals(s.Goals)
		if len(done) == 0 {
			doc.PlainText("No completed goal yet.")
		}
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft},
			Header:    []string{"Goal", "Saved", "Target", "Completed"},
			Rows:      [][]string{},
		}
		for _, g := range done {
			table.Rows = append(table.Rows, []string{
				"🎉 " + g.Name,
				s.Money(g.CurrentAmount).String(),
				s.Money(g.TargetAmount).String(),
				g.CompletedAt.Format(savetrack.DateFormat),
			})
		}
		if len(done) > 0 {
			doc.Table(table)
		}
	}
	return doc.String()
}

func goalsTable(s savetrack.Snapshot, goals []savetrack.Goal, today savetrack.Date) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft, md.AlignRight},
		Header:    []string{"Goal", "Progress", "Saved", "Target", "Deadline", "Per Day"},
		Rows:      [][]string{},
	}
	for _, g := range goals {
		deadline, perDay := "-", "-"
		if days, ok := g.DaysRemaining(today); ok {
			deadline = fmt.Sprintf("%s (%s left)", g.EndDate.Format(savetrack.DateFormat), plural(days, "day", "days"))
			daily, _ := g.DailyTarget(today)
			perDay = s.Money(daily).String()
		}
		table.Rows = append(table.Rows, []string{
			g.Name,
			progressBar(g.Progress(), 10) + " " + g.Progress().String(),
			s.Money(g.CurrentAmount).String(),
			s.Money(g.TargetAmount).String(),
			deadline,
			perDay,
		})
	}
	return table
}

// progressBar draws p (0 to 100) over width cells.
func progressBar(p savetrack.Percent, width int) string {
	filled := int(float64(p) / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
