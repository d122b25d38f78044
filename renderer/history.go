package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/savetrack"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders entries grouped by day.
func HistoryMarkdown(s savetrack.Snapshot, groups []savetrack.DayGroup) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("History")
	if len(groups) == 0 {
		doc.PlainText("No entries.")
		return doc.String()
	}
	for _, g := range groups {
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignLeft},
			Header:    []string{"Time", "Amount", "Category", "Note", "ID"},
			Rows:      [][]string{},
		}
		day := savetrack.TodayTotal(g.Entries, g.Day)
		for _, e := range g.Entries {
			table.Rows = append(table.Rows, []string{
				e.Timestamp.Format("15:04"),
				s.Money(e.Amount).String(),
				categoryLabel(s, e),
				e.Note,
				shortID(e.ID.String()),
			})
		}
		doc.H2(fmt.Sprintf("%s · %s", g.Label, s.Money(day.Amount)))
		doc.Table(table)
	}
	return doc.String()
}

func categoryLabel(s savetrack.Snapshot, e savetrack.Entry) string {
	if c, ok := s.Category(e.CategoryID); ok {
		return c.Label()
	}
	return "Unknown"
}

// shortID is enough of an id to be typed on the command line.
func shortID(id string) string { return id[:8] }
