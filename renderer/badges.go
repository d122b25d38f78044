package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/savetrack"
	md "github.com/nao1215/markdown"
)

// BadgesMarkdown renders the badge catalog.
func BadgesMarkdown(st savetrack.Streak) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	earned := 0
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignLeft},
		Header:    []string{"Badge", "Days", "Status"},
		Rows:      [][]string{},
	}
	for _, b := range st.Badges() {
		status := fmt.Sprintf("🔒 %s to go", plural(max(b.Milestone-st.CurrentStreak, 0), "day", "days"))
		if b.Earned {
			earned++
			status = "✅ earned"
			if !b.EarnedAt.IsZero() {
				status += " on " + b.EarnedAt.Format(savetrack.DateFormat)
			}
		}
		table.Rows = append(table.Rows, []string{b.Emoji + " " + b.Name, fmt.Sprint(b.Milestone), status})
	}

	doc.H1("Badges")
	doc.PlainText(fmt.Sprintf("%d of %d badges earned.", earned, len(table.Rows)))
	doc.Table(table)
	doc.PlainText(streakLine(st))
	return doc.String()
}
