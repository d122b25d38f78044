package renderer

import (
	"bytes"

	"github.com/etnz/savetrack"
	md "github.com/nao1215/markdown"
)

// InsightsMarkdown renders insights in the order given.
func InsightsMarkdown(insights []savetrack.Insight) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Insights")
	if len(insights) == 0 {
		doc.PlainText("Nothing to report yet.")
		return doc.String()
	}
	for _, in := range insights {
		doc.H3(in.Emoji + " " + in.Title)
		doc.PlainText(in.Message)
	}
	return doc.String()
}
