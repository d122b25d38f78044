package renderer

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/savetrack"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

const barWidth = 20

// ChartsMarkdown renders the analytics of window w as text charts.
func ChartsMarkdown(s savetrack.Snapshot, w savetrack.Window, now time.Time) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	sum := savetrack.Summarize(s, w, now)
	doc.H1(fmt.Sprintf("Savings over the last %s", w))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total saved", s.Money(sum.Total).String()},
			{"Entries", fmt.Sprint(sum.Count)},
			{"Average per day", s.Money(sum.AveragePerDay).String()},
			{"Top category", sum.TopCategory},
		},
	})

	doc.H2("Cumulative")
	series := savetrack.CumulativeSeries(s.Entries, w, now)
	if len(series) == 0 {
		doc.PlainText("No entries in this window.")
	} else {
		peak := series[len(series)-1].Cumulative
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft},
			Header:    []string{"Day", "Saved", "Total", ""},
			Rows:      [][]string{},
		}
		for _, p := range series {
			table.Rows = append(table.Rows, []string{
				p.Day.String(),
				s.Money(p.Amount).String(),
				s.Money(p.Cumulative).String(),
				bar(p.Cumulative, peak),
			})
		}
		doc.Table(table)
	}

	doc.H2("By Category")
	if shares := savetrack.CategoryBreakdown(s.Entries, s.Categories, w, now); len(shares) == 0 {
		doc.PlainText("No entries in this window.")
	} else {
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Category", "Saved", "Entries", "Share"},
			Rows:      [][]string{},
		}
		for _, sh := range shares {
			table.Rows = append(table.Rows, []string{sh.Category.Label(), s.Money(sh.Amount).String(), fmt.Sprint(sh.Count), sh.Share.String()})
		}
		doc.Table(table)
	}

	doc.H2("Monthly")
	doc.Table(periodTable(s, savetrack.MonthlyComparison(s.Entries, now)))
	doc.H2("Weekly")
	doc.Table(periodTable(s, savetrack.WeeklyComparison(s.Entries, now)))

	tr := savetrack.Trends(s, now)
	doc.H2("Trends")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Trend", "Value"},
		Rows: [][]string{
			{"Week over week", tr.WeeklyGrowth.SignedString()},
			{"Month over month", tr.MonthlyGrowth.SignedString()},
			{"Daily average (30 days)", s.Money(tr.AverageDaily).String()},
			{"Best day", tr.BestWeekday},
			{"Best category", tr.BestCategory},
		},
	})
	return doc.String()
}

func periodTable(s savetrack.Snapshot, totals []savetrack.PeriodTotal) md.TableSet {
	peak := decimal.Zero
	for _, t := range totals {
		peak = decimal.Max(peak, t.Amount)
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft},
		Header:    []string{"Period", "Saved", "Entries", ""},
		Rows:      [][]string{},
	}
	for _, t := range totals {
		table.Rows = append(table.Rows, []string{t.Label, s.Money(t.Amount).String(), fmt.Sprint(t.Count), bar(t.Amount, peak)})
	}
	return table
}

// bar draws value relative to peak.
func bar(value, peak decimal.Decimal) string {
	if !peak.IsPositive() {
		return ""
	}
	n := int(value.Div(peak).InexactFloat64() * barWidth)
	return strings.Repeat("▇", min(max(n, 0), barWidth))
}
