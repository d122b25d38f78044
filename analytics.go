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

// Window is a trailing chart window, in days.
type Window int

const (
	WeekWindow  Window = 7
	MonthWindow Window = 30
	YearWindow  Window = 365
)

func (w Window) Days() int { return int(w) }

func (w Window) String() string {
	switch w {
	case WeekWindow:
		return "week"
	case MonthWindow:
		return "month"
	case YearWindow:
		return "year"
	default:
		return fmt.Sprintf("%d days", int(w))
	}
}

func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "7":
		return WeekWindow, nil
	case "month", "30":
		return MonthWindow, nil
	case "year", "365":
		return YearWindow, nil
	default:
		return WeekWindow, fmt.Errorf("unknown window %q, want week, month or year", s)
	}
}

// Entries returns the entries in the window ending at now, bounds included.
func (w Window) Entries(entries []Entry, now time.Time) []Entry {
	return entriesSince(entries, now.AddDate(0, 0, -w.Days()), now)
}

// Point is one day of a cumulative savings series.
type Point struct {
	Day        Date
	Amount     decimal.Decimal // saved on that day
	Cumulative decimal.Decimal // saved from the start of the window to that day
}

// CumulativeSeries returns the running total of the window, one point per day
// with entries, in ascending order.
func CumulativeSeries(entries []Entry, w Window, now time.Time) []Point {
	byDay := make(map[Date]decimal.Decimal)
	for _, e := range w.Entries(entries, now) {
		byDay[e.Day()] = byDay[e.Day()].Add(e.Amount)
	}
	days := make([]Date, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b Date) int { return a.Sub(b) })

	points := make([]Point, 0, len(days))
	running := decimal.Zero
	for _, d := range days {
		running = running.Add(byDay[d])
		points = append(points, Point{Day: d, Amount: byDay[d], Cumulative: running})
	}
	return points
}

// CategoryShare is a category's part of the window total.
type CategoryShare struct {
	Category Category
	Amount   decimal.Decimal
	Count    int
	Share    Percent
}

// CategoryBreakdown totals the window per category, largest first. Entries of
// unknown categories are left out of the breakdown, not of the total.
func CategoryBreakdown(entries []Entry, categories []Category, w Window, now time.Time) []CategoryShare {
	in := w.Entries(entries, now)
	grand := total(in)
	index := categoryIndex(categories)

	byCategory := make(map[uuid.UUID]Tally)
	for _, e := range in {
		if _, ok := index[e.CategoryID]; !ok {
			continue
		}
		byCategory[e.CategoryID] = byCategory[e.CategoryID].add(e)
	}

	shares := make([]CategoryShare, 0, len(byCategory))
	for id, t := range byCategory {
		shares = append(shares, CategoryShare{
			Category: index[id],
			Amount:   t.Amount,
			Count:    t.Count,
			Share:    Percent(percentOf(t.Amount, grand).InexactFloat64()),
		})
	}
	slices.SortFunc(shares, func(a, b CategoryShare) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Category.Name, b.Category.Name)
	})
	return shares
}

// Summary sums up a chart window.
type Summary struct {
	Window        Window
	Total         decimal.Decimal
	Count         int
	AveragePerDay decimal.Decimal
	TopCategory   string // "emoji name", or "None"
}

func Summarize(s Snapshot, w Window, now time.Time) Summary {
	in := w.Entries(s.Entries, now)
	sum := Summary{
		Window:        w,
		Total:         total(in),
		Count:         len(in),
		AveragePerDay: total(in).Div(decimal.NewFromInt(int64(w.Days()))),
		TopCategory:   "None",
	}
	if shares := CategoryBreakdown(s.Entries, s.Categories, w, now); len(shares) > 0 {
		sum.TopCategory = shares[0].Category.Label()
	}
	return sum
}

// PeriodTotal is the total saved over a labelled range of days.
type PeriodTotal struct {
	Label string
	Range Range
	Tally
}

func totalIn(entries []Entry, label string, r Range) PeriodTotal {
	p := PeriodTotal{Label: label, Range: r, Tally: Tally{Amount: decimal.Zero}}
	for _, e := range entries {
		if r.Contains(e.Day()) {
			p.Tally = p.Tally.add(e)
		}
	}
	return p
}

// MonthlyComparison returns the totals of the last 6 calendar months,
// current month included, oldest first.
func MonthlyComparison(entries []Entry, now time.Time) []PeriodTotal {
	const months = 6
	current := DateOf(now).StartOf(Monthly)
	totals := make([]PeriodTotal, 0, months)
	for i := months - 1; i >= 0; i-- {
		r := Monthly.Range(current.AddMonth(-i))
		totals = append(totals, totalIn(entries, r.From.Format("Jan 2006"), r))
	}
	return totals
}

// WeeklyComparison returns the totals of the last 4 blocks of 7 days, the
// last block ending today, oldest first.
func WeeklyComparison(entries []Entry, now time.Time) []PeriodTotal {
	const weeks = 4
	today := DateOf(now)
	totals := make([]PeriodTotal, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		r := LastDays(today.Add(-7*i), 7)
		totals = append(totals, totalIn(entries, r.From.Format("Jan 2"), r))
	}
	return totals
}

// Trend compares recent savings with the previous period.
type Trend struct {
	WeeklyGrowth  Percent
	MonthlyGrowth Percent
	AverageDaily  decimal.Decimal // over the last 30 days
	BestWeekday   string
	BestCategory  string
}

func Trends(s Snapshot, now time.Time) Trend {
	weekAgo, twoWeeksAgo := now.AddDate(0, 0, -7), now.AddDate(0, 0, -14)
	monthAgo, twoMonthsAgo := now.AddDate(0, -1, 0), now.AddDate(0, -2, 0)

	recent := MonthWindow.Entries(s.Entries, now)
	t := Trend{
		WeeklyGrowth:  Growth(totalBetween(s.Entries, weekAgo, now), totalBetween(s.Entries, twoWeeksAgo, weekAgo)),
		MonthlyGrowth: Growth(totalBetween(s.Entries, monthAgo, now), totalBetween(s.Entries, twoMonthsAgo, monthAgo)),
		AverageDaily:  total(recent).Div(decimal.NewFromInt(int64(MonthWindow))),
		BestWeekday:   "None",
		BestCategory:  "None",
	}
	if wd, _, ok := bestWeekday(recent); ok {
		t.BestWeekday = wd.String()
	}
	if id, _, ok := bestCategory(recent); ok {
		if c, found := s.Category(id); found {
			t.BestCategory = c.Label()
		}
	}
	return t
}

// totalBetween sums entries with from <= timestamp < to.
func totalBetween(entries []Entry, from, to time.Time) decimal.Decimal {
	t := decimal.Zero
	for _, e := range entries {
		if !e.Timestamp.Before(from) && e.Timestamp.Before(to) {
			t = t.Add(e.Amount)
		}
	}
	return t
}

// TodayTotal returns the amount and number of entries logged on today.
func TodayTotal(entries []Entry, today Date) Tally {
	t := Tally{Amount: decimal.Zero}
	for _, e := range entriesOn(entries, today) {
		t = t.add(e)
	}
	return t
}
