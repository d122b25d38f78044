package savetrack

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InsightType int

const (
	StreakInsight InsightType = iota
	GoalInsight
	PatternInsight
	RecommendationInsight
	AchievementInsight
)

func (t InsightType) String() string {
	switch t {
	case StreakInsight:
		return "streak"
	case GoalInsight:
		return "goal"
	case PatternInsight:
		return "pattern"
	case RecommendationInsight:
		return "recommendation"
	case AchievementInsight:
		return "achievement"
	default:
		return "insight"
	}
}

func (t InsightType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Priority orders insights, High first.
type Priority int

const (
	High Priority = iota
	Medium
	Low
)

func (p Priority) String() string {
	switch p {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

func (p Priority) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Insight is a short motivational message derived from the data.
type Insight struct {
	Type     InsightType `json:"type"`
	Title    string      `json:"title"`
	Message  string      `json:"message"`
	Emoji    string      `json:"emoji"`
	Priority Priority    `json:"priority"`
}

const (
	patternMinEntries = 7
	patternWindow     = 30 // days
	averageWindow     = 7  // days
)

// GenerateInsights returns the insights for the snapshot at time now, highest
// priority first. Insights of equal priority keep their generation order:
// streak, goals, patterns, recommendations.
func GenerateInsights(s Snapshot, now time.Time) []Insight {
	var insights []Insight
	insights = append(insights, streakInsights(s.Streak)...)
	insights = append(insights, goalInsights(s, DateOf(now))...)
	insights = append(insights, patternInsights(s, now)...)
	insights = append(insights, recommendations(s, now)...)

	slices.SortStableFunc(insights, func(a, b Insight) int { return cmp.Compare(a.Priority, b.Priority) })
	return insights
}

func streakInsights(streak Streak) []Insight {
	var insights []Insight
	cur := streak.CurrentStreak

	if cur >= 7 && cur < 30 {
		insights = append(insights, Insight{
			Type:     StreakInsight,
			Title:    "Great Start!",
			Message:  fmt.Sprintf("You've maintained a %d-day streak. Keep it up to reach 30 days!", cur),
			Emoji:    "🔥",
			Priority: High,
		})
	}

	if cur > 0 && cur < streak.LongestStreak {
		insights = append(insights, Insight{
			Type:     StreakInsight,
			Title:    "Beat Your Record!",
			Message:  fmt.Sprintf("You're %d days away from beating your longest streak of %d days.", streak.LongestStreak-cur, streak.LongestStreak),
			Emoji:    "🏆",
			Priority: Medium,
		})
	}

	if next, ok := streak.NextMilestone(); ok {
		insights = append(insights, Insight{
			Type:     AchievementInsight,
			Title:    "Milestone Approaching",
			Message:  fmt.Sprintf("Just %d more days to earn your %d-day badge!", next-cur, next),
			Emoji:    "⭐",
			Priority: High,
		})
	}
	return insights
}

func goalInsights(s Snapshot, today Date) []Insight {
	var insights []Insight
	active := 0
	for _, g := range s.Goals {
		if !g.IsActive(today) {
			continue
		}
		active++
		progress := g.progress()
		p := progress.InexactFloat64()

		switch {
		case p >= 75 && p < 100:
			insights = append(insights, Insight{
				Type:     GoalInsight,
				Title:    "Almost There!",
				Message:  fmt.Sprintf("You're %d%% towards '%s'. Just %s to go!", progress.IntPart(), g.Name, s.Money(g.Remaining())),
				Emoji:    "🎯",
				Priority: High,
			})
		case p >= 50 && p < 75:
			insights = append(insights, Insight{
				Type:     GoalInsight,
				Title:    "Halfway There!",
				Message:  fmt.Sprintf("You've reached %d%% of '%s'. Keep up the momentum!", progress.IntPart(), g.Name),
				Emoji:    "💪",
				Priority: Medium,
			})
		}

		if days, ok := g.DaysRemaining(today); ok && days <= 7 {
			daily, _ := g.DailyTarget(today)
			insights = append(insights, Insight{
				Type:     GoalInsight,
				Title:    "Time to Push!",
				Message:  fmt.Sprintf("Only %d days left for '%s'. Save %s per day to reach it!", days, g.Name, s.Money(daily)),
				Emoji:    "⏰",
				Priority: High,
			})
		}
	}

	if active == 0 {
		insights = append(insights, Insight{
			Type:     GoalInsight,
			Title:    "Set a Goal",
			Message:  "Create a savings goal to stay motivated and track your progress!",
			Emoji:    "🎯",
			Priority: Medium,
		})
	}
	return insights
}

func patternInsights(s Snapshot, now time.Time) []Insight {
	if len(s.Entries) < patternMinEntries {
		return nil
	}
	var insights []Insight
	recent := entriesSince(s.Entries, now.AddDate(0, 0, -patternWindow), now)

	if day, t, ok := bestWeekday(recent); ok {
		insights = append(insights, Insight{
			Type:     PatternInsight,
			Title:    "Your Best Day",
			Message:  fmt.Sprintf("You save the most on %ss. Average: %s", day, s.Money(t.Average())),
			Emoji:    "📅",
			Priority: Low,
		})
	}

	if id, t, ok := bestCategory(recent); ok {
		if c, found := s.Category(id); found {
			share := percentOf(t.Amount, total(recent))
			insights = append(insights, Insight{
				Type:     PatternInsight,
				Title:    "Top Category",
				Message:  fmt.Sprintf("%s accounts for %d%% of your savings.", c.Label(), share.IntPart()),
				Emoji:    c.Emoji,
				Priority: Low,
			})
		}
	}

	if consistency := float64(len(distinctDays(recent))) / patternWindow; consistency < 0.5 {
		insights = append(insights, Insight{
			Type:     RecommendationInsight,
			Title:    "Build Consistency",
			Message:  "Try logging entries more regularly to build a stronger habit.",
			Emoji:    "🔄",
			Priority: Medium,
		})
	}
	return insights
}

func recommendations(s Snapshot, now time.Time) []Insight {
	var insights []Insight

	if len(s.Today(now)) == 0 {
		insights = append(insights, Insight{
			Type:     RecommendationInsight,
			Title:    "Log Today's Savings",
			Message:  "Don't forget to log your savings for today to maintain your streak!",
			Emoji:    "📝",
			Priority: High,
		})
	}

	if len(s.Entries) >= patternMinEntries {
		week := total(entriesSince(s.Entries, now.AddDate(0, 0, -averageWindow), now))
		daily := week.Div(decimal.NewFromInt(averageWindow))
		insights = append(insights, Insight{
			Type:     RecommendationInsight,
			Title:    "Your Average",
			Message:  fmt.Sprintf("You're saving %s per day on average. Great job!", s.Money(daily)),
			Emoji:    "📊",
			Priority: Low,
		})
	}
	return insights
}

// Tally is an amount and the number of entries summed into it.
type Tally struct {
	Amount decimal.Decimal
	Count  int
}

func (t Tally) add(e Entry) Tally { return Tally{t.Amount.Add(e.Amount), t.Count + 1} }

// Average returns the amount per entry.
func (t Tally) Average() decimal.Decimal {
	if t.Count == 0 {
		return decimal.Zero
	}
	return t.Amount.Div(decimal.NewFromInt(int64(t.Count)))
}

// bestWeekday returns the weekday with the largest total. Ties go to the
// earliest weekday, Sunday first.
func bestWeekday(entries []Entry) (time.Weekday, Tally, bool) {
	var byDay [7]Tally
	for _, e := range entries {
		wd := e.Timestamp.Weekday()
		byDay[wd] = byDay[wd].add(e)
	}
	best, found := time.Sunday, false
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if byDay[wd].Count == 0 {
			continue
		}
		if !found || byDay[wd].Amount.GreaterThan(byDay[best].Amount) {
			best, found = wd, true
		}
	}
	return best, byDay[best], found
}

// bestCategory returns the category with the largest total. Ties go to the
// smallest category id.
func bestCategory(entries []Entry) (uuid.UUID, Tally, bool) {
	byCategory := make(map[uuid.UUID]Tally)
	for _, e := range entries {
		byCategory[e.CategoryID] = byCategory[e.CategoryID].add(e)
	}
	var best uuid.UUID
	found := false
	for id, t := range byCategory {
		if !found {
			best, found = id, true
			continue
		}
		switch c := t.Amount.Cmp(byCategory[best].Amount); {
		case c > 0, c == 0 && id.String() < best.String():
			best = id
		}
	}
	return best, byCategory[best], found
}
