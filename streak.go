package savetrack

import (
	"maps"
	"slices"
	"time"
)

// Streak is the consecutive-day logging state derived from the entries.
//
// It is recomputed from the full entry set after every change. Only
// LongestStreak, its range and the badges carry over from one computation to
// the next: they never decrease.
type Streak struct {
	CurrentStreak      int               `json:"currentStreak"`
	LongestStreak      int               `json:"longestStreak"`
	LastEntryDate      *Date             `json:"lastEntryDate,omitempty"`
	MilestoneBadges    []int             `json:"milestoneBadges"`
	LongestStreakStart *Date             `json:"longestStreakStart,omitempty"`
	LongestStreakEnd   *Date             `json:"longestStreakEnd,omitempty"`
	BadgeEarnedDates   map[int]time.Time `json:"badgeEarnedDates,omitempty"`
}

// ComputeStreak derives the streak from entries, merging it with the
// previously stored streak.
//
// The current streak is anchored on the most recent entry day and counts the
// consecutive days before it. With no entries at all only the current streak
// is reset.
func ComputeStreak(entries []Entry, previous Streak, now time.Time) Streak {
	s := previous.clone()
	if len(entries) == 0 {
		s.CurrentStreak = 0
		return s
	}

	days := distinctDays(entries)
	last := days[0]
	s.LastEntryDate = &last

	best, bestFrom, bestTo := 0, Date{}, Date{}
	for i := 0; i < len(days); {
		j := i
		for j+1 < len(days) && days[j].Sub(days[j+1]) == 1 {
			j++
		}
		n := j - i + 1
		if i == 0 {
			s.CurrentStreak = n
		}
		// days are descending: the run spans days[j]..days[i].
		if n > best {
			best, bestFrom, bestTo = n, days[j], days[i]
		}
		i = j + 1
	}

	if best > s.LongestStreak {
		s.LongestStreak = best
		s.LongestStreakStart = &bestFrom
		s.LongestStreakEnd = &bestTo
	}

	for _, m := range Milestones {
		if s.CurrentStreak >= m && !s.HasBadge(m) {
			s.MilestoneBadges = append(s.MilestoneBadges, m)
			s.BadgeEarnedDates[m] = now
		}
	}
	slices.Sort(s.MilestoneBadges)
	return s
}

// distinctDays returns the distinct entry days, most recent first.
func distinctDays(entries []Entry) []Date {
	seen := make(map[Date]struct{}, len(entries))
	days := make([]Date, 0, len(entries))
	for _, e := range entries {
		d := e.Day()
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b Date) int { return b.Sub(a) })
	return days
}

func (s Streak) clone() Streak {
	s.MilestoneBadges = slices.Clone(s.MilestoneBadges)
	if s.BadgeEarnedDates == nil {
		s.BadgeEarnedDates = make(map[int]time.Time)
	} else {
		s.BadgeEarnedDates = maps.Clone(s.BadgeEarnedDates)
	}
	return s
}

// HasActiveStreak reports whether the current streak is running.
func (s Streak) HasActiveStreak() bool { return s.CurrentStreak > 0 }

// HasBadge reports whether the milestone badge was earned.
func (s Streak) HasBadge(milestone int) bool { return slices.Contains(s.MilestoneBadges, milestone) }

// NextMilestone returns the smallest milestone above the current streak that
// has not been earned yet.
func (s Streak) NextMilestone() (int, bool) {
	for _, m := range Milestones {
		if m > s.CurrentStreak && !s.HasBadge(m) {
			return m, true
		}
	}
	return 0, false
}

// NewBadges returns the milestones earned in next but not in previous.
func NewBadges(previous, next Streak) []int {
	var earned []int
	for _, m := range next.MilestoneBadges {
		if !previous.HasBadge(m) {
			earned = append(earned, m)
		}
	}
	return earned
}
