package savetrack

import (
	"fmt"
	"time"
)

// Milestones are the streak lengths that award a badge.
var Milestones = []int{7, 30, 60, 100, 365}

// Badge is an award for reaching a streak milestone.
type Badge struct {
	Milestone int
	Name      string
	Emoji     string
}

var badges = []Badge{
	{7, "Week Warrior", "🔥"},
	{30, "Monthly Master", "⭐"},
	{60, "Two Month Champion", "🏆"},
	{100, "Century Club", "💯"},
	{365, "Year Warrior", "👑"},
}

func (b Badge) Description() string {
	return fmt.Sprintf("Logged entries for %d consecutive days", b.Milestone)
}

// BadgeFor returns the badge awarded at milestone.
func BadgeFor(milestone int) (Badge, bool) {
	for _, b := range badges {
		if b.Milestone == milestone {
			return b, true
		}
	}
	return Badge{}, false
}

// BadgeStatus is a catalog badge with its earned state.
type BadgeStatus struct {
	Badge
	Earned   bool
	EarnedAt time.Time
}

// Badges returns the whole badge catalog with the streak's earned state.
func (s Streak) Badges() []BadgeStatus {
	statuses := make([]BadgeStatus, 0, len(badges))
	for _, b := range badges {
		st := BadgeStatus{Badge: b, Earned: s.HasBadge(b.Milestone)}
		if st.Earned {
			st.EarnedAt = s.BadgeEarnedDates[b.Milestone]
		}
		statuses = append(statuses, st)
	}
	return statuses
}
