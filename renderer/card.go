package renderer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/etnz/savetrack"
)

// Styles of the terminal cards.
type Styles struct {
	Card   lipgloss.Style
	Flame  lipgloss.Style
	Muted  lipgloss.Style
	Reward lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Card:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#f97316")).Padding(0, 2),
		Flame:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f97316")),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")),
		Reward: lipgloss.NewStyle().Foreground(lipgloss.Color("#d29b1d")),
	}
}

// StreakCard renders the streak as a bordered terminal card.
func StreakCard(st savetrack.Streak, styles Styles) string {
	var b strings.Builder
	b.WriteString(styles.Flame.Render(fmt.Sprintf("🔥 %s streak", plural(st.CurrentStreak, "day", "days"))))
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render(fmt.Sprintf("Longest: %s", plural(st.LongestStreak, "day", "days"))))
	if st.LongestStreakStart != nil && st.LongestStreakEnd != nil {
		b.WriteString(styles.Muted.Render(fmt.Sprintf(" (%s to %s)", st.LongestStreakStart, st.LongestStreakEnd)))
	}
	if next, ok := st.NextMilestone(); ok {
		badge, _ := savetrack.BadgeFor(next)
		b.WriteString("\n")
		b.WriteString(styles.Reward.Render(fmt.Sprintf("Next: %s %s in %s", badge.Emoji, badge.Name, plural(next-st.CurrentStreak, "day", "days"))))
	}
	return styles.Card.Render(b.String())
}
