// Package coach is an AI savings coach chatting in the terminal.
//
// The coach answers through a facilitator model that consults an Analyst,
// reading the user's data, and a Researcher, searching for saving tips. The
// first question of a session is preceded by a briefing on the user's
// current streak, goals, insights and trends.
package coach

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/etnz/savetrack"
	"google.golang.org/genai"
)

// Source returns the data to coach on and the current time.
type Source func() (savetrack.Snapshot, time.Time)

type asker interface {
	Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error)
}

// Coach is a chat session.
type Coach struct {
	src         Source
	out         io.Writer
	in          *bufio.Scanner
	Facilitator *Expert
	Experts     []*Expert

	ask     asker
	briefed bool
}

// New returns a coach on the data of src, talking on out and listening on in.
func New(src Source, out io.Writer, in io.Reader) *Coach {
	experts := []*Expert{NewAnalyst(src), NewResearcher()}
	facilitator := newFacilitator(experts...)
	return &Coach{
		src:         src,
		out:         out,
		in:          bufio.NewScanner(in),
		Facilitator: facilitator,
		Experts:     experts,
		ask:         facilitator,
	}
}

// Start opens the model chats.
func (c *Coach) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range c.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return c.Facilitator.Start(ctx, client)
}

// Run starts the chats and the conversation. prompts are asked first, as if
// typed by the user. The session ends on "bye" or at the end of the input.
func (c *Coach) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if err := c.Start(ctx, client); err != nil {
		return err
	}
	return c.converse(ctx, prompts)
}

const prompt = "coach> "

func (c *Coach) converse(ctx context.Context, prompts []string) error {
	s, _ := c.src()
	fmt.Fprintln(c.out, welcome(s.Streak))

	for {
		input, ok := c.next(&prompts)
		if !ok {
			return c.in.Err()
		}
		switch strings.ToLower(input) {
		case "":
			continue
		case "bye", "quit", "exit":
			fmt.Fprintln(c.out, "Keep the streak going!")
			return nil
		case "brief":
			fmt.Fprint(c.out, Briefing(c.src()))
			continue
		}

		parts := make([]*genai.Part, 0, 2)
		if !c.briefed {
			parts = append(parts, &genai.Part{Text: Briefing(c.src())})
		}
		parts = append(parts, &genai.Part{Text: input})

		answer, err := c.ask.Ask(ctx, parts...)
		if err != nil {
			return err
		}
		c.briefed = true
		fmt.Fprintln(c.out, textOf(answer))
	}
}

// next returns the next user input, from prompts first.
func (c *Coach) next(prompts *[]string) (string, bool) {
	fmt.Fprint(c.out, prompt)
	if len(*prompts) > 0 {
		input := strings.TrimSpace((*prompts)[0])
		*prompts = (*prompts)[1:]
		fmt.Fprintln(c.out, input)
		return input, true
	}
	if !c.in.Scan() {
		fmt.Fprintln(c.out)
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func welcome(streak savetrack.Streak) string {
	const hint = "Type 'brief' for a summary, 'bye' to exit."
	if !streak.HasActiveStreak() {
		return "Welcome to your savings coach. " + hint
	}
	return fmt.Sprintf("Welcome back! You're on a %d-day streak 🔥. %s", streak.CurrentStreak, hint)
}

// maxBriefingInsights bounds the insights quoted in a briefing.
const maxBriefingInsights = 5

// Briefing describes the user's situation for the facilitator.
func Briefing(s savetrack.Snapshot, now time.Time) string {
	today := savetrack.DateOf(now)
	var b strings.Builder
	currency := s.Currency
	if currency == "" {
		currency = savetrack.DefaultCurrency
	}
	fmt.Fprintf(&b, "Briefing on the user as of %s (%s), amounts in %s:\n", today, today.Weekday(), currency)

	st := s.Streak
	fmt.Fprintf(&b, "- Streak: %d days, longest %d days", st.CurrentStreak, st.LongestStreak)
	if next, ok := st.NextMilestone(); ok {
		fmt.Fprintf(&b, ", next badge at %d days", next)
	}
	b.WriteString(".\n")

	t := savetrack.TodayTotal(s.Entries, today)
	fmt.Fprintf(&b, "- Today: %s in %d entries, %s saved overall.\n", s.Money(t.Amount), t.Count, s.Money(s.Total()))

	goals := savetrack.ActiveGoals(s.Goals, today)
	if len(goals) == 0 {
		b.WriteString("- No active goal.\n")
	}
	for _, g := range goals {
		fmt.Fprintf(&b, "- Goal %q: %s of %s, %s to go", g.Name, g.Progress(), s.Money(g.TargetAmount), s.Money(g.Remaining()))
		if days, ok := g.DaysRemaining(today); ok {
			fmt.Fprintf(&b, ", %d days left", days)
		}
		b.WriteString(".\n")
	}

	tr := savetrack.Trends(s, now)
	fmt.Fprintf(&b, "- Trends: week over week %s, month over month %s, %s per day over 30 days, best day %s, best category %s.\n",
		tr.WeeklyGrowth.SignedString(), tr.MonthlyGrowth.SignedString(), s.Money(tr.AverageDaily), tr.BestWeekday, tr.BestCategory)

	insights := savetrack.GenerateInsights(s, now)
	for _, in := range insights[:min(len(insights), maxBriefingInsights)] {
		fmt.Fprintf(&b, "- Insight (%s): %s %s\n", in.Priority, in.Title, in.Message)
	}
	return b.String()
}

func textOf(content *genai.Content) string {
	var texts []string
	for _, p := range content.Parts {
		if p.Text != "" && !p.Thought {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}
