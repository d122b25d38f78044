package coach

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/etnz/savetrack"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

var now = time.Date(2025, time.October, 16, 12, 0, 0, 0, time.UTC)

func source() (savetrack.Snapshot, time.Time) {
	var entries []savetrack.Entry
	for _, n := range []int{0, 1, 40} {
		at := now.AddDate(0, 0, -n)
		entries = append(entries, savetrack.NewEntry(decimal.NewFromInt(4), savetrack.UsedCouponID, "coupon", at, at))
	}
	return savetrack.Snapshot{
		Entries:    entries,
		Categories: savetrack.DefaultCategories(now),
		Streak:     savetrack.ComputeStreak(entries, savetrack.Streak{}, now),
		Currency:   "USD",
	}, now
}

func call(t *testing.T, name string, args map[string]any) map[string]any {
	t.Helper()
	lib := NewLibrary(AnalystFunctions(source))
	resp := lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args})
	if resp.ID != "1" || resp.Name != name {
		t.Errorf("response = %s/%s, want 1/%s", resp.ID, resp.Name, name)
	}
	return resp.Response
}

func TestAnalystFunctions(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"get_insights", nil, "Set a Goal"},
		{"get_goals", nil, "No active goal."},
		{"get_streak", nil, "Week Warrior"},
		{"get_statistics", map[string]any{"window": "month"}, "Savings over the last month"},
		{"get_history", map[string]any{"from": "-7d"}, "Yesterday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, tt.name, tt.args)
			out, ok := resp["output"].(string)
			if !ok {
				t.Fatalf("response = %v, want an output", resp)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output does not contain %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestAnalystFunctions_HistoryRange(t *testing.T) {
	out, _ := call(t, "get_history", map[string]any{"from": "2025-10-16", "to": "2025-10-16"})["output"].(string)
	if strings.Contains(out, "Yesterday") || !strings.Contains(out, "Today") {
		t.Errorf("history restricted to today:\n%s", out)
	}
}

func TestAnalystFunctions_Errors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
	}{
		{"get_statistics", map[string]any{"window": "decade"}},
		{"get_history", map[string]any{"from": 12}},
		{"get_history", map[string]any{"to": "someday"}},
		{"get_budget", nil},
	}
	for _, tt := range tests {
		if resp := call(t, tt.name, tt.args); resp["error"] == nil {
			t.Errorf("%s(%v) = %v, want an error", tt.name, tt.args, resp)
		}
	}
}

func TestFacilitatorDeclaresExperts(t *testing.T) {
	c := New(source, &strings.Builder{}, strings.NewReader(""))
	decls := c.Facilitator.Config.Tools[0].FunctionDeclarations
	if len(decls) != 2 || decls[0].Name != "Analyst" || decls[1].Name != "Researcher" {
		t.Errorf("facilitator tools = %v, want Analyst and Researcher", decls)
	}
	if got := decls[0].Parameters.Required; len(got) != 1 || got[0] != "question" {
		t.Errorf("expert parameters = %v, want a single question", got)
	}
}

// recorder answers every question with a fixed text and keeps what it was
// sent.
type recorder struct {
	sent [][]*genai.Part
}

func (r *recorder) Ask(_ context.Context, parts ...*genai.Part) (*genai.Content, error) {
	r.sent = append(r.sent, parts)
	return &genai.Content{Parts: []*genai.Part{{Text: "thinking", Thought: true}, {Text: "Keep going."}}}, nil
}

func TestConverse_BriefsFirstQuestion(t *testing.T) {
	var out strings.Builder
	c := New(source, &out, strings.NewReader("how am I doing?\n\nbrief\nbye\nignored\n"))
	r := &recorder{}
	c.ask = r

	if err := c.converse(context.Background(), []string{"hello"}); err != nil {
		t.Fatalf("converse() error = %v", err)
	}

	if len(r.sent) != 2 {
		t.Fatalf("questions sent = %d, want 2", len(r.sent))
	}
	first, second := r.sent[0], r.sent[1]
	if len(first) != 2 || !strings.HasPrefix(first[0].Text, "Briefing on the user as of 2025-10-16") || first[1].Text != "hello" {
		t.Errorf("first turn = %v, want the briefing then the question", first)
	}
	if len(second) != 1 || second[0].Text != "how am I doing?" {
		t.Errorf("second turn = %v, want the question alone", second)
	}

	got := out.String()
	for _, want := range []string{
		"Welcome back! You're on a 2-day streak",
		"coach> hello\nKeep going.\n",
		"- Streak: 2 days, longest 2 days, next badge at 7 days.",
		"Keep the streak going!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "thinking") {
		t.Errorf("output shows the model thoughts:\n%s", got)
	}
}

func TestConverse_EndOfInput(t *testing.T) {
	var out strings.Builder
	c := New(source, &out, strings.NewReader(""))
	c.ask = &recorder{}
	if err := c.converse(context.Background(), nil); err != nil {
		t.Errorf("converse() error = %v, want nil at the end of the input", err)
	}
}

func TestBriefing(t *testing.T) {
	s, now := source()
	trip, err := savetrack.NewGoal("Trip", decimal.NewFromInt(100), savetrack.Monthly, nil, now)
	if err != nil {
		t.Fatal(err)
	}
	trip.CurrentAmount = decimal.NewFromInt(57)
	s.Goals = []savetrack.Goal{trip}

	got := Briefing(s, now)
	for _, want := range []string{
		"as of 2025-10-16 (Thursday), amounts in USD:",
		"- Today: $4.00 in 1 entries, $12.00 saved overall.",
		`- Goal "Trip": 57.00% of $100.00, $43.00 to go.`,
		"best day Wednesday, best category 🎟️ Used Coupon.",
		"- Insight (high): Milestone Approaching",
		"- Insight (medium): Halfway There! You've reached 57% of 'Trip'.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Briefing() does not contain %q:\n%s", want, got)
		}
	}
}
