package coach

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/savetrack"
	"github.com/etnz/savetrack/docs"
	"github.com/etnz/savetrack/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

func systemInstruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Coach",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: systemInstruction(`
			You are a friendly savings coach. The user logs small everyday savings
			(skipped purchases, coupons, meals cooked at home) to build a daily habit.

			Your first message starts with a briefing on the user's situation. Learn about
			the experts you can ask questions to from the Tools. They keep the context of
			your previous questions.

			Celebrate progress, be concrete and brief. Base every figure you give on what the
			experts tell you, never invent amounts.
		`),
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns an expert grounded on Google Search, for saving tips.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `The Researcher finds practical, up to date saving tips and
		explains personal finance concepts. Ask the Researcher for ideas and references.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: systemInstruction(`
			You research frugal living and saving techniques. Use Google Search to ground
			your suggestions and keep them actionable.
		`),
		},
	}
}

// NewAnalyst returns the expert reading the user's data from src.
func NewAnalyst(src Source) *Expert {
	lib := AnalystFunctions(src)
	return &Expert{
		Name: "Analyst",
		Description: `The Analyst reads the user's savings data: entries, streak, badges,
		goals, insights and statistics. Ask the Analyst for any figure about the user.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: systemInstruction(`
			You are in charge of the user's savings data. Use the Tools to extract the
			relevant figures and answer precisely.
		`),
		},
		Library: NewLibrary(lib),
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// AnalystFunctions returns the tools reading src.
func AnalystFunctions(src Source) []Function {
	markdown := func(name, description string, props map[string]*genai.Schema, render func(s savetrack.Snapshot, now time.Time, args map[string]any) (string, error)) Function {
		return &Func{
			Decl: &genai.FunctionDeclaration{
				Name:        name,
				Description: description,
				Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: props},
				Response:    &genai.Schema{Type: genai.TypeString, Description: "A markdown report."},
			},
			Func: func(_ context.Context, id string, args map[string]any) *genai.FunctionResponse {
				s, now := src()
				out, err := render(s, now, args)
				if err != nil {
					return errorResponse(id, name, err)
				}
				return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": out}}
			},
		}
	}

	return []Function{
		markdown("get_insights", "Lists the motivational insights computed from the user's data, highest priority first.", nil,
			func(s savetrack.Snapshot, now time.Time, _ map[string]any) (string, error) {
				return renderer.InsightsMarkdown(savetrack.GenerateInsights(s, now)), nil
			}),
		markdown("get_goals", "Lists active and completed savings goals with progress and deadlines.", nil,
			func(s savetrack.Snapshot, now time.Time, _ map[string]any) (string, error) {
				return renderer.GoalsMarkdown(s, now, true), nil
			}),
		markdown("get_streak", "Describes the logging streak and the badge catalog.", nil,
			func(s savetrack.Snapshot, _ time.Time, _ map[string]any) (string, error) {
				return renderer.BadgesMarkdown(s.Streak), nil
			}),
		markdown("get_statistics", "Totals, averages, category breakdown and trends over a trailing window.",
			map[string]*genai.Schema{
				"window": {Type: genai.TypeString, Description: "The trailing window: week (default), month or year."},
			},
			func(s savetrack.Snapshot, now time.Time, args map[string]any) (string, error) {
				w := savetrack.WeekWindow
				if arg, ok := args["window"].(string); ok {
					var err error
					if w, err = savetrack.ParseWindow(arg); err != nil {
						return "", err
					}
				}
				return renderer.ChartsMarkdown(s, w, now), nil
			}),
		markdown("get_history", "Lists the entries logged between two days, grouped by day.",
			map[string]*genai.Schema{
				"from": {Type: genai.TypeString, Description: "First day, 30 days ago by default. Format:\n\n" + must(docs.Read("dates"))},
				"to":   {Type: genai.TypeString, Description: "Last day, today by default. Same format as 'from'."},
			},
			func(s savetrack.Snapshot, now time.Time, args map[string]any) (string, error) {
				today := savetrack.DateOf(now)
				from, err := dateArg(args, "from", today, today.Add(-30))
				if err != nil {
					return "", err
				}
				to, err := dateArg(args, "to", today, today)
				if err != nil {
					return "", err
				}
				entries := savetrack.FilterEntries(s.Entries, savetrack.EntryFilter{From: from, To: to})
				savetrack.SortEntries(entries, savetrack.DateDesc)
				return renderer.HistoryMarkdown(s, savetrack.GroupByDay(entries, now)), nil
			}),
	}
}

func dateArg(args map[string]any, name string, today, def savetrack.Date) (savetrack.Date, error) {
	v, ok := args[name]
	if !ok {
		return def, nil
	}
	str, ok := v.(string)
	if !ok {
		return def, fmt.Errorf("argument %q is not a string as expected but %T", name, v)
	}
	d, err := savetrack.ParseDateFrom(today, str)
	if err != nil {
		return def, fmt.Errorf("argument %q must be a valid date, got %q: %w", name, str, err)
	}
	return d, nil
}
