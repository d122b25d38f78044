package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/savetrack"
	"github.com/etnz/savetrack/renderer"
	"github.com/google/subcommands"
)

type homeCmd struct{}

func (*homeCmd) Name() string     { return "home" }
func (*homeCmd) Synopsis() string { return "show today's savings, the streak and active goals" }
func (*homeCmd) Usage() string {
	return `svt home

  Shows the dashboard. It reminds you to back up your data when due.
`
}

func (*homeCmd) SetFlags(f *flag.FlagSet) {}

func (*homeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	settings := currentSettings()
	s := t.Snapshot(settings.Currency)
	now := Now()

	if isTerminal() {
		fmt.Println(renderer.StreakCard(s.Streak, renderer.DefaultStyles()))
	}
	printMarkdown(renderer.HomeMarkdown(s, now))
	if len(s.Entries) > 0 && settings.BackupDue(now) {
		fmt.Println("\n💾 Time for a backup: run 'svt export -o backup.json'.")
	}
	return subcommands.ExitSuccess
}

type badgesCmd struct{}

func (*badgesCmd) Name() string     { return "badges" }
func (*badgesCmd) Synopsis() string { return "show earned and upcoming streak badges" }
func (*badgesCmd) Usage() string {
	return `svt badges
`
}

func (*badgesCmd) SetFlags(f *flag.FlagSet) {}

func (*badgesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	printMarkdown(renderer.BadgesMarkdown(t.Store().Streak()))
	return subcommands.ExitSuccess
}

type insightsCmd struct {
	limit int
}

func (*insightsCmd) Name() string     { return "insights" }
func (*insightsCmd) Synopsis() string { return "show personalized insights" }
func (*insightsCmd) Usage() string {
	return `svt insights [-n <count>]

  Shows motivational insights about goals, the streak and saving patterns,
  most important first.
`
}

func (c *insightsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 0, "Show only the first N insights.")
}

func (c *insightsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	insights := t.Insights(currentSettings().Currency)
	if c.limit > 0 && len(insights) > c.limit {
		insights = insights[:c.limit]
	}
	printMarkdown(renderer.InsightsMarkdown(insights))
	return subcommands.ExitSuccess
}

type chartsCmd struct {
	window string
}

func (*chartsCmd) Name() string     { return "charts" }
func (*chartsCmd) Synopsis() string { return "show savings statistics and trends" }
func (*chartsCmd) Usage() string {
	return `svt charts [-w <window>]

  Shows the cumulative savings, category breakdown, monthly and weekly
  comparisons and trends over a trailing window: week, month or year.
`
}

func (c *chartsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.window, "w", "week", "Trailing window (week, month, year).")
}

func (c *chartsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, err := savetrack.ParseWindow(c.window)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	printMarkdown(renderer.ChartsMarkdown(t.Snapshot(currentSettings().Currency), w, Now()))
	return subcommands.ExitSuccess
}

type shareCmd struct{}

func (*shareCmd) Name() string     { return "share" }
func (*shareCmd) Synopsis() string { return "print a shareable progress card" }
func (*shareCmd) Usage() string {
	return `svt share

  Prints a markdown card of your streak, badges and goals, ready to be pasted.
`
}

func (*shareCmd) SetFlags(f *flag.FlagSet) {}

func (*shareCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	// raw markdown, to be copied
	fmt.Print(renderer.RenderShare(renderer.NewShare(t.Snapshot(currentSettings().Currency), Now())))
	return subcommands.ExitSuccess
}

type widgetCmd struct {
	path string
}

func (*widgetCmd) Name() string     { return "widget" }
func (*widgetCmd) Synopsis() string { return "print a compact JSON summary for scripts" }
func (*widgetCmd) Usage() string {
	return `svt widget [-path <jsonpath>]

  Prints the streak, today's savings, the next badge and the active goals as
  JSON. With -path, prints only the value at that JSONPath, e.g.
  'svt widget -path $.today.formatted'.
`
}

func (c *widgetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "path", "", "JSONPath expression to extract.")
}

func (c *widgetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	w := savetrack.NewWidget(t.Snapshot(currentSettings().Currency), Now())
	var v any = w
	if c.path != "" {
		if v, err = w.Query(c.path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		// scalars are printed as is, for shell scripts
		switch x := v.(type) {
		case string:
			fmt.Println(x)
			return subcommands.ExitSuccess
		case float64, bool:
			fmt.Println(x)
			return subcommands.ExitSuccess
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type coachCmd struct{}

func (*coachCmd) Name() string     { return "coach" }
func (*coachCmd) Synopsis() string { return "chat with an AI savings coach" }
func (*coachCmd) Usage() string {
	return `svt coach [<question>]

  Starts an interactive session with a savings coach that knows your entries,
  goals, streak and insights. Requires a Gemini API key in $GEMINI_API_KEY.
`
}

func (*coachCmd) SetFlags(f *flag.FlagSet) {}

func (*coachCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	if err := runCoach(ctx, t, strings.Join(f.Args(), " ")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
