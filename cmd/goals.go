package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/etnz/savetrack"
	"github.com/etnz/savetrack/renderer"
	"github.com/google/subcommands"
)

type goalCmd struct {
	period string
	end    string
}

func (*goalCmd) Name() string     { return "goal" }
func (*goalCmd) Synopsis() string { return "create a savings goal" }
func (*goalCmd) Usage() string {
	return `svt goal [-p <period>] [-end <date>] <name> <target>

  Creates a goal. Every entry logged while the goal is active is credited to it.
`
}

func (c *goalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "monthly", "Goal period (daily, weekly, monthly, yearly).")
	f.StringVar(&c.end, "end", "", "Optional deadline. See 'svt topic dates'.")
}

func (c *goalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Error: goal expects a name and a target amount.")
		return subcommands.ExitUsageError
	}
	name := strings.Join(f.Args()[:f.NArg()-1], " ")
	target, err := savetrack.ParseAmount(f.Arg(f.NArg() - 1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	period, err := savetrack.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	var end *time.Time
	if c.end != "" {
		d, err := ParseDate(c.end)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
			return subcommands.ExitUsageError
		}
		deadline := d.Start(Now().Location())
		end = &deadline
	}

	g, err := savetrack.NewGoal(name, target, period, end, Now())
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

	if err := t.Store().SaveGoals(g); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving goal: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created goal %q: save %s (%s).\n", g.Name, savetrack.M(target, currentSettings().Currency), shortID(g.ID))
	return subcommands.ExitSuccess
}

type goalsCmd struct {
	all bool
}

func (*goalsCmd) Name() string     { return "goals" }
func (*goalsCmd) Synopsis() string { return "show savings goals" }
func (*goalsCmd) Usage() string {
	return `svt goals [-all]

  Shows active goals with their progress, and completed goals with -all.
`
}

func (c *goalsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Also show completed goals.")
}

func (c *goalsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	printMarkdown(renderer.GoalsMarkdown(t.Snapshot(currentSettings().Currency), Now(), c.all))
	return subcommands.ExitSuccess
}

type archiveCmd struct{}

func (*archiveCmd) Name() string     { return "archive" }
func (*archiveCmd) Synopsis() string { return "mark a goal as completed" }
func (*archiveCmd) Usage() string {
	return `svt archive <goal>

  Completes a goal whatever its progress. It stops receiving entries.
`
}

func (*archiveCmd) SetFlags(f *flag.FlagSet) {}

func (*archiveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: archive expects a goal name or id.")
		return subcommands.ExitUsageError
	}
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	g, err := findGoal(t.Store().Goals(), strings.Join(f.Args(), " "))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if g.IsCompleted {
		fmt.Printf("Goal %q is already completed.\n", g.Name)
		return subcommands.ExitSuccess
	}
	if err := t.Store().SaveGoals(g.Archive(Now())); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving goal: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Archived goal %q at %s.\n", g.Name, g.Progress())
	return subcommands.ExitSuccess
}

type goalRmCmd struct{}

func (*goalRmCmd) Name() string     { return "goal-rm" }
func (*goalRmCmd) Synopsis() string { return "delete a goal" }
func (*goalRmCmd) Usage() string {
	return `svt goal-rm <goal>

  Deletes a goal. Entries are kept.
`
}

func (*goalRmCmd) SetFlags(f *flag.FlagSet) {}

func (*goalRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: goal-rm expects a goal name or id.")
		return subcommands.ExitUsageError
	}
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	g, err := findGoal(t.Store().Goals(), strings.Join(f.Args(), " "))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := t.Store().DeleteGoal(g.ID); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting goal: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted goal %q.\n", g.Name)
	return subcommands.ExitSuccess
}
