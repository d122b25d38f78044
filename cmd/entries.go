package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/savetrack"
	"github.com/etnz/savetrack/renderer"
	"github.com/google/subcommands"
	"github.com/google/uuid"
)

type addCmd struct {
	category string
	note     string
	date     string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "log a saving" }
func (*addCmd) Usage() string {
	return `svt add [-c <category>] [-note <text>] [-d <date>] <amount>

  Logs an amount saved. The entry is credited to every active goal and
  extends the daily streak.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "Other", "Category name or id.")
	f.StringVar(&c.note, "note", "", "Free text note.")
	f.StringVar(&c.date, "d", "", "Day of the saving (defaults to today). See 'svt topic dates'.")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: add expects exactly one amount.")
		return subcommands.ExitUsageError
	}
	amount, err := savetrack.ParseAmount(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	when, err := at(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	category, err := findCategory(t.Store().Categories(), c.category)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	e := savetrack.NewEntry(amount, category.ID, strings.TrimSpace(c.note), when, Now())
	if _, err := t.LogEntry(e); err != nil {
		fmt.Fprintf(os.Stderr, "Error logging entry: %v\n", err)
		return subcommands.ExitFailure
	}

	settings := currentSettings()
	fmt.Printf("Saved %s in %s (%s).\n", savetrack.M(amount, settings.Currency), category.Label(), shortID(e.ID))
	return subcommands.ExitSuccess
}

type editCmd struct {
	amount   string
	category string
	note     string
	date     string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "modify a logged saving" }
func (*editCmd) Usage() string {
	return `svt edit [-a <amount>] [-c <category>] [-note <text>] [-d <date>] <id>

  Modifies the given fields of an entry. Goals keep their amounts, the streak
  is recomputed.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "New amount.")
	f.StringVar(&c.category, "c", "", "New category name or id.")
	f.StringVar(&c.note, "note", "", "New note, '-' to clear it.")
	f.StringVar(&c.date, "d", "", "New day of the saving.")
}

func (c *editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: edit expects exactly one entry id.")
		return subcommands.ExitUsageError
	}
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	e, err := findEntry(t.Store().Entries(), f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.amount != "" {
		if e.Amount, err = savetrack.ParseAmount(c.amount); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}
	if c.category != "" {
		category, err := findCategory(t.Store().Categories(), c.category)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		e.CategoryID = category.ID
	}
	switch c.note {
	case "":
	case "-":
		e.Note = ""
	default:
		e.Note = strings.TrimSpace(c.note)
	}
	if c.date != "" {
		if e.Timestamp, err = at(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	if _, err := t.UpdateEntry(e); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating entry: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Updated entry %s.\n", shortID(e.ID))
	return subcommands.ExitSuccess
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete logged savings" }
func (*rmCmd) Usage() string {
	return `svt rm <id>...

  Deletes entries. Goals keep their amounts, the streak is recomputed.
`
}

func (*rmCmd) SetFlags(f *flag.FlagSet) {}

func (*rmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: rm expects at least one entry id.")
		return subcommands.ExitUsageError
	}
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	for _, id := range f.Args() {
		e, err := findEntry(t.Store().Entries(), id)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if _, err := t.DeleteEntry(e.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting entry: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Deleted entry %s.\n", shortID(e.ID))
	}
	return subcommands.ExitSuccess
}

type historyCmd struct {
	search     string
	categories string
	start      string
	end        string
	sort       string
	head       int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list logged savings grouped by day" }
func (*historyCmd) Usage() string {
	return `svt history [-q <text>] [-c <category>,...] [-s <start>] [-d <end>] [-sort <order>] [-head <n>]

  Lists entries grouped by day. Sort orders: date-desc (default), date-asc,
  amount-desc, amount-asc.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.search, "q", "", "Only entries whose note contains this text.")
	f.StringVar(&c.categories, "c", "", "Comma separated categories to keep.")
	f.StringVar(&c.start, "s", "", "First day of the range.")
	f.StringVar(&c.end, "d", "", "Last day of the range.")
	f.StringVar(&c.sort, "sort", "date-desc", "Sort order.")
	f.IntVar(&c.head, "head", 0, "Show only the first N entries.")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	order, err := savetrack.ParseSortOrder(c.sort)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	var filter savetrack.EntryFilter
	filter.Search = c.search
	if c.start != "" {
		if filter.From, err = ParseDate(c.start); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if c.end != "" {
		if filter.To, err = ParseDate(c.end); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	if c.categories != "" {
		for _, name := range strings.Split(c.categories, ",") {
			category, err := findCategory(t.Store().Categories(), name)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return subcommands.ExitUsageError
			}
			filter.Categories = append(filter.Categories, category.ID)
		}
	}

	s := t.Snapshot(currentSettings().Currency)
	entries := savetrack.FilterEntries(s.Entries, filter)
	savetrack.SortEntries(entries, order)
	if c.head > 0 && len(entries) > c.head {
		entries = entries[:c.head]
	}
	printMarkdown(renderer.HistoryMarkdown(s, savetrack.GroupByDay(entries, Now())))
	return subcommands.ExitSuccess
}

type useCmd struct {
	date string
}

func (*useCmd) Name() string     { return "use" }
func (*useCmd) Synopsis() string { return "log a saving from a template" }
func (*useCmd) Usage() string {
	return `svt use [-d <date>] <template>

  Logs a new entry with the amount, category and note of a template.
`
}

func (c *useCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Day of the saving (defaults to today).")
}

func (c *useCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: use expects a template name.")
		return subcommands.ExitUsageError
	}
	when, err := at(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	tmpl, err := findTemplate(t.Store().Templates(), strings.Join(f.Args(), " "))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	e := tmpl.ToEntry(Now())
	e.Timestamp = when
	if _, err := t.LogEntry(e); err != nil {
		fmt.Fprintf(os.Stderr, "Error logging entry: %v\n", err)
		return subcommands.ExitFailure
	}
	settings := currentSettings()
	fmt.Printf("Saved %s with template %q (%s).\n", savetrack.M(e.Amount, settings.Currency), tmpl.Name, shortID(e.ID))
	return subcommands.ExitSuccess
}

func shortID(id uuid.UUID) string { return id.String()[:8] }
