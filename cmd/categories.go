package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/savetrack"
	"github.com/etnz/savetrack/renderer"
	"github.com/google/subcommands"
)

type categoryCmd struct {
	emoji string
}

func (*categoryCmd) Name() string     { return "category" }
func (*categoryCmd) Synopsis() string { return "create a custom category" }
func (*categoryCmd) Usage() string {
	return `svt category [-emoji <emoji>] <name>

  Creates a custom category to classify entries.
`
}

func (c *categoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.emoji, "emoji", "➕", "Emoji displayed with the category.")
}

func (c *categoryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name := strings.Join(f.Args(), " ")
	category, err := savetrack.NewCategory(name, c.emoji, Now())
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

	if _, ok := savetrack.FindCategory(t.Store().Categories(), category.Name); ok {
		fmt.Fprintf(os.Stderr, "Error: category %q already exists.\n", category.Name)
		return subcommands.ExitFailure
	}
	if err := t.Store().AddCategory(category); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving category: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created category %s.\n", category.Label())
	return subcommands.ExitSuccess
}

type categoriesCmd struct{}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list categories" }
func (*categoriesCmd) Usage() string {
	return `svt categories

  Lists the default and custom categories.
`
}

func (*categoriesCmd) SetFlags(f *flag.FlagSet) {}

func (*categoriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	printMarkdown(renderer.CategoriesMarkdown(t.Store().Categories()))
	return subcommands.ExitSuccess
}

type categoryRmCmd struct{}

func (*categoryRmCmd) Name() string     { return "category-rm" }
func (*categoryRmCmd) Synopsis() string { return "delete a custom category" }
func (*categoryRmCmd) Usage() string {
	return `svt category-rm <name>

  Deletes a custom category. Entries using it are kept and shown as Unknown.
`
}

func (*categoryRmCmd) SetFlags(f *flag.FlagSet) {}

func (*categoryRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	category, err := findCategory(t.Store().Categories(), strings.Join(f.Args(), " "))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	err = t.Store().DeleteCategory(category.ID)
	switch {
	case errors.Is(err, savetrack.ErrDefaultCategory):
		fmt.Fprintf(os.Stderr, "Error: %s is a default category and cannot be deleted.\n", category.Label())
		return subcommands.ExitFailure
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error deleting category: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted category %s.\n", category.Label())
	return subcommands.ExitSuccess
}

type templateCmd struct {
	category string
	note     string
}

func (*templateCmd) Name() string     { return "template" }
func (*templateCmd) Synopsis() string { return "save an entry template" }
func (*templateCmd) Usage() string {
	return `svt template [-c <category>] [-note <text>] <name> <amount>

  Saves a preset for a recurring saving, logged later with 'svt use <name>'.
  Saving a template with an existing name replaces it.
`
}

func (c *templateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "Other", "Category name or id.")
	f.StringVar(&c.note, "note", "", "Note of the logged entries.")
}

func (c *templateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Error: template expects a name and an amount.")
		return subcommands.ExitUsageError
	}
	name := strings.Join(f.Args()[:f.NArg()-1], " ")
	amount, err := savetrack.ParseAmount(f.Arg(f.NArg() - 1))
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

	category, err := findCategory(t.Store().Categories(), c.category)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	tmpl := savetrack.NewEntryTemplate(name, amount, category.ID, strings.TrimSpace(c.note), Now())
	if existing, err := findTemplate(t.Store().Templates(), name); err == nil {
		tmpl.ID, tmpl.CreatedAt = existing.ID, existing.CreatedAt
	}
	if err := t.Store().SaveTemplate(tmpl); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving template: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Saved template %q.\n", tmpl.Name)
	return subcommands.ExitSuccess
}

type templatesCmd struct{}

func (*templatesCmd) Name() string     { return "templates" }
func (*templatesCmd) Synopsis() string { return "list entry templates" }
func (*templatesCmd) Usage() string {
	return `svt templates

  Lists the saved entry templates.
`
}

func (*templatesCmd) SetFlags(f *flag.FlagSet) {}

func (*templatesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	printMarkdown(renderer.TemplatesMarkdown(t.Snapshot(currentSettings().Currency), t.Store().Templates()))
	return subcommands.ExitSuccess
}

type templateRmCmd struct{}

func (*templateRmCmd) Name() string     { return "template-rm" }
func (*templateRmCmd) Synopsis() string { return "delete an entry template" }
func (*templateRmCmd) Usage() string {
	return `svt template-rm <name>
`
}

func (*templateRmCmd) SetFlags(f *flag.FlagSet) {}

func (*templateRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if err := t.Store().DeleteTemplate(tmpl.ID); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting template: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted template %q.\n", tmpl.Name)
	return subcommands.ExitSuccess
}
