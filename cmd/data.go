package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/savetrack"
	"github.com/etnz/savetrack/config"
	"github.com/google/subcommands"
)

type exportCmd struct {
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "back up or export your data" }
func (*exportCmd) Usage() string {
	return `svt export [-f json|csv|xlsx] [-o <file>]

  Writes a JSON backup of entries, goals and categories, or the entries as a
  CSV or Excel table. A JSON export resets the backup reminder.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "f", "json", "Export format: json, csv or xlsx.")
	f.StringVar(&c.output, "o", "", "Output file (defaults to stdout).")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format := strings.ToLower(c.format)
	switch format {
	case "json", "csv", "xlsx":
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q, want json, csv or xlsx.\n", c.format)
		return subcommands.ExitUsageError
	}

	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	settings := currentSettings()
	s := t.Snapshot(settings.Currency)

	var w io.Writer = os.Stdout
	if c.output != "" {
		out, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		w = out
	}

	switch format {
	case "json":
		err = savetrack.EncodeExport(w, savetrack.NewExport(s, Now()))
	case "csv":
		err = savetrack.EncodeCSV(w, s.Entries, s.Categories)
	case "xlsx":
		err = savetrack.EncodeXLSX(w, s.Entries, s.Categories)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}

	if format == "json" {
		settings.MarkBackedUp(Now())
		if err := SaveSettings(settings); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot record the backup date: %v\n", err)
		}
	}
	if c.output != "" {
		fmt.Fprintf(os.Stderr, "Exported %d entries to %s\n", len(s.Entries), c.output)
	}
	return subcommands.ExitSuccess
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "restore a JSON backup" }
func (*importCmd) Usage() string {
	return `svt import <file>

  Replaces entries, goals and custom categories with the content of a backup
  made with 'svt export'. The backup is fully checked before anything changes.
`
}

func (*importCmd) SetFlags(f *flag.FlagSet) {}

func (*importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import expects exactly one file.")
		return subcommands.ExitUsageError
	}
	in, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	doc, err := savetrack.DecodeExport(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading backup: %v\n", err)
		return subcommands.ExitFailure
	}

	t, closeStore, err := OpenTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	if _, err := t.Import(doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d entries and %d goals.\n", len(doc.Entries), len(doc.Goals))
	return subcommands.ExitSuccess
}

type encryptCmd struct{}

func (*encryptCmd) Name() string     { return "encrypt" }
func (*encryptCmd) Synopsis() string { return "encrypt the data folder with a passphrase" }
func (*encryptCmd) Usage() string {
	return `svt encrypt

  Encrypts every data file with a passphrase (age, scrypt). The passphrase is
  read from $SVT_PASSPHRASE or prompted, and is needed by every later command.
  There is no way to recover a lost passphrase.
`
}

func (*encryptCmd) SetFlags(f *flag.FlagSet) {}

func (*encryptCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if *backendName != "folder" {
		fmt.Fprintln(os.Stderr, "Error: encryption is only available with the folder backend.")
		return subcommands.ExitUsageError
	}
	v, err := OpenVault()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if v.IsEncrypted() {
		fmt.Println("Data is already encrypted.")
		return subcommands.ExitSuccess
	}
	passphrase, err := readPassphrase("New passphrase: ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := v.EnableEncryption(passphrase); err != nil {
		fmt.Fprintf(os.Stderr, "Error encrypting: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Encrypted %s.\n", v.Dir())
	return subcommands.ExitSuccess
}

type settingsCmd struct{}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "show or change settings" }
func (*settingsCmd) Usage() string {
	return `svt settings [<key> <value>]

  Without arguments, shows the settings. Otherwise sets one of: currency,
  theme, reminder.enabled, reminder.time, backup.frequency.
`
}

func (*settingsCmd) SetFlags(f *flag.FlagSet) {}

func (*settingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	switch f.NArg() {
	case 0:
	case 2:
		if err := s.Set(f.Arg(0), f.Arg(1)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		if err := SaveSettings(s); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	default:
		fmt.Fprintln(os.Stderr, "Error: settings expects no argument, or a key and a value.")
		return subcommands.ExitUsageError
	}
	printSettings(s)
	return subcommands.ExitSuccess
}

func printSettings(s config.Settings) {
	last := s.Backup.Last
	if last == "" {
		last = "never"
	}
	fmt.Printf("currency:         %s\n", s.Currency)
	fmt.Printf("theme:            %s\n", s.Theme)
	fmt.Printf("reminder.enabled: %t\n", s.Reminder.Enabled)
	fmt.Printf("reminder.time:    %s\n", s.Reminder.Time)
	fmt.Printf("backup.frequency: %s\n", s.Backup.Frequency)
	fmt.Printf("backup.last:      %s\n", last)
}
