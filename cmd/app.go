// Package cmd implements the svt command line application to track savings.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/etnz/savetrack"
	"github.com/etnz/savetrack/config"
	"github.com/etnz/savetrack/sqlstore"
	"github.com/etnz/savetrack/vault"
	"github.com/google/subcommands"
	"golang.org/x/term"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addCmd{}, "entries")
	c.Register(&editCmd{}, "entries")
	c.Register(&rmCmd{}, "entries")
	c.Register(&historyCmd{}, "entries")
	c.Register(&useCmd{}, "entries")

	c.Register(&goalCmd{}, "goals")
	c.Register(&goalsCmd{}, "goals")
	c.Register(&archiveCmd{}, "goals")
	c.Register(&goalRmCmd{}, "goals")

	c.Register(&categoryCmd{}, "categories")
	c.Register(&categoriesCmd{}, "categories")
	c.Register(&categoryRmCmd{}, "categories")

	c.Register(&templateCmd{}, "templates")
	c.Register(&templatesCmd{}, "templates")
	c.Register(&templateRmCmd{}, "templates")

	c.Register(&homeCmd{}, "views")
	c.Register(&badgesCmd{}, "views")
	c.Register(&insightsCmd{}, "views")
	c.Register(&chartsCmd{}, "views")
	c.Register(&shareCmd{}, "views")
	c.Register(&widgetCmd{}, "views")
	c.Register(&coachCmd{}, "views")

	c.Register(&exportCmd{}, "data")
	c.Register(&importCmd{}, "data")
	c.Register(&encryptCmd{}, "data")
	c.Register(&settingsCmd{}, "data")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("data", env("SVT_DATA", ".savetrack"), "Path to the data folder. Defaults to $SVT_DATA.")
var backendName = flag.String("backend", env("SVT_BACKEND", "folder"), "Storage backend: folder (JSONL files) or sqlite. Defaults to $SVT_BACKEND.")
var verbose = flag.Bool("v", false, "Log operational details on stderr.")

const (
	sqliteFilename  = "savetrack.db"
	passphraseEnv   = "SVT_PASSPHRASE"
	testingNowEnv   = "SVT_TESTING_NOW"
	testingNowStyle = "2006-01-02 15:04:05"
)

func env(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// SetupLogging sends log output to stderr in verbose mode and discards it
// otherwise.
func SetupLogging() {
	log.SetFlags(0)
	if *verbose {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(io.Discard)
}

// Now returns the current time, or the fixed time in $SVT_TESTING_NOW.
func Now() time.Time {
	if v := os.Getenv(testingNowEnv); v != "" {
		t, err := time.ParseInLocation(testingNowStyle, v, time.Local)
		if err == nil {
			return t
		}
		log.Printf("ignoring invalid %s %q: %v", testingNowEnv, v, err)
	}
	return time.Now()
}

// Today returns the current day according to Now.
func Today() savetrack.Date { return savetrack.DateOf(Now()) }

// ParseDate parses a date relative to Today.
func ParseDate(s string) (savetrack.Date, error) { return savetrack.ParseDateFrom(Today(), s) }

// OpenTracker opens the data folder with the selected backend and refreshes
// the streak. close must be called to release the backend.
func OpenTracker() (t *savetrack.Tracker, close func() error, err error) {
	close = func() error { return nil }
	var backend savetrack.Backend

	switch *backendName {
	case "folder":
		v, err := OpenVault()
		if err != nil {
			return nil, close, err
		}
		backend = savetrack.NewFolderBackend(v)
	case "sqlite":
		if err := os.MkdirAll(*dataDir, 0o755); err != nil {
			return nil, close, fmt.Errorf("cannot create data folder %q: %w", *dataDir, err)
		}
		db, err := sqlstore.Open(filepath.Join(*dataDir, sqliteFilename), *verbose)
		if err != nil {
			return nil, close, err
		}
		backend, close = db, db.Close
	default:
		return nil, close, fmt.Errorf("unknown backend %q, want folder or sqlite", *backendName)
	}

	store, err := savetrack.NewStore(backend, Now)
	if err != nil {
		close()
		return nil, func() error { return nil }, err
	}
	t = savetrack.NewTracker(store, savetrack.NotifierFunc(notify))
	if _, err := t.Refresh(); err != nil {
		log.Printf("cannot refresh the streak: %v", err)
	}
	return t, close, nil
}

// OpenVault opens the data folder and unlocks it if it is encrypted.
func OpenVault() (*vault.Vault, error) {
	v, err := vault.Open(*dataDir)
	if err != nil {
		return nil, err
	}
	if v.IsUnlocked() {
		return v, nil
	}
	passphrase, err := readPassphrase("Passphrase: ")
	if err != nil {
		return nil, err
	}
	if err := v.Unlock(passphrase); err != nil {
		return nil, fmt.Errorf("cannot unlock %q: %w", *dataDir, err)
	}
	return v, nil
}

// readPassphrase returns $SVT_PASSPHRASE or prompts for it on the terminal.
func readPassphrase(prompt string) (string, error) {
	if p := os.Getenv(passphraseEnv); p != "" {
		return p, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("data is encrypted: set " + passphraseEnv + " or run in a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("cannot read passphrase: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// LoadSettings reads the user settings of the data folder.
func LoadSettings() (config.Settings, error) { return config.Load(*dataDir) }

// SaveSettings writes the user settings of the data folder.
func SaveSettings(s config.Settings) error {
	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		return fmt.Errorf("cannot create data folder %q: %w", *dataDir, err)
	}
	return config.Save(*dataDir, s)
}

// notify prints tracker events as they happen.
func notify(e savetrack.Event) {
	fmt.Printf("%s\n%s\n\n", e.Title(), e.Body())
}

// currentSettings returns the user settings, or the defaults when they
// cannot be read.
func currentSettings() config.Settings {
	s, err := LoadSettings()
	if err != nil {
		log.Printf("using default settings: %v", err)
		return config.Defaults()
	}
	return s
}
