package cmd

import (
	"context"
	"errors"
	"flag"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/savetrack"
	"github.com/google/subcommands"
	"github.com/google/uuid"
)

const testingNow = "2025-10-16 12:00:00"

// useDataDir points the global flags to a fresh data folder with a fixed
// clock.
func useDataDir(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	oldDir, oldBackend := *dataDir, *backendName
	*dataDir, *backendName = dir, backend
	t.Cleanup(func() { *dataDir, *backendName = oldDir, oldBackend })
	t.Setenv(testingNowEnv, testingNow)
	return dir
}

// run executes c as if invoked with args.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s %v: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), f)
}

func mustRun(t *testing.T, c subcommands.Command, args ...string) {
	t.Helper()
	if got := run(t, c, args...); got != subcommands.ExitSuccess {
		t.Fatalf("%s %v = %v, want success", c.Name(), args, got)
	}
}

// snapshot reads the data folder.
func snapshot(t *testing.T) savetrack.Snapshot {
	t.Helper()
	tr, closeStore, err := OpenTracker()
	if err != nil {
		t.Fatalf("OpenTracker() error = %v", err)
	}
	defer closeStore()
	return tr.Snapshot("USD")
}

func TestLogEntries(t *testing.T) {
	for _, backend := range []string{"folder", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			useDataDir(t, backend)

			mustRun(t, &goalCmd{}, "-end", "2025-10-31", "New", "Bike", "10")
			mustRun(t, &addCmd{}, "-c", "used coupon", "-note", "groceries", "4.50")
			mustRun(t, &addCmd{}, "-d", "yesterday", "6")

			s := snapshot(t)
			if got, want := len(s.Entries), 2; got != want {
				t.Fatalf("len(Entries) = %d, want %d", got, want)
			}
			if got, want := s.Entries[0].CategoryID, savetrack.UsedCouponID; got != want {
				t.Errorf("CategoryID = %v, want %v", got, want)
			}
			if got, want := s.Entries[1].Day(), savetrack.NewDate(2025, time.October, 15); got != want {
				t.Errorf("Day() = %v, want %v", got, want)
			}
			if got, want := s.Streak.CurrentStreak, 2; got != want {
				t.Errorf("CurrentStreak = %d, want %d", got, want)
			}
			if len(s.Goals) != 1 || s.Goals[0].Name != "New Bike" || !s.Goals[0].IsCompleted {
				t.Errorf("Goals = %+v, want a completed 'New Bike'", s.Goals)
			}
		})
	}
}

func TestEditAndRemove(t *testing.T) {
	useDataDir(t, "folder")
	mustRun(t, &addCmd{}, "3")
	id := snapshot(t).Entries[0].ID.String()[:8]

	mustRun(t, &editCmd{}, "-a", "3.25", "-c", "Cooked at Home", "-note", "pasta", id)
	e := snapshot(t).Entries[0]
	if got, want := e.Amount.String(), "3.25"; got != want {
		t.Errorf("Amount = %s, want %s", got, want)
	}
	if e.CategoryID != savetrack.CookedAtHomeID || e.Note != "pasta" {
		t.Errorf("edited entry = %+v", e)
	}

	if got := run(t, &rmCmd{}, "ffffffff"); got != subcommands.ExitFailure {
		t.Errorf("rm unknown id = %v, want failure", got)
	}
	mustRun(t, &rmCmd{}, id)
	s := snapshot(t)
	if len(s.Entries) != 0 || s.Streak.CurrentStreak != 0 {
		t.Errorf("after rm: %d entries, streak %d, want none", len(s.Entries), s.Streak.CurrentStreak)
	}
}

func TestTemplates(t *testing.T) {
	useDataDir(t, "folder")
	mustRun(t, &templateCmd{}, "-c", "Cooked at Home", "-note", "lunch box", "Lunch", "8")
	mustRun(t, &templateCmd{}, "-c", "Cooked at Home", "Lunch", "9")
	mustRun(t, &useCmd{}, "lunch")

	tr, closeStore, err := OpenTracker()
	if err != nil {
		t.Fatal(err)
	}
	templates := tr.Store().Templates()
	entries := tr.Store().Entries()
	closeStore()

	if len(templates) != 1 {
		t.Fatalf("templates = %+v, want a single replaced one", templates)
	}
	if len(entries) != 1 || entries[0].Amount.String() != "9" || entries[0].CategoryID != savetrack.CookedAtHomeID {
		t.Errorf("entries = %+v, want 9 Cooked at Home", entries)
	}
	mustRun(t, &templateRmCmd{}, "Lunch")
	if got := run(t, &useCmd{}, "Lunch"); got != subcommands.ExitFailure {
		t.Errorf("use deleted template = %v, want failure", got)
	}
}

func TestCategories(t *testing.T) {
	useDataDir(t, "folder")
	mustRun(t, &categoryCmd{}, "-emoji", "🚲", "Bike", "Commute")
	if got := run(t, &categoryCmd{}, "bike", "commute"); got != subcommands.ExitFailure {
		t.Errorf("duplicate category = %v, want failure", got)
	}
	mustRun(t, &addCmd{}, "-c", "Bike Commute", "2")
	if got := run(t, &categoryRmCmd{}, "Other"); got != subcommands.ExitFailure {
		t.Errorf("deleting a default category = %v, want failure", got)
	}
	mustRun(t, &categoryRmCmd{}, "Bike Commute")

	s := snapshot(t)
	if _, ok := savetrack.FindCategory(s.Categories, "Bike Commute"); ok {
		t.Errorf("category still present after category-rm")
	}
	if len(s.Entries) != 1 {
		t.Errorf("entries = %d, want the entry to be kept", len(s.Entries))
	}
}

func TestExportImport(t *testing.T) {
	useDataDir(t, "folder")
	mustRun(t, &goalCmd{}, "Trip", "100")
	mustRun(t, &addCmd{}, "12.34")
	backup := filepath.Join(t.TempDir(), "backup.json")
	mustRun(t, &exportCmd{}, "-o", backup)

	if got, want := currentSettings().Backup.Last, "2025-10-16"; got != want {
		t.Errorf("Backup.Last = %q, want %q", got, want)
	}
	mustRun(t, &exportCmd{}, "-f", "csv", "-o", filepath.Join(t.TempDir(), "entries.csv"))
	if got := run(t, &exportCmd{}, "-f", "pdf"); got != subcommands.ExitUsageError {
		t.Errorf("export pdf = %v, want usage error", got)
	}

	useDataDir(t, "sqlite")
	mustRun(t, &importCmd{}, backup)
	s := snapshot(t)
	if len(s.Entries) != 1 || s.Entries[0].Amount.String() != "12.34" {
		t.Errorf("imported entries = %+v", s.Entries)
	}
	if len(s.Goals) != 1 || s.Goals[0].CurrentAmount.String() != "12.34" {
		t.Errorf("imported goals = %+v, want amounts kept", s.Goals)
	}
	if s.Streak.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1 after import", s.Streak.CurrentStreak)
	}
}

func TestSettings(t *testing.T) {
	useDataDir(t, "folder")
	mustRun(t, &settingsCmd{}, "currency", "eur")
	if got := run(t, &settingsCmd{}, "theme", "neon"); got != subcommands.ExitUsageError {
		t.Errorf("invalid theme = %v, want usage error", got)
	}
	if got, want := currentSettings().Currency, "EUR"; got != want {
		t.Errorf("Currency = %q, want %q", got, want)
	}
}

func TestEncryptedFolder(t *testing.T) {
	useDataDir(t, "folder")
	mustRun(t, &addCmd{}, "5")
	t.Setenv(passphraseEnv, "correct horse battery")
	mustRun(t, &encryptCmd{})

	if got := len(snapshot(t).Entries); got != 1 {
		t.Errorf("entries after encryption = %d, want 1", got)
	}
	t.Setenv(passphraseEnv, "wrong passphrase")
	if _, _, err := OpenTracker(); err == nil {
		t.Errorf("OpenTracker() with a wrong passphrase want error")
	}
}

func TestNow(t *testing.T) {
	t.Setenv(testingNowEnv, testingNow)
	if got, want := Today(), savetrack.NewDate(2025, time.October, 16); got != want {
		t.Errorf("Today() = %v, want %v", got, want)
	}
	d, err := ParseDate("-1w")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := d, savetrack.NewDate(2025, time.October, 9); got != want {
		t.Errorf("ParseDate(-1w) = %v, want %v", got, want)
	}
	when, err := at("2025-10-01")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := when.Format(testingNowStyle), "2025-10-01 12:00:00"; got != want {
		t.Errorf("at() = %s, want %s", got, want)
	}
}

func TestFindByID(t *testing.T) {
	a := uuid.MustParse("aaaa0000-0000-4000-8000-000000000001")
	b := uuid.MustParse("aaaa0000-0000-4000-8000-000000000002")
	ids := []uuid.UUID{a, b}
	self := func(id uuid.UUID) uuid.UUID { return id }

	if got, err := findByID(ids, self, "AAAA0000-0000-4000-8000-000000000002"); err != nil || got != b {
		t.Errorf("findByID(full) = %v, %v, want %v", got, err, b)
	}
	if _, err := findByID(ids, self, "aaaa"); err == nil {
		t.Errorf("findByID(ambiguous) want error")
	}
	if _, err := findByID(ids, self, "bbbb"); !errors.Is(err, savetrack.ErrNotFound) {
		t.Errorf("findByID(unknown) error = %v, want ErrNotFound", err)
	}
}
