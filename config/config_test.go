package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	got, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(Defaults(), got); diff != "" {
		t.Errorf("Load() of an empty folder mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	want := Defaults()
	want.Currency = "EUR"
	want.Theme = Dark
	want.Reminder = ReminderConfig{Enabled: false, Time: "07:45"}
	want.Backup.Frequency = Weekly
	want.MarkBackedUp(time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC))
	want.Onboarding = true

	if err := Save(dir, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, Filename))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "currency: EUR") {
		t.Errorf("settings file does not hold the currency:\n%s", data)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SVT_CURRENCY", "GBP")
	t.Setenv("SVT_REMINDER_TIME", "21:30")

	got, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Currency != "GBP" || got.Reminder.Time != "21:30" {
		t.Errorf("Load() = %+v, want GBP and 21:30 from the environment", got)
	}
}

func TestSettings_Set(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{"currency", "eur", false},
		{"theme", "Light", false},
		{"reminder.enabled", "off", false},
		{"reminder.time", "6:30", false},
		{"backup.frequency", "never", false},
		{"currency", "euro", true},
		{"theme", "pink", true},
		{"reminder.time", "25:00", true},
		{"reminder.enabled", "maybe", true},
		{"color", "blue", true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			s := Defaults()
			err := s.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if err != nil && s != Defaults() {
				t.Errorf("failed Set() modified the settings: %+v", s)
			}
		})
	}
}

func TestSettings_BackupDue(t *testing.T) {
	now := time.Date(2025, time.October, 16, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		frequency BackupFrequency
		last      string
		want      bool
	}{
		{Monthly, "", true},
		{Monthly, "2025-10-01", false},
		{Monthly, "2025-09-01", true},
		{Weekly, "2025-10-12", false},
		{Weekly, "2025-10-09", true},
		{Never, "", false},
	}
	for _, tt := range tests {
		s := Defaults()
		s.Backup = BackupConfig{Frequency: tt.frequency, Last: tt.last}
		if got := s.BackupDue(now); got != tt.want {
			t.Errorf("BackupDue(%s, last %q) = %v, want %v", tt.frequency, tt.last, got, tt.want)
		}
	}
}
