// Package config loads and saves the user settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Filename is the settings file inside the data folder.
const Filename = "settings.yaml"

// EnvPrefix prefixes the environment overrides, e.g. SVT_CURRENCY=EUR.
const EnvPrefix = "SVT"

type Theme string

const (
	Light  Theme = "light"
	Dark   Theme = "dark"
	System Theme = "system"
)

type BackupFrequency string

const (
	Never   BackupFrequency = "never"
	Weekly  BackupFrequency = "weekly"
	Monthly BackupFrequency = "monthly"
)

// ReminderConfig is the daily reminder.
type ReminderConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Time    string `mapstructure:"time"` // HH:MM
}

// BackupConfig is the backup reminder.
type BackupConfig struct {
	Frequency BackupFrequency `mapstructure:"frequency"`
	Last      string          `mapstructure:"last"` // date of the last export, empty if none
}

const dateFormat = "2006-01-02"

// Settings are the user preferences.
type Settings struct {
	Currency   string         `mapstructure:"currency"`
	Theme      Theme          `mapstructure:"theme"`
	Reminder   ReminderConfig `mapstructure:"reminder"`
	Backup     BackupConfig   `mapstructure:"backup"`
	Onboarding bool           `mapstructure:"onboarding"` // completed
}

// Defaults returns the settings of a new installation.
func Defaults() Settings {
	return Settings{
		Currency: "USD",
		Theme:    System,
		Reminder: ReminderConfig{Enabled: true, Time: "20:00"},
		Backup:   BackupConfig{Frequency: Monthly},
	}
}

func newViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, Filename))
	v.SetConfigType("yaml")

	d := Defaults()
	v.SetDefault("currency", d.Currency)
	v.SetDefault("theme", string(d.Theme))
	v.SetDefault("reminder.enabled", d.Reminder.Enabled)
	v.SetDefault("reminder.time", d.Reminder.Time)
	v.SetDefault("backup.frequency", string(d.Backup.Frequency))
	v.SetDefault("backup.last", "")
	v.SetDefault("onboarding", d.Onboarding)

	// environment overrides, e.g. SVT_REMINDER_TIME=21:30
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the settings of the data folder dir. A missing file yields the
// defaults.
func Load(dir string) (Settings, error) {
	v := newViper(dir)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Save writes s in the data folder dir.
func Save(dir string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("currency", s.Currency)
	v.Set("theme", string(s.Theme))
	v.Set("reminder.enabled", s.Reminder.Enabled)
	v.Set("reminder.time", s.Reminder.Time)
	v.Set("backup.frequency", string(s.Backup.Frequency))
	v.Set("backup.last", s.Backup.Last)
	v.Set("onboarding", s.Onboarding)
	if err := v.WriteConfigAs(filepath.Join(dir, Filename)); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Validate checks enumerations and the reminder time.
func (s Settings) Validate() error {
	if len(s.Currency) != 3 {
		return fmt.Errorf("invalid currency %q, want an ISO 4217 code", s.Currency)
	}
	switch s.Theme {
	case Light, Dark, System:
	default:
		return fmt.Errorf("invalid theme %q, want light, dark or system", s.Theme)
	}
	switch s.Backup.Frequency {
	case Never, Weekly, Monthly:
	default:
		return fmt.Errorf("invalid backup frequency %q, want never, weekly or monthly", s.Backup.Frequency)
	}
	if _, err := time.Parse("15:04", s.Reminder.Time); err != nil {
		return fmt.Errorf("invalid reminder time %q, want HH:MM", s.Reminder.Time)
	}
	if s.Backup.Last != "" {
		if _, err := time.Parse(dateFormat, s.Backup.Last); err != nil {
			return fmt.Errorf("invalid last backup date %q, want %s", s.Backup.Last, dateFormat)
		}
	}
	return nil
}

// Set changes a single setting by its dotted key, as used on the command
// line.
func (s *Settings) Set(key, value string) error {
	next := *s
	switch strings.ToLower(key) {
	case "currency":
		next.Currency = strings.ToUpper(value)
	case "theme":
		next.Theme = Theme(strings.ToLower(value))
	case "reminder.enabled":
		switch strings.ToLower(value) {
		case "true", "on", "yes":
			next.Reminder.Enabled = true
		case "false", "off", "no":
			next.Reminder.Enabled = false
		default:
			return fmt.Errorf("invalid boolean %q", value)
		}
	case "reminder.time":
		next.Reminder.Time = value
	case "backup.frequency":
		next.Backup.Frequency = BackupFrequency(strings.ToLower(value))
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*s = next
	return nil
}

// MarkBackedUp records a backup made at now.
func (s *Settings) MarkBackedUp(now time.Time) { s.Backup.Last = now.Format(dateFormat) }

// BackupDue reports whether the backup reminder should be shown at now.
func (s Settings) BackupDue(now time.Time) bool {
	var every time.Duration
	switch s.Backup.Frequency {
	case Weekly:
		every = 7 * 24 * time.Hour
	case Monthly:
		every = 30 * 24 * time.Hour
	default:
		return false
	}
	last, err := time.ParseInLocation(dateFormat, s.Backup.Last, now.Location())
	return err != nil || now.Sub(last) >= every
}
