// Package sqlstore persists the savings data in a SQLite database.
package sqlstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/savetrack"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Amounts are stored as TEXT to keep them exact.
type entryRow struct {
	ID         string `gorm:"primaryKey"`
	Amount     string `gorm:"not null"`
	CategoryID string `gorm:"index"`
	Note       string
	Timestamp  time.Time `gorm:"index"`
	CreatedAt  time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime:false"`
}

func (entryRow) TableName() string { return "entries" }

type goalRow struct {
	ID            string `gorm:"primaryKey"`
	Name          string `gorm:"not null"`
	TargetAmount  string `gorm:"not null"`
	CurrentAmount string `gorm:"not null"`
	Period        string
	StartDate     time.Time
	EndDate       *time.Time
	IsCompleted   bool
	CompletedAt   *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime:false"`
}

func (goalRow) TableName() string { return "goals" }

type categoryRow struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Emoji     string
	IsCustom  bool
	IsDefault bool
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
}

func (categoryRow) TableName() string { return "categories" }

type templateRow struct {
	ID         string `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	Amount     string `gorm:"not null"`
	CategoryID string
	Note       string
	CreatedAt  time.Time `gorm:"autoCreateTime:false"`
}

func (templateRow) TableName() string { return "templates" }

// streakRow holds the single streak record as JSON.
type streakRow struct {
	ID   int `gorm:"primaryKey"`
	Data string
}

func (streakRow) TableName() string { return "streaks" }

// pragma tunes the connection. The database works without the tuning, so
// failures are only logged.
func pragma(db *sql.DB, statements ...string) {
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("sqlite %q: %v", stmt, err)
		}
	}
}

// Backend is a savetrack.Backend over SQLite.
type Backend struct {
	db *gorm.DB
}

// Open opens or creates the database at path and migrates its schema. SQL
// statements are logged when verbose is set.
func Open(path string, verbose bool) (*Backend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	gormLogger := logger.Default
	if !verbose {
		gormLogger = gormLogger.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	pragma(sqlDB, "PRAGMA journal_mode = WAL;", "PRAGMA synchronous = NORMAL;")

	if err := db.AutoMigrate(&entryRow{}, &goalRow{}, &categoryRow{}, &templateRow{}, &streakRow{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Backend{db: db}, nil
}

// Close releases the database.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Load reads the whole dataset.
func (b *Backend) Load() (*savetrack.Dataset, error) {
	var (
		entries    []entryRow
		goals      []goalRow
		categories []categoryRow
		templates  []templateRow
		streaks    []streakRow
	)
	for _, q := range []struct {
		table string
		dest  any
	}{
		{"entries", &entries},
		{"goals", &goals},
		{"categories", &categories},
		{"templates", &templates},
		{"streaks", &streaks},
	} {
		if err := b.db.Find(q.dest).Error; err != nil {
			return nil, fmt.Errorf("load %s: %w", q.table, err)
		}
	}

	d := &savetrack.Dataset{}
	for _, r := range entries {
		e, err := r.entry()
		if err != nil {
			return nil, err
		}
		d.Entries = append(d.Entries, e)
	}
	for _, r := range goals {
		g, err := r.goal()
		if err != nil {
			return nil, err
		}
		d.Goals = append(d.Goals, g)
	}
	for _, r := range categories {
		c, err := r.category()
		if err != nil {
			return nil, err
		}
		d.Categories = append(d.Categories, c)
	}
	for _, r := range templates {
		t, err := r.template()
		if err != nil {
			return nil, err
		}
		d.Templates = append(d.Templates, t)
	}
	if len(streaks) > 0 {
		if err := json.Unmarshal([]byte(streaks[0].Data), &d.Streak); err != nil {
			return nil, fmt.Errorf("load streak: %w", err)
		}
	}
	return d, nil
}

// Save replaces the stored dataset in a single transaction.
func (b *Backend) Save(d *savetrack.Dataset) error {
	streak, err := json.Marshal(d.Streak)
	if err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	return b.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&entryRow{}, &goalRow{}, &categoryRow{}, &templateRow{}, &streakRow{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear table: %w", err)
			}
		}

		entries := make([]entryRow, 0, len(d.Entries))
		for _, e := range d.Entries {
			entries = append(entries, entryRowOf(e))
		}
		goals := make([]goalRow, 0, len(d.Goals))
		for _, g := range d.Goals {
			goals = append(goals, goalRowOf(g))
		}
		categories := make([]categoryRow, 0, len(d.Categories))
		for _, c := range d.Categories {
			categories = append(categories, categoryRowOf(c))
		}
		templates := make([]templateRow, 0, len(d.Templates))
		for _, t := range d.Templates {
			templates = append(templates, templateRowOf(t))
		}

		if err := insert(tx, entries); err != nil {
			return err
		}
		if err := insert(tx, goals); err != nil {
			return err
		}
		if err := insert(tx, categories); err != nil {
			return err
		}
		if err := insert(tx, templates); err != nil {
			return err
		}
		if err := tx.Create(&streakRow{ID: 1, Data: string(streak)}).Error; err != nil {
			return fmt.Errorf("save streak: %w", err)
		}
		return nil
	})
}

func insert[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(&rows, 100).Error; err != nil {
		return fmt.Errorf("insert rows: %w", err)
	}
	return nil
}

func entryRowOf(e savetrack.Entry) entryRow {
	return entryRow{
		ID:         e.ID.String(),
		Amount:     e.Amount.String(),
		CategoryID: e.CategoryID.String(),
		Note:       e.Note,
		Timestamp:  e.Timestamp,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (r entryRow) entry() (savetrack.Entry, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return savetrack.Entry{}, fmt.Errorf("entry %q: %w", r.ID, err)
	}
	category, err := uuid.Parse(r.CategoryID)
	if err != nil {
		return savetrack.Entry{}, fmt.Errorf("entry %q: category: %w", r.ID, err)
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return savetrack.Entry{}, fmt.Errorf("entry %q: amount: %w", r.ID, err)
	}
	return savetrack.Entry{
		ID:         id,
		Amount:     amount,
		CategoryID: category,
		Note:       r.Note,
		Timestamp:  r.Timestamp,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}

func goalRowOf(g savetrack.Goal) goalRow {
	return goalRow{
		ID:            g.ID.String(),
		Name:          g.Name,
		TargetAmount:  g.TargetAmount.String(),
		CurrentAmount: g.CurrentAmount.String(),
		Period:        g.Period.String(),
		StartDate:     g.StartDate,
		EndDate:       g.EndDate,
		IsCompleted:   g.IsCompleted,
		CompletedAt:   g.CompletedAt,
		CreatedAt:     g.CreatedAt,
	}
}

func (r goalRow) goal() (savetrack.Goal, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return savetrack.Goal{}, fmt.Errorf("goal %q: %w", r.ID, err)
	}
	target, err := decimal.NewFromString(r.TargetAmount)
	if err != nil {
		return savetrack.Goal{}, fmt.Errorf("goal %q: target: %w", r.ID, err)
	}
	current, err := decimal.NewFromString(r.CurrentAmount)
	if err != nil {
		return savetrack.Goal{}, fmt.Errorf("goal %q: current: %w", r.ID, err)
	}
	period, err := savetrack.ParsePeriod(r.Period)
	if err != nil {
		return savetrack.Goal{}, fmt.Errorf("goal %q: %w", r.ID, err)
	}
	return savetrack.Goal{
		ID:            id,
		Name:          r.Name,
		TargetAmount:  target,
		CurrentAmount: current,
		Period:        period,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		IsCompleted:   r.IsCompleted,
		CompletedAt:   r.CompletedAt,
		CreatedAt:     r.CreatedAt,
	}, nil
}

func categoryRowOf(c savetrack.Category) categoryRow {
	return categoryRow{
		ID:        c.ID.String(),
		Name:      c.Name,
		Emoji:     c.Emoji,
		IsCustom:  c.IsCustom,
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
	}
}

func (r categoryRow) category() (savetrack.Category, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return savetrack.Category{}, fmt.Errorf("category %q: %w", r.ID, err)
	}
	return savetrack.Category{
		ID:        id,
		Name:      r.Name,
		Emoji:     r.Emoji,
		IsCustom:  r.IsCustom,
		IsDefault: r.IsDefault,
		CreatedAt: r.CreatedAt,
	}, nil
}

func templateRowOf(t savetrack.EntryTemplate) templateRow {
	return templateRow{
		ID:         t.ID.String(),
		Name:       t.Name,
		Amount:     t.Amount.String(),
		CategoryID: t.CategoryID.String(),
		Note:       t.Note,
		CreatedAt:  t.CreatedAt,
	}
}

func (r templateRow) template() (savetrack.EntryTemplate, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return savetrack.EntryTemplate{}, fmt.Errorf("template %q: %w", r.ID, err)
	}
	category, err := uuid.Parse(r.CategoryID)
	if err != nil {
		return savetrack.EntryTemplate{}, fmt.Errorf("template %q: category: %w", r.ID, err)
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return savetrack.EntryTemplate{}, fmt.Errorf("template %q: amount: %w", r.ID, err)
	}
	return savetrack.EntryTemplate{
		ID:         id,
		Name:       r.Name,
		Amount:     amount,
		CategoryID: category,
		Note:       r.Note,
		CreatedAt:  r.CreatedAt,
	}, nil
}

var _ savetrack.Backend = (*Backend)(nil)
