package savetrack

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is a single logged savings event.
type Entry struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID uuid.UUID       `json:"categoryId"`
	Note       string          `json:"note,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// NewEntry creates an entry that happened at 'at' and was recorded at 'now'.
func NewEntry(amount decimal.Decimal, category uuid.UUID, note string, at, now time.Time) Entry {
	return Entry{
		ID:         uuid.New(),
		Amount:     amount,
		CategoryID: category,
		Note:       note,
		Timestamp:  at,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Day returns the calendar day the entry belongs to.
func (e Entry) Day() Date { return DateOf(e.Timestamp) }

// Validate checks the entry invariants.
func (e Entry) Validate() error {
	switch {
	case e.ID == uuid.Nil:
		return fmt.Errorf("%w: missing id", ErrInvalidEntry)
	case e.Amount.IsNegative():
		return fmt.Errorf("%w: negative amount %s", ErrInvalidEntry, e.Amount)
	case e.Timestamp.IsZero():
		return fmt.Errorf("%w: missing timestamp", ErrInvalidEntry)
	}
	return nil
}

// EntryTemplate is a saved preset used to log recurring savings quickly.
type EntryTemplate struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID uuid.UUID       `json:"categoryId"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func NewEntryTemplate(name string, amount decimal.Decimal, category uuid.UUID, note string, now time.Time) EntryTemplate {
	return EntryTemplate{
		ID:         uuid.New(),
		Name:       name,
		Amount:     amount,
		CategoryID: category,
		Note:       note,
		CreatedAt:  now,
	}
}

// ToEntry creates a fresh entry from the template, stamped now.
func (t EntryTemplate) ToEntry(now time.Time) Entry {
	return NewEntry(t.Amount, t.CategoryID, t.Note, now, now)
}
