package savetrack

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Export is the backup document. Amounts are decimal strings and instants
// are RFC 3339.
type Export struct {
	Entries    []Entry    `json:"entries"`
	Goals      []Goal     `json:"goals"`
	Categories []Category `json:"categories"`
	ExportDate time.Time  `json:"exportDate"`
}

// NewExport builds the backup document of s, stamped now.
func NewExport(s Snapshot, now time.Time) *Export {
	doc := &Export{
		Entries:    slices.Clone(s.Entries),
		Goals:      slices.Clone(s.Goals),
		Categories: slices.Clone(s.Categories),
		ExportDate: now,
	}
	// Always write arrays, never null.
	if doc.Entries == nil {
		doc.Entries = []Entry{}
	}
	if doc.Goals == nil {
		doc.Goals = []Goal{}
	}
	if doc.Categories == nil {
		doc.Categories = []Category{}
	}
	return doc
}

// EncodeExport writes doc as indented JSON.
func EncodeExport(w io.Writer, doc *Export) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("cannot encode export: %w", err)
	}
	return nil
}

// DecodeExport reads and validates a backup document. Any malformed value
// rejects the whole document.
func DecodeExport(r io.Reader) (*Export, error) {
	var doc Export
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot decode export: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks every item of the document.
func (doc *Export) Validate() error {
	seen := make(map[uuid.UUID]string)
	unique := func(kind string, id uuid.UUID) error {
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("invalid export: %s %s reuses the id of a %s", kind, id, prev)
		}
		seen[id] = kind
		return nil
	}
	for i, e := range doc.Entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("invalid export: entry #%d: %w", i, err)
		}
		if err := unique("entry", e.ID); err != nil {
			return err
		}
	}
	for i, g := range doc.Goals {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("invalid export: goal #%d: %w", i, err)
		}
		if err := unique("goal", g.ID); err != nil {
			return err
		}
	}
	for i, c := range doc.Categories {
		if c.ID == uuid.Nil || c.Name == "" {
			return fmt.Errorf("invalid export: category #%d: %w: missing id or name", i, ErrInvalidCategory)
		}
		if err := unique("category", c.ID); err != nil {
			return err
		}
	}
	return nil
}

var spreadsheetHeader = []string{"Date", "Amount", "Category", "Note"}

// spreadsheetRow returns the CSV cells of e. Commas in notes are replaced by
// semicolons.
func spreadsheetRow(e Entry, index map[uuid.UUID]Category) []string {
	name := "Unknown"
	if c, ok := index[e.CategoryID]; ok {
		name = c.Name
	}
	return []string{
		e.Timestamp.Format(time.RFC3339),
		e.Amount.String(),
		name,
		strings.ReplaceAll(e.Note, ",", ";"),
	}
}

// EncodeCSV writes one line per entry under a Date,Amount,Category,Note header.
func EncodeCSV(w io.Writer, entries []Entry, categories []Category) error {
	index := categoryIndex(categories)
	cw := csv.NewWriter(w)
	if err := cw.Write(spreadsheetHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(spreadsheetRow(e, index)); err != nil {
			return fmt.Errorf("cannot write entry %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

const xlsxSheet = "Entries"

// EncodeXLSX writes the same table as EncodeCSV as an Excel workbook, with
// numeric amounts.
func EncodeXLSX(w io.Writer, entries []Entry, categories []Category) error {
	index := categoryIndex(categories)
	f := excelize.NewFile()
	defer f.Close()

	sheet, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("cannot create sheet: %w", err)
	}
	f.SetActiveSheet(sheet)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("cannot drop default sheet: %w", err)
	}

	set := func(col, row int, value any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(xlsxSheet, cell, value)
	}
	for i, h := range spreadsheetHeader {
		if err := set(i+1, 1, h); err != nil {
			return err
		}
	}
	for r, e := range entries {
		cells := spreadsheetRow(e, index)
		row := r + 2
		values := []any{e.Timestamp.Format("2006-01-02 15:04"), e.Amount.InexactFloat64(), cells[2], e.Note}
		for c, v := range values {
			if err := set(c+1, row, v); err != nil {
				return fmt.Errorf("cannot write entry %s: %w", e.ID, err)
			}
		}
	}

	f.SetColWidth(xlsxSheet, "A", "A", 18)
	f.SetColWidth(xlsxSheet, "B", "B", 12)
	f.SetColWidth(xlsxSheet, "C", "C", 24)
	f.SetColWidth(xlsxSheet, "D", "D", 40)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("cannot write workbook: %w", err)
	}
	return nil
}
