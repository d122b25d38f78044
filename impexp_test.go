package savetrack

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func exportFixture(t *testing.T) *Export {
	t.Helper()
	end := daysAgo(-20)
	g, err := NewGoal("Trip", dec("1500.50"), Yearly, &end, daysAgo(10))
	if err != nil {
		t.Fatal(err)
	}
	g.CurrentAmount = dec("120.10")
	custom, _ := NewCategory("Thrift", "🧥", daysAgo(5))

	e1 := entry(0, "12.34", custom.ID)
	e1.Note = "coat, second hand"
	e2 := entry(3, "0.10", OtherID)

	s := Snapshot{
		Entries:    []Entry{e1, e2},
		Goals:      []Goal{g},
		Categories: append(DefaultCategories(daysAgo(30)), custom),
	}
	return NewExport(s, testNow)
}

func TestExport_Roundtrip(t *testing.T) {
	want := exportFixture(t)

	var buf bytes.Buffer
	if err := EncodeExport(&buf, want); err != nil {
		t.Fatalf("EncodeExport() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"amount": "12.34"`) {
		t.Errorf("amounts are not written as decimal strings:\n%s", buf.String())
	}

	got, err := DecodeExport(&buf)
	if err != nil {
		t.Fatalf("DecodeExport() error = %v", err)
	}
	if diff := cmp.Diff(want, got, cmpOpts...); diff != "" {
		t.Errorf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestNewExport_EmptyArrays(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeExport(&buf, NewExport(Snapshot{}, testNow)); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"entries": []`, `"goals": []`, `"categories": []`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("export is missing %s:\n%s", key, buf.String())
		}
	}
}

func TestDecodeExport_Rejects(t *testing.T) {
	const id = "11111111-1111-1111-1111-111111111111"
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"bad amount", `{"entries":[{"id":"` + id + `","amount":"abc","categoryId":"` + id + `","timestamp":"2025-10-16T12:00:00Z"}]}`},
		{"negative amount", `{"entries":[{"id":"` + id + `","amount":"-1","categoryId":"` + id + `","timestamp":"2025-10-16T12:00:00Z"}]}`},
		{"bad timestamp", `{"entries":[{"id":"` + id + `","amount":"1","categoryId":"` + id + `","timestamp":"yesterday"}]}`},
		{"goal without target", `{"goals":[{"id":"` + id + `","name":"x","targetAmount":"0","currentAmount":"0","period":"monthly"}]}`},
		{"category without name", `{"categories":[{"id":"` + id + `"}]}`},
		{"duplicate id", `{"entries":[{"id":"` + id + `","amount":"1","categoryId":"` + id + `","timestamp":"2025-10-16T12:00:00Z"}],"categories":[{"id":"` + id + `","name":"x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeExport(strings.NewReader(tt.doc)); err == nil {
				t.Errorf("DecodeExport(%s) succeeded", tt.doc)
			}
		})
	}
}

func TestEncodeCSV(t *testing.T) {
	doc := exportFixture(t)
	orphan := entry(1, "2", OtherID)
	orphan.CategoryID = doc.Goals[0].ID // not a category

	var buf bytes.Buffer
	if err := EncodeCSV(&buf, append(doc.Entries, orphan), doc.Categories); err != nil {
		t.Fatalf("EncodeCSV() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("cannot read CSV back: %v", err)
	}

	want := [][]string{
		{"Date", "Amount", "Category", "Note"},
		{testNow.Format(time.RFC3339), "12.34", "Thrift", "coat; second hand"},
		{daysAgo(3).Format(time.RFC3339), "0.1", "Other", ""},
		{daysAgo(1).Format(time.RFC3339), "2", "Unknown", ""},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("EncodeCSV() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeXLSX(t *testing.T) {
	doc := exportFixture(t)

	var buf bytes.Buffer
	if err := EncodeXLSX(&buf, doc.Entries, doc.Categories); err != nil {
		t.Fatalf("EncodeXLSX() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("cannot open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if got, want := rows[1][2], "Thrift"; got != want {
		t.Errorf("category cell = %q, want %q", got, want)
	}
	if got, want := rows[1][3], "coat, second hand"; got != want {
		t.Errorf("note cell = %q, want %q", got, want)
	}
	if got, want := rows[2][1], "0.1"; got != want {
		t.Errorf("amount cell = %q, want %q", got, want)
	}
}
