package renderer

import (
	"bytes"

	"github.com/etnz/savetrack"
	md "github.com/nao1215/markdown"
)

// CategoriesMarkdown lists the categories.
func CategoriesMarkdown(categories []savetrack.Category) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	table := md.TableSet{
		Header: []string{"Category", "Kind", "ID"},
		Rows:   [][]string{},
	}
	for _, c := range categories {
		kind := "default"
		if c.IsCustom {
			kind = "custom"
		}
		table.Rows = append(table.Rows, []string{c.Label(), kind, c.ID.String()})
	}
	doc.H1("Categories")
	doc.Table(table)
	return doc.String()
}

// TemplatesMarkdown lists the entry templates.
func TemplatesMarkdown(s savetrack.Snapshot, templates []savetrack.EntryTemplate) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Templates")
	if len(templates) == 0 {
		doc.PlainText("No template. Save one with `svt template`.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Template", "Amount", "Category", "Note"},
		Rows:      [][]string{},
	}
	for _, t := range templates {
		category := "Unknown"
		if c, ok := s.Category(t.CategoryID); ok {
			category = c.Label()
		}
		table.Rows = append(table.Rows, []string{t.Name, s.Money(t.Amount).String(), category, t.Note})
	}
	doc.Table(table)
	return doc.String()
}
