// Package docs embeds the svt documentation topics.
//
// readme.md is the index: every "* name: summary" bullet declares a topic
// stored in name.md.
package docs

import (
	"embed"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed *.md
var files embed.FS

const indexFile = "readme.md"

// All selects every topic in Read.
const All = "*"

// Topic is an entry of the documentation index.
type Topic struct {
	Name    string
	Summary string
}

// Index returns the topics declared in readme.md, in reading order.
func Index() ([]Topic, error) {
	src, err := files.ReadFile(indexFile)
	if err != nil {
		return nil, err
	}
	return parseIndex(src), nil
}

// parseIndex collects the "name: summary" list items of a markdown document.
func parseIndex(src []byte) []Topic {
	var topics []Topic
	root := goldmark.DefaultParser().Parse(text.NewReader(src))
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		item, ok := n.(*ast.ListItem)
		if !entering || !ok || item.FirstChild() == nil {
			return ast.WalkContinue, nil
		}
		var line strings.Builder
		lines := item.FirstChild().Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			line.Write(seg.Value(src))
		}
		name, summary, found := strings.Cut(line.String(), ":")
		name = strings.TrimSpace(name)
		if found && name != "" && !strings.ContainsAny(name, " `") {
			topics = append(topics, Topic{Name: name, Summary: strings.TrimSpace(summary)})
		}
		return ast.WalkSkipChildren, nil
	})
	return topics
}

// Home returns the index page.
func Home() string {
	src, _ := files.ReadFile(indexFile)
	return string(src)
}

// Read returns the named topics joined together. All expands to every
// indexed topic.
func Read(names ...string) (string, error) {
	index, err := Index()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, name := range names {
		selected := []Topic{{Name: name}}
		if name == All {
			selected = index
		} else if !indexed(index, name) {
			return "", fmt.Errorf("unknown topic %q, run 'svt topic' for the list", name)
		}
		for _, t := range selected {
			content, err := files.ReadFile(t.Name + ".md")
			if err != nil {
				return "", fmt.Errorf("topic %q: %w", t.Name, err)
			}
			b.Write(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func indexed(index []Topic, name string) bool {
	for _, t := range index {
		if t.Name == name {
			return true
		}
	}
	return false
}
