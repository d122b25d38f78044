package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"
	"time"

	"github.com/etnz/savetrack"
)

//go:embed templates/*.md
var templates embed.FS

// Share is the data of a shareable progress card.
type Share struct {
	Date       savetrack.Date
	Streak     savetrack.Streak
	TotalSaved savetrack.Money
	Entries    int
	Badges     []savetrack.Badge
	Goals      []ShareGoal
}

// ShareGoal is a goal line of the share card.
type ShareGoal struct {
	Name     string
	Progress savetrack.Percent
	Done     bool
}

// NewShare collects the share card of s at now.
func NewShare(s savetrack.Snapshot, now time.Time) *Share {
	sh := &Share{
		Date:       savetrack.DateOf(now),
		Streak:     s.Streak,
		TotalSaved: s.Money(s.Total()),
		Entries:    len(s.Entries),
	}
	for _, b := range s.Streak.Badges() {
		if b.Earned {
			sh.Badges = append(sh.Badges, b.Badge)
		}
	}
	for _, g := range s.Goals {
		sh.Goals = append(sh.Goals, ShareGoal{Name: g.Name, Progress: g.Progress(), Done: g.IsCompleted})
	}
	return sh
}

// RenderShare renders the share card as markdown, ready to be pasted.
func RenderShare(sh *Share) string {
	partials := map[string]string{
		"share_streak": "share_streak.md",
		"share_goals":  "share_goals.md",
	}
	if len(sh.Goals) == 0 {
		partials["share_goals"] = ""
	}
	return renderTemplate("share", "share.md", partials, sh)
}

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, path.Join("templates", mainFile))
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(template.FuncMap{"bar": progressBar}).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name results in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, path.Join("templates", file))
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
