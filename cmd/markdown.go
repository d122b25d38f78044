package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/savetrack/config"
	"golang.org/x/term"
)

// printMarkdown renders md for the terminal, or prints it raw when stdout is
// not a terminal so that it can be piped.
func printMarkdown(md string) {
	if !isTerminal() {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(styleOption(), glamour.WithWordWrap(100), glamour.WithEmoji())
	if err != nil {
		log.Printf("cannot create markdown renderer: %v", err)
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		log.Printf("cannot render markdown: %v", err)
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// styleOption follows the theme setting.
func styleOption() glamour.TermRendererOption {
	s, err := LoadSettings()
	if err != nil {
		return glamour.WithAutoStyle()
	}
	switch s.Theme {
	case config.Light:
		return glamour.WithStandardStyle("light")
	case config.Dark:
		return glamour.WithStandardStyle("dark")
	default:
		return glamour.WithAutoStyle()
	}
}

func isTerminal() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
