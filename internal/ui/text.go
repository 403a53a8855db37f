package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter renders one kind of vault output. Without color it falls back
// to plain decoration so the meaning survives in logs and pipes.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

func (f Formatter) Sprint(a ...interface{}) string {
	return f.render(fmt.Sprint(a...))
}

func (f Formatter) Sprintf(format string, a ...interface{}) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline appends a newline unless s already ends with one.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor honors NO_COLOR (https://no-color.org/) and fatih/color's own
// terminal detection.
func noColor() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return true
	}
	return color.NoColor
}

var (
	// Code is a command the user can run, such as securevault init.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path is a vault artifact: data dir, vault file, key file, journal or
	// export destination.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	Flag = Formatter{color.New(color.FgYellow), "", ""}

	// Status markers (✓ ✗ ⚠ →).
	Success = Formatter{color.New(color.FgGreen), "", ""}
	Error   = Formatter{color.New(color.FgRed), "", ""}
	Warning = Formatter{color.New(color.FgYellow), "", ""}
	Info    = Formatter{color.New(color.FgCyan), "", ""}

	// Highlight marks a stored value the user typed: a service, a username
	// or a search query. Quoted without color.
	Highlight = Formatter{color.New(color.FgCyan), "'", "'"}

	// Muted is secondary text such as cipher notes and change notices.
	// Parenthesized without color.
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}
)
