package ui

import (
	"strings"

	figure "github.com/common-nighthawk/go-figure"
)

// bannerFont is bundled with go-figure.
const bannerFont = "standard"

// Banner renders title as ASCII art for the interactive shell.
func Banner(title string) string {
	art := figure.NewFigure(title, bannerFont, true).String()
	art = strings.TrimRight(art, "\n") + "\n"
	if noColor() {
		return art
	}
	return Success.Sprint(art)
}
