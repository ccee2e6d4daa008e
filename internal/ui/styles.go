package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette, lime accent on the terminal's own background.
const (
	ColorLime = "154" // matched runes
)

// sentinel is rendered through a style and split out to recover the
// style's opening and closing sequences.
const sentinel = "x"

// MatchStyle is the style applied to runs of matched runes.
func MatchStyle(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime))
}

// HighlightDelimiters returns the escape sequences that open and close
// MatchStyle, forcing a 256-colour profile so the result does not depend
// on the terminal that happens to be attached.
func HighlightDelimiters(w io.Writer) (before, after string) {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI256)

	rendered := MatchStyle(r).Render(sentinel)
	before, after, found := strings.Cut(rendered, sentinel)
	if !found {
		return "", ""
	}
	return before, after
}
