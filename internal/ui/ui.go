// Package ui decides whether matches are highlighted with colour and
// produces the escape sequences used for it.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	suberrors "github.com/Aman-CERP/subseq/internal/errors"
)

// ColorMode selects when colour highlighting is applied.
type ColorMode string

const (
	// ColorAuto highlights when stdout is a terminal and NO_COLOR is unset.
	ColorAuto ColorMode = "auto"
	// ColorAlways always highlights.
	ColorAlways ColorMode = "always"
	// ColorNever never highlights.
	ColorNever ColorMode = "never"
)

// ParseColorMode parses a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	case "":
		return ColorNever, nil
	default:
		return "", suberrors.New(suberrors.ErrCodeInvalidColorMode,
			fmt.Sprintf("unknown color mode %q", s), nil).
			WithSuggestion("Use one of: auto, always, never")
	}
}

// ColorEnabled resolves mode against the output writer and environment.
func ColorEnabled(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorAuto:
		return IsTTY(w) && !DetectNoColor()
	default:
		return false
	}
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}

	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}
