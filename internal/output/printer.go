// Package output formats diagnostics for the terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// ColorMode selects when diagnostics are colored.
type ColorMode int

const (
	// ColorAuto enables colors when the environment allows it.
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on.
	ColorAlways
	// ColorNever forces colors off.
	ColorNever
)

// ParseColorMode parses a settings value into a ColorMode. An empty value
// means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
	}
}

// ResolveColors determines whether to use colors based on mode and environment.
// In auto mode colors follow fatih/color's terminal detection.
func ResolveColors(mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		return !color.NoColor
	}
}

// Printer writes user-facing diagnostics to the error stream.
type Printer struct {
	err       io.Writer
	useColors bool
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer, useColors bool) *Printer {
	return &Printer{err: w, useColors: useColors}
}

// Writer returns the underlying stream.
func (p *Printer) Writer() io.Writer {
	return p.err
}

// Error prints a failure line prefixed with "[ERROR]", or a red cross when
// colors are enabled.
func (p *Printer) Error(format string, args ...interface{}) {
	if p.useColors {
		c := color.New(color.FgRed)
		c.EnableColor()
		c.Fprintf(p.err, "✗ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
}

// Warning prints a notice prefixed with "[WARN]", or a yellow sign when
// colors are enabled.
func (p *Printer) Warning(format string, args ...interface{}) {
	if p.useColors {
		c := color.New(color.FgYellow)
		c.EnableColor()
		c.Fprintf(p.err, "⚠ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
}
