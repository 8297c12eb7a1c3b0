package shell

import (
	"io"

	"github.com/fatih/color"
)

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

// Printer writes interpreter diagnostics, colored when the destination is a
// terminal or color is forced.
type Printer struct {
	mode string

	warn *color.Color
	err  *color.Color
}

// NewPrinter creates a printer for the color mode (always|auto|never).
func NewPrinter(mode string) *Printer {
	return &Printer{
		mode: mode,
		warn: color.New(color.FgYellow, color.Bold),
		err:  color.New(color.FgRed, color.Bold),
	}
}

// ShouldColor reports whether output to w is colored.
func (p *Printer) ShouldColor(w io.Writer) bool {
	switch p.mode {
	case colorNever:
		return false
	case colorAlways:
		return true
	default:
		return IsTerminal(w)
	}
}

func (p *Printer) fprintf(c *color.Color, w io.Writer, format string, a ...interface{}) {
	if p.ShouldColor(w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	c.Fprintf(w, format, a...)
}

// Warnf prints a warning line.
func (p *Printer) Warnf(w io.Writer, format string, a ...interface{}) {
	p.fprintf(p.warn, w, format+"\n", a...)
}

// Errorf prints an error line.
func (p *Printer) Errorf(w io.Writer, format string, a ...interface{}) {
	p.fprintf(p.err, w, format+"\n", a...)
}
