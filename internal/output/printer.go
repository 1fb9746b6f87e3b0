// Package output renders outlines, workflows and progress for the terminal.
//
// Styling uses lipgloss. A [Printer] built for a writer that is not a
// terminal, or with colour turned off, produces plain text with the same
// layout; with colour off the Unicode glyphs are replaced by ASCII as well.
//
// Key types:
//   - [Printer] - Renders everything the CLI prints besides raw YAML/JSON
//   - [Option] - Adjusts a [Printer] at construction time
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// DefaultBarWidth is the progress bar width used when none is configured.
const DefaultBarWidth = 30

// glyphs are the symbols used in rendered output.
type glyphs struct {
	done, current, pending string
	barFull, barEmpty      string
	arrow                  string
	linear, cycle, final   string
	other                  string
	success, failure       string
}

var unicodeGlyphs = glyphs{
	done: "✓", current: "▶", pending: "○",
	barFull: "█", barEmpty: "░",
	arrow:  "→",
	linear: "→", cycle: "↻", final: "■",
	other:   "•",
	success: "✓", failure: "✗",
}

var asciiGlyphs = glyphs{
	done: "[x]", current: "[>]", pending: "[ ]",
	barFull: "#", barEmpty: "-",
	arrow:  "->",
	linear: "->", cycle: "@", final: "#",
	other:   "*",
	success: "OK", failure: "ERROR",
}

// styles holds the lipgloss styles of a [Printer].
type styles struct {
	title   lipgloss.Style
	subtle  lipgloss.Style
	done    lipgloss.Style
	current lipgloss.Style
	pending lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	id      lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, color bool) styles {
	if !color {
		plain := r.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		subtle:  r.NewStyle().Foreground(lipgloss.Color("8")),
		done:    r.NewStyle().Foreground(lipgloss.Color("2")),
		current: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		pending: r.NewStyle().Foreground(lipgloss.Color("8")),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		id:      r.NewStyle().Foreground(lipgloss.Color("13")),
	}
}

// Printer writes formatted output to a writer.
//
// Create with [NewPrinter] for stdout or [NewPrinterWithWriter] for tests and
// redirection.
type Printer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	color    bool
	barWidth int
	glyphs   glyphs
	styles   styles
}

// Option configures a [Printer].
type Option func(*Printer)

// WithColor turns styling and Unicode glyphs on or off.
func WithColor(on bool) Option {
	return func(p *Printer) {
		p.color = on
	}
}

// WithBarWidth sets the number of cells in the progress bar. Values below 1
// fall back to [DefaultBarWidth].
func WithBarWidth(n int) Option {
	return func(p *Printer) {
		if n < 1 {
			n = DefaultBarWidth
		}
		p.barWidth = n
	}
}

// NewPrinter creates a [Printer] writing to stdout.
func NewPrinter(opts ...Option) *Printer {
	return NewPrinterWithWriter(os.Stdout, opts...)
}

// NewPrinterWithWriter creates a [Printer] writing to w.
func NewPrinterWithWriter(w io.Writer, opts ...Option) *Printer {
	p := &Printer{
		out:      w,
		renderer: lipgloss.NewRenderer(w),
		color:    true,
		barWidth: DefaultBarWidth,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.glyphs = unicodeGlyphs
	if !p.color {
		p.glyphs = asciiGlyphs
	}
	p.styles = newStyles(p.renderer, p.color)
	return p
}

// Writer returns the writer the printer writes to.
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Success prints a confirmation line.
func (p *Printer) Success(format string, args ...any) {
	p.printf("%s %s\n", p.styles.success.Render(p.glyphs.success), fmt.Sprintf(format, args...))
}

// Error prints a failure line.
func (p *Printer) Error(format string, args ...any) {
	p.printf("%s %s\n", p.styles.failure.Render(p.glyphs.failure), fmt.Sprintf(format, args...))
}

// Info prints a plain line.
func (p *Printer) Info(format string, args ...any) {
	p.printf(format+"\n", args...)
}
