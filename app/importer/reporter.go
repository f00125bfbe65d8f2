package importer

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// Line is one human-readable status line.
type Line struct {
	Text string
	// Safe marks Text as pre-sanitized markup.
	Safe bool
}

// HTML renders the line for an HTML surface; only Safe decides escaping.
func (l Line) HTML() string {
	if l.Safe {
		return l.Text
	}
	return html.EscapeString(l.Text)
}

type Reporter interface {
	Report(line Line)
}

type ReporterFunc func(line Line)

func (f ReporterFunc) Report(line Line) {
	f(line)
}

// Collector keeps every reported line in order.
type Collector struct {
	lines []Line
}

func (c *Collector) Report(line Line) {
	c.lines = append(c.lines, line)
}

func (c *Collector) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// NewHTMLReporter writes each line as an HTML fragment followed by <br />.
func NewHTMLReporter(w io.Writer) Reporter {
	return ReporterFunc(func(line Line) {
		fmt.Fprintf(w, "%s<br />\n", line.HTML())
		if f, ok := w.(interface{ Flush() }); ok {
			f.Flush()
		}
	})
}

// NewTextReporter writes lines verbatim for a terminal.
func NewTextReporter(w io.Writer) Reporter {
	return ReporterFunc(func(line Line) {
		fmt.Fprintln(w, line.Text)
	})
}

type discard struct{}

func (discard) Report(Line) {}
