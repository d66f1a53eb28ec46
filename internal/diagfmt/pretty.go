package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ember/internal/diag"
	"ember/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := prettyPrinter{w: w, fs: fs, opts: opts}
	for _, d := range bag.Items() {
		p.printDiagnostic(d)
	}
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
}

func (p *prettyPrinter) printDiagnostic(d *diag.Diagnostic) {
	sev := p.severityColor(d.Severity)
	pos, file, start := p.locate(d.Primary)

	fmt.Fprintf(p.w, "%s: %s %s: %s\n",
		pos, sev.Sprint(d.Severity.String()), sev.Sprint(d.Code.ID()), d.Message)

	if file != nil {
		p.printContext(file, d.Primary, start, sev)
	}

	if p.opts.ShowNotes {
		for _, n := range d.Notes {
			notePos, noteFile, noteStart := p.locate(n.Span)
			fmt.Fprintf(p.w, "%s: %s: %s\n", notePos, p.noteColor().Sprint("note"), n.Msg)
			if noteFile != nil {
				p.printContext(noteFile, n.Span, noteStart, p.noteColor())
			}
		}
	}
}

// locate resolves a span into a printable position prefix. File is nil when
// the span points outside the file set.
func (p *prettyPrinter) locate(span source.Span) (string, *source.File, source.LineCol) {
	if p.fs == nil || int(span.File) >= p.fs.Len() {
		return "<unknown>", nil, source.LineCol{}
	}
	file := p.fs.Get(span.File)
	start, _ := p.fs.Resolve(span)
	path := file.FormatPath(p.opts.PathMode.mode(), p.fs.BaseDir())
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col), file, start
}

// printContext renders the offending line with up to opts.Context lines
// before it, a line-number gutter, and a caret underline.
func (p *prettyPrinter) printContext(file *source.File, span source.Span, start source.LineCol, sev *color.Color) {
	first := start.Line
	if ctx := uint32(max(int(p.opts.Context), 0)); first > ctx { //nolint:gosec // Context is a small int8
		first -= ctx
	} else {
		first = 1
	}

	// Tabs render as four spaces so the caret math matches the output.
	expand := func(s string) string { return strings.ReplaceAll(s, "\t", "    ") }

	gutter := len(fmt.Sprintf("%d", start.Line))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(p.w, " %*d | %s\n", gutter, ln, expand(file.GetLine(ln)))
	}

	line := file.GetLine(start.Line)
	if start.Col == 0 {
		return
	}
	prefix := line
	if int(start.Col-1) <= len(line) {
		prefix = line[:start.Col-1]
	}
	pad := runewidth.StringWidth(expand(prefix))

	carets := 1
	if span.End > span.Start {
		rest := line[len(prefix):]
		spanned := int(span.End - span.Start)
		if spanned < len(rest) {
			rest = rest[:spanned]
		}
		if w := runewidth.StringWidth(rest); w > 1 {
			carets = w
		}
	}

	underline := "^" + strings.Repeat("~", carets-1)
	fmt.Fprintf(p.w, " %s | %s%s\n", strings.Repeat(" ", gutter), strings.Repeat(" ", pad), sev.Sprint(underline))
}

func (p *prettyPrinter) severityColor(sev diag.Severity) *color.Color {
	var c *color.Color
	switch sev {
	case diag.SevError:
		c = color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgCyan)
	}
	p.applyColorMode(c)
	return c
}

func (p *prettyPrinter) noteColor() *color.Color {
	c := color.New(color.FgBlue)
	p.applyColorMode(c)
	return c
}

func (p *prettyPrinter) applyColorMode(c *color.Color) {
	if p.opts.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}
