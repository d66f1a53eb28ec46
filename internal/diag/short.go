package diag

import (
	"fmt"
	"sort"
	"strings"

	"ember/internal/source"
)

// FormatShort renders diagnostics one per line:
//
//	path:line:col: SEVERITY CODE: message
//
// Diagnostics are ordered by position, then severity, then code,
// so the output is stable across runs. pathMode is a source path
// formatting mode ("absolute", "relative", "basename", "auto").
func FormatShort(fs *source.FileSet, bag *Bag, pathMode string) string {
	items := make([]*Diagnostic, len(bag.Items()))
	copy(items, bag.Items())

	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i], items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})

	var sb strings.Builder
	for _, d := range items {
		pos := "<unknown>"
		if int(d.Primary.File) < fs.Len() {
			file := fs.Get(d.Primary.File)
			start, _ := fs.Resolve(d.Primary)
			pos = fmt.Sprintf("%s:%d:%d", file.FormatPath(pathMode, fs.BaseDir()), start.Line, start.Col)
		}
		fmt.Fprintf(&sb, "%s: %s %s: %s\n", pos, d.Severity, d.Code.ID(), d.Message)
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "  note: %s\n", n.Msg)
		}
	}
	return sb.String()
}
