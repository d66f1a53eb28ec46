package diag

import (
	"fmt"

	"ember/internal/source"
)

// DedupReporter wraps another Reporter and drops repeated reports
// with the same code and primary span. Useful for passes that may
// visit the same origin several times through different blocks.
type DedupReporter struct {
	inner Reporter
	seen  map[string]bool
}

func NewDedupReporter(inner Reporter) *DedupReporter {
	return &DedupReporter{
		inner: inner,
		seen:  make(map[string]bool),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	key := fmt.Sprintf("%d:%d:%d:%d", code, primary.File, primary.Start, primary.End)
	if r.seen[key] {
		return
	}
	r.seen[key] = true
	r.inner.Report(code, sev, primary, msg, notes, fixes)
}
