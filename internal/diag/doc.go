// Package diag defines diagnostics, codes and severities for the checker.
//
// Phases never print directly. They report through the Reporter interface
// and callers decide where diagnostics land (usually a Bag) and how they
// are rendered (see internal/diagfmt).
//
// Typical usage inside a pass:
//
//	diag.ReportError(r, diag.FlowMissingReturn, span, "missing return in function 'f'").
//		WithNote(declSpan, "function declared here").
//		Emit()
package diag
