package mir

import "ember/internal/source"

// LocKind tags the surface construct a lowered point originated from.
type LocKind uint8

const (
	// LocNone marks a synthetic point with no originating source text,
	// e.g. inserted by dead-code elimination.
	LocNone LocKind = iota
	// LocFunc marks the body of a named function declaration.
	LocFunc
	// LocClosure marks the body of a closure expression.
	LocClosure
	// LocSwitch marks a switch construct.
	LocSwitch
	// LocExpr marks an ordinary expression.
	LocExpr
)

func (k LocKind) String() string {
	switch k {
	case LocNone:
		return "none"
	case LocFunc:
		return "func"
	case LocClosure:
		return "closure"
	case LocSwitch:
		return "switch"
	case LocExpr:
		return "expr"
	}
	return "unknown"
}

// Loc ties a lowered point back to the surface construct that produced it.
type Loc struct {
	Kind LocKind
	Span source.Span
}

// Synthetic reports whether the point has no user-visible origin.
// Synthetic points never produce diagnostics.
func (l Loc) Synthetic() bool {
	return l.Kind == LocNone
}

// End returns the zero-width anchor at the end of the originating construct.
func (l Loc) End() source.Span {
	return l.Span.Tail()
}
