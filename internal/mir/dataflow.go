package mir

import (
	"fmt"

	"ember/internal/diag"
	"ember/internal/types"
)

// DiagnoseDataflow walks a lowered module once and reports reachability
// anomalies the front end marked but could not render: falling off the end
// of a function that promises a value, switches whose cases were proved
// non-exhaustive, and returns out of a noreturn function.
//
// The pass never mutates the module. Each point is judged on its own
// fields plus the enclosing function's signature; there is no analysis
// state carried between blocks. Points with a synthetic origin are skipped
// silently, as are functions whose signature cannot be resolved. Traversal
// follows declaration order, so repeated runs over the same module report
// in the same order.
func DiagnoseDataflow(m *Module, typesIn *types.Interner, reporter diag.Reporter) {
	if m == nil {
		return
	}
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		diagnoseFunc(f, typesIn, reporter)
	}
}

func diagnoseFunc(f *Func, typesIn *types.Interner, reporter diag.Reporter) {
	for i := range f.Blocks {
		term := &f.Blocks[i].Term
		switch term.Kind {
		case TermUnreachable:
			diagnoseUnreachable(f, term, typesIn, reporter)
		case TermReturn:
			diagnoseReturn(f, term, typesIn, reporter)
		case TermNone, TermGoto, TermIf, TermSwitch:
			// Not diagnosable. Listed explicitly so a new terminator kind
			// fails exhaustiveness review instead of being misrouted.
		}
	}
}

// diagnoseUnreachable classifies an unreachable marker by its origin.
// Only markers tagged with the whole function body or a switch construct
// are diagnosable; everything else is suppressed.
func diagnoseUnreachable(f *Func, term *Terminator, typesIn *types.Interner, reporter diag.Reporter) {
	if term.Loc.Synthetic() {
		return
	}
	switch term.Loc.Kind {
	case LocFunc:
		diagnoseMissingReturn(f, term, typesIn, reporter)
	case LocSwitch:
		diagnoseNonExhaustiveSwitch(term, reporter)
	case LocNone, LocClosure, LocExpr:
		// Unsupported origins stay silent rather than guessing a rule.
	}
}

func diagnoseMissingReturn(f *Func, term *Terminator, typesIn *types.Interner, reporter diag.Reporter) {
	info, ok := resolveSig(f, typesIn)
	if !ok {
		return
	}
	// Falling off the end of a nothing function is legal, and an
	// unreachable tail is the expected shape of a noreturn function.
	if typesIn.IsNothing(info.Result) {
		return
	}
	if info.NoReturn {
		return
	}
	diag.ReportError(reporter, diag.FlowMissingReturn, term.Loc.End(),
		fmt.Sprintf("missing return in function '%s' expected to return '%s'",
			f.Name, types.Label(typesIn, info.Result))).
		WithNote(f.Loc.Span, "function body ends here without returning a value").
		Emit()
}

// diagnoseNonExhaustiveSwitch renders the marker unconditionally. The
// stage that inserted it already disproved exhaustiveness; no further
// checks belong here.
func diagnoseNonExhaustiveSwitch(term *Terminator, reporter diag.Reporter) {
	diag.ReportError(reporter, diag.FlowNonExhaustiveSwitch, term.Loc.End(),
		"switch must be exhaustive").
		Emit()
}

func diagnoseReturn(f *Func, term *Terminator, typesIn *types.Interner, reporter diag.Reporter) {
	info, ok := resolveSig(f, typesIn)
	if !ok {
		return
	}
	if !info.NoReturn {
		return
	}
	if term.Loc.Synthetic() {
		return
	}
	diag.ReportError(reporter, diag.FlowReturnFromNoReturn, term.Loc.End(),
		fmt.Sprintf("function '%s' is declared noreturn and cannot return", f.Name)).
		WithNote(f.Loc.Span, "declared noreturn here").
		Emit()
}

// resolveSig recovers the fn signature behind a function's origin.
// Closure bodies do not reliably carry their result type through lowering,
// so they resolve as unknown and the caller suppresses diagnosis.
func resolveSig(f *Func, typesIn *types.Interner) (*types.FnInfo, bool) {
	if typesIn == nil || f.Sig == types.NoTypeID {
		return nil, false
	}
	if f.Loc.Kind == LocClosure {
		return nil, false
	}
	return typesIn.FnInfo(f.Sig)
}
