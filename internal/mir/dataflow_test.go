package mir_test

import (
	"strings"
	"testing"

	"ember/internal/diag"
	"ember/internal/mir"
	"ember/internal/source"
	"ember/internal/types"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func fnLoc(start, end uint32) mir.Loc {
	return mir.Loc{Kind: mir.LocFunc, Span: span(start, end)}
}

// tailFunc builds a one-block function ending in an unreachable marker.
func tailFunc(name string, sig types.TypeID, loc mir.Loc, termLoc mir.Loc) *mir.Func {
	return &mir.Func{
		Name: name,
		Loc:  loc,
		Sig:  sig,
		Blocks: []mir.Block{{
			ID:   0,
			Term: mir.Terminator{Kind: mir.TermUnreachable, Loc: termLoc},
		}},
	}
}

// returnFunc builds a one-block function ending in a plain return.
func returnFunc(name string, sig types.TypeID, loc mir.Loc, termLoc mir.Loc) *mir.Func {
	return &mir.Func{
		Name: name,
		Loc:  loc,
		Sig:  sig,
		Blocks: []mir.Block{{
			ID:   0,
			Term: mir.Terminator{Kind: mir.TermReturn, Loc: termLoc},
		}},
	}
}

func runPass(m *mir.Module, typesIn *types.Interner) []*diag.Diagnostic {
	bag := diag.NewBag(64)
	mir.DiagnoseDataflow(m, typesIn, diag.BagReporter{Bag: bag})
	return bag.Items()
}

func TestDiagnose_MissingReturn(t *testing.T) {
	typesIn := types.NewInterner()
	intFn := typesIn.RegisterFn(nil, typesIn.Builtins().Int, false)

	m := &mir.Module{Funcs: []*mir.Func{
		tailFunc("answer", intFn, fnLoc(0, 20), mir.Loc{Kind: mir.LocFunc, Span: span(0, 20)}),
	}}

	got := runPass(m, typesIn)
	if len(got) != 1 {
		t.Fatalf("diagnostics = %d, want 1", len(got))
	}
	d := got[0]
	if d.Code != diag.FlowMissingReturn {
		t.Errorf("code = %v, want FlowMissingReturn", d.Code)
	}
	if d.Primary != span(20, 20) {
		t.Errorf("primary = %v, want zero-width span at 20", d.Primary)
	}
	if !strings.Contains(d.Message, "answer") || !strings.Contains(d.Message, "'int'") {
		t.Errorf("message = %q, want function name and result type", d.Message)
	}
}

func TestDiagnose_NothingResultIsExempt(t *testing.T) {
	typesIn := types.NewInterner()
	voidFn := typesIn.RegisterFn(nil, typesIn.Builtins().Nothing, false)

	m := &mir.Module{Funcs: []*mir.Func{
		tailFunc("quiet", voidFn, fnLoc(0, 20), mir.Loc{Kind: mir.LocFunc, Span: span(0, 20)}),
	}}

	if got := runPass(m, typesIn); len(got) != 0 {
		t.Fatalf("diagnostics = %d, want 0 for nothing result", len(got))
	}
}

func TestDiagnose_NoReturnTailIsExempt(t *testing.T) {
	typesIn := types.NewInterner()
	divergent := typesIn.RegisterFn(nil, typesIn.Builtins().Nothing, true)

	m := &mir.Module{Funcs: []*mir.Func{
		tailFunc("halt", divergent, fnLoc(0, 20), mir.Loc{Kind: mir.LocFunc, Span: span(0, 20)}),
	}}

	if got := runPass(m, typesIn); len(got) != 0 {
		t.Fatalf("diagnostics = %d, want 0 for noreturn tail", len(got))
	}
}

func TestDiagnose_ReturnFromNoReturn(t *testing.T) {
	typesIn := types.NewInterner()
	divergent := typesIn.RegisterFn(nil, typesIn.Builtins().Nothing, true)

	m := &mir.Module{Funcs: []*mir.Func{
		returnFunc("halt", divergent, fnLoc(0, 40), mir.Loc{Kind: mir.LocExpr, Span: span(30, 37)}),
	}}

	got := runPass(m, typesIn)
	if len(got) != 1 {
		t.Fatalf("diagnostics = %d, want 1", len(got))
	}
	d := got[0]
	if d.Code != diag.FlowReturnFromNoReturn {
		t.Errorf("code = %v, want FlowReturnFromNoReturn", d.Code)
	}
	if d.Primary != span(37, 37) {
		t.Errorf("primary = %v, want zero-width span at 37", d.Primary)
	}
}

func TestDiagnose_ReturnFromNormalFunctionIsSilent(t *testing.T) {
	typesIn := types.NewInterner()
	voidFn := typesIn.RegisterFn(nil, typesIn.Builtins().Nothing, false)

	m := &mir.Module{Funcs: []*mir.Func{
		returnFunc("plain", voidFn, fnLoc(0, 40), mir.Loc{Kind: mir.LocExpr, Span: span(30, 37)}),
	}}

	if got := runPass(m, typesIn); len(got) != 0 {
		t.Fatalf("diagnostics = %d, want 0 for normal return", len(got))
	}
}

func TestDiagnose_NonExhaustiveSwitch(t *testing.T) {
	typesIn := types.NewInterner()

	// Switch markers fire regardless of the function's signature.
	sigs := []types.TypeID{
		typesIn.RegisterFn(nil, typesIn.Builtins().Int, false),
		typesIn.RegisterFn(nil, typesIn.Builtins().Nothing, false),
		typesIn.RegisterFn(nil, typesIn.Builtins().Nothing, true),
		types.NoTypeID,
	}

	for _, sig := range sigs {
		m := &mir.Module{Funcs: []*mir.Func{
			tailFunc("pick", sig, fnLoc(0, 60), mir.Loc{Kind: mir.LocSwitch, Span: span(10, 50)}),
		}}

		got := runPass(m, typesIn)
		if len(got) != 1 {
			t.Fatalf("sig=%d: diagnostics = %d, want 1", sig, len(got))
		}
		if got[0].Code != diag.FlowNonExhaustiveSwitch {
			t.Errorf("sig=%d: code = %v, want FlowNonExhaustiveSwitch", sig, got[0].Code)
		}
		if got[0].Primary != span(50, 50) {
			t.Errorf("sig=%d: primary = %v, want zero-width span at 50", sig, got[0].Primary)
		}
	}
}

func TestDiagnose_SyntheticSuppression(t *testing.T) {
	typesIn := types.NewInterner()
	intFn := typesIn.RegisterFn(nil, typesIn.Builtins().Int, false)
	divergent := typesIn.RegisterFn(nil, typesIn.Builtins().Nothing, true)

	m := &mir.Module{Funcs: []*mir.Func{
		tailFunc("synthesized", intFn, fnLoc(0, 20), mir.Loc{}),
		returnFunc("cancelled", divergent, fnLoc(30, 50), mir.Loc{}),
	}}

	if got := runPass(m, typesIn); len(got) != 0 {
		t.Fatalf("diagnostics = %d, want 0 for synthetic points", len(got))
	}
}

func TestDiagnose_ClosureSigSuppression(t *testing.T) {
	typesIn := types.NewInterner()
	intFn := typesIn.RegisterFn(nil, typesIn.Builtins().Int, false)

	closureLoc := mir.Loc{Kind: mir.LocClosure, Span: span(0, 20)}
	m := &mir.Module{Funcs: []*mir.Func{
		tailFunc("closure#0", intFn, closureLoc, mir.Loc{Kind: mir.LocFunc, Span: span(0, 20)}),
	}}

	if got := runPass(m, typesIn); len(got) != 0 {
		t.Fatalf("diagnostics = %d, want 0 for closure body", len(got))
	}
}

func TestDiagnose_UnresolvedSigSuppression(t *testing.T) {
	typesIn := types.NewInterner()

	m := &mir.Module{Funcs: []*mir.Func{
		tailFunc("mystery", types.NoTypeID, fnLoc(0, 20), mir.Loc{Kind: mir.LocFunc, Span: span(0, 20)}),
		returnFunc("mystery2", types.NoTypeID, fnLoc(30, 50), mir.Loc{Kind: mir.LocExpr, Span: span(40, 47)}),
	}}

	if got := runPass(m, typesIn); len(got) != 0 {
		t.Fatalf("diagnostics = %d, want 0 for unresolved signatures", len(got))
	}
}

func TestDiagnose_UnsupportedOriginSuppression(t *testing.T) {
	typesIn := types.NewInterner()
	intFn := typesIn.RegisterFn(nil, typesIn.Builtins().Int, false)

	m := &mir.Module{Funcs: []*mir.Func{
		tailFunc("oddity", intFn, fnLoc(0, 20), mir.Loc{Kind: mir.LocExpr, Span: span(5, 15)}),
	}}

	if got := runPass(m, typesIn); len(got) != 0 {
		t.Fatalf("diagnostics = %d, want 0 for unsupported origin", len(got))
	}
}

func TestDiagnose_Deterministic(t *testing.T) {
	typesIn := types.NewInterner()
	intFn := typesIn.RegisterFn(nil, typesIn.Builtins().Int, false)
	divergent := typesIn.RegisterFn(nil, typesIn.Builtins().Nothing, true)

	m := &mir.Module{Funcs: []*mir.Func{
		tailFunc("a", intFn, fnLoc(0, 20), mir.Loc{Kind: mir.LocFunc, Span: span(0, 20)}),
		tailFunc("b", intFn, fnLoc(30, 60), mir.Loc{Kind: mir.LocSwitch, Span: span(40, 55)}),
		returnFunc("c", divergent, fnLoc(70, 90), mir.Loc{Kind: mir.LocExpr, Span: span(80, 87)}),
	}}

	first := runPass(m, typesIn)
	second := runPass(m, typesIn)

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("diagnostics = %d/%d, want 3/3", len(first), len(second))
	}
	for i := range first {
		if first[i].Code != second[i].Code || first[i].Primary != second[i].Primary || first[i].Message != second[i].Message {
			t.Errorf("run mismatch at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
	// Emission follows declaration order, not position order.
	wantCodes := []diag.Code{diag.FlowMissingReturn, diag.FlowNonExhaustiveSwitch, diag.FlowReturnFromNoReturn}
	for i, want := range wantCodes {
		if first[i].Code != want {
			t.Errorf("order[%d] = %v, want %v", i, first[i].Code, want)
		}
	}
}

func TestDiagnose_RulesAreMutuallyExclusivePerFunc(t *testing.T) {
	typesIn := types.NewInterner()
	intFn := typesIn.RegisterFn(nil, typesIn.Builtins().Int, false)
	divergent := typesIn.RegisterFn(nil, typesIn.Builtins().Nothing, true)

	// A noreturn function never yields MissingReturn, a normal one never
	// yields ReturnFromNoReturn, so one function cannot produce both.
	noisy := &mir.Func{
		Name: "both",
		Loc:  fnLoc(0, 100),
		Sig:  divergent,
		Blocks: []mir.Block{
			{ID: 0, Term: mir.Terminator{Kind: mir.TermReturn, Loc: mir.Loc{Kind: mir.LocExpr, Span: span(10, 17)}}},
			{ID: 1, Term: mir.Terminator{Kind: mir.TermUnreachable, Loc: mir.Loc{Kind: mir.LocFunc, Span: span(0, 100)}}},
		},
	}
	m := &mir.Module{Funcs: []*mir.Func{noisy}}

	got := runPass(m, typesIn)
	if len(got) != 1 || got[0].Code != diag.FlowReturnFromNoReturn {
		t.Fatalf("noreturn func: got %d diagnostics, want single ReturnFromNoReturn", len(got))
	}

	noisy.Sig = intFn
	got = runPass(m, typesIn)
	if len(got) != 1 || got[0].Code != diag.FlowMissingReturn {
		t.Fatalf("normal func: got %d diagnostics, want single MissingReturn", len(got))
	}
}

func TestDiagnose_NilModule(t *testing.T) {
	bag := diag.NewBag(8)
	mir.DiagnoseDataflow(nil, types.NewInterner(), diag.BagReporter{Bag: bag})
	if bag.Len() != 0 {
		t.Fatalf("diagnostics = %d, want 0 for nil module", bag.Len())
	}
}
