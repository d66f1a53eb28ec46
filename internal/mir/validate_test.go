package mir_test

import (
	"strings"
	"testing"

	"ember/internal/mir"
	"ember/internal/types"
)

func TestValidate_ValidModule(t *testing.T) {
	typesIn := types.NewInterner()
	intTy := typesIn.Builtins().Int
	intFn := typesIn.RegisterFn(nil, intTy, false)

	mod := &mir.Module{Funcs: []*mir.Func{{
		Name:   "answer",
		Sig:    intFn,
		Locals: []mir.Local{{Name: "x", Type: intTy}},
		Blocks: []mir.Block{
			{
				ID: 0,
				Instrs: []mir.Instr{{
					Kind: mir.InstrAssign,
					Assign: mir.AssignInstr{
						Dst: mir.Place{Local: 0},
						Src: mir.Operand{Kind: mir.OperandConst, Type: intTy, Const: mir.Const{Kind: mir.ConstInt, Type: intTy, IntValue: 42}},
					},
				}},
				Term: mir.Terminator{Kind: mir.TermGoto, Goto: mir.GotoTerm{Target: 1}},
			},
			{
				ID: 1,
				Term: mir.Terminator{Kind: mir.TermReturn, Return: mir.ReturnTerm{
					HasValue: true,
					Value:    mir.Operand{Kind: mir.OperandCopy, Type: intTy, Place: mir.Place{Local: 0}},
				}},
			},
		},
	}}}

	if err := mir.Validate(mod, typesIn); err != nil {
		t.Fatalf("validation failed for valid module: %v", err)
	}
}

func TestValidate_UnterminatedBlock(t *testing.T) {
	mod := &mir.Module{Funcs: []*mir.Func{{
		Name: "test",
		Blocks: []mir.Block{
			{
				// No terminator - Term.Kind defaults to TermNone
			},
		},
	}}}

	err := mir.Validate(mod, nil)
	if err == nil {
		t.Error("expected validation error for unterminated block")
	} else if !strings.Contains(err.Error(), "unterminated") {
		t.Errorf("expected unterminated error, got: %v", err)
	}
}

func TestValidate_BadBlockTargets(t *testing.T) {
	tests := []struct {
		name string
		term mir.Terminator
		want string
	}{
		{
			name: "goto_out_of_range",
			term: mir.Terminator{Kind: mir.TermGoto, Goto: mir.GotoTerm{Target: 7}},
			want: "goto target",
		},
		{
			name: "if_else_out_of_range",
			term: mir.Terminator{Kind: mir.TermIf, If: mir.IfTerm{Then: 0, Else: 9}},
			want: "else target",
		},
		{
			name: "switch_default_out_of_range",
			term: mir.Terminator{Kind: mir.TermSwitch, Switch: mir.SwitchTerm{Default: 5}},
			want: "default target",
		},
		{
			name: "switch_duplicate_case",
			term: mir.Terminator{Kind: mir.TermSwitch, Switch: mir.SwitchTerm{
				Cases:   []mir.SwitchCase{{Value: 1, Target: 0}, {Value: 1, Target: 0}},
				Default: 0,
			}},
			want: "duplicate case",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := &mir.Module{Funcs: []*mir.Func{{
				Name:   "test",
				Blocks: []mir.Block{{ID: 0, Term: tt.term}},
			}}}

			err := mir.Validate(mod, nil)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestValidate_BadLocalRefs(t *testing.T) {
	mod := &mir.Module{Funcs: []*mir.Func{{
		Name:   "test",
		Locals: []mir.Local{{Name: "x", Type: 5}},
		Blocks: []mir.Block{{
			ID: 0,
			Instrs: []mir.Instr{{
				Kind: mir.InstrDrop,
				Drop: mir.DropInstr{Place: mir.Place{Local: 3}},
			}},
			Term: mir.Terminator{Kind: mir.TermUnreachable},
		}},
	}}}

	err := mir.Validate(mod, nil)
	if err == nil {
		t.Fatal("expected validation error for out-of-range local")
	}
	if !strings.Contains(err.Error(), "L3 does not exist") {
		t.Errorf("error = %v, want out-of-range local", err)
	}
}

func TestValidate_UnknownLocalType(t *testing.T) {
	mod := &mir.Module{Funcs: []*mir.Func{{
		Name:   "test",
		Locals: []mir.Local{{Name: "x", Type: types.NoTypeID}},
		Blocks: []mir.Block{{ID: 0, Term: mir.Terminator{Kind: mir.TermUnreachable}}},
	}}}

	err := mir.Validate(mod, nil)
	if err == nil {
		t.Fatal("expected validation error for unknown local type")
	}
	if !strings.Contains(err.Error(), "unknown type") {
		t.Errorf("error = %v, want unknown type", err)
	}
}

func TestValidate_ReturnArity(t *testing.T) {
	typesIn := types.NewInterner()
	intFn := typesIn.RegisterFn(nil, typesIn.Builtins().Int, false)
	voidFn := typesIn.RegisterFn(nil, typesIn.Builtins().Nothing, false)

	tests := []struct {
		name string
		sig  types.TypeID
		term mir.Terminator
		want string
	}{
		{
			name: "bare_return_in_int_function",
			sig:  intFn,
			term: mir.Terminator{Kind: mir.TermReturn},
			want: "return without value",
		},
		{
			name: "value_return_in_nothing_function",
			sig:  voidFn,
			term: mir.Terminator{Kind: mir.TermReturn, Return: mir.ReturnTerm{
				HasValue: true,
				Value:    mir.Operand{Kind: mir.OperandConst, Const: mir.Const{Kind: mir.ConstInt, IntValue: 1}},
			}},
			want: "return with value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := &mir.Module{Funcs: []*mir.Func{{
				Name:   "test",
				Sig:    tt.sig,
				Blocks: []mir.Block{{ID: 0, Term: tt.term}},
			}}}

			err := mir.Validate(mod, typesIn)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestValidate_UnresolvedSigSkipsReturnChecks(t *testing.T) {
	mod := &mir.Module{Funcs: []*mir.Func{{
		Name:   "closure#0",
		Sig:    types.NoTypeID,
		Blocks: []mir.Block{{ID: 0, Term: mir.Terminator{Kind: mir.TermReturn}}},
	}}}

	if err := mir.Validate(mod, types.NewInterner()); err != nil {
		t.Fatalf("unresolved signature should skip return checks, got: %v", err)
	}
}
