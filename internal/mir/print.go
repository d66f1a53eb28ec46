package mir

import (
	"fmt"
	"io"

	"ember/internal/types"
)

// DumpOptions configures MIR module dumping.
type DumpOptions struct {
	// Locs includes origin tags next to terminators.
	Locs bool
}

// DumpModule writes a human-readable representation of a MIR module.
// Functions are printed in declaration order.
func DumpModule(w io.Writer, m *Module, typesIn *types.Interner, opts DumpOptions) error {
	if w == nil || m == nil {
		return nil
	}

	fmt.Fprintf(w, "module %s funcs=%d\n", m.Name, len(m.Funcs))
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := dumpFunc(w, f, typesIn, opts); err != nil {
			return err
		}
	}
	return nil
}

func dumpFunc(w io.Writer, f *Func, typesIn *types.Interner, opts DumpOptions) error {
	sig := "?"
	if f.Sig != types.NoTypeID {
		sig = types.Label(typesIn, f.Sig)
	}
	fmt.Fprintf(w, "\nfn %s: %s\n", f.Name, sig)

	if len(f.Locals) > 0 {
		fmt.Fprintf(w, "  locals:\n")
		for i := range f.Locals {
			l := f.Locals[i]
			name := l.Name
			if name == "" {
				name = "_"
			}
			fmt.Fprintf(w, "    L%d: %s name=%s\n", i, types.Label(typesIn, l.Type), name)
		}
	}

	for i := range f.Blocks {
		bb := &f.Blocks[i]
		fmt.Fprintf(w, "  bb%d:\n", bb.ID)
		for j := range bb.Instrs {
			fmt.Fprintf(w, "    %s\n", formatInstr(&bb.Instrs[j]))
		}
		if opts.Locs && !bb.Term.Loc.Synthetic() {
			fmt.Fprintf(w, "    %s  ; loc=%s %s\n", formatTerm(&bb.Term), bb.Term.Loc.Kind, bb.Term.Loc.Span)
		} else {
			fmt.Fprintf(w, "    %s\n", formatTerm(&bb.Term))
		}
	}

	return nil
}

func formatInstr(ins *Instr) string {
	if ins == nil {
		return "<instr?>"
	}
	switch ins.Kind {
	case InstrAssign:
		return fmt.Sprintf("%s = %s", formatPlace(ins.Assign.Dst), formatOperand(&ins.Assign.Src))
	case InstrCall:
		dst := ""
		if ins.Call.HasDst {
			dst = formatPlace(ins.Call.Dst) + " = "
		}
		return fmt.Sprintf("%scall %s(%s)", dst, ins.Call.Callee, formatOperands(ins.Call.Args))
	case InstrDrop:
		return fmt.Sprintf("drop %s", formatPlace(ins.Drop.Place))
	case InstrNop:
		return "nop"
	default:
		return "<instr?>"
	}
}

func formatTerm(term *Terminator) string {
	if term == nil {
		return "<term?>"
	}
	switch term.Kind {
	case TermNone:
		return "<unterminated>"
	case TermReturn:
		if !term.Return.HasValue {
			return "return"
		}
		return fmt.Sprintf("return %s", formatOperand(&term.Return.Value))
	case TermGoto:
		return fmt.Sprintf("goto bb%d", term.Goto.Target)
	case TermIf:
		return fmt.Sprintf("if %s then bb%d else bb%d", formatOperand(&term.If.Cond), term.If.Then, term.If.Else)
	case TermSwitch:
		out := fmt.Sprintf("switch %s {", formatOperand(&term.Switch.Value))
		for _, c := range term.Switch.Cases {
			out += fmt.Sprintf(" %d -> bb%d;", c.Value, c.Target)
		}
		out += fmt.Sprintf(" default -> bb%d; }", term.Switch.Default)
		return out
	case TermUnreachable:
		return "unreachable"
	default:
		return "<term?>"
	}
}

func formatPlace(p Place) string {
	if !p.IsValid() {
		return "L?"
	}
	return fmt.Sprintf("L%d", p.Local)
}

func formatOperands(ops []Operand) string {
	if len(ops) == 0 {
		return ""
	}
	out := formatOperand(&ops[0])
	for i := 1; i < len(ops); i++ {
		out += ", " + formatOperand(&ops[i])
	}
	return out
}

func formatOperand(op *Operand) string {
	if op == nil {
		return "<op?>"
	}
	switch op.Kind {
	case OperandConst:
		return formatConst(&op.Const)
	case OperandCopy:
		return fmt.Sprintf("copy %s", formatPlace(op.Place))
	case OperandMove:
		return fmt.Sprintf("move %s", formatPlace(op.Place))
	default:
		return "<op?>"
	}
}

func formatConst(c *Const) string {
	if c == nil {
		return "const ?"
	}
	switch c.Kind {
	case ConstInt:
		return fmt.Sprintf("const %d", c.IntValue)
	case ConstUint:
		return fmt.Sprintf("const %d:uint", c.UintValue)
	case ConstFloat:
		return fmt.Sprintf("const %g", c.FloatValue)
	case ConstBool:
		if c.BoolValue {
			return "const true"
		}
		return "const false"
	case ConstString:
		return fmt.Sprintf("const %q", c.StringValue)
	case ConstUnit:
		return "const unit"
	default:
		return "const ?"
	}
}
