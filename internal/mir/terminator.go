package mir

type TermKind uint8

const (
	TermNone TermKind = iota
	TermReturn
	TermGoto
	TermIf
	TermSwitch
	TermUnreachable
)

type Terminator struct {
	Kind TermKind
	Loc  Loc

	Return      ReturnTerm
	Goto        GotoTerm
	If          IfTerm
	Switch      SwitchTerm
	Unreachable struct{}
}

type ReturnTerm struct {
	HasValue bool
	Value    Operand
}

type GotoTerm struct {
	Target BlockID
}

type IfTerm struct {
	Cond Operand
	Then BlockID
	Else BlockID
}

type SwitchCase struct {
	Value  int64
	Target BlockID
}

type SwitchTerm struct {
	Value   Operand
	Cases   []SwitchCase
	Default BlockID
}
