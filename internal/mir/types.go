package mir

import (
	"ember/internal/source"
	"ember/internal/types"
)

type FuncID int32
type BlockID int32
type LocalID int32

const (
	NoFuncID  FuncID  = -1
	NoBlockID BlockID = -1
	NoLocalID LocalID = -1
)

type Local struct {
	Name string
	Type types.TypeID
	Span source.Span
}

type Place struct {
	Local LocalID
}

func (p Place) IsValid() bool {
	return p.Local != NoLocalID
}
