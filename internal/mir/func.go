package mir

import (
	"ember/internal/types"
)

type Func struct {
	ID   FuncID
	Name string
	Loc  Loc

	// Sig is the interned fn type carrying params, result and the
	// noreturn flag. NoTypeID when the front end could not resolve it.
	Sig types.TypeID

	Locals []Local
	Blocks []Block
	Entry  BlockID
}
