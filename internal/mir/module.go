package mir

// Module is the ownership root of the lowered program.
// Funcs keeps declaration order so traversals are deterministic.
type Module struct {
	Name  string
	Funcs []*Func
}
