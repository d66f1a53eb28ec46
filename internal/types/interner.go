package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid TypeID
	Unit    TypeID
	Nothing TypeID
	Bool    TypeID
	String  TypeID
	Int     TypeID
	Uint    TypeID
	Float   TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins
	fns      []FnInfo
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 32),
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Nothing = in.Intern(Type{Kind: KindNothing})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Int = in.Intern(MakeInt(WidthAny))
	in.builtins.Uint = in.Intern(MakeUint(WidthAny))
	in.builtins.Float = in.Intern(MakeFloat(WidthAny))
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	key := typeKey(t)
	in.index[key] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// IsNothing reports whether id is the "nothing" type, the result type of a
// function that produces no value.
func (in *Interner) IsNothing(id TypeID) bool {
	if in == nil {
		return false
	}
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindNothing
}

// Snapshot returns the raw descriptor tables backing the interner. The
// returned slices alias internal storage; treat them as read-only.
func (in *Interner) Snapshot() ([]Type, []FnInfo) {
	return in.types, in.fns
}

// Restore rebuilds an interner from descriptor tables produced by Snapshot.
// Table order is significant: TypeIDs are positions in the types slice.
func Restore(typesTab []Type, fns []FnInfo) *Interner {
	in := &Interner{
		types: append([]Type(nil), typesTab...),
		index: make(map[typeKey]TypeID, len(typesTab)),
		fns:   append([]FnInfo(nil), fns...),
	}
	for i, t := range in.types {
		in.index[typeKey(t)] = TypeID(uint32(i)) //nolint:gosec // table sizes are interner-bounded
	}
	// Builtins are seeded first by NewInterner, so positions survive the
	// round trip; recover them by kind to stay robust against gaps.
	for i, t := range in.types {
		id := TypeID(uint32(i)) //nolint:gosec
		switch t.Kind {
		case KindUnit:
			if in.builtins.Unit == 0 {
				in.builtins.Unit = id
			}
		case KindNothing:
			if in.builtins.Nothing == 0 {
				in.builtins.Nothing = id
			}
		case KindBool:
			if in.builtins.Bool == 0 {
				in.builtins.Bool = id
			}
		case KindString:
			if in.builtins.String == 0 {
				in.builtins.String = id
			}
		case KindInt:
			if t.Width == WidthAny && in.builtins.Int == 0 {
				in.builtins.Int = id
			}
		case KindUint:
			if t.Width == WidthAny && in.builtins.Uint == 0 {
				in.builtins.Uint = id
			}
		case KindFloat:
			if t.Width == WidthAny && in.builtins.Float == 0 {
				in.builtins.Float = id
			}
		}
	}
	return in
}

type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Count   uint32
	Width   Width
	Payload uint32
}
