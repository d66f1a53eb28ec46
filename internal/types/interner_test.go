package types

import (
	"testing"
)

func TestInterner_Builtins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	if b.Nothing == NoTypeID || b.Int == NoTypeID || b.Bool == NoTypeID {
		t.Fatalf("builtins not seeded: %+v", b)
	}

	tt, ok := in.Lookup(b.Nothing)
	if !ok || tt.Kind != KindNothing {
		t.Errorf("Lookup(Nothing) = %+v, ok=%v", tt, ok)
	}
	if !in.IsNothing(b.Nothing) {
		t.Error("IsNothing(Nothing) = false")
	}
	if in.IsNothing(b.Int) {
		t.Error("IsNothing(Int) = true")
	}
}

func TestInterner_InternIsStable(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	ptr1 := in.Intern(MakePointer(b.Int))
	ptr2 := in.Intern(MakePointer(b.Int))
	if ptr1 != ptr2 {
		t.Errorf("identical descriptors interned to different IDs: %d vs %d", ptr1, ptr2)
	}

	arr := in.Intern(MakeArray(b.Int, ArrayDynamicLength))
	if arr == ptr1 {
		t.Error("distinct descriptors interned to the same ID")
	}
}

func TestInterner_RegisterFn(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	sig := in.RegisterFn([]TypeID{b.Int, b.Int}, b.Int, false)
	again := in.RegisterFn([]TypeID{b.Int, b.Int}, b.Int, false)
	if sig != again {
		t.Errorf("identical signatures interned to different IDs: %d vs %d", sig, again)
	}

	noret := in.RegisterFn([]TypeID{b.Int, b.Int}, b.Int, true)
	if noret == sig {
		t.Error("noreturn flag ignored when interning fn type")
	}

	info, ok := in.FnInfo(sig)
	if !ok {
		t.Fatal("FnInfo not found for fn type")
	}
	if len(info.Params) != 2 || info.Result != b.Int || info.NoReturn {
		t.Errorf("FnInfo = %+v", info)
	}

	if _, ok := in.FnInfo(b.Int); ok {
		t.Error("FnInfo succeeded for non-fn type")
	}
}

func TestInterner_SnapshotRestore(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	sig := in.RegisterFn([]TypeID{b.String}, b.Nothing, true)
	ptr := in.Intern(MakePointer(b.Bool))

	typesTab, fns := in.Snapshot()
	restored := Restore(typesTab, fns)

	rb := restored.Builtins()
	if rb.Nothing != b.Nothing || rb.Int != b.Int {
		t.Errorf("builtins moved across restore: %+v vs %+v", rb, b)
	}

	info, ok := restored.FnInfo(sig)
	if !ok || !info.NoReturn || info.Result != b.Nothing {
		t.Errorf("FnInfo lost across restore: %+v, ok=%v", info, ok)
	}

	// Interning the same descriptor must find the restored entry.
	if again := restored.Intern(MakePointer(rb.Bool)); again != ptr {
		t.Errorf("restored index broken: interned %d, want %d", again, ptr)
	}
}

func TestLabel(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	sig := in.RegisterFn([]TypeID{b.Int}, b.Bool, false)
	noret := in.RegisterFn(nil, b.Nothing, true)

	tests := []struct {
		name string
		id   TypeID
		want string
	}{
		{"nothing", b.Nothing, "nothing"},
		{"int", b.Int, "int"},
		{"pointer", in.Intern(MakePointer(b.Int)), "*int"},
		{"slice", in.Intern(MakeArray(b.String, ArrayDynamicLength)), "[string]"},
		{"fixed array", in.Intern(MakeArray(b.Bool, 4)), "[bool; 4]"},
		{"fn", sig, "fn(int) -> bool"},
		{"noreturn fn", noret, "fn() -> nothing noreturn"},
		{"no type", NoTypeID, "?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(in, tt.id); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}
