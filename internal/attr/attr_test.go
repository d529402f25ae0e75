package attr

import (
	"testing"

	"lattice/internal/types"
)

func TestTaggedAccessors(t *testing.T) {
	if n, ok := Int(42).AsInt(); !ok || n != 42 {
		t.Fatalf("AsInt: %d, %v", n, ok)
	}
	if b, ok := Bool(true).AsBool(); !ok || !b {
		t.Fatalf("AsBool: %v, %v", b, ok)
	}
	if s, ok := String("hi").AsString(); !ok || s != "hi" {
		t.Fatalf("AsString: %q, %v", s, ok)
	}
	if ty, ok := Type(types.TypeID(3)).AsType(); !ok || ty != 3 {
		t.Fatalf("AsType: %d, %v", ty, ok)
	}
}

func TestMismatchedAccessorFails(t *testing.T) {
	if _, ok := Int(1).AsBool(); ok {
		t.Fatalf("int payload must not read as bool")
	}
	var zero Value
	if zero.Kind != KindNone {
		t.Fatalf("zero value kind is %d", zero.Kind)
	}
	if _, ok := zero.AsInt(); ok {
		t.Fatalf("absent attribute must not read as int")
	}
}

func TestRendering(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Int(-7), "-7"},
		{Bool(false), "false"},
		{String(`a"b`), `"a\"b"`},
		{Type(types.TypeID(2)), "type(2)"},
		{Value{}, "none"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Fatalf("%+v renders as %q, want %q", c.v, got, c.want)
		}
	}
}
