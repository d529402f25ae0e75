// Package attr provides the small attribute values stored in block and
// operation attribute maps. The IR core stores and retrieves them by
// key and never interprets their contents.
package attr

import (
	"fmt"
	"strconv"

	"lattice/internal/types"
)

// Kind enumerates attribute payload kinds.
type Kind uint8

const (
	// KindNone is the zero value of an absent attribute.
	KindNone Kind = iota
	// KindInt holds a signed integer.
	KindInt
	// KindBool holds a boolean.
	KindBool
	// KindString holds a string.
	KindString
	// KindType holds a type reference.
	KindType
)

// Value is a tagged attribute payload.
type Value struct {
	Kind Kind

	i  int64
	b  bool
	s  string
	ty types.TypeID
}

// Int builds an integer attribute.
func Int(v int64) Value { return Value{Kind: KindInt, i: v} }

// Bool builds a boolean attribute.
func Bool(v bool) Value { return Value{Kind: KindBool, b: v} }

// String builds a string attribute.
func String(v string) Value { return Value{Kind: KindString, s: v} }

// Type builds a type-reference attribute.
func Type(id types.TypeID) Value { return Value{Kind: KindType, ty: id} }

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) { return v.i, v.Kind == KindInt }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.Kind == KindBool }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.s, v.Kind == KindString }

// AsType returns the type-reference payload.
func (v Value) AsType() (types.TypeID, bool) { return v.ty, v.Kind == KindType }

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return strconv.Quote(v.s)
	case KindType:
		return fmt.Sprintf("type(%d)", uint32(v.ty))
	}
	return "none"
}
