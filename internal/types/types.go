package types

// TypeID is a stable handle to an interned type descriptor.
type TypeID uint32

// NoTypeID is the invalid sentinel.
const NoTypeID TypeID = 0

func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind enumerates type kinds.
type Kind uint8

const (
	// KindInvalid is the reserved zero kind.
	KindInvalid Kind = iota
	// KindUnit is the empty value type.
	KindUnit
	// KindBool is the boolean type.
	KindBool
	// KindInt is a signed integer type.
	KindInt
	// KindFloat is a floating point type.
	KindFloat
	// KindString is the string type.
	KindString
)

// Width is the bit width of numeric types.
type Width uint8

const (
	// WidthAny leaves the width unconstrained.
	WidthAny Width = iota
	Width8
	Width16
	Width32
	Width64
)

// Type is a structural type descriptor. Descriptors are compared by
// value; identity comes from the Interner.
type Type struct {
	Kind  Kind
	Width Width
}

// MakeInt builds a signed integer descriptor.
func MakeInt(w Width) Type { return Type{Kind: KindInt, Width: w} }

// MakeFloat builds a floating point descriptor.
func MakeFloat(w Width) Type { return Type{Kind: KindFloat, Width: w} }

func (t Type) String() string {
	switch t.Kind {
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int" + widthSuffix(t.Width)
	case KindFloat:
		return "float" + widthSuffix(t.Width)
	case KindString:
		return "string"
	}
	return "invalid"
}

func widthSuffix(w Width) string {
	switch w {
	case Width8:
		return "8"
	case Width16:
		return "16"
	case Width32:
		return "32"
	case Width64:
		return "64"
	}
	return ""
}
