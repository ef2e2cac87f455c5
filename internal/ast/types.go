// Package ast holds the host declarations produced by the importer and the
// context that stores them.
package ast

import "strings"

// Type is a host type.
type Type interface {
	String() string
	isType()
}

// Primitive is a builtin host type.
type Primitive int

const (
	Void Primitive = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float
	Double
	Float80
	Any
)

var primitiveNames = [...]string{
	Void:    "void",
	Bool:    "bool",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	UInt8:   "uint8",
	UInt16:  "uint16",
	UInt32:  "uint32",
	UInt64:  "uint64",
	Float:   "float",
	Double:  "double",
	Float80: "float80",
	Any:     "any",
}

func (p Primitive) String() string {
	if p < 0 || int(p) >= len(primitiveNames) {
		return "<invalid>"
	}
	return primitiveNames[p]
}

func (Primitive) isType() {}

// PrimitiveByName looks up a primitive by its host spelling.
func PrimitiveByName(name string) (Primitive, bool) {
	for i, n := range primitiveNames {
		if n == name {
			return Primitive(i), true
		}
	}
	return 0, false
}

// PointerType is a pointer to Elem.
type PointerType struct {
	Elem Type
}

func (p *PointerType) String() string { return "*" + p.Elem.String() }
func (*PointerType) isType()          {}

// FunctionType is a function signature.
type FunctionType struct {
	Args     []Type
	Result   Type
	Variadic bool
}

func (f *FunctionType) String() string {
	parts := make([]string, 0, len(f.Args)+1)
	for _, a := range f.Args {
		parts = append(parts, a.String())
	}
	if f.Variadic {
		parts = append(parts, "...")
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + f.Result.String()
}

func (*FunctionType) isType() {}

// TupleType is a fixed-arity tuple.
type TupleType struct {
	Elems []Type
}

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (*TupleType) isType() {}

// NamedType refers to a type declaration by name.
type NamedType struct {
	Name string
}

func (n *NamedType) String() string { return n.Name }
func (*NamedType) isType()          {}

// PointerTo returns a pointer to t.
func PointerTo(t Type) *PointerType { return &PointerType{Elem: t} }

// Opaque is the host stand-in for foreign types with no structural mapping.
func Opaque() *PointerType { return PointerTo(Int8) }

// Equal reports whether a and b are structurally identical.
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case Primitive:
		b, ok := b.(Primitive)
		return ok && a == b
	case *PointerType:
		b, ok := b.(*PointerType)
		return ok && Equal(a.Elem, b.Elem)
	case *FunctionType:
		b, ok := b.(*FunctionType)
		return ok && a.Variadic == b.Variadic && Equal(a.Result, b.Result) && equalList(a.Args, b.Args)
	case *TupleType:
		b, ok := b.(*TupleType)
		return ok && equalList(a.Elems, b.Elems)
	case *NamedType:
		b, ok := b.(*NamedType)
		return ok && a.Name == b.Name
	}
	return false
}

func equalList(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
