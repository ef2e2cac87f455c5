package ast

import (
	"strconv"
	"strings"

	"cimport/internal/source"
)

// Identifier is a name with an optional source range. Identity is the name.
type Identifier struct {
	Name  string
	Range *source.Range
}

// Ident creates an identifier.
func Ident(name string, r *source.Range) Identifier {
	return Identifier{Name: name, Range: r}
}

func (i Identifier) String() string { return i.Name }

// Modifiers flag where a declaration came from and how it may be used.
type Modifiers uint8

const (
	Foreign Modifiers = 1 << iota
	Implicit
	Mutable
	NoReturn
)

// Has reports whether all of m's bits are set.
func (m Modifiers) Has(flag Modifiers) bool { return m&flag == flag }

func (m Modifiers) String() string {
	var parts []string
	for _, f := range []struct {
		flag Modifiers
		name string
	}{{Foreign, "foreign"}, {Implicit, "implicit"}, {Mutable, "mutable"}, {NoReturn, "noreturn"}} {
		if m.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, " ")
}

// Decl is a host declaration.
type Decl interface {
	Ident() Identifier
	Mods() Modifiers
}

// FieldDecl is one stored property of a TypeDecl.
type FieldDecl struct {
	Name      Identifier
	Type      Type
	Modifiers Modifiers
}

// TypeDecl declares a named record type.
type TypeDecl struct {
	Name      Identifier
	Fields    []*FieldDecl
	Modifiers Modifiers
}

func (d *TypeDecl) Ident() Identifier { return d.Name }
func (d *TypeDecl) Mods() Modifiers   { return d.Modifiers }

// Field returns the field called name, or nil.
func (d *TypeDecl) Field(name string) *FieldDecl {
	for _, f := range d.Fields {
		if f.Name.Name == name {
			return f
		}
	}
	return nil
}

// TypeAliasDecl declares Name as another spelling of Type.
type TypeAliasDecl struct {
	Name      Identifier
	Type      Type
	Modifiers Modifiers
}

func (d *TypeAliasDecl) Ident() Identifier { return d.Name }
func (d *TypeAliasDecl) Mods() Modifiers   { return d.Modifiers }

// ParamDecl is a function parameter. Foreign parameters are unnamed.
type ParamDecl struct {
	Name Identifier
	Type Type
}

// FuncDecl declares a function without a body.
type FuncDecl struct {
	Name      Identifier
	Params    []*ParamDecl
	Result    Type
	Variadic  bool
	Modifiers Modifiers
}

func (d *FuncDecl) Ident() Identifier { return d.Name }
func (d *FuncDecl) Mods() Modifiers   { return d.Modifiers }

// Type returns the function's signature.
func (d *FuncDecl) Type() *FunctionType {
	args := make([]Type, len(d.Params))
	for i, p := range d.Params {
		args[i] = p.Type
	}
	return &FunctionType{Args: args, Result: d.Result, Variadic: d.Variadic}
}

// VarDecl declares a global. Value is nil for foreign variables.
type VarDecl struct {
	Name      Identifier
	Type      Type
	Value     Expr
	Modifiers Modifiers
}

func (d *VarDecl) Ident() Identifier { return d.Name }
func (d *VarDecl) Mods() Modifiers   { return d.Modifiers }

// Expr is a constant expression.
type Expr interface {
	Type() Type
	String() string
}

// IntLiteral is an integer constant of primitive type Typ.
type IntLiteral struct {
	Value uint64
	Typ   Primitive
}

func (e *IntLiteral) Type() Type { return e.Typ }

func (e *IntLiteral) String() string {
	switch e.Typ {
	case Int8, Int16, Int32, Int64:
		return strconv.FormatInt(int64(e.Value), 10)
	}
	return strconv.FormatUint(e.Value, 10)
}

// FloatLiteral is a floating constant of primitive type Typ.
type FloatLiteral struct {
	Value float64
	Typ   Primitive
}

func (e *FloatLiteral) Type() Type     { return e.Typ }
func (e *FloatLiteral) String() string { return strconv.FormatFloat(e.Value, 'g', -1, 64) }

// CharLiteral is a character constant.
type CharLiteral struct {
	Value byte
}

func (e *CharLiteral) Type() Type     { return Int8 }
func (e *CharLiteral) String() string { return strconv.QuoteRuneToASCII(rune(e.Value)) }

// StringLiteral is a string constant.
type StringLiteral struct {
	Value string
}

func (e *StringLiteral) Type() Type     { return PointerTo(Int8) }
func (e *StringLiteral) String() string { return strconv.QuoteToASCII(e.Value) }

// VarRef refers to another global.
type VarRef struct {
	Name Identifier
	Decl *VarDecl
}

func (e *VarRef) Type() Type     { return e.Decl.Type }
func (e *VarRef) String() string { return e.Name.Name }
