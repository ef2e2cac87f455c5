package ast

import (
	"errors"
	"testing"
)

func TestEqual(t *testing.T) {
	fn := func(args ...Type) *FunctionType { return &FunctionType{Args: args, Result: Int32} }

	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same primitive", Int32, Int32, true},
		{"different primitive", Int32, UInt32, false},
		{"pointer", PointerTo(Int8), PointerTo(Int8), true},
		{"pointer elem", PointerTo(Int8), PointerTo(UInt8), false},
		{"named", &NamedType{Name: "point"}, &NamedType{Name: "point"}, true},
		{"named differs", &NamedType{Name: "point"}, &NamedType{Name: "rect"}, false},
		{"function", fn(Int32, Int32), fn(Int32, Int32), true},
		{"function arity", fn(Int32), fn(Int32, Int32), false},
		{"variadic", fn(Int32), &FunctionType{Args: []Type{Int32}, Result: Int32, Variadic: true}, false},
		{"tuple", &TupleType{Elems: []Type{Int8, Int8}}, &TupleType{Elems: []Type{Int8, Int8}}, true},
		{"kind mismatch", PointerTo(Int8), Int8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPrimitiveByName(t *testing.T) {
	for _, p := range []Primitive{Void, Bool, Int8, UInt64, Float80, Any} {
		got, ok := PrimitiveByName(p.String())
		if !ok || got != p {
			t.Errorf("PrimitiveByName(%q) = %v, %v", p.String(), got, ok)
		}
	}
	if _, ok := PrimitiveByName("int128"); ok {
		t.Errorf("int128 is not a host primitive")
	}
}

func TestTypeString(t *testing.T) {
	f := &FunctionType{Args: []Type{PointerTo(Int8)}, Result: Int32, Variadic: true}
	if got, want := f.String(), "(*int8, ...) -> int32"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestContextLookups(t *testing.T) {
	c := NewContext()
	first := &TypeAliasDecl{Name: Ident("va_list", nil), Type: Opaque()}
	second := &TypeAliasDecl{Name: Ident("va_list", nil), Type: PointerTo(Void)}
	c.Add(first)
	c.Add(second)
	if c.TypeNamed("va_list") != first {
		t.Errorf("first type declaration must win lookups")
	}
	if c.DeclFor(&NamedType{Name: "va_list"}) != first {
		t.Errorf("DeclFor must resolve named types")
	}
	if c.DeclFor(Int32) != nil {
		t.Errorf("DeclFor of a primitive must be nil")
	}

	g1 := &VarDecl{Name: Ident("errno", nil), Type: Int32}
	g2 := &VarDecl{Name: Ident("errno", nil), Type: Int32}
	c.Add(g1)
	c.Add(g2)
	if c.Global("errno") != g1 {
		t.Errorf("Global must return the first registration")
	}
	if got := len(c.Globals("errno")); got != 2 {
		t.Errorf("Globals = %d, want 2", got)
	}

	f := &FuncDecl{Name: Ident("free", nil), Params: []*ParamDecl{{Type: Opaque()}}, Result: Void}
	c.Add(f)
	if c.Function("free") != f {
		t.Errorf("Function lookup failed")
	}
	if got := len(c.Decls()); got != 5 {
		t.Errorf("Decls = %d, want 5", got)
	}

	c.Error(errors.New("boom"))
	if len(c.Errors()) != 1 {
		t.Errorf("Errors not recorded")
	}
}

func TestLiteralStrings(t *testing.T) {
	tests := []struct {
		expr Expr
		want string
	}{
		{&IntLiteral{Value: 5, Typ: Int64}, "5"},
		{&IntLiteral{Value: ^uint64(0), Typ: UInt64}, "18446744073709551615"},
		{&FloatLiteral{Value: 1.5, Typ: Double}, "1.5"},
		{&CharLiteral{Value: '\n'}, `'\n'`},
		{&StringLiteral{Value: "a\"b"}, `"a\"b"`},
	}
	for _, tt := range tests {
		if got := tt.expr.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestModifiers(t *testing.T) {
	m := Foreign | Implicit | NoReturn
	if !m.Has(Foreign | Implicit) {
		t.Errorf("Has(foreign|implicit) = false")
	}
	if m.Has(Mutable) {
		t.Errorf("Has(mutable) = true")
	}
	if got, want := m.String(), "foreign implicit noreturn"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
