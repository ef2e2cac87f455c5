package frontend

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"modernc.org/cc/v4"
	"modernc.org/token"

	"cimport/internal/model"
)

// unit is a translated header materialized as a model graph.
type unit struct {
	root   *model.Node
	tokens map[model.Range][]model.Token
}

func (u *unit) Root() model.Cursor { return u.root }

// Tokenize returns the tokens of a macro definition extent.
func (u *unit) Tokenize(r model.Range) []model.Token { return u.tokens[r] }

func (u *unit) Dispose() {
	u.root = model.NewNode(model.CursorOther, "")
	u.tokens = nil
}

// builder converts a cc AST into model cursors. Records, enums and typedefs
// are memoized so that every reference to one shares its declaration cursor.
type builder struct {
	records  map[any]*model.Node
	enums    map[any]*model.Node
	typedefs map[*cc.Declarator]*model.Node
}

func build(path string, ast *cc.AST) *unit {
	b := &builder{
		records:  make(map[any]*model.Node),
		enums:    make(map[any]*model.Node),
		typedefs: make(map[*cc.Declarator]*model.Node),
	}
	u := &unit{
		root:   model.NewNode(model.CursorOther, path),
		tokens: make(map[model.Range][]model.Token),
	}

	for tu := ast.TranslationUnit; tu != nil; tu = tu.TranslationUnit {
		ed := tu.ExternalDeclaration
		if ed == nil || synthetic(ed.Position()) {
			continue
		}
		switch ed.Case {
		case cc.ExternalDeclarationDecl:
			u.root.WithChildren(b.declaration(ed.Declaration)...)
		case cc.ExternalDeclarationFuncDef:
			fd := ed.FunctionDefinition
			if n := b.declarator(fd.Declarator, fd.DeclarationSpecifiers); n != nil {
				u.root.WithChildren(n)
			}
		}
	}

	for _, m := range sortedMacros(ast.Macros) {
		n, tokens := macro(m)
		u.root.WithChildren(n)
		u.tokens[n.Extent()] = tokens
	}
	return u
}

// synthetic reports positions inside the predefined and builtin sources.
func synthetic(pos token.Position) bool {
	return pos.Filename == "" || strings.HasPrefix(pos.Filename, "<")
}

func (b *builder) declaration(d *cc.Declaration) []model.Cursor {
	if d == nil || d.Case != cc.DeclarationDecl {
		return nil
	}

	var out []model.Cursor
	for s := d.DeclarationSpecifiers; s != nil; s = s.DeclarationSpecifiers {
		if s.Case != cc.DeclarationSpecifiersTypeSpec || s.TypeSpecifier == nil {
			continue
		}
		if n := b.tag(s.TypeSpecifier, d.InitDeclaratorList == nil); n != nil {
			out = append(out, n)
		}
	}

	for l := d.InitDeclaratorList; l != nil; l = l.InitDeclaratorList {
		if l.InitDeclarator == nil {
			continue
		}
		if n := b.declarator(l.InitDeclarator.Declarator, d.DeclarationSpecifiers); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// tag returns the cursor for a struct, union or enum specifier that defines
// its type, or only declares it when standalone is set.
func (b *builder) tag(ts *cc.TypeSpecifier, standalone bool) model.Cursor {
	switch ts.Case {
	case cc.TypeSpecifierStructOrUnion:
		s := ts.StructOrUnionSpecifier
		if s == nil || (s.Case != cc.StructOrUnionSpecifierDef && !standalone) {
			return nil
		}
		switch t := s.Type().(type) {
		case *cc.StructType:
			return b.record(model.CursorStruct, t)
		case *cc.UnionType:
			return b.record(model.CursorUnion, t)
		}
	case cc.TypeSpecifierEnum:
		s := ts.EnumSpecifier
		if s == nil || s.Case != cc.EnumSpecifierDef {
			return nil
		}
		if t, ok := s.Type().(*cc.EnumType); ok {
			return b.enum(t)
		}
	}
	return nil
}

func (b *builder) declarator(d *cc.Declarator, specs *cc.DeclarationSpecifiers) *model.Node {
	if d == nil || d.Name() == "" || d.Type() == nil {
		return nil
	}
	switch {
	case d.IsTypename():
		return b.typedef(d)
	case d.Type().Kind() == cc.Function:
		return b.function(d, specs)
	}
	tok := d.NameTok()
	return model.NewNode(model.CursorVariable, d.Name()).
		WithType(b.typeOf(d.Type())).
		WithExtent(extent(tok.Position(), len(d.Name())))
}

func (b *builder) typedef(d *cc.Declarator) *model.Node {
	if n, ok := b.typedefs[d]; ok {
		return n
	}
	tok := d.NameTok()
	n := model.NewNode(model.CursorTypedef, d.Name()).
		WithExtent(extent(tok.Position(), len(d.Name())))
	b.typedefs[d] = n

	n.WithUnderlying(b.convert(d.Type(), d)).
		WithType(model.TypedefOf(d.Name(), n, d.Type().Size()))
	return n
}

func (b *builder) function(d *cc.Declarator, specs *cc.DeclarationSpecifiers) *model.Node {
	ft, ok := d.Type().(*cc.FunctionType)
	if !ok {
		return nil
	}
	tok := d.NameTok()
	n := model.NewNode(model.CursorFunction, d.Name()).
		WithExtent(extent(tok.Position(), len(d.Name())))

	params := b.params(ft)
	for i, p := range params {
		n.WithChildren(model.NewNode(model.CursorParam, "").
			WithType(p).
			WithExtent(extent(ft.Parameters()[i].Position(), 0)))
	}
	result := b.typeOf(ft.Result())
	return n.WithType(b.funcType(ft)).
		WithSignature(result, len(params), ft.IsVariadic(), noReturn(d, specs))
}

func noReturn(d *cc.Declarator, specs *cc.DeclarationSpecifiers) bool {
	for s := specs; s != nil; s = s.DeclarationSpecifiers {
		if s.Case == cc.DeclarationSpecifiersFunc && s.FunctionSpecifier != nil &&
			s.FunctionSpecifier.Case == cc.FunctionSpecifierNoreturn {
			return true
		}
	}
	a := d.Type().Attributes()
	return a != nil && (a.IsAttrSet("noreturn") || a.IsAttrSet("__noreturn__"))
}

// params returns the parameter types of a prototype. f(void) has none.
func (b *builder) params(ft *cc.FunctionType) []model.Type {
	if ft.MaxArgs() == 0 {
		return nil
	}
	var out []model.Type
	for _, p := range ft.Parameters() {
		out = append(out, b.typeOf(p.Type()))
	}
	return out
}

func (b *builder) funcType(ft *cc.FunctionType) model.Type {
	result := b.typeOf(ft.Result())
	if len(ft.Parameters()) == 0 && !ft.IsVariadic() {
		return model.FuncNoProto(result)
	}
	return model.FuncProto(result, ft.IsVariadic(), b.params(ft)...)
}

// recordType is implemented by *cc.StructType and *cc.UnionType.
type recordType interface {
	cc.Type
	Tag() cc.Token
	NumFields() int
	FieldByIndex(int) *cc.Field
}

func (b *builder) record(kind model.CursorKind, t recordType) *model.Node {
	keyword := "struct"
	if kind == model.CursorUnion {
		keyword = "union"
	}
	tagTok := t.Tag()
	tag := tagTok.SrcStr()

	var first *cc.Field
	if t.NumFields() > 0 {
		first = t.FieldByIndex(0)
	}
	var key any = keyword + " " + tag
	pos := tagTok.Position()
	if tag == "" {
		key = t
		if first != nil && first.Declarator() != nil {
			key = first.Declarator()
			pos = first.Declarator().Position()
		}
	}
	if n, ok := b.records[key]; ok {
		return n
	}

	spelling := keyword + " " + tag
	if tag == "" {
		spelling = fmt.Sprintf("%s (anonymous at %s:%d:%d)", keyword, pos.Filename, pos.Line, pos.Column)
	}
	n := model.NewNode(kind, tag).WithExtent(extent(pos, len(tag)))
	b.records[key] = n
	n.WithType(model.RecordOf(spelling, n, t.Size()))

	for i := 0; i < t.NumFields(); i++ {
		f := t.FieldByIndex(i)
		if f == nil {
			continue
		}
		field := model.NewNode(model.CursorField, f.Name()).WithType(b.typeOf(f.Type()))
		if d := f.Declarator(); d != nil {
			field.WithExtent(extent(d.Position(), len(f.Name())))
		}
		n.WithChildren(field)
	}
	return n
}

func (b *builder) enum(t *cc.EnumType) *model.Node {
	tagTok := t.Tag()
	tag := tagTok.SrcStr()
	enumerators := t.Enumerators()

	var key any = "enum " + tag
	if tag == "" {
		key = t
		if len(enumerators) > 0 {
			key = enumerators[0]
		}
	}
	if n, ok := b.enums[key]; ok {
		return n
	}

	pos := tagTok.Position()
	if tag == "" && len(enumerators) > 0 {
		pos = enumerators[0].Position()
	}
	n := model.NewNode(model.CursorEnum, tag).WithExtent(extent(pos, len(tag)))
	b.enums[key] = n

	spelling := "enum " + tag
	if tag == "" {
		spelling = fmt.Sprintf("enum (anonymous at %s:%d:%d)", pos.Filename, pos.Line, pos.Column)
	}
	n.WithType(model.EnumOf(spelling, n))

	for _, e := range enumerators {
		name := e.Token.SrcStr()
		n.WithChildren(model.NewNode(model.CursorEnumConstant, name).
			WithType(model.Scalar(model.KindInt32, "int", 4)).
			WithExtent(extent(e.Token.Position(), len(name))))
	}
	return n
}

func (b *builder) typeOf(t cc.Type) model.Type { return b.convert(t, nil) }

// convert maps a cc type. A typedef name is kept as a typedef reference,
// except for self, whose own declaration is being converted.
func (b *builder) convert(t cc.Type, self *cc.Declarator) model.Type {
	if t == nil {
		return model.InvalidType()
	}
	if d := t.Typedef(); d != nil && d != self {
		return model.TypedefOf(d.Name(), b.typedef(d), t.Size())
	}
	if t.VectorSize() > 0 {
		return model.OtherType(model.KindOther, t.String(), t.Size())
	}

	switch x := t.(type) {
	case *cc.PointerType:
		return model.PointerTo(b.typeOf(x.Elem()))
	case *cc.ArrayType:
		elem := b.typeOf(x.Elem())
		if x.IsIncomplete() || x.IsVLA() {
			return model.ArrayOf(elem, -1)
		}
		return model.ArrayOf(elem, x.Len())
	case *cc.FunctionType:
		return b.funcType(x)
	case *cc.StructType:
		return b.record(model.CursorStruct, x).Type()
	case *cc.UnionType:
		return b.record(model.CursorUnion, x).Type()
	case *cc.EnumType:
		return b.enum(x).Type()
	case *cc.PredefinedType:
		return scalar(x)
	}
	return model.InvalidType()
}

func scalar(t cc.Type) model.Type {
	size := t.Size()
	spelling := t.String()
	switch t.Kind() {
	case cc.Void:
		return model.Scalar(model.KindVoid, spelling, size)
	case cc.Bool:
		return model.Scalar(model.KindBool, spelling, size)
	case cc.Float, cc.Float32:
		return model.Scalar(model.KindFloat, spelling, size)
	case cc.Double, cc.Float64, cc.Float32x:
		return model.Scalar(model.KindDouble, spelling, size)
	case cc.LongDouble:
		if size == 8 {
			return model.Scalar(model.KindDouble, spelling, size)
		}
		return model.Scalar(model.KindLongDouble, spelling, size)
	case cc.Char, cc.SChar, cc.UChar, cc.Short, cc.UShort, cc.Int, cc.UInt,
		cc.Long, cc.ULong, cc.LongLong, cc.ULongLong:
		if kind, ok := intKind(size, cc.IsSignedInteger(t)); ok {
			return model.Scalar(kind, spelling, size)
		}
	}
	return model.OtherType(model.KindOther, spelling, size)
}

// intKinds maps an integer size to its unsigned and signed kinds.
var intKinds = map[int64][2]model.TypeKind{
	1: {model.KindUInt8, model.KindInt8},
	2: {model.KindUInt16, model.KindInt16},
	4: {model.KindUInt32, model.KindInt32},
	8: {model.KindUInt64, model.KindInt64},
}

func intKind(size int64, signed bool) (model.TypeKind, bool) {
	k, ok := intKinds[size]
	if !ok {
		return "", false
	}
	if signed {
		return k[1], true
	}
	return k[0], true
}

func sortedMacros(macros map[string]*cc.Macro) []*cc.Macro {
	var out []*cc.Macro
	for _, m := range macros {
		if m != nil && !synthetic(m.Position()) {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b *cc.Macro) int {
		pa, pb := a.Position(), b.Position()
		if c := cmp.Compare(pa.Filename, pb.Filename); c != 0 {
			return c
		}
		return cmp.Compare(pa.Offset, pb.Offset)
	})
	return out
}

// macro returns the cursor of a macro definition and its tokens, the name
// first.
func macro(m *cc.Macro) (*model.Node, []model.Token) {
	name := m.Name.SrcStr()
	n := model.NewNode(model.CursorMacro, name)
	if m.IsFnLike {
		n.FunctionLike()
	}

	tokens := []model.Token{{
		Kind:     model.TokenIdentifier,
		Spelling: name,
		Extent:   extent(m.Name.Position(), len(name)),
	}}
	for _, tok := range m.ReplacementList() {
		text := tok.SrcStr()
		tokens = append(tokens, model.Token{
			Kind:     tokenKind(tok.Ch, text),
			Spelling: text,
			Extent:   extent(tok.Position(), len(text)),
		})
	}
	n.WithExtent(model.Range{Start: tokens[0].Extent.Start, End: tokens[len(tokens)-1].Extent.End})
	return n, tokens
}

func tokenKind(ch rune, text string) model.TokenKind {
	switch ch {
	case rune(cc.IDENTIFIER):
		return model.ClassifyToken(text)
	case rune(cc.PPNUMBER), rune(cc.CHARCONST), rune(cc.LONGCHARCONST),
		rune(cc.STRINGLITERAL), rune(cc.LONGSTRINGLITERAL):
		return model.TokenLiteral
	}
	return model.TokenPunctuation
}

func location(pos token.Position) model.Location {
	return model.Location{File: pos.Filename, Line: pos.Line, Column: pos.Column, Offset: pos.Offset}
}

// extent returns the range of a token of width bytes starting at pos.
func extent(pos token.Position, width int) model.Range {
	start := location(pos)
	end := start
	end.Offset += width
	end.Column += width
	return model.Range{Start: start, End: end}
}
