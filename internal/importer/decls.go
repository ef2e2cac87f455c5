package importer

import (
	"fmt"

	"cimport/internal/ast"
	"cimport/internal/model"
)

func (im *Importer) importTypedef(c model.Cursor) {
	name := c.Spelling()
	switch {
	case name == "":
		im.skip(c, "unnamed")
		return
	case im.cfg.Excluded(name):
		im.skip(c, "excluded")
		return
	}
	if _, ok := im.cfg.BuiltinType(name); ok {
		return
	}
	if im.ctx.TypeNamed(name) != nil {
		return
	}

	typ, err := im.typedefTarget(name, c.UnderlyingType())
	if err != nil {
		im.skip(c, err)
		return
	}

	// typedef struct Foo { ... } Foo;
	if named, ok := typ.(*ast.NamedType); ok && named.Name == name && im.ctx.DeclFor(named) != nil {
		return
	}
	// Resolving the target may have imported this typedef on demand
	if im.ctx.TypeNamed(name) != nil {
		return
	}

	im.add(&ast.TypeAliasDecl{
		Name:      ast.Ident(name, im.rangeOf(c)),
		Type:      typ,
		Modifiers: ast.Foreign | ast.Implicit,
	})
}

// typedefTarget resolves the aliased type of typedef name. Records are
// imported first; an anonymous record takes the typedef's name.
func (im *Importer) typedefTarget(name string, under model.Type) (ast.Type, error) {
	rec := under
	for rec.Kind() == model.KindElaborated {
		rec = rec.Named()
	}
	if rec.Kind() != model.KindRecord {
		return im.convert(under)
	}

	recName := name
	if !isAnonymous(rec.Spelling()) {
		recName = recordName(rec.Spelling())
	}
	if im.resolvable(recName) {
		return &ast.NamedType{Name: recName}, nil
	}

	var err error
	switch decl := rec.Declaration(); decl.Kind() {
	case model.CursorStruct:
		_, err = im.importStruct(decl, recName)
	case model.CursorUnion:
		_, err = im.importUnion(decl, recName)
	default:
		err = unsupported("record %s has no declaration", recName)
	}
	if err != nil {
		return nil, err
	}
	return &ast.NamedType{Name: recName}, nil
}

// definition returns the defining cursor of a record, which may differ from
// a forward declaration met first.
func definition(c model.Cursor) model.Cursor {
	if def := c.Type().Declaration(); def.Kind() == c.Kind() {
		return def
	}
	return c
}

// recordIdent names a record cursor, preferring name when given.
func (im *Importer) recordIdent(c model.Cursor, name string) (string, error) {
	if name == "" {
		name = c.Spelling()
		if isAnonymous(name) {
			return "", unsupported("anonymous %s", c.Kind())
		}
		name = recordName(name)
	}
	if im.cfg.Excluded(name) {
		return "", unsupported("%s excluded", name)
	}
	return name, nil
}

func (im *Importer) importStruct(c model.Cursor, name string) (*ast.TypeDecl, error) {
	name, err := im.recordIdent(c, name)
	if err != nil {
		return nil, err
	}
	if cached, ok := im.types[name]; ok {
		if decl, ok := cached.(*ast.TypeDecl); ok {
			return decl, nil
		}
		return nil, unsupported("%s already imported as a union", name)
	}
	if im.pending[name] || im.ctx.TypeNamed(name) != nil {
		return nil, unsupported("type name %s already in use", name)
	}
	c = definition(c)

	// Reserve the name so self-references resolve while fields are walked
	im.pending[name] = true
	defer delete(im.pending, name)

	var fields []*ast.FieldDecl
	index := 0
	c.Visit(func(f model.Cursor) bool {
		if f.Kind() != model.CursorField {
			return true
		}
		fieldName := f.Spelling()
		if fieldName == "" {
			fieldName = fmt.Sprintf("__unnamed_%d", index)
		}
		index++

		var typ ast.Type
		if typ, err = im.convert(f.Type()); err != nil {
			err = fmt.Errorf("field %s.%s: %w", name, fieldName, err)
			return false
		}
		fields = append(fields, &ast.FieldDecl{
			Name:      ast.Ident(fieldName, im.rangeOf(f)),
			Type:      typ,
			Modifiers: ast.Foreign | ast.Implicit | ast.Mutable,
		})
		return true
	})
	if err != nil {
		return nil, err
	}

	decl := &ast.TypeDecl{
		Name:      ast.Ident(name, im.rangeOf(c)),
		Fields:    fields,
		Modifiers: ast.Foreign | ast.Implicit,
	}
	im.types[name] = decl
	im.add(decl)
	return decl, nil
}

// importUnion approximates a union as an alias of its largest member.
func (im *Importer) importUnion(c model.Cursor, name string) (*ast.TypeAliasDecl, error) {
	name, err := im.recordIdent(c, name)
	if err != nil {
		return nil, err
	}
	if cached, ok := im.types[name]; ok {
		if decl, ok := cached.(*ast.TypeAliasDecl); ok {
			return decl, nil
		}
		return nil, unsupported("%s already imported as a struct", name)
	}
	if im.pending[name] || im.ctx.TypeNamed(name) != nil {
		return nil, unsupported("type name %s already in use", name)
	}
	c = definition(c)

	im.pending[name] = true
	defer delete(im.pending, name)

	var largest ast.Type
	var largestSize int64
	c.Visit(func(f model.Cursor) bool {
		if f.Kind() != model.CursorField {
			return true
		}
		var typ ast.Type
		if typ, err = im.convert(f.Type()); err != nil {
			err = fmt.Errorf("member %s.%s: %w", name, f.Spelling(), err)
			return false
		}
		if size := f.Type().Size(); largest == nil || size > largestSize {
			largest, largestSize = typ, size
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if largest == nil {
		return nil, unsupported("union %s has no members", name)
	}

	decl := &ast.TypeAliasDecl{
		Name:      ast.Ident(name, im.rangeOf(c)),
		Type:      largest,
		Modifiers: ast.Foreign | ast.Implicit,
	}
	im.types[name] = decl
	im.add(decl)
	return decl, nil
}

// importEnum registers each enumerator as an int32 global. Values are not
// carried.
func (im *Importer) importEnum(c model.Cursor) {
	c.Visit(func(e model.Cursor) bool {
		if e.Kind() != model.CursorEnumConstant {
			return true
		}
		name := e.Spelling()
		if name == "" || !im.cfg.ShouldImport(name) || im.ctx.Global(name) != nil {
			return true
		}
		im.add(&ast.VarDecl{
			Name:      ast.Ident(name, im.rangeOf(e)),
			Type:      ast.Int32,
			Modifiers: ast.Foreign | ast.Implicit,
		})
		return true
	})
}

func (im *Importer) importFunction(c model.Cursor) {
	name := c.Spelling()
	switch {
	case name == "":
		im.skip(c, "unnamed")
		return
	case im.cfg.Excluded(name):
		im.skip(c, "excluded")
		return
	}
	if _, ok := im.funcs[name]; ok {
		return
	}
	n := c.NumArguments()
	if n < 0 {
		im.skip(c, "unknown argument count")
		return
	}

	result, err := im.convert(c.ResultType())
	if err != nil {
		im.skip(c, fmt.Errorf("result: %w", err))
		return
	}

	argTypes := im.paramTypes(c, n)
	params := make([]*ast.ParamDecl, n)
	for i, t := range argTypes {
		typ, err := im.convert(t)
		if err != nil {
			im.skip(c, fmt.Errorf("parameter %d: %w", i, err))
			return
		}
		params[i] = &ast.ParamDecl{Name: ast.Ident("", nil), Type: typ}
	}

	mods := ast.Foreign | ast.Implicit
	if c.IsNoReturn() {
		mods |= ast.NoReturn
	}
	decl := &ast.FuncDecl{
		Name:      ast.Ident(name, im.rangeOf(c)),
		Params:    params,
		Result:    result,
		Variadic:  c.IsVariadic(),
		Modifiers: mods,
	}
	im.funcs[name] = decl
	im.add(decl)
}

// paramTypes returns the n parameter types of a function cursor, from its
// parameter children when they are complete and from its type otherwise.
func (im *Importer) paramTypes(c model.Cursor, n int) []model.Type {
	var fromCursors []model.Type
	c.Visit(func(p model.Cursor) bool {
		if p.Kind() == model.CursorParam {
			fromCursors = append(fromCursors, p.Type())
		}
		return true
	})
	if len(fromCursors) == n {
		return fromCursors
	}

	ft := c.Type()
	types := make([]model.Type, n)
	for i := range types {
		types[i] = ft.Arg(i)
	}
	return types
}

func (im *Importer) importGlobal(c model.Cursor) {
	name := c.Spelling()
	switch {
	case name == "":
		im.skip(c, "unnamed")
		return
	case im.cfg.Excluded(name):
		im.skip(c, "excluded")
		return
	}

	typ, err := im.convert(c.Type())
	if err != nil {
		im.skip(c, err)
		return
	}

	r := im.rangeOf(c)
	for _, g := range im.ctx.Globals(name) {
		if g.Name.Range != nil && g.Name.Range.Equal(*r) {
			return
		}
	}

	im.add(&ast.VarDecl{
		Name:      ast.Ident(name, r),
		Type:      typ,
		Modifiers: ast.Foreign | ast.Implicit,
	})
}
