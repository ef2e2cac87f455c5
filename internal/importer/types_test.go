package importer

import (
	"errors"
	"testing"

	"cimport/internal/ast"
	"cimport/internal/model"
)

func TestConvertScalars(t *testing.T) {
	im, _, _ := newImporter(testConfig())

	tests := []struct {
		in   model.Type
		want ast.Primitive
	}{
		{tVoid, ast.Void},
		{tBool, ast.Bool},
		{tChar, ast.Int8},
		{tUChar, ast.UInt8},
		{tShort, ast.Int16},
		{tUShort, ast.UInt16},
		{tInt, ast.Int32},
		{tUInt, ast.UInt32},
		{tLong, ast.Int64},
		{tULong, ast.UInt64},
		{tFloat, ast.Float},
		{tDouble, ast.Double},
		{tLongDouble, ast.Float80},
		{model.EnumOf("enum color", nil), ast.Int32},
	}

	for _, tt := range tests {
		t.Run(tt.in.Spelling(), func(t *testing.T) {
			first, err := im.convert(tt.in)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			second, err := im.convert(tt.in)
			if err != nil {
				t.Fatalf("second convert: %v", err)
			}
			assertType(t, "first", first, tt.want)
			assertType(t, "second", second, first)
		})
	}
}

func TestConvertComposites(t *testing.T) {
	im, _, _ := newImporter(testConfig())
	callback := model.FuncProto(tVoid, false, tInt, model.PointerTo(tChar))

	tests := []struct {
		name string
		in   model.Type
		want ast.Type
	}{
		{"pointer", model.PointerTo(tInt), ast.PointerTo(ast.Int32)},
		{"pointer to pointer", model.PointerTo(model.PointerTo(tChar)), ast.PointerTo(ast.PointerTo(ast.Int8))},
		{"function pointer", model.PointerTo(callback),
			&ast.FunctionType{Args: []ast.Type{ast.Int32, ast.PointerTo(ast.Int8)}, Result: ast.Void}},
		{"function", callback,
			&ast.FunctionType{Args: []ast.Type{ast.Int32, ast.PointerTo(ast.Int8)}, Result: ast.Void}},
		{"variadic", model.FuncProto(tInt, true, model.PointerTo(tChar)),
			&ast.FunctionType{Args: []ast.Type{ast.PointerTo(ast.Int8)}, Result: ast.Int32, Variadic: true}},
		{"no prototype", model.FuncNoProto(tInt), &ast.FunctionType{Result: ast.Int32}},
		{"pointer to no prototype", model.PointerTo(model.FuncNoProto(tVoid)), &ast.FunctionType{Result: ast.Void}},
		{"constant array", model.ArrayOf(tChar, 64), ast.PointerTo(ast.Int8)},
		{"incomplete array", model.ArrayOf(tDouble, -1), ast.PointerTo(ast.Double)},
		{"array of arrays", model.ArrayOf(model.ArrayOf(tInt, 3), 3), ast.PointerTo(ast.PointerTo(ast.Int32))},
		{"elaborated", model.Elaborated(tUInt), ast.UInt32},
		{"unexposed", model.OtherType(model.KindUnexposed, "__typeof__(x)", 8), ast.Opaque()},
		{"objc id", model.OtherType(model.KindObjCId, "id", 8), ast.Opaque()},
		{"objc sel", model.OtherType(model.KindObjCSel, "SEL", 8), ast.Opaque()},
		{"nullptr", model.OtherType(model.KindNullPtr, "nullptr_t", 8), ast.Opaque()},
		{"block pointer", model.BlockPointerTo(callback), ast.Opaque()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := im.convert(tt.in)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			assertType(t, tt.name, got, tt.want)
		})
	}
}

func TestConvertUnsupported(t *testing.T) {
	im, _, _ := newImporter(testConfig())

	tests := []struct {
		name string
		in   model.Type
	}{
		{"invalid", model.InvalidType()},
		{"vector", tVector},
		{"pointer to vector", model.PointerTo(tVector)},
		{"array of vector", model.ArrayOf(tVector, 2)},
		{"function taking vector", model.FuncProto(tVoid, false, tVector)},
		{"function returning vector", model.FuncProto(tVector, false)},
		{"anonymous record", model.RecordOf("struct (anonymous at x.h:3:9)", nil, 4)},
		{"undeclared record", model.RecordOf("struct ghost", nil, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := im.convert(tt.in)
			if !errors.Is(err, ErrUnsupported) {
				t.Fatalf("convert = %v, %v; want ErrUnsupported", got, err)
			}
		})
	}
}

func TestConvertBuiltinTypedef(t *testing.T) {
	im, ctx, _ := newImporter(testConfig())

	// size_t never resolves its declaration
	size := model.TypedefOf("size_t", nil, 8)
	got, err := im.convert(size)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	assertType(t, "size_t", got, ast.UInt64)

	got, err = im.convert(model.TypedefOf("const uint8_t", nil, 1))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	assertType(t, "const uint8_t", got, ast.UInt8)

	if len(ctx.Decls()) != 0 {
		t.Errorf("builtin replacements must not add declarations")
	}
}

func TestConvertTypedefOnDemand(t *testing.T) {
	im, ctx, _ := newImporter(testConfig())
	_, ref := typedef("pid_t", tInt)

	got, err := im.convert(ref)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	assertType(t, "pid_t", got, named("pid_t"))

	alias, ok := ctx.TypeNamed("pid_t").(*ast.TypeAliasDecl)
	if !ok {
		t.Fatalf("pid_t was not imported on demand")
	}
	assertType(t, "alias", alias.Type, ast.Int32)

	// A second reference reuses the declaration
	if _, err := im.convert(ref); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got := len(ctx.Decls()); got != 1 {
		t.Errorf("decls = %d, want 1", got)
	}
}

func TestConvertTypedefUnresolved(t *testing.T) {
	cfg := testConfig()
	cfg.Options.ExcludeDecls = []string{"secret_t"}
	im, _, _ := newImporter(cfg)
	_, ref := typedef("secret_t", tInt)

	if _, err := im.convert(ref); !errors.Is(err, ErrUnsupported) {
		t.Errorf("convert excluded typedef = %v, want ErrUnsupported", err)
	}
	if _, err := im.convert(model.TypedefOf("lost_t", nil, 4)); !errors.Is(err, ErrUnsupported) {
		t.Errorf("convert typedef without declaration = %v, want ErrUnsupported", err)
	}
}

func TestConvertRecordOnDemand(t *testing.T) {
	im, ctx, _ := newImporter(testConfig())
	tm := structDecl("tm", field("tm_sec", tInt), field("tm_min", tInt))

	got, err := im.convert(model.PointerTo(model.Elaborated(tm.Type())))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	assertType(t, "struct tm *", got, ast.PointerTo(named("tm")))

	decl, ok := ctx.TypeNamed("tm").(*ast.TypeDecl)
	if !ok || len(decl.Fields) != 2 {
		t.Fatalf("struct tm not imported on demand: %#v", ctx.TypeNamed("tm"))
	}
}

func TestRecordName(t *testing.T) {
	tests := map[string]string{
		"struct Foo":       "Foo",
		"union value":      "value",
		"const struct tm":  "tm",
		"Foo":              "Foo",
		"":                 "",
		"struct  spaced  ": "spaced",
	}
	for in, want := range tests {
		if got := recordName(in); got != want {
			t.Errorf("recordName(%q) = %q, want %q", in, got, want)
		}
	}
}
