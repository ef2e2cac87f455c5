package importer

import (
	"fmt"
	"strings"

	"cimport/internal/ast"
	"cimport/internal/config"
	"cimport/internal/model"
)

func unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUnsupported}, args...)...)
}

// convert maps a foreign type to a host type. Named references it returns
// always resolve in the context, or are being imported.
func (im *Importer) convert(t model.Type) (ast.Type, error) {
	switch t.Kind() {
	case model.KindVoid:
		return ast.Void, nil
	case model.KindBool:
		return ast.Bool, nil
	case model.KindInt8:
		return ast.Int8, nil
	case model.KindInt16:
		return ast.Int16, nil
	case model.KindInt32:
		return ast.Int32, nil
	case model.KindInt64:
		return ast.Int64, nil
	case model.KindUInt8:
		return ast.UInt8, nil
	case model.KindUInt16:
		return ast.UInt16, nil
	case model.KindUInt32:
		return ast.UInt32, nil
	case model.KindUInt64:
		return ast.UInt64, nil
	case model.KindFloat:
		return ast.Float, nil
	case model.KindDouble:
		return ast.Double, nil
	case model.KindLongDouble:
		return ast.Float80, nil
	case model.KindEnum:
		return ast.Int32, nil

	case model.KindPointer:
		pointee := t.Pointee()
		switch pointee.Kind() {
		case model.KindFunctionProto, model.KindFunctionNoProto:
			return im.convertFunction(pointee)
		}
		elem, err := im.convert(pointee)
		if err != nil {
			return nil, err
		}
		return ast.PointerTo(elem), nil

	case model.KindConstantArray, model.KindIncompleteArray:
		elem, err := im.convert(t.Element())
		if err != nil {
			return nil, err
		}
		return ast.PointerTo(elem), nil

	case model.KindFunctionProto, model.KindFunctionNoProto:
		return im.convertFunction(t)

	case model.KindTypedef:
		return im.convertTypedef(t)

	case model.KindRecord:
		return im.convertRecord(t)

	case model.KindElaborated:
		return im.convert(t.Named())

	case model.KindUnexposed, model.KindObjCId, model.KindObjCSel,
		model.KindNullPtr, model.KindBlockPointer:
		return ast.Opaque(), nil

	case model.KindInvalid, model.KindOther:
		return nil, unsupported("type %q", t.Spelling())
	}
	return nil, unsupported("type kind %s", t.Kind())
}

func (im *Importer) convertFunction(t model.Type) (ast.Type, error) {
	result, err := im.convert(t.Result())
	if err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}
	if t.Kind() == model.KindFunctionNoProto {
		return &ast.FunctionType{Result: result}, nil
	}

	args := make([]ast.Type, t.NumArgs())
	for i := range args {
		if args[i], err = im.convert(t.Arg(i)); err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
	}
	return &ast.FunctionType{Args: args, Result: result, Variadic: t.IsVariadic()}, nil
}

func (im *Importer) convertTypedef(t model.Type) (ast.Type, error) {
	name := config.StripQualifiers(t.Spelling())
	if prim, ok := im.cfg.BuiltinType(name); ok {
		return prim, nil
	}
	if name == "" {
		return nil, unsupported("unnamed typedef")
	}

	if !im.resolvable(name) {
		if decl := t.Declaration(); decl.Kind() == model.CursorTypedef {
			im.importTypedef(decl)
		}
		if !im.resolvable(name) {
			return nil, unsupported("unresolved typedef %s", name)
		}
	}
	return &ast.NamedType{Name: name}, nil
}

func (im *Importer) convertRecord(t model.Type) (ast.Type, error) {
	spelling := t.Spelling()
	if isAnonymous(spelling) {
		return nil, unsupported("anonymous record %q", spelling)
	}
	name := recordName(spelling)

	if !im.resolvable(name) {
		var err error
		switch decl := t.Declaration(); decl.Kind() {
		case model.CursorStruct:
			_, err = im.importStruct(decl, name)
		case model.CursorUnion:
			_, err = im.importUnion(decl, name)
		default:
			err = unsupported("record %s has no declaration", name)
		}
		if err != nil {
			return nil, err
		}
	}
	return &ast.NamedType{Name: name}, nil
}

// resolvable reports whether a named reference to name would resolve.
func (im *Importer) resolvable(name string) bool {
	if _, ok := im.types[name]; ok {
		return true
	}
	return im.pending[name] || im.ctx.TypeNamed(name) != nil
}

// recordName returns the bare tag of a record spelling such as "struct Foo".
func recordName(spelling string) string {
	fields := strings.Fields(spelling)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func isAnonymous(spelling string) bool {
	return spelling == "" ||
		strings.Contains(spelling, "(anonymous") ||
		strings.Contains(spelling, "(unnamed")
}
