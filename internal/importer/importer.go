// Package importer turns foreign C declarations into host declarations.
//
// An Importer runs one pass: it registers a few builtin aliases and runtime
// functions, imports the runtime support header, then every configured
// standard header. Each header is parsed, its top-level cursors are
// dispatched to one synthesizer per declaration kind, and the unit is
// disposed before the next header is parsed. Anything that cannot be
// represented is skipped; only parse failures are reported to the context.
package importer

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"cimport/internal/ast"
	"cimport/internal/config"
	"cimport/internal/logger"
	"cimport/internal/model"
	"cimport/internal/parser"
	"cimport/internal/source"
)

var (
	// ErrUnsupported marks a foreign construct with no host representation.
	ErrUnsupported = errors.New("unsupported")
	// ErrAlreadyRun is returned by a second call to Run.
	ErrAlreadyRun = errors.New("importer already ran")
)

// Stats counts what an import pass produced.
type Stats struct {
	Headers   int
	Failed    int
	Types     int
	Functions int
	Globals   int
	Skipped   int
}

// Importer holds the state of one import pass.
type Importer struct {
	cfg    *config.Config
	parser *parser.Parser
	ctx    *ast.Context
	files  *source.Registry

	types   map[string]ast.Decl
	pending map[string]bool
	funcs   map[string]*ast.FuncDecl

	unit  model.TranslationUnit
	log   *slog.Logger
	stats Stats
	ran   bool
}

// New creates an importer that adds declarations to ctx.
func New(cfg *config.Config, p *parser.Parser, ctx *ast.Context) *Importer {
	return &Importer{
		cfg:     cfg,
		parser:  p,
		ctx:     ctx,
		files:   source.NewRegistry(),
		types:   make(map[string]ast.Decl),
		pending: make(map[string]bool),
		funcs:   make(map[string]*ast.FuncDecl),
		log:     logger.With("session", uuid.New().String()),
	}
}

// Run performs the import pass. It may be called once.
func (im *Importer) Run() error {
	if im.ran {
		return ErrAlreadyRun
	}
	im.ran = true

	im.addOpaqueAliases()
	im.addBuiltinFunctions()

	im.ImportHeader(im.cfg.RuntimeHeader)
	for _, path := range im.cfg.HeaderPaths() {
		im.ImportHeader(path)
	}

	im.log.Info("import finished",
		"headers", im.stats.Headers,
		"failed", im.stats.Failed,
		"types", im.stats.Types,
		"functions", im.stats.Functions,
		"globals", im.stats.Globals,
		"skipped", im.stats.Skipped)
	return nil
}

// ImportHeader parses one header and imports its top-level declarations. A
// parse failure is reported to the context and the header is skipped.
func (im *Importer) ImportHeader(path string) {
	tu, err := im.parser.ParseFile(path)
	if err != nil {
		im.log.Warn("skipping header", "path", path, "error", err)
		im.ctx.Error(err)
		im.stats.Failed++
		return
	}
	defer tu.Dispose()

	im.unit = tu
	defer func() { im.unit = nil }()

	before := im.stats
	tu.Root().Visit(func(c model.Cursor) bool {
		im.dispatch(c)
		return true
	})
	im.stats.Headers++

	im.log.Info("imported header",
		"path", path,
		"types", im.stats.Types-before.Types,
		"functions", im.stats.Functions-before.Functions,
		"globals", im.stats.Globals-before.Globals)
}

// dispatch imports one top-level declaration. The include list is checked
// here only, so dependencies of an included declaration are still imported.
func (im *Importer) dispatch(c model.Cursor) {
	if !im.included(c) {
		im.skip(c, "not included")
		return
	}
	switch c.Kind() {
	case model.CursorTypedef:
		im.importTypedef(c)
	case model.CursorStruct:
		if _, err := im.importStruct(c, ""); err != nil {
			im.skip(c, err)
		}
	case model.CursorUnion:
		if _, err := im.importUnion(c, ""); err != nil {
			im.skip(c, err)
		}
	case model.CursorEnum:
		im.importEnum(c)
	case model.CursorFunction:
		im.importFunction(c)
	case model.CursorMacro:
		im.importMacro(c)
	case model.CursorVariable:
		im.importGlobal(c)
	case model.CursorEnumConstant, model.CursorParam, model.CursorField,
		model.CursorOther, model.CursorInvalid:
		// Not top-level declarations
	}
}

// included applies the configured include list. Enumerators are filtered one
// by one in importEnum.
func (im *Importer) included(c model.Cursor) bool {
	switch c.Kind() {
	case model.CursorEnum, model.CursorEnumConstant, model.CursorParam,
		model.CursorField, model.CursorOther, model.CursorInvalid:
		return true
	case model.CursorStruct, model.CursorUnion:
		return im.cfg.Included(recordName(c.Spelling()))
	}
	return im.cfg.Included(c.Spelling())
}

// Stats returns the counters of the pass so far.
func (im *Importer) Stats() Stats { return im.stats }

// Files returns the source files seen so far.
func (im *Importer) Files() []*source.File { return im.files.Files() }

func (im *Importer) add(d ast.Decl) {
	im.ctx.Add(d)
	switch d.(type) {
	case *ast.TypeDecl, *ast.TypeAliasDecl:
		im.stats.Types++
	case *ast.FuncDecl:
		im.stats.Functions++
	case *ast.VarDecl:
		im.stats.Globals++
	}
}

func (im *Importer) skip(c model.Cursor, reason any) {
	im.stats.Skipped++
	im.log.Debug("skipped declaration", "decl", c.Spelling(), "kind", c.Kind(), "reason", reason)
}

func (im *Importer) rangeOf(c model.Cursor) *source.Range {
	return im.files.Range(c.Extent())
}

func (im *Importer) addOpaqueAliases() {
	for _, name := range []string{"__builtin_va_list", "va_list"} {
		im.add(&ast.TypeAliasDecl{
			Name:      ast.Ident(name, nil),
			Type:      ast.Opaque(),
			Modifiers: ast.Foreign | ast.Implicit,
		})
	}
}

// Runtime functions whose platform declarations disagree on argument widths.
var builtinFunctions = []struct {
	name     string
	params   []ast.Type
	result   ast.Type
	noReturn bool
}{
	{"malloc", []ast.Type{ast.Int64}, ast.Opaque(), false},
	{"calloc", []ast.Type{ast.Int64, ast.Int64}, ast.Opaque(), false},
	{"realloc", []ast.Type{ast.Opaque(), ast.Int64}, ast.Opaque(), false},
	{"free", []ast.Type{ast.Opaque()}, ast.Void, false},
	{"exit", []ast.Type{ast.Int32}, ast.Void, true},
}

func (im *Importer) addBuiltinFunctions() {
	for _, fn := range builtinFunctions {
		params := make([]*ast.ParamDecl, len(fn.params))
		for i, t := range fn.params {
			params[i] = &ast.ParamDecl{Name: ast.Ident("", nil), Type: t}
		}
		mods := ast.Foreign | ast.Implicit
		if fn.noReturn {
			mods |= ast.NoReturn
		}
		decl := &ast.FuncDecl{
			Name:      ast.Ident(fn.name, nil),
			Params:    params,
			Result:    fn.result,
			Modifiers: mods,
		}
		im.funcs[fn.name] = decl
		im.add(decl)
	}
}
