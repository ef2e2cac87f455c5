// Package generator renders imported declarations through text/template.
package generator

import (
	_ "embed"
	"fmt"
	"io"
	"path/filepath"
	"text/template"

	"cimport/internal/ast"
	"cimport/internal/config"
	"cimport/internal/source"
)

//go:embed default.tmpl
var defaultTemplate string

// Generator executes templates against an import context.
type Generator struct {
	config   *config.Config
	template *template.Template
}

// New creates a new Generator.
func New(cfg *config.Config) *Generator {
	return &Generator{
		config: cfg,
	}
}

// LoadTemplate loads a template from file.
func (g *Generator) LoadTemplate(path string) error {
	tmpl, err := template.New(filepath.Base(path)).
		Funcs(templateFuncs(g.config)).
		ParseFiles(path)
	if err != nil {
		return fmt.Errorf("loading template: %w", err)
	}
	g.template = tmpl
	return nil
}

// LoadDefault loads the built-in interface template.
func (g *Generator) LoadDefault() error {
	tmpl, err := template.New("default").
		Funcs(templateFuncs(g.config)).
		Parse(defaultTemplate)
	if err != nil {
		return fmt.Errorf("loading default template: %w", err)
	}
	g.template = tmpl
	return nil
}

// TemplateData represents data passed to templates.
type TemplateData struct {
	Types     []ast.Decl      // *ast.TypeDecl and *ast.TypeAliasDecl, in import order
	Functions []*ast.FuncDecl // Imported functions
	Globals   []*ast.VarDecl  // Imported globals, enumerators and macro constants
	Files     []*source.File  // Files declarations were imported from
	Errors    []error         // Problems reported during the import
	Config    *config.Config  // Configuration
}

// Generate renders every declaration in ctx.
func (g *Generator) Generate(ctx *ast.Context, files []*source.File, w io.Writer) error {
	if g.template == nil {
		if err := g.LoadDefault(); err != nil {
			return err
		}
	}

	data := g.collect(ctx)
	data.Files = files
	if err := g.template.Execute(w, data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	return nil
}

// collect sorts the context's declarations by kind, dropping the ones the
// configuration excludes. The include list is not applied here: dependencies
// of included declarations must still render.
func (g *Generator) collect(ctx *ast.Context) *TemplateData {
	data := &TemplateData{
		Errors: ctx.Errors(),
		Config: g.config,
	}

	for _, d := range ctx.Decls() {
		if g.config.Excluded(d.Ident().Name) {
			continue
		}
		switch d := d.(type) {
		case *ast.TypeDecl, *ast.TypeAliasDecl:
			data.Types = append(data.Types, d)
		case *ast.FuncDecl:
			data.Functions = append(data.Functions, d)
		case *ast.VarDecl:
			data.Globals = append(data.Globals, d)
		}
	}

	return data
}
