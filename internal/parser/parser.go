// Package parser builds the per-header front-end invocation.
package parser

import (
	"errors"
	"fmt"
	"path/filepath"

	"cimport/internal/config"
	"cimport/internal/model"
)

// ErrNoUnit is wrapped by a ParseError when the front end returns neither a
// unit nor an error.
var ErrNoUnit = errors.New("front end returned no translation unit")

// ParseError reports a header the front end could not translate.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser parses C headers through a front end.
type Parser struct {
	cfg      *config.Config
	frontend model.Frontend
	args     []string
}

// New creates a new Parser.
func New(cfg *config.Config, frontend model.Frontend) *Parser {
	return &Parser{
		cfg:      cfg,
		frontend: frontend,
	}
}

// Args returns the front-end arguments used for every header.
func (p *Parser) Args() []string {
	if p.args != nil {
		return p.args
	}

	dialect := p.cfg.Options.Dialect
	if dialect == "" {
		dialect = config.DefaultOptions().Dialect
	}

	args := []string{
		"-x", "c",
		"-std=" + dialect,
		"-fsyntax-only",
		"-target", p.cfg.Target,
		"-I", filepath.Dir(p.cfg.RuntimeHeader),
	}
	if p.cfg.SDKRoot != "" {
		args = append(args, "-isysroot", p.cfg.SDKRoot)
	}
	args = append(args, p.cfg.ExtraArgs...)

	p.args = args
	return args
}

// ParseFile parses a single header and returns its translation unit. The
// caller must Dispose the unit.
func (p *Parser) ParseFile(path string) (model.TranslationUnit, error) {
	tu, err := p.frontend.Parse(path, p.Args())
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if tu == nil {
		return nil, &ParseError{Path: path, Err: ErrNoUnit}
	}
	return tu, nil
}
