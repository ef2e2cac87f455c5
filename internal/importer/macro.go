package importer

import (
	"cimport/internal/ast"
	"cimport/internal/lexer"
	"cimport/internal/model"
)

// importMacro imports an object-like macro whose first replacement token is a
// literal, or the name of a global imported earlier.
func (im *Importer) importMacro(c model.Cursor) {
	name := c.Spelling()
	if c.IsMacroFunctionLike() || name == "" {
		return
	}
	if im.cfg.Excluded(name) {
		im.skip(c, "excluded")
		return
	}
	if im.unit == nil {
		return
	}

	tokens := im.unit.Tokenize(c.Extent())
	if len(tokens) < 2 {
		return
	}
	if im.ctx.Global(name) != nil {
		return
	}

	value := tokens[1]
	switch value.Kind {
	case model.TokenLiteral:
		expr, err := lexer.Literal(value.Spelling)
		if err != nil {
			im.skip(c, err)
			return
		}
		im.add(&ast.VarDecl{
			Name:      ast.Ident(name, im.rangeOf(c)),
			Type:      expr.Type(),
			Value:     expr,
			Modifiers: ast.Foreign | ast.Implicit,
		})

	case model.TokenIdentifier:
		target := im.ctx.Global(value.Spelling)
		if target == nil {
			im.skip(c, "alias of unknown global "+value.Spelling)
			return
		}
		im.add(&ast.VarDecl{
			Name: ast.Ident(name, im.rangeOf(c)),
			Type: target.Type,
			Value: &ast.VarRef{
				Name: ast.Ident(value.Spelling, im.files.Range(value.Extent)),
				Decl: target,
			},
			Modifiers: ast.Foreign | ast.Implicit,
		})

	case model.TokenPunctuation, model.TokenKeyword, model.TokenComment:
		im.skip(c, "value is a "+string(value.Kind))
	}
}
