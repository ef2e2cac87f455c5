package generator

import (
	"slices"
	"strings"
	"text/template"
	"unicode"

	"cimport/internal/ast"
	"cimport/internal/config"
)

// templateFuncs returns custom template functions.
func templateFuncs(cfg *config.Config) template.FuncMap {
	return template.FuncMap{
		// Declarations
		"hostType": hostType,
		"expr":     expr,
		"mods":     mods,
		"params":   params,
		"location": location,
		"isStruct": isStruct,
		"isAlias":  isAlias,
		"builtin": func(name string) bool {
			_, ok := cfg.BuiltinType(name)
			return ok
		},

		// String manipulation
		"camelCase":  camelCase,
		"pascalCase": pascalCase,
		"snakeCase":  snakeCase,
		"kebabCase":  kebabCase,
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"trim":       strings.TrimSpace,
		"replace":    strings.ReplaceAll,
		"hasPrefix":  strings.HasPrefix,
		"hasSuffix":  strings.HasSuffix,

		// List helpers
		"join":     strings.Join,
		"contains": containsStr,

		// Conditional helpers
		"default": defaultValue,
		"ternary": ternary,

		// Comment formatting
		"comment": formatComment,

		// Misc
		"notLast": func(i, length int) bool { return i < length-1 },
	}
}

var hostNames = map[ast.Primitive]string{
	ast.Void:    "Void",
	ast.Bool:    "Bool",
	ast.Int8:    "Int8",
	ast.Int16:   "Int16",
	ast.Int32:   "Int32",
	ast.Int64:   "Int64",
	ast.UInt8:   "UInt8",
	ast.UInt16:  "UInt16",
	ast.UInt32:  "UInt32",
	ast.UInt64:  "UInt64",
	ast.Float:   "Float",
	ast.Double:  "Double",
	ast.Float80: "Float80",
	ast.Any:     "Any",
}

// hostType spells a host type the way interface files write it.
func hostType(t ast.Type) string {
	switch t := t.(type) {
	case nil:
		return "Void"
	case ast.Primitive:
		if name, ok := hostNames[t]; ok {
			return name
		}
		return t.String()
	case *ast.PointerType:
		return "*" + hostType(t.Elem)
	case *ast.FunctionType:
		parts := make([]string, 0, len(t.Args)+1)
		for _, a := range t.Args {
			parts = append(parts, hostType(a))
		}
		if t.Variadic {
			parts = append(parts, "...")
		}
		return "(" + strings.Join(parts, ", ") + ") -> " + hostType(t.Result)
	case *ast.TupleType:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = hostType(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return t.String()
}

// expr spells a constant initializer.
func expr(e ast.Expr) string {
	switch e := e.(type) {
	case nil:
		return ""
	case *ast.VarRef:
		return e.Name.Name
	}
	return e.String()
}

// mods spells modifiers followed by a space, or nothing.
func mods(m ast.Modifiers) string {
	if s := m.String(); s != "" {
		return s + " "
	}
	return ""
}

// params spells a function's parameter list.
func params(f *ast.FuncDecl) string {
	parts := make([]string, 0, len(f.Params)+1)
	for _, p := range f.Params {
		name := p.Name.Name
		if name == "" {
			name = "_"
		}
		parts = append(parts, name+": "+hostType(p.Type))
	}
	if f.Variadic {
		parts = append(parts, "...")
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// location spells where an identifier was declared.
func location(id ast.Identifier) string {
	if id.Range == nil || id.Range.Start.File == nil || id.Range.Start.File.Path == "" {
		return ""
	}
	return id.Range.Start.String()
}

func isStruct(d ast.Decl) bool {
	_, ok := d.(*ast.TypeDecl)
	return ok
}

func isAlias(d ast.Decl) bool {
	_, ok := d.(*ast.TypeAliasDecl)
	return ok
}

// camelCase converts to camelCase.
func camelCase(s string) string {
	if s == "" {
		return s
	}
	pascal := pascalCase(s)
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// pascalCase converts to PascalCase.
func pascalCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		if len(word) > 0 {
			runes := []rune(word)
			runes[0] = unicode.ToUpper(runes[0])
			for j := 1; j < len(runes); j++ {
				runes[j] = unicode.ToLower(runes[j])
			}
			words[i] = string(runes)
		}
	}
	return strings.Join(words, "")
}

// snakeCase converts to snake_case.
func snakeCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "_")
}

// kebabCase converts to kebab-case.
func kebabCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "-")
}

// splitWords splits C identifiers such as SOME_MACRO, fooBar or __va_list
// into words.
func splitWords(s string) []string {
	var words []string
	var current []rune

	for i, r := range s {
		if r == '_' || r == '-' || r == ' ' {
			if len(current) > 0 {
				words = append(words, string(current))
				current = nil
			}
			continue
		}

		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || (i+1 < len(s) && unicode.IsLower(rune(s[i+1]))) {
				if len(current) > 0 {
					words = append(words, string(current))
					current = nil
				}
			}
		}

		current = append(current, r)
	}

	if len(current) > 0 {
		words = append(words, string(current))
	}

	return words
}

// formatComment formats a comment with a prefix.
func formatComment(comment, prefix string) string {
	if comment == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(comment), "\n")
	var result []string
	for _, line := range lines {
		result = append(result, prefix+strings.TrimSpace(line))
	}
	return strings.Join(result, "\n")
}

func containsStr(list []string, s string) bool {
	return slices.Contains(list, s)
}

// defaultValue returns the first non-empty value.
func defaultValue(val, def string) string {
	if val == "" {
		return def
	}
	return val
}

// ternary returns a if condition is true, else b.
func ternary(condition bool, a, b string) string {
	if condition {
		return a
	}
	return b
}
