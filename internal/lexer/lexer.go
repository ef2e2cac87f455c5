// Package lexer classifies single C preprocessing tokens and turns literal
// tokens into typed host constants.
package lexer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cimport/internal/ast"
)

var (
	// ErrNotLiteral is returned for tokens that are not numeric, character or
	// string literals.
	ErrNotLiteral = errors.New("not a literal")
	// ErrRange is returned for literals that do not fit their type.
	ErrRange = errors.New("literal out of range")
)

// Kind is the lexical class of a token.
type Kind int

const (
	Other Kind = iota
	Number
	Char
	String
	Identifier
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Char:
		return "char"
	case String:
		return "string"
	case Identifier:
		return "identifier"
	}
	return "other"
}

// Token is one classified token.
type Token struct {
	Kind Kind
	Text string
}

// Scan classifies text as exactly one token. Text that holds more than one
// token, or nothing recognizable, is Other.
func Scan(text string) Token {
	text = strings.TrimSpace(text)
	tok := Token{Kind: Other, Text: text}
	if text == "" {
		return tok
	}

	var n int
	var kind Kind
	switch c := text[0]; {
	case isDigit(c), c == '.' && len(text) > 1 && isDigit(text[1]):
		n, kind = scanNumber(text), Number
	case c == '\'':
		n, kind = scanQuoted(text, '\''), Char
	case c == '"':
		n, kind = scanQuoted(text, '"'), String
	case isIdentStart(c):
		n, kind = scanIdent(text), Identifier
	}
	if n == len(text) {
		tok.Kind = kind
	}
	return tok
}

func scanNumber(s string) int {
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case isDigit(c), isIdentStart(c), c == '.':
			i++
		case (c == '+' || c == '-') && i > 0 && strings.ContainsRune("eEpP", rune(s[i-1])):
			i++
		default:
			return i
		}
	}
	return i
}

func scanQuoted(s string, quote byte) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			if i == 1 && quote == '\'' {
				return 0
			}
			return i + 1
		case '\n':
			return 0
		}
	}
	return 0
}

func scanIdent(s string) int {
	i := 1
	for i < len(s) && (isIdentStart(s[i]) || isDigit(s[i])) {
		i++
	}
	return i
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c|0x20) >= 'a' && (c|0x20) <= 'z' }

// Literal converts a literal token into a typed constant.
func Literal(text string) (ast.Expr, error) {
	tok := Scan(text)
	switch tok.Kind {
	case Number:
		return number(tok.Text)
	case Char:
		s, err := unescape(tok.Text[1 : len(tok.Text)-1])
		if err != nil {
			return nil, err
		}
		if len(s) != 1 {
			return nil, fmt.Errorf("%w: multi-character constant %s", ErrNotLiteral, tok.Text)
		}
		return &ast.CharLiteral{Value: s[0]}, nil
	case String:
		s, err := unescape(tok.Text[1 : len(tok.Text)-1])
		if err != nil {
			return nil, err
		}
		return &ast.StringLiteral{Value: s}, nil
	}
	return nil, fmt.Errorf("%w: %s %q", ErrNotLiteral, tok.Kind, tok.Text)
}

const maxUint64Spelling = "18446744073709551615"

// Integer suffixes, longest first.
var intSuffixes = []struct {
	suffix string
	typ    ast.Primitive
}{
	{"ull", ast.UInt64},
	{"llu", ast.UInt64},
	{"ul", ast.UInt64},
	{"lu", ast.UInt64},
	{"ll", ast.Int64},
	{"u", ast.UInt32},
	{"l", ast.Int64},
}

func splitIntSuffix(lower string) (string, ast.Primitive) {
	for _, s := range intSuffixes {
		if strings.HasSuffix(lower, s.suffix) {
			return strings.TrimSuffix(lower, s.suffix), s.typ
		}
	}
	return lower, ast.Int64
}

func number(text string) (ast.Expr, error) {
	lower := strings.ToLower(text)

	if strings.HasPrefix(lower, maxUint64Spelling) {
		if digits, _ := splitIntSuffix(lower); digits == maxUint64Spelling {
			return &ast.IntLiteral{Value: math.MaxUint64, Typ: ast.UInt64}, nil
		}
	}

	// strconv also accepts Go-only spellings
	if strings.ContainsRune(lower, '_') || strings.HasPrefix(lower, "0o") {
		return nil, fmt.Errorf("%w: malformed number %s", ErrNotLiteral, text)
	}

	if isFloat(lower) {
		return float(text, lower)
	}

	digits, typ := splitIntSuffix(lower)
	v, err := strconv.ParseUint(digits, 0, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("%w: %s", ErrRange, text)
		}
		return nil, fmt.Errorf("%w: malformed number %s", ErrNotLiteral, text)
	}

	var limit uint64
	switch typ {
	case ast.UInt32:
		limit = math.MaxUint32
	case ast.Int64:
		limit = math.MaxInt64
	default:
		limit = math.MaxUint64
	}
	if v > limit {
		return nil, fmt.Errorf("%w: %s does not fit %s", ErrRange, text, typ)
	}
	return &ast.IntLiteral{Value: v, Typ: typ}, nil
}

func isFloat(lower string) bool {
	if strings.HasPrefix(lower, "0x") {
		return strings.ContainsRune(lower, 'p')
	}
	return strings.ContainsAny(lower, ".e")
}

func float(text, lower string) (ast.Expr, error) {
	typ := ast.Double
	switch {
	case strings.HasSuffix(lower, "f"):
		typ = ast.Float
		lower = strings.TrimSuffix(lower, "f")
	case strings.HasSuffix(lower, "l"):
		typ = ast.Float80
		lower = strings.TrimSuffix(lower, "l")
	}

	bits := 64
	if typ == ast.Float {
		bits = 32
	}
	v, err := strconv.ParseFloat(lower, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("%w: %s", ErrRange, text)
		}
		return nil, fmt.Errorf("%w: malformed number %s", ErrNotLiteral, text)
	}
	return &ast.FloatLiteral{Value: v, Typ: typ}, nil
}

// unescape decodes C escape sequences.
func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(s) {
			return "", fmt.Errorf("%w: trailing backslash", ErrNotLiteral)
		}
		switch c = s[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case 'e':
			b.WriteByte(0x1b)
		case '\\', '\'', '"', '?':
			b.WriteByte(c)
		case 'x':
			j := i + 1
			for j < len(s) && strings.IndexByte("0123456789abcdefABCDEF", s[j]) >= 0 {
				j++
			}
			if j == i+1 {
				return "", fmt.Errorf("%w: \\x without digits", ErrNotLiteral)
			}
			v, err := strconv.ParseUint(s[i+1:j], 16, 8)
			if err != nil {
				return "", fmt.Errorf("%w: \\x%s", ErrRange, s[i+1:j])
			}
			b.WriteByte(byte(v))
			i = j - 1
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, err := strconv.ParseUint(s[i:j], 8, 8)
			if err != nil {
				return "", fmt.Errorf("%w: \\%s", ErrRange, s[i:j])
			}
			b.WriteByte(byte(v))
			i = j - 1
		default:
			return "", fmt.Errorf("%w: unknown escape \\%c", ErrNotLiteral, c)
		}
	}
	return b.String(), nil
}
