package model

import (
	"strings"
	"unicode"
)

// Node is an in-memory Cursor. Front ends that materialize their graph up
// front (and tests) build Nodes directly.
type Node struct {
	kind       CursorKind
	spelling   string
	extent     Range
	typ        Type
	children   []Cursor
	numArgs    int
	result     Type
	variadic   bool
	noReturn   bool
	fnLike     bool
	underlying Type
}

// NewNode creates a cursor of the given kind.
func NewNode(kind CursorKind, spelling string) *Node {
	return &Node{kind: kind, spelling: spelling, numArgs: -1}
}

// WithType sets the cursor's type.
func (n *Node) WithType(t Type) *Node {
	n.typ = t
	return n
}

// WithExtent sets the cursor's source extent.
func (n *Node) WithExtent(r Range) *Node {
	n.extent = r
	return n
}

// WithChildren appends child cursors.
func (n *Node) WithChildren(children ...Cursor) *Node {
	n.children = append(n.children, children...)
	return n
}

// WithSignature marks the cursor as a function with the given result type and
// parameter count.
func (n *Node) WithSignature(result Type, numArgs int, variadic, noReturn bool) *Node {
	n.result = result
	n.numArgs = numArgs
	n.variadic = variadic
	n.noReturn = noReturn
	return n
}

// WithUnderlying sets the aliased type of a typedef cursor.
func (n *Node) WithUnderlying(t Type) *Node {
	n.underlying = t
	return n
}

// FunctionLike marks a macro cursor as function-like.
func (n *Node) FunctionLike() *Node {
	n.fnLike = true
	return n
}

func (n *Node) Kind() CursorKind {
	if n == nil || n.kind == "" {
		return CursorInvalid
	}
	return n.kind
}

func (n *Node) Spelling() string { return n.spelling }
func (n *Node) Extent() Range    { return n.extent }

func (n *Node) Type() Type {
	if n.typ == nil {
		return InvalidType()
	}
	return n.typ
}

func (n *Node) Visit(fn func(child Cursor) bool) {
	for _, c := range n.children {
		if !fn(c) {
			return
		}
	}
}

func (n *Node) NumArguments() int         { return n.numArgs }
func (n *Node) IsVariadic() bool          { return n.variadic }
func (n *Node) IsNoReturn() bool          { return n.noReturn }
func (n *Node) IsMacroFunctionLike() bool { return n.fnLike }

func (n *Node) ResultType() Type {
	if n.result == nil {
		return InvalidType()
	}
	return n.result
}

func (n *Node) UnderlyingType() Type {
	if n.underlying == nil {
		return InvalidType()
	}
	return n.underlying
}

// TypeNode is an in-memory Type.
type TypeNode struct {
	kind     TypeKind
	spelling string
	size     int64
	pointee  Type
	elem     Type
	count    int64
	args     []Type
	result   Type
	variadic bool
	decl     Cursor
	named    Type
}

// Scalar returns a builtin type of the given kind.
func Scalar(kind TypeKind, spelling string, size int64) *TypeNode {
	return &TypeNode{kind: kind, spelling: spelling, size: size, count: -1}
}

// InvalidType returns the descriptor used for missing answers.
func InvalidType() *TypeNode {
	return &TypeNode{kind: KindInvalid, size: -1, count: -1}
}

// PointerTo returns a pointer to t.
func PointerTo(t Type) *TypeNode {
	return &TypeNode{kind: KindPointer, spelling: t.Spelling() + " *", size: 8, pointee: t, count: -1}
}

// BlockPointerTo returns a block pointer to the function type t.
func BlockPointerTo(t Type) *TypeNode {
	return &TypeNode{kind: KindBlockPointer, spelling: t.Spelling() + " ^", size: 8, pointee: t, count: -1}
}

// ArrayOf returns a constant array of count elements, or an incomplete array
// when count is negative.
func ArrayOf(elem Type, count int64) *TypeNode {
	if count < 0 {
		return &TypeNode{kind: KindIncompleteArray, spelling: elem.Spelling() + " []", size: -1, elem: elem, count: -1}
	}
	size := int64(-1)
	if es := elem.Size(); es >= 0 {
		size = es * count
	}
	return &TypeNode{kind: KindConstantArray, spelling: elem.Spelling() + " []", size: size, elem: elem, count: count}
}

// FuncProto returns a prototyped function type.
func FuncProto(result Type, variadic bool, args ...Type) *TypeNode {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Spelling()
	}
	return &TypeNode{
		kind:     KindFunctionProto,
		spelling: result.Spelling() + " (" + strings.Join(parts, ", ") + ")",
		size:     1,
		args:     args,
		result:   result,
		variadic: variadic,
		count:    -1,
	}
}

// FuncNoProto returns a function type declared without a prototype.
func FuncNoProto(result Type) *TypeNode {
	return &TypeNode{kind: KindFunctionNoProto, spelling: result.Spelling() + " ()", size: 1, result: result, count: -1}
}

// TypedefOf returns a typedef type named name, declared by decl.
func TypedefOf(name string, decl Cursor, size int64) *TypeNode {
	return &TypeNode{kind: KindTypedef, spelling: name, size: size, decl: decl, count: -1}
}

// RecordOf returns a struct or union type. spelling is the C spelling,
// e.g. "struct point".
func RecordOf(spelling string, decl Cursor, size int64) *TypeNode {
	return &TypeNode{kind: KindRecord, spelling: spelling, size: size, decl: decl, count: -1}
}

// EnumOf returns an enum type.
func EnumOf(spelling string, decl Cursor) *TypeNode {
	return &TypeNode{kind: KindEnum, spelling: spelling, size: 4, decl: decl, count: -1}
}

// Elaborated wraps named the way a tag-qualified spelling does.
func Elaborated(named Type) *TypeNode {
	return &TypeNode{kind: KindElaborated, spelling: named.Spelling(), size: named.Size(), named: named, count: -1}
}

// OtherType returns a type the importer has no mapping for.
func OtherType(kind TypeKind, spelling string, size int64) *TypeNode {
	return &TypeNode{kind: kind, spelling: spelling, size: size, count: -1}
}

func (t *TypeNode) Kind() TypeKind {
	if t == nil || t.kind == "" {
		return KindInvalid
	}
	return t.kind
}

func (t *TypeNode) Spelling() string { return t.spelling }
func (t *TypeNode) Count() int64     { return t.count }
func (t *TypeNode) NumArgs() int     { return len(t.args) }
func (t *TypeNode) IsVariadic() bool { return t.variadic }
func (t *TypeNode) Declaration() Cursor {
	if t.decl == nil {
		return NewNode(CursorInvalid, "")
	}
	return t.decl
}
func (t *TypeNode) Size() int64 { return t.size }

func (t *TypeNode) Pointee() Type { return orInvalid(t.pointee) }
func (t *TypeNode) Element() Type { return orInvalid(t.elem) }
func (t *TypeNode) Result() Type  { return orInvalid(t.result) }
func (t *TypeNode) Named() Type   { return orInvalid(t.named) }

func (t *TypeNode) Arg(i int) Type {
	if i < 0 || i >= len(t.args) {
		return InvalidType()
	}
	return t.args[i]
}

func orInvalid(t Type) Type {
	if t == nil {
		return InvalidType()
	}
	return t
}

// Unit is an in-memory TranslationUnit for a single file. Cursors added
// through Unit receive consecutive, non-overlapping extents so that Tokenize
// can find the tokens recorded for them.
type Unit struct {
	file     string
	root     *Node
	tokens   []Token
	offset   int
	line     int
	Disposed bool
}

// NewUnit creates an empty unit for file.
func NewUnit(file string) *Unit {
	return &Unit{file: file, root: NewNode(CursorOther, file), line: 1}
}

// Add assigns a fresh extent to each cursor and appends it to the root.
func (u *Unit) Add(nodes ...*Node) *Unit {
	for _, n := range nodes {
		n.extent = u.span(len(n.spelling) + 1)
		u.root.children = append(u.root.children, n)
	}
	return u
}

// AddAt appends n to the root keeping its current extent.
func (u *Unit) AddAt(n Cursor) *Unit {
	u.root.children = append(u.root.children, n)
	return u
}

// Macro records an object-like (or, with fnLike, function-like) macro whose
// tokens are name followed by body.
func (u *Unit) Macro(name string, fnLike bool, body ...string) *Node {
	n := NewNode(CursorMacro, name)
	n.fnLike = fnLike
	start := u.offset
	for _, text := range append([]string{name}, body...) {
		u.tokens = append(u.tokens, Token{Kind: classify(text), Spelling: text, Extent: u.span(len(text) + 1)})
	}
	n.extent = Range{
		Start: Location{File: u.file, Line: u.line, Column: 1, Offset: start},
		End:   Location{File: u.file, Line: u.line, Column: 1 + u.offset - start, Offset: u.offset},
	}
	u.root.children = append(u.root.children, n)
	return n
}

func (u *Unit) span(width int) Range {
	start := Location{File: u.file, Line: u.line, Column: 1, Offset: u.offset}
	u.offset += width
	u.line++
	end := Location{File: u.file, Line: u.line, Column: 1, Offset: u.offset}
	return Range{Start: start, End: end}
}

func (u *Unit) Root() Cursor { return u.root }

func (u *Unit) Tokenize(r Range) []Token {
	var out []Token
	for _, tok := range u.tokens {
		if tok.Extent.Start.File != r.Start.File {
			continue
		}
		if tok.Extent.Start.Offset >= r.Start.Offset && tok.Extent.End.Offset <= r.End.Offset {
			out = append(out, tok)
		}
	}
	return out
}

func (u *Unit) Dispose() { u.Disposed = true }

// ClassifyToken reports the kind of a single preprocessing token's text.
func ClassifyToken(text string) TokenKind { return classify(text) }

func classify(text string) TokenKind {
	if text == "" {
		return TokenPunctuation
	}
	r := rune(text[0])
	switch {
	case unicode.IsDigit(r), r == '\'', r == '"':
		return TokenLiteral
	case r == '.' && len(text) > 1 && unicode.IsDigit(rune(text[1])):
		return TokenLiteral
	case unicode.IsLetter(r), r == '_':
		if cKeywords[text] {
			return TokenKeyword
		}
		return TokenIdentifier
	case strings.HasPrefix(text, "//"), strings.HasPrefix(text, "/*"):
		return TokenComment
	}
	return TokenPunctuation
}

var cKeywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "inline": true, "int": true, "long": true, "register": true,
	"restrict": true, "return": true, "short": true, "signed": true, "sizeof": true,
	"static": true, "struct": true, "switch": true, "typedef": true, "union": true,
	"unsigned": true, "void": true, "volatile": true, "while": true,
	"_Bool": true, "_Noreturn": true, "_Static_assert": true, "_Alignof": true,
}
