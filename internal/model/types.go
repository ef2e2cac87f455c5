// Package model defines the foreign declaration graph consumed by the importer.
//
// A C front end exposes a parsed header as a TranslationUnit whose root Cursor
// has one child per top-level declaration. Cursors and types are opaque to the
// importer: it only ever asks for their kind and the handful of properties
// listed on the interfaces below, and every answer may be empty or invalid.
package model

// CursorKind represents the category of a foreign declaration.
type CursorKind string

const (
	CursorTypedef      CursorKind = "typedef"
	CursorStruct       CursorKind = "struct"
	CursorUnion        CursorKind = "union"
	CursorEnum         CursorKind = "enum"
	CursorEnumConstant CursorKind = "enum-constant"
	CursorFunction     CursorKind = "function"
	CursorParam        CursorKind = "function-parameter"
	CursorField        CursorKind = "field"
	CursorMacro        CursorKind = "macro-definition"
	CursorVariable     CursorKind = "variable"
	CursorOther        CursorKind = "other"
	CursorInvalid      CursorKind = "invalid"
)

// TypeKind represents the category of a foreign type.
type TypeKind string

const (
	KindVoid            TypeKind = "void"
	KindBool            TypeKind = "bool"
	KindInt8            TypeKind = "int8"
	KindInt16           TypeKind = "int16"
	KindInt32           TypeKind = "int32"
	KindInt64           TypeKind = "int64"
	KindUInt8           TypeKind = "uint8"
	KindUInt16          TypeKind = "uint16"
	KindUInt32          TypeKind = "uint32"
	KindUInt64          TypeKind = "uint64"
	KindFloat           TypeKind = "float"
	KindDouble          TypeKind = "double"
	KindLongDouble      TypeKind = "long-double"
	KindPointer         TypeKind = "pointer"
	KindConstantArray   TypeKind = "constant-array"
	KindIncompleteArray TypeKind = "incomplete-array"
	KindFunctionProto   TypeKind = "function-proto"
	KindFunctionNoProto TypeKind = "function-no-proto"
	KindTypedef         TypeKind = "typedef"
	KindRecord          TypeKind = "record"
	KindEnum            TypeKind = "enum"
	KindElaborated      TypeKind = "elaborated"
	KindBlockPointer    TypeKind = "block-pointer"
	KindObjCId          TypeKind = "objc-id"
	KindObjCSel         TypeKind = "objc-sel"
	KindNullPtr         TypeKind = "nullptr"
	KindUnexposed       TypeKind = "unexposed"
	KindInvalid         TypeKind = "invalid"
	KindOther           TypeKind = "other" // vectors, __int128, _Complex, ...
)

// TokenKind represents the lexical category of a foreign token.
type TokenKind string

const (
	TokenPunctuation TokenKind = "punctuation"
	TokenKeyword     TokenKind = "keyword"
	TokenIdentifier  TokenKind = "identifier"
	TokenLiteral     TokenKind = "literal"
	TokenComment     TokenKind = "comment"
)

// Location is a position inside a foreign source file.
type Location struct {
	File   string // Path as reported by the front end, empty if none
	Line   int    // 1-based, 0 if unknown
	Column int    // 1-based, 0 if unknown
	Offset int    // Byte offset from the start of File
}

// Range is the source extent of a cursor or token.
type Range struct {
	Start Location
	End   Location
}

// Token is one lexical token of a foreign source extent.
type Token struct {
	Kind     TokenKind
	Spelling string
	Extent   Range
}

// Cursor is one node of the foreign declaration graph.
type Cursor interface {
	Kind() CursorKind
	// Spelling is the declared name, empty for anonymous declarations.
	Spelling() string
	Extent() Range
	Type() Type
	// Visit calls fn for each direct child in declaration order until fn
	// returns false.
	Visit(fn func(child Cursor) bool)

	// NumArguments reports the parameter count of a function cursor, or a
	// negative value when it cannot be determined.
	NumArguments() int
	ResultType() Type
	IsVariadic() bool
	IsNoReturn() bool

	IsMacroFunctionLike() bool
	// UnderlyingType is the aliased type of a typedef cursor.
	UnderlyingType() Type
}

// Type is a foreign type descriptor.
type Type interface {
	Kind() TypeKind
	Spelling() string
	// Pointee is the target of pointer and block pointer types.
	Pointee() Type
	// Element and Count describe array types. Count is negative when unknown.
	Element() Type
	Count() int64
	// NumArgs, Arg, Result and IsVariadic describe function types.
	NumArgs() int
	Arg(i int) Type
	Result() Type
	IsVariadic() bool
	// Declaration is the cursor declaring a typedef, record or enum type.
	Declaration() Cursor
	// Named is the type wrapped by an elaborated type.
	Named() Type
	// Size is the storage size in bytes, negative for incomplete types.
	Size() int64
}

// TranslationUnit is one parsed header.
type TranslationUnit interface {
	Root() Cursor
	Tokenize(r Range) []Token
	// Dispose releases the unit and everything allocated to produce it.
	Dispose()
}

// Frontend parses a header into a TranslationUnit.
type Frontend interface {
	Parse(path string, args []string) (TranslationUnit, error)
}
