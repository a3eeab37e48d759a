// Package syntax implements lexical and syntactic analysis for the C♭ language.
package syntax

import "fmt"

// Token is the type of a lexical token.
type Token uint

const (
	_EOF Token = iota

	_Name    // identifiers, including the type names int, float, ...
	_Literal // see LitKind

	// operators, grouped by binding power from loosest to tightest
	_Assign
	_OrOr
	_AndAnd
	_Eql
	_Neq
	_Lss
	_Leq
	_Gtr
	_Geq
	_Add
	_Sub
	_Mul
	_Div
	_Rem
	_Not

	// punctuation
	_Lparen
	_Rparen
	_Lbrace
	_Rbrace
	_Comma
	_Semi
	_Colon

	// keywords
	_Else
	_Func
	_If
	_Return
	_Var
	_While

	tokenCount
)

// Binding powers of the infix operators. Prefix - and ! bind tighter than
// all of them, and calls tighter still; the parser handles both by
// grammar rather than by binding power.
const (
	bpAssign = iota + 1 // right associative
	bpOrOr
	bpAndAnd
	bpComparison
	bpAdditive
	bpMultiply
)

var tokens = [tokenCount]struct {
	text string
	bp   int // binding power as an infix operator, 0 if not one
}{
	_EOF:     {"EOF", 0},
	_Name:    {"NAME", 0},
	_Literal: {"LITERAL", 0},

	_Assign: {"=", bpAssign},
	_OrOr:   {"||", bpOrOr},
	_AndAnd: {"&&", bpAndAnd},
	_Eql:    {"==", bpComparison},
	_Neq:    {"!=", bpComparison},
	_Lss:    {"<", bpComparison},
	_Leq:    {"<=", bpComparison},
	_Gtr:    {">", bpComparison},
	_Geq:    {">=", bpComparison},
	_Add:    {"+", bpAdditive},
	_Sub:    {"-", bpAdditive},
	_Mul:    {"*", bpMultiply},
	_Div:    {"/", bpMultiply},
	_Rem:    {"%", bpMultiply},
	_Not:    {"!", 0},

	_Lparen: {"(", 0},
	_Rparen: {")", 0},
	_Lbrace: {"{", 0},
	_Rbrace: {"}", 0},
	_Comma:  {",", 0},
	_Semi:   {";", 0},
	_Colon:  {":", 0},

	_Else:   {"else", 0},
	_Func:   {"func", 0},
	_If:     {"if", 0},
	_Return: {"return", 0},
	_Var:    {"var", 0},
	_While:  {"while", 0},
}

func (t Token) String() string {
	if t < tokenCount {
		return tokens[t].text
	}
	return fmt.Sprintf("token(%d)", t)
}

// Precedence returns the binding power of t as an infix operator, or 0
// if t is not one. Higher binds tighter.
func (t Token) Precedence() int {
	if t < tokenCount {
		return tokens[t].bp
	}
	return 0
}

// RightAssoc reports whether chains of t group to the right.
func (t Token) RightAssoc() bool { return t == _Assign }

func (t Token) IsComparison() bool { return _Eql <= t && t <= _Geq }
func (t Token) IsLogical() bool    { return t == _AndAnd || t == _OrOr }
func (t Token) IsKeyword() bool    { return _Else <= t && t <= _While }
func (t Token) IsLiteral() bool    { return t == _Literal }
func (t Token) IsOperator() bool   { return _Assign <= t && t <= _Not }
func (t Token) IsPunct() bool      { return _Lparen <= t && t <= _Colon }
func (t Token) IsEOF() bool        { return t == _EOF }

// Class is the coarse category of a token, as shown by -emit-tokens.
type Class uint8

const (
	ClassEOF Class = iota
	ClassIdent
	ClassKeyword
	ClassLiteral
	ClassOperator
	ClassPunct
)

func (c Class) String() string {
	switch c {
	case ClassEOF:
		return "end-of-input"
	case ClassIdent:
		return "identifier"
	case ClassKeyword:
		return "keyword"
	case ClassLiteral:
		return "literal"
	case ClassOperator:
		return "operator"
	case ClassPunct:
		return "punctuation"
	}
	return fmt.Sprintf("Class(%d)", c)
}

func (t Token) Class() Class {
	switch {
	case t == _Name:
		return ClassIdent
	case t.IsLiteral():
		return ClassLiteral
	case t.IsKeyword():
		return ClassKeyword
	case t.IsOperator():
		return ClassOperator
	case t.IsPunct():
		return ClassPunct
	}
	return ClassEOF
}

// Operator tokens used by the checker and lowering.
const (
	Assign = _Assign
	OrOr   = _OrOr
	AndAnd = _AndAnd
	Eql    = _Eql
	Neq    = _Neq
	Lss    = _Lss
	Leq    = _Leq
	Gtr    = _Gtr
	Geq    = _Geq
	Add    = _Add
	Sub    = _Sub
	Mul    = _Mul
	Div    = _Div
	Rem    = _Rem
	Not    = _Not
)

// LitKind is the kind of a _Literal token.
type LitKind uint8

const (
	IntLit    LitKind = iota // 42 0x2a 0o52 0b101010
	FloatLit                 // 4.2 42e-1
	StringLit                // "a\tb"
	BoolLit                  // true false
)

func (k LitKind) String() string {
	switch k {
	case IntLit:
		return "int"
	case FloatLit:
		return "float"
	case StringLit:
		return "string"
	case BoolLit:
		return "bool"
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// keywords maps each keyword's text to its token. Type names are not
// keywords: they scan as _Name and are bound by the resolver.
var keywords = func() map[string]Token {
	m := make(map[string]Token, _While-_Else+1)
	for t := _Else; t <= _While; t++ {
		m[tokens[t].text] = t
	}
	return m
}()

// LookupKeyword returns the keyword token spelled ident, or _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
