// Package lexer tokenizes Spice source text (spec §1 scope note: lexing
// itself is out of scope for the component design in spec §4, carried here
// only as the minimal contract internal/parser and internal/sourcefile need
// to drive the rest of the pipeline).
package lexer

import "github.com/spice-lang/spicec/internal/cerr"

// Kind classifies one token.
type Kind int

const (
	EOF Kind = iota
	Ident
	Keyword
	IntLit
	DoubleLit
	StringLit
	CharLit
	Symbol
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "IDENT"
	case Keyword:
		return "KEYWORD"
	case IntLit:
		return "INT"
	case DoubleLit:
		return "DOUBLE"
	case StringLit:
		return "STRING"
	case CharLit:
		return "CHAR"
	case Symbol:
		return "SYMBOL"
	default:
		return "UNKNOWN"
	}
}

// Token is one lexeme: its classification, the raw (already-normalized)
// source text it covers, and the location it starts at.
type Token struct {
	Kind Kind
	Text string
	Loc  cerr.CodeLoc
}

// keywords is the closed set of reserved identifiers spec §9's "reserved
// keyword" error kind checks membership against.
var keywords = map[string]bool{
	"f": true, "p": true, "struct": true, "interface": true, "enum": true,
	"import": true, "const": true, "if": true, "else": true, "while": true,
	"do": true, "for": true, "foreach": true, "in": true, "return": true,
	"break": true, "continue": true, "printf": true, "unsafe": true,
	"true": true, "false": true, "this": true, "new": true, "public": true,
	"inline": true, "heap": true, "ctor": true, "dtor": true, "sizeof": true,
	"alignof": true, "len": true, "as": true, "type": true,
	"double": true, "int": true, "short": true, "long": true, "byte": true,
	"char": true, "string": true, "bool": true, "dyn": true, "void": true,
}

// IsKeyword reports whether text is a reserved word rather than an
// available identifier.
func IsKeyword(text string) bool {
	return keywords[text]
}
