// Package parser implements a recursive-descent parser that builds
// internal/ast nodes directly from an internal/lexer token stream (spec
// §1 scope note: parsing is out of scope for the component design in
// spec §4, carried here only as the minimal contract internal/sourcefile
// needs to drive the rest of the pipeline).
package parser

import (
	"fmt"
	"strconv"

	"github.com/spice-lang/spicec/internal/ast"
	"github.com/spice-lang/spicec/internal/cerr"
	"github.com/spice-lang/spicec/internal/lexer"
	"github.com/spice-lang/spicec/internal/symtype"
)

// Parser consumes a token slice produced by internal/lexer and builds one
// *ast.File. It never stops at the first error: like the reference
// compiler's ANTLR-generated parser it resynchronizes at the next
// statement/declaration boundary and keeps going, collecting every
// LexParseError it meets along the way.
type Parser struct {
	toks []lexer.Token
	pos  int
	path string
	errs []error
}

// New returns a Parser over toks, which must end with an EOF token (as
// produced by lexer.Lexer.Tokenize).
func New(toks []lexer.Token, path string) *Parser {
	return &Parser{toks: toks, path: path}
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []error { return p.errs }

func (p *Parser) cur() lexer.Token { return p.toks[p.pos] }

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool { return p.cur().Kind == lexer.EOF }

func (p *Parser) at(kind lexer.Kind, text string) bool {
	c := p.cur()
	return c.Kind == kind && (text == "" || c.Text == text)
}

func (p *Parser) atSym(s string) bool { return p.at(lexer.Symbol, s) }
func (p *Parser) atKw(s string) bool  { return p.at(lexer.Keyword, s) }

func (p *Parser) eatSym(s string) bool {
	if p.atSym(s) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) eatKw(s string) bool {
	if p.atKw(s) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expectSym(s string) cerr.CodeLoc {
	loc := p.cur().Loc
	if !p.eatSym(s) {
		p.error(fmt.Sprintf("expected %q, got %q", s, p.cur().Text))
	}
	return loc
}

func (p *Parser) expectIdent() (string, cerr.CodeLoc) {
	loc := p.cur().Loc
	if p.cur().Kind != lexer.Ident {
		p.error(fmt.Sprintf("expected identifier, got %q", p.cur().Text))
		return "", loc
	}
	return p.advance().Text, loc
}

func (p *Parser) error(msg string) {
	p.errs = append(p.errs, &cerr.LexParseError{Message: msg, Loc: p.cur().Loc})
}

// synchronize skips tokens until the next `;`, `}` or EOF, the reference
// parser's recovery point after a malformed declaration or statement.
func (p *Parser) synchronize() {
	for !p.atEOF() && !p.atSym(";") && !p.atSym("}") {
		p.advance()
	}
	if p.atSym(";") || p.atSym("}") {
		p.advance()
	}
}

// ParseFile parses the whole token stream into one *ast.File.
func (p *Parser) ParseFile() *ast.File {
	file := &ast.File{Path: p.path}
	for !p.atEOF() {
		before := p.pos
		switch {
		case p.atKw("import"):
			file.Imports = append(file.Imports, p.parseImport())
		case p.atKw("struct"):
			file.Structs = append(file.Structs, p.parseStruct())
		case p.atKw("interface"):
			file.Interfaces = append(file.Interfaces, p.parseInterface())
		case p.atKw("enum"):
			file.Enums = append(file.Enums, p.parseEnum())
		case p.atKw("type"):
			file.TypeAliases = append(file.TypeAliases, p.parseTypeAlias())
		case p.atKw("public"):
			p.advance()
			p.parseTopLevelPublic(file)
		case p.atKw("f") || p.atKw("p"):
			file.Functions = append(file.Functions, p.parseFunction())
		case p.isTypeStart():
			file.Globals = append(file.Globals, p.parseGlobal(false))
		default:
			p.error(fmt.Sprintf("unexpected token %q at top level", p.cur().Text))
			p.advance()
		}
		if p.pos == before {
			p.advance()
		}
	}
	return file
}

func (p *Parser) parseTopLevelPublic(file *ast.File) {
	switch {
	case p.atKw("f") || p.atKw("p"):
		fn := p.parseFunction()
		fn.IsPublic = true
		file.Functions = append(file.Functions, fn)
	case p.atKw("struct"):
		s := p.parseStruct()
		s.IsPublic = true
		file.Structs = append(file.Structs, s)
	default:
		g := p.parseGlobal(true)
		file.Globals = append(file.Globals, g)
	}
}

func (p *Parser) parseImport() *ast.ImportDecl {
	loc := p.cur().Loc
	p.advance()
	path := ""
	if p.cur().Kind == lexer.StringLit {
		path = p.advance().Text
	} else {
		p.error("expected string literal after 'import'")
	}
	alias := ""
	if p.eatKw("as") {
		alias, _ = p.expectIdent()
	}
	p.expectSym(";")
	n := &ast.ImportDecl{Path: path, Alias: alias}
	n.CodeLoc = loc
	return n
}

func (p *Parser) isTypeStart() bool {
	c := p.cur()
	if c.Kind == lexer.Keyword {
		switch c.Text {
		case "double", "int", "short", "long", "byte", "char", "string", "bool", "dyn", "const":
			return true
		}
		return false
	}
	return c.Kind == lexer.Ident
}

func (p *Parser) parseGlobal(public bool) *ast.GlobalVarDecl {
	loc := p.cur().Loc
	ty := p.parseType()
	name, _ := p.expectIdent()
	var init ast.Expr
	if p.eatSym("=") {
		init = p.parseExpr()
	}
	p.expectSym(";")
	n := &ast.GlobalVarDecl{Name: name, Type: ty, IsConst: ty.Specs.Const, Initializer: init, IsPublic: public}
	n.CodeLoc = loc
	return n
}

// parseType consumes a (possibly const-qualified) base type followed by
// any number of pointer/reference/array suffixes.
func (p *Parser) parseType() symtype.Type {
	isConst := p.eatKw("const")
	var t symtype.Type
	switch {
	case p.atKw("double"):
		p.advance()
		t = symtype.TypeDouble
	case p.atKw("int"):
		p.advance()
		t = symtype.TypeInt
	case p.atKw("short"):
		p.advance()
		t = symtype.TypeShort
	case p.atKw("long"):
		p.advance()
		t = symtype.TypeLong
	case p.atKw("byte"):
		p.advance()
		t = symtype.TypeByte
	case p.atKw("char"):
		p.advance()
		t = symtype.TypeChar
	case p.atKw("string"):
		p.advance()
		t = symtype.TypeString
	case p.atKw("bool"):
		p.advance()
		t = symtype.TypeBool
	case p.atKw("dyn"):
		p.advance()
		t = symtype.TypeDyn
	case p.cur().Kind == lexer.Ident:
		name := p.advance().Text
		t = symtype.Type{Super: symtype.Unresolved, SubType: name}
		if p.atSym("<") {
			p.advance()
			for !p.atSym(">") && !p.atEOF() {
				t.TemplateArgs = append(t.TemplateArgs, p.parseType())
				if !p.eatSym(",") {
					break
				}
			}
			p.expectSym(">")
		}
	default:
		p.error(fmt.Sprintf("expected type, got %q", p.cur().Text))
	}
	if isConst {
		t.Specs.Const = true
	}
	for {
		switch {
		case p.atSym("*"):
			p.advance()
			t = t.ToPointer()
		case p.atSym("&"):
			p.advance()
			t = t.ToReference()
		case p.atSym("["):
			p.advance()
			size := -1
			if p.cur().Kind == lexer.IntLit {
				v, _ := strconv.ParseInt(p.advance().Text, 10, 64)
				size = int(v)
			}
			p.expectSym("]")
			t = t.ToArray(size)
		default:
			return t
		}
	}
}

func (p *Parser) parseParams() []ast.Param {
	p.expectSym("(")
	var params []ast.Param
	for !p.atSym(")") && !p.atEOF() {
		loc := p.cur().Loc
		ty := p.parseType()
		name, _ := p.expectIdent()
		var def ast.Expr
		if p.eatSym("=") {
			def = p.parseExpr()
		}
		params = append(params, ast.Param{Name: name, Type: ty, DefaultValue: def, Loc: loc})
		if !p.eatSym(",") {
			break
		}
	}
	p.expectSym(")")
	return params
}

func (p *Parser) parseFunction() *ast.FunctionDecl {
	loc := p.cur().Loc
	isProcedure := p.atKw("p")
	p.advance() // f | p

	var templateTypes []string
	if p.atSym("<") {
		p.advance()
		for !p.atSym(">") && !p.atEOF() {
			name, _ := p.expectIdent()
			templateTypes = append(templateTypes, name)
			if !p.eatSym(",") {
				break
			}
		}
		p.expectSym(">")
	}

	name, _ := p.expectIdent()
	isCtor := name == "ctor"
	isDtor := name == "dtor"
	params := p.parseParams()

	var retType symtype.Type
	if !isProcedure && !p.atSym("{") {
		retType = p.parseType()
	}

	body := p.parseBlock()

	n := &ast.FunctionDecl{
		Name:          name,
		IsProcedure:   isProcedure,
		TemplateTypes: templateTypes,
		Params:        params,
		ReturnType:    retType,
		Body:          body,
		IsCtor:        isCtor,
		IsDtor:        isDtor,
	}
	n.CodeLoc = loc
	return n
}

func (p *Parser) parseStruct() *ast.StructDecl {
	loc := p.cur().Loc
	p.advance() // struct
	name, _ := p.expectIdent()

	var templateTypes []string
	if p.atSym("<") {
		p.advance()
		for !p.atSym(">") && !p.atEOF() {
			tn, _ := p.expectIdent()
			templateTypes = append(templateTypes, tn)
			if !p.eatSym(",") {
				break
			}
		}
		p.expectSym(">")
	}

	var interfaces []symtype.Type
	if p.eatSym(":") {
		for {
			interfaces = append(interfaces, p.parseType())
			if !p.eatSym(",") {
				break
			}
		}
	}

	p.expectSym("{")
	n := &ast.StructDecl{Name: name, TemplateTypes: templateTypes, Interfaces: interfaces}
	n.CodeLoc = loc
	for !p.atSym("}") && !p.atEOF() {
		public := p.eatKw("public")
		switch {
		case p.atKw("f") || p.atKw("p"):
			m := p.parseFunction()
			m.IsMethod = true
			m.IsPublic = public
			n.Methods = append(n.Methods, m)
		default:
			floc := p.cur().Loc
			ty := p.parseType()
			fname, _ := p.expectIdent()
			p.expectSym(";")
			n.Fields = append(n.Fields, ast.Field{Name: fname, Type: ty, IsPublic: public, Loc: floc})
		}
	}
	p.expectSym("}")
	return n
}

func (p *Parser) parseTypeAlias() *ast.TypeAliasDecl {
	loc := p.cur().Loc
	p.advance() // type
	name, _ := p.expectIdent()
	p.expectSym("=")
	target := p.parseType()
	p.expectSym(";")
	n := &ast.TypeAliasDecl{Name: name, Target: target}
	n.CodeLoc = loc
	return n
}

func (p *Parser) parseInterface() *ast.InterfaceDecl {
	loc := p.cur().Loc
	p.advance() // interface
	name, _ := p.expectIdent()
	p.expectSym("{")
	n := &ast.InterfaceDecl{Name: name}
	n.CodeLoc = loc
	for !p.atSym("}") && !p.atEOF() {
		m := p.parseFunction()
		m.IsMethod = true
		n.Methods = append(n.Methods, m)
	}
	p.expectSym("}")
	return n
}

func (p *Parser) parseEnum() *ast.EnumDecl {
	loc := p.cur().Loc
	p.advance() // enum
	name, _ := p.expectIdent()
	p.expectSym("{")
	n := &ast.EnumDecl{Name: name}
	n.CodeLoc = loc
	for !p.atSym("}") && !p.atEOF() {
		iloc := p.cur().Loc
		iname, _ := p.expectIdent()
		item := ast.EnumItem{Name: iname, Loc: iloc}
		if p.eatSym("=") {
			v, _ := strconv.ParseInt(p.advance().Text, 10, 64)
			item.Value = v
			item.HasExplicitValue = true
		}
		n.Items = append(n.Items, item)
		if !p.eatSym(",") {
			break
		}
	}
	p.expectSym("}")
	return n
}

func (p *Parser) parseBlock() *ast.Block {
	loc := p.expectSym("{")
	b := &ast.Block{}
	b.CodeLoc = loc
	for !p.atSym("}") && !p.atEOF() {
		before := p.pos
		if s := p.parseStmt(); s != nil {
			b.Stmts = append(b.Stmts, s)
		}
		if p.pos == before {
			p.synchronize()
		}
	}
	p.expectSym("}")
	return b
}
