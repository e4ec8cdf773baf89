package parser

import (
	"github.com/spice-lang/spicec/internal/ast"
	"github.com/spice-lang/spicec/internal/lexer"
)

func (p *Parser) parseStmt() ast.Stmt {
	switch {
	case p.atSym("{"):
		return p.parseBlock()
	case p.atKw("if"):
		return p.parseIf()
	case p.atKw("while"):
		return p.parseWhile()
	case p.atKw("do"):
		return p.parseDoWhile()
	case p.atKw("for"):
		return p.parseFor()
	case p.atKw("foreach"):
		return p.parseForeach()
	case p.atKw("return"):
		return p.parseReturn()
	case p.atKw("break"):
		return p.parseBreak()
	case p.atKw("continue"):
		return p.parseContinue()
	case p.atKw("printf"):
		return p.parsePrintf()
	case p.atKw("unsafe"):
		return p.parseUnsafe()
	case p.atKw("const") || (p.isTypeStart() && p.looksLikeVarDecl()):
		return p.parseVarDecl()
	default:
		return p.parseExprOrAssignStmt()
	}
}

// looksLikeVarDecl disambiguates `Type name ...;` from a bare expression
// statement starting with an identifier (a call or assignment target):
// a local declaration is always followed by another identifier before any
// operator.
func (p *Parser) looksLikeVarDecl() bool {
	if p.cur().Kind != lexer.Ident {
		return true // primitive type keyword
	}
	save := p.pos
	defer func() { p.pos = save }()
	p.advance()
	for p.atSym("<") || p.atSym("*") || p.atSym("&") || p.atSym("[") {
		switch {
		case p.atSym("<"):
			depth := 1
			p.advance()
			for depth > 0 && !p.atEOF() {
				if p.atSym("<") {
					depth++
				} else if p.atSym(">") {
					depth--
				}
				p.advance()
			}
		case p.atSym("["):
			p.advance()
			for !p.atSym("]") && !p.atEOF() {
				p.advance()
			}
			if p.atSym("]") {
				p.advance()
			}
		default:
			p.advance()
		}
	}
	return p.cur().Kind == lexer.Ident
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	loc := p.cur().Loc
	ty := p.parseType()
	name, _ := p.expectIdent()
	var init ast.Expr
	if p.eatSym("=") {
		init = p.parseExpr()
	}
	p.expectSym(";")
	n := &ast.VarDecl{Name: name, Type: ty, IsConst: ty.Specs.Const, Initializer: init}
	n.CodeLoc = loc
	return n
}

var assignOps = map[string]ast.AssignOp{
	"=": ast.Assign, "+=": ast.PlusEqual, "-=": ast.MinusEqual,
	"*=": ast.MulEqual, "/=": ast.DivEqual, "%=": ast.RemEqual,
	"<<=": ast.ShlEqual, ">>=": ast.ShrEqual,
	"&=": ast.AndEqual, "|=": ast.OrEqual, "^=": ast.XorEqual,
}

func (p *Parser) parseExprOrAssignStmt() ast.Stmt {
	loc := p.cur().Loc
	lhs := p.parseExpr()
	if p.cur().Kind == lexer.Symbol {
		if op, ok := assignOps[p.cur().Text]; ok {
			p.advance()
			rhs := p.parseExpr()
			p.expectSym(";")
			n := &ast.AssignStmt{Lhs: lhs, Op: op, Rhs: rhs}
			n.CodeLoc = loc
			return n
		}
	}
	p.expectSym(";")
	n := &ast.ExprStmt{Expr: lhs}
	n.CodeLoc = loc
	return n
}

func (p *Parser) parseIf() *ast.IfStmt {
	loc := p.cur().Loc
	p.advance() // if
	p.expectSym("(")
	cond := p.parseExpr()
	p.expectSym(")")
	then := p.parseBlock()
	var elseStmt ast.Stmt
	if p.eatKw("else") {
		if p.atKw("if") {
			elseStmt = p.parseIf()
		} else {
			elseStmt = p.parseBlock()
		}
	}
	n := &ast.IfStmt{Cond: cond, Then: then, Else: elseStmt}
	n.CodeLoc = loc
	return n
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	loc := p.cur().Loc
	p.advance() // while
	p.expectSym("(")
	cond := p.parseExpr()
	p.expectSym(")")
	body := p.parseBlock()
	n := &ast.WhileStmt{Cond: cond, Body: body}
	n.CodeLoc = loc
	return n
}

func (p *Parser) parseDoWhile() *ast.DoWhileStmt {
	loc := p.cur().Loc
	p.advance() // do
	body := p.parseBlock()
	if !p.eatKw("while") {
		p.error("expected 'while' after do-block")
	}
	p.expectSym("(")
	cond := p.parseExpr()
	p.expectSym(")")
	p.expectSym(";")
	n := &ast.DoWhileStmt{Body: body, Cond: cond}
	n.CodeLoc = loc
	return n
}

func (p *Parser) parseFor() *ast.ForStmt {
	loc := p.cur().Loc
	p.advance() // for
	p.expectSym("(")
	var init ast.Stmt
	if !p.atSym(";") {
		if p.isTypeStart() && p.looksLikeVarDecl() {
			init = p.parseVarDecl()
		} else {
			init = p.parseExprOrAssignStmt()
		}
	} else {
		p.advance()
	}
	var cond ast.Expr
	if !p.atSym(";") {
		cond = p.parseExpr()
	}
	p.expectSym(";")
	var inc ast.Stmt
	if !p.atSym(")") {
		iloc := p.cur().Loc
		lhs := p.parseExpr()
		if op, ok := assignOps[p.cur().Text]; ok && p.cur().Kind == lexer.Symbol {
			p.advance()
			rhs := p.parseExpr()
			n := &ast.AssignStmt{Lhs: lhs, Op: op, Rhs: rhs}
			n.CodeLoc = iloc
			inc = n
		} else {
			n := &ast.ExprStmt{Expr: lhs}
			n.CodeLoc = iloc
			inc = n
		}
	}
	p.expectSym(")")
	body := p.parseBlock()
	n := &ast.ForStmt{Init: init, Cond: cond, Inc: inc, Body: body}
	n.CodeLoc = loc
	return n
}

func (p *Parser) parseForeach() *ast.ForeachStmt {
	loc := p.cur().Loc
	p.advance() // foreach
	p.expectSym("(")
	first, _ := p.expectIdent()
	idxName, itemName := "", first
	hasIdx := false
	if p.eatSym(",") {
		second, _ := p.expectIdent()
		idxName, itemName, hasIdx = first, second, true
	}
	if !p.eatSym(":") {
		p.error("expected ':' in foreach")
	}
	iterable := p.parseExpr()
	p.expectSym(")")
	body := p.parseBlock()
	n := &ast.ForeachStmt{IdxName: idxName, ItemName: itemName, HasIdx: hasIdx, Iterable: iterable, Body: body}
	n.CodeLoc = loc
	return n
}

func (p *Parser) parseReturn() *ast.ReturnStmt {
	loc := p.cur().Loc
	p.advance() // return
	var e ast.Expr
	if !p.atSym(";") {
		e = p.parseExpr()
	}
	p.expectSym(";")
	n := &ast.ReturnStmt{Expr: e}
	n.CodeLoc = loc
	return n
}

func (p *Parser) parseBreak() *ast.BreakStmt {
	loc := p.cur().Loc
	p.advance() // break
	count := 1
	if p.cur().Kind == lexer.IntLit {
		count = atoiOrOne(p.advance().Text)
	}
	p.expectSym(";")
	n := &ast.BreakStmt{Count: count}
	n.CodeLoc = loc
	return n
}

func (p *Parser) parseContinue() *ast.ContinueStmt {
	loc := p.cur().Loc
	p.advance() // continue
	count := 1
	if p.cur().Kind == lexer.IntLit {
		count = atoiOrOne(p.advance().Text)
	}
	p.expectSym(";")
	n := &ast.ContinueStmt{Count: count}
	n.CodeLoc = loc
	return n
}

func (p *Parser) parsePrintf() *ast.PrintfStmt {
	loc := p.cur().Loc
	p.advance() // printf
	p.expectSym("(")
	format := ""
	if p.cur().Kind == lexer.StringLit {
		format = p.advance().Text
	} else {
		p.error("expected format string literal")
	}
	var args []ast.Expr
	for p.eatSym(",") {
		args = append(args, p.parseExpr())
	}
	p.expectSym(")")
	p.expectSym(";")
	n := &ast.PrintfStmt{Format: format, Args: args}
	n.CodeLoc = loc
	return n
}

func (p *Parser) parseUnsafe() *ast.UnsafeBlock {
	loc := p.cur().Loc
	p.advance() // unsafe
	body := p.parseBlock()
	n := &ast.UnsafeBlock{Body: body}
	n.CodeLoc = loc
	return n
}

func atoiOrOne(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 1
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return 1
	}
	return n
}
