package parser

import (
	"strconv"

	"github.com/spice-lang/spicec/internal/ast"
	"github.com/spice-lang/spicec/internal/cerr"
	"github.com/spice-lang/spicec/internal/lexer"
)

func (p *Parser) parseExpr() ast.Expr { return p.parseTernary() }

func (p *Parser) parseTernary() ast.Expr {
	loc := p.cur().Loc
	cond := p.parseLogicalOr()
	if p.eatSym("?") {
		then := p.parseExpr()
		p.expectSym(":")
		els := p.parseExpr()
		n := &ast.TernaryExpr{Cond: cond, Then: then, Else: els}
		n.CodeLoc = loc
		return n
	}
	return cond
}

// binLevel parses one left-associative binary precedence level: next is
// the parser function for the tighter-binding level below this one, and
// ops maps each accepted operator token to its ast.BinaryOp.
func (p *Parser) binLevel(next func() ast.Expr, ops map[string]ast.BinaryOp) ast.Expr {
	loc := p.cur().Loc
	lhs := next()
	for p.cur().Kind == lexer.Symbol {
		op, ok := ops[p.cur().Text]
		if !ok {
			break
		}
		p.advance()
		rhs := next()
		n := &ast.BinaryExpr{Lhs: lhs, Op: op, Rhs: rhs}
		n.CodeLoc = loc
		lhs = n
	}
	return lhs
}

func (p *Parser) parseLogicalOr() ast.Expr {
	return p.binLevel(p.parseLogicalAnd, map[string]ast.BinaryOp{"||": ast.BinLogicalOr})
}
func (p *Parser) parseLogicalAnd() ast.Expr {
	return p.binLevel(p.parseBitwiseOr, map[string]ast.BinaryOp{"&&": ast.BinLogicalAnd})
}
func (p *Parser) parseBitwiseOr() ast.Expr {
	return p.binLevel(p.parseBitwiseXor, map[string]ast.BinaryOp{"|": ast.BinBitwiseOr})
}
func (p *Parser) parseBitwiseXor() ast.Expr {
	return p.binLevel(p.parseBitwiseAnd, map[string]ast.BinaryOp{"^": ast.BinBitwiseXor})
}
func (p *Parser) parseBitwiseAnd() ast.Expr {
	return p.binLevel(p.parseEquality, map[string]ast.BinaryOp{"&": ast.BinBitwiseAnd})
}
func (p *Parser) parseEquality() ast.Expr {
	return p.binLevel(p.parseRelational, map[string]ast.BinaryOp{"==": ast.BinEqual, "!=": ast.BinNotEqual})
}
func (p *Parser) parseRelational() ast.Expr {
	return p.binLevel(p.parseShift, map[string]ast.BinaryOp{
		"<": ast.BinLess, ">": ast.BinGreater, "<=": ast.BinLessEqual, ">=": ast.BinGreaterEqual,
	})
}
func (p *Parser) parseShift() ast.Expr {
	return p.binLevel(p.parseAdditive, map[string]ast.BinaryOp{"<<": ast.BinShiftLeft, ">>": ast.BinShiftRight})
}
func (p *Parser) parseAdditive() ast.Expr {
	return p.binLevel(p.parseMultiplicative, map[string]ast.BinaryOp{"+": ast.BinPlus, "-": ast.BinMinus})
}
func (p *Parser) parseMultiplicative() ast.Expr {
	return p.binLevel(p.parseUnary, map[string]ast.BinaryOp{"*": ast.BinMul, "/": ast.BinDiv, "%": ast.BinRem})
}

var unaryOps = map[string]ast.UnaryOp{
	"-": ast.UnaryMinus, "!": ast.UnaryNot, "~": ast.UnaryBitwiseNot,
	"*": ast.UnaryDeref, "&": ast.UnaryAddrOf,
}

func (p *Parser) parseUnary() ast.Expr {
	loc := p.cur().Loc
	switch {
	case p.atSym("++"):
		p.advance()
		n := &ast.UnaryExpr{Op: ast.UnaryPlusPlus, Operand: p.parseUnary()}
		n.CodeLoc = loc
		return n
	case p.atSym("--"):
		p.advance()
		n := &ast.UnaryExpr{Op: ast.UnaryMinusMinus, Operand: p.parseUnary()}
		n.CodeLoc = loc
		return n
	case p.cur().Kind == lexer.Symbol:
		if op, ok := unaryOps[p.cur().Text]; ok {
			p.advance()
			n := &ast.UnaryExpr{Op: op, Operand: p.parseUnary()}
			n.CodeLoc = loc
			return n
		}
	}
	if p.atSym("(") && p.isCastAhead() {
		p.advance()
		ty := p.parseType()
		p.expectSym(")")
		n := &ast.CastExpr{TargetType: ty, Operand: p.parseUnary()}
		n.CodeLoc = loc
		return n
	}
	return p.parsePostfix()
}

// isCastAhead reports whether the tokens following the `(` just seen spell
// a type immediately closed by `)` — the only shape that distinguishes a
// cast `(Type) expr` from a parenthesized sub-expression at one token of
// lookahead.
func (p *Parser) isCastAhead() bool {
	save := p.pos
	defer func() { p.pos = save }()
	p.advance() // (
	if !p.isTypeStart() {
		return false
	}
	_ = p.parseType()
	return p.atSym(")")
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		loc := p.cur().Loc
		switch {
		case p.atSym("."):
			p.advance()
			field, _ := p.expectIdent()
			n := &ast.FieldAccessExpr{Receiver: expr, FieldName: field}
			n.CodeLoc = loc
			expr = n
		case p.atSym("["):
			p.advance()
			idx := p.parseExpr()
			p.expectSym("]")
			n := &ast.IndexExpr{Array: expr, Index: idx}
			n.CodeLoc = loc
			expr = n
		case p.atSym("("):
			args := p.parseArgs()
			n := &ast.CallExpr{Callee: expr, Args: args}
			n.CodeLoc = loc
			expr = n
		case p.atSym("++"):
			p.advance()
			n := &ast.PostfixExpr{Op: ast.PostfixPlusPlus, Operand: expr}
			n.CodeLoc = loc
			expr = n
		case p.atSym("--"):
			p.advance()
			n := &ast.PostfixExpr{Op: ast.PostfixMinusMinus, Operand: expr}
			n.CodeLoc = loc
			expr = n
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgs() []ast.Expr {
	p.expectSym("(")
	var args []ast.Expr
	for !p.atSym(")") && !p.atEOF() {
		args = append(args, p.parseExpr())
		if !p.eatSym(",") {
			break
		}
	}
	p.expectSym(")")
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	loc := p.cur().Loc
	switch {
	case p.cur().Kind == lexer.IntLit:
		text := p.advance().Text
		isLong := hasSuffix(text, "lL")
		isShort := hasSuffix(text, "sS")
		isUnsigned := hasSuffix(text, "uU")
		v, _ := strconv.ParseInt(trimNumSuffix(text), 10, 64)
		n := &ast.IntLit{Value: v, IsLong: isLong, IsShort: isShort, IsUnsigned: isUnsigned}
		n.CodeLoc = loc
		return n
	case p.cur().Kind == lexer.DoubleLit:
		text := p.advance().Text
		v, _ := strconv.ParseFloat(text, 64)
		n := &ast.DoubleLit{Value: v}
		n.CodeLoc = loc
		return n
	case p.cur().Kind == lexer.StringLit:
		n := &ast.StringLit{Value: p.advance().Text}
		n.CodeLoc = loc
		return n
	case p.cur().Kind == lexer.CharLit:
		text := p.advance().Text
		var b byte
		if len(text) > 0 {
			b = text[0]
		}
		n := &ast.CharLit{Value: b}
		n.CodeLoc = loc
		return n
	case p.atKw("true") || p.atKw("false"):
		n := &ast.BoolLit{Value: p.atKw("true")}
		p.advance()
		n.CodeLoc = loc
		return n
	case p.atKw("this"):
		p.advance()
		n := &ast.ThisExpr{}
		n.CodeLoc = loc
		return n
	case p.atKw("sizeof"):
		return p.parseSizeof()
	case p.atKw("alignof"):
		return p.parseAlignof()
	case p.atKw("len"):
		p.advance()
		p.expectSym("(")
		e := p.parseExpr()
		p.expectSym(")")
		n := &ast.LenExpr{Operand: e}
		n.CodeLoc = loc
		return n
	case p.atSym("("):
		p.advance()
		e := p.parseExpr()
		p.expectSym(")")
		return e
	case p.atSym("{"):
		return p.parseArrayLit()
	case p.cur().Kind == lexer.Ident:
		name := p.advance().Text
		if p.atSym("{") {
			return p.parseStructLit(name, loc)
		}
		n := &ast.Ident{Name: name}
		n.CodeLoc = loc
		return n
	default:
		p.error("expected expression, got " + p.cur().Text)
		p.advance()
		n := &ast.Ident{Name: "<error>"}
		n.CodeLoc = loc
		return n
	}
}

func (p *Parser) parseSizeof() ast.Expr {
	loc := p.cur().Loc
	p.advance() // sizeof
	p.expectSym("(")
	n := &ast.SizeofExpr{}
	n.CodeLoc = loc
	if p.eatKw("type") {
		n.OperandType = p.parseType()
		n.IsTypeArg = true
	} else {
		n.Operand = p.parseExpr()
	}
	p.expectSym(")")
	return n
}

func (p *Parser) parseAlignof() ast.Expr {
	loc := p.cur().Loc
	p.advance() // alignof
	p.expectSym("(")
	p.eatKw("type")
	ty := p.parseType()
	p.expectSym(")")
	n := &ast.AlignofExpr{OperandType: ty}
	n.CodeLoc = loc
	return n
}

func (p *Parser) parseArrayLit() *ast.ArrayLit {
	loc := p.expectSym("{")
	n := &ast.ArrayLit{}
	n.CodeLoc = loc
	for !p.atSym("}") && !p.atEOF() {
		n.Items = append(n.Items, p.parseExpr())
		if !p.eatSym(",") {
			break
		}
	}
	p.expectSym("}")
	return n
}

func (p *Parser) parseStructLit(name string, loc cerr.CodeLoc) *ast.StructLit {
	p.expectSym("{")
	n := &ast.StructLit{StructName: name}
	n.CodeLoc = loc
	for !p.atSym("}") && !p.atEOF() {
		fieldName := ""
		if p.cur().Kind == lexer.Ident && p.peekIsColon() {
			fieldName = p.advance().Text
			p.advance() // :
		}
		n.FieldNames = append(n.FieldNames, fieldName)
		n.FieldValues = append(n.FieldValues, p.parseExpr())
		if !p.eatSym(",") {
			break
		}
	}
	p.expectSym("}")
	return n
}

func (p *Parser) peekIsColon() bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}
	next := p.toks[p.pos+1]
	return next.Kind == lexer.Symbol && next.Text == ":"
}

func hasSuffix(text, chars string) bool {
	if len(text) == 0 {
		return false
	}
	last := text[len(text)-1]
	for i := 0; i < len(chars); i++ {
		if chars[i] == last {
			return true
		}
	}
	return false
}

func trimNumSuffix(text string) string {
	end := len(text)
	for end > 0 && !isDigitByte(text[end-1]) {
		end--
	}
	return text[:end]
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }
