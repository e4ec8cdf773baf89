package irgen

import (
	"github.com/spice-lang/spicec/internal/ast"
	"github.com/spice-lang/spicec/internal/symtype"
)

// These six declaration-kind Visitor methods are unreachable no-ops,
// present only to satisfy the interface: globals, struct manifestations and
// function manifestations are lowered directly from VisitFile's own loops
// rather than through Accept, and interfaces, enums and type aliases emit
// no IR at all.
func (g *Generator) VisitFunctionDecl(n *ast.FunctionDecl) any   { return nil }
func (g *Generator) VisitStructDecl(n *ast.StructDecl) any      { return nil }
func (g *Generator) VisitInterfaceDecl(n *ast.InterfaceDecl) any { return nil }
func (g *Generator) VisitEnumDecl(n *ast.EnumDecl) any          { return nil }
func (g *Generator) VisitGlobalVarDecl(n *ast.GlobalVarDecl) any { return nil }
func (g *Generator) VisitTypeAliasDecl(n *ast.TypeAliasDecl) any { return nil }

func (g *Generator) VisitBlock(n *ast.Block) any {
	g.fb.pushScope()
	for _, s := range n.Stmts {
		s.Accept(g)
	}
	g.fb.popScope()
	return nil
}

func (g *Generator) VisitVarDecl(n *ast.VarDecl) any {
	ty := n.Type
	if ty.Super == symtype.Invalid && n.Initializer != nil {
		ty = g.evalType(n.Initializer)
	}
	llty := llvmTypeName(ty)
	addr := g.fb.declareLocal(n.Name, llty)
	if n.Initializer != nil {
		v := g.eval(n.Initializer)
		g.fb.emit("store %s %s, %s* %%%s", llty, v.Text, llty, addr)
	} else {
		g.fb.emit("store %s zeroinitializer, %s* %%%s", llty, llty, addr)
	}
	return nil
}

func (g *Generator) VisitAssignStmt(n *ast.AssignStmt) any {
	addr, ty := g.lvalueAddr(n.Lhs)
	rhs := g.eval(n.Rhs)
	if n.Op == ast.Assign {
		g.fb.emit("store %s %s, %s* %s", ty, rhs.Text, ty, addr)
		return nil
	}
	cur := g.fb.freshTemp()
	g.fb.emit("%%%s = load %s, %s* %s", cur, ty, ty, addr)
	mnem, isFloat := compoundMnemonic(n.Op)
	if isFloat {
		mnem = "f" + mnem
	}
	updated := g.fb.freshTemp()
	g.fb.emit("%%%s = %s %s %%%s, %s", updated, mnem, ty, cur, rhs.Text)
	g.fb.emit("store %s %%%s, %s* %s", ty, updated, ty, addr)
	return nil
}

func compoundMnemonic(op ast.AssignOp) (mnem string, isArithmeticFloatCandidate bool) {
	switch op {
	case ast.PlusEqual:
		return "add", true
	case ast.MinusEqual:
		return "sub", true
	case ast.MulEqual:
		return "mul", true
	case ast.DivEqual:
		return "sdiv", true
	case ast.RemEqual:
		return "srem", false
	case ast.ShlEqual:
		return "shl", false
	case ast.ShrEqual:
		return "ashr", false
	case ast.AndEqual:
		return "and", false
	case ast.OrEqual:
		return "or", false
	case ast.XorEqual:
		return "xor", false
	default:
		return "add", false
	}
}

// lvalueAddr resolves the assignable address and IR type of an lvalue
// expression: a local/global name, a field access, or an array index.
func (g *Generator) lvalueAddr(e ast.Expr) (addr, ty string) {
	switch v := e.(type) {
	case *ast.Ident:
		if reg, llty, ok := g.fb.lookupLocal(v.Name); ok {
			return "%" + reg, llty
		}
		llty := llvmTypeName(g.evalType(v))
		return "@" + v.Name, llty
	case *ast.FieldAccessExpr:
		return g.fieldAddr(v)
	case *ast.IndexExpr:
		return g.indexAddr(v)
	case *ast.UnaryExpr:
		if v.Op == ast.UnaryDeref {
			val := g.eval(v.Operand)
			return val.Text, llvmTypeName(g.evalType(e))
		}
	}
	val := g.eval(e)
	return val.Text, llvmTypeName(val.Type)
}

func (g *Generator) VisitIfStmt(n *ast.IfStmt) any {
	cond := g.eval(n.Cond)
	thenLbl := g.fb.freshLabel("if.then")
	endLbl := g.fb.freshLabel("if.end")
	elseLbl := endLbl
	if n.Else != nil {
		elseLbl = g.fb.freshLabel("if.else")
	}
	g.fb.emit("br i1 %s, label %%%s, label %%%s", cond.Text, thenLbl, elseLbl)
	g.fb.label(thenLbl)
	n.Then.Accept(g)
	g.fb.emit("br label %%%s", endLbl)
	if n.Else != nil {
		g.fb.label(elseLbl)
		n.Else.Accept(g)
		g.fb.emit("br label %%%s", endLbl)
	}
	g.fb.label(endLbl)
	return nil
}

func (g *Generator) pushLoop(endLbl, condLbl string) {
	g.loopEnds = append(g.loopEnds, endLbl)
	g.loopConds = append(g.loopConds, condLbl)
}

func (g *Generator) popLoop() {
	g.loopEnds = g.loopEnds[:len(g.loopEnds)-1]
	g.loopConds = g.loopConds[:len(g.loopConds)-1]
}

func (g *Generator) VisitWhileStmt(n *ast.WhileStmt) any {
	condLbl := g.fb.freshLabel("while.cond")
	bodyLbl := g.fb.freshLabel("while.body")
	endLbl := g.fb.freshLabel("while.end")

	g.fb.emit("br label %%%s", condLbl)
	g.fb.label(condLbl)
	cond := g.eval(n.Cond)
	g.fb.emit("br i1 %s, label %%%s, label %%%s", cond.Text, bodyLbl, endLbl)
	g.fb.label(bodyLbl)
	g.pushLoop(endLbl, condLbl)
	n.Body.Accept(g)
	g.popLoop()
	g.fb.emit("br label %%%s", condLbl)
	g.fb.label(endLbl)
	return nil
}

func (g *Generator) VisitDoWhileStmt(n *ast.DoWhileStmt) any {
	bodyLbl := g.fb.freshLabel("dowhile.body")
	condLbl := g.fb.freshLabel("dowhile.cond")
	endLbl := g.fb.freshLabel("dowhile.end")

	g.fb.emit("br label %%%s", bodyLbl)
	g.fb.label(bodyLbl)
	g.pushLoop(endLbl, condLbl)
	n.Body.Accept(g)
	g.popLoop()
	g.fb.emit("br label %%%s", condLbl)
	g.fb.label(condLbl)
	cond := g.eval(n.Cond)
	g.fb.emit("br i1 %s, label %%%s, label %%%s", cond.Text, bodyLbl, endLbl)
	g.fb.label(endLbl)
	return nil
}

func (g *Generator) VisitForStmt(n *ast.ForStmt) any {
	g.fb.pushScope()
	if n.Init != nil {
		n.Init.Accept(g)
	}
	condLbl := g.fb.freshLabel("for.cond")
	bodyLbl := g.fb.freshLabel("for.body")
	incLbl := g.fb.freshLabel("for.inc")
	endLbl := g.fb.freshLabel("for.end")

	g.fb.emit("br label %%%s", condLbl)
	g.fb.label(condLbl)
	if n.Cond != nil {
		cond := g.eval(n.Cond)
		g.fb.emit("br i1 %s, label %%%s, label %%%s", cond.Text, bodyLbl, endLbl)
	} else {
		g.fb.emit("br label %%%s", bodyLbl)
	}
	g.fb.label(bodyLbl)
	g.pushLoop(endLbl, incLbl)
	n.Body.Accept(g)
	g.popLoop()
	g.fb.emit("br label %%%s", incLbl)
	g.fb.label(incLbl)
	if n.Inc != nil {
		n.Inc.Accept(g)
	}
	g.fb.emit("br label %%%s", condLbl)
	g.fb.label(endLbl)
	g.fb.popScope()
	return nil
}

func (g *Generator) VisitForeachStmt(n *ast.ForeachStmt) any {
	g.fb.pushScope()
	iterable := g.eval(n.Iterable)
	idxName := n.IdxName
	if !n.HasIdx {
		idxName = "idx"
	}
	idxAddr := g.fb.declareLocal(idxName, "i32")
	g.fb.emit("store i32 0, i32* %%%s", idxAddr)

	elemTy := llvmTypeName(g.evalType(n.Iterable).RemoveArray())
	itemAddr := g.fb.declareLocal(n.ItemName, elemTy)

	condLbl := g.fb.freshLabel("foreach.cond")
	bodyLbl := g.fb.freshLabel("foreach.body")
	incLbl := g.fb.freshLabel("foreach.inc")
	endLbl := g.fb.freshLabel("foreach.end")

	lenReg := g.fb.freshTemp()
	g.fb.emit("; %%%s = length of %s", lenReg, iterable.Text)

	g.fb.emit("br label %%%s", condLbl)
	g.fb.label(condLbl)
	idxVal := g.fb.freshTemp()
	g.fb.emit("%%%s = load i32, i32* %%%s", idxVal, idxAddr)
	cmp := g.fb.freshTemp()
	g.fb.emit("%%%s = icmp slt i32 %%%s, %%%s", cmp, idxVal, lenReg)
	g.fb.emit("br i1 %%%s, label %%%s, label %%%s", cmp, bodyLbl, endLbl)
	g.fb.label(bodyLbl)
	elemAddr := g.fb.freshTemp()
	g.fb.emit("%%%s = getelementptr %s, %s* %s, i32 0, i32 %%%s", elemAddr, llvmTypeName(iterable.Type), llvmTypeName(iterable.Type), iterable.Text, idxVal)
	elemVal := g.fb.freshTemp()
	g.fb.emit("%%%s = load %s, %s* %%%s", elemVal, elemTy, elemTy, elemAddr)
	g.fb.emit("store %s %%%s, %s* %%%s", elemTy, elemVal, elemTy, itemAddr)
	g.pushLoop(endLbl, incLbl)
	n.Body.Accept(g)
	g.popLoop()
	g.fb.emit("br label %%%s", incLbl)
	g.fb.label(incLbl)
	nextIdx := g.fb.freshTemp()
	g.fb.emit("%%%s = add i32 %%%s, 1", nextIdx, idxVal)
	g.fb.emit("store i32 %%%s, i32* %%%s", nextIdx, idxAddr)
	g.fb.emit("br label %%%s", condLbl)
	g.fb.label(endLbl)
	g.fb.popScope()
	return nil
}

func (g *Generator) VisitReturnStmt(n *ast.ReturnStmt) any {
	if n.Expr == nil {
		addr, ty, ok := g.fb.lookupLocal(returnLocalName)
		if !ok {
			g.fb.emit("ret void")
			return nil
		}
		loaded := g.fb.freshTemp()
		g.fb.emit("%%%s = load %s, %s* %%%s", loaded, ty, ty, addr)
		g.fb.emit("ret %s %%%s", ty, loaded)
		return nil
	}
	v := g.eval(n.Expr)
	g.fb.emit("ret %s %s", llvmTypeName(v.Type), v.Text)
	return nil
}

func (g *Generator) VisitBreakStmt(n *ast.BreakStmt) any {
	count := n.Count
	if count <= 0 {
		count = 1
	}
	idx := len(g.loopEnds) - count
	if idx < 0 {
		idx = 0
	}
	if len(g.loopEnds) > 0 {
		g.fb.emit("br label %%%s", g.loopEnds[idx])
	}
	return nil
}

func (g *Generator) VisitContinueStmt(n *ast.ContinueStmt) any {
	count := n.Count
	if count <= 0 {
		count = 1
	}
	idx := len(g.loopConds) - count
	if idx < 0 {
		idx = 0
	}
	if len(g.loopConds) > 0 {
		g.fb.emit("br label %%%s", g.loopConds[idx])
	}
	return nil
}

// VisitPrintfStmt lowers printf's arguments per spec §4.11: an array
// argument passes the address of its first element, and a sub-32-bit
// integer is extended to i32. A string is already an i8* in this IR (there
// is no string struct), so a string argument is passed unchanged; no
// field-0 load is emitted.
func (g *Generator) VisitPrintfStmt(n *ast.PrintfStmt) any {
	fmtName := g.internString(n.Format)
	args := make([]string, 0, len(n.Args)+1)
	args = append(args, fmt_i8ptr(fmtName))
	for _, a := range n.Args {
		v := g.eval(a)
		args = append(args, g.printfArg(v))
	}
	g.fb.emit("call i32 (i8*, ...) @printf(%s)", joinArgs(args))
	return nil
}

func fmt_i8ptr(name string) string {
	return "i8* @" + name
}

func (g *Generator) printfArg(v Val) string {
	switch {
	case v.Type.IsArray():
		elemTy := llvmTypeName(v.Type.RemoveArray())
		reg := g.fb.freshTemp()
		g.fb.emit("%%%s = getelementptr %s, %s* %s, i32 0, i32 0", reg, llvmTypeName(v.Type), llvmTypeName(v.Type), v.Text)
		return elemTy + "* %" + reg
	case v.Type.Super == symtype.String:
		return "i8* " + v.Text
	case sizeOf(v.Type) < 4:
		reg := g.fb.freshTemp()
		g.fb.emit("%%%s = sext %s %s to i32", reg, llvmTypeName(v.Type), v.Text)
		return "i32 %" + reg
	default:
		return llvmTypeName(v.Type) + " " + v.Text
	}
}

func (g *Generator) VisitUnsafeBlock(n *ast.UnsafeBlock) any {
	n.Body.Accept(g)
	return nil
}

func (g *Generator) VisitExprStmt(n *ast.ExprStmt) any {
	g.eval(n.Expr)
	return nil
}
