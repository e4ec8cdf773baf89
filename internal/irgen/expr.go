package irgen

import (
	"fmt"

	"github.com/spice-lang/spicec/internal/ast"
	"github.com/spice-lang/spicec/internal/symtype"
)

// Val is one already-lowered operand: text ready to splice directly into
// an instruction (a virtual register, a literal, or a global reference)
// plus the symtype.Type internal/typecheck resolved for it.
type Val struct {
	Text string
	Type symtype.Type
}

// typed mirrors internal/typecheck's own helper interface: every concrete
// ast node exposes its per-manifestation evaluated type through the
// promoted methods on the embedded base.
type typed interface {
	GetEvaluatedType(idx ast.ManIdx) (symtype.Type, bool)
}

func (g *Generator) evalType(n ast.Node) symtype.Type {
	if t, ok := n.(typed); ok {
		if ty, found := t.GetEvaluatedType(g.manIdx); found {
			return ty
		}
	}
	return symtype.TypeInvalid
}

func (g *Generator) eval(e ast.Expr) Val {
	result := e.Accept(g)
	if v, ok := result.(Val); ok {
		return v
	}
	return Val{Text: "undef", Type: g.evalType(e)}
}

func (g *Generator) VisitIdent(n *ast.Ident) any {
	reg, ty, ok := g.fb.lookupLocal(n.Name)
	t := g.evalType(n)
	if !ok {
		// A global or an un-lowered reference: load straight from @name.
		loaded := g.fb.freshTemp()
		llty := llvmTypeName(t)
		g.fb.emit("%%%s = load %s, %s* @%s", loaded, llty, llty, n.Name)
		return Val{Text: "%" + loaded, Type: t}
	}
	loaded := g.fb.freshTemp()
	g.fb.emit("%%%s = load %s, %s* %%%s", loaded, ty, ty, reg)
	return Val{Text: "%" + loaded, Type: t}
}

func (g *Generator) VisitIntLit(n *ast.IntLit) any {
	t := symtype.TypeInt
	switch {
	case n.IsLong:
		t = symtype.TypeLong
	case n.IsShort:
		t = symtype.TypeShort
	}
	return Val{Text: fmt.Sprintf("%d", n.Value), Type: t}
}

func (g *Generator) VisitDoubleLit(n *ast.DoubleLit) any {
	return Val{Text: fmt.Sprintf("%g", n.Value), Type: symtype.TypeDouble}
}

func (g *Generator) VisitStringLit(n *ast.StringLit) any {
	name := g.internString(n.Value)
	return Val{Text: "@" + name, Type: symtype.TypeString}
}

func (g *Generator) VisitBoolLit(n *ast.BoolLit) any {
	if n.Value {
		return Val{Text: "true", Type: symtype.TypeBool}
	}
	return Val{Text: "false", Type: symtype.TypeBool}
}

func (g *Generator) VisitCharLit(n *ast.CharLit) any {
	return Val{Text: fmt.Sprintf("%d", n.Value), Type: symtype.TypeChar}
}

// internString registers n.Value as a global constant i8 array, returning
// its name (spec §4.11 printf lowering needs the embedded char pointer of
// a string literal operand).
func (g *Generator) internString(value string) string {
	name := fmt.Sprintf(".str.%d", len(g.mod.Globals))
	g.mod.Globals = append(g.mod.Globals, Global{
		Name:     name,
		Type:     fmt.Sprintf("[%d x i8]", len(value)+1),
		Const:    true,
		HasValue: true,
		Init:     fmt.Sprintf("c%q\\00", value),
	})
	return name
}

func (g *Generator) VisitThisExpr(n *ast.ThisExpr) any {
	reg, ty, ok := g.fb.lookupLocal(thisParamName)
	if !ok {
		return Val{Text: "undef", Type: g.evalType(n)}
	}
	loaded := g.fb.freshTemp()
	g.fb.emit("%%%s = load %s, %s* %%%s", loaded, ty, ty, reg)
	return Val{Text: "%" + loaded, Type: g.evalType(n)}
}

func (g *Generator) VisitTernaryExpr(n *ast.TernaryExpr) any {
	cond := g.eval(n.Cond)
	resultTy := llvmTypeName(g.evalType(n))
	thenLbl := g.fb.freshLabel("ternary.then")
	elseLbl := g.fb.freshLabel("ternary.else")
	endLbl := g.fb.freshLabel("ternary.end")
	resultAddr := g.fb.declareLocal(fmt.Sprintf("ternary.%s", g.fb.freshTemp()), resultTy)

	g.fb.emit("br i1 %s, label %%%s, label %%%s", cond.Text, thenLbl, elseLbl)
	g.fb.label(thenLbl)
	thenVal := g.eval(n.Then)
	g.fb.emit("store %s %s, %s* %%%s", resultTy, thenVal.Text, resultTy, resultAddr)
	g.fb.emit("br label %%%s", endLbl)
	g.fb.label(elseLbl)
	elseVal := g.eval(n.Else)
	g.fb.emit("store %s %s, %s* %%%s", resultTy, elseVal.Text, resultTy, resultAddr)
	g.fb.emit("br label %%%s", endLbl)
	g.fb.label(endLbl)

	loaded := g.fb.freshTemp()
	g.fb.emit("%%%s = load %s, %s* %%%s", loaded, resultTy, resultTy, resultAddr)
	return Val{Text: "%" + loaded, Type: g.evalType(n)}
}

var binOpMnemonic = map[ast.BinaryOp]string{
	ast.BinBitwiseAnd:    "and",
	ast.BinBitwiseOr:     "or",
	ast.BinBitwiseXor:    "xor",
	ast.BinShiftLeft:     "shl",
	ast.BinShiftRight:    "ashr",
	ast.BinPlus:          "add",
	ast.BinMinus:         "sub",
	ast.BinMul:           "mul",
	ast.BinDiv:           "sdiv",
	ast.BinRem:           "srem",
}

var binOpCmp = map[ast.BinaryOp]string{
	ast.BinEqual:        "eq",
	ast.BinNotEqual:     "ne",
	ast.BinLess:         "slt",
	ast.BinGreater:      "sgt",
	ast.BinLessEqual:    "sle",
	ast.BinGreaterEqual: "sge",
}

func (g *Generator) VisitBinaryExpr(n *ast.BinaryExpr) any {
	lhs := g.eval(n.Lhs)
	resultTy := llvmTypeName(g.evalType(n))

	if n.Op == ast.BinLogicalAnd || n.Op == ast.BinLogicalOr {
		return g.emitShortCircuit(n, lhs)
	}

	rhs := g.eval(n.Rhs)

	if n.ChosenOverload != nil {
		reg := g.fb.freshTemp()
		g.fb.emit("%%%s = call %s @%s(%s %s, %s %s)", reg, resultTy, n.ChosenOverload.MangledName,
			llvmTypeName(lhs.Type), lhs.Text, llvmTypeName(rhs.Type), rhs.Text)
		return Val{Text: "%" + reg, Type: g.evalType(n)}
	}

	lty := llvmTypeName(lhs.Type)
	if n.Op == ast.BinPlus && lhs.Type.Super == symtype.String {
		reg := g.fb.freshTemp()
		g.fb.emit("%%%s = call i8* @__spice_strcat(i8* %s, i8* %s)", reg, lhs.Text, rhs.Text)
		return Val{Text: "%" + reg, Type: g.evalType(n)}
	}
	if mnem, ok := binOpMnemonic[n.Op]; ok {
		if lhs.Type.Super == symtype.Double {
			mnem = "f" + mnem
		}
		reg := g.fb.freshTemp()
		g.fb.emit("%%%s = %s %s %s, %s", reg, mnem, lty, lhs.Text, rhs.Text)
		return Val{Text: "%" + reg, Type: g.evalType(n)}
	}
	if cmp, ok := binOpCmp[n.Op]; ok {
		prefix := "icmp"
		if lhs.Type.Super == symtype.Double {
			prefix, cmp = "fcmp", "o"+cmp
		}
		reg := g.fb.freshTemp()
		g.fb.emit("%%%s = %s %s %s %s, %s", reg, prefix, cmp, lty, lhs.Text, rhs.Text)
		return Val{Text: "%" + reg, Type: symtype.TypeBool}
	}
	return Val{Text: "undef", Type: symtype.TypeInvalid}
}

// emitShortCircuit lowers && / || with control flow rather than a plain
// bitwise and/or, matching the reference compiler's non-strict boolean
// evaluation.
func (g *Generator) emitShortCircuit(n *ast.BinaryExpr, lhs Val) any {
	rhsLbl := g.fb.freshLabel("sc.rhs")
	endLbl := g.fb.freshLabel("sc.end")
	resultAddr := g.fb.declareLocal(fmt.Sprintf("sc.%s", g.fb.freshTemp()), "i8")

	shortValue := "0"
	if n.Op == ast.BinLogicalOr {
		shortValue = "1"
	}
	shortLbl := g.fb.freshLabel("sc.short")
	if n.Op == ast.BinLogicalAnd {
		g.fb.emit("br i1 %s, label %%%s, label %%%s", lhs.Text, rhsLbl, shortLbl)
	} else {
		g.fb.emit("br i1 %s, label %%%s, label %%%s", lhs.Text, shortLbl, rhsLbl)
	}
	g.fb.label(shortLbl)
	g.fb.emit("store i8 %s, i8* %%%s", shortValue, resultAddr)
	g.fb.emit("br label %%%s", endLbl)
	g.fb.label(rhsLbl)
	rhs := g.eval(n.Rhs)
	ext := g.fb.freshTemp()
	g.fb.emit("%%%s = zext i1 %s to i8", ext, rhs.Text)
	g.fb.emit("store i8 %%%s, i8* %%%s", ext, resultAddr)
	g.fb.emit("br label %%%s", endLbl)
	g.fb.label(endLbl)

	loaded := g.fb.freshTemp()
	g.fb.emit("%%%s = load i8, i8* %%%s", loaded, resultAddr)
	truncated := g.fb.freshTemp()
	g.fb.emit("%%%s = trunc i8 %%%s to i1", truncated, loaded)
	return Val{Text: "%" + truncated, Type: symtype.TypeBool}
}

func (g *Generator) VisitUnaryExpr(n *ast.UnaryExpr) any {
	switch n.Op {
	case ast.UnaryAddrOf:
		if ident, ok := n.Operand.(*ast.Ident); ok {
			if reg, _, found := g.fb.lookupLocal(ident.Name); found {
				return Val{Text: "%" + reg, Type: g.evalType(n)}
			}
		}
	case ast.UnaryDeref:
		v := g.eval(n.Operand)
		ty := llvmTypeName(g.evalType(n))
		reg := g.fb.freshTemp()
		g.fb.emit("%%%s = load %s, %s* %s", reg, ty, ty, v.Text)
		return Val{Text: "%" + reg, Type: g.evalType(n)}
	}

	v := g.eval(n.Operand)
	ty := llvmTypeName(v.Type)
	if n.ChosenOverload != nil {
		reg := g.fb.freshTemp()
		g.fb.emit("%%%s = call %s @%s(%s %s)", reg, llvmTypeName(n.ChosenOverload.ReturnType), n.ChosenOverload.MangledName, ty, v.Text)
		return Val{Text: "%" + reg, Type: g.evalType(n)}
	}
	switch n.Op {
	case ast.UnaryMinus:
		reg := g.fb.freshTemp()
		mnem := "sub"
		if v.Type.Super == symtype.Double {
			mnem = "fsub"
		}
		g.fb.emit("%%%s = %s %s 0, %s", reg, mnem, ty, v.Text)
		return Val{Text: "%" + reg, Type: g.evalType(n)}
	case ast.UnaryNot:
		reg := g.fb.freshTemp()
		g.fb.emit("%%%s = xor i1 %s, true", reg, v.Text)
		return Val{Text: "%" + reg, Type: symtype.TypeBool}
	case ast.UnaryBitwiseNot:
		reg := g.fb.freshTemp()
		g.fb.emit("%%%s = xor %s %s, -1", reg, ty, v.Text)
		return Val{Text: "%" + reg, Type: g.evalType(n)}
	case ast.UnaryPlusPlus, ast.UnaryMinusMinus:
		return g.emitIncDec(n.Operand, n.Op == ast.UnaryPlusPlus, true)
	}
	return v
}

func (g *Generator) VisitPostfixExpr(n *ast.PostfixExpr) any {
	return g.emitIncDec(n.Operand, n.Op == ast.PostfixPlusPlus, false)
}

// emitIncDec lowers both prefix (++x) and postfix (x++) increment: load,
// add/sub 1, store back, and return either the new value (prefix) or the
// value observed before the update (postfix).
func (g *Generator) emitIncDec(operand ast.Expr, increment, returnNew bool) Val {
	ident, ok := operand.(*ast.Ident)
	if !ok {
		return g.eval(operand)
	}
	reg, ty, found := g.fb.lookupLocal(ident.Name)
	if !found {
		return g.eval(operand)
	}
	old := g.fb.freshTemp()
	g.fb.emit("%%%s = load %s, %s* %%%s", old, ty, ty, reg)
	op := "add"
	if !increment {
		op = "sub"
	}
	updated := g.fb.freshTemp()
	g.fb.emit("%%%s = %s %s %%%s, 1", updated, op, ty, old)
	g.fb.emit("store %s %%%s, %s* %%%s", ty, updated, ty, reg)
	resultType := g.evalType(operand)
	if returnNew {
		return Val{Text: "%" + updated, Type: resultType}
	}
	return Val{Text: "%" + old, Type: resultType}
}

func (g *Generator) VisitCastExpr(n *ast.CastExpr) any {
	v := g.eval(n.Operand)
	target := n.TargetType
	srcTy, dstTy := llvmTypeName(v.Type), llvmTypeName(target)
	if srcTy == dstTy {
		return Val{Text: v.Text, Type: target}
	}
	mnem := "bitcast"
	switch {
	case v.Type.Super.IsPrimitive() && target.Super == symtype.Double:
		mnem = "sitofp"
	case v.Type.Super == symtype.Double && target.Super.IsPrimitive():
		mnem = "fptosi"
	case v.Type.Super.IsPrimitive() && target.Super.IsPrimitive():
		if sizeOf(target) > sizeOf(v.Type) {
			mnem = "sext"
		} else {
			mnem = "trunc"
		}
	}
	reg := g.fb.freshTemp()
	g.fb.emit("%%%s = %s %s %s to %s", reg, mnem, srcTy, v.Text, dstTy)
	return Val{Text: "%" + reg, Type: target}
}

func (g *Generator) VisitCallExpr(n *ast.CallExpr) any {
	if n.ChosenOverload == nil {
		for _, a := range n.Args {
			g.eval(a)
		}
		return Val{Text: "undef", Type: g.evalType(n)}
	}
	man := n.ChosenOverload

	var argTexts []string
	if receiver, ok := n.Callee.(*ast.FieldAccessExpr); ok && man.ReceiverType.Super != symtype.Invalid {
		this := g.evalReceiverAddr(receiver.Receiver)
		argTexts = append(argTexts, fmt.Sprintf("%s %s", llvmTypeName(man.ReceiverType), this))
	}
	for i, a := range n.Args {
		v := g.eval(a)
		formal := v.Type
		if i < len(man.ParamTypes) {
			formal = man.ParamTypes[i]
		}
		argTexts = append(argTexts, g.implicitCast(v, formal))
	}
	retTy := llvmTypeName(man.ReturnType)
	if man.ReturnType.Super == symtype.Invalid {
		retTy = "void"
	}
	if retTy == "void" {
		g.fb.emit("call void @%s(%s)", man.MangledName, joinArgs(argTexts))
		return Val{Text: "undef", Type: g.evalType(n)}
	}
	reg := g.fb.freshTemp()
	g.fb.emit("%%%s = call %s @%s(%s)", reg, retTy, man.MangledName, joinArgs(argTexts))
	return Val{Text: "%" + reg, Type: g.evalType(n)}
}

// evalReceiverAddr resolves the pointer operand a method call passes as
// `this`: a local struct variable's own alloca address (the struct lives
// on the stack, so no extra load is needed), or the evaluated pointer
// value for anything already typed as a pointer/reference (including an
// inner `this`).
func (g *Generator) evalReceiverAddr(e ast.Expr) string {
	if ident, ok := e.(*ast.Ident); ok {
		if reg, _, found := g.fb.lookupLocal(ident.Name); found {
			ty := g.evalType(ident)
			if ty.Super == symtype.Struct && !ty.IsPtr() {
				return "%" + reg
			}
		}
	}
	return g.eval(e).Text
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}

// implicitCast renders arg as the textual "<type> <value>" operand pair a
// call instruction needs, applying spec §4.11's call-site coercions: a
// reference formal receiving a value passes its address; a value formal
// receiving a reference loads it.
func (g *Generator) implicitCast(arg Val, formal symtype.Type) string {
	ty := llvmTypeName(formal)
	if formal.IsRef() && !arg.Type.IsRef() {
		return fmt.Sprintf("%s %s", ty, arg.Text)
	}
	if !formal.IsRef() && arg.Type.IsRef() {
		loaded := g.fb.freshTemp()
		g.fb.emit("%%%s = load %s, %s* %s", loaded, ty, ty, arg.Text)
		return fmt.Sprintf("%s %%%s", ty, loaded)
	}
	return fmt.Sprintf("%s %s", llvmTypeName(arg.Type), arg.Text)
}

func (g *Generator) VisitFieldAccessExpr(n *ast.FieldAccessExpr) any {
	addr, fieldTy := g.fieldAddr(n)
	loaded := g.fb.freshTemp()
	g.fb.emit("%%%s = load %s, %s* %s", loaded, fieldTy, fieldTy, addr)
	return Val{Text: "%" + loaded, Type: g.evalType(n)}
}

// fieldAddr emits the GEP computing n's field address, used by both loads
// (VisitFieldAccessExpr) and stores (assignment LHS).
func (g *Generator) fieldAddr(n *ast.FieldAccessExpr) (addr, fieldTy string) {
	receiverTy := g.evalType(n.Receiver)
	receiver := g.eval(n.Receiver)
	base := receiverTy
	for base.IsPtr() {
		base = base.RemovePointer()
	}
	idx := 0
	decl, ok := g.structDecls[base.SubType]
	if ok {
		for i, f := range decl.Fields {
			if f.Name == n.FieldName {
				idx = i
				break
			}
		}
	}
	structTy := "%struct." + base.SubType
	reg := g.fb.freshTemp()
	g.fb.emit("%%%s = getelementptr %s, %s* %s, i32 0, i32 %d", reg, structTy, structTy, receiver.Text, idx)
	return "%" + reg, llvmTypeName(g.evalType(n))
}

func (g *Generator) VisitIndexExpr(n *ast.IndexExpr) any {
	addr, elemTy := g.indexAddr(n)
	loaded := g.fb.freshTemp()
	g.fb.emit("%%%s = load %s, %s* %s", loaded, elemTy, elemTy, addr)
	return Val{Text: "%" + loaded, Type: g.evalType(n)}
}

func (g *Generator) indexAddr(n *ast.IndexExpr) (addr, elemTy string) {
	arr := g.eval(n.Array)
	idx := g.eval(n.Index)
	elemTy = llvmTypeName(g.evalType(n))
	reg := g.fb.freshTemp()
	g.fb.emit("%%%s = getelementptr %s, %s* %s, i32 0, %s %s", reg, llvmTypeName(arr.Type), llvmTypeName(arr.Type), arr.Text, llvmTypeName(idx.Type), idx.Text)
	return "%" + reg, elemTy
}

func (g *Generator) VisitSizeofExpr(n *ast.SizeofExpr) any {
	t := n.OperandType
	if !n.IsTypeArg {
		t = g.evalType(n.Operand)
	}
	return Val{Text: fmt.Sprintf("%d", sizeOf(t)), Type: symtype.TypeLong}
}

func (g *Generator) VisitAlignofExpr(n *ast.AlignofExpr) any {
	return Val{Text: fmt.Sprintf("%d", sizeOf(n.OperandType)), Type: symtype.TypeLong}
}

func (g *Generator) VisitLenExpr(n *ast.LenExpr) any {
	operandTy := g.evalType(n.Operand)
	if operandTy.IsArray() && len(operandTy.Wrappers) > 0 {
		size := operandTy.Wrappers[0].ArraySize
		if size > 0 {
			return Val{Text: fmt.Sprintf("%d", size), Type: symtype.TypeInt}
		}
	}
	v := g.eval(n.Operand)
	reg := g.fb.freshTemp()
	g.fb.emit("%%%s = call i32 @strlen(%s %s)", reg, llvmTypeName(v.Type), v.Text)
	return Val{Text: "%" + reg, Type: symtype.TypeInt}
}

func (g *Generator) VisitArrayLit(n *ast.ArrayLit) any {
	elemTy := llvmTypeName(n.ElemType)
	size := len(n.Items)
	if n.ZeroSize > 0 {
		size = n.ZeroSize
	}
	arrTy := fmt.Sprintf("[%d x %s]", size, elemTy)

	allConst := n.ZeroSize == 0
	items := make([]string, len(n.Items))
	for i, item := range n.Items {
		v, ok := constFold(item)
		if !ok {
			allConst = false
			break
		}
		items[i] = v
	}
	if allConst {
		name := fmt.Sprintf(".arr.%d", len(g.mod.Globals))
		parts := make([]string, len(items))
		for i, v := range items {
			parts[i] = fmt.Sprintf("%s %s", elemTy, v)
		}
		g.mod.Globals = append(g.mod.Globals, Global{
			Name: name, Type: arrTy, Const: true, HasValue: true,
			Init: "[" + joinArgs(parts) + "]",
		})
		return Val{Text: "@" + name, Type: g.evalType(n)}
	}

	addr := g.fb.declareLocal(fmt.Sprintf("arr.%s", g.fb.freshTemp()), arrTy)
	for i, item := range n.Items {
		v := g.eval(item)
		elemAddr := g.fb.freshTemp()
		g.fb.emit("%%%s = getelementptr %s, %s* %%%s, i32 0, i32 %d", elemAddr, arrTy, arrTy, addr, i)
		g.fb.emit("store %s %s, %s* %%%s", elemTy, v.Text, elemTy, elemAddr)
	}
	return Val{Text: "%" + addr, Type: g.evalType(n)}
}

func (g *Generator) VisitStructLit(n *ast.StructLit) any {
	structTy := "%struct." + n.StructName
	addr := g.fb.declareLocal(fmt.Sprintf("%s.%s", n.StructName, g.fb.freshTemp()), structTy)
	decl := g.structDecls[n.StructName]
	for i, v := range n.FieldValues {
		idx := i
		if decl != nil && i < len(n.FieldNames) && n.FieldNames[i] != "" {
			for fi, f := range decl.Fields {
				if f.Name == n.FieldNames[i] {
					idx = fi
					break
				}
			}
		}
		val := g.eval(v)
		fieldAddr := g.fb.freshTemp()
		g.fb.emit("%%%s = getelementptr %s, %s* %%%s, i32 0, i32 %d", fieldAddr, structTy, structTy, addr, idx)
		g.fb.emit("store %s %s, %s* %%%s", llvmTypeName(val.Type), val.Text, llvmTypeName(val.Type), fieldAddr)
	}
	return Val{Text: "%" + addr, Type: g.evalType(n)}
}
