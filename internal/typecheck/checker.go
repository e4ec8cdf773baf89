package typecheck

import (
	"fmt"

	"github.com/spice-lang/spicec/internal/ast"
	"github.com/spice-lang/spicec/internal/cerr"
	"github.com/spice-lang/spicec/internal/generic"
	"github.com/spice-lang/spicec/internal/manager"
	"github.com/spice-lang/spicec/internal/scope"
	"github.com/spice-lang/spicec/internal/symbuild"
	"github.com/spice-lang/spicec/internal/symtype"
)

const (
	returnVariableName = symbuild.ReturnVariableName
	thisVariableName    = symbuild.ThisVariableName
)

// typed is satisfied by every ast node through its embedded base struct;
// it lets Checker stash and retrieve a node's evaluated type without a
// type switch over every concrete node kind.
type typed interface {
	SetEvaluatedType(idx ast.ManIdx, t symtype.Type)
	GetEvaluatedType(idx ast.ManIdx) (symtype.Type, bool)
}

// Checker implements ast.Visitor, running in either ModePrepare or
// ModeCheck over one SourceFile's AST (spec §4.6, C6).
type Checker struct {
	Mode       Mode
	Collector  *cerr.Collector
	Funcs      *manager.Manager
	Structs    *manager.Manager
	RootScope  *scope.Scope

	currentScope *scope.Scope
	currentFunc  *ast.FunctionDecl
	manIdx       ast.ManIdx
	inUnsafe     int

	// ReVisitRequested mirrors the reference checker's public
	// reVisitRequested member: a pass sets it when it encountered a
	// callee or manifestation not yet fully checked, asking the driver
	// to run ModeCheck again (spec §4.6, capped at maxReVisits).
	ReVisitRequested bool

	allFunctionsByName map[string][]*ast.FunctionDecl
}

// NewChecker creates a Checker for one pass over root's tree.
func NewChecker(mode Mode, root *scope.Scope, collector *cerr.Collector, funcs, structs *manager.Manager) *Checker {
	return &Checker{
		Mode:               mode,
		Collector:          collector,
		Funcs:              funcs,
		Structs:            structs,
		RootScope:          root,
		currentScope:       root,
		allFunctionsByName: make(map[string][]*ast.FunctionDecl),
	}
}

// Check runs the bounded re-visit loop for ModeCheck, returning an error
// only if the cap is exceeded — an internal-invariant violation rather
// than a problem with the source (spec §4.6).
func Check(root *scope.Scope, file *ast.File, collector *cerr.Collector, funcs, structs *manager.Manager) error {
	prepare := NewChecker(ModePrepare, root, collector, funcs, structs)
	prepare.indexFunctions(file)
	file.Accept(prepare)

	for i := 0; i < maxReVisits; i++ {
		checker := NewChecker(ModeCheck, root, collector, funcs, structs)
		checker.allFunctionsByName = prepare.allFunctionsByName
		file.Accept(checker)
		if !checker.ReVisitRequested {
			return nil
		}
	}
	return cerr.NewCompilerError(cerr.CodeLoc{}, "type checker exceeded the maximum number of re-visit iterations")
}

func (c *Checker) indexFunctions(file *ast.File) {
	for _, f := range file.Functions {
		c.allFunctionsByName[f.Name] = append(c.allFunctionsByName[f.Name], f)
	}
	for _, s := range file.Structs {
		for _, m := range s.Methods {
			key := s.Name + "." + m.Name
			c.allFunctionsByName[key] = append(c.allFunctionsByName[key], m)
		}
	}
}

func (c *Checker) addError(loc cerr.CodeLoc, kind cerr.SemanticErrorKind, msg string) {
	c.Collector.AddError(cerr.NewSemanticError(loc, kind, msg))
}

func (c *Checker) setType(n ast.Node, t symtype.Type) {
	if tn, ok := n.(typed); ok {
		tn.SetEvaluatedType(c.manIdx, t)
	}
}

func (c *Checker) getType(n ast.Node) (symtype.Type, bool) {
	if tn, ok := n.(typed); ok {
		return tn.GetEvaluatedType(c.manIdx)
	}
	return symtype.TypeInvalid, false
}

// evalExpr type checks e (in ModeCheck) and returns its type, caching the
// result on the node. In ModePrepare expressions are not visited at all —
// only top-level signatures are.
func (c *Checker) evalExpr(e ast.Expr) symtype.Type {
	if e == nil {
		return symtype.TypeInvalid
	}
	result := e.Accept(c)
	t, _ := result.(symtype.Type)
	c.setType(e, t)
	return t
}

func (c *Checker) isInvalid(t symtype.Type) bool { return t.Super == symtype.Invalid }

// ---- File / declarations ----

func (c *Checker) VisitFile(n *ast.File) any {
	if c.Mode == ModePrepare {
		for _, s := range n.Structs {
			s.Accept(c)
		}
		for _, i := range n.Interfaces {
			i.Accept(c)
		}
		for _, g := range n.Globals {
			g.Accept(c)
		}
		for _, f := range n.Functions {
			f.Accept(c)
		}
		return nil
	}
	for _, f := range n.Functions {
		f.Accept(c)
	}
	for _, s := range n.Structs {
		s.Accept(c)
	}
	return nil
}

func (c *Checker) VisitImportDecl(n *ast.ImportDecl) any { return nil }

func (c *Checker) VisitFunctionDecl(n *ast.FunctionDecl) any {
	if c.Mode == ModePrepare {
		for _, p := range n.Params {
			if p.Type.Super == symtype.Dyn {
				c.addError(n.Loc(), cerr.FctParamIsTypeDyn, "function parameters cannot be of type dyn")
				break
			}
		}
		return nil
	}

	if n.Body == nil {
		return nil
	}
	if !n.IsProcedure && !n.ReturnsOnAllControlPaths() {
		c.addError(n.Loc(), cerr.FunctionWithoutReturnStmt,
			fmt.Sprintf("function '%s' does not return a value on all control paths", n.Name))
	}

	outerScope, outerFunc := c.currentScope, c.currentFunc
	c.currentScope = n.BodyScope
	c.currentFunc = n
	n.Body.Accept(c)
	c.currentScope, c.currentFunc = outerScope, outerFunc
	return nil
}

func (c *Checker) VisitStructDecl(n *ast.StructDecl) any {
	if c.Mode == ModePrepare {
		for _, f := range n.Fields {
			if f.Type.Super == symtype.Dyn {
				c.addError(f.Loc, cerr.GlobalOfTypeDyn, fmt.Sprintf("field '%s' cannot be of type dyn", f.Name))
			}
		}
		return nil
	}
	for _, m := range n.Methods {
		m.Accept(c)
	}
	return nil
}

func (c *Checker) VisitInterfaceDecl(n *ast.InterfaceDecl) any { return nil }
func (c *Checker) VisitEnumDecl(n *ast.EnumDecl) any           { return nil }
func (c *Checker) VisitTypeAliasDecl(n *ast.TypeAliasDecl) any { return nil }

func (c *Checker) VisitGlobalVarDecl(n *ast.GlobalVarDecl) any {
	if c.Mode == ModeCheck && n.Initializer != nil {
		initType := c.evalExpr(n.Initializer)
		if !c.isInvalid(initType) && !initType.Matches(n.Type, true, true, true) {
			c.addError(n.Loc(), cerr.FieldTypeNotMatching,
				fmt.Sprintf("global variable '%s' initializer type does not match its declared type", n.Name))
		}
	}
	return nil
}

// ---- Statements ----

func (c *Checker) VisitBlock(n *ast.Block) any {
	for _, s := range n.Stmts {
		s.Accept(c)
	}
	return nil
}

func (c *Checker) VisitVarDecl(n *ast.VarDecl) any {
	if n.Initializer == nil {
		return nil
	}
	initType := c.evalExpr(n.Initializer)
	if c.isInvalid(initType) {
		return nil
	}
	if n.Type.Super == symtype.Invalid || n.Type.Super == symtype.Dyn {
		entry := c.currentScope.LookupStrict(n.Name)
		if entry != nil {
			entry.UpdateType(initType, true)
		}
		return nil
	}
	if !initType.Matches(n.Type, true, true, true) {
		c.addError(n.Loc(), cerr.FieldTypeNotMatching,
			fmt.Sprintf("initializer for '%s' does not match its declared type", n.Name))
	}
	return nil
}

func (c *Checker) VisitAssignStmt(n *ast.AssignStmt) any {
	lhsType := c.evalExpr(n.Lhs)
	rhsType := c.evalExpr(n.Rhs)

	if ident, ok := n.Lhs.(*ast.Ident); ok {
		entry := c.currentScope.Lookup(ident.Name)
		if entry != nil {
			if entry.IsInitialized() && entry.Type.Specs.Const {
				c.addError(n.Loc(), cerr.ReassignConstVariable,
					fmt.Sprintf("cannot reassign const variable '%s'", ident.Name))
			} else if err := entry.Advance(scope.Initialized, false); err != nil {
				c.addError(n.Loc(), cerr.ReassignConstVariable, err.Error())
			}
		}
	}

	if c.isInvalid(lhsType) || c.isInvalid(rhsType) {
		return nil
	}
	var resultType symtype.Type
	var err error
	switch n.Op {
	case ast.Assign:
		resultType, err = symtype.GetAssignResultType(lhsType, rhsType, n.Loc())
	case ast.PlusEqual:
		resultType, err = symtype.GetPlusEqualResultType(lhsType, rhsType, n.Loc())
	case ast.MinusEqual:
		resultType, err = symtype.GetMinusEqualResultType(lhsType, rhsType, n.Loc())
	case ast.MulEqual:
		resultType, err = symtype.GetMulEqualResultType(lhsType, rhsType, n.Loc())
	case ast.DivEqual:
		resultType, err = symtype.GetDivEqualResultType(lhsType, rhsType, n.Loc())
	case ast.RemEqual:
		resultType, err = symtype.GetRemEqualResultType(lhsType, rhsType, n.Loc())
	case ast.ShlEqual:
		resultType, err = symtype.GetShlEqualResultType(lhsType, rhsType, n.Loc())
	case ast.ShrEqual:
		resultType, err = symtype.GetShrEqualResultType(lhsType, rhsType, n.Loc())
	case ast.AndEqual:
		resultType, err = symtype.GetAndEqualResultType(lhsType, rhsType, n.Loc())
	case ast.OrEqual:
		resultType, err = symtype.GetOrEqualResultType(lhsType, rhsType, n.Loc())
	case ast.XorEqual:
		resultType, err = symtype.GetXorEqualResultType(lhsType, rhsType, n.Loc())
	}
	if err != nil {
		c.Collector.AddError(err)
	}
	c.setType(n, resultType)
	return nil
}

func (c *Checker) requireBool(e ast.Expr, context string) {
	t := c.evalExpr(e)
	if c.isInvalid(t) {
		return
	}
	if t.Super != symtype.Bool {
		c.addError(e.Loc(), cerr.ConditionMustBeBool, context+" must be of type bool")
	}
}

func (c *Checker) VisitIfStmt(n *ast.IfStmt) any {
	c.requireBool(n.Cond, "if condition")
	outer := c.currentScope
	if child := outer.GetChildScope(n.ThenScopeName); child != nil {
		c.currentScope = child
	}
	n.Then.Accept(c)
	c.currentScope = outer
	if n.Else != nil {
		if _, ok := n.Else.(*ast.Block); ok {
			if child := outer.GetChildScope(n.ElseScopeName); child != nil {
				c.currentScope = child
			}
			n.Else.Accept(c)
			c.currentScope = outer
		} else {
			n.Else.Accept(c)
		}
	}
	return nil
}

func (c *Checker) VisitWhileStmt(n *ast.WhileStmt) any {
	c.requireBool(n.Cond, "while condition")
	outer := c.currentScope
	if child := outer.GetChildScope(n.ScopeName); child != nil {
		c.currentScope = child
	}
	n.Body.Accept(c)
	c.currentScope = outer
	return nil
}

func (c *Checker) VisitDoWhileStmt(n *ast.DoWhileStmt) any {
	outer := c.currentScope
	if child := outer.GetChildScope(n.ScopeName); child != nil {
		c.currentScope = child
	}
	n.Body.Accept(c)
	c.currentScope = outer
	c.requireBool(n.Cond, "do-while condition")
	return nil
}

func (c *Checker) VisitForStmt(n *ast.ForStmt) any {
	outer := c.currentScope
	if child := outer.GetChildScope(n.ScopeName); child != nil {
		c.currentScope = child
	}
	if n.Init != nil {
		n.Init.Accept(c)
	}
	if n.Cond != nil {
		c.requireBool(n.Cond, "for condition")
	}
	if n.Inc != nil {
		n.Inc.Accept(c)
	}
	n.Body.Accept(c)
	c.currentScope = outer
	return nil
}

func (c *Checker) VisitForeachStmt(n *ast.ForeachStmt) any {
	iterableType := c.evalExpr(n.Iterable)
	if !c.isInvalid(iterableType) && !iterableType.IsArray() && iterableType.Super != symtype.String {
		c.addError(n.Loc(), cerr.ExpectedArrayType, "foreach requires an array or string")
	}
	outer := c.currentScope
	if child := outer.GetChildScope(n.ScopeName); child != nil {
		c.currentScope = child
	}
	n.Body.Accept(c)
	c.currentScope = outer
	return nil
}

func (c *Checker) VisitReturnStmt(n *ast.ReturnStmt) any {
	if c.currentFunc == nil {
		return nil
	}
	resultEntry := c.currentScope.Lookup(returnVariableName)
	if n.Expr == nil {
		if resultEntry != nil && !resultEntry.IsInitialized() {
			c.addError(n.Loc(), cerr.ReturnWithoutValueResult,
				"bare return requires 'result' to already be initialized")
		}
		return nil
	}
	if c.currentFunc.IsProcedure {
		c.addError(n.Loc(), cerr.ReturnWithValueInProcedure, "a procedure cannot return a value")
		return nil
	}
	retType := c.evalExpr(n.Expr)
	if c.isInvalid(retType) {
		return nil
	}
	if !retType.Matches(c.currentFunc.ReturnType, true, true, true) {
		c.addError(n.Loc(), cerr.FieldTypeNotMatching, "return value type does not match the function's return type")
	}
	if resultEntry != nil {
		_ = resultEntry.Advance(scope.Initialized, false)
	}
	return nil
}

func (c *Checker) VisitBreakStmt(n *ast.BreakStmt) any {
	if n.Count > c.currentScope.LoopNestingDepth() {
		c.addError(n.Loc(), cerr.InvalidBreakNumber, "break count exceeds the number of enclosing loops")
	}
	return nil
}

func (c *Checker) VisitContinueStmt(n *ast.ContinueStmt) any {
	if n.Count > c.currentScope.LoopNestingDepth() {
		c.addError(n.Loc(), cerr.InvalidContinueNumber, "continue count exceeds the number of enclosing loops")
	}
	return nil
}

func (c *Checker) VisitPrintfStmt(n *ast.PrintfStmt) any {
	placeholders := countPrintfPlaceholders(n.Format)
	if placeholders != len(n.Args) {
		c.addError(n.Loc(), cerr.PrintfArgCountError,
			fmt.Sprintf("format string expects %d arguments, got %d", placeholders, len(n.Args)))
	}
	for _, a := range n.Args {
		c.evalExpr(a)
	}
	return nil
}

func (c *Checker) VisitUnsafeBlock(n *ast.UnsafeBlock) any {
	outer := c.currentScope
	if child := outer.GetChildScope(n.ScopeName); child != nil {
		c.currentScope = child
	}
	c.inUnsafe++
	n.Body.Accept(c)
	c.inUnsafe--
	c.currentScope = outer
	return nil
}

func (c *Checker) VisitExprStmt(n *ast.ExprStmt) any {
	c.evalExpr(n.Expr)
	return nil
}

// ---- Expressions ----

func (c *Checker) VisitIdent(n *ast.Ident) any {
	entry := c.currentScope.Lookup(n.Name)
	if entry == nil {
		c.addError(n.Loc(), cerr.ReferencedUndefinedVariable, fmt.Sprintf("'%s' is not defined", n.Name))
		return symtype.TypeInvalid
	}
	entry.Used = true
	return entry.Type
}

func (c *Checker) VisitIntLit(n *ast.IntLit) any {
	switch {
	case n.IsLong:
		return symtype.TypeLong
	case n.IsShort:
		return symtype.TypeShort
	default:
		return symtype.TypeInt
	}
}

func (c *Checker) VisitDoubleLit(n *ast.DoubleLit) any { return symtype.TypeDouble }
func (c *Checker) VisitStringLit(n *ast.StringLit) any { return symtype.TypeString }
func (c *Checker) VisitBoolLit(n *ast.BoolLit) any     { return symtype.TypeBool }
func (c *Checker) VisitCharLit(n *ast.CharLit) any     { return symtype.TypeChar }

func (c *Checker) VisitArrayLit(n *ast.ArrayLit) any {
	elemType := n.ElemType
	for _, item := range n.Items {
		t := c.evalExpr(item)
		if elemType.Super == symtype.Invalid {
			elemType = t
		} else if !c.isInvalid(t) && !t.Matches(elemType, true, true, true) {
			c.addError(item.Loc(), cerr.ArrayItemTypeNotMatching, "array items must share one type")
		}
	}
	return elemType.ToArray(len(n.Items))
}

func (c *Checker) VisitStructLit(n *ast.StructLit) any {
	entry := c.currentScope.Lookup(n.StructName)
	if entry == nil {
		c.addError(n.Loc(), cerr.ReferencedUndefinedStruct, fmt.Sprintf("struct '%s' is not defined", n.StructName))
		for _, v := range n.FieldValues {
			c.evalExpr(v)
		}
		return symtype.TypeInvalid
	}
	for _, v := range n.FieldValues {
		c.evalExpr(v)
	}
	return entry.Type
}

func (c *Checker) VisitThisExpr(n *ast.ThisExpr) any {
	entry := c.currentScope.Lookup(thisVariableName)
	if entry == nil {
		return symtype.TypeInvalid
	}
	return entry.Type
}

func (c *Checker) VisitTernaryExpr(n *ast.TernaryExpr) any {
	c.requireBool(n.Cond, "ternary condition")
	thenType := c.evalExpr(n.Then)
	elseType := c.evalExpr(n.Else)
	if c.isInvalid(thenType) || c.isInvalid(elseType) {
		return symtype.TypeInvalid
	}
	if !thenType.Matches(elseType, false, false, true) {
		c.addError(n.Loc(), cerr.FieldTypeNotMatching, "ternary branches must have matching types")
		return symtype.TypeInvalid
	}
	return thenType
}

func binaryOpToResult(op ast.BinaryOp, lhs, rhs symtype.Type, loc cerr.CodeLoc) (symtype.Type, error) {
	switch op {
	case ast.BinLogicalAnd:
		return symtype.GetLogicalAndResultType(lhs, rhs, loc)
	case ast.BinLogicalOr:
		return symtype.GetLogicalOrResultType(lhs, rhs, loc)
	case ast.BinBitwiseAnd:
		return symtype.GetBitwiseAndResultType(lhs, rhs, loc)
	case ast.BinBitwiseOr:
		return symtype.GetBitwiseOrResultType(lhs, rhs, loc)
	case ast.BinBitwiseXor:
		return symtype.GetBitwiseXorResultType(lhs, rhs, loc)
	case ast.BinEqual:
		return symtype.GetEqualResultType(lhs, rhs, loc)
	case ast.BinNotEqual:
		return symtype.GetNotEqualResultType(lhs, rhs, loc)
	case ast.BinLess:
		return symtype.GetLessResultType(lhs, rhs, loc)
	case ast.BinGreater:
		return symtype.GetGreaterResultType(lhs, rhs, loc)
	case ast.BinLessEqual:
		return symtype.GetLessEqualResultType(lhs, rhs, loc)
	case ast.BinGreaterEqual:
		return symtype.GetGreaterEqualResultType(lhs, rhs, loc)
	case ast.BinShiftLeft:
		return symtype.GetShiftLeftResultType(lhs, rhs, loc)
	case ast.BinShiftRight:
		return symtype.GetShiftRightResultType(lhs, rhs, loc)
	case ast.BinPlus:
		return symtype.GetPlusResultType(lhs, rhs, loc)
	case ast.BinMinus:
		return symtype.GetMinusResultType(lhs, rhs, loc)
	case ast.BinMul:
		return symtype.GetMulResultType(lhs, rhs, loc)
	case ast.BinDiv:
		return symtype.GetDivResultType(lhs, rhs, loc)
	case ast.BinRem:
		return symtype.GetRemResultType(lhs, rhs, loc)
	default:
		return symtype.TypeInvalid, fmt.Errorf("unknown binary operator")
	}
}

func (c *Checker) VisitBinaryExpr(n *ast.BinaryExpr) any {
	lhs := c.evalExpr(n.Lhs)
	rhs := c.evalExpr(n.Rhs)
	if c.isInvalid(lhs) || c.isInvalid(rhs) {
		return symtype.TypeInvalid
	}
	resultType, err := binaryOpToResult(n.Op, lhs, rhs, n.Loc())
	if err == nil {
		return resultType
	}
	if lhs.IsOneOf(symtype.Struct) {
		if overload := c.tryOperatorOverload(lhs, &rhs, opNameForBinary(n.Op), n.Loc()); overload != nil {
			n.ChosenOverload = overload
			return overload.ReturnType
		}
	}
	c.Collector.AddError(err)
	return symtype.TypeInvalid
}

func opNameForBinary(op ast.BinaryOp) string {
	switch op {
	case ast.BinPlus:
		return manager.OpPlus
	case ast.BinMinus:
		return manager.OpMinus
	case ast.BinMul:
		return manager.OpMul
	case ast.BinDiv:
		return manager.OpDiv
	case ast.BinEqual:
		return manager.OpEq
	case ast.BinNotEqual:
		return manager.OpNeq
	case ast.BinShiftLeft:
		return manager.OpShl
	case ast.BinShiftRight:
		return manager.OpShr
	default:
		return ""
	}
}

func (c *Checker) tryOperatorOverload(receiver symtype.Type, rhs *symtype.Type, opName string, loc cerr.CodeLoc) *ast.FunctionManifestation {
	if opName == "" {
		return nil
	}
	candidates := c.allFunctionsByName[receiver.SubType+"."+opName]
	if len(candidates) == 0 {
		return nil
	}
	man, err := c.Funcs.ResolveOperatorOverload(receiver.SubType+"."+opName, opName, candidates, receiver, rhs, loc)
	if err != nil {
		c.Collector.AddError(err)
		return nil
	}
	if man != nil && c.Funcs.NewManifestationAdded {
		c.ReVisitRequested = true
	}
	return man
}

func (c *Checker) VisitUnaryExpr(n *ast.UnaryExpr) any {
	operand := c.evalExpr(n.Operand)
	if n.Op == ast.UnaryDeref {
		if c.isInvalid(operand) {
			return symtype.TypeInvalid
		}
		if !operand.IsPtr() {
			c.addError(n.Loc(), cerr.ExpectedArrayType, "cannot dereference a non-pointer type")
			return symtype.TypeInvalid
		}
		return operand.RemovePointer()
	}
	if n.Op == ast.UnaryAddrOf {
		return operand.ToPointer()
	}
	if c.isInvalid(operand) {
		return symtype.TypeInvalid
	}
	var t symtype.Type
	var err error
	switch n.Op {
	case ast.UnaryMinus:
		t, err = symtype.GetPrefixMinusResultType(operand, n.Loc())
	case ast.UnaryPlusPlus:
		t, err = symtype.GetPrefixPlusPlusResultType(operand, n.Loc())
	case ast.UnaryMinusMinus:
		t, err = symtype.GetPrefixMinusMinusResultType(operand, n.Loc())
	case ast.UnaryNot:
		t, err = symtype.GetPrefixNotResultType(operand, n.Loc())
	case ast.UnaryBitwiseNot:
		t, err = symtype.GetPrefixBitwiseNotResultType(operand, n.Loc())
	}
	if err != nil {
		c.Collector.AddError(err)
		return symtype.TypeInvalid
	}
	return t
}

func (c *Checker) VisitPostfixExpr(n *ast.PostfixExpr) any {
	operand := c.evalExpr(n.Operand)
	if c.isInvalid(operand) {
		return symtype.TypeInvalid
	}
	var t symtype.Type
	var err error
	if n.Op == ast.PostfixPlusPlus {
		t, err = symtype.GetPostfixPlusPlusResultType(operand, n.Loc())
	} else {
		t, err = symtype.GetPostfixMinusMinusResultType(operand, n.Loc())
	}
	if err != nil {
		c.Collector.AddError(err)
		return symtype.TypeInvalid
	}
	return t
}

func (c *Checker) VisitCastExpr(n *ast.CastExpr) any {
	sourceType := c.evalExpr(n.Operand)
	if c.isInvalid(sourceType) {
		return symtype.TypeInvalid
	}
	if requiresUnsafe(sourceType, n.TargetType) && c.inUnsafe == 0 {
		c.addError(n.Loc(), cerr.UnsafeOperationInSafeContext,
			"casting between pointer types or changing the heap qualifier requires an unsafe block")
		return symtype.TypeInvalid
	}
	t, err := symtype.GetCastResultType(n.TargetType, sourceType, n.Loc())
	if err != nil {
		c.Collector.AddError(err)
		return symtype.TypeInvalid
	}
	return t
}

func requiresUnsafe(source, target symtype.Type) bool {
	if source.IsPtr() && target.IsPtr() && source.GetBaseType().Super != target.GetBaseType().Super {
		return true
	}
	return source.Specs.Heap != target.Specs.Heap
}

func (c *Checker) VisitCallExpr(n *ast.CallExpr) any {
	ident, ok := n.Callee.(*ast.Ident)
	if !ok {
		c.evalExpr(n.Callee)
		for _, a := range n.Args {
			c.evalExpr(a)
		}
		return symtype.TypeInvalid
	}
	argTypes := make([]symtype.Type, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = c.evalExpr(a)
	}
	candidates := c.allFunctionsByName[ident.Name]
	if len(candidates) == 0 {
		c.addError(n.Loc(), cerr.ReferencedUndefinedFunction, fmt.Sprintf("'%s' is not defined", ident.Name))
		return symtype.TypeInvalid
	}
	resolve := func(name string, requested symtype.Type) bool { return true }
	_ = generic.Resolver(resolve)
	man, err := c.Funcs.MatchFunction(ident.Name, candidates, symtype.Type{}, argTypes, resolve, n.Loc())
	if err != nil {
		c.Collector.AddError(err)
		return symtype.TypeInvalid
	}
	if man == nil {
		c.addError(n.Loc(), cerr.ReferencedUndefinedFunction, fmt.Sprintf("no overload of '%s' matches the given arguments", ident.Name))
		return symtype.TypeInvalid
	}
	if c.Funcs.NewManifestationAdded {
		c.ReVisitRequested = true
	}
	man.Used = true
	n.ChosenOverload = man
	return man.ReturnType
}

func (c *Checker) VisitFieldAccessExpr(n *ast.FieldAccessExpr) any {
	receiverType := c.evalExpr(n.Receiver)
	if c.isInvalid(receiverType) {
		return symtype.TypeInvalid
	}
	base := receiverType
	for base.IsPtr() {
		base = base.RemovePointer()
	}
	if base.Super != symtype.Struct {
		c.addError(n.Loc(), cerr.MemberAccessOnlyStructs, "member access is only valid on structs")
		return symtype.TypeInvalid
	}
	structEntry := c.currentScope.Lookup(base.SubType)
	if structEntry == nil || structEntry.DeclNode == nil {
		return symtype.TypeInvalid
	}
	decl, ok := structEntry.DeclNode.(*ast.StructDecl)
	if !ok || decl.BodyScope == nil {
		return symtype.TypeInvalid
	}
	fieldEntry := decl.BodyScope.LookupStrict(n.FieldName)
	if fieldEntry == nil {
		c.addError(n.Loc(), cerr.ReferencedUndefinedVariable, fmt.Sprintf("struct '%s' has no field '%s'", base.SubType, n.FieldName))
		return symtype.TypeInvalid
	}
	return fieldEntry.Type
}

func (c *Checker) VisitIndexExpr(n *ast.IndexExpr) any {
	arrayType := c.evalExpr(n.Array)
	indexType := c.evalExpr(n.Index)
	if !c.isInvalid(indexType) && !indexType.IsOneOf(symtype.Int, symtype.Long) {
		c.addError(n.Index.Loc(), cerr.ArrayIndexNotIntOrLong, "array index must be of type int or long")
	}
	if c.isInvalid(arrayType) {
		return symtype.TypeInvalid
	}
	if !arrayType.IsArray() {
		c.addError(n.Array.Loc(), cerr.ExpectedArrayType, "subscript requires an array type")
		return symtype.TypeInvalid
	}
	return arrayType.RemoveArray()
}

func (c *Checker) VisitSizeofExpr(n *ast.SizeofExpr) any {
	if !n.IsTypeArg {
		c.evalExpr(n.Operand)
	}
	return symtype.TypeInt
}

func (c *Checker) VisitAlignofExpr(n *ast.AlignofExpr) any { return symtype.TypeInt }

func (c *Checker) VisitLenExpr(n *ast.LenExpr) any {
	t := c.evalExpr(n.Operand)
	if !c.isInvalid(t) && !t.IsArray() && t.Super != symtype.String {
		c.addError(n.Loc(), cerr.ExpectedArrayType, "len requires a string or a fixed-size array")
	}
	return symtype.TypeInt
}
