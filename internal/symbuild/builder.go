package symbuild

import (
	"fmt"

	"github.com/spice-lang/spicec/internal/ast"
	"github.com/spice-lang/spicec/internal/cerr"
	"github.com/spice-lang/spicec/internal/scope"
	"github.com/spice-lang/spicec/internal/symtype"
)

// Builder walks a freshly-parsed ast.File once, declaring every named
// entity into the scope tree before any type checking happens. It
// implements ast.Visitor but only a handful of node kinds actually do
// anything; expression nodes are pure no-ops at this stage.
type Builder struct {
	collector    *cerr.Collector
	rootScope    *scope.Scope
	currentScope *scope.Scope
	hasMain      bool

	// scopeOrdinals counts how many child scopes of each name prefix
	// ("if", "while", ...) have been created directly under a given
	// scope, so siblings get distinct names ("if0", "if1", ...) instead
	// of colliding in the parent's child-scope map.
	scopeOrdinals map[*scope.Scope]map[string]int
}

// NewBuilder creates a Builder that will populate root, recording
// diagnostics into collector.
func NewBuilder(root *scope.Scope, collector *cerr.Collector) *Builder {
	return &Builder{
		collector:     collector,
		rootScope:     root,
		currentScope:  root,
		scopeOrdinals: make(map[*scope.Scope]map[string]int),
	}
}

// nextScopeName returns the next ordinal-suffixed name for a child scope of
// kind prefix under the current scope ("if0", "if1", ...), so sibling
// if/while/for/etc. statements in the same block never collide in the
// parent's child-scope map.
func (b *Builder) nextScopeName(prefix string) string {
	counters, ok := b.scopeOrdinals[b.currentScope]
	if !ok {
		counters = make(map[string]int)
		b.scopeOrdinals[b.currentScope] = counters
	}
	idx := counters[prefix]
	counters[prefix] = idx + 1
	return fmt.Sprintf("%s%d", prefix, idx)
}

// HasMainFunction reports whether a `f main` declaration was seen. The
// driver uses this to raise MISSING_MAIN_FUNCTION for the entry file.
func (b *Builder) HasMainFunction() bool { return b.hasMain }

func (b *Builder) enterScope(name string, kind scope.Kind) *scope.Scope {
	child := b.currentScope.CreateChildScope(name, kind)
	b.currentScope = child
	return child
}

func (b *Builder) leaveScope(parent *scope.Scope) {
	b.currentScope = parent
}

func (b *Builder) declare(name string, t symtype.Type, node scope.DeclNode, global bool) *scope.Entry {
	if existing := b.currentScope.LookupStrict(name); existing != nil {
		b.collector.AddError(cerr.NewSemanticError(node.Loc(), cerr.VariableDeclaredTwice,
			"the symbol '"+name+"' is declared twice in this scope"))
		return existing
	}
	return b.currentScope.Insert(name, t, node, global)
}

// Build runs the builder over file, returning file's populated root scope.
func (b *Builder) Build(file *ast.File) *scope.Scope {
	file.Accept(b)
	return b.rootScope
}

func (b *Builder) VisitFile(n *ast.File) any {
	n.GlobalScope = b.rootScope
	for _, imp := range n.Imports {
		imp.Accept(b)
	}
	for _, s := range n.Structs {
		s.Accept(b)
	}
	for _, i := range n.Interfaces {
		i.Accept(b)
	}
	for _, e := range n.Enums {
		e.Accept(b)
	}
	for _, ta := range n.TypeAliases {
		ta.Accept(b)
	}
	for _, g := range n.Globals {
		g.Accept(b)
	}
	for _, f := range n.Functions {
		f.Accept(b)
	}
	return nil
}

func (b *Builder) VisitImportDecl(n *ast.ImportDecl) any {
	if existing := b.currentScope.LookupStrict(n.Alias); existing != nil {
		b.collector.AddError(cerr.NewSemanticError(n.Loc(), cerr.DuplicateImportName,
			"the import name '"+n.Alias+"' is used twice"))
		return nil
	}
	t := symtype.Type{Super: symtype.Import, SubType: n.Path}
	b.currentScope.Insert(n.Alias, t, n, true)
	return nil
}

func (b *Builder) VisitFunctionDecl(n *ast.FunctionDecl) any {
	name := n.Name
	if name == MainFunctionName && !n.IsMethod {
		b.hasMain = true
	}
	super := symtype.Function
	if n.IsProcedure {
		super = symtype.Procedure
	}
	var retType *symtype.Type
	if !n.IsProcedure {
		rt := n.ReturnType
		retType = &rt
	}
	paramTypes := make([]symtype.Type, len(n.Params))
	for i, p := range n.Params {
		paramTypes[i] = p.Type
	}
	fnType := symtype.Type{
		Super:          super,
		SubType:        name,
		FuncParamTypes: paramTypes,
		FuncReturnType: retType,
	}
	if !n.IsMethod {
		b.declare(name, fnType, n, b.currentScope == b.rootScope)
	}

	parent := b.currentScope
	bodyKind := scope.FuncBody
	if n.IsProcedure {
		bodyKind = scope.ProcBody
	}
	body := b.enterScope(name, bodyKind)
	body.IsGenericScope = len(n.TemplateTypes) > 0
	n.BodyScope = body

	if n.IsMethod {
		thisType := n.ReceiverType.ToPointer()
		thisType.Specs.Const = true
		entry := body.Insert(ThisVariableName, thisType, n, false)
		entry.IsParam = true
		if err := entry.Advance(scope.Initialized, false); err != nil {
			b.collector.AddError(cerr.NewCompilerError(n.Loc(), err.Error()))
		}
	}
	if !n.IsProcedure {
		entry := body.Insert(ReturnVariableName, n.ReturnType, n, false)
		// result starts declared-but-uninitialized; main's result is the
		// sole exception and is pre-initialized to 0 by the driver's
		// synthetic entry point wiring, not here.
		_ = entry
	}
	for i := range n.Params {
		p := &n.Params[i]
		entry := body.Insert(p.Name, p.Type, n, false)
		entry.IsParam = true
		if err := entry.Advance(scope.Initialized, false); err != nil {
			b.collector.AddError(cerr.NewCompilerError(n.Loc(), err.Error()))
		}
	}
	for _, tpl := range n.TemplateTypes {
		body.InsertGenericType(tpl, symtype.Type{Super: symtype.Generic, SubType: tpl})
	}

	if n.Body != nil {
		n.Body.Accept(b)
	}
	b.leaveScope(parent)
	return nil
}

func (b *Builder) VisitStructDecl(n *ast.StructDecl) any {
	t := symtype.Type{Super: symtype.Struct, SubType: n.Name}
	b.declare(n.Name, t, n, true)

	parent := b.currentScope
	body := b.enterScope(StructScopePrefix+n.Name, scope.StructBody)
	body.IsGenericScope = len(n.TemplateTypes) > 0
	n.BodyScope = body
	for _, f := range n.Fields {
		body.Insert(f.Name, f.Type, n, false)
	}
	for _, tpl := range n.TemplateTypes {
		body.InsertGenericType(tpl, symtype.Type{Super: symtype.Generic, SubType: tpl})
	}
	for _, m := range n.Methods {
		m.IsMethod = true
		m.ReceiverType = t
		m.Accept(b)
	}
	b.leaveScope(parent)
	return nil
}

func (b *Builder) VisitInterfaceDecl(n *ast.InterfaceDecl) any {
	t := symtype.Type{Super: symtype.Interface, SubType: n.Name}
	b.declare(n.Name, t, n, true)

	parent := b.currentScope
	body := b.enterScope(InterfaceScopePrefix+n.Name, scope.InterfaceBody)
	n.BodyScope = body
	for _, m := range n.Methods {
		paramTypes := make([]symtype.Type, len(m.Params))
		for i, p := range m.Params {
			paramTypes[i] = p.Type
		}
		super := symtype.Function
		if m.IsProcedure {
			super = symtype.Procedure
		}
		var retType *symtype.Type
		if !m.IsProcedure {
			rt := m.ReturnType
			retType = &rt
		}
		body.Insert(m.Name, symtype.Type{Super: super, SubType: m.Name, FuncParamTypes: paramTypes, FuncReturnType: retType}, m, false)
	}
	b.leaveScope(parent)
	return nil
}

func (b *Builder) VisitEnumDecl(n *ast.EnumDecl) any {
	t := symtype.Type{Super: symtype.Enum, SubType: n.Name}
	b.declare(n.Name, t, n, true)
	seenNames := map[string]bool{}
	seenValues := map[int64]bool{}
	for _, item := range n.Items {
		if seenNames[item.Name] {
			b.collector.AddError(cerr.NewSemanticError(item.Loc, cerr.DuplicateEnumItemName,
				"the enum item '"+item.Name+"' is declared twice"))
			continue
		}
		seenNames[item.Name] = true
		if item.HasExplicitValue {
			if seenValues[item.Value] {
				b.collector.AddError(cerr.NewSemanticError(item.Loc, cerr.DuplicateEnumItemValue,
					"the enum item value is used twice"))
			}
			seenValues[item.Value] = true
		}
	}
	return nil
}

func (b *Builder) VisitTypeAliasDecl(n *ast.TypeAliasDecl) any {
	t := symtype.Type{Super: symtype.Alias, SubType: n.Name}
	b.declare(n.Name, t, n, true)
	return nil
}

func (b *Builder) VisitGlobalVarDecl(n *ast.GlobalVarDecl) any {
	if n.Type.Super == symtype.Dyn {
		b.collector.AddError(cerr.NewSemanticError(n.Loc(), cerr.GlobalOfTypeDyn,
			"global variable '"+n.Name+"' cannot have type dyn"))
	}
	if n.IsConst && n.Initializer == nil {
		b.collector.AddError(cerr.NewSemanticError(n.Loc(), cerr.GlobalConstWithoutValue,
			"const global variable '"+n.Name+"' must have a value"))
	}
	entry := b.declare(n.Name, n.Type, n, true)
	if n.Initializer != nil {
		if err := entry.Advance(scope.Initialized, false); err != nil {
			b.collector.AddError(cerr.NewCompilerError(n.Loc(), err.Error()))
		}
	}
	return nil
}

func (b *Builder) VisitBlock(n *ast.Block) any {
	for _, s := range n.Stmts {
		s.Accept(b)
	}
	return nil
}

func (b *Builder) VisitVarDecl(n *ast.VarDecl) any {
	entry := b.declare(n.Name, n.Type, n, false)
	if n.Initializer != nil {
		n.Initializer.Accept(b)
		if err := entry.Advance(scope.Initialized, false); err != nil {
			b.collector.AddError(cerr.NewCompilerError(n.Loc(), err.Error()))
		}
	}
	return nil
}

func (b *Builder) VisitAssignStmt(n *ast.AssignStmt) any {
	n.Lhs.Accept(b)
	n.Rhs.Accept(b)
	return nil
}

func (b *Builder) VisitIfStmt(n *ast.IfStmt) any {
	n.Cond.Accept(b)
	parent := b.currentScope
	n.ThenScopeName = b.nextScopeName("if")
	b.enterScope(n.ThenScopeName, scope.IfBody)
	n.Then.Accept(b)
	b.leaveScope(parent)
	if n.Else != nil {
		switch e := n.Else.(type) {
		case *ast.Block:
			n.ElseScopeName = b.nextScopeName("else")
			b.enterScope(n.ElseScopeName, scope.ElseBody)
			e.Accept(b)
			b.leaveScope(parent)
		default:
			n.Else.Accept(b)
		}
	}
	return nil
}

func (b *Builder) VisitWhileStmt(n *ast.WhileStmt) any {
	n.Cond.Accept(b)
	parent := b.currentScope
	n.ScopeName = b.nextScopeName("while")
	b.enterScope(n.ScopeName, scope.WhileBody)
	n.Body.Accept(b)
	b.leaveScope(parent)
	return nil
}

func (b *Builder) VisitDoWhileStmt(n *ast.DoWhileStmt) any {
	parent := b.currentScope
	n.ScopeName = b.nextScopeName("do")
	b.enterScope(n.ScopeName, scope.DoWhileBody)
	n.Body.Accept(b)
	b.leaveScope(parent)
	n.Cond.Accept(b)
	return nil
}

func (b *Builder) VisitForStmt(n *ast.ForStmt) any {
	parent := b.currentScope
	n.ScopeName = b.nextScopeName("for")
	b.enterScope(n.ScopeName, scope.ForBody)
	if n.Init != nil {
		n.Init.Accept(b)
	}
	if n.Cond != nil {
		n.Cond.Accept(b)
	}
	if n.Inc != nil {
		n.Inc.Accept(b)
	}
	n.Body.Accept(b)
	b.leaveScope(parent)
	return nil
}

func (b *Builder) VisitForeachStmt(n *ast.ForeachStmt) any {
	n.Iterable.Accept(b)
	parent := b.currentScope
	n.ScopeName = b.nextScopeName("foreach")
	body := b.enterScope(n.ScopeName, scope.ForeachBody)
	idxName := n.IdxName
	if !n.HasIdx {
		idxName = ForeachDefaultIdxName
	}
	idxEntry := body.Insert(idxName, symtype.TypeInt, n, false)
	if err := idxEntry.Advance(scope.Initialized, false); err != nil {
		b.collector.AddError(cerr.NewCompilerError(n.Loc(), err.Error()))
	}
	itemEntry := body.Insert(n.ItemName, symtype.TypeDyn, n, false)
	if err := itemEntry.Advance(scope.Initialized, false); err != nil {
		b.collector.AddError(cerr.NewCompilerError(n.Loc(), err.Error()))
	}
	n.Body.Accept(b)
	b.leaveScope(parent)
	return nil
}

func (b *Builder) VisitReturnStmt(n *ast.ReturnStmt) any {
	if n.Expr != nil {
		n.Expr.Accept(b)
	}
	return nil
}

func (b *Builder) VisitBreakStmt(n *ast.BreakStmt) any {
	if n.Count < 1 {
		b.collector.AddError(cerr.NewSemanticError(n.Loc(), cerr.InvalidBreakNumber,
			"break count must be a positive integer"))
	}
	return nil
}

func (b *Builder) VisitContinueStmt(n *ast.ContinueStmt) any {
	if n.Count < 1 {
		b.collector.AddError(cerr.NewSemanticError(n.Loc(), cerr.InvalidContinueNumber,
			"continue count must be a positive integer"))
	}
	return nil
}

func (b *Builder) VisitPrintfStmt(n *ast.PrintfStmt) any {
	for _, a := range n.Args {
		a.Accept(b)
	}
	return nil
}

func (b *Builder) VisitUnsafeBlock(n *ast.UnsafeBlock) any {
	parent := b.currentScope
	n.ScopeName = b.nextScopeName("unsafe")
	b.enterScope(n.ScopeName, scope.Unsafe)
	n.Body.Accept(b)
	b.leaveScope(parent)
	return nil
}

func (b *Builder) VisitExprStmt(n *ast.ExprStmt) any {
	n.Expr.Accept(b)
	return nil
}

// Expression nodes declare nothing; they only need to recurse so that
// nested blocks (e.g. inside a lambda-free call argument) are still
// visited. None currently nest statement-bearing children, so these are
// plain no-ops.
func (b *Builder) VisitIdent(n *ast.Ident) any               { return nil }
func (b *Builder) VisitIntLit(n *ast.IntLit) any             { return nil }
func (b *Builder) VisitDoubleLit(n *ast.DoubleLit) any       { return nil }
func (b *Builder) VisitStringLit(n *ast.StringLit) any       { return nil }
func (b *Builder) VisitBoolLit(n *ast.BoolLit) any           { return nil }
func (b *Builder) VisitCharLit(n *ast.CharLit) any           { return nil }
func (b *Builder) VisitThisExpr(n *ast.ThisExpr) any         { return nil }
func (b *Builder) VisitSizeofExpr(n *ast.SizeofExpr) any     { return nil }
func (b *Builder) VisitAlignofExpr(n *ast.AlignofExpr) any   { return nil }

func (b *Builder) VisitArrayLit(n *ast.ArrayLit) any {
	for _, it := range n.Items {
		it.Accept(b)
	}
	return nil
}

func (b *Builder) VisitStructLit(n *ast.StructLit) any {
	for _, v := range n.FieldValues {
		v.Accept(b)
	}
	return nil
}

func (b *Builder) VisitTernaryExpr(n *ast.TernaryExpr) any {
	n.Cond.Accept(b)
	n.Then.Accept(b)
	n.Else.Accept(b)
	return nil
}

func (b *Builder) VisitBinaryExpr(n *ast.BinaryExpr) any {
	n.Lhs.Accept(b)
	n.Rhs.Accept(b)
	return nil
}

func (b *Builder) VisitUnaryExpr(n *ast.UnaryExpr) any {
	n.Operand.Accept(b)
	return nil
}

func (b *Builder) VisitPostfixExpr(n *ast.PostfixExpr) any {
	n.Operand.Accept(b)
	return nil
}

func (b *Builder) VisitCastExpr(n *ast.CastExpr) any {
	n.Operand.Accept(b)
	return nil
}

func (b *Builder) VisitCallExpr(n *ast.CallExpr) any {
	n.Callee.Accept(b)
	for _, a := range n.Args {
		a.Accept(b)
	}
	return nil
}

func (b *Builder) VisitFieldAccessExpr(n *ast.FieldAccessExpr) any {
	n.Receiver.Accept(b)
	return nil
}

func (b *Builder) VisitIndexExpr(n *ast.IndexExpr) any {
	n.Array.Accept(b)
	n.Index.Accept(b)
	return nil
}

func (b *Builder) VisitLenExpr(n *ast.LenExpr) any {
	n.Operand.Accept(b)
	return nil
}
