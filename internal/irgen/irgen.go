package irgen

import (
	"fmt"

	"github.com/spice-lang/spicec/internal/ast"
	"github.com/spice-lang/spicec/internal/manager"
	"github.com/spice-lang/spicec/internal/symtype"
)

// Generator lowers one SourceFile's typed AST to a Module. It implements
// ast.Visitor the same way internal/symbuild and internal/typecheck do,
// since it is itself a tree-walking pass that attaches information (here,
// emitted IR text) as it descends — the double-dispatch shape spec §4.4
// describes is reused for the third and final pass over the tree.
type Generator struct {
	mod    *Module
	funcs  *manager.Manager
	structs *manager.Manager
	structDecls map[string]*ast.StructDecl

	fb       *funcBuilder
	manIdx   ast.ManIdx
	loopEnds  []string
	loopConds []string
}

// New creates a Generator for one SourceFile, named moduleName (typically
// its canonical path).
func New(moduleName string, funcs, structs *manager.Manager) *Generator {
	return &Generator{
		mod:         &Module{Name: moduleName},
		funcs:       funcs,
		structs:     structs,
		structDecls: make(map[string]*ast.StructDecl),
	}
}

// Lower runs the generator over file and returns the emitted Module. file
// must already have passed internal/symbuild and both internal/typecheck
// passes — Lower does not itself validate anything.
func Lower(moduleName string, file *ast.File, funcs, structs *manager.Manager) *Module {
	g := New(moduleName, funcs, structs)
	file.Accept(g)
	return g.mod
}

func (g *Generator) VisitFile(n *ast.File) any {
	for _, s := range n.Structs {
		g.structDecls[s.Name] = s
	}
	for _, gv := range n.Globals {
		g.emitGlobal(gv)
	}
	for _, s := range n.Structs {
		g.emitStructManifestations(s)
	}
	for _, f := range n.Functions {
		if f.Name == "main" {
			g.emitMain(f)
			continue
		}
		g.emitFunction(f)
	}
	return nil
}

func (g *Generator) VisitImportDecl(n *ast.ImportDecl) any { return nil }

func (g *Generator) emitGlobal(n *ast.GlobalVarDecl) {
	gl := Global{
		Name:   n.Name,
		Type:   llvmTypeName(n.Type),
		Const:  n.IsConst,
		Public: n.IsPublic,
	}
	if n.Initializer != nil {
		if v, ok := constFold(n.Initializer); ok {
			gl.HasValue = true
			gl.Init = v
		}
	}
	g.mod.Globals = append(g.mod.Globals, gl)
}

// emitMain special-cases the entry point: it is never reached through a
// CallExpr, so internal/manager never interns a manifestation for it (spec
// §4.8 manifestations are created lazily at call sites). Main is instead
// emitted directly from its declaration exactly once, per spec §4.11 "Main
// emits a stack-allocated result initialized to 0, runs the body, and
// returns the final value of result."
func (g *Generator) emitMain(n *ast.FunctionDecl) {
	fb := newFuncBuilder()
	g.fb = fb
	fb.pushScope()
	resultAddr := fb.declareLocal("result", "i32")
	fb.emit("store i32 0, i32* %%%s", resultAddr)
	if n.Body != nil {
		n.Body.Accept(g)
	}
	loaded := fb.freshTemp()
	fb.emit("%%%s = load i32, i32* %%%s", loaded, resultAddr)
	fb.emit("ret i32 %%%s", loaded)
	fb.popScope()
	g.mod.Functions = append(g.mod.Functions, Function{
		Name:       "main",
		ReturnType: "i32",
		Public:     true,
		Body:       fb.String(),
	})
	g.fb = nil
}

// emitFunction emits every manifestation internal/typecheck/internal/manager
// interned for n — skipping any that aren't fully substantiated or aren't
// reachable (spec §4.11: "emitted iff isFullySubstantiated and either
// public or used").
func (g *Generator) emitFunction(n *ast.FunctionDecl) {
	for _, man := range n.Manifestations {
		if !man.IsFullySubstantiated {
			continue
		}
		if !man.Used && !n.IsPublic {
			continue
		}
		g.emitManifestation(n, man)
	}
}

func (g *Generator) emitManifestation(n *ast.FunctionDecl, man *ast.FunctionManifestation) {
	fb := newFuncBuilder()
	g.fb = fb
	fb.pushScope()

	var params []ParamDecl
	if n.IsMethod {
		attrs := "noundef nonnull"
		if sz := sizeOf(man.ReceiverType.RemovePointer()); sz > 0 {
			attrs = fmt.Sprintf("%s dereferenceable(%d)", attrs, sz)
		}
		addr := fb.declareLocal(thisParamName, llvmTypeName(man.ReceiverType))
		fb.emit("; this bound to %%%s", addr)
		params = append(params, ParamDecl{Name: thisParamName, Type: llvmTypeName(man.ReceiverType), Attrs: attrs})
	}
	for i, p := range n.Params {
		var pt symtype.Type
		if i < len(man.ParamTypes) {
			pt = man.ParamTypes[i]
		} else {
			pt = p.Type
		}
		ty := llvmTypeName(pt)
		addr := fb.declareLocal(p.Name, ty)
		incoming := fb.freshTemp()
		fb.emit("; param %%%s arrives as %%%s", p.Name, incoming)
		fb.emit("store %s %%%s, %s* %%%s", ty, incoming, ty, addr)
		params = append(params, ParamDecl{Name: p.Name, Type: ty})
	}

	retType := ""
	if !n.IsProcedure {
		retType = llvmTypeName(man.ReturnType)
		resultAddr := fb.declareLocal(returnLocalName, retType)
		fb.emit("; result slot %%%s", resultAddr)
	}

	if n.Body != nil {
		n.Body.Accept(g)
	}
	if n.IsProcedure {
		fb.emit("ret void")
	} else if !n.ReturnsOnAllControlPaths() {
		addr, ty, ok := fb.lookupLocal(returnLocalName)
		if ok {
			loaded := fb.freshTemp()
			fb.emit("%%%s = load %s, %s* %%%s", loaded, ty, ty, addr)
			fb.emit("ret %s %%%s", ty, loaded)
		}
	}
	fb.popScope()

	g.mod.Functions = append(g.mod.Functions, Function{
		Name:       man.MangledName,
		Params:     params,
		ReturnType: retType,
		Public:     n.IsPublic,
		Body:       fb.String(),
	})
	g.fb = nil
}

const (
	thisParamName   = "this"
	returnLocalName = "result"
)

// constFold reports the textual constant if e is a literal internal/irgen
// can emit directly as a global initializer (spec §4.11: "Array literals
// whose items are all compile-time constants are emitted as global
// constant arrays; otherwise as stack allocas").
func constFold(e ast.Expr) (string, bool) {
	switch v := e.(type) {
	case *ast.IntLit:
		return fmt.Sprintf("%d", v.Value), true
	case *ast.DoubleLit:
		return fmt.Sprintf("%g", v.Value), true
	case *ast.BoolLit:
		if v.Value {
			return "true", true
		}
		return "false", true
	case *ast.CharLit:
		return fmt.Sprintf("%d", v.Value), true
	default:
		return "", false
	}
}
