package irgen

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spice-lang/spicec/internal/ast"
	"github.com/spice-lang/spicec/internal/manager"
	"github.com/spice-lang/spicec/internal/symtype"
)

// block builds a *ast.Block from statements without needing a parser.
func block(stmts ...ast.Stmt) *ast.Block {
	return &ast.Block{Stmts: stmts}
}

func TestLowerEmptyMainReturnsZero(t *testing.T) {
	file := &ast.File{
		Functions: []*ast.FunctionDecl{
			{Name: "main", Body: block()},
		},
	}

	mod := Lower("main.spice", file, manager.New(), manager.New())

	require.Len(t, mod.Functions, 1)
	main := mod.Functions[0]
	assert.Equal(t, "main", main.Name)
	assert.Equal(t, "i32", main.ReturnType)
	assert.True(t, main.Public)
	assert.Contains(t, main.Body, "store i32 0")
	assert.Contains(t, main.Body, "ret i32")
}

func TestLowerMainAssignsResult(t *testing.T) {
	file := &ast.File{
		Functions: []*ast.FunctionDecl{
			{
				Name: "main",
				Body: block(&ast.AssignStmt{
					Lhs: &ast.Ident{Name: "result"},
					Op:  ast.Assign,
					Rhs: &ast.IntLit{Value: 0},
				}),
			},
		},
	}

	mod := Lower("main.spice", file, manager.New(), manager.New())

	main := mod.Functions[0]
	assert.Contains(t, main.Body, "store i32 0, i32* %result")
}

func TestLowerFunctionManifestationSkipsUnsubstantiated(t *testing.T) {
	decl := &ast.FunctionDecl{
		Name:       "add",
		ReturnType: symtype.TypeInt,
		Params:     []ast.Param{{Name: "a", Type: symtype.TypeInt}, {Name: "b", Type: symtype.TypeInt}},
		Body: block(&ast.ReturnStmt{Expr: &ast.BinaryExpr{
			Lhs: &ast.Ident{Name: "a"},
			Op:  ast.BinPlus,
			Rhs: &ast.Ident{Name: "b"},
		}}),
		Manifestations: []*ast.FunctionManifestation{
			{MangledName: "add$int$int", ParamTypes: []symtype.Type{symtype.TypeInt, symtype.TypeInt}, ReturnType: symtype.TypeInt, IsFullySubstantiated: false},
		},
	}
	file := &ast.File{Functions: []*ast.FunctionDecl{decl}}

	mod := Lower("m.spice", file, manager.New(), manager.New())

	assert.Empty(t, mod.Functions)
}

func TestLowerFunctionManifestationEmitsBody(t *testing.T) {
	lhs := &ast.Ident{Name: "a"}
	rhs := &ast.Ident{Name: "b"}
	lhs.SetEvaluatedType(0, symtype.TypeInt)
	rhs.SetEvaluatedType(0, symtype.TypeInt)
	sum := &ast.BinaryExpr{Lhs: lhs, Op: ast.BinPlus, Rhs: rhs}
	sum.SetEvaluatedType(0, symtype.TypeInt)

	decl := &ast.FunctionDecl{
		Name:       "add",
		IsPublic:   true,
		ReturnType: symtype.TypeInt,
		Params:     []ast.Param{{Name: "a", Type: symtype.TypeInt}, {Name: "b", Type: symtype.TypeInt}},
		Body:       block(&ast.ReturnStmt{Expr: sum}),
		Manifestations: []*ast.FunctionManifestation{
			{MangledName: "add$int$int", ParamTypes: []symtype.Type{symtype.TypeInt, symtype.TypeInt}, ReturnType: symtype.TypeInt, IsFullySubstantiated: true},
		},
	}
	file := &ast.File{Functions: []*ast.FunctionDecl{decl}}

	mod := Lower("m.spice", file, manager.New(), manager.New())

	require.Len(t, mod.Functions, 1)
	fn := mod.Functions[0]
	assert.Equal(t, "add$int$int", fn.Name)
	assert.True(t, fn.Public)
	assert.Contains(t, fn.Body, "add i32")
	assert.Contains(t, fn.Body, "ret i32")
}

func TestLowerGlobalWithConstantInitializer(t *testing.T) {
	file := &ast.File{
		Globals: []*ast.GlobalVarDecl{
			{Name: "MAX", Type: symtype.TypeInt, IsConst: true, IsPublic: true, Initializer: &ast.IntLit{Value: 100}},
		},
	}

	mod := Lower("m.spice", file, manager.New(), manager.New())

	require.Len(t, mod.Globals, 1)
	gl := mod.Globals[0]
	assert.Equal(t, "MAX", gl.Name)
	assert.True(t, gl.Const)
	assert.True(t, gl.HasValue)
	assert.Equal(t, "100", gl.Init)
}

func TestLowerGlobalWithoutValueZeroInits(t *testing.T) {
	file := &ast.File{
		Globals: []*ast.GlobalVarDecl{
			{Name: "counter", Type: symtype.TypeInt},
		},
	}

	mod := Lower("m.spice", file, manager.New(), manager.New())

	require.Len(t, mod.Globals, 1)
	assert.False(t, mod.Globals[0].HasValue)
	assert.Contains(t, mod.String(), "zeroinitializer")
}

func TestLowerStructManifestationEmitsCtorCopyCtorDtor(t *testing.T) {
	structDecl := &ast.StructDecl{
		Name: "Point",
		Manifestations: []*ast.StructManifestation{
			{MangledName: "Point", FieldTypes: []symtype.Type{symtype.TypeInt, symtype.TypeInt}, Used: true},
		},
	}
	file := &ast.File{Structs: []*ast.StructDecl{structDecl}}

	mod := Lower("m.spice", file, manager.New(), manager.New())

	names := make([]string, len(mod.Functions))
	for i, f := range mod.Functions {
		names[i] = f.Name
	}
	assert.Contains(t, names, "Point.ctor")
	assert.Contains(t, names, "Point.copyctor")
	assert.Contains(t, names, "Point.dtor")
	require.Len(t, mod.Structs, 1)
	assert.Equal(t, []string{"i32", "i32"}, mod.Structs[0].FieldTypes)
}

func TestModuleStringRendersLinkage(t *testing.T) {
	mod := &Module{
		Name: "m",
		Globals: []Global{
			{Name: "x", Type: "i32", Public: true, HasValue: true, Init: "1"},
		},
		Functions: []Function{
			{Name: "f", ReturnType: "i32", Public: true, Body: "  ret i32 0\n"},
		},
	}

	out := mod.String()

	assert.True(t, strings.Contains(out, "@x = external global i32 1"))
	assert.True(t, strings.Contains(out, "define i32 @f() external {"))
}

func TestLlvmTypeNameWraps(t *testing.T) {
	assert.Equal(t, "i32", llvmTypeName(symtype.TypeInt))
	assert.Equal(t, "i32*", llvmTypeName(symtype.TypeInt.ToPointer()))
	assert.Equal(t, "[3 x i32]", llvmTypeName(symtype.TypeInt.ToArray(3)))
	assert.Equal(t, "%struct.Point", llvmTypeName(symtype.Type{Super: symtype.Struct, SubType: "Point"}))
}

func TestSizeOfPrimitives(t *testing.T) {
	assert.Equal(t, int64(4), sizeOf(symtype.TypeInt))
	assert.Equal(t, int64(8), sizeOf(symtype.TypeDouble))
	assert.Equal(t, int64(1), sizeOf(symtype.TypeBool))
	assert.Equal(t, int64(8), sizeOf(symtype.TypeInt.ToPointer()))
}

// TestLowerIsDeterministic backs spec §8 property 1: lowering the same
// typed AST twice must produce byte-identical Modules, even when each
// lowering is given its own independent *manager.Manager pair.
func TestLowerIsDeterministic(t *testing.T) {
	build := func() *ast.File {
		return &ast.File{
			Functions: []*ast.FunctionDecl{
				{Name: "main", Body: block(
					&ast.AssignStmt{Op: ast.Assign, Lhs: &ast.Ident{Name: "result"}, Rhs: &ast.IntLit{Value: 5}},
				)},
			},
		}
	}

	first := Lower("main.spice", build(), manager.New(), manager.New())
	second := Lower("main.spice", build(), manager.New(), manager.New())

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("lowering was not deterministic (-first +second):\n%s", diff)
	}
}
