package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spice-lang/spicec/internal/ast"
	"github.com/spice-lang/spicec/internal/lexer"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	toks, err := lexer.New([]byte(src), "m.spice").Tokenize()
	require.NoError(t, err)
	p := New(toks, "m.spice")
	file := p.ParseFile()
	require.Empty(t, p.Errors())
	return file
}

func TestParseEmptyMain(t *testing.T) {
	file := parse(t, `f main() { result = 0; }`)
	require.Len(t, file.Functions, 1)
	fn := file.Functions[0]
	assert.Equal(t, "main", fn.Name)
	require.Len(t, fn.Body.Stmts, 1)
	assign, ok := fn.Body.Stmts[0].(*ast.AssignStmt)
	require.True(t, ok)
	assert.Equal(t, ast.Assign, assign.Op)
}

func TestParseGenericFunctionAndCall(t *testing.T) {
	file := parse(t, `f<int> add(int a, int b) { return a + b; } f main() { result = add(2, 3); }`)
	require.Len(t, file.Functions, 2)
	add := file.Functions[0]
	assert.Equal(t, "add", add.Name)
	assert.Equal(t, []string{"int"}, add.TemplateTypes)
	require.Len(t, add.Params, 2)

	main := file.Functions[1]
	assign := main.Body.Stmts[0].(*ast.AssignStmt)
	call, ok := assign.Rhs.(*ast.CallExpr)
	require.True(t, ok)
	callee, ok := call.Callee.(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "add", callee.Name)
	assert.Len(t, call.Args, 2)
}

func TestParseConstReassignment(t *testing.T) {
	file := parse(t, `f main() { const int x = 1; x = 2; }`)
	body := file.Functions[0].Body.Stmts
	require.Len(t, body, 2)
	decl, ok := body[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.True(t, decl.IsConst)
	_, ok = body[1].(*ast.AssignStmt)
	assert.True(t, ok)
}

func TestParseStructLiteral(t *testing.T) {
	file := parse(t, `struct S { int a; int b; } f main() { S s = S{1, 2}; }`)
	require.Len(t, file.Structs, 1)
	s := file.Structs[0]
	require.Len(t, s.Fields, 2)
	assert.Equal(t, "a", s.Fields[0].Name)

	decl := file.Functions[0].Body.Stmts[0].(*ast.VarDecl)
	lit, ok := decl.Initializer.(*ast.StructLit)
	require.True(t, ok)
	assert.Equal(t, "S", lit.StructName)
	assert.Len(t, lit.FieldValues, 2)
}

func TestParseImportWithAlias(t *testing.T) {
	file := parse(t, `import "b" as b; f main() { result = 0; }`)
	require.Len(t, file.Imports, 1)
	assert.Equal(t, "b", file.Imports[0].Path)
	assert.Equal(t, "b", file.Imports[0].Alias)
}

func TestParsePrintfArgCountMismatchStillParses(t *testing.T) {
	file := parse(t, `f main() { printf("%d %s", 1); }`)
	stmt, ok := file.Functions[0].Body.Stmts[0].(*ast.PrintfStmt)
	require.True(t, ok)
	assert.Equal(t, "%d %s", stmt.Format)
	assert.Len(t, stmt.Args, 1)
}

func TestParseIfWhileForLoop(t *testing.T) {
	file := parse(t, `f main() {
		if (true) { result = 1; } else { result = 2; }
		while (result < 10) { result++; }
		for (int i = 0; i < 3; i++) { result = result + i; }
	}`)
	stmts := file.Functions[0].Body.Stmts
	require.Len(t, stmts, 3)
	_, ok := stmts[0].(*ast.IfStmt)
	assert.True(t, ok)
	_, ok = stmts[1].(*ast.WhileStmt)
	assert.True(t, ok)
	_, ok = stmts[2].(*ast.ForStmt)
	assert.True(t, ok)
}

func TestParseCastExpr(t *testing.T) {
	file := parse(t, `f main() { double d = (double) 3; }`)
	decl := file.Functions[0].Body.Stmts[0].(*ast.VarDecl)
	cast, ok := decl.Initializer.(*ast.CastExpr)
	require.True(t, ok)
	assert.Equal(t, "double", cast.TargetType.Name(false))
}
