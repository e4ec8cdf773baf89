package symbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spice-lang/spicec/internal/ast"
	"github.com/spice-lang/spicec/internal/cerr"
	"github.com/spice-lang/spicec/internal/scope"
	"github.com/spice-lang/spicec/internal/symtype"
)

func TestBuilderDeclaresMainFunction(t *testing.T) {
	file := &ast.File{
		Functions: []*ast.FunctionDecl{
			{Name: MainFunctionName, ReturnType: symtype.TypeInt, Body: &ast.Block{}},
		},
	}
	root := scope.NewGlobalScope()
	collector := cerr.NewCollector()
	b := NewBuilder(root, collector)

	b.Build(file)

	assert.True(t, b.HasMainFunction())
	require.False(t, collector.HasErrors())
	entry := root.LookupStrict(MainFunctionName)
	require.NotNil(t, entry)
	assert.Equal(t, symtype.Function, entry.Type.Super)
}

func TestBuilderFlagsDuplicateFunction(t *testing.T) {
	file := &ast.File{
		Functions: []*ast.FunctionDecl{
			{Name: "helper", ReturnType: symtype.TypeInt, Body: &ast.Block{}},
			{Name: "helper", ReturnType: symtype.TypeInt, Body: &ast.Block{}},
		},
	}
	root := scope.NewGlobalScope()
	collector := cerr.NewCollector()
	b := NewBuilder(root, collector)

	b.Build(file)

	require.True(t, collector.HasErrors())
}

func TestBuilderDeclaresStructFieldsAndMethodReceiver(t *testing.T) {
	structDecl := &ast.StructDecl{
		Name: "Counter",
		Fields: []ast.Field{
			{Name: "value", Type: symtype.TypeInt},
		},
		Methods: []*ast.FunctionDecl{
			{Name: "increment", IsProcedure: true, Body: &ast.Block{}},
		},
	}
	file := &ast.File{Structs: []*ast.StructDecl{structDecl}}
	root := scope.NewGlobalScope()
	collector := cerr.NewCollector()
	b := NewBuilder(root, collector)

	b.Build(file)

	require.False(t, collector.HasErrors())
	require.NotNil(t, structDecl.BodyScope)
	fieldEntry := structDecl.BodyScope.LookupStrict("value")
	require.NotNil(t, fieldEntry)

	method := structDecl.Methods[0]
	require.NotNil(t, method.BodyScope)
	thisEntry := method.BodyScope.LookupStrict(ThisVariableName)
	require.NotNil(t, thisEntry)
	assert.True(t, thisEntry.Type.IsPtr())
	assert.Equal(t, symtype.Struct, thisEntry.Type.GetBaseType().Super)
	assert.True(t, thisEntry.IsInitialized())
}

func TestBuilderForeachDefaultIdx(t *testing.T) {
	fn := &ast.FunctionDecl{
		Name:        "iterate",
		IsProcedure: true,
		Body: &ast.Block{
			Stmts: []ast.Stmt{
				&ast.ForeachStmt{
					ItemName: "item",
					Iterable: &ast.Ident{Name: "items"},
					Body:     &ast.Block{},
				},
			},
		},
	}
	file := &ast.File{Functions: []*ast.FunctionDecl{fn}}
	root := scope.NewGlobalScope()
	collector := cerr.NewCollector()
	b := NewBuilder(root, collector)

	b.Build(file)

	require.False(t, collector.HasErrors())
	foreachScope := fn.BodyScope.GetChildScope("foreach0")
	require.NotNil(t, foreachScope)
	idxEntry := foreachScope.LookupStrict(ForeachDefaultIdxName)
	require.NotNil(t, idxEntry)
	assert.True(t, idxEntry.IsInitialized())
}
