package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spice-lang/spicec/internal/ast"
	"github.com/spice-lang/spicec/internal/cerr"
	"github.com/spice-lang/spicec/internal/symtype"
)

func TestMatchFunctionExactMatch(t *testing.T) {
	decl := &ast.FunctionDecl{
		Name:       "identity",
		ReturnType: symtype.TypeInt,
		Params:     []ast.Param{{Name: "x", Type: symtype.TypeInt}},
	}
	m := New()

	man, err := m.MatchFunction("identity", []*ast.FunctionDecl{decl}, symtype.Type{}, []symtype.Type{symtype.TypeInt}, nil, cerr.CodeLoc{})

	require.NoError(t, err)
	require.NotNil(t, man)
	assert.Equal(t, symtype.TypeInt, man.ReturnType)
	assert.True(t, m.NewManifestationAdded)
}

func TestMatchFunctionInternsOnce(t *testing.T) {
	decl := &ast.FunctionDecl{Name: "identity", ReturnType: symtype.TypeInt, Params: []ast.Param{{Name: "x", Type: symtype.TypeInt}}}
	m := New()

	first, err := m.MatchFunction("identity", []*ast.FunctionDecl{decl}, symtype.Type{}, []symtype.Type{symtype.TypeInt}, nil, cerr.CodeLoc{})
	require.NoError(t, err)
	second, err := m.MatchFunction("identity", []*ast.FunctionDecl{decl}, symtype.Type{}, []symtype.Type{symtype.TypeInt}, nil, cerr.CodeLoc{})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, decl.Manifestations, 1)
}

func TestMatchFunctionNoCandidateReturnsNil(t *testing.T) {
	decl := &ast.FunctionDecl{Name: "identity", ReturnType: symtype.TypeInt, Params: []ast.Param{{Name: "x", Type: symtype.TypeInt}}}
	m := New()

	man, err := m.MatchFunction("identity", []*ast.FunctionDecl{decl}, symtype.Type{}, []symtype.Type{symtype.TypeString}, nil, cerr.CodeLoc{})

	require.NoError(t, err)
	assert.Nil(t, man)
}

func TestMatchFunctionAmbiguity(t *testing.T) {
	a := &ast.FunctionDecl{Name: "f", ReturnType: symtype.TypeInt, Params: []ast.Param{{Name: "x", Type: symtype.TypeInt}}}
	b := &ast.FunctionDecl{Name: "f", ReturnType: symtype.TypeString, Params: []ast.Param{{Name: "x", Type: symtype.TypeInt}}}
	m := New()

	man, err := m.MatchFunction("f", []*ast.FunctionDecl{a, b}, symtype.Type{}, []symtype.Type{symtype.TypeInt}, nil, cerr.CodeLoc{})

	require.Error(t, err)
	assert.Nil(t, man)
	var semErr *cerr.SemanticError
	require.ErrorAs(t, err, &semErr)
	assert.Equal(t, cerr.FunctionAmbiguity, semErr.Kind)
}

func TestMatchStructSubstantiatesFields(t *testing.T) {
	decl := &ast.StructDecl{
		Name:          "Box",
		TemplateTypes: []string{"T"},
		Fields: []ast.Field{
			{Name: "value", Type: symtype.Type{Super: symtype.Generic, SubType: "T"}},
		},
	}
	m := New()

	man, err := m.MatchStruct("Box", decl, []symtype.Type{symtype.TypeInt})

	require.NoError(t, err)
	require.Len(t, man.FieldTypes, 1)
	assert.Equal(t, symtype.Int, man.FieldTypes[0].Super)
}
