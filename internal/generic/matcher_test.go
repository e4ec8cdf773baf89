package generic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spice-lang/spicec/internal/symtype"
)

func alwaysAllow(string, symtype.Type) bool { return true }

func TestMatchOneBindsUnmappedGeneric(t *testing.T) {
	mapping := TypeMapping{}
	candidate := symtype.Type{Super: symtype.Generic, SubType: "T"}

	ok := MatchOne(symtype.TypeInt, candidate, mapping, alwaysAllow)

	require.True(t, ok)
	assert.Equal(t, symtype.TypeInt, mapping["T"])
}

func TestMatchOneReusesMapping(t *testing.T) {
	mapping := TypeMapping{"T": symtype.TypeInt}
	candidate := symtype.Type{Super: symtype.Generic, SubType: "T"}

	assert.True(t, MatchOne(symtype.TypeInt, candidate, mapping, alwaysAllow))
	assert.False(t, MatchOne(symtype.TypeString, candidate, mapping, alwaysAllow))
}

func TestMatchOneNonGenericExact(t *testing.T) {
	mapping := TypeMapping{}
	assert.True(t, MatchOne(symtype.TypeInt, symtype.TypeInt, mapping, nil))
	assert.False(t, MatchOne(symtype.TypeInt, symtype.TypeString, mapping, nil))
}

func TestMatchOneRejectsUnsatisfiedCondition(t *testing.T) {
	mapping := TypeMapping{}
	candidate := symtype.Type{Super: symtype.Generic, SubType: "T"}
	reject := func(string, symtype.Type) bool { return false }

	assert.False(t, MatchOne(symtype.TypeInt, candidate, mapping, reject))
	_, bound := mapping["T"]
	assert.False(t, bound)
}

func TestSubstantiateReplacesGenericPreservingWrappers(t *testing.T) {
	mapping := TypeMapping{"T": symtype.TypeInt}
	generic := symtype.Type{Super: symtype.Generic, SubType: "T"}.ToPointer()

	out := Substantiate(generic, mapping)

	assert.True(t, out.IsPtr())
	assert.Equal(t, symtype.Int, out.GetBaseType().Super)
}

func TestMatchOneRecursesIntoFunctionSignature(t *testing.T) {
	mapping := TypeMapping{}
	retType := symtype.Type{Super: symtype.Generic, SubType: "T"}
	candidate := symtype.Type{
		Super:          symtype.Function,
		FuncParamTypes: []symtype.Type{{Super: symtype.Generic, SubType: "T"}},
		FuncReturnType: &retType,
	}
	requested := symtype.Type{
		Super:          symtype.Function,
		FuncParamTypes: []symtype.Type{symtype.TypeInt},
		FuncReturnType: &symtype.TypeInt,
	}

	ok := MatchOne(requested, candidate, mapping, alwaysAllow)

	require.True(t, ok)
	assert.Equal(t, symtype.TypeInt, mapping["T"])
}
