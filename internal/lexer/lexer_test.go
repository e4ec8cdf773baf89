package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeSimpleFunction(t *testing.T) {
	toks, err := New([]byte("f main() { result = 0; }"), "main.spice").Tokenize()
	require.NoError(t, err)

	var kinds []Kind
	var texts []string
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, Keyword, kinds[0])
	assert.Equal(t, "f", texts[0])
	assert.Equal(t, Ident, kinds[1])
	assert.Equal(t, "main", texts[1])
	assert.Equal(t, EOF, kinds[len(kinds)-1])
}

func TestTokenizeStripsBOMAndNormalizesNFC(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("int x;")...)
	toks, err := New(src, "m.spice").Tokenize()
	require.NoError(t, err)
	assert.Equal(t, "int", toks[0].Text)
}

func TestTokenizeNumbersAndStrings(t *testing.T) {
	toks, err := New([]byte(`double d = 1.5; string s = "hi\n";`), "m.spice").Tokenize()
	require.NoError(t, err)

	var doubleSeen, stringSeen bool
	for _, tok := range toks {
		if tok.Kind == DoubleLit && tok.Text == "1.5" {
			doubleSeen = true
		}
		if tok.Kind == StringLit && tok.Text == "hi\n" {
			stringSeen = true
		}
	}
	assert.True(t, doubleSeen)
	assert.True(t, stringSeen)
}

func TestTokenizeLongOperatorsPreferLongestMatch(t *testing.T) {
	toks, err := New([]byte("a <<= b"), "m.spice").Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 4) // a, <<=, b, EOF
	assert.Equal(t, "<<=", toks[1].Text)
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, IsKeyword("struct"))
	assert.False(t, IsKeyword("notakeyword"))
}

func TestTokenizeUnterminatedStringErrors(t *testing.T) {
	_, err := New([]byte(`string s = "oops;`), "m.spice").Tokenize()
	assert.Error(t, err)
}
