package manager

import (
	"strings"

	"github.com/spice-lang/spicec/internal/symtype"
)

// Reserved operator-overload function names (spec §4.8). A method
// declared under one of these names is eligible to back the corresponding
// arithmetic/comparison operator when the static operator rule tables in
// internal/symtype have no entry for the operand types.
const (
	OpPlus             = "op.plus"
	OpMinus            = "op.minus"
	OpMul              = "op.mul"
	OpDiv              = "op.div"
	OpEq               = "op.eq"
	OpNeq              = "op.neq"
	OpShl              = "op.shl"
	OpShr              = "op.shr"
	OpPlusEq           = "op.plusEq"
	OpMinusEq          = "op.minusEq"
	OpMulEq            = "op.mulEq"
	OpDivEq            = "op.divEq"
	OpPostfixPlusPlus  = "op.postfixPlusPlus"
	OpPostfixMinusMinus = "op.postfixMinusMinus"
)

// Mangle builds the injective signature key a manifestation is interned
// under: the fully-qualified name, the receiver type (empty for a free
// function), and the ordered parameter types. Two calls with
// Matches-equal inputs always produce the same string, and calls that
// differ in any of those inputs never collide — spec §4.8 requires the
// mangled signature to uniquely identify one manifestation.
func Mangle(fqn string, thisType symtype.Type, paramTypes []symtype.Type, templateTypes []symtype.Type) string {
	var b strings.Builder
	b.WriteString(fqn)
	if thisType.Super != symtype.Invalid {
		b.WriteString("@")
		b.WriteString(thisType.Name(true))
	}
	if len(templateTypes) > 0 {
		b.WriteString("<")
		for i, t := range templateTypes {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(t.Name(true))
		}
		b.WriteString(">")
	}
	b.WriteString("(")
	for i, t := range paramTypes {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(t.Name(true))
	}
	b.WriteString(")")
	return b.String()
}
