package symtype

// BinaryOpRule pairs two primitive operand super types with the super type
// their operator application yields.
type BinaryOpRule struct {
	Lhs, Rhs, Result SuperType
}

// UnaryOpRule pairs one primitive operand super type with the super type
// its operator application yields.
type UnaryOpRule struct {
	Operand, Result SuperType
}

// The tables below are transcribed verbatim (operand/result triples) from
// the reference compiler's static operator rule tables. They hold rows for
// unwrapped types only: validateBinary/validateUnary strip a reference from
// each operand before the lookup, and any other wrapper (pointer, array)
// fails with OPERATOR_WRONG_DATA_TYPE. Struct operator overloads are
// resolved separately by internal/typecheck via internal/manager's op.*
// dispatch.

var assignOpRules = []BinaryOpRule{
	{Double, Double, Double},
	{Int, Int, Int},
	{Short, Short, Short},
	{Long, Long, Long},
	{Byte, Byte, Byte},
	{Char, Char, Char},
	{String, String, String},
	{Bool, Bool, Bool},
}

var plusEqualOpRules = []BinaryOpRule{
	{Double, Double, Double},
	{Int, Int, Int},
	{Int, Short, Int},
	{Int, Long, Int},
	{Short, Int, Short},
	{Short, Short, Short},
	{Short, Long, Short},
	{Long, Int, Long},
	{Long, Short, Long},
	{Long, Long, Long},
	{Byte, Byte, Byte},
	{String, Char, String},
	{String, String, String},
}

var minusEqualOpRules = []BinaryOpRule{
	{Double, Double, Double},
	{Int, Int, Int},
	{Int, Short, Int},
	{Int, Long, Int},
	{Short, Int, Short},
	{Short, Short, Short},
	{Short, Long, Short},
	{Long, Int, Long},
	{Long, Short, Long},
	{Long, Long, Long},
	{Byte, Byte, Byte},
}

var mulEqualOpRules = []BinaryOpRule{
	{Double, Double, Double},
	{Int, Int, Int},
	{Int, Short, Int},
	{Int, Long, Int},
	{Short, Int, Short},
	{Short, Short, Short},
	{Short, Long, Short},
	{Long, Int, Long},
	{Long, Short, Long},
	{Long, Long, Long},
	{Byte, Byte, Byte},
}

var divEqualOpRules = []BinaryOpRule{
	{Double, Double, Double},
	{Int, Int, Int},
	{Int, Short, Int},
	{Int, Long, Int},
	{Short, Int, Short},
	{Short, Short, Short},
	{Short, Long, Short},
	{Long, Int, Long},
	{Long, Short, Long},
	{Long, Long, Long},
	{Byte, Byte, Byte},
}

var remEqualOpRules = []BinaryOpRule{
	{Double, Double, Double},
	{Int, Int, Int},
	{Int, Short, Int},
	{Int, Long, Int},
	{Short, Int, Short},
	{Short, Short, Short},
	{Short, Long, Short},
	{Long, Int, Long},
	{Long, Short, Long},
	{Long, Long, Long},
	{Byte, Byte, Byte},
}

var shlEqualOpRules = []BinaryOpRule{
	{Int, Int, Int},
	{Int, Short, Int},
	{Int, Long, Long},
	{Short, Int, Short},
	{Short, Short, Short},
	{Short, Long, Long},
	{Long, Int, Long},
	{Long, Short, Long},
	{Long, Long, Long},
	{Byte, Byte, Byte},
}

var shrEqualOpRules = []BinaryOpRule{
	{Int, Int, Int},
	{Int, Short, Int},
	{Int, Long, Long},
	{Short, Int, Short},
	{Short, Short, Short},
	{Short, Long, Long},
	{Long, Int, Long},
	{Long, Short, Long},
	{Long, Long, Long},
	{Byte, Byte, Byte},
}

var andEqualOpRules = []BinaryOpRule{
	{Int, Int, Int},
	{Int, Short, Int},
	{Int, Long, Long},
	{Short, Int, Short},
	{Short, Short, Short},
	{Short, Long, Long},
	{Long, Int, Long},
	{Long, Short, Long},
	{Long, Long, Long},
	{Byte, Byte, Byte},
}

var orEqualOpRules = []BinaryOpRule{
	{Int, Int, Int},
	{Int, Short, Int},
	{Int, Long, Long},
	{Short, Int, Short},
	{Short, Short, Short},
	{Short, Long, Long},
	{Long, Int, Long},
	{Long, Short, Long},
	{Long, Long, Long},
	{Byte, Byte, Byte},
}

var xorEqualOpRules = []BinaryOpRule{
	{Int, Int, Int},
	{Int, Short, Int},
	{Int, Long, Long},
	{Short, Int, Short},
	{Short, Short, Short},
	{Short, Long, Long},
	{Long, Int, Long},
	{Long, Short, Long},
	{Long, Long, Long},
	{Byte, Byte, Byte},
}

var logicalAndOpRules = []BinaryOpRule{{Bool, Bool, Bool}}
var logicalOrOpRules = []BinaryOpRule{{Bool, Bool, Bool}}

var bitwiseAndOpRules = []BinaryOpRule{
	{Int, Int, Int},
	{Short, Short, Short},
	{Long, Long, Long},
	{Byte, Byte, Byte},
}

var bitwiseOrOpRules = []BinaryOpRule{
	{Int, Int, Int},
	{Short, Short, Short},
	{Long, Long, Long},
	{Byte, Byte, Byte},
}

var bitwiseXorOpRules = []BinaryOpRule{
	{Int, Int, Int},
	{Short, Short, Short},
	{Long, Long, Long},
	{Byte, Byte, Byte},
}

var equalOpRules = []BinaryOpRule{
	{Double, Double, Bool}, {Double, Int, Bool}, {Double, Short, Bool}, {Double, Long, Bool},
	{Int, Double, Bool}, {Int, Int, Bool}, {Int, Short, Bool}, {Int, Long, Bool}, {Int, Char, Bool},
	{Short, Double, Bool}, {Short, Int, Bool}, {Short, Short, Bool}, {Short, Long, Bool}, {Short, Char, Bool},
	{Long, Double, Bool}, {Long, Int, Bool}, {Long, Short, Bool}, {Long, Long, Bool}, {Long, Char, Bool},
	{Byte, Byte, Bool},
	{Char, Int, Bool}, {Char, Short, Bool}, {Char, Long, Bool}, {Char, Char, Bool},
	{String, String, Bool},
	{Bool, Bool, Bool},
}

var notEqualOpRules = equalOpRules

var lessOpRules = []BinaryOpRule{
	{Double, Double, Bool}, {Double, Int, Bool}, {Double, Short, Bool}, {Double, Long, Bool},
	{Int, Double, Bool}, {Int, Int, Bool}, {Int, Short, Bool}, {Int, Long, Bool},
	{Short, Double, Bool}, {Short, Int, Bool}, {Short, Short, Bool}, {Short, Long, Bool},
	{Long, Double, Bool}, {Long, Int, Bool}, {Long, Short, Bool}, {Long, Long, Bool},
	{Byte, Byte, Bool},
	{Char, Char, Bool},
}

var greaterOpRules = lessOpRules
var lessEqualOpRules = lessOpRules
var greaterEqualOpRules = lessOpRules

var shiftLeftOpRules = []BinaryOpRule{
	{Int, Int, Int}, {Int, Short, Int}, {Int, Long, Int},
	{Short, Int, Short}, {Short, Short, Short}, {Short, Long, Short},
	{Long, Int, Long}, {Long, Short, Long}, {Long, Long, Long},
	{Byte, Int, Byte}, {Byte, Short, Byte}, {Byte, Long, Byte}, {Byte, Byte, Byte},
}

var shiftRightOpRules = []BinaryOpRule{
	{Int, Int, Int}, {Int, Short, Int}, {Int, Long, Int},
	{Short, Int, Short}, {Short, Short, Short}, {Short, Long, Short},
	{Long, Int, Long}, {Long, Short, Long}, {Long, Long, Long},
	{Byte, Int, Byte}, {Byte, Short, Byte}, {Byte, Long, Byte}, {Byte, Byte, Byte},
}

var plusOpRules = []BinaryOpRule{
	{Double, Double, Double}, {Double, Int, Double}, {Double, Short, Double}, {Double, Long, Double},
	{Int, Double, Double}, {Int, Int, Int}, {Int, Short, Int}, {Int, Long, Long},
	{Short, Double, Double}, {Short, Int, Int}, {Short, Short, Short}, {Short, Long, Long},
	{Long, Double, Double}, {Long, Int, Long}, {Long, Short, Long}, {Long, Long, Long},
	{Byte, Byte, Byte},
	{String, String, String},
}

var minusOpRules = []BinaryOpRule{
	{Double, Double, Double}, {Double, Int, Double}, {Double, Short, Double}, {Double, Long, Double},
	{Int, Double, Double}, {Int, Int, Int}, {Int, Short, Int}, {Int, Long, Long},
	{Short, Double, Double}, {Short, Int, Int}, {Short, Short, Short}, {Short, Long, Long},
	{Long, Double, Double}, {Long, Int, Long}, {Long, Short, Long}, {Long, Long, Long},
	{Byte, Byte, Byte},
}

var mulOpRules = []BinaryOpRule{
	{Double, Double, Double}, {Double, Int, Double}, {Double, Short, Double}, {Double, Long, Double},
	{Int, Double, Double}, {Int, Int, Int}, {Int, Short, Int}, {Int, Long, Long},
	{Int, Char, String}, {Int, String, String},
	{Short, Double, Double}, {Short, Int, Int}, {Short, Short, Short}, {Short, Long, Long},
	{Short, Char, String}, {Short, String, String},
	{Long, Double, Double}, {Long, Int, Long}, {Long, Short, Long}, {Long, Long, Long},
	{Long, Char, String},
	{Byte, Byte, Byte},
	{Char, Int, String}, {Char, Short, String}, {Char, Long, String},
	{String, Int, String}, {String, Short, String}, {String, Long, String},
}

var divOpRules = []BinaryOpRule{
	{Double, Double, Double}, {Double, Int, Double}, {Double, Short, Double}, {Double, Long, Double},
	{Int, Double, Double}, {Int, Int, Int}, {Int, Short, Int}, {Int, Long, Long},
	{Short, Double, Double}, {Short, Int, Int}, {Short, Short, Short}, {Short, Long, Long},
	{Long, Double, Double}, {Long, Int, Long}, {Long, Short, Long}, {Long, Long, Long},
	{Byte, Byte, Byte},
}

var remOpRules = []BinaryOpRule{
	{Double, Double, Double},
	{Int, Int, Int}, {Int, Short, Int}, {Int, Long, Int},
	{Short, Int, Short}, {Short, Short, Short}, {Short, Long, Short},
	{Long, Int, Long}, {Long, Short, Long}, {Long, Long, Long},
}

var prefixMinusOpRules = []UnaryOpRule{
	{Int, Int}, {Double, Double}, {Short, Short}, {Long, Long},
}

var prefixPlusPlusOpRules = []UnaryOpRule{
	{Int, Int}, {Short, Short}, {Long, Long},
}

var prefixMinusMinusOpRules = []UnaryOpRule{
	{Int, Int}, {Short, Short}, {Long, Long},
}

var prefixNotOpRules = []UnaryOpRule{{Bool, Bool}}

var prefixBitwiseNotOpRules = []UnaryOpRule{
	{Int, Int}, {Short, Short}, {Long, Long}, {Byte, Byte},
}

var postfixPlusPlusOpRules = []UnaryOpRule{
	{Int, Int}, {Short, Short}, {Long, Long},
}

var postfixMinusMinusOpRules = []UnaryOpRule{
	{Int, Int}, {Short, Short}, {Long, Long},
}

var castOpRules = []BinaryOpRule{
	{Double, Double, Double},
	{Int, Int, Int}, {Int, Short, Int}, {Int, Long, Int}, {Int, Char, Int},
	{Short, Int, Short}, {Short, Short, Short}, {Short, Long, Short},
	{Long, Int, Long}, {Long, Short, Long}, {Long, Long, Long},
	{Byte, Int, Byte}, {Byte, Byte, Byte}, {Byte, Char, Byte},
	{Char, Int, Char}, {Char, Short, Char}, {Char, Long, Char}, {Char, Byte, Char}, {Char, Char, Char},
	{String, String, String},
	{Bool, Bool, Bool},
}

func lookupBinary(rules []BinaryOpRule, lhs, rhs SuperType) (SuperType, bool) {
	for _, r := range rules {
		if r.Lhs == lhs && r.Rhs == rhs {
			return r.Result, true
		}
	}
	return Invalid, false
}

func lookupUnary(rules []UnaryOpRule, operand SuperType) (SuperType, bool) {
	for _, r := range rules {
		if r.Operand == operand {
			return r.Result, true
		}
	}
	return Invalid, false
}
