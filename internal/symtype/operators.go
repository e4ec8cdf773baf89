package symtype

import "github.com/spice-lang/spicec/internal/cerr"

// OperatorName is a short token used only in diagnostic messages.
type OperatorName string

const (
	OpAssign           OperatorName = "="
	OpPlusEqual        OperatorName = "+="
	OpMinusEqual       OperatorName = "-="
	OpMulEqual         OperatorName = "*="
	OpDivEqual         OperatorName = "/="
	OpRemEqual         OperatorName = "%="
	OpShlEqual         OperatorName = "<<="
	OpShrEqual         OperatorName = ">>="
	OpAndEqual         OperatorName = "&="
	OpOrEqual          OperatorName = "|="
	OpXorEqual         OperatorName = "^="
	OpLogicalAnd       OperatorName = "&&"
	OpLogicalOr        OperatorName = "||"
	OpBitwiseAnd       OperatorName = "&"
	OpBitwiseOr        OperatorName = "|"
	OpBitwiseXor       OperatorName = "^"
	OpEqual            OperatorName = "=="
	OpNotEqual         OperatorName = "!="
	OpLess             OperatorName = "<"
	OpGreater          OperatorName = ">"
	OpLessEqual        OperatorName = "<="
	OpGreaterEqual     OperatorName = ">="
	OpShiftLeft        OperatorName = "<<"
	OpShiftRight       OperatorName = ">>"
	OpPlus             OperatorName = "+"
	OpMinus            OperatorName = "-"
	OpMul              OperatorName = "*"
	OpDiv              OperatorName = "/"
	OpRem              OperatorName = "%"
	OpPrefixMinus      OperatorName = "unary -"
	OpPrefixPlusPlus   OperatorName = "prefix ++"
	OpPrefixMinusMinus OperatorName = "prefix --"
	OpPrefixNot        OperatorName = "!"
	OpPrefixBitwiseNot OperatorName = "~"
	OpPostfixPlusPlus   OperatorName = "postfix ++"
	OpPostfixMinusMinus OperatorName = "postfix --"
	OpCast              OperatorName = "cast"
)

// sameWrapperShape reports whether lhs and rhs carry identical wrapper
// chains; GetCastResultType uses it. The binary and unary rule tables apply
// only to unwrapped operands, once a reference has been stripped.
func sameWrapperShape(lhs, rhs Type) bool {
	if len(lhs.Wrappers) != len(rhs.Wrappers) {
		return false
	}
	for i := range lhs.Wrappers {
		if lhs.Wrappers[i] != rhs.Wrappers[i] {
			return false
		}
	}
	return true
}

func validateBinary(rules []BinaryOpRule, opName OperatorName, lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	if lhs.Super == Invalid || rhs.Super == Invalid {
		return TypeInvalid, nil // soft-error suppression, spec §7
	}
	lhs, rhs = lhs.RemoveReference(), rhs.RemoveReference()
	if len(lhs.Wrappers) != 0 || len(rhs.Wrappers) != 0 {
		return TypeInvalid, binaryErr(opName, lhs, rhs, loc)
	}
	result, ok := lookupBinary(rules, lhs.Super, rhs.Super)
	if !ok {
		return TypeInvalid, binaryErr(opName, lhs, rhs, loc)
	}
	out := Primitive(result)
	out.Specs = lhs.Specs.Merge(rhs.Specs)
	out.Specs.Const = false
	return out, nil
}

func validateUnary(rules []UnaryOpRule, opName OperatorName, operand Type, loc cerr.CodeLoc) (Type, error) {
	if operand.Super == Invalid {
		return TypeInvalid, nil
	}
	operand = operand.RemoveReference()
	if len(operand.Wrappers) != 0 {
		return TypeInvalid, unaryErr(opName, operand, loc)
	}
	result, ok := lookupUnary(rules, operand.Super)
	if !ok {
		return TypeInvalid, unaryErr(opName, operand, loc)
	}
	out := Primitive(result)
	out.Specs = operand.Specs
	out.Specs.Const = false
	return out, nil
}

func binaryErr(op OperatorName, lhs, rhs Type, loc cerr.CodeLoc) error {
	return cerr.NewSemanticError(loc, cerr.OperatorWrongDataType,
		"cannot apply operator '"+string(op)+"' to "+lhs.Name(true)+" and "+rhs.Name(true))
}

func unaryErr(op OperatorName, operand Type, loc cerr.CodeLoc) error {
	return cerr.NewSemanticError(loc, cerr.OperatorWrongDataType,
		"cannot apply operator '"+string(op)+"' to "+operand.Name(true))
}

// GetAssignResultType through GetCastResultType mirror the reference
// compiler's OpRuleManager public surface one-for-one: each validates an
// operand pair (or a single operand for the unary/cast variants) against
// its static rule table and returns the result type or a structured error.

func GetAssignResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(assignOpRules, OpAssign, lhs, rhs, loc)
}
func GetPlusEqualResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(plusEqualOpRules, OpPlusEqual, lhs, rhs, loc)
}
func GetMinusEqualResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(minusEqualOpRules, OpMinusEqual, lhs, rhs, loc)
}
func GetMulEqualResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(mulEqualOpRules, OpMulEqual, lhs, rhs, loc)
}
func GetDivEqualResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(divEqualOpRules, OpDivEqual, lhs, rhs, loc)
}
func GetRemEqualResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(remEqualOpRules, OpRemEqual, lhs, rhs, loc)
}
func GetShlEqualResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(shlEqualOpRules, OpShlEqual, lhs, rhs, loc)
}
func GetShrEqualResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(shrEqualOpRules, OpShrEqual, lhs, rhs, loc)
}
func GetAndEqualResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(andEqualOpRules, OpAndEqual, lhs, rhs, loc)
}
func GetOrEqualResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(orEqualOpRules, OpOrEqual, lhs, rhs, loc)
}
func GetXorEqualResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(xorEqualOpRules, OpXorEqual, lhs, rhs, loc)
}
func GetLogicalAndResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(logicalAndOpRules, OpLogicalAnd, lhs, rhs, loc)
}
func GetLogicalOrResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(logicalOrOpRules, OpLogicalOr, lhs, rhs, loc)
}
func GetBitwiseAndResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(bitwiseAndOpRules, OpBitwiseAnd, lhs, rhs, loc)
}
func GetBitwiseOrResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(bitwiseOrOpRules, OpBitwiseOr, lhs, rhs, loc)
}
func GetBitwiseXorResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(bitwiseXorOpRules, OpBitwiseXor, lhs, rhs, loc)
}
func GetEqualResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(equalOpRules, OpEqual, lhs, rhs, loc)
}
func GetNotEqualResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(notEqualOpRules, OpNotEqual, lhs, rhs, loc)
}
func GetLessResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(lessOpRules, OpLess, lhs, rhs, loc)
}
func GetGreaterResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(greaterOpRules, OpGreater, lhs, rhs, loc)
}
func GetLessEqualResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(lessEqualOpRules, OpLessEqual, lhs, rhs, loc)
}
func GetGreaterEqualResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(greaterEqualOpRules, OpGreaterEqual, lhs, rhs, loc)
}
func GetShiftLeftResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(shiftLeftOpRules, OpShiftLeft, lhs, rhs, loc)
}
func GetShiftRightResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(shiftRightOpRules, OpShiftRight, lhs, rhs, loc)
}
func GetPlusResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(plusOpRules, OpPlus, lhs, rhs, loc)
}
func GetMinusResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(minusOpRules, OpMinus, lhs, rhs, loc)
}
func GetMulResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(mulOpRules, OpMul, lhs, rhs, loc)
}
func GetDivResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(divOpRules, OpDiv, lhs, rhs, loc)
}
func GetRemResultType(lhs, rhs Type, loc cerr.CodeLoc) (Type, error) {
	return validateBinary(remOpRules, OpRem, lhs, rhs, loc)
}
func GetPrefixMinusResultType(operand Type, loc cerr.CodeLoc) (Type, error) {
	return validateUnary(prefixMinusOpRules, OpPrefixMinus, operand, loc)
}
func GetPrefixPlusPlusResultType(operand Type, loc cerr.CodeLoc) (Type, error) {
	return validateUnary(prefixPlusPlusOpRules, OpPrefixPlusPlus, operand, loc)
}
func GetPrefixMinusMinusResultType(operand Type, loc cerr.CodeLoc) (Type, error) {
	return validateUnary(prefixMinusMinusOpRules, OpPrefixMinusMinus, operand, loc)
}
func GetPrefixNotResultType(operand Type, loc cerr.CodeLoc) (Type, error) {
	return validateUnary(prefixNotOpRules, OpPrefixNot, operand, loc)
}
func GetPrefixBitwiseNotResultType(operand Type, loc cerr.CodeLoc) (Type, error) {
	return validateUnary(prefixBitwiseNotOpRules, OpPrefixBitwiseNot, operand, loc)
}
func GetPostfixPlusPlusResultType(operand Type, loc cerr.CodeLoc) (Type, error) {
	return validateUnary(postfixPlusPlusOpRules, OpPostfixPlusPlus, operand, loc)
}
func GetPostfixMinusMinusResultType(operand Type, loc cerr.CodeLoc) (Type, error) {
	return validateUnary(postfixMinusMinusOpRules, OpPostfixMinusMinus, operand, loc)
}

// GetCastResultType validates `(target) value`. Unlike the other binary
// rules the candidate pair here is (targetType, sourceType) and the result
// is always the target type itself when the pair is allowed.
func GetCastResultType(target, source Type, loc cerr.CodeLoc) (Type, error) {
	if target.Super == Invalid || source.Super == Invalid {
		return TypeInvalid, nil
	}
	if len(target.Wrappers) != 0 || len(source.Wrappers) != 0 {
		if sameWrapperShape(target, source) && target.GetBaseType().Super == source.GetBaseType().Super {
			return target, nil
		}
		return TypeInvalid, binaryErr(OpCast, target, source, loc)
	}
	if _, ok := lookupBinary(castOpRules, target.Super, source.Super); !ok {
		return TypeInvalid, binaryErr(OpCast, target, source, loc)
	}
	return target, nil
}
