package ast

import "github.com/spice-lang/spicec/internal/symtype"

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// CompileTimeValue holds a constant-folded value attached to a node whose
// value is known at compile time (a literal, or an expression made of only
// literals and const operands) — consulted when sizing a fixed array
// declared with a const expression, or when an enum item's value is
// computed from another.
type CompileTimeValue struct {
	Kind  symtype.SuperType
	Int   int64
	Dbl   float64
	Str   string
	Bool  bool
	Valid bool
}

// Ident is a bare identifier reference — a variable, a function/procedure
// name, a struct/interface/enum type name, or an import alias.
type Ident struct {
	base
	Name string

	// ResolvedEntryName is set by internal/typecheck once overload
	// resolution or generic substantiation has picked a concrete mangled
	// name for the symbol this identifier refers to.
	ResolvedEntryName string
}

func (n *Ident) Accept(v Visitor) any            { return v.VisitIdent(n) }
func (n *Ident) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitIdent(n) }
func (*Ident) exprNode()                         {}

type IntLit struct {
	base
	Value    int64
	IsShort  bool
	IsLong   bool
	IsUnsigned bool
}

func (n *IntLit) Accept(v Visitor) any            { return v.VisitIntLit(n) }
func (n *IntLit) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitIntLit(n) }
func (*IntLit) exprNode()                         {}

type DoubleLit struct {
	base
	Value float64
}

func (n *DoubleLit) Accept(v Visitor) any            { return v.VisitDoubleLit(n) }
func (n *DoubleLit) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitDoubleLit(n) }
func (*DoubleLit) exprNode()                         {}

type StringLit struct {
	base
	Value string
}

func (n *StringLit) Accept(v Visitor) any            { return v.VisitStringLit(n) }
func (n *StringLit) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitStringLit(n) }
func (*StringLit) exprNode()                         {}

type BoolLit struct {
	base
	Value bool
}

func (n *BoolLit) Accept(v Visitor) any            { return v.VisitBoolLit(n) }
func (n *BoolLit) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitBoolLit(n) }
func (*BoolLit) exprNode()                         {}

type CharLit struct {
	base
	Value byte
}

func (n *CharLit) Accept(v Visitor) any            { return v.VisitCharLit(n) }
func (n *CharLit) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitCharLit(n) }
func (*CharLit) exprNode()                         {}

// ArrayLit is `{e1, e2, ...}` used as an array initializer, or
// `Type[size]{}` for a zero-initialized array.
type ArrayLit struct {
	base
	ElemType symtype.Type // zero value if the parser deferred to inference
	Items    []Expr
	ZeroSize int // >0 when this is a `Type[N]{}` zero-init, 0 otherwise
}

func (n *ArrayLit) Accept(v Visitor) any            { return v.VisitArrayLit(n) }
func (n *ArrayLit) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitArrayLit(n) }
func (*ArrayLit) exprNode()                         {}

// StructLit is `Name{f1, f2, ...}` or `Name{f1: v1, f2: v2}`.
type StructLit struct {
	base
	StructName  string
	FieldNames  []string // empty entries for positional init
	FieldValues []Expr
}

func (n *StructLit) Accept(v Visitor) any            { return v.VisitStructLit(n) }
func (n *StructLit) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitStructLit(n) }
func (*StructLit) exprNode()                         {}

// ThisExpr is the implicit `this` pointer inside a method body.
type ThisExpr struct {
	base
}

func (n *ThisExpr) Accept(v Visitor) any            { return v.VisitThisExpr(n) }
func (n *ThisExpr) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitThisExpr(n) }
func (*ThisExpr) exprNode()                         {}

// TernaryExpr is `cond ? thenExpr : elseExpr`.
type TernaryExpr struct {
	base
	Cond, Then, Else Expr
}

func (n *TernaryExpr) Accept(v Visitor) any            { return v.VisitTernaryExpr(n) }
func (n *TernaryExpr) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitTernaryExpr(n) }
func (*TernaryExpr) exprNode()                         {}

// BinaryOp is the closed set of binary (non-assignment) operators.
type BinaryOp int

const (
	BinLogicalAnd BinaryOp = iota
	BinLogicalOr
	BinBitwiseAnd
	BinBitwiseOr
	BinBitwiseXor
	BinEqual
	BinNotEqual
	BinLess
	BinGreater
	BinLessEqual
	BinGreaterEqual
	BinShiftLeft
	BinShiftRight
	BinPlus
	BinMinus
	BinMul
	BinDiv
	BinRem
)

// BinaryExpr is `lhs op rhs`. If the operands are struct/interface types,
// ChosenOverload is filled in by internal/typecheck with the manifestation
// of the matching `op.*` method (internal/manager); otherwise the result
// comes straight from internal/symtype's static operator rule tables.
type BinaryExpr struct {
	base
	Lhs, Rhs       Expr
	Op             BinaryOp
	ChosenOverload *FunctionManifestation
}

func (n *BinaryExpr) Accept(v Visitor) any            { return v.VisitBinaryExpr(n) }
func (n *BinaryExpr) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitBinaryExpr(n) }
func (*BinaryExpr) exprNode()                         {}

// UnaryOp is the closed set of prefix unary operators.
type UnaryOp int

const (
	UnaryMinus UnaryOp = iota
	UnaryPlusPlus
	UnaryMinusMinus
	UnaryNot
	UnaryBitwiseNot
	UnaryDeref  // *ptr
	UnaryAddrOf // &value
)

type UnaryExpr struct {
	base
	Op             UnaryOp
	Operand        Expr
	ChosenOverload *FunctionManifestation
}

func (n *UnaryExpr) Accept(v Visitor) any            { return v.VisitUnaryExpr(n) }
func (n *UnaryExpr) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitUnaryExpr(n) }
func (*UnaryExpr) exprNode()                         {}

// PostfixOp is the closed set of postfix operators: `x++`, `x--`.
type PostfixOp int

const (
	PostfixPlusPlus PostfixOp = iota
	PostfixMinusMinus
)

type PostfixExpr struct {
	base
	Op             PostfixOp
	Operand        Expr
	ChosenOverload *FunctionManifestation
}

func (n *PostfixExpr) Accept(v Visitor) any            { return v.VisitPostfixExpr(n) }
func (n *PostfixExpr) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitPostfixExpr(n) }
func (*PostfixExpr) exprNode()                         {}

// CastExpr is `(TargetType) expr`.
type CastExpr struct {
	base
	TargetType symtype.Type
	Operand    Expr
}

func (n *CastExpr) Accept(v Visitor) any            { return v.VisitCastExpr(n) }
func (n *CastExpr) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitCastExpr(n) }
func (*CastExpr) exprNode()                         {}

// CallExpr is `callee(args...)` or `receiver.method(args...)` for a
// method call; ChosenOverload is filled in by internal/manager once
// overload resolution (and, for a generic callee, substantiation) picks
// exactly one candidate manifestation.
type CallExpr struct {
	base
	Callee         Expr // Ident, or FieldAccessExpr for a method call
	TemplateArgs   []symtype.Type
	Args           []Expr
	ChosenOverload *FunctionManifestation
}

func (n *CallExpr) Accept(v Visitor) any            { return v.VisitCallExpr(n) }
func (n *CallExpr) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitCallExpr(n) }
func (*CallExpr) exprNode()                         {}

// FieldAccessExpr is `receiver.field`, auto-dereferencing through any
// pointer wrappers on receiver's type (spec §4.6).
type FieldAccessExpr struct {
	base
	Receiver  Expr
	FieldName string
}

func (n *FieldAccessExpr) Accept(v Visitor) any            { return v.VisitFieldAccessExpr(n) }
func (n *FieldAccessExpr) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitFieldAccessExpr(n) }
func (*FieldAccessExpr) exprNode()                         {}

// IndexExpr is `array[index]`.
type IndexExpr struct {
	base
	Array Expr
	Index Expr
}

func (n *IndexExpr) Accept(v Visitor) any            { return v.VisitIndexExpr(n) }
func (n *IndexExpr) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitIndexExpr(n) }
func (*IndexExpr) exprNode()                         {}

// SizeofExpr is `sizeof(expr)` or `sizeof(type Type)`.
type SizeofExpr struct {
	base
	Operand     Expr         // set when sizing an expression
	OperandType symtype.Type // set when sizing a bare type name
	IsTypeArg   bool
}

func (n *SizeofExpr) Accept(v Visitor) any            { return v.VisitSizeofExpr(n) }
func (n *SizeofExpr) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitSizeofExpr(n) }
func (*SizeofExpr) exprNode()                         {}

// AlignofExpr is `alignof(type Type)`.
type AlignofExpr struct {
	base
	OperandType symtype.Type
}

func (n *AlignofExpr) Accept(v Visitor) any            { return v.VisitAlignofExpr(n) }
func (n *AlignofExpr) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitAlignofExpr(n) }
func (*AlignofExpr) exprNode()                         {}

// LenExpr is `len(arrayExpr)`.
type LenExpr struct {
	base
	Operand Expr
}

func (n *LenExpr) Accept(v Visitor) any            { return v.VisitLenExpr(n) }
func (n *LenExpr) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitLenExpr(n) }
func (*LenExpr) exprNode()                         {}
