package ast

import (
	"github.com/spice-lang/spicec/internal/cerr"
	"github.com/spice-lang/spicec/internal/scope"
	"github.com/spice-lang/spicec/internal/symtype"
)

// File is the root node of one parsed source file.
type File struct {
	base
	Path       string
	Imports    []*ImportDecl
	Functions  []*FunctionDecl
	Structs    []*StructDecl
	Interfaces []*InterfaceDecl
	Enums      []*EnumDecl
	TypeAliases []*TypeAliasDecl
	Globals    []*GlobalVarDecl

	GlobalScope *scope.Scope
}

func (n *File) Accept(v Visitor) any          { return v.VisitFile(n) }
func (n *File) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitFile(n) }

// ImportDecl is `import "path" as alias;`.
type ImportDecl struct {
	base
	Path  string
	Alias string
}

func (n *ImportDecl) Accept(v Visitor) any          { return v.VisitImportDecl(n) }
func (n *ImportDecl) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitImportDecl(n) }

// Param is one function/procedure parameter.
type Param struct {
	Name         string
	Type         symtype.Type
	DefaultValue Expr // nil if the parameter has no default
	Loc          cerr.CodeLoc
}

// FunctionDecl covers both `f` (function) and `p` (procedure) definitions,
// free functions and struct methods, constructors/destructors/operator
// overloads, generic and non-generic alike — the reference compiler's
// AST represents all of these with one node kind distinguished by flags,
// and so does this one.
type FunctionDecl struct {
	base
	Name          string
	IsProcedure   bool // p instead of f: no ReturnType, body must not `return value`
	IsMethod      bool
	ReceiverType  symtype.Type // valid when IsMethod
	TemplateTypes []string     // generic type parameter names, e.g. ["T"]
	Params        []Param
	ReturnType    symtype.Type // zero value when IsProcedure
	Body          *Block
	IsPublic      bool
	IsInline      bool

	// IsCtor/IsDtor/OperatorName mark reserved-name methods: constructors,
	// destructors and operator overloads (op.plus, op.eq, ...).
	IsCtor       bool
	IsDtor       bool
	OperatorName string

	BodyScope *scope.Scope

	// Manifestations holds one concrete, fully-substantiated copy of this
	// declaration per distinct set of template arguments it was
	// instantiated with (internal/generic, internal/manager). The base
	// (possibly generic) declaration itself is never emitted directly.
	Manifestations []*FunctionManifestation
}

// FunctionManifestation is one concrete instantiation of a (possibly
// generic) FunctionDecl: a fixed receiver type, fixed parameter types, a
// fixed return type, and a mangled name unique within the SourceFile.
type FunctionManifestation struct {
	MangledName  string
	ReceiverType symtype.Type
	ParamTypes   []symtype.Type
	ReturnType   symtype.Type
	TemplateMap  map[string]symtype.Type

	Used                bool
	IsFullySubstantiated bool
}

func (n *FunctionDecl) Accept(v Visitor) any          { return v.VisitFunctionDecl(n) }
func (n *FunctionDecl) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitFunctionDecl(n) }

// Field is one struct/interface member declaration.
type Field struct {
	Name     string
	Type     symtype.Type
	IsPublic bool
	Loc      cerr.CodeLoc
}

// StructDecl is `struct Name<T> { ... }`.
type StructDecl struct {
	base
	Name          string
	TemplateTypes []string
	Fields        []Field
	Interfaces    []symtype.Type // interfaces this struct implements
	Methods       []*FunctionDecl
	IsPublic      bool

	BodyScope *scope.Scope

	Manifestations []*StructManifestation
}

// StructManifestation is one concrete instantiation of a (possibly
// generic) StructDecl.
type StructManifestation struct {
	MangledName string
	FieldTypes  []symtype.Type
	TemplateMap map[string]symtype.Type
	Used        bool
}

func (n *StructDecl) Accept(v Visitor) any          { return v.VisitStructDecl(n) }
func (n *StructDecl) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitStructDecl(n) }

// InterfaceDecl is `interface Name { f method(...); ... }` — a set of
// method signatures with no bodies.
type InterfaceDecl struct {
	base
	Name     string
	Methods  []*FunctionDecl // Body is always nil on these
	IsPublic bool

	BodyScope *scope.Scope
}

func (n *InterfaceDecl) Accept(v Visitor) any          { return v.VisitInterfaceDecl(n) }
func (n *InterfaceDecl) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitInterfaceDecl(n) }

// EnumItem is one `Name` or `Name = value` entry in an enum.
type EnumItem struct {
	Name  string
	Value int64
	// HasExplicitValue distinguishes `Name` (auto-assigned) from
	// `Name = 3` for DUPLICATE_ENUM_ITEM_VALUE detection.
	HasExplicitValue bool
	Loc              cerr.CodeLoc
}

// EnumDecl is `enum Name { A, B = 2, C };`.
type EnumDecl struct {
	base
	Name     string
	Items    []EnumItem
	IsPublic bool
}

func (n *EnumDecl) Accept(v Visitor) any          { return v.VisitEnumDecl(n) }
func (n *EnumDecl) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitEnumDecl(n) }

// TypeAliasDecl is `type Name = UnderlyingType;`.
type TypeAliasDecl struct {
	base
	Name     string
	Target   symtype.Type
	IsPublic bool
}

func (n *TypeAliasDecl) Accept(v Visitor) any          { return v.VisitTypeAliasDecl(n) }
func (n *TypeAliasDecl) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitTypeAliasDecl(n) }

// GlobalVarDecl is a top-level `const int x = 1;` or `dyn y;`.
type GlobalVarDecl struct {
	base
	Name        string
	Type        symtype.Type
	IsConst     bool
	Initializer Expr // required when IsConst
	IsPublic    bool
}

func (n *GlobalVarDecl) Accept(v Visitor) any          { return v.VisitGlobalVarDecl(n) }
func (n *GlobalVarDecl) AcceptReadOnly(v ReadOnlyVisitor) { v.VisitGlobalVarDecl(n) }
