// Package symbuild builds the scope tree and its symbol tables from a
// parsed AST (spec §4.5, C5): the first pass over a SourceFile, run before
// any type information exists.
package symbuild

const (
	MainFunctionName      = "main"
	ReturnVariableName     = "result"
	ThisVariableName       = "this"
	ForeachDefaultIdxName  = "idx"
	CtorFunctionName       = "ctor"
	DtorFunctionName       = "dtor"
	StructScopePrefix      = "struct:"
	InterfaceScopePrefix   = "interface:"
	EnumScopePrefix        = "enum:"
	UnusedVariablePrefix   = '_'
)
