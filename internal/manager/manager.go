// Package manager implements the function/struct manifestation manager
// (spec §4.8, C8): interning of mangled signatures to concrete
// manifestations, overload resolution scoring, and the operator-overload
// fallback the type checker consults when the static operator rule tables
// in internal/symtype have no entry for a pair of operand types.
package manager

import (
	"fmt"

	"github.com/spice-lang/spicec/internal/ast"
	"github.com/spice-lang/spicec/internal/cerr"
	"github.com/spice-lang/spicec/internal/generic"
	"github.com/spice-lang/spicec/internal/symtype"
)

// Manager owns the mangled-signature intern maps for one kind of
// manifestation (functions or structs). internal/resources holds one
// process-wide pair shared by every SourceFile; each manifestation
// substantiated while checking any file is registered here exactly once,
// keyed by Mangle's injective encoding.
type Manager struct {
	functions map[string]*ast.FunctionManifestation
	structs   map[string]*ast.StructManifestation

	// NewManifestationAdded is set by the last call that interned a
	// manifestation which did not previously exist; internal/typecheck
	// reads and clears it to drive reVisitRequested (spec §4.8: "if
	// insertion produces a new manifestation that needs checking, the
	// type checker's re-visit flag is set").
	NewManifestationAdded bool
}

// New creates an empty Manager.
func New() *Manager {
	return &Manager{
		functions: make(map[string]*ast.FunctionManifestation),
		structs:   make(map[string]*ast.StructManifestation),
	}
}

// matchCost ranks how well a single argument type satisfies a declared
// parameter type; lower is better. A cost of -1 means no match at all.
// Exact match wins over a reference added/removed, which wins over an
// implicit integral promotion; narrowing conversions never match.
func matchCost(argType, paramType symtype.Type) int {
	if argType.Matches(paramType, false, false, false) {
		return 0
	}
	unwrappedArg, unwrappedParam := symtype.UnwrapBoth(argType, paramType)
	if len(unwrappedArg.Wrappers) == len(unwrappedParam.Wrappers) && unwrappedArg.Matches(unwrappedParam, false, true, true) {
		return 1
	}
	if rank, ok := promotionRank(argType.Super, paramType.Super); ok {
		return 2 + rank
	}
	return -1
}

// promotionRank orders the widening integral/floating promotions the
// reference compiler's operator rule tables accept (int -> long -> double,
// byte/char -> int, short -> int -> long); narrowing in the other
// direction is never a match.
func promotionRank(from, to symtype.SuperType) (int, bool) {
	order := []symtype.SuperType{symtype.Byte, symtype.Char, symtype.Short, symtype.Int, symtype.Long, symtype.Double}
	fi, ti := -1, -1
	for i, s := range order {
		if s == from {
			fi = i
		}
		if s == to {
			ti = i
		}
	}
	if fi == -1 || ti == -1 || fi > ti {
		return 0, false
	}
	return ti - fi, true
}

// MatchFunction scores every candidate in candidates against thisType and
// argTypes, substantiating generics along the way, and returns the
// manifestation for the single best-scoring candidate. Two candidates
// tying for best score raise FUNCTION_AMBIGUITY.
func (m *Manager) MatchFunction(fqn string, candidates []*ast.FunctionDecl, thisType symtype.Type, argTypes []symtype.Type, resolve generic.Resolver, loc cerr.CodeLoc) (*ast.FunctionManifestation, error) {
	type scored struct {
		decl    *ast.FunctionDecl
		mapping generic.TypeMapping
		cost    int
	}
	var best []scored
	bestCost := -1

	for _, decl := range candidates {
		if len(decl.Params) != len(argTypes) {
			continue
		}
		mapping := generic.TypeMapping{}
		total := 0
		ok := true
		for i, p := range decl.Params {
			paramType := p.Type
			if len(decl.TemplateTypes) > 0 && paramType.HasAnyGenericParts() {
				if !generic.MatchOne(argTypes[i], paramType, mapping, resolve) {
					ok = false
					break
				}
				paramType = generic.Substantiate(paramType, mapping)
			}
			cost := matchCost(argTypes[i], paramType)
			if cost < 0 {
				ok = false
				break
			}
			total += cost
		}
		if !ok {
			continue
		}
		if bestCost == -1 || total < bestCost {
			bestCost = total
			best = []scored{{decl, mapping, total}}
		} else if total == bestCost {
			best = append(best, scored{decl, mapping, total})
		}
	}

	switch len(best) {
	case 0:
		return nil, nil
	case 1:
		return m.internFunction(fqn, best[0].decl, thisType, argTypes, best[0].mapping), nil
	default:
		return nil, cerr.NewSemanticError(loc, cerr.FunctionAmbiguity,
			fmt.Sprintf("call to '%s' is ambiguous between %d equally good candidates", fqn, len(best)))
	}
}

// internFunction substantiates decl's return type under mapping and
// returns the interned manifestation for this exact (thisType, argTypes,
// mapping) combination, creating it if this is the first time it's
// requested.
func (m *Manager) internFunction(fqn string, decl *ast.FunctionDecl, thisType symtype.Type, argTypes []symtype.Type, mapping generic.TypeMapping) *ast.FunctionManifestation {
	templateConcrete := make([]symtype.Type, 0, len(decl.TemplateTypes))
	for _, name := range decl.TemplateTypes {
		templateConcrete = append(templateConcrete, mapping[name])
	}
	key := Mangle(fqn, thisType, argTypes, templateConcrete)
	if existing, ok := m.functions[key]; ok {
		m.NewManifestationAdded = false
		return existing
	}

	var retType symtype.Type
	if !decl.IsProcedure {
		retType = generic.Substantiate(decl.ReturnType, mapping)
	}
	man := &ast.FunctionManifestation{
		MangledName:          key,
		ReceiverType:         thisType,
		ParamTypes:           append([]symtype.Type{}, argTypes...),
		ReturnType:           retType,
		TemplateMap:          mapping,
		IsFullySubstantiated: len(mapping) >= len(decl.TemplateTypes),
	}
	m.functions[key] = man
	decl.Manifestations = append(decl.Manifestations, man)
	m.NewManifestationAdded = true
	return man
}

// internStruct substantiates decl's field types under mapping and returns
// the interned manifestation, creating it on first request.
func (m *Manager) internStruct(fqn string, decl *ast.StructDecl, mapping generic.TypeMapping) *ast.StructManifestation {
	templateConcrete := make([]symtype.Type, 0, len(decl.TemplateTypes))
	for _, name := range decl.TemplateTypes {
		templateConcrete = append(templateConcrete, mapping[name])
	}
	key := Mangle(fqn, symtype.Type{}, nil, templateConcrete)
	if existing, ok := m.structs[key]; ok {
		m.NewManifestationAdded = false
		return existing
	}

	fieldTypes := make([]symtype.Type, len(decl.Fields))
	for i, f := range decl.Fields {
		fieldTypes[i] = generic.Substantiate(f.Type, mapping)
	}
	man := &ast.StructManifestation{
		MangledName: key,
		FieldTypes:  fieldTypes,
		TemplateMap: mapping,
	}
	m.structs[key] = man
	decl.Manifestations = append(decl.Manifestations, man)
	m.NewManifestationAdded = true
	return man
}

// MatchStruct substantiates decl against templateArgs (in declaration
// order) and returns the interned manifestation.
func (m *Manager) MatchStruct(fqn string, decl *ast.StructDecl, templateArgs []symtype.Type) (*ast.StructManifestation, error) {
	if len(templateArgs) != len(decl.TemplateTypes) {
		return nil, fmt.Errorf("struct '%s' expects %d template args, got %d", decl.Name, len(decl.TemplateTypes), len(templateArgs))
	}
	mapping := generic.TypeMapping{}
	for i, name := range decl.TemplateTypes {
		mapping[name] = templateArgs[i]
	}
	return m.internStruct(fqn, decl, mapping), nil
}

// ResolveOperatorOverload looks for a method named opName among candidates
// whose receiver matches thisType and whose sole parameter matches
// rhsType (rhsType's zero value for a unary/postfix operator), returning
// its manifestation if exactly one matches. This is the fallback
// internal/typecheck consults when the static operator rule tables have
// no entry for the operand types (spec §4.8).
func (m *Manager) ResolveOperatorOverload(fqn, opName string, candidates []*ast.FunctionDecl, thisType symtype.Type, rhsType *symtype.Type, loc cerr.CodeLoc) (*ast.FunctionManifestation, error) {
	var matching []*ast.FunctionDecl
	for _, c := range candidates {
		if c.Name != opName || !c.IsMethod {
			continue
		}
		if !c.ReceiverType.Matches(thisType.GetBaseType(), true, true, true) {
			continue
		}
		if rhsType == nil && len(c.Params) == 0 {
			matching = append(matching, c)
		} else if rhsType != nil && len(c.Params) == 1 && c.Params[0].Type.Matches(*rhsType, false, true, true) {
			matching = append(matching, c)
		}
	}
	argTypes := []symtype.Type{}
	if rhsType != nil {
		argTypes = []symtype.Type{*rhsType}
	}
	return m.MatchFunction(fqn, matching, thisType, argTypes, nil, loc)
}
