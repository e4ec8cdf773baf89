// Package generic implements the generic type matcher (spec §4.7, C7): it
// walks a requested type against a candidate (possibly generic) type,
// building a TypeMapping, and can later substantiate a type through a
// completed mapping. Grounded on
// original_source/src/typechecker/TypeMatcher.cpp.
package generic

import "github.com/spice-lang/spicec/internal/symtype"

// TypeMapping records which concrete type was bound to each generic type
// parameter name encountered while matching one candidate signature.
type TypeMapping map[string]symtype.Type

// Resolver answers whether a generic type parameter's condition list (its
// declared `<T: int | string>` constraint, `dyn` meaning "any") accepts a
// requested type. internal/symbuild installs one bound to each function or
// struct's own set of declared template types.
type Resolver func(genericName string, requested symtype.Type) bool

// MatchAll walks requested and candidate pairwise, threading mapping
// through every pair. It returns false as soon as one pair fails to match;
// mapping holds whatever was bound by the pairs that succeeded before the
// failure.
func MatchAll(requested, candidate []symtype.Type, mapping TypeMapping, resolve Resolver) bool {
	if len(requested) != len(candidate) {
		return false
	}
	for i := range requested {
		if !MatchOne(requested[i], candidate[i], mapping, resolve) {
			return false
		}
	}
	return true
}

// MatchOne implements the five-case dispatch from
// matchRequestedToCandidateType: unwrap both sides symmetrically, then
// branch on whether the candidate's base type is itself generic.
func MatchOne(requested, candidate symtype.Type, mapping TypeMapping, resolve Resolver) bool {
	requested, candidate = symtype.UnwrapBoth(requested, candidate)

	if candidate.Super != symtype.Generic {
		return matchNonGenericCandidate(requested, candidate, mapping, resolve)
	}

	if mapped, ok := mapping[candidate.SubType]; ok {
		// Case 3: candidate generic name already bound — the requested type
		// must match what's already there, once the candidate layer's own
		// specifiers are merged onto it.
		merged := mapped
		merged.Specs = merged.Specs.Merge(candidate.Specs)
		return requested.Matches(merged, false, true, true)
	}

	// Case 4: candidate generic name unmapped — check its condition list,
	// then bind it, stripping the specifier bits the candidate layer
	// already carries explicitly.
	if resolve != nil && !resolve(candidate.SubType, requested) {
		return false
	}
	bound := requested
	bound.Specs = bound.Specs.EraseWithMask(candidate.Specs)
	mapping[candidate.SubType] = bound
	return true
}

// matchNonGenericCandidate handles cases 2 and 5: an exact match when
// candidate carries no generic parts, or a recursive descent into
// candidate's template args / function signature when it does.
func matchNonGenericCandidate(requested, candidate symtype.Type, mapping TypeMapping, resolve Resolver) bool {
	if !candidate.HasAnyGenericParts() {
		if candidate.Super == symtype.Interface && requested.Super == symtype.Struct {
			// A struct matches an interface here only when both carry
			// the same name. The struct's declared interface list is
			// not consulted, neither here nor in internal/manager.
			return requested.SubType == candidate.SubType
		}
		return requested.Matches(candidate, false, false, false)
	}

	if requested.Super != candidate.Super {
		return false
	}

	if candidate.IsOneOf(symtype.Function, symtype.Procedure) {
		if len(requested.FuncParamTypes) != len(candidate.FuncParamTypes) {
			return false
		}
		if !MatchAll(requested.FuncParamTypes, candidate.FuncParamTypes, mapping, resolve) {
			return false
		}
		switch {
		case requested.FuncReturnType == nil && candidate.FuncReturnType == nil:
			return true
		case requested.FuncReturnType == nil || candidate.FuncReturnType == nil:
			return false
		default:
			return MatchOne(*requested.FuncReturnType, *candidate.FuncReturnType, mapping, resolve)
		}
	}

	if requested.SubType != candidate.SubType {
		return false
	}
	return MatchAll(requested.TemplateArgs, candidate.TemplateArgs, mapping, resolve)
}

// Substantiate walks t and replaces every generic occurrence (itself, or
// nested in template args / function param and return types) with its
// bound concrete type from mapping, preserving t's own wrapper chain.
// Unmapped generics are left untouched — the caller (internal/manager) is
// expected to have verified mapping is complete before calling this.
func Substantiate(t symtype.Type, mapping TypeMapping) symtype.Type {
	if t.Super == symtype.Generic {
		if bound, ok := mapping[t.SubType]; ok {
			return t.ReplaceBaseType(bound)
		}
		return t
	}
	if len(t.TemplateArgs) > 0 {
		out := t
		out.TemplateArgs = make([]symtype.Type, len(t.TemplateArgs))
		for i, a := range t.TemplateArgs {
			out.TemplateArgs[i] = Substantiate(a, mapping)
		}
		return out
	}
	if t.IsOneOf(symtype.Function, symtype.Procedure) {
		out := t
		out.FuncParamTypes = make([]symtype.Type, len(t.FuncParamTypes))
		for i, p := range t.FuncParamTypes {
			out.FuncParamTypes[i] = Substantiate(p, mapping)
		}
		if t.FuncReturnType != nil {
			rt := Substantiate(*t.FuncReturnType, mapping)
			out.FuncReturnType = &rt
		}
		return out
	}
	return t
}

// SubstantiateAll applies Substantiate across a slice, used to turn a
// generic function's declared parameter types into one manifestation's
// concrete parameter types.
func SubstantiateAll(types []symtype.Type, mapping TypeMapping) []symtype.Type {
	out := make([]symtype.Type, len(types))
	for i, t := range types {
		out[i] = Substantiate(t, mapping)
	}
	return out
}
