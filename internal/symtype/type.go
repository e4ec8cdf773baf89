// Package symtype implements the compiler's type model (spec §4.1, C1) and
// its static operator rule tables (spec §4.2, C2).
package symtype

import "strings"

// SuperType is the closed set of base type categories a Type can carry.
type SuperType int

const (
	Invalid SuperType = iota
	Double
	Int
	Short
	Long
	Byte
	Char
	String
	Bool
	Dyn
	Struct
	Interface
	Enum
	Generic
	Function
	Procedure
	Import
	Alias
	Unresolved
)

var superTypeNames = map[SuperType]string{
	Invalid:    "invalid",
	Double:     "double",
	Int:        "int",
	Short:      "short",
	Long:       "long",
	Byte:       "byte",
	Char:       "char",
	String:     "string",
	Bool:       "bool",
	Dyn:        "dyn",
	Struct:     "struct",
	Interface:  "interface",
	Enum:       "enum",
	Generic:    "generic",
	Function:   "f",
	Procedure:  "p",
	Import:     "import",
	Alias:      "alias",
	Unresolved: "unresolved",
}

func (s SuperType) String() string {
	if n, ok := superTypeNames[s]; ok {
		return n
	}
	return "unknown"
}

// IsPrimitive reports whether s is one of the eight built-in scalar kinds
// that populate the operator rule tables (double, int, short, long, byte,
// char, string, bool).
func (s SuperType) IsPrimitive() bool {
	switch s {
	case Double, Int, Short, Long, Byte, Char, String, Bool:
		return true
	default:
		return false
	}
}

// WrapperKind tags one entry in a Type's wrapper chain.
type WrapperKind int

const (
	WrapperPtr WrapperKind = iota
	WrapperRef
	WrapperArray
)

// Wrapper is one layer of a Type's pointer/reference/array stack. ArraySize
// is -1 for an unsized ([]) array, 0 for a non-array wrapper.
type Wrapper struct {
	Kind      WrapperKind
	ArraySize int
}

// Specifiers is the bit-set of type specifiers spec §3 calls out: const,
// signed, unsigned, public, inline, heap, volatile.
type Specifiers struct {
	Const    bool
	Signed   bool
	Unsigned bool
	Public   bool
	Inline   bool
	Heap     bool
	Volatile bool
}

// Merge returns the specifier set with every bit set in either s or other
// set in the result, used when unifying a generic candidate's specifiers
// with the concrete type substituted for it (internal/generic).
func (s Specifiers) Merge(other Specifiers) Specifiers {
	return Specifiers{
		Const:    s.Const || other.Const,
		Signed:   s.Signed || other.Signed,
		Unsigned: s.Unsigned || other.Unsigned,
		Public:   s.Public || other.Public,
		Inline:   s.Inline || other.Inline,
		Heap:     s.Heap || other.Heap,
		Volatile: s.Volatile || other.Volatile,
	}
}

// EraseWithMask clears every bit in s that is set in mask, used when
// propagating a generic candidate's explicit specifiers onto a requested
// type before recording a type-mapping entry.
func (s Specifiers) EraseWithMask(mask Specifiers) Specifiers {
	out := s
	if mask.Const {
		out.Const = false
	}
	if mask.Signed {
		out.Signed = false
	}
	if mask.Unsigned {
		out.Unsigned = false
	}
	if mask.Public {
		out.Public = false
	}
	if mask.Inline {
		out.Inline = false
	}
	if mask.Heap {
		out.Heap = false
	}
	if mask.Volatile {
		out.Volatile = false
	}
	return out
}

// Type is the immutable value type threaded through the AST, the scope tree
// and every compiler pass after symbol-table building. Two Types with equal
// fields are indistinguishable; callers never mutate a Type in place, they
// build a new one (ToPointer, ToArray, ReplaceBaseType, ...).
type Type struct {
	Super       SuperType
	Wrappers    []Wrapper // outermost first: *[]int is {Ptr, Array} over Int
	SubType     string    // struct/interface/enum/generic/import name
	TemplateArgs []Type   // template instantiation args for Struct/Interface/Generic
	Specs       Specifiers

	// BodyScopeParentID identifies the lexical scope the struct/interface
	// definition lives in, used by internal/generic to tell two
	// differently-scoped types of the same SubType apart (TypeMatcher.cpp
	// compares getBodyScope()->parent).
	BodyScopeParentID string

	// FuncParamTypes/FuncReturnType hold a function/procedure type's
	// signature. Procedures have a nil FuncReturnType.
	FuncParamTypes []Type
	FuncReturnType *Type
	FuncParamsOptional bool // a trailing run of params carry default values
}

// Primitive constructs an unwrapped primitive Type (no specifiers, no
// wrappers) for one of the eight scalar kinds.
func Primitive(s SuperType) Type {
	return Type{Super: s}
}

var (
	TypeInvalid = Type{Super: Invalid}
	TypeDouble  = Primitive(Double)
	TypeInt     = Primitive(Int)
	TypeShort   = Primitive(Short)
	TypeLong    = Primitive(Long)
	TypeByte    = Primitive(Byte)
	TypeChar    = Primitive(Char)
	TypeString  = Primitive(String)
	TypeBool    = Primitive(Bool)
	TypeDyn     = Primitive(Dyn)
)

// IsPtr, IsRef, IsArray report whether the outermost wrapper matches.
func (t Type) IsPtr() bool   { return len(t.Wrappers) > 0 && t.Wrappers[0].Kind == WrapperPtr }
func (t Type) IsRef() bool   { return len(t.Wrappers) > 0 && t.Wrappers[0].Kind == WrapperRef }
func (t Type) IsArray() bool { return len(t.Wrappers) > 0 && t.Wrappers[0].Kind == WrapperArray }

// IsOneOf reports whether t's super type is one of the given set.
func (t Type) IsOneOf(supers ...SuperType) bool {
	for _, s := range supers {
		if t.Super == s {
			return true
		}
	}
	return false
}

// IsBaseType reports whether t, once every wrapper is stripped, has super
// type s.
func (t Type) IsBaseType(s SuperType) bool {
	return t.GetBaseType().Super == s
}

// GetBaseType strips every wrapper, returning the innermost type.
func (t Type) GetBaseType() Type {
	base := t
	base.Wrappers = nil
	return base
}

// ReplaceBaseType returns a copy of t with its base type swapped for
// replacement, preserving t's own wrapper chain — used by the generic
// substantiation pass (internal/generic) to turn `T*` into `MyStruct*`
// once T is known to map to MyStruct.
func (t Type) ReplaceBaseType(replacement Type) Type {
	out := replacement
	out.Wrappers = append(append([]Wrapper{}, t.Wrappers...), replacement.Wrappers...)
	return out
}

// ToPointer wraps t in one more pointer layer.
func (t Type) ToPointer() Type {
	return t.pushWrapper(Wrapper{Kind: WrapperPtr})
}

// ToReference wraps t in a reference layer.
func (t Type) ToReference() Type {
	return t.pushWrapper(Wrapper{Kind: WrapperRef})
}

// ToArray wraps t in an array layer; size -1 denotes an unsized array.
func (t Type) ToArray(size int) Type {
	return t.pushWrapper(Wrapper{Kind: WrapperArray, ArraySize: size})
}

func (t Type) pushWrapper(w Wrapper) Type {
	out := t
	out.Wrappers = append([]Wrapper{w}, append([]Wrapper{}, t.Wrappers...)...)
	return out
}

// RemovePointer, RemoveReference, RemoveArray strip one matching outermost
// wrapper, returning t unchanged if the outermost wrapper does not match.
func (t Type) RemovePointer() Type   { return t.popWrapperIf(WrapperPtr) }
func (t Type) RemoveReference() Type { return t.popWrapperIf(WrapperRef) }
func (t Type) RemoveArray() Type     { return t.popWrapperIf(WrapperArray) }

func (t Type) popWrapperIf(k WrapperKind) Type {
	if len(t.Wrappers) == 0 || t.Wrappers[0].Kind != k {
		return t
	}
	out := t
	out.Wrappers = append([]Wrapper{}, t.Wrappers[1:]...)
	return out
}

// UnwrapBoth strips matching leading wrapper layers from both a and b
// simultaneously and drops a reference wrapper from either side when the
// other side has none — the symmetric unwrap TypeMatcher.cpp performs
// before comparing a candidate and requested type.
func UnwrapBoth(a, b Type) (Type, Type) {
	if a.IsRef() && !b.IsRef() {
		a = a.RemoveReference()
	}
	if b.IsRef() && !a.IsRef() {
		b = b.RemoveReference()
	}
	for a.IsPtr() && b.IsPtr() {
		a = a.RemovePointer()
		b = b.RemovePointer()
	}
	for a.IsArray() && b.IsArray() {
		a = a.RemoveArray()
		b = b.RemoveArray()
	}
	return a, b
}

// HasAnyGenericParts reports whether t itself, or any of its template args
// or function param/return types, mention a generic type.
func (t Type) HasAnyGenericParts() bool {
	if t.Super == Generic {
		return true
	}
	for _, a := range t.TemplateArgs {
		if a.HasAnyGenericParts() {
			return true
		}
	}
	if t.IsOneOf(Function, Procedure) {
		for _, p := range t.FuncParamTypes {
			if p.HasAnyGenericParts() {
				return true
			}
		}
		if t.FuncReturnType != nil && t.FuncReturnType.HasAnyGenericParts() {
			return true
		}
	}
	return false
}

// Matches reports type equality. ignoreArraySize relaxes an unsized-vs-sized
// array mismatch (needed when matching a parameter declared `int[]` against
// an argument of a concrete size); ignoreSpecifiers relaxes everything in
// Specifiers except Const; allowConstMismatch additionally relaxes Const
// when the left side (candidate/parameter) is not itself const.
func (t Type) Matches(other Type, ignoreArraySize, ignoreSpecifiers, allowConstMismatch bool) bool {
	if t.Super != other.Super {
		return false
	}
	if len(t.Wrappers) != len(other.Wrappers) {
		return false
	}
	for i := range t.Wrappers {
		if t.Wrappers[i].Kind != other.Wrappers[i].Kind {
			return false
		}
		if t.Wrappers[i].Kind == WrapperArray && !ignoreArraySize {
			if t.Wrappers[i].ArraySize != other.Wrappers[i].ArraySize {
				return false
			}
		}
	}
	if t.SubType != other.SubType {
		return false
	}
	if len(t.TemplateArgs) != len(other.TemplateArgs) {
		return false
	}
	for i := range t.TemplateArgs {
		if !t.TemplateArgs[i].Matches(other.TemplateArgs[i], ignoreArraySize, ignoreSpecifiers, allowConstMismatch) {
			return false
		}
	}
	if !ignoreSpecifiers {
		lhsConst := t.Specs.Const
		if allowConstMismatch && !lhsConst {
			// a non-const candidate accepts either const-ness on the rhs
		} else if lhsConst != other.Specs.Const {
			return false
		}
	}
	return true
}

// Name renders t's canonical textual form, used both for diagnostics and as
// one component of a mangled signature (internal/manager).
func (t Type) Name(withSpecifiers bool) string {
	var b strings.Builder
	if withSpecifiers {
		if t.Specs.Const {
			b.WriteString("const ")
		}
		if t.Specs.Signed {
			b.WriteString("signed ")
		}
		if t.Specs.Unsigned {
			b.WriteString("unsigned ")
		}
		if t.Specs.Heap {
			b.WriteString("heap ")
		}
	}
	switch t.Super {
	case Struct, Interface, Enum, Generic, Import, Alias:
		b.WriteString(t.SubType)
		if len(t.TemplateArgs) > 0 {
			b.WriteString("<")
			for i, a := range t.TemplateArgs {
				if i > 0 {
					b.WriteString(",")
				}
				b.WriteString(a.Name(false))
			}
			b.WriteString(">")
		}
	case Function, Procedure:
		b.WriteString(t.Super.String())
		b.WriteString("(")
		for i, p := range t.FuncParamTypes {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(p.Name(false))
		}
		b.WriteString(")")
		if t.FuncReturnType != nil {
			b.WriteString("<")
			b.WriteString(t.FuncReturnType.Name(false))
			b.WriteString(">")
		}
	default:
		b.WriteString(t.Super.String())
	}
	for _, w := range t.Wrappers {
		switch w.Kind {
		case WrapperPtr:
			b.WriteString("*")
		case WrapperRef:
			b.WriteString("&")
		case WrapperArray:
			if w.ArraySize >= 0 {
				b.WriteString("[")
				b.WriteString(itoa(w.ArraySize))
				b.WriteString("]")
			} else {
				b.WriteString("[]")
			}
		}
	}
	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func (t Type) String() string { return t.Name(true) }
