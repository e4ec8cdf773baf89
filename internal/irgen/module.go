// Package irgen lowers a fully type-checked internal/ast tree to a textual,
// SSA-shaped intermediate representation (spec §4.11, C11). It is specified
// only to the level needed to reproduce observable IR shape — virtual
// registers, stack allocas, GEPs, calls — not to drive a real LLVM builder,
// which spec §1 keeps out of scope.
package irgen

import (
	"fmt"
	"strings"

	"github.com/spice-lang/spicec/internal/symtype"
)

// Module is the emitted unit for one SourceFile: one textual IR "module"
// per spec §4.9's per-file pipeline, holding its functions, globals, and
// struct layouts in declaration order for deterministic dumps (spec §8
// property 1).
type Module struct {
	Name      string
	Globals   []Global
	Functions []Function
	Structs   []StructLayout
}

// Global is one emitted global variable (spec §4.11: "Global variables:
// hasValue emits the constant initializer; otherwise the default-zero
// initializer... linkage follows the public flag").
type Global struct {
	Name     string
	Type     string
	Const    bool
	Public   bool
	HasValue bool
	Init     string
}

// StructLayout records a struct manifestation's field order, used both to
// emit its type definition and to resolve GEP field indices elsewhere.
type StructLayout struct {
	MangledName string
	FieldTypes  []string
	FieldNames  []string
}

// Function is one emitted function/procedure manifestation, or the
// compiler-synthesized ctor/copy-ctor/dtor for a struct manifestation.
type Function struct {
	Name       string
	Params     []ParamDecl
	ReturnType string // "" for a procedure / void function
	Public     bool
	Body       string // textual instruction stream, already indented
}

// ParamDecl is one emitted parameter, carrying the attribute string methods
// attach to their implicit `this` (spec §4.11: "noundef, nonnull, and
// dereferenceable-size attributes").
type ParamDecl struct {
	Name  string
	Type  string
	Attrs string
}

func (m *Module) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "; module %s\n", m.Name)
	for _, s := range m.Structs {
		fmt.Fprintf(&b, "%%struct.%s = type { %s }\n", s.MangledName, strings.Join(s.FieldTypes, ", "))
	}
	for _, g := range m.Globals {
		linkage := "internal"
		if g.Public {
			linkage = "external"
		}
		qualifier := ""
		if g.Const {
			qualifier = "constant"
		} else {
			qualifier = "global"
		}
		init := g.Init
		if !g.HasValue {
			init = "zeroinitializer"
		}
		fmt.Fprintf(&b, "@%s = %s %s %s %s\n", g.Name, linkage, qualifier, g.Type, init)
	}
	for _, f := range m.Functions {
		linkage := "internal"
		if f.Public {
			linkage = "external"
		}
		ret := f.ReturnType
		if ret == "" {
			ret = "void"
		}
		params := make([]string, len(f.Params))
		for i, p := range f.Params {
			attrs := p.Attrs
			if attrs != "" {
				attrs = " " + attrs
			}
			params[i] = fmt.Sprintf("%s%s %%%s", p.Type, attrs, p.Name)
		}
		fmt.Fprintf(&b, "\ndefine %s @%s(%s) %s {\n%s}\n", ret, f.Name, strings.Join(params, ", "), linkage, f.Body)
	}
	return b.String()
}

// llvmTypeName projects a symtype.Type to its textual IR type name — a
// thin stand-in for Type.toLLVMType(context, scope) (spec §4.1), since the
// real LLVM context/type objects are out of scope here.
func llvmTypeName(t symtype.Type) string {
	base := baseTypeName(t)
	for i := len(t.Wrappers) - 1; i >= 0; i-- {
		switch t.Wrappers[i].Kind {
		case symtype.WrapperPtr, symtype.WrapperRef:
			base = base + "*"
		case symtype.WrapperArray:
			size := t.Wrappers[i].ArraySize
			if size <= 0 {
				base = base + "*"
			} else {
				base = fmt.Sprintf("[%d x %s]", size, base)
			}
		}
	}
	return base
}

func baseTypeName(t symtype.Type) string {
	switch t.Super {
	case symtype.Double:
		return "double"
	case symtype.Int:
		return "i32"
	case symtype.Short:
		return "i16"
	case symtype.Long:
		return "i64"
	case symtype.Byte, symtype.Char, symtype.Bool:
		return "i8"
	case symtype.String:
		return "i8*"
	case symtype.Struct:
		return "%struct." + t.SubType
	default:
		return "i64"
	}
}

// sizeOf approximates a type's in-memory size for sizeof/alignof lowering
// (spec §4.6: "sizeof/alignof accept any type or value").
func sizeOf(t symtype.Type) int64 {
	if len(t.Wrappers) > 0 {
		return 8
	}
	switch t.Super {
	case symtype.Double, symtype.Long:
		return 8
	case symtype.Int:
		return 4
	case symtype.Short:
		return 2
	case symtype.Byte, symtype.Char, symtype.Bool:
		return 1
	case symtype.String:
		return 8
	default:
		return 8
	}
}
