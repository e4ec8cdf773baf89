package irgen

import (
	"fmt"

	"github.com/spice-lang/spicec/internal/ast"
	"github.com/spice-lang/spicec/internal/symtype"
)

// emitStructManifestations emits one struct type definition, constructor,
// copy-constructor and destructor per used manifestation of s (spec §4.11):
// the constructor stores the VTable pointer at field 0 when s implements
// any interface, then zero-inits the remaining fields, recursing into a
// nested struct field's own constructor; the copy-constructor recurses into
// struct-typed fields' copy-constructors and bitcopies everything else; the
// destructor recurses into struct-typed fields' destructors and calls the
// runtime deallocator on any heap-qualified field.
func (g *Generator) emitStructManifestations(s *ast.StructDecl) {
	hasVTable := len(s.Interfaces) > 0
	for _, man := range s.Manifestations {
		if !man.Used {
			continue
		}
		g.emitStructLayout(man, hasVTable)
		g.emitCtor(man, hasVTable)
		g.emitCopyCtor(man, hasVTable)
		g.emitDtor(s, man)
	}
	for _, m := range s.Methods {
		if m.IsCtor || m.IsDtor {
			continue
		}
		g.emitFunction(m)
	}
}

func (g *Generator) emitStructLayout(man *ast.StructManifestation, hasVTable bool) {
	layout := StructLayout{MangledName: man.MangledName}
	if hasVTable {
		layout.FieldTypes = append(layout.FieldTypes, "i8*")
		layout.FieldNames = append(layout.FieldNames, "$vtable")
	}
	for i, ft := range man.FieldTypes {
		layout.FieldTypes = append(layout.FieldTypes, llvmTypeName(ft))
		name := fmt.Sprintf("field%d", i)
		layout.FieldNames = append(layout.FieldNames, name)
	}
	g.mod.Structs = append(g.mod.Structs, layout)
}

func fieldOffset(hasVTable bool) int {
	if hasVTable {
		return 1
	}
	return 0
}

func (g *Generator) emitCtor(man *ast.StructManifestation, hasVTable bool) {
	fb := newFuncBuilder()
	g.fb = fb
	fb.pushScope()
	structTy := "%struct." + man.MangledName
	thisAddr := fb.declareLocal(thisParamName, structTy+"*")
	incoming := fb.freshTemp()
	fb.emit("store %s* %%%s, %s** %%%s", structTy, incoming, structTy, thisAddr)
	thisVal := fb.freshTemp()
	fb.emit("%%%s = load %s*, %s** %%%s", thisVal, structTy, structTy, thisAddr)

	offset := fieldOffset(hasVTable)
	if hasVTable {
		vtAddr := fb.freshTemp()
		fb.emit("%%%s = getelementptr %s, %s* %%%s, i32 0, i32 0", vtAddr, structTy, structTy, thisVal)
		fb.emit("store i8* @%s.vtable, i8** %%%s", man.MangledName, vtAddr)
	}
	for i, ft := range man.FieldTypes {
		fieldAddr := fb.freshTemp()
		fb.emit("%%%s = getelementptr %s, %s* %%%s, i32 0, i32 %d", fieldAddr, structTy, structTy, thisVal, offset+i)
		llty := llvmTypeName(ft)
		if ft.Super == symtype.Struct {
			fb.emit("call void @%s.ctor(%s* %%%s)", ft.SubType, llty, fieldAddr)
		} else {
			fb.emit("store %s zeroinitializer, %s* %%%s", llty, llty, fieldAddr)
		}
	}
	fb.emit("ret void")
	fb.popScope()

	g.mod.Functions = append(g.mod.Functions, Function{
		Name:   man.MangledName + ".ctor",
		Params: []ParamDecl{{Name: thisParamName, Type: structTy + "*", Attrs: "noundef nonnull"}},
		Body:   fb.String(),
	})
	g.fb = nil
}

func (g *Generator) emitCopyCtor(man *ast.StructManifestation, hasVTable bool) {
	fb := newFuncBuilder()
	g.fb = fb
	fb.pushScope()
	structTy := "%struct." + man.MangledName
	thisAddr := fb.declareLocal(thisParamName, structTy+"*")
	otherAddr := fb.declareLocal("other", structTy+"*")
	in1, in2 := fb.freshTemp(), fb.freshTemp()
	fb.emit("store %s* %%%s, %s** %%%s", structTy, in1, structTy, thisAddr)
	fb.emit("store %s* %%%s, %s** %%%s", structTy, in2, structTy, otherAddr)
	thisVal := fb.freshTemp()
	fb.emit("%%%s = load %s*, %s** %%%s", thisVal, structTy, structTy, thisAddr)
	otherVal := fb.freshTemp()
	fb.emit("%%%s = load %s*, %s** %%%s", otherVal, structTy, structTy, otherAddr)

	offset := fieldOffset(hasVTable)
	if hasVTable {
		srcAddr := fb.freshTemp()
		fb.emit("%%%s = getelementptr %s, %s* %%%s, i32 0, i32 0", srcAddr, structTy, structTy, otherVal)
		srcLoaded := fb.freshTemp()
		fb.emit("%%%s = load i8*, i8** %%%s", srcLoaded, srcAddr)
		dstAddr := fb.freshTemp()
		fb.emit("%%%s = getelementptr %s, %s* %%%s, i32 0, i32 0", dstAddr, structTy, structTy, thisVal)
		fb.emit("store i8* %%%s, i8** %%%s", srcLoaded, dstAddr)
	}
	for i, ft := range man.FieldTypes {
		dstAddr := fb.freshTemp()
		fb.emit("%%%s = getelementptr %s, %s* %%%s, i32 0, i32 %d", dstAddr, structTy, structTy, thisVal, offset+i)
		srcAddr := fb.freshTemp()
		fb.emit("%%%s = getelementptr %s, %s* %%%s, i32 0, i32 %d", srcAddr, structTy, structTy, otherVal, offset+i)
		llty := llvmTypeName(ft)
		if ft.Super == symtype.Struct {
			fb.emit("call void @%s.copyctor(%s* %%%s, %s* %%%s)", ft.SubType, llty, dstAddr, llty, srcAddr)
		} else {
			loaded := fb.freshTemp()
			fb.emit("%%%s = load %s, %s* %%%s", loaded, llty, llty, srcAddr)
			fb.emit("store %s %%%s, %s* %%%s", llty, loaded, llty, dstAddr)
		}
	}
	fb.emit("ret void")
	fb.popScope()

	g.mod.Functions = append(g.mod.Functions, Function{
		Name: man.MangledName + ".copyctor",
		Params: []ParamDecl{
			{Name: thisParamName, Type: structTy + "*", Attrs: "noundef nonnull"},
			{Name: "other", Type: structTy + "*", Attrs: "noundef nonnull"},
		},
		Body: fb.String(),
	})
	g.fb = nil
}

func (g *Generator) emitDtor(s *ast.StructDecl, man *ast.StructManifestation) {
	fb := newFuncBuilder()
	g.fb = fb
	fb.pushScope()
	structTy := "%struct." + man.MangledName
	thisAddr := fb.declareLocal(thisParamName, structTy+"*")
	incoming := fb.freshTemp()
	fb.emit("store %s* %%%s, %s** %%%s", structTy, incoming, structTy, thisAddr)
	thisVal := fb.freshTemp()
	fb.emit("%%%s = load %s*, %s** %%%s", thisVal, structTy, structTy, thisAddr)

	offset := fieldOffset(len(s.Interfaces) > 0)
	for i, ft := range man.FieldTypes {
		fieldAddr := fb.freshTemp()
		fb.emit("%%%s = getelementptr %s, %s* %%%s, i32 0, i32 %d", fieldAddr, structTy, structTy, thisVal, offset+i)
		llty := llvmTypeName(ft)
		switch {
		case ft.Super == symtype.Struct:
			fb.emit("call void @%s.dtor(%s* %%%s)", ft.SubType, llty, fieldAddr)
		case ft.Specs.Heap:
			loaded := fb.freshTemp()
			fb.emit("%%%s = load %s, %s* %%%s", loaded, llty, llty, fieldAddr)
			castTemp := fb.freshTemp()
			fb.emit("%%%s = bitcast %s %%%s to i8*", castTemp, llty, loaded)
			fb.emit("call void @__spice_dealloc(i8* %%%s)", castTemp)
		}
	}
	fb.emit("ret void")
	fb.popScope()

	g.mod.Functions = append(g.mod.Functions, Function{
		Name:   man.MangledName + ".dtor",
		Params: []ParamDecl{{Name: thisParamName, Type: structTy + "*", Attrs: "noundef nonnull"}},
		Body:   fb.String(),
	})
	g.fb = nil
}
