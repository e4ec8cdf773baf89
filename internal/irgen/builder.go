package irgen

import (
	"fmt"
	"strings"
)

// localSlot records one stack-allocated local's virtual-register name and
// IR type, so later loads/stores/GEPs know both without re-deriving them.
type localSlot struct {
	reg string
	typ string
}

// funcBuilder accumulates one function's instruction stream and owns its
// virtual-register and scope-local-name counters. Scopes are pushed/popped
// in lockstep with internal/ast.Block nesting, mirroring how
// internal/symbuild and internal/typecheck track currentScope.
type funcBuilder struct {
	b         strings.Builder
	tempCount int
	locals    []map[string]localSlot
}

func newFuncBuilder() *funcBuilder {
	return &funcBuilder{}
}

func (fb *funcBuilder) pushScope() {
	fb.locals = append(fb.locals, make(map[string]localSlot))
}

func (fb *funcBuilder) popScope() {
	fb.locals = fb.locals[:len(fb.locals)-1]
}

// freshTemp returns the next unused virtual register name, unprefixed
// (callers write "%" themselves so literal operand strings stay uniform).
func (fb *funcBuilder) freshTemp() string {
	fb.tempCount++
	return fmt.Sprintf("%d", fb.tempCount)
}

// declareLocal allocates a new stack slot for name in the innermost scope
// and emits its alloca instruction, returning the register name.
func (fb *funcBuilder) declareLocal(name, typ string) string {
	reg := fmt.Sprintf("%s.%s", name, fb.freshTemp())
	fb.locals[len(fb.locals)-1][name] = localSlot{reg: reg, typ: typ}
	fb.emit("%%%s = alloca %s", reg, typ)
	return reg
}

// lookupLocal walks the scope stack innermost-first, mirroring
// internal/scope.Scope.Lookup's parent-chain walk.
func (fb *funcBuilder) lookupLocal(name string) (reg, typ string, ok bool) {
	for i := len(fb.locals) - 1; i >= 0; i-- {
		if slot, found := fb.locals[i][name]; found {
			return slot.reg, slot.typ, true
		}
	}
	return "", "", false
}

func (fb *funcBuilder) emit(format string, args ...any) {
	fmt.Fprintf(&fb.b, "  "+format+"\n", args...)
}

func (fb *funcBuilder) label(name string) {
	fmt.Fprintf(&fb.b, "%s:\n", name)
}

func (fb *funcBuilder) freshLabel(prefix string) string {
	fb.tempCount++
	return fmt.Sprintf("%s.%d", prefix, fb.tempCount)
}

func (fb *funcBuilder) String() string {
	return fb.b.String()
}
