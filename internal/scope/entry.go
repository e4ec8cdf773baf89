package scope

import (
	"github.com/spice-lang/spicec/internal/cerr"
	"github.com/spice-lang/spicec/internal/symtype"
)

// DeclNode is the minimal surface a symbol table entry needs from the AST
// node that declared it. internal/ast's node types implement this; scope
// itself never imports internal/ast to keep the dependency one-directional
// (ast depends on scope, not the reverse).
type DeclNode interface {
	Loc() cerr.CodeLoc
}

// Entry is one symbol table slot: a name, its declared type, the AST node
// that introduced it, its ordinal position (used for struct field layout
// and LLVM GEP indices), and lifecycle/usage bookkeeping.
type Entry struct {
	Name       string
	Type       symtype.Type
	DeclNode   DeclNode
	OrderIndex int
	Global     bool

	IsParam         bool
	IsField         bool
	IsImplicitField bool
	Anonymous       bool
	Used            bool
	OmitDtorCall    bool

	lifecycle Lifecycle
}

func NewEntry(name string, t symtype.Type, declNode DeclNode, orderIndex int, global bool) *Entry {
	return &Entry{
		Name:       name,
		Type:       t,
		DeclNode:   declNode,
		OrderIndex: orderIndex,
		Global:     global,
		lifecycle:  NewLifecycle(),
	}
}

func (e *Entry) State() LifecycleState    { return e.lifecycle.State() }
func (e *Entry) IsInitialized() bool      { return e.lifecycle.IsInitialized() }
func (e *Entry) IsDead() bool             { return e.lifecycle.IsDead() }
func (e *Entry) Advance(s LifecycleState, force bool) error {
	return e.lifecycle.Advance(s, force)
}

// UpdateType overwrites the entry's declared type in place, used after
// generic substantiation replaces a template parameter with its concrete
// type, or after type inference resolves a `const` declaration's type from
// its initializer.
func (e *Entry) UpdateType(t symtype.Type, overwriteExisting bool) {
	if e.Type.Super == symtype.Invalid || overwriteExisting {
		e.Type = t
	}
}
