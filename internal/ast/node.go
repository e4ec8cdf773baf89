// Package ast implements the typed AST node hierarchy and its double-
// dispatch visitors (spec §4.4, C4).
package ast

import (
	"github.com/spice-lang/spicec/internal/cerr"
	"github.com/spice-lang/spicec/internal/symtype"
)

// ManIdx indexes one manifestation of a generic node: a generic function,
// struct or interface is type-checked once per concrete instantiation
// (internal/generic), and every node inside its body accumulates one
// evaluated type per manifestation rather than overwriting a single slot.
type ManIdx int

// Node is the interface every AST node implements. Accept drives the
// double-dispatch visitor pattern: a Visitor mutates the tree in place
// (substantiating generics, attaching resolved types), a ReadOnlyVisitor
// only observes it.
type Node interface {
	Loc() cerr.CodeLoc
	Accept(v Visitor) any
	AcceptReadOnly(v ReadOnlyVisitor)
}

// base is embedded by every concrete node to provide the common CodeLoc
// field and per-manifestation evaluated-type storage without repeating it
// on every node type.
type base struct {
	CodeLoc cerr.CodeLoc

	evaluatedTypes map[ManIdx]symtype.Type
}

func (b base) Loc() cerr.CodeLoc { return b.CodeLoc }

// SetEvaluatedType records the type the type checker computed for this
// node under manifestation idx.
func (b *base) SetEvaluatedType(idx ManIdx, t symtype.Type) {
	if b.evaluatedTypes == nil {
		b.evaluatedTypes = make(map[ManIdx]symtype.Type)
	}
	b.evaluatedTypes[idx] = t
}

// GetEvaluatedType retrieves the type previously recorded for manifestation
// idx. The second result is false if the node has not been type-checked
// under idx yet.
func (b base) GetEvaluatedType(idx ManIdx) (symtype.Type, bool) {
	t, ok := b.evaluatedTypes[idx]
	return t, ok
}
