package scope

import (
	"fmt"
	"sort"

	"github.com/spice-lang/spicec/internal/cerr"
	"github.com/spice-lang/spicec/internal/symtype"
)

const (
	thisVariableName   = "this"
	returnVariableName = "result"
	unusedVariablePrefix = "_"
)

// Scope is one node of the compile-time scope tree: a symbol table plus a
// pointer to its parent (nil only for the global scope of a SourceFile) and
// named child scopes (one per nested block, function body, struct
// definition, etc).
type Scope struct {
	Name   string
	Kind   Kind
	Parent *Scope

	symbols   map[string]*Entry
	anonymous map[cerr.CodeLoc]*Entry
	children  map[string]*Scope
	childOrder []string

	genericTypes map[string]symtype.Type

	IsGenericScope bool
	IsDtorScope    bool
	IsImported     bool

	nextOrderIndex int
}

// NewGlobalScope creates the root scope of a SourceFile.
func NewGlobalScope() *Scope {
	return newScope(nil, "global", Global)
}

func newScope(parent *Scope, name string, kind Kind) *Scope {
	return &Scope{
		Name:         name,
		Kind:         kind,
		Parent:       parent,
		symbols:      make(map[string]*Entry),
		anonymous:    make(map[cerr.CodeLoc]*Entry),
		children:     make(map[string]*Scope),
		genericTypes: make(map[string]symtype.Type),
	}
}

// CreateChildScope creates, registers and returns a new named child scope.
func (s *Scope) CreateChildScope(name string, kind Kind) *Scope {
	child := newScope(s, name, kind)
	if _, exists := s.children[name]; !exists {
		s.childOrder = append(s.childOrder, name)
	}
	s.children[name] = child
	return child
}

// GetChildScope returns the named child scope, or nil if none exists.
func (s *Scope) GetChildScope(name string) *Scope {
	return s.children[name]
}

// RenameChildScope moves a child scope from oldName to newName.
func (s *Scope) RenameChildScope(oldName, newName string) error {
	child, ok := s.children[oldName]
	if !ok {
		return fmt.Errorf("no child scope named %q", oldName)
	}
	if _, exists := s.children[newName]; exists {
		return fmt.Errorf("child scope %q already exists", newName)
	}
	delete(s.children, oldName)
	s.children[newName] = child
	for i, n := range s.childOrder {
		if n == oldName {
			s.childOrder[i] = newName
			break
		}
	}
	return nil
}

// CopyChildScope deep-copies the oldName child scope (including all of its
// descendants) and registers the copy under newName, reparenting every
// copied node to point at the new tree. Used to give each generic function
// manifestation its own independent body scope.
func (s *Scope) CopyChildScope(oldName, newName string) error {
	child, ok := s.children[oldName]
	if !ok {
		return fmt.Errorf("no child scope named %q", oldName)
	}
	if _, exists := s.children[newName]; exists {
		return fmt.Errorf("child scope %q already exists", newName)
	}
	copied := child.deepCopy(s)
	copied.Name = newName
	s.children[newName] = copied
	s.childOrder = append(s.childOrder, newName)
	return nil
}

func (s *Scope) deepCopy(newParent *Scope) *Scope {
	out := newScope(newParent, s.Name, s.Kind)
	out.IsGenericScope = s.IsGenericScope
	out.IsDtorScope = s.IsDtorScope
	out.IsImported = s.IsImported
	out.nextOrderIndex = s.nextOrderIndex
	for name, entry := range s.symbols {
		copyEntry := *entry
		out.symbols[name] = &copyEntry
	}
	for loc, entry := range s.anonymous {
		copyEntry := *entry
		out.anonymous[loc] = &copyEntry
	}
	for name, gt := range s.genericTypes {
		out.genericTypes[name] = gt
	}
	for _, name := range s.childOrder {
		out.children[name] = s.children[name].deepCopy(out)
		out.childOrder = append(out.childOrder, name)
	}
	return out
}

// Insert adds a new named symbol to this scope's table. The caller is
// responsible for raising VARIABLE_DECLARED_TWICE (or the function/struct/
// enum equivalent) before calling Insert if a collision would occur;
// Insert itself just overwrites, matching the reference builder's
// insertSymbol which checks-then-inserts in the same pass.
func (s *Scope) Insert(name string, t symtype.Type, declNode DeclNode, global bool) *Entry {
	entry := NewEntry(name, t, declNode, s.nextOrderIndex, global)
	s.nextOrderIndex++
	s.symbols[name] = entry
	return entry
}

// InsertAnonymous adds a symbol with no source name, keyed by the code
// location of the node that required a slot (e.g. a temporary holding a
// call's return value before its fields are accessed).
func (s *Scope) InsertAnonymous(loc cerr.CodeLoc, t symtype.Type, declNode DeclNode) *Entry {
	entry := NewEntry(fmt.Sprintf("%s%d", unusedVariablePrefix, s.nextOrderIndex), t, declNode, s.nextOrderIndex, false)
	entry.Anonymous = true
	s.nextOrderIndex++
	s.anonymous[loc] = entry
	return entry
}

// LookupStrict looks up name in this scope only, without walking parents.
func (s *Scope) LookupStrict(name string) *Entry {
	return s.symbols[name]
}

// Lookup walks from this scope up through every parent until name is
// found, or returns nil if no enclosing scope declares it.
func (s *Scope) Lookup(name string) *Entry {
	for cur := s; cur != nil; cur = cur.Parent {
		if e, ok := cur.symbols[name]; ok {
			return e
		}
	}
	return nil
}

// LookupAnonymous retrieves an anonymous entry previously inserted at loc.
func (s *Scope) LookupAnonymous(loc cerr.CodeLoc) *Entry {
	return s.anonymous[loc]
}

// Symbols returns the scope's own named symbols in insertion order
// (by OrderIndex).
func (s *Scope) Symbols() []*Entry {
	out := make([]*Entry, 0, len(s.symbols))
	for _, e := range s.symbols {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

// ChildNames returns this scope's child scope names in creation order.
func (s *Scope) ChildNames() []string {
	return append([]string{}, s.childOrder...)
}

// InsertGenericType registers a generic type parameter visible in this
// scope and its descendants.
func (s *Scope) InsertGenericType(name string, t symtype.Type) {
	s.genericTypes[name] = t
}

// LookupGenericType walks the parent chain for a generic type parameter
// named name, as internal/generic needs when resolving an unknown generic
// candidate's conditions (TypeMatcher.cpp's resolverFct).
func (s *Scope) LookupGenericType(name string) (symtype.Type, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if t, ok := cur.genericTypes[name]; ok {
			return t, true
		}
	}
	return symtype.Type{}, false
}

// GetFieldCount returns the number of non-import, non-function symbols
// directly declared in a struct-body scope.
func (s *Scope) GetFieldCount() int {
	count := 0
	for _, e := range s.symbols {
		if e.Type.Super == symtype.Import {
			continue
		}
		if e.Type.IsOneOf(symtype.Function, symtype.Procedure) {
			continue
		}
		count++
	}
	return count
}

// GetVarsGoingOutOfScope returns every local variable (excluding `this`,
// `result` and parameters) declared directly in this scope — the set
// internal/irgen must run destructors for when control leaves the scope.
// If this is a destructor's body scope, the enclosing struct's fields are
// appended too, since a destructor implicitly destroys its struct's
// members after its own body runs.
func (s *Scope) GetVarsGoingOutOfScope() []*Entry {
	if s.Parent == nil {
		return nil
	}
	var out []*Entry
	for _, e := range s.Symbols() {
		if e.Name == thisVariableName || e.Name == returnVariableName {
			continue
		}
		if e.IsParam {
			continue
		}
		out = append(out, e)
	}
	if s.IsDtorScope && s.Parent.Kind == StructBody {
		for _, e := range s.Parent.Symbols() {
			if !e.Type.IsOneOf(symtype.Function, symtype.Procedure) {
				out = append(out, e)
			}
		}
	}
	return out
}

// LoopNestingDepth counts enclosing loop-body scopes, used to validate a
// `break N`/`continue N` argument against INVALID_BREAK_NUMBER /
// INVALID_CONTINUE_NUMBER.
func (s *Scope) LoopNestingDepth() int {
	depth := 0
	for cur := s; cur != nil && cur.Parent != nil; cur = cur.Parent {
		if cur.Kind.IsLoopBody() {
			depth++
		}
	}
	return depth
}

// CollectWarnings walks this scope and every descendant, emitting an
// UnusedFunction/UnusedStruct/UnusedVariable warning for every symbol that
// was never marked Used, skipping generic manifestation entries (their
// base declaration already gets the warning) and names starting with the
// unused-variable prefix `_`.
func (s *Scope) CollectWarnings() []cerr.Warning {
	var out []cerr.Warning
	for _, e := range s.Symbols() {
		if e.Used || len(e.Name) > 0 && e.Name[0] == '_' {
			continue
		}
		var kind cerr.WarningKind
		var subject string
		switch {
		case e.Type.Super == symtype.Function || e.Type.Super == symtype.Procedure:
			if len(e.Type.TemplateArgs) > 0 {
				continue
			}
			kind = cerr.UnusedFunction
			subject = "function"
		case e.Type.Super == symtype.Struct:
			kind = cerr.UnusedStruct
			subject = "struct"
		case e.Type.Super == symtype.Import:
			kind = cerr.UnusedImport
			subject = "import"
		default:
			kind = cerr.UnusedVariable
			subject = "variable"
		}
		loc := cerr.CodeLoc{}
		if e.DeclNode != nil {
			loc = e.DeclNode.Loc()
		}
		out = append(out, cerr.NewWarning(loc, kind, fmt.Sprintf("the %s '%s' is unused", subject, e.Name)))
	}
	for _, name := range s.childOrder {
		out = append(out, s.children[name].CollectWarnings()...)
	}
	return out
}

// ID returns a deterministic dotted path identifying this scope within its
// SourceFile (e.g. "global.main.if0.while1"), built from ordinal child
// indices. No other package calls it; mangled names do not include it.
func (s *Scope) ID() string {
	if s.Parent == nil {
		return s.Kind.String()
	}
	return s.Parent.ID() + "." + s.Name
}

// IsImportedBy reports whether this scope is reachable from root by
// following only scopes flagged IsImported — used to decide whether a
// symbol looked up from another file's scope is actually visible (versus
// merely present because it sits in a shared ancestor).
func (s *Scope) IsImportedBy(root *Scope) bool {
	for cur := s; cur != nil && cur != root; cur = cur.Parent {
		if !cur.IsImported {
			return false
		}
	}
	return true
}
