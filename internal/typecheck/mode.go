// Package typecheck implements the two-mode type checker (spec §4.6, C6):
// Prepare resolves signatures only, Check walks full bodies and enforces
// the operator rules from internal/symtype.
package typecheck

// Mode selects which pass a Checker performs over a file's AST.
type Mode int

const (
	// ModePrepare visits only top-level declarations (structs, interfaces,
	// globals, function signatures) and rejects dyn parameter and field
	// types; it registers nothing and does not visit enums or aliases.
	// Safe to run before any dependency has been checked.
	ModePrepare Mode = iota
	// ModeCheck visits full bodies: every expression, every statement,
	// operator and overload resolution, dyn inference.
	ModeCheck
)

func (m Mode) String() string {
	if m == ModePrepare {
		return "prepare"
	}
	return "check"
}

// maxReVisits bounds the check-mode re-visit loop (spec §4.6): a pass that
// still requests a re-visit after this many iterations indicates a bug in
// the checker itself, not in the source under test.
const maxReVisits = 10
