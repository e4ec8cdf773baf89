package cerr

import "fmt"

// LexParseError is raised by internal/lexer and internal/parser: a
// tokenizing or grammar failure with no semantic-error kind attached, just
// an offset and a message.
type LexParseError struct {
	Message string
	Loc     CodeLoc
}

func (e *LexParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Message)
}

// SemanticError is raised by internal/symbuild and internal/typecheck.
// Every SemanticError carries an enumerated Kind so callers (tests, the
// driver, golden fixtures) can assert on the kind rather than parse
// message text.
type SemanticError struct {
	Kind    SemanticErrorKind
	Message string
	Loc     CodeLoc
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: [%s] %s", e.Loc, e.Kind, e.Message)
}

func NewSemanticError(loc CodeLoc, kind SemanticErrorKind, message string) *SemanticError {
	return &SemanticError{Kind: kind, Message: message, Loc: loc}
}

// CompilerError signals an internal-invariant violation — a bug in the
// compiler itself rather than a problem with the input source. These are
// never suppressed by the soft-error rule.
type CompilerError struct {
	Message string
	Loc     CodeLoc
}

func (e *CompilerError) Error() string {
	return fmt.Sprintf("internal compiler error at %s: %s", e.Loc, e.Message)
}

func NewCompilerError(loc CodeLoc, message string) *CompilerError {
	return &CompilerError{Message: message, Loc: loc}
}

// Warning is a non-fatal diagnostic collected per scope and flushed by the
// driver before it exits (spec §7).
type Warning struct {
	Kind    WarningKind
	Message string
	Loc     CodeLoc
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: [%s] %s", w.Loc, w.Kind, w.Message)
}

func NewWarning(loc CodeLoc, kind WarningKind, message string) Warning {
	return Warning{Kind: kind, Message: message, Loc: loc}
}

// IsInvalidSuppressed implements the soft-error rule from spec §7: a
// SemanticError that would be raised against an already-invalid operand is
// dropped instead of reported, to avoid cascades of follow-on errors after
// the first one. Callers pass the operand types that fed the failing rule;
// if any of them is the sentinel invalid type, the error is suppressed.
func IsInvalidSuppressed(operandIsInvalid ...bool) bool {
	for _, invalid := range operandIsInvalid {
		if invalid {
			return true
		}
	}
	return false
}
