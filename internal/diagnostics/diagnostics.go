// Package diagnostics implements the error taxonomy: SyntaxError,
// SemanticError, LoweringError, and non-fatal Warning, each rendered as
// a one-line human-readable message carrying a source position.
package diagnostics

import (
	"fmt"

	"github.com/zenith9320/rcompiler-go/internal/token"
)

// Phase names the pipeline stage that raised a diagnostic.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseAnalyzer Phase = "analyzer"
	PhaseIRGen    Phase = "irgen"
)

// Code is a closed, documented error-code vocabulary grouped by stage:
// L (lexer), P (SyntaxError), A (SemanticError), G (LoweringError).
type Code string

const (
	ErrL001 Code = "L001" // unclassifiable byte

	ErrP001 Code = "P001" // unexpected token
	ErrP002 Code = "P002" // no prefix parselet for token
	ErrP003 Code = "P003" // no infix parselet stopped the Pratt loop prematurely
	ErrP004 Code = "P004" // malformed literal
	ErrP005 Code = "P005" // item/statement/expression all failed at this position
	ErrP006 Code = "P006" // disallowed expression in condition position

	ErrA001 Code = "A001" // undeclared name
	ErrA002 Code = "A002" // redefinition
	ErrA003 Code = "A003" // type mismatch
	ErrA004 Code = "A004" // array-length mismatch
	ErrA005 Code = "A005" // mutability violation
	ErrA006 Code = "A006" // method call on non-struct receiver / unknown method
	ErrA007 Code = "A007" // missing trait implementation
	ErrA008 Code = "A008" // non-uniform return type
	ErrA009 Code = "A009" // break/continue outside a loop

	ErrG001 Code = "G001" // unresolved symbol at IR emission
	ErrG002 Code = "G002" // unknown field
	ErrG003 Code = "G003" // dereference of a non-pointer
	ErrG004 Code = "G004" // non-constant array repeat count
	ErrG005 Code = "G005" // unsupported expression category

	WarnA101 Code = "A101" // extra associated item not declared by the trait
)

var templates = map[Code]string{
	ErrL001: "invalid character %q",

	ErrP001: "expected %s, found %s",
	ErrP002: "no prefix parselet for %s",
	ErrP003: "unexpected token %s",
	ErrP004: "malformed literal %q",
	ErrP005: "expected an item, statement, or expression",
	ErrP006: "%s is not allowed in a condition",

	ErrA001: "undeclared name %q",
	ErrA002: "redefinition of %q",
	ErrA003: "type mismatch: expected %s, found %s",
	ErrA004: "array length mismatch: expected %d elements, found %d",
	ErrA005: "cannot assign to immutable binding %q",
	ErrA006: "%q has no method %q",
	ErrA007: "type %q does not implement method %q required by trait %q",
	ErrA008: "function %q must return exactly one type; found %s",
	ErrA009: "%s outside of a loop",

	ErrG001: "unresolved symbol %q",
	ErrG002: "type %q has no field %q",
	ErrG003: "cannot dereference non-pointer value",
	ErrG004: "array repeat count is not a constant expression",
	ErrG005: "unsupported expression in IR generator: %s",

	WarnA101: "method %q in impl of trait %q is not declared by the trait",
}

// Error is a single diagnostic: a code, the offending token's position, and
// the arguments to render into the code's template.
type Error struct {
	Code  Code
	Phase Phase
	Pos   token.Token
	Args  []interface{}
}

func (e *Error) Error() string {
	template, ok := templates[e.Code]
	if !ok {
		return fmt.Sprintf("error [%s]", e.Code)
	}
	msg := fmt.Sprintf(template, e.Args...)
	if e.Pos.Line > 0 {
		return fmt.Sprintf("%d:%d: error[%s]: %s", e.Pos.Line, e.Pos.Column, e.Code, msg)
	}
	return fmt.Sprintf("error[%s]: %s", e.Code, msg)
}

// IsWarning reports whether this diagnostic is non-fatal ("does not
// fail the check").
func (e *Error) IsWarning() bool { return e.Code == WarnA101 }

func New(phase Phase, code Code, pos token.Token, args ...interface{}) *Error {
	return &Error{Code: code, Phase: phase, Pos: pos, Args: args}
}
