// Package pipeline threads shared state between the lexer, parser,
// checker, and IR generator stages (each stage owns its output before
// handing it to the next).
package pipeline

import (
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/token"
)

// TokenStream is the contract the parser consumes: a buffered,
// lookahead-capable view over the lexer's token sequence.
type TokenStream interface {
	Next() token.Token
	Peek(n int) []token.Token
}

// Unit holds everything that flows between pipeline stages for a single
// compilation. There is no global mutable state across invocations: a
// fresh Unit is created per compilation.
type Unit struct {
	Source string
	Errors []*diagnostics.Error
}

// NewUnit creates a fresh, empty pipeline unit for source.
func NewUnit(source string) *Unit {
	return &Unit{Source: source}
}

// Fail records a diagnostic and leaves the unit otherwise untouched; the
// caller decides whether the error is fatal to its own stage.
func (u *Unit) Fail(err *diagnostics.Error) {
	u.Errors = append(u.Errors, err)
}

// OK reports whether no diagnostic has been recorded yet.
func (u *Unit) OK() bool { return len(u.Errors) == 0 }
