// Package analyzer implements the two-phase semantic checker:
// forward declaration followed by a full body check, threading a scope
// stack (internal/symbols) and reporting through the shared diagnostics
// sink. The checker's only external contract is a single boolean
// accept/reject; every other effect is an emitted diagnostic.
package analyzer

import (
	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/irgen"
	"github.com/zenith9320/rcompiler-go/internal/pipeline"
	"github.com/zenith9320/rcompiler-go/internal/symbols"
)

// Checker walks a checked AST, maintaining the scope stack and the
// in-flight return-type collection for whichever function body is
// currently being checked.
type Checker struct {
	unit *pipeline.Unit
	root *symbols.Scope

	currentReturnTypes []string

	// loopDepth tracks nested loop/while/for bodies so break/continue
	// outside any loop can be rejected.
	loopDepth int

	traitDefaults map[string]*ast.Function // "Trait::method" -> default body
}

// New creates a Checker that reports into unit. The root scope is seeded
// with the runtime built-ins up front so both this checker and
// the later IR generator resolve print/println/getInt/etc. as ordinary
// declared functions rather than special-casing them.
func New(unit *pipeline.Unit) *Checker {
	root := symbols.NewRoot()
	irgen.SeedBuiltins(root)
	return &Checker{unit: unit, root: root, traitDefaults: make(map[string]*ast.Function)}
}

// RootScope returns the global scope populated by Check, so a later
// pipeline stage (the IR generator) can resolve the same function/struct/
// method signatures without re-deriving them.
func (c *Checker) RootScope() *symbols.Scope { return c.root }

// TraitDefaults returns the map of trait default-method bodies collected
// during forward declaration, lazily initialized for callers that build a
// Checker directly through struct literals in tests.
func (c *Checker) TraitDefaults() map[string]*ast.Function {
	if c.traitDefaults == nil {
		c.traitDefaults = make(map[string]*ast.Function)
	}
	return c.traitDefaults
}

func (c *Checker) errorAt(code diagnostics.Code, pos ast.Node, args ...interface{}) {
	c.unit.Fail(diagnostics.New(diagnostics.PhaseAnalyzer, code, pos.Pos(), args...))
}

func (c *Checker) warnAt(code diagnostics.Code, pos ast.Node, args ...interface{}) {
	c.unit.Fail(diagnostics.New(diagnostics.PhaseAnalyzer, code, pos.Pos(), args...))
}

// Check runs both phases over prog and reports whether the program is
// accepted.
func (c *Checker) Check(prog *ast.Program) bool {
	c.forwardDeclare(c.root, prog.Items)
	c.checkTopLevel(c.root, prog.Items)

	for _, err := range c.unit.Errors {
		if !err.IsWarning() {
			return false
		}
	}
	return true
}

// checkTopLevel is phase 2: walk the top-level sequence again,
// dispatching items to their body check, statements, and
// expressions in place.
func (c *Checker) checkTopLevel(scope *symbols.Scope, nodes []ast.Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case ast.Item:
			c.checkItem(scope, v)
		case ast.Statement:
			c.checkStatement(scope, v)
		case ast.Expression:
			c.checkExpression(scope, v)
		}
	}
}
