package analyzer

import (
	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/symbols"
)

// checkAssignmentExpression checks `lhs = rhs`: the root binding
// of lhs must be mutable, and rhs's type must agree with lhs's.
func (c *Checker) checkAssignmentExpression(scope *symbols.Scope, a *ast.AssignmentExpression) string {
	rhsType := c.checkExpression(scope, a.Value)
	c.checkLValueMutability(scope, a.LHS)
	lhsType := c.checkExpression(scope, a.LHS)
	if lhsType != "" && rhsType != "" && !typesEqual(lhsType, rhsType) {
		c.errorAt(diagnostics.ErrA003, a, lhsType, rhsType)
	}
	return "()"
}

// checkCompoundAssignmentExpression checks `lhs op= rhs`, the same
// mutability requirement as plain assignment applies to lhs.
func (c *Checker) checkCompoundAssignmentExpression(scope *symbols.Scope, a *ast.CompoundAssignmentExpression) string {
	c.checkExpression(scope, a.Value)
	c.checkLValueMutability(scope, a.LHS)
	return c.checkExpression(scope, a.LHS)
}

// checkLValueMutability walks an lvalue down to its root binding,
// requiring that root to be declared mutable ("indexed and field
// lvalues inherit mutability from their base"). A dereference target is
// left unchecked here: whether `*p = v` is legal depends on whether p is
// a `&mut` reference, which is a type-level fact already enforced at the
// point p itself was bound, not a further mutability flag to chase.
func (c *Checker) checkLValueMutability(scope *symbols.Scope, lvalue ast.Expression) {
	switch n := lvalue.(type) {
	case *ast.PathExpression:
		if len(n.Path.Segments) != 1 {
			return
		}
		name := n.Path.Segments[0]
		if v, _ := scope.LookupVar(name); v != nil && !v.IsMutable {
			c.errorAt(diagnostics.ErrA005, n, name)
		}
	case *ast.FieldExpression:
		c.checkLValueMutability(scope, n.Base)
	case *ast.IndexExpression:
		c.checkLValueMutability(scope, n.Base)
	case *ast.TupleIndexingExpression:
		c.checkLValueMutability(scope, n.Base)
	case *ast.DereferenceExpression:
		// See comment above: nothing further to check here.
	}
}
