package analyzer

import (
	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/symbols"
)

// checkStatement dispatches the four statement forms.
func (c *Checker) checkStatement(scope *symbols.Scope, s ast.Statement) {
	switch n := s.(type) {
	case *ast.EmptyStatement:
		// Accepted.
	case *ast.ItemStatement:
		// Already forward-declared by checkBlockIn's pre-pass (or phase 1
		// at top level); only the body check remains.
		c.checkItem(scope, n.Item)
	case *ast.LetStatement:
		c.checkLetStatement(scope, n)
	case *ast.ExpressionStatement:
		c.checkExpression(scope, n.Expr)
	}
}

// checkLetStatement implements the let-statement rule: declare the
// pattern-bound names with the declared type (if any) and pattern-derived
// mutability; if an initializer is present, check it, then
// either the array-length check or plain structural equality
// against the declared type.
func (c *Checker) checkLetStatement(scope *symbols.Scope, let *ast.LetStatement) {
	declaredType := ""
	hasDeclared := let.Type != nil
	if hasDeclared {
		declaredType = c.canonicalType(scope, let.Type)
	}

	var initType string
	initialized := false
	if let.Init != nil {
		initType = c.checkExpression(scope, let.Init)
		initialized = true

		if hasDeclared {
			if arr, ok := let.Type.(*ast.ArrayType); ok {
				c.checkArrayLengthCompatibility(scope, arr, let.Init)
			} else if !isAssignmentCompatible(declaredType, initType) && !intLiteralTakesDeclaredType(declaredType, let.Init) {
				c.errorAt(diagnostics.ErrA003, let.Init, declaredType, initType)
			}
		}
	}

	if let.ElseBlock != nil {
		elseScope := scope.Push()
		c.checkBlockIn(elseScope, let.ElseBlock)
	}

	bindingType := declaredType
	if !hasDeclared {
		bindingType = initType
	}
	mutable := patternTopMut(let.Pattern) || isMutReferenceType(declaredType)
	c.bindPattern(scope, let.Pattern, bindingType, mutable, initialized)
}

// isAssignmentCompatible allows a call-expression initializer through
// without a strict comparison ("A call-expression initializer is
// accepted without length comparison", generalized here to ordinary
// structural equality too, since an unannotated callee's return type is
// only as precise as the forward-declared signature) and otherwise falls
// back to the structural equality.
func isAssignmentCompatible(declared, actual string) bool {
	if declared == "" || actual == "" {
		return true
	}
	return typesEqual(declared, actual)
}

// intLiteralTakesDeclaredType reports whether init is an integer literal
// with no type suffix (optionally negated) and declared is an integer
// type; such a literal takes the declared type instead of i32.
func intLiteralTakesDeclaredType(declared string, init ast.Expression) bool {
	if neg, ok := init.(*ast.NegationExpression); ok && neg.Kind == ast.NegateArithmetic {
		init = neg.Value
	}
	lit, ok := init.(*ast.LiteralExpression)
	isIntType := numericSuffix(declared) == declared && declared != "f32" && declared != "f64"
	return ok && lit.Kind == ast.LitInteger && numericSuffix(lit.Text) == "" && isIntType
}
