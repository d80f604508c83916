package analyzer

import (
	"strings"

	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/symbols"
)

// checkExpression is the single entry point for every expression
// variant; it returns the expression's canonical type, "" when
// the type could not be determined (an error was already reported, or the
// expression's type is genuinely irrelevant to the caller).
func (c *Checker) checkExpression(scope *symbols.Scope, e ast.Expression) string {
	switch n := e.(type) {
	case *ast.LiteralExpression:
		return c.literalType(n)
	case *ast.PathExpression:
		return c.checkPathExpression(scope, n)
	case *ast.BlockExpression:
		return c.checkBlockIn(scope.Push(), n)
	case *ast.UnsafeBlockExpression:
		return c.checkBlockIn(scope.Push(), n.Block)
	case *ast.IfExpression:
		return c.checkIfExpression(scope, n)
	case *ast.WhileExpression:
		return c.checkWhileExpression(scope, n)
	case *ast.LoopExpression:
		return c.checkLoopExpression(scope, n)
	case *ast.MatchExpression:
		return c.checkMatchExpression(scope, n)
	case *ast.ReturnExpression:
		return c.checkReturnExpression(scope, n)
	case *ast.BreakExpression:
		if c.loopDepth == 0 {
			c.errorAt(diagnostics.ErrA009, n, "break")
		}
		if n.Value != nil {
			c.checkExpression(scope, n.Value)
		}
		return "!"
	case *ast.ContinueExpression:
		if c.loopDepth == 0 {
			c.errorAt(diagnostics.ErrA009, n, "continue")
		}
		return "!"
	case *ast.CallExpression:
		return c.checkCallExpression(scope, n)
	case *ast.MethodCallExpression:
		return c.checkMethodCallExpression(scope, n)
	case *ast.FieldExpression:
		return c.checkFieldExpression(scope, n)
	case *ast.IndexExpression:
		return c.checkIndexExpression(scope, n)
	case *ast.TupleExpression:
		return c.checkTupleExpression(scope, n)
	case *ast.TupleIndexingExpression:
		return c.checkTupleIndexingExpression(scope, n)
	case *ast.StructExpression:
		return c.checkStructExpression(scope, n)
	case *ast.ArrayExpression:
		return c.checkArrayExpression(scope, n)
	case *ast.RangeExpression:
		return c.checkRangeExpression(scope, n)
	case *ast.ArithmeticOrLogicalExpression:
		return c.checkArithmeticExpression(scope, n)
	case *ast.ComparisonExpression:
		c.checkExpression(scope, n.Left)
		c.checkExpression(scope, n.Right)
		return "bool"
	case *ast.LazyBooleanExpression:
		c.checkExpression(scope, n.Left)
		c.checkExpression(scope, n.Right)
		return "bool"
	case *ast.AssignmentExpression:
		return c.checkAssignmentExpression(scope, n)
	case *ast.CompoundAssignmentExpression:
		return c.checkCompoundAssignmentExpression(scope, n)
	case *ast.BorrowExpression:
		return c.checkBorrowExpression(scope, n)
	case *ast.DereferenceExpression:
		return c.checkDereferenceExpression(scope, n)
	case *ast.NegationExpression:
		return c.checkExpression(scope, n.Value)
	case *ast.TypeCastExpression:
		c.checkExpression(scope, n.Value)
		return c.canonicalType(scope, n.Type)
	case *ast.GroupedExpression:
		return "(" + c.checkExpression(scope, n.Inner) + ")"
	case *ast.UnderscoreExpression:
		return "_"
	}
	return ""
}

// literalType infers a literal's type from its suffix when present,
// falling back to the language's default for that literal flavor (// note: "no type inference beyond literal-suffix ... widening").
func (c *Checker) literalType(lit *ast.LiteralExpression) string {
	switch lit.Kind {
	case ast.LitInteger:
		if suf := numericSuffix(lit.Text); suf != "" {
			return suf
		}
		return "i32"
	case ast.LitFloat:
		if suf := numericSuffix(lit.Text); suf != "" {
			return suf
		}
		return "f64"
	case ast.LitBool:
		return "bool"
	case ast.LitChar:
		return "char"
	case ast.LitString:
		return "&str"
	case ast.LitByte:
		return "u8"
	case ast.LitByteString:
		return "&[u8]"
	}
	return ""
}

func numericSuffix(text string) string {
	for _, suf := range []string{"i8", "i16", "i32", "i64", "i128", "isize",
		"u8", "u16", "u32", "u64", "u128", "usize", "f32", "f64"} {
		if strings.HasSuffix(text, suf) {
			return suf
		}
	}
	return ""
}

// checkPathExpression resolves a bare path against the variable table
// first (locals, parameters, `self`, enum variants registered as
// read-only values), then, for a single-segment path, the constant table
// and the function table, reporting the A001 (undeclared name) when none
// resolves.
func (c *Checker) checkPathExpression(scope *symbols.Scope, p *ast.PathExpression) string {
	name := strings.Join(p.Path.Segments, "::")
	if v, _ := scope.LookupVar(name); v != nil {
		return v.Type
	}
	if len(p.Path.Segments) == 1 {
		if info, ok := scope.LookupConst(p.Path.Segments[0]); ok {
			return info.Type
		}
		if fn, ok := scope.LookupFunc(p.Path.Segments[0]); ok {
			return fn.ReturnType
		}
	}
	c.errorAt(diagnostics.ErrA001, p, name)
	return ""
}

// checkTupleExpression types `(e1, e2, ...)` as the tuple of its element
// types.
func (c *Checker) checkTupleExpression(scope *symbols.Scope, t *ast.TupleExpression) string {
	parts := make([]string, len(t.Elems))
	for i, el := range t.Elems {
		parts[i] = c.checkExpression(scope, el)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// checkRangeExpression checks whatever bounds are present; a range
// expression's own type plays no further role in this front end's type
// equality (nothing past the parser consumes a range value), so a fixed
// marker type is returned.
func (c *Checker) checkRangeExpression(scope *symbols.Scope, r *ast.RangeExpression) string {
	if r.From != nil {
		c.checkExpression(scope, r.From)
	}
	if r.To != nil {
		c.checkExpression(scope, r.To)
	}
	return "Range"
}

// checkArithmeticExpression implements the result-type rule: "the
// result type is the type of the left operand resolved through the
// variable table if the left operand is a path; widening ... is handled
// by the IR generator, not the checker."
func (c *Checker) checkArithmeticExpression(scope *symbols.Scope, a *ast.ArithmeticOrLogicalExpression) string {
	leftType := c.checkExpression(scope, a.Left)
	c.checkExpression(scope, a.Right)
	return leftType
}

// checkBorrowExpression types `&`/`&&` by borrow depth; canonical form
// nests a `&` per level of depth so
// the `Reference{mut, T}` equality composes across doubled borrows.
func (c *Checker) checkBorrowExpression(scope *symbols.Scope, b *ast.BorrowExpression) string {
	inner := c.checkExpression(scope, b.Value)
	prefix := "&"
	if b.Mutable {
		prefix = "&mut "
	}
	result := prefix + inner
	if b.Depth == 2 {
		result = "&" + result
	}
	return result
}

// checkDereferenceExpression strips one reference level: single-step
// autoderef applies at the IR level, so here the checker simply types
// `*p` as p's pointee.
func (c *Checker) checkDereferenceExpression(scope *symbols.Scope, d *ast.DereferenceExpression) string {
	inner := c.checkExpression(scope, d.Value)
	if isMutReferenceType(inner) {
		return inner[len("&mut "):]
	}
	if isReferenceType(inner) {
		return inner[1:]
	}
	// A non-pointer dereference is a LoweringError ("dereference of a
	// non-pointer"), caught at IR-generation time (G003), not here.
	return inner
}
