package analyzer

import (
	"fmt"
	"strings"

	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/symbols"
)

// canonicalType renders t to the string-canonical form, which is
// also what every VarInfo/FuncInfo/StructInfo entry stores so that type
// equality is just a string comparison.
func (c *Checker) canonicalType(scope *symbols.Scope, t ast.Type) string {
	if t == nil {
		return ""
	}
	switch n := t.(type) {
	case *ast.TypePath:
		return c.canonicalPath(scope, n.Path)
	case *ast.ReferenceType:
		prefix := "&"
		if n.Mutable {
			prefix = "&mut "
		}
		return prefix + c.canonicalType(scope, n.Inner)
	case *ast.ArrayType:
		length := c.constArrayLength(scope, n.Length)
		return fmt.Sprintf("[%s; %d]", c.canonicalType(scope, n.Elem), length)
	case *ast.SliceType:
		return "[" + c.canonicalType(scope, n.Elem) + "]"
	case *ast.TupleType:
		parts := make([]string, len(n.Elems))
		for i, e := range n.Elems {
			parts[i] = c.canonicalType(scope, e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.ParenthesizedType:
		return "(" + c.canonicalType(scope, n.Inner) + ")"
	case *ast.NeverType:
		return "!"
	case *ast.InferredType:
		return "_"
	case *ast.QualifiedPathType:
		base := c.canonicalType(scope, n.Base)
		if len(n.Segments) == 0 {
			return base
		}
		return base + "::" + strings.Join(n.Segments, "::")
	}
	return ""
}

// canonicalPath renders a Path to its `::`-joined canonical form,
// resolving a bare `Self` segment to the enclosing impl's type when one is
// in force (the note that `Self`/`self` disables the return-type
// comparison is handled by the caller; this just gives Self a concrete
// string wherever it is used as an ordinary type).
func (c *Checker) canonicalPath(scope *symbols.Scope, p *ast.Path) string {
	if p == nil {
		return ""
	}
	if len(p.Segments) == 1 && p.Segments[0] == "Self" {
		if self := scope.SelfType(); self != "" {
			return self
		}
		return "Self"
	}
	prefix := ""
	if p.Absolute {
		prefix = "::"
	}
	return prefix + strings.Join(p.Segments, "::")
}

// typesEqual implements the structural equality plus the usize/i32
// relaxation it calls out for comparison-only purposes.
func typesEqual(a, b string) bool {
	if a == b {
		return true
	}
	if (a == "usize" && b == "i32") || (a == "i32" && b == "usize") {
		return true
	}
	return false
}

// constArrayLength extracts an array type's declared length from an
// integer-literal sub-expression (-1 if unknown), additionally resolving
// a path to a declared constant so `[T; SIZE]` works.
func (c *Checker) constArrayLength(scope *symbols.Scope, e ast.Expression) int64 {
	switch n := e.(type) {
	case *ast.LiteralExpression:
		if n.Kind == ast.LitInteger {
			return n.Int
		}
	case *ast.PathExpression:
		if len(n.Path.Segments) == 1 {
			if info, ok := scope.LookupConst(n.Path.Segments[0]); ok {
				return info.Value
			}
		}
	}
	return -1
}

// evalConstInt evaluates the small constant-expression subset the checker
// needs for array lengths and repeat counts: integer literals, negation,
// and references to previously declared constants.
func (c *Checker) evalConstInt(scope *symbols.Scope, e ast.Expression) (int64, bool) {
	switch n := e.(type) {
	case *ast.LiteralExpression:
		if n.Kind == ast.LitInteger {
			return n.Int, true
		}
	case *ast.NegationExpression:
		if n.Kind == ast.NegateArithmetic {
			if v, ok := c.evalConstInt(scope, n.Value); ok {
				return -v, true
			}
		}
	case *ast.PathExpression:
		if len(n.Path.Segments) == 1 {
			if info, ok := scope.LookupConst(n.Path.Segments[0]); ok {
				return info.Value, true
			}
		}
	case *ast.GroupedExpression:
		return c.evalConstInt(scope, n.Inner)
	}
	return 0, false
}

// stripOuterReferences peels `&`/`&mut ` prefixes off a canonical type
// string; method-receiver lookup and symbol mangling both consult types
// with outer references stripped.
func stripOuterReferences(t string) string {
	for {
		switch {
		case strings.HasPrefix(t, "&mut "):
			t = t[len("&mut "):]
		case strings.HasPrefix(t, "&"):
			t = t[1:]
		default:
			return t
		}
	}
}

// isReferenceType reports whether a canonical type string denotes a
// reference (begins with `&`).
func isReferenceType(t string) bool { return strings.HasPrefix(t, "&") }

// isMutReferenceType reports whether a canonical type string denotes a
// mutable reference (`&mut T`).
func isMutReferenceType(t string) bool { return strings.HasPrefix(t, "&mut ") }
