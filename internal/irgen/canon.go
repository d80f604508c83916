package irgen

import (
	"fmt"
	"strings"

	"github.com/zenith9320/rcompiler-go/internal/ast"
)

// canonicalType mirrors internal/analyzer/types.go's rendering of the
// canonical string form. It is intentionally re-derived here rather than
// imported: the IR generator needs it purely as a string key into its own
// LLVM-type and struct-layout tables, the same way the teacher's compiler
// stage keeps its own astTypeToTypesystemType parallel to the analyzer's
// equivalent conversion rather than sharing one across packages.
func (g *Generator) canonicalType(t ast.Type) string {
	if t == nil {
		return ""
	}
	switch n := t.(type) {
	case *ast.TypePath:
		return strings.Join(n.Path.Segments, "::")
	case *ast.ReferenceType:
		prefix := "&"
		if n.Mutable {
			prefix = "&mut "
		}
		return prefix + g.canonicalType(n.Inner)
	case *ast.ArrayType:
		return fmt.Sprintf("[%s; %d]", g.canonicalType(n.Elem), g.constArrayLength(n.Length))
	case *ast.SliceType:
		return "[" + g.canonicalType(n.Elem) + "]"
	case *ast.TupleType:
		parts := make([]string, len(n.Elems))
		for i, e := range n.Elems {
			parts[i] = g.canonicalType(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.ParenthesizedType:
		return "(" + g.canonicalType(n.Inner) + ")"
	case *ast.NeverType:
		return "!"
	case *ast.InferredType:
		return "_"
	}
	return ""
}

func (g *Generator) constArrayLength(e ast.Expression) int64 {
	switch n := e.(type) {
	case *ast.LiteralExpression:
		if n.Kind == ast.LitInteger {
			return n.Int
		}
	case *ast.PathExpression:
		if len(n.Path.Segments) == 1 {
			if info, ok := g.root.LookupConst(n.Path.Segments[0]); ok {
				return info.Value
			}
		}
	}
	return -1
}

// evalConstInt folds the small constant-expression subset/
// need: integer literals, negation, and named constants.
func (g *Generator) evalConstInt(e ast.Expression) (int64, bool) {
	switch n := e.(type) {
	case *ast.LiteralExpression:
		if n.Kind == ast.LitInteger {
			return n.Int, true
		}
	case *ast.NegationExpression:
		if n.Kind == ast.NegateArithmetic {
			if v, ok := g.evalConstInt(n.Value); ok {
				return -v, true
			}
		}
	case *ast.PathExpression:
		if len(n.Path.Segments) == 1 {
			if info, ok := g.root.LookupConst(n.Path.Segments[0]); ok {
				return info.Value, true
			}
		}
	case *ast.GroupedExpression:
		return g.evalConstInt(n.Inner)
	}
	return 0, false
}

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

func isReferenceType(t string) bool { return strings.HasPrefix(t, "&") }
