package analyzer

import (
	"fmt"
	"strings"

	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/symbols"
)

// checkCallExpression resolves a plain call `callee(args)`. The callee is
// ordinarily a PathExpression: a single segment names a free function (or
// a built-in, seeded into the same function table); two or more segments
// name an associated function reached by its qualified `Type::method`
// path (a constructor call like `P::new()`).
func (c *Checker) checkCallExpression(scope *symbols.Scope, call *ast.CallExpression) string {
	for _, a := range call.Args {
		c.checkExpression(scope, a)
	}
	path, ok := call.Callee.(*ast.PathExpression)
	if !ok {
		c.checkExpression(scope, call.Callee)
		return ""
	}
	segs := path.Path.Segments
	if len(segs) == 1 {
		if fn, ok := scope.LookupFunc(segs[0]); ok {
			return fn.ReturnType
		}
		if v, _ := scope.LookupVar(segs[0]); v != nil {
			return v.Type
		}
		c.errorAt(diagnostics.ErrA001, call, segs[0])
		return ""
	}
	typeName := segs[len(segs)-2]
	method := segs[len(segs)-1]
	if fn, ok := scope.LookupMethod(typeName, method); ok {
		return fn.ReturnType
	}
	qualified := strings.Join(segs, "::")
	if v, _ := scope.LookupVar(qualified); v != nil {
		return v.Type
	}
	c.errorAt(diagnostics.ErrA001, call, qualified)
	return ""
}

// checkMethodCallExpression resolves `recv.m(args)` against the receiver's
// static type stripped of outer references ("the checker looks up
// the method under the canonical name T::m"), enforcing that a `&mut
// self` method's receiver is itself mutable when it is a named binding.
func (c *Checker) checkMethodCallExpression(scope *symbols.Scope, m *ast.MethodCallExpression) string {
	recvType := c.checkExpression(scope, m.Receiver)
	for _, a := range m.Args {
		c.checkExpression(scope, a)
	}
	baseType := stripOuterReferences(recvType)
	fn, ok := scope.LookupMethod(baseType, m.Method)
	if !ok {
		if baseType != "" {
			c.errorAt(diagnostics.ErrA006, m, baseType, m.Method)
		}
		return ""
	}
	if len(fn.ParamTypes) > 0 && isMutReferenceType(fn.ParamTypes[0]) {
		c.requireMutableReceiver(scope, m.Receiver)
	}
	return fn.ReturnType
}

// requireMutableReceiver enforces the method-call mutability rule: only
// a named-binding receiver is checked (an rvalue or a field projection
// off an already-checked mutable base has no separate declaration to
// flag).
func (c *Checker) requireMutableReceiver(scope *symbols.Scope, recv ast.Expression) {
	path, ok := recv.(*ast.PathExpression)
	if !ok || len(path.Path.Segments) != 1 {
		return
	}
	name := path.Path.Segments[0]
	if v, _ := scope.LookupVar(name); v != nil && !v.IsMutable {
		c.errorAt(diagnostics.ErrA005, recv, name)
	}
}

// checkFieldExpression resolves `base.field` against the base's static
// type (stripped of outer references) through the declared-struct table.
func (c *Checker) checkFieldExpression(scope *symbols.Scope, f *ast.FieldExpression) string {
	baseType := stripOuterReferences(c.checkExpression(scope, f.Base))
	if baseType == "" {
		return ""
	}
	info, ok := scope.LookupType(baseType)
	if !ok {
		return ""
	}
	if t, ok := info.FieldTypes[f.Field]; ok {
		return t
	}
	c.errorAt(diagnostics.ErrA006, f, baseType, f.Field)
	return ""
}

// checkIndexExpression resolves `base[index]` against an array or slice
// base type, returning the element type (the `[T; N]`/`[T]` forms).
func (c *Checker) checkIndexExpression(scope *symbols.Scope, idx *ast.IndexExpression) string {
	baseType := stripOuterReferences(c.checkExpression(scope, idx.Base))
	c.checkExpression(scope, idx.Index)
	return elementTypeOf(baseType)
}

// elementTypeOf extracts T from a canonical `[T; N]` or `[T]` type
// string, or "" if baseType is neither shape.
func elementTypeOf(baseType string) string {
	if len(baseType) < 2 || baseType[0] != '[' || baseType[len(baseType)-1] != ']' {
		return ""
	}
	inner := baseType[1 : len(baseType)-1]
	if i := strings.LastIndex(inner, "; "); i >= 0 {
		return inner[:i]
	}
	return inner
}

// checkTupleIndexingExpression resolves `base.N` against either a tuple
// type (splitting its canonical form) or a tuple-struct's positional
// fields ("Index is always an integer-literal token").
func (c *Checker) checkTupleIndexingExpression(scope *symbols.Scope, t *ast.TupleIndexingExpression) string {
	baseType := stripOuterReferences(c.checkExpression(scope, t.Base))
	if strings.HasPrefix(baseType, "(") {
		parts := splitTupleType(baseType, 0)
		if t.Index >= 0 && t.Index < len(parts) {
			return parts[t.Index]
		}
		return ""
	}
	if info, ok := scope.LookupType(baseType); ok {
		if ty, ok := info.FieldTypes[tupleFieldName(t.Index)]; ok {
			return ty
		}
	}
	return ""
}

// checkStructExpression resolves a struct literal's fields against the
// declared struct's field types; its own type is the struct's name.
func (c *Checker) checkStructExpression(scope *symbols.Scope, s *ast.StructExpression) string {
	if s.Base != nil {
		c.checkExpression(scope, s.Base)
	}
	if s.Path == nil || len(s.Path.Segments) == 0 {
		return ""
	}
	typeName := s.Path.Segments[len(s.Path.Segments)-1]
	info, ok := scope.LookupType(typeName)
	for _, f := range s.Fields {
		valType := c.checkExpression(scope, f.Value)
		if !ok {
			continue
		}
		declared, known := info.FieldTypes[f.Name]
		if known && valType != "" && !typesEqual(declared, valType) {
			c.errorAt(diagnostics.ErrA003, f.Value, declared, valType)
		}
	}
	if !ok {
		c.errorAt(diagnostics.ErrA001, s, typeName)
	}
	return typeName
}

// checkArrayExpression types `[e1, e2, ...]` as `[T; n]` where T is the
// first element's type, and `[e; n]` as `[T; n]` where n is folded
// through the constant table when it is not a literal.
func (c *Checker) checkArrayExpression(scope *symbols.Scope, a *ast.ArrayExpression) string {
	switch a.Kind {
	case ast.ArrayLiteral:
		var elemType string
		for i, el := range a.Elems {
			t := c.checkExpression(scope, el)
			if i == 0 {
				elemType = t
			}
		}
		return fmt.Sprintf("[%s; %d]", elemType, len(a.Elems))
	case ast.ArrayRepeat:
		elemType := c.checkExpression(scope, a.Value)
		count, known := c.evalConstInt(scope, a.Count)
		if !known {
			c.errorAt(diagnostics.ErrA004, a.Count, -1, -1)
		}
		return fmt.Sprintf("[%s; %d]", elemType, count)
	}
	return ""
}
