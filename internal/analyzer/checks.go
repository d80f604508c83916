package analyzer

import (
	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/symbols"
)

// checkArrayLengthCompatibility handles `let x: [T; N] = init`: a
// literal array's element count, or a repeat-array's count, must
// equal N; nested arrays recurse; element types compare; a
// call-expression initializer is accepted unconditionally.
func (c *Checker) checkArrayLengthCompatibility(scope *symbols.Scope, declared *ast.ArrayType, init ast.Expression) {
	if _, ok := init.(*ast.CallExpression); ok {
		return
	}
	n := c.constArrayLength(scope, declared.Length)

	arr, ok := init.(*ast.ArrayExpression)
	if !ok {
		return
	}
	switch arr.Kind {
	case ast.ArrayLiteral:
		if n >= 0 && int64(len(arr.Elems)) != n {
			c.errorAt(diagnostics.ErrA004, init, n, len(arr.Elems))
		}
		innerArr, innerIsArray := declared.Elem.(*ast.ArrayType)
		for _, el := range arr.Elems {
			if innerIsArray {
				c.checkArrayLengthCompatibility(scope, innerArr, el)
				continue
			}
			elTy := c.checkExpression(scope, el)
			declaredElTy := c.canonicalType(scope, declared.Elem)
			if elTy != "" && !typesEqual(declaredElTy, elTy) {
				c.errorAt(diagnostics.ErrA003, el, declaredElTy, elTy)
			}
		}
	case ast.ArrayRepeat:
		count, known := c.evalConstInt(scope, arr.Count)
		if known && n >= 0 && count != n {
			c.errorAt(diagnostics.ErrA004, init, n, count)
		}
		if innerArr, ok := declared.Elem.(*ast.ArrayType); ok {
			c.checkArrayLengthCompatibility(scope, innerArr, arr.Value)
		} else {
			elTy := c.checkExpression(scope, arr.Value)
			declaredElTy := c.canonicalType(scope, declared.Elem)
			if elTy != "" && !typesEqual(declaredElTy, elTy) {
				c.errorAt(diagnostics.ErrA003, arr.Value, declaredElTy, elTy)
			}
		}
	}
}

// checkUniformReturnType implements collect the type of every
// `return e` inside body plus the type of body's trailing expression, and
// require the resulting set, canonicalized, to have exactly one element
// equal to the declared return type R, unless R is Self/self, which
// disables the comparison since the declared type is implicit.
func (c *Checker) checkUniformReturnType(fn *ast.Function, declared string, bodyType string) {
	if declared == "Self" || declared == "self" {
		return
	}
	var types []string
	for _, t := range c.currentReturnTypes {
		if t != "" && t != "!" {
			types = append(types, t)
		}
	}
	// A diverging tail (`!`, e.g. a trailing `return e`) contributes its
	// operand via currentReturnTypes, not its own type.
	if bodyType != "" && bodyType != "!" {
		types = append(types, bodyType)
	}
	if len(types) == 0 {
		if declared != "()" && declared != "" {
			c.errorAt(diagnostics.ErrA008, fn, fn.Name, "()")
		}
		return
	}
	set := map[string]bool{}
	for _, t := range types {
		set[t] = true
	}
	if len(set) == 1 {
		for t := range set {
			if !typesEqual(t, declared) {
				c.errorAt(diagnostics.ErrA008, fn, fn.Name, t)
			}
		}
		return
	}
	// More than one distinct type collected: report against the declared
	// type using the body's own trailing-expression type when available,
	// otherwise the first collected return type. The set-of-strings
	// heuristic stays deliberately permissive, first mismatch wins.
	report := bodyType
	if report == "" {
		report = types[0]
	}
	if !typesEqual(report, declared) {
		c.errorAt(diagnostics.ErrA008, fn, fn.Name, report)
	}
}

// checkTraitImplCompleteness requires every function named in the
// trait's interface to appear in the impl's associated items; extra
// functions produce a non-fatal warning.
func (c *Checker) checkTraitImplCompleteness(scope *symbols.Scope, impl *ast.TraitImpl) {
	if impl.TraitPath == nil || len(impl.TraitPath.Segments) == 0 {
		return
	}
	traitName := impl.TraitPath.Segments[len(impl.TraitPath.Segments)-1]
	traitInfo, ok := scope.LookupTrait(traitName)
	if !ok {
		return
	}
	implemented := map[string]bool{}
	for _, item := range impl.Items {
		if fn, ok := item.(*ast.Function); ok {
			implemented[fn.Name] = true
		}
	}
	for _, method := range traitInfo.Methods {
		if !implemented[method] {
			if _, hasDefault := c.TraitDefaults()[traitName+"::"+method]; hasDefault {
				continue
			}
			c.errorAt(diagnostics.ErrA007, impl, implTypeName(impl.Type), method, traitName)
		}
	}
	for name := range implemented {
		if !containsString(traitInfo.Methods, name) {
			c.warnAt(diagnostics.WarnA101, impl, name, traitName)
		}
	}
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func implTypeName(t ast.Type) string {
	if tp, ok := t.(*ast.TypePath); ok && len(tp.Path.Segments) > 0 {
		return tp.Path.Segments[len(tp.Path.Segments)-1]
	}
	return ""
}
