package analyzer

import (
	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/symbols"
)

// patternTopMut reports whether pat carries `mut` at its outermost
// position (`mut id`, or `mut` at the `&` boundary): the half of the
// mutability derivation that looks at the pattern rather than the
// declared type.
func patternTopMut(pat ast.Pattern) bool {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		return p.Mut
	case *ast.ReferencePattern:
		return p.Mut
	}
	return false
}

// bindPattern declares every identifier bound by pat into scope, using ty
// as the declared type for simple identifier patterns and mutable as the
//-derived mutability shared by every name the pattern introduces.
// Destructuring patterns best-effort thread element/field types where the
// declared type's canonical shape makes that trivial (tuple/struct) and
// otherwise bind with an empty (inferred) type rather than fail the
// checker outright. Match/let exhaustiveness beyond this is not this
// front end's concern; scope stops at name resolution and type equality,
// not full pattern analysis.
func (c *Checker) bindPattern(scope *symbols.Scope, pat ast.Pattern, ty string, mutable, initialized bool) {
	if pat == nil {
		return
	}
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		if !scope.DeclareVar(p.Name, &symbols.VarInfo{
			Type: ty, IsMutable: mutable, IsRef: p.Ref || isReferenceType(ty), Initialized: initialized,
		}) {
			c.errorAt(diagnostics.ErrA002, p, p.Name)
		}
		if p.SubPat != nil {
			c.bindPattern(scope, p.SubPat, ty, mutable, initialized)
		}
	case *ast.WildcardPattern, *ast.RestPattern, *ast.LiteralPattern, *ast.PathPattern, *ast.RangePattern:
		// No names introduced.
	case *ast.ReferencePattern:
		inner := ty
		if isReferenceType(inner) {
			inner = inner[1:]
			if len(inner) > 0 && inner[0] == ' ' {
				inner = inner[1:]
			}
		}
		c.bindPattern(scope, p.Inner, inner, mutable || p.Mut, initialized)
	case *ast.GroupedPattern:
		c.bindPattern(scope, p.Inner, ty, mutable, initialized)
	case *ast.TuplePattern:
		elemTypes := splitTupleType(ty, len(p.Elements))
		for i, el := range p.Elements {
			elTy := ""
			if i < len(elemTypes) {
				elTy = elemTypes[i]
			}
			c.bindPattern(scope, el, elTy, mutable, initialized)
		}
	case *ast.SlicePattern:
		for _, el := range p.Elements {
			c.bindPattern(scope, el, "", mutable, initialized)
		}
	case *ast.StructPattern:
		info, _ := scope.LookupType(structPatternTypeName(p))
		for _, f := range p.Fields {
			fTy := ""
			if info != nil {
				fTy = info.FieldTypes[f.Name]
			}
			c.bindPattern(scope, f.Pattern, fTy, mutable, initialized)
		}
	case *ast.TupleStructPattern:
		for _, el := range p.Elements {
			c.bindPattern(scope, el, "", mutable, initialized)
		}
	}
}

func structPatternTypeName(p *ast.StructPattern) string {
	if p.Path == nil || len(p.Path.Segments) == 0 {
		return ""
	}
	return p.Path.Segments[len(p.Path.Segments)-1]
}

// splitTupleType splits a canonical "(T1, T2, ...)" tuple type string on
// its top-level commas (respecting nested parens/brackets) so each element
// of a TuplePattern can be bound with its matching declared element type.
func splitTupleType(ty string, want int) []string {
	if len(ty) < 2 || ty[0] != '(' || ty[len(ty)-1] != ')' {
		return nil
	}
	inner := ty[1 : len(ty)-1]
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, trimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	if start < len(inner) {
		parts = append(parts, trimSpace(inner[start:]))
	}
	if want > 0 && len(parts) != want {
		return parts
	}
	return parts
}

func trimSpace(s string) string {
	for len(s) > 0 && s[0] == ' ' {
		s = s[1:]
	}
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}
