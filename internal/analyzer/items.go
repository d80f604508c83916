package analyzer

import (
	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/symbols"
)

// checkItem is phase 2's item dispatch: check bodies for the 9
// Item variants, having already registered their signatures in phase 1.
func (c *Checker) checkItem(scope *symbols.Scope, item ast.Item) {
	switch n := item.(type) {
	case *ast.Function:
		c.checkFunction(scope, n)
	case *ast.StructStruct, *ast.TupleStruct, *ast.Enumeration:
		// Declarations only; nothing further to check in a body-less item.
	case *ast.ConstantItem:
		c.checkConstantItem(scope, n)
	case *ast.Trait:
		c.checkTrait(scope, n)
	case *ast.InherentImpl:
		c.checkInherentImpl(scope, n)
	case *ast.TraitImpl:
		c.checkTraitImpl(scope, n)
	case *ast.Module:
		c.checkTopLevel(scope, n.Items)
	}
}

// checkFunction checks a function's body against its declared signature,
// pushing a fresh scope for its parameters and locals and running the
// uniform-return-type check.
func (c *Checker) checkFunction(scope *symbols.Scope, fn *ast.Function) {
	if fn.Body == nil {
		return // extern / trait-signature-only declaration
	}
	fnScope := scope
	if fn.ImplTypePrefix != "" {
		fnScope = scope.PushWithSelf(fn.ImplTypePrefix)
	} else {
		fnScope = scope.Push()
	}

	for _, p := range fn.Params {
		if p.IsSelf {
			fnScope.DeclareVar("self", &symbols.VarInfo{
				Type: c.selfParamType(fnScope, fn, p), IsMutable: p.SelfMut, IsRef: p.SelfRef, Initialized: true,
			})
			continue
		}
		fnScope.DeclareVar(p.Name, &symbols.VarInfo{
			Type: c.canonicalType(fnScope, p.Type), IsMutable: p.Mut, IsRef: isRefTypeNode(p.Type), Initialized: true,
		})
	}

	savedReturns := c.currentReturnTypes
	c.currentReturnTypes = nil

	bodyType := c.checkBlockIn(fnScope, fn.Body)
	if fn.Body.Tail == nil {
		// collects "the type of B's trailing expression (if any)":
		// a body that ends in statements contributes nothing of its own.
		bodyType = ""
	}

	declared := c.canonicalReturnType(fnScope, fn)
	c.checkUniformReturnType(fn, declared, bodyType)

	c.currentReturnTypes = savedReturns
}

func isRefTypeNode(t ast.Type) bool {
	_, ok := t.(*ast.ReferenceType)
	return ok
}

func (c *Checker) checkConstantItem(scope *symbols.Scope, ci *ast.ConstantItem) {
	if ci.Init == nil {
		return
	}
	initType := c.checkExpression(scope, ci.Init)
	declared := c.canonicalType(scope, ci.Type)
	if initType != "" && declared != "" && !typesEqual(declared, initType) {
		c.errorAt(diagnostics.ErrA003, ci.Init, declared, initType)
	}
}

// checkTrait checks any default method bodies a trait declares; a trait
// item with no body is a pure signature and needs no further check.
func (c *Checker) checkTrait(scope *symbols.Scope, t *ast.Trait) {
	traitScope := scope.PushWithSelf("Self")
	for _, item := range t.Items {
		if fn, ok := item.(*ast.Function); ok && fn.Body != nil {
			c.checkFunction(traitScope, fn)
		}
	}
}

func (c *Checker) checkInherentImpl(scope *symbols.Scope, impl *ast.InherentImpl) {
	implScope := scope.PushWithSelf(c.canonicalType(scope, impl.Type))
	for _, item := range impl.Items {
		c.checkItem(implScope, item)
	}
}

func (c *Checker) checkTraitImpl(scope *symbols.Scope, impl *ast.TraitImpl) {
	implScope := scope.PushWithSelf(c.canonicalType(scope, impl.Type))
	for _, item := range impl.Items {
		c.checkItem(implScope, item)
	}
	c.checkTraitImplCompleteness(scope, impl)
}
