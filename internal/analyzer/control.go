package analyzer

import (
	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/symbols"
)

// checkBlockIn checks every statement of b in scope, additionally
// forward-declaring any item statements the block contains so a nested
// function may reference a sibling declared later in the same block
// (the forward-declaration index, applied at block granularity).
// Its result is the type of b's trailing expression, or "()" when there
// is none (a block with no tail expression evaluates to unit).
func (c *Checker) checkBlockIn(scope *symbols.Scope, b *ast.BlockExpression) string {
	for _, s := range b.Stmts {
		if is, ok := s.(*ast.ItemStatement); ok {
			c.forwardDeclareItem(scope, is.Item)
		}
	}
	for _, s := range b.Stmts {
		c.checkStatement(scope, s)
	}
	if b.Tail != nil {
		return c.checkExpression(scope, b.Tail)
	}
	return "()"
}

// checkCondition checks an if/while's condition, which is either a plain
// expression (excludes struct-literal/assignment/lazy-boolean/range
// at the top level, already enforced by the parser) or a let-chain, whose
// patterns are bound into condScope for the body that follows.
func (c *Checker) checkCondition(scope *symbols.Scope, letChain []*ast.LetCondition, cond ast.Expression) *symbols.Scope {
	if len(letChain) == 0 {
		if cond != nil {
			c.checkExpression(scope, cond)
		}
		return scope
	}
	condScope := scope.Push()
	for _, lc := range letChain {
		scrutType := c.checkExpression(condScope, lc.Scrutinee)
		c.bindPattern(condScope, lc.Pattern, scrutType, false, true)
	}
	return condScope
}

func (c *Checker) checkIfExpression(scope *symbols.Scope, e *ast.IfExpression) string {
	condScope := c.checkCondition(scope, e.LetChain, e.Condition)
	thenType := c.checkBlockIn(condScope.Push(), e.Then)

	if e.Else == nil {
		return ""
	}
	var elseType string
	switch alt := e.Else.(type) {
	case *ast.BlockExpression:
		elseType = c.checkBlockIn(scope.Push(), alt)
	case *ast.IfExpression:
		elseType = c.checkIfExpression(scope, alt)
	}
	if thenType != "" && elseType != "" && typesEqual(thenType, elseType) {
		return thenType
	}
	return ""
}

func (c *Checker) checkWhileExpression(scope *symbols.Scope, e *ast.WhileExpression) string {
	condScope := c.checkCondition(scope, e.LetChain, e.Condition)
	c.loopDepth++
	c.checkBlockIn(condScope.Push(), e.Body)
	c.loopDepth--
	return "()"
}

func (c *Checker) checkLoopExpression(scope *symbols.Scope, e *ast.LoopExpression) string {
	c.loopDepth++
	c.checkBlockIn(scope.Push(), e.Body)
	c.loopDepth--
	return "()"
}

// checkMatchExpression checks the subject, then every arm in its own
// scope with the arm's pattern bound against the subject's type; the
// match's own type follows the same uniform-type convention as an if
// expression (a single agreed type across every arm, else unknown).
func (c *Checker) checkMatchExpression(scope *symbols.Scope, e *ast.MatchExpression) string {
	subjectType := c.checkExpression(scope, e.Subject)

	var commonType string
	uniform := true
	for i, arm := range e.Arms {
		armScope := scope.Push()
		c.bindPattern(armScope, arm.Pattern, subjectType, false, true)
		if arm.Guard != nil {
			c.checkExpression(armScope, arm.Guard)
		}
		bodyType := c.checkExpression(armScope, arm.Body)
		if i == 0 {
			commonType = bodyType
		} else if !typesEqual(commonType, bodyType) {
			uniform = false
		}
	}
	if uniform {
		return commonType
	}
	return ""
}

// checkReturnExpression implements the collection half: every
// `return e` inside the body being checked contributes e's type (or "()"
// for a bare `return;`) to currentReturnTypes, recursing through nested
// if/else and block expressions automatically since those are reached by
// ordinary checkExpression traversal.
func (c *Checker) checkReturnExpression(scope *symbols.Scope, e *ast.ReturnExpression) string {
	returnType := "()"
	if e.Value != nil {
		returnType = c.checkExpression(scope, e.Value)
	}
	c.currentReturnTypes = append(c.currentReturnTypes, returnType)
	return "!"
}
