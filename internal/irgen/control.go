package irgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
)

// genBlockExpr evaluates a block used in expression position: its own
// scope, each statement in order, and the tail expression's value (unit
// if there is none), per the shadowing discipline.
func (g *Generator) genBlockExpr(b *ast.BlockExpression) (Value, bool) {
	g.pushScope()
	defer g.popScope()
	for _, s := range b.Stmts {
		g.genStatement(s)
		if g.terminated {
			return Value{Type: "()"}, true
		}
	}
	if b.Tail != nil {
		return g.genExpression(b.Tail)
	}
	return Value{Type: "()"}, true
}

// genLoopImmediateBody lowers a while/loop body the same way genBlockExpr
// does, except every LetStatement directly in b's statement list (its
// "immediate body") has its stack slot hoisted into the
// function's entry prologue instead of allocated at the statement's own
// position. That position sits inside the loop's body block, which is
// reached again on every iteration at runtime; an alloca left there would
// grow the stack once per pass instead of reusing a single address.
func (g *Generator) genLoopImmediateBody(b *ast.BlockExpression) (Value, bool) {
	g.pushScope()
	defer g.popScope()
	for _, s := range b.Stmts {
		if let, ok := s.(*ast.LetStatement); ok {
			g.genLetStatementImpl(let, true)
		} else {
			g.genStatement(s)
		}
		if g.terminated {
			return Value{Type: "()"}, true
		}
	}
	if b.Tail != nil {
		return g.genExpression(b.Tail)
	}
	return Value{Type: "()"}, true
}

// genIfExpression lowers the if/else without phi nodes: when the
// expression is used for its value, a merge-slot alloca reconciles the
// then/else results via store-before-jump and a single load after the
// merge label.
func (g *Generator) genIfExpression(ifx *ast.IfExpression) (Value, bool) {
	thenLbl := g.newLabel()
	mergeLbl := g.newLabel()
	elseLbl := mergeLbl
	if ifx.Else != nil {
		elseLbl = g.newLabel()
	}

	resultType := "()"
	if ifx.Else != nil {
		resultType = g.ifBranchType(ifx)
	}
	var slot string
	needsSlot := resultType != "()" && resultType != "!" && ifx.Else != nil
	if needsSlot {
		slot = g.newTemp() + ".ifm"
		llType := g.llvmTypeOf(resultType)
		g.emit("%s = alloca %s", slot, llType)
	}

	if len(ifx.LetChain) > 0 {
		// the let-chain: each clause's pattern is bound into a scope
		// that stays live through Then only (mirrors checkCondition/
		// checkIfExpression in internal/analyzer/control.go, which also
		// scopes the bindings to condScope.Push() rather than the outer
		// scope Else checks against).
		g.pushScope()
		if !g.genLetChainBranch(ifx.LetChain, thenLbl, elseLbl, false) {
			g.popScope()
			return Value{}, false
		}
	} else {
		cond, ok := g.genExpression(ifx.Condition)
		if !ok {
			return Value{}, false
		}
		g.emitTerm("br i1 %s, label %%%s, label %%%s", cond.Reg, thenLbl, elseLbl)
	}

	g.emitLabel(thenLbl)
	thenVal, thenHas := g.genExpression(ifx.Then)
	if len(ifx.LetChain) > 0 {
		g.popScope()
	}
	if !g.terminated {
		if needsSlot && thenHas {
			conv := g.convert(thenVal, resultType)
			g.emit("store %s %s, %s* %s", g.llvmTypeOf(resultType), conv.Reg, g.llvmTypeOf(resultType), slot)
		}
		g.emitTerm("br label %%%s", mergeLbl)
	}

	if ifx.Else != nil {
		g.emitLabel(elseLbl)
		elseVal, elseHas := g.genExpression(ifx.Else)
		if !g.terminated {
			if needsSlot && elseHas {
				conv := g.convert(elseVal, resultType)
				g.emit("store %s %s, %s* %s", g.llvmTypeOf(resultType), conv.Reg, g.llvmTypeOf(resultType), slot)
			}
			g.emitTerm("br label %%%s", mergeLbl)
		}
	}

	g.emitLabel(mergeLbl)
	if needsSlot {
		t := g.newTemp()
		llType := g.llvmTypeOf(resultType)
		g.emit("%s = load %s, %s* %s", t, llType, llType, slot)
		return Value{Reg: t, Type: resultType}, true
	}
	return Value{Type: "()"}, true
}

// ifBranchType picks the then-branch's static type as the if-expression's
// result type; the analyzer has already enforced the two branches agree.
func (g *Generator) ifBranchType(ifx *ast.IfExpression) string {
	if ifx.Then.Tail != nil {
		return g.peekType(ifx.Then.Tail)
	}
	return "()"
}

// peekType computes an expression's static type without emitting any code,
// consulting the analyzer's root scope for call/method/field results; used
// to pick a merge-slot type ahead of lowering a branch, and to resolve a
// method call's receiver type before deciding autoref.
func (g *Generator) peekType(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.LiteralExpression:
		return literalTypeOf(n)
	case *ast.PathExpression:
		if lv, ok := g.lookupLocal(joinPath(n)); ok {
			return lv.CanonType
		}
		if ev, ok := g.enumVariants[joinPath(n)]; ok {
			return ev.Enum
		}
		if len(n.Path.Segments) == 1 {
			if info, ok := g.root.LookupConst(n.Path.Segments[0]); ok {
				return info.Type
			}
		}
	case *ast.GroupedExpression:
		return g.peekType(n.Inner)
	case *ast.CallExpression:
		if path, ok := n.Callee.(*ast.PathExpression); ok {
			segs := path.Path.Segments
			if len(segs) == 2 {
				if fi, ok := g.root.LookupMethod(segs[0], segs[1]); ok {
					return fi.ReturnType
				}
			}
			if fi, ok := g.root.LookupFunc(strings.Join(segs, "::")); ok {
				return fi.ReturnType
			}
		}
	case *ast.MethodCallExpression:
		recv := stripOuterReferences(g.peekType(n.Receiver))
		if fi, ok := g.root.LookupMethod(recv, n.Method); ok {
			return fi.ReturnType
		}
	case *ast.FieldExpression:
		base := stripOuterReferences(g.peekType(n.Base))
		if info, ok := g.root.LookupType(base); ok {
			if t, ok := info.FieldTypes[n.Field]; ok {
				return t
			}
		}
	case *ast.StructExpression:
		return strings.Join(n.Path.Segments, "::")
	case *ast.TypeCastExpression:
		return g.canonicalType(n.Type)
	case *ast.ComparisonExpression:
		return "bool"
	case *ast.LazyBooleanExpression:
		return "bool"
	case *ast.ArithmeticOrLogicalExpression:
		return g.peekType(n.Left)
	case *ast.BorrowExpression:
		prefix := "&"
		if n.Mutable {
			prefix = "&mut "
		}
		return prefix + g.peekType(n.Value)
	case *ast.DereferenceExpression:
		return stripOuterReferences(g.peekType(n.Value))
	}
	return "i32"
}

func joinPath(p *ast.PathExpression) string {
	if len(p.Path.Segments) == 0 {
		return ""
	}
	s := p.Path.Segments[0]
	for _, seg := range p.Path.Segments[1:] {
		s += "::" + seg
	}
	return s
}

// genWhileExpression lowers the while loop: header (condition check),
// body, end, with header/end pushed onto the loop stack for break/continue.
func (g *Generator) genWhileExpression(w *ast.WhileExpression) (Value, bool) {
	header := g.newLabel()
	body := g.newLabel()
	end := g.newLabel()

	g.emitTerm("br label %%%s", header)
	g.emitLabel(header)

	if len(w.LetChain) > 0 {
		// A while-let's pattern is (re-)tested at header on every
		// iteration, so its bound identifier's slot is hoisted into the
		// entry prologue the same way genLoopImmediateBody hoists an
		// immediate-body let's slot; otherwise the alloca at header
		// would re-run, and grow the stack, once per iteration.
		g.pushScope()
		if !g.genLetChainBranch(w.LetChain, body, end, true) {
			g.popScope()
			return Value{}, false
		}
	} else {
		cond, ok := g.genExpression(w.Condition)
		if !ok {
			return Value{}, false
		}
		g.emitTerm("br i1 %s, label %%%s, label %%%s", cond.Reg, body, end)
	}

	g.emitLabel(body)
	g.loopStack = append(g.loopStack, loopLabels{header: header, end: end})
	g.genLoopImmediateBody(w.Body)
	g.loopStack = g.loopStack[:len(g.loopStack)-1]
	if len(w.LetChain) > 0 {
		g.popScope()
	}
	if !g.terminated {
		g.emitTerm("br label %%%s", header)
	}

	g.emitLabel(end)
	return Value{Type: "()"}, true
}

// genLoopExpression lowers the unconditional loop: header and end
// only, the body always re-jumps to the header unless it breaks/returns.
func (g *Generator) genLoopExpression(l *ast.LoopExpression) (Value, bool) {
	header := g.newLabel()
	end := g.newLabel()

	g.emitTerm("br label %%%s", header)
	g.emitLabel(header)
	g.loopStack = append(g.loopStack, loopLabels{header: header, end: end})
	g.genLoopImmediateBody(l.Body)
	g.loopStack = g.loopStack[:len(g.loopStack)-1]
	if !g.terminated {
		g.emitTerm("br label %%%s", header)
	}

	g.emitLabel(end)
	return Value{Type: "()"}, true
}

// genMatchExpression lowers match as an if/else-if cascade (no jump
// tables): each arm's pattern renders an i1 test — value equality for
// literals, enum-variant discriminants, and constants, bound checks for
// range patterns — falling through to a wildcard or the last arm.
func (g *Generator) genMatchExpression(m *ast.MatchExpression) (Value, bool) {
	subject, ok := g.genExpression(m.Subject)
	if !ok {
		return Value{}, false
	}

	mergeLbl := g.newLabel()
	resultType := "()"
	if len(m.Arms) > 0 {
		resultType = g.peekType(m.Arms[0].Body)
	}
	needsSlot := resultType != "()" && resultType != "!"
	var slot string
	if needsSlot {
		slot = g.newTemp() + ".matm"
		g.emit("%s = alloca %s", slot, g.llvmTypeOf(resultType))
	}

	next := ""
	for i, arm := range m.Arms {
		isLast := i == len(m.Arms)-1
		isWildcard := isWildcardPattern(arm.Pattern)

		if isWildcard || isLast {
			g.genMatchArmBody(arm, slot, resultType, needsSlot)
			if !g.terminated {
				g.emitTerm("br label %%%s", mergeLbl)
			}
			break
		}

		testLbl := g.newLabel()
		next = g.newLabel()
		test, ok := g.patternTest(arm.Pattern, subject)
		if !ok {
			return Value{}, false
		}
		g.emitTerm("br i1 %s, label %%%s, label %%%s", test.Reg, testLbl, next)

		g.emitLabel(testLbl)
		g.genMatchArmBody(arm, slot, resultType, needsSlot)
		if !g.terminated {
			g.emitTerm("br label %%%s", mergeLbl)
		}

		g.emitLabel(next)
	}

	g.emitLabel(mergeLbl)
	if needsSlot {
		t := g.newTemp()
		llType := g.llvmTypeOf(resultType)
		g.emit("%s = load %s, %s* %s", t, llType, llType, slot)
		return Value{Reg: t, Type: resultType}, true
	}
	return Value{Type: "()"}, true
}

func (g *Generator) genMatchArmBody(arm ast.MatchArm, slot, resultType string, needsSlot bool) {
	val, has := g.genExpression(arm.Body)
	if needsSlot && has && !g.terminated {
		conv := g.convert(val, resultType)
		llType := g.llvmTypeOf(resultType)
		g.emit("store %s %s, %s* %s", llType, conv.Reg, llType, slot)
	}
}

func isWildcardPattern(p ast.Pattern) bool {
	switch n := p.(type) {
	case *ast.WildcardPattern:
		return true
	case *ast.IdentifierPattern:
		return n.SubPat == nil
	}
	return false
}

// patternTest renders an i1 comparing subject against a refutable match
// pattern: literal patterns and enum-variant/constant paths compare by
// value, range patterns by bound checks. Identifier/wildcard patterns
// always match and are handled by the caller before reaching here;
// destructuring patterns are not lowered and raise a G005.
func (g *Generator) patternTest(p ast.Pattern, subject Value) (Value, bool) {
	switch n := p.(type) {
	case *ast.LiteralPattern:
		if n.Lit.Kind == ast.LitString || n.Lit.Kind == ast.LitByteString {
			g.fail(diagnostics.ErrG005, p, "string match pattern")
			return Value{}, false
		}
		return g.equalityTest(subject, literalPatternValue(n)), true
	case *ast.PathPattern:
		name := joinPatternPath(n.Path)
		if ev, ok := g.enumVariants[name]; ok {
			return g.equalityTest(subject, Value{Reg: strconv.FormatInt(ev.Disc, 10), Type: ev.Enum}), true
		}
		if len(n.Path.Segments) == 1 {
			if ci, ok := g.root.LookupConst(n.Path.Segments[0]); ok {
				return g.equalityTest(subject, Value{Reg: strconv.FormatInt(ci.Value, 10), Type: ci.Type}), true
			}
		}
		g.fail(diagnostics.ErrG001, p, name)
		return Value{}, false
	case *ast.RangePattern:
		return g.rangePatternTest(n, subject)
	case *ast.GroupedPattern:
		return g.patternTest(n.Inner, subject)
	}
	g.fail(diagnostics.ErrG005, p, "destructuring match pattern")
	return Value{}, false
}

func joinPatternPath(p *ast.Path) string {
	return strings.Join(p.Segments, "::")
}

// literalPatternValue renders a literal pattern's constant, folding a
// leading minus into the immediate.
func literalPatternValue(lp *ast.LiteralPattern) Value {
	v := Value{Reg: literalImmediate(lp.Lit), Type: literalTypeOf(lp.Lit)}
	if lp.Negated {
		v.Reg = "-" + v.Reg
	}
	return v
}

// literalImmediate spells a numeric/bool/char literal as a bare
// immediate; it never emits instructions (string patterns are rejected
// before reaching here).
func literalImmediate(lit *ast.LiteralExpression) string {
	switch lit.Kind {
	case ast.LitFloat:
		return formatFloat(lit.Float)
	case ast.LitBool:
		if lit.Bool {
			return "1"
		}
		return "0"
	}
	return strconv.FormatInt(lit.Int, 10)
}

// equalityTest emits subject == constant as an i1.
func (g *Generator) equalityTest(subject, constant Value) Value {
	constant = g.convert(constant, subject.Type)
	llType := g.llvmTypeOf(subject.Type)
	instr, cond := "icmp", "eq"
	if llType == "float" || llType == "double" {
		instr, cond = "fcmp", "oeq"
	}
	t := g.newTemp()
	g.emit("%s = %s %s %s %s, %s", t, instr, cond, llType, subject.Reg, constant.Reg)
	return Value{Reg: t, Type: "bool"}
}

// rangePatternTest lowers a range pattern to its bound comparisons, with
// the upper bound strict or inclusive per the pattern's flavor.
func (g *Generator) rangePatternTest(rp *ast.RangePattern, subject Value) (Value, bool) {
	llType := g.llvmTypeOf(subject.Type)
	isFloat := llType == "float" || llType == "double"

	compare := func(cond string, bound Value) string {
		bound = g.convert(bound, subject.Type)
		instr := "icmp"
		if isFloat {
			instr = "fcmp"
			cond = map[string]string{"sge": "oge", "sle": "ole", "slt": "olt"}[cond]
		}
		t := g.newTemp()
		g.emit("%s = %s %s %s %s, %s", t, instr, cond, llType, subject.Reg, bound.Reg)
		return t
	}

	var lower, upper string
	if rp.From != nil {
		b, ok := g.patternBoundValue(rp.From)
		if !ok {
			return Value{}, false
		}
		lower = compare("sge", b)
	}
	if rp.To != nil {
		b, ok := g.patternBoundValue(rp.To)
		if !ok {
			return Value{}, false
		}
		cond := "slt"
		if rp.Kind == ast.RangePatToInclusive || rp.Kind == ast.RangePatBothInclusive {
			cond = "sle"
		}
		upper = compare(cond, b)
	}

	switch {
	case lower != "" && upper != "":
		t := g.newTemp()
		g.emit("%s = and i1 %s, %s", t, lower, upper)
		return Value{Reg: t, Type: "bool"}, true
	case lower != "":
		return Value{Reg: lower, Type: "bool"}, true
	case upper != "":
		return Value{Reg: upper, Type: "bool"}, true
	}
	// Both bounds open (`..`): matches anything.
	return Value{Reg: "true", Type: "bool"}, true
}

// patternBoundValue folds a range bound to a constant: a literal, a named
// constant, or an enum variant's discriminant.
func (g *Generator) patternBoundValue(p ast.Pattern) (Value, bool) {
	switch n := p.(type) {
	case *ast.LiteralPattern:
		return literalPatternValue(n), true
	case *ast.IdentifierPattern:
		if ci, ok := g.root.LookupConst(n.Name); ok {
			return Value{Reg: strconv.FormatInt(ci.Value, 10), Type: ci.Type}, true
		}
	case *ast.PathPattern:
		name := joinPatternPath(n.Path)
		if ev, ok := g.enumVariants[name]; ok {
			return Value{Reg: strconv.FormatInt(ev.Disc, 10), Type: ev.Enum}, true
		}
		if len(n.Path.Segments) == 1 {
			if ci, ok := g.root.LookupConst(n.Path.Segments[0]); ok {
				return Value{Reg: strconv.FormatInt(ci.Value, 10), Type: ci.Type}, true
			}
		}
	}
	g.fail(diagnostics.ErrG005, p, "non-constant range-pattern bound")
	return Value{}, false
}

// genLetChainBranch lowers a let-chain condition: every clause's
// scrutinee is evaluated and bound against its pattern in turn; a
// refutable clause (literal, path, or range pattern) branches to failLbl on
// mismatch, short-circuiting the remaining clauses the same way `&&`
// does for plain boolean operands. Irrefutable clauses (identifier,
// wildcard) always continue. hoist routes each bound identifier's
// alloca into the function's entry prologue instead of the current
// block, for conditions that are re-tested every loop iteration
// (while-let) rather than evaluated once (if-let).
func (g *Generator) genLetChainBranch(chain []*ast.LetCondition, successLbl, failLbl string, hoist bool) bool {
	for i, lc := range chain {
		v, ok := g.genExpression(lc.Scrutinee)
		if !ok {
			return false
		}
		test, refutable := g.bindLetPattern(lc.Pattern, v, hoist)
		if !refutable {
			continue
		}
		target := successLbl
		if i != len(chain)-1 {
			target = g.newLabel()
		}
		g.emitTerm("br i1 %s, label %%%s, label %%%s", test.Reg, target, failLbl)
		if target != successLbl {
			g.emitLabel(target)
		}
	}
	if !g.terminated {
		g.emitTerm("br label %%%s", successLbl)
	}
	return true
}

// bindLetPattern binds a let-chain clause's pattern against its already-
// evaluated scrutinee, the same alloca+store shape genLetStatementImpl
// uses for a plain let's identifier pattern, and reports whether pat is
// refutable together with its i1 match test. Identifier and wildcard
// patterns always match; literal/path/range patterns test through
// patternTest; destructuring patterns raise a G005.
func (g *Generator) bindLetPattern(pat ast.Pattern, v Value, hoist bool) (Value, bool) {
	switch p := pat.(type) {
	case *ast.IdentifierPattern:
		llType := g.llvmTypeOf(v.Type)
		addr := "%" + p.Name + fmt.Sprintf(".l%d", g.tempCounter)
		g.tempCounter++
		if hoist {
			g.emitPrologue("%s = alloca %s", addr, llType)
		} else {
			g.emit("%s = alloca %s", addr, llType)
		}
		g.emit("store %s %s, %s* %s", llType, v.Reg, llType, addr)
		g.declareLocal(p.Name, &localVar{Addr: addr, LLVMType: llType, CanonType: v.Type})
		return Value{}, false
	case *ast.WildcardPattern:
		return Value{}, false
	case *ast.LiteralPattern, *ast.PathPattern, *ast.RangePattern:
		return g.patternTest(pat, v)
	}
	g.fail(diagnostics.ErrG005, pat, "destructuring let-chain pattern")
	return Value{}, false
}

func (g *Generator) genReturnExpression(r *ast.ReturnExpression) (Value, bool) {
	if r.Value != nil {
		v, ok := g.genExpression(r.Value)
		if ok && g.retSlot != "" {
			conv := g.convert(v, g.retType)
			llType := g.llvmTypeOf(g.retType)
			g.emit("store %s %s, %s* %s", llType, conv.Reg, llType, g.retSlot)
		}
	}
	g.emitTerm("br label %%%s", g.exitLbl)
	return Value{Type: "!"}, true
}

func (g *Generator) genBreakExpression(b *ast.BreakExpression) (Value, bool) {
	if b.Value != nil {
		g.genExpression(b.Value)
	}
	if len(g.loopStack) > 0 {
		top := g.loopStack[len(g.loopStack)-1]
		g.emitTerm("br label %%%s", top.end)
	}
	return Value{Type: "!"}, true
}

func (g *Generator) genContinueExpression(*ast.ContinueExpression) (Value, bool) {
	if len(g.loopStack) > 0 {
		top := g.loopStack[len(g.loopStack)-1]
		g.emitTerm("br label %%%s", top.header)
	}
	return Value{Type: "!"}, true
}
