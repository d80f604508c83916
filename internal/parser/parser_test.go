package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/lexer"
	"github.com/zenith9320/rcompiler-go/internal/parser"
	"github.com/zenith9320/rcompiler-go/internal/pipeline"
)

// parse runs the lexer and parser over input and returns the resulting
// program together with the pipeline unit so callers can inspect errors.
func parse(input string) (*ast.Program, *pipeline.Unit) {
	unit := pipeline.NewUnit(input)
	lx := lexer.New(input)
	stream := pipeline.NewTokenStream(lx.NextToken)
	p := parser.New(stream, unit)
	return p.ParseProgram(), unit
}

func TestParser_FunctionWithCallStatement(t *testing.T) {
	prog, unit := parse(`fn main() { printlnInt(42); }`)
	require.True(t, unit.OK())
	require.Len(t, prog.Items, 1)

	fn, ok := prog.Items[0].(*ast.Function)
	require.True(t, ok, "expected *ast.Function, got %T", prog.Items[0])
	assert.Equal(t, "main", fn.Name)
	require.Len(t, fn.Body.Stmts, 1)

	stmt, ok := fn.Body.Stmts[0].(*ast.ExpressionStatement)
	require.True(t, ok, "expected *ast.ExpressionStatement, got %T", fn.Body.Stmts[0])

	call, ok := stmt.Expr.(*ast.CallExpression)
	require.True(t, ok, "expected *ast.CallExpression, got %T", stmt.Expr)
	require.Len(t, call.Args, 1)

	lit, ok := call.Args[0].(*ast.LiteralExpression)
	require.True(t, ok)
	assert.Equal(t, int64(42), lit.Int)
}

func TestParser_PrecedenceOfArithmetic(t *testing.T) {
	// `1 + 2 * 3` must parse as `1 + (2 * 3)`, i.e. the top node is `+`
	// whose right operand is the `*` expression.
	prog, unit := parse(`fn main() { let x = 1 + 2 * 3; }`)
	require.True(t, unit.OK())

	fn := prog.Items[0].(*ast.Function)
	let := fn.Body.Stmts[0].(*ast.LetStatement)
	add, ok := let.Init.(*ast.ArithmeticOrLogicalExpression)
	require.True(t, ok, "expected top-level +, got %T", let.Init)
	assert.Equal(t, "+", add.OperatorText())

	mul, ok := add.Right.(*ast.ArithmeticOrLogicalExpression)
	require.True(t, ok, "expected right operand to be *, got %T", add.Right)
	assert.Equal(t, "*", mul.OperatorText())
}

func TestParser_GroupedVsTupleDisambiguation(t *testing.T) {
	prog, unit := parse(`fn main() { let a = (1); let b = (1, 2); }`)
	require.True(t, unit.OK())

	fn := prog.Items[0].(*ast.Function)
	letA := fn.Body.Stmts[0].(*ast.LetStatement)
	_, isGrouped := letA.Init.(*ast.GroupedExpression)
	assert.True(t, isGrouped, "expected grouped expression, got %T", letA.Init)

	letB := fn.Body.Stmts[1].(*ast.LetStatement)
	tup, isTuple := letB.Init.(*ast.TupleExpression)
	require.True(t, isTuple, "expected tuple expression, got %T", letB.Init)
	assert.Len(t, tup.Elems, 2)
}

func TestParser_StructLiteralAfterIdentifier(t *testing.T) {
	prog, unit := parse(`struct P { x: i32 } fn main() { let p = P { x: 7 }; }`)
	require.True(t, unit.OK())

	fn := prog.Items[1].(*ast.Function)
	let := fn.Body.Stmts[0].(*ast.LetStatement)
	lit, ok := let.Init.(*ast.StructExpression)
	require.True(t, ok, "expected struct literal, got %T", let.Init)
	require.Len(t, lit.Fields, 1)
}

func TestParser_IfConditionRejectsStructLiteral(t *testing.T) {
	// a bare struct literal is disallowed at the top level of an
	// `if`/`while` condition to avoid the classic `if x {}` ambiguity.
	_, unit := parse(`struct P { x: i32 } fn main() { if P { x: 1 } { } }`)
	assert.False(t, unit.OK())
}

func TestParser_MethodCallAndFieldAccess(t *testing.T) {
	prog, unit := parse(`fn main() { let v = p.get().x; }`)
	require.True(t, unit.OK())

	fn := prog.Items[0].(*ast.Function)
	let := fn.Body.Stmts[0].(*ast.LetStatement)
	field, ok := let.Init.(*ast.FieldExpression)
	require.True(t, ok, "expected field expression, got %T", let.Init)

	_, ok = field.Base.(*ast.MethodCallExpression)
	assert.True(t, ok, "expected method call as field base, got %T", field.Base)
}

func TestParser_WhileLoopParses(t *testing.T) {
	prog, unit := parse(`fn main() { let mut i: i32 = 0; while i < 3 { i = i + 1; continue; } }`)
	require.True(t, unit.OK())

	fn := prog.Items[0].(*ast.Function)
	require.Len(t, fn.Body.Stmts, 1)

	// The loop directly precedes `}`, so it is the block's tail expression.
	loop, ok := fn.Body.Tail.(*ast.WhileExpression)
	require.True(t, ok, "expected while expression as block tail, got %T", fn.Body.Tail)
	require.Len(t, loop.Body.Stmts, 2)
}

func TestParser_UnexpectedTokenIsFatal(t *testing.T) {
	_, unit := parse(`fn main() { let = ; }`)
	assert.False(t, unit.OK())
	assert.NotEmpty(t, unit.Errors)
}

// Attribute sequences are recognized and discarded, so annotated items
// still parse.
func TestParser_SkipsAttributes(t *testing.T) {
	prog, unit := parse(`#[derive(Debug)] struct P { x: i32 } fn main() { }`)
	require.True(t, unit.OK(), "errors: %v", unit.Errors)
	require.Len(t, prog.Items, 2)
	_, ok := prog.Items[0].(*ast.StructStruct)
	assert.True(t, ok, "expected struct after attribute, got %T", prog.Items[0])
}

func TestParser_UnsafeBlockExpression(t *testing.T) {
	prog, unit := parse(`fn main() { unsafe { printlnInt(1); } }`)
	require.True(t, unit.OK(), "errors: %v", unit.Errors)

	fn := prog.Items[0].(*ast.Function)
	require.Len(t, fn.Body.Stmts, 0)
	_, ok := fn.Body.Tail.(*ast.UnsafeBlockExpression)
	assert.True(t, ok, "expected unsafe block as block tail, got %T", fn.Body.Tail)
}

// Prefix `-` binds at the `*`/`/`/`%` rank, so `-a * b` groups as
// `(-a) * b`, and `as` binds tighter than `+`.
func TestParser_PrefixAndCastPrecedence(t *testing.T) {
	prog, unit := parse(`fn main() { let x = -a * b; let y = c as i64 + 1; }`)
	require.True(t, unit.OK(), "errors: %v", unit.Errors)

	fn := prog.Items[0].(*ast.Function)
	letX := fn.Body.Stmts[0].(*ast.LetStatement)
	mul, ok := letX.Init.(*ast.ArithmeticOrLogicalExpression)
	require.True(t, ok, "expected top-level *, got %T", letX.Init)
	_, ok = mul.Left.(*ast.NegationExpression)
	assert.True(t, ok, "expected negation as left operand, got %T", mul.Left)

	letY := fn.Body.Stmts[1].(*ast.LetStatement)
	add, ok := letY.Init.(*ast.ArithmeticOrLogicalExpression)
	require.True(t, ok, "expected top-level +, got %T", letY.Init)
	_, ok = add.Left.(*ast.TypeCastExpression)
	assert.True(t, ok, "expected cast as left operand, got %T", add.Left)
}

func TestParser_MatchArms(t *testing.T) {
	prog, unit := parse(`fn main() { let r = match x { 1 => 10, 2 if y => 20, _ => 0 }; }`)
	require.True(t, unit.OK(), "errors: %v", unit.Errors)

	fn := prog.Items[0].(*ast.Function)
	let := fn.Body.Stmts[0].(*ast.LetStatement)
	m, ok := let.Init.(*ast.MatchExpression)
	require.True(t, ok, "expected match, got %T", let.Init)
	require.Len(t, m.Arms, 3)
	assert.NotNil(t, m.Arms[1].Guard)
	_, ok = m.Arms[2].Pattern.(*ast.WildcardPattern)
	assert.True(t, ok, "expected wildcard in last arm, got %T", m.Arms[2].Pattern)
}

// Assignment is right-associative, so `a = b = c` nests rightward.
func TestParser_AssignmentIsRightAssociative(t *testing.T) {
	prog, unit := parse(`fn main() { a = b = c; }`)
	require.True(t, unit.OK(), "errors: %v", unit.Errors)

	fn := prog.Items[0].(*ast.Function)
	stmt := fn.Body.Stmts[0].(*ast.ExpressionStatement)
	outer, ok := stmt.Expr.(*ast.AssignmentExpression)
	require.True(t, ok, "expected assignment, got %T", stmt.Expr)
	_, ok = outer.Value.(*ast.AssignmentExpression)
	assert.True(t, ok, "expected nested assignment on the right, got %T", outer.Value)
}

// A range pattern's two bounds survive into the AST.
func TestParser_RangePatternInMatch(t *testing.T) {
	prog, unit := parse(`fn main() { match x { 1...5 => a, _ => b } }`)
	require.True(t, unit.OK(), "errors: %v", unit.Errors)

	fn := prog.Items[0].(*ast.Function)
	m := fn.Body.Tail.(*ast.MatchExpression)
	rp, ok := m.Arms[0].Pattern.(*ast.RangePattern)
	require.True(t, ok, "expected range pattern, got %T", m.Arms[0].Pattern)
	assert.NotNil(t, rp.From)
	assert.NotNil(t, rp.To)
}
