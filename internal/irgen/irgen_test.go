package irgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenith9320/rcompiler-go/internal/analyzer"
	"github.com/zenith9320/rcompiler-go/internal/irgen"
	"github.com/zenith9320/rcompiler-go/internal/lexer"
	"github.com/zenith9320/rcompiler-go/internal/parser"
	"github.com/zenith9320/rcompiler-go/internal/pipeline"
)

// compile runs the full pipeline and fails the test outright if any
// earlier stage rejects input, since every generator test here exercises
// well-formed programs.
func compile(t *testing.T, input string) string {
	t.Helper()
	unit := pipeline.NewUnit(input)
	lx := lexer.New(input)
	stream := pipeline.NewTokenStream(lx.NextToken)
	p := parser.New(stream, unit)
	prog := p.ParseProgram()
	require.True(t, unit.OK(), "parse errors: %v", unit.Errors)

	checker := analyzer.New(unit)
	require.True(t, checker.Check(prog), "check errors: %v", unit.Errors)

	gen := irgen.New(unit, checker.RootScope())
	ir, ok := gen.Generate(prog)
	require.True(t, ok, "irgen errors: %v", unit.Errors)
	return ir
}

// Hello-number: the smallest useful program.
func TestIRGen_HelloNumber(t *testing.T) {
	ir := compile(t, `fn main() { printlnInt(42); }`)
	assert.Contains(t, ir, "call void @printlnInt(i32 42)")
	assert.Contains(t, ir, "ret i32 0")
	assert.Contains(t, ir, "target triple = \"x86_64-unknown-linux-gnu\"")
}

// Method autoref: calling a &self method on a named value binding takes
// its address rather than passing the value.
func TestIRGen_MethodAutoref(t *testing.T) {
	ir := compile(t, `
		struct P { x: i32 }
		impl P { fn get(&self) -> i32 { self.x } }
		fn main() { let p = P { x: 7 }; printlnInt(p.get()); }
	`)
	assert.Contains(t, ir, "%P = type { i32 }")
	assert.Contains(t, ir, "define i32 @P_get(%P* %self)")
	assert.Contains(t, ir, "call i32 @P_get(%P* %p")
	assert.Contains(t, ir, "getelementptr %P, %P* %t")
}

// A while loop with continue lowers to header/body/end labels.
func TestIRGen_WhileLoopWithContinue(t *testing.T) {
	ir := compile(t, `fn main() { let mut i: i32 = 0; while i < 3 { i = i + 1; continue; } printlnInt(i); }`)
	assert.Contains(t, ir, "br i1")
	assert.Contains(t, ir, "L1:")
	assert.Contains(t, ir, "L2:")
	assert.Contains(t, ir, "L3:")
	// continue jumps back to the loop header label, not to the end label.
	assert.Contains(t, ir, "br label %L1")
}

// u32 arithmetic widens through i64, with an explicit trunc before the
// value flows into printlnInt's i32 parameter.
func TestIRGen_U32ArithmeticWidening(t *testing.T) {
	ir := compile(t, `fn main() { let x: u32 = 3000000000; let y: u32 = x + 100; printlnInt(y as i32); }`)
	assert.Contains(t, ir, "alloca i64")
	assert.Contains(t, ir, "add i64")
	assert.Contains(t, ir, "trunc i64")
}

func TestIRGen_StringLiteralEmitsGlobal(t *testing.T) {
	ir := compile(t, `fn main() { println("hi"); }`)
	assert.Contains(t, ir, "@.str.0 = private unnamed_addr constant")
	assert.Contains(t, ir, "call void @println(i8* ")
}

func TestIRGen_FreeFunctionMangling(t *testing.T) {
	ir := compile(t, `fn add(a: i32, b: i32) -> i32 { a + b } fn main() { printlnInt(add(1, 2)); }`)
	assert.Contains(t, ir, "define i32 @add(i32 %a, i32 %b)")
}

// An if-let condition lowers cleanly and its bound identifier is
// reachable from the then-branch.
func TestIRGen_IfLetCondition(t *testing.T) {
	ir := compile(t, `fn source() -> i32 { 7 } fn main() { if let x = source() { printlnInt(x); } }`)
	assert.Contains(t, ir, "call i32 @source()")
	assert.Contains(t, ir, "call void @printlnInt(i32")
}

// A while-let's bound identifier is hoisted into the entry
// prologue, ahead of anywhere the loop body that uses it gets emitted,
// rather than re-allocated inside the repeatedly-executed body block.
func TestIRGen_WhileLetCondition(t *testing.T) {
	ir := compile(t, `fn source() -> i32 { 1 } fn main() { while let x = source() { printlnInt(x); break; } }`)
	assert.Contains(t, ir, "call i32 @source()")
	callIdx := strings.Index(ir, "call void @printlnInt")
	require.True(t, callIdx >= 0)
	allocaIdx := strings.Index(ir, "%x.l")
	require.True(t, allocaIdx >= 0, "expected x's stack slot in generated IR")
	assert.Less(t, allocaIdx, callIdx, "expected x's alloca hoisted ahead of the loop body that uses it")
}

// A let directly in a while loop's immediate body has its alloca
// hoisted ahead of the loop's condition test (the entry prologue), so only
// a store remains at the let's own position inside the repeatedly-executed
// body block; the alloca itself must not re-run on every iteration.
func TestIRGen_LetInLoopBodyIsHoisted(t *testing.T) {
	ir := compile(t, `fn main() { let mut i: i32 = 0; while i < 10 { let s: i32 = i * 2; printlnInt(s); i = i + 1; } }`)
	condIdx := strings.Index(ir, "br i1")
	require.True(t, condIdx >= 0, "expected the while condition's br i1")
	allocaIdx := strings.Index(ir, "%s.l")
	require.True(t, allocaIdx >= 0, "expected s's stack slot in generated IR")
	assert.Less(t, allocaIdx, condIdx, "expected s's alloca hoisted ahead of the loop's condition test, not emitted inside the repeatedly-executed body")
}

// A by-value struct parameter is flattened into per-field scalars
// at the call site (extractvalue) and reassembled in the callee
// (insertvalue).
func TestIRGen_StructParameterFlattening(t *testing.T) {
	ir := compile(t, `
		struct P { a: i32, b: i32 }
		fn total(p: P) -> i32 { p.a + p.b }
		fn main() { let p = P { a: 1, b: 2 }; printlnInt(total(p)); }
	`)
	assert.Contains(t, ir, "define i32 @total(i32 %p.a, i32 %p.b)")
	assert.Contains(t, ir, "insertvalue %P")
	assert.Contains(t, ir, "extractvalue %P")
}

// An if/else used for its value reconciles the branches through a merge
// slot (store in each branch, one load at the merge label), never phi.
func TestIRGen_IfElseValueUsesMergeSlot(t *testing.T) {
	ir := compile(t, `fn pick(c: bool) -> i32 { if c { 1 } else { 2 } } fn main() { printlnInt(pick(true)); }`)
	assert.Contains(t, ir, "br i1 %")
	assert.NotContains(t, ir, "phi")
	assert.Contains(t, ir, "store i32 1")
	assert.Contains(t, ir, "store i32 2")
}

func TestIRGen_CompoundAssignment(t *testing.T) {
	ir := compile(t, `fn main() { let mut x: i32 = 1; x += 2; printlnInt(x); }`)
	assert.Contains(t, ir, "add i32")
}

// A repeat-array initializer lowers to a counted fill loop.
func TestIRGen_RepeatArrayEmitsFillLoop(t *testing.T) {
	ir := compile(t, `fn main() { let a: [i32; 4] = [0; 4]; printlnInt(a[0]); }`)
	assert.Contains(t, ir, "alloca [4 x i32]")
	assert.Contains(t, ir, "icmp slt i64")
	assert.Contains(t, ir, "getelementptr [4 x i32], [4 x i32]*")
}

// Every string occurrence gets its own private global, numbered
// monotonically per compilation unit.
func TestIRGen_DistinctGlobalsPerStringOccurrence(t *testing.T) {
	ir := compile(t, `fn main() { println("a"); println("a"); }`)
	assert.Contains(t, ir, "@.str.0")
	assert.Contains(t, ir, "@.str.1")
}

// Matching on enum variants compares the subject against each variant's
// discriminant; a non-matching arm must fall through to the next test
// rather than being absorbed by the first arm.
func TestIRGen_EnumVariantMatch(t *testing.T) {
	ir := compile(t, `
		enum Color { Red, Green, Blue }
		fn main() {
			let c = Color::Green;
			let n = match c { Color::Red => 1, Color::Green => 2, _ => 0 };
			printlnInt(n);
		}
	`)
	assert.Contains(t, ir, "icmp eq i32")
	// Red's and Green's discriminants are both tested.
	assert.Contains(t, ir, ", 0")
	assert.Contains(t, ir, ", 1")
}

// A range-pattern arm lowers to explicit bound comparisons, inclusive on
// the upper bound for the `...` flavor.
func TestIRGen_RangePatternMatch(t *testing.T) {
	ir := compile(t, `fn main() { let x: i32 = 5; let b = match x { 1...9 => 1, _ => 0 }; printlnInt(b); }`)
	assert.Contains(t, ir, "icmp sge i32")
	assert.Contains(t, ir, "icmp sle i32")
	assert.Contains(t, ir, "and i1")
}

// A destructuring match arm is not lowered: the generator reports a
// LoweringError instead of emitting an arm that silently always matches.
func TestIRGen_DestructuringMatchArmIsLoweringError(t *testing.T) {
	input := `
		struct P { x: i32 }
		fn main() {
			let p = P { x: 1 };
			match p { P { x } => printlnInt(x), _ => printlnInt(0) }
		}
	`
	unit := pipeline.NewUnit(input)
	lx := lexer.New(input)
	stream := pipeline.NewTokenStream(lx.NextToken)
	p := parser.New(stream, unit)
	prog := p.ParseProgram()
	require.True(t, unit.OK(), "parse errors: %v", unit.Errors)

	checker := analyzer.New(unit)
	require.True(t, checker.Check(prog), "check errors: %v", unit.Errors)

	gen := irgen.New(unit, checker.RootScope())
	_, ok := gen.Generate(prog)
	assert.False(t, ok, "expected IR generation to fail on a destructuring match arm")
	assert.NotEmpty(t, unit.Errors)
}

// A struct field declared with a const-path array length gets its real
// length in the emitted type, resolved through the constant table.
func TestIRGen_ConstLengthArrayField(t *testing.T) {
	ir := compile(t, `
		const N: usize = 3;
		struct Buf { data: [i32; N], len: i32 }
		fn main() { let b = Buf { data: [0; 3], len: 0 }; printlnInt(b.len); }
	`)
	assert.Contains(t, ir, "%Buf = type { [3 x i32], i32 }")
}
