package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenith9320/rcompiler-go/internal/analyzer"
	"github.com/zenith9320/rcompiler-go/internal/lexer"
	"github.com/zenith9320/rcompiler-go/internal/parser"
	"github.com/zenith9320/rcompiler-go/internal/pipeline"
)

// check runs the full lex -> parse -> analyze pipeline over input and
// reports whether the program is accepted.
func check(t *testing.T, input string) (bool, *pipeline.Unit) {
	t.Helper()
	unit := pipeline.NewUnit(input)
	lx := lexer.New(input)
	stream := pipeline.NewTokenStream(lx.NextToken)
	p := parser.New(stream, unit)
	prog := p.ParseProgram()
	require.True(t, unit.OK(), "parse errors: %v", unit.Errors)

	c := analyzer.New(unit)
	return c.Check(prog), unit
}

func TestChecker_AcceptsWellFormedProgram(t *testing.T) {
	ok, unit := check(t, `fn main() { printlnInt(42); }`)
	assert.True(t, ok, "errors: %v", unit.Errors)
}

// A function's trailing-expression type must match its declared return
// type.
func TestChecker_RejectsReturnTypeMismatch(t *testing.T) {
	ok, _ := check(t, `fn f() -> i32 { true }`)
	assert.False(t, ok)
}

func TestChecker_AcceptsMatchingReturnType(t *testing.T) {
	ok, unit := check(t, `fn f() -> i32 { 1 }`)
	assert.True(t, ok, "errors: %v", unit.Errors)
}

// An array-typed `let` with too few literal elements fails the declared
// length.
func TestChecker_RejectsArrayLengthMismatch(t *testing.T) {
	ok, _ := check(t, `fn main() { let a: [i32; 3] = [1, 2]; }`)
	assert.False(t, ok)
}

func TestChecker_AcceptsMatchingArrayLength(t *testing.T) {
	ok, unit := check(t, `fn main() { let a: [i32; 2] = [1, 2]; }`)
	assert.True(t, ok, "errors: %v", unit.Errors)
}

// Assigning to a binding declared without `mut` is a mutability
// violation.
func TestChecker_RejectsAssignToImmutableBinding(t *testing.T) {
	ok, _ := check(t, `fn main() { let x: i32 = 1; x = 2; }`)
	assert.False(t, ok)
}

func TestChecker_AcceptsAssignToMutableBinding(t *testing.T) {
	ok, unit := check(t, `fn main() { let mut x: i32 = 1; x = 2; }`)
	assert.True(t, ok, "errors: %v", unit.Errors)
}

// usize and i32 are compatible for comparison-only purposes.
func TestChecker_UsizeAndI32AreComparisonCompatible(t *testing.T) {
	ok, unit := check(t, `fn main() { let i: usize = 0; let n: i32 = 1; if i < n as usize { } }`)
	assert.True(t, ok, "errors: %v", unit.Errors)
}

func TestChecker_RejectsUndeclaredName(t *testing.T) {
	ok, _ := check(t, `fn main() { printlnInt(y); }`)
	assert.False(t, ok)
}

// A method with `&mut self` requires a mutable receiver binding.
func TestChecker_RejectsMutMethodOnImmutableReceiver(t *testing.T) {
	ok, _ := check(t, `
		struct P { x: i32 }
		impl P { fn bump(&mut self) { self.x = self.x + 1; } }
		fn main() { let p = P { x: 1 }; p.bump(); }
	`)
	assert.False(t, ok)
}

func TestChecker_AcceptsMutMethodOnMutableReceiver(t *testing.T) {
	ok, unit := check(t, `
		struct P { x: i32 }
		impl P { fn bump(&mut self) { self.x = self.x + 1; } }
		fn main() { let mut p = P { x: 1 }; p.bump(); }
	`)
	assert.True(t, ok, "errors: %v", unit.Errors)
}

// Every trait method must appear in the impl unless the trait supplies
// a default body; extra methods warn but do not fail.
func TestChecker_TraitImplCompleteness(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			"missing_method_fails",
			`trait Greet { fn hello(&self); fn bye(&self); }
			 struct P { x: i32 }
			 impl Greet for P { fn hello(&self) { } }`,
			false,
		},
		{
			"default_body_fills_in",
			`trait Greet { fn hello(&self); fn bye(&self) { } }
			 struct P { x: i32 }
			 impl Greet for P { fn hello(&self) { } }`,
			true,
		},
		{
			"extra_method_only_warns",
			`trait Greet { fn hello(&self); }
			 struct P { x: i32 }
			 impl Greet for P { fn hello(&self) { } fn extra(&self) { } }`,
			true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, unit := check(t, tc.input)
			assert.Equal(t, tc.want, ok, "errors: %v", unit.Errors)
		})
	}
}

func TestChecker_RejectsBreakOutsideLoop(t *testing.T) {
	ok, _ := check(t, `fn main() { break; }`)
	assert.False(t, ok)
}

func TestChecker_AcceptsContinueInsideLoop(t *testing.T) {
	ok, unit := check(t, `fn main() { let mut i: i32 = 0; while i < 2 { i = i + 1; continue; } }`)
	assert.True(t, ok, "errors: %v", unit.Errors)
}

// An array type's length written as a path resolves through the
// constant table.
func TestChecker_ConstResolvedArrayLength(t *testing.T) {
	ok, unit := check(t, `const N: usize = 3; fn main() { let a: [i32; N] = [1, 2, 3]; }`)
	assert.True(t, ok, "errors: %v", unit.Errors)

	ok, _ = check(t, `const N: usize = 3; fn main() { let a: [i32; N] = [1, 2]; }`)
	assert.False(t, ok)
}

// A repeat-array initializer's count must also match the declared
// length, constants included.
func TestChecker_RepeatArrayCount(t *testing.T) {
	ok, unit := check(t, `fn main() { let a: [i32; 4] = [0; 4]; }`)
	assert.True(t, ok, "errors: %v", unit.Errors)

	ok, _ = check(t, `fn main() { let a: [i32; 4] = [0; 3]; }`)
	assert.False(t, ok)
}
