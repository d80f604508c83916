package irgen

import "github.com/zenith9320/rcompiler-go/internal/symbols"

// builtinSignature is one built-in's canonical parameter/return types,
// used to seed the same function table the checker consults so call
// sites treat built-ins as ordinary functions.
type builtinSignature struct {
	Params []string
	Return string
}

// builtinSignatures lists every runtime built-in this compiler predeclares,
// including the supplemental printlnFloat/getFloat.
var builtinSignatures = map[string]builtinSignature{
	"print":        {Params: []string{"&str"}, Return: "()"},
	"println":      {Params: []string{"&str"}, Return: "()"},
	"printInt":     {Params: []string{"i32"}, Return: "()"},
	"printlnInt":   {Params: []string{"i32"}, Return: "()"},
	"getString":    {Params: nil, Return: "&str"},
	"getInt":       {Params: nil, Return: "i32"},
	"printlnFloat": {Params: []string{"f64"}, Return: "()"},
	"getFloat":     {Params: nil, Return: "f64"},

	"builtin_memset": {Params: []string{"&mut u8", "i32", "i32"}, Return: "&mut u8"},
	"builtin_memcpy": {Params: []string{"&mut u8", "&u8", "i32"}, Return: "&mut u8"},
}

// SeedBuiltins registers every built-in into scope's function table so
// call sites resolve them exactly like a user-defined function.
func SeedBuiltins(scope *symbols.Scope) {
	for name, sig := range builtinSignatures {
		scope.DeclareFunc(name, &symbols.FuncInfo{ParamTypes: sig.Params, ReturnType: sig.Return})
	}
}

// builtinDeclarations renders the C-library declarations requires
// before any user code: printf, scanf, malloc, memset, memcpy, exit.
func builtinDeclarations() string {
	return `declare i32 @printf(i8*, ...)
declare i32 @scanf(i8*, ...)
declare i8* @malloc(i64)
declare i8* @memset(i8*, i32, i64)
declare i8* @memcpy(i8*, i8*, i64)
declare void @exit(i32)
`
}

// builtinDefinitions renders the wrapper functions built on top of the raw
// C declarations: formatted-output print/println/printInt/printlnInt/
// printlnFloat, and scanf-backed getString/getInt/getFloat, plus the two
// memory helpers builtin_memset/builtin_memcpy.
func builtinDefinitions() string {
	return `@.fmt.s = private unnamed_addr constant [4 x i8] c"%s\00"
@.fmt.s.nl = private unnamed_addr constant [5 x i8] c"%s\0A\00"
@.fmt.d = private unnamed_addr constant [3 x i8] c"%d\00"
@.fmt.d.nl = private unnamed_addr constant [4 x i8] c"%d\0A\00"
@.fmt.f = private unnamed_addr constant [3 x i8] c"%f\00"
@.fmt.f.nl = private unnamed_addr constant [4 x i8] c"%f\0A\00"
@.scan.d = private unnamed_addr constant [3 x i8] c"%d\00"
@.scan.s = private unnamed_addr constant [4 x i8] c"%s\00"
@.scan.f = private unnamed_addr constant [4 x i8] c"%lf\00"

define void @print(i8* %s) {
entry:
  %fmt = getelementptr [4 x i8], [4 x i8]* @.fmt.s, i32 0, i32 0
  %r = call i32 (i8*, ...) @printf(i8* %fmt, i8* %s)
  ret void
}

define void @println(i8* %s) {
entry:
  %fmt = getelementptr [5 x i8], [5 x i8]* @.fmt.s.nl, i32 0, i32 0
  %r = call i32 (i8*, ...) @printf(i8* %fmt, i8* %s)
  ret void
}

define void @printInt(i32 %v) {
entry:
  %fmt = getelementptr [3 x i8], [3 x i8]* @.fmt.d, i32 0, i32 0
  %r = call i32 (i8*, ...) @printf(i8* %fmt, i32 %v)
  ret void
}

define void @printlnInt(i32 %v) {
entry:
  %fmt = getelementptr [4 x i8], [4 x i8]* @.fmt.d.nl, i32 0, i32 0
  %r = call i32 (i8*, ...) @printf(i8* %fmt, i32 %v)
  ret void
}

define void @printlnFloat(double %v) {
entry:
  %fmt = getelementptr [4 x i8], [4 x i8]* @.fmt.f.nl, i32 0, i32 0
  %r = call i32 (i8*, ...) @printf(i8* %fmt, double %v)
  ret void
}

define i8* @getString() {
entry:
  %buf = call i8* @malloc(i64 256)
  %fmt = getelementptr [4 x i8], [4 x i8]* @.scan.s, i32 0, i32 0
  %r = call i32 (i8*, ...) @scanf(i8* %fmt, i8* %buf)
  ret i8* %buf
}

define i32 @getInt() {
entry:
  %slot = alloca i32
  %fmt = getelementptr [3 x i8], [3 x i8]* @.scan.d, i32 0, i32 0
  %r = call i32 (i8*, ...) @scanf(i8* %fmt, i32* %slot)
  %v = load i32, i32* %slot
  ret i32 %v
}

define double @getFloat() {
entry:
  %slot = alloca double
  %fmt = getelementptr [4 x i8], [4 x i8]* @.scan.f, i32 0, i32 0
  %r = call i32 (i8*, ...) @scanf(i8* %fmt, double* %slot)
  %v = load double, double* %slot
  ret double %v
}

define i8* @builtin_memset(i8* %dst, i32 %val, i32 %len) {
entry:
  %len64 = sext i32 %len to i64
  %r = call i8* @memset(i8* %dst, i32 %val, i64 %len64)
  ret i8* %r
}

define i8* @builtin_memcpy(i8* %dst, i8* %src, i32 %len) {
entry:
  %len64 = sext i32 %len to i64
  %r = call i8* @memcpy(i8* %dst, i8* %src, i64 %len64)
  ret i8* %r
}
`
}
