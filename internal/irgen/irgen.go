// Package irgen lowers a checked AST to textual LLVM IR. It runs
// after the analyzer has accepted the program and reuses the analyzer's
// root scope to resolve function, method, and struct signatures without
// re-deriving them.
package irgen

import (
	"fmt"
	"strings"

	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/pipeline"
	"github.com/zenith9320/rcompiler-go/internal/symbols"
)

// targetTriple and dataLayout fix the x86-64 Linux target. They are
// the one configurable axis this compiler exposes, kept as package-level
// constants the way the teacher keeps its fixed tables (keyword map,
// operator precedence) as package-level vars rather than a config file.
const (
	targetTriple = "x86_64-unknown-linux-gnu"
	dataLayout   = "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-i128:128-f80:128-n8:16:32:64-S128"
)

// localVar is one function-scope binding: its stack-slot address, the
// slot's LLVM type, and the front-end canonical type the value carries.
type localVar struct {
	Addr      string
	LLVMType  string
	CanonType string
}

type loopLabels struct{ header, end string }

// Generator carries every piece of mutable state for one compilation
// unit: monotonic temporary/label/string counters, the struct-layout and
// global-string tables, and the function currently being emitted.
type Generator struct {
	unit *pipeline.Unit
	root *symbols.Scope

	fb       strings.Builder // body of the function currently being emitted
	prologue strings.Builder // entry-block instructions spliced in ahead of fb

	tempCounter  int
	labelCounter int
	strCounter   int

	globalStrings []string
	structOrder   []string
	structLayouts map[string]*structLayout
	enumVariants  map[string]enumVariant

	locals     []map[string]*localVar // function-local scope stack
	loopStack  []loopLabels
	terminated bool
	inMain     bool

	retSlot  string
	retType  string
	exitLbl  string

	failed bool
}

type structLayout struct {
	Name       string
	FieldNames []string
	FieldTypes []string // LLVM types, declaration order
}

// enumVariant records a variant's owning enum and its discriminant. Enum
// values are represented as their i32 discriminant throughout the IR.
type enumVariant struct {
	Enum string
	Disc int64
}

// New creates a Generator that resolves names against root (the analyzer's
// accepted scope) and reports failures into unit.
func New(unit *pipeline.Unit, root *symbols.Scope) *Generator {
	return &Generator{
		unit:          unit,
		root:          root,
		structLayouts: make(map[string]*structLayout),
		enumVariants:  make(map[string]enumVariant),
	}
}

func (g *Generator) fail(code diagnostics.Code, pos ast.Node, args ...interface{}) {
	g.unit.Fail(diagnostics.New(diagnostics.PhaseIRGen, code, pos.Pos(), args...))
	g.failed = true
}

// Generate lowers prog to a complete LLVM IR module text, returning ("",
// false) if any LoweringError was raised ("an error aborts IR
// emission").
func (g *Generator) Generate(prog *ast.Program) (string, bool) {
	g.collectStructLayouts(prog.Items)

	var functionTexts []string
	for _, n := range prog.Items {
		item, ok := n.(ast.Item)
		if !ok {
			continue
		}
		functionTexts = append(functionTexts, g.generateItemFunctions(item)...)
	}

	if g.failed {
		return "", false
	}

	var out strings.Builder
	out.WriteString("; ModuleID = 'generated.ll'\n")
	out.WriteString("source_filename = \"generated.ll\"\n")
	fmt.Fprintf(&out, "target datalayout = \"%s\"\n", dataLayout)
	fmt.Fprintf(&out, "target triple = \"%s\"\n\n", targetTriple)

	for _, name := range g.structOrder {
		sl := g.structLayouts[name]
		fmt.Fprintf(&out, "%%%s = type { %s }\n", sl.Name, strings.Join(sl.FieldTypes, ", "))
	}
	if len(g.structOrder) > 0 {
		out.WriteString("\n")
	}

	out.WriteString(builtinDeclarations())
	out.WriteString("\n")

	for _, s := range g.globalStrings {
		out.WriteString(s)
	}
	if len(g.globalStrings) > 0 {
		out.WriteString("\n")
	}

	out.WriteString(builtinDefinitions())
	out.WriteString("\n")

	for _, f := range functionTexts {
		out.WriteString(f)
		out.WriteString("\n")
	}

	return out.String(), true
}

// generateItemFunctions returns the IR text of every function body item
// reaches (a bare Function, or the Functions inside an impl block),
// preserving source order within the item (the ordering guarantee).
func (g *Generator) generateItemFunctions(item ast.Item) []string {
	switch n := item.(type) {
	case *ast.Function:
		if n.Body == nil {
			return nil
		}
		return []string{g.generateFunction(n)}
	case *ast.InherentImpl:
		var texts []string
		for _, it := range n.Items {
			texts = append(texts, g.generateItemFunctions(it)...)
		}
		return texts
	case *ast.TraitImpl:
		var texts []string
		for _, it := range n.Items {
			texts = append(texts, g.generateItemFunctions(it)...)
		}
		return texts
	case *ast.Module:
		var texts []string
		for _, it := range n.Items {
			if asItem, ok := it.(ast.Item); ok {
				texts = append(texts, g.generateItemFunctions(asItem)...)
			}
		}
		return texts
	}
	return nil
}
