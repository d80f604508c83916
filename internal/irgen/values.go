package irgen

import (
	"fmt"
	"strings"
)

// Value is an already-computed SSA value: an operand spelling (a register
// like "%t3" or an immediate like "42") paired with its front-end
// canonical type, from which the LLVM type is derived on demand.
type Value struct {
	Reg  string
	Type string // canonical front-end type
}

func (g *Generator) llType(v Value) string { return g.llvmTypeOf(v.Type) }

// operand renders v as a fully-typed LLVM operand, e.g. "i32 %t3".
func (g *Generator) operand(v Value) string {
	return g.llType(v) + " " + v.Reg
}

func (g *Generator) newTemp() string {
	t := fmt.Sprintf("%%t%d", g.tempCounter)
	g.tempCounter++
	return t
}

func (g *Generator) newLabel() string {
	l := fmt.Sprintf("L%d", g.labelCounter)
	g.labelCounter++
	return l
}

func (g *Generator) emit(format string, args ...interface{}) {
	fmt.Fprintf(&g.fb, "  "+format+"\n", args...)
}

// emitPrologue writes an instruction into the function's entry prologue
// instead of the current block (a loop's immediate-body let slots
// and a while-let's bound pattern are allocated once at entry and reused
// every iteration, rather than re-allocated on every pass through a block
// that the loop jumps back into).
func (g *Generator) emitPrologue(format string, args ...interface{}) {
	fmt.Fprintf(&g.prologue, "  "+format+"\n", args...)
}

// emitTerm emits a block terminator (br/ret) and marks the current block
// closed, so the caller emitting the function's fallthrough tail knows not
// to append a second terminator.
func (g *Generator) emitTerm(format string, args ...interface{}) {
	g.emit(format, args...)
	g.terminated = true
}

func (g *Generator) emitLabel(name string) {
	fmt.Fprintf(&g.fb, "%s:\n", name)
	g.terminated = false
}

// pushScope/popScope bracket a block's local bindings (the shadowing
// discipline, mirrored here for name-to-slot resolution during lowering).
func (g *Generator) pushScope() { g.locals = append(g.locals, map[string]*localVar{}) }
func (g *Generator) popScope()  { g.locals = g.locals[:len(g.locals)-1] }

func (g *Generator) declareLocal(name string, lv *localVar) {
	g.locals[len(g.locals)-1][name] = lv
}

func (g *Generator) lookupLocal(name string) (*localVar, bool) {
	for i := len(g.locals) - 1; i >= 0; i-- {
		if lv, ok := g.locals[i][name]; ok {
			return lv, true
		}
	}
	return nil, false
}

// load reads the current value out of a stack slot.
func (g *Generator) load(lv *localVar) Value {
	t := g.newTemp()
	g.emit("%s = load %s, %s* %s", t, lv.LLVMType, lv.LLVMType, lv.Addr)
	return Value{Reg: t, Type: lv.CanonType}
}

func (g *Generator) store(lv *localVar, v Value) {
	v = g.convert(v, lv.CanonType)
	g.emit("store %s %s, %s* %s", lv.LLVMType, v.Reg, lv.LLVMType, lv.Addr)
}

// convert implements the widening rules: sext i32->i64, trunc
// i64->i32, zext i1->i32, and the u32-as-i64 internal representation.
func (g *Generator) convert(v Value, target string) Value {
	if v.Type == target {
		return v
	}
	from := g.llvmTypeOf(v.Type)
	to := g.llvmTypeOf(target)
	if from == to {
		return Value{Reg: v.Reg, Type: target}
	}
	t := g.newTemp()
	switch {
	case from == "i1" && strings.HasPrefix(to, "i"):
		g.emit("%s = zext i1 %s to %s", t, v.Reg, to)
	case from == "i32" && to == "i64":
		g.emit("%s = sext i32 %s to i64", t, v.Reg)
	case from == "i64" && to == "i32":
		g.emit("%s = trunc i64 %s to i32", t, v.Reg)
	case from == "float" && to == "double":
		g.emit("%s = fpext float %s to double", t, v.Reg)
	case from == "double" && to == "float":
		g.emit("%s = fptrunc double %s to float", t, v.Reg)
	case (from == "i32" || from == "i64") && (to == "float" || to == "double"):
		g.emit("%s = sitofp %s %s to %s", t, from, v.Reg, to)
	case (from == "float" || from == "double") && (to == "i32" || to == "i64"):
		g.emit("%s = fptosi %s %s to %s", t, from, v.Reg, to)
	default:
		return Value{Reg: v.Reg, Type: target}
	}
	return Value{Reg: t, Type: target}
}
