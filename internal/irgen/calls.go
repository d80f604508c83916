package irgen

import (
	"strings"

	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/symbols"
)

// genCallExpression lowers a free-function call or a qualified `Type::f`
// associated-function call, resolving the callee against
// the analyzer's root scope rather than re-deriving overload resolution.
func (g *Generator) genCallExpression(c *ast.CallExpression) (Value, bool) {
	path, ok := c.Callee.(*ast.PathExpression)
	if !ok {
		g.fail(diagnostics.ErrG005, c, "indirect call")
		return Value{}, false
	}
	segs := path.Path.Segments
	name := strings.Join(segs, "::")

	var fi *symbols.FuncInfo
	var mangled string
	if len(segs) == 2 {
		if m, ok := g.root.LookupMethod(segs[0], segs[1]); ok {
			fi = m
			mangled = mangleMethod(segs[0], segs[1])
		}
	}
	if fi == nil {
		if f, ok := g.root.LookupFunc(name); ok {
			fi = f
			mangled = mangleFunction(name)
		}
	}
	if fi == nil {
		g.fail(diagnostics.ErrG001, c, name)
		return Value{}, false
	}

	var args []string
	for i, a := range c.Args {
		v, ok := g.genExpression(a)
		if !ok {
			return Value{}, false
		}
		v = g.convertToParam(v, fi.ParamTypes, i)
		args = g.appendCallArg(args, v)
	}

	return g.emitCall(mangled, fi.ReturnType, args), true
}

// convertToParam adapts an argument value to the callee's declared
// parameter type: the load when a T* flows into a declared T, and the
// usual widening conversions.
func (g *Generator) convertToParam(v Value, paramTypes []string, i int) Value {
	if i >= len(paramTypes) || paramTypes[i] == "" {
		return v
	}
	want := paramTypes[i]
	if !isReferenceType(want) && isReferenceType(v.Type) {
		v = g.dereferenceValue(v)
	}
	return g.convert(v, want)
}

// appendCallArg renders v as call-site operands, flattening a by-value
// struct argument into its per-field scalars.
func (g *Generator) appendCallArg(args []string, v Value) []string {
	if sl, ok := g.structLayouts[v.Type]; ok {
		for i, fType := range sl.FieldTypes {
			t := g.newTemp()
			g.emit("%s = extractvalue %%%s %s, %d", t, sl.Name, v.Reg, i)
			args = append(args, fType+" "+t)
		}
		return args
	}
	return append(args, g.operand(v))
}

func (g *Generator) emitCall(mangled, retType string, args []string) Value {
	if retType == "" {
		retType = "()"
	}
	llRet := g.llvmTypeOf(retType)
	if llRet == "void" {
		g.emit("call void %s(%s)", mangled, strings.Join(args, ", "))
		return Value{Type: "()"}
	}
	t := g.newTemp()
	g.emit("%s = call %s %s(%s)", t, llRet, mangled, strings.Join(args, ", "))
	return Value{Reg: t, Type: retType}
}

// genMethodCallExpression lowers receiver.method(args) with autoref and
// autoderef: a value receiver passed to a `&self`/`&mut self`
// method has its address taken; a pointer receiver passed to a by-value
// `self` method is loaded first.
func (g *Generator) genMethodCallExpression(m *ast.MethodCallExpression) (Value, bool) {
	recvType := g.peekType(m.Receiver)
	baseType := stripOuterReferences(recvType)

	fi, ok := g.root.LookupMethod(baseType, m.Method)
	if !ok {
		g.fail(diagnostics.ErrG001, m, baseType+"::"+m.Method)
		return Value{}, false
	}

	wantsRef := len(fi.ParamTypes) > 0 && isReferenceType(fi.ParamTypes[0])

	var args []string
	if wantsRef && !isReferenceType(recvType) {
		// Autoref: take the receiver's address, materializing a temporary
		// slot when it has none.
		addr, canon, ok := g.addrOf(m.Receiver)
		if !ok {
			return Value{}, false
		}
		args = append(args, g.llvmTypeOf(canon)+"* "+addr)
	} else {
		rv, ok := g.genExpression(m.Receiver)
		if !ok {
			return Value{}, false
		}
		if !wantsRef && isReferenceType(recvType) {
			rv = g.dereferenceValue(rv) // autoderef, a single step
		}
		args = g.appendCallArg(args, rv)
	}
	for i, a := range m.Args {
		v, ok := g.genExpression(a)
		if !ok {
			return Value{}, false
		}
		v = g.convertToParam(v, fi.ParamTypes, i+1)
		args = g.appendCallArg(args, v)
	}

	return g.emitCall(mangleMethod(baseType, m.Method), fi.ReturnType, args), true
}

// addrOf returns the address of e's storage. A non-lvalue receiver gets a
// temporary slot allocated and stored through first ("allocate a
// temporary and store into it if no address is available").
func (g *Generator) addrOf(e ast.Expression) (string, string, bool) {
	switch e.(type) {
	case *ast.PathExpression, *ast.FieldExpression, *ast.IndexExpression,
		*ast.TupleIndexingExpression, *ast.DereferenceExpression:
		return g.genLValueAddr(e)
	}
	v, ok := g.genExpression(e)
	if !ok {
		return "", "", false
	}
	llType := g.llvmTypeOf(v.Type)
	addr := g.newTemp() + ".tmp"
	g.emit("%s = alloca %s", addr, llType)
	g.emit("store %s %s, %s* %s", llType, v.Reg, llType, addr)
	return addr, v.Type, true
}

// dereferenceValue loads through a pointer-typed Value once.
func (g *Generator) dereferenceValue(v Value) Value {
	pointee := stripOuterReferences(v.Type)
	llType := g.llvmTypeOf(pointee)
	t := g.newTemp()
	g.emit("%s = load %s, %s* %s", t, llType, llType, v.Reg)
	return Value{Reg: t, Type: pointee}
}

// genFieldExpression lowers a struct-field read as an address computation
// followed by a load.
func (g *Generator) genFieldExpression(f *ast.FieldExpression) (Value, bool) {
	addr, fieldType, ok := g.fieldAddr(f)
	if !ok {
		return Value{}, false
	}
	// A nested struct-typed field is loaded with its structural form,
	// scalars with their plain spelling.
	llType := g.expandStructType(g.llvmTypeOf(fieldType))
	t := g.newTemp()
	g.emit("%s = load %s, %s* %s", t, llType, llType, addr)
	return Value{Reg: t, Type: fieldType}, true
}

// fieldAddr computes a field's address and canonical type, autoderefing
// through a pointer base.
func (g *Generator) fieldAddr(f *ast.FieldExpression) (string, string, bool) {
	baseAddr, baseCanon, ok := g.genLValueAddr(f.Base)
	if !ok {
		return "", "", false
	}
	structName := stripOuterReferences(baseCanon)
	if isReferenceType(baseCanon) {
		llPtrType := g.llvmTypeOf(structName)
		t := g.newTemp()
		g.emit("%s = load %s*, %s** %s", t, llPtrType, llPtrType, baseAddr)
		baseAddr = t
	}
	sl, ok := g.structLayouts[structName]
	if !ok {
		g.fail(diagnostics.ErrG002, f, structName, f.Field)
		return "", "", false
	}
	idx := fieldIndex(sl, f.Field)
	fieldType := sl.FieldTypes[indexOf(sl.FieldNames, f.Field)]
	gep := g.newTemp()
	g.emit("%s = getelementptr %%%s, %%%s* %s, i32 0, i32 %s", gep, sl.Name, sl.Name, baseAddr, idx)
	return gep, llvmTypeToCanon(fieldType), true
}

func indexOf(ss []string, s string) int {
	for i, v := range ss {
		if v == s {
			return i
		}
	}
	return 0
}

// llvmTypeToCanon is a best-effort reverse mapping used only to re-wrap an
// already-rendered LLVM field type as a canonical string for a further
// load/convert step; struct layouts carry LLVM types directly, so
// this only needs to cover the scalar forms that reach further lowering.
func llvmTypeToCanon(llType string) string {
	switch llType {
	case "i1":
		return "bool"
	case "i8":
		return "i8"
	case "i16":
		return "i16"
	case "i32":
		return "i32"
	case "i64":
		return "i64"
	case "i128":
		return "i128"
	case "float":
		return "f32"
	case "double":
		return "f64"
	case "i8*":
		return "&str"
	}
	if strings.HasSuffix(llType, "*") {
		return "&" + llvmTypeToCanon(strings.TrimSuffix(llType, "*"))
	}
	if strings.HasPrefix(llType, "%") {
		return strings.TrimPrefix(llType, "%")
	}
	if strings.HasPrefix(llType, "[") && strings.HasSuffix(llType, "]") {
		inner := llType[1 : len(llType)-1]
		if i := strings.Index(inner, " x "); i >= 0 {
			return "[" + llvmTypeToCanon(inner[i+3:]) + "; " + inner[:i] + "]"
		}
	}
	return llType
}

// genIndexExpression lowers array/slice indexing as an address
// computation followed by a load.
func (g *Generator) genIndexExpression(ix *ast.IndexExpression) (Value, bool) {
	addr, elemType, ok := g.indexAddr(ix)
	if !ok {
		return Value{}, false
	}
	llType := g.llvmTypeOf(elemType)
	t := g.newTemp()
	g.emit("%s = load %s, %s* %s", t, llType, llType, addr)
	return Value{Reg: t, Type: elemType}, true
}

func (g *Generator) indexAddr(ix *ast.IndexExpression) (string, string, bool) {
	baseAddr, baseCanon, ok := g.genLValueAddr(ix.Base)
	if !ok {
		return "", "", false
	}
	idxVal, ok := g.genExpression(ix.Index)
	if !ok {
		return "", "", false
	}
	idxVal = g.convert(idxVal, "i64")

	arrayCanon := stripOuterReferences(baseCanon)
	llArrayType := g.llvmTypeOf(arrayCanon)
	if isReferenceType(baseCanon) {
		// Pointer-to-array receiver: load the pointer before indexing
		// through it.
		t := g.newTemp()
		g.emit("%s = load %s*, %s** %s", t, llArrayType, llArrayType, baseAddr)
		baseAddr = t
	}
	elemType := elementCanonType(arrayCanon)

	gep := g.newTemp()
	g.emit("%s = getelementptr %s, %s* %s, i64 0, i64 %s", gep, llArrayType, llArrayType, baseAddr, idxVal.Reg)
	return gep, elemType, true
}

func elementCanonType(arrayCanon string) string {
	if strings.HasPrefix(arrayCanon, "[") && strings.HasSuffix(arrayCanon, "]") {
		inner := arrayCanon[1 : len(arrayCanon)-1]
		if i := strings.LastIndex(inner, "; "); i >= 0 {
			return inner[:i]
		}
		return inner
	}
	return "i32"
}

func (g *Generator) genTupleIndexingExpression(t *ast.TupleIndexingExpression) (Value, bool) {
	addr, canon, ok := g.genLValueAddr(t.Base)
	if !ok {
		return Value{}, false
	}
	parts := splitTopLevel(strings.TrimSuffix(strings.TrimPrefix(stripOuterReferences(canon), "("), ")"))
	if t.Index >= len(parts) {
		g.fail(diagnostics.ErrG002, t, canon, tupleFieldName(t.Index))
		return Value{}, false
	}
	fieldType := parts[t.Index]
	llTuple := g.llvmTypeOf(stripOuterReferences(canon))
	gep := g.newTemp()
	g.emit("%s = getelementptr %s, %s* %s, i32 0, i32 %d", gep, llTuple, llTuple, addr, t.Index)
	llField := g.llvmTypeOf(fieldType)
	v := g.newTemp()
	g.emit("%s = load %s, %s* %s", v, llField, llField, gep)
	return Value{Reg: v, Type: fieldType}, true
}

// genStructExpression builds a struct literal by allocating a temporary
// slot, storing each field, and loading the whole aggregate.
func (g *Generator) genStructExpression(s *ast.StructExpression) (Value, bool) {
	name := strings.Join(s.Path.Segments, "::")
	sl, ok := g.structLayouts[name]
	if !ok {
		g.fail(diagnostics.ErrG001, s, name)
		return Value{}, false
	}
	addr := g.newTemp() + ".lit"
	g.emit("%s = alloca %%%s", addr, sl.Name)
	for _, fld := range s.Fields {
		v, ok := g.genExpression(fld.Value)
		if !ok {
			return Value{}, false
		}
		idx := fieldIndex(sl, fld.Name)
		fieldCanon := llvmTypeToCanon(sl.FieldTypes[indexOf(sl.FieldNames, fld.Name)])
		v = g.convert(v, fieldCanon)
		gep := g.newTemp()
		g.emit("%s = getelementptr %%%s, %%%s* %s, i32 0, i32 %s", gep, sl.Name, sl.Name, addr, idx)
		g.emit("store %s %s, %s* %s", g.llvmTypeOf(fieldCanon), v.Reg, g.llvmTypeOf(fieldCanon), gep)
	}
	t := g.newTemp()
	g.emit("%s = load %%%s, %%%s* %s", t, sl.Name, sl.Name, addr)
	return Value{Reg: t, Type: name}, true
}

// genArrayExpression lowers both array-literal and array-repeat forms:
// literals store each element by index; repeat forms run a small counted
// loop store-filling the slot.
func (g *Generator) genArrayExpression(a *ast.ArrayExpression) (Value, bool) {
	switch a.Kind {
	case ast.ArrayLiteral:
		if len(a.Elems) == 0 {
			return Value{Type: "[i32; 0]"}, true
		}
		elemVals := make([]Value, len(a.Elems))
		for i, el := range a.Elems {
			v, ok := g.genExpression(el)
			if !ok {
				return Value{}, false
			}
			elemVals[i] = v
		}
		elemType := elemVals[0].Type
		arrType := "[" + elemType + "; " + itoa(len(elemVals)) + "]"
		llArr := g.llvmTypeOf(arrType)
		addr := g.newTemp() + ".arr"
		g.emit("%s = alloca %s", addr, llArr)
		llElem := g.llvmTypeOf(elemType)
		for i, v := range elemVals {
			v = g.convert(v, elemType)
			gep := g.newTemp()
			g.emit("%s = getelementptr %s, %s* %s, i64 0, i64 %d", gep, llArr, llArr, addr, i)
			g.emit("store %s %s, %s* %s", llElem, v.Reg, llElem, gep)
		}
		t := g.newTemp()
		g.emit("%s = load %s, %s* %s", t, llArr, llArr, addr)
		return Value{Reg: t, Type: arrType}, true

	case ast.ArrayRepeat:
		count, ok := g.evalConstInt(a.Count)
		if !ok {
			g.fail(diagnostics.ErrG004, a)
			return Value{}, false
		}
		val, ok := g.genExpression(a.Value)
		if !ok {
			return Value{}, false
		}
		arrType := "[" + val.Type + "; " + itoa(int(count)) + "]"
		llArr := g.llvmTypeOf(arrType)
		llElem := g.llvmTypeOf(val.Type)
		addr := g.newTemp() + ".arr"
		g.emit("%s = alloca %s", addr, llArr)

		idxSlot := g.newTemp() + ".i"
		g.emit("%s = alloca i64", idxSlot)
		g.emit("store i64 0, i64* %s", idxSlot)
		header := g.newLabel()
		body := g.newLabel()
		end := g.newLabel()
		g.emitTerm("br label %%%s", header)
		g.emitLabel(header)
		iv := g.newTemp()
		g.emit("%s = load i64, i64* %s", iv, idxSlot)
		cond := g.newTemp()
		g.emit("%s = icmp slt i64 %s, %d", cond, iv, count)
		g.emitTerm("br i1 %s, label %%%s, label %%%s", cond, body, end)
		g.emitLabel(body)
		gep := g.newTemp()
		g.emit("%s = getelementptr %s, %s* %s, i64 0, i64 %s", gep, llArr, llArr, addr, iv)
		g.emit("store %s %s, %s* %s", llElem, val.Reg, llElem, gep)
		next := g.newTemp()
		g.emit("%s = add i64 %s, 1", next, iv)
		g.emit("store i64 %s, i64* %s", next, idxSlot)
		g.emitTerm("br label %%%s", header)
		g.emitLabel(end)

		t := g.newTemp()
		g.emit("%s = load %s, %s* %s", t, llArr, llArr, addr)
		return Value{Reg: t, Type: arrType}, true
	}
	return Value{}, false
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		return "-" + string(b)
	}
	return string(b)
}

// genAssignment lowers a plain `=` assignment: evaluate the rhs, resolve
// the lhs address, convert, store.
func (g *Generator) genAssignment(a *ast.AssignmentExpression) (Value, bool) {
	rhs, ok := g.genExpression(a.Value)
	if !ok {
		return Value{}, false
	}
	addr, canon, ok := g.genLValueAddr(a.LHS)
	if !ok {
		return Value{}, false
	}
	conv := g.convert(rhs, canon)
	llType := g.llvmTypeOf(canon)
	g.emit("store %s %s, %s* %s", llType, conv.Reg, llType, addr)
	return Value{Type: "()"}, true
}

// genCompoundAssignment lowers `lhs op= rhs` as a read-modify-write on the
// lhs address.
func (g *Generator) genCompoundAssignment(a *ast.CompoundAssignmentExpression) (Value, bool) {
	addr, canon, ok := g.genLValueAddr(a.LHS)
	if !ok {
		return Value{}, false
	}
	llType := g.llvmTypeOf(canon)
	cur := g.newTemp()
	g.emit("%s = load %s, %s* %s", cur, llType, llType, addr)
	curVal := Value{Reg: cur, Type: canon}

	rhs, ok := g.genExpression(a.Value)
	if !ok {
		return Value{}, false
	}
	rhs = g.convert(rhs, canon)

	isFloat := llType == "float" || llType == "double"
	t := g.newTemp()
	g.emit("%s = %s %s %s, %s", t, arithOpcode(a.Op, isFloat), llType, curVal.Reg, rhs.Reg)
	g.emit("store %s %s, %s* %s", llType, t, llType, addr)
	return Value{Type: "()"}, true
}

// genLValueAddr resolves an lvalue expression down to the address of its
// storage and the canonical type stored there, walking through field,
// index, tuple-index, and dereference chains to a named local at the root.
func (g *Generator) genLValueAddr(e ast.Expression) (string, string, bool) {
	switch n := e.(type) {
	case *ast.PathExpression:
		name := joinPath(n)
		if lv, ok := g.lookupLocal(name); ok {
			return lv.Addr, lv.CanonType, true
		}
		g.fail(diagnostics.ErrG001, n, name)
		return "", "", false
	case *ast.FieldExpression:
		return g.fieldAddr(n)
	case *ast.IndexExpression:
		return g.indexAddr(n)
	case *ast.TupleIndexingExpression:
		addr, canon, ok := g.genLValueAddr(n.Base)
		if !ok {
			return "", "", false
		}
		parts := splitTopLevel(strings.TrimSuffix(strings.TrimPrefix(stripOuterReferences(canon), "("), ")"))
		if n.Index >= len(parts) {
			return "", "", false
		}
		fieldType := parts[n.Index]
		llTuple := g.llvmTypeOf(stripOuterReferences(canon))
		gep := g.newTemp()
		g.emit("%s = getelementptr %s, %s* %s, i32 0, i32 %d", gep, llTuple, llTuple, addr, n.Index)
		return gep, fieldType, true
	case *ast.DereferenceExpression:
		v, ok := g.genExpression(n.Value)
		if !ok {
			return "", "", false
		}
		if !isReferenceType(v.Type) {
			g.fail(diagnostics.ErrG003, n)
			return "", "", false
		}
		return v.Reg, stripOuterReferences(v.Type), true
	}
	g.fail(diagnostics.ErrG005, e, "non-lvalue expression")
	return "", "", false
}
