package analyzer

import (
	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/symbols"
)

// forwardDeclare is phase 1: walk the top-level item list and
// register struct names, struct-field maps, function signatures, constant
// names, inherent/trait-impl associated items, and enum variants, without
// examining any body.
func (c *Checker) forwardDeclare(scope *symbols.Scope, nodes []ast.Node) {
	for _, n := range nodes {
		item, ok := n.(ast.Item)
		if !ok {
			if stmt, ok := n.(ast.Statement); ok {
				if is, ok := stmt.(*ast.ItemStatement); ok {
					item = is.Item
				} else {
					continue
				}
			} else {
				continue
			}
		}
		c.forwardDeclareItem(scope, item)
	}
}

func (c *Checker) forwardDeclareItem(scope *symbols.Scope, item ast.Item) {
	switch n := item.(type) {
	case *ast.Function:
		c.forwardDeclareFunction(scope, n)
	case *ast.StructStruct:
		c.forwardDeclareStructStruct(scope, n)
	case *ast.TupleStruct:
		c.forwardDeclareTupleStruct(scope, n)
	case *ast.Enumeration:
		c.forwardDeclareEnum(scope, n)
	case *ast.ConstantItem:
		c.forwardDeclareConst(scope, n)
	case *ast.Trait:
		c.forwardDeclareTrait(scope, n)
	case *ast.InherentImpl:
		c.forwardDeclareInherentImpl(scope, n)
	case *ast.TraitImpl:
		c.forwardDeclareTraitImpl(scope, n)
	case *ast.Module:
		// No module system beyond flat item lists: a Module's items are
		// hoisted into the enclosing scope exactly as if inlined.
		c.forwardDeclare(scope, n.Items)
	}
}

func (c *Checker) forwardDeclareFunction(scope *symbols.Scope, fn *ast.Function) {
	if scope.IsForwardDeclared(fn.Name) && fn.ImplTypePrefix == "" {
		c.errorAt(diagnostics.ErrA002, fn, fn.Name)
	}
	info := &symbols.FuncInfo{Decl: fn, ReturnType: c.canonicalReturnType(scope, fn)}
	for _, p := range fn.Params {
		if p.IsSelf {
			info.ParamTypes = append(info.ParamTypes, c.selfParamType(scope, fn, p))
			continue
		}
		info.ParamTypes = append(info.ParamTypes, c.canonicalType(scope, p.Type))
	}
	if fn.ImplTypePrefix != "" {
		scope.DeclareMethod(fn.ImplTypePrefix, fn.Name, info)
		return
	}
	if !scope.DeclareFunc(fn.Name, info) {
		c.errorAt(diagnostics.ErrA002, fn, fn.Name)
	}
	scope.MarkForwardDeclared(fn.Name)
}

// canonicalReturnType renders a function's declared return type, with the
// implicit `-> ()` a body-less declaration carries when absent.
func (c *Checker) canonicalReturnType(scope *symbols.Scope, fn *ast.Function) string {
	if fn.ReturnType == nil {
		return "()"
	}
	return c.canonicalType(scope, fn.ReturnType)
}

// selfParamType renders a self-parameter's type as `T`, `&T`, or `&mut T`
// where T is the enclosing impl's type (or "Self" if none is known yet).
func (c *Checker) selfParamType(scope *symbols.Scope, fn *ast.Function, p *ast.Parameter) string {
	self := fn.ImplTypePrefix
	if self == "" {
		self = "Self"
	}
	switch {
	case p.SelfRef && p.SelfMut:
		return "&mut " + self
	case p.SelfRef:
		return "&" + self
	default:
		return self
	}
}

func (c *Checker) forwardDeclareStructStruct(scope *symbols.Scope, s *ast.StructStruct) {
	info := &symbols.StructInfo{FieldTypes: make(map[string]string), Decl: s}
	for _, f := range s.Fields {
		info.Fields = append(info.Fields, f.Name)
		info.FieldTypes[f.Name] = c.canonicalType(scope, f.Type)
	}
	if !scope.DeclareType(s.Name, info) {
		c.errorAt(diagnostics.ErrA002, s, s.Name)
	}
}

func (c *Checker) forwardDeclareTupleStruct(scope *symbols.Scope, s *ast.TupleStruct) {
	info := &symbols.StructInfo{FieldTypes: make(map[string]string), Decl: s}
	for i, t := range s.FieldTypes {
		name := tupleFieldName(i)
		info.Fields = append(info.Fields, name)
		info.FieldTypes[name] = c.canonicalType(scope, t)
	}
	if !scope.DeclareType(s.Name, info) {
		c.errorAt(diagnostics.ErrA002, s, s.Name)
	}
}

func tupleFieldName(i int) string {
	// Keeps field keys stable and distinct from named-struct field names
	// (which can never start with a digit), so StructInfo's FieldTypes map
	// can key tuple-struct positions directly.
	digits := "0123456789"
	if i < 10 {
		return string(digits[i])
	}
	buf := []byte{}
	for i > 0 {
		buf = append([]byte{digits[i%10]}, buf...)
		i /= 10
	}
	return string(buf)
}

// forwardDeclareEnum registers the enum name as a declared type (its
// "fields" are its variant names, used only for membership checks) and
// inserts every `Enum::Variant` into the variable table as a read-only
// value ("enum variants are inserted into the variable table as
// read-only values").
func (c *Checker) forwardDeclareEnum(scope *symbols.Scope, e *ast.Enumeration) {
	info := &symbols.StructInfo{FieldTypes: make(map[string]string), Decl: e}
	for _, v := range e.Variants {
		info.Fields = append(info.Fields, v.Name)
	}
	if !scope.DeclareType(e.Name, info) {
		c.errorAt(diagnostics.ErrA002, e, e.Name)
	}
	for _, v := range e.Variants {
		qualified := e.Name + "::" + v.Name
		scope.DeclareVar(qualified, &symbols.VarInfo{Type: e.Name, IsMutable: false, Initialized: true})
	}
}

func (c *Checker) forwardDeclareConst(scope *symbols.Scope, ci *ast.ConstantItem) {
	value, _ := c.evalConstInt(scope, ci.Init)
	info := &symbols.ConstInfo{Type: c.canonicalType(scope, ci.Type), Value: value}
	if !scope.DeclareConst(ci.Name, info) {
		c.errorAt(diagnostics.ErrA002, ci, ci.Name)
	}
}

func (c *Checker) forwardDeclareTrait(scope *symbols.Scope, t *ast.Trait) {
	info := &symbols.TraitInfo{Decl: t}
	for _, item := range t.Items {
		if fn, ok := item.(*ast.Function); ok {
			info.Methods = append(info.Methods, fn.Name)
			fn.ImplTypePrefix = t.Name
			scope.DeclareMethod(t.Name, fn.Name, &symbols.FuncInfo{Decl: fn, ReturnType: c.canonicalReturnType(scope, fn)})
			if fn.Body != nil {
				c.TraitDefaults()[t.Name+"::"+fn.Name] = fn
			}
		}
	}
	if !scope.DeclareTrait(t.Name, info) {
		c.errorAt(diagnostics.ErrA002, t, t.Name)
	}
}

func (c *Checker) forwardDeclareInherentImpl(scope *symbols.Scope, impl *ast.InherentImpl) {
	prefix := c.canonicalType(scope, impl.Type)
	for _, item := range impl.Items {
		switch n := item.(type) {
		case *ast.Function:
			n.ImplTypePrefix = prefix
			c.forwardDeclareFunction(scope, n)
		case *ast.ConstantItem:
			value, _ := c.evalConstInt(scope, n.Init)
			scope.DeclareMethod(prefix, n.Name, &symbols.FuncInfo{ReturnType: c.canonicalType(scope, n.Type)})
			_ = value
		}
	}
}

func (c *Checker) forwardDeclareTraitImpl(scope *symbols.Scope, impl *ast.TraitImpl) {
	prefix := c.canonicalType(scope, impl.Type)
	for _, item := range impl.Items {
		switch n := item.(type) {
		case *ast.Function:
			n.ImplTypePrefix = prefix
			c.forwardDeclareFunction(scope, n)
		case *ast.ConstantItem:
			scope.DeclareMethod(prefix, n.Name, &symbols.FuncInfo{ReturnType: c.canonicalType(scope, n.Type)})
		}
	}
}
