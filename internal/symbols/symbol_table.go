// Package symbols implements the scope stack: one SymbolTable
// per lexical scope, each holding the keyed registries the checker
// consults during name resolution, plus a parent pointer for outward
// lookup.
package symbols

import "github.com/zenith9320/rcompiler-go/internal/ast"

// VarInfo is a variable-table entry: a binding's declared type,
// whether it was introduced as a mutable binding, whether its type is a
// reference, and whether it was initialized at its declaration (a
// `let x: T;` binding is recorded as uninitialized; later assignments do
// not update the flag).
type VarInfo struct {
	Type        string // canonical string form
	IsMutable   bool
	IsRef       bool
	Initialized bool
}

// FuncInfo is a function-table entry: parameter and return types in
// canonical string form.
type FuncInfo struct {
	ParamTypes []string
	ReturnType string
	Decl       *ast.Function
}

// StructInfo is a declared-struct-table entry: the field order and each
// field's canonical type string, used by both mutability propagation and
// the IR generator's field-flattening.
type StructInfo struct {
	Fields     []string // field names, in declaration order
	FieldTypes map[string]string
	Decl       ast.Item // *ast.StructStruct or *ast.TupleStruct
}

// TraitInfo is a trait-table entry: the set of method names the trait
// requires, used by the completeness check.
type TraitInfo struct {
	Methods []string
	Decl    *ast.Trait
}

// ConstInfo is a constant-table entry, consulted when resolving an
// array-expression repeat count or an array type's length expression.
type ConstInfo struct {
	Type  string
	Value int64
}

// Scope is a single lexical scope: a node in the scope stack. Every
// Scope's ID is its parent's ID plus one, so depth can be read
// directly off the ID without walking the parent chain.
type Scope struct {
	ID     int
	parent *Scope

	vars   map[string]*VarInfo
	funcs  map[string]*FuncInfo
	types  map[string]*StructInfo
	traits map[string]*TraitInfo
	consts map[string]*ConstInfo

	// structFuncs holds associated functions keyed "Type::method", shared
	// by the whole table chain rather than duplicated per scope: methods
	// are declared once, at the impl block's scope, and resolved by
	// qualified path from any scope, not just the declaring one.
	structFuncs map[string]*FuncInfo

	// forwardDeclared records names seen in this scope's forward-declare
	// pass before their bodies are checked, so a function may
	// reference a sibling declared later in the same block.
	forwardDeclared map[string]bool

	// possibleSelf is the canonical type string for `Self` when this
	// scope is nested inside an impl block; empty outside one.
	possibleSelf string
}

// NewRoot creates the outermost (global) scope, ID 0, with no parent.
func NewRoot() *Scope {
	return &Scope{
		ID:              0,
		vars:            make(map[string]*VarInfo),
		funcs:           make(map[string]*FuncInfo),
		types:           make(map[string]*StructInfo),
		traits:          make(map[string]*TraitInfo),
		consts:          make(map[string]*ConstInfo),
		structFuncs:     make(map[string]*FuncInfo),
		forwardDeclared: make(map[string]bool),
	}
}

// Push creates a new child scope nested inside s.
func (s *Scope) Push() *Scope {
	return &Scope{
		ID:              s.ID + 1,
		parent:          s,
		vars:            make(map[string]*VarInfo),
		funcs:           make(map[string]*FuncInfo),
		types:           make(map[string]*StructInfo),
		traits:          make(map[string]*TraitInfo),
		consts:          make(map[string]*ConstInfo),
		structFuncs:     s.structFuncs, // shared across the whole chain
		forwardDeclared: make(map[string]bool),
		possibleSelf:    s.possibleSelf,
	}
}

// Parent returns the enclosing scope, or nil at the root.
func (s *Scope) Parent() *Scope { return s.parent }

// PushWithSelf is Push, additionally recording the canonical type string
// that `Self` resolves to within the new scope (used when entering an
// impl block's body).
func (s *Scope) PushWithSelf(selfType string) *Scope {
	child := s.Push()
	child.possibleSelf = selfType
	return child
}

// SelfType returns the canonical type string Self resolves to in this
// scope, or "" if there is none.
func (s *Scope) SelfType() string { return s.possibleSelf }

// DeclareVar adds a variable to this scope's variable table. It reports
// false (A002, redefinition) if name is already declared in this exact
// scope; shadowing an outer scope's binding is allowed.
func (s *Scope) DeclareVar(name string, info *VarInfo) bool {
	if _, exists := s.vars[name]; exists {
		return false
	}
	s.vars[name] = info
	return true
}

// LookupVar searches this scope and its ancestors for name, innermost
// declaration first.
func (s *Scope) LookupVar(name string) (*VarInfo, *Scope) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, sc
		}
	}
	return nil, nil
}

// DeclareFunc adds a free function to this scope's function table.
func (s *Scope) DeclareFunc(name string, info *FuncInfo) bool {
	if _, exists := s.funcs[name]; exists {
		return false
	}
	s.funcs[name] = info
	return true
}

// LookupFunc searches this scope and its ancestors for a free function.
func (s *Scope) LookupFunc(name string) (*FuncInfo, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if f, ok := sc.funcs[name]; ok {
			return f, true
		}
	}
	return nil, false
}

// DeclareType adds a struct/enum declaration to this scope's type table.
func (s *Scope) DeclareType(name string, info *StructInfo) bool {
	if _, exists := s.types[name]; exists {
		return false
	}
	s.types[name] = info
	return true
}

// LookupType searches this scope and its ancestors for a declared type.
func (s *Scope) LookupType(name string) (*StructInfo, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if t, ok := sc.types[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// DeclareTrait adds a trait declaration to this scope's trait table.
func (s *Scope) DeclareTrait(name string, info *TraitInfo) bool {
	if _, exists := s.traits[name]; exists {
		return false
	}
	s.traits[name] = info
	return true
}

// LookupTrait searches this scope and its ancestors for a declared trait.
func (s *Scope) LookupTrait(name string) (*TraitInfo, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if t, ok := sc.traits[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// DeclareConst adds a constant to this scope's constant table.
func (s *Scope) DeclareConst(name string, info *ConstInfo) bool {
	if _, exists := s.consts[name]; exists {
		return false
	}
	s.consts[name] = info
	return true
}

// LookupConst searches this scope and its ancestors for a constant,
// consulted both for constant expressions and for resolving an array
// type's length when it is written as a const path.
func (s *Scope) LookupConst(name string) (*ConstInfo, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if c, ok := sc.consts[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// DeclareMethod adds an associated function keyed "Type::method" to the
// table shared by this scope's whole chain.
func (s *Scope) DeclareMethod(typeName, method string, info *FuncInfo) bool {
	key := typeName + "::" + method
	if _, exists := s.structFuncs[key]; exists {
		return false
	}
	s.structFuncs[key] = info
	return true
}

// LookupMethod resolves an associated function by qualified "Type::method"
// key. Associated functions are visible from any scope once declared, so
// this does not walk the parent chain; the table itself is shared.
func (s *Scope) LookupMethod(typeName, method string) (*FuncInfo, bool) {
	f, ok := s.structFuncs[typeName+"::"+method]
	return f, ok
}

// MarkForwardDeclared records that name's signature (but not yet body) has
// been processed in this scope's forward-declare pass.
func (s *Scope) MarkForwardDeclared(name string) { s.forwardDeclared[name] = true }

// IsForwardDeclared reports whether name was seen in this scope's
// forward-declare pass.
func (s *Scope) IsForwardDeclared(name string) bool { return s.forwardDeclared[name] }
