package irgen

import (
	"fmt"
	"strings"

	"github.com/zenith9320/rcompiler-go/internal/ast"
)

// collectStructLayouts walks the top-level items and registers every
// declared struct's field order and LLVM field types, in source order
// ("all struct type declarations first, in source order").
func (g *Generator) collectStructLayouts(nodes []ast.Node) {
	for _, n := range nodes {
		item, ok := n.(ast.Item)
		if !ok {
			continue
		}
		switch s := item.(type) {
		case *ast.StructStruct:
			sl := &structLayout{Name: s.Name}
			for _, f := range s.Fields {
				sl.FieldNames = append(sl.FieldNames, f.Name)
				sl.FieldTypes = append(sl.FieldTypes, g.llvmTypeOfAST(f.Type))
			}
			g.structLayouts[s.Name] = sl
			g.structOrder = append(g.structOrder, s.Name)
		case *ast.TupleStruct:
			sl := &structLayout{Name: s.Name}
			for i, t := range s.FieldTypes {
				sl.FieldNames = append(sl.FieldNames, tupleFieldName(i))
				sl.FieldTypes = append(sl.FieldTypes, g.llvmTypeOfAST(t))
			}
			g.structLayouts[s.Name] = sl
			g.structOrder = append(g.structOrder, s.Name)
		case *ast.Enumeration:
			for i, v := range s.Variants {
				g.enumVariants[s.Name+"::"+v.Name] = enumVariant{Enum: s.Name, Disc: int64(i)}
			}
		case *ast.Module:
			g.collectStructLayouts(s.Items)
		}
	}
}

func tupleFieldName(i int) string { return fmt.Sprintf("%d", i) }

// llvmTypeOfAST renders an AST type node directly to its LLVM spelling,
// used while collecting struct layouts before any canonical-string type
// table exists.
func (g *Generator) llvmTypeOfAST(t ast.Type) string {
	switch n := t.(type) {
	case *ast.TypePath:
		return g.llvmTypeOf(strings.Join(n.Path.Segments, "::"))
	case *ast.ReferenceType:
		return g.llvmTypeOfAST(n.Inner) + "*"
	case *ast.ArrayType:
		length := g.constArrayLength(n.Length)
		if length < 0 {
			length = 0
		}
		return fmt.Sprintf("[%d x %s]", length, g.llvmTypeOfAST(n.Elem))
	case *ast.SliceType:
		return g.llvmTypeOfAST(n.Elem) + "*"
	case *ast.TupleType:
		parts := make([]string, len(n.Elems))
		for i, e := range n.Elems {
			parts[i] = g.llvmTypeOfAST(e)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *ast.ParenthesizedType:
		return g.llvmTypeOfAST(n.Inner)
	case *ast.NeverType:
		return "void"
	}
	return "i32"
}

// llvmTypeOf maps a canonical front-end type string to its LLVM
// spelling. u32 is represented internally as i64 so unsigned arithmetic
// cannot overflow the signed 32-bit range.
func (g *Generator) llvmTypeOf(canon string) string {
	canon = strings.TrimSpace(canon)
	switch {
	case canon == "":
		return "i32"
	case canon == "&str" || canon == "&[u8]":
		return "i8*"
	case strings.HasPrefix(canon, "&mut "):
		return g.llvmTypeOf(canon[len("&mut "):]) + "*"
	case strings.HasPrefix(canon, "&"):
		return g.llvmTypeOf(canon[1:]) + "*"
	}
	switch canon {
	case "i8", "u8":
		return "i8"
	case "i16", "u16":
		return "i16"
	case "i32":
		return "i32"
	case "u32":
		return "i64" // represented as i64 internally
	case "i64", "u64", "isize", "usize":
		return "i64"
	case "i128", "u128":
		return "i128"
	case "f32":
		return "float"
	case "f64":
		return "double"
	case "bool":
		return "i1"
	case "char":
		return "i32"
	case "&str", "&[u8]":
		return "i8*"
	case "()", "!":
		return "void"
	}
	if strings.HasPrefix(canon, "[") && strings.HasSuffix(canon, "]") {
		inner := canon[1 : len(canon)-1]
		if i := strings.LastIndex(inner, "; "); i >= 0 {
			var n int
			fmt.Sscanf(inner[i+2:], "%d", &n)
			return fmt.Sprintf("[%d x %s]", n, g.llvmTypeOf(inner[:i]))
		}
		return g.llvmTypeOf(inner) + "*"
	}
	if strings.HasPrefix(canon, "(") && strings.HasSuffix(canon, ")") {
		inner := canon[1 : len(canon)-1]
		parts := splitTopLevel(inner)
		llParts := make([]string, len(parts))
		for i, p := range parts {
			llParts[i] = g.llvmTypeOf(p)
		}
		return "{ " + strings.Join(llParts, ", ") + " }"
	}
	if _, ok := g.structLayouts[canon]; ok {
		return "%" + canon
	}
	return "i32"
}

// expandStructType transitively rewrites any `%S` occurrence inside t to
// its structural `{... }` form, needed wherever an instruction's
// operand type must be structural rather than a named alias.
func (g *Generator) expandStructType(t string) string {
	if strings.HasPrefix(t, "%") {
		name := strings.TrimSuffix(t, "*")
		ptr := strings.HasSuffix(t, "*")
		bare := strings.TrimPrefix(name, "%")
		if sl, ok := g.structLayouts[bare]; ok {
			expanded := "{ " + strings.Join(sl.FieldTypes, ", ") + " }"
			if ptr {
				expanded += "*"
			}
			return expanded
		}
	}
	return t
}

func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if start < len(s) {
		parts = append(parts, strings.TrimSpace(s[start:]))
	}
	return parts
}
