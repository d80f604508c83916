package parser

import (
	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/token"
)

// looksLikeItem is a cheap lookahead guard used before attempting
// parseItem at a position where either an item or a statement/expression
// could legally start (the item-then-statement-then-expression try
// order).
func (p *Parser) looksLikeItem() bool {
	switch {
	case p.curTokenIs("fn"), p.curTokenIs("struct"), p.curTokenIs("enum"),
		p.curTokenIs("trait"), p.curTokenIs("impl"), p.curTokenIs("mod"),
		p.curTokenIs("const"), p.curTokenIs("extern"):
		return true
	case p.curTokenIs("async"):
		return p.peekTokenIs("fn")
	case p.curTokenIs("unsafe"):
		// `unsafe fn` / `unsafe impl` / `unsafe trait`; a bare `unsafe {`
		// opens an expression block, not an item.
		return p.peekTokenIs("fn") || p.peekTokenIs("impl") || p.peekTokenIs("trait")
	}
	return false
}

// parseItem dispatches to the nine item variants.
func (p *Parser) parseItem() ast.Item {
	isConst, isAsync, isUnsafe, isExtern, abi := p.parseItemQualifiers()

	switch {
	case p.curTokenIs("fn"):
		return p.parseFunction(isConst, isAsync, isUnsafe, isExtern, abi, "")
	case p.curTokenIs("struct"):
		return p.parseStruct()
	case p.curTokenIs("enum"):
		return p.parseEnum()
	case p.curTokenIs("const"):
		return p.parseConstantItem()
	case p.curTokenIs("trait"):
		return p.parseTrait(isUnsafe)
	case p.curTokenIs("impl"):
		return p.parseImpl()
	case p.curTokenIs("mod"):
		return p.parseModule()
	}
	p.errorf(diagnostics.ErrP005, p.curToken())
	return nil
}

// parseItemQualifiers consumes the qualifier keywords that can precede an
// item ("qualifier flags (const, async, unsafe, extern, abi)").
func (p *Parser) parseItemQualifiers() (isConst, isAsync, isUnsafe, isExtern bool, abi string) {
	for {
		switch {
		case p.curTokenIs("const") && p.peekTokenIs("fn"):
			isConst = true
			p.nextToken()
		case p.curTokenIs("async"):
			isAsync = true
			p.nextToken()
		case p.curTokenIs("unsafe") && (p.peekTokenIs("fn") || p.peekTokenIs("impl") || p.peekTokenIs("trait")):
			isUnsafe = true
			p.nextToken()
		case p.curTokenIs("extern"):
			isExtern = true
			p.nextToken()
			if p.curKindIs(token.STRING) {
				abi = p.curToken().Text
				p.nextToken()
			}
		default:
			return
		}
	}
}

func (p *Parser) parseFunction(isConst, isAsync, isUnsafe, isExtern bool, abi, implPrefix string) *ast.Function {
	tok := p.curToken()
	p.nextToken() // consume fn
	name := p.curToken().Text
	p.nextToken()
	if p.curTokenIs("<") {
		p.skipTypeArgs()
	}
	p.expect("(")
	params := p.parseParameterList()

	var retType ast.Type
	if p.curTokenIs("->") {
		p.nextToken()
		retType = p.parseType()
	}

	var body *ast.BlockExpression
	if p.curTokenIs("{") {
		body = p.parseBlock()
	} else {
		p.expect(";")
	}

	return &ast.Function{
		Tok: tok, Name: name, IsConst: isConst, IsAsync: isAsync, IsUnsafe: isUnsafe,
		IsExtern: isExtern, ABI: abi, Params: params, ReturnType: retType, Body: body,
		ImplTypePrefix: implPrefix,
	}
}

// parseParameterList parses the comma-separated parameters up to and
// including the closing ")"; the caller has already consumed "(".
func (p *Parser) parseParameterList() []*ast.Parameter {
	var params []*ast.Parameter
	for !p.curTokenIs(")") {
		param := p.parseParameter()
		if param != nil {
			params = append(params, param)
		}
		if p.curTokenIs(",") {
			p.nextToken()
			continue
		}
		break
	}
	p.expect(")")
	return params
}

func (p *Parser) parseParameter() *ast.Parameter {
	tok := p.curToken()
	if p.curTokenIs("&") {
		save := p.savePosition()
		p.nextToken()
		mut := false
		if p.curTokenIs("mut") {
			mut = true
			p.nextToken()
		}
		if p.curTokenIs("self") {
			p.nextToken()
			return &ast.Parameter{Tok: tok, IsSelf: true, SelfRef: true, SelfMut: mut}
		}
		p.restorePosition(save)
	}
	if p.curTokenIs("mut") && p.peekTokenIs("self") {
		p.nextToken()
		p.nextToken()
		return &ast.Parameter{Tok: tok, IsSelf: true, SelfMut: true}
	}
	if p.curTokenIs("self") {
		p.nextToken()
		return &ast.Parameter{Tok: tok, IsSelf: true}
	}

	// Plain `name: Type`, allowing an irrefutable pattern in name position
	// (only simple identifiers are meaningful for later binding, so the
	// parameter name is read directly rather than through parsePattern).
	mut := false
	if p.curTokenIs("mut") {
		mut = true
		p.nextToken()
	}
	name := p.curToken().Text
	p.nextToken()
	p.expect(":")
	t := p.parseType()
	return &ast.Parameter{Tok: tok, Name: name, Type: t, Mut: mut}
}

func (p *Parser) parseStruct() ast.Item {
	tok := p.curToken()
	p.nextToken() // consume struct
	name := p.curToken().Text
	p.nextToken()
	if p.curTokenIs("<") {
		p.skipTypeArgs()
	}

	if p.curTokenIs("(") {
		p.nextToken()
		var types []ast.Type
		for !p.curTokenIs(")") {
			types = append(types, p.parseType())
			if p.curTokenIs(",") {
				p.nextToken()
				continue
			}
			break
		}
		p.expect(")")
		p.expect(";")
		return &ast.TupleStruct{Tok: tok, Name: name, FieldTypes: types}
	}

	if p.curTokenIs(";") {
		p.nextToken()
		return &ast.StructStruct{Tok: tok, Name: name}
	}

	p.expect("{")
	s := &ast.StructStruct{Tok: tok, Name: name}
	for !p.curTokenIs("}") {
		fieldName := p.curToken().Text
		p.nextToken()
		p.expect(":")
		fieldType := p.parseType()
		s.Fields = append(s.Fields, ast.Field{Name: fieldName, Type: fieldType})
		if p.curTokenIs(",") {
			p.nextToken()
			continue
		}
		break
	}
	p.expect("}")
	return s
}

func (p *Parser) parseEnum() ast.Item {
	tok := p.curToken()
	p.nextToken() // consume enum
	name := p.curToken().Text
	p.nextToken()
	if p.curTokenIs("<") {
		p.skipTypeArgs()
	}
	p.expect("{")
	e := &ast.Enumeration{Tok: tok, Name: name}
	for !p.curTokenIs("}") {
		variantName := p.curToken().Text
		p.nextToken()
		variant := ast.EnumVariant{Name: variantName}
		if p.curTokenIs("(") {
			p.nextToken()
			for !p.curTokenIs(")") {
				variant.TupleTypes = append(variant.TupleTypes, p.parseType())
				if p.curTokenIs(",") {
					p.nextToken()
					continue
				}
				break
			}
			p.expect(")")
		}
		if p.curTokenIs("=") {
			p.nextToken()
			p.parseExpression(LOWEST) // discriminant value, not modeled further
		}
		e.Variants = append(e.Variants, variant)
		if p.curTokenIs(",") {
			p.nextToken()
			continue
		}
		break
	}
	p.expect("}")
	return e
}

func (p *Parser) parseConstantItem() ast.Item {
	tok := p.curToken()
	p.nextToken() // consume const
	name := p.curToken().Text
	p.nextToken()
	p.expect(":")
	t := p.parseType()
	p.expect("=")
	init := p.parseExpression(LOWEST)
	p.expect(";")
	return &ast.ConstantItem{Tok: tok, Name: name, Type: t, Init: init}
}

func (p *Parser) parseTrait(isUnsafe bool) ast.Item {
	tok := p.curToken()
	p.nextToken() // consume trait
	name := p.curToken().Text
	p.nextToken()
	if p.curTokenIs("<") {
		p.skipTypeArgs()
	}
	var super ast.Type
	if p.curTokenIs(":") {
		p.nextToken()
		super = p.parseType()
	}
	p.expect("{")
	trait := &ast.Trait{Tok: tok, Name: name, SuperTrait: super}
	for !p.curTokenIs("}") && !p.curKindIs(token.EOF) {
		p.skipAttributes()
		if p.curTokenIs("}") {
			break
		}
		item := p.parseItem()
		if item != nil {
			trait.Items = append(trait.Items, item)
		} else {
			p.nextToken()
		}
	}
	p.expect("}")
	_ = isUnsafe
	return trait
}

// parseImpl disambiguates inherent vs. trait impl by speculatively
// parsing a type, then checking for `for` (the "inherent-vs-trait
// impl" backtracking case, here resolved with a single token of
// lookahead after the type rather than a full restore, since the type
// grammar cannot itself contain a bare `for`).
func (p *Parser) parseImpl() ast.Item {
	tok := p.curToken()
	p.nextToken() // consume impl
	if p.curTokenIs("<") {
		p.skipTypeArgs()
	}
	first := p.parseType()

	if p.curTokenIs("for") {
		p.nextToken()
		target := p.parseType()
		traitPath := typeToPath(first)
		return p.parseImplBody(tok, target, traitPath)
	}
	return p.parseImplBody(tok, first, nil)
}

func typeToPath(t ast.Type) *ast.Path {
	if tp, ok := t.(*ast.TypePath); ok {
		return tp.Path
	}
	return &ast.Path{Tok: t.Pos()}
}

func (p *Parser) parseImplBody(tok token.Token, target ast.Type, traitPath *ast.Path) ast.Item {
	prefix := canonicalImplPrefix(target)
	p.expect("{")
	var items []ast.Item
	for !p.curTokenIs("}") && !p.curKindIs(token.EOF) {
		p.skipAttributes()
		if p.curTokenIs("}") {
			break
		}
		isConst, isAsync, isUnsafe, isExtern, abi := p.parseItemQualifiers()
		var item ast.Item
		switch {
		case p.curTokenIs("fn"):
			item = p.parseFunction(isConst, isAsync, isUnsafe, isExtern, abi, prefix)
		case p.curTokenIs("const"):
			item = p.parseConstantItem()
		default:
			p.errorf(diagnostics.ErrP005, p.curToken())
			p.nextToken()
		}
		if item != nil {
			items = append(items, item)
		}
	}
	p.expect("}")
	if traitPath != nil {
		return &ast.TraitImpl{Tok: tok, TraitPath: traitPath, Type: target, Items: items}
	}
	return &ast.InherentImpl{Tok: tok, Type: target, Items: items}
}

// canonicalImplPrefix derives the mangling prefix for methods
// declared inside this impl block: the impl type's path name, with any
// leading reference stripped.
func canonicalImplPrefix(t ast.Type) string {
	for {
		if ref, ok := t.(*ast.ReferenceType); ok {
			t = ref.Inner
			continue
		}
		break
	}
	if tp, ok := t.(*ast.TypePath); ok && len(tp.Path.Segments) > 0 {
		return tp.Path.Segments[len(tp.Path.Segments)-1]
	}
	return ""
}

// parseModule hoists its nested items into a flat list rather than a
// separate namespace: there is no module system beyond flat item lists,
// so the checker treats a Module's Items exactly as if they were inlined
// at the enclosing scope (see analyzer/declarations.go).
func (p *Parser) parseModule() ast.Item {
	tok := p.curToken()
	p.nextToken() // consume mod
	name := p.curToken().Text
	p.nextToken()
	if p.curTokenIs(";") {
		p.nextToken()
		return &ast.Module{Tok: tok, Name: name}
	}
	p.expect("{")
	mod := &ast.Module{Tok: tok, Name: name}
	for !p.curTokenIs("}") && !p.curKindIs(token.EOF) {
		p.skipAttributes()
		if p.curTokenIs("}") {
			break
		}
		node := p.parseTopLevelNode()
		if node != nil {
			mod.Items = append(mod.Items, node)
		} else {
			p.nextToken()
		}
	}
	p.expect("}")
	return mod
}
