package parser

import (
	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/token"
)

// isTerminatorAfterDotDot reports whether the token following a bare `..`
// closes an enclosing construct, which is how a rest-pattern (as opposed
// to an open-ended range pattern) is recognized: `..` immediately before
// `)`, `]`, `}`, `,`, `=>`, `|`, or end of input has no right bound.
func isTerminatorAfterDotDot(t token.Token) bool {
	switch {
	case t.IsA(")"), t.IsA("]"), t.IsA("}"), t.IsA(","), t.IsA("=>"), t.IsA("|"):
		return true
	case t.Kind == token.EOF:
		return true
	}
	return false
}

// parsePattern is the top pattern level: `Pattern → PatternNoTopAlt (|
// PatternNoTopAlt)*`. Only this entry point ever consumes a
// top-level `|`; every recursive descent below goes through
// parsePatternNoTopAlt, so nested sub-patterns never see one. The AST
// has no or-pattern node: only the first alternative is returned.
func (p *Parser) parsePattern() ast.Pattern {
	first := p.parsePatternNoTopAlt()
	if !p.curTokenIs("|") {
		return first
	}
	// The remaining alternatives are parsed to advance the cursor and then
	// discarded; they are not checked against the first.
	for p.curTokenIs("|") {
		p.nextToken()
		p.parsePatternNoTopAlt()
	}
	return first
}

func (p *Parser) parsePatternNoTopAlt() ast.Pattern {
	tok := p.curToken()

	switch {
	case p.curTokenIs("_"):
		p.nextToken()
		return &ast.WildcardPattern{Tok: tok}

	case p.curTokenIs(".."):
		if isTerminatorAfterDotDot(p.peekToken()) {
			p.nextToken()
			return &ast.RestPattern{Tok: tok}
		}
		p.nextToken()
		to := p.parseRangeBoundPattern()
		return &ast.RangePattern{Tok: tok, Kind: ast.RangePatTo, To: to}

	case p.curTokenIs("..="):
		p.nextToken()
		to := p.parseRangeBoundPattern()
		return &ast.RangePattern{Tok: tok, Kind: ast.RangePatToInclusive, To: to}

	case p.curTokenIs("&"):
		p.nextToken()
		mut := false
		if p.curTokenIs("mut") {
			mut = true
			p.nextToken()
		}
		inner := p.parsePatternNoTopAlt()
		return &ast.ReferencePattern{Tok: tok, Depth: 1, Mut: mut, Inner: inner}

	case p.curTokenIs("&&"):
		p.nextToken()
		mut := false
		if p.curTokenIs("mut") {
			mut = true
			p.nextToken()
		}
		inner := p.parsePatternNoTopAlt()
		return &ast.ReferencePattern{Tok: tok, Depth: 2, Mut: mut, Inner: inner}

	case p.curTokenIs("("):
		return p.parseTupleOrGroupedPattern()

	case p.curTokenIs("["):
		return p.parseSlicePattern()

	case p.curTokenIs("ref") || p.curTokenIs("mut"):
		return p.parseBindingPattern()

	case p.curTokenIs("-") || isLiteralPatternStart(p.curToken()):
		base := p.parseLiteralPattern()
		return p.maybeWrapRangePattern(base)

	case p.curKindIs(token.IDENTIFIER) || p.curTokenIs("self") || p.curTokenIs("Self") ||
		p.curTokenIs("crate") || p.curTokenIs("super") || p.curTokenIs("::"):
		base := p.parsePathLikePattern()
		return p.maybeWrapRangePattern(base)

	default:
		base := p.parseLiteralPattern()
		return p.maybeWrapRangePattern(base)
	}
}

func isLiteralPatternStart(t token.Token) bool {
	switch t.Kind {
	case token.INTEGER, token.FLOAT, token.CHAR, token.STRING, token.RAW_STRING,
		token.BYTE, token.BYTE_STRING, token.RAW_BYTE_STRING, token.C_STRING, token.RAW_C_STRING:
		return true
	}
	return t.IsA("true") || t.IsA("false")
}

func (p *Parser) parseLiteralPattern() ast.Pattern {
	tok := p.curToken()
	negated := false
	if p.curTokenIs("-") {
		negated = true
		p.nextToken()
	}
	lit, ok := p.parseLiteralExpressionValue()
	if !ok {
		return &ast.WildcardPattern{Tok: tok}
	}
	return &ast.LiteralPattern{Tok: tok, Negated: negated, Lit: lit}
}

// parseRangeBoundPattern parses the bound on either side of a range
// pattern: a literal (with optional leading `-`) or a path.
func (p *Parser) parseRangeBoundPattern() ast.Pattern {
	if isLiteralPatternStart(p.curToken()) || p.curTokenIs("-") {
		return p.parseLiteralPattern()
	}
	return p.parsePathLikePattern()
}

// maybeWrapRangePattern checks for a trailing `..`, `..=`, or `...` after
// an already-parsed literal/path pattern and, if present, folds it into a
// RangePattern: `bound..` and `bound..bound` (both RangePatFrom), and
// `bound...bound` and `bound..=bound` (both RangePatBothInclusive). The
// `..bound` and `..=bound` forms are handled by parsePatternNoTopAlt.
func (p *Parser) maybeWrapRangePattern(base ast.Pattern) ast.Pattern {
	switch {
	case p.curTokenIs(".."):
		tok := p.curToken()
		p.nextToken()
		if isTerminatorAfterDotDot(p.curToken()) {
			return &ast.RangePattern{Tok: tok, Kind: ast.RangePatFrom, From: base}
		}
		to := p.parseRangeBoundPattern()
		return &ast.RangePattern{Tok: tok, Kind: ast.RangePatFrom, From: base, To: to}
	case p.curTokenIs("...") || p.curTokenIs("..="):
		tok := p.curToken()
		p.nextToken()
		to := p.parseRangeBoundPattern()
		return &ast.RangePattern{Tok: tok, Kind: ast.RangePatBothInclusive, From: base, To: to}
	}
	return base
}

// parseBindingPattern parses `ref? mut? ident (@ pattern)?`.
func (p *Parser) parseBindingPattern() ast.Pattern {
	tok := p.curToken()
	ref, mut := false, false
	if p.curTokenIs("ref") {
		ref = true
		p.nextToken()
	}
	if p.curTokenIs("mut") {
		mut = true
		p.nextToken()
	}
	name := p.curToken().Text
	p.nextToken()
	var sub ast.Pattern
	if p.curTokenIs("@") {
		p.nextToken()
		sub = p.parsePatternNoTopAlt()
	}
	return &ast.IdentifierPattern{Tok: tok, Ref: ref, Mut: mut, Name: name, SubPat: sub}
}

// parsePathLikePattern disambiguates a plain identifier pattern from a
// path pattern, a struct pattern, and a tuple-struct pattern, all of
// which start with a path (the identifier-prefix ambiguity, applied
// to the pattern grammar).
func (p *Parser) parsePathLikePattern() ast.Pattern {
	tok := p.curToken()
	path := p.parsePath()

	if p.curTokenIs("{") {
		return p.parseStructPatternBody(tok, path)
	}
	if p.curTokenIs("(") {
		return p.parseTupleStructPatternBody(tok, path)
	}
	if len(path.Segments) == 1 && !path.Absolute {
		name := path.Segments[0]
		var sub ast.Pattern
		if p.curTokenIs("@") {
			p.nextToken()
			sub = p.parsePatternNoTopAlt()
		}
		return &ast.IdentifierPattern{Tok: tok, Name: name, SubPat: sub}
	}
	return &ast.PathPattern{Tok: tok, Path: path}
}

func (p *Parser) parseStructPatternBody(tok token.Token, path *ast.Path) ast.Pattern {
	p.nextToken() // consume {
	pat := &ast.StructPattern{Tok: tok, Path: path}
	for !p.curTokenIs("}") {
		if p.curTokenIs("..") {
			pat.HasRest = true
			p.nextToken()
			break
		}
		fieldName := p.curToken().Text
		p.nextToken()
		var fieldPat ast.Pattern
		if p.curTokenIs(":") {
			p.nextToken()
			fieldPat = p.parsePattern()
		} else {
			fieldPat = &ast.IdentifierPattern{Tok: tok, Name: fieldName}
		}
		pat.Fields = append(pat.Fields, ast.StructPatternField{Name: fieldName, Pattern: fieldPat})
		if p.curTokenIs(",") {
			p.nextToken()
			continue
		}
		break
	}
	p.expect("}")
	return pat
}

func (p *Parser) parseTupleStructPatternBody(tok token.Token, path *ast.Path) ast.Pattern {
	p.nextToken() // consume (
	pat := &ast.TupleStructPattern{Tok: tok, Path: path}
	for !p.curTokenIs(")") {
		pat.Elements = append(pat.Elements, p.parsePattern())
		if p.curTokenIs(",") {
			p.nextToken()
			continue
		}
		break
	}
	p.expect(")")
	return pat
}

func (p *Parser) parseTupleOrGroupedPattern() ast.Pattern {
	tok := p.curToken()
	p.nextToken() // consume (
	if p.curTokenIs(")") {
		p.nextToken()
		return &ast.TuplePattern{Tok: tok}
	}
	first := p.parsePattern()
	if p.curTokenIs(",") {
		elems := []ast.Pattern{first}
		for p.curTokenIs(",") {
			p.nextToken()
			if p.curTokenIs(")") {
				break
			}
			elems = append(elems, p.parsePattern())
		}
		p.expect(")")
		return &ast.TuplePattern{Tok: tok, Elements: elems}
	}
	p.expect(")")
	return &ast.GroupedPattern{Tok: tok, Inner: first}
}

func (p *Parser) parseSlicePattern() ast.Pattern {
	tok := p.curToken()
	p.nextToken() // consume [
	var elems []ast.Pattern
	for !p.curTokenIs("]") {
		elems = append(elems, p.parsePattern())
		if p.curTokenIs(",") {
			p.nextToken()
			continue
		}
		break
	}
	p.expect("]")
	return &ast.SlicePattern{Tok: tok, Elements: elems}
}
