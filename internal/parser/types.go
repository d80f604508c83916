package parser

import (
	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/token"
)

// parseType is the recursive-descent entry point for the nine type
// variants.
func (p *Parser) parseType() ast.Type {
	tok := p.curToken()
	switch {
	case p.curTokenIs("&"):
		p.nextToken()
		mutable := false
		if p.curTokenIs("mut") {
			mutable = true
			p.nextToken()
		}
		inner := p.parseType()
		return &ast.ReferenceType{Tok: tok, Mutable: mutable, Inner: inner}

	case p.curTokenIs("["):
		p.nextToken()
		elem := p.parseType()
		if p.curTokenIs(";") {
			p.nextToken()
			length := p.parseExpression(LOWEST)
			if !p.expect("]") {
				return nil
			}
			return &ast.ArrayType{Tok: tok, Elem: elem, Length: length}
		}
		if !p.expect("]") {
			return nil
		}
		return &ast.SliceType{Tok: tok, Elem: elem}

	case p.curTokenIs("("):
		p.nextToken()
		if p.curTokenIs(")") {
			p.nextToken()
			return &ast.TupleType{Tok: tok}
		}
		first := p.parseType()
		if p.curTokenIs(",") {
			elems := []ast.Type{first}
			for p.curTokenIs(",") {
				p.nextToken()
				if p.curTokenIs(")") {
					break
				}
				elems = append(elems, p.parseType())
			}
			if !p.curTokenIs(")") {
				p.errorf(diagnostics.ErrP001, p.curToken(), ")", p.curToken().Text)
				return nil
			}
			p.nextToken()
			return &ast.TupleType{Tok: tok, Elems: elems}
		}
		if !p.curTokenIs(")") {
			p.errorf(diagnostics.ErrP001, p.curToken(), ")", p.curToken().Text)
			return nil
		}
		p.nextToken()
		return &ast.ParenthesizedType{Tok: tok, Inner: first}

	case p.curTokenIs("!"):
		p.nextToken()
		return &ast.NeverType{Tok: tok}

	case p.curTokenIs("_"):
		p.nextToken()
		return &ast.InferredType{Tok: tok}

	case p.curTokenIs("<"):
		// Qualified path type: `<Type as Path>::segment::...`
		p.nextToken()
		base := p.parseType()
		var asPath *ast.Path
		if p.curTokenIs("as") {
			p.nextToken()
			asPath = p.parsePath()
		}
		if !p.expect(">") {
			return nil
		}
		segs := []string{}
		for p.curTokenIs("::") {
			p.nextToken()
			segs = append(segs, p.curToken().Text)
			p.nextToken()
		}
		return &ast.QualifiedPathType{Tok: tok, Base: base, AsPath: asPath, Segments: segs}

	default:
		path := p.parsePath()
		if path == nil {
			return nil
		}
		return &ast.TypePath{Tok: tok, Path: path}
	}
}

// parsePath parses a (possibly absolute, possibly `::`-joined) path. Type
// arguments after a segment are not consumed: looksLikeTypeArgs always
// reports false, so a `<` after a segment is left to the caller.
func (p *Parser) parsePath() *ast.Path {
	tok := p.curToken()
	path := &ast.Path{Tok: tok}
	if p.curTokenIs("::") {
		path.Absolute = true
		p.nextToken()
	}
	for {
		seg := p.curToken().Text
		path.Segments = append(path.Segments, seg)
		p.nextToken()
		if p.curTokenIs("<") && p.looksLikeTypeArgs() {
			p.skipTypeArgs()
		}
		if p.curTokenIs("::") {
			p.nextToken()
			continue
		}
		break
	}
	return path
}

// looksLikeTypeArgs decides whether a `<` after a path segment opens a
// type-argument list. It always reports false, so `a < b` is never
// misparsed as a path; type arguments are skipped (by skipTypeArgs) only
// after the name in an item header.
func (p *Parser) looksLikeTypeArgs() bool {
	return false // generics parsing is intentionally not attempted; see skipTypeArgs
}

func (p *Parser) skipTypeArgs() {
	depth := 0
	for !p.curKindIs(token.EOF) {
		if p.curTokenIs("<") {
			depth++
		} else if p.curTokenIs(">") {
			depth--
			if depth == 0 {
				p.nextToken()
				return
			}
		}
		p.nextToken()
	}
}
