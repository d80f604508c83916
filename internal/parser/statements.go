package parser

import (
	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
)

// parseStatement parses an empty, let, or expression statement at a
// top-level or module-body position, reached through parseTopLevelNode
// when no item is parsed there (inside a block, parseBlock handles
// statements inline so it can make the tail-expression decision).
func (p *Parser) parseStatement() ast.Node {
	switch {
	case p.curTokenIs(";"):
		tok := p.curToken()
		p.nextToken()
		return &ast.EmptyStatement{Tok: tok}
	case p.curTokenIs("let"):
		return p.parseLetStatement()
	}
	exprTok := p.curToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if p.curTokenIs(";") {
		p.nextToken()
	}
	return &ast.ExpressionStatement{Tok: exprTok, Expr: expr}
}

// parseLetStatement parses `let pattern (: Type)? (= expr (else block)?)?;`.
func (p *Parser) parseLetStatement() *ast.LetStatement {
	tok := p.curToken()
	p.nextToken() // consume let
	pattern := p.parsePattern()

	stmt := &ast.LetStatement{Tok: tok, Pattern: pattern}

	if p.curTokenIs(":") {
		p.nextToken()
		stmt.Type = p.parseType()
	}
	if p.curTokenIs("=") {
		p.nextToken()
		stmt.Init = p.parseExpression(LOWEST)
		if p.curTokenIs("else") {
			p.nextToken()
			stmt.ElseBlock = p.parseBlock()
		}
	}
	if !p.curTokenIs(";") {
		p.errorf(diagnostics.ErrP001, p.curToken(), ";", p.curToken().Text)
	} else {
		p.nextToken()
	}
	return stmt
}
