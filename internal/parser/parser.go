// Package parser implements a Pratt parser layered over a
// recursive-descent driver: two tables of prefix/infix parselets keyed
// by {kind, text} drive expression parsing, while items, statements,
// types, and patterns are parsed by plain recursive descent.
package parser

import (
	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/pipeline"
	"github.com/zenith9320/rcompiler-go/internal/token"
)

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Precedence ranks ("higher binds tighter"). Values are spaced to
// leave room for the half-step the table calls out (`^` at 21.5, scaled
// here by 10 to stay in integers).
const (
	LOWEST      = 0
	ASSIGN      = 100
	LOGIC_OR    = 160
	LOGIC_AND   = 170
	EQUALS      = 200
	BITWISE_OR  = 210
	BITWISE_XOR = 215
	COMPARISON  = 220 // `&` shares rank 22 with comparison per the table
	SHIFT       = 230
	SUM         = 240
	PRODUCT     = 250
	INDEX       = 300
	AS_CAST     = 390
	FIELD       = 400
	CALL        = 500
)

var precedences = map[string]int{
	"=": ASSIGN, "+=": ASSIGN, "-=": ASSIGN, "*=": ASSIGN, "/=": ASSIGN,
	"%=": ASSIGN, "&=": ASSIGN, "|=": ASSIGN, "^=": ASSIGN, "<<=": ASSIGN, ">>=": ASSIGN,

	"||": LOGIC_OR,
	"&&": LOGIC_AND,

	"==": EQUALS, "!=": EQUALS,

	"|": BITWISE_OR,
	"^": BITWISE_XOR,

	"<": COMPARISON, "<=": COMPARISON, ">": COMPARISON, ">=": COMPARISON, "&": COMPARISON,

	"<<": SHIFT, ">>": SHIFT,

	"+": SUM, "-": SUM,

	"*": PRODUCT, "/": PRODUCT, "%": PRODUCT,

	"as": AS_CAST,

	"[": INDEX,

	".": FIELD,

	"(": CALL,

	"..": LOWEST + 1, "..=": LOWEST + 1,
}

// rightAssociative marks the operators whose infix parselet must
// recurse at (precedence - 1) rather than precedence, so a chain like
// `a = b = c` nests as `a = (b = c)`.
var rightAssociative = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true,
	"%=": true, "&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

// Parser holds the mutable state of a single parse. Rather than relying on
// the TokenStream's own lookahead buffer for backtracking, the parser
// pulls tokens into its own growable slice and tracks a cursor into it:
// save/restore then reduces to saving and restoring an integer,
// with every already-seen token still available for replay.
type Parser struct {
	stream pipeline.TokenStream
	unit   *pipeline.Unit

	tokens []token.Token
	pos    int

	prefixParseFns map[string]prefixParseFn
	infixParseFns  map[string]infixParseFn

	// inCondition disallows struct-literal/assignment/lazy-boolean/range
	// expressions at the top level while parsing an if/while condition.
	inCondition bool
}

// New constructs a Parser over stream and primes the lookahead.
func New(stream pipeline.TokenStream, unit *pipeline.Unit) *Parser {
	p := &Parser{stream: stream, unit: unit}

	p.prefixParseFns = make(map[string]prefixParseFn)
	p.registerPrefix(string(token.INTEGER), p.parseIntegerLiteral)
	p.registerPrefix(string(token.FLOAT), p.parseFloatLiteral)
	p.registerPrefix("true", p.parseBoolLiteral)
	p.registerPrefix("false", p.parseBoolLiteral)
	p.registerPrefix(string(token.CHAR), p.parseCharLiteral)
	p.registerPrefix(string(token.STRING), p.parseStringLiteral)
	p.registerPrefix(string(token.RAW_STRING), p.parseStringLiteral)
	p.registerPrefix(string(token.BYTE), p.parseByteLiteral)
	p.registerPrefix(string(token.BYTE_STRING), p.parseByteStringLiteral)
	p.registerPrefix(string(token.RAW_BYTE_STRING), p.parseByteStringLiteral)
	p.registerPrefix(string(token.C_STRING), p.parseStringLiteral)
	p.registerPrefix(string(token.RAW_C_STRING), p.parseStringLiteral)
	p.registerPrefix(string(token.IDENTIFIER), p.parseIdentifierOrStructLiteral)
	p.registerPrefix("self", p.parseIdentifierOrStructLiteral)
	p.registerPrefix("Self", p.parseIdentifierOrStructLiteral)
	p.registerPrefix("crate", p.parseIdentifierOrStructLiteral)
	p.registerPrefix("super", p.parseIdentifierOrStructLiteral)
	p.registerPrefix("::", p.parseIdentifierOrStructLiteral)
	p.registerPrefix("_", p.parseUnderscore)
	p.registerPrefix("(", p.parseGroupedOrTupleExpression)
	p.registerPrefix("[", p.parseArrayExpression)
	p.registerPrefix("{", p.parseBlockAsExpression)
	p.registerPrefix("if", p.parseIfExpression)
	p.registerPrefix("while", p.parseWhileExpression)
	p.registerPrefix("loop", p.parseLoopExpression)
	p.registerPrefix("match", p.parseMatchExpression)
	p.registerPrefix("unsafe", p.parseUnsafeBlockExpression)
	p.registerPrefix("return", p.parseReturnExpression)
	p.registerPrefix("break", p.parseBreakExpression)
	p.registerPrefix("continue", p.parseContinueExpression)
	p.registerPrefix("-", p.parsePrefixNegation)
	p.registerPrefix("!", p.parsePrefixNot)
	p.registerPrefix("*", p.parsePrefixDereference)
	p.registerPrefix("&", p.parsePrefixBorrow)
	p.registerPrefix("&&", p.parsePrefixDoubleBorrow)
	p.registerPrefix("..", p.parsePrefixRange)
	p.registerPrefix("..=", p.parsePrefixRange)

	p.infixParseFns = make(map[string]infixParseFn)
	for _, op := range []string{"+", "-", "*", "/", "%", "&", "|", "^", "<<", ">>"} {
		p.registerInfix(op, p.parseArithmeticOrLogicalExpression)
	}
	for _, op := range []string{"==", "!=", "<", "<=", ">", ">="} {
		p.registerInfix(op, p.parseComparisonExpression)
	}
	p.registerInfix("&&", p.parseLazyBooleanExpression)
	p.registerInfix("||", p.parseLazyBooleanExpression)
	p.registerInfix("=", p.parseAssignmentExpression)
	for _, op := range []string{"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>="} {
		p.registerInfix(op, p.parseCompoundAssignmentExpression)
	}
	p.registerInfix("as", p.parseTypeCastExpression)
	p.registerInfix(".", p.parseDotExpression)
	p.registerInfix("[", p.parseIndexExpression)
	p.registerInfix("(", p.parseCallExpression)
	for _, op := range []string{"..", "..="} {
		p.registerInfix(op, p.parseInfixRange)
	}

	p.fill(1)
	return p
}

func (p *Parser) registerPrefix(key string, fn prefixParseFn) { p.prefixParseFns[key] = fn }
func (p *Parser) registerInfix(key string, fn infixParseFn)   { p.infixParseFns[key] = fn }

// dispatchKey computes the Pratt-table key for t: punctuation, delimiters,
// and strict keywords dispatch on their literal text; everything else
// (identifiers, literals) dispatches on its Kind. A bare `_` scans as an
// identifier but dispatches on its text so the underscore parselet wins.
func dispatchKey(t token.Token) string {
	if t.Kind == token.IDENTIFIER && t.Text == "_" {
		return "_"
	}
	switch t.Kind {
	case token.PUNCTUATION, token.DELIMITER, token.RESERVED_TOKEN, token.STRICT_KEYWORD:
		return t.Text
	default:
		return string(t.Kind)
	}
}

// fill ensures at least n+1 tokens (indices 0..n) are buffered.
func (p *Parser) fill(n int) {
	for len(p.tokens) <= n {
		t := p.stream.Next()
		p.tokens = append(p.tokens, t)
		if t.Kind == token.EOF {
			// Keep re-appending EOF so fill never needs to special-case
			// running off the end of a finite token sequence.
			for len(p.tokens) <= n {
				p.tokens = append(p.tokens, t)
			}
			break
		}
	}
}

func (p *Parser) curToken() token.Token {
	p.fill(p.pos)
	return p.tokens[p.pos]
}

func (p *Parser) peekToken() token.Token {
	p.fill(p.pos + 1)
	return p.tokens[p.pos+1]
}

func (p *Parser) nextToken() { p.pos++; p.fill(p.pos) }

func (p *Parser) curTokenIs(text string) bool  { return p.curToken().IsA(text) }
func (p *Parser) peekTokenIs(text string) bool { return p.peekToken().IsA(text) }
func (p *Parser) curKindIs(k token.Kind) bool  { return p.curToken().Kind == k }

// expect consumes the current token if its text is text, otherwise records
// a P001 and leaves the cursor where it is so the caller can recover.
func (p *Parser) expect(text string) bool {
	if p.curTokenIs(text) {
		p.nextToken()
		return true
	}
	p.errorf(diagnostics.ErrP001, p.curToken(), text, p.curToken().Text)
	return false
}

func (p *Parser) errorf(code diagnostics.Code, pos token.Token, args ...interface{}) {
	p.unit.Fail(diagnostics.New(diagnostics.PhaseParser, code, pos, args...))
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[dispatchKey(p.curToken())]; ok {
		return prec
	}
	return LOWEST
}

// savePosition and restorePosition implement the save-position /
// restore-position primitives: since every token the parser has
// ever seen stays in p.tokens, rewinding is just resetting the cursor.
func (p *Parser) savePosition() int { return p.pos }

func (p *Parser) restorePosition(saved int) { p.pos = saved }

// ParseProgram parses the entire token stream into a flat top-level
// sequence of Item, Statement, or Expression nodes ("item →
// statement → expression at each position").
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curKindIs(token.EOF) {
		p.skipAttributes()
		if p.curKindIs(token.EOF) {
			break
		}
		node := p.parseTopLevelNode()
		if node != nil {
			program.Items = append(program.Items, node)
			continue
		}
		// All three attempts failed at this position: record a
		// fatal diagnostic and advance one token to avoid looping forever.
		p.errorf(diagnostics.ErrP005, p.curToken())
		p.nextToken()
	}
	return program
}

// parseTopLevelNode tries item, then statement, then expression,
// rolling back between attempts. Diagnostics recorded during an
// abandoned item attempt are discarded along with its partial tree
// (aborted branches leave no side effects beyond cursor motion).
func (p *Parser) parseTopLevelNode() ast.Node {
	if p.looksLikeItem() {
		saved := p.savePosition()
		errMark := len(p.unit.Errors)
		if item := p.parseItem(); item != nil {
			return item
		}
		p.restorePosition(saved)
		p.unit.Errors = p.unit.Errors[:errMark]
	}
	return p.parseStatement()
}

// skipAttributes consumes `#[...]` and `#![...]` attribute syntax without
// interpreting it: attributes are legal at item position but this front
// end performs no conditional compilation or derive expansion, so they
// are recognized and discarded.
func (p *Parser) skipAttributes() {
	for p.curTokenIs("#") {
		p.nextToken()
		if p.curTokenIs("!") {
			p.nextToken()
		}
		if !p.curTokenIs("[") {
			return
		}
		depth := 0
		for {
			if p.curTokenIs("[") {
				depth++
			} else if p.curTokenIs("]") {
				depth--
				if depth == 0 {
					p.nextToken()
					break
				}
			} else if p.curKindIs(token.EOF) {
				break
			}
			p.nextToken()
		}
	}
}
