package parser

import (
	"strconv"
	"strings"

	"github.com/zenith9320/rcompiler-go/internal/ast"
	"github.com/zenith9320/rcompiler-go/internal/diagnostics"
	"github.com/zenith9320/rcompiler-go/internal/token"
)

// parseExpression is the Pratt loop's core: look up a prefix
// parselet for the current token, then repeatedly look up an infix
// parselet for the token that follows what the prefix consumed, stopping
// once none is found or its precedence is not above precedence.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix, ok := p.prefixParseFns[dispatchKey(p.curToken())]
	if !ok {
		p.errorf(diagnostics.ErrP002, p.curToken(), dispatchKey(p.curToken()))
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	// Every parselet leaves the cursor on the first token after what it
	// consumed, so the candidate operator is the current token here, and
	// each infix parselet is entered with the cursor on its operator.
	for precedence < p.curPrecedence() {
		key := dispatchKey(p.curToken())
		infix, ok := p.infixParseFns[key]
		if !ok {
			return left
		}
		if p.inCondition && isConditionForbidden(key) {
			return left
		}
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

// isConditionForbidden reports whether operator key is barred from the
// top level of an if/while condition: assignment,
// compound-assignment, lazy-boolean, and the range forms.
func isConditionForbidden(key string) bool {
	switch key {
	case "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=",
		"&&", "||", "..", "..=", "...":
		return true
	}
	return false
}

// parseConditionExpression parses an expression with the
// condition restrictions in force: struct-literal, assignment,
// compound-assignment, lazy-boolean, and range expressions are excluded
// at the top level.
func (p *Parser) parseConditionExpression() ast.Expression {
	saved := p.inCondition
	p.inCondition = true
	defer func() { p.inCondition = saved }()
	return p.parseExpression(LOWEST)
}

// --- literal parselets -------------------------------------------------

// parseLiteralExpressionValue consumes the current token as a literal if
// it is one, returning ok=false (without consuming) otherwise. Shared by
// expression and pattern parsing.
func (p *Parser) parseLiteralExpressionValue() (*ast.LiteralExpression, bool) {
	tok := p.curToken()
	switch tok.Kind {
	case token.INTEGER:
		p.nextToken()
		return parseIntegerLiteralExpr(tok), true
	case token.FLOAT:
		p.nextToken()
		return parseFloatLiteralExpr(tok), true
	case token.CHAR:
		p.nextToken()
		return &ast.LiteralExpression{Tok: tok, Kind: ast.LitChar, Text: tok.Text, Int: charLiteralValue(tok.Text)}, true
	case token.STRING, token.RAW_STRING, token.C_STRING, token.RAW_C_STRING:
		p.nextToken()
		return &ast.LiteralExpression{Tok: tok, Kind: ast.LitString, Text: tok.Text}, true
	case token.BYTE:
		p.nextToken()
		return &ast.LiteralExpression{Tok: tok, Kind: ast.LitByte, Text: tok.Text, Int: charLiteralValue(tok.Text)}, true
	case token.BYTE_STRING, token.RAW_BYTE_STRING:
		p.nextToken()
		return &ast.LiteralExpression{Tok: tok, Kind: ast.LitByteString, Text: tok.Text}, true
	}
	if tok.IsA("true") {
		p.nextToken()
		return &ast.LiteralExpression{Tok: tok, Kind: ast.LitBool, Bool: true, Text: "true"}, true
	}
	if tok.IsA("false") {
		p.nextToken()
		return &ast.LiteralExpression{Tok: tok, Kind: ast.LitBool, Bool: false, Text: "false"}, true
	}
	return nil, false
}

func parseIntegerLiteralExpr(tok token.Token) *ast.LiteralExpression {
	text := stripTypeSuffix(tok.Text)
	v, err := strconv.ParseInt(strings.ReplaceAll(text, "_", ""), 0, 64)
	if err != nil {
		v = 0
	}
	return &ast.LiteralExpression{Tok: tok, Kind: ast.LitInteger, Text: tok.Text, Int: v}
}

func parseFloatLiteralExpr(tok token.Token) *ast.LiteralExpression {
	text := stripTypeSuffix(tok.Text)
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil {
		v = 0
	}
	return &ast.LiteralExpression{Tok: tok, Kind: ast.LitFloat, Text: tok.Text, Float: v}
}

// charLiteralValue decodes a char or byte literal's numeric value from its
// raw lexeme ('a', '\n', b'x'), so the IR generator can emit it as a plain
// integer constant.
func charLiteralValue(text string) int64 {
	s := strings.TrimPrefix(text, "b")
	s = strings.Trim(s, "'")
	if strings.HasPrefix(s, "\\") && len(s) >= 2 {
		switch s[1] {
		case 'n':
			return '\n'
		case 't':
			return '\t'
		case 'r':
			return '\r'
		case '0':
			return 0
		default:
			return int64(s[1])
		}
	}
	if s == "" {
		return 0
	}
	return int64([]rune(s)[0])
}

// stripTypeSuffix removes a trailing numeric type suffix (i8, i16, i32,
// i64, isize, u8, ..., usize, f32, f64) from a scanned numeric lexeme, so
// the remaining digits can be parsed with strconv.
func stripTypeSuffix(text string) string {
	suffixes := []string{"i8", "i16", "i32", "i64", "i128", "isize", "u8", "u16", "u32", "u64", "u128", "usize", "f32", "f64"}
	for _, suf := range suffixes {
		if strings.HasSuffix(text, suf) {
			return strings.TrimSuffix(text, suf)
		}
	}
	return text
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit, _ := p.parseLiteralExpressionValue()
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	lit, _ := p.parseLiteralExpressionValue()
	return lit
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	lit, _ := p.parseLiteralExpressionValue()
	return lit
}

func (p *Parser) parseCharLiteral() ast.Expression {
	lit, _ := p.parseLiteralExpressionValue()
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	lit, _ := p.parseLiteralExpressionValue()
	return lit
}

func (p *Parser) parseByteLiteral() ast.Expression {
	lit, _ := p.parseLiteralExpressionValue()
	return lit
}

func (p *Parser) parseByteStringLiteral() ast.Expression {
	lit, _ := p.parseLiteralExpressionValue()
	return lit
}

func (p *Parser) parseUnderscore() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	return &ast.UnderscoreExpression{Tok: tok}
}

// --- path / struct-literal prefix ---------------------------------------

// parseIdentifierOrStructLiteral resolves the identifier-prefix
// ambiguity: a path followed immediately by `{` (and not inside a
// condition, where `{` instead opens the if/while body) is a struct
// literal; otherwise it is a bare path expression.
func (p *Parser) parseIdentifierOrStructLiteral() ast.Expression {
	tok := p.curToken()
	path := p.parsePath()
	if path == nil {
		return nil
	}
	if p.curTokenIs("{") && !p.inCondition {
		return p.parseStructExpressionBody(tok, path)
	}
	return &ast.PathExpression{Tok: tok, Path: path}
}

func (p *Parser) parseStructExpressionBody(tok token.Token, path *ast.Path) ast.Expression {
	p.nextToken() // consume {
	expr := &ast.StructExpression{Tok: tok, Path: path}
	for !p.curTokenIs("}") {
		if p.curTokenIs("..") {
			p.nextToken()
			expr.Base = p.parseExpression(LOWEST)
			break
		}
		name := p.curToken().Text
		fieldTok := p.curToken()
		p.nextToken()
		var value ast.Expression
		if p.curTokenIs(":") {
			p.nextToken()
			value = p.parseExpression(LOWEST)
		} else {
			value = &ast.PathExpression{Tok: fieldTok, Path: &ast.Path{Tok: fieldTok, Segments: []string{name}}}
		}
		expr.Fields = append(expr.Fields, ast.StructExpressionField{Name: name, Value: value})
		if p.curTokenIs(",") {
			p.nextToken()
			continue
		}
		break
	}
	p.expect("}")
	return expr
}

// --- grouped / tuple -----------------------------------------------------

// parseGroupedOrTupleExpression implements the `(` disambiguation:
// no comma after the first inner expression means grouped, any comma
// (even trailing) means tuple.
func (p *Parser) parseGroupedOrTupleExpression() ast.Expression {
	tok := p.curToken()
	p.nextToken() // consume (
	if p.curTokenIs(")") {
		p.nextToken()
		return &ast.TupleExpression{Tok: tok}
	}
	saved := p.inCondition
	p.inCondition = false
	first := p.parseExpression(LOWEST)
	if p.curTokenIs(",") {
		elems := []ast.Expression{first}
		for p.curTokenIs(",") {
			p.nextToken()
			if p.curTokenIs(")") {
				break
			}
			elems = append(elems, p.parseExpression(LOWEST))
		}
		p.inCondition = saved
		p.expect(")")
		return &ast.TupleExpression{Tok: tok, Elems: elems}
	}
	p.inCondition = saved
	p.expect(")")
	return &ast.GroupedExpression{Tok: tok, Inner: first}
}

// --- array ---------------------------------------------------------------

func (p *Parser) parseArrayExpression() ast.Expression {
	tok := p.curToken()
	p.nextToken() // consume [
	if p.curTokenIs("]") {
		p.nextToken()
		return &ast.ArrayExpression{Tok: tok, Kind: ast.ArrayLiteral}
	}
	first := p.parseExpression(LOWEST)
	if p.curTokenIs(";") {
		p.nextToken()
		count := p.parseExpression(LOWEST)
		p.expect("]")
		return &ast.ArrayExpression{Tok: tok, Kind: ast.ArrayRepeat, Value: first, Count: count}
	}
	elems := []ast.Expression{first}
	for p.curTokenIs(",") {
		p.nextToken()
		if p.curTokenIs("]") {
			break
		}
		elems = append(elems, p.parseExpression(LOWEST))
	}
	p.expect("]")
	return &ast.ArrayExpression{Tok: tok, Kind: ast.ArrayLiteral, Elems: elems}
}

// --- block-as-expression ---------------------------------------------------

func (p *Parser) parseBlockAsExpression() ast.Expression {
	return p.parseBlock()
}

// parseBlock parses `{ stmt* tail-expr? }`. At each position inside the
// block it tries a statement; if the final construct is an expression not
// terminated by `;` and immediately followed by `}`, it becomes the
// block's tail value instead of a statement.
func (p *Parser) parseBlock() *ast.BlockExpression {
	tok := p.curToken()
	p.nextToken() // consume {
	block := &ast.BlockExpression{Tok: tok}

	for !p.curTokenIs("}") && !p.curKindIs(token.EOF) {
		p.skipAttributes()
		if p.curTokenIs("}") {
			break
		}
		if p.curTokenIs(";") {
			block.Stmts = append(block.Stmts, &ast.EmptyStatement{Tok: p.curToken()})
			p.nextToken()
			continue
		}
		if p.looksLikeItem() {
			saved := p.savePosition()
			errMark := len(p.unit.Errors)
			if item := p.parseItem(); item != nil {
				block.Stmts = append(block.Stmts, &ast.ItemStatement{Tok: item.Pos(), Item: item})
				continue
			}
			p.restorePosition(saved)
			p.unit.Errors = p.unit.Errors[:errMark]
		}
		if p.curTokenIs("let") {
			block.Stmts = append(block.Stmts, p.parseLetStatement())
			continue
		}

		exprTok := p.curToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			p.nextToken()
			continue
		}
		if p.curTokenIs(";") {
			p.nextToken()
			block.Stmts = append(block.Stmts, &ast.ExpressionStatement{Tok: exprTok, Expr: expr})
			continue
		}
		if p.curTokenIs("}") {
			block.Tail = expr
			break
		}
		// A brace-delimited expression (if/match/loop/block/while/unsafe)
		// may stand alone as a statement with no trailing `;`.
		block.Stmts = append(block.Stmts, &ast.ExpressionStatement{Tok: exprTok, Expr: expr})
	}
	p.expect("}")
	return block
}

func (p *Parser) parseUnsafeBlockExpression() ast.Expression {
	tok := p.curToken()
	p.nextToken() // consume unsafe
	block := p.parseBlock()
	return &ast.UnsafeBlockExpression{Tok: tok, Block: block}
}

// --- control flow ----------------------------------------------------------

// parseLetChainOrExpression parses either a single condition expression or
// a `let`-chain (`let pat = scrutinee && let pat =...`),
func (p *Parser) parseLetChainOrExpression() ([]*ast.LetCondition, ast.Expression) {
	if !p.curTokenIs("let") {
		return nil, p.parseConditionExpression()
	}
	var chain []*ast.LetCondition
	for {
		p.nextToken() // consume let
		pat := p.parsePattern()
		p.expect("=")
		saved := p.inCondition
		p.inCondition = true
		scrutinee := p.parseExpression(LOGIC_AND)
		p.inCondition = saved
		chain = append(chain, &ast.LetCondition{Pattern: pat, Scrutinee: scrutinee})
		if p.curTokenIs("&&") && p.peekTokenIs("let") {
			p.nextToken() // consume &&
			continue
		}
		break
	}
	return chain, nil
}

func (p *Parser) parseIfExpression() ast.Expression {
	tok := p.curToken()
	p.nextToken() // consume if
	chain, cond := p.parseLetChainOrExpression()
	then := p.parseBlock()
	expr := &ast.IfExpression{Tok: tok, LetChain: chain, Condition: cond, Then: then}
	if p.curTokenIs("else") {
		p.nextToken()
		if p.curTokenIs("if") {
			expr.Else = p.parseIfExpression()
		} else {
			expr.Else = p.parseBlock()
		}
	}
	return expr
}

func (p *Parser) parseWhileExpression() ast.Expression {
	tok := p.curToken()
	p.nextToken() // consume while
	chain, cond := p.parseLetChainOrExpression()
	body := p.parseBlock()
	return &ast.WhileExpression{Tok: tok, LetChain: chain, Condition: cond, Body: body}
}

func (p *Parser) parseLoopExpression() ast.Expression {
	tok := p.curToken()
	p.nextToken() // consume loop
	body := p.parseBlock()
	return &ast.LoopExpression{Tok: tok, Body: body}
}

func (p *Parser) parseMatchExpression() ast.Expression {
	tok := p.curToken()
	p.nextToken() // consume match
	saved := p.inCondition
	p.inCondition = true
	subject := p.parseExpression(LOWEST)
	p.inCondition = saved
	p.expect("{")
	match := &ast.MatchExpression{Tok: tok, Subject: subject}
	for !p.curTokenIs("}") && !p.curKindIs(token.EOF) {
		arm := ast.MatchArm{}
		arm.Pattern = p.parsePattern()
		if p.curTokenIs("if") {
			p.nextToken()
			arm.Guard = p.parseExpression(LOWEST)
		}
		p.expect("=>")
		arm.Body = p.parseExpression(LOWEST)
		match.Arms = append(match.Arms, arm)
		if p.curTokenIs(",") {
			p.nextToken()
		}
	}
	p.expect("}")
	return match
}

func (p *Parser) parseReturnExpression() ast.Expression {
	tok := p.curToken()
	p.nextToken() // consume return
	var value ast.Expression
	if !p.curTokenIs(";") && !p.curTokenIs("}") && !p.curKindIs(token.EOF) {
		value = p.parseExpression(LOWEST)
	}
	return &ast.ReturnExpression{Tok: tok, Value: value}
}

func (p *Parser) parseBreakExpression() ast.Expression {
	tok := p.curToken()
	p.nextToken() // consume break
	var value ast.Expression
	if !p.curTokenIs(";") && !p.curTokenIs("}") && !p.curKindIs(token.EOF) {
		value = p.parseExpression(LOWEST)
	}
	return &ast.BreakExpression{Tok: tok, Value: value}
}

func (p *Parser) parseContinueExpression() ast.Expression {
	tok := p.curToken()
	p.nextToken() // consume continue
	return &ast.ContinueExpression{Tok: tok}
}

// --- prefix operators --------------------------------------------------

// parsePrefixNegation and parsePrefixNot re-enter the Pratt loop at the
// `*`/`/`/`%` rank ("- and ! at precedence 25").
func (p *Parser) parsePrefixNegation() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	value := p.parseExpression(PRODUCT)
	return &ast.NegationExpression{Tok: tok, Kind: ast.NegateArithmetic, Value: value}
}

func (p *Parser) parsePrefixNot() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	value := p.parseExpression(PRODUCT)
	return &ast.NegationExpression{Tok: tok, Kind: ast.NegateLogical, Value: value}
}

func (p *Parser) parsePrefixDereference() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	value := p.parseExpression(CALL)
	return &ast.DereferenceExpression{Tok: tok, Value: value}
}

func (p *Parser) parsePrefixBorrow() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	mutable, raw := false, false
	if p.curTokenIs("mut") {
		mutable = true
		p.nextToken()
	} else if p.curTokenIs("raw") {
		raw = true
		p.nextToken()
		if p.curTokenIs("const") || p.curTokenIs("mut") {
			mutable = p.curTokenIs("mut")
			p.nextToken()
		}
	}
	value := p.parseExpression(LOWEST)
	return &ast.BorrowExpression{Tok: tok, Mutable: mutable, Raw: raw, Depth: 1, Value: value}
}

func (p *Parser) parsePrefixDoubleBorrow() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	mutable := false
	if p.curTokenIs("mut") {
		mutable = true
		p.nextToken()
	}
	value := p.parseExpression(LOWEST)
	return &ast.BorrowExpression{Tok: tok, Mutable: mutable, Depth: 2, Value: value}
}

func (p *Parser) parsePrefixRange() ast.Expression {
	tok := p.curToken()
	inclusive := p.curTokenIs("..=")
	p.nextToken()
	kind := ast.RangeToExclusive
	if inclusive {
		kind = ast.RangeToInclusive
	}
	// A bare `..` followed by a clear terminator is the full-range form.
	if p.curTokenIs(")") || p.curTokenIs("]") || p.curTokenIs("}") || p.curTokenIs(",") || p.curTokenIs(";") || p.curKindIs(token.EOF) {
		return &ast.RangeExpression{Tok: tok, Kind: ast.RangeFull}
	}
	to := p.parseExpression(LOGIC_OR)
	return &ast.RangeExpression{Tok: tok, Kind: kind, To: to}
}

// --- infix operators -----------------------------------------------------

func (p *Parser) parseArithmeticOrLogicalExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	op := arithOpFor(tok.Text)
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.ArithmeticOrLogicalExpression{Tok: tok, Op: op, Left: left, Right: right}
}

func arithOpFor(text string) ast.ArithOp {
	switch text {
	case "+":
		return ast.OpAdd
	case "-":
		return ast.OpSub
	case "*":
		return ast.OpMul
	case "/":
		return ast.OpDiv
	case "%":
		return ast.OpMod
	case "&":
		return ast.OpBitAnd
	case "|":
		return ast.OpBitOr
	case "^":
		return ast.OpBitXor
	case "<<":
		return ast.OpShl
	case ">>":
		return ast.OpShr
	}
	return ast.OpAdd
}

func cmpOpFor(text string) ast.CmpOp {
	switch text {
	case "==":
		return ast.CmpEq
	case "!=":
		return ast.CmpNeq
	case "<":
		return ast.CmpLt
	case "<=":
		return ast.CmpLe
	case ">":
		return ast.CmpGt
	case ">=":
		return ast.CmpGe
	}
	return ast.CmpEq
}

func (p *Parser) parseComparisonExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	op := cmpOpFor(tok.Text)
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.ComparisonExpression{Tok: tok, Op: op, Left: left, Right: right}
}

func (p *Parser) parseLazyBooleanExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	op := ast.LazyAnd
	if tok.IsA("||") {
		op = ast.LazyOr
	}
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.LazyBooleanExpression{Tok: tok, Op: op, Left: left, Right: right}
}

// infixRecursionPrecedence is the context precedence an infix parselet's
// right operand is parsed at: the operator's own rank, minus one for the
// right-associative assignment family so `a = b = c` nests rightward.
func (p *Parser) infixRecursionPrecedence(tok token.Token) int {
	prec := precedences[dispatchKey(tok)]
	if rightAssociative[dispatchKey(tok)] {
		prec--
	}
	return prec
}

func (p *Parser) parseAssignmentExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	prec := p.infixRecursionPrecedence(tok)
	p.nextToken()
	value := p.parseExpression(prec)
	return &ast.AssignmentExpression{Tok: tok, LHS: left, Value: value}
}

func (p *Parser) parseCompoundAssignmentExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	op := arithOpFor(strings.TrimSuffix(tok.Text, "="))
	prec := p.infixRecursionPrecedence(tok)
	p.nextToken()
	value := p.parseExpression(prec)
	return &ast.CompoundAssignmentExpression{Tok: tok, Op: op, LHS: left, Value: value}
}

func (p *Parser) parseTypeCastExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	p.nextToken()
	t := p.parseType()
	return &ast.TypeCastExpression{Tok: tok, Value: left, Type: t}
}

// parseDotExpression handles field access, method calls, and tuple
// indexing, all introduced by `.` (rank 40).
func (p *Parser) parseDotExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	p.nextToken() // consume .
	if p.curKindIs(token.INTEGER) {
		idxTok := p.curToken()
		idx, _ := strconv.Atoi(idxTok.Text)
		p.nextToken()
		return &ast.TupleIndexingExpression{Tok: tok, Base: left, Index: idx}
	}
	name := p.curToken().Text
	p.nextToken()
	if p.curTokenIs("(") {
		args := p.parseCallArguments()
		return &ast.MethodCallExpression{Tok: tok, Receiver: left, Method: name, Args: args}
	}
	return &ast.FieldExpression{Tok: tok, Base: left, Field: name}
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	p.nextToken() // consume [
	idx := p.parseExpression(LOWEST)
	p.expect("]")
	return &ast.IndexExpression{Tok: tok, Base: left, Index: idx}
}

func (p *Parser) parseCallExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	args := p.parseCallArguments()
	return &ast.CallExpression{Tok: tok, Callee: left, Args: args}
}

func (p *Parser) parseCallArguments() []ast.Expression {
	p.nextToken() // consume (
	var args []ast.Expression
	saved := p.inCondition
	p.inCondition = false
	for !p.curTokenIs(")") {
		args = append(args, p.parseExpression(LOWEST))
		if p.curTokenIs(",") {
			p.nextToken()
			continue
		}
		break
	}
	p.inCondition = saved
	p.expect(")")
	return args
}

func (p *Parser) parseInfixRange(left ast.Expression) ast.Expression {
	tok := p.curToken()
	inclusive := tok.IsA("..=")
	p.nextToken()
	if p.curTokenIs(")") || p.curTokenIs("]") || p.curTokenIs("}") || p.curTokenIs(",") ||
		p.curTokenIs(";") || p.curKindIs(token.EOF) {
		kind := ast.RangeFromOnly
		return &ast.RangeExpression{Tok: tok, Kind: kind, From: left}
	}
	to := p.parseExpression(LOGIC_OR)
	kind := ast.RangeBothExclusive
	if inclusive {
		kind = ast.RangeBothInclusive
	}
	return &ast.RangeExpression{Tok: tok, Kind: kind, From: left, To: to}
}
