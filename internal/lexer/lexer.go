// Package lexer tokenizes source text with fixed rules: longest-match
// dispatch in a fixed priority order, a single position cursor, and no
// state that outlives tokenization.
package lexer

import (
	"strings"

	"github.com/zenith9320/rcompiler-go/internal/token"
)

// Lexer scans a UTF-8 source string into a sequence of Tokens on demand.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	column       int
}

// New creates a Lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) peekCharAt(offset int) byte {
	idx := l.readPosition + offset - 1
	if idx < 0 || idx >= len(l.input) {
		return 0
	}
	return l.input[idx]
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') && l.ch != 0 {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar()
				l.readChar()
			}
		default:
			return
		}
	}
}

func isLetter(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

func isIdentChar(ch byte) bool { return isLetter(ch) || isDigit(ch) }

func simple(k token.Kind, text string, line, col int) token.Token {
	return token.Token{Kind: k, Text: text, Line: line, Column: col}
}

// NextToken scans and returns the next token, applying the fixed
// priority: strict keyword, reserved keyword, identifier; the seven
// literal flavors; float; integer; punctuation; delimiter; reserved
// token; unknown.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	line, col := l.line, l.column

	if l.ch == 0 {
		return simple(token.EOF, "", line, col)
	}

	switch {
	case isLetter(l.ch):
		return l.scanIdentOrPrefixedLiteral(line, col)
	case isDigit(l.ch):
		return l.scanNumber(line, col)
	case l.ch == '\'':
		return l.scanCharOrLifetime(line, col)
	case l.ch == '"':
		return l.scanString(line, col)
	}

	return l.scanPunctuationOrUnknown(line, col)
}

// scanIdentOrPrefixedLiteral handles plain identifiers/keywords as well as
// the string-literal prefix letters (r, b, c, br, cr, rb) that must be
// recognized as part of a longer literal token rather than as an
// identifier, per the longest-match rule.
func (l *Lexer) scanIdentOrPrefixedLiteral(line, col int) token.Token {
	start := l.position
	for isIdentChar(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.position]

	switch {
	case text == "r" && (l.ch == '"' || l.ch == '#'):
		return l.scanRawString(line, col, false)
	case text == "b" && l.ch == '"':
		l.readChar()
		return l.finishString(start, line, col, token.BYTE_STRING)
	case text == "b" && l.ch == '\'':
		return l.scanByteChar(line, col)
	case text == "br" && l.ch == '"':
		return l.scanRawString(line, col, true)
	case text == "br" && l.ch == '#':
		return l.scanRawString(line, col, true)
	case text == "c" && l.ch == '"':
		l.readChar()
		return l.finishString(start, line, col, token.C_STRING)
	case text == "cr" && (l.ch == '"' || l.ch == '#'):
		return l.scanRawCString(line, col)
	}

	return simple(token.LookupIdent(text), text, line, col)
}

func (l *Lexer) scanNumber(line, col int) token.Token {
	start := l.position
	isFloat := false

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'o' || l.peekChar() == 'b') {
		l.readChar()
		l.readChar()
		for isIdentChar(l.ch) {
			l.readChar()
		}
		text := l.input[start:l.position]
		return simple(token.INTEGER, text, line, col)
	}

	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		savePos, saveRead, saveCh := l.position, l.readPosition, l.ch
		saveLine, saveCol := l.line, l.column
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if isDigit(l.ch) {
			isFloat = true
			for isDigit(l.ch) {
				l.readChar()
			}
		} else {
			// Not an exponent after all (`1e` alone): rewind the cursor to
			// the `e`, which the suffix scan below then keeps in this token.
			l.position, l.readPosition, l.ch = savePos, saveRead, saveCh
			l.line, l.column = saveLine, saveCol
		}
	}
	// Optional type suffix: i8,i16,i32,i64,i128,isize,u8,...,usize,f32,f64
	for isIdentChar(l.ch) {
		l.readChar()
	}

	text := l.input[start:l.position]
	if isFloat || strings.Contains(text, "f32") || strings.Contains(text, "f64") {
		return simple(token.FLOAT, text, line, col)
	}
	return simple(token.INTEGER, text, line, col)
}

// scanCharOrLifetime disambiguates 'a' (char) from 'a (lifetime): a
// lifetime is a quote immediately followed by an identifier that is NOT
// itself followed by a closing quote.
func (l *Lexer) scanCharOrLifetime(line, col int) token.Token {
	start := l.position
	l.readChar() // consume opening '

	if isLetter(l.ch) {
		for isIdentChar(l.ch) {
			l.readChar()
		}
		if l.ch != '\'' {
			text := l.input[start:l.position]
			return simple(token.LIFETIME, text, line, col)
		}
		// identifier was exactly one char and is immediately followed by a
		// closing quote: treat as a char literal, e.g. 'a'.
		l.readChar() // consume closing '
		text := l.input[start:l.position]
		return simple(token.CHAR, text, line, col)
	}

	// Escape sequence or raw char, e.g. '\n', '\'', 'x'
	if l.ch == '\\' {
		l.readChar()
		l.readChar()
	} else {
		l.readChar()
	}
	if l.ch == '\'' {
		l.readChar()
	}
	text := l.input[start:l.position]
	return simple(token.CHAR, text, line, col)
}

func (l *Lexer) scanByteChar(line, col int) token.Token {
	start := l.position - 1 // include the 'b' prefix already consumed
	l.readChar()            // consume opening '
	if l.ch == '\\' {
		l.readChar()
		l.readChar()
	} else {
		l.readChar()
	}
	if l.ch == '\'' {
		l.readChar()
	}
	text := l.input[start:l.position]
	return simple(token.BYTE, text, line, col)
}

func (l *Lexer) scanString(line, col int) token.Token {
	start := l.position
	l.readChar() // consume opening "
	return l.finishString(start, line, col, token.STRING)
}

// finishString scans the remainder of a double-quoted literal whose opening
// quote (and any b/c prefix) has already been consumed; start marks the
// first byte of the whole lexeme so the token text keeps its prefix.
func (l *Lexer) finishString(start, line, col int, kind token.Kind) token.Token {
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	if l.ch == '"' {
		l.readChar()
	}
	text := l.input[start:l.position]
	return simple(kind, text, line, col)
}

// scanRawString handles r"...", r#"..."#, r##"..."##, etc. isByte selects
// the byte-string raw flavor (br"...").
func (l *Lexer) scanRawString(line, col int, isByte bool) token.Token {
	start := l.position - map[bool]int{true: 2, false: 1}[isByte]
	hashes := 0
	for l.ch == '#' {
		hashes++
		l.readChar()
	}
	if l.ch == '"' {
		l.readChar()
	}
	closing := "\"" + strings.Repeat("#", hashes)
	for l.ch != 0 {
		if l.ch == '"' && l.matchesAhead(closing[1:]) {
			l.readChar()
			for i := 0; i < hashes; i++ {
				l.readChar()
			}
			break
		}
		l.readChar()
	}
	text := l.input[start:l.position]
	kind := token.RAW_STRING
	if isByte {
		kind = token.RAW_BYTE_STRING
	}
	return simple(kind, text, line, col)
}

func (l *Lexer) scanRawCString(line, col int) token.Token {
	start := l.position - 2 // "cr"
	hashes := 0
	for l.ch == '#' {
		hashes++
		l.readChar()
	}
	if l.ch == '"' {
		l.readChar()
	}
	closing := strings.Repeat("#", hashes)
	for l.ch != 0 {
		if l.ch == '"' && l.matchesAhead(closing) {
			l.readChar()
			for i := 0; i < hashes; i++ {
				l.readChar()
			}
			break
		}
		l.readChar()
	}
	text := l.input[start:l.position]
	return simple(token.RAW_C_STRING, text, line, col)
}

func (l *Lexer) matchesAhead(suffix string) bool {
	for i := 0; i < len(suffix); i++ {
		if l.peekCharAt(i+1) != suffix[i] {
			return false
		}
	}
	return true
}

func (l *Lexer) scanPunctuationOrUnknown(line, col int) token.Token {
	rest := l.input[l.position:]

	for _, op := range token.MultiCharPunctuation() {
		if strings.HasPrefix(rest, op) {
			for range op {
				l.readChar()
			}
			return simple(token.PUNCTUATION, op, line, col)
		}
	}

	ch := l.ch
	text := string(ch)

	if token.IsDelimiter(text) {
		l.readChar()
		return simple(token.DELIMITER, text, line, col)
	}
	if token.IsReservedToken(text) {
		l.readChar()
		return simple(token.RESERVED_TOKEN, text, line, col)
	}
	if token.IsSingleCharPunctuation(ch) {
		l.readChar()
		return simple(token.PUNCTUATION, text, line, col)
	}

	l.readChar()
	return simple(token.UNKNOWN, text, line, col)
}

// Tokenize scans the entire input and returns every token up to and
// including a terminal EOF.
func Tokenize(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		t := l.NextToken()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	return toks
}
