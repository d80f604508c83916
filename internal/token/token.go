// Package token defines the lexical token vocabulary shared by the lexer,
// parser, and diagnostics.
package token

import "fmt"

// Kind is a closed tag set classifying a Token. It never grows at runtime;
// new lexical forms get a new constant, not a dynamic string.
type Kind string

const (
	EOF     Kind = "EOF"
	UNKNOWN Kind = "UNKNOWN"

	STRICT_KEYWORD   Kind = "STRICT_KEYWORD"
	RESERVED_KEYWORD Kind = "RESERVED_KEYWORD"
	IDENTIFIER       Kind = "IDENTIFIER"
	LIFETIME         Kind = "LIFETIME"

	CHAR              Kind = "CHAR"
	STRING            Kind = "STRING"
	RAW_STRING        Kind = "RAW_STRING"
	BYTE              Kind = "BYTE"
	BYTE_STRING       Kind = "BYTE_STRING"
	RAW_BYTE_STRING   Kind = "RAW_BYTE_STRING"
	C_STRING          Kind = "C_STRING"
	RAW_C_STRING      Kind = "RAW_C_STRING"
	INTEGER           Kind = "INTEGER"
	FLOAT             Kind = "FLOAT"

	PUNCTUATION   Kind = "PUNCTUATION"
	DELIMITER     Kind = "DELIMITER"
	RESERVED_TOKEN Kind = "RESERVED_TOKEN"
)

// Token is an immutable lexical record: kind tag, lexeme text, and source
// position. Tokens are owned by the parser for the duration of a parse and
// never outlive it.
type Token struct {
	Kind   Kind
	Text   string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s %q", t.Line, t.Column, t.Kind, t.Text)
}

// IsA reports whether the token's text equals s, regardless of kind. Used
// by the parser/Pratt tables which key on {kind, text} pairs.
func (t Token) IsA(s string) bool { return t.Text == s }

var strictKeywords = map[string]bool{
	"as": true, "break": true, "const": true, "continue": true, "crate": true,
	"else": true, "enum": true, "extern": true, "false": true, "fn": true,
	"for": true, "if": true, "impl": true, "in": true, "let": true, "loop": true,
	"match": true, "mod": true, "move": true, "mut": true, "pub": true,
	"ref": true, "return": true, "self": true, "Self": true, "static": true,
	"struct": true, "super": true, "trait": true, "true": true, "type": true,
	"unsafe": true, "use": true, "where": true, "while": true, "async": true,
	"await": true, "dyn": true,
}

var reservedKeywords = map[string]bool{
	"abstract": true, "become": true, "box": true, "do": true, "final": true,
	"macro": true, "override": true, "priv": true, "typeof": true,
	"unsized": true, "virtual": true, "yield": true, "try": true,
}

// LookupIdent classifies a scanned identifier-shaped run of characters as a
// strict keyword, a reserved keyword, or a plain identifier (priority:
// strict keyword, reserved keyword, identifier).
func LookupIdent(text string) Kind {
	if strictKeywords[text] {
		return STRICT_KEYWORD
	}
	if reservedKeywords[text] {
		return RESERVED_KEYWORD
	}
	return IDENTIFIER
}

// Delimiters: paired tokens that bracket other tokens.
const (
	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "["
	RBRACKET = "]"
)

var delimiters = map[string]bool{
	LPAREN: true, RPAREN: true, LBRACE: true, RBRACE: true,
	LBRACKET: true, RBRACKET: true,
}

func IsDelimiter(text string) bool { return delimiters[text] }

// Multi-character punctuation forms recognized by the lexer, each listed
// before any shorter form that is its prefix, so a fixed-priority scan
// finds the longest match before falling back to a single-character form.
var multiCharPunctuation = []string{
	"<<=", ">>=",
	"==", "!=", "<=", ">=", "&&", "||", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"::", "->", "=>", "..=", "...", "..",
}

// MultiCharPunctuation returns the fixed priority-ordered table of
// multi-character punctuation forms.
func MultiCharPunctuation() []string { return multiCharPunctuation }

var singleCharPunctuation = map[byte]bool{
	'+': true, '-': true, '*': true, '/': true, '%': true,
	'=': true, '<': true, '>': true, '!': true,
	'&': true, '|': true, '^': true, '~': true,
	'.': true, ',': true, ';': true, ':': true, '#': true, '$': true, '@': true, '?': true,
}

func IsSingleCharPunctuation(b byte) bool { return singleCharPunctuation[b] }

// reservedTokens are punctuation-shaped sequences the grammar names but
// never binds a production to. The lexer looks a single byte up in this
// table, so the two-byte `<-` is not produced as a reserved token; it
// scans as `<` followed by `-`.
var reservedTokens = map[string]bool{
	"<-": true,
}

func IsReservedToken(text string) bool { return reservedTokens[text] }
