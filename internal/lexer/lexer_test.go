package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zenith9320/rcompiler-go/internal/lexer"
	"github.com/zenith9320/rcompiler-go/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func texts(toks []token.Token) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Text)
	}
	return out
}

func TestTokenize_Punctuation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"arrow_and_braces", "fn main() -> i32 {}", []string{"fn", "main", "(", ")", "->", "i32", "{", "}", ""}},
		{"compound_assign", "x += 1;", []string{"x", "+=", "1", ";", ""}},
		{"range_inclusive", "0..=3", []string{"0", "..=", "3", ""}},
		{"shift_and_shift_assign", "a <<= b >> c", []string{"a", "<<=", "b", ">>", "c", ""}},
		{"double_colon_path", "std::cmp::max", []string{"std", "::", "cmp", "::", "max", ""}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			toks := lexer.Tokenize(tc.input)
			assert.Equal(t, tc.want, texts(toks))
			assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
		})
	}
}

func TestTokenize_Keywords(t *testing.T) {
	toks := lexer.Tokenize("fn let mut struct impl trait unsafe")
	for _, tok := range toks[:len(toks)-1] {
		assert.Equal(t, token.STRICT_KEYWORD, tok.Kind, "expected %q to be a strict keyword", tok.Text)
	}
}

func TestTokenize_ReservedKeyword(t *testing.T) {
	toks := lexer.Tokenize("yield")
	assert.Equal(t, token.RESERVED_KEYWORD, toks[0].Kind)
}

func TestTokenize_Identifier(t *testing.T) {
	toks := lexer.Tokenize("my_var2")
	assert.Equal(t, token.IDENTIFIER, toks[0].Kind)
	assert.Equal(t, "my_var2", toks[0].Text)
}

func TestTokenize_StringAndRawString(t *testing.T) {
	toks := lexer.Tokenize(`"hi" r"raw\n" r#"with "quote""#`)
	assert.Equal(t, []token.Kind{token.STRING, token.RAW_STRING, token.RAW_STRING, token.EOF}, kinds(toks))
	assert.Equal(t, `"hi"`, toks[0].Text)
	assert.Equal(t, `r"raw\n"`, toks[1].Text)
}

func TestTokenize_ByteAndCStringLiterals(t *testing.T) {
	toks := lexer.Tokenize(`b'a' b"bytes" c"cstr" cr"rawc"`)
	assert.Equal(t, []token.Kind{
		token.BYTE, token.BYTE_STRING, token.C_STRING, token.RAW_C_STRING, token.EOF,
	}, kinds(toks))
}

func TestTokenize_CharVsLifetime(t *testing.T) {
	toks := lexer.Tokenize(`'a' 'lifetime x`)
	assert.Equal(t, token.CHAR, toks[0].Kind)
	assert.Equal(t, token.LIFETIME, toks[1].Kind)
	assert.Equal(t, "'lifetime", toks[1].Text)
}

func TestTokenize_IntegerAndFloat(t *testing.T) {
	toks := lexer.Tokenize("42 3.14 0x1F 2u32 1.0f64 10e3")
	assert.Equal(t, []token.Kind{
		token.INTEGER, token.FLOAT, token.INTEGER, token.INTEGER, token.FLOAT, token.FLOAT, token.EOF,
	}, kinds(toks))
}

func TestTokenize_CommentsAreSkipped(t *testing.T) {
	toks := lexer.Tokenize("let x = 1; // trailing\n/* block\ncomment */ let y = 2;")
	assert.Equal(t, []string{
		"let", "x", "=", "1", ";", "let", "y", "=", "2", ";", "",
	}, texts(toks))
}

func TestTokenize_UnknownByteContinuesScanning(t *testing.T) {
	toks := lexer.Tokenize("a ` b")
	assert.Equal(t, []token.Kind{token.IDENTIFIER, token.UNKNOWN, token.IDENTIFIER, token.EOF}, kinds(toks))
	assert.Equal(t, "`", toks[1].Text)
}

func TestTokenize_LineAndColumnAdvanceThroughWhitespace(t *testing.T) {
	toks := lexer.Tokenize("a\n  b")
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 3, toks[1].Column)
}

// A bare `e` with no exponent digits is not an exponent: the scan rewinds
// so `1e + 2` keeps the `+` as its own punctuation token.
func TestTokenize_NonExponentERewinds(t *testing.T) {
	toks := lexer.Tokenize("1e + 2")
	assert.Equal(t, []string{"1e", "+", "2", ""}, texts(toks))
	assert.Equal(t, token.INTEGER, toks[0].Kind)
}

func TestTokenize_TripleDotBeforeDoubleDot(t *testing.T) {
	toks := lexer.Tokenize("1...5 0..2")
	assert.Equal(t, []string{"1", "...", "5", "0", "..", "2", ""}, texts(toks))
}
