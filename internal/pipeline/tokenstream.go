package pipeline

import "github.com/zenith9320/rcompiler-go/internal/token"

const lookaheadBufferSize = 16

// bufferedStream adapts a raw NextToken() producer into a TokenStream with
// arbitrary lookahead, matching the parser's need to peek ahead for
// disambiguation without re-lexing.
type bufferedStream struct {
	next   func() token.Token
	buffer []token.Token
	pos    int
}

// NewTokenStream wraps next (typically a *lexer.Lexer's NextToken method)
// in a lookahead buffer.
func NewTokenStream(next func() token.Token) TokenStream {
	return &bufferedStream{next: next}
}

func (s *bufferedStream) Next() token.Token {
	if s.pos < len(s.buffer) {
		t := s.buffer[s.pos]
		s.pos++
		return t
	}
	return s.next()
}

func (s *bufferedStream) Peek(n int) []token.Token {
	for len(s.buffer)-s.pos < n {
		t := s.next()
		s.buffer = append(s.buffer, t)
		if t.Kind == token.EOF {
			break
		}
	}
	if s.pos > lookaheadBufferSize {
		s.buffer = s.buffer[s.pos:]
		s.pos = 0
	}
	end := s.pos + n
	if end > len(s.buffer) {
		end = len(s.buffer)
	}
	return s.buffer[s.pos:end]
}

var _ TokenStream = (*bufferedStream)(nil)
