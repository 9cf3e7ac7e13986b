package parser

import (
	"fmt"

	"github.com/dshills/standoc-mcp/pkg/types"
)

// tokenKind identifies the lexical class of a token
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokComma
	tokSemicolon
	tokIllegal
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokComma:
		return "','"
	case tokSemicolon:
		return "';'"
	default:
		return "illegal character"
	}
}

// token is a lexeme with its byte offset in the input
type token struct {
	kind   tokenKind
	text   string
	offset int
}

// tokenize splits text into tokens. Whitespace (including newlines) separates
// tokens and is otherwise ignored.
func tokenize(text string) []token {
	tokens := make([]token, 0, len(text)/3+1)
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case isSpace(c):
			i++
		case isIdentStart(c):
			start := i
			for i < len(text) && isIdentPart(text[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: text[start:i], offset: start})
		default:
			kind := tokIllegal
			switch c {
			case '[':
				kind = tokLBracket
			case ']':
				kind = tokRBracket
			case '(':
				kind = tokLParen
			case ')':
				kind = tokRParen
			case ',':
				kind = tokComma
			case ';':
				kind = tokSemicolon
			}
			tokens = append(tokens, token{kind: kind, text: text[i : i+1], offset: i})
			i++
		}
	}
	return append(tokens, token{kind: tokEOF, offset: len(text)})
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// tokenStream is a cursor over tokenized input
type tokenStream struct {
	text   string
	tokens []token
	pos    int
}

func newTokenStream(text string) *tokenStream {
	return &tokenStream{text: text, tokens: tokenize(text)}
}

func (s *tokenStream) peek() token {
	return s.tokens[s.pos]
}

// peekAt looks ahead n tokens without consuming
func (s *tokenStream) peekAt(n int) token {
	if s.pos+n >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1]
	}
	return s.tokens[s.pos+n]
}

func (s *tokenStream) next() token {
	t := s.tokens[s.pos]
	if t.kind != tokEOF {
		s.pos++
	}
	return t
}

// accept consumes the next token if it has the given kind
func (s *tokenStream) accept(kind tokenKind) bool {
	if s.peek().kind == kind {
		s.next()
		return true
	}
	return false
}

// expect consumes a token of the given kind or returns a syntax error
func (s *tokenStream) expect(kind tokenKind) (token, error) {
	t := s.peek()
	if t.kind != kind {
		return t, s.errorf(t, "expected %s, found %s", kind, describe(t))
	}
	return s.next(), nil
}

// expectEOF fails when any input is left over
func (s *tokenStream) expectEOF() error {
	if t := s.peek(); t.kind != tokEOF {
		return s.errorf(t, "unexpected %s after end of declaration", describe(t))
	}
	return nil
}

func (s *tokenStream) errorf(at token, format string, args ...interface{}) *types.SyntaxError {
	return &types.SyntaxError{
		Text:    s.text,
		Offset:  at.offset,
		Message: fmt.Sprintf(format, args...),
	}
}

func describe(t token) string {
	switch t.kind {
	case tokIdent:
		return fmt.Sprintf("identifier %q", t.text)
	case tokIllegal:
		return fmt.Sprintf("illegal character %q", t.text)
	default:
		return t.kind.String()
	}
}
