package parser

import (
	"github.com/dshills/standoc-mcp/pkg/types"
)

// Type keywords with special syntax
const (
	kwArray     = "array"
	kwTuple     = "tuple"
	kwVector    = "vector"
	kwRowVector = "row_vector"
	kwMatrix    = "matrix"
)

// ParseType parses a complete type expression such as "array[,] vector" or
// "tuple(real, array[] int)". Leftover input is a syntax error.
func ParseType(text string) (types.TypeExpr, error) {
	s := newTokenStream(text)
	t, err := parseType(s)
	if err != nil {
		return nil, err
	}
	if err := s.expectEOF(); err != nil {
		return nil, err
	}
	return t, nil
}

// parseType consumes one type expression from the stream
func parseType(s *tokenStream) (types.TypeExpr, error) {
	tok := s.peek()
	if tok.kind != tokIdent {
		return nil, s.errorf(tok, "expected type, found %s", describe(tok))
	}

	switch tok.text {
	case kwArray:
		return parseArray(s)
	case kwTuple:
		return parseTuple(s)
	case kwVector:
		s.next()
		return types.Vector{}, nil
	case kwRowVector:
		s.next()
		return types.RowVector{}, nil
	case kwMatrix:
		s.next()
		return types.Matrix{}, nil
	default:
		s.next()
		return types.Primitive{Name: tok.text}, nil
	}
}

// parseArray parses "array [ ,* ] <type>". Dimensions are counted, not sized.
func parseArray(s *tokenStream) (types.TypeExpr, error) {
	s.next() // array
	if _, err := s.expect(tokLBracket); err != nil {
		return nil, err
	}

	dims := 1
	for {
		tok := s.peek()
		if tok.kind == tokRBracket {
			s.next()
			break
		}
		if tok.kind != tokComma {
			return nil, s.errorf(tok, "array dimensions may only contain commas, found %s", describe(tok))
		}
		s.next()
		dims++
	}

	elem, err := parseType(s)
	if err != nil {
		return nil, err
	}
	return types.Container{Elem: elem, Dims: dims}, nil
}

// parseTuple parses "tuple ( <type> (, <type>)* )"
func parseTuple(s *tokenStream) (types.TypeExpr, error) {
	s.next() // tuple
	if _, err := s.expect(tokLParen); err != nil {
		return nil, err
	}
	if tok := s.peek(); tok.kind == tokRParen {
		return nil, s.errorf(tok, "tuple must have at least one element type")
	}

	var elems []types.TypeExpr
	for {
		elem, err := parseType(s)
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if s.accept(tokComma) {
			continue
		}
		if _, err := s.expect(tokRParen); err != nil {
			return nil, err
		}
		return types.Tuple{Elems: elems}, nil
	}
}

// isReserved reports whether an identifier cannot be used as a function or
// parameter name
func isReserved(name string) bool {
	switch name {
	case kwArray, kwTuple, kwVector, kwRowVector, kwMatrix:
		return true
	}
	return false
}
