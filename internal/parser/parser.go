package parser

import (
	"errors"
	"strings"

	"github.com/dshills/standoc-mcp/pkg/types"
)

// Parser parses the declarations of one source file, assigning increasing
// declaration order as it goes
type Parser struct {
	file  string
	order int
}

// New creates a new Parser instance for the named file
func New(file string) *Parser {
	return &Parser{file: file}
}

// NewAt creates a Parser whose first declaration receives the given order
func NewAt(file string, order int) *Parser {
	return &Parser{file: file, order: order}
}

// ParseDeclaration parses one function declaration found at line. The
// declaration order advances only for successfully parsed declarations.
func (p *Parser) ParseDeclaration(text string, line int) (*types.Signature, error) {
	sig, err := ParseSignature(text, p.order)
	if err != nil {
		var synErr *types.SyntaxError
		if errors.As(err, &synErr) {
			synErr.Source = types.Location{File: p.file, Line: line}
		}
		return nil, err
	}
	sig.Source = types.Location{File: p.file, Line: line}
	p.order++
	return sig, nil
}

// NextOrder returns the order the next declaration will receive
func (p *Parser) NextOrder() int {
	return p.order
}

// ParseSignature parses "<return-type> <name>(<type> <name>?, ...)" and stamps
// the result with the caller-supplied declaration order.
func ParseSignature(text string, order int) (*types.Signature, error) {
	s := newTokenStream(text)

	ret, err := parseType(s)
	if err != nil {
		return nil, err
	}

	nameTok, err := s.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if isReserved(nameTok.text) {
		return nil, s.errorf(nameTok, "%q is a type keyword, not a function name", nameTok.text)
	}

	params, err := parseParamList(s)
	if err != nil {
		return nil, err
	}
	if err := s.expectEOF(); err != nil {
		return nil, err
	}

	return &types.Signature{
		Name:       nameTok.text,
		Params:     params,
		ReturnType: ret,
		Order:      order,
	}, nil
}

// parseParamList parses "( [<type> <name>? (, <type> <name>?)*] )"
func parseParamList(s *tokenStream) ([]types.Parameter, error) {
	if _, err := s.expect(tokLParen); err != nil {
		return nil, err
	}

	params := make([]types.Parameter, 0)
	if s.accept(tokRParen) {
		return params, nil
	}

	for {
		typ, err := parseType(s)
		if err != nil {
			return nil, err
		}
		param := types.Parameter{Type: typ}
		if tok := s.peek(); tok.kind == tokIdent {
			if isReserved(tok.text) {
				return nil, s.errorf(tok, "%q is a type keyword, not a parameter name", tok.text)
			}
			param.Name = s.next().text
		}
		params = append(params, param)

		if s.accept(tokComma) {
			continue
		}
		if _, err := s.expect(tokRParen); err != nil {
			return nil, err
		}
		return params, nil
	}
}

// ParseQuery parses a cross-reference target: either a bare "name" or a
// qualified "name(type, type, ...)". Parameter names in the qualified form are
// accepted and ignored.
func ParseQuery(text string) (types.LookupQuery, error) {
	s := newTokenStream(text)

	nameTok, err := s.expect(tokIdent)
	if err != nil {
		return types.LookupQuery{}, err
	}
	q := types.LookupQuery{Name: nameTok.text}

	if s.peek().kind == tokLParen {
		params, err := parseParamList(s)
		if err != nil {
			return types.LookupQuery{}, err
		}
		q.Qualified = true
		q.ParamTypes = make([]types.TypeExpr, len(params))
		for i, p := range params {
			q.ParamTypes[i] = p.Type
		}
	}

	if err := s.expectEOF(); err != nil {
		return types.LookupQuery{}, err
	}
	return q, nil
}

// ParseMembers parses a semicolon-separated member-selection list such as
// "log1p_series; log(real, real)". Empty entries are skipped; an empty list
// yields nil, meaning "select everything".
func ParseMembers(list string) ([]types.LookupQuery, error) {
	var members []types.LookupQuery
	for _, entry := range strings.Split(list, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		q, err := ParseQuery(entry)
		if err != nil {
			return nil, err
		}
		members = append(members, q)
	}
	return members, nil
}
