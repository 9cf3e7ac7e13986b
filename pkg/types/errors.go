package types

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for parsing, registration and resolution
var (
	ErrSyntax              = errors.New("syntax error")
	ErrDuplicateDefinition = errors.New("duplicate definition")
	ErrNotFound            = errors.New("reference target not found")
	ErrAmbiguousReference  = errors.New("ambiguous reference")
	ErrIndexFrozen         = errors.New("index is frozen")
)

// SyntaxError reports malformed type or signature text
type SyntaxError struct {
	Text    string // Input being parsed
	Offset  int    // Byte offset of the offending token
	Message string
	Source  Location
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("syntax error at offset %d in %q: %s", e.Offset, e.Text, e.Message)
	if loc := e.Source.String(); loc != "" {
		msg = loc + ": " + msg
	}
	return msg
}

// Is makes errors.Is(err, ErrSyntax) match
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// DuplicateDefinitionError reports a second registration of the same overload
type DuplicateDefinitionError struct {
	Existing  *Signature
	Duplicate *Signature
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("duplicate definition of %s at %s (first defined at %s)",
		e.Duplicate.Key(), orUnknown(e.Duplicate.Source), orUnknown(e.Existing.Source))
}

// Is makes errors.Is(err, ErrDuplicateDefinition) match
func (e *DuplicateDefinitionError) Is(target error) bool {
	return target == ErrDuplicateDefinition
}

// NotFoundError reports a reference or member selection that matches nothing
type NotFoundError struct {
	Query LookupQuery
	// Known is true when the name exists under different parameter types
	Known bool
}

func (e *NotFoundError) Error() string {
	if e.Known {
		return fmt.Sprintf("reference target not found `%s`; no overload has these parameter types", e.Query)
	}
	return fmt.Sprintf("reference target not found `%s`", e.Query)
}

// Is makes errors.Is(err, ErrNotFound) match
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AmbiguousReferenceWarning reports an unqualified reference matching several
// overloads. Candidates are in declaration order.
type AmbiguousReferenceWarning struct {
	Query      LookupQuery
	Candidates []*Signature
}

func (e *AmbiguousReferenceWarning) Error() string {
	parts := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		parts[i] = c.Describe()
	}
	first := ""
	if len(e.Candidates) > 0 {
		first = e.Candidates[0].String()
	}
	return fmt.Sprintf("multiple functions found for reference `%s`: %s (using `%s`); "+
		"qualify the target by specifying argument types, e.g. `%s(%s)`",
		e.Query, strings.Join(parts, "; "), first, e.Query.Name, exampleArgs(e.Candidates))
}

// Is makes errors.Is(err, ErrAmbiguousReference) match
func (e *AmbiguousReferenceWarning) Is(target error) bool {
	return target == ErrAmbiguousReference
}

func exampleArgs(cands []*Signature) string {
	if len(cands) == 0 {
		return ""
	}
	return JoinTypes(cands[0].ParamTypes(), ", ")
}

func orUnknown(l Location) string {
	if s := l.String(); s != "" {
		return s
	}
	return "unknown location"
}
