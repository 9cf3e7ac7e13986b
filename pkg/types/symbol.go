package types

import (
	"errors"
	"fmt"
	"strings"
)

// Location represents a position in a source file
type Location struct {
	File    string
	Line    int // Line where the declaration starts
	EndLine int // Line where the parameter list closes, 0 when unknown
}

// String renders the location as file:line, or an empty string when unknown
func (l Location) String() string {
	if l.File == "" && l.Line == 0 {
		return ""
	}
	if l.File == "" {
		return fmt.Sprintf("line %d", l.Line)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Parameter is one declared function parameter. Name is documentation-only
// and never takes part in overload identity.
type Parameter struct {
	Name string
	Type TypeExpr
}

// String renders the parameter as "<type> <name>" or just "<type>"
func (p Parameter) String() string {
	if p.Name == "" {
		return p.Type.String()
	}
	return p.Type.String() + " " + p.Name
}

// Signature represents a parsed function declaration
type Signature struct {
	// Identification
	Name   string
	Params []Parameter

	// Return type is not part of overload identity
	ReturnType TypeExpr

	// Order is the declaration counter supplied by the caller (source position)
	Order int

	// Location
	Source Location

	// Anchor is the unique cross-reference target assigned at registration
	Anchor string
}

// ParamTypes returns the parameter types with names stripped
func (s *Signature) ParamTypes() []TypeExpr {
	out := make([]TypeExpr, len(s.Params))
	for i, p := range s.Params {
		out[i] = p.Type
	}
	return out
}

// Key returns the canonical overload identity, e.g. "log(real, real)"
func (s *Signature) Key() string {
	return IdentityKey(s.Name, s.ParamTypes())
}

// SameOverload reports whether two signatures share (name, parameter types)
func (s *Signature) SameOverload(other *Signature) bool {
	return s.Name == other.Name && EqualTypeLists(s.ParamTypes(), other.ParamTypes())
}

// ParamIndex returns the position of the named parameter, or -1
func (s *Signature) ParamIndex(name string) int {
	for i, p := range s.Params {
		if p.Name != "" && p.Name == name {
			return i
		}
	}
	return -1
}

// String renders the declaration, e.g. "real log(real x, real y)"
func (s *Signature) String() string {
	var b strings.Builder
	if s.ReturnType != nil {
		b.WriteString(s.ReturnType.String())
		b.WriteByte(' ')
	}
	b.WriteString(s.Name)
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Describe renders the declaration together with its source location
func (s *Signature) Describe() string {
	if loc := s.Source.String(); loc != "" {
		return s.String() + " at " + loc
	}
	return s.String()
}

// Validate checks the structural invariants of a signature
func (s *Signature) Validate() error {
	if s.Name == "" {
		return errors.New("function name is required")
	}
	for i, p := range s.Params {
		if p.Type == nil {
			return fmt.Errorf("parameter %d has no type", i)
		}
		if err := ValidateType(p.Type); err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
	}
	if s.ReturnType != nil {
		if err := ValidateType(s.ReturnType); err != nil {
			return fmt.Errorf("return type: %w", err)
		}
	}
	return nil
}

// ValidateType checks container dimensionality and tuple arity recursively.
// Primitive names must be plain identifiers other than the structured type
// keywords, so every type renders to a distinct identity key.
func ValidateType(t TypeExpr) error {
	switch v := t.(type) {
	case Container:
		if v.Dims < 1 {
			return errors.New("array dimensionality must be >= 1")
		}
		if v.Elem == nil {
			return errors.New("array element type is required")
		}
		return ValidateType(v.Elem)
	case Tuple:
		if len(v.Elems) == 0 {
			return errors.New("tuple must have at least one element")
		}
		for _, e := range v.Elems {
			if err := ValidateType(e); err != nil {
				return err
			}
		}
	case Primitive:
		if v.Name == "" {
			return errors.New("primitive type name is required")
		}
		if !isIdentifier(v.Name) {
			return fmt.Errorf("primitive type name %q is not an identifier", v.Name)
		}
		if reservedTypeNames[v.Name] {
			return fmt.Errorf("primitive type name %q is reserved", v.Name)
		}
	case nil:
		return errors.New("missing type")
	}
	return nil
}

// reservedTypeNames render as structured types and cannot name a Primitive
var reservedTypeNames = map[string]bool{
	"array": true, "tuple": true, "vector": true, "row_vector": true, "matrix": true,
}

func isIdentifier(name string) bool {
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return name != ""
}

// IdentityKey renders the overload identity for a name and parameter types
func IdentityKey(name string, params []TypeExpr) string {
	return name + "(" + JoinTypes(params, ", ") + ")"
}
