package types

import (
	"strings"
)

// TypeExpr is a parsed type from the signature language.
//
// The set of implementations is closed: Primitive, Container, Vector, RowVector,
// Matrix and Tuple. Use a type switch to inspect a value; EqualTypes compares
// two values structurally.
type TypeExpr interface {
	// String renders the canonical source text of the type
	String() string
	isTypeExpr()
}

// Primitive is a scalar type such as real, int, complex or void
type Primitive struct {
	Name string
}

// Container is an N-dimensional array of an element type
type Container struct {
	Elem TypeExpr
	Dims int // Always >= 1
}

// Vector is the column vector type
type Vector struct{}

// RowVector is the row vector type
type RowVector struct{}

// Matrix is the matrix type
type Matrix struct{}

// Tuple is an ordered, heterogeneous product type
type Tuple struct {
	Elems []TypeExpr
}

func (Primitive) isTypeExpr() {}
func (Container) isTypeExpr() {}
func (Vector) isTypeExpr()    {}
func (RowVector) isTypeExpr() {}
func (Matrix) isTypeExpr()    {}
func (Tuple) isTypeExpr()     {}

func (p Primitive) String() string { return p.Name }
func (Vector) String() string      { return "vector" }
func (RowVector) String() string   { return "row_vector" }
func (Matrix) String() string      { return "matrix" }

func (c Container) String() string {
	var b strings.Builder
	b.WriteString("array[")
	for i := 1; i < c.Dims; i++ {
		b.WriteByte(',')
	}
	b.WriteString("] ")
	if c.Elem != nil {
		b.WriteString(c.Elem.String())
	}
	return b.String()
}

func (t Tuple) String() string {
	return "tuple(" + JoinTypes(t.Elems, ", ") + ")"
}

// EqualTypes reports whether two type expressions are structurally equal.
// Nested containers compare by their written nesting, so array[] array[] real
// is not equal to array[,] real.
func EqualTypes(a, b TypeExpr) bool {
	switch x := a.(type) {
	case Primitive:
		y, ok := b.(Primitive)
		return ok && x.Name == y.Name
	case Container:
		y, ok := b.(Container)
		return ok && x.Dims == y.Dims && EqualTypes(x.Elem, y.Elem)
	case Vector:
		_, ok := b.(Vector)
		return ok
	case RowVector:
		_, ok := b.(RowVector)
		return ok
	case Matrix:
		_, ok := b.(Matrix)
		return ok
	case Tuple:
		y, ok := b.(Tuple)
		return ok && EqualTypeLists(x.Elems, y.Elems)
	case nil:
		return b == nil
	default:
		return false
	}
}

// EqualTypeLists compares two type sequences element by element, in order
func EqualTypeLists(a, b []TypeExpr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualTypes(a[i], b[i]) {
			return false
		}
	}
	return true
}

// JoinTypes renders a type sequence with the given separator
func JoinTypes(ts []TypeExpr, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		if t == nil {
			parts[i] = "?"
			continue
		}
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}
