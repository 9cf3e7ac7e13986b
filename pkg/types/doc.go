// Package types provides shared type definitions for standoc.
//
// This package defines the domain types used across the parser, the symbol
// index, the reference resolver and the documentation pipeline.
//
// # Type Expressions
//
// TypeExpr is a closed set of variants describing the signature language's
// types:
//
//	types.Primitive{Name: "real"}
//	types.Vector{}
//	types.Container{Elem: types.Vector{}, Dims: 2} // array[,] vector
//	types.Tuple{Elems: []types.TypeExpr{types.Primitive{Name: "real"}, types.Matrix{}}}
//
// Equality is structural (EqualTypes) and nesting is significant:
// array[] array[] real and array[,] real are different types.
//
// # Signatures and Overload Identity
//
// A Signature carries the function name, its parameters, the return type and
// the declaration order. Overload identity is (name, parameter types); names of
// parameters and the return type never participate:
//
//	sig.Key() // "log(real, real)"
//
// # Resolution Results
//
// Resolving a LookupQuery yields a Resolution whose Kind is one of
// ResolutionUnique, ResolutionAmbiguous or ResolutionNotFound. Candidates are
// always in declaration order, so "first wins" link policies are
// deterministic:
//
//	res := resolver.Resolve(types.LookupQuery{Name: "log"})
//	if err := res.Err(); err != nil {
//	    log.Printf("warning: %v", err)
//	}
//	target := res.First()
//
// # Errors
//
// SyntaxError, DuplicateDefinitionError, NotFoundError and
// AmbiguousReferenceWarning implement error and match their sentinels through
// errors.Is:
//
//	if errors.Is(err, types.ErrDuplicateDefinition) { ... }
package types
