// Package parser turns signature-language text into structured values.
//
// The grammar is small and fixed, so the package uses a hand-written tokenizer
// and recursive-descent parser instead of a generated one.
//
// # Types
//
//	t, err := parser.ParseType("array[,] vector")
//	// types.Container{Elem: types.Vector{}, Dims: 2}
//
// Supported forms:
//   - primitives: real, int, complex, void, or any other identifier
//   - vector, row_vector, matrix
//   - array[<commas>] <type>: dimensionality is commas + 1, sizes are not allowed
//   - tuple(<type>, <type>, ...)
//
// # Signatures
//
//	sig, err := parser.ParseSignature("real log(real x, real y)", 0)
//	// sig.Name == "log", two real parameters, real return type
//
// Parameter names are optional. A Parser assigns increasing declaration order
// to the declarations of one file:
//
//	p := parser.New("functions.stan")
//	sig, err := p.ParseDeclaration(text, line)
//
// # References and Member Lists
//
//	q, err := parser.ParseQuery("log(real, real)")      // qualified
//	q, err = parser.ParseQuery("log")                   // unqualified
//	ms, err := parser.ParseMembers("log; exp(real)")    // selection list
//
// # Error Handling
//
// All failures are *types.SyntaxError values carrying the input text and the
// byte offset of the offending token; errors.Is(err, types.ErrSyntax) holds.
package parser
