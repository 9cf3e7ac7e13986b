// Package extractor pulls function declarations and their doc comments out of
// Stan program text.
//
// # Basic Usage
//
//	e := extractor.New()
//	decls, err := e.ExtractFile("/path/to/functions.stan")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, d := range decls {
//	    fmt.Printf("line %d: %s\n", d.Line, d.Signature)
//	}
//
// # Scanning Rules
//
// The scanner is not a full Stan parser. It tracks comments, string literals
// and brace depth, and treats a statement as a declaration when:
//   - it sits at the top level or directly inside a functions block
//   - its folded text has the shape "<type> <name>(...)"
//   - it is followed by a body ("{") or ends in ";" (a forward declaration)
//
// Function bodies are skipped by brace matching, so calls and local
// variables inside them never produce declarations.
//
// # Comment Attachment
//
// The comment attached to a declaration is the last comment block that
// precedes it with nothing but whitespace in between. Blank lines are
// allowed. A block comment ("/* */" or "/** */") forms one block; consecutive
// "//" lines form one block. Any other statement between the comment and the
// declaration detaches it.
//
// Comment text is returned with its delimiters removed but otherwise raw;
// leading "*" decoration is left for the docstring package to strip.
package extractor
