package indexer

import (
	"errors"
	"fmt"

	"github.com/dshills/standoc-mcp/internal/docstring"
	"github.com/dshills/standoc-mcp/internal/extractor"
	"github.com/dshills/standoc-mcp/internal/index"
	"github.com/dshills/standoc-mcp/internal/parser"
	"github.com/dshills/standoc-mcp/pkg/types"
)

// ErrNoSignatures is reported as a warning for files without declarations
var ErrNoSignatures = errors.New("no signatures found")

// FileBuild is the outcome of documenting one source file
type FileBuild struct {
	File   string       // Path the signatures are attributed to
	Index  *index.Index // Per-file index, not frozen
	Result *types.BuildResult
}

// parsedDecl is a declaration that passed the signature parser
type parsedDecl struct {
	raw extractor.RawDeclaration
	sig *types.Signature
}

// BuildFile documents the declarations of one source text. Each declaration
// is parsed, its comment normalized, and the pair registered into a fresh
// per-file index in source order. Syntax errors and duplicates are recorded
// on the result and the declaration is skipped; documentation problems are
// warnings.
//
// A forward declaration is dropped when the same overload is defined later in
// the file. Its comment is used when the definition has none.
func BuildFile(file, source string) *FileBuild {
	fb := &FileBuild{
		File:   file,
		Index:  index.New(),
		Result: &types.BuildResult{},
	}

	raws := extractor.New().Extract(source)
	if len(raws) == 0 {
		fb.Result.AddWarning(fmt.Errorf("%s: %w", file, ErrNoSignatures))
		return fb
	}

	p := parser.New(file)
	decls := make([]parsedDecl, 0, len(raws))
	defined := make(map[string]bool)
	for _, raw := range raws {
		sig, err := p.ParseDeclaration(raw.Signature, raw.Line)
		if err != nil {
			fb.Result.AddError(err)
			continue
		}
		sig.Source.EndLine = raw.EndLine
		decls = append(decls, parsedDecl{raw: raw, sig: sig})
		if !raw.Forward {
			defined[sig.Key()] = true
		}
	}

	// comments of forward declarations that a definition replaces
	forwardDocs := make(map[string]string)
	order := 0
	for _, d := range decls {
		key := d.sig.Key()
		if d.raw.Forward && defined[key] {
			if _, ok := forwardDocs[key]; !ok && d.raw.Comment != "" {
				forwardDocs[key] = d.raw.Comment
			}
			continue
		}

		comment := d.raw.Comment
		if comment == "" {
			comment = forwardDocs[key]
		}

		doc, warnings := docstring.Normalize(comment, d.sig)

		d.sig.Order = order
		if err := fb.Index.Register(d.sig, doc); err != nil {
			fb.Result.AddError(err)
			continue
		}
		order++
		for _, w := range warnings {
			fb.Result.AddWarning(fmt.Errorf("%s:%d: %w", file, d.raw.Line, w))
		}
		fb.Result.Functions = append(fb.Result.Functions, types.DocumentedFunction{Signature: d.sig, Doc: doc})
	}

	return fb
}

// MergeBuilds merges per-file builds in the order given into one frozen
// index. Cross-file duplicates are appended to result.Errors, and every
// per-file error and warning is carried over. result.Functions lists the
// merged index in global declaration order.
func MergeBuilds(builds []*FileBuild) (*index.Index, *types.BuildResult) {
	result := &types.BuildResult{}
	parts := make([]*index.Index, 0, len(builds))
	for _, fb := range builds {
		if fb == nil {
			continue
		}
		parts = append(parts, fb.Index)
		result.Errors = append(result.Errors, fb.Result.Errors...)
		result.Warnings = append(result.Warnings, fb.Result.Warnings...)
	}

	merged, err := index.Merge(parts...)
	for _, e := range splitErrors(err) {
		result.AddError(e)
	}
	result.Functions = merged.Functions()
	return merged, result
}

// splitErrors unpacks an errors.Join value
func splitErrors(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
