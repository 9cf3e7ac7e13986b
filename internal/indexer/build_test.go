package indexer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/standoc-mcp/internal/docstring"
	"github.com/dshills/standoc-mcp/pkg/types"
)

const seriesSource = `functions {
  /**
   * Truncated series for log1p.
   *
   * @param x Point of evaluation.
   * @param n Number of terms.
   * @return The approximation.
   */
  real log1p_series(real x, int n);

  real softplus(real x) {
    return log1p_exp(x);
  }

  real log1p_series(real x, int n) {
    real s = 0;
    for (i in 1:n) {
      s += x;
    }
    return s;
  }
}
`

const diagnosticsSource = `real bad(array[2] real x) {
  return 1;
}

real f(real x) {
  return x;
}

/**
 * Second f.
 * @see other
 */
real f(real x) {
  return x;
}

/** @see g */
real g(real x) {
  return x;
}
`

func TestBuildFile_ForwardDeclarationDoc(t *testing.T) {
	fb := BuildFile("series.stan", seriesSource)

	assert.False(t, fb.Result.HasErrors())
	assert.Empty(t, fb.Result.Warnings)
	require.Len(t, fb.Result.Functions, 2)

	softplus := fb.Result.Functions[0]
	assert.Equal(t, "softplus(real)", softplus.Signature.Key())
	assert.Equal(t, 0, softplus.Signature.Order)
	assert.True(t, softplus.Doc.IsEmpty())

	series := fb.Result.Functions[1]
	assert.Equal(t, "log1p_series(real, int)", series.Signature.Key())
	assert.Equal(t, 1, series.Signature.Order)
	assert.Equal(t, types.Location{File: "series.stan", Line: 15, EndLine: 15}, series.Signature.Source)
	assert.NotEmpty(t, series.Signature.Anchor)

	assert.Equal(t, "Truncated series for log1p.", series.Doc.Summary)
	assert.Equal(t, map[int]string{0: "Point of evaluation.", 1: "Number of terms."}, series.Doc.ParamDocs)
	require.NotNil(t, series.Doc.ReturnDoc)
	assert.Equal(t, "The approximation.", *series.Doc.ReturnDoc)

	assert.Equal(t, 2, fb.Index.Len())
	assert.False(t, fb.Index.Frozen())
	assert.Same(t, series.Doc, fb.Index.Doc(series.Signature))
}

func TestBuildFile_UnmatchedForwardIsRegistered(t *testing.T) {
	fb := BuildFile("fwd.stan", "functions {\n  // Only declared.\n  real later(real x);\n}\n")

	require.Len(t, fb.Result.Functions, 1)
	assert.Equal(t, "later(real)", fb.Result.Functions[0].Signature.Key())
	assert.Equal(t, "Only declared.", fb.Result.Functions[0].Doc.Summary)
}

func TestBuildFile_Diagnostics(t *testing.T) {
	fb := BuildFile("diag.stan", diagnosticsSource)

	require.Len(t, fb.Result.Errors, 2)
	assert.True(t, errors.Is(fb.Result.Errors[0], types.ErrSyntax))
	assert.Contains(t, fb.Result.Errors[0].Error(), "diag.stan:1")
	assert.True(t, errors.Is(fb.Result.Errors[1], types.ErrDuplicateDefinition))
	assert.Contains(t, fb.Result.Errors[1].Error(), "diag.stan:13")
	assert.Contains(t, fb.Result.Errors[1].Error(), "diag.stan:5")

	// warnings of the skipped duplicate are not reported
	require.Len(t, fb.Result.Warnings, 1)
	assert.True(t, errors.Is(fb.Result.Warnings[0], docstring.ErrUnknownField))
	assert.Contains(t, fb.Result.Warnings[0].Error(), "diag.stan:18")

	require.Len(t, fb.Result.Functions, 2)
	assert.Equal(t, "f(real)", fb.Result.Functions[0].Signature.Key())
	assert.Equal(t, 0, fb.Result.Functions[0].Signature.Order)
	assert.Equal(t, "g(real)", fb.Result.Functions[1].Signature.Key())
	assert.Equal(t, 1, fb.Result.Functions[1].Signature.Order)
}

func TestBuildFile_CommentAttachment(t *testing.T) {
	src := `functions {
#include helpers.stan
/** Compute the log.
 * @param x value
 * @return the log
 */
real lg(real x) { return log(x); }

real f(real x);  // forward decl of f
real g(real y) { return y; }
}
`
	fb := BuildFile("attach.stan", src)
	assert.False(t, fb.Result.HasErrors())
	assert.Empty(t, fb.Result.Warnings)
	require.Len(t, fb.Result.Functions, 3)

	lg := fb.Result.Functions[0]
	assert.Equal(t, "Compute the log.", lg.Doc.Summary)
	assert.Equal(t, map[int]string{0: "value"}, lg.Doc.ParamDocs)
	require.NotNil(t, lg.Doc.ReturnDoc)
	assert.Equal(t, "the log", *lg.Doc.ReturnDoc)

	for _, fn := range fb.Result.Functions[1:] {
		assert.True(t, fn.Doc.IsEmpty(), fn.Signature.Key())
	}
}

func TestBuildFile_NoSignatures(t *testing.T) {
	fb := BuildFile("empty.stan", "// nothing here\n")

	assert.False(t, fb.Result.HasErrors())
	require.Len(t, fb.Result.Warnings, 1)
	assert.True(t, errors.Is(fb.Result.Warnings[0], ErrNoSignatures))
	assert.Equal(t, 0, fb.Index.Len())
}

func TestMergeBuilds(t *testing.T) {
	a := BuildFile("a.stan", "real f(real x) {\n  return x;\n}\nreal f(real x, real y) {\n  return x;\n}\n")
	b := BuildFile("b.stan", "real h(int n) {\n  return n;\n}\nreal f(real x) {\n  return x;\n}\n")

	merged, result := MergeBuilds([]*FileBuild{a, nil, b})

	assert.True(t, merged.Frozen())
	require.Len(t, result.Errors, 1)
	var dup *types.DuplicateDefinitionError
	require.True(t, errors.As(result.Errors[0], &dup))
	assert.Equal(t, "a.stan", dup.Existing.Source.File)
	assert.Equal(t, "b.stan", dup.Duplicate.Source.File)

	require.Len(t, result.Functions, 3)
	keys := make([]string, len(result.Functions))
	for i, fn := range result.Functions {
		keys[i] = fn.Signature.Key()
		assert.Equal(t, i, fn.Signature.Order)
	}
	assert.Equal(t, []string{"f(real)", "f(real, real)", "h(int)"}, keys)

	// per-file indexes are untouched
	assert.Equal(t, 0, b.Index.LookupByName("h")[0].Order)
}

func TestMergeBuilds_Deterministic(t *testing.T) {
	build := func() []string {
		a := BuildFile("a.stan", "real log(real x) {\n  return x;\n}\n")
		b := BuildFile("b.stan", "real log(real x, real y) {\n  return x;\n}\n")
		merged, _ := MergeBuilds([]*FileBuild{a, b})
		return merged.LookupByName("log").Keys()
	}

	first := build()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, build())
	}
	assert.Equal(t, []string{"log(real)", "log(real, real)"}, first)
}
