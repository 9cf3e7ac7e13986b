package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	e := New()
	assert.NotNil(t, e)
}

func TestExtract_FunctionsBlock(t *testing.T) {
	src := `functions {
  /**
   * Compute a thing.
   * @param x value
   */
  real foo(real x) {
    return x + 1;
  }

  real bar(vector v, int n);
}
model {
  y ~ normal(mu, sigma);
}
`
	decls := New().Extract(src)
	require.Len(t, decls, 2)

	assert.Equal(t, "real foo(real x)", decls[0].Signature)
	assert.Contains(t, decls[0].Comment, "Compute a thing.")
	assert.Contains(t, decls[0].Comment, "@param x value")
	assert.Equal(t, 6, decls[0].Line)
	assert.False(t, decls[0].Forward)

	assert.Equal(t, "real bar(vector v, int n)", decls[1].Signature)
	assert.Empty(t, decls[1].Comment)
	assert.Equal(t, 10, decls[1].Line)
	assert.True(t, decls[1].Forward)
}

func TestExtract_LineComments(t *testing.T) {
	src := `// first block

// Returns the sum.
// Second line.
real add(real a, real b) {
  return a + b;
}
`
	decls := New().Extract(src)
	require.Len(t, decls, 1)
	assert.Equal(t, "Returns the sum.\nSecond line.", decls[0].Comment)
	assert.Equal(t, 5, decls[0].Line)
}

func TestExtract_HashComment(t *testing.T) {
	decls := New().Extract("# legacy note\nreal k(real x);\n")
	require.Len(t, decls, 1)
	assert.Equal(t, "legacy note", decls[0].Comment)
	assert.True(t, decls[0].Forward)
}

func TestExtract_InterveningStatementDetachesComment(t *testing.T) {
	src := `/** orphan */
int K = 3;
real f(real x) { return x; }
`
	decls := New().Extract(src)
	require.Len(t, decls, 1)
	assert.Equal(t, "real f(real x)", decls[0].Signature)
	assert.Empty(t, decls[0].Comment)
}

func TestExtract_MultiLineSignature(t *testing.T) {
	src := `/** doc */
array[] real
  baz(array[,] real x,
      tuple(real, int) t) {
  return x[1];
}
`
	decls := New().Extract(src)
	require.Len(t, decls, 1)
	assert.Equal(t, "array[] real baz(array[,] real x, tuple(real, int) t)", decls[0].Signature)
	assert.Equal(t, 2, decls[0].Line)
	assert.Equal(t, 4, decls[0].EndLine)
	assert.Equal(t, "doc", decls[0].Comment)
}

func TestExtract_SkipsBodies(t *testing.T) {
	src := `functions {
  void g() {
    print("}");  // }
    /* { */
    if (1) { reject("x"); }
    real inner(real z);
  }
  real h(real x) { return x; }
}
`
	decls := New().Extract(src)
	require.Len(t, decls, 2)
	assert.Equal(t, "void g()", decls[0].Signature)
	assert.Equal(t, "real h(real x)", decls[1].Signature)
	assert.Equal(t, 8, decls[1].Line)
}

func TestExtract_IgnoresOtherBlocks(t *testing.T) {
	src := `transformed data {
  real foo(real x);
}
generated quantities {
  real z = foo(1.0);
}
`
	assert.Empty(t, New().Extract(src))
}

func TestExtract_CommentBeforeClosingBrace(t *testing.T) {
	src := `functions {
  real a(real x) { return x; }
  // trailing
}
real b(real x);
`
	decls := New().Extract(src)
	require.Len(t, decls, 2)
	assert.Empty(t, decls[1].Comment)
}

func TestExtract_SummaryOnOpenerLine(t *testing.T) {
	src := `/** Compute the log.
 * @param x value
 * @return the log
 */
real lg(real x) { return log(x); }
`
	decls := New().Extract(src)
	require.Len(t, decls, 1)
	assert.Equal(t, "Compute the log.\n@param x value\n@return the log", decls[0].Comment)
}

func TestExtract_BlockDecorationKeepsBullets(t *testing.T) {
	src := `/**
 * Checks input.
 * :raises:
 *   * negative x
 */
real chk(real x);
`
	decls := New().Extract(src)
	require.Len(t, decls, 1)
	assert.Equal(t, "Checks input.\n:raises:\n  * negative x", decls[0].Comment)
}

func TestExtract_TrailingCommentNotAttached(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"after forward declaration", "real f(real x);  // forward decl of f\nreal g(real y) { return y; }\n"},
		{"after body", "real f(real x) { return x; }  /* f done */\nreal g(real y) { return y; }\n"},
		{"after block header", "functions {  // helpers\nreal g(real y) { return y; }\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decls := New().Extract(tt.src)
			require.NotEmpty(t, decls)
			last := decls[len(decls)-1]
			assert.Equal(t, "real g(real y)", last.Signature)
			assert.Empty(t, last.Comment)
		})
	}
}

func TestExtract_TrailingCommentThenDocComment(t *testing.T) {
	src := `real f(real x);  // forward decl of f
// Doubles y.
real g(real y) { return 2 * y; }
`
	decls := New().Extract(src)
	require.Len(t, decls, 2)
	assert.Equal(t, "Doubles y.", decls[1].Comment)
}

func TestExtract_IncludeDetachesComment(t *testing.T) {
	src := `functions {
#include helpers.stan
real g(real y) { return y; }
}
`
	decls := New().Extract(src)
	require.Len(t, decls, 1)
	assert.Equal(t, "real g(real y)", decls[0].Signature)
	assert.Empty(t, decls[0].Comment)
	assert.Equal(t, 3, decls[0].Line)

	decls = New().Extract("// note\n#include helpers.stan\nreal g(real y);\n")
	require.Len(t, decls, 1)
	assert.Empty(t, decls[0].Comment)
}

func TestExtract_Empty(t *testing.T) {
	assert.Empty(t, New().Extract(""))
	assert.Empty(t, New().Extract("// only a comment\n"))
}

func TestExtractFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "funcs.stanfunctions")
	err := os.WriteFile(path, []byte("/** Identity. */\nreal id(real x) { return x; }\n"), 0644)
	require.NoError(t, err)

	decls, err := New().ExtractFile(path)
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "Identity.", decls[0].Comment)

	_, err = New().ExtractFile(filepath.Join(tmpDir, "missing.stan"))
	assert.Error(t, err)
}
