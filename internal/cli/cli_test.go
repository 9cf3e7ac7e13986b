package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dshills/standoc-mcp/pkg/types"
)

const seriesSource = `functions {
  /**
   * Approximate log1p with a truncated series.
   * @param x Point of evaluation.
   * @param n Number of terms.
   * @return The approximation.
   */
  real log1p_series(real x, int n) {
    return x;
  }

  /**
   * Approximate log1p with the default number of terms.
   * @param x Point of evaluation.
   */
  real log1p_series(real x) {
    return log1p_series(x, 10);
  }

  /** Smooth approximation of the rectifier. */
  real softplus(real x) {
    return log1p_exp(x);
  }
}
`

// testEnv is a project directory with its own database
type testEnv struct {
	root string
	db   string
	file string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib"), 0755))
	file := filepath.Join(root, "lib", "series.stanfunctions")
	require.NoError(t, os.WriteFile(file, []byte(seriesSource), 0644))

	return testEnv{
		root: root,
		db:   filepath.Join(t.TempDir(), "standoc.db"),
		file: file,
	}
}

// run executes the root command and returns stdout and stderr
func (e testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--root", e.root, "--db", e.db}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestParseCommand(t *testing.T) {
	env := newTestEnv(t)

	t.Run("signature", func(t *testing.T) {
		out, _, err := env.run(t, "parse", "array[ , ] real   stack( array[] vector xs , int k )", "-f", "json")
		require.NoError(t, err)

		var view types.FunctionView
		require.NoError(t, json.Unmarshal([]byte(out), &view))
		assert.Equal(t, "array[,] real stack(array[] vector xs, int k)", view.Signature)
		assert.Equal(t, "stack(array[] vector, int)", view.Key)
		assert.Equal(t, "array[,] real", view.ReturnType)
	})

	t.Run("type", func(t *testing.T) {
		out, _, err := env.run(t, "parse", "--type", "tuple( real , array[,] int )")
		require.NoError(t, err)
		assert.Equal(t, "type: tuple(real, array[,] int)\n", out)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, _, err := env.run(t, "parse", "real broken(real x")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrSyntax)
	})
}

func TestExtractCommand(t *testing.T) {
	env := newTestEnv(t)

	t.Run("every function", func(t *testing.T) {
		out, stderr, err := env.run(t, "extract", env.file)
		require.NoError(t, err)
		assert.Empty(t, stderr)

		var doc extractOutput
		require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
		require.Len(t, doc.Functions, 3)
		assert.Equal(t, "log1p_series(real, int)", doc.Functions[0].Key)
		assert.Equal(t, "Number of terms.", doc.Functions[0].Params[1].Doc)
		assert.Equal(t, "log1p_series(real)", doc.Functions[1].Key)
		assert.Equal(t, "softplus(real)", doc.Functions[2].Key)
	})

	t.Run("member selection", func(t *testing.T) {
		out, stderr, err := env.run(t, "extract", env.file, "--members", "softplus; log1p_series(real, int); missing", "-f", "json")
		require.NoError(t, err)
		assert.Contains(t, stderr, "warning:")
		assert.Contains(t, stderr, "missing")

		var doc extractOutput
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		require.Len(t, doc.Functions, 2)
		assert.Equal(t, "softplus(real)", doc.Functions[0].Key)
		assert.Equal(t, "log1p_series(real, int)", doc.Functions[1].Key)
	})

	t.Run("strict fails on duplicates", func(t *testing.T) {
		dup := filepath.Join(env.root, "dup.stan")
		src := "functions {\n  real f(real x) { return x; }\n  int f(real y) { return 1; }\n}\n"
		require.NoError(t, os.WriteFile(dup, []byte(src), 0644))

		out, stderr, err := env.run(t, "extract", dup)
		require.NoError(t, err)
		assert.Contains(t, out, "f(real)")
		assert.Contains(t, stderr, "duplicate definition")

		_, _, err = env.run(t, "extract", dup, "--strict")
		assert.ErrorIs(t, err, ErrBuildFailed)
	})
}

func TestResolveCommand_Files(t *testing.T) {
	env := newTestEnv(t)

	t.Run("ambiguous", func(t *testing.T) {
		out, _, err := env.run(t, "resolve", "log1p_series", "--file", env.file)
		require.NoError(t, err)

		var view types.ResolutionView
		require.NoError(t, yaml.Unmarshal([]byte(out), &view))
		assert.Equal(t, types.ResolutionAmbiguous, view.Kind)
		require.Len(t, view.Candidates, 2)
		assert.Equal(t, view.Candidates[0].Anchor, view.Link)
		assert.Equal(t, "log1p_series(real, int)", view.Candidates[0].Key)
	})

	t.Run("qualified", func(t *testing.T) {
		out, _, err := env.run(t, "resolve", "log1p_series(real)", "--file", env.file, "-f", "json")
		require.NoError(t, err)

		var view types.ResolutionView
		require.NoError(t, json.Unmarshal([]byte(out), &view))
		assert.Equal(t, types.ResolutionUnique, view.Kind)
		assert.Equal(t, "Approximate log1p with the default number of terms.", view.Candidates[0].Summary)
	})

	t.Run("malformed target", func(t *testing.T) {
		_, _, err := env.run(t, "resolve", "log1p_series(real", "--file", env.file)
		assert.ErrorIs(t, err, types.ErrSyntax)
	})
}

func TestIndexStatusSearchResolve(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "status")
	require.Error(t, err, "status before indexing")

	out, _, err := env.run(t, "index", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 1 file(s)")
	assert.Contains(t, out, "Registered 3 function(s)")

	out, _, err = env.run(t, "status", "-f", "json")
	require.NoError(t, err)
	var status statusOutput
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, 1, status.Files)
	assert.Equal(t, 3, status.Functions)

	out, _, err = env.run(t, "search", "rectifier", "--mode", "keyword", "-f", "json")
	require.NoError(t, err)
	var results []struct {
		IdentityKey string `json:"identity_key"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "softplus(real)", results[0].IdentityKey)

	out, _, err = env.run(t, "resolve", "log1p_series", "-f", "json")
	require.NoError(t, err)
	var view types.ResolutionView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, types.ResolutionAmbiguous, view.Kind)
	assert.Equal(t, "lib/series.stanfunctions", view.Candidates[0].File)

	// second run skips the unchanged file
	out, _, err = env.run(t, "index", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "skipped 1 unchanged")
}

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "standoc dev")
	assert.Contains(t, out, "SQLite Driver:")
}

func TestInvalidFormat(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "parse", "real f()", "-f", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.format")

	var buf bytes.Buffer
	assert.Error(t, encode(&buf, "toml", struct{}{}))
}
