package index

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/standoc-mcp/internal/parser"
	"github.com/dshills/standoc-mcp/pkg/types"
)

// mustSig parses a declaration for tests
func mustSig(t *testing.T, text string, order int) *types.Signature {
	t.Helper()
	sig, err := parser.ParseSignature(text, order)
	require.NoError(t, err)
	return sig
}

func TestRegister_AssignsAnchorAndDoc(t *testing.T) {
	idx := New()
	sig := mustSig(t, "real log(real x)", 0)

	require.NoError(t, idx.Register(sig, nil))
	assert.NotEmpty(t, sig.Anchor)
	require.NotNil(t, idx.Doc(sig))
	assert.Same(t, sig, idx.Doc(sig).Signature)
	assert.True(t, idx.Doc(sig).IsEmpty())
	assert.Equal(t, 1, idx.Len())
}

func TestRegister_Duplicate(t *testing.T) {
	idx := New()
	first := mustSig(t, "real log(real x, real y)", 0)
	first.Source = types.Location{File: "a.stan", Line: 3}
	second := mustSig(t, "vector log(real a, real b)", 1)
	second.Source = types.Location{File: "a.stan", Line: 9}

	require.NoError(t, idx.Register(first, nil))
	err := idx.Register(second, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDuplicateDefinition))

	var dup *types.DuplicateDefinitionError
	require.True(t, errors.As(err, &dup))
	assert.Same(t, first, dup.Existing)
	assert.Same(t, second, dup.Duplicate)
	assert.Contains(t, err.Error(), "a.stan:3")
	assert.Contains(t, err.Error(), "a.stan:9")

	assert.Equal(t, 1, idx.Len())
}

func TestRegister_DifferentArityIsDistinct(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Register(mustSig(t, "real log(real x, real y)", 0), nil))
	require.NoError(t, idx.Register(mustSig(t, "real log(real x)", 1), nil))
	assert.Equal(t, 2, idx.Len())
}

func TestRegister_Frozen(t *testing.T) {
	idx := New()
	idx.Freeze()
	assert.True(t, idx.Frozen())

	err := idx.Register(mustSig(t, "real log(real x)", 0), nil)
	assert.ErrorIs(t, err, types.ErrIndexFrozen)
}

func TestRegister_Invalid(t *testing.T) {
	idx := New()
	assert.Error(t, idx.Register(nil, nil))
	assert.Error(t, idx.Register(&types.Signature{}, nil))
	assert.Error(t, idx.Register(&types.Signature{
		Name:   "f",
		Params: []types.Parameter{{Type: types.Container{Elem: types.Primitive{Name: "real"}, Dims: 0}}},
	}, nil))
}

func TestRegister_ReservedPrimitiveName(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Register(mustSig(t, "real f(vector v)", 0), nil))

	err := idx.Register(&types.Signature{
		Name:       "f",
		ReturnType: types.Primitive{Name: "real"},
		Params:     []types.Parameter{{Name: "v", Type: types.Primitive{Name: "vector"}}},
	}, nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, types.ErrDuplicateDefinition))
	assert.Equal(t, 1, idx.Len())
}

func TestLookup_HandBuiltPrimitiveDoesNotAlias(t *testing.T) {
	idx := New()
	sig := mustSig(t, "real f(vector v)", 0)
	require.NoError(t, idx.Register(sig, nil))

	fake := []types.TypeExpr{types.Primitive{Name: "vector"}}
	assert.Nil(t, idx.Lookup("f", fake))
	assert.Nil(t, idx.Doc(&types.Signature{Name: "f", Params: []types.Parameter{{Type: fake[0]}}}))
	assert.Same(t, sig, idx.Lookup("f", []types.TypeExpr{types.Vector{}}))
	assert.NotNil(t, idx.Doc(sig))
}

func TestLookupByName(t *testing.T) {
	idx := New()
	decls := []string{"real log(real x)", "real exp(real x)", "real log(real x, real b)"}
	for i, d := range decls {
		require.NoError(t, idx.Register(mustSig(t, d, i), nil))
	}

	set := idx.LookupByName("log")
	assert.Equal(t, []string{"log(real)", "log(real, real)"}, set.Keys())

	assert.Empty(t, idx.LookupByName("missing"))
	assert.NotNil(t, idx.LookupByName("missing"))

	assert.Equal(t, []string{"log", "exp"}, idx.Names())
	assert.Equal(t, []string{"log(real)", "exp(real)", "log(real, real)"}, idx.All().Keys())
}

func TestLookup_Exact(t *testing.T) {
	idx := New()
	sig := mustSig(t, "real f(array[,] vector x)", 0)
	require.NoError(t, idx.Register(sig, nil))

	got := idx.Lookup("f", []types.TypeExpr{types.Container{Elem: types.Vector{}, Dims: 2}})
	assert.Same(t, sig, got)
	assert.Nil(t, idx.Lookup("f", []types.TypeExpr{types.Vector{}}))
	assert.True(t, idx.HasName("f"))
	assert.False(t, idx.HasName("g"))
}

func TestMerge_PreservesSubmissionOrder(t *testing.T) {
	a := New()
	require.NoError(t, a.Register(mustSig(t, "real log(real x)", 0), nil))
	require.NoError(t, a.Register(mustSig(t, "real exp(real x)", 1), nil))

	b := New()
	require.NoError(t, b.Register(mustSig(t, "real log(real x, real y)", 0), nil))

	merged, err := Merge(a, nil, b)
	require.NoError(t, err)
	assert.True(t, merged.Frozen())

	all := merged.All()
	assert.Equal(t, []string{"log(real)", "exp(real)", "log(real, real)"}, all.Keys())
	for i, sig := range all {
		assert.Equal(t, i, sig.Order)
	}

	// parts are untouched
	assert.Equal(t, 0, b.All()[0].Order)
	assert.False(t, a.Frozen())
}

func TestMerge_DuplicateAcrossFiles(t *testing.T) {
	a := New()
	first := mustSig(t, "real log(real x)", 0)
	first.Source = types.Location{File: "a.stan", Line: 1}
	require.NoError(t, a.Register(first, nil))

	b := New()
	second := mustSig(t, "real log(real y)", 0)
	second.Source = types.Location{File: "b.stan", Line: 4}
	require.NoError(t, b.Register(second, nil))
	require.NoError(t, b.Register(mustSig(t, "real exp(real x)", 1), nil))

	merged, err := Merge(a, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDuplicateDefinition))
	assert.Contains(t, err.Error(), "a.stan:1")
	assert.Contains(t, err.Error(), "b.stan:4")

	assert.Equal(t, []string{"log(real)", "exp(real)"}, merged.All().Keys())
	assert.Equal(t, 1, merged.All()[1].Order)
}

func TestSelect(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Register(mustSig(t, "real log1p_series(real x, int n)", 0), nil))
	require.NoError(t, idx.Register(mustSig(t, "real log1p_series(real x)", 1), nil))
	require.NoError(t, idx.Register(mustSig(t, "real other(real x)", 2), nil))

	t.Run("bare name selects all overloads", func(t *testing.T) {
		members, err := parser.ParseMembers("log1p_series")
		require.NoError(t, err)
		got, warnings := idx.Select(members)
		assert.Empty(t, warnings)
		assert.Equal(t, []string{"log1p_series(real, int)", "log1p_series(real)"}, got.Keys())
	})

	t.Run("qualified selects one overload", func(t *testing.T) {
		members, err := parser.ParseMembers("log1p_series(real, int)")
		require.NoError(t, err)
		got, warnings := idx.Select(members)
		assert.Empty(t, warnings)
		assert.Equal(t, []string{"log1p_series(real, int)"}, got.Keys())
	})

	t.Run("list order and dedup", func(t *testing.T) {
		members, err := parser.ParseMembers("other; log1p_series(real); log1p_series")
		require.NoError(t, err)
		got, warnings := idx.Select(members)
		assert.Empty(t, warnings)
		assert.Equal(t, []string{"other(real)", "log1p_series(real)", "log1p_series(real, int)"}, got.Keys())
	})

	t.Run("empty list selects everything", func(t *testing.T) {
		got, warnings := idx.Select(nil)
		assert.Empty(t, warnings)
		assert.Len(t, got, 3)
	})

	t.Run("unmatched entries warn", func(t *testing.T) {
		members, err := parser.ParseMembers("missing; other(int)")
		require.NoError(t, err)
		got, warnings := idx.Select(members)
		assert.Empty(t, got)
		require.Len(t, warnings, 2)
		for _, w := range warnings {
			assert.ErrorIs(t, w, types.ErrNotFound)
		}

		var nf *types.NotFoundError
		require.True(t, errors.As(warnings[1], &nf))
		assert.True(t, nf.Known)
	})
}
