package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/standoc-mcp/pkg/types"
)

var (
	tReal = types.Primitive{Name: "real"}
	tInt  = types.Primitive{Name: "int"}
)

func TestParseType_Primitives(t *testing.T) {
	for _, name := range []string{"real", "int", "complex", "void"} {
		typ, err := ParseType(name)
		require.NoError(t, err)
		assert.Equal(t, types.Primitive{Name: name}, typ)
	}
}

func TestParseType_FixedContainers(t *testing.T) {
	tests := map[string]types.TypeExpr{
		"vector":     types.Vector{},
		"row_vector": types.RowVector{},
		"matrix":     types.Matrix{},
	}
	for text, want := range tests {
		typ, err := ParseType(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, typ, text)
	}
}

func TestParseType_Dimensionality(t *testing.T) {
	tests := []struct {
		text string
		want types.TypeExpr
	}{
		{"array [,] vector", types.Container{Elem: types.Vector{}, Dims: 2}},
		{"array[,,] real", types.Container{Elem: tReal, Dims: 3}},
		{"array[] int", types.Container{Elem: tInt, Dims: 1}},
		{"array [ , ] matrix", types.Container{Elem: types.Matrix{}, Dims: 2}},
		{"array\n[,]\nrow_vector", types.Container{Elem: types.RowVector{}, Dims: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			typ, err := ParseType(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, typ)
		})
	}
}

func TestParseType_NestingPreserved(t *testing.T) {
	nested, err := ParseType("array[] array[] real")
	require.NoError(t, err)
	flat, err := ParseType("array[,] real")
	require.NoError(t, err)

	assert.Equal(t, types.Container{Elem: types.Container{Elem: tReal, Dims: 1}, Dims: 1}, nested)
	assert.False(t, types.EqualTypes(nested, flat))
}

func TestParseType_Tuple(t *testing.T) {
	typ, err := ParseType("tuple(real, array[,] int, tuple(vector, matrix))")
	require.NoError(t, err)

	want := types.Tuple{Elems: []types.TypeExpr{
		tReal,
		types.Container{Elem: tInt, Dims: 2},
		types.Tuple{Elems: []types.TypeExpr{types.Vector{}, types.Matrix{}}},
	}}
	assert.True(t, types.EqualTypes(want, typ))
}

func TestParseType_SyntaxErrors(t *testing.T) {
	tests := []string{
		"",
		"array real",
		"array[3] real",
		"array[,]",
		"tuple()",
		"tuple(real",
		"tuple(real,)",
		"real int",
		"(real)",
		"re@l",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			_, err := ParseType(text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrSyntax))

			var synErr *types.SyntaxError
			require.True(t, errors.As(err, &synErr))
			assert.Equal(t, text, synErr.Text)
		})
	}
}

func TestParseType_RoundTrip(t *testing.T) {
	inputs := []string{
		"real",
		"array[,] vector",
		"array[] array[,,] matrix",
		"tuple(real, array[] int)",
		"array[] tuple(row_vector, complex)",
	}

	for _, text := range inputs {
		t.Run(text, func(t *testing.T) {
			first, err := ParseType(text)
			require.NoError(t, err)

			second, err := ParseType(first.String())
			require.NoError(t, err)
			assert.True(t, types.EqualTypes(first, second), "%s != %s", first, second)
		})
	}
}

func TestParseSignature_Basic(t *testing.T) {
	sig, err := ParseSignature("real log(real x, real y)", 7)
	require.NoError(t, err)

	assert.Equal(t, "log", sig.Name)
	assert.Equal(t, tReal, sig.ReturnType)
	assert.Equal(t, 7, sig.Order)
	require.Len(t, sig.Params, 2)
	assert.Equal(t, types.Parameter{Name: "x", Type: tReal}, sig.Params[0])
	assert.Equal(t, types.Parameter{Name: "y", Type: tReal}, sig.Params[1])
	assert.Equal(t, "log(real, real)", sig.Key())
}

func TestParseSignature_ParamTypeRoundTrip(t *testing.T) {
	sig, err := ParseSignature("real log(real x, real y)", 0)
	require.NoError(t, err)

	reparsed := make([]types.TypeExpr, 0, len(sig.Params))
	for _, pt := range sig.ParamTypes() {
		typ, err := ParseType(pt.String())
		require.NoError(t, err)
		reparsed = append(reparsed, typ)
	}
	assert.True(t, types.EqualTypeLists(sig.ParamTypes(), reparsed))
}

func TestParseSignature_Forms(t *testing.T) {
	tests := []struct {
		text   string
		name   string
		ret    types.TypeExpr
		params []types.Parameter
		render string
	}{
		{
			text:   "void basic()",
			name:   "basic",
			ret:    types.Primitive{Name: "void"},
			params: []types.Parameter{},
			render: "void basic()",
		},
		{
			text:   "real entropy(vector theta)",
			name:   "entropy",
			ret:    tReal,
			params: []types.Parameter{{Name: "theta", Type: types.Vector{}}},
			render: "real entropy(vector theta)",
		},
		{
			text:   "array [] real baz(array [,] real x)",
			name:   "baz",
			ret:    types.Container{Elem: tReal, Dims: 1},
			params: []types.Parameter{{Name: "x", Type: types.Container{Elem: tReal, Dims: 2}}},
			render: "array[] real baz(array[,] real x)",
		},
		{
			text:   "void overloaded(array [,,] real)",
			name:   "overloaded",
			ret:    types.Primitive{Name: "void"},
			params: []types.Parameter{{Type: types.Container{Elem: tReal, Dims: 3}}},
			render: "void overloaded(array[,,] real)",
		},
		{
			text: "tuple(real, int) split(\n    vector v,\n    int k\n)",
			name: "split",
			ret:  types.Tuple{Elems: []types.TypeExpr{tReal, tInt}},
			params: []types.Parameter{
				{Name: "v", Type: types.Vector{}},
				{Name: "k", Type: tInt},
			},
			render: "tuple(real, int) split(vector v, int k)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := ParseSignature(tt.text, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.name, sig.Name)
			assert.True(t, types.EqualTypes(tt.ret, sig.ReturnType))
			assert.Equal(t, tt.params, sig.Params)
			assert.Equal(t, tt.render, sig.String())
		})
	}
}

func TestParseSignature_SyntaxErrors(t *testing.T) {
	tests := []string{
		"log(real x)",
		"real log",
		"real log(real x",
		"real log(real x,)",
		"real log(real x) extra",
		"real vector(real x)",
		"real log(real matrix)",
		"real log(real x y)",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			_, err := ParseSignature(text, 0)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrSyntax))
		})
	}
}

func TestParser_ParseDeclaration(t *testing.T) {
	p := New("functions.stan")

	first, err := p.ParseDeclaration("real log(real x)", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, types.Location{File: "functions.stan", Line: 3}, first.Source)

	_, err = p.ParseDeclaration("real broken(", 8)
	require.Error(t, err)
	var synErr *types.SyntaxError
	require.True(t, errors.As(err, &synErr))
	assert.Equal(t, 8, synErr.Source.Line)
	assert.Contains(t, err.Error(), "functions.stan:8")

	second, err := p.ParseDeclaration("real log(real x, real y)", 12)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Order)
	assert.Equal(t, 2, p.NextOrder())
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery("log")
	require.NoError(t, err)
	assert.Equal(t, types.LookupQuery{Name: "log"}, q)

	q, err = ParseQuery("overload(real, array [,] int)")
	require.NoError(t, err)
	assert.True(t, q.Qualified)
	assert.Equal(t, "overload", q.Name)
	assert.True(t, types.EqualTypeLists(
		[]types.TypeExpr{tReal, types.Container{Elem: tInt, Dims: 2}}, q.ParamTypes))
	assert.Equal(t, "overload(real, array[,] int)", q.String())

	q, err = ParseQuery("basic()")
	require.NoError(t, err)
	assert.True(t, q.Qualified)
	assert.Empty(t, q.ParamTypes)

	q, err = ParseQuery("log(real x, real y)")
	require.NoError(t, err)
	assert.Len(t, q.ParamTypes, 2)

	_, err = ParseQuery("real log(real)")
	assert.True(t, errors.Is(err, types.ErrSyntax))

	_, err = ParseQuery("log(")
	assert.True(t, errors.Is(err, types.ErrSyntax))
}

func TestParseMembers(t *testing.T) {
	members, err := ParseMembers(" log1p_series ; log1p_series(real, int);; ")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.False(t, members[0].Qualified)
	assert.Equal(t, "log1p_series", members[0].Name)
	assert.True(t, members[1].Qualified)
	assert.Equal(t, "log1p_series(real, int)", members[1].String())

	members, err = ParseMembers("")
	require.NoError(t, err)
	assert.Nil(t, members)

	_, err = ParseMembers("ok; bad(")
	assert.Error(t, err)
}
