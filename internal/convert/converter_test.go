package convert_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/objgraph/internal/convert"
	"github.com/zclconf/go-cty/cty"
)

func TestConvertFrom(t *testing.T) {
	type level string

	testCases := []struct {
		name   string
		target reflect.Type
		in     any
		want   any
	}{
		{name: "string to int", target: reflect.TypeOf(0), in: "42", want: 42},
		{name: "float to int", target: reflect.TypeOf(0), in: float64(7), want: 7},
		{name: "int64 to float", target: reflect.TypeOf(0.0), in: int64(3), want: 3.0},
		{name: "number to string", target: reflect.TypeOf(""), in: 12, want: "12"},
		{name: "string to bool", target: reflect.TypeOf(false), in: "true", want: true},
		{name: "assignable passthrough", target: reflect.TypeOf(""), in: "same", want: "same"},
		{name: "nil to zero", target: reflect.TypeOf(0), in: nil, want: 0},
		{name: "named string", target: reflect.TypeOf(level("")), in: "debug", want: level("debug")},
		{name: "tuple to slice", target: reflect.TypeOf([]int{}), in: []any{int64(1), "2", 3.0}, want: []int{1, 2, 3}},
		{name: "object to map", target: reflect.TypeOf(map[string]string{}), in: map[string]any{"a": "x", "b": int64(2)}, want: map[string]string{"a": "x", "b": "2"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := convert.For(tc.target)
			require.NoError(t, err)

			got, err := c.ConvertFrom(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConvertFrom_Errors(t *testing.T) {
	c, err := convert.For(reflect.TypeOf(0))
	require.NoError(t, err)

	_, err = c.ConvertFrom("not a number")
	require.Error(t, err)

	_, err = c.ConvertFrom(3.5)
	require.Error(t, err)
}

func TestFor_RejectsStructs(t *testing.T) {
	type point struct{ X int }
	_, err := convert.For(reflect.TypeOf(point{}))
	require.Error(t, err)
	assert.False(t, convert.Supports(reflect.TypeOf(map[int]string{})))
	assert.True(t, convert.Supports(reflect.TypeOf(map[string][]float64{})))
}

func TestToNative(t *testing.T) {
	v := cty.ObjectVal(map[string]cty.Value{
		"name":  cty.StringVal("shelf"),
		"count": cty.NumberIntVal(3),
		"ratio": cty.NumberFloatVal(0.5),
		"tags":  cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.True}),
		"none":  cty.NullVal(cty.String),
	})

	got, err := convert.ToNative(v)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":  "shelf",
		"count": int64(3),
		"ratio": 0.5,
		"tags":  []any{"a", true},
		"none":  nil,
	}, got)

	assert.Equal(t, []string{"count", "name", "none", "ratio", "tags"}, convert.SortedKeys(v))
}

func TestToCty_RoundTripsGenericContainers(t *testing.T) {
	in := map[string]any{"list": []any{int64(1), "two"}, "flag": false}

	v, err := convert.ToCty(in)
	require.NoError(t, err)
	require.True(t, v.Type().IsObjectType())

	back, err := convert.ToNative(v)
	require.NoError(t, err)
	assert.Equal(t, in, back)
}
