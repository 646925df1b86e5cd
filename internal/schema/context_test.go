package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/objgraph/internal/schema"
)

func TestContext_AddAndResolve(t *testing.T) {
	sc := schema.NewContext()
	a := schema.NewType(schema.TypeSpec{Name: "Book", Namespace: "urn:a"})
	b := schema.NewType(schema.TypeSpec{Name: "Book", Namespace: "urn:b"})
	p := schema.NewType(schema.TypeSpec{Name: "Point", Namespace: "urn:a"})

	require.NoError(t, sc.Add(a))
	require.NoError(t, sc.Add(b))
	require.NoError(t, sc.Add(p))
	require.Error(t, sc.Add(schema.NewType(schema.TypeSpec{Name: "Book", Namespace: "urn:a"})))

	got, ok := sc.Type("urn:b", "Book")
	require.True(t, ok)
	assert.Same(t, b, got)

	got, err := sc.Lookup("Point")
	require.NoError(t, err)
	assert.Same(t, p, got)

	_, err = sc.Lookup("Book")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	got, err = sc.Resolve("urn:a", "Book")
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = sc.Resolve("urn:c", "Book")
	require.Error(t, err)

	types := sc.Types()
	require.Len(t, types, 3)
	assert.Equal(t, "{urn:a}Book", types[0].String())
}
