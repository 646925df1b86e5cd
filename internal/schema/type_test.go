package schema_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/objgraph/internal/schema"
)

// newPointType builds a constructor-only type by hand with a (X, Y) constructor
// and an optional third Z parameter on a wider one.
func newPointType(t *testing.T, ctors ...schema.Constructor) *schema.Type {
	t.Helper()
	typ := schema.NewType(schema.TypeSpec{
		Name:         "Point",
		Namespace:    "urn:test",
		Constructors: ctors,
	})
	typ.AddMember(schema.MemberSpec{Name: "X"})
	typ.AddMember(schema.MemberSpec{Name: "Y"})
	typ.AddMember(schema.MemberSpec{Name: "Z"})
	typ.AddMember(schema.MemberSpec{Name: "Label"})
	return typ
}

func prop(t *testing.T, typ *schema.Type, name string, v any) schema.Property {
	t.Helper()
	m, ok := typ.Member(name)
	require.True(t, ok, "member %s", name)
	return schema.Property{Member: m, Value: v}
}

func TestSortedConstructorArguments_DeclaredOrder(t *testing.T) {
	typ := newPointType(t, schema.Constructor{Params: []schema.Parameter{{Member: "X"}, {Member: "Y"}}})

	written := []schema.Property{
		prop(t, typ, "Y", 5),
		prop(t, typ, "Label", "origin"),
		prop(t, typ, "X", 3),
	}

	args := typ.SortedConstructorArguments(written)
	require.Len(t, args, 2)
	assert.Equal(t, "X", args[0].Member.Name())
	assert.Equal(t, 3, args[0].Value)
	assert.Equal(t, "Y", args[1].Member.Name())
	assert.Equal(t, 5, args[1].Value)
}

func TestSortedConstructorArguments_NoMatch(t *testing.T) {
	typ := newPointType(t, schema.Constructor{Params: []schema.Parameter{{Member: "X"}, {Member: "Y"}}})

	args := typ.SortedConstructorArguments([]schema.Property{prop(t, typ, "X", 1)})
	assert.Nil(t, args)
	assert.False(t, typ.HasAllConstructorArguments([]schema.Property{prop(t, typ, "X", 1)}))
}

func TestSortedConstructorArguments_PrefersWidestAndFillsOptional(t *testing.T) {
	typ := newPointType(t,
		schema.Constructor{Params: []schema.Parameter{{Member: "X"}, {Member: "Y"}}},
		schema.Constructor{Params: []schema.Parameter{{Member: "X"}, {Member: "Y"}, {Member: "Z", Optional: true}}},
	)

	written := []schema.Property{prop(t, typ, "X", 1), prop(t, typ, "Y", 2)}
	args := typ.SortedConstructorArguments(written)
	require.Len(t, args, 3)
	assert.Equal(t, "Z", args[2].Member.Name())
	assert.Nil(t, args[2].Value)

	assert.False(t, typ.HasAllConstructorArguments(written))
	assert.True(t, typ.HasAllConstructorArguments(append(written, prop(t, typ, "Z", 3))))
}

func TestConstructorArgumentFlag(t *testing.T) {
	typ := newPointType(t, schema.Constructor{Params: []schema.Parameter{{Member: "X"}, {Member: "Y"}}})

	x, _ := typ.Member("X")
	label, _ := typ.Member("Label")
	assert.True(t, x.IsConstructorArgument())
	assert.False(t, label.IsConstructorArgument())
	assert.True(t, typ.ConstructionRequiresArguments())
}

func TestConstructionRequiresArguments(t *testing.T) {
	plain := schema.NewType(schema.TypeSpec{Name: "Plain"})
	assert.False(t, plain.ConstructionRequiresArguments())

	optional := schema.NewType(schema.TypeSpec{
		Name:         "Optional",
		Constructors: []schema.Constructor{{Params: []schema.Parameter{{Member: "A", Optional: true}}}},
	})
	assert.False(t, optional.ConstructionRequiresArguments())
}

func TestAddMember_DuplicatePanics(t *testing.T) {
	typ := schema.NewType(schema.TypeSpec{Name: "Dup"})
	typ.AddMember(schema.MemberSpec{Name: "A"})
	assert.Panics(t, func() { typ.AddMember(schema.MemberSpec{Name: "A"}) })
}

func TestAccepts(t *testing.T) {
	type sample struct{ A int }
	typ := schema.NewType(schema.TypeSpec{Name: "sample", Underlying: reflect.TypeOf(sample{})})

	assert.True(t, typ.Accepts(sample{}))
	assert.True(t, typ.Accepts(&sample{}))
	assert.False(t, typ.Accepts("text"))
	assert.True(t, typ.Accepts(nil))
}

func TestMember_IsCollection(t *testing.T) {
	list := schema.NewType(schema.TypeSpec{Name: "List", Kind: schema.KindCollection})
	dict := schema.NewType(schema.TypeSpec{Name: "Dict", Kind: schema.KindDictionary})
	owner := schema.NewType(schema.TypeSpec{Name: "Owner"})

	items := owner.AddMember(schema.MemberSpec{Name: "Items", Type: list})
	labels := owner.AddMember(schema.MemberSpec{Name: "Labels", Type: dict})
	title := owner.AddMember(schema.MemberSpec{Name: "Title"})

	assert.True(t, items.IsCollection())
	assert.True(t, labels.IsCollection())
	assert.True(t, labels.IsDictionary())
	assert.False(t, title.IsCollection())
	assert.Equal(t, "Owner.Items", items.String())
	assert.Equal(t, "x:Name", schema.Name.String())
}

func TestDirectiveLookup(t *testing.T) {
	m, ok := schema.Directive("FactoryMethod")
	require.True(t, ok)
	assert.Same(t, schema.FactoryMethod, m)
	assert.True(t, m.IsDirective())

	_, ok = schema.Directive("Nope")
	assert.False(t, ok)
}
