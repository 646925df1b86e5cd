package markup_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/objgraph/internal/markup"
	"github.com/vk/objgraph/internal/objwriter"
	"github.com/vk/objgraph/internal/reflectschema"
	"github.com/vk/objgraph/internal/schema"
	"github.com/vk/objgraph/modules/catalog"
)

type env struct {
	t     *testing.T
	sc    *schema.Context
	shelf *schema.Type
	book  *schema.Type
}

func newEnv(t *testing.T) *env {
	t.Helper()
	sc := schema.NewContext()
	r := reflectschema.New(sc)
	(&markup.Module{}).Register(r)
	(&catalog.Module{}).Register(r)
	require.NoError(t, r.Validate(context.Background()))

	e := &env{t: t, sc: sc}
	var err error
	e.shelf, err = sc.Lookup("Shelf")
	require.NoError(t, err)
	e.book, err = sc.Lookup("Book")
	require.NoError(t, err)
	return e
}

func (e *env) member(t *schema.Type, name string) *schema.Member {
	e.t.Helper()
	m, ok := t.Member(name)
	require.True(e.t, ok)
	return m
}

func (e *env) extension(name string) *schema.Type {
	e.t.Helper()
	t, ok := e.sc.Type(schema.DirectiveNamespace, name)
	require.True(e.t, ok, "extension %s is not registered", name)
	return t
}

// writeShelf writes a shelf with one named book and then fills featured
// with whatever write produces.
func (e *env) writeShelf(featured func(w *objwriter.Writer) error) (*catalog.Shelf, error) {
	e.t.Helper()
	w := objwriter.New(context.Background(), e.sc)
	steps := []func() error{
		func() error { return w.WriteStartObject(e.shelf) },
		func() error { return w.WriteStartMember(e.member(e.shelf, "Books")) },
		func() error { return w.WriteStartObject(e.book) },
		func() error { return w.WriteStartMember(schema.Name) },
		func() error { return w.WriteValue("dune") },
		func() error { return w.WriteEndMember() },
		func() error { return w.WriteEndObject() },
		func() error { return w.WriteEndMember() },
		func() error { return w.WriteStartMember(e.member(e.shelf, "Featured")) },
		func() error { return featured(w) },
		func() error { return w.WriteEndMember() },
		func() error { return w.WriteEndObject() },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	v, err := w.Result()
	if err != nil {
		return nil, err
	}
	return v.(*catalog.Shelf), nil
}

func (e *env) reference(name string) func(w *objwriter.Writer) error {
	return func(w *objwriter.Writer) error {
		if err := w.WriteStartObject(e.extension("Reference")); err != nil {
			return err
		}
		if err := w.WriteStartMember(e.member(e.extension("Reference"), "Name")); err != nil {
			return err
		}
		if err := w.WriteValue(name); err != nil {
			return err
		}
		if err := w.WriteEndMember(); err != nil {
			return err
		}
		return w.WriteEndObject()
	}
}

func TestReference(t *testing.T) {
	e := newEnv(t)

	shelf, err := e.writeShelf(e.reference("dune"))

	require.NoError(t, err)
	require.Len(t, shelf.Books, 1)
	assert.Equal(t, "dune", shelf.Books[0].Title, "x:Name fills the name property")
	assert.Same(t, shelf.Books[0], shelf.Featured)
}

func TestReference_UnknownName(t *testing.T) {
	e := newEnv(t)

	_, err := e.writeShelf(e.reference("missing"))

	require.ErrorIs(t, err, objwriter.ErrMarkupExtension)
	assert.Contains(t, err.Error(), "no object named 'missing' is in scope")
}

func TestNull(t *testing.T) {
	e := newEnv(t)

	shelf, err := e.writeShelf(func(w *objwriter.Writer) error {
		if err := w.WriteStartObject(e.extension("Null")); err != nil {
			return err
		}
		return w.WriteEndObject()
	})

	require.NoError(t, err)
	assert.Nil(t, shelf.Featured)
}

func TestTypeName(t *testing.T) {
	e := newEnv(t)
	typeExt := e.extension("Type")
	w := objwriter.New(context.Background(), e.sc)

	require.NoError(t, w.WriteStartObject(e.book))
	require.NoError(t, w.WriteStartMember(e.member(e.book, "Title")))
	require.NoError(t, w.WriteStartObject(typeExt))
	require.NoError(t, w.WriteStartMember(schema.Arguments))
	require.NoError(t, w.WriteValue("Shelf"))
	require.NoError(t, w.WriteEndMember())
	require.NoError(t, w.WriteEndObject())
	require.NoError(t, w.WriteEndMember())
	require.NoError(t, w.WriteEndObject())

	got, err := w.Result()
	require.NoError(t, err)
	assert.Equal(t, "{"+catalog.Namespace+"}Shelf", got.(*catalog.Book).Title)
}
