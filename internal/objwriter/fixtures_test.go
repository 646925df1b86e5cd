package objwriter_test

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/objgraph/internal/ctxlog"
	"github.com/vk/objgraph/internal/objwriter"
	"github.com/vk/objgraph/internal/reflectschema"
	"github.com/vk/objgraph/internal/schema"
)

const testNS = "urn:objwriter-test"

type Point struct {
	X int `xaml:",ctor"`
	Y int `xaml:",ctor"`
}

func NewPoint(x, y int) Point { return Point{X: x, Y: y} }

func parsePoint(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("cannot convert %T to Point", v)
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("point '%s' is not in x,y form", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, err
	}
	return &Point{X: x, Y: y}, nil
}

type Container struct {
	Items []int
}

type Widget struct {
	Name     string
	Size     int
	ID       string `xaml:",readonly"`
	Origin   *Point
	Tags     []string
	Labels   map[string]string
	Index    map[string]*Point
	Child    *Widget
	Children []*Widget
}

type Segment struct {
	From  *Point `xaml:",ctor"`
	To    *Point `xaml:",ctor"`
	Label string
}

func NewSegment(from, to *Point) Segment { return Segment{From: from, To: to} }

type Rect struct {
	Width  int
	Height int
}

type RectBuilder struct {
	Width  int
	Height int
}

type Book struct {
	Title  string
	Author string
	Year   int
}

type Label struct {
	Text  string `xaml:",ctor,readonly"`
	Color string
}

type Path struct {
	Points []int `xaml:",ctor"`
}

func NewPath(points []int) Path { return Path{Points: points} }

type Stamped struct {
	Code  string `xaml:",ctor"`
	Stamp string `xaml:",readonly"`
}

// Ref resolves a previously named object.
type Ref struct {
	Name string
}

func (r *Ref) ProvideValue(sp schema.ServiceProvider) (any, error) {
	v, ok := sp.Names().Resolve(r.Name)
	if !ok {
		return nil, fmt.Errorf("unknown name '%s'", r.Name)
	}
	return v, nil
}

type fixture struct {
	t  *testing.T
	sc *schema.Context

	point, container, widget, segment, rect, book, label, ref *schema.Type

	path, stamped *schema.Type
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sc := schema.NewContext()
	r := reflectschema.New(sc)
	f := &fixture{t: t, sc: sc}

	f.point = r.Register(testNS, Point{},
		reflectschema.WithConstructor(NewPoint, "X", "Y"),
		reflectschema.WithConverter(parsePoint),
	)
	f.container = r.Register(testNS, Container{})
	f.widget = r.Register(testNS, Widget{})
	f.segment = r.Register(testNS, Segment{}, reflectschema.WithConstructor(NewSegment, "From", "To"))
	f.rect = r.Register(testNS, Rect{}, reflectschema.WithStandIn(
		func(r *Rect) *RectBuilder {
			if r == nil {
				return &RectBuilder{}
			}
			return &RectBuilder{Width: r.Width, Height: r.Height}
		},
		func(b *RectBuilder) (Rect, error) {
			if b.Width < 0 || b.Height < 0 {
				return Rect{}, fmt.Errorf("negative extent %dx%d", b.Width, b.Height)
			}
			return Rect{Width: b.Width, Height: b.Height}, nil
		},
	))
	f.book = r.Register(testNS, Book{},
		reflectschema.WithNameProperty("Title"),
		reflectschema.WithFactory("Untitled", func(author string) Book {
			return Book{Title: "Untitled", Author: author}
		}),
	)
	f.label = r.Register(testNS, Label{},
		reflectschema.WithConstructor(func(text string) Label { return Label{Text: text} }, "Text"),
		reflectschema.WithFactory("Blank", func() Label { return Label{} }),
	)
	f.ref = r.Register(testNS, Ref{})
	f.path = r.Register(testNS, Path{}, reflectschema.WithConstructor(NewPath, "Points"))
	f.stamped = r.Register(testNS, Stamped{}, reflectschema.WithConstructor(func(code string) Stamped {
		return Stamped{Code: code, Stamp: "issued"}
	}, "Code"))

	require.NoError(t, r.Validate(context.Background()))
	return f
}

func (f *fixture) member(t *schema.Type, name string) *schema.Member {
	f.t.Helper()
	m, ok := t.Member(name)
	require.True(f.t, ok, "type %s has no member %s", t.Name(), name)
	return m
}

func (f *fixture) writer(opts ...objwriter.Option) *objwriter.Writer {
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.Discard())
	return objwriter.New(ctx, f.sc, opts...)
}

// event is one write operation.
type event func(w *objwriter.Writer) error

func startObject(t *schema.Type) event {
	return func(w *objwriter.Writer) error { return w.WriteStartObject(t) }
}

func getObject() event {
	return func(w *objwriter.Writer) error { return w.WriteGetObject() }
}

func startMember(m *schema.Member) event {
	return func(w *objwriter.Writer) error { return w.WriteStartMember(m) }
}

func value(v any) event {
	return func(w *objwriter.Writer) error { return w.WriteValue(v) }
}

func endMember() event {
	return func(w *objwriter.Writer) error { return w.WriteEndMember() }
}

func endObject() event {
	return func(w *objwriter.Writer) error { return w.WriteEndObject() }
}

// member writes a complete member holding values.
func member(m *schema.Member, values ...any) event {
	return func(w *objwriter.Writer) error {
		if err := w.WriteStartMember(m); err != nil {
			return err
		}
		for _, v := range values {
			if err := w.WriteValue(v); err != nil {
				return err
			}
		}
		return w.WriteEndMember()
	}
}

// run feeds events to w and returns the root value.
func run(t *testing.T, w *objwriter.Writer, events ...event) (any, error) {
	t.Helper()
	for _, e := range events {
		if err := e(w); err != nil {
			return nil, err
		}
	}
	return w.Result()
}
