package app_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/objgraph/internal/app"
	"github.com/vk/objgraph/internal/reflectschema"
	"github.com/vk/objgraph/internal/testutil"
	"gopkg.in/yaml.v3"
)

const shelfHCL = `
Shelf "fiction" {
  Labels = { genre = "sf" }

  Books "Book" "Dune" {
    Author = "Frank Herbert"
    Year   = 1965
  }

  Featured "Reference" {
    Name = "Dune"
  }
}
`

const polygonJSON = `{
  // a right triangle
  "$type": "Polygon",
  "$name": "triangle",
  "Points": ["0,0", "4,0", "0,3"],
}`

func run(ctx context.Context, a *app.App) error { return a.Run(ctx) }

func TestRun_SingleDocument(t *testing.T) {
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{"shelf.hcl": shelfHCL})

	// --- Act ---
	result := testutil.RunApp(context.Background(), t, app.Config{Path: filepath.Join(dir, "shelf.hcl")}, run)

	// --- Assert ---
	require.NoError(t, result.Err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Output), &got))
	assert.Equal(t, "fiction", got["name"])
	assert.Equal(t, map[string]any{"genre": "sf"}, got["labels"])

	require.IsType(t, []any{}, got["books"])
	books := got["books"].([]any)
	require.Len(t, books, 1)
	book := books[0].(map[string]any)
	assert.Equal(t, "Dune", book["title"])
	assert.Equal(t, "Frank Herbert", book["author"])
	assert.Equal(t, float64(1965), book["year"])
	assert.Equal(t, book, got["featured"])

	assert.Contains(t, result.LogOutput, "Document loaded.")
}

func TestRun_Directory(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"a/shelf.hcl":     shelfHCL,
		"b/triangle.json": polygonJSON,
		"notes.txt":       "not a document",
	})

	result := testutil.RunApp(context.Background(), t, app.Config{Path: dir}, run)

	require.NoError(t, result.Err)
	var got []struct {
		File  string         `json:"file"`
		Graph map[string]any `json:"graph"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Output), &got))
	require.Len(t, got, 2)
	assert.Equal(t, filepath.Join(dir, "a", "shelf.hcl"), got[0].File)
	assert.Equal(t, filepath.Join(dir, "b", "triangle.json"), got[1].File)
	assert.Equal(t, "triangle", got[1].Graph["name"])
}

func TestRun_FormatRestrictsDirectory(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"shelf.hcl":     shelfHCL,
		"triangle.json": polygonJSON,
	})

	result := testutil.RunApp(context.Background(), t, app.Config{Path: dir, Format: app.FormatJSON}, run)

	require.NoError(t, result.Err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Output), &got))
	assert.Equal(t, "triangle", got["name"])
}

func TestRun_OutputEncodings(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"box.hcl": "Container {\n  Items = [1, 2, 3]\n}\n"})
	path := filepath.Join(dir, "box.hcl")

	t.Run("yaml", func(t *testing.T) {
		result := testutil.RunApp(context.Background(), t, app.Config{Path: path, Output: app.OutputYAML}, run)
		require.NoError(t, result.Err)

		var got map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(result.Output), &got))
		assert.Equal(t, map[string]any{"items": []any{1, 2, 3}}, got)
	})

	t.Run("cbor", func(t *testing.T) {
		result := testutil.RunApp(context.Background(), t, app.Config{Path: path, Output: app.OutputCBOR}, run)
		require.NoError(t, result.Err)

		var got struct{ Items []int }
		require.NoError(t, cbor.Unmarshal([]byte(result.Output), &got))
		assert.Equal(t, []int{1, 2, 3}, got.Items)
	})
}

func TestRun_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		files   map[string]string
		path    string
		cfg     app.Config
		wantErr string
	}{
		{
			name:    "missing path",
			path:    "nope.hcl",
			wantErr: "failed to read",
		},
		{
			name:    "unknown extension",
			files:   map[string]string{"doc.txt": shelfHCL},
			path:    "doc.txt",
			wantErr: "cannot infer the format",
		},
		{
			name:    "empty directory",
			files:   map[string]string{"notes.txt": ""},
			path:    ".",
			wantErr: "no documents found",
		},
		{
			name:    "syntax error",
			files:   map[string]string{"doc.hcl": "Shelf {"},
			path:    "doc.hcl",
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "writer error",
			files:   map[string]string{"doc.json": `{"$type": "Book", "$factory": "Missing"}`},
			path:    "doc.json",
			wantErr: "failed to load",
		},
		{
			name:    "unknown member",
			files:   map[string]string{"doc.json": `{"$type": "Book", "Publisher": "Chilton"}`},
			path:    "doc.json",
			wantErr: "type 'Book' has no member 'Publisher'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := testutil.WriteFiles(t, tc.files)
			cfg := tc.cfg
			cfg.Path = filepath.Join(dir, tc.path)

			result := testutil.RunApp(context.Background(), t, cfg, run)

			require.Error(t, result.Err)
			assert.Contains(t, result.Err.Error(), tc.wantErr)
		})
	}
}

func TestRun_IgnoreUnknownMembers(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"doc.json": `{"$type": "Book", "Title": "Dune", "Publisher": "Chilton"}`})
	cfg := app.Config{Path: filepath.Join(dir, "doc.json"), IgnoreUnknownMembers: true}

	result := testutil.RunApp(context.Background(), t, cfg, run)

	require.NoError(t, result.Err)
	assert.Contains(t, result.Output, `"Dune"`)
	assert.Contains(t, result.LogOutput, "Skipped unknown member.")
}

func TestEvents(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"doc.hcl": "Container {\n  Items = [1, 2]\n}\n"})

	result := testutil.RunApp(context.Background(), t, app.Config{Path: filepath.Join(dir, "doc.hcl")},
		func(ctx context.Context, a *app.App) error { return a.Events(ctx) })

	require.NoError(t, result.Err)
	lines := strings.Split(strings.TrimSpace(result.Output), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[1], "StartObject Container _Container1"), lines[1])
	assert.True(t, strings.HasPrefix(lines[3], "    Value 1"), lines[3])
	assert.True(t, strings.HasPrefix(lines[6], "EndObject"), lines[6])
}

func TestTypes(t *testing.T) {
	out := &testutil.SafeBuffer{}
	cfg, err := app.NewConfig(app.Config{Path: "unused", LogLevel: "error", LogFormat: "text"})
	require.NoError(t, err)
	require.NoError(t, app.NewApp(out, &testutil.SafeBuffer{}, cfg).Types())

	assert.Contains(t, out.String(), "{urn:objgraph:catalog}Book")
	assert.Contains(t, out.String(), "  Title: string")
	assert.Contains(t, out.String(), "  X: int [ctor]")
}

type gadget struct {
	Size int
}

type brokenModule struct{}

func (brokenModule) Register(r *reflectschema.Registry) {
	r.Register("urn:test", gadget{}, reflectschema.WithNameProperty("Size"))
}

func TestNewApp_InvalidModulePanics(t *testing.T) {
	result := testutil.RunApp(context.Background(), t, app.Config{Path: "unused"}, run, brokenModule{})

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "application startup panicked")
	assert.Contains(t, result.Err.Error(), "name property 'Size' must be a string")
	assert.Nil(t, result.App)
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     app.Config
		want    app.Config
		wantErr string
	}{
		{
			name: "normalizes case and defaults the format",
			cfg:  app.Config{Path: "doc.hcl", LogLevel: "DEBUG", LogFormat: "JSON"},
			want: app.Config{Path: "doc.hcl", Format: app.FormatAuto, Output: app.OutputJSON, LogLevel: "debug", LogFormat: "json"},
		},
		{name: "missing path", cfg: app.Config{LogLevel: "info", LogFormat: "text"}, wantErr: "Path is a required"},
		{name: "bad format", cfg: app.Config{Path: "x", Format: "xml", LogLevel: "info", LogFormat: "text"}, wantErr: "invalid format"},
		{name: "bad output", cfg: app.Config{Path: "x", Output: "xml", LogLevel: "info", LogFormat: "text"}, wantErr: "invalid output"},
		{name: "bad log format", cfg: app.Config{Path: "x", LogLevel: "info", LogFormat: "yaml"}, wantErr: "invalid log-format"},
		{name: "bad log level", cfg: app.Config{Path: "x", LogLevel: "trace", LogFormat: "text"}, wantErr: "invalid log-level"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := app.NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, *got)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "objgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nformat: json\nignore_unknown_members: true\n"), 0644))

	got, err := app.LoadConfigFile(path, app.DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, app.Config{
		Format:               app.FormatJSON,
		Output:               app.OutputJSON,
		LogFormat:            "text",
		LogLevel:             "debug",
		IgnoreUnknownMembers: true,
	}, got)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "objgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_levle: debug\n"), 0644))

	_, err := app.LoadConfigFile(path, app.DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field log_levle not found")

	_, err = app.LoadConfigFile(filepath.Join(dir, "missing.yaml"), app.DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open config file")
}
