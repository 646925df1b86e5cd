package env_vars_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/objgraph/internal/hclreader"
	"github.com/vk/objgraph/internal/objwriter"
	"github.com/vk/objgraph/internal/reflectschema"
	"github.com/vk/objgraph/internal/schema"
	"github.com/vk/objgraph/internal/xamlnode"
	"github.com/vk/objgraph/modules/catalog"
	"github.com/vk/objgraph/modules/env_vars"
)

func load(t *testing.T, src string) (any, error) {
	t.Helper()
	sc := schema.NewContext()
	r := reflectschema.New(sc)
	(&catalog.Module{}).Register(r)
	(&env_vars.Module{}).Register(r)
	require.NoError(t, r.Validate(context.Background()))

	nodes, err := hclreader.Parse(context.Background(), []byte(src), "book.hcl", sc)
	require.NoError(t, err)
	w := objwriter.New(context.Background(), sc)
	if err := xamlnode.Transfer(context.Background(), nodes, w); err != nil {
		return nil, err
	}
	return w.Result()
}

func TestEnv(t *testing.T) {
	// --- Arrange ---
	t.Setenv("OBJGRAPH_TEST_AUTHOR", "Frank Herbert")
	t.Setenv("OBJGRAPH_TEST_YEAR", "1965")
	src := `
Book {
  Title = "Dune"
  Author "Env" {
    Name = "OBJGRAPH_TEST_AUTHOR"
  }
  Year "Env" {
    Name = "OBJGRAPH_TEST_YEAR"
  }
}
`
	// --- Act ---
	got, err := load(t, src)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, &catalog.Book{Title: "Dune", Author: "Frank Herbert", Year: 1965}, got)
}

func TestEnv_Unset(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		want    *catalog.Book
		wantErr string
	}{
		{
			name: "default",
			body: `Name = "OBJGRAPH_TEST_UNSET"
    Default = "Anonymous"`,
			want: &catalog.Book{Author: "Anonymous"},
		},
		{
			name: "optional",
			body: `Name = "OBJGRAPH_TEST_UNSET"
    Optional = true`,
			want: &catalog.Book{},
		},
		{
			name:    "required",
			body:    `Name = "OBJGRAPH_TEST_UNSET"`,
			wantErr: "environment variable 'OBJGRAPH_TEST_UNSET' is not set",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := load(t, "Book {\n  Author \"Env\" {\n    "+tc.body+"\n  }\n}\n")
			if tc.wantErr != "" {
				require.ErrorIs(t, err, objwriter.ErrMarkupExtension)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
