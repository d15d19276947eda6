package static

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/itchan-dev/routelab/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockRenderer struct {
	RenderStaticFunc func(ctx context.Context, pattern string, params domain.RouteParams) ([]byte, error)
}

func (m *MockRenderer) RenderStatic(ctx context.Context, pattern string, params domain.RouteParams) ([]byte, error) {
	return m.RenderStaticFunc(ctx, pattern, params)
}

func echoRenderer(calls *atomic.Int32) *MockRenderer {
	return &MockRenderer{
		RenderStaticFunc: func(_ context.Context, pattern string, params domain.RouteParams) ([]byte, error) {
			if calls != nil {
				calls.Add(1)
			}
			return []byte("<p>" + params.Expand(pattern) + "</p>"), nil
		},
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := map[string]string{
		"":          "/",
		"/":         "/",
		"test4/1":   "/test4/1",
		"/test4/1/": "/test4/1",
	}
	for in, want := range testCases {
		assert.Equal(t, want, NormalizePath(in), in)
	}
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath("/"))
	assert.NoError(t, ValidatePath("/test4/5"))
	for _, bad := range []string{"", "test4", "/test4/../etc", "/a//b", "/a?b", "/a\\b"} {
		assert.Error(t, ValidatePath(bad), bad)
	}
}

func TestStore(t *testing.T) {
	s := NewStore("")
	assert.NotEmpty(t, s.BuildId())
	assert.False(t, s.Ready())

	s.Put(Page{Path: "/test4/2/", HTML: []byte("two")})
	s.Put(Page{Path: "/test4/1", HTML: []byte("one")})

	page, ok := s.Get("/test4/2")
	require.True(t, ok)
	assert.Equal(t, "two", string(page.HTML))
	assert.False(t, page.GeneratedAt.IsZero())

	_, ok = s.Get("/test4/3")
	assert.False(t, ok)

	assert.Equal(t, []string{"/test4/1", "/test4/2"}, s.Paths())
	assert.Equal(t, 2, s.Len())

	s.MarkReady()
	assert.True(t, s.Ready())
	assert.Equal(t, "fixed", NewStore("fixed").BuildId())
}

func TestBuild(t *testing.T) {
	t.Run("prerenders every enumerated path", func(t *testing.T) {
		var calls atomic.Int32
		store := NewStore("build-1")
		b := &Builder{Renderer: echoRenderer(&calls), Store: store, Concurrency: 2}

		report, err := b.Build(context.Background(), []Route{
			{Pattern: "/test4/{pageId}", Params: FixedParams(domain.PageIdParam, "1", "2", "3", "4", "5")},
		})
		require.NoError(t, err)

		assert.Equal(t, int32(5), calls.Load())
		assert.Equal(t, "build-1", report.BuildId)
		require.Len(t, report.Entries, 5)
		for i, e := range report.Entries {
			assert.Equal(t, fmt.Sprintf("/test4/%d", i+1), e.Path)
			assert.Equal(t, "/test4/{pageId}", e.Pattern)
			assert.Equal(t, len(fmt.Sprintf("<p>/test4/%d</p>", i+1)), e.Bytes)
		}

		page, ok := store.Get("/test4/3")
		require.True(t, ok)
		assert.Equal(t, "<p>/test4/3</p>", string(page.HTML))
	})

	t.Run("renderer failure fails the build", func(t *testing.T) {
		boom := errors.New("upstream down")
		b := &Builder{
			Renderer: &MockRenderer{RenderStaticFunc: func(_ context.Context, _ string, params domain.RouteParams) ([]byte, error) {
				if params.PageId() == "2" {
					return nil, boom
				}
				return []byte("ok"), nil
			}},
			Store: NewStore(""),
		}
		_, err := b.Build(context.Background(), []Route{
			{Pattern: "/test4/{pageId}", Params: FixedParams(domain.PageIdParam, "1", "2")},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "/test4/2")
	})

	t.Run("params loader failure fails the build", func(t *testing.T) {
		b := &Builder{Renderer: echoRenderer(nil), Store: NewStore("")}
		_, err := b.Build(context.Background(), []Route{
			{Pattern: "/test4/{pageId}", Params: func(context.Context) ([]domain.RouteParams, error) {
				return nil, errors.New("no params")
			}},
		})
		assert.Error(t, err)
	})

	t.Run("unsafe params are rejected", func(t *testing.T) {
		b := &Builder{Renderer: echoRenderer(nil), Store: NewStore("")}
		_, err := b.Build(context.Background(), []Route{
			{Pattern: "/test4/{pageId}", Params: FixedParams(domain.PageIdParam, "..")},
		})
		assert.Error(t, err)
	})
}

func TestFileFor(t *testing.T) {
	assert.Equal(t, "index.html", FileFor("/"))
	assert.Equal(t, "test4/1/index.html", FileFor("/test4/1"))
}

func TestExportLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewStore("export-build")
	store.Put(Page{Path: "/test4/1", HTML: []byte("<p>one</p>")})
	store.Put(Page{Path: "/test4/2", HTML: []byte("<p>two</p>")})

	require.NoError(t, Export(store, dir))

	html, err := os.ReadFile(filepath.Join(dir, "test4", "1", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>one</p>", string(html))

	id, err := os.ReadFile(filepath.Join(dir, "BUILD_ID"))
	require.NoError(t, err)
	assert.Equal(t, "export-build\n", string(id))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, loaded.Ready())
	assert.Equal(t, "export-build", loaded.BuildId())

	if diff := cmp.Diff(store.Paths(), loaded.Paths()); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	for _, path := range store.Paths() {
		want, _ := store.Get(path)
		got, ok := loaded.Get(path)
		require.True(t, ok, path)
		assert.Equal(t, string(want.HTML), string(got.HTML))
		assert.True(t, want.GeneratedAt.Equal(got.GeneratedAt), path)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing manifest", func(t *testing.T) {
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("wrong version", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, manifestFile), []byte(`{"version":9,"buildId":"x"}`), 0o644))
		_, err := Load(dir)
		assert.ErrorContains(t, err, "unsupported export version")
	})

	t.Run("missing page file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, manifestFile),
			[]byte(`{"version":1,"buildId":"x","pages":[{"path":"/test4/1","file":"test4/1/index.html"}]}`), 0o644))
		_, err := Load(dir)
		assert.Error(t, err)
	})
}
