package items

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/masonry/pkg/cache"
)

func TestFetcherCachesResponse(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[{"id":"a","height":10}]`))
	}))
	defer srv.Close()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := NewFetcher(c, nil)
	f.Client = srv.Client()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		m, err := f.Fetch(ctx, srv.URL+"/items.json")
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if m.Len() != 1 {
			t.Errorf("Len() = %d, want 1", m.Len())
		}
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1 (second fetch cached)", calls)
	}

	f.Refresh = true
	if _, err := f.Fetch(ctx, srv.URL+"/items.json"); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if calls != 2 {
		t.Errorf("server calls = %d, want 2 after refresh", calls)
	}
}

func TestFetcherFormatFromPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[[items]]\nid = \"a\"\nheight = 1\n"))
	}))
	defer srv.Close()

	f := NewFetcher(nil, nil)
	f.Client = srv.Client()

	m, err := f.Fetch(context.Background(), srv.URL+"/board.toml?rev=2")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if m.Items[0].ID != "a" {
		t.Errorf("Items[0].ID = %q, want a", m.Items[0].ID)
	}
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/a.json": true,
		"http://localhost:8080/x":    true,
		"items.json":                 false,
		"file:///tmp/items.json":     false,
		"https://":                   false,
	}
	for in, want := range tests {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}
