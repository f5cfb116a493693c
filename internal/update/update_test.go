package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.2", "1.2.0", 0},
		{"1.2.1", "1.2", 1},
		{"1.2", "1.10", -1},
		{"2.0", "1.9.9", 1},
		{"v1.3.0", "1.2.9", 1},
		{"0.9", "1.0", -1},
	}
	for _, tt := range tests {
		if got := CompareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCheckNewerVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "v1.4.0", "html_url": "https://example.com/rel/1.4.0"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "1.3.2")
	rel, err := c.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if rel == nil {
		t.Fatal("expected a release, got nil")
	}
	if rel.Version != "v1.4.0" || rel.URL != "https://example.com/rel/1.4.0" {
		t.Errorf("release = %+v", rel)
	}
}

func TestCheckUpToDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "1.3.2", "html_url": "u"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "1.3.2")
	rel, err := c.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if rel != nil {
		t.Errorf("equal version should yield nil, got %+v", rel)
	}
}

func TestCheckServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "1.0.0")
	if _, err := c.Check(context.Background()); err == nil {
		t.Error("server error should surface as an error for the caller to swallow")
	}
}
