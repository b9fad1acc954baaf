package net

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want URL
	}{
		{"http://example.org", URL{Scheme: "http", Host: "example.org", Port: 80, Path: "/"}},
		{"https://example.org/a/b.html", URL{Scheme: "https", Host: "example.org", Port: 443, Path: "/a/b.html"}},
		{"HTTP://example.org:8080/x", URL{Scheme: "http", Host: "example.org", Port: 8080, Path: "/x"}},
		{"file:///tmp/page.html", URL{Scheme: "file", Path: "/tmp/page.html"}},
		{"data:text/html,<p>hi</p>", URL{Scheme: "data", Path: "text/html,<p>hi</p>"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, raw := range []string{"", "example.org", "gopher://x/", "http://", "http://host:port/", "http://host:0/"} {
		_, err := Parse(raw)
		assert.ErrorIs(t, err, ErrMalformedURL, raw)
	}
}

func TestParseOrDefault(t *testing.T) {
	assert.Equal(t, DefaultURL, ParseOrDefault("not a url").String())
	assert.Equal(t, "http://example.org/", ParseOrDefault("http://example.org").String())
}

func TestURL_String(t *testing.T) {
	tests := map[string]string{
		"http://example.org:80/":    "http://example.org/",
		"https://example.org:443/a": "https://example.org/a",
		"https://example.org:80/a":  "https://example.org:80/a",
		"http://example.org:8000/":  "http://example.org:8000/",
		"file:///tmp/x.html":        "file:///tmp/x.html",
	}
	for raw, want := range tests {
		u, err := Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, want, u.String())
	}
}

func TestURL_Resolve(t *testing.T) {
	base, err := Parse("https://example.org:8443/a/b/page.html")
	require.NoError(t, err)

	tests := map[string]string{
		"http://other.org/x":  "http://other.org/x",
		"//cdn.org/s.css":     "https://cdn.org/s.css",
		"/root.css":           "https://example.org:8443/root.css",
		"style.css":           "https://example.org:8443/a/b/style.css",
		"../up.css":           "https://example.org:8443/a/up.css",
		"../../top.css":       "https://example.org:8443/top.css",
		"../../../beyond.css": "https://example.org:8443/beyond.css",
		"data:text/css,p{}":   "data:text/css,p{}",
	}
	for ref, want := range tests {
		got, err := base.Resolve(ref)
		require.NoError(t, err, ref)
		assert.Equal(t, want, got.String(), ref)
	}
}

func TestURL_ResolveFile(t *testing.T) {
	base, err := Parse("file:///srv/site/index.html")
	require.NoError(t, err)
	got, err := base.Resolve("css/main.css")
	require.NoError(t, err)
	assert.Equal(t, "file:///srv/site/css/main.css", got.String())
}

func TestFetch_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<p>hello</p>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	u, err := Parse(srv.URL + "/page.html")
	require.NoError(t, err)
	body, ct, err := Fetch(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", string(body))
	assert.Equal(t, "text/html", ct)

	missing, err := u.Resolve("missing.css")
	require.NoError(t, err)
	_, _, err = Fetch(context.Background(), missing)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetch_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<b>x</b>"), 0o644))

	u, err := Parse("file://" + path)
	require.NoError(t, err)
	body, _, err := Fetch(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, "<b>x</b>", string(body))

	u.Path += ".missing"
	_, _, err = Fetch(context.Background(), u)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetch_Data(t *testing.T) {
	tests := []struct {
		raw      string
		body, ct string
	}{
		{"data:text/css,p%20%7Bcolor%3A%20red%7D", "p {color: red}", "text/css"},
		{"data:text/html;base64,PHA+aGk8L3A+", "<p>hi</p>", "text/html"},
		{"data:,plain", "plain", "text/plain"},
	}
	for _, tt := range tests {
		u, err := Parse(tt.raw)
		require.NoError(t, err)
		body, ct, err := Fetch(context.Background(), u)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.body, string(body))
		assert.Equal(t, tt.ct, ct)
	}

	u, _ := Parse("data:no-comma")
	_, _, err := Fetch(context.Background(), u)
	assert.ErrorIs(t, err, ErrFetch)
}
