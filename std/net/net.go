package net

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const userAgent = "minibrowser/1.0 (compatible; Go)"

var ErrFetch = errors.New("fetch failed")

// httpClient is a shared HTTP client with reasonable timeouts.
var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// Fetch retrieves the content at u.
// Returns the response body, content type, and any error.
func Fetch(ctx context.Context, u *URL) (body []byte, contentType string, err error) {
	switch u.Scheme {
	case "http", "https":
		return fetchHTTP(ctx, u)
	case "file":
		body, err = os.ReadFile(u.Path)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrFetch, err)
		}
		return body, "", nil
	case "data":
		return decodeData(u.Path)
	}
	return nil, "", fmt.Errorf("%w: unsupported scheme %q", ErrFetch, u.Scheme)
}

func fetchHTTP(ctx context.Context, u *URL) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: creating request: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: fetching %s: %w", ErrFetch, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("%w: HTTP %d fetching %s", ErrFetch, resp.StatusCode, u)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading response body: %w", ErrFetch, err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// decodeData handles the part of a data URL after "data:", such as
// "text/css,p{color:red}" or "text/html;base64,PHA+".
func decodeData(raw string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(raw, ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: data URL without ','", ErrFetch)
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if mediaType == "" {
		mediaType = "text/plain"
	}
	if isBase64 {
		body, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrFetch, err)
		}
		return body, mediaType, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		text = payload
	}
	return []byte(text), mediaType, nil
}
