package resource

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	stdnet "minibrowser/std/net"
)

// Fetcher retrieves resources by URL.
type Fetcher interface {
	Fetch(ctx context.Context, u *stdnet.URL) (body []byte, contentType string, err error)
}

// DefaultFetcher fetches http, https, file and data URLs.
type DefaultFetcher struct {
	log *zap.Logger
}

func NewFetcher(log *zap.Logger) *DefaultFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &DefaultFetcher{log: log.Named("fetch")}
}

// Fetch retrieves the resource at the given URL.
func (f *DefaultFetcher) Fetch(ctx context.Context, u *stdnet.URL) ([]byte, string, error) {
	f.log.Debug("Fetching", zap.Stringer("url", u))
	body, contentType, err := stdnet.Fetch(ctx, u)
	if err != nil {
		return nil, "", err
	}
	f.log.Debug("Fetched", zap.Stringer("url", u), zap.Int("bytes", len(body)), zap.String("content-type", contentType))
	return body, contentType, nil
}

// FetchCSS fetches a stylesheet URL and returns its text content.
// Returns an error if the content type does not look like CSS or text.
func FetchCSS(ctx context.Context, f Fetcher, u *stdnet.URL) (string, error) {
	body, contentType, err := f.Fetch(ctx, u)
	if err != nil {
		return "", err
	}
	// Accept text/css, text/plain, or any text/* content type
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("%w: unexpected content type for CSS: %s", stdnet.ErrFetch, contentType)
	}
	return string(body), nil
}

// FetchText fetches a document and returns its body as text.
func FetchText(ctx context.Context, f Fetcher, u *stdnet.URL) (string, error) {
	body, _, err := f.Fetch(ctx, u)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
