package net

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultURL is loaded when a locator cannot be parsed.
const DefaultURL = "https://browser.engineering/"

var ErrMalformedURL = errors.New("malformed URL")

// URL is a parsed locator. Data URLs keep everything after "data:" in Path.
type URL struct {
	Scheme string
	Host   string
	Port   int
	Path   string
}

var defaultPorts = map[string]int{"http": 80, "https": 443}

// Parse understands http, https, file and data URLs.
func Parse(raw string) (*URL, error) {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, "data:"); ok {
		return &URL{Scheme: "data", Path: rest}, nil
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return nil, fmt.Errorf("%w: %q has no scheme", ErrMalformedURL, raw)
	}
	scheme = strings.ToLower(scheme)

	u := &URL{Scheme: scheme}
	switch scheme {
	case "file":
		u.Path = rest
		if !strings.HasPrefix(u.Path, "/") {
			u.Path = "/" + u.Path
		}
		return u, nil
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrMalformedURL, scheme)
	}

	if !strings.Contains(rest, "/") {
		rest += "/"
	}
	host, path, _ := strings.Cut(rest, "/")
	u.Path = "/" + path
	u.Port = defaultPorts[scheme]
	if h, port, ok := strings.Cut(host, ":"); ok {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return nil, fmt.Errorf("%w: bad port %q", ErrMalformedURL, port)
		}
		host, u.Port = h, n
	}
	if host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrMalformedURL, raw)
	}
	u.Host = host
	return u, nil
}

// ParseOrDefault parses raw, falling back to DefaultURL.
func ParseOrDefault(raw string) *URL {
	u, err := Parse(raw)
	if err != nil {
		u, _ = Parse(DefaultURL)
	}
	return u
}

// String renders the URL, leaving out the port when it is the scheme's
// default.
func (u *URL) String() string {
	switch u.Scheme {
	case "data":
		return "data:" + u.Path
	case "file":
		return "file://" + u.Path
	}
	port := ""
	if u.Port != defaultPorts[u.Scheme] {
		port = ":" + strconv.Itoa(u.Port)
	}
	return u.Scheme + "://" + u.Host + port + u.Path
}

// Resolve interprets ref relative to u. It handles absolute URLs,
// scheme-relative "//host/path", host-relative "/path" and relative paths
// with any number of leading "../".
func (u *URL) Resolve(ref string) (*URL, error) {
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "data:") {
		return Parse(ref)
	}
	if !strings.HasPrefix(ref, "/") {
		dir := u.Path
		if i := strings.LastIndex(dir, "/"); i >= 0 {
			dir = dir[:i]
		}
		for strings.HasPrefix(ref, "../") {
			ref = ref[len("../"):]
			if i := strings.LastIndex(dir, "/"); i >= 0 {
				dir = dir[:i]
			}
		}
		ref = dir + "/" + ref
	}
	if strings.HasPrefix(ref, "//") {
		return Parse(u.Scheme + ":" + ref)
	}
	if u.Scheme == "file" {
		return Parse("file://" + ref)
	}
	if u.Scheme == "data" {
		return nil, fmt.Errorf("%w: cannot resolve %q against a data URL", ErrMalformedURL, ref)
	}
	return Parse(u.Scheme + "://" + u.Host + ":" + strconv.Itoa(u.Port) + ref)
}
