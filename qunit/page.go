package qunit

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// PageURL returns the URL of the page that runs module. base is either a URL
// (http, https, file) or a filesystem path, which is turned into a file URL.
// pattern is a fmt pattern receiving the escaped module name. Slashes in the
// module name address pages in subdirectories, e.g. util/trees.
func PageURL(base, pattern, module string) (string, error) {
	if module == "" {
		return "", fmt.Errorf("module name is empty")
	}
	if pattern == "" {
		pattern = DefaultPagePattern
	}
	if err := CheckPagePattern(pattern); err != nil {
		return "", err
	}

	baseURL, err := baseURL(base)
	if err != nil {
		return "", err
	}

	escaped := (&url.URL{Path: strings.TrimPrefix(module, "/")}).EscapedPath()
	ref, err := url.Parse(fmt.Sprintf(pattern, escaped))
	if err != nil {
		return "", fmt.Errorf("invalid page for module %q: %w", module, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}

// CheckPagePattern requires exactly one %s verb; %% is the only other
// directive allowed.
func CheckPagePattern(pattern string) error {
	verbs := 0
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' {
			continue
		}
		if i+1 == len(pattern) {
			return fmt.Errorf("page pattern %q ends with a bare %%", pattern)
		}
		i++
		switch pattern[i] {
		case '%':
		case 's':
			verbs++
		default:
			return fmt.Errorf("page pattern %q: unsupported verb %%%c", pattern, pattern[i])
		}
	}
	if verbs != 1 {
		return fmt.Errorf("page pattern %q must contain exactly one %%s, found %d", pattern, verbs)
	}
	return nil
}

func baseURL(base string) (*url.URL, error) {
	if base == "" {
		return nil, fmt.Errorf("base path is empty")
	}

	// Single-letter schemes are Windows drive letters, not URLs
	if u, err := url.Parse(base); err == nil && len(u.Scheme) > 1 {
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		return u, nil
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path %q: %w", base, err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return &url.URL{Scheme: "file", Path: p}, nil
}
