package domain

import (
	"fmt"
	"strings"
)

// NormalizeMountPath canonicalizes a provider mount path: surrounding
// whitespace is trimmed, a leading slash is required, and the trailing slash
// is cut except for the root itself.
func NormalizeMountPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" || !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("mount path must be absolute: %q", path)
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path, nil
}

// NormalizeSearchPath canonicalizes a search-path entry so it begins and
// ends with a slash.
func NormalizeSearchPath(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}

// SplitSegments breaks an absolute path into its segments. The root path
// yields no segments. Empty segments from doubled slashes are dropped.
func SplitSegments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	segments := parts[:0]
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
