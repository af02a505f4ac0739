package domain

import "regexp"

// Namespace mangling makes namespace-qualified path segments safe for
// external URLs that cannot carry colons: "ns:name" becomes "_ns_name" on
// map, and "_ns_name" becomes "ns:name" again on resolve.
var (
	mangleRE   = regexp.MustCompile(`/([^:/]+):`)
	unmangleRE = regexp.MustCompile(`/_([^_/]+)_`)
)

// MangleNamespaces rewrites every namespace-qualified segment prefix
// "ns:" in path to its mangled form "_ns_".
func MangleNamespaces(path string) string {
	return mangleRE.ReplaceAllString(path, "/_${1}_")
}

// UnmangleNamespaces is the inverse of MangleNamespaces.
func UnmangleNamespaces(path string) string {
	return unmangleRE.ReplaceAllString(path, "/${1}:")
}
