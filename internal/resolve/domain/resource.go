// Package domain holds the value types of the resolution core: mapping
// rules, virtual URL entries, resources, and path normalization. Everything
// here is immutable or trivially copyable and free of I/O.
package domain

// Resource is the outcome of a successful resolution: a piece of content
// materialized by the provider owning the longest matching mount path.
type Resource struct {
	// Path is the internal repository path the resource was materialized at.
	Path string
	// Type classifies the resource. Providers may leave it empty, in which
	// case the ranked type providers are consulted to assign one.
	Type string
	// Data is the raw content.
	Data []byte
}
