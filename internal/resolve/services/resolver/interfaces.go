package resolver

import (
	"github.com/haukened/resolvd/internal/resolve/domain"
)

// StoreSession is the caller's content-store session handle. The core never
// inspects it; it is passed through unchanged to the provider that wins the
// mount-path resolution.
type StoreSession = any

// Provider materializes resources for paths under its registered mount
// paths. Implementations must be safe for concurrent use since multiple
// resolvers may call into the same provider at once.
type Provider interface {
	// GetResource materializes the resource at the internal path, or returns
	// an error wrapping domain.ErrNotFound when nothing exists there.
	GetResource(session StoreSession, path string) (*domain.Resource, error)
}

// TypeProvider classifies a resource by inspecting stored content through
// the caller's session. Consulted in rank order when a provider leaves the
// resource type empty.
type TypeProvider interface {
	ResourceType(session StoreSession, path string) (string, bool)
}

// PathTypeProvider classifies a resource from its request path alone,
// without touching the store. Path type providers take precedence over
// content-based TypeProviders.
type PathTypeProvider interface {
	ResourceTypeFromPath(path string) (string, bool)
}
