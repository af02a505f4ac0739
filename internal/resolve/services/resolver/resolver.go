package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/haukened/resolvd/internal/resolve/common/log"
	"github.com/haukened/resolvd/internal/resolve/domain"
	"github.com/haukened/resolvd/internal/resolve/repos/mapcache"
	"github.com/haukened/resolvd/internal/resolve/repos/providertree"
	"github.com/haukened/resolvd/internal/resolve/repos/urlmap"
)

// Resolver answers resolve and map queries against the tree and mapping
// table snapshots it was created with. It is bound to one store session and
// never mutates shared state, so any number of Resolvers may run
// concurrently over the same factory.
type Resolver struct {
	tree              *providertree.Tree[Provider]
	table             *urlmap.Table
	searchPaths       []string
	typeProviders     []TypeProvider
	pathTypeProviders []PathTypeProvider
	cache             *mapcache.Cache
	session           StoreSession
	logger            log.Logger
}

// Resolve translates the request path to its internal form, routes it to
// the provider owning the longest matching mount prefix, and asks that
// provider to materialize the resource. Any failure surfaces as
// domain.ErrNotFound; callers decide the fallback.
func (r *Resolver) Resolve(path string) (*domain.Resource, error) {
	internal := r.table.ToInternal(path)

	provider, mount, ok := r.tree.Resolve(internal)
	if !ok {
		return nil, fmt.Errorf("%q: %w", path, domain.ErrNotFound)
	}

	res, err := provider.GetResource(r.session, internal)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Debug(map[string]any{
				"path":  path,
				"mount": mount,
				"error": err,
			}, "Provider failed to materialize resource")
		}
		return nil, fmt.Errorf("%q: %w", path, domain.ErrNotFound)
	}
	if res == nil {
		return nil, fmt.Errorf("%q: %w", path, domain.ErrNotFound)
	}

	if res.Type == "" {
		res.Type = r.resourceType(internal)
	}
	return res, nil
}

// Map translates an internal repository path into its externally visible
// URL.
func (r *Resolver) Map(path string) string {
	if r.cache != nil {
		if url, ok := r.cache.Get(path); ok {
			return url
		}
	}
	url := r.table.ToExternal(path)
	if r.cache != nil {
		r.cache.Set(path, url)
	}
	return url
}

// Lookup resolves a name against the configured search paths: an absolute
// name resolves directly, a relative one is tried under each search path in
// order and the first hit wins.
func (r *Resolver) Lookup(name string) (*domain.Resource, error) {
	if strings.HasPrefix(name, "/") {
		return r.Resolve(name)
	}
	for _, sp := range r.searchPaths {
		if res, err := r.Resolve(sp + name); err == nil {
			return res, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, domain.ErrNotFound)
}

// SearchPaths returns the search paths this resolver was created with.
func (r *Resolver) SearchPaths() []string {
	out := make([]string, len(r.searchPaths))
	copy(out, r.searchPaths)
	return out
}

// resourceType consults the ranked type providers for a resource whose
// provider left the type empty. Path-based providers win over content-based
// ones; within each kind rank order decides.
func (r *Resolver) resourceType(path string) string {
	for _, tp := range r.pathTypeProviders {
		if typ, ok := tp.ResourceTypeFromPath(path); ok {
			return typ
		}
	}
	for _, tp := range r.typeProviders {
		if typ, ok := tp.ResourceType(r.session, path); ok {
			return typ
		}
	}
	return ""
}
