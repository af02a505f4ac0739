// Package resolver composes the resolution core: the Factory owns the
// provider tree, the ranked type-provider lists, and the active mapping
// table, and manufactures short-lived Resolver instances bound to a caller's
// store session.
package resolver

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/haukened/resolvd/internal/resolve/common/log"
	"github.com/haukened/resolvd/internal/resolve/domain"
	"github.com/haukened/resolvd/internal/resolve/repos/mapcache"
	"github.com/haukened/resolvd/internal/resolve/repos/providertree"
	"github.com/haukened/resolvd/internal/resolve/repos/ranked"
	"github.com/haukened/resolvd/internal/resolve/repos/urlmap"
)

// Config is the factory's configuration surface, replaced wholesale on
// every Configure call.
type Config struct {
	// SearchPaths are tried in order by Resolver.Lookup for relative names.
	// Each entry is normalized to begin and end with "/". Empty defaults to
	// the root alone.
	SearchPaths []string
	// Mappings are "match|replacement" rule specifications in priority order.
	Mappings []string
	// Virtuals are "virtual|unused|real" triples.
	Virtuals []string
	// MangleNamespaces enables namespace mangling of mapped URLs.
	MangleNamespaces bool
	// AllowDirect inserts the passthrough rule ahead of all mappings.
	AllowDirect bool
	// MapCacheSize bounds the per-configuration map-result cache. Zero
	// disables caching.
	MapCacheSize int
}

// FactoryOptions configures a new Factory.
type FactoryOptions struct {
	Logger log.Logger
}

// Factory owns the mutable shared state of the resolution core. It starts
// uninitialized: provider and type-provider registrations arriving before
// the first Configure are buffered and replayed, in arrival order, exactly
// once at activation.
type Factory struct {
	logger log.Logger

	tree              *providertree.Tree[Provider]
	typeProviders     *ranked.List[TypeProvider]
	pathTypeProviders *ranked.List[PathTypeProvider]

	table       atomic.Pointer[urlmap.Table]
	searchPaths atomic.Pointer[[]string]
	cache       atomic.Pointer[mapcache.Cache]

	// mu guards the lifecycle state, the delayed queues, and provider
	// (de)registration, so activation replay is mutually exclusive with
	// concurrent bind/unbind calls.
	mu                  sync.Mutex
	active              bool
	delayedProviders    []delayedProvider
	delayedTypeProv     []delayedBind[TypeProvider]
	delayedPathTypeProv []delayedBind[PathTypeProvider]
}

type delayedProvider struct {
	mounts   []string
	provider Provider
}

type delayedBind[P any] struct {
	serviceID int64
	rank      int
	provider  P
}

// NewFactory returns an uninitialized Factory. It becomes active on the
// first Configure call.
func NewFactory(opts FactoryOptions) *Factory {
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLogger()
	}
	f := &Factory{
		logger:            logger,
		tree:              providertree.New[Provider](),
		typeProviders:     ranked.New[TypeProvider](),
		pathTypeProviders: ranked.New[PathTypeProvider](),
	}
	f.table.Store(urlmap.Build(urlmap.Options{Logger: logger}))
	defaultPaths := []string{"/"}
	f.searchPaths.Store(&defaultPaths)
	return f
}

// Configure atomically replaces the search paths, mapping rules, and
// virtual URL table, then activates the factory, replaying any buffered
// registrations exactly once. Calling Configure again later reconfigures in
// place without duplicating or leaking previously drained queue entries.
func (f *Factory) Configure(cfg Config) error {
	table := urlmap.Build(urlmap.Options{
		Mappings:         cfg.Mappings,
		Virtuals:         cfg.Virtuals,
		AllowDirect:      cfg.AllowDirect,
		MangleNamespaces: cfg.MangleNamespaces,
		Logger:           f.logger,
	})

	searchPaths := make([]string, 0, len(cfg.SearchPaths))
	for _, p := range cfg.SearchPaths {
		searchPaths = append(searchPaths, domain.NormalizeSearchPath(p))
	}
	if len(searchPaths) == 0 {
		searchPaths = []string{"/"}
	}

	var cache *mapcache.Cache
	if cfg.MapCacheSize > 0 {
		var err error
		cache, err = mapcache.New(cfg.MapCacheSize)
		if err != nil {
			return fmt.Errorf("building map cache: %w", err)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.table.Store(table)
	f.searchPaths.Store(&searchPaths)
	f.cache.Store(cache)
	f.active = true

	// Replay buffered registrations in arrival order. A failed entry is
	// reported and skipped; it never aborts the remaining replays.
	for _, d := range f.delayedProviders {
		if err := f.registerLocked(d.mounts, d.provider); err != nil {
			f.logger.Error(map[string]any{
				"mounts": d.mounts,
				"error":  fmt.Errorf("%w: %v", domain.ErrReplayFailure, err),
			}, "Delayed provider registration failed at replay")
		}
	}
	f.delayedProviders = nil

	for _, d := range f.delayedTypeProv {
		f.typeProviders.Bind(d.serviceID, d.rank, d.provider)
	}
	f.delayedTypeProv = nil

	for _, d := range f.delayedPathTypeProv {
		f.pathTypeProviders.Bind(d.serviceID, d.rank, d.provider)
	}
	f.delayedPathTypeProv = nil

	f.logger.Info(map[string]any{
		"search_paths": searchPaths,
		"rules":        len(table.Mappings()),
		"virtuals":     table.VirtualCount(),
		"mangle":       cfg.MangleNamespaces,
	}, "Resolver factory configured")
	return nil
}

// Deactivate returns the factory to the uninitialized state: subsequent
// registrations buffer again until the next Configure, and the published
// mapping table reverts to the identity.
func (f *Factory) Deactivate() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.active = false
	f.table.Store(urlmap.Build(urlmap.Options{Logger: f.logger}))
	f.cache.Store(nil)
}

// Active reports whether the factory has been configured.
func (f *Factory) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// RegisterProvider mounts provider at every given mount path. Before
// activation the registration is buffered. A conflict on one mount is
// reported but does not prevent the remaining mounts from registering; the
// caller decides whether a partial registration is fatal.
func (f *Factory) RegisterProvider(mounts []string, provider Provider) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.active {
		f.delayedProviders = append(f.delayedProviders, delayedProvider{mounts: mounts, provider: provider})
		f.logger.Debug(map[string]any{"mounts": mounts}, "Delaying provider registration until activation")
		return nil
	}
	return f.registerLocked(mounts, provider)
}

// registerLocked registers each mount, collecting per-mount failures.
// Callers must hold mu.
func (f *Factory) registerLocked(mounts []string, provider Provider) error {
	var errs []error
	for _, mount := range mounts {
		if err := f.tree.Register(mount, provider); err != nil {
			f.logger.Error(map[string]any{"mount": mount, "error": err}, "Cannot register provider")
			errs = append(errs, err)
			continue
		}
		f.logger.Debug(map[string]any{"mount": mount}, "Provider registered")
	}
	return errors.Join(errs...)
}

// UnregisterProvider removes the registrations at the given mount paths.
// Before activation it cancels matching buffered registrations instead.
// Unregistering an unowned path is a no-op.
func (f *Factory) UnregisterProvider(mounts []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.active {
		f.dropDelayedMounts(mounts)
		return
	}
	for _, mount := range mounts {
		f.tree.Unregister(mount)
		f.logger.Debug(map[string]any{"mount": mount}, "Provider unregistered")
	}
}

// dropDelayedMounts removes the given mounts from buffered registrations,
// discarding entries left with no mounts. Callers must hold mu.
func (f *Factory) dropDelayedMounts(mounts []string) {
	drop := make(map[string]struct{}, len(mounts))
	for _, m := range mounts {
		if norm, err := domain.NormalizeMountPath(m); err == nil {
			drop[norm] = struct{}{}
		}
	}
	kept := f.delayedProviders[:0]
	for _, d := range f.delayedProviders {
		var remaining []string
		for _, m := range d.mounts {
			norm, err := domain.NormalizeMountPath(m)
			if err != nil {
				remaining = append(remaining, m)
				continue
			}
			if _, ok := drop[norm]; !ok {
				remaining = append(remaining, m)
			}
		}
		if len(remaining) > 0 {
			d.mounts = remaining
			kept = append(kept, d)
		}
	}
	f.delayedProviders = kept
}

// BindTypeProvider registers a content-based type provider under its
// external service ID and rank. Pre-activation binds are buffered.
func (f *Factory) BindTypeProvider(serviceID int64, rank int, provider TypeProvider) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.active {
		f.delayedTypeProv = append(f.delayedTypeProv, delayedBind[TypeProvider]{serviceID: serviceID, rank: rank, provider: provider})
		return
	}
	f.typeProviders.Bind(serviceID, rank, provider)
}

// UnbindTypeProvider removes the type provider bound under serviceID, both
// from the live list and from any pre-activation buffer.
func (f *Factory) UnbindTypeProvider(serviceID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.delayedTypeProv = dropDelayedBind(f.delayedTypeProv, serviceID)
	f.typeProviders.Unbind(serviceID)
}

// BindPathTypeProvider registers a path-based type provider under its
// external service ID and rank. Pre-activation binds are buffered.
func (f *Factory) BindPathTypeProvider(serviceID int64, rank int, provider PathTypeProvider) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.active {
		f.delayedPathTypeProv = append(f.delayedPathTypeProv, delayedBind[PathTypeProvider]{serviceID: serviceID, rank: rank, provider: provider})
		return
	}
	f.pathTypeProviders.Bind(serviceID, rank, provider)
}

// UnbindPathTypeProvider removes the path type provider bound under
// serviceID, both from the live list and from any pre-activation buffer.
func (f *Factory) UnbindPathTypeProvider(serviceID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.delayedPathTypeProv = dropDelayedBind(f.delayedPathTypeProv, serviceID)
	f.pathTypeProviders.Unbind(serviceID)
}

func dropDelayedBind[P any](queue []delayedBind[P], serviceID int64) []delayedBind[P] {
	kept := queue[:0]
	for _, d := range queue {
		if d.serviceID != serviceID {
			kept = append(kept, d)
		}
	}
	return kept
}

// NewResolver binds the current provider tree, mapping table, and the given
// store session into a lightweight Resolver. Each call returns a new
// instance; resolvers never mutate shared state.
func (f *Factory) NewResolver(session StoreSession) *Resolver {
	return &Resolver{
		tree:              f.tree,
		table:             f.table.Load(),
		searchPaths:       *f.searchPaths.Load(),
		typeProviders:     f.typeProviders.Snapshot(),
		pathTypeProviders: f.pathTypeProviders.Snapshot(),
		cache:             f.cache.Load(),
		session:           session,
		logger:            f.logger,
	}
}

// SearchPaths returns the active normalized search paths.
func (f *Factory) SearchPaths() []string {
	paths := *f.searchPaths.Load()
	out := make([]string, len(paths))
	copy(out, paths)
	return out
}

// Mounts returns the currently registered mount paths, sorted.
func (f *Factory) Mounts() []string {
	return f.tree.Mounts()
}
