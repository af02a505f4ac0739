// Package urlmap implements the bidirectional URL-mapping layer: the
// virtual URL table, the ordered mapping-rule list, and namespace mangling.
// A Table is immutable once built; reconfiguration builds a fresh Table and
// the factory swaps it in by reference, so in-flight readers never observe a
// partial rebuild.
package urlmap

import (
	"github.com/haukened/resolvd/internal/resolve/common/log"
	"github.com/haukened/resolvd/internal/resolve/domain"
)

// Options carries the raw configuration a Table is built from.
type Options struct {
	// Mappings are "match|replacement" rule specifications, in priority order.
	Mappings []string
	// Virtuals are "virtual|unused|real" triples.
	Virtuals []string
	// AllowDirect inserts the passthrough rule ahead of all mappings so
	// unresolvable paths round-trip as themselves.
	AllowDirect bool
	// MangleNamespaces enables "ns:name" <-> "_ns_name" segment rewriting.
	MangleNamespaces bool
	// Logger receives per-entry diagnostics for skipped rules. Defaults to
	// the global logger.
	Logger log.Logger
}

// Table is the read-only mapping state of one configuration generation.
type Table struct {
	mappings      []domain.Mapping
	virtualToReal map[string]string
	realToVirtual map[string]string
	mangle        bool
}

// Build constructs a Table from raw configuration. Malformed rule or virtual
// specifications are skipped with a logged diagnostic; the remaining valid
// entries still load. Duplicate virtual or real entries keep the first pair,
// preserving the table's bijection.
func Build(opts Options) *Table {
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLogger()
	}

	t := &Table{
		virtualToReal: make(map[string]string, len(opts.Virtuals)),
		realToVirtual: make(map[string]string, len(opts.Virtuals)),
		mangle:        opts.MangleNamespaces,
	}

	if opts.AllowDirect {
		t.mappings = append(t.mappings, domain.DirectMapping)
	}
	for _, spec := range opts.Mappings {
		m, err := domain.ParseMapping(spec)
		if err != nil {
			logger.Error(map[string]any{"rule": spec, "error": err}, "Skipping invalid mapping rule")
			continue
		}
		t.mappings = append(t.mappings, m)
	}

	for _, spec := range opts.Virtuals {
		e, err := domain.ParseVirtualEntry(spec)
		if err != nil {
			logger.Error(map[string]any{"entry": spec, "error": err}, "Skipping invalid virtual URL entry")
			continue
		}
		if real, dup := t.virtualToReal[e.Virtual]; dup {
			logger.Warn(map[string]any{
				"virtual": e.Virtual, "real": real, "skipped": e.Real,
			}, "Duplicate virtual URL, keeping first")
			continue
		}
		if virtual, dup := t.realToVirtual[e.Real]; dup {
			logger.Warn(map[string]any{
				"real": e.Real, "virtual": virtual, "skipped": e.Virtual,
			}, "Duplicate real path for virtual URL, keeping first")
			continue
		}
		t.virtualToReal[e.Virtual] = e.Real
		t.realToVirtual[e.Real] = e.Virtual
	}

	return t
}

// ToInternal translates an externally visible URL into its internal
// repository form: an exact virtual-URL hit substitutes the mapped real
// path; otherwise the first matching mapping rule applies. With no match the
// input is returned unchanged, treated as already internal. Mangled
// namespace segments are unmangled last.
func (t *Table) ToInternal(url string) string {
	uri := url
	if real, ok := t.virtualToReal[uri]; ok {
		uri = real
	} else {
		for _, m := range t.mappings {
			if mapped, ok := m.Resolve(uri); ok {
				uri = mapped
				break
			}
		}
	}
	if t.mangle {
		uri = domain.UnmangleNamespaces(uri)
	}
	return uri
}

// ToExternal translates an internal repository path into its external form.
// The reverse virtual projection is consulted first and matches exact paths
// only, not prefixes. Then the first mapping rule that reverses applies, and
// namespace-qualified segments are mangled last.
func (t *Table) ToExternal(path string) string {
	out := path
	if virtual, ok := t.realToVirtual[out]; ok {
		out = virtual
	} else {
		for _, m := range t.mappings {
			if mapped, ok := m.Map(out); ok {
				out = mapped
				break
			}
		}
	}
	if t.mangle {
		out = domain.MangleNamespaces(out)
	}
	return out
}

// Mappings returns the active rule list in evaluation order.
func (t *Table) Mappings() []domain.Mapping {
	return t.mappings
}

// VirtualCount returns the number of virtual URL pairs in the table.
func (t *Table) VirtualCount() int {
	return len(t.virtualToReal)
}
