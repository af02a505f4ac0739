package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Mapping is an immutable rule translating between the external URL form and
// the internal repository form of a path. A mapping is either a prefix
// substitution (External/Internal prefixes) or a regexp/replacement pair.
// Prefix mappings rewrite in both directions; regexp mappings only apply in
// the resolve (external to internal) direction.
type Mapping struct {
	// External is the externally visible prefix matched on resolve.
	External string
	// Internal is the repository prefix substituted on resolve.
	Internal string

	pattern *regexp.Regexp // non-nil for regexp mappings
	direct  bool
}

// DirectMapping is the passthrough rule inserted ahead of all configured
// mappings when direct mapping is allowed, so unresolvable paths still
// round-trip as themselves.
var DirectMapping = Mapping{direct: true}

// ParseMapping parses a "match|replacement" specification. The string is
// split at the last '|' so the match part may itself contain alternation
// metacharacters. A match containing regexp metacharacters yields a regexp
// mapping; otherwise the rule is a plain prefix substitution.
func ParseMapping(spec string) (Mapping, error) {
	pos := strings.LastIndex(spec, "|")
	if pos < 0 {
		return Mapping{}, fmt.Errorf("%w: no separator in %q", ErrInvalidRule, spec)
	}
	match := spec[:pos]
	replacement := spec[pos+1:]
	if match == "" {
		return Mapping{}, fmt.Errorf("%w: empty match in %q", ErrInvalidRule, spec)
	}

	if regexp.QuoteMeta(match) != match {
		re, err := regexp.Compile(match)
		if err != nil {
			return Mapping{}, fmt.Errorf("%w: bad pattern %q: %v", ErrInvalidRule, match, err)
		}
		return Mapping{External: match, Internal: replacement, pattern: re}, nil
	}

	return Mapping{External: match, Internal: replacement}, nil
}

// IsDirect reports whether this is the passthrough rule.
func (m Mapping) IsDirect() bool {
	return m.direct
}

// Resolve rewrites an external URL into its internal form. The boolean
// reports whether the rule matched.
func (m Mapping) Resolve(uri string) (string, bool) {
	if m.direct {
		return uri, true
	}
	if m.pattern != nil {
		if !m.pattern.MatchString(uri) {
			return "", false
		}
		return m.pattern.ReplaceAllString(uri, m.Internal), true
	}
	if !strings.HasPrefix(uri, m.External) {
		return "", false
	}
	return m.Internal + uri[len(m.External):], true
}

// Map rewrites an internal path back into its external form. Regexp mappings
// are not reversible and never match in this direction.
func (m Mapping) Map(path string) (string, bool) {
	if m.direct {
		return path, true
	}
	if m.pattern != nil {
		return "", false
	}
	if !strings.HasPrefix(path, m.Internal) {
		return "", false
	}
	return m.External + path[len(m.Internal):], true
}

// String returns the rule in its configuration form.
func (m Mapping) String() string {
	if m.direct {
		return "<direct>"
	}
	return m.External + "|" + m.Internal
}
