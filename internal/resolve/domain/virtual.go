package domain

import (
	"fmt"
	"strings"
)

// VirtualEntry is one (virtual, real) pair of the virtual URL table. The
// virtual URL is a short external alias for exactly one internal path.
type VirtualEntry struct {
	Virtual string
	Real    string
}

// ParseVirtualEntry parses a "virtual|unused|real" triple. The middle field
// is carried by the configuration format for historical reasons and ignored.
func ParseVirtualEntry(spec string) (VirtualEntry, error) {
	parts := strings.Split(spec, "|")
	if len(parts) != 3 {
		return VirtualEntry{}, fmt.Errorf("%w: expected virtual|unused|real, got %q", ErrInvalidRule, spec)
	}
	e := VirtualEntry{Virtual: parts[0], Real: parts[2]}
	if e.Virtual == "" || e.Real == "" {
		return VirtualEntry{}, fmt.Errorf("%w: empty virtual or real in %q", ErrInvalidRule, spec)
	}
	return e, nil
}
