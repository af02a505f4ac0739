// Package providertree implements the mount-path routing tree: a
// path-segment tree in which each node may own at most one provider handle.
// Lookups return the handle whose mount path is the longest prefix of the
// requested path.
//
// Mutations are serialized by a mutex and published copy-on-write: the spine
// of nodes from the root to the changed node is cloned, untouched subtrees
// are shared, and the new root is swapped in atomically. Readers traverse
// whatever root they loaded and therefore always see either the pre- or the
// post-mutation tree, never a partially linked one.
package providertree

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/haukened/resolvd/internal/resolve/domain"
)

// node is one segment of the tree. A node with a nil provider exists purely
// to hold children (an intermediate path segment).
type node[P any] struct {
	provider *P
	children map[string]*node[P]
}

func (n *node[P]) clone() *node[P] {
	c := &node[P]{provider: n.provider}
	if len(n.children) > 0 {
		c.children = make(map[string]*node[P], len(n.children))
		for seg, child := range n.children {
			c.children[seg] = child
		}
	}
	return c
}

// Tree routes normalized paths to registered provider handles. The zero
// value is not usable; construct with New.
type Tree[P any] struct {
	mu   sync.Mutex // serializes Register/Unregister
	root atomic.Pointer[node[P]]
}

// New returns an empty tree whose root node represents "/".
func New[P any]() *Tree[P] {
	t := &Tree[P]{}
	t.root.Store(&node[P]{})
	return t
}

// Register attaches provider at the normalized mount path. If the terminal
// node already owns a handle the call fails with a ConflictError naming the
// existing owner and the tree is left untouched.
func (t *Tree[P]) Register(path string, provider P) error {
	norm, err := domain.NormalizeMountPath(path)
	if err != nil {
		return err
	}
	segments := domain.SplitSegments(norm)

	t.mu.Lock()
	defer t.mu.Unlock()

	newRoot, existing := insert(t.root.Load(), segments, &provider)
	if existing != nil {
		return &domain.ConflictError{Path: norm, Existing: *existing}
	}
	t.root.Store(newRoot)
	return nil
}

// insert clones the spine down to the terminal node and attaches the
// provider there. On conflict it returns the already-registered handle and
// a nil tree, leaving the published structure untouched.
func insert[P any](n *node[P], segments []string, provider *P) (*node[P], *P) {
	if len(segments) == 0 {
		if n.provider != nil {
			return nil, n.provider
		}
		c := n.clone()
		c.provider = provider
		return c, nil
	}

	child := n.children[segments[0]]
	if child == nil {
		child = &node[P]{}
	}
	newChild, existing := insert(child, segments[1:], provider)
	if existing != nil {
		return nil, existing
	}

	c := n.clone()
	if c.children == nil {
		c.children = make(map[string]*node[P], 1)
	}
	c.children[segments[0]] = newChild
	return c, nil
}

// Unregister clears the provider handle at the normalized path. Nodes left
// with neither a handle nor children are pruned. Unregistering a path with
// no registered provider is a no-op.
func (t *Tree[P]) Unregister(path string) {
	norm, err := domain.NormalizeMountPath(path)
	if err != nil {
		return
	}
	segments := domain.SplitSegments(norm)

	t.mu.Lock()
	defer t.mu.Unlock()

	newRoot, changed := remove(t.root.Load(), segments)
	if !changed {
		return
	}
	if newRoot == nil {
		newRoot = &node[P]{} // the root node itself is never pruned
	}
	t.root.Store(newRoot)
}

// remove clones the spine down to the terminal node, clears its handle, and
// prunes empty nodes on the way back up. A nil node with changed=true means
// the subtree vanished entirely.
func remove[P any](n *node[P], segments []string) (*node[P], bool) {
	if len(segments) == 0 {
		if n.provider == nil {
			return nil, false
		}
		if len(n.children) == 0 {
			return nil, true
		}
		c := n.clone()
		c.provider = nil
		return c, true
	}

	child := n.children[segments[0]]
	if child == nil {
		return nil, false
	}
	newChild, changed := remove(child, segments[1:])
	if !changed {
		return nil, false
	}

	c := n.clone()
	if newChild == nil {
		delete(c.children, segments[0])
		if len(c.children) == 0 {
			c.children = nil
			if c.provider == nil {
				return nil, true
			}
		}
	} else {
		c.children[segments[0]] = newChild
	}
	return c, true
}

// Resolve returns the provider whose mount path is the longest prefix of
// path, along with that mount path. The boolean is false when no node on the
// way down owns a handle.
func (t *Tree[P]) Resolve(path string) (P, string, bool) {
	var zero P
	norm, err := domain.NormalizeMountPath(path)
	if err != nil {
		return zero, "", false
	}
	segments := domain.SplitSegments(norm)

	n := t.root.Load()
	best := n.provider
	bestDepth := 0
	for i, seg := range segments {
		n = n.children[seg]
		if n == nil {
			break
		}
		if n.provider != nil {
			best = n.provider
			bestDepth = i + 1
		}
	}
	if best == nil {
		return zero, "", false
	}
	return *best, mountPath(segments, bestDepth), true
}

func mountPath(segments []string, depth int) string {
	if depth == 0 {
		return "/"
	}
	var b []byte
	for _, seg := range segments[:depth] {
		b = append(b, '/')
		b = append(b, seg...)
	}
	return string(b)
}

// Mounts returns the registered mount paths in sorted order. Intended for
// logging and diagnostics.
func (t *Tree[P]) Mounts() []string {
	var out []string
	collect(t.root.Load(), "", &out)
	sort.Strings(out)
	return out
}

func collect[P any](n *node[P], prefix string, out *[]string) {
	if n.provider != nil {
		p := prefix
		if p == "" {
			p = "/"
		}
		*out = append(*out, p)
	}
	for seg, child := range n.children {
		collect(child, prefix+"/"+seg, out)
	}
}
