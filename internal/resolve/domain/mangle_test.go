package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMangleNamespaces(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single qualified segment", "/content/jcr:content", "/content/_jcr_content"},
		{"qualified root segment", "/jcr:system/nodes", "/_jcr_system/nodes"},
		{"multiple qualified segments", "/a/ns:x/b/other:y", "/a/_ns_x/b/_other_y"},
		{"no namespaces untouched", "/plain/path", "/plain/path"},
		{"root untouched", "/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MangleNamespaces(tt.in))
		})
	}
}

func TestUnmangleNamespaces(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single mangled segment", "/content/_jcr_content", "/content/jcr:content"},
		{"mangled root segment", "/_jcr_system/nodes", "/jcr:system/nodes"},
		{"no mangling untouched", "/plain/path", "/plain/path"},
		{"underscore inside name untouched", "/some_name/path", "/some_name/path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnmangleNamespaces(tt.in))
		})
	}
}

func TestMangleRoundTrip(t *testing.T) {
	paths := []string{
		"/content/jcr:content",
		"/a/ns:x/b/other:y/c",
		"/jcr:system",
	}
	for _, p := range paths {
		assert.Equal(t, p, UnmangleNamespaces(MangleNamespaces(p)), "round trip of %s", p)
	}
}
