package urlmap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haukened/resolvd/internal/resolve/common/log"
)

func TestToInternalVirtualBeforeRules(t *testing.T) {
	table := Build(Options{
		Virtuals: []string{"/news|-|/content/site/news.html"},
		Mappings: []string{"/content/|/"},
		Logger:   log.NewNoopLogger(),
	})

	// virtual hit substitutes the real path and skips the rules
	assert.Equal(t, "/content/site/news.html", table.ToInternal("/news"))
	// no virtual hit: first matching rule applies
	assert.Equal(t, "/docs/page", table.ToInternal("/content/docs/page"))
	// nothing matched: input is treated as already internal
	assert.Equal(t, "/other/page", table.ToInternal("/other/page"))
}

func TestToInternalFirstRuleWins(t *testing.T) {
	table := Build(Options{
		Mappings: []string{"/a/|/first/", "/a/|/second/", "/ab|/third"},
		Logger:   log.NewNoopLogger(),
	})
	assert.Equal(t, "/first/x", table.ToInternal("/a/x"))
}

func TestDirectRuleShadowsLaterRules(t *testing.T) {
	table := Build(Options{
		Mappings:    []string{"/content/|/"},
		AllowDirect: true,
		Logger:      log.NewNoopLogger(),
	})
	// the passthrough rule is evaluated first, so unresolvable and
	// resolvable paths alike round-trip as themselves
	assert.Equal(t, "/content/docs", table.ToInternal("/content/docs"))
	assert.Equal(t, "/nowhere", table.ToInternal("/nowhere"))
	assert.Equal(t, "/nowhere", table.ToExternal("/nowhere"))
}

func TestToExternalExactVirtualOnly(t *testing.T) {
	table := Build(Options{
		Virtuals: []string{"/news|-|/content/site/news.html"},
		Logger:   log.NewNoopLogger(),
	})

	// exact real path reverses to the virtual URL
	assert.Equal(t, "/news", table.ToExternal("/content/site/news.html"))
	// the reverse projection is exact-match only, never prefix
	assert.Equal(t, "/content/site/news.html/extra", table.ToExternal("/content/site/news.html/extra"))
}

func TestToExternalRules(t *testing.T) {
	table := Build(Options{
		Mappings: []string{"/content/|/"},
		Logger:   log.NewNoopLogger(),
	})
	assert.Equal(t, "/content/docs/page", table.ToExternal("/docs/page"))
}

func TestMangling(t *testing.T) {
	table := Build(Options{
		MangleNamespaces: true,
		Logger:           log.NewNoopLogger(),
	})

	assert.Equal(t, "/content/_jcr_content", table.ToExternal("/content/jcr:content"))
	assert.Equal(t, "/content/jcr:content", table.ToInternal("/content/_jcr_content"))
}

func TestManglingDisabled(t *testing.T) {
	table := Build(Options{Logger: log.NewNoopLogger()})

	assert.Equal(t, "/content/jcr:content", table.ToExternal("/content/jcr:content"))
	assert.Equal(t, "/content/_jcr_content", table.ToInternal("/content/_jcr_content"))
}

func TestBijectionRoundTrip(t *testing.T) {
	table := Build(Options{
		Virtuals: []string{
			"/|-|/content/home",
			"/news|-|/content/site/news.html",
		},
		Logger: log.NewNoopLogger(),
	})

	for virtual, real := range map[string]string{
		"/":     "/content/home",
		"/news": "/content/site/news.html",
	} {
		assert.Equal(t, real, table.ToInternal(table.ToExternal(real)), "real %s", real)
		assert.Equal(t, virtual, table.ToExternal(table.ToInternal(virtual)), "virtual %s", virtual)
	}
}

func TestDuplicateVirtualsKeepFirst(t *testing.T) {
	table := Build(Options{
		Virtuals: []string{
			"/news|-|/content/a",
			"/news|-|/content/b",  // duplicate virtual
			"/other|-|/content/a", // duplicate real
		},
		Logger: log.NewNoopLogger(),
	})

	assert.Equal(t, 1, table.VirtualCount())
	assert.Equal(t, "/content/a", table.ToInternal("/news"))
	assert.Equal(t, "/news", table.ToExternal("/content/a"))
	// the rejected pairs resolve as literals
	assert.Equal(t, "/other", table.ToInternal("/other"))
}

func TestInvalidEntriesSkipped(t *testing.T) {
	table := Build(Options{
		Mappings: []string{"no-separator", "/good/|/internal/"},
		Virtuals: []string{"missing-fields", "/v|-|/real"},
		Logger:   log.NewNoopLogger(),
	})

	// the valid rule and pair still load
	assert.Len(t, table.Mappings(), 1)
	assert.Equal(t, 1, table.VirtualCount())
	assert.Equal(t, "/internal/x", table.ToInternal("/good/x"))
}

func TestEmptyTableIsIdentity(t *testing.T) {
	table := Build(Options{Logger: log.NewNoopLogger()})
	assert.Equal(t, "/any/path", table.ToInternal("/any/path"))
	assert.Equal(t, "/any/path", table.ToExternal("/any/path"))
}
