package mapfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "site.yaml", `
mappings:
  - "/content/|/"
  - "/docs/|/libs/docs/"
virtuals:
  - "/news|-|/content/site/news.html"
`)

	mappings, virtuals, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/content/|/", "/docs/|/libs/docs/"}, mappings)
	assert.Equal(t, []string{"/news|-|/content/site/news.html"}, virtuals)
}

func TestLoadFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "site.json", `{"mappings": ["/a/|/b/"], "virtuals": []}`)

	mappings, virtuals, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/|/b/"}, mappings)
	assert.Empty(t, virtuals)
}

func TestLoadFileTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "site.toml", "mappings = [\"/a/|/b/\"]\nvirtuals = [\"/v|-|/r\"]\n")

	mappings, virtuals, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/|/b/"}, mappings)
	assert.Equal(t, []string{"/v|-|/r"}, virtuals)
}

func TestLoadFileUnsupportedExtensionSkipped(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "readme.txt", "not a map file")

	mappings, virtuals, err := LoadFile(path)
	require.NoError(t, err)
	assert.Nil(t, mappings)
	assert.Nil(t, virtuals)
}

func TestLoadDirectoryMergesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "10-first.yaml", "mappings:\n  - \"/a/|/1/\"\n")
	writeFile(t, dir, "20-second.yaml", "mappings:\n  - \"/b/|/2/\"\nvirtuals:\n  - \"/v|-|/r\"\n")
	writeFile(t, dir, "ignore.txt", "whatever")

	mappings, virtuals, err := LoadDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/|/1/", "/b/|/2/"}, mappings)
	assert.Equal(t, []string{"/v|-|/r"}, virtuals)
}

func TestLoadDirectoryPropagatesParseErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", "{not json")

	_, _, err := LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectoryMissing(t *testing.T) {
	_, _, err := LoadDirectory(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
