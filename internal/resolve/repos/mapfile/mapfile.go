// Package mapfile loads mapping-rule and virtual-URL declarations from
// files. It supports YAML, JSON, and TOML documents with two optional list
// keys, "mappings" and "virtuals", and merges every supported file found in
// a directory in lexical walk order so declaration order is reproducible.
package mapfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
)

// LoadDirectory walks dir and merges the mapping and virtual declarations of
// every supported file. A file that fails to parse aborts the load; rule
// validity within a file is the table builder's concern, not the loader's.
func LoadDirectory(dir string) (mappings, virtuals []string, err error) {
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		m, v, err := LoadFile(path)
		if err != nil {
			return fmt.Errorf("error parsing map file %s: %w", path, err)
		}
		mappings = append(mappings, m...)
		virtuals = append(virtuals, v...)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return mappings, virtuals, nil
}

// LoadFile parses a single map file. Files with unsupported extensions are
// skipped silently so unrelated files may live in the same directory.
func LoadFile(path string) (mappings, virtuals []string, err error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		return nil, nil, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, nil, err
	}
	return k.Strings("mappings"), k.Strings("virtuals"), nil
}
