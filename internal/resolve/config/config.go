package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// SearchPaths are tried in order when resolving relative resource
	// names. A '|' would indicate a mapping rule pasted into the wrong
	// list, so it is rejected here.
	SearchPaths []string `koanf:"search_paths" validate:"required,min=1,dive,plain_path"`

	// Mappings are "match|replacement" rule strings in priority order.
	// Individual malformed rules are skipped at table build with a logged
	// diagnostic, so they are not validated here.
	Mappings []string `koanf:"mappings"`

	// Virtuals are "virtual|unused|real" triples.
	Virtuals []string `koanf:"virtuals"`

	// MapDir optionally names a directory of mapping declaration files
	// merged into Mappings and Virtuals at startup.
	MapDir string `koanf:"map_dir"`

	// MangleNamespaces enables "ns:name" <-> "_ns_name" URL rewriting.
	MangleNamespaces bool `koanf:"mangle_namespaces"`

	// AllowDirect inserts the passthrough mapping rule ahead of all others.
	AllowDirect bool `koanf:"allow_direct"`

	// MapCacheSize bounds the map-result cache; 0 disables it.
	MapCacheSize uint `koanf:"map_cache_size"`

	// StorePath is the bbolt database backing the content store provider.
	StorePath string `koanf:"store_path" validate:"required"`
}

// DEFAULT_APP_CONFIG defines the default application configuration. The
// search paths and flags mirror a conventional content-repository setup.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:              "prod",
	LogLevel:         "info",
	SearchPaths:      []string{"/apps/", "/libs/"},
	MangleNamespaces: true,
	AllowDirect:      true,
	MapCacheSize:     512,
	StorePath:        "/var/lib/resolvd/store.db",
}

// validPlainPath rejects search-path entries containing a '|' separator,
// which only appears in mapping-rule syntax.
func validPlainPath(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	return p != "" && !strings.Contains(p, "|")
}

// envLoader loads environment variables with the prefix "RESOLVD_",
// lowercasing keys and splitting list values on commas or spaces. Split out
// so tests can substitute it.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "RESOLVD_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "RESOLVD_"))
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG through the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation wires the custom plain_path validation.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("plain_path", validPlainPath)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	err := defaultLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	err = envLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	err = registerValidation(validate)
	if err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	err = validate.Struct(&cfg)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
