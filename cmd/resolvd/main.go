package main

import (
	"fmt"
	"os"

	"github.com/haukened/resolvd/internal/resolve/common/log"
	"github.com/haukened/resolvd/internal/resolve/config"
	"github.com/haukened/resolvd/internal/resolve/repos/boltstore"
	"github.com/haukened/resolvd/internal/resolve/repos/mapfile"
	"github.com/haukened/resolvd/internal/resolve/services/resolver"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "resolvd"
)

// Application holds all the components of the resolution engine.
type Application struct {
	config  *config.AppConfig
	store   *boltstore.Store
	factory *resolver.Factory
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	err = log.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":      version,
		"env":          cfg.Env,
		"log_level":    cfg.LogLevel,
		"search_paths": cfg.SearchPaths,
		"map_dir":      cfg.MapDir,
		"store_path":   cfg.StorePath,
	}, "Starting resolvd")

	// Build application with all dependencies
	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}
	defer func() {
		if err := app.store.Close(); err != nil {
			log.Warn(map[string]any{"error": err}, "Error closing content store")
		}
	}()

	// Resolve each path given on the command line and print the result
	if err := app.Run(os.Args[1:]); err != nil {
		log.Fatal(map[string]any{"error": err}, "Resolution failed")
	}
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	// Initialize logger (already configured globally)
	logger := log.GetLogger()

	// Open the content store backing the root provider
	store, err := boltstore.Open(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open content store: %w", err)
	}

	log.Info(map[string]any{
		"path":      cfg.StorePath,
		"resources": store.Len(),
	}, "Content store opened")

	// Merge mapping declaration files into the environment-sourced lists
	mappings := cfg.Mappings
	virtuals := cfg.Virtuals
	if cfg.MapDir != "" {
		fileMappings, fileVirtuals, err := mapfile.LoadDirectory(cfg.MapDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load map directory: %w", err)
		}
		mappings = append(mappings, fileMappings...)
		virtuals = append(virtuals, fileVirtuals...)
		log.Info(map[string]any{
			"map_dir":  cfg.MapDir,
			"mappings": len(fileMappings),
			"virtuals": len(fileVirtuals),
		}, "Mapping declarations loaded")
	}

	// Build and activate the resolver factory
	factory := resolver.NewFactory(resolver.FactoryOptions{Logger: logger})
	err = factory.Configure(resolver.Config{
		SearchPaths:      cfg.SearchPaths,
		Mappings:         mappings,
		Virtuals:         virtuals,
		MangleNamespaces: cfg.MangleNamespaces,
		AllowDirect:      cfg.AllowDirect,
		MapCacheSize:     int(cfg.MapCacheSize),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure resolver factory: %w", err)
	}

	// The content store serves the whole tree
	if err := factory.RegisterProvider([]string{"/"}, store); err != nil {
		return nil, fmt.Errorf("failed to register content store: %w", err)
	}

	return &Application{
		config:  cfg,
		store:   store,
		factory: factory,
	}, nil
}

// Run resolves each argument path and prints its resource and mapped URL.
func (app *Application) Run(paths []string) error {
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s <path> [<path> ...]\n", appName)
		return nil
	}

	res := app.factory.NewResolver(nil)

	for _, p := range paths {
		resource, err := res.Resolve(p)
		if err != nil {
			log.Warn(map[string]any{
				"path":  p,
				"error": err,
			}, "Resource not found")
			fmt.Printf("%s: not found\n", p)
			continue
		}
		fmt.Printf("%s -> %s (type=%s, mapped=%s)\n", p, resource.Path, resource.Type, res.Map(resource.Path))
	}

	return nil
}
