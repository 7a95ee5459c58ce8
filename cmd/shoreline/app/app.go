// Package app provides the application context and dependency management
// for the shoreline CLI. It centralizes configuration, logging, and
// construction of the merge pipeline.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	shoreline "github.com/cleanupdata/shoreline"
	"github.com/cleanupdata/shoreline/internal/geocode"
)

// App represents the shoreline application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Pipeline instance (lazy-initialized, singleton)
	mu       sync.Mutex
	pipeline shoreline.Shoreline
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	a.config = config

	logger := NewLogger(config)
	a.logger = &logger

	return a, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Pipeline returns the merge pipeline, constructing it on first use. The
// schema configuration is loaded at construction, so a misconfigured data
// directory fails here rather than mid-merge.
func (a *App) Pipeline() (shoreline.Shoreline, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pipeline != nil {
		return a.pipeline, nil
	}

	opts := []shoreline.Option{
		shoreline.WithDataDir(a.config.DataDir),
		shoreline.WithColumnConfig(a.config.ColumnConfig),
		shoreline.WithSiteConfig(a.config.SiteConfig),
		shoreline.WithCoordinatesFile(a.config.CoordinatesFile),
		shoreline.WithDistanceThreshold(a.config.DistanceThreshold),
		shoreline.WithFailFast(a.config.FailFast),
		shoreline.WithLogger(*a.logger),
	}
	if a.config.Geocode {
		opts = append(opts, shoreline.WithGeocoder(geocode.NewClient()))
	}

	pipeline, err := shoreline.New(opts...)
	if err != nil {
		return nil, err
	}
	a.pipeline = pipeline
	return pipeline, nil
}

// reset clears the cached pipeline so the next Pipeline call rebuilds it
// with current configuration. Used after flag parsing changes the config.
func (a *App) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pipeline = nil
}
