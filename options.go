package shoreline

import (
	"github.com/rs/zerolog"

	"github.com/cleanupdata/shoreline/pkg/dataset"
	"github.com/cleanupdata/shoreline/pkg/logging"
	"github.com/cleanupdata/shoreline/pkg/sites"
)

// Option is a function that configures a Shoreline instance.
type Option func(*config) error

type config struct {
	dataDir           string
	columnConfig      string
	siteConfig        string
	coordinatesFile   string
	distanceThreshold float64
	failFast          bool
	geocoder          dataset.Geocoder
	logger            *zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		dataDir:           ".",
		columnConfig:      DefaultColumnConfig,
		siteConfig:        DefaultSiteConfig,
		coordinatesFile:   DefaultCoordinatesFile,
		distanceThreshold: sites.DefaultThreshold,
		logger:            logging.Default(),
	}
}

// WithDataDir sets the directory holding the source spreadsheets,
// configuration files, and outputs.
func WithDataDir(dir string) Option {
	return func(c *config) error {
		c.dataDir = dir
		return nil
	}
}

// WithColumnConfig overrides the column configuration file name or path.
func WithColumnConfig(path string) Option {
	return func(c *config) error {
		c.columnConfig = path
		return nil
	}
}

// WithSiteConfig overrides the site alias configuration file name or path.
func WithSiteConfig(path string) Option {
	return func(c *config) error {
		c.siteConfig = path
		return nil
	}
}

// WithCoordinatesFile overrides the coordinate reference table file name or
// path.
func WithCoordinatesFile(path string) Option {
	return func(c *config) error {
		c.coordinatesFile = path
		return nil
	}
}

// WithDistanceThreshold sets the maximum distance, in kilometers, for
// resolving coordinate-pair site strings to a known site.
func WithDistanceThreshold(km float64) Option {
	return func(c *config) error {
		c.distanceThreshold = km
		return nil
	}
}

// WithFailFast aborts the whole merge on the first per-file schema error
// instead of skipping the offending file.
func WithFailFast(enabled bool) Option {
	return func(c *config) error {
		c.failFast = enabled
		return nil
	}
}

// WithGeocoder enables coordinate annotation of the merged dataset using
// the given geocoder.
func WithGeocoder(g dataset.Geocoder) Option {
	return func(c *config) error {
		c.geocoder = g
		return nil
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = &logger
		return nil
	}
}
