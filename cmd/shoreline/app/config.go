package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	shoreline "github.com/cleanupdata/shoreline"
	"github.com/cleanupdata/shoreline/pkg/sites"
)

// Config holds the application configuration loaded from flags,
// environment variables, .env files, and defaults.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool

	// Pipeline configuration
	DataDir           string
	ColumnConfig      string
	SiteConfig        string
	CoordinatesFile   string
	DistanceThreshold float64
	FailFast          bool
	Geocode           bool

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from all sources in order of precedence:
// command-line flags (bound later by cobra), environment variables, .env
// files, then defaults.
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("shoreline")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	viper.SetDefault("data_dir", ".")
	viper.SetDefault("column_config", shoreline.DefaultColumnConfig)
	viper.SetDefault("site_config", shoreline.DefaultSiteConfig)
	viper.SetDefault("coordinates_file", shoreline.DefaultCoordinatesFile)
	viper.SetDefault("distance_threshold", sites.DefaultThreshold)

	return &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),

		DataDir:           viper.GetString("data_dir"),
		ColumnConfig:      viper.GetString("column_config"),
		SiteConfig:        viper.GetString("site_config"),
		CoordinatesFile:   viper.GetString("coordinates_file"),
		DistanceThreshold: viper.GetFloat64("distance_threshold"),
		FailFast:          viper.GetBool("fail_fast"),
		Geocode:           viper.GetBool("geocode"),

		LogLevel:  viper.GetString("log_level"),
		LogFormat: viper.GetString("log_format"),
	}, nil
}

// loadEnvFiles loads .env files from the working directory, if present.
// Existing environment variables always win.
func loadEnvFiles() {
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
		}
	}
}

// UpdateFromFlags applies parsed flag values over the loaded configuration.
func (c *Config) UpdateFromFlags(verbose, quiet bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}
