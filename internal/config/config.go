package config

import (
	"os"
	"strings"

	"brainmapp/internal/errors"
)

// DefaultSigThreshold is the cluster-forming threshold label written by the
// pipeline into significance file names (stack<N>.cache.th<T>.abs.sig.ocn.mgh).
const DefaultSigThreshold = "30"

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Results ResultsConfig
	Surface SurfaceConfig
	Style   StyleConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// ResultsConfig holds result-store settings
type ResultsConfig struct {
	DefaultRoot  string
	SigThreshold string
}

// SurfaceConfig holds template-surface settings
type SurfaceConfig struct {
	// SubjectsDir contains fsaverage, fsaverage6 and fsaverage5 subject folders.
	SubjectsDir       string
	DefaultResolution string
	DefaultSurface    string
}

// StyleConfig holds colormaps and the overlap palette
type StyleConfig struct {
	BetaColormap    string
	ClusterColormap string
	OverlapColors   []string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:  *loadServerConfig(),
		Results: *loadResultsConfig(),
		Surface: *loadSurfaceConfig(),
		Style:   *loadStyleConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadResultsConfig() *ResultsConfig {
	return &ResultsConfig{
		DefaultRoot:  getEnvOrDefault("RESULTS_DIR", ""),
		SigThreshold: getEnvOrDefault("SIG_THRESHOLD", DefaultSigThreshold),
	}
}

func loadSurfaceConfig() *SurfaceConfig {
	return &SurfaceConfig{
		SubjectsDir:       getEnvOrDefault("SUBJECTS_DIR", ""),
		DefaultResolution: getEnvOrDefault("DEFAULT_RESOLUTION", "fsaverage6"),
		DefaultSurface:    getEnvOrDefault("DEFAULT_SURFACE", "pial"),
	}
}

func loadStyleConfig() *StyleConfig {
	return &StyleConfig{
		BetaColormap:    getEnvOrDefault("BETA_COLORMAP", "viridis"),
		ClusterColormap: getEnvOrDefault("CLUSTER_COLORMAP", "tab20"),
		OverlapColors:   getEnvListOrDefault("OVERLAP_COLORS", []string{"#ffd166", "#06d6a0", "#ef476f"}),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Results.SigThreshold == "" {
		return errors.ConfigInvalid("significance threshold label is required")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be one of debug, release, test")
	}
	if len(config.Style.OverlapColors) != 3 {
		return errors.ConfigInvalid("OVERLAP_COLORS must list exactly three colors")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
