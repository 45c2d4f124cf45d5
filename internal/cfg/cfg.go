// Package cfg loads run settings for the classifier pipeline from an optional
// .env file, an optional YAML file named by CONFIG_FILE, and environment
// variables, in increasing order of precedence.
package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"shopping/internal/knn"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	defaultTestSize     = 0.4
	defaultNeighbors    = 1
	defaultMetric       = knn.MetricEuclidean
	defaultFetchTimeout = 30 * time.Second
	defaultLogLevel     = "info"
)

type Settings struct {
	TestSize     float64
	Seed         int64 // 0 picks a time-based seed per run
	Stratified   bool
	Neighbors    int
	Metric       string
	DataPath     string // run history directory, empty disables it
	MetricsFile  string // Prometheus textfile, empty disables it
	FetchTimeout time.Duration
	LogLevel     string
}

type ConfigFile struct {
	Split struct {
		TestSize   float64 `yaml:"testSize"`
		Seed       int64   `yaml:"seed"`
		Stratified bool    `yaml:"stratified"`
	} `yaml:"split"`

	Model struct {
		Neighbors int    `yaml:"neighbors"`
		Metric    string `yaml:"metric"`
	} `yaml:"model"`

	System struct {
		DataPath     string `yaml:"dataPath"`
		MetricsFile  string `yaml:"metricsFile"`
		FetchTimeout string `yaml:"fetchTimeout"`
		LogLevel     string `yaml:"logLevel"`
	} `yaml:"system"`
}

func Load() (Settings, error) {
	envFile := getEnvOrDefault("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else {
		log.Debug().Str("file", envFile).Msg("Loaded environment file")
	}

	// Try to load from YAML file first
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromYAML(configPath)
	}

	// Fallback to environment variables
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	fetchTimeout, err := time.ParseDuration(config.System.FetchTimeout)
	if err != nil {
		fetchTimeout = defaultFetchTimeout
	}

	testSize := config.Split.TestSize
	if testSize == 0 {
		testSize = defaultTestSize
	}
	neighbors := config.Model.Neighbors
	if neighbors == 0 {
		neighbors = defaultNeighbors
	}

	settings := Settings{
		TestSize:     getFloatOrDefault("TEST_SIZE", testSize),
		Seed:         getInt64OrDefault("SEED", config.Split.Seed),
		Stratified:   getBoolOrDefault("STRATIFIED", config.Split.Stratified),
		Neighbors:    getIntOrDefault("NEIGHBORS", neighbors),
		Metric:       getEnvOrDefault("DISTANCE_METRIC", orDefault(config.Model.Metric, defaultMetric)),
		DataPath:     getEnvOrDefault("DATA_PATH", config.System.DataPath),
		MetricsFile:  getEnvOrDefault("METRICS_FILE", config.System.MetricsFile),
		FetchTimeout: getDurationOrDefault("FETCH_TIMEOUT", fetchTimeout),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", orDefault(config.System.LogLevel, defaultLogLevel)),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		TestSize:     getFloatOrDefault("TEST_SIZE", defaultTestSize),
		Seed:         getInt64OrDefault("SEED", 0),
		Stratified:   getBoolOrDefault("STRATIFIED", false),
		Neighbors:    getIntOrDefault("NEIGHBORS", defaultNeighbors),
		Metric:       getEnvOrDefault("DISTANCE_METRIC", defaultMetric),
		DataPath:     os.Getenv("DATA_PATH"),    // optional
		MetricsFile:  os.Getenv("METRICS_FILE"), // optional
		FetchTimeout: getDurationOrDefault("FETCH_TIMEOUT", defaultFetchTimeout),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", defaultLogLevel),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		TestSize:     defaultTestSize,
		Neighbors:    defaultNeighbors,
		Metric:       defaultMetric,
		FetchTimeout: defaultFetchTimeout,
		LogLevel:     defaultLogLevel,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

// validateSettings checks value ranges
func validateSettings(settings *Settings) error {
	if settings.TestSize <= 0 || settings.TestSize >= 1 {
		return fmt.Errorf("test size must be between 0 and 1 (exclusive), got %f", settings.TestSize)
	}
	if settings.Neighbors < 1 {
		return fmt.Errorf("neighbors must be at least 1, got %d", settings.Neighbors)
	}
	if _, err := knn.DistanceFuncFor(settings.Metric); err != nil {
		return err
	}
	if settings.FetchTimeout < time.Second || settings.FetchTimeout > 10*time.Minute {
		return fmt.Errorf("fetch timeout must be between 1s and 10m, got %v", settings.FetchTimeout)
	}
	return nil
}
