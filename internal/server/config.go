package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/growth-forecast/internal/config"
	"github.com/iwvelando/growth-forecast/pkg/constants"
	"github.com/iwvelando/growth-forecast/pkg/growth"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address       string `yaml:"address"`
	MaxUploadSize string `yaml:"maxUploadSize"`
	// Parallelism is the number of months evaluated concurrently per scenario.
	// Unset or negative uses GOMAXPROCS, 1 keeps evaluation sequential.
	Parallelism int `yaml:"parallelism,omitempty"`
	// MaxHorizonMonths rejects uploaded configurations that simulate longer.
	MaxHorizonMonths int                  `yaml:"maxHorizonMonths,omitempty"`
	Version          string               `yaml:"version,omitempty"`
	Logging          config.LoggingConfig `yaml:"logging"`
	uploadSizeBytes  int64
}

// DefaultConfig returns the configuration used when no server config file exists.
func DefaultConfig() *Config {
	return &Config{
		Address:          constants.DefaultServerAddress,
		MaxUploadSize:    fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes),
		MaxHorizonMonths: constants.DefaultMaxHorizonMonths,
		uploadSizeBytes:  constants.DefaultMaxUploadSizeBytes,
	}
}

// EngineParallelism resolves Parallelism to a concrete goroutine count.
func (c *Config) EngineParallelism() int {
	if c.Parallelism <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Parallelism
}

// EngineOptions returns the growth engine options for forecasts served by
// this configuration.
func (c *Config) EngineOptions() []growth.Option {
	return []growth.Option{growth.WithParallelism(c.EngineParallelism())}
}

// Handler builds the API handler described by the configuration.
func (c *Config) Handler(logger *zap.Logger) http.Handler {
	maxHorizon := c.MaxHorizonMonths
	if maxHorizon <= 0 {
		maxHorizon = constants.DefaultMaxHorizonMonths
	}
	return newHandler(logger, c.UploadSizeBytes(), c.Version, maxHorizon, c.EngineOptions()...)
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the configured upload size.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = fmt.Sprintf("%d", size)
	}
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.MaxHorizonMonths < 0 {
		return fmt.Errorf("maxHorizonMonths must not be negative, got %d", c.MaxHorizonMonths)
	}
	if c.MaxHorizonMonths == 0 {
		c.MaxHorizonMonths = constants.DefaultMaxHorizonMonths
	}

	sizeStr := strings.TrimSpace(c.MaxUploadSize)
	if sizeStr == "" {
		c.uploadSizeBytes = constants.DefaultMaxUploadSizeBytes
		c.MaxUploadSize = fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = bytes
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	if numPart == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
