package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/iwvelando/growth-forecast/pkg/constants"
	"go.uber.org/zap"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address == "" {
		t.Fatalf("expected default address, got empty")
	}
	if cfg.UploadSizeBytes() <= 0 {
		t.Fatalf("expected positive default max upload size, got %d", cfg.UploadSizeBytes())
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
	if cfg.MaxHorizonMonths != constants.DefaultMaxHorizonMonths {
		t.Fatalf("expected default horizon limit %d, got %d", constants.DefaultMaxHorizonMonths, cfg.MaxHorizonMonths)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`address: 127.0.0.1:9000
maxUploadSize: 2M
parallelism: 4
version: 1.2.0
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.UploadSizeBytes() != 2*1024*1024 {
		t.Fatalf("expected max upload override, got %d", cfg.UploadSizeBytes())
	}
	if cfg.Parallelism != 4 {
		t.Fatalf("expected parallelism 4, got %d", cfg.Parallelism)
	}
	if cfg.Version != "1.2.0" {
		t.Fatalf("expected version 1.2.0, got %s", cfg.Version)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected logging format console, got %s", cfg.Logging.Format)
	}
	if cfg.Logging.OutputFile != "/tmp/server.log" {
		t.Fatalf("expected logging outputFile /tmp/server.log, got %s", cfg.Logging.OutputFile)
	}
}

func TestLoadConfigInvalidYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	if err := os.WriteFile(path, []byte("maxUploadSize: invalid"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid YAML but got nil")
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxUploadSizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"2G":        2 * 1024 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("parseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("parseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	if _, err := ParseSize("1TB"); err == nil {
		t.Fatal("expected error for unsupported unit")
	}
	if _, err := ParseSize("abc"); err == nil {
		t.Fatal("expected error for invalid number")
	}
}

func TestConfigHandlerServesVersion(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	cfg.Version = "9.9.9"

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	cfg.Handler(zap.NewNop()).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "9.9.9") {
		t.Fatalf("expected configured version in body, got %q", rr.Body.String())
	}
}

func TestEngineParallelism(t *testing.T) {
	tests := []struct {
		name        string
		parallelism int
		expected    int
	}{
		{name: "unset uses all cores", parallelism: 0, expected: runtime.GOMAXPROCS(0)},
		{name: "negative uses all cores", parallelism: -1, expected: runtime.GOMAXPROCS(0)},
		{name: "sequential", parallelism: 1, expected: 1},
		{name: "explicit", parallelism: 6, expected: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Parallelism = tt.parallelism
			if got := cfg.EngineParallelism(); got != tt.expected {
				t.Fatalf("EngineParallelism() = %d, expected %d", got, tt.expected)
			}
			if len(cfg.EngineOptions()) != 1 {
				t.Fatalf("expected one engine option, got %d", len(cfg.EngineOptions()))
			}
		})
	}
}

func TestLoadConfigMaxHorizon(t *testing.T) {
	tests := []struct {
		name      string
		contents  string
		expected  int
		expectErr bool
	}{
		{name: "explicit limit", contents: "maxHorizonMonths: 36\n", expected: 36},
		{name: "zero falls back to default", contents: "maxHorizonMonths: 0\n", expected: constants.DefaultMaxHorizonMonths},
		{name: "negative rejected", contents: "maxHorizonMonths: -5\n", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "server-config.yaml")
			if err := os.WriteFile(path, []byte(tt.contents), 0600); err != nil {
				t.Fatalf("failed to write temp config: %v", err)
			}

			cfg, err := LoadConfig(path)
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if cfg.MaxHorizonMonths != tt.expected {
				t.Fatalf("expected horizon limit %d, got %d", tt.expected, cfg.MaxHorizonMonths)
			}
		})
	}
}

func TestConfigHandlerEnforcesHorizonLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHorizonMonths = 12
	cfg.Parallelism = 2
	handler := cfg.Handler(zap.NewNop())

	template := `
business:
  basePricePerUnit: 10
  baseBookings: 5
  horizonMonths: %d
scenarios:
  - name: sample
    active: true
`

	tests := []struct {
		name     string
		horizon  int
		expected int
	}{
		{name: "at the limit", horizon: 12, expected: http.StatusOK},
		{name: "beyond the limit", horizon: 13, expected: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := performUpload(t, handler, fmt.Sprintf(template, tt.horizon), "config.yaml")
			if rr.Code != tt.expected {
				t.Fatalf("expected status %d, got %d: %s", tt.expected, rr.Code, rr.Body.String())
			}
			if tt.expected == http.StatusBadRequest && !strings.Contains(rr.Body.String(), "server limit of 12") {
				t.Fatalf("expected horizon limit message, got %s", rr.Body.String())
			}
		})
	}
}
