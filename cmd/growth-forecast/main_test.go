package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/growth-forecast/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name      string
		logging   config.LoggingConfig
		override  string
		expectErr bool
	}{
		{name: "defaults", logging: config.LoggingConfig{}},
		{name: "console debug", logging: config.LoggingConfig{Level: "debug", Format: "console"}},
		{name: "override wins", logging: config.LoggingConfig{Level: "bogus"}, override: "warn"},
		{name: "uppercase level", logging: config.LoggingConfig{Level: "ERROR"}},
		{name: "invalid level", logging: config.LoggingConfig{Level: "verbose"}, expectErr: true},
		{name: "invalid format", logging: config.LoggingConfig{Format: "xml"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.logging, tt.override)
			if (err != nil) != tt.expectErr {
				t.Fatalf("initializeLogger() error = %v, expectErr %t", err, tt.expectErr)
			}
			if err == nil && logger == nil {
				t.Fatal("expected a logger")
			}
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "growth.log")

	logger, err := initializeLogger(config.LoggingConfig{OutputFile: path}, "")
	if err != nil {
		t.Fatalf("initializeLogger() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
}

func TestRootCommandRunsForecast(t *testing.T) {
	configPath := filepath.Join("..", "..", "test", "test_config.yaml")

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--config", configPath, "--output-format", "csv", "--log-level", "error", "--optimize"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("root command failed: %v", err)
	}
}

func TestRootCommandRejectsOutputFormat(t *testing.T) {
	configPath := filepath.Join("..", "..", "test", "test_config.yaml")

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--config", configPath, "--output-format", "xml", "--log-level", "error"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unsupported output format")
	}
}

func TestRootCommandMissingConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing configuration")
	}

	if stdout.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "failed to load configuration") {
		t.Errorf("expected load failure on stderr, got %q", stderr.String())
	}
}
