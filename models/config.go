// Package models defines data structures for configuration, case records,
// and section schemas.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Site defaults; overridable via config file for mirrors and test servers.
const (
	DefaultBaseURL = "https://meghalayahighcourt.nic.in"
	DefaultPDFDir  = "pdf_downloads"
)

// Config holds the file-backed settings shared by every crawl.
type Config struct {
	BaseURL       string `yaml:"base_url"`
	OutputDir     string `yaml:"output_dir"`
	PDFDir        string `yaml:"pdf_dir"`
	Workers       int    `yaml:"workers"`
	OrdersAllRows bool   `yaml:"orders_all_rows"`
}

// CrawlConfig is the runtime configuration for one crawl invocation.
// Date and status values come from CLI flags; the rest from Config.
type CrawlConfig struct {
	FromDate     string
	ToDate       string
	Status       string
	DownloadPDFs bool
	Config
}

// DefaultConfig returns the built-in settings used when no config file is
// present.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		OutputDir: ".",
		PDFDir:    DefaultPDFDir,
		Workers:   4,
	}
}

// LoadConfig reads a YAML config file and overlays it on the defaults.
// A missing file is not an error; the defaults are returned as-is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.PDFDir == "" {
		cfg.PDFDir = DefaultPDFDir
	}
	return cfg, nil
}
