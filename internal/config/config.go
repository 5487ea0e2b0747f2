// Package config holds the generator settings, persisted as JSON beside the
// executable in the same shape the rest of our tools use.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"iconforge/internal/icon"
)

const FileName = "iconforge_config.json"

// APIConfig controls the optional preview server.
type APIConfig struct {
	Enabled  bool   `json:"enabled"`
	Addr     string `json:"addr,omitempty"`
	TLS      bool   `json:"tls,omitempty"`
	CertFile string `json:"cert_file,omitempty"`
	KeyFile  string `json:"key_file,omitempty"`
}

// Config is the full generator configuration. Missing values fall back to
// the Tab Hoarder brand defaults, so a hand-trimmed config file stays valid.
// CornerRadius is a pointer so an explicit 0 (square corners) survives the
// round trip instead of being mistaken for "not set".
type Config struct {
	Sizes         []int  `json:"sizes"`
	Mark          string `json:"mark"`
	Background    string `json:"background"`
	TextFill      string `json:"text_fill"`
	CornerRadius  *int   `json:"corner_radius,omitempty"`
	OutDir        string `json:"out_dir"`
	WriteICO      bool   `json:"write_ico"`
	WriteManifest bool   `json:"write_manifest"`

	API APIConfig `json:"api"`
}

// Default returns the configuration matching the original extension assets:
// 16/48/128 px icons under icons/, "TH" on the brand purple.
func Default() *Config {
	radius := icon.DefaultRadius
	return &Config{
		Sizes:        []int{16, 48, 128},
		Mark:         icon.DefaultMark,
		Background:   icon.DefaultBackground,
		TextFill:     icon.DefaultTextFill,
		CornerRadius: &radius,
		OutDir:       "icons",
		API: APIConfig{
			Addr: ":8418",
		},
	}
}

// DefaultPath returns the config location beside the executable, or just the
// file name when the executable path cannot be resolved.
func DefaultPath() string {
	exePath, err := os.Executable()
	if err != nil {
		return FileName
	}
	return filepath.Join(filepath.Dir(exePath), FileName)
}

// Load reads the config from path. A missing file is not an error: the
// defaults are returned and written back so the user has a file to edit.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Best effort: give the user a file to edit next time.
			_ = cfg.Save(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// Save writes the config to path as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) fillDefaults() {
	def := Default()
	// Drop non-positive sizes: a zero or negative edge cannot be rendered.
	var sizes []int
	for _, s := range c.Sizes {
		if s > 0 {
			sizes = append(sizes, s)
		}
	}
	c.Sizes = sizes
	if len(c.Sizes) == 0 {
		c.Sizes = def.Sizes
	}
	if c.Mark == "" {
		c.Mark = def.Mark
	}
	if c.Background == "" {
		c.Background = def.Background
	}
	if c.TextFill == "" {
		c.TextFill = def.TextFill
	}
	if c.CornerRadius == nil {
		c.CornerRadius = def.CornerRadius
	}
	if c.OutDir == "" {
		c.OutDir = def.OutDir
	}
	if c.API.Addr == "" {
		c.API.Addr = def.API.Addr
	}
}

// IconSpec builds the icon spec for one size from the configured branding.
func (c *Config) IconSpec(size int) icon.Spec {
	radius := icon.DefaultRadius
	if c.CornerRadius != nil {
		radius = *c.CornerRadius
	}
	return icon.Spec{
		Size:       size,
		Mark:       c.Mark,
		Background: c.Background,
		TextFill:   c.TextFill,
		Radius:     radius,
	}
}
