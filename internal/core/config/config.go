package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/kksharma1618/svncherrypicker/internal/core/picker"
	"github.com/kksharma1618/svncherrypicker/internal/core/populate"
)

const appName = "svncherrypicker"

// Storage backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

type Config struct {
	DataDir       string
	Backend       string
	SVNBinary     string
	SVNUsername   string
	SVNPassword   string
	FetchWorkers  int
	Display       string // default display mode: c, t, j or y
	Fields        string // default fields: a,d,p,m
	MergeTemplate string
}

type tomlConfig struct {
	DataDir       string `toml:"data_dir"`
	Backend       string `toml:"backend"`
	SVNBinary     string `toml:"svn_binary"`
	SVNUsername   string `toml:"svn_username"`
	SVNPassword   string `toml:"svn_password"`
	FetchWorkers  int    `toml:"fetch_workers"`
	Display       string `toml:"display"`
	Fields        string `toml:"fields"`
	MergeTemplate string `toml:"merge_template"`
}

// Defaults returns the configuration used when no file exists
func Defaults() *Config {
	cfg := &Config{
		Backend:       BackendJSON,
		SVNBinary:     "svn",
		FetchWorkers:  populate.DefaultWorkers,
		Display:       "t",
		Fields:        "a,d,p,m",
		MergeTemplate: picker.DefaultMergeTemplate,
	}
	if dir, err := Dir(); err == nil {
		cfg.DataDir = filepath.Join(dir, "data")
	}
	return cfg
}

// Dir returns ~/.config/svncherrypicker
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Load reads config from ~/.config/svncherrypicker/, or from path when set.
// Missing files fall back to defaults; a malformed file is an error.
// Environment variables (optionally from a .env file) override file values.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	configDir, dirErr := Dir()
	if path == "" && dirErr == nil {
		path = filepath.Join(configDir, "config.toml")
	}

	// Load TOML config if it exists
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			var tc tomlConfig
			if _, err := toml.DecodeFile(path, &tc); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
			cfg.merge(tc)
		}
	}

	// If a custom merge template file exists, use it
	if dirErr == nil {
		if data, err := os.ReadFile(filepath.Join(configDir, "merge_template.txt")); err == nil {
			if tmpl := strings.TrimSpace(string(data)); tmpl != "" {
				cfg.MergeTemplate = tmpl
			}
		}
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(tc tomlConfig) {
	if tc.DataDir != "" {
		c.DataDir = expandHome(tc.DataDir)
	}
	if tc.Backend != "" {
		c.Backend = tc.Backend
	}
	if tc.SVNBinary != "" {
		c.SVNBinary = tc.SVNBinary
	}
	if tc.SVNUsername != "" {
		c.SVNUsername = tc.SVNUsername
	}
	if tc.SVNPassword != "" {
		c.SVNPassword = tc.SVNPassword
	}
	if tc.FetchWorkers > 0 {
		c.FetchWorkers = tc.FetchWorkers
	}
	if tc.Display != "" {
		c.Display = tc.Display
	}
	if tc.Fields != "" {
		c.Fields = tc.Fields
	}
	if tc.MergeTemplate != "" {
		c.MergeTemplate = tc.MergeTemplate
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SVNCHERRYPICKER_DATA_DIR"); v != "" {
		c.DataDir = expandHome(v)
	}
	if v := os.Getenv("SVNCHERRYPICKER_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("SVNCHERRYPICKER_FETCH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid SVNCHERRYPICKER_FETCH_WORKERS %q", v)
		}
		c.FetchWorkers = n
	}
	if v := os.Getenv("SVN_USERNAME"); v != "" {
		c.SVNUsername = v
	}
	if v := os.Getenv("SVN_PASSWORD"); v != "" {
		c.SVNPassword = v
	}
	return nil
}

// Validate checks values that can not be defaulted silently
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q, expected %s or %s", c.Backend, BackendJSON, BackendSQLite)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory is not set")
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
