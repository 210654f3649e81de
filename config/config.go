package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Rule severities. Any value other than RuleOff enables the rule.
const (
	RuleOff     = 0
	RuleError   = 1
	RuleWarning = 2
)

// Names looked up by LoadFromDir, in order.
var ConfigFiles = []string{
	".autocorrectrc.yaml",
	".autocorrectrc.yml",
	".autocorrectrc",
	".autocorrectrc.toml",
	filepath.Join(".autocorrect", "config.yaml"),
}

// Config holds all configuration for autocorrect.
type Config struct {
	Rules     map[string]int    `yaml:"rules" toml:"rules"`
	FileTypes map[string]string `yaml:"file_types" toml:"file_types"`
	Files     FilesConfig       `yaml:"files" toml:"files"`
	Jobs      int               `yaml:"jobs" toml:"jobs"`
	Format    string            `yaml:"format" toml:"format"`
	Cache     CacheConfig       `yaml:"cache" toml:"cache"`
	Logging   LoggingConfig     `yaml:"logging" toml:"logging"`
}

// FilesConfig selects the files a directory walk picks up.
type FilesConfig struct {
	Includes []string `yaml:"includes" toml:"includes"`
	Excludes []string `yaml:"excludes" toml:"excludes"`
}

// CacheConfig holds lint cache configuration.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"` // relative to the project root
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Rules: map[string]int{
			"halfwidth":    RuleError,
			"fullwidth":    RuleError,
			"space-word":   RuleError,
			"space-number": RuleError,
		},
		FileTypes: map[string]string{},
		Files: FilesConfig{
			Includes: []string{"**/*"},
			Excludes: []string{"**/node_modules/**", "**/vendor/**", "**/dist/**", "**/*.min.js", "**/*.min.css"},
		},
		Jobs:   0, // GOMAXPROCS
		Format: "diff",
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(".autocorrect", "cache.db"),
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration from a YAML or TOML file, chosen by extension.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromDir loads the first config file found in dir. It returns the
// defaults and an empty path when there is none.
func LoadFromDir(dir string) (*Config, string, error) {
	for _, name := range ConfigFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			return cfg, path, err
		}
	}
	return DefaultConfig(), "", nil
}

// Validate checks values that cannot be fixed up silently.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	switch strings.ToLower(c.Format) {
	case "", "diff", "json":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	for id, v := range c.Rules {
		if v < RuleOff || v > RuleWarning {
			return fmt.Errorf("rule %s: severity must be 0, 1 or 2, got %d", id, v)
		}
	}
	return nil
}

// DisabledRules returns the ids of rules switched off, sorted.
func (c *Config) DisabledRules() []string {
	var ids []string
	for id, v := range c.Rules {
		if v == RuleOff {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Save saves configuration to a YAML or TOML file, chosen by extension.
func (c *Config) Save(path string) error {
	var data []byte
	if isTOML(path) {
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(c); err != nil {
			return err
		}
		data = []byte(b.String())
	} else {
		var err error
		data, err = yaml.Marshal(c)
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// CachePath returns the lint cache location for a project root.
func (c *Config) CachePath(root string) string {
	if filepath.IsAbs(c.Cache.Path) {
		return c.Cache.Path
	}
	return filepath.Join(root, c.Cache.Path)
}

// EnsureCacheDir ensures the directory holding the lint cache exists.
func (c *Config) EnsureCacheDir(root string) error {
	return os.MkdirAll(filepath.Dir(c.CachePath(root)), 0755)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
