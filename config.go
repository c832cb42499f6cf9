package grove

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the project-level configuration file looked up under
// the analysis root.
const ConfigFileName = "grove.yaml"

// Config is the file-based counterpart of the engine options. Every
// field is optional; zero values leave the engine defaults alone.
type Config struct {
	Languages      []string `yaml:"languages"`
	IgnoreDirs     []string `yaml:"ignore_dirs"`
	IgnorePatterns []string `yaml:"ignore_patterns"`
	Filter         string   `yaml:"filter"`
	Parallel       *bool    `yaml:"parallel"`
	TreeDepthLimit int      `yaml:"tree_depth_limit"`
	TreeCacheSize  int      `yaml:"tree_cache_size"`
}

// LoadConfig reads a config file. A missing file is not an error; it
// returns an empty config so callers can layer flags on top.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("grove: read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("grove: parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadProjectConfig reads the config file under a project root.
func LoadProjectConfig(root string) (*Config, error) {
	return LoadConfig(filepath.Join(root, ConfigFileName))
}

// Options translates the config into engine options.
func (c *Config) Options() []Option {
	var opts []Option
	if len(c.Languages) > 0 {
		opts = append(opts, WithLanguages(c.Languages...))
	}
	if len(c.IgnoreDirs) > 0 {
		opts = append(opts, WithIgnoreDirs(c.IgnoreDirs...))
	}
	if len(c.IgnorePatterns) > 0 {
		opts = append(opts, WithIgnorePatterns(c.IgnorePatterns...))
	}
	if c.Filter != "" {
		opts = append(opts, WithFilterExpr(c.Filter))
	}
	if c.Parallel != nil {
		opts = append(opts, WithParallel(*c.Parallel))
	}
	if c.TreeDepthLimit > 0 {
		opts = append(opts, WithTreeDepthLimit(c.TreeDepthLimit))
	}
	if c.TreeCacheSize > 0 {
		opts = append(opts, WithTreeCacheSize(c.TreeCacheSize))
	}
	return opts
}
