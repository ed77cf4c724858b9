// Package config manages the persisted tool registry for evmbench.
// It uses koanf v2 to load the registry from a YAML file and plain yaml.v3
// to save it after a registration command.
//
// The schema is explicit and versioned. Only the tool's name, executable
// path, and fixed extra arguments are persisted; the adapter bound to a tool
// is derived from the executable base name and is recomputed on every load.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	goyaml "gopkg.in/yaml.v3"
)

// Version is the current registry schema version.
const Version = 1

// ToolEntry is one registered tool in the registry file.
type ToolEntry struct {
	// Name is the unique display key for the tool.
	Name string `koanf:"name" yaml:"name"`

	// Path is the filesystem path of the executable.
	Path string `koanf:"path" yaml:"path"`

	// Args is a space-joined string of fixed arguments prepended to every
	// invocation of the tool.
	Args string `koanf:"args" yaml:"args,omitempty"`
}

// ExtraArgs returns the fixed arguments as a slice.
func (e *ToolEntry) ExtraArgs() []string {
	return strings.Fields(e.Args)
}

// Config is the persisted tool registry. Tools keeps registration order;
// names are unique (Register overwrites).
type Config struct {
	Version int         `koanf:"version" yaml:"version"`
	Tools   []ToolEntry `koanf:"tools" yaml:"tools"`
}

// Validation errors returned by Load.
var (
	ErrUnsupportedVersion = errors.New("unsupported registry version")
	ErrToolNameRequired   = errors.New("tool name is required")
	ErrToolPathRequired   = errors.New("tool path is required")
	ErrDuplicateToolName  = errors.New("duplicate tool name")
)

// DefaultPath returns the per-user registry location,
// e.g. ~/.config/evmbench/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "evmbench", "config.yaml"), nil
}

// Load reads the registry from path. A missing file yields an empty registry
// rather than an error, so the first `tool register` can bootstrap it.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return &Config{Version: Version}, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load registry from %s: %w", path, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registry: %w", err)
	}

	if cfg.Version == 0 {
		cfg.Version = Version
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks the schema version and per-tool required fields.
func (c *Config) validate() error {
	if c.Version != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, c.Version)
	}
	seen := make(map[string]bool, len(c.Tools))
	for _, tool := range c.Tools {
		if tool.Name == "" {
			return ErrToolNameRequired
		}
		if tool.Path == "" {
			return fmt.Errorf("%w (tool %q)", ErrToolPathRequired, tool.Name)
		}
		if seen[tool.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateToolName, tool.Name)
		}
		seen[tool.Name] = true
	}
	return nil
}

// Register adds a tool to the registry, overwriting an existing entry with
// the same name in place so registration order is preserved.
func (c *Config) Register(name, path string, extraArgs []string) {
	entry := ToolEntry{Name: name, Path: path, Args: strings.Join(extraArgs, " ")}
	for i := range c.Tools {
		if c.Tools[i].Name == name {
			c.Tools[i] = entry
			return
		}
	}
	c.Tools = append(c.Tools, entry)
}

// Save writes the registry to path, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	data, err := goyaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write registry to %s: %w", path, err)
	}
	return nil
}
