package repo

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

const configFile = "config.toml"

// Merge base strategies.
const (
	MergeBaseLockstep   = "lockstep"
	MergeBaseGeneration = "generation"
)

// Object compression modes.
const (
	CompressionNone = "none"
	CompressionZstd = "zstd"
)

// Config holds repository-local settings stored in .gitlet/config.toml.
type Config struct {
	Core  CoreConfig  `toml:"core"`
	Merge MergeConfig `toml:"merge"`
	User  UserConfig  `toml:"user"`
	Log   LogConfig   `toml:"log"`
}

type CoreConfig struct {
	DefaultBranch string `toml:"default_branch"`
	Compression   string `toml:"compression"`
}

type MergeConfig struct {
	Base string `toml:"base"`
}

type UserConfig struct {
	Name       string `toml:"name"`
	SigningKey string `toml:"signing_key"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Core:  CoreConfig{DefaultBranch: "master", Compression: CompressionNone},
		Merge: MergeConfig{Base: MergeBaseLockstep},
		Log:   LogConfig{Level: "warn"},
	}
}

// fillDefaults replaces empty enumerated fields with their defaults so a
// partial config file still yields a usable Config.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Core.DefaultBranch == "" {
		c.Core.DefaultBranch = def.Core.DefaultBranch
	}
	if c.Core.Compression == "" {
		c.Core.Compression = def.Core.Compression
	}
	if c.Merge.Base == "" {
		c.Merge.Base = def.Merge.Base
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Core.Compression {
	case CompressionNone, CompressionZstd:
	default:
		return fmt.Errorf("config: core.compression must be %q or %q, got %q", CompressionNone, CompressionZstd, c.Core.Compression)
	}
	switch c.Merge.Base {
	case MergeBaseLockstep, MergeBaseGeneration:
	default:
		return fmt.Errorf("config: merge.base must be %q or %q, got %q", MergeBaseLockstep, MergeBaseGeneration, c.Merge.Base)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if !validBranchName(c.Core.DefaultBranch) {
		return fmt.Errorf("config: core.default_branch: invalid branch name %q", c.Core.DefaultBranch)
	}
	return nil
}

// SlogLevel returns the configured diagnostic level.
func (c *Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelWarn
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown level %q", s)
	}
	return lvl, nil
}

func (c *Config) field(key string) (*string, error) {
	switch key {
	case "core.default_branch":
		return &c.Core.DefaultBranch, nil
	case "core.compression":
		return &c.Core.Compression, nil
	case "merge.base":
		return &c.Merge.Base, nil
	case "user.name":
		return &c.User.Name, nil
	case "user.signing_key":
		return &c.User.SigningKey, nil
	case "log.level":
		return &c.Log.Level, nil
	}
	return nil, fmt.Errorf("config: unknown key %q (known: %s)", key, strings.Join(ConfigKeys(), ", "))
}

// ConfigKeys lists the settable keys.
func ConfigKeys() []string {
	keys := []string{
		"core.default_branch",
		"core.compression",
		"merge.base",
		"user.name",
		"user.signing_key",
		"log.level",
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dotted key such as "merge.base".
func (c *Config) Get(key string) (string, error) {
	f, err := c.field(key)
	if err != nil {
		return "", err
	}
	return *f, nil
}

// Set assigns a dotted key and validates the result. On failure the config
// is left unchanged.
func (c *Config) Set(key, value string) error {
	f, err := c.field(key)
	if err != nil {
		return err
	}
	old := *f
	*f = strings.TrimSpace(value)
	if err := c.Validate(); err != nil {
		*f = old
		return err
	}
	return nil
}

// ReadConfig reads config.toml from the metadata filesystem. A missing file
// yields the defaults.
func ReadConfig(meta billy.Filesystem) (*Config, error) {
	data, err := util.ReadFile(meta, configFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("read config: decode: %w", err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}

// WriteConfig atomically writes config.toml.
func WriteConfig(meta billy.Filesystem, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := writeFileAtomic(meta, configFile, buf.Bytes()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SaveConfig persists r.Config.
func (r *Repo) SaveConfig() error {
	return WriteConfig(r.Meta, r.Config)
}
