// Package config handles configuration loading and home directory resolution.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/fairshare/internal/store"
)

// EnvPrefix prefixes every environment variable read by this package.
const EnvPrefix = "FAIRSHARE"

// ErrInvalid is wrapped by every Config.Validate failure.
var ErrInvalid = errors.New("invalid config")

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// ServerConfig holds web server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SplitConfig holds defaults for the split computation.
type SplitConfig struct {
	Round bool `yaml:"round"` // used when the caller leaves rounding unset
}

// StoreConfig selects the key-value backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // "sqlite" | "badger" | "memory"
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
}

// Config is the root configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Split  SplitConfig  `yaml:"split"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		Split:  SplitConfig{Round: true},
		Store:  StoreConfig{Driver: store.DriverSQLite},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads config.yaml from path and applies environment overrides.
// If the file does not exist the defaults are used.
// Missing keys retain their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := cfg.overlayYAML(data); err != nil {
			return nil, fmt.Errorf("config.Load %s: %w", path, err)
		}
	}

	if err := cfg.overlayEnv(); err != nil {
		return nil, fmt.Errorf("config.Load env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) overlayYAML(data []byte) error {
	// Unmarshal into a plain map so we can apply only the keys that are present.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	if srv, ok := raw["server"].(map[string]any); ok {
		if v, ok := srv["addr"].(string); ok && v != "" {
			cfg.Server.Addr = v
		}
	}
	if sp, ok := raw["split"].(map[string]any); ok {
		if v, ok := sp["round"].(bool); ok {
			cfg.Split.Round = v
		}
	}
	if st, ok := raw["store"].(map[string]any); ok {
		if v, ok := st["driver"].(string); ok && v != "" {
			cfg.Store.Driver = v
		}
	}
	if lg, ok := raw["log"].(map[string]any); ok {
		if v, ok := lg["level"].(string); ok && v != "" {
			cfg.Log.Level = v
		}
	}
	return nil
}

// envOverrides are read with envconfig (FAIRSHARE_ADDR, FAIRSHARE_STORE_DRIVER,
// ...); empty values leave the config unchanged.
type envOverrides struct {
	Addr        string
	StoreDriver string `split_words:"true"`
	LogLevel    string `split_words:"true"`
	Round       string
}

func (cfg *Config) overlayEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return err
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.StoreDriver != "" {
		cfg.Store.Driver = env.StoreDriver
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.Round != "" {
		round, err := strconv.ParseBool(env.Round)
		if err != nil {
			return fmt.Errorf("%s_ROUND: %w", EnvPrefix, err)
		}
		cfg.Split.Round = round
	}
	return nil
}

// Validate rejects unknown driver and log level values.
func (cfg *Config) Validate() error {
	if !slices.Contains(store.Drivers, cfg.Store.Driver) {
		return fmt.Errorf("%w: store.driver %q (want one of %s)",
			ErrInvalid, cfg.Store.Driver, strings.Join(store.Drivers, ", "))
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalid)
	}
	return nil
}

// SlogLevel parses Log.Level.
func (cfg *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(cfg.Log.Level))
	return lvl, err
}

// ---------------------------------------------------------------------------
// Home resolution
// ---------------------------------------------------------------------------

// globalConfigPath returns the path to the global fairshare config file.
// This file stores only home (and future global settings).
func globalConfigPath() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".config", "fairshare", "config.yaml"), nil
}

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		dir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(dir, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ResolveHome returns the home path and the source of the resolution.
// Priority: FAIRSHARE_HOME env → persisted global config → ~/.fairshare
// source is one of "env", "config", or "default".
func ResolveHome() (path, source string) {
	if env := os.Getenv(EnvPrefix + "_HOME"); env != "" {
		p, err := normalizePath(env)
		if err == nil {
			return p, "env"
		}
	}

	persisted, ok, err := GetPersistedHome()
	if err != nil {
		slog.Warn("ignoring persisted home", "err", err)
	}
	if ok {
		return persisted, "config"
	}

	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, ".fairshare"), "default"
}

// GetHome returns the resolved home path.
func GetHome() string {
	path, _ := ResolveHome()
	return path
}

// GetPersistedHome reads home from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedHome() (string, bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", false, err
	}

	raw, err := readGlobal(cfgPath)
	if err != nil || raw == nil {
		return "", false, err
	}

	val, _ := raw["home"].(string)
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false, nil
	}

	p, err := normalizePath(val)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedHome normalizes path and persists it in the global config.
// Returns the normalized path.
func SetPersistedHome(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}

	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", err
	}

	// Preserve any other keys already in the global config. A file that does
	// not parse is left alone rather than overwritten.
	raw, err := readGlobal(cfgPath)
	if err != nil {
		return "", err
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	raw["home"] = normalized

	out, err := yaml.Marshal(raw)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, out, 0o600); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedHome removes home from the global config.
// Returns true if the key was present and removed.
// If the file becomes empty after removal it is deleted.
func ClearPersistedHome() (bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return false, err
	}

	raw, err := readGlobal(cfgPath)
	if err != nil || raw == nil {
		return false, err
	}
	if _, ok := raw["home"]; !ok {
		return false, nil
	}
	delete(raw, "home")

	if len(raw) == 0 {
		_ = os.Remove(cfgPath)
		return true, nil
	}

	out, err := yaml.Marshal(raw)
	if err != nil {
		return false, err
	}
	return true, os.WriteFile(cfgPath, out, 0o600)
}

// readGlobal returns the parsed global config, or nil when it is absent.
func readGlobal(cfgPath string) (map[string]any, error) {
	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read global config: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: global config %s: %w", ErrInvalid, cfgPath, err)
	}
	return raw, nil
}
