package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	// AppName names the configuration directory under the XDG config home.
	AppName = "readtime"
	// DefaultConfigFile is the file name looked up in the working directory
	// and under the XDG config home.
	DefaultConfigFile = "config.yaml"
	// LocalConfigFile is the per-project file name looked up in the working
	// directory.
	LocalConfigFile = "readtime.yaml"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("readtime config: configuration file not found")

// ConfigDir returns the readtime directory under the XDG config home.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultConfigPath returns the user level configuration file path.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), DefaultConfigFile)
}

// LoadFile reads a YAML file over DefaultConfig. Keys absent from the file
// keep their defaults. A missing file yields ErrConfigNotFound.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied config path
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, ErrConfigNotFound
		}
		return Config{}, fmt.Errorf("readtime config: read %s: %w", path, err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("readtime config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r over DefaultConfig. Unknown keys are rejected so
// typos surface instead of being ignored.
func Decode(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. configPath, when given
//  2. readtime.yaml in the working directory
//  3. config.yaml under the XDG config home
//
// It returns an empty string when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, LocalConfigFile)
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}

	if path := DefaultConfigPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load resolves the configuration for a run. An explicit path must exist;
// without one the first file FindConfigFile locates is used, falling back to
// DefaultConfig. The result is validated.
func Load(explicitPath string) (Config, string, error) {
	path := FindConfigFile(explicitPath)
	if explicitPath != "" && path == "" {
		return Config{}, "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicitPath)
	}

	cfg := DefaultConfig()
	if path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return Config{}, path, err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, path, err
	}
	return cfg, path, nil
}
