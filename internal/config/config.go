// Package config loads optional defaults for fcp from the user's XDG
// config directory and the GNU backup environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the optional fcp configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
}

// DefaultsConfig holds persistent flag defaults.
type DefaultsConfig struct {
	Workers  *int    `toml:"workers"`
	Reflink  *string `toml:"reflink"`
	Suffix   *string `toml:"suffix"`
	Preserve *bool   `toml:"preserve"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "fcp", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}

	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	return cfg, nil
}

// VersionControl returns the backup control named by the VERSION_CONTROL
// environment variable, "" when unset. It backs the bare --backup form.
func VersionControl() string {
	return os.Getenv("VERSION_CONTROL")
}

// SimpleBackupSuffix returns the backup suffix named by the
// SIMPLE_BACKUP_SUFFIX environment variable, "" when unset.
func SimpleBackupSuffix() string {
	return os.Getenv("SIMPLE_BACKUP_SUFFIX")
}
