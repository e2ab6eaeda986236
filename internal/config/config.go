package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quarry-pm/quarry/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"

	// KeyDepots is the config key holding the list of depot directories
	// searched for registries, in priority order.
	KeyDepots = "depots"

	// KeyEnvironment is the config key holding the directory of the active
	// environment (the directory containing manifest.toml).
	KeyEnvironment = "environment"
)

// Dir returns the path to the Quarry config directory (~/.quarry/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.quarry/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Depots returns the depot directories to search for registries, in priority
// order. Defaults to ~/.quarry/depot when unset.
func Depots() []string {
	if depots := viper.GetStringSlice(KeyDepots); len(depots) > 0 {
		return depots
	}
	return []string{filepath.Join(Dir(), "depot")}
}

// EnvironmentDir returns the directory of the active environment. Defaults to
// ~/.quarry/environments/default when unset.
func EnvironmentDir() string {
	if env := viper.GetString(KeyEnvironment); env != "" {
		return env
	}
	return filepath.Join(Dir(), "environments", "default")
}
