// Package config manages user-level settings stored at ~/.quarry/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the depot search paths and the active environment directory.
package config
