// ABOUTME: Standard filesystem paths for nbterm configuration and logs
// ABOUTME: Resolves ~/.config/nbterm/ for global and .nbterm/ for project-local paths

package config

import (
	"os"
	"path/filepath"
)

const (
	projectDirName = ".nbterm"
	configFileName = "config.yaml"
)

// GlobalDir returns the user-global config directory (~/.config/nbterm/).
func GlobalDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "nbterm")
	}
	return filepath.Join(".", projectDirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), configFileName)
}

// ProjectConfigFile returns the project-local config file path.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(projectRoot, projectDirName, configFileName)
}

// DefaultLogFile returns the default raw-mode log destination.
func DefaultLogFile() string {
	return filepath.Join(GlobalDir(), "debug.log")
}
