// Package config resolves the application's configuration from viper.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ and any $VAR references in path.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return ""
	case path == "~" || strings.HasPrefix(path, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			break
		}
		path = home + strings.TrimPrefix(path, "~")
	}
	return os.ExpandEnv(path)
}

// DataDir is where the database and certificates live by default:
// $XDG_DATA_HOME/credit, or ~/.local/share/credit.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "credit")
	}
	return filepath.Join(ExpandPath("~"), ".local", "share", "credit")
}
