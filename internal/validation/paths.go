package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigFilePath cleans a user supplied config file path: it expands a
// leading ~/, makes the path absolute and insists on a .toml file.
func ConfigFilePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	for _, char := range path {
		if char == 0 {
			return "", fmt.Errorf("path contains null bytes")
		}
		if char < 32 && char != '\t' {
			return "", fmt.Errorf("path contains control characters")
		}
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("invalid tilde usage")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot make path absolute: %w", err)
	}

	if !strings.EqualFold(filepath.Ext(abs), ".toml") {
		return "", fmt.Errorf("config file must have a .toml extension")
	}
	return filepath.Clean(abs), nil
}
