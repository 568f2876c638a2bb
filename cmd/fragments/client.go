package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fragments/internal/api"
	"fragments/internal/config"
	"fragments/internal/models"
)

func withClient(cfg *config.Config, fn func(*api.Client) error) error {
	if cfg == nil || strings.TrimSpace(cfg.APIURL) == "" {
		return fmt.Errorf("api url is required")
	}
	return fn(api.NewClient(cfg.APIURL))
}

// readInput reads path, or stdin when path is empty or "-".
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// resolveContentType prefers an explicit --type and otherwise guesses from
// the file extension.
func resolveContentType(explicit, path string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit, nil
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("--type is required when reading from stdin or a file without an extension")
	}
	t, ok := models.MediaTypeForExtension(ext)
	if !ok {
		return "", fmt.Errorf("cannot infer content type from .%s; pass --type", ext)
	}
	return t.String(), nil
}
