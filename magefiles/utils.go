//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gosuda.org/dodesc/internal/config"
)

// simConfig writes a short-lived simulator configuration to the build
// directory and returns its path.
func simConfig() (string, error) {
	dir := filepath.Join("build", "sim")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	c := config.Default()
	c.Region.Path = filepath.Join(dir, "region")
	c.Sim.Duration = config.Duration(10 * time.Second)
	data, err := c.Encode()
	if err != nil {
		return "", fmt.Errorf("failed to encode configuration: %w", err)
	}

	path := filepath.Join(dir, "descsim.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	fmt.Println("Simulator configuration:", path)
	return path, nil
}
