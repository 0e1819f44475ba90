package cli

import (
	"fmt"
	"os"

	"circstack/internal/config"
	"circstack/internal/db"
)

// connectDB opens the circulation manager database from DATABASE_URL.
func connectDB() (*db.DB, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return db.Connect(databaseURL)
}

// publicBaseURL returns the public base URL callbacks are built from.
func publicBaseURL() (string, error) {
	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		return "", fmt.Errorf("PUBLIC_BASE_URL environment variable is required")
	}
	return base, nil
}

// getCurrentRegistry returns the current active registry
func getCurrentRegistry(cfg config.CLIConfig) (string, config.Registry, error) {
	registryName := cfg.Current

	if registryName == "" {
		return "", config.Registry{}, fmt.Errorf("no active registry configured. Use 'circ registry add' to add one")
	}

	reg, exists := cfg.Registries[registryName]
	if !exists {
		return "", config.Registry{}, fmt.Errorf("active registry '%s' not found", registryName)
	}

	return registryName, reg, nil
}

// resolveRegistryURL picks the registry URL from the flag or falls back to
// the active registry in the config file.
func resolveRegistryURL(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	cfg, err := config.LoadCLI()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	_, reg, err := getCurrentRegistry(cfg)
	if err != nil {
		return "", err
	}

	if verbose {
		fmt.Printf("🔍 Using registry URL from config: %s\n", reg.URL)
	}
	return reg.URL, nil
}
