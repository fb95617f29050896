package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config carries the project-local directory layout. Values come from
// the environment (optionally a .env file) with conventional defaults.
type Config struct {
	// ArtifactsDir holds generated artifacts. Relative to the root.
	ArtifactsDir string
	// ContractsDir holds the contract registry and golden examples.
	// Defaults to ArtifactsDir.
	ContractsDir string
}

const defaultArtifactsDir = ".flowlint"

// LoadConfig reads the environment, consulting a .env file at the
// analyzed root when present.
func LoadConfig(rootPath string) Config {
	// Missing .env is the normal case.
	_ = godotenv.Load(filepath.Join(rootPath, ".env"))

	cfg := Config{ArtifactsDir: defaultArtifactsDir}
	if dir := os.Getenv("FLOWLINT_OUT"); dir != "" {
		cfg.ArtifactsDir = dir
	}
	cfg.ContractsDir = cfg.ArtifactsDir
	if dir := os.Getenv("FLOWLINT_CONTRACTS"); dir != "" {
		cfg.ContractsDir = dir
	}
	return cfg
}

func (c Config) contractsDir() string {
	if c.ContractsDir != "" {
		return c.ContractsDir
	}
	return c.ArtifactsDir
}

// resolveRoot turns an optional positional argument into an absolute
// directory path.
func resolveRoot(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	rootPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", path, err)
	}
	info, err := os.Stat(rootPath)
	if err != nil {
		return "", fmt.Errorf("failed to access path %q: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path %q is not a directory", path)
	}
	return rootPath, nil
}
