package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ProjectFileName is the optional per-project configuration file
const ProjectFileName = "lspdeploy.toml"

// loadEnvFiles loads .env and .env.local from the project root. Variables already set
// in the environment win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				slog.Warn("failed to load env file", "path", envFile, "error", err)
			}
		}
	}
}

// loadProjectFile parses lspdeploy.toml. A missing file yields nil without error.
func loadProjectFile(projectRoot string) (*ProjectFile, error) {
	path := filepath.Join(projectRoot, ProjectFileName)

	var pf ProjectFile
	meta, err := toml.DecodeFile(path, &pf)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		slog.Warn("unknown keys in project file", "path", path, "keys", undecoded)
	}

	return &pf, nil
}
