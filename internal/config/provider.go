package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Default directories relative to the project root
const (
	DefaultDataDir      = ".lspdeploy"
	DefaultArtifactsDir = "artifacts"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	loadEnvFiles(projectRoot)

	loaded, err := loadProjectFile(projectRoot)
	if err != nil {
		return nil, err
	}
	projectFile := loaded
	if projectFile == nil {
		projectFile = &ProjectFile{}
	}

	networks, err := mergeNetworks(projectFile.Networks)
	if err != nil {
		return nil, fmt.Errorf("failed to load networks: %w", err)
	}

	cfg := &RuntimeConfig{
		ProjectRoot:      projectRoot,
		DataDir:          resolveDir(projectRoot, firstNonEmpty(v.GetString("data_dir"), projectFile.DataDir, DefaultDataDir)),
		ArtifactsDir:     resolveDir(projectRoot, firstNonEmpty(v.GetString("artifacts"), projectFile.Artifacts, DefaultArtifactsDir)),
		Networks:         networks,
		ProjectFile:      loaded,
		Debug:            v.GetBool("debug"),
		NonInteractive:   v.GetBool("non_interactive"),
		JSON:             v.GetBool("json"),
		Timeout:          v.GetDuration("timeout"),
		PadLinkedAddress: v.GetBool("pad_linked_address") || projectFile.PadLinkedAddress,
		Mining: MiningConfig{
			Workers: v.GetInt("workers"),
			Seed:    v.GetString("seed"),
		},
	}
	if cfg.Mining.Workers == 0 {
		cfg.Mining.Workers = projectFile.Mining.Workers
	}

	if err := resolveNetwork(cfg, v, projectFile.DefaultNetwork); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveNetwork selects the network from --network, --chain-id or the project default
func resolveNetwork(cfg *RuntimeConfig, v *viper.Viper, defaultNetwork string) error {
	resolver := NewNetworkResolver(cfg.Networks)
	chainID := v.GetUint64("chain_id")

	if name := firstNonEmpty(v.GetString("network"), defaultNetwork); name != "" {
		network, err := resolver.Resolve(name)
		if err != nil {
			return fmt.Errorf("failed to resolve network %s: %w", name, err)
		}
		if chainID != 0 && chainID != network.ChainID {
			return fmt.Errorf("chain ID mismatch: network %s is chain %d, --chain-id is %d", name, network.ChainID, chainID)
		}
		cfg.Network = network
		return nil
	}

	if chainID != 0 {
		cfg.Network = resolver.ResolveChainID(chainID)
	}
	return nil
}

// FindProjectRoot walks up from the current directory looking for lspdeploy.toml.
// Without one the current directory is the project root.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("LSPDEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "0s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)
	v.SetDefault("project_root", projectRoot)

	return v
}

func resolveDir(root, dir string) string {
	dir = os.ExpandEnv(dir)
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
