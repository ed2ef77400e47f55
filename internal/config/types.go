package config

import (
	"time"

	"github.com/trebuchet-org/lspdeploy/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	DataDir      string // holds used-salts.json
	ArtifactsDir string

	// Context settings
	Network  *domain.Network            // nil if not specified
	Networks map[string]*domain.Network // built-ins merged with lspdeploy.toml

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Derivation and mining
	PadLinkedAddress bool
	Mining           MiningConfig

	// Resolved configurations
	ProjectFile *ProjectFile // nil without lspdeploy.toml
}

// MiningConfig controls the salt miner
type MiningConfig struct {
	Workers int    // < 1 means one per CPU
	Seed    string // non-empty switches to a deterministic source
}

// ChainID returns the selected network's chain ID, or 0 without a network
func (c *RuntimeConfig) ChainID() uint64 {
	if c.Network == nil {
		return 0
	}
	return c.Network.ChainID
}

// ProjectFile is the lspdeploy.toml layout
type ProjectFile struct {
	Artifacts        string                   `toml:"artifacts"`
	DataDir          string                   `toml:"data_dir"`
	DefaultNetwork   string                   `toml:"default_network"`
	PadLinkedAddress bool                     `toml:"pad_linked_address"`
	Mining           ProjectMining            `toml:"mining"`
	Networks         map[string]NetworkConfig `toml:"networks"`
}

// ProjectMining is the [mining] table
type ProjectMining struct {
	Workers int `toml:"workers"`
}

// NetworkConfig is a [networks.<name>] table. Fields left empty inherit from the
// built-in network of the same name.
type NetworkConfig struct {
	ChainID                uint64 `toml:"chain_id"`
	RPCURL                 string `toml:"rpc_url"`
	ExplorerURL            string `toml:"explorer_url"`
	UniversalFactory       string `toml:"universal_factory"`
	LinkedContractsFactory string `toml:"linked_contracts_factory"`
}
