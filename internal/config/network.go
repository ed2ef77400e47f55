package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/trebuchet-org/lspdeploy/internal/domain"
)

// Built-in network names
const (
	NetworkLuksoMainnet = "lukso"
	NetworkLuksoTestnet = "lukso-testnet"
	NetworkGoerli       = "goerli"
)

// BuiltinNetworks returns the networks available without any project file
func BuiltinNetworks() map[string]*domain.Network {
	return map[string]*domain.Network{
		NetworkLuksoMainnet: {
			Name:                   NetworkLuksoMainnet,
			ChainID:                42,
			RPCURL:                 "https://rpc.lukso.gateway.fm",
			ExplorerURL:            "https://explorer.execution.mainnet.lukso.network/",
			UniversalFactory:       domain.DefaultUniversalFactory,
			LinkedContractsFactory: domain.DefaultLinkedContractsFactory,
		},
		NetworkLuksoTestnet: {
			Name:                   NetworkLuksoTestnet,
			ChainID:                4201,
			RPCURL:                 "https://rpc.testnet.lukso.gateway.fm",
			ExplorerURL:            "https://explorer.execution.testnet.lukso.network/",
			UniversalFactory:       domain.DefaultUniversalFactory,
			LinkedContractsFactory: domain.DefaultLinkedContractsFactory,
		},
		NetworkGoerli: {
			Name:                   NetworkGoerli,
			ChainID:                5,
			RPCURL:                 "https://rpc.goerli.eth.gateway.fm",
			ExplorerURL:            "https://goerli.etherscan.io/",
			UniversalFactory:       domain.DefaultUniversalFactory,
			LinkedContractsFactory: domain.DefaultLinkedContractsFactory,
		},
	}
}

// mergeNetworks overlays project networks onto the built-ins. RPC and explorer URLs
// have ${VAR} references expanded from the environment.
func mergeNetworks(project map[string]NetworkConfig) (map[string]*domain.Network, error) {
	networks := BuiltinNetworks()

	for name, nc := range project {
		n, ok := networks[name]
		if !ok {
			n = &domain.Network{
				Name:                   name,
				UniversalFactory:       domain.DefaultUniversalFactory,
				LinkedContractsFactory: domain.DefaultLinkedContractsFactory,
			}
		}

		if nc.ChainID != 0 {
			n.ChainID = nc.ChainID
		}
		if nc.RPCURL != "" {
			n.RPCURL = os.ExpandEnv(nc.RPCURL)
		}
		if nc.ExplorerURL != "" {
			n.ExplorerURL = os.ExpandEnv(nc.ExplorerURL)
		}
		if nc.UniversalFactory != "" {
			addr, err := domain.ParseAddress(nc.UniversalFactory)
			if err != nil {
				return nil, fmt.Errorf("network %s: universal_factory: %w", name, err)
			}
			n.UniversalFactory = addr
		}
		if nc.LinkedContractsFactory != "" {
			addr, err := domain.ParseAddress(nc.LinkedContractsFactory)
			if err != nil {
				return nil, fmt.Errorf("network %s: linked_contracts_factory: %w", name, err)
			}
			n.LinkedContractsFactory = addr
		}

		if n.ChainID == 0 {
			return nil, fmt.Errorf("network %s: %w", name, domain.ErrMissingChainID)
		}
		networks[name] = n
	}

	return networks, nil
}

// NetworkResolver looks networks up by name or chain ID
type NetworkResolver struct {
	networks map[string]*domain.Network
}

// NewNetworkResolver creates a resolver over the configured networks
func NewNetworkResolver(networks map[string]*domain.Network) *NetworkResolver {
	return &NetworkResolver{networks: networks}
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.Networks)
}

// GetNetworks returns the configured network names in sorted order
func (r *NetworkResolver) GetNetworks() []string {
	names := make([]string, 0, len(r.networks))
	for name := range r.networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns a copy of the named network
func (r *NetworkResolver) Resolve(name string) (*domain.Network, error) {
	n, ok := r.networks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", domain.ErrNetworkNotFound, name, r.GetNetworks())
	}
	cp := *n
	return &cp, nil
}

// ResolveChainID returns the network with the given chain ID. Unknown chains get an
// unnamed network using the canonical factories, since both factories are deployed
// at the same address on every chain.
func (r *NetworkResolver) ResolveChainID(chainID uint64) *domain.Network {
	for _, name := range r.GetNetworks() {
		if n := r.networks[name]; n.ChainID == chainID {
			cp := *n
			return &cp
		}
	}
	return &domain.Network{
		Name:                   fmt.Sprintf("chain-%d", chainID),
		ChainID:                chainID,
		UniversalFactory:       domain.DefaultUniversalFactory,
		LinkedContractsFactory: domain.DefaultLinkedContractsFactory,
	}
}
