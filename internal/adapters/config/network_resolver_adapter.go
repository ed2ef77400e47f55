package config

import (
	"context"
	"strconv"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// NetworkResolverAdapter exposes the built-in and lspdeploy.toml networks to use cases
type NetworkResolverAdapter struct {
	networks *config.NetworkResolver
}

// NewNetworkResolverAdapter creates a new adapter
func NewNetworkResolverAdapter(networks *config.NetworkResolver) *NetworkResolverAdapter {
	return &NetworkResolverAdapter{networks: networks}
}

// GetNetworks returns the network names in sorted order
func (a *NetworkResolverAdapter) GetNetworks(ctx context.Context) []string {
	return a.networks.GetNetworks()
}

// ResolveNetwork looks a network up by name. A decimal chain ID is accepted too and
// resolves like ResolveChainID.
func (a *NetworkResolverAdapter) ResolveNetwork(ctx context.Context, name string) (*domain.Network, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if chainID, err := strconv.ParseUint(name, 10, 64); err == nil && chainID != 0 {
		return a.networks.ResolveChainID(chainID), nil
	}
	return a.networks.Resolve(name)
}

// ResolveChainID returns the network configured for a chain, or an unnamed one
// using the canonical factories
func (a *NetworkResolverAdapter) ResolveChainID(ctx context.Context, chainID uint64) *domain.Network {
	return a.networks.ResolveChainID(chainID)
}

var _ usecase.NetworkResolver = (*NetworkResolverAdapter)(nil)
