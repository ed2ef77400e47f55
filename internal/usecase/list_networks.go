package usecase

import (
	"context"
	"time"

	"github.com/trebuchet-org/lspdeploy/internal/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// CheckRPC dials each network and compares its chain ID
	CheckRPC bool
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Current  string
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name                   string
	ChainID                uint64
	RPCURL                 string
	ExplorerURL            string
	UniversalFactory       string
	LinkedContractsFactory string
	Reachable              bool
	Error                  error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	resolver NetworkResolver
	checker  BlockchainChecker
	current  string
	timeout  time.Duration
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver, checker BlockchainChecker) *ListNetworks {
	uc := &ListNetworks{
		resolver: resolver,
		checker:  checker,
		timeout:  10 * time.Second,
	}
	if cfg.Network != nil {
		uc.current = cfg.Network.Name
	}
	return uc
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	// Get all configured networks
	networkNames := uc.resolver.GetNetworks(ctx)

	networks := make([]NetworkStatus, 0, len(networkNames))
	for _, name := range networkNames {
		status := NetworkStatus{
			Name: name,
		}

		info, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
			networks = append(networks, status)
			continue
		}
		status.ChainID = info.ChainID
		status.RPCURL = info.RPCURL
		status.ExplorerURL = info.ExplorerURL
		status.UniversalFactory = info.UniversalFactory.Hex()
		status.LinkedContractsFactory = info.LinkedContractsFactory.Hex()

		if params.CheckRPC {
			checkCtx, cancel := context.WithTimeout(ctx, uc.timeout)
			status.Error = connect(checkCtx, uc.checker, info)
			status.Reachable = status.Error == nil
			cancel()
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
		Current:  uc.current,
	}, nil
}
