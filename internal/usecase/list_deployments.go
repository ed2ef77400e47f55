package usecase

import (
	"context"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
)

// ListDeploymentsParams contains parameters for listing recorded deployments
type ListDeploymentsParams struct {
	// ChainID defaults to the selected network; AllChains ignores both
	AllChains bool
	Scheme    domain.Scheme
	Contract  string
	Owner     string
}

// DeploymentEntry is one recorded salt and the address it deployed to
type DeploymentEntry struct {
	Key     domain.RegistryKey
	Network string
	Salt    domain.Salt
	Address common.Address
	URL     string
}

// DeploymentSummary counts entries per chain and scheme
type DeploymentSummary struct {
	Total    int
	ByChain  map[uint64]int
	ByScheme map[domain.Scheme]int
}

// DeploymentListResult contains the recorded deployments
type DeploymentListResult struct {
	Deployments []DeploymentEntry
	Summary     DeploymentSummary
}

// ListDeployments is the use case for listing deployments recorded in the salt registry
type ListDeployments struct {
	config   *config.RuntimeConfig
	registry SaltRegistry
	networks NetworkResolver
	sink     ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, registry SaltRegistry, networks NetworkResolver, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		config:   cfg,
		registry: registry,
		networks: networks,
		sink:     sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployments from registry",
		Spinner: true,
	})

	filter := domain.RegistryFilter{
		Scheme:   params.Scheme,
		Contract: params.Contract,
		Owner:    params.Owner,
	}
	if !params.AllChains {
		filter.ChainID = uc.config.ChainID()
	}

	scopes, err := uc.registry.Scopes(ctx, filter)
	if err != nil {
		return nil, err
	}

	networks := make(map[uint64]*domain.Network)
	var entries []DeploymentEntry
	for _, key := range scopes {
		salts, err := uc.registry.Salts(ctx, key)
		if err != nil {
			return nil, err
		}

		network, ok := networks[key.ChainID]
		if !ok {
			network = uc.networks.ResolveChainID(ctx, key.ChainID)
			networks[key.ChainID] = network
		}

		for salt, addr := range salts {
			entries = append(entries, DeploymentEntry{
				Key:     key,
				Network: network.Name,
				Salt:    salt,
				Address: addr,
				URL:     network.AddressURL(addr),
			})
		}
	}

	sortDeployments(entries)
	summary := calculateSummary(entries)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: len(entries),
		Total:   len(entries),
		Message: "Deployments loaded",
	})

	return &DeploymentListResult{
		Deployments: entries,
		Summary:     summary,
	}, nil
}

// sortDeployments sorts entries by chain, scheme, contract, owner and salt
func sortDeployments(entries []DeploymentEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Key.ChainID != b.Key.ChainID {
			return a.Key.ChainID < b.Key.ChainID
		}
		if a.Key.Scheme != b.Key.Scheme {
			return a.Key.Scheme < b.Key.Scheme
		}
		if a.Key.Contract != b.Key.Contract {
			return a.Key.Contract < b.Key.Contract
		}
		if a.Key.Owner != b.Key.Owner {
			return a.Key.Owner < b.Key.Owner
		}
		return a.Salt.Hex() < b.Salt.Hex()
	})
}

// calculateSummary calculates summary statistics for entries
func calculateSummary(entries []DeploymentEntry) DeploymentSummary {
	return DeploymentSummary{
		Total: len(entries),
		ByChain: lo.CountValuesBy(entries, func(e DeploymentEntry) uint64 {
			return e.Key.ChainID
		}),
		ByScheme: lo.CountValuesBy(entries, func(e DeploymentEntry) domain.Scheme {
			return e.Key.Scheme
		}),
	}
}
