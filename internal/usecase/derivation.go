package usecase

import (
	"fmt"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/create2"
	"github.com/trebuchet-org/lspdeploy/internal/domain/salt"
)

// activeNetwork returns the selected network. Without one, derivations use the
// canonical factories and chain ID 0, which disables registry scoping.
func activeNetwork(cfg *config.RuntimeConfig) *domain.Network {
	if cfg.Network != nil {
		return cfg.Network
	}
	return &domain.Network{
		Name:                   "any",
		UniversalFactory:       domain.DefaultUniversalFactory,
		LinkedContractsFactory: domain.DefaultLinkedContractsFactory,
	}
}

// derivePlan normalizes rawSalt and derives every address plan deploys to on network
func derivePlan(cfg *config.RuntimeConfig, network *domain.Network, plan *domain.DeploymentPlan, rawSalt string) (*create2.Derivation, error) {
	s, err := salt.Normalize(rawSalt)
	if err != nil {
		return nil, err
	}
	return deriveWithSalt(cfg, network, plan, s)
}

func deriveWithSalt(cfg *config.RuntimeConfig, network *domain.Network, plan *domain.DeploymentPlan, s domain.Salt) (*create2.Derivation, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	factory, err := network.Factory(plan.Scheme)
	if err != nil {
		return nil, err
	}
	d, err := create2.Derive(plan.Scheme, factory, plan.Spec, s, create2.PadLinkedAddress(cfg.PadLinkedAddress))
	if err != nil {
		return nil, fmt.Errorf("failed to derive address: %w", err)
	}
	return d, nil
}

// registryKeys returns the scopes a plan's salts are recorded under, primary first
func registryKeys(plan *domain.DeploymentPlan, chainID uint64) []domain.RegistryKey {
	keys := []domain.RegistryKey{plan.PrimaryKey(chainID)}
	if key, ok := plan.SecondaryKey(chainID); ok {
		keys = append(keys, key)
	}
	return keys
}
