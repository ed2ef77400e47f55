package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ethereum/go-ethereum/common"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/create2"
	"github.com/trebuchet-org/lspdeploy/internal/domain/salt"
)

// ComputeAddressParams contains parameters for predicting deployment addresses
type ComputeAddressParams struct {
	Plan *domain.DeploymentPlan
	Salt string
	// Verify asks the factory's compute function on chain for the same addresses
	Verify bool
}

// ComputeAddressResult contains the predicted addresses
type ComputeAddressResult struct {
	Network    *domain.Network
	SaltForm   salt.Form
	Derivation *create2.Derivation
	Keys       []domain.RegistryKey

	// UsedBy is the address the salt is already recorded for in the primary scope
	UsedBy *common.Address

	Verified bool
	OnChain  []common.Address
}

// ComputeAddress predicts the addresses a plan deploys to for a salt
type ComputeAddress struct {
	config   *config.RuntimeConfig
	registry SaltRegistry
	encoder  FactoryEncoder
	checker  BlockchainChecker
	log      *slog.Logger
}

// NewComputeAddress creates a new ComputeAddress use case
func NewComputeAddress(
	cfg *config.RuntimeConfig,
	registry SaltRegistry,
	encoder FactoryEncoder,
	checker BlockchainChecker,
	log *slog.Logger,
) *ComputeAddress {
	return &ComputeAddress{
		config:   cfg,
		registry: registry,
		encoder:  encoder,
		checker:  checker,
		log:      log,
	}
}

// Run executes the use case
func (uc *ComputeAddress) Run(ctx context.Context, params ComputeAddressParams) (*ComputeAddressResult, error) {
	network := activeNetwork(uc.config)
	d, err := derivePlan(uc.config, network, params.Plan, params.Salt)
	if err != nil {
		return nil, err
	}

	result := &ComputeAddressResult{
		Network:    network,
		SaltForm:   salt.Classify(params.Salt),
		Derivation: d,
	}

	if network.ChainID != 0 {
		result.Keys = registryKeys(params.Plan, network.ChainID)
		used, err := uc.registry.Salts(ctx, result.Keys[0])
		if err != nil {
			return nil, err
		}
		if addr, ok := used[d.Salt]; ok {
			result.UsedBy = &addr
		}
	}

	if params.Verify {
		onChain, err := computeOnChain(ctx, uc.checker, uc.encoder, network, params.Plan, d)
		if err != nil {
			return nil, err
		}
		result.OnChain = onChain
		result.Verified = slices.Equal(onChain, d.Addresses())
		uc.log.Debug("compared derivation with factory", "derived", d.Addresses(), "factory", onChain)
	}

	return result, nil
}

// computeOnChain asks the deployed factory which addresses the deployment produces
func computeOnChain(ctx context.Context, checker BlockchainChecker, encoder FactoryEncoder, network *domain.Network, plan *domain.DeploymentPlan, d *create2.Derivation) ([]common.Address, error) {
	if err := connect(ctx, checker, network); err != nil {
		return nil, err
	}

	call, err := encoder.EncodeCompute(plan.Scheme, d.Factory, plan.Spec, d.Salt)
	if err != nil {
		return nil, err
	}
	output, err := checker.Call(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("%s on %s failed: %w", call.Method, network.Name, err)
	}
	return encoder.UnpackComputed(call, output)
}

func connect(ctx context.Context, checker BlockchainChecker, network *domain.Network) error {
	if network.RPCURL == "" {
		return fmt.Errorf("no RPC URL configured for network %s", network.Name)
	}
	if err := checker.Connect(ctx, network.RPCURL, network.ChainID); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	return nil
}
