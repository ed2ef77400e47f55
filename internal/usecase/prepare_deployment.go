package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/create2"
)

// PrepareDeploymentParams contains parameters for preparing a factory call
type PrepareDeploymentParams struct {
	Plan *domain.DeploymentPlan
	Salt string
	// CheckChain looks for existing code at the predicted addresses
	CheckChain bool
}

// PrepareDeploymentResult is an unsigned factory call plus the addresses it will create
type PrepareDeploymentResult struct {
	Network    *domain.Network
	Derivation *create2.Derivation
	Call       *domain.FactoryCall
	Keys       []domain.RegistryKey
	Warnings   []string
}

// PrepareDeployment builds the factory transaction for a plan. It never signs or sends.
type PrepareDeployment struct {
	config   *config.RuntimeConfig
	registry SaltRegistry
	encoder  FactoryEncoder
	checker  BlockchainChecker
	sink     ProgressSink
	log      *slog.Logger
}

// NewPrepareDeployment creates a new PrepareDeployment use case
func NewPrepareDeployment(
	cfg *config.RuntimeConfig,
	registry SaltRegistry,
	encoder FactoryEncoder,
	checker BlockchainChecker,
	sink ProgressSink,
	log *slog.Logger,
) *PrepareDeployment {
	return &PrepareDeployment{
		config:   cfg,
		registry: registry,
		encoder:  encoder,
		checker:  checker,
		sink:     sink,
		log:      log,
	}
}

// Run executes the use case
func (uc *PrepareDeployment) Run(ctx context.Context, params PrepareDeploymentParams) (*PrepareDeploymentResult, error) {
	network := activeNetwork(uc.config)
	d, err := derivePlan(uc.config, network, params.Plan, params.Salt)
	if err != nil {
		return nil, err
	}

	call, err := uc.encoder.EncodeDeployment(params.Plan.Scheme, d.Factory, params.Plan.Spec, d.Salt)
	if err != nil {
		return nil, err
	}

	result := &PrepareDeploymentResult{
		Network:    network,
		Derivation: d,
		Call:       call,
	}

	if network.ChainID != 0 {
		result.Keys = registryKeys(params.Plan, network.ChainID)
		for _, key := range result.Keys {
			salts, err := uc.registry.Salts(ctx, key)
			if err != nil {
				return nil, err
			}
			if addr, ok := salts[d.Salt]; ok {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("salt %s was already used for %s (deployed at %s)", d.Salt.Hex(), key.Contract, addr.Hex()))
			}
		}
	}

	if params.CheckChain {
		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:   "checking",
			Message: fmt.Sprintf("Checking %s for existing code", network.Name),
			Spinner: true,
		})
		if err := connect(ctx, uc.checker, network); err != nil {
			return nil, err
		}
		for _, addr := range d.Addresses() {
			exists, _, err := uc.checker.CheckDeploymentExists(ctx, addr)
			if err != nil {
				return nil, err
			}
			if exists {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("code already exists at %s, the factory call will revert", addr.Hex()))
			}
		}
	}

	uc.log.Debug("prepared factory call", "method", call.Method, "to", call.To, "value", call.Value, "warnings", len(result.Warnings))
	return result, nil
}
