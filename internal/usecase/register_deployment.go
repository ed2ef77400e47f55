package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/create2"
)

// RegisterDeploymentParams contains parameters for recording a completed deployment
type RegisterDeploymentParams struct {
	Plan *domain.DeploymentPlan
	Salt string
	// Addresses are the addresses reported by whoever sent the transaction, primary
	// first. They are compared with the derivation, never trusted.
	Addresses  []string
	TxHash     string
	SkipVerify bool
}

// RegisterDeploymentResult contains the result of registering a deployment
type RegisterDeploymentResult struct {
	Network     *domain.Network
	Derivation  *create2.Derivation
	Records     []SaltRecord
	BlockNumber uint64
}

// SaltRecord is one registry entry written (or found already present)
type SaltRecord struct {
	Key     domain.RegistryKey
	Address common.Address
	Existed bool
}

// RegisterDeployment is the use case for recording deployed salts in the registry
type RegisterDeployment struct {
	config            *config.RuntimeConfig
	registry          SaltRegistry
	blockchainChecker BlockchainChecker
	sink              ProgressSink
	log               *slog.Logger
}

// NewRegisterDeployment creates a new RegisterDeployment use case
func NewRegisterDeployment(
	cfg *config.RuntimeConfig,
	registry SaltRegistry,
	blockchainChecker BlockchainChecker,
	sink ProgressSink,
	log *slog.Logger,
) *RegisterDeployment {
	return &RegisterDeployment{
		config:            cfg,
		registry:          registry,
		blockchainChecker: blockchainChecker,
		sink:              sink,
		log:               log,
	}
}

// Run executes the use case
func (uc *RegisterDeployment) Run(ctx context.Context, params RegisterDeploymentParams) (*RegisterDeploymentResult, error) {
	network := uc.config.Network
	if network == nil || network.ChainID == 0 {
		return nil, fmt.Errorf("%w: select a network with --network or --chain-id", domain.ErrMissingChainID)
	}

	d, err := derivePlan(uc.config, network, params.Plan, params.Salt)
	if err != nil {
		return nil, err
	}
	if err := compareReported(d, params.Addresses); err != nil {
		return nil, err
	}

	result := &RegisterDeploymentResult{Network: network, Derivation: d}

	if !params.SkipVerify {
		if result.BlockNumber, err = uc.verify(ctx, network, d, params.TxHash); err != nil {
			return nil, err
		}
	}

	keys := registryKeys(params.Plan, network.ChainID)
	addrs := d.Addresses()

	entries := make([]domain.RegistryEntry, len(keys))
	for i, key := range keys {
		entries[i] = domain.RegistryEntry{Key: key, Salt: d.Salt, Address: addrs[i]}
	}
	existed, err := uc.registry.RecordAll(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to record salt %s: %w", d.Salt.Hex(), err)
	}
	for i, e := range entries {
		result.Records = append(result.Records, SaltRecord{Key: e.Key, Address: e.Address, Existed: existed[i]})
		uc.log.Debug("recorded salt", "key", e.Key.String(), "salt", d.Salt.Hex(), "address", e.Address, "existed", existed[i])
	}

	return result, nil
}

// compareReported checks externally reported addresses against the derivation
func compareReported(d *create2.Derivation, reported []string) error {
	derived := d.Addresses()
	if len(reported) > len(derived) {
		return fmt.Errorf("%d addresses reported but the deployment creates %d", len(reported), len(derived))
	}

	roles := []string{"primary", "secondary"}
	if !d.HasSecondary() {
		roles[0] = "deployed"
	}
	for i, text := range reported {
		if strings.TrimSpace(text) == "" {
			continue
		}
		addr, err := domain.ParseAddress(strings.TrimSpace(text))
		if err != nil {
			return fmt.Errorf("%s address: %w", roles[i], err)
		}
		if addr != derived[i] {
			return &domain.AddressMismatchErr{Role: roles[i], Reported: addr, Derived: derived[i]}
		}
	}
	return nil
}

// verify confirms the derived addresses hold code and, when given, that the transaction succeeded
func (uc *RegisterDeployment) verify(ctx context.Context, network *domain.Network, d *create2.Derivation, txHash string) (uint64, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "verifying",
		Message: fmt.Sprintf("Verifying deployment on %s", network.Name),
		Spinner: true,
	})
	if err := connect(ctx, uc.blockchainChecker, network); err != nil {
		return 0, err
	}

	var block uint64
	if txHash != "" {
		if !isTxHash(txHash) {
			return 0, fmt.Errorf("invalid transaction hash %q", txHash)
		}
		exists, blockNumber, reason, err := uc.blockchainChecker.CheckTransactionExists(ctx, common.HexToHash(txHash))
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, fmt.Errorf("transaction %s: %s", txHash, reason)
		}
		block = blockNumber
	}

	for _, addr := range d.Addresses() {
		exists, reason, err := uc.blockchainChecker.CheckDeploymentExists(ctx, addr)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, fmt.Errorf("nothing deployed at %s: %s (use --skip-verify to record anyway)", addr.Hex(), reason)
		}
	}
	return block, nil
}

func isTxHash(s string) bool {
	b, err := hexutil.Decode(s)
	return err == nil && len(b) == common.HashLength
}
