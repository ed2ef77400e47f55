package usecase

import (
	"context"
	"iter"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/models"
)

// SaltRegistry persists the salts used per chain, scheme, contract and owner
type SaltRegistry interface {
	// Record stores salt -> addr under key. Recording the same pair again is a no-op;
	// a different address for a recorded salt is a *domain.RegistryConflictErr.
	Record(ctx context.Context, key domain.RegistryKey, salt domain.Salt, addr common.Address) error
	// RecordAll records every entry or none of them, reporting which were already present
	RecordAll(ctx context.Context, entries []domain.RegistryEntry) ([]bool, error)
	Lookup(ctx context.Context, key domain.RegistryKey) ([]common.Address, error)
	Salts(ctx context.Context, key domain.RegistryKey) (map[domain.Salt]common.Address, error)
	Scopes(ctx context.Context, filter domain.RegistryFilter) ([]domain.RegistryKey, error)
}

// SaltMiner searches for salts whose derived address has a prefix
type SaltMiner interface {
	Mine(ctx context.Context, derive func(domain.Salt) (common.Address, error), prefix string, count int) iter.Seq2[domain.MinedSalt, error]
	Attempts() uint64
	Workers() int
}

// ContractRepository provides access to compiled contract artifacts
type ContractRepository interface {
	// GetContract returns a *domain.UnknownContractErr for names it does not hold
	GetContract(ctx context.Context, name string) (*models.Contract, error)
	ListContracts(ctx context.Context) []*models.Contract
}

// ContractResolver resolves a contract query to a single artifact
type ContractResolver interface {
	ResolveContract(ctx context.Context, query domain.ContractQuery) (*models.Contract, error)
}

// ContractSelector handles interactive selection of contracts
type ContractSelector interface {
	SelectContract(ctx context.Context, contracts []*models.Contract, prompt string) (*models.Contract, error)
}

// NetworkResolver resolves configured networks
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, name string) (*domain.Network, error)
	ResolveChainID(ctx context.Context, chainID uint64) *domain.Network
}

// BlockchainChecker confirms deployments on chain
type BlockchainChecker interface {
	Connect(ctx context.Context, rpcURL string, chainID uint64) error
	CheckDeploymentExists(ctx context.Context, address common.Address) (exists bool, reason string, err error)
	CheckTransactionExists(ctx context.Context, txHash common.Hash) (exists bool, blockNumber uint64, reason string, err error)
	// Call executes a read-only factory call against the latest block
	Call(ctx context.Context, call *domain.FactoryCall) ([]byte, error)
}

// FactoryEncoder builds factory calls
type FactoryEncoder interface {
	// EncodeDeployment returns the call that performs the deployment
	EncodeDeployment(scheme domain.Scheme, factory common.Address, spec domain.DeploymentSpec, salt domain.Salt) (*domain.FactoryCall, error)
	// EncodeCompute returns the view call the factory answers with the deployment's addresses
	EncodeCompute(scheme domain.Scheme, factory common.Address, spec domain.DeploymentSpec, salt domain.Salt) (*domain.FactoryCall, error)
	UnpackComputed(call *domain.FactoryCall, output []byte) ([]common.Address, error)
}

// ArgumentEncoder ABI-encodes textual arguments against a contract's ABI
type ArgumentEncoder interface {
	EncodeConstructorArgs(contract *models.Contract, args []string) ([]byte, error)
	// EncodeMethodCall returns selector and arguments; method is a name or full signature
	EncodeMethodCall(contract *models.Contract, method string, args []string) ([]byte, error)
}

// PlanLoader reads a deployment request from a plan file
type PlanLoader interface {
	LoadPlan(ctx context.Context, path string) (*domain.PlanRequest, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
