package usecase_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"github.com/trebuchet-org/lspdeploy/internal/adapters/fs"
	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/models"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

var (
	testImpl  = common.HexToAddress("0x52c90985AFedb2fd3b5FCc6C7d1a8F6E35E0b02A")
	testOwner = common.HexToAddress("0xcafecafecafecafecafecafecafecafecafecafe")
)

// testNetwork is a local chain using the canonical factories
func testNetwork() *domain.Network {
	return &domain.Network{
		Name:                   "local",
		ChainID:                31337,
		RPCURL:                 "http://127.0.0.1:8545",
		ExplorerURL:            "https://explorer.local/",
		UniversalFactory:       domain.DefaultUniversalFactory,
		LinkedContractsFactory: domain.DefaultLinkedContractsFactory,
	}
}

func testConfig(t *testing.T) *config.RuntimeConfig {
	t.Helper()
	dir := t.TempDir()
	return &config.RuntimeConfig{
		ProjectRoot:    dir,
		DataDir:        dir,
		ArtifactsDir:   filepath.Join(dir, "artifacts"),
		Network:        testNetwork(),
		NonInteractive: true,
	}
}

func testRegistry(cfg *config.RuntimeConfig) *fs.SaltRegistryAdapter {
	return fs.NewSaltRegistryAdapter(cfg, nil)
}

func proxyPlan() *domain.DeploymentPlan {
	return &domain.DeploymentPlan{
		Scheme:   domain.SchemeUniversalFactory,
		Spec:     domain.ProxyInitializable{Implementation: testImpl, InitializeCalldata: []byte{0xc4, 0xd6, 0x6d, 0xe8}},
		Contract: "LSP0ERC725Account",
		Owner:    testOwner.Hex(),
	}
}

func linkedPlan() *domain.DeploymentPlan {
	return &domain.DeploymentPlan{
		Scheme: domain.SchemeLinkedContracts,
		Spec: domain.LinkedPair{
			Primary:                domain.RawBytecode{CreationBytecode: []byte{0x60, 0x80, 0x60, 0x40}},
			Secondary:              domain.RawBytecode{CreationBytecode: []byte{0x60, 0x80}},
			LinkSecondaryToPrimary: true,
		},
		Contract:          "UniversalProfile",
		SecondaryContract: "KeyManager",
		Owner:             testOwner.Hex(),
	}
}

// MockChecker is a mock implementation of BlockchainChecker
type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) Connect(ctx context.Context, rpcURL string, chainID uint64) error {
	args := m.Called(ctx, rpcURL, chainID)
	return args.Error(0)
}

func (m *MockChecker) CheckDeploymentExists(ctx context.Context, address common.Address) (bool, string, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.String(1), args.Error(2)
}

func (m *MockChecker) CheckTransactionExists(ctx context.Context, txHash common.Hash) (bool, uint64, string, error) {
	args := m.Called(ctx, txHash)
	return args.Bool(0), args.Get(1).(uint64), args.String(2), args.Error(3)
}

func (m *MockChecker) Call(ctx context.Context, call *domain.FactoryCall) ([]byte, error) {
	args := m.Called(ctx, call)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// fakeContracts is an in-memory ContractRepository
type fakeContracts struct {
	contracts []*models.Contract
}

func (f *fakeContracts) GetContract(ctx context.Context, name string) (*models.Contract, error) {
	var found []*models.Contract
	var names []string
	for _, c := range f.contracts {
		names = append(names, c.Name)
		if c.Name == name || c.Key() == name {
			found = append(found, c)
		}
	}
	switch len(found) {
	case 0:
		return nil, &domain.UnknownContractErr{Name: name, Available: names}
	case 1:
		return found[0], nil
	default:
		return nil, &ambiguousErr{name: name}
	}
}

func (f *fakeContracts) ListContracts(ctx context.Context) []*models.Contract {
	return f.contracts
}

type ambiguousErr struct {
	name string
}

func (e *ambiguousErr) Error() string {
	return "multiple artifacts named " + e.name
}

// fakeSelector records prompts and picks a fixed index
type fakeSelector struct {
	pick    int
	prompts []string
	offered [][]*models.Contract
}

func (f *fakeSelector) SelectContract(ctx context.Context, contracts []*models.Contract, prompt string) (*models.Contract, error) {
	f.prompts = append(f.prompts, prompt)
	f.offered = append(f.offered, contracts)
	return contracts[f.pick], nil
}

// MockProgressSink records events; the miner reports from a second goroutine
type MockProgressSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
	// onMatch, when set, runs for every event that counts a result
	onMatch func(usecase.ProgressEvent)
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.onMatch != nil && event.Current > 0 {
		m.onMatch(event)
	}
}

func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}

func (m *MockProgressSink) counted() []usecase.ProgressEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []usecase.ProgressEvent
	for _, e := range m.events {
		if e.Current > 0 {
			out = append(out, e)
		}
	}
	return out
}
