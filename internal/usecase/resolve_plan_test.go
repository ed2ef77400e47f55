package usecase_test

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/lspdeploy/internal/adapters/abi"
	"github.com/trebuchet-org/lspdeploy/internal/adapters/fs"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/models"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

const profileABI = `[
  {"type":"constructor","inputs":[{"name":"initialOwner","type":"address"}],"stateMutability":"payable"},
  {"type":"function","name":"initialize","inputs":[{"name":"initialOwner","type":"address"}],"outputs":[],"stateMutability":"payable"}
]`

func profileContract(t *testing.T, name string) *models.Contract {
	t.Helper()
	parsed, err := gethabi.JSON(strings.NewReader(profileABI))
	require.NoError(t, err)
	return &models.Contract{
		Name:         name,
		ArtifactPath: filepath.Join("artifacts", name+".json"),
		ABI:          &parsed,
		Bytecode:     []byte{0x60, 0x80, 0x60, 0x40},
	}
}

func newResolvePlan(t *testing.T, contracts ...*models.Contract) *usecase.ResolvePlan {
	t.Helper()
	cfg := testConfig(t)
	resolver := usecase.NewResolveContract(cfg, &fakeContracts{contracts: contracts}, nil, usecase.NopProgress{})
	return usecase.NewResolvePlan(resolver, abi.NewArgumentEncoder(), fs.NewPlanLoaderAdapter(), usecase.NopProgress{})
}

func TestResolvePlanProxyFromArtifact(t *testing.T) {
	uc := newResolvePlan(t, profileContract(t, "UniversalProfileInit"))

	result, err := uc.Run(context.Background(), usecase.ResolvePlanParams{
		Request: &domain.PlanRequest{
			Owner: testOwner.Hex(),
			Deployment: &domain.DeploymentRequest{
				Artifact:       "UniversalProfileInit",
				Implementation: testImpl.Hex(),
				InitializeArgs: []string{testOwner.Hex()},
				Value:          "1ether",
			},
		},
	})
	require.NoError(t, err)

	plan := result.Plan
	assert.Equal(t, domain.SchemeUniversalFactory, plan.Scheme)
	assert.Equal(t, "UniversalProfileInit", plan.Contract)
	require.Len(t, result.Artifacts, 1)

	spec, ok := plan.Spec.(domain.ProxyInitializable)
	require.True(t, ok, "got %T", plan.Spec)
	assert.Equal(t, testImpl, spec.Implementation)
	assert.Len(t, spec.InitializeCalldata, 36)
	assert.Equal(t, common.LeftPadBytes(testOwner.Bytes(), 32), spec.InitializeCalldata[4:])
	assert.Equal(t, 0, spec.InitializeValue.Cmp(big.NewInt(1e18)))
}

func TestResolvePlanBytecodeWithConstructor(t *testing.T) {
	uc := newResolvePlan(t, profileContract(t, "UniversalProfile"))

	result, err := uc.Run(context.Background(), usecase.ResolvePlanParams{
		Request: &domain.PlanRequest{
			Deployment: &domain.DeploymentRequest{
				Artifact:        "UniversalProfile",
				ConstructorArgs: []string{testOwner.Hex()},
			},
		},
	})
	require.NoError(t, err)

	spec, ok := result.Plan.Spec.(domain.RawBytecode)
	require.True(t, ok, "got %T", result.Plan.Spec)
	want := append([]byte{0x60, 0x80, 0x60, 0x40}, common.LeftPadBytes(testOwner.Bytes(), 32)...)
	assert.Equal(t, want, spec.CreationBytecode)

	t.Run("missing constructor arguments", func(t *testing.T) {
		_, err := uc.Run(context.Background(), usecase.ResolvePlanParams{
			Request: &domain.PlanRequest{
				Deployment: &domain.DeploymentRequest{Artifact: "UniversalProfile"},
			},
		})
		assert.Error(t, err)
	})

	t.Run("raw constructor data", func(t *testing.T) {
		result, err := uc.Run(context.Background(), usecase.ResolvePlanParams{
			Request: &domain.PlanRequest{
				Deployment: &domain.DeploymentRequest{Artifact: "UniversalProfile", ConstructorData: "0xbeef"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0xbe, 0xef}, result.Plan.Spec.(domain.RawBytecode).CreationBytecode)
	})
}

func TestResolvePlanInfersKinds(t *testing.T) {
	uc := newResolvePlan(t)

	result, err := uc.Run(context.Background(), usecase.ResolvePlanParams{
		Request: &domain.PlanRequest{
			Deployment: &domain.DeploymentRequest{Implementation: testImpl.Hex()},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProxyNonInitializable{Implementation: testImpl}, result.Plan.Spec)

	result, err = uc.Run(context.Background(), usecase.ResolvePlanParams{
		Request: &domain.PlanRequest{
			Deployment: &domain.DeploymentRequest{Implementation: testImpl.Hex(), InitializeCalldata: "0x01"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SpecProxyInitializable, result.Plan.Spec.Kind())

	result, err = uc.Run(context.Background(), usecase.ResolvePlanParams{
		Request: &domain.PlanRequest{
			Deployment: &domain.DeploymentRequest{Bytecode: "0x6080"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SpecRawBytecode, result.Plan.Spec.Kind())
}

func TestResolvePlanLinked(t *testing.T) {
	uc := newResolvePlan(t)
	module := "0x000000000066093407b6704B89793beFfD0D8F00"

	result, err := uc.Run(context.Background(), usecase.ResolvePlanParams{
		Request: &domain.PlanRequest{
			Contract:               "UniversalProfile",
			SecondaryContract:      "KeyManager",
			Primary:                &domain.DeploymentRequest{Implementation: testImpl.Hex()},
			Secondary:              &domain.DeploymentRequest{Implementation: testOwner.Hex()},
			LinkSecondaryToPrimary: true,
			PostDeploymentModule:   module,
			PostDeploymentCalldata: "0x1234",
			PrimaryFunding:         "10",
		},
	})
	require.NoError(t, err)

	plan := result.Plan
	assert.Equal(t, domain.SchemeLinkedContracts, plan.Scheme)
	assert.Equal(t, "UniversalProfile", plan.Contract)
	assert.Equal(t, "KeyManager", plan.SecondaryContract)

	pair := plan.Spec.(domain.LinkedPair)
	assert.Equal(t, domain.SpecProxyInitializable, pair.Primary.Kind())
	assert.Equal(t, domain.SpecProxyInitializable, pair.Secondary.Kind())
	assert.Equal(t, common.HexToAddress(module), pair.PostDeploymentModule)
	assert.Equal(t, []byte{0x12, 0x34}, pair.PostDeploymentCalldata)
	assert.Equal(t, big.NewInt(10), pair.PrimaryFunding)
	assert.Nil(t, pair.SecondaryFunding)
}

func TestResolvePlanErrors(t *testing.T) {
	uc := newResolvePlan(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		req    *domain.PlanRequest
		target error
	}{
		{"nothing to deploy", nil, nil},
		{"unknown artifact", &domain.PlanRequest{Deployment: &domain.DeploymentRequest{Artifact: "Nope"}}, domain.ErrUnknownContract},
		{"bad implementation", &domain.PlanRequest{Deployment: &domain.DeploymentRequest{Implementation: "0x1234"}}, domain.ErrInvalidAddress},
		{"linked under lsp16", &domain.PlanRequest{
			Scheme:    "lsp16",
			Primary:   &domain.DeploymentRequest{Bytecode: "0x01"},
			Secondary: &domain.DeploymentRequest{Bytecode: "0x02"},
		}, domain.ErrUnsupportedScheme},
		{"single under lsp23", &domain.PlanRequest{Scheme: "lsp23", Deployment: &domain.DeploymentRequest{Bytecode: "0x01"}}, domain.ErrUnsupportedScheme},
		{"unknown scheme", &domain.PlanRequest{Scheme: "lsp7", Deployment: &domain.DeploymentRequest{Bytecode: "0x01"}}, domain.ErrUnsupportedScheme},
		{"half a pair", &domain.PlanRequest{Primary: &domain.DeploymentRequest{Bytecode: "0x01"}}, nil},
		{"initialize args without artifact", &domain.PlanRequest{Deployment: &domain.DeploymentRequest{
			Implementation: testImpl.Hex(), InitializeArgs: []string{"1"},
		}}, nil},
		{"value on non-initializable proxy overflows", &domain.PlanRequest{Deployment: &domain.DeploymentRequest{
			Kind: domain.SpecProxyNonInitializable, Implementation: testImpl.Hex(), Value: "1e90ether",
		}}, domain.ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Run(ctx, usecase.ResolvePlanParams{Request: tt.req})
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestResolvePlanFromFileWithOverrides(t *testing.T) {
	uc := newResolvePlan(t)
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
owner: alice
deployment:
  bytecode: "0x6080"
`), 0644))

	result, err := uc.Run(context.Background(), usecase.ResolvePlanParams{
		PlanFile: path,
		Request:  &domain.PlanRequest{Owner: "bob", Contract: "Counter"},
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", result.Plan.Owner)
	assert.Equal(t, "Counter", result.Plan.Contract)
	assert.Equal(t, domain.RawBytecode{CreationBytecode: []byte{0x60, 0x80}}, result.Plan.Spec)
}

func TestResolvePlanPicksContract(t *testing.T) {
	cfg := testConfig(t)
	cfg.NonInteractive = false
	selector := &fakeSelector{pick: 1}
	contracts := &fakeContracts{contracts: []*models.Contract{
		profileContract(t, "UniversalProfile"),
		{Name: "Counter", ArtifactPath: "Counter.sol/Counter.json", Bytecode: []byte{0x60, 0x80}},
	}}
	resolver := usecase.NewResolveContract(cfg, contracts, selector, usecase.NopProgress{})
	uc := usecase.NewResolvePlan(resolver, abi.NewArgumentEncoder(), fs.NewPlanLoaderAdapter(), usecase.NopProgress{})

	result, err := uc.Run(context.Background(), usecase.ResolvePlanParams{Request: &domain.PlanRequest{Owner: "alice"}})
	require.NoError(t, err)

	assert.Equal(t, "Counter", result.Plan.Contract)
	assert.Equal(t, domain.RawBytecode{CreationBytecode: []byte{0x60, 0x80}}, result.Plan.Spec)
	assert.Equal(t, []string{"Select a contract to deploy:"}, selector.prompts)

	t.Run("non-interactive", func(t *testing.T) {
		_, err := newResolvePlan(t, profileContract(t, "UniversalProfile")).Run(context.Background(), usecase.ResolvePlanParams{
			Request: &domain.PlanRequest{},
		})
		assert.ErrorContains(t, err, "nothing to deploy: contract name required")
	})
}
