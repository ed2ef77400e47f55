package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/lspdeploy/internal/adapters/abi"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

func TestPrepareDeployment(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	registry := testRegistry(cfg)
	checker := new(MockChecker)
	uc := usecase.NewPrepareDeployment(cfg, registry, abi.NewFactoryEncoder(), checker, usecase.NopProgress{}, discardLogger())

	result, err := uc.Run(ctx, usecase.PrepareDeploymentParams{Plan: proxyPlan(), Salt: "profile-1"})
	require.NoError(t, err)

	assert.Equal(t, "deployERC1167ProxyAndInitialize", result.Call.Method)
	assert.Equal(t, domain.DefaultUniversalFactory, result.Call.To)
	assert.Equal(t, domain.DefaultUniversalFactory, result.Derivation.Factory)
	assert.NotEmpty(t, result.Call.Data)
	assert.Empty(t, result.Warnings)
	require.Len(t, result.Keys, 1)
	checker.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything, mock.Anything)

	t.Run("warns about a used salt", func(t *testing.T) {
		require.NoError(t, registry.Record(ctx, result.Keys[0], result.Derivation.Salt, result.Derivation.Primary))

		again, err := uc.Run(ctx, usecase.PrepareDeploymentParams{Plan: proxyPlan(), Salt: "profile-1"})
		require.NoError(t, err)
		require.Len(t, again.Warnings, 1)
		assert.Contains(t, again.Warnings[0], "was already used for LSP0ERC725Account")
		assert.Equal(t, result.Call.Data, again.Call.Data)
	})
}

func TestPrepareDeploymentLinked(t *testing.T) {
	cfg := testConfig(t)
	uc := usecase.NewPrepareDeployment(cfg, testRegistry(cfg), abi.NewFactoryEncoder(), new(MockChecker), usecase.NopProgress{}, discardLogger())

	result, err := uc.Run(context.Background(), usecase.PrepareDeploymentParams{Plan: linkedPlan(), Salt: "0xabcdef"})
	require.NoError(t, err)

	assert.Equal(t, "deployContracts", result.Call.Method)
	assert.Equal(t, domain.DefaultLinkedContractsFactory, result.Call.To)
	assert.Len(t, result.Keys, 2)
	assert.Len(t, result.Derivation.Addresses(), 2)
}

func TestPrepareDeploymentCheckChain(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	plan := linkedPlan()

	checker := new(MockChecker)
	checker.On("Connect", mock.Anything, cfg.Network.RPCURL, cfg.Network.ChainID).Return(nil)

	uc := usecase.NewPrepareDeployment(cfg, testRegistry(cfg), abi.NewFactoryEncoder(), checker, &MockProgressSink{}, discardLogger())

	// a run without the chain check gives the addresses the mock answers for
	dry, err := uc.Run(ctx, usecase.PrepareDeploymentParams{Plan: plan, Salt: "7"})
	require.NoError(t, err)

	checker.On("CheckDeploymentExists", mock.Anything, dry.Derivation.Primary).Return(true, "", nil)
	checker.On("CheckDeploymentExists", mock.Anything, dry.Derivation.Secondary).Return(false, "no code", nil)

	result, err := uc.Run(ctx, usecase.PrepareDeploymentParams{Plan: plan, Salt: "7", CheckChain: true})
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], dry.Derivation.Primary.Hex())
	assert.Contains(t, result.Warnings[0], "will revert")
	checker.AssertExpectations(t)

	t.Run("no rpc url", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Network.RPCURL = ""
		uc := usecase.NewPrepareDeployment(cfg, testRegistry(cfg), abi.NewFactoryEncoder(), new(MockChecker), usecase.NopProgress{}, discardLogger())

		_, err := uc.Run(ctx, usecase.PrepareDeploymentParams{Plan: plan, Salt: "7", CheckChain: true})
		assert.ErrorContains(t, err, "no RPC URL configured for network local")
	})
}
