package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

const requestTimeout = 5 * time.Second

// chainClient is the part of ethclient the checker uses
type chainClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// CheckerAdapter implements the BlockchainChecker interface using ethclient
type CheckerAdapter struct {
	client  chainClient
	chainID uint64
}

// NewCheckerAdapter creates a new blockchain checker adapter
func NewCheckerAdapter() *CheckerAdapter {
	return &CheckerAdapter{}
}

// NewCheckerAdapterWithClient creates a checker over an existing client
func NewCheckerAdapterWithClient(client chainClient, chainID uint64) *CheckerAdapter {
	return &CheckerAdapter{client: client, chainID: chainID}
}

// Connect establishes connection to the blockchain
func (c *CheckerAdapter) Connect(ctx context.Context, rpcURL string, chainID uint64) error {
	if rpcURL == "" {
		return fmt.Errorf("no RPC URL configured for chain %d", chainID)
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RPC: %w", err)
	}
	c.client = client

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	networkChainID, err := c.client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain ID: %w", err)
	}

	// If chainID was 0, use the network's chain ID
	if chainID == 0 {
		c.chainID = networkChainID.Uint64()
	} else if networkChainID.Uint64() != chainID {
		return fmt.Errorf("chain ID mismatch: expected %d, got %d", chainID, networkChainID.Uint64())
	} else {
		c.chainID = chainID
	}

	return nil
}

// ChainID returns the chain the checker is connected to
func (c *CheckerAdapter) ChainID() uint64 {
	return c.chainID
}

// CheckDeploymentExists checks if a contract exists at the given address
func (c *CheckerAdapter) CheckDeploymentExists(ctx context.Context, address common.Address) (exists bool, reason string, err error) {
	if c.client == nil {
		return false, "", fmt.Errorf("not connected to blockchain")
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	code, err := c.client.CodeAt(ctx, address, nil)
	if err != nil {
		return false, fmt.Sprintf("failed to check code: %v", err), nil
	}

	if len(code) == 0 {
		return false, "no code at address", nil
	}

	return true, "", nil
}

// CheckTransactionExists checks that a transaction was mined and succeeded
func (c *CheckerAdapter) CheckTransactionExists(ctx context.Context, txHash common.Hash) (exists bool, blockNumber uint64, reason string, err error) {
	if c.client == nil {
		return false, 0, "", fmt.Errorf("not connected to blockchain")
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	receipt, err := c.client.TransactionReceipt(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return false, 0, "transaction not found on-chain", nil
		}
		return false, 0, "", fmt.Errorf("failed to get transaction receipt: %w", err)
	}

	if receipt.BlockNumber != nil {
		blockNumber = receipt.BlockNumber.Uint64()
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return false, blockNumber, "transaction reverted", nil
	}
	return true, blockNumber, "", nil
}

// Call executes a read-only factory call against the latest block
func (c *CheckerAdapter) Call(ctx context.Context, call *domain.FactoryCall) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("not connected to blockchain")
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	to := call.To
	out, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: call.Data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call to %s failed: %w", call.Method, call.To.Hex(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s call to %s returned no data, is the factory deployed on chain %d?", call.Method, call.To.Hex(), c.chainID)
	}
	return out, nil
}

// Ensure the adapter implements the interface
var _ usecase.BlockchainChecker = (*CheckerAdapter)(nil)
