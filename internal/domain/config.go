package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Canonical factory deployments, identical on every chain they exist on
var (
	DefaultUniversalFactory       = common.HexToAddress("0x1600016e23e25D20CA8759338BfB8A8d11563C4e")
	DefaultLinkedContractsFactory = common.HexToAddress("0x2300000A84D25dF63081feAa37ba6b62C4c89a30")
)

// Network is the chain identity and endpoints a command runs against
type Network struct {
	Name        string `json:"name"`
	ChainID     uint64 `json:"chainId"`
	RPCURL      string `json:"rpcUrl,omitempty"`
	ExplorerURL string `json:"explorerUrl,omitempty"`

	UniversalFactory       common.Address `json:"universalFactory"`
	LinkedContractsFactory common.Address `json:"linkedContractsFactory"`
}

// Factory returns the factory address used for the given scheme
func (n *Network) Factory(scheme Scheme) (common.Address, error) {
	switch scheme {
	case SchemeUniversalFactory:
		return n.UniversalFactory, nil
	case SchemeLinkedContracts:
		return n.LinkedContractsFactory, nil
	default:
		return common.Address{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
}

// AddressURL returns the explorer link for an address, or "" without an explorer
func (n *Network) AddressURL(addr common.Address) string {
	if n.ExplorerURL == "" {
		return ""
	}
	return strings.TrimSuffix(n.ExplorerURL, "/") + "/address/" + addr.Hex()
}

// TxURL returns the explorer link for a transaction hash, or "" without an explorer
func (n *Network) TxURL(txHash string) string {
	if n.ExplorerURL == "" || txHash == "" {
		return ""
	}
	return strings.TrimSuffix(n.ExplorerURL, "/") + "/tx/" + txHash
}
