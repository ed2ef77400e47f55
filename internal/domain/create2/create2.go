// Package create2 derives the addresses the LSP16 and LSP23 factories deploy to.
//
// Everything here is pure: the same scheme, factory, spec and salt always give
// byte-identical results, so addresses reported by other parties are re-derived
// and compared rather than trusted.
package create2

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// EIP-1167 minimal proxy creation code, split around the implementation address
var (
	proxyPrefix = common.FromHex("0x3d602d80600a3d3981f3363d3d373d3d3d363d73")
	proxySuffix = common.FromHex("0x5af43d82803e903d91602b57fd5bf3")
)

const (
	// ProxyImplementationOffset is the byte offset of the implementation inside ProxyBytecode
	ProxyImplementationOffset = 20
	// ProxyBytecodeLength is the length of the clone creation code
	ProxyBytecodeLength = 55
)

// Address is the CREATE2 formula: keccak256(0xff ++ factory ++ salt ++ initCodeHash)[12:]
func Address(factory common.Address, salt common.Hash, initCodeHash common.Hash) common.Address {
	return crypto.CreateAddress2(factory, salt, initCodeHash.Bytes())
}

// ProxyBytecode returns the EIP-1167 clone creation code pointing at impl
func ProxyBytecode(impl common.Address) []byte {
	code := make([]byte, 0, ProxyBytecodeLength)
	code = append(code, proxyPrefix...)
	code = append(code, impl.Bytes()...)
	return append(code, proxySuffix...)
}

// ProxyImplementation extracts the implementation from clone creation code
func ProxyImplementation(code []byte) (common.Address, bool) {
	if len(code) != ProxyBytecodeLength {
		return common.Address{}, false
	}
	if !bytes.Equal(code[:ProxyImplementationOffset], proxyPrefix) ||
		!bytes.Equal(code[ProxyImplementationOffset+common.AddressLength:], proxySuffix) {
		return common.Address{}, false
	}
	return common.BytesToAddress(code[ProxyImplementationOffset : ProxyImplementationOffset+common.AddressLength]), true
}
