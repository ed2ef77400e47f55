package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DeploymentPlan is a spec together with the scheme it deploys through and the
// identifiers its salts are recorded under
type DeploymentPlan struct {
	Scheme Scheme
	Spec   DeploymentSpec

	// Contract names the primary contract in the registry (artifact name). When empty
	// the implementation address or the init code hash is used.
	Contract string
	// SecondaryContract names the secondary of a linked pair
	SecondaryContract string
	// Owner scopes salts to an owner address or label. When empty a fingerprint of the
	// deployment arguments is used.
	Owner string
}

// Validate checks that the scheme can serve the spec
func (p *DeploymentPlan) Validate() error {
	if p.Spec == nil {
		return fmt.Errorf("%w: no deployment spec", ErrUnsupportedScheme)
	}
	switch p.Scheme {
	case SchemeUniversalFactory:
		if _, ok := p.Spec.(LinkedPair); ok {
			return fmt.Errorf("%w: linked pairs deploy through %s", ErrUnsupportedScheme, SchemeLinkedContracts.Label())
		}
	case SchemeLinkedContracts:
		if _, ok := p.Spec.(LinkedPair); !ok {
			return fmt.Errorf("%w: %s deploys linked pairs, got %s", ErrUnsupportedScheme, p.Scheme.Label(), p.Spec.Kind())
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, p.Scheme)
	}
	return nil
}

// PrimaryKey is the registry scope of the primary (or only) contract
func (p *DeploymentPlan) PrimaryKey(chainID uint64) RegistryKey {
	spec := p.Spec
	if pair, ok := spec.(LinkedPair); ok {
		spec = pair.Primary
	}
	return p.key(chainID, p.Contract, spec)
}

// SecondaryKey is the registry scope of a linked pair's secondary contract
func (p *DeploymentPlan) SecondaryKey(chainID uint64) (RegistryKey, bool) {
	pair, ok := p.Spec.(LinkedPair)
	if !ok {
		return RegistryKey{}, false
	}
	return p.key(chainID, p.SecondaryContract, pair.Secondary), true
}

func (p *DeploymentPlan) key(chainID uint64, contract string, spec DeploymentSpec) RegistryKey {
	if contract == "" {
		contract = ContractIdentifier(spec)
	}
	owner := p.Owner
	if owner == "" {
		owner = Fingerprint(p.Spec)
	}
	return RegistryKey{
		ChainID:  chainID,
		Scheme:   p.Scheme,
		Contract: contract,
		Owner:    owner,
	}.Normalize()
}

// ContractIdentifier names a spec without an artifact name: the implementation
// address for clones, otherwise the creation bytecode hash
func ContractIdentifier(spec DeploymentSpec) string {
	switch s := spec.(type) {
	case ProxyInitializable:
		return s.Implementation.Hex()
	case ProxyNonInitializable:
		return s.Implementation.Hex()
	case RawBytecode:
		return crypto.Keccak256Hash(s.CreationBytecode).Hex()
	case LinkedPair:
		return ContractIdentifier(s.Primary)
	default:
		return "unknown"
	}
}

// Fingerprint hashes the arguments of a deployment: initialize calldata for clones,
// creation bytecode (constructor arguments included) for raw deployments and both
// halves plus the linking parameters for pairs
func Fingerprint(spec DeploymentSpec) string {
	return crypto.Keccak256Hash(fingerprintBytes(spec)).Hex()
}

func fingerprintBytes(spec DeploymentSpec) []byte {
	switch s := spec.(type) {
	case ProxyInitializable:
		return append([]byte{0x01}, s.InitializeCalldata...)
	case ProxyNonInitializable:
		return []byte{0x00}
	case RawBytecode:
		return s.CreationBytecode
	case LinkedPair:
		var b []byte
		b = append(b, crypto.Keccak256(fingerprintBytes(s.Primary))...)
		b = append(b, crypto.Keccak256(fingerprintBytes(s.Secondary))...)
		if s.LinkSecondaryToPrimary {
			b = append(b, 0x01)
		} else {
			b = append(b, 0x00)
		}
		b = append(b, s.ExtraSecondaryParams...)
		b = append(b, s.PostDeploymentModule.Bytes()...)
		return append(b, s.PostDeploymentCalldata...)
	default:
		return nil
	}
}

// FactoryCall is an unsigned call to a deployment factory, ready for a wallet or
// transaction sender to submit
type FactoryCall struct {
	To     common.Address `json:"to"`
	Value  *big.Int       `json:"value"`
	Data   []byte         `json:"data"`
	Method string         `json:"method"`
}
