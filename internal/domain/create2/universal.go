package create2

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/packed"
)

// UniversalSalt is the salt the LSP16 UniversalFactory hands to CREATE2.
// Non-initializable deployments hash (false, salt); initializable ones hash
// (true, initCalldata, salt) so the calldata is bound to the address.
func UniversalSalt(salt domain.Salt, initializable bool, initCalldata []byte) (common.Hash, error) {
	if !initializable {
		return packed.Keccak(packed.Bool(false), packed.Bytes32(salt))
	}
	return packed.Keccak(packed.Bool(true), packed.Bytes(initCalldata), packed.Bytes32(salt))
}

// universalPlan is the salt independent half of an LSP16 derivation
type universalPlan struct {
	initializable bool
	calldata      []byte
	initCode      []byte
}

func planUniversal(spec domain.DeploymentSpec) (*universalPlan, error) {
	switch s := spec.(type) {
	case domain.ProxyInitializable:
		return &universalPlan{initializable: true, calldata: s.InitializeCalldata, initCode: ProxyBytecode(s.Implementation)}, nil
	case domain.ProxyNonInitializable:
		return &universalPlan{initCode: ProxyBytecode(s.Implementation)}, nil
	case domain.RawBytecode:
		return &universalPlan{initCode: s.CreationBytecode}, nil
	case domain.LinkedPair:
		return nil, fmt.Errorf("%w: linked pairs deploy through %s", domain.ErrUnsupportedScheme, domain.SchemeLinkedContracts.Label())
	default:
		return nil, fmt.Errorf("%w: %T is not deployable through %s", domain.ErrUnsupportedScheme, spec, domain.SchemeUniversalFactory.Label())
	}
}

func deriveUniversal(factory common.Address, spec domain.DeploymentSpec, salt domain.Salt) (*Derivation, error) {
	plan, err := planUniversal(spec)
	if err != nil {
		return nil, err
	}

	generated, err := UniversalSalt(salt, plan.initializable, plan.calldata)
	if err != nil {
		return nil, err
	}

	initHash := crypto.Keccak256Hash(plan.initCode)
	return &Derivation{
		Scheme:              domain.SchemeUniversalFactory,
		Factory:             factory,
		Salt:                salt,
		GeneratedSalt:       generated,
		PrimaryInitCode:     plan.initCode,
		PrimaryInitCodeHash: initHash,
		Primary:             Address(factory, generated, initHash),
	}, nil
}

// packedAround returns the packed bytes before and after the bytes32 salt in the
// generated salt preimage, so the miner only hashes head ++ salt ++ tail
func (p *universalPlan) packedAround() (head, tail []byte, err error) {
	if !p.initializable {
		return []byte{0x00}, nil, nil
	}
	head, err = packed.Encode(packed.Bool(true), packed.Bytes(p.calldata))
	return head, nil, err
}
