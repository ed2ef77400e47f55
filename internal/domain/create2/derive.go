package create2

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
)

// Derivation is the full result of deriving a deployment: salts, init code and addresses.
// Secondary fields are only set for the linked scheme.
type Derivation struct {
	Scheme  domain.Scheme
	Variant LinkedVariant
	Factory common.Address
	Salt    domain.Salt

	// GeneratedSalt is what the factory passes to CREATE2 for the primary contract
	GeneratedSalt       common.Hash
	PrimaryInitCode     []byte
	PrimaryInitCodeHash common.Hash
	Primary             common.Address

	SecondarySalt         common.Hash
	SecondaryInitCode     []byte
	SecondaryInitCodeHash common.Hash
	Secondary             common.Address
}

// HasSecondary reports whether the derivation produced a secondary contract
func (d *Derivation) HasSecondary() bool {
	return d.Scheme == domain.SchemeLinkedContracts
}

// Addresses returns the primary address and, for linked pairs, the secondary
func (d *Derivation) Addresses() []common.Address {
	if d.HasSecondary() {
		return []common.Address{d.Primary, d.Secondary}
	}
	return []common.Address{d.Primary}
}

type options struct {
	padLinkedAddress bool
}

// Option tweaks a derivation
type Option func(*options)

// PadLinkedAddress splices the primary address into a linked secondary's bytecode as a
// 32-byte ABI word, for secondaries whose constructor expects an ABI-encoded address.
// Without it the raw 20 bytes are appended.
func PadLinkedAddress(pad bool) Option {
	return func(o *options) {
		o.padLinkedAddress = pad
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Derive computes every address a deployment of spec through the scheme's factory produces
func Derive(scheme domain.Scheme, factory common.Address, spec domain.DeploymentSpec, salt domain.Salt, opts ...Option) (*Derivation, error) {
	o := buildOptions(opts)

	switch scheme {
	case domain.SchemeUniversalFactory:
		return deriveUniversal(factory, spec, salt)
	case domain.SchemeLinkedContracts:
		pair, ok := spec.(domain.LinkedPair)
		if !ok {
			return nil, fmt.Errorf("%w: %s deploys linked pairs, got %T", domain.ErrUnsupportedScheme, scheme.Label(), spec)
		}
		return deriveLinked(factory, pair, salt, o)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedScheme, scheme)
	}
}

// DeriveFunc maps a salt to the address a search is interested in
type DeriveFunc func(domain.Salt) (common.Address, error)

// Deriver returns a DeriveFunc for the primary address of spec. Everything that does
// not depend on the salt is computed once, so each call costs two Keccak-256 hashes.
func Deriver(scheme domain.Scheme, factory common.Address, spec domain.DeploymentSpec) (DeriveFunc, error) {
	var head, tail, initCode []byte

	switch scheme {
	case domain.SchemeUniversalFactory:
		plan, err := planUniversal(spec)
		if err != nil {
			return nil, err
		}
		if head, tail, err = plan.packedAround(); err != nil {
			return nil, err
		}
		initCode = plan.initCode
	case domain.SchemeLinkedContracts:
		pair, ok := spec.(domain.LinkedPair)
		if !ok {
			return nil, fmt.Errorf("%w: %s deploys linked pairs, got %T", domain.ErrUnsupportedScheme, scheme.Label(), spec)
		}
		plan, err := planLinked(pair)
		if err != nil {
			return nil, err
		}
		tail = plan.saltTail
		initCode = plan.primaryInit
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedScheme, scheme)
	}

	initHash := crypto.Keccak256Hash(initCode)
	return func(salt domain.Salt) (common.Address, error) {
		generated := crypto.Keccak256Hash(head, salt[:], tail)
		return Address(factory, generated, initHash), nil
	}, nil
}
