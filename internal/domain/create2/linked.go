package create2

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/packed"
)

// LinkedVariant distinguishes the two LSP23 deployment entry points
type LinkedVariant string

const (
	// LinkedBytecode deploys two contracts from creation bytecode (deployContracts)
	LinkedBytecode LinkedVariant = "bytecode"
	// LinkedProxies deploys two EIP-1167 clones (deployERC1167Proxies)
	LinkedProxies LinkedVariant = "proxies"
)

// linkedPlan holds everything of an LSP23 derivation that does not depend on the salt
type linkedPlan struct {
	variant       LinkedVariant
	pair          domain.LinkedPair
	saltTail      []byte // packed preimage after the bytes32 salt
	primaryInit   []byte
	secondaryBase []byte // secondary init code before linking
}

// VariantOf reports which LSP23 variant serves the pair. Both halves must be
// RawBytecode or both ProxyInitializable.
func VariantOf(pair domain.LinkedPair) (LinkedVariant, error) {
	switch pair.Primary.(type) {
	case domain.RawBytecode:
		if _, ok := pair.Secondary.(domain.RawBytecode); ok {
			return LinkedBytecode, nil
		}
	case domain.ProxyInitializable:
		if _, ok := pair.Secondary.(domain.ProxyInitializable); ok {
			return LinkedProxies, nil
		}
	}
	return "", fmt.Errorf("%w: linked pair of %T and %T (both must be bytecode or both proxies)",
		domain.ErrUnsupportedScheme, pair.Primary, pair.Secondary)
}

func planLinked(pair domain.LinkedPair) (*linkedPlan, error) {
	variant, err := VariantOf(pair)
	if err != nil {
		return nil, err
	}

	plan := &linkedPlan{variant: variant, pair: pair}
	var tail []packed.Value

	switch variant {
	case LinkedBytecode:
		primary := pair.Primary.(domain.RawBytecode)
		secondary := pair.Secondary.(domain.RawBytecode)
		tail = []packed.Value{packed.Bytes(secondary.CreationBytecode)}
		plan.primaryInit = primary.CreationBytecode
		plan.secondaryBase = secondary.CreationBytecode
	case LinkedProxies:
		primary := pair.Primary.(domain.ProxyInitializable)
		secondary := pair.Secondary.(domain.ProxyInitializable)
		tail = []packed.Value{packed.Address(secondary.Implementation), packed.Bytes(secondary.InitializeCalldata)}
		plan.primaryInit = ProxyBytecode(primary.Implementation)
		plan.secondaryBase = ProxyBytecode(secondary.Implementation)
	}

	tail = append(tail,
		packed.Bool(pair.LinkSecondaryToPrimary),
		packed.Bytes(pair.ExtraSecondaryParams),
		packed.Address(pair.PostDeploymentModule),
		packed.Bytes(pair.PostDeploymentCalldata),
	)
	plan.saltTail, err = packed.Encode(tail...)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// generatedSalt is keccak256(salt ++ tail), the packed preimage of the LSP23 primary salt
func (p *linkedPlan) generatedSalt(salt domain.Salt) common.Hash {
	return crypto.Keccak256Hash(salt[:], p.saltTail)
}

// secondaryInitCode splices the primary address into the secondary bytecode when linked.
// Clones are never spliced: the factory appends the address to the initialization calldata instead.
func (p *linkedPlan) secondaryInitCode(primary common.Address, o options) []byte {
	if p.variant != LinkedBytecode || !p.pair.LinkSecondaryToPrimary {
		return p.secondaryBase
	}
	return LinkedInitCode(p.secondaryBase, primary, p.pair.ExtraSecondaryParams, o.padLinkedAddress)
}

// LinkedInitCode appends the primary address and the extra constructor params to the
// secondary creation bytecode. With pad the address is a 32-byte ABI word instead of
// its 20 packed bytes.
func LinkedInitCode(bytecode []byte, primary common.Address, extra []byte, pad bool) []byte {
	addr := primary.Bytes()
	if pad {
		addr = common.LeftPadBytes(addr, 32)
	}
	out := make([]byte, 0, len(bytecode)+len(addr)+len(extra))
	out = append(out, bytecode...)
	out = append(out, addr...)
	return append(out, extra...)
}

// SecondarySalt is the salt LSP23 uses for the secondary contract: keccak256 of the primary address
func SecondarySalt(primary common.Address) common.Hash {
	return crypto.Keccak256Hash(primary.Bytes())
}

func deriveLinked(factory common.Address, pair domain.LinkedPair, salt domain.Salt, o options) (*Derivation, error) {
	plan, err := planLinked(pair)
	if err != nil {
		return nil, err
	}

	generated := plan.generatedSalt(salt)
	primaryHash := crypto.Keccak256Hash(plan.primaryInit)
	primary := Address(factory, generated, primaryHash)

	secondaryInit := plan.secondaryInitCode(primary, o)
	secondaryHash := crypto.Keccak256Hash(secondaryInit)
	secondarySalt := SecondarySalt(primary)

	return &Derivation{
		Scheme:                domain.SchemeLinkedContracts,
		Variant:               plan.variant,
		Factory:               factory,
		Salt:                  salt,
		GeneratedSalt:         generated,
		PrimaryInitCode:       plan.primaryInit,
		PrimaryInitCodeHash:   primaryHash,
		Primary:               primary,
		SecondarySalt:         secondarySalt,
		SecondaryInitCode:     secondaryInit,
		SecondaryInitCodeHash: secondaryHash,
		Secondary:             Address(factory, secondarySalt, secondaryHash),
	}, nil
}
