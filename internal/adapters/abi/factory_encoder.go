package abi

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/trebuchet-org/lspdeploy/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/create2"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// FactoryEncoder builds LSP16 and LSP23 factory calls from deployment specs
type FactoryEncoder struct {
	universal *bindings.UniversalFactory
	linked    *bindings.LinkedContractsFactory
}

// NewFactoryEncoder creates a new factory call encoder
func NewFactoryEncoder() *FactoryEncoder {
	return &FactoryEncoder{
		universal: bindings.NewUniversalFactory(),
		linked:    bindings.NewLinkedContractsFactory(),
	}
}

// EncodeDeployment returns the call that deploys spec through the scheme's factory with salt
func (e *FactoryEncoder) EncodeDeployment(scheme domain.Scheme, factory common.Address, spec domain.DeploymentSpec, salt domain.Salt) (*domain.FactoryCall, error) {
	switch scheme {
	case domain.SchemeUniversalFactory:
		return e.encodeUniversal(factory, spec, salt)
	case domain.SchemeLinkedContracts:
		pair, ok := spec.(domain.LinkedPair)
		if !ok {
			return nil, fmt.Errorf("%w: %s deploys linked pairs, got %T", domain.ErrUnsupportedScheme, scheme.Label(), spec)
		}
		return e.encodeLinked(factory, pair, salt)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedScheme, scheme)
	}
}

// EncodeCompute returns the view call the factory answers with the deployment's address(es)
func (e *FactoryEncoder) EncodeCompute(scheme domain.Scheme, factory common.Address, spec domain.DeploymentSpec, salt domain.Salt) (*domain.FactoryCall, error) {
	pair, linked := spec.(domain.LinkedPair)
	switch {
	case scheme == domain.SchemeLinkedContracts && linked:
		return e.encodeLinkedCompute(factory, pair, salt)
	case scheme == domain.SchemeLinkedContracts:
		return nil, fmt.Errorf("%w: %s deploys linked pairs, got %T", domain.ErrUnsupportedScheme, scheme.Label(), spec)
	case scheme != domain.SchemeUniversalFactory:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedScheme, scheme)
	}

	call := &domain.FactoryCall{To: factory, Value: new(big.Int)}
	var err error

	switch s := spec.(type) {
	case domain.ProxyInitializable:
		call.Method = "computeERC1167Address"
		call.Data, err = e.universal.TryPackComputeERC1167Address(s.Implementation, salt, true, s.InitializeCalldata)
	case domain.ProxyNonInitializable:
		call.Method = "computeERC1167Address"
		call.Data, err = e.universal.TryPackComputeERC1167Address(s.Implementation, salt, false, nil)
	case domain.RawBytecode:
		call.Method = "computeAddress"
		call.Data, err = e.universal.TryPackComputeAddress(hashOf(s.CreationBytecode), salt, false, nil)
	case domain.LinkedPair:
		return nil, fmt.Errorf("%w: linked pairs deploy through %s", domain.ErrUnsupportedScheme, domain.SchemeLinkedContracts.Label())
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnsupportedScheme, spec)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", call.Method, err)
	}
	return call, nil
}

// UnpackComputed decodes the addresses returned by an EncodeCompute call
func (e *FactoryEncoder) UnpackComputed(call *domain.FactoryCall, output []byte) ([]common.Address, error) {
	switch call.Method {
	case "computeAddress", "computeERC1167Address":
		addr, err := e.universal.UnpackAddress(call.Method, output)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s result: %w", call.Method, err)
		}
		return []common.Address{addr}, nil
	case "computeAddresses", "computeERC1167Addresses":
		primary, secondary, err := e.linked.UnpackAddresses(call.Method, output)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s result: %w", call.Method, err)
		}
		return []common.Address{primary, secondary}, nil
	default:
		return nil, fmt.Errorf("not a compute call: %s", call.Method)
	}
}

func (e *FactoryEncoder) encodeUniversal(factory common.Address, spec domain.DeploymentSpec, salt domain.Salt) (*domain.FactoryCall, error) {
	call := &domain.FactoryCall{To: factory}
	var err error

	switch s := spec.(type) {
	case domain.ProxyInitializable:
		call.Method = "deployERC1167ProxyAndInitialize"
		call.Value = sum(s.ConstructorValue, s.InitializeValue)
		call.Data, err = e.universal.TryPackDeployERC1167ProxyAndInitialize(s.Implementation, salt, s.InitializeCalldata)
	case domain.ProxyNonInitializable:
		if domain.ValueOrZero(s.Value).Sign() != 0 {
			return nil, fmt.Errorf("deployERC1167Proxy is not payable, cannot send %s wei", s.Value)
		}
		call.Method = "deployERC1167Proxy"
		call.Value = new(big.Int)
		call.Data, err = e.universal.TryPackDeployERC1167Proxy(s.Implementation, salt)
	case domain.RawBytecode:
		call.Method = "deployCreate2"
		call.Value = sum(s.Value)
		call.Data, err = e.universal.TryPackDeployCreate2(s.CreationBytecode, salt)
	case domain.LinkedPair:
		return nil, fmt.Errorf("%w: linked pairs deploy through %s", domain.ErrUnsupportedScheme, domain.SchemeLinkedContracts.Label())
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnsupportedScheme, spec)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", call.Method, err)
	}
	return call, nil
}

func (e *FactoryEncoder) encodeLinked(factory common.Address, pair domain.LinkedPair, salt domain.Salt) (*domain.FactoryCall, error) {
	variant, err := create2.VariantOf(pair)
	if err != nil {
		return nil, err
	}

	primaryFunding := funding(pair.PrimaryFunding, pair.Primary)
	secondaryFunding := funding(pair.SecondaryFunding, pair.Secondary)
	call := &domain.FactoryCall{To: factory, Value: sum(primaryFunding, secondaryFunding)}

	switch variant {
	case create2.LinkedBytecode:
		primary, secondary := bytecodeTuples(pair, salt, primaryFunding, secondaryFunding)
		call.Method = "deployContracts"
		call.Data, err = e.linked.TryPackDeployContracts(primary, secondary, pair.PostDeploymentModule, nonNil(pair.PostDeploymentCalldata))
	case create2.LinkedProxies:
		primary, secondary := proxyTuples(pair, salt, primaryFunding, secondaryFunding)
		call.Method = "deployERC1167Proxies"
		call.Data, err = e.linked.TryPackDeployERC1167Proxies(primary, secondary, pair.PostDeploymentModule, nonNil(pair.PostDeploymentCalldata))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", call.Method, err)
	}
	return call, nil
}

func (e *FactoryEncoder) encodeLinkedCompute(factory common.Address, pair domain.LinkedPair, salt domain.Salt) (*domain.FactoryCall, error) {
	variant, err := create2.VariantOf(pair)
	if err != nil {
		return nil, err
	}

	primaryFunding := funding(pair.PrimaryFunding, pair.Primary)
	secondaryFunding := funding(pair.SecondaryFunding, pair.Secondary)
	call := &domain.FactoryCall{To: factory, Value: new(big.Int)}

	switch variant {
	case create2.LinkedBytecode:
		primary, secondary := bytecodeTuples(pair, salt, primaryFunding, secondaryFunding)
		call.Method = "computeAddresses"
		call.Data, err = e.linked.TryPackComputeAddresses(primary, secondary, pair.PostDeploymentModule, nonNil(pair.PostDeploymentCalldata))
	case create2.LinkedProxies:
		primary, secondary := proxyTuples(pair, salt, primaryFunding, secondaryFunding)
		call.Method = "computeERC1167Addresses"
		call.Data, err = e.linked.TryPackComputeERC1167Addresses(primary, secondary, pair.PostDeploymentModule, nonNil(pair.PostDeploymentCalldata))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", call.Method, err)
	}
	return call, nil
}

func bytecodeTuples(pair domain.LinkedPair, salt domain.Salt, primaryFunding, secondaryFunding *big.Int) (bindings.PrimaryContractDeployment, bindings.SecondaryContractDeployment) {
	p := pair.Primary.(domain.RawBytecode)
	s := pair.Secondary.(domain.RawBytecode)
	return bindings.PrimaryContractDeployment{
			Salt:             salt,
			FundingAmount:    primaryFunding,
			CreationBytecode: nonNil(p.CreationBytecode),
		}, bindings.SecondaryContractDeployment{
			FundingAmount:             secondaryFunding,
			CreationBytecode:          nonNil(s.CreationBytecode),
			AddPrimaryContractAddress: pair.LinkSecondaryToPrimary,
			ExtraConstructorParams:    nonNil(pair.ExtraSecondaryParams),
		}
}

func proxyTuples(pair domain.LinkedPair, salt domain.Salt, primaryFunding, secondaryFunding *big.Int) (bindings.PrimaryContractDeploymentInit, bindings.SecondaryContractDeploymentInit) {
	p := pair.Primary.(domain.ProxyInitializable)
	s := pair.Secondary.(domain.ProxyInitializable)
	return bindings.PrimaryContractDeploymentInit{
			Salt:                   salt,
			FundingAmount:          primaryFunding,
			ImplementationContract: p.Implementation,
			InitializationCalldata: nonNil(p.InitializeCalldata),
		}, bindings.SecondaryContractDeploymentInit{
			FundingAmount:             secondaryFunding,
			ImplementationContract:    s.Implementation,
			InitializationCalldata:    nonNil(s.InitializeCalldata),
			AddPrimaryContractAddress: pair.LinkSecondaryToPrimary,
			ExtraInitializationParams: nonNil(pair.ExtraSecondaryParams),
		}
}

// funding is the explicit pair funding, or else the value carried by the half's own spec
func funding(explicit *big.Int, spec domain.DeploymentSpec) *big.Int {
	if explicit != nil {
		return explicit
	}
	switch s := spec.(type) {
	case domain.RawBytecode:
		return domain.ValueOrZero(s.Value)
	case domain.ProxyInitializable:
		return sum(s.ConstructorValue, s.InitializeValue)
	default:
		return new(big.Int)
	}
}

func sum(values ...*big.Int) *big.Int {
	total := new(big.Int)
	for _, v := range values {
		if v != nil {
			total.Add(total, v)
		}
	}
	return total
}

func hashOf(code []byte) [32]byte {
	return crypto.Keccak256Hash(code)
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

// Ensure FactoryEncoder implements FactoryEncoder
var _ usecase.FactoryEncoder = (*FactoryEncoder)(nil)
