package bindings

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
)

// PrimaryContractDeployment is the LSP23 primary deployment tuple
type PrimaryContractDeployment struct {
	Salt             [32]byte
	FundingAmount    *big.Int
	CreationBytecode []byte
}

// SecondaryContractDeployment is the LSP23 secondary deployment tuple
type SecondaryContractDeployment struct {
	FundingAmount             *big.Int
	CreationBytecode          []byte
	AddPrimaryContractAddress bool
	ExtraConstructorParams    []byte
}

// PrimaryContractDeploymentInit is the LSP23 primary clone tuple
type PrimaryContractDeploymentInit struct {
	Salt                   [32]byte
	FundingAmount          *big.Int
	ImplementationContract common.Address
	InitializationCalldata []byte
}

// SecondaryContractDeploymentInit is the LSP23 secondary clone tuple
type SecondaryContractDeploymentInit struct {
	FundingAmount             *big.Int
	ImplementationContract    common.Address
	InitializationCalldata    []byte
	AddPrimaryContractAddress bool
	ExtraInitializationParams []byte
}

const (
	lsp23Primary        = `{"name":"primaryContractDeployment","type":"tuple","components":[{"name":"salt","type":"bytes32"},{"name":"fundingAmount","type":"uint256"},{"name":"creationBytecode","type":"bytes"}]}`
	lsp23Secondary      = `{"name":"secondaryContractDeployment","type":"tuple","components":[{"name":"fundingAmount","type":"uint256"},{"name":"creationBytecode","type":"bytes"},{"name":"addPrimaryContractAddress","type":"bool"},{"name":"extraConstructorParams","type":"bytes"}]}`
	lsp23PrimaryInit    = `{"name":"primaryContractDeploymentInit","type":"tuple","components":[{"name":"salt","type":"bytes32"},{"name":"fundingAmount","type":"uint256"},{"name":"implementationContract","type":"address"},{"name":"initializationCalldata","type":"bytes"}]}`
	lsp23SecondaryInit  = `{"name":"secondaryContractDeploymentInit","type":"tuple","components":[{"name":"fundingAmount","type":"uint256"},{"name":"implementationContract","type":"address"},{"name":"initializationCalldata","type":"bytes"},{"name":"addPrimaryContractAddress","type":"bool"},{"name":"extraInitializationParams","type":"bytes"}]}`
	lsp23Module         = `{"name":"postDeploymentModule","type":"address"},{"name":"postDeploymentModuleCalldata","type":"bytes"}`
	lsp23AddressOutputs = `[{"name":"primaryContractAddress","type":"address"},{"name":"secondaryContractAddress","type":"address"}]`
	lsp23BytecodeInputs = `[` + lsp23Primary + `,` + lsp23Secondary + `,` + lsp23Module + `]`
	lsp23ProxyInputs    = `[` + lsp23PrimaryInit + `,` + lsp23SecondaryInit + `,` + lsp23Module + `]`
)

// LinkedContractsFactoryMetaData contains the LSP23 LinkedContractsFactory ABI.
var LinkedContractsFactoryMetaData = bind.MetaData{
	ABI: `[
  {"type":"function","name":"deployContracts","stateMutability":"payable","inputs":` + lsp23BytecodeInputs + `,"outputs":` + lsp23AddressOutputs + `},
  {"type":"function","name":"deployERC1167Proxies","stateMutability":"payable","inputs":` + lsp23ProxyInputs + `,"outputs":` + lsp23AddressOutputs + `},
  {"type":"function","name":"computeAddresses","stateMutability":"view","inputs":` + lsp23BytecodeInputs + `,"outputs":` + lsp23AddressOutputs + `},
  {"type":"function","name":"computeERC1167Addresses","stateMutability":"view","inputs":` + lsp23ProxyInputs + `,"outputs":` + lsp23AddressOutputs + `}
]`,
	ID: "LinkedContractsFactory",
}

// LinkedContractsFactory is a Go binding around the LSP23 LinkedContractsFactory.
type LinkedContractsFactory struct {
	abi abi.ABI
}

// NewLinkedContractsFactory creates a new instance of LinkedContractsFactory.
func NewLinkedContractsFactory() *LinkedContractsFactory {
	parsed, err := LinkedContractsFactoryMetaData.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &LinkedContractsFactory{abi: *parsed}
}

// ABI returns the parsed factory ABI
func (f *LinkedContractsFactory) ABI() *abi.ABI {
	return &f.abi
}

// TryPackDeployContracts packs deployContracts(primary, secondary, module, moduleCalldata)
func (f *LinkedContractsFactory) TryPackDeployContracts(primary PrimaryContractDeployment, secondary SecondaryContractDeployment, module common.Address, moduleCalldata []byte) ([]byte, error) {
	return f.abi.Pack("deployContracts", primary, secondary, module, moduleCalldata)
}

// TryPackDeployERC1167Proxies packs deployERC1167Proxies(primary, secondary, module, moduleCalldata)
func (f *LinkedContractsFactory) TryPackDeployERC1167Proxies(primary PrimaryContractDeploymentInit, secondary SecondaryContractDeploymentInit, module common.Address, moduleCalldata []byte) ([]byte, error) {
	return f.abi.Pack("deployERC1167Proxies", primary, secondary, module, moduleCalldata)
}

// TryPackComputeAddresses packs computeAddresses with the deployContracts arguments
func (f *LinkedContractsFactory) TryPackComputeAddresses(primary PrimaryContractDeployment, secondary SecondaryContractDeployment, module common.Address, moduleCalldata []byte) ([]byte, error) {
	return f.abi.Pack("computeAddresses", primary, secondary, module, moduleCalldata)
}

// TryPackComputeERC1167Addresses packs computeERC1167Addresses with the deployERC1167Proxies arguments
func (f *LinkedContractsFactory) TryPackComputeERC1167Addresses(primary PrimaryContractDeploymentInit, secondary SecondaryContractDeploymentInit, module common.Address, moduleCalldata []byte) ([]byte, error) {
	return f.abi.Pack("computeERC1167Addresses", primary, secondary, module, moduleCalldata)
}

// UnpackAddresses unpacks the (primary, secondary) pair returned by the deploy and compute methods
func (f *LinkedContractsFactory) UnpackAddresses(method string, data []byte) (common.Address, common.Address, error) {
	out, err := f.abi.Unpack(method, data)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	primary := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	secondary := *abi.ConvertType(out[1], new(common.Address)).(*common.Address)
	return primary, secondary, nil
}
