package bindings

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
)

// UniversalFactoryMetaData contains the LSP16 UniversalFactory ABI.
var UniversalFactoryMetaData = bind.MetaData{
	ABI: `[
  {"type":"function","name":"deployCreate2","stateMutability":"payable",
   "inputs":[{"name":"creationBytecode","type":"bytes"},{"name":"providedSalt","type":"bytes32"}],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"deployCreate2AndInitialize","stateMutability":"payable",
   "inputs":[{"name":"creationBytecode","type":"bytes"},{"name":"providedSalt","type":"bytes32"},{"name":"initializeCalldata","type":"bytes"},{"name":"constructorMsgValue","type":"uint256"},{"name":"initializeCalldataMsgValue","type":"uint256"}],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"deployERC1167Proxy","stateMutability":"nonpayable",
   "inputs":[{"name":"implementationContract","type":"address"},{"name":"providedSalt","type":"bytes32"}],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"deployERC1167ProxyAndInitialize","stateMutability":"payable",
   "inputs":[{"name":"implementationContract","type":"address"},{"name":"providedSalt","type":"bytes32"},{"name":"initializeCalldata","type":"bytes"}],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"computeAddress","stateMutability":"view",
   "inputs":[{"name":"creationBytecodeHash","type":"bytes32"},{"name":"providedSalt","type":"bytes32"},{"name":"initializable","type":"bool"},{"name":"initializeCalldata","type":"bytes"}],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"computeERC1167Address","stateMutability":"view",
   "inputs":[{"name":"implementationContract","type":"address"},{"name":"providedSalt","type":"bytes32"},{"name":"initializable","type":"bool"},{"name":"initializeCalldata","type":"bytes"}],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"generateSalt","stateMutability":"pure",
   "inputs":[{"name":"providedSalt","type":"bytes32"},{"name":"initializable","type":"bool"},{"name":"initializeCalldata","type":"bytes"}],
   "outputs":[{"name":"","type":"bytes32"}]},
  {"type":"event","name":"ContractCreated","anonymous":false,
   "inputs":[{"name":"createdContract","type":"address","indexed":true},{"name":"providedSalt","type":"bytes32","indexed":true},{"name":"generatedSalt","type":"bytes32","indexed":false},{"name":"initialized","type":"bool","indexed":true},{"name":"initializeCalldata","type":"bytes","indexed":false}]}
]`,
	ID: "UniversalFactory",
}

// UniversalFactory is a Go binding around the LSP16 UniversalFactory.
type UniversalFactory struct {
	abi abi.ABI
}

// NewUniversalFactory creates a new instance of UniversalFactory.
func NewUniversalFactory() *UniversalFactory {
	parsed, err := UniversalFactoryMetaData.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &UniversalFactory{abi: *parsed}
}

// ABI returns the parsed factory ABI
func (f *UniversalFactory) ABI() *abi.ABI {
	return &f.abi
}

// TryPackDeployCreate2 packs deployCreate2(bytes creationBytecode, bytes32 providedSalt)
func (f *UniversalFactory) TryPackDeployCreate2(creationBytecode []byte, providedSalt [32]byte) ([]byte, error) {
	return f.abi.Pack("deployCreate2", creationBytecode, providedSalt)
}

// TryPackDeployCreate2AndInitialize packs deployCreate2AndInitialize(bytes, bytes32, bytes, uint256, uint256)
func (f *UniversalFactory) TryPackDeployCreate2AndInitialize(creationBytecode []byte, providedSalt [32]byte, initializeCalldata []byte, constructorMsgValue, initializeCalldataMsgValue *big.Int) ([]byte, error) {
	return f.abi.Pack("deployCreate2AndInitialize", creationBytecode, providedSalt, initializeCalldata, constructorMsgValue, initializeCalldataMsgValue)
}

// TryPackDeployERC1167Proxy packs deployERC1167Proxy(address implementationContract, bytes32 providedSalt)
func (f *UniversalFactory) TryPackDeployERC1167Proxy(implementationContract common.Address, providedSalt [32]byte) ([]byte, error) {
	return f.abi.Pack("deployERC1167Proxy", implementationContract, providedSalt)
}

// TryPackDeployERC1167ProxyAndInitialize packs deployERC1167ProxyAndInitialize(address, bytes32, bytes)
func (f *UniversalFactory) TryPackDeployERC1167ProxyAndInitialize(implementationContract common.Address, providedSalt [32]byte, initializeCalldata []byte) ([]byte, error) {
	return f.abi.Pack("deployERC1167ProxyAndInitialize", implementationContract, providedSalt, initializeCalldata)
}

// TryPackComputeAddress packs computeAddress(bytes32, bytes32, bool, bytes)
func (f *UniversalFactory) TryPackComputeAddress(creationBytecodeHash, providedSalt [32]byte, initializable bool, initializeCalldata []byte) ([]byte, error) {
	return f.abi.Pack("computeAddress", creationBytecodeHash, providedSalt, initializable, initializeCalldata)
}

// TryPackComputeERC1167Address packs computeERC1167Address(address, bytes32, bool, bytes)
func (f *UniversalFactory) TryPackComputeERC1167Address(implementationContract common.Address, providedSalt [32]byte, initializable bool, initializeCalldata []byte) ([]byte, error) {
	return f.abi.Pack("computeERC1167Address", implementationContract, providedSalt, initializable, initializeCalldata)
}

// TryPackGenerateSalt packs generateSalt(bytes32, bool, bytes)
func (f *UniversalFactory) TryPackGenerateSalt(providedSalt [32]byte, initializable bool, initializeCalldata []byte) ([]byte, error) {
	return f.abi.Pack("generateSalt", providedSalt, initializable, initializeCalldata)
}

// UnpackAddress unpacks the single address returned by the compute and deploy methods
func (f *UniversalFactory) UnpackAddress(method string, data []byte) (common.Address, error) {
	out, err := f.abi.Unpack(method, data)
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// UnpackGenerateSalt unpacks the bytes32 returned by generateSalt
func (f *UniversalFactory) UnpackGenerateSalt(data []byte) ([32]byte, error) {
	out, err := f.abi.Unpack("generateSalt", data)
	if err != nil {
		return [32]byte{}, err
	}
	return *abi.ConvertType(out[0], new([32]byte)).(*[32]byte), nil
}
