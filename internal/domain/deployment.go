package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SpecKind names a DeploymentSpec variant
type SpecKind string

const (
	SpecProxyInitializable    SpecKind = "proxy"
	SpecProxyNonInitializable SpecKind = "proxy-noinit"
	SpecRawBytecode           SpecKind = "bytecode"
	SpecLinkedPair            SpecKind = "linked"
)

// DeploymentSpec describes what is being deployed. The set of variants is closed:
// ProxyInitializable, ProxyNonInitializable, RawBytecode and LinkedPair.
type DeploymentSpec interface {
	Kind() SpecKind
	isDeploymentSpec()
}

// ProxyInitializable deploys an EIP-1167 clone of Implementation and calls it with InitializeCalldata
type ProxyInitializable struct {
	Implementation     common.Address
	InitializeCalldata []byte

	// Wei forwarded to the clone creation and to the initialize call
	ConstructorValue *big.Int
	InitializeValue  *big.Int
}

// ProxyNonInitializable deploys an EIP-1167 clone of Implementation without an initialize call
type ProxyNonInitializable struct {
	Implementation common.Address
	Value          *big.Int
}

// RawBytecode deploys full creation bytecode, constructor arguments already appended
type RawBytecode struct {
	CreationBytecode []byte
	Value            *big.Int
}

// LinkedPair deploys a primary and a secondary contract together through the linked factory.
// Primary and Secondary must both be RawBytecode or both be ProxyInitializable.
type LinkedPair struct {
	Primary   DeploymentSpec
	Secondary DeploymentSpec

	// LinkSecondaryToPrimary appends the primary address to the secondary's constructor
	// (or initialization) arguments, followed by ExtraSecondaryParams
	LinkSecondaryToPrimary bool
	ExtraSecondaryParams   []byte

	PostDeploymentModule   common.Address
	PostDeploymentCalldata []byte

	PrimaryFunding   *big.Int
	SecondaryFunding *big.Int
}

func (ProxyInitializable) Kind() SpecKind    { return SpecProxyInitializable }
func (ProxyNonInitializable) Kind() SpecKind { return SpecProxyNonInitializable }
func (RawBytecode) Kind() SpecKind           { return SpecRawBytecode }
func (LinkedPair) Kind() SpecKind            { return SpecLinkedPair }

func (ProxyInitializable) isDeploymentSpec()    {}
func (ProxyNonInitializable) isDeploymentSpec() {}
func (RawBytecode) isDeploymentSpec()           {}
func (LinkedPair) isDeploymentSpec()            {}

// ValueOrZero returns v or a zero big.Int when v is nil
func ValueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
