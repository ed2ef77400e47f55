package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/trebuchet-org/lspdeploy/internal/domain/packed"
)

// EncodePackedParams contains Solidity types and values to pack, positionally
type EncodePackedParams struct {
	Types  []string
	Values []string
}

// EncodePackedResult contains the packed bytes and their Keccak-256 hash
type EncodePackedResult struct {
	Encoded []byte
	Hash    common.Hash
}

// EncodePacked is the use case behind `encode`: abi.encodePacked plus keccak256
type EncodePacked struct{}

// NewEncodePacked creates a new EncodePacked use case
func NewEncodePacked() *EncodePacked {
	return &EncodePacked{}
}

// Run executes the use case
func (uc *EncodePacked) Run(_ context.Context, params EncodePackedParams) (*EncodePackedResult, error) {
	values, err := packed.ParseAll(params.Types, params.Values)
	if err != nil {
		return nil, err
	}
	encoded, err := packed.Encode(values...)
	if err != nil {
		return nil, err
	}
	return &EncodePackedResult{
		Encoded: encoded,
		Hash:    crypto.Keccak256Hash(encoded),
	}, nil
}
