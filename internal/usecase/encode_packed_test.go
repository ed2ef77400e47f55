package usecase_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

func TestEncodePacked(t *testing.T) {
	uc := usecase.NewEncodePacked()

	result, err := uc.Run(context.Background(), usecase.EncodePackedParams{
		Types:  []string{"bool", "address", "uint16", "bytes"},
		Values: []string{"true", testOwner.Hex(), "258", "0xbeef"},
	})
	require.NoError(t, err)

	want := append([]byte{0x01}, testOwner.Bytes()...)
	want = append(want, 0x01, 0x02, 0xbe, 0xef)
	assert.Equal(t, want, result.Encoded)
	assert.Equal(t, crypto.Keccak256Hash(want), result.Hash)

	t.Run("no values", func(t *testing.T) {
		result, err := uc.Run(context.Background(), usecase.EncodePackedParams{})
		require.NoError(t, err)
		assert.Empty(t, result.Encoded)
		assert.Equal(t, common.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"), result.Hash)
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		_, err := uc.Run(context.Background(), usecase.EncodePackedParams{Types: []string{"bool"}})
		assert.EqualError(t, err, "got 1 types but 0 values")
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := uc.Run(context.Background(), usecase.EncodePackedParams{Types: []string{"int8"}, Values: []string{"1"}})
		assert.ErrorContains(t, err, "unsupported type int8")
	})
}
