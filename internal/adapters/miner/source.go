package miner

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	mrand "math/rand/v2"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/lspdeploy/internal/domain/salt"
)

// Source hands each worker the reader it draws salts from. A reader is only used
// by the worker it was created for.
type Source func(worker int) io.Reader

// CryptoSource reads every worker's salts from crypto/rand
func CryptoSource() Source {
	return func(int) io.Reader {
		return rand.Reader
	}
}

// SeededSource gives every worker its own ChaCha8 stream keyed by keccak256(seed ++ worker).
// The same seed and worker count always produce the same candidates per worker.
func SeededSource(seed [32]byte) Source {
	return func(worker int) io.Reader {
		var index [8]byte
		binary.BigEndian.PutUint64(index[:], uint64(worker))
		return mrand.NewChaCha8(crypto.Keccak256Hash(seed[:], index[:]))
	}
}

// ParseSeed turns seed text into a 32-byte seed using the salt normalization rules
func ParseSeed(text string) ([32]byte, error) {
	s, err := salt.Normalize(text)
	if err != nil {
		return [32]byte{}, fmt.Errorf("invalid mining seed: %w", err)
	}
	return s, nil
}
