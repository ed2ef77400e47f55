package domain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// SaltLength is the byte size of a CREATE2 salt
const SaltLength = 32

// Salt is a 32-byte value mixed into the CREATE2 formula
type Salt [SaltLength]byte

// Hex returns the canonical form: 0x followed by 64 lowercase hex digits
func (s Salt) Hex() string {
	return hexutil.Encode(s[:])
}

func (s Salt) String() string {
	return s.Hex()
}

// Bytes returns a copy of the salt as a byte slice
func (s Salt) Bytes() []byte {
	b := make([]byte, SaltLength)
	copy(b, s[:])
	return b
}

// Hash converts the salt to a go-ethereum hash
func (s Salt) Hash() common.Hash {
	return common.Hash(s)
}

// MarshalText implements encoding.TextMarshaler so salts can be JSON map keys
func (s Salt) MarshalText() ([]byte, error) {
	return []byte(s.Hex()), nil
}

// UnmarshalText accepts only the canonical 0x + 64 hex digit form
func (s *Salt) UnmarshalText(text []byte) error {
	parsed, err := ParseSalt(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSalt parses an already canonical salt. Use the salt package to normalize free-form input.
func ParseSalt(s string) (Salt, error) {
	var salt Salt
	if len(s) != 2+2*SaltLength || !strings.HasPrefix(s, "0x") {
		return salt, fmt.Errorf("%w: %q is not 0x followed by 64 hex digits", ErrInvalidSalt, s)
	}
	if _, err := hex.Decode(salt[:], []byte(s[2:])); err != nil {
		return Salt{}, fmt.Errorf("%w: %q: %v", ErrInvalidSalt, s, err)
	}
	return salt, nil
}

// ParseAddress parses a 20-byte hex address, with or without 0x prefix
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// ParseHexBytes decodes 0x-prefixed hex. An empty string and "0x" both yield empty bytes.
func ParseHexBytes(s string) ([]byte, error) {
	if s == "" || s == "0x" {
		return []byte{}, nil
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex bytes %q: %w", s, err)
	}
	return b, nil
}

// Scheme identifies which deterministic deployment factory is used
type Scheme string

const (
	// SchemeUniversalFactory is the LSP16 single-contract factory (scheme A)
	SchemeUniversalFactory Scheme = "lsp16"
	// SchemeLinkedContracts is the LSP23 linked dual-contract factory (scheme B)
	SchemeLinkedContracts Scheme = "lsp23"
)

// Schemes returns every supported scheme
func Schemes() []Scheme {
	return []Scheme{SchemeUniversalFactory, SchemeLinkedContracts}
}

// ParseScheme parses a scheme name case-insensitively
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case SchemeUniversalFactory:
		return SchemeUniversalFactory, nil
	case SchemeLinkedContracts:
		return SchemeLinkedContracts, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: lsp16, lsp23)", ErrUnsupportedScheme, s)
	}
}

// Label returns a human readable factory name
func (s Scheme) Label() string {
	switch s {
	case SchemeUniversalFactory:
		return "LSP16 UniversalFactory"
	case SchemeLinkedContracts:
		return "LSP23 LinkedContractsFactory"
	default:
		return string(s)
	}
}

// NormalizeIdentifier canonicalizes registry identifiers: addresses are checksummed, names kept as-is
func NormalizeIdentifier(id string) string {
	id = strings.TrimSpace(id)
	if common.IsHexAddress(id) {
		return common.HexToAddress(id).Hex()
	}
	return id
}
