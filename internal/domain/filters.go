package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// RegistryKey scopes recorded salts: chain, scheme, contract identifier and owner/args fingerprint
type RegistryKey struct {
	ChainID  uint64
	Scheme   Scheme
	Contract string
	Owner    string
}

// String renders the key as chain/scheme/contract/owner
func (k RegistryKey) String() string {
	return fmt.Sprintf("%d/%s/%s/%s", k.ChainID, k.Scheme, k.Contract, k.Owner)
}

// Normalize returns the key with canonical identifier casing
func (k RegistryKey) Normalize() RegistryKey {
	return RegistryKey{
		ChainID:  k.ChainID,
		Scheme:   k.Scheme,
		Contract: NormalizeIdentifier(k.Contract),
		Owner:    NormalizeIdentifier(k.Owner),
	}
}

// Validate checks that every level of the key is populated
func (k RegistryKey) Validate() error {
	if k.ChainID == 0 {
		return ErrMissingChainID
	}
	if _, err := ParseScheme(string(k.Scheme)); err != nil {
		return err
	}
	if strings.TrimSpace(k.Contract) == "" {
		return fmt.Errorf("registry key: contract identifier is required")
	}
	if strings.TrimSpace(k.Owner) == "" {
		return fmt.Errorf("registry key: owner or arguments fingerprint is required")
	}
	return nil
}

// RegistryEntry is one salt -> address record under a key
type RegistryEntry struct {
	Key     RegistryKey
	Salt    Salt
	Address common.Address
}

// RegistryFilter selects scopes from the registry. Zero values match everything.
type RegistryFilter struct {
	ChainID  uint64
	Scheme   Scheme
	Contract string
	Owner    string
}

// Matches reports whether the key falls inside the filter
func (f RegistryFilter) Matches(k RegistryKey) bool {
	if f.ChainID != 0 && k.ChainID != f.ChainID {
		return false
	}
	if f.Scheme != "" && k.Scheme != f.Scheme {
		return false
	}
	if f.Contract != "" && NormalizeIdentifier(f.Contract) != k.Contract {
		return false
	}
	if f.Owner != "" && NormalizeIdentifier(f.Owner) != k.Owner {
		return false
	}
	return true
}
