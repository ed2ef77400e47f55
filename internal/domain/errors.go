package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for domain operations
var (
	// ErrInvalidSalt is returned when salt text is blank or cannot be normalized
	ErrInvalidSalt = errors.New("invalid salt")

	// ErrOverflow is returned when a value does not fit its encoded width
	ErrOverflow = errors.New("overflow: value too big for storage type")

	// ErrUnsupportedScheme is returned for unknown deployer schemes or spec variants a scheme cannot serve
	ErrUnsupportedScheme = errors.New("unsupported deployer scheme")

	// ErrInvalidAddress is returned when an address is not 20 bytes of hex
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidByteLength is returned when a fixed-size hex value has the wrong length
	ErrInvalidByteLength = errors.New("invalid byte length")

	// ErrRegistryConflict is returned when a salt is already recorded with a different address
	ErrRegistryConflict = errors.New("registry conflict")

	// ErrRegistryIO is returned when the salt registry cannot be read or written
	ErrRegistryIO = errors.New("registry i/o error")

	// ErrUnknownContract is returned when a contract name has no loaded artifact
	ErrUnknownContract = errors.New("unknown contract")

	// ErrAddressMismatch is returned when a reported address differs from the derived one
	ErrAddressMismatch = errors.New("address mismatch")

	// ErrInvalidPrefix is returned when a mining prefix is not hexadecimal or too long
	ErrInvalidPrefix = errors.New("invalid address prefix")

	// ErrNetworkNotFound is returned when a network name is not configured
	ErrNetworkNotFound = errors.New("network not found")

	// ErrMissingChainID is returned when a registry operation has no chain to scope to
	ErrMissingChainID = errors.New("chain ID required")
)

// RegistryConflictErr describes a salt that already maps to another address.
type RegistryConflictErr struct {
	Key       RegistryKey
	Salt      Salt
	Existing  common.Address
	Attempted common.Address
}

func (e *RegistryConflictErr) Error() string {
	return fmt.Sprintf("salt %s already recorded for %s as %s (refusing to overwrite with %s)",
		e.Salt.Hex(), e.Key, e.Existing.Hex(), e.Attempted.Hex())
}

func (e *RegistryConflictErr) Unwrap() error {
	return ErrRegistryConflict
}

// UnknownContractErr is returned by the artifact registry for names it does not hold.
type UnknownContractErr struct {
	Name      string
	Available []string
}

func (e *UnknownContractErr) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown contract %q: no artifacts loaded", e.Name)
	}

	names := make([]string, len(e.Available))
	copy(names, e.Available)
	sort.Strings(names)

	var suggestions []string
	for _, name := range names {
		suggestions = append(suggestions, "  - "+name)
	}

	return fmt.Sprintf("unknown contract %q, available contracts:\n%s", e.Name, strings.Join(suggestions, "\n"))
}

func (e *UnknownContractErr) Unwrap() error {
	return ErrUnknownContract
}

// AddressMismatchErr is returned when an externally reported address disagrees with derivation.
type AddressMismatchErr struct {
	Role     string
	Reported common.Address
	Derived  common.Address
}

func (e *AddressMismatchErr) Error() string {
	return fmt.Sprintf("%s address mismatch: reported %s but derivation gives %s",
		e.Role, e.Reported.Hex(), e.Derived.Hex())
}

func (e *AddressMismatchErr) Unwrap() error {
	return ErrAddressMismatch
}
