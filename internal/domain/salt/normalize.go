// Package salt turns user supplied salt material into canonical 32-byte salts.
package salt

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
)

// Rules controls which input forms NormalizeFixed accepts for a given width
type Rules struct {
	// AllowShorter left-pads hex values shorter than the width with zero nibbles
	AllowShorter bool
	// AllowLonger replaces hex values longer than the width by their Keccak-256 hash
	AllowLonger bool
	// AllowText replaces non-numeric text by the Keccak-256 hash of its UTF-8 bytes
	AllowText bool
	// AllowNumber converts decimal integers to big-endian bytes
	AllowNumber bool
}

// SaltRules accepts every form: salts are total over non-blank input
var SaltRules = Rules{AllowShorter: true, AllowLonger: true, AllowText: true, AllowNumber: true}

// Normalize converts raw salt text into a canonical salt:
//
//	0x + 64 hex digits  -> unchanged
//	shorter 0x hex      -> left-padded with zero nibbles
//	longer 0x hex       -> keccak256 of the decoded bytes
//	decimal integer     -> big-endian, left-padded to 32 bytes
//	anything else       -> keccak256 of the UTF-8 text
func Normalize(raw string) (domain.Salt, error) {
	var s domain.Salt
	if isBlank(raw) {
		return s, fmt.Errorf("%w: blank salt ('%s')", domain.ErrInvalidSalt, raw)
	}

	b, err := NormalizeFixed(raw, domain.SaltLength, SaltRules)
	if err != nil {
		return s, err
	}
	copy(s[:], b)
	return s, nil
}

// NormalizeFixed applies the normalization rules for a value of size bytes
func NormalizeFixed(raw string, size int, rules Rules) ([]byte, error) {
	if size < 1 || size > 32 {
		return nil, fmt.Errorf("unsupported width %d", size)
	}
	if isBlank(raw) {
		return nil, fmt.Errorf("%w: blank value ('%s')", domain.ErrInvalidByteLength, raw)
	}

	want := 2 * size
	if isHexString(raw) {
		digits := strings.ToLower(raw[2:])
		switch {
		case len(digits) == want:
			return hex.DecodeString(digits)
		case len(digits) < want && rules.AllowShorter:
			return hex.DecodeString(strings.Repeat("0", want-len(digits)) + digits)
		case len(digits) > want && rules.AllowLonger:
			if len(digits)%2 == 1 {
				digits = "0" + digits
			}
			decoded, err := hex.DecodeString(digits)
			if err != nil {
				return nil, err
			}
			return crypto.Keccak256(decoded)[:size], nil
		default:
			return nil, fmt.Errorf("%w: bytes%d must be exactly %d bytes, got %q", domain.ErrInvalidByteLength, size, size, raw)
		}
	}

	if isDecimal(raw) {
		if !rules.AllowNumber {
			return nil, fmt.Errorf("%w: numbers are not accepted for bytes%d ('%s')", domain.ErrInvalidByteLength, size, raw)
		}
		n, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return nil, fmt.Errorf("%w: invalid number ('%s')", domain.ErrInvalidByteLength, raw)
		}
		b := n.Bytes()
		if len(b) > size {
			return nil, fmt.Errorf("%w: %s needs %d bytes, width is %d", domain.ErrOverflow, raw, len(b), size)
		}
		out := make([]byte, size)
		copy(out[size-len(b):], b)
		return out, nil
	}

	if rules.AllowText {
		return crypto.Keccak256([]byte(raw))[:size], nil
	}
	return nil, fmt.Errorf("%w: invalid bytes%d value ('%s')", domain.ErrInvalidByteLength, size, raw)
}

// Form names how Normalize interprets salt text
type Form string

const (
	FormCanonical Form = "canonical"
	FormPadded    Form = "padded-hex"
	FormHashedHex Form = "hashed-hex"
	FormNumber    Form = "number"
	FormText      Form = "text"
	FormInvalid   Form = "invalid"
)

// Classify reports which normalization rule applies to raw
func Classify(raw string) Form {
	switch {
	case isBlank(raw):
		return FormInvalid
	case isHexString(raw):
		digits := len(raw) - 2
		switch {
		case digits == 2*domain.SaltLength:
			return FormCanonical
		case digits < 2*domain.SaltLength:
			return FormPadded
		default:
			return FormHashedHex
		}
	case isDecimal(raw):
		return FormNumber
	default:
		return FormText
	}
}

// Random draws a salt from r, or from crypto/rand when r is nil
func Random(r io.Reader) (domain.Salt, error) {
	if r == nil {
		r = rand.Reader
	}
	var s domain.Salt
	if _, err := io.ReadFull(r, s[:]); err != nil {
		return s, fmt.Errorf("failed to read random salt: %w", err)
	}
	return s, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// isHexString matches 0x followed by zero or more hex digits
func isHexString(s string) bool {
	if !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, c := range s[2:] {
		if !isHexDigit(c) {
			return false
		}
	}
	return true
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
