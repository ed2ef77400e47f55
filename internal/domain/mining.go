package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// MaxPrefixNibbles is the number of hex digits in an address
const MaxPrefixNibbles = 2 * common.AddressLength

// MinedSalt is a salt found by the miner together with the address it derives to
type MinedSalt struct {
	Salt    Salt           `json:"salt"`
	Address common.Address `json:"address"`
}

// AddressPrefix is a lowercase hex prefix an address must start with
type AddressPrefix struct {
	nibbles []byte
}

// ParseAddressPrefix accepts an optional 0x followed by at most 40 hex digits, in any case
func ParseAddressPrefix(s string) (AddressPrefix, error) {
	text := strings.TrimSpace(s)
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		text = text[2:]
	}
	if len(text) > MaxPrefixNibbles {
		return AddressPrefix{}, fmt.Errorf("%w: %q has %d hex digits, an address has %d", ErrInvalidPrefix, s, len(text), MaxPrefixNibbles)
	}

	nibbles := make([]byte, len(text))
	for i := 0; i < len(text); i++ {
		n, ok := nibble(text[i])
		if !ok {
			return AddressPrefix{}, fmt.Errorf("%w: %q is not hexadecimal", ErrInvalidPrefix, s)
		}
		nibbles[i] = n
	}
	return AddressPrefix{nibbles: nibbles}, nil
}

// Len is the number of hex digits in the prefix
func (p AddressPrefix) Len() int {
	return len(p.nibbles)
}

// String returns the prefix as lowercase hex without 0x
func (p AddressPrefix) String() string {
	const digits = "0123456789abcdef"
	var b strings.Builder
	for _, n := range p.nibbles {
		b.WriteByte(digits[n])
	}
	return b.String()
}

// Matches reports whether the lowercase hex of addr starts with the prefix
func (p AddressPrefix) Matches(addr common.Address) bool {
	for i, want := range p.nibbles {
		got := addr[i/2]
		if i%2 == 0 {
			got >>= 4
		} else {
			got &= 0x0f
		}
		if got != want {
			return false
		}
	}
	return true
}

// ExpectedAttempts is the mean number of tries needed to hit the prefix once
func (p AddressPrefix) ExpectedAttempts() float64 {
	expected := 1.0
	for range p.nibbles {
		expected *= 16
	}
	return expected
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
