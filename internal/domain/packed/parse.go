package packed

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/salt"
)

// fixedRules is applied to bytesN values other than bytes32
var fixedRules = salt.Rules{AllowShorter: true}

// uintRules accepts decimal text or short hex for uintN values
var uintRules = salt.Rules{AllowShorter: true, AllowNumber: true}

// Parse builds a Value of the named Solidity type from user text
func Parse(typ, text string) (Value, error) {
	typ = strings.TrimSpace(typ)
	text = strings.TrimSpace(text)

	switch {
	case typ == TypeBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, fmt.Errorf("invalid bool %q", text)
		}
		return Bool(b), nil

	case typ == TypeAddress:
		addr, err := domain.ParseAddress(text)
		if err != nil {
			return Value{}, err
		}
		return Address(addr), nil

	case typ == TypeBytes:
		b, err := domain.ParseHexBytes(text)
		if err != nil {
			return Value{}, err
		}
		return Bytes(b), nil

	case typ == TypeBytes32:
		s, err := salt.Normalize(text)
		if err != nil {
			return Value{}, err
		}
		return Bytes32(s), nil

	case strings.HasPrefix(typ, "bytes"):
		size, err := strconv.Atoi(strings.TrimPrefix(typ, "bytes"))
		if err != nil || size < 1 || size > 32 {
			return Value{}, fmt.Errorf("unsupported type %s", typ)
		}
		b, err := salt.NormalizeFixed(text, size, fixedRules)
		if err != nil {
			return Value{}, err
		}
		return FixedBytes(b, size), nil

	case strings.HasPrefix(typ, "uint"):
		bits := bitsOf(typ)
		if bits == 0 && typ == "uint" {
			bits = 256
		}
		if bits < 8 || bits > 256 || bits%8 != 0 {
			return Value{}, fmt.Errorf("unsupported type %s", typ)
		}
		b, err := salt.NormalizeFixed(text, bits/8, uintRules)
		if err != nil {
			return Value{}, err
		}
		return Uint(bits, new(big.Int).SetBytes(b)), nil

	default:
		return Value{}, fmt.Errorf("unsupported type %s", typ)
	}
}

// ParseAll pairs types with texts positionally
func ParseAll(types, texts []string) ([]Value, error) {
	if len(types) != len(texts) {
		return nil, fmt.Errorf("got %d types but %d values", len(types), len(texts))
	}
	values := make([]Value, 0, len(types))
	for i := range types {
		v, err := Parse(types[i], texts[i])
		if err != nil {
			return nil, fmt.Errorf("value %d (%s): %w", i, types[i], err)
		}
		values = append(values, v)
	}
	return values, nil
}
