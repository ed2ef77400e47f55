// Package packed implements Solidity's abi.encodePacked for the primitive types the
// deployment factories hash into their salts.
//
// Packed encoding concatenates raw big-endian bytes without length prefixes, so the
// length of a dynamic bytes value cannot be recovered from the output.
package packed

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
)

// Type names as they appear in Solidity signatures
const (
	TypeBool    = "bool"
	TypeAddress = "address"
	TypeBytes   = "bytes"
	TypeBytes32 = "bytes32"
)

type kind int

const (
	kindBool kind = iota
	kindAddress
	kindFixedBytes
	kindBytes
	kindUint
)

// Value is a typed value awaiting packed encoding. Construct it with the helpers below.
type Value struct {
	kind kind
	typ  string
	size int // byte width for fixed types
	data []byte
	num  *big.Int
}

// Type returns the Solidity type name of the value
func (v Value) Type() string {
	return v.typ
}

// Bool packs to a single 0x00 or 0x01 byte
func Bool(b bool) Value {
	data := []byte{0x00}
	if b {
		data[0] = 0x01
	}
	return Value{kind: kindBool, typ: TypeBool, size: 1, data: data}
}

// Address packs to exactly 20 bytes
func Address(a common.Address) Value {
	return Value{kind: kindAddress, typ: TypeAddress, size: common.AddressLength, data: a.Bytes()}
}

// AddressBytes packs raw address bytes; anything but 20 bytes fails with ErrInvalidAddress
func AddressBytes(b []byte) Value {
	return Value{kind: kindAddress, typ: TypeAddress, size: common.AddressLength, data: b}
}

// Bytes32 packs to exactly 32 bytes
func Bytes32(h [32]byte) Value {
	return Value{kind: kindFixedBytes, typ: TypeBytes32, size: 32, data: h[:]}
}

// FixedBytes packs a bytesN value; len(b) must equal size
func FixedBytes(b []byte, size int) Value {
	return Value{kind: kindFixedBytes, typ: fmt.Sprintf("bytes%d", size), size: size, data: b}
}

// Bytes packs dynamic bytes as-is
func Bytes(b []byte) Value {
	return Value{kind: kindBytes, typ: TypeBytes, data: b}
}

// Uint packs an unsigned integer of the given bit width, left-padded with zero bytes
func Uint(bits int, n *big.Int) Value {
	return Value{kind: kindUint, typ: fmt.Sprintf("uint%d", bits), size: bits / 8, num: n}
}

// Uint64 packs to 8 bytes
func Uint64(n uint64) Value {
	return Uint(64, new(big.Int).SetUint64(n))
}

// Uint128 packs to 16 bytes
func Uint128(n *big.Int) Value {
	return Uint(128, n)
}

// Encode concatenates the packed form of every value
func Encode(values ...Value) ([]byte, error) {
	var out []byte
	for i, v := range values {
		b, err := v.encode()
		if err != nil {
			return nil, fmt.Errorf("value %d (%s): %w", i, v.typ, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// Keccak hashes the packed encoding of values, i.e. keccak256(abi.encodePacked(...))
func Keccak(values ...Value) (common.Hash, error) {
	b, err := Encode(values...)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(b), nil
}

func (v Value) encode() ([]byte, error) {
	switch v.kind {
	case kindBool:
		return v.data, nil
	case kindAddress:
		if len(v.data) != common.AddressLength {
			return nil, fmt.Errorf("%w: got %d bytes, want %d", domain.ErrInvalidAddress, len(v.data), common.AddressLength)
		}
		return v.data, nil
	case kindFixedBytes:
		if v.size < 1 || v.size > 32 {
			return nil, fmt.Errorf("unsupported type %s", v.typ)
		}
		if len(v.data) != v.size {
			return nil, fmt.Errorf("%w: got %d bytes, want %d", domain.ErrInvalidByteLength, len(v.data), v.size)
		}
		return v.data, nil
	case kindBytes:
		return v.data, nil
	case kindUint:
		if v.size < 1 || v.size > 32 || v.size*8 != bitsOf(v.typ) {
			return nil, fmt.Errorf("unsupported type %s", v.typ)
		}
		n := v.num
		if n == nil {
			n = new(big.Int)
		}
		if n.Sign() < 0 || n.BitLen() > v.size*8 {
			return nil, fmt.Errorf("%w: %s does not fit %s", domain.ErrOverflow, n.String(), v.typ)
		}
		return common.LeftPadBytes(n.Bytes(), v.size), nil
	default:
		return nil, fmt.Errorf("unsupported type %s", v.typ)
	}
}

// bitsOf extracts N from "uintN"
func bitsOf(typ string) int {
	var bits int
	if _, err := fmt.Sscanf(typ, "uint%d", &bits); err != nil {
		return 0
	}
	return bits
}
