package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/params"
)

var weiUnits = map[string]int64{
	"wei":   params.Wei,
	"gwei":  params.GWei,
	"ether": params.Ether,
	"eth":   params.Ether,
	"lyx":   params.Ether,
}

// ParseWei parses an amount of wei. Plain numbers (decimal or 0x hex) are wei; a unit
// suffix (gwei, ether, eth, lyx) allows decimals, e.g. "0.5ether" or "1.5 gwei".
// An empty string is nil.
func ParseWei(s string) (*big.Int, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" {
		return nil, nil
	}

	for _, unit := range []string{"gwei", "wei", "ether", "eth", "lyx"} {
		if !strings.HasSuffix(text, unit) {
			continue
		}
		amount := strings.TrimSpace(strings.TrimSuffix(text, unit))
		r, ok := new(big.Rat).SetString(amount)
		if !ok || r.Sign() < 0 {
			return nil, fmt.Errorf("invalid amount %q", s)
		}
		r.Mul(r, new(big.Rat).SetInt64(weiUnits[unit]))
		if !r.IsInt() {
			return nil, fmt.Errorf("amount %q is not a whole number of wei", s)
		}
		return checkWei(s, r.Num())
	}

	n, ok := math.ParseBig256(text)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return checkWei(s, n)
}

func checkWei(raw string, n *big.Int) (*big.Int, error) {
	if n.BitLen() > 256 {
		return nil, fmt.Errorf("%w: %s does not fit uint256", ErrOverflow, raw)
	}
	return n, nil
}
