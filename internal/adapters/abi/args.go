package abi

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/models"
	"github.com/trebuchet-org/lspdeploy/internal/domain/salt"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// ArgumentEncoder ABI-encodes textual arguments against a contract ABI
type ArgumentEncoder struct{}

// NewArgumentEncoder creates a new argument encoder
func NewArgumentEncoder() *ArgumentEncoder {
	return &ArgumentEncoder{}
}

// EncodeConstructorArgs encodes args for the contract constructor (without selector)
func (e *ArgumentEncoder) EncodeConstructorArgs(contract *models.Contract, args []string) ([]byte, error) {
	if contract.ABI == nil {
		return nil, fmt.Errorf("contract %s has no ABI", contract.Name)
	}
	inputs := contract.ABI.Constructor.Inputs
	values, err := ConvertArguments(inputs, args)
	if err != nil {
		return nil, fmt.Errorf("constructor of %s: %w", contract.Name, err)
	}
	return inputs.Pack(values...)
}

// EncodeMethodCall encodes a call to method (a name or full signature) with args
func (e *ArgumentEncoder) EncodeMethodCall(contract *models.Contract, method string, args []string) ([]byte, error) {
	if contract.ABI == nil {
		return nil, fmt.Errorf("contract %s has no ABI", contract.Name)
	}
	m, err := findMethod(contract.ABI, method, len(args))
	if err != nil {
		return nil, fmt.Errorf("contract %s: %w", contract.Name, err)
	}
	values, err := ConvertArguments(m.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Sig, err)
	}
	packed, err := m.Inputs.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Sig, err)
	}
	return append(append([]byte{}, m.ID...), packed...), nil
}

// findMethod resolves a method by signature, or by name when the name is not overloaded
// for the given argument count
func findMethod(contractABI *abi.ABI, method string, argc int) (*abi.Method, error) {
	if strings.Contains(method, "(") {
		for _, m := range contractABI.Methods {
			if m.Sig == method {
				return &m, nil
			}
		}
		return nil, fmt.Errorf("no method with signature %s", method)
	}

	var candidates []abi.Method
	for _, m := range contractABI.Methods {
		if m.RawName == method && len(m.Inputs) == argc {
			candidates = append(candidates, m)
		}
	}
	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("no method %s taking %d arguments", method, argc)
	case 1:
		return &candidates[0], nil
	default:
		return nil, fmt.Errorf("method %s is overloaded, pass its full signature", method)
	}
}

// ConvertArguments turns textual values into the Go values abi.Arguments.Pack expects
func ConvertArguments(inputs abi.Arguments, args []string) ([]interface{}, error) {
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(args))
	}
	values := make([]interface{}, len(args))
	for i, input := range inputs {
		v, err := convertArg(input.Type, args[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, input.Type.String(), err)
		}
		values[i] = v
	}
	return values, nil
}

func convertArg(t abi.Type, raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)

	switch t.T {
	case abi.AddressTy:
		return domain.ParseAddress(raw)
	case abi.BoolTy:
		return strconv.ParseBool(raw)
	case abi.StringTy:
		return raw, nil
	case abi.BytesTy:
		return domain.ParseHexBytes(raw)
	case abi.FixedBytesTy:
		b, err := salt.NormalizeFixed(raw, t.Size, salt.Rules{AllowShorter: true})
		if err != nil {
			return nil, err
		}
		v := reflect.New(t.GetType()).Elem()
		reflect.Copy(v, reflect.ValueOf(b))
		return v.Interface(), nil
	case abi.UintTy, abi.IntTy:
		return convertInteger(t, raw)
	case abi.SliceTy, abi.ArrayTy:
		return convertList(t, raw)
	default:
		return nil, fmt.Errorf("unsupported argument type %s", t.String())
	}
}

func convertInteger(t abi.Type, raw string) (interface{}, error) {
	negative := strings.HasPrefix(raw, "-")
	n, ok := math.ParseBig256(strings.TrimPrefix(raw, "-"))
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", raw)
	}
	if negative {
		n.Neg(n)
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("%w: %s does not fit uint%d", domain.ErrOverflow, raw, t.Size)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%w: %s does not fit int%d", domain.ErrOverflow, raw, t.Size)
		}
	}

	goType := t.GetType()
	if goType == reflect.TypeOf((*big.Int)(nil)) {
		return n, nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
}

// convertList parses "[a, b, c]" for arrays and slices of non-nested element types
func convertList(t abi.Type, raw string) (interface{}, error) {
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return nil, fmt.Errorf("expected a list like [a,b], got %q", raw)
	}
	body := strings.TrimSpace(raw[1 : len(raw)-1])
	var items []string
	if body != "" {
		items = strings.Split(body, ",")
	}

	if t.T == abi.ArrayTy && len(items) != t.Size {
		return nil, fmt.Errorf("expected %d elements, got %d", t.Size, len(items))
	}

	var out reflect.Value
	if t.T == abi.ArrayTy {
		out = reflect.New(t.GetType()).Elem()
	} else {
		out = reflect.MakeSlice(t.GetType(), len(items), len(items))
	}
	for i, item := range items {
		v, err := convertArg(*t.Elem, item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(v))
	}
	return out.Interface(), nil
}

// Ensure ArgumentEncoder implements ArgumentEncoder
var _ usecase.ArgumentEncoder = (*ArgumentEncoder)(nil)
