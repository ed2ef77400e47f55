package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Contract is a validated compilation artifact: a name, its ABI and creation bytecode
type Contract struct {
	Name         string   `json:"name"`
	ArtifactPath string   `json:"artifactPath,omitempty"`
	ABI          *abi.ABI `json:"-"`
	Bytecode     []byte   `json:"-"`
}

// Key is the "path:Name" form that stays unique when contract names collide
func (c *Contract) Key() string {
	return fmt.Sprintf("%s:%s", strings.TrimSuffix(c.ArtifactPath, ".json"), c.Name)
}

// HasConstructorInputs reports whether the constructor expects arguments
func (c *Contract) HasConstructorInputs() bool {
	return c.ABI != nil && len(c.ABI.Constructor.Inputs) > 0
}

// HasInitializer reports whether the ABI exposes an initialize function, i.e. the
// contract is meant to be deployed behind a clone
func (c *Contract) HasInitializer() bool {
	if c.ABI == nil {
		return false
	}
	_, ok := c.ABI.Methods["initialize"]
	return ok
}

// CreationBytecode returns the bytecode with ABI-encoded constructor arguments appended
func (c *Contract) CreationBytecode(constructorArgs []byte) []byte {
	out := make([]byte, 0, len(c.Bytecode)+len(constructorArgs))
	out = append(out, c.Bytecode...)
	return append(out, constructorArgs...)
}

// BytecodeField accepts both the Hardhat form ("0x...") and the Foundry form ({"object": "0x..."})
type BytecodeField struct {
	Object string `json:"object"`
}

func (b *BytecodeField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &b.Object)
	}

	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("bytecode must be a hex string or an object with an \"object\" field: %w", err)
	}
	b.Object = obj.Object
	return nil
}

// Artifact is the on-disk compilation artifact (Hardhat or Foundry layout)
type Artifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     BytecodeField   `json:"bytecode"`
}
