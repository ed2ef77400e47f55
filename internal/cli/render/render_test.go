package render

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/domain/create2"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

func init() {
	color.NoColor = true
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "❌ Failed to resolve network x: network not found", FormatError("failed to resolve network x: network not found"))
	assert.Equal(t, "❌ ", FormatError(""))
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Proxy Noinit", kindLabel(domain.SpecProxyNonInitializable))
	assert.Equal(t, "Bytecode", kindLabel(domain.SpecRawBytecode))
}

func TestRenderDeploymentList(t *testing.T) {
	key := func(chainID uint64, contract string) domain.RegistryKey {
		return domain.RegistryKey{ChainID: chainID, Scheme: domain.SchemeUniversalFactory, Contract: contract, Owner: "alice"}
	}
	result := &usecase.DeploymentListResult{
		Deployments: []usecase.DeploymentEntry{
			{Key: key(31337, "Counter"), Network: "local", Address: common.HexToAddress("0x01")},
			{Key: key(42, "UniversalProfile"), Network: "lukso", Address: common.HexToAddress("0x02")},
		},
		Summary: usecase.DeploymentSummary{Total: 2, ByChain: map[uint64]int{42: 1, 31337: 1}},
	}

	var out bytes.Buffer
	require.NoError(t, NewDeploymentsRenderer(&out).RenderDeploymentList(result))

	text := out.String()
	assert.Less(t, strings.Index(text, "lukso (42)"), strings.Index(text, "local (31337)"))
	assert.Contains(t, text, "UniversalProfile")
	assert.Contains(t, text, "Total: 2 deployment(s) on 2 chain(s)")

	t.Run("empty", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, NewDeploymentsRenderer(&out).RenderDeploymentList(&usecase.DeploymentListResult{}))
		assert.Equal(t, "No deployments found\n", out.String())
	})
}

func TestDerivationJSON(t *testing.T) {
	d := &create2.Derivation{
		Scheme:  domain.SchemeUniversalFactory,
		Factory: domain.DefaultUniversalFactory,
		Primary: common.HexToAddress("0xcafe"),
	}

	data, err := json.Marshal(NewDerivationJSON(d))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secondary")
	assert.Contains(t, string(data), `"scheme":"lsp16"`)

	call := NewCallJSON(&domain.FactoryCall{To: d.Factory, Data: []byte{0xab}, Method: "deployCreate2"})
	assert.Equal(t, "0", call.Value)

	call = NewCallJSON(&domain.FactoryCall{Value: big.NewInt(1e18)})
	assert.Equal(t, "1000000000000000000", call.Value)
}
