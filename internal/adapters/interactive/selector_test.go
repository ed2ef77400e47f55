package interactive

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/domain/models"
)

func TestFuzzySearch(t *testing.T) {
	search := createFuzzySearchFunc([]string{"LSP0ERC725Account artifacts/LSP0.json", "KeyManager artifacts/LSP6.json"})

	assert.True(t, search("", 0))
	assert.True(t, search("erc725", 0))
	assert.True(t, search("lsp0acc", 0))
	assert.False(t, search("lsp0acc", 1))
	assert.True(t, search("KeyMgr", 1))
}

func TestFormatContractOptions(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	dir := filepath.Join("/project", "artifacts")
	contracts := []*models.Contract{
		{Name: "Token", ArtifactPath: filepath.Join(dir, "Token.sol", "Token.json"), Bytecode: []byte{0x60}},
		{Name: "Empty", ArtifactPath: filepath.Join(dir, "Empty.json")},
	}

	options := formatContractOptions(contracts, dir)
	require.Len(t, options, 2)
	assert.Equal(t, "Token ("+filepath.Join("Token.sol", "Token.json")+")", options[0])
	assert.Equal(t, "Empty [no bytecode] (Empty.json)", options[1])
}

func TestSelectContractNonInteractive(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
	_, err := s.SelectContract(context.Background(), []*models.Contract{{Name: "A"}, {Name: "B"}}, "pick")
	assert.Error(t, err)

	s = NewSelectorAdapter(&config.RuntimeConfig{})
	only := &models.Contract{Name: "A"}
	got, err := s.SelectContract(context.Background(), []*models.Contract{only}, "pick")
	require.NoError(t, err)
	assert.Same(t, only, got)

	_, err = s.SelectContract(context.Background(), nil, "pick")
	assert.Error(t, err)
}
