package contracts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/lspdeploy/internal/domain"
)

const hardhatArtifact = `{
  "_format": "hh-sol-artifact-1",
  "contractName": "UniversalProfileInit",
  "abi": [
    {"type": "function", "name": "initialize", "inputs": [{"name": "newOwner", "type": "address"}], "outputs": [], "stateMutability": "payable"}
  ],
  "bytecode": "0x6080604052"
}`

const foundryArtifact = `{
  "abi": [
    {"type": "constructor", "inputs": [{"name": "target", "type": "address"}], "stateMutability": "nonpayable"}
  ],
  "bytecode": {"object": "0x60806040", "linkReferences": {}}
}`

func writeArtifact(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRepositoryIndexesBothLayouts(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "contracts/UniversalProfileInit.sol/UniversalProfileInit.json", hardhatArtifact)
	writeArtifact(t, dir, "contracts/UniversalProfileInit.sol/UniversalProfileInit.dbg.json", `{"buildInfo": "x"}`)
	writeArtifact(t, dir, "LSP6KeyManager.sol/LSP6KeyManager.json", foundryArtifact)
	writeArtifact(t, dir, "build-info/abc.json", hardhatArtifact)
	writeArtifact(t, dir, "interfaces/IERC725.json", `{"contractName": "IERC725", "abi": [], "bytecode": "0x"}`)
	writeArtifact(t, dir, "notes.json", `[1, 2, 3]`)

	repo := NewRepositoryAt(dir, nil)
	ctx := context.Background()

	up, err := repo.GetContract(ctx, "UniversalProfileInit")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, up.Bytecode)
	assert.True(t, up.HasInitializer())
	assert.False(t, up.HasConstructorInputs())

	km, err := repo.GetContract(ctx, "LSP6KeyManager")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40}, km.Bytecode)
	assert.True(t, km.HasConstructorInputs())
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0xaa}, km.CreationBytecode([]byte{0xaa}))

	all := repo.ListContracts(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, "LSP6KeyManager", all[0].Name)
	assert.Equal(t, "UniversalProfileInit", all[1].Name)
}

func TestRepositoryUnknownContract(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "LSP6KeyManager.sol/LSP6KeyManager.json", foundryArtifact)

	_, err := NewRepositoryAt(dir, nil).GetContract(context.Background(), "Missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownContract)

	var unknown *domain.UnknownContractErr
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"LSP6KeyManager"}, unknown.Available)
	assert.Contains(t, err.Error(), "  - LSP6KeyManager")
}

func TestRepositoryAmbiguousName(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "a/Token.json", `{"contractName": "Token", "abi": [], "bytecode": "0x01"}`)
	writeArtifact(t, dir, "b/Token.json", `{"contractName": "Token", "abi": [], "bytecode": "0x02"}`)

	repo := NewRepositoryAt(dir, nil)
	_, err := repo.GetContract(context.Background(), "Token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a/Token:Token")

	b, err := repo.GetContract(context.Background(), "b/Token:Token")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02}, b.Bytecode)
}

func TestRepositoryMissingDirectory(t *testing.T) {
	repo := NewRepositoryAt(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Empty(t, repo.ListContracts(context.Background()))

	_, err := repo.GetContract(context.Background(), "Anything")
	var unknown *domain.UnknownContractErr
	require.ErrorAs(t, err, &unknown)
	assert.Empty(t, unknown.Available)
}
