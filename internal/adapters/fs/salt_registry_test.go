package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
)

func testKey() domain.RegistryKey {
	return domain.RegistryKey{
		ChainID:  4201,
		Scheme:   domain.SchemeUniversalFactory,
		Contract: "LSP0ERC725Account",
		Owner:    "0x00000000000000000000000000000000000000AA",
	}
}

func saltOf(b byte) domain.Salt {
	var s domain.Salt
	s[31] = b
	return s
}

func newTestRegistry(t *testing.T) *SaltRegistryAdapter {
	t.Helper()
	return NewSaltRegistryAt(filepath.Join(t.TempDir(), "data", SaltRegistryFile), nil)
}

func TestSaltRegistryRecordAndLookup(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)
	key := testKey()

	addr1 := common.HexToAddress("0x1111111111111111111111111111111111111111")
	addr2 := common.HexToAddress("0x2222222222222222222222222222222222222222")

	require.NoError(t, reg.Record(ctx, key, saltOf(2), addr2))
	require.NoError(t, reg.Record(ctx, key, saltOf(1), addr1))

	addrs, err := reg.Lookup(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{addr1, addr2}, addrs)

	salts, err := reg.Salts(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, map[domain.Salt]common.Address{saltOf(1): addr1, saltOf(2): addr2}, salts)

	t.Run("identifiers are case insensitive", func(t *testing.T) {
		upper := key
		upper.Contract = "lsp0erc725account"
		upper.Owner = "0x00000000000000000000000000000000000000aa"
		got, err := reg.Lookup(ctx, upper)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("other scopes are empty", func(t *testing.T) {
		other := key
		other.ChainID = 42
		got, err := reg.Lookup(ctx, other)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSaltRegistryFileLayout(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)
	key := testKey()
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")

	require.NoError(t, reg.Record(ctx, key, saltOf(1), addr))

	raw, err := os.ReadFile(reg.Path())
	require.NoError(t, err)

	var data usedSalts
	require.NoError(t, json.Unmarshal(raw, &data))
	norm := key.Normalize()
	assert.Equal(t, addr.Hex(), data["4201"]["lsp16"][norm.Contract][norm.Owner][saltOf(1).Hex()])
}

func TestSaltRegistryIdempotentRecord(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)
	key := testKey()
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")

	require.NoError(t, reg.Record(ctx, key, saltOf(1), addr))
	require.NoError(t, reg.Record(ctx, key, saltOf(1), addr))

	addrs, err := reg.Lookup(ctx, key)
	require.NoError(t, err)
	assert.Len(t, addrs, 1)
}

func TestSaltRegistryConflict(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)
	key := testKey()
	addr1 := common.HexToAddress("0x1111111111111111111111111111111111111111")
	addr2 := common.HexToAddress("0x2222222222222222222222222222222222222222")

	require.NoError(t, reg.Record(ctx, key, saltOf(1), addr1))
	before, err := os.ReadFile(reg.Path())
	require.NoError(t, err)

	err = reg.Record(ctx, key, saltOf(1), addr2)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRegistryConflict)

	var conflict *domain.RegistryConflictErr
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, addr1, conflict.Existing)
	assert.Equal(t, addr2, conflict.Attempted)

	after, err := os.ReadFile(reg.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestSaltRegistryMissingAndEmptyFile(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	addrs, err := reg.Lookup(ctx, testKey())
	require.NoError(t, err)
	assert.Empty(t, addrs)

	require.NoError(t, os.MkdirAll(filepath.Dir(reg.Path()), 0755))
	require.NoError(t, os.WriteFile(reg.Path(), nil, 0644))

	scopes, err := reg.Scopes(ctx, domain.RegistryFilter{})
	require.NoError(t, err)
	assert.Empty(t, scopes)
}

func TestSaltRegistryCorruptFile(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(reg.Path()), 0755))
	require.NoError(t, os.WriteFile(reg.Path(), []byte("{not json"), 0644))

	_, err := reg.Lookup(ctx, testKey())
	assert.ErrorIs(t, err, domain.ErrRegistryIO)

	err = reg.Record(ctx, testKey(), saltOf(1), common.Address{})
	assert.ErrorIs(t, err, domain.ErrRegistryIO)
}

func TestSaltRegistryNullLevels(t *testing.T) {
	ctx := context.Background()
	key := domain.RegistryKey{ChainID: 42, Scheme: domain.SchemeUniversalFactory, Contract: "LSP0", Owner: "me"}
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")

	for _, doc := range []string{
		`{"42":null}`,
		`{"42":{"lsp16":null}}`,
		`{"42":{"lsp16":{"LSP0":null}}}`,
		`{"42":{"lsp16":{"LSP0":{"me":null}}}}`,
	} {
		t.Run(doc, func(t *testing.T) {
			reg := newTestRegistry(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(reg.Path()), 0755))
			require.NoError(t, os.WriteFile(reg.Path(), []byte(doc), 0644))

			salts, err := reg.Salts(ctx, key)
			require.NoError(t, err)
			assert.Empty(t, salts)

			require.NoError(t, reg.Record(ctx, key, saltOf(1), addr))

			addrs, err := reg.Lookup(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, []common.Address{addr}, addrs)
		})
	}
}

func TestSaltRegistryUppercaseSaltKeys(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)
	key := testKey()
	norm := key.Normalize()
	addr1 := common.HexToAddress("0x1111111111111111111111111111111111111111")
	addr2 := common.HexToAddress("0x2222222222222222222222222222222222222222")

	stored := "0x" + strings.ToUpper(saltOf(0xab).Hex()[2:])
	doc := usedSalts{"4201": {"lsp16": {norm.Contract: {norm.Owner: {stored: addr1.Hex()}}}}}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(reg.Path()), 0755))
	require.NoError(t, os.WriteFile(reg.Path(), raw, 0644))

	err = reg.Record(ctx, key, saltOf(0xab), addr2)
	var conflict *domain.RegistryConflictErr
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, addr1, conflict.Existing)

	require.NoError(t, reg.Record(ctx, key, saltOf(0xab), addr1))

	salts, err := reg.Salts(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, map[domain.Salt]common.Address{saltOf(0xab): addr1}, salts)
}

func TestSaltRegistryRecordAll(t *testing.T) {
	ctx := context.Background()
	primary := testKey()
	secondary := testKey()
	secondary.Contract = "LSP6KeyManager"
	addr1 := common.HexToAddress("0x1111111111111111111111111111111111111111")
	addr2 := common.HexToAddress("0x2222222222222222222222222222222222222222")
	addr3 := common.HexToAddress("0x3333333333333333333333333333333333333333")

	t.Run("records every entry", func(t *testing.T) {
		reg := newTestRegistry(t)
		require.NoError(t, reg.Record(ctx, primary, saltOf(1), addr1))

		existed, err := reg.RecordAll(ctx, []domain.RegistryEntry{
			{Key: primary, Salt: saltOf(1), Address: addr1},
			{Key: secondary, Salt: saltOf(1), Address: addr2},
		})
		require.NoError(t, err)
		assert.Equal(t, []bool{true, false}, existed)

		addrs, err := reg.Lookup(ctx, secondary)
		require.NoError(t, err)
		assert.Equal(t, []common.Address{addr2}, addrs)
	})

	t.Run("conflict writes nothing", func(t *testing.T) {
		reg := newTestRegistry(t)
		require.NoError(t, reg.Record(ctx, secondary, saltOf(1), addr3))
		before, err := os.ReadFile(reg.Path())
		require.NoError(t, err)

		_, err = reg.RecordAll(ctx, []domain.RegistryEntry{
			{Key: primary, Salt: saltOf(1), Address: addr1},
			{Key: secondary, Salt: saltOf(1), Address: addr2},
		})
		var conflict *domain.RegistryConflictErr
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, secondary.Normalize(), conflict.Key)

		salts, err := reg.Salts(ctx, primary)
		require.NoError(t, err)
		assert.Empty(t, salts)

		after, err := os.ReadFile(reg.Path())
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after))
	})

	t.Run("duplicate entry with another address", func(t *testing.T) {
		reg := newTestRegistry(t)
		_, err := reg.RecordAll(ctx, []domain.RegistryEntry{
			{Key: primary, Salt: saltOf(1), Address: addr1},
			{Key: primary, Salt: saltOf(1), Address: addr2},
		})
		assert.ErrorIs(t, err, domain.ErrRegistryConflict)
		assert.NoFileExists(t, reg.Path())
	})
}

func TestSaltRegistryInvalidKey(t *testing.T) {
	reg := newTestRegistry(t)
	key := testKey()
	key.ChainID = 0

	err := reg.Record(context.Background(), key, saltOf(1), common.Address{})
	assert.ErrorIs(t, err, domain.ErrMissingChainID)
}

func TestSaltRegistryScopes(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	a := testKey()
	b := testKey()
	b.Contract = "LSP6KeyManager"
	c := testKey()
	c.ChainID = 42
	c.Scheme = domain.SchemeLinkedContracts

	for i, key := range []domain.RegistryKey{a, b, c} {
		require.NoError(t, reg.Record(ctx, key, saltOf(byte(i)), common.BigToAddress(common.Big1)))
	}

	all, err := reg.Scopes(ctx, domain.RegistryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint64(42), all[0].ChainID)

	chain, err := reg.Scopes(ctx, domain.RegistryFilter{ChainID: 4201})
	require.NoError(t, err)
	assert.Len(t, chain, 2)

	byContract, err := reg.Scopes(ctx, domain.RegistryFilter{Contract: "lsp6keymanager"})
	require.NoError(t, err)
	require.Len(t, byContract, 1)
	assert.Equal(t, b.Normalize(), byContract[0])

	byScheme, err := reg.Scopes(ctx, domain.RegistryFilter{Scheme: domain.SchemeLinkedContracts})
	require.NoError(t, err)
	assert.Len(t, byScheme, 1)
}

func TestSaltRegistryConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), SaltRegistryFile)
	key := testKey()

	const writers = 8
	const perWriter = 5

	var wg sync.WaitGroup
	errs := make(chan error, writers*perWriter)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			// separate handles contend on the lock file like separate processes
			reg := NewSaltRegistryAt(path, nil)
			for i := 0; i < perWriter; i++ {
				salt := saltOf(byte(w*perWriter + i))
				addr := common.BigToAddress(salt.Hash().Big())
				if err := reg.Record(ctx, key, salt, addr); err != nil {
					errs <- fmt.Errorf("writer %d: %w", w, err)
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	addrs, err := NewSaltRegistryAt(path, nil).Lookup(ctx, key)
	require.NoError(t, err)
	assert.Len(t, addrs, writers*perWriter)
}

func TestSaltRegistryFromConfig(t *testing.T) {
	dir := t.TempDir()
	reg := NewSaltRegistryAdapter(&config.RuntimeConfig{DataDir: dir}, nil)
	assert.Equal(t, filepath.Join(dir, SaltRegistryFile), reg.Path())
}

func TestSaltRegistryCanceledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), SaltRegistryFile)
	holder := NewSaltRegistryAt(path, nil)
	unlock, err := holder.acquire(context.Background(), true)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = NewSaltRegistryAt(path, nil).Record(ctx, testKey(), saltOf(1), common.Address{})
	assert.ErrorIs(t, err, context.Canceled)
}
