package create2

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/lspdeploy/internal/domain"
)

var (
	lsp16 = domain.DefaultUniversalFactory
	lsp23 = domain.DefaultLinkedContractsFactory

	implA = common.HexToAddress("0x1111111111111111111111111111111111111111")
	implB = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func testSalt(b byte) domain.Salt {
	var s domain.Salt
	s[31] = b
	return s
}

func TestDeriveUniversal(t *testing.T) {
	salt := testSalt(1)

	t.Run("raw bytecode", func(t *testing.T) {
		code := common.FromHex("0x6080604052")
		d, err := Derive(domain.SchemeUniversalFactory, lsp16, domain.RawBytecode{CreationBytecode: code}, salt)
		require.NoError(t, err)

		generated := crypto.Keccak256Hash(append([]byte{0x00}, salt[:]...))
		assert.Equal(t, generated, d.GeneratedSalt)
		assert.Equal(t, crypto.CreateAddress2(lsp16, generated, crypto.Keccak256(code)), d.Primary)
		assert.False(t, d.HasSecondary())
		assert.Len(t, d.Addresses(), 1)
	})

	t.Run("initializable proxy", func(t *testing.T) {
		calldata := common.FromHex("0xc4d66de8")
		spec := domain.ProxyInitializable{Implementation: implA, InitializeCalldata: calldata}
		d, err := Derive(domain.SchemeUniversalFactory, lsp16, spec, salt)
		require.NoError(t, err)

		preimage := append([]byte{0x01}, calldata...)
		preimage = append(preimage, salt[:]...)
		generated := crypto.Keccak256Hash(preimage)
		assert.Equal(t, generated, d.GeneratedSalt)
		assert.Equal(t, ProxyBytecode(implA), d.PrimaryInitCode)
		assert.Equal(t, crypto.CreateAddress2(lsp16, generated, crypto.Keccak256(ProxyBytecode(implA))), d.Primary)
	})

	t.Run("empty calldata still initializable", func(t *testing.T) {
		init, err := Derive(domain.SchemeUniversalFactory, lsp16, domain.ProxyInitializable{Implementation: implA}, salt)
		require.NoError(t, err)
		noInit, err := Derive(domain.SchemeUniversalFactory, lsp16, domain.ProxyNonInitializable{Implementation: implA}, salt)
		require.NoError(t, err)

		assert.Equal(t, init.PrimaryInitCodeHash, noInit.PrimaryInitCodeHash)
		assert.NotEqual(t, init.Primary, noInit.Primary)
	})

	t.Run("init code hash tracks implementation only", func(t *testing.T) {
		a, err := Derive(domain.SchemeUniversalFactory, lsp16, domain.ProxyInitializable{Implementation: implA}, salt)
		require.NoError(t, err)
		a2, err := Derive(domain.SchemeUniversalFactory, lsp16, domain.ProxyInitializable{Implementation: implA, InitializeCalldata: []byte{0x01}}, testSalt(9))
		require.NoError(t, err)
		b, err := Derive(domain.SchemeUniversalFactory, lsp16, domain.ProxyInitializable{Implementation: implB}, salt)
		require.NoError(t, err)

		assert.Equal(t, a.PrimaryInitCodeHash, a2.PrimaryInitCodeHash)
		assert.NotEqual(t, a.PrimaryInitCodeHash, b.PrimaryInitCodeHash)
	})

	t.Run("linked pair rejected", func(t *testing.T) {
		_, err := Derive(domain.SchemeUniversalFactory, lsp16, domain.LinkedPair{}, salt)
		assert.ErrorIs(t, err, domain.ErrUnsupportedScheme)
	})
}

func TestDeriveDeterministic(t *testing.T) {
	spec := domain.RawBytecode{CreationBytecode: common.FromHex("0x600a600c600039600a6000f3602a60805260206080f3")}

	first, err := Derive(domain.SchemeUniversalFactory, lsp16, spec, testSalt(7))
	require.NoError(t, err)
	second, err := Derive(domain.SchemeUniversalFactory, lsp16, spec, testSalt(7))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func rawPair(link bool, extra []byte) domain.LinkedPair {
	return domain.LinkedPair{
		Primary:                domain.RawBytecode{CreationBytecode: common.FromHex("0x60806040aa")},
		Secondary:              domain.RawBytecode{CreationBytecode: common.FromHex("0x60806040bb")},
		LinkSecondaryToPrimary: link,
		ExtraSecondaryParams:   extra,
		PostDeploymentModule:   common.HexToAddress("0x000000000066093407b6704B89793beFfD0D8F00"),
		PostDeploymentCalldata: common.FromHex("0xdeadbeef"),
	}
}

func TestDeriveLinkedBytecode(t *testing.T) {
	salt := testSalt(3)
	pair := rawPair(true, common.FromHex("0x0102"))

	d, err := Derive(domain.SchemeLinkedContracts, lsp23, pair, salt)
	require.NoError(t, err)
	assert.Equal(t, LinkedBytecode, d.Variant)

	var preimage []byte
	preimage = append(preimage, salt[:]...)
	preimage = append(preimage, common.FromHex("0x60806040bb")...)
	preimage = append(preimage, 0x01)
	preimage = append(preimage, 0x01, 0x02)
	preimage = append(preimage, pair.PostDeploymentModule.Bytes()...)
	preimage = append(preimage, 0xde, 0xad, 0xbe, 0xef)
	generated := crypto.Keccak256Hash(preimage)
	require.Equal(t, generated, d.GeneratedSalt)

	primary := crypto.CreateAddress2(lsp23, generated, crypto.Keccak256(common.FromHex("0x60806040aa")))
	assert.Equal(t, primary, d.Primary)

	secondaryCode := append(common.FromHex("0x60806040bb"), primary.Bytes()...)
	secondaryCode = append(secondaryCode, 0x01, 0x02)
	assert.Equal(t, secondaryCode, d.SecondaryInitCode)
	assert.Equal(t, crypto.Keccak256Hash(primary.Bytes()), d.SecondarySalt)
	assert.Equal(t, crypto.CreateAddress2(lsp23, d.SecondarySalt, crypto.Keccak256(secondaryCode)), d.Secondary)
	assert.Equal(t, []common.Address{d.Primary, d.Secondary}, d.Addresses())
}

func TestDeriveLinkedUnlinkedSecondary(t *testing.T) {
	d, err := Derive(domain.SchemeLinkedContracts, lsp23, rawPair(false, nil), testSalt(3))
	require.NoError(t, err)
	assert.Equal(t, common.FromHex("0x60806040bb"), d.SecondaryInitCode)
}

func TestDeriveLinkedPadded(t *testing.T) {
	pair := rawPair(true, nil)

	packedD, err := Derive(domain.SchemeLinkedContracts, lsp23, pair, testSalt(3))
	require.NoError(t, err)
	padded, err := Derive(domain.SchemeLinkedContracts, lsp23, pair, testSalt(3), PadLinkedAddress(true))
	require.NoError(t, err)

	assert.Equal(t, packedD.Primary, padded.Primary)
	assert.Len(t, padded.SecondaryInitCode, len(packedD.SecondaryInitCode)+12)
	assert.NotEqual(t, packedD.Secondary, padded.Secondary)

	// default: the raw 20 address bytes; padded: one left-padded ABI word
	base := common.FromHex("0x60806040bb")
	assert.Equal(t, append(append([]byte{}, base...), packedD.Primary.Bytes()...), packedD.SecondaryInitCode)
	word := common.LeftPadBytes(padded.Primary.Bytes(), 32)
	assert.Equal(t, append(append([]byte{}, base...), word...), padded.SecondaryInitCode)
}

func TestDeriveLinkedDependency(t *testing.T) {
	salt := testSalt(5)

	// The secondary bytecode is the same in both pairs and the secondary is not linked,
	// so only the primary address feeds the difference
	a, err := Derive(domain.SchemeLinkedContracts, lsp23, rawPair(false, []byte{0x01}), salt)
	require.NoError(t, err)
	b, err := Derive(domain.SchemeLinkedContracts, lsp23, rawPair(false, []byte{0x02}), salt)
	require.NoError(t, err)

	assert.Equal(t, a.SecondaryInitCodeHash, b.SecondaryInitCodeHash)
	assert.NotEqual(t, a.Primary, b.Primary)
	assert.NotEqual(t, a.Secondary, b.Secondary)
}

func TestDeriveLinkedProxies(t *testing.T) {
	salt := testSalt(8)
	pair := domain.LinkedPair{
		Primary:                domain.ProxyInitializable{Implementation: implA, InitializeCalldata: []byte{0xaa}},
		Secondary:              domain.ProxyInitializable{Implementation: implB, InitializeCalldata: []byte{0xbb}},
		LinkSecondaryToPrimary: true,
		ExtraSecondaryParams:   []byte{0xcc},
	}

	d, err := Derive(domain.SchemeLinkedContracts, lsp23, pair, salt)
	require.NoError(t, err)
	assert.Equal(t, LinkedProxies, d.Variant)

	var preimage []byte
	preimage = append(preimage, salt[:]...)
	preimage = append(preimage, implB.Bytes()...)
	preimage = append(preimage, 0xbb, 0x01, 0xcc)
	preimage = append(preimage, make([]byte, 20)...)
	generated := crypto.Keccak256Hash(preimage)
	assert.Equal(t, generated, d.GeneratedSalt)

	primary := crypto.CreateAddress2(lsp23, generated, crypto.Keccak256(ProxyBytecode(implA)))
	assert.Equal(t, primary, d.Primary)
	assert.Equal(t, ProxyBytecode(implB), d.SecondaryInitCode)
	assert.Equal(t, crypto.CreateAddress2(lsp23, crypto.Keccak256Hash(primary.Bytes()), crypto.Keccak256(ProxyBytecode(implB))), d.Secondary)
}

func TestDeriveErrors(t *testing.T) {
	salt := testSalt(1)

	tests := []struct {
		name   string
		scheme domain.Scheme
		spec   domain.DeploymentSpec
	}{
		{"unknown scheme", domain.Scheme("create3"), domain.RawBytecode{}},
		{"lsp23 needs a pair", domain.SchemeLinkedContracts, domain.RawBytecode{}},
		{"mixed pair", domain.SchemeLinkedContracts, domain.LinkedPair{
			Primary:   domain.RawBytecode{},
			Secondary: domain.ProxyInitializable{Implementation: implA},
		}},
		{"non-initializable proxies in pair", domain.SchemeLinkedContracts, domain.LinkedPair{
			Primary:   domain.ProxyNonInitializable{Implementation: implA},
			Secondary: domain.ProxyNonInitializable{Implementation: implB},
		}},
		{"nil spec", domain.SchemeUniversalFactory, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Derive(tt.scheme, common.Address{}, tt.spec, salt)
			assert.ErrorIs(t, err, domain.ErrUnsupportedScheme)

			_, err = Deriver(tt.scheme, common.Address{}, tt.spec)
			assert.ErrorIs(t, err, domain.ErrUnsupportedScheme)
		})
	}
}

func TestDeriverMatchesDerive(t *testing.T) {
	specs := []struct {
		name   string
		scheme domain.Scheme
		spec   domain.DeploymentSpec
	}{
		{"lsp16 raw", domain.SchemeUniversalFactory, domain.RawBytecode{CreationBytecode: common.FromHex("0x6001")}},
		{"lsp16 proxy", domain.SchemeUniversalFactory, domain.ProxyInitializable{Implementation: implA, InitializeCalldata: []byte{1, 2, 3}, InitializeValue: big.NewInt(1)}},
		{"lsp16 proxy noinit", domain.SchemeUniversalFactory, domain.ProxyNonInitializable{Implementation: implB}},
		{"lsp23 raw", domain.SchemeLinkedContracts, rawPair(true, []byte{9})},
	}

	for _, tt := range specs {
		t.Run(tt.name, func(t *testing.T) {
			derive, err := Deriver(tt.scheme, lsp16, tt.spec)
			require.NoError(t, err)

			for i := byte(0); i < 4; i++ {
				d, err := Derive(tt.scheme, lsp16, tt.spec, testSalt(i))
				require.NoError(t, err)

				got, err := derive(testSalt(i))
				require.NoError(t, err)
				assert.Equal(t, d.Primary, got)
			}
		})
	}
}
