package oasis

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/rose-wallet/internal/model"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestDeriveAccounts(t *testing.T) {
	accounts, err := DeriveAccounts(testMnemonic, 0, 3)
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	expected := []struct {
		address string
		public  string
		seed    string
	}{
		{
			address: "oasis1qqx0wgxjwlw3jwatuwqj6582hdm9rjs4pcnvzz66",
			public:  "ad55bbb7c192b8ecfeb6ad18bbd7681c0923f472d5b0c212fbde33008005ad61",
			seed:    "fb181e94e95cc6bedd2da03e6c4aca9951053f3e9865945dbc8975a6afd217c3",
		},
		{
			address: "oasis1qr4xfjmmfx7zuyvskjw9jl3nxcp6a48e8v5e27ty",
			public:  "73fd7c51a0f059ea34d8dca305e0fdb21134ca32216ca1681ae1d12b3d350e16",
			seed:    "1792482bcb001f45bc8ab15436e62d60fe3eb8c86e8944bfc12da4dc67a5c89b",
		},
		{
			address: "oasis1qqtdpw7jez243dnvmzfrhvgkm8zpndssvuwm346d",
			public:  "0f85ea84b81abded443be6ab3e16434cdddebca6e12ea27560a6ed65ff1998e0",
			seed:    "765be01f40c1b78dd807e03a5099220c851cfe55870ab082be2345d63ffb9aa4",
		},
	}
	for i, e := range expected {
		a := accounts[i]
		assert.Equal(t, e.address, a.Address)
		assert.Equal(t, e.public, a.PublicKey)
		assert.Equal(t, e.seed+e.public, a.PrivateKey)
		assert.Equal(t, model.WalletTypeMnemonic, a.Type)
		assert.Equal(t, AccountPath(uint32(i)), a.Path)
		assert.True(t, a.Balance.Total().IsZero())
		assert.False(t, a.Selected)
	}
}

func TestDeriveAccountsOffset(t *testing.T) {
	accounts, err := DeriveAccounts(testMnemonic, 2, 1)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "oasis1qqtdpw7jez243dnvmzfrhvgkm8zpndssvuwm346d", accounts[0].Address)
}

func TestDeriveAccountsNormalizesWhitespace(t *testing.T) {
	spaced := "  " + strings.ReplaceAll(testMnemonic, " ", "   \n") + " "
	accounts, err := DeriveAccounts(spaced, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "oasis1qqx0wgxjwlw3jwatuwqj6582hdm9rjs4pcnvzz66", accounts[0].Address)
}

func TestDeriveAccountsErrors(t *testing.T) {
	_, err := DeriveAccounts("abandon abandon abandon", 0, 1)
	assert.ErrorIs(t, err, ErrInvalidMnemonic)

	// bad checksum
	_, err = DeriveAccounts(strings.Replace(testMnemonic, "about", "abandon", 1), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidMnemonic)

	_, err = DeriveAccounts(testMnemonic, 0, 0)
	assert.Error(t, err)
	_, err = DeriveAccounts(testMnemonic, 0, MaxDerivedAccounts+1)
	assert.Error(t, err)
}

func TestDeriveKeyPairSLIP10Vector(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)

	master, err := DeriveKeyPair(seed, nil)
	require.NoError(t, err)
	assert.Equal(t, "2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7", hex.EncodeToString(master.PrivateKey.Seed()))

	child, err := DeriveKeyPair(seed, []uint32{HardenedOffset})
	require.NoError(t, err)
	assert.Equal(t, "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3", hex.EncodeToString(child.PrivateKey.Seed()))

	_, err = DeriveKeyPair(seed, []uint32{1})
	assert.Error(t, err)
}

func TestNewMnemonic(t *testing.T) {
	m, err := NewMnemonic()
	require.NoError(t, err)
	assert.Len(t, strings.Fields(m), 24)

	_, err = DeriveAccounts(m, 0, 1)
	assert.NoError(t, err)
}
