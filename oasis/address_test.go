package oasis

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPub     = "03a107bff3ce10be1d70dd18e74bc09967e4d6309ba50d5f1ddc8664125531b8"
	testRaw     = "00c5e372f861f42b5b020b9c3f322b1125160d75a0"
	testAddress = "oasis1qrz7xuhcv86zkkczpwwr7v3tzyj3vrt45qjt2rpn"
)

func TestShortPublicKey(t *testing.T) {
	pub, err := PublicKeyFromHex(testPub)
	require.NoError(t, err)

	short, err := ShortPublicKey(pub)
	require.NoError(t, err)
	assert.Equal(t, testRaw, hex.EncodeToString(short))

	_, err = ShortPublicKey(pub[:31])
	assert.ErrorIs(t, err, ErrMalformedPublicKey)
}

func TestPublicKeyToAddress(t *testing.T) {
	pub, err := PublicKeyFromHex(testPub)
	require.NoError(t, err)

	address, err := PublicKeyToAddress(pub)
	require.NoError(t, err)
	assert.Equal(t, testAddress, address)
}

func TestAddressFromBech32(t *testing.T) {
	raw, err := AddressFromBech32(testAddress)
	require.NoError(t, err)
	assert.Equal(t, testRaw, hex.EncodeToString(raw))

	encoded, err := EncodeAddress(raw)
	require.NoError(t, err)
	assert.Equal(t, testAddress, encoded)

	assert.True(t, IsValidAddress(testAddress))
	for _, bad := range []string{
		"",
		"oasis1qrz7xuhcv86zkkczpwwr7v3tzyj3vrt45qjt2rpm",
		"bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4",
		"oasis1",
	} {
		_, err := AddressFromBech32(bad)
		assert.ErrorIs(t, err, ErrMalformedAddress, bad)
		assert.False(t, IsValidAddress(bad), bad)
	}
}

func TestEncodeAddressLength(t *testing.T) {
	_, err := EncodeAddress([]byte{0, 1, 2})
	assert.ErrorIs(t, err, ErrMalformedAddress)
}
