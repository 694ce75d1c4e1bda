package oasis

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	rfcSeed = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	rfcPub  = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
)

func TestPrivateKeyFromHex(t *testing.T) {
	t.Run("64 byte key", func(t *testing.T) {
		kp, err := PrivateKeyFromHex(rfcSeed + rfcPub)
		require.NoError(t, err)
		assert.Equal(t, rfcPub, kp.PublicKeyHex())
		assert.Equal(t, rfcSeed+rfcPub, kp.PrivateKeyHex())
	})

	t.Run("32 byte seed", func(t *testing.T) {
		kp, err := PrivateKeyFromHex(rfcSeed)
		require.NoError(t, err)
		assert.Equal(t, rfcPub, kp.PublicKeyHex())
		assert.Equal(t, rfcSeed+rfcPub, kp.PrivateKeyHex())
	})

	t.Run("0x prefix and whitespace", func(t *testing.T) {
		kp, err := PrivateKeyFromHex("  0x" + rfcSeed + "\n")
		require.NoError(t, err)
		assert.Equal(t, rfcPub, kp.PublicKeyHex())
	})

	t.Run("base64 64 byte key", func(t *testing.T) {
		raw, err := hex.DecodeString(rfcSeed + rfcPub)
		require.NoError(t, err)
		kp, err := PrivateKeyFromHex(base64.StdEncoding.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, rfcPub, kp.PublicKeyHex())
	})

	t.Run("mismatching public half", func(t *testing.T) {
		bad := rfcSeed + "00" + rfcPub[2:]
		_, err := PrivateKeyFromHex(bad)
		assert.ErrorIs(t, err, ErrMalformedPrivateKey)
	})

	t.Run("rejected inputs", func(t *testing.T) {
		for _, in := range []string{"", "zz", "abcd", rfcSeed[:62]} {
			_, err := PrivateKeyFromHex(in)
			assert.ErrorIs(t, err, ErrMalformedPrivateKey, in)
		}
	})
}

func TestKeyPairClear(t *testing.T) {
	kp, err := PrivateKeyFromHex(rfcSeed)
	require.NoError(t, err)
	kp.Clear()
	assert.Equal(t, make([]byte, 64), []byte(kp.PrivateKey))
}

func TestPublicKeyFromHex(t *testing.T) {
	pub, err := PublicKeyFromHex(rfcPub)
	require.NoError(t, err)
	assert.Len(t, pub, 32)

	_, err = PublicKeyFromHex("abcd")
	assert.ErrorIs(t, err, ErrMalformedPublicKey)
	_, err = PublicKeyFromHex("not hex")
	assert.ErrorIs(t, err, ErrMalformedPublicKey)
}
