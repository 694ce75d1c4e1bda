package oasis

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	ed "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
)

var (
	ErrMalformedPrivateKey = errors.New("malformed private key")
	ErrMalformedPublicKey  = errors.New("malformed public key")
)

// KeyPair is an ed25519 signing key pair of an Oasis account
type KeyPair struct {
	PrivateKey ed.PrivateKey
	PublicKey  ed.PublicKey
}

// PrivateKeyHex returns the full 64-byte private key in hex
func (k KeyPair) PrivateKeyHex() string {
	return hex.EncodeToString(k.PrivateKey)
}

// PublicKeyHex returns the public key in hex
func (k KeyPair) PublicKeyHex() string {
	return hex.EncodeToString(k.PublicKey)
}

// Clear wipes the private key from memory
func (k KeyPair) Clear() {
	clear(k.PrivateKey)
}

// KeyPairFromSeed derives the key pair for a 32-byte ed25519 seed
func KeyPairFromSeed(seed []byte) (KeyPair, error) {
	if len(seed) != ed.SeedSize {
		return KeyPair{}, fmt.Errorf("%w: seed must be %d bytes", ErrMalformedPrivateKey, ed.SeedSize)
	}
	priv := ed.NewKeyFromSeed(seed)
	return KeyPair{
		PrivateKey: priv,
		PublicKey:  priv.Public().(ed.PublicKey),
	}, nil
}

// PrivateKeyFromHex decodes a private key given in hex (64-byte key or
// 32-byte seed) or base64 (64-byte key) and derives its public key.
// A 64-byte key whose public half does not match its seed is rejected.
func PrivateKeyFromHex(s string) (KeyPair, error) {
	raw, err := decodePrivateKey(strings.TrimSpace(s))
	if err != nil {
		return KeyPair{}, err
	}
	defer clear(raw)

	switch len(raw) {
	case ed.SeedSize:
		return KeyPairFromSeed(raw)
	case ed.PrivateKeySize:
		kp, err := KeyPairFromSeed(raw[:ed.SeedSize])
		if err != nil {
			return KeyPair{}, err
		}
		if !bytes.Equal(kp.PublicKey, raw[ed.SeedSize:]) {
			kp.Clear()
			return KeyPair{}, fmt.Errorf("%w: public key does not match seed", ErrMalformedPrivateKey)
		}
		return kp, nil
	default:
		return KeyPair{}, fmt.Errorf("%w: unexpected length %d", ErrMalformedPrivateKey, len(raw))
	}
}

func decodePrivateKey(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformedPrivateKey)
	}
	trimmed := strings.TrimPrefix(s, "0x")
	if raw, err := hex.DecodeString(trimmed); err == nil {
		return raw, nil
	}
	if raw, err := base64.StdEncoding.DecodeString(s); err == nil && len(raw) == ed.PrivateKeySize {
		return raw, nil
	}
	return nil, fmt.Errorf("%w: neither hex nor base64", ErrMalformedPrivateKey)
}

// PublicKeyFromHex decodes a hex public key
func PublicKeyFromHex(s string) (ed.PublicKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPublicKey, err)
	}
	if len(raw) != ed.PublicKeySize {
		return nil, fmt.Errorf("%w: unexpected length %d", ErrMalformedPublicKey, len(raw))
	}
	return ed.PublicKey(raw), nil
}
