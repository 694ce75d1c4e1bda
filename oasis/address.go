package oasis

import (
	"crypto/sha512"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	ed "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
)

const (
	// AddressHRP is the bech32 human readable part of Oasis addresses
	AddressHRP = "oasis"
	// AddressSize is the size of a raw address: version byte + truncated hash
	AddressSize = 21

	stakingAddressContext = "oasis-core/address: staking"
	stakingAddressVersion = 0
)

var ErrMalformedAddress = errors.New("malformed address")

// ShortPublicKey returns the raw staking address of a public key: the version
// byte followed by the first 20 bytes of SHA-512/256(context || version || key).
func ShortPublicKey(pub ed.PublicKey) ([]byte, error) {
	if len(pub) != ed.PublicKeySize {
		return nil, fmt.Errorf("%w: unexpected length %d", ErrMalformedPublicKey, len(pub))
	}
	h := sha512.New512_256()
	h.Write([]byte(stakingAddressContext))
	h.Write([]byte{stakingAddressVersion})
	h.Write(pub)
	sum := h.Sum(nil)

	out := make([]byte, 0, AddressSize)
	out = append(out, stakingAddressVersion)
	return append(out, sum[:AddressSize-1]...), nil
}

// PublicKeyToAddress returns the bech32 staking address of a public key
func PublicKeyToAddress(pub ed.PublicKey) (string, error) {
	short, err := ShortPublicKey(pub)
	if err != nil {
		return "", err
	}
	return EncodeAddress(short)
}

// EncodeAddress bech32-encodes a raw address
func EncodeAddress(raw []byte) (string, error) {
	if len(raw) != AddressSize {
		return "", fmt.Errorf("%w: unexpected length %d", ErrMalformedAddress, len(raw))
	}
	conv, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("failed to convert address bits: %w", err)
	}
	return bech32.Encode(AddressHRP, conv)
}

// AddressFromBech32 parses a bech32 address into its raw bytes
func AddressFromBech32(address string) ([]byte, error) {
	hrp, data, err := bech32.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAddress, err)
	}
	if hrp != AddressHRP {
		return nil, fmt.Errorf("%w: unexpected prefix %q", ErrMalformedAddress, hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAddress, err)
	}
	if len(raw) != AddressSize {
		return nil, fmt.Errorf("%w: unexpected length %d", ErrMalformedAddress, len(raw))
	}
	return raw, nil
}

// IsValidAddress reports whether address is a well-formed Oasis address
func IsValidAddress(address string) bool {
	_, err := AddressFromBech32(address)
	return err == nil
}
