package oasis

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"github.com/AlexZinkM/rose-wallet/internal/model"
)

const (
	// HardenedOffset marks a hardened derivation index
	HardenedOffset uint32 = 0x80000000

	purposeIndex  uint32 = 44
	coinTypeIndex uint32 = 474

	slip10Curve = "ed25519 seed"

	// MaxDerivedAccounts bounds a single derivation request
	MaxDerivedAccounts = 100
)

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// AccountPath returns the hardened path m/44'/474'/index'
func AccountPath(index uint32) []uint32 {
	return []uint32{
		purposeIndex | HardenedOffset,
		coinTypeIndex | HardenedOffset,
		index | HardenedOffset,
	}
}

// DeriveAccounts derives count accounts starting at index start from a
// BIP-39 mnemonic. Returned accounts carry zero balances.
func DeriveAccounts(mnemonic string, start, count uint32) ([]model.ImportAccount, error) {
	if count == 0 || count > MaxDerivedAccounts {
		return nil, fmt.Errorf("count must be between 1 and %d", MaxDerivedAccounts)
	}
	if start > HardenedOffset-count {
		return nil, fmt.Errorf("start index %d out of range", start)
	}

	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	defer clear(seed)

	accounts := make([]model.ImportAccount, 0, count)
	for i := start; i < start+count; i++ {
		path := AccountPath(i)
		kp, err := DeriveKeyPair(seed, path)
		if err != nil {
			return nil, fmt.Errorf("failed to derive account %d: %w", i, err)
		}
		address, err := PublicKeyToAddress(kp.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to derive address %d: %w", i, err)
		}
		accounts = append(accounts, model.ImportAccount{
			Address:    address,
			PublicKey:  kp.PublicKeyHex(),
			PrivateKey: kp.PrivateKeyHex(),
			Path:       path,
			Type:       model.WalletTypeMnemonic,
			Balance:    model.ZeroBalance(),
		})
		kp.Clear()
	}
	return accounts, nil
}

// DeriveKeyPair derives an ed25519 key pair from a seed along a fully
// hardened SLIP-10 path
func DeriveKeyPair(seed []byte, path []uint32) (KeyPair, error) {
	key, chainCode := slip10Master(seed)
	defer func() {
		clear(key)
		clear(chainCode)
	}()

	for _, index := range path {
		if index < HardenedOffset {
			return KeyPair{}, fmt.Errorf("ed25519 supports hardened indexes only, got %d", index)
		}
		key, chainCode = slip10Child(key, chainCode, index)
	}
	return KeyPairFromSeed(key)
}

func slip10Master(seed []byte) ([]byte, []byte) {
	mac := hmac.New(sha512.New, []byte(slip10Curve))
	mac.Write(seed)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

func slip10Child(key, chainCode []byte, index uint32) ([]byte, []byte) {
	data := make([]byte, 0, 1+len(key)+4)
	data = append(data, 0x00)
	data = append(data, key...)
	data = binary.BigEndian.AppendUint32(data, index)

	mac := hmac.New(sha512.New, chainCode)
	mac.Write(data)
	clear(data)
	clear(key)
	clear(chainCode)

	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

// NewMnemonic generates a fresh 24 word mnemonic
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	return bip39.NewMnemonic(entropy)
}
