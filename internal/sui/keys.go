package sui

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/block-vision/sui-go-sdk/signer"
	"golang.org/x/crypto/blake2b"

	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/plan"
)

// ed25519Flag is the signature scheme prefix used by Sui keys and addresses.
const ed25519Flag byte = 0x00

// Wallet is a freshly registered address and its exportable secret.
type Wallet struct {
	Address   string `json:"walletAddress"`
	SecretKey string `json:"walletKey"`
}

// KeypairFromSecret decodes a base64 secret key. It accepts a raw 32 byte
// seed, a 33 byte flagged seed (Sui keystore) or a 64 byte ed25519 key.
func KeypairFromSecret(secret string) (*signer.Signer, error) {
	raw, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("sui: %w: %v", plan.ErrInvalidKey, err)
	}

	var seed []byte
	switch len(raw) {
	case ed25519.SeedSize:
		seed = raw
	case ed25519.SeedSize + 1:
		if raw[0] != ed25519Flag {
			return nil, fmt.Errorf("sui: %w: unsupported key scheme flag 0x%02x", plan.ErrInvalidKey, raw[0])
		}
		seed = raw[1:]
	case ed25519.PrivateKeySize:
		seed = raw[:ed25519.SeedSize]
	default:
		return nil, fmt.Errorf("sui: %w: length %d", plan.ErrInvalidKey, len(raw))
	}

	return signer.NewSigner(seed), nil
}

func KeypairFromMnemonic(mnemonic string) (*signer.Signer, error) {
	s, err := signer.NewSignertWithMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("sui: %w: %v", plan.ErrInvalidKey, err)
	}
	return s, nil
}

// AddressFromPublicKey is blake2b-256(flag || pubkey), hex encoded.
func AddressFromPublicKey(pub ed25519.PublicKey) (string, error) {
	if len(pub) != ed25519.PublicKeySize {
		return "", fmt.Errorf("sui: invalid public key length %d", len(pub))
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("sui: failed to init blake2b: %w", err)
	}
	h.Write([]byte{ed25519Flag})
	h.Write(pub)

	return "0x" + hex.EncodeToString(h.Sum(nil)), nil
}

func AddressFromKey(secret string) (string, error) {
	kp, err := KeypairFromSecret(secret)
	if err != nil {
		return "", err
	}
	return AddressFromPublicKey(kp.PubKey)
}

// ExportSecret encodes the keypair seed in the flagged keystore form.
func ExportSecret(kp *signer.Signer) string {
	seed := kp.PriKey.Seed()
	return base64.StdEncoding.EncodeToString(append([]byte{ed25519Flag}, seed...))
}

func RegisterWallet(mnemonic string) (Wallet, error) {
	kp, err := KeypairFromMnemonic(mnemonic)
	if err != nil {
		return Wallet{}, err
	}

	addr, err := AddressFromPublicKey(kp.PubKey)
	if err != nil {
		return Wallet{}, err
	}

	return Wallet{
		Address:   addr,
		SecretKey: ExportSecret(kp),
	}, nil
}
