package wallet

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// keystoreFile is the on-disk JSON format for an encrypted keystore: an
// Argon2id+XChaCha20-Poly1305 encrypted BIP-39 seed plus creation metadata.
// The signing key itself is never written to disk in the clear.
type keystoreFile struct {
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	EncryptedSeed []byte    `json:"encrypted_seed"`
}

const keystoreVersion = 1

// Keystore holds a single node signing key derived from a BIP-39 seed.
// Ed25519 has no BIP-32 equivalent in the available library set, so the
// seed's first 32 bytes are used directly as the Ed25519 seed rather than
// deriving a tree of child keys.
type Keystore struct {
	seed []byte // 64-byte BIP-39 seed, kept to allow re-encryption on Save.
	key  ed25519.PrivateKey
}

// Generate creates a new random mnemonic and the Keystore it derives.
func Generate() (mnemonic string, ks *Keystore, err error) {
	mnemonic, err = GenerateMnemonic()
	if err != nil {
		return "", nil, err
	}
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return "", nil, err
	}
	return mnemonic, newFromSeed(seed), nil
}

// FromMnemonic reconstructs the Keystore a previously generated mnemonic
// derives, with an optional BIP-39 passphrase.
func FromMnemonic(mnemonic, passphrase string) (*Keystore, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return newFromSeed(seed), nil
}

func newFromSeed(seed []byte) *Keystore {
	return &Keystore{
		seed: seed,
		key:  ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize]),
	}
}

// SigningKey returns the node's Ed25519 signing key.
func (ks *Keystore) SigningKey() ed25519.PrivateKey {
	return ks.key
}

// Save encrypts the keystore's seed with passphrase and writes it to path.
func Save(path string, ks *Keystore, passphrase []byte, params EncryptionParams) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create keystore dir: %w", err)
	}

	encrypted, err := Encrypt(ks.seed, passphrase, params)
	if err != nil {
		return fmt.Errorf("encrypt seed: %w", err)
	}

	kf := keystoreFile{
		Version:       keystoreVersion,
		CreatedAt:     time.Now().UTC(),
		EncryptedSeed: encrypted,
	}

	data, err := json.MarshalIndent(&kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal keystore: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write keystore: %w", err)
	}
	return nil
}

// Load decrypts the keystore file at path with passphrase and reconstructs
// the Keystore it holds.
func Load(path string, passphrase []byte) (*Keystore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}

	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse keystore: %w", err)
	}
	if kf.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported keystore version: %d", kf.Version)
	}

	seed, err := Decrypt(kf.EncryptedSeed, passphrase)
	if err != nil {
		return nil, fmt.Errorf("decrypt keystore: %w", err)
	}

	return newFromSeed(seed), nil
}
