// Test helpers for exercising the engines with freshly generated
// keypairs. These are exported so the client package tests can build
// realistic directory fixtures around real key material.

package pgp

import (
	"github.com/ProtonMail/gopenpgp/v3/crypto"
)

// NewTestKeyPair generates a fresh keypair for the given identity and
// returns the private key along with the armored public-key bundle.
func NewTestKeyPair(name, email string) (*crypto.Key, string, error) {
	pgp := crypto.PGP()
	priv, err := pgp.KeyGeneration().AddUserId(name, email).New().GenerateKey()
	if err != nil {
		return nil, "", err
	}
	pub, err := priv.ToPublic()
	if err != nil {
		return nil, "", err
	}
	bundle, err := pub.Armor()
	if err != nil {
		return nil, "", err
	}
	return priv, bundle, nil
}

// ClearSign produces a clear-signed text block over message with the
// given private key.
func ClearSign(priv *crypto.Key, message []byte) ([]byte, error) {
	signer, err := crypto.PGP().Sign().SigningKey(priv).New()
	if err != nil {
		return nil, err
	}
	return signer.SignCleartext(message)
}

// InlineSign produces an armored combined signed-and-content message
// over message with the given private key.
func InlineSign(priv *crypto.Key, message []byte) ([]byte, error) {
	signer, err := crypto.PGP().Sign().SigningKey(priv).New()
	if err != nil {
		return nil, err
	}
	return signer.Sign(message, crypto.Armor)
}

// DetachedSign produces an armored detached signature over data with
// the given private key.
func DetachedSign(priv *crypto.Key, data []byte) ([]byte, error) {
	signer, err := crypto.PGP().Sign().SigningKey(priv).Detached().New()
	if err != nil {
		return nil, err
	}
	return signer.Sign(data, crypto.Armor)
}

// Decrypt decrypts ciphertext with the given private key. The
// encoding is crypto.Armor or crypto.Bytes depending on how the
// ciphertext was produced.
func Decrypt(priv *crypto.Key, ciphertext []byte, encoding int8) ([]byte, error) {
	decrypter, err := crypto.PGP().Decryption().DecryptionKey(priv).New()
	if err != nil {
		return nil, err
	}
	result, err := decrypter.Decrypt(ciphertext, encoding)
	if err != nil {
		return nil, err
	}
	return result.Bytes(), nil
}
