package pgp

import (
	"fmt"
	"time"

	"github.com/ProtonMail/gopenpgp/v3/crypto"

	"github.com/ianchesal/keybase-go/protocol"
)

// OpenPGPEngine verifies signatures and encrypts data in-process with
// the gopenpgp library. It keeps no state beyond the library handle
// and is safe to share between client instances.
type OpenPGPEngine struct {
	pgp *crypto.PGPHandle
}

var _ Engine = (*OpenPGPEngine)(nil)

// NewOpenPGPEngine returns an in-process engine with the library's
// default profile.
func NewOpenPGPEngine() *OpenPGPEngine {
	return &OpenPGPEngine{pgp: crypto.PGP()}
}

// VerifyCleartext checks a clear-signed text block against key.
func (e *OpenPGPEngine) VerifyCleartext(key *Key, clearsigned []byte) error {
	verifier, err := e.pgp.Verify().VerificationKey(key.openpgp()).New()
	if err != nil {
		return fmt.Errorf("[pgp] Cannot create verifier: %v", err)
	}
	result, err := verifier.VerifyCleartext(clearsigned)
	if err != nil {
		return fmt.Errorf("[pgp] Cannot parse clear-signed input: %v", err)
	}
	if result.SignatureError() != nil {
		return protocol.NewVerificationError(badSignatureReason)
	}
	return nil
}

// VerifyInline checks a combined signed-and-content message
// against key.
func (e *OpenPGPEngine) VerifyInline(key *Key, message []byte) error {
	verifier, err := e.pgp.Verify().VerificationKey(key.openpgp()).New()
	if err != nil {
		return fmt.Errorf("[pgp] Cannot create verifier: %v", err)
	}
	result, err := verifier.VerifyInline(message, crypto.Auto)
	if err != nil {
		return fmt.Errorf("[pgp] Cannot parse signed message: %v", err)
	}
	if result.SignatureError() != nil {
		return protocol.NewVerificationError(badSignatureReason)
	}
	return nil
}

// VerifyDetached checks a detached signature over data against key.
func (e *OpenPGPEngine) VerifyDetached(key *Key, data, signature []byte) error {
	verifier, err := e.pgp.Verify().VerificationKey(key.openpgp()).New()
	if err != nil {
		return fmt.Errorf("[pgp] Cannot create verifier: %v", err)
	}
	result, err := verifier.VerifyDetached(data, signature, crypto.Auto)
	if err != nil {
		return fmt.Errorf("[pgp] Cannot parse detached signature: %v", err)
	}
	if result.SignatureError() != nil {
		return protocol.NewVerificationError(badSignatureReason)
	}
	return nil
}

// Encrypt encrypts plaintext for key. The key must be usable for
// encryption; keys flagged otherwise fail with protocol.ErrEncryption.
func (e *OpenPGPEngine) Encrypt(key *Key, plaintext []byte, armor bool) (*EncryptedPayload, error) {
	if !key.openpgp().CanEncrypt(time.Now().Unix()) {
		return nil, fmt.Errorf("%w: key %s cannot encrypt",
			protocol.ErrEncryption, key.KeyID())
	}
	encrypter, err := e.pgp.Encryption().Recipient(key.openpgp()).New()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", protocol.ErrEncryption, err)
	}
	message, err := encrypter.Encrypt(plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", protocol.ErrEncryption, err)
	}
	if armor {
		armored, err := message.Armor()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", protocol.ErrEncryption, err)
		}
		return NewEncryptedPayload([]byte(armored), true), nil
	}
	return NewEncryptedPayload(message.Bytes(), false), nil
}
