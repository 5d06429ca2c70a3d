package pgp

import (
	"fmt"
	"strings"

	"github.com/ProtonMail/gopenpgp/v3/crypto"

	"github.com/ianchesal/keybase-go/protocol"
)

// The reason string carried by a VerificationError when a signature
// does not check out against the resolved key.
const badSignatureReason = "signature bad"

// Engine backends selectable via Config.
const (
	BackendOpenPGP = "openpgp"
	BackendGnuPG   = "gnupg"
)

// An Engine performs signature verification and encryption with a
// given public key. Implementations must report a failed signature
// check as a *protocol.VerificationError and any other engine trouble
// (unparsable input, unusable key) as a distinct error, so callers can
// tell "signature did not match" apart from "malformed input".
type Engine interface {
	// VerifyCleartext checks a clear-signed text block (message and
	// signature inline between armor boundary markers) against key.
	VerifyCleartext(key *Key, clearsigned []byte) error
	// VerifyInline checks a combined signed-and-content message, as
	// produced by a non-detached signing operation, against key.
	VerifyInline(key *Key, message []byte) error
	// VerifyDetached checks a detached signature over the exact bytes
	// of data against key.
	VerifyDetached(key *Key, data, signature []byte) error
	// Encrypt encrypts plaintext for key, armored or binary.
	Encrypt(key *Key, plaintext []byte, armor bool) (*EncryptedPayload, error)
}

// A Config selects and configures the cryptographic engine a client
// instance uses. The zero value selects the in-process OpenPGP engine.
type Config struct {
	// Backend is "openpgp" (in-process, the default) or "gnupg"
	// (shell out to a local GnuPG installation).
	Backend string `toml:"backend,omitempty"`
	// Binary names the gpg executable for the gnupg backend. An empty
	// value means search the PATH for "gpg".
	Binary string `toml:"binary,omitempty"`
}

// NewEngine constructs the engine selected by conf. A nil conf yields
// the in-process OpenPGP engine.
func NewEngine(conf *Config) (Engine, error) {
	if conf == nil {
		return NewOpenPGPEngine(), nil
	}
	switch conf.Backend {
	case "", BackendOpenPGP:
		return NewOpenPGPEngine(), nil
	case BackendGnuPG:
		return NewGnuPGEngine(conf.Binary)
	default:
		return nil, fmt.Errorf("[pgp] Unknown engine backend %q", conf.Backend)
	}
}

// A Key holds one parsed public key together with the armored bundle
// it was parsed from. Keys are immutable.
type Key struct {
	armored string
	key     *crypto.Key
}

// NewKeyFromBundle parses an ASCII-armored public-key bundle. A bundle
// that is empty or unparsable fails with protocol.ErrPublicKey.
func NewKeyFromBundle(bundle string) (*Key, error) {
	if strings.TrimSpace(bundle) == "" {
		return nil, fmt.Errorf("%w: missing PGP key bundle", protocol.ErrPublicKey)
	}
	k, err := crypto.NewKeyFromArmored(bundle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", protocol.ErrPublicKey, err)
	}
	return &Key{armored: bundle, key: k}, nil
}

// Fingerprint returns the key's full fingerprint as lowercase hex.
func (k *Key) Fingerprint() string {
	return strings.ToLower(k.key.GetFingerprint())
}

// KeyID returns the key's 64-bit key id as hex.
func (k *Key) KeyID() string {
	return k.key.GetHexKeyID()
}

// Armored returns the bundle the key was parsed from.
func (k *Key) Armored() string {
	return k.armored
}

// openpgp exposes the parsed key to the in-process engine.
func (k *Key) openpgp() *crypto.Key {
	return k.key
}

// An EncryptedPayload is the output of an encryption operation,
// tagged by the mode the caller requested: ASCII-armored text safe
// for plaintext channels, or raw binary ciphertext.
type EncryptedPayload struct {
	armored bool
	data    []byte
}

// NewEncryptedPayload wraps ciphertext produced in the given mode.
func NewEncryptedPayload(data []byte, armored bool) *EncryptedPayload {
	return &EncryptedPayload{armored: armored, data: data}
}

// Armored reports whether the payload is ASCII-armored text.
func (p *EncryptedPayload) Armored() bool {
	return p.armored
}

// Bytes returns the raw ciphertext.
func (p *EncryptedPayload) Bytes() []byte {
	return p.data
}

// String returns the ciphertext as text. Callers should only rely on
// this for armored payloads.
func (p *EncryptedPayload) String() string {
	return string(p.data)
}
