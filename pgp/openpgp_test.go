package pgp

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ProtonMail/gopenpgp/v3/crypto"

	"github.com/ianchesal/keybase-go/protocol"
)

func newTestEngineAndKeys(t *testing.T) (*OpenPGPEngine, *crypto.Key, *Key) {
	t.Helper()
	priv, bundle, err := NewTestKeyPair("Test User", "test@example.com")
	if err != nil {
		t.Fatal(err)
	}
	key, err := NewKeyFromBundle(bundle)
	if err != nil {
		t.Fatal(err)
	}
	return NewOpenPGPEngine(), priv, key
}

func TestVerifyCleartext(t *testing.T) {
	engine, priv, key := newTestEngineAndKeys(t)

	clearsigned, err := ClearSign(priv, []byte("Hello, world!"))
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.VerifyCleartext(key, clearsigned); err != nil {
		t.Error("Valid clear-signed message rejected:", err)
	}
}

func TestVerifyCleartextTamperedContent(t *testing.T) {
	engine, priv, key := newTestEngineAndKeys(t)

	clearsigned, err := ClearSign(priv, []byte("Hello, world!"))
	if err != nil {
		t.Fatal(err)
	}
	// alter the signed content, leave the signature block alone
	tampered := bytes.Replace(clearsigned,
		[]byte("Hello, world!"), []byte("Hello, another world!"), 1)
	if bytes.Equal(tampered, clearsigned) {
		t.Fatal("Tampering had no effect on the message")
	}

	err = engine.VerifyCleartext(key, tampered)
	if !errors.Is(err, protocol.ErrVerification) {
		t.Fatal("Tampered message accepted, err:", err)
	}
	var verr *protocol.VerificationError
	if !errors.As(err, &verr) || verr.Reason != "signature bad" {
		t.Error("Expect reason 'signature bad', got", err)
	}
}

func TestVerifyCleartextWrongKey(t *testing.T) {
	engine, priv, _ := newTestEngineAndKeys(t)
	_, otherBundle, err := NewTestKeyPair("Other User", "other@example.com")
	if err != nil {
		t.Fatal(err)
	}
	otherKey, err := NewKeyFromBundle(otherBundle)
	if err != nil {
		t.Fatal(err)
	}

	clearsigned, err := ClearSign(priv, []byte("Hello, world!"))
	if err != nil {
		t.Fatal(err)
	}
	// internally self-consistent signature, but from a different key
	err = engine.VerifyCleartext(otherKey, clearsigned)
	if !errors.Is(err, protocol.ErrVerification) {
		t.Fatal("Signature from a different key accepted, err:", err)
	}
}

func TestVerifyCleartextMalformedInput(t *testing.T) {
	engine, _, key := newTestEngineAndKeys(t)

	err := engine.VerifyCleartext(key, []byte("not a clear-signed block"))
	if err == nil {
		t.Fatal("Malformed input accepted")
	}
	if errors.Is(err, protocol.ErrVerification) {
		t.Error("Malformed input should not look like a bad signature")
	}
}

func TestVerifyInline(t *testing.T) {
	engine, priv, key := newTestEngineAndKeys(t)

	signed, err := InlineSign(priv, []byte("inline signed content"))
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.VerifyInline(key, signed); err != nil {
		t.Error("Valid inline-signed message rejected:", err)
	}
}

func TestVerifyDetached(t *testing.T) {
	engine, priv, key := newTestEngineAndKeys(t)
	data := []byte("the exact bytes that were signed")

	sig, err := DetachedSign(priv, data)
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.VerifyDetached(key, data, sig); err != nil {
		t.Error("Valid detached signature rejected:", err)
	}

	err = engine.VerifyDetached(key, []byte("different bytes"), sig)
	if !errors.Is(err, protocol.ErrVerification) {
		t.Error("Detached signature over different bytes accepted, err:", err)
	}
}

func TestEncryptArmored(t *testing.T) {
	engine, _, key := newTestEngineAndKeys(t)
	plaintext := "Hello, world!"

	payload, err := engine.Encrypt(key, []byte(plaintext), true)
	if err != nil {
		t.Fatal(err)
	}
	if !payload.Armored() {
		t.Error("Expect an armored payload")
	}
	armored := payload.String()
	if strings.TrimSpace(armored) == "" {
		t.Error("Armored ciphertext is empty or all whitespace")
	}
	if armored == plaintext {
		t.Error("Ciphertext is identical to the plaintext")
	}
	if !strings.Contains(armored, "-----BEGIN PGP MESSAGE-----") {
		t.Error("Armored ciphertext is missing its armor header")
	}
}

func TestEncryptBinaryRoundTrip(t *testing.T) {
	engine, priv, key := newTestEngineAndKeys(t)
	plaintext := []byte{0x00, 0x01, 0xff, 0xfe, 'a', 'b', 'c'}

	payload, err := engine.Encrypt(key, plaintext, false)
	if err != nil {
		t.Fatal(err)
	}
	if payload.Armored() {
		t.Error("Expect a binary payload")
	}

	decrypted, err := Decrypt(priv, payload.Bytes(), crypto.Bytes)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Error("Round trip lost data: got", decrypted, "want", plaintext)
	}
}

func TestNewKeyFromBundle(t *testing.T) {
	_, bundle, err := NewTestKeyPair("Test User", "test@example.com")
	if err != nil {
		t.Fatal(err)
	}
	key, err := NewKeyFromBundle(bundle)
	if err != nil {
		t.Fatal(err)
	}
	if key.Fingerprint() == "" || key.KeyID() == "" {
		t.Error("Parsed key is missing its identifiers")
	}
	if key.Fingerprint() != strings.ToLower(key.Fingerprint()) {
		t.Error("Fingerprint should be lowercase hex")
	}
	if key.Armored() != bundle {
		t.Error("Key should retain the bundle it was parsed from")
	}

	if _, err := NewKeyFromBundle(""); !errors.Is(err, protocol.ErrPublicKey) {
		t.Error("Empty bundle should fail with ErrPublicKey, got", err)
	}
	if _, err := NewKeyFromBundle("garbage"); !errors.Is(err, protocol.ErrPublicKey) {
		t.Error("Garbage bundle should fail with ErrPublicKey, got", err)
	}
}

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := engine.(*OpenPGPEngine); !ok {
		t.Error("nil config should select the in-process engine")
	}

	engine, err = NewEngine(&Config{Backend: BackendOpenPGP})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := engine.(*OpenPGPEngine); !ok {
		t.Error("openpgp backend should select the in-process engine")
	}

	if _, err := NewEngine(&Config{Backend: "pgpainless"}); err == nil {
		t.Error("Unknown backends should be rejected")
	}
}
