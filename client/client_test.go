package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/gopenpgp/v3/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ianchesal/keybase-go/directory"
	"github.com/ianchesal/keybase-go/pgp"
	"github.com/ianchesal/keybase-go/protocol"
)

const testKID = "0101f56ecf27564e5bec1c50250d09efe963cad3138d4dc7f4646c77f6008c1e23cf0a"

// newTestDirectory spins up a fake keybase.io directory that knows a
// single user "irc" whose primary key is the given bundle.
func newTestDirectory(t *testing.T, bundle, fingerprint string) *directory.Directory {
	t.Helper()
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("username") != "irc" {
			json.NewEncoder(w).Encode(&protocol.LookupResponse{
				Status: &protocol.Status{Code: 205, Name: protocol.StatusNotFound},
			})
			return
		}
		json.NewEncoder(w).Encode(&protocol.LookupResponse{
			Status: &protocol.Status{Name: protocol.StatusOK},
			Them: &protocol.UserObject{
				ID:     "dbb165b7879fe7b1174df73bed0b9500",
				Basics: &protocol.Basics{Username: "irc"},
				Profile: &protocol.Profile{
					FullName: "Ian Chesal",
					Location: "Toronto, Canada",
				},
				PublicKeys: map[string]*protocol.PublicKeyRecord{
					protocol.PrimaryKeyName: {
						KID:            testKID,
						Bundle:         bundle,
						KeyFingerprint: fingerprint,
					},
				},
			},
		})
	}
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return directory.NewWithClient(srv.URL+"/_/api/", "1.0", srv.Client(), nil)
}

// newBoundUser generates a fresh keypair, serves it from a fake
// directory, and returns a User bound to it plus the private key for
// signing and decrypting in tests.
func newBoundUser(t *testing.T) (*User, *crypto.Key) {
	t.Helper()
	priv, bundle, err := pgp.NewTestKeyPair("Ian Chesal", "irc@example.com")
	require.NoError(t, err)
	parsed, err := pgp.NewKeyFromBundle(bundle)
	require.NoError(t, err)

	dir := newTestDirectory(t, bundle, parsed.Fingerprint())
	u, err := Lookup(context.Background(), dir, pgp.NewOpenPGPEngine(), nil, "irc")
	require.NoError(t, err)
	return u, priv
}

func TestLookupBindsUser(t *testing.T) {
	u, _ := newBoundUser(t)

	assert.True(t, u.IsBound())
	assert.Equal(t, "irc", u.Username())
	assert.Equal(t, "Ian Chesal", u.Name())
	assert.Equal(t, "Toronto, Canada", u.Location())
	assert.Equal(t, []string{protocol.PrimaryKeyName}, u.PublicKeyNames())
}

func TestLookupTwiceFails(t *testing.T) {
	u, _ := newBoundUser(t)

	err := u.Lookup(context.Background(), "someoneelse")
	assert.ErrorIs(t, err, protocol.ErrLookupInvalid)
	assert.Contains(t, err.Error(), `"irc"`)
	// the original binding survives
	assert.Equal(t, "irc", u.Username())
}

func TestLookupUnknownUser(t *testing.T) {
	_, bundle, err := pgp.NewTestKeyPair("Ian Chesal", "irc@example.com")
	require.NoError(t, err)
	dir := newTestDirectory(t, bundle, "")

	_, err = Lookup(context.Background(), dir, pgp.NewOpenPGPEngine(), nil,
		"abcdefghijklmno123")
	assert.ErrorIs(t, err, protocol.ErrUserNotFound)
}

func TestUnboundOperations(t *testing.T) {
	u := New(nil, pgp.NewOpenPGPEngine(), nil)

	assert.False(t, u.IsBound())
	assert.Empty(t, u.Username())
	assert.Empty(t, u.Name())
	assert.Empty(t, u.PublicKeyNames())

	_, err := u.GetPublicKey()
	assert.ErrorIs(t, err, protocol.ErrUnboundInstance)

	_, err = u.Verify([]byte("anything"), false)
	assert.ErrorIs(t, err, protocol.ErrUnboundInstance)

	_, err = u.VerifyFile("nonexistent", "", false)
	assert.ErrorIs(t, err, protocol.ErrUnboundInstance)

	_, err = u.Encrypt([]byte("anything"), true)
	assert.ErrorIs(t, err, protocol.ErrUnboundInstance)
}

func TestGetPublicKey(t *testing.T) {
	u, _ := newBoundUser(t)

	key, err := u.GetPublicKey()
	require.NoError(t, err)
	assert.Equal(t, testKID, key.KID())
	assert.NotEmpty(t, key.Fingerprint())
	assert.Equal(t, strings.ToLower(key.Fingerprint()), key.Fingerprint())
	assert.Contains(t, key.Bundle(), "PGP PUBLIC KEY BLOCK")
	assert.Equal(t, key.Bundle(), key.Armored())

	// parsed keys are cached per name
	again, err := u.GetPublicKey()
	require.NoError(t, err)
	assert.Same(t, key, again)

	_, err = u.GetPublicKeyNamed("thiskeydoesnotexist")
	assert.ErrorIs(t, err, protocol.ErrPublicKey)
}

func TestGetPublicKeyFingerprintMismatch(t *testing.T) {
	_, bundle, err := pgp.NewTestKeyPair("Ian Chesal", "irc@example.com")
	require.NoError(t, err)
	dir := newTestDirectory(t, bundle,
		"7cc0ce678c37fc27da3ce494f56b7a6f0a32a0b9")

	u, err := Lookup(context.Background(), dir, pgp.NewOpenPGPEngine(), nil, "irc")
	require.NoError(t, err)

	_, err = u.GetPublicKey()
	assert.ErrorIs(t, err, protocol.ErrPublicKey)
	assert.Contains(t, err.Error(), "fingerprint mismatch")
}

func TestVerify(t *testing.T) {
	u, priv := newBoundUser(t)

	clearsigned, err := pgp.ClearSign(priv, []byte("Hello, world!"))
	require.NoError(t, err)

	ok, err := u.Verify(clearsigned, false)
	require.NoError(t, err)
	assert.True(t, ok)

	tampered := bytes.Replace(clearsigned,
		[]byte("Hello, world!"), []byte("Hello, another world!"), 1)
	require.NotEqual(t, clearsigned, tampered)

	ok, err = u.Verify(tampered, false)
	require.NoError(t, err, "non-strict mode reports a bad signature as plain false")
	assert.False(t, ok)

	ok, err = u.Verify(tampered, true)
	assert.False(t, ok)
	require.ErrorIs(t, err, protocol.ErrVerification)
	var verr *protocol.VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "signature bad", verr.Reason)
}

func TestVerifySignerMustMatchBoundUser(t *testing.T) {
	u, _ := newBoundUser(t)
	otherPriv, _, err := pgp.NewTestKeyPair("Other User", "other@example.com")
	require.NoError(t, err)

	clearsigned, err := pgp.ClearSign(otherPriv, []byte("Hello, world!"))
	require.NoError(t, err)

	ok, err := u.Verify(clearsigned, false)
	require.NoError(t, err)
	assert.False(t, ok, "a signature from a different key must not verify")
}

func TestVerifyMalformedInput(t *testing.T) {
	u, _ := newBoundUser(t)

	_, err := u.Verify([]byte("not a signed block"), false)
	require.Error(t, err, "malformed input is an error even in non-strict mode")
	assert.NotErrorIs(t, err, protocol.ErrVerification)
}

func TestVerifyFileInline(t *testing.T) {
	u, priv := newBoundUser(t)

	signed, err := pgp.InlineSign(priv, []byte("signed file content"))
	require.NoError(t, err)
	dataPath := filepath.Join(t.TempDir(), "message.asc")
	require.NoError(t, os.WriteFile(dataPath, signed, 0600))

	ok, err := u.VerifyFile(dataPath, "", false)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyFileDetached(t *testing.T) {
	u, priv := newBoundUser(t)
	dir := t.TempDir()

	data := []byte("the exact bytes that were signed")
	sig, err := pgp.DetachedSign(priv, data)
	require.NoError(t, err)

	dataPath := filepath.Join(dir, "data")
	sigPath := filepath.Join(dir, "data.sig")
	require.NoError(t, os.WriteFile(dataPath, data, 0600))
	require.NoError(t, os.WriteFile(sigPath, sig, 0600))

	ok, err := u.VerifyFile(dataPath, sigPath, false)
	require.NoError(t, err)
	assert.True(t, ok)

	// detached signatures cover the file's exact bytes
	require.NoError(t, os.WriteFile(dataPath, []byte("different bytes"), 0600))
	ok, err = u.VerifyFile(dataPath, sigPath, false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyFileMissing(t *testing.T) {
	u, _ := newBoundUser(t)

	_, err := u.VerifyFile(filepath.Join(t.TempDir(), "nope"), "", false)
	assert.Error(t, err)
}

func TestEncryptArmored(t *testing.T) {
	u, _ := newBoundUser(t)
	plaintext := "Hello, world!"

	payload, err := u.Encrypt([]byte(plaintext), true)
	require.NoError(t, err)
	assert.True(t, payload.Armored())
	armored := payload.String()
	assert.NotEmpty(t, strings.TrimSpace(armored))
	assert.NotEqual(t, plaintext, armored)
}

func TestEncryptBinaryRoundTrip(t *testing.T) {
	u, priv := newBoundUser(t)
	plaintext := []byte{0x00, 0x01, 0xff, 0xfe, 'a', 'b', 'c'}

	payload, err := u.Encrypt(plaintext, false)
	require.NoError(t, err)
	assert.False(t, payload.Armored())

	decrypted, err := pgp.Decrypt(priv, payload.Bytes(), crypto.Bytes)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncryptNoUsableKey(t *testing.T) {
	// directory record with an empty bundle: the key-unavailable path
	dir := newTestDirectory(t, "", "")
	u, err := Lookup(context.Background(), dir, pgp.NewOpenPGPEngine(), nil, "irc")
	require.NoError(t, err)

	_, err = u.Encrypt([]byte("Hello, world!"), true)
	assert.ErrorIs(t, err, protocol.ErrPublicKey)
}

func TestVerificationErrorsAreDistinguishable(t *testing.T) {
	u, _ := newBoundUser(t)

	// no key available vs. signature did not match vs. malformed input
	unbound := New(nil, pgp.NewOpenPGPEngine(), nil)
	_, err := unbound.Verify([]byte("x"), true)
	assert.ErrorIs(t, err, protocol.ErrUnboundInstance)
	assert.NotErrorIs(t, err, protocol.ErrVerification)

	_, err = u.Verify([]byte("not signed"), true)
	require.Error(t, err)
	assert.NotErrorIs(t, err, protocol.ErrVerification)

	otherPriv, _, err := pgp.NewTestKeyPair("Other User", "other@example.com")
	require.NoError(t, err)
	signed, err := pgp.ClearSign(otherPriv, []byte("Hello, world!"))
	require.NoError(t, err)
	_, err = u.Verify(signed, true)
	assert.ErrorIs(t, err, protocol.ErrVerification)
}
