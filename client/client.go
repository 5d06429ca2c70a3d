package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/ianchesal/keybase-go/application"
	"github.com/ianchesal/keybase-go/directory"
	"github.com/ianchesal/keybase-go/pgp"
	"github.com/ianchesal/keybase-go/protocol"
)

// A User is a read-only view of a keybase.io user and their publicly
// available keys: a directory-entry handle that can verify signed
// material against the user's resolved key and encrypt data for them.
// It never manipulates the directory's key data.
type User struct {
	directory *directory.Directory
	engine    pgp.Engine
	logger    *application.Logger

	username        string
	userObject      *protocol.UserObject
	lookupPerformed bool

	// parsed keys, cached per key name after first use
	keys map[string]*PublicKey
}

// New returns an unbound User. Bind it with Lookup before fetching
// keys, verifying, or encrypting. A nil logger discards log output.
func New(dir *directory.Directory, engine pgp.Engine, logger *application.Logger) *User {
	if logger == nil {
		logger = application.NewNopLogger()
	}
	return &User{
		directory: dir,
		engine:    engine,
		logger:    logger,
		keys:      make(map[string]*PublicKey),
	}
}

// Lookup constructs a User and eagerly binds it to username. If the
// username doesn't exist in the directory, the user-not-found
// condition from the lookup is returned.
func Lookup(ctx context.Context, dir *directory.Directory, engine pgp.Engine,
	logger *application.Logger, username string) (*User, error) {
	u := New(dir, engine, logger)
	if err := u.Lookup(ctx, username); err != nil {
		return nil, err
	}
	return u, nil
}

// Lookup resolves username in the public directory and binds this
// handle to the result. Lookup can be called until the first
// successful resolution; after that, subsequent calls fail with
// protocol.ErrLookupInvalid.
func (u *User) Lookup(ctx context.Context, username string) error {
	if u.lookupPerformed {
		return fmt.Errorf("%w: already bound to username %q",
			protocol.ErrLookupInvalid, u.username)
	}
	them, err := u.directory.Lookup(ctx, username)
	if err != nil {
		return err
	}
	u.userObject = them
	u.username = username
	u.lookupPerformed = true
	u.logger.Debug("Bound to user", "username", username)
	return nil
}

// IsBound reports whether this handle has been bound to a user.
func (u *User) IsBound() bool {
	return u.lookupPerformed && u.username != "" && u.userObject != nil
}

// Username returns the bound username, or "" if unbound.
func (u *User) Username() string {
	return u.username
}

// Name returns the full name of the bound user, or "" if the handle
// is unbound or the user has no profile.
func (u *User) Name() string {
	if u.userObject == nil {
		return ""
	}
	return u.userObject.FullName()
}

// Location returns the geographical location of the bound user, or ""
// if the handle is unbound or the user has no profile.
func (u *User) Location() string {
	if u.userObject == nil {
		return ""
	}
	return u.userObject.Location()
}

// PublicKeyNames returns the sorted names of all public keys
// published for the bound user. It returns an empty slice if the
// handle is unbound or the user has no keys.
func (u *User) PublicKeyNames() []string {
	if u.userObject == nil {
		return []string{}
	}
	names := u.userObject.KeyNames()
	sort.Strings(names)
	return names
}

// unboundError fails with protocol.ErrUnboundInstance when the handle
// isn't bound to a real user in the directory, annotated with what
// the caller was trying to do.
func (u *User) unboundError(doing string) error {
	if !u.IsBound() {
		return fmt.Errorf("%w: unable to %s", protocol.ErrUnboundInstance, doing)
	}
	return nil
}

// GetPublicKey returns the bound user's primary public key.
func (u *User) GetPublicKey() (*PublicKey, error) {
	return u.GetPublicKeyNamed(protocol.PrimaryKeyName)
}

// GetPublicKeyNamed returns the bound user's public key published
// under the given name. It fails with protocol.ErrUnboundInstance on
// an unbound handle and with protocol.ErrPublicKey when the user has
// no key by that name or the key material is unusable.
func (u *User) GetPublicKeyNamed(name string) (*PublicKey, error) {
	if err := u.unboundError("fetch public key"); err != nil {
		return nil, err
	}
	if key, ok := u.keys[name]; ok {
		return key, nil
	}
	record := u.userObject.Key(name)
	if record == nil {
		return nil, fmt.Errorf("%w: user %s has no key named %q",
			protocol.ErrPublicKey, u.username, name)
	}
	key, err := newPublicKey(record)
	if err != nil {
		return nil, err
	}
	u.keys[name] = key
	return key, nil
}

// Verify checks a clear-signed text block (message and signature
// inline between standard armor boundary markers) against the bound
// user's primary key. A signature that doesn't check out returns
// (false, nil); with strict set, it instead fails with a
// *protocol.VerificationError carrying the reason. Errors unrelated
// to the signature itself (unbound handle, unusable key, input that
// isn't a signed block at all) are returned regardless of strict.
func (u *User) Verify(signedText []byte, strict bool) (bool, error) {
	key, err := u.GetPublicKey()
	if err != nil {
		return false, err
	}
	return u.verdict(u.engine.VerifyCleartext(key.Key(), signedText), strict)
}

// VerifyFile checks a signed file against the bound user's primary
// key. With an empty detachedSigPath, the file at dataPath is treated
// as containing both message and embedded signature, as produced by a
// non-detached signing operation. Otherwise detachedSigPath names a
// detached signature over the exact bytes of the file at dataPath.
// The boolean/strict contract is the same as Verify's.
func (u *User) VerifyFile(dataPath, detachedSigPath string, strict bool) (bool, error) {
	key, err := u.GetPublicKey()
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return false, fmt.Errorf("cannot read signed file: %v", err)
	}
	if detachedSigPath == "" {
		return u.verdict(u.engine.VerifyInline(key.Key(), data), strict)
	}
	sig, err := os.ReadFile(detachedSigPath)
	if err != nil {
		return false, fmt.Errorf("cannot read detached signature: %v", err)
	}
	return u.verdict(u.engine.VerifyDetached(key.Key(), data, sig), strict)
}

// verdict translates an engine verification outcome into the dual
// bool/error contract.
func (u *User) verdict(err error, strict bool) (bool, error) {
	switch {
	case err == nil:
		u.logger.Debug("Signature verified", "username", u.username)
		return true, nil
	case errors.Is(err, protocol.ErrVerification):
		u.logger.Debug("Signature rejected", "username", u.username)
		if strict {
			return false, err
		}
		return false, nil
	default:
		return false, err
	}
}

// Encrypt encrypts data for the bound user's primary key. With armor
// set, the payload is ASCII text suitable for embedding in plaintext
// channels; otherwise it carries raw encrypted bytes. Encrypt fails
// with protocol.ErrUnboundInstance or protocol.ErrPublicKey when no
// usable key is available, and with protocol.ErrEncryption when the
// engine rejects the request.
func (u *User) Encrypt(data []byte, armor bool) (*pgp.EncryptedPayload, error) {
	key, err := u.GetPublicKey()
	if err != nil {
		return nil, err
	}
	payload, err := u.engine.Encrypt(key.Key(), data, armor)
	if err != nil {
		return nil, err
	}
	u.logger.Debug("Encrypted payload for user",
		"username", u.username, "armor", armor, "bytes", len(payload.Bytes()))
	return payload, nil
}
