package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/ianchesal/keybase-go/pgp"
	"github.com/ianchesal/keybase-go/protocol"
)

// A PublicKey is one user's public key as resolved from the
// directory: the directory's record plus the parsed key material.
// It is immutable and owned by the lookup that produced it.
type PublicKey struct {
	record *protocol.PublicKeyRecord
	key    *pgp.Key
}

// newPublicKey parses the record's armored bundle and checks that the
// fingerprint of the imported key matches the fingerprint the
// directory published for it. A mismatch means the bundle is not the
// key the directory record claims it is, and is rejected outright.
func newPublicKey(record *protocol.PublicKeyRecord) (*PublicKey, error) {
	key, err := pgp.NewKeyFromBundle(record.Bundle)
	if err != nil {
		return nil, err
	}
	if record.KeyFingerprint != "" &&
		strings.ToLower(record.KeyFingerprint) != key.Fingerprint() {
		return nil, fmt.Errorf(
			"%w: fingerprint mismatch on key import (record %s, bundle %s)",
			protocol.ErrPublicKey,
			strings.ToLower(record.KeyFingerprint), key.Fingerprint())
	}
	return &PublicKey{record: record, key: key}, nil
}

// KID returns the directory's key id for this key.
func (k *PublicKey) KID() string {
	return k.record.KID
}

// KeyType returns the directory's key type for this key.
func (k *PublicKey) KeyType() int {
	return k.record.KeyType
}

// Bundle returns the ASCII-armored representation of the key.
func (k *PublicKey) Bundle() string {
	return k.record.Bundle
}

// Armored is a synonym for Bundle.
func (k *PublicKey) Armored() string {
	return k.record.Bundle
}

// Fingerprint returns the key's GPG fingerprint as lowercase hex.
func (k *PublicKey) Fingerprint() string {
	return k.key.Fingerprint()
}

// UKBID returns the UKB id for the key.
func (k *PublicKey) UKBID() string {
	return k.record.UKBID
}

// Mtime returns the time this key was last modified in the directory.
func (k *PublicKey) Mtime() time.Time {
	return time.Unix(k.record.Mtime, 0)
}

// Ctime returns the time this key was created in the directory.
func (k *PublicKey) Ctime() time.Time {
	return time.Unix(k.record.Ctime, 0)
}

// Key returns the parsed key material for handing to an Engine.
func (k *PublicKey) Key() *pgp.Key {
	return k.key
}
