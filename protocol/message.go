// Defines the message format of the keybase.io user/lookup API
// and accessors for the pieces of a user record the client needs.

package protocol

// Status names returned in the status section of every keybase.io
// API response.
const (
	StatusOK         = "OK"
	StatusNotFound   = "NOT_FOUND"
	StatusInputError = "INPUT_ERROR"
)

// PrimaryKeyName is the conventional name under which a user's
// primary public key is published in the directory.
const PrimaryKeyName = "primary"

// A Status reports the outcome of an API request. Every keybase.io
// response carries one; a response without a well-formed status is
// treated as malformed.
type Status struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// A PublicKeyRecord is the directory's record of a single public key
// belonging to a user: the opaque key id, the ASCII-armored bundle,
// the key's GPG fingerprint, and directory bookkeeping timestamps.
// Records are immutable once retrieved.
type PublicKeyRecord struct {
	KID            string `json:"kid"`
	KeyType        int    `json:"key_type"`
	Bundle         string `json:"bundle"`
	KeyFingerprint string `json:"key_fingerprint"`
	Mtime          int64  `json:"mtime"`
	Ctime          int64  `json:"ctime"`
	UKBID          string `json:"ukbid"`
}

// Basics holds the account basics section of a user record.
type Basics struct {
	Username string `json:"username"`
	Ctime    int64  `json:"ctime"`
	Mtime    int64  `json:"mtime"`
}

// Profile holds the public profile section of a user record.
type Profile struct {
	FullName string `json:"full_name"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

// A UserObject is the public view of a keybase.io user: account
// basics, profile, and the user's published public keys, keyed by
// key name ("primary" by convention).
type UserObject struct {
	ID         string                      `json:"id"`
	Basics     *Basics                     `json:"basics"`
	Profile    *Profile                    `json:"profile"`
	PublicKeys map[string]*PublicKeyRecord `json:"public_keys"`
}

// A LookupResponse is the directory's answer to a
// user/lookup.json request.
type LookupResponse struct {
	Status *Status     `json:"status"`
	Them   *UserObject `json:"them"`
}

// KeyNames returns the names of all public keys published for the
// user, in no particular order. It returns an empty slice when the
// user has no keys.
func (u *UserObject) KeyNames() []string {
	names := make([]string, 0, len(u.PublicKeys))
	for name := range u.PublicKeys {
		names = append(names, name)
	}
	return names
}

// Key returns the public-key record published under the given name,
// or nil if the user has no key by that name.
func (u *UserObject) Key(name string) *PublicKeyRecord {
	if u.PublicKeys == nil {
		return nil
	}
	return u.PublicKeys[name]
}

// FullName returns the user's full name, or "" if the profile
// section is absent.
func (u *UserObject) FullName() string {
	if u.Profile == nil {
		return ""
	}
	return u.Profile.FullName
}

// Location returns the user's location, or "" if the profile
// section is absent.
func (u *UserObject) Location() string {
	if u.Profile == nil {
		return ""
	}
	return u.Profile.Location
}
