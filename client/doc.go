/*
Package client implements the caller-facing handle onto one keybase.io
user: look the user up in the public directory, fetch their public
keys, verify clear-signed and detached-signature material against the
resolved key, and encrypt data for them.

A User starts unbound. It becomes bound once a directory lookup has
resolved a username, and stays bound to that username for its whole
life; a second lookup is an error. Operations that need key material
on an unbound handle fail with protocol.ErrUnboundInstance rather than
silently proceeding. Each User is independent and meant for one
logical flow of control at a time.
*/
package client
