/*
Package directory implements the client's view of the keybase.io
public directory: an HTTP lookup that resolves a username to the
user's published public keys. It distinguishes a username missing
from the directory from a response the client cannot interpret, and
nothing else; search by social handles, multi-result discovery, and
caching of lookup results are deliberately not part of this package.
*/
package directory
