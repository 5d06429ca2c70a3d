/*
Package protocol defines the wire messages of the keybase.io public
directory API that the client consumes, and the taxonomy of error
conditions the client reports.

The directory maps usernames to public-key records. The client only
depends on the user/lookup.json response shape: a status section that
must be present and well-formed, and a "them" section holding the
user object with its published public keys.

Errors are closed-set ErrorCode values so callers can distinguish
"user not found" from "lookup invalid" from "malformed response" from
problems with the key material itself. Verification failures carry a
human-readable reason via VerificationError.
*/
package protocol
