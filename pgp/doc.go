/*
Package pgp is the client's boundary to the OpenPGP engine that does
the actual cryptography. The client never implements PGP itself; it
hands armored key material, signed content, and plaintext to an Engine
and translates the outcome into the protocol error taxonomy.

Two engines are provided. OpenPGPEngine runs in-process on top of
gopenpgp and is the default. GnuPGEngine shells out to a local gpg
binary with a throwaway home directory per operation, for callers who
need their system GnuPG to be the one doing the checking. Which one a
client uses is explicit configuration (Config); there is no hidden
process-wide engine.
*/
package pgp
