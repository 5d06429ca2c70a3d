package internal

// Version is the current version of the keybase-go client
// and its command-line tools.
const Version = "0.2.0"
