package pgp

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ianchesal/keybase-go/protocol"
)

// GnuPGEngine verifies signatures and encrypts data by shelling out
// to a local GnuPG installation. Every operation runs against a
// throwaway home directory holding only the target key, so the user's
// own keyring is never consulted or modified. The home directory and
// any temporary files are removed on every exit path.
type GnuPGEngine struct {
	binary string
}

var _ Engine = (*GnuPGEngine)(nil)

// FindGPG searches the PATH for the named gpg executable and resolves
// symlinks to the real binary path. Homebrew-style installs symlink
// gpg into /usr/local/bin, and some gpg wrappers refuse to run through
// the link. An empty binary name defaults to "gpg".
func FindGPG(binary string) (string, error) {
	if binary == "" {
		binary = "gpg"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("[pgp] Cannot find %s in PATH: %v", binary, err)
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return path, nil
}

// NewGnuPGEngine constructs an engine around the named gpg executable,
// searching the PATH when binary is empty.
func NewGnuPGEngine(binary string) (*GnuPGEngine, error) {
	path, err := FindGPG(binary)
	if err != nil {
		return nil, err
	}
	return &GnuPGEngine{binary: path}, nil
}

// Binary returns the resolved path of the gpg executable in use.
func (e *GnuPGEngine) Binary() string {
	return e.binary
}

// baseArgs returns the argument prefix every gpg invocation uses:
// an isolated home directory, batch mode, and machine-readable status
// output on stdout.
func baseArgs(homedir string) []string {
	return []string{
		"--homedir", homedir,
		"--batch",
		"--no-tty",
		"--status-fd", "1",
		"--trust-model", "always",
	}
}

// withKeyring creates a temporary home directory, imports the key's
// bundle into it, and runs fn against it. The directory is removed
// when fn returns, on success and failure alike.
func (e *GnuPGEngine) withKeyring(key *Key, fn func(homedir string) error) error {
	homedir, err := os.MkdirTemp("", "*.keybase")
	if err != nil {
		return fmt.Errorf("[pgp] Cannot create keyring directory: %v", err)
	}
	defer os.RemoveAll(homedir)
	if err := os.Chmod(homedir, 0700); err != nil {
		return fmt.Errorf("[pgp] Cannot restrict keyring directory: %v", err)
	}

	args := append(baseArgs(homedir), "--import")
	if _, err := e.run(args, []byte(key.Armored())); err != nil {
		return fmt.Errorf("%w: gpg import failed: %v", protocol.ErrPublicKey, err)
	}
	return fn(homedir)
}

// run executes gpg with the given arguments and stdin, returning the
// combined status/stdout stream.
func (e *GnuPGEngine) run(args []string, stdin []byte) ([]byte, error) {
	cmd := exec.Command(e.binary, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("%v: %s", err,
			strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// statusSignatureError interprets gpg's --status-fd output for a
// verification run. GOODSIG means the signature checked out. BADSIG,
// ERRSIG, and NO_PUBKEY all mean the payload does not verify against
// the key in the throwaway keyring, which includes content tampering
// and signatures made by some other key.
func statusSignatureError(status []byte, runErr error) error {
	s := string(status)
	switch {
	case strings.Contains(s, "[GNUPG:] GOODSIG"):
		return nil
	case strings.Contains(s, "[GNUPG:] BADSIG"),
		strings.Contains(s, "[GNUPG:] ERRSIG"),
		strings.Contains(s, "[GNUPG:] NO_PUBKEY"):
		return protocol.NewVerificationError(badSignatureReason)
	case runErr != nil:
		return fmt.Errorf("[pgp] gpg verify failed: %v", runErr)
	default:
		return fmt.Errorf("[pgp] gpg reported no signature status")
	}
}

// verifyFiles runs gpg --verify on the given file arguments inside a
// keyring holding only key.
func (e *GnuPGEngine) verifyFiles(key *Key, write func(homedir string) ([]string, error)) error {
	return e.withKeyring(key, func(homedir string) error {
		files, err := write(homedir)
		if err != nil {
			return err
		}
		args := append(baseArgs(homedir), "--verify")
		args = append(args, files...)
		status, runErr := e.run(args, nil)
		return statusSignatureError(status, runErr)
	})
}

// VerifyCleartext checks a clear-signed text block against key.
func (e *GnuPGEngine) VerifyCleartext(key *Key, clearsigned []byte) error {
	return e.verifyInput(key, clearsigned)
}

// VerifyInline checks a combined signed-and-content message
// against key.
func (e *GnuPGEngine) VerifyInline(key *Key, message []byte) error {
	return e.verifyInput(key, message)
}

// gpg --verify handles clear-signed and inline-signed input the same
// way, so both paths share one implementation.
func (e *GnuPGEngine) verifyInput(key *Key, signed []byte) error {
	return e.verifyFiles(key, func(homedir string) ([]string, error) {
		signedPath := filepath.Join(homedir, "signed.asc")
		if err := os.WriteFile(signedPath, signed, 0600); err != nil {
			return nil, fmt.Errorf("[pgp] Cannot stage signed input: %v", err)
		}
		return []string{signedPath}, nil
	})
}

// VerifyDetached checks a detached signature over data against key.
func (e *GnuPGEngine) VerifyDetached(key *Key, data, signature []byte) error {
	return e.verifyFiles(key, func(homedir string) ([]string, error) {
		sigPath := filepath.Join(homedir, "data.sig")
		dataPath := filepath.Join(homedir, "data")
		if err := os.WriteFile(sigPath, signature, 0600); err != nil {
			return nil, fmt.Errorf("[pgp] Cannot stage signature: %v", err)
		}
		if err := os.WriteFile(dataPath, data, 0600); err != nil {
			return nil, fmt.Errorf("[pgp] Cannot stage data: %v", err)
		}
		return []string{sigPath, dataPath}, nil
	})
}

// Encrypt encrypts plaintext for key via gpg --encrypt.
func (e *GnuPGEngine) Encrypt(key *Key, plaintext []byte, armor bool) (*EncryptedPayload, error) {
	var payload *EncryptedPayload
	err := e.withKeyring(key, func(homedir string) error {
		args := []string{
			"--homedir", homedir,
			"--batch",
			"--no-tty",
			"--trust-model", "always",
			"--recipient", key.Fingerprint(),
			"--output", "-",
		}
		if armor {
			args = append(args, "--armor")
		}
		args = append(args, "--encrypt")
		out, err := e.run(args, plaintext)
		if err != nil {
			return fmt.Errorf("%w: %v", protocol.ErrEncryption, err)
		}
		payload = NewEncryptedPayload(out, armor)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}
