package protocol

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorCodeMessages(t *testing.T) {
	codes := []ErrorCode{
		ReqSuccess,
		ErrUnboundInstance,
		ErrUserNotFound,
		ErrLookupInvalid,
		ErrMalformedResponse,
		ErrPublicKey,
		ErrVerification,
		ErrEncryption,
	}
	for _, code := range codes {
		if !strings.HasPrefix(code.Error(), "[keybase]") {
			t.Error("Expect a [keybase]-prefixed message, got", code.Error())
		}
	}
	if ErrorCode(0).Error() != "[keybase] Unknown error code" {
		t.Error("Unknown codes should report as unknown, got",
			ErrorCode(0).Error())
	}
}

func TestVerificationErrorMatchesErrVerification(t *testing.T) {
	err := NewVerificationError("signature bad")
	if !errors.Is(err, ErrVerification) {
		t.Error("VerificationError should match ErrVerification")
	}
	if !strings.Contains(err.Error(), "signature bad") {
		t.Error("Expect the reason in the message, got", err.Error())
	}
	if errors.Is(err, ErrEncryption) {
		t.Error("VerificationError shouldn't match unrelated codes")
	}
}

func TestIsUserNotFound(t *testing.T) {
	wrapped := errors.Join(errors.New("lookup 'nosuchuser'"), ErrUserNotFound)
	if !IsUserNotFound(wrapped) {
		t.Error("IsUserNotFound should see through wrapping")
	}
	if IsUserNotFound(ErrLookupInvalid) {
		t.Error("IsUserNotFound shouldn't match ErrLookupInvalid")
	}
}
