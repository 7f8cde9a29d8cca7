package webauthn

import (
	"errors"

	"github.com/go-webauthn/webauthn/protocol"
)

var (
	ErrInvalidAttestation = errors.New("invalid attestation")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoCredentials      = errors.New("user has no credentials")
	ErrChallengeNotFound  = errors.New("challenge not found or expired")
	ErrWrongCeremony      = errors.New("challenge belongs to another ceremony")
	ErrVerificationFailed = errors.New("verification failed")
)

// Protocol errors keep the useful part in details
func describe(err error) string {
	var protocolErr *protocol.Error
	if errors.As(err, &protocolErr) {
		if protocolErr.DevInfo != "" {
			return protocolErr.Details + ": " + protocolErr.DevInfo
		}
		return protocolErr.Details
	}
	return err.Error()
}
