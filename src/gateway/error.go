package gateway

import (
	"errors"
	"net/http"

	"github.com/hyle-org/buy-my-tweet/src/contract"
	"github.com/hyle-org/buy-my-tweet/src/utils/hyle"
	"github.com/hyle-org/buy-my-tweet/src/utils/webauthn"
)

var (
	ErrProofRequired      = errors.New("Proof is required in request body")
	ErrInvalidProofFormat = errors.New("Invalid proof format")
	ErrMissingParameters  = errors.New("Missing required parameters: contractName and guestId")
	ErrInvalidGuestId     = errors.New("guestId must be a 64-character hex string")
	ErrUsernameRequired   = errors.New("Username is required")
	ErrUserIdRequired     = errors.New("User id is required")
	ErrMissingData        = errors.New("Missing required data")
	ErrMissingClaimData   = errors.New("Missing required claim data")
	ErrForeignClaim       = errors.New("Claim belongs to another user")
	ErrContractNotFound   = errors.New("Contract not found")
)

// Status of errors returned by the passkey ceremonies
func webAuthnStatus(err error) int {
	switch {
	case errors.Is(err, webauthn.ErrInvalidUsername),
		errors.Is(err, webauthn.ErrUsernameTaken),
		errors.Is(err, webauthn.ErrUserNotFound),
		errors.Is(err, webauthn.ErrNoCredentials),
		errors.Is(err, webauthn.ErrChallengeNotFound),
		errors.Is(err, webauthn.ErrWrongCeremony),
		errors.Is(err, webauthn.ErrInvalidAttestation),
		errors.Is(err, webauthn.ErrVerificationFailed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func contractStatus(err error) int {
	switch {
	case errors.Is(err, contract.ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, contract.ErrUnknownAction),
		errors.Is(err, contract.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Node rejections are passed through, anything else is on our side
func hyleStatus(err error) int {
	var statusErr *hyle.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	if errors.As(err, &statusErr) && statusErr.StatusCode < 500 {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
