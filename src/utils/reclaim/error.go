package reclaim

import "errors"

var (
	ErrNoSignatures       = errors.New("no signatures")
	ErrIdentifierMismatch = errors.New("identifier mismatch")
	ErrInvalidContext     = errors.New("unable to parse non-empty context, must be JSON or empty string")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrWitnessMissing     = errors.New("signature of a witness is missing")
	ErrNoWitnesses        = errors.New("no witnesses to verify against")
)
