package hyle

import "errors"

var (
	ErrFailedToParse    = errors.New("failed to parse response")
	ErrByteOutOfRange   = errors.New("byte value out of range")
	ErrOddHexLength     = errors.New("hex string must have an even number of characters")
	ErrInvalidHex       = errors.New("invalid hex characters")
	ErrInvalidProgramId = errors.New("program id must be a 64-character hex string")
	ErrMissingContract  = errors.New("contract name is required")
	ErrStateConversion  = errors.New("failed to convert state")
)
