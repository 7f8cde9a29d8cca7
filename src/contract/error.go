package contract

import "errors"

var (
	ErrNotImplemented = errors.New("not implemented")
	ErrInvalidInput   = errors.New("invalid contract input")
	ErrUnknownAction  = errors.New("unknown action")
)
