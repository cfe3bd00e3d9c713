package viewer

import "errors"

var (
	ErrClientStopped = errors.New("viewer client stopped")
	ErrInvalidConfig = errors.New("invalid viewer config")
)
