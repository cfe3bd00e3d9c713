package session

import "errors"

var ErrInvalidBootstrap = errors.New("invalid bootstrap")
