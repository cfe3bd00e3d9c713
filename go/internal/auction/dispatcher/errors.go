package dispatcher

import "errors"

var (
	ErrNoIdentity     = errors.New("no team identity bound to session")
	ErrNoActivePlayer = errors.New("no active player to bid on")
)
