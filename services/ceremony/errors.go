package ceremony

import (
	"Awardly/services/store"
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrNotFound         = errors.New("not found")
	ErrVotingClosed     = errors.New("voting is closed")
	ErrValidation       = errors.New("validation error")
	ErrConflict         = errors.New("conflict")
)

// errNotInLobby reports an entity that exists under another lobby, callers
// see it as missing
var errNotInLobby = store.ErrNotFound

func validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// fromStore maps storage sentinels onto the errors callers switch on.
// what names the entity for the message.
func fromStore(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrConflict, what)
	}
	return err
}
