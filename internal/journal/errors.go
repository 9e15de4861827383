package journal

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every user-correctable error of the capture flow.
var ErrValidation = errors.New("validation failed")

var (
	ErrNoEmotionsSelected = fmt.Errorf("%w: select at least one emotion", ErrValidation)
	ErrEmptyText          = fmt.Errorf("%w: write something in your journal", ErrValidation)
	ErrOutOfRange         = fmt.Errorf("%w: intensity must be between %d and %d", ErrValidation, MinIntensity, MaxIntensity)
	ErrUnknownEmotion     = fmt.Errorf("%w: unknown emotion", ErrValidation)
	ErrUnknownDimension   = fmt.Errorf("%w: unknown intensity dimension", ErrValidation)
)

var (
	ErrWrongStep     = errors.New("operation not allowed in the current step")
	ErrEntryNotFound = errors.New("journal entry not found")
	ErrNoOwner       = errors.New("entry owner is required")

	ErrSubmitInFlight = fmt.Errorf("%w: entry is being saved", ErrWrongStep)
)

// PersistenceError reports a failed repository call. The draft that triggered it is
// left untouched so the caller can retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("journal: %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
