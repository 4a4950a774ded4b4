package booking

import (
	"errors"
	"fmt"
)

// Error taxonomy of the booking engine. Every one of these is a normal,
// recoverable outcome from the wizard's point of view; none escapes the
// submission boundary as a process-fatal failure.
var (
	// ErrIncompleteSelection: a required selection is missing at submission
	// time. The wizard stays in Confirming.
	ErrIncompleteSelection = errors.New("veterinarian, pet, date and time must all be selected")

	// ErrOwnershipViolation: the acting owner does not own the selected pet.
	// Fatal to the submission, never retried automatically.
	ErrOwnershipViolation = errors.New("pet does not belong to the acting owner")

	// ErrDailyLimitExceeded: the owner already holds the maximum number of
	// live appointments for the date. Recoverable by picking another date.
	ErrDailyLimitExceeded = errors.New("daily appointment limit reached for this date")

	// ErrVeterinarianUnavailable: the veterinarian's availability flag is off
	// at validation time. Recoverable by picking another veterinarian.
	ErrVeterinarianUnavailable = errors.New("veterinarian is not accepting appointments")

	// ErrSlotTaken: another appointment already occupies the veterinarian's
	// slot. Recoverable by picking another time.
	ErrSlotTaken = errors.New("selected time slot is no longer available")

	// Wizard transition errors.
	ErrInvalidTransition = errors.New("action not allowed in the current step")
	ErrUnknownVeterinarian = errors.New("veterinarian is not selectable at this clinic")
	ErrUnknownPet          = errors.New("pet is not in the owner's list")
	ErrDateOutOfRange      = errors.New("date must be within the next 30 days")
	ErrInvalidTimeSlot     = errors.New("time is not a bookable slot for that day")
)

// RepositoryError wraps a persistence fault. The write is atomic, so no
// partial record is left behind and the submission may simply be retried.
type RepositoryError struct {
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("appointment store failure: %v", e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}
