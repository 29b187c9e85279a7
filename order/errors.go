package order

import "errors"

var (
	ErrDurationExceedsMaximum        = errors.New("duration exceeds maximum")
	ErrIntervalDoesNotDivideDuration = errors.New("interval does not divide duration")
	ErrEndTimeInPast                 = errors.New("end time in past")
	ErrExistingOrderInProgress       = errors.New("existing order in progress")
	ErrOrderNotFound                 = errors.New("order not found")
	ErrUnauthorizedCaller            = errors.New("unauthorized caller")
	ErrNoProceedsToClaim             = errors.New("no proceeds to claim")
	ErrIntervalMismatch              = errors.New("interval does not divide remaining duration")
	ErrInvalidInterval               = errors.New("execution interval must be positive")
	ErrInvalidAmount                 = errors.New("total amount must be positive")
)
