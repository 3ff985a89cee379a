package products

import "errors"

// Sentinel errors. The service wraps them in apperror values, so callers can
// match either the AppError type or the sentinel with errors.Is.
var (
	ErrNotFound            = errors.New("product not found")
	ErrNotOwner            = errors.New("product belongs to another user")
	ErrOwnProduct          = errors.New("cannot buy or rent own product")
	ErrOwnerMismatch       = errors.New("product owner has changed")
	ErrAlreadySold         = errors.New("product already sold")
	ErrCurrentlyRented     = errors.New("product is rented")
	ErrRentalConflict      = errors.New("rental window overlaps existing rental")
	ErrCategoryNotFound    = errors.New("one or more categories not found")
	ErrUnknownUser         = errors.New("acting user does not exist")
	ErrRentalDatesRequired = errors.New("rental start and end dates are required")
	ErrInvalidRentalWindow = errors.New("rental start is after rental end")
	ErrInvalidDate         = errors.New("invalid date")
)
