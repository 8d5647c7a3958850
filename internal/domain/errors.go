package domain

import "errors"

// Sentinel errors shared by services and adapters.
// Adapters map them to transport status codes with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrFirstEntryTaken   = errors.New("member already has a first entry for this month")
)
