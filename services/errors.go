package services

import "errors"

// Error kinds the service layer reports. Controllers translate these to HTTP
// statuses (404, 409, 400); everything else is a 500.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)
