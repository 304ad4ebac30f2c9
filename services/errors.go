package services

import (
	"errors"

	"assetdesk-backend/repositories"
)

// Typed failures returned by the service layer. Controllers map these onto
// HTTP statuses; anything else is treated as a storage failure and surfaced
// generically.
var (
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvalidQuantity        = errors.New("invalid quantity")

	ErrInsufficientQuantity = repositories.ErrInsufficientQuantity
	ErrInvariantViolation   = repositories.ErrInvariantViolation
)
