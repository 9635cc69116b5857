package models

import "errors"

// Domain errors shared across services and handlers. Repositories translate
// driver-level errors (pgx.ErrNoRows) into these before they cross the
// service boundary.
var (
	ErrNotFound            = errors.New("record not found")
	ErrValidation          = errors.New("validation failed")
	ErrActiveTenancyExists = errors.New("active tenancy exists")
	ErrUnauthorized        = errors.New("unauthorized")
)
