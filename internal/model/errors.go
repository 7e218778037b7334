package model

import "errors"

// Common errors used across the application
var (
	// Auth-phase errors; terminal for the connection that presented them
	ErrMissingCredential        = errors.New("no identity token presented")
	ErrInvalidCredential        = errors.New("identity token is invalid")
	ErrExpiredCredential        = errors.New("identity token has expired")
	ErrUnknownOrInactiveAccount = errors.New("account unknown or inactive")

	// Registry-phase invariant guards; logged, never fatal to the connection
	ErrDuplicateConnection = errors.New("connection already registered")
	ErrUnknownConnection   = errors.New("connection not registered")

	// Per-event validation failure; the event is dropped
	ErrMalformedPayload = errors.New("malformed event payload")

	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Storage errors
	ErrPositionNotFound = errors.New("no saved position")
	ErrItemNotFound     = errors.New("item not found")
	ErrSpeciesNotFound  = errors.New("species not found")
	ErrCreatureNotFound = errors.New("creature not found")
)
