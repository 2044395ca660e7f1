package pinger

import "errors"

var (
	// ErrPingerAlreadyRegistered is returned when attempting to register a pinger that already exists
	ErrPingerAlreadyRegistered = errors.New("pinger already registered")

	ErrNilPinger      = errors.New("pinger cannot be nil")
	ErrAlreadyStarted = errors.New("already started")
)
