package config

import "errors"

var (
	ErrDurationTooSmall = errors.New("duration below minimum")
	ErrPortOutOfRange   = errors.New("port out of range")
)
