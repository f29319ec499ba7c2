package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrRateLimited       = errors.New("rate limited")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrSigningFailed     = errors.New("signing failed")
	ErrUnknownOddsFormat = errors.New("unknown odds format")
	ErrNoQuotes          = errors.New("no odds quotes collected")
)
