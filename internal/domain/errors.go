package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrValidation          = errors.New("invalid request")
	ErrQuotaExceeded       = errors.New("quota exceeded")
	ErrPlatformMismatch    = errors.New("declared platform does not match url")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrWalletRequired      = errors.New("wallet required")
	ErrUpstreamFetch       = errors.New("upstream fetch failed")
)
