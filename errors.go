package instagram

import "errors"

var (
	ErrValidation        = errors.New("instagram: invalid input")
	ErrExtraction        = errors.New("instagram: structured data not found")
	ErrNavigationTimeout = errors.New("instagram: navigation timed out")
	ErrTransport         = errors.New("instagram: transport failure")
	ErrPartialEnrichment = errors.New("instagram: post enrichment failed")
	ErrRateLimited       = errors.New("instagram: rate limited")
	ErrNotFound          = errors.New("instagram: not found")
	ErrBrowserNotReady   = errors.New("instagram: browser not initialized")
)
