package api

import "errors"

var (
	// ErrNilAssistant is returned by NewRouter when no assistant service is supplied.
	ErrNilAssistant = errors.New("api: assistant service is required")
)
