package llm

import "errors"

var (
	// ErrProviderNotRegistered is returned by Router.Route when the default key has no provider.
	ErrProviderNotRegistered = errors.New("llm provider not registered")

	// ErrEmptyChoices is returned when the runtime answers without any completion choice.
	ErrEmptyChoices = errors.New("llm response has no choices")
)
