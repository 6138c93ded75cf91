package model

import "errors"

// Common errors returned by model providers and middleware.
var (
	// ErrUnknownProvider indicates no factory is registered for the
	// requested provider name.
	ErrUnknownProvider = errors.New("unknown model provider")

	// ErrEmptyAPIKey indicates a provider requiring authentication was
	// configured without an API key.
	ErrEmptyAPIKey = errors.New("API key cannot be empty")

	// ErrEmptyResponse indicates the provider returned no usable text.
	ErrEmptyResponse = errors.New("empty response from provider")

	// ErrRateLimited indicates the provider rejected the request for
	// quota reasons; retry middleware treats it as transient.
	ErrRateLimited = errors.New("provider rate limited the request")
)
