package llm

import "errors"

var (
	// ErrMissingAPIKey indicates the client was configured without a key
	ErrMissingAPIKey = errors.New("llm api key is empty")

	// ErrRequestFailed indicates the chat-completions call did not succeed
	ErrRequestFailed = errors.New("llm request failed")

	// ErrEmptyResponse indicates the service answered without usable content
	ErrEmptyResponse = errors.New("llm returned empty content")

	// ErrUnavailable indicates the health probe failed
	ErrUnavailable = errors.New("llm service unavailable")
)
