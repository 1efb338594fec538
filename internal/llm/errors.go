package llm

import "errors"

var (
	// ErrUnavailable indicates the completion backend is unreachable.
	ErrUnavailable = errors.New("llm backend unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the backend answered with nothing usable.
	ErrInvalidOutput = errors.New("invalid llm output")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrNotConfigured indicates the selected provider lacks required settings,
	// such as an API key.
	ErrNotConfigured = errors.New("llm provider not configured")
)
