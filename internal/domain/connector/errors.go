package connector

import "errors"

var (
	// ErrNotConfigured indicates required connector configuration is missing
	ErrNotConfigured = errors.New("connector: not configured")
	// ErrNotEnabled indicates the connector is disabled by configuration
	ErrNotEnabled = errors.New("connector: not enabled")
	// ErrUnknownCode indicates the code is not registered
	ErrUnknownCode = errors.New("connector: unknown code")
	// ErrRequestFailed indicates a remote call failed after retries
	ErrRequestFailed = errors.New("connector: request failed")
	// ErrInvalidResponse indicates the remote returned an unparseable body
	ErrInvalidResponse = errors.New("connector: invalid response")
	// ErrAuthFailed indicates token acquisition or authentication failed
	ErrAuthFailed = errors.New("connector: authentication failed")
)
