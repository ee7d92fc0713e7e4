package campaign

import (
	"errors"
	"fmt"
)

// The error taxonomy for workflow operations. Each kind maps to one
// user-facing message; none of them should crash a workflow action.

// TransportError wraps a network-level failure reaching the agent service.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AgentError reports a completed remote call that signalled failure.
type AgentError struct {
	Message string
}

func (e *AgentError) Error() string {
	if e.Message == "" {
		return "agent reported failure"
	}
	return e.Message
}

// FormatError reports a response that parsed but did not match the expected
// shape, such as a missing required array.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unexpected response format: %s", e.Reason)
}

// UnsupportedPlatformError reports a publish attempt against a platform with
// no configured publisher agent. It is raised before any network call.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("publishing to %s is not supported", e.Platform)
}

// UserMessage renders a workflow error as the dismissible notification text
// shown to the user.
func UserMessage(err error) string {
	var transport *TransportError
	if errors.As(err, &transport) {
		return "Network error. Please check your connection and try again."
	}
	var agentErr *AgentError
	if errors.As(err, &agentErr) {
		if agentErr.Message != "" {
			return agentErr.Message
		}
		return "The agent could not complete the request. Please try again."
	}
	var format *FormatError
	if errors.As(err, &format) {
		return "Unexpected response format. Please try again."
	}
	var unsupported *UnsupportedPlatformError
	if errors.As(err, &unsupported) {
		return fmt.Sprintf("Publishing to %s is not supported yet.", unsupported.Platform)
	}
	return err.Error()
}
