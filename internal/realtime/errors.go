package realtime

import (
	"fmt"
	"strings"
)

// TransportError is a failed monitor request: a network error or a non-2xx
// status. StatusCode is zero for network errors.
type TransportError struct {
	StatusCode int
	URL        string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("monitor request %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("monitor request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError means the response body was not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode monitor response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Issue is one schema violation. Path uses JSON field names with indices,
// e.g. data.monitors[0].lines[1].type.
type Issue struct {
	Path     string `json:"path"`
	Expected string `json:"expected"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: expected %s", i.Path, i.Expected)
}

// SchemaValidationError means the payload was valid JSON but did not have the
// monitor feed shape.
type SchemaValidationError struct {
	Issues []Issue
}

func (e *SchemaValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return "monitor response failed validation: " + strings.Join(parts, "; ")
}
