package assist

import "fmt"

// HTTPError is a non-2xx response from the proxy
type HTTPError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Details    string
	// RawContent is the unparsed model output, set by /analyze-resume
	RawContent string
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s %d: %s: %s", e.Endpoint, e.StatusCode, msg, e.Details)
	}
	return fmt.Sprintf("%s %d: %s", e.Endpoint, e.StatusCode, msg)
}

// Retryable reports whether repeating the request could succeed
func (e *HTTPError) Retryable() bool {
	switch {
	case e.StatusCode == 408, e.StatusCode == 429:
		return true
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return false
	default:
		return true
	}
}

// Error reports a request that failed before an HTTP status was available,
// or a response that could not be decoded.
type Error struct {
	Endpoint string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
