package finapi

import "fmt"

// TransportError is a network failure or a non-2xx response from the financial-data API.
// StatusCode is 0 when no response was received.
type TransportError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("financial API request failed: %v (endpoint: %s)", e.Err, e.Endpoint)
	}
	return fmt.Sprintf("financial API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError is a response body that is not valid JSON or lacks the expected shape
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("financial API response could not be parsed: %v (endpoint: %s)", e.Err, e.Endpoint)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
