package client

// TransportError wraps a network-level failure: connection refused, DNS
// failure, timeout, reset mid-response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport error: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// ParseError wraps a response body that is missing, not valid JSON, or
// valid JSON without all required fields.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse error: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }
