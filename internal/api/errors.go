package api

import "fmt"

// NetworkError reports a request that never produced an HTTP response:
// DNS, connection refused, timeout or cancellation.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError reports a response that was received but not usable:
// a non-2xx status, or a body that is not a valid payload.
type ServerError struct {
	Op         string
	StatusCode int
	Body       string // truncated response body, for non-2xx statuses
	Err        error  // decode or schema error, for 2xx statuses
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: invalid response (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: server returned %d", e.Op, e.StatusCode)
}

func (e *ServerError) Unwrap() error { return e.Err }
