package rucaptcha

import "fmt"

// APIError is a business-level error reported by the RuCaptcha API
// (errorId != 0 in the response envelope).
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rucaptcha api error %s: %s", e.Code, e.Description)
}

// Retryable reports whether the error is transient. RuCaptcha treats almost
// all of its error codes as terminal; only a full worker queue is worth
// waiting out.
func (e *APIError) Retryable() bool {
	return e.Code == "ERROR_NO_SLOT_AVAILABLE"
}

// TransportError wraps a network-level failure. Always retryable.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string   { return "rucaptcha transport error: " + e.Err.Error() }
func (e *TransportError) Unwrap() error   { return e.Err }
func (e *TransportError) Retryable() bool { return true }

// HTTPError is a non-200 response from the API host.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("rucaptcha http error %d: %s", e.StatusCode, e.Body)
}

// Retryable reports true for server errors and rate limiting.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
