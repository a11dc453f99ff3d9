package capsolver

import "fmt"

// retryableCodes lists the Capsolver error codes that indicate a transient
// condition worth retrying.
var retryableCodes = map[string]bool{
	"ERROR_SERVICE_UNAVALIABLE": true, // sic, vendor spelling
	"ERROR_RATE_LIMIT":          true,
	"ERROR_IP_BANNED":           true,
	"ERROR_KEY_TEMP_BLOCKED":    true,
	// A just-created task can briefly 404 before the worker picks it up.
	"ERROR_TASK_NOT_FOUND": true,
}

// APIError is a business-level error reported by the Capsolver API
// (errorId != 0 in the response envelope).
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("capsolver api error %s: %s", e.Code, e.Description)
}

// Retryable reports whether the error code is in the vendor's transient set.
func (e *APIError) Retryable() bool { return retryableCodes[e.Code] }

// TransportError wraps a network-level failure. Always retryable.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string   { return "capsolver transport error: " + e.Err.Error() }
func (e *TransportError) Unwrap() error   { return e.Err }
func (e *TransportError) Retryable() bool { return true }

// HTTPError is a non-200 response from the API host.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("capsolver http error %d: %s", e.StatusCode, e.Body)
}

// Retryable reports true for server errors and rate limiting.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
