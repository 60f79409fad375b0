package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed         = fmt.Errorf("authentication failed")
	ErrMissingCredentials = fmt.Errorf("missing phone/password")
	ErrSessionInvalid     = fmt.Errorf("session expired or invalid")

	// Filesystem errors
	ErrIO      = fmt.Errorf("path not readable")
	ErrNoFiles = fmt.Errorf("no valid music file found")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrUploadFailed       = fmt.Errorf("upload failed")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// APIError carries the service's response code and body for a rejected request.
//
// Err is the sentinel ([ErrAuthFailed], [ErrUploadFailed]) so callers can use errors.Is.
type APIError struct {
	StatusCode int
	Code       int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 && e.StatusCode != 200 {
		return fmt.Sprintf("%v: HTTP %d (code %d): %s", e.Err, e.StatusCode, e.Code, e.Body)
	}
	return fmt.Sprintf("%v: code %d: %s", e.Err, e.Code, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
