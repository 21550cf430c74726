package m2m

import "fmt"

// apiError represents an error reported by the M2M API, either through the
// HTTP status or the errorCode field of the response envelope.
type apiError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *apiError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("m2m: %s: %s (status %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("m2m: %s (status %d)", e.Message, e.StatusCode)
}

// ClientError wraps any failure of a catalog call for external consumers.
type ClientError struct {
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("m2m client: %s", e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// AuthenticationError is returned when a session could not be established.
type AuthenticationError struct {
	Username string
	Err      error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("m2m: authentication failed for user %q: %v", e.Username, e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is returned when a response body cannot be decoded.
type MalformedResponseError struct {
	Endpoint string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("m2m: malformed %s response: %v", e.Endpoint, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
