package marketdata

import "fmt"

// AuthError means a credential refresh against the upstream token endpoint
// failed. A previously issued token, if any, is left in place.
type AuthError struct {
	Status int
	Cause  error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upstream auth failed: %v", e.Cause)
	}
	return fmt.Sprintf("upstream auth failed: status %d", e.Status)
}

func (e *AuthError) Unwrap() error { return e.Cause }

// UpstreamError means a specific market data call failed: transport error,
// non-200 status, or a body that does not match the expected shape.
type UpstreamError struct {
	Op     string
	Status int
	Cause  error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("upstream %s failed: status %d", e.Op, e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Cause }
