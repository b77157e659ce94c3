package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication is the single failure reported for unknown users and
	// wrong passwords alike.
	ErrAuthentication = errors.New("invalid username or password")

	// ErrConflict marks uniqueness violations.
	ErrConflict = errors.New("conflict")

	ErrUsernameTaken = fmt.Errorf("username already taken: %w", ErrConflict)
	ErrIdentityTaken = fmt.Errorf("external identity already linked: %w", ErrConflict)

	// ErrAccountNotFound is returned by stores; callers decide what it means.
	ErrAccountNotFound = errors.New("account not found")

	ErrUnknownProvider = errors.New("unknown oauth provider")
)

// ValidationError describes a missing or malformed request field.
// Message is safe to show to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// InfrastructureError wraps store or provider failures. Its text is for
// logs only.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *InfrastructureError) Unwrap() error { return e.Err }

// Infra wraps err as an InfrastructureError unless it already is one.
func Infra(op string, err error) error {
	if err == nil {
		return nil
	}
	var ie *InfrastructureError
	if errors.As(err, &ie) {
		return err
	}
	return &InfrastructureError{Op: op, Err: err}
}

// FederationError reports a failed OAuth handshake. The caller always
// falls back to the default redirect.
type FederationError struct {
	Reason string
	Err    error
}

func (e *FederationError) Error() string {
	if e.Err == nil {
		return "federation: " + e.Reason
	}
	return "federation: " + e.Reason + ": " + e.Err.Error()
}

func (e *FederationError) Unwrap() error { return e.Err }

func IsInfrastructure(err error) bool {
	var ie *InfrastructureError
	return errors.As(err, &ie)
}
