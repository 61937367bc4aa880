package faults

import (
	"errors"
	"fmt"
)

// Kind classifies a fault so callers can branch structurally instead of
// sniffing error strings or driver codes.
type Kind int

const (
	// KindInfrastructure covers persistence/transport failures below the
	// domain layers. Never surfaced as a field error.
	KindInfrastructure Kind = iota
	// KindValidation marks malformed or out-of-policy input.
	KindValidation
	// KindConflict marks a uniqueness violation (duplicate username/email).
	KindConflict
	// KindAuthentication marks a missing or expired session on a protected
	// operation.
	KindAuthentication
	// KindToken marks an absent, expired, or orphaned reset token.
	KindToken
)

// String returns a human-readable kind name
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindToken:
		return "token"
	default:
		return "infrastructure"
	}
}

// Fault is the domain error type. Field is set for kinds that surface as
// field-tagged errors in the response envelope.
type Fault struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

// Error implements the error interface
func (f *Fault) Error() string {
	if f.Field != "" {
		return fmt.Sprintf("%s fault on %s: %s", f.Kind, f.Field, f.Message)
	}
	return fmt.Sprintf("%s fault: %s", f.Kind, f.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As
func (f *Fault) Unwrap() error {
	return f.Err
}

// Validation creates a field-tagged validation fault
func Validation(field, message string) *Fault {
	return &Fault{Kind: KindValidation, Field: field, Message: message}
}

// Conflict creates a field-tagged uniqueness fault
func Conflict(field, message string) *Fault {
	return &Fault{Kind: KindConflict, Field: field, Message: message}
}

// Authentication creates an authentication fault
func Authentication(message string) *Fault {
	return &Fault{Kind: KindAuthentication, Message: message}
}

// Token creates a field-tagged reset token fault
func Token(message string) *Fault {
	return &Fault{Kind: KindToken, Field: "token", Message: message}
}

// Infrastructure wraps a lower-layer failure
func Infrastructure(message string, err error) *Fault {
	return &Fault{Kind: KindInfrastructure, Message: message, Err: err}
}

// KindOf extracts the fault kind from an error chain. Unclassified errors
// count as infrastructure faults.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindInfrastructure
}

// AsFault extracts a *Fault from an error chain
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// FieldError is the wire form of a field-tagged fault.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors converts a fault into the inline error list carried by the
// response envelope. Only kinds that are recoverable at the operation
// boundary produce field errors; anything else returns nil.
func FieldErrors(err error) []FieldError {
	f, ok := AsFault(err)
	if !ok {
		return nil
	}
	switch f.Kind {
	case KindValidation, KindConflict, KindToken:
		return []FieldError{{Field: f.Field, Message: f.Message}}
	default:
		return nil
	}
}
