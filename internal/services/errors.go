package services

import (
	"errors"
	"fmt"

	"foodapp/internal/accesskey"
	"foodapp/internal/repository"
	"foodapp/internal/storage"
)

var (
	ErrMissingRequiredField   = errors.New("missing required field")
	ErrInvalidFormat          = errors.New("invalid format")
	ErrInvalidAddressFormat   = errors.New("invalid address format")
	ErrDuplicateKey           = errors.New("duplicate key")
	ErrNotFound               = errors.New("not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrAllocationExhausted    = accesskey.ErrExhausted
	ErrUploadRejected         = storage.ErrUploadRejected
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrForbidden              = errors.New("forbidden")
)

// Error carries a client-facing message for one failed rule. It unwraps to
// the sentinel describing its kind.
type Error struct {
	Kind    error
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func missingField(field, message string) error {
	return &Error{Kind: ErrMissingRequiredField, Field: field, Message: message}
}

func invalidFormat(field, message string) error {
	return &Error{Kind: ErrInvalidFormat, Field: field, Message: message}
}

func notFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// storeError converts repository failures. Duplicate keys become a message
// naming the field; owner is the entity the value is already registered with.
func storeError(err error, owner, missing string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(missing)
	}
	if field, ok := repository.IsDuplicateKey(err); ok {
		message := fmt.Sprintf("This value is already registered with another %s", owner)
		if field != "" {
			message = fmt.Sprintf("This %s is already registered with another %s", field, owner)
		}
		return &Error{Kind: ErrDuplicateKey, Field: field, Message: message}
	}
	return err
}
