// Package businessflow contains the core business logic and use cases for tagging workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Hashtag-related errors
	ErrHashtagNotFound      = errors.New("hashtag not found")
	ErrHashtagAlreadyExists = errors.New("hashtag already exists")
	ErrHashtagNameRequired  = errors.New("hashtag name is required")

	// Association-related errors
	ErrAlreadyTagged       = errors.New("object is already tagged with this hashtag")
	ErrAssociationNotFound = errors.New("object is not tagged with this hashtag")
	ErrContentTypeRequired = errors.New("content type is required")
	ErrObjectIDRequired    = errors.New("object ID is required")

	// Auth errors
	ErrIncorrectCredentials = errors.New("incorrect username or password")
	ErrAccountInactive      = errors.New("account is inactive")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsHashtagNotFound(err error) bool {
	return errors.Is(err, ErrHashtagNotFound)
}

func IsHashtagAlreadyExists(err error) bool {
	return errors.Is(err, ErrHashtagAlreadyExists)
}

func IsAlreadyTagged(err error) bool {
	return errors.Is(err, ErrAlreadyTagged)
}

func IsAssociationNotFound(err error) bool {
	return errors.Is(err, ErrAssociationNotFound)
}

func IsIncorrectCredentials(err error) bool {
	return errors.Is(err, ErrIncorrectCredentials)
}

func IsValidationFailure(err error) bool {
	return errors.Is(err, ErrHashtagNameRequired) ||
		errors.Is(err, ErrContentTypeRequired) ||
		errors.Is(err, ErrObjectIDRequired) ||
		errors.Is(err, ErrInvalidPage) ||
		errors.Is(err, ErrInvalidPageSize)
}
