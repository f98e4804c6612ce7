package validation

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError reports a single rejected form field.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string {
	return e.Msg
}

func NewFieldError(field, msg string) error {
	return &FieldError{Field: field, Msg: msg}
}

func IsFieldError(err error) bool {
	var fieldError *FieldError
	return errors.As(err, &fieldError)
}

// Errors collects every field problem found while checking one form.
type Errors struct {
	Errors []error
}

func (ve *Errors) Error() string {
	messages := ve.Messages()
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

func (ve *Errors) Add(field, msg string) {
	ve.Errors = append(ve.Errors, NewFieldError(field, msg))
}

// Messages returns the messages in the order they were added.
func (ve *Errors) Messages() []string {
	messages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		messages[i] = err.Error()
	}
	return messages
}

// ErrOrNil returns nil when nothing was added.
func (ve *Errors) ErrOrNil() error {
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

func IsValidationErrors(err error) bool {
	var validationErrors *Errors
	return errors.As(err, &validationErrors)
}

// MessagesOf extracts the field messages from err, or nil if err carries none.
func MessagesOf(err error) []string {
	var validationErrors *Errors
	if errors.As(err, &validationErrors) {
		return validationErrors.Messages()
	}
	var fieldError *FieldError
	if errors.As(err, &fieldError) {
		return []string{fieldError.Msg}
	}
	return nil
}
