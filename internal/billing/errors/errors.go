package errors

import (
	"errors"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

var (
	ErrInvalidType     = NewValidationError("Invalid payment method type")
	ErrCardDetails     = NewValidationError("Please fill in all card details")
	ErrPayPalEmail     = NewValidationError("Please enter your PayPal email")
	ErrStripeEmail     = NewValidationError("Please enter your Stripe email")
	ErrBankDetails     = NewValidationError("Please fill in all bank details")
	ErrInvalidEmail    = NewValidationError("Please enter a valid email address")
	ErrCardNumberShort = NewValidationError("Card number must have at least 4 digits")
)

var ErrPaymentMethodNotFound = errors.New("payment method not found")
