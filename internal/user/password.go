package user

import (
	"errors"
	"strings"
)

const minPasswordLength = 8

var ErrWeakPassword = errors.New("password does not meet the policy")

// PasswordPolicyError lists every rule the password failed, in the order the sign-up form checks them.
type PasswordPolicyError struct {
	Violations []string
}

func (e *PasswordPolicyError) Error() string {
	return strings.Join(e.Violations, "; ")
}

func (e *PasswordPolicyError) Unwrap() error {
	return ErrWeakPassword
}

// ValidatePassword enforces the sign-up policy. Anything outside ASCII letters and digits counts as a symbol.
func ValidatePassword(password string) error {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	var violations []string
	if len([]rune(password)) < minPasswordLength {
		violations = append(violations, "Password must be at least 8 characters")
	}
	if !hasUpper {
		violations = append(violations, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		violations = append(violations, "Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		violations = append(violations, "Password must contain at least one number")
	}
	if !hasSymbol {
		violations = append(violations, "Password must contain at least one symbol")
	}

	if len(violations) > 0 {
		return &PasswordPolicyError{Violations: violations}
	}
	return nil
}
