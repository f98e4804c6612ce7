package domain

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"

	billingErrors "github.com/vertox/portal/internal/billing/errors"
	"github.com/vertox/portal/internal/plans"
)

const (
	TypeCard   = "card"
	TypePayPal = "paypal"
	TypeBank   = "bank"
	TypeStripe = "stripe"
)

// PaymentMethod holds only masked display strings. Raw card, CVV and routing numbers never reach it.
type PaymentMethod struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"-"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Details   string    `json:"details"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPaymentMethod is the add-payment form. Which fields apply depends on Type.
type NewPaymentMethod struct {
	Type          string `json:"type"`
	CardNumber    string `json:"card_number,omitempty"`
	CardName      string `json:"card_name,omitempty"`
	Expiry        string `json:"expiry,omitempty"`
	CVV           string `json:"cvv,omitempty"`
	Email         string `json:"email,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	RoutingNumber string `json:"routing_number,omitempty"`
}

var (
	mastercardPrefix = regexp.MustCompile(`^5[1-5]`)
	amexPrefix       = regexp.MustCompile(`^3[47]`)
	discoverPrefix   = regexp.MustCompile(`^6(?:011|5)`)
	nonDigits        = regexp.MustCompile(`[^0-9]`)
)

func CardBrand(number string) string {
	clean := strings.ReplaceAll(number, " ", "")
	switch {
	case strings.HasPrefix(clean, "4"):
		return "Visa"
	case mastercardPrefix.MatchString(clean):
		return "Mastercard"
	case amexPrefix.MatchString(clean):
		return "American Express"
	case discoverPrefix.MatchString(clean):
		return "Discover"
	default:
		return "Card"
	}
}

func lastFour(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func checkEmail(email string, missing error) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", missing
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return "", billingErrors.ErrInvalidEmail
	}
	return email, nil
}

// Mask validates the form and produces the stored display strings.
func (in NewPaymentMethod) Mask() (*PaymentMethod, error) {
	pm := &PaymentMethod{Type: in.Type}
	switch in.Type {
	case TypeCard:
		if blank(in.CardNumber) || blank(in.CardName) || blank(in.Expiry) || blank(in.CVV) {
			return nil, billingErrors.ErrCardDetails
		}
		digits := nonDigits.ReplaceAllString(in.CardNumber, "")
		if len(digits) < 4 {
			return nil, billingErrors.ErrCardNumberShort
		}
		pm.Name = CardBrand(digits) + " ending in " + lastFour(digits)
		pm.Details = "Expires " + plans.FormatExpiry(in.Expiry)
	case TypePayPal:
		email, err := checkEmail(in.Email, billingErrors.ErrPayPalEmail)
		if err != nil {
			return nil, err
		}
		pm.Name, pm.Details = "PayPal", email
	case TypeStripe:
		email, err := checkEmail(in.Email, billingErrors.ErrStripeEmail)
		if err != nil {
			return nil, err
		}
		pm.Name, pm.Details = "Stripe", email
	case TypeBank:
		if blank(in.BankName) || blank(in.AccountNumber) || blank(in.RoutingNumber) {
			return nil, billingErrors.ErrBankDetails
		}
		account := strings.TrimSpace(in.AccountNumber)
		pm.Name = strings.TrimSpace(in.BankName)
		pm.Details = "Account ending in " + lastFour(account)
	default:
		return nil, billingErrors.ErrInvalidType
	}
	return pm, nil
}

type PaymentMethodRepository interface {
	FindByUser(ctx context.Context, userID string) ([]PaymentMethod, error)
	// Create marks the method as default when it is the user's first.
	Create(ctx context.Context, pm *PaymentMethod) error
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	SetDefault(ctx context.Context, id uuid.UUID, userID string) error
}
