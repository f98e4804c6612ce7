package plans

import (
	"regexp"
	"strings"

	"github.com/badoux/checkmail"

	"github.com/vertox/portal/internal/validation"
)

const (
	CheckoutCard   = "card"
	CheckoutStripe = "stripe"
	CheckoutPayPal = "paypal"

	StatusProcessing = "processing"
)

var (
	nonDigits   = regexp.MustCompile(`[^0-9]`)
	cardDigits  = regexp.MustCompile(`\d{4,16}`)
	whitespaces = regexp.MustCompile(`\s+`)
)

// FormatCardNumber groups the first run of 4 to 16 digits in fours. Shorter input is returned as typed.
func FormatCardNumber(value string) string {
	v := nonDigits.ReplaceAllString(whitespaces.ReplaceAllString(value, ""), "")
	match := cardDigits.FindString(v)
	if match == "" {
		return value
	}
	parts := make([]string, 0, 4)
	for i := 0; i < len(match); i += 4 {
		end := i + 4
		if end > len(match) {
			end = len(match)
		}
		parts = append(parts, match[i:end])
	}
	return strings.Join(parts, " ")
}

// FormatExpiry turns "MMYY" into "MM/YY" once two digits are present.
func FormatExpiry(value string) string {
	v := nonDigits.ReplaceAllString(value, "")
	if len(v) < 2 {
		return v
	}
	rest := v[2:]
	if len(rest) > 2 {
		rest = rest[:2]
	}
	return v[:2] + "/" + rest
}

// FormatCVC keeps at most four digits.
func FormatCVC(value string) string {
	v := nonDigits.ReplaceAllString(value, "")
	if len(v) > 4 {
		v = v[:4]
	}
	return v
}

type CardDetails struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
	Name   string `json:"name"`
}

type BillingDetails struct {
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	Zip     string `json:"zip"`
}

type CheckoutRequest struct {
	Configuration Configuration  `json:"configuration"`
	Method        string         `json:"method"`
	Card          CardDetails    `json:"card"`
	Billing       BillingDetails `json:"billing"`
}

// CheckoutResult is the simulated payment outcome. Nothing is charged.
type CheckoutResult struct {
	Status  string `json:"status"`
	Amount  int    `json:"amount"`
	Method  string `json:"method"`
	Message string `json:"message"`
}

const (
	msgCardDetails    = "Please fill in all card details"
	msgBillingDetails = "Please fill in all billing information"
)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateCheckout applies the payment dialog rules: card fields first, then billing.
func ValidateCheckout(req CheckoutRequest) error {
	errs := &validation.Errors{}
	switch req.Method {
	case CheckoutCard:
		if blank(req.Card.Number) || blank(req.Card.Expiry) || blank(req.Card.CVC) || blank(req.Card.Name) {
			errs.Add("card", msgCardDetails)
		}
	case CheckoutStripe, CheckoutPayPal:
	default:
		errs.Add("method", "Please select a payment method")
	}
	b := req.Billing
	if blank(b.Email) || blank(b.Address) || blank(b.City) || blank(b.Country) || blank(b.Zip) {
		errs.Add("billing", msgBillingDetails)
	} else if checkmail.ValidateFormat(strings.TrimSpace(b.Email)) != nil {
		errs.Add("email", ErrInvalidEmail.Error())
	}
	return errs.ErrOrNil()
}
