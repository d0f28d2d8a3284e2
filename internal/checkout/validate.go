package checkout

import (
	"regexp"
	"strings"
)

// BillingContact is the buyer's contact block. Every field is required at
// submission time; phone is normalized before it reaches the processor.
type BillingContact struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// BillingAddress is the billing address block. AddressLine2 is optional.
type BillingAddress struct {
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
}

var (
	emailRe  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	postalRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	digitRe  = regexp.MustCompile(`\D`)
)

// ValidateContact checks the contact block and reports the first invalid
// field with a field-specific message.
func ValidateContact(c BillingContact) error {
	if strings.TrimSpace(c.FirstName) == "" {
		return &FieldError{Field: "first_name", Message: "First name is required"}
	}
	if strings.TrimSpace(c.LastName) == "" {
		return &FieldError{Field: "last_name", Message: "Last name is required"}
	}
	if strings.TrimSpace(c.Email) == "" {
		return &FieldError{Field: "email", Message: "Email address is required"}
	}
	if !emailRe.MatchString(strings.TrimSpace(c.Email)) {
		return &FieldError{Field: "email", Message: "Email address is not valid"}
	}
	if strings.TrimSpace(c.Phone) == "" {
		return &FieldError{Field: "phone", Message: "Phone number is required"}
	}
	if _, err := NormalizePhone(c.Phone); err != nil {
		return &FieldError{Field: "phone", Message: "Phone number is not valid"}
	}
	return nil
}

// ValidateAddress checks the address block. Postal code accepts 5-digit and
// ZIP+4 forms.
func ValidateAddress(a BillingAddress) error {
	if strings.TrimSpace(a.AddressLine1) == "" {
		return &FieldError{Field: "address_line1", Message: "Street address is required"}
	}
	if strings.TrimSpace(a.City) == "" {
		return &FieldError{Field: "city", Message: "City is required"}
	}
	if strings.TrimSpace(a.State) == "" {
		return &FieldError{Field: "state", Message: "State is required"}
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		return &FieldError{Field: "postal_code", Message: "Postal code is required"}
	}
	if !postalRe.MatchString(strings.TrimSpace(a.PostalCode)) {
		return &FieldError{Field: "postal_code", Message: "Postal code must be 5 digits or ZIP+4"}
	}
	return nil
}

// NormalizePhone reduces any common US phone spelling to one canonical
// +<country><number> form so the processor always sees the same shape.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	hadPlus := strings.HasPrefix(raw, "+")
	digits := digitRe.ReplaceAllString(raw, "")
	switch {
	case len(digits) == 10:
		return "+1" + digits, nil
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits, nil
	case hadPlus && len(digits) >= 8 && len(digits) <= 15:
		return "+" + digits, nil
	default:
		return "", &FieldError{Field: "phone", Message: "Phone number is not valid"}
	}
}
