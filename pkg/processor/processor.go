package processor

import (
	"context"
	"errors"
	"fmt"
)

// Factory creates processor sessions from application credentials.
type Factory interface {
	CreateSession(ctx context.Context, appID, locationID string) (Session, error)
}

// Session is one initialized processor session. It can mint card widgets and
// run buyer verification against tokens those widgets produce.
type Session interface {
	Card(ctx context.Context, style CardStyle) (CardWidget, error)
	VerifyBuyer(ctx context.Context, token string, d VerifyDetails) (*Verification, error)
}

// CardWidget is the hosted secure card-capture element issued by the
// processor. Raw card data never passes through us; Tokenize exchanges
// whatever the buyer typed into the hosted element for a single-use token.
type CardWidget interface {
	Attach(ctx context.Context, containerID string) error
	Tokenize(ctx context.Context, req TokenizeRequest) (*TokenizeResult, error)
	Destroy() error
}

// CardStyle is passed through to the hosted element untouched.
type CardStyle struct {
	FontFamily  string `json:"font_family,omitempty"`
	FontSize    string `json:"font_size,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

type TokenizeRequest struct {
	BillingPostalCode string `json:"billing_postal_code,omitempty"`
}

const TokenizeOK = "OK"

type TokenizeResult struct {
	Status string       `json:"status"`
	Token  string       `json:"token"`
	Errors []TokenError `json:"errors,omitempty"`
}

type TokenError struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// VerifyDetails carries the billing attestations for buyer verification.
type VerifyDetails struct {
	Intent       string   `json:"intent"` // CHARGE
	AmountCents  int64    `json:"amount_cents"`
	Currency     string   `json:"currency"`
	GivenName    string   `json:"given_name"`
	FamilyName   string   `json:"family_name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	AddressLines []string `json:"address_lines"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	PostalCode   string   `json:"postal_code"`
}

type Verification struct {
	Token string `json:"token"`
}

// ErrMissingCredentials means the application ID or location ID is absent.
// This is a deployment problem, not a transient one; callers must not retry.
var ErrMissingCredentials = errors.New("processor: application id and location id are required")

// SDKLoadError wraps a failure to reach or initialize the processor. These
// are transient and safe to retry.
type SDKLoadError struct {
	Err error
}

func (e *SDKLoadError) Error() string {
	return fmt.Sprintf("processor: load failed: %v", e.Err)
}

func (e *SDKLoadError) Unwrap() error { return e.Err }
