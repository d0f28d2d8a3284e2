package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized means the widget/session handles are missing; the
	// payment form has not finished initializing.
	ErrNotInitialized = errors.New("payment form is not ready yet")
	// ErrEmailNotVerified blocks submission until the email gate opens. This
	// is a gating condition, not a payment failure.
	ErrEmailNotVerified = errors.New("verify your email address before paying")
	// ErrMissingReference means there is nothing to pay for: no classified ad
	// or producer subscription is bound to the checkout.
	ErrMissingReference = errors.New("nothing to pay for on this checkout")
	// ErrSubmitInFlight rejects a second submit while one is processing.
	// Submissions are never retried automatically; a retried charge could be
	// a double charge.
	ErrSubmitInFlight = errors.New("a payment is already being processed")
)

// FieldError reports one invalid billing field with a user-facing message.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// TokenizeError is a card-level decline from the processor, mapped to a
// specific user message.
type TokenizeError struct {
	Code    string
	Message string
}

func (e *TokenizeError) Error() string { return e.Message }

// VerificationError means buyer verification failed after tokenization.
type VerificationError struct {
	Err error
}

func (e *VerificationError) Error() string {
	return "Your card could not be verified. Please check your billing details."
}

func (e *VerificationError) Unwrap() error { return e.Err }

// SubmissionError is a transport or HTTP failure from the settlement service.
type SubmissionError struct {
	StatusCode int
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("The payment service rejected the request (%d). You have not been charged.", e.StatusCode)
	}
	return "Could not reach the payment service. You have not been charged."
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// IncompletePaymentError means the settlement service answered, possibly
// with HTTP 200, but the payment status was not COMPLETED. It is never
// treated as success.
type IncompletePaymentError struct {
	Status string
}

func (e *IncompletePaymentError) Error() string {
	return fmt.Sprintf("Payment did not complete (status %s). Please try again.", e.Status)
}

// tokenizeMessage maps processor decline codes to specific user messages.
// Never a bare "something went wrong".
func tokenizeMessage(code string) string {
	switch code {
	case "CARD_EXPIRED":
		return "Card has expired"
	case "INVALID_EXPIRATION":
		return "The expiration date is invalid"
	case "CVV_FAILURE", "VERIFY_CVV_FAILURE":
		return "The security code (CVV) is incorrect"
	case "ADDRESS_VERIFICATION_FAILURE", "VERIFY_AVS_FAILURE":
		return "The billing address does not match the card"
	case "INVALID_CARD", "INVALID_CARD_DATA", "UNSUPPORTED_CARD_BRAND":
		return "The card number is invalid or unsupported"
	case "INSUFFICIENT_FUNDS":
		return "The card was declined: insufficient funds"
	case "GENERIC_DECLINE":
		return "The card was declined"
	default:
		return fmt.Sprintf("The card could not be processed (%s)", code)
	}
}
