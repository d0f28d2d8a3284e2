package checkout

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"bizlist/internal/domain"
	"bizlist/internal/models"
	"bizlist/internal/verification"
	"bizlist/pkg/processor"
	"bizlist/pkg/settlement"

	"github.com/google/uuid"
)

// Settler submits tokenized payments to the settlement service.
type Settler interface {
	SubmitPayment(ctx context.Context, req settlement.PaymentRequest) (*settlement.PaymentResponse, error)
}

// PaymentRecorder persists payment rows. *repository.PaymentRepository
// satisfies it.
type PaymentRecorder interface {
	Create(p *models.Payment) error
	Update(p *models.Payment) error
}

// SubmissionRequest is built once per submit attempt and discarded after the
// attempt resolves; nothing card-related is kept around.
type SubmissionRequest struct {
	Widget      processor.CardWidget
	Session     processor.Session
	Contact     BillingContact
	Address     BillingAddress
	UserID      uint
	Kind        string // CLASSIFIED | SUBSCRIPTION
	ReferenceID uint   // ad ID or producer ID
	AmountCents int64
	Currency    string
}

// SubmissionResult carries the settlement service's reference numbers for
// display.
type SubmissionResult struct {
	OrderRef      string `json:"order_ref"`
	PaymentRef    string `json:"payment_ref"`
	ReceiptNumber string `json:"receipt_number"`
}

// Orchestrator drives one checkout's tokenize → verify-buyer → settle
// sequence. Strict step order, one submission at a time, no automatic
// retries.
type Orchestrator struct {
	settle   Settler
	gate     *verification.Gate
	payments PaymentRecorder

	mu       sync.Mutex
	inFlight bool
}

func NewOrchestrator(settle Settler, gate *verification.Gate, payments PaymentRecorder) *Orchestrator {
	return &Orchestrator{settle: settle, gate: gate, payments: payments}
}

// InFlight reports whether a submission is currently processing.
func (o *Orchestrator) InFlight() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight
}

// Submit runs the payment. Preconditions are checked in a fixed order, each
// with its own error; nothing falls through silently.
func (o *Orchestrator) Submit(ctx context.Context, req SubmissionRequest) (*SubmissionResult, error) {
	if req.Widget == nil || req.Session == nil {
		return nil, ErrNotInitialized
	}
	if err := ValidateContact(req.Contact); err != nil {
		return nil, err
	}
	if err := ValidateAddress(req.Address); err != nil {
		return nil, err
	}
	emailToken := o.gate.Token()
	if emailToken == "" || !o.gate.Verified() {
		return nil, ErrEmailNotVerified
	}
	if req.ReferenceID == 0 {
		return nil, ErrMissingReference
	}

	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	o.inFlight = true
	o.mu.Unlock()
	// Always clear the flag, including on panics/thrown paths, so the UI is
	// never stuck in "processing".
	defer func() {
		o.mu.Lock()
		o.inFlight = false
		o.mu.Unlock()
	}()

	phone, _ := NormalizePhone(req.Contact.Phone) // validated above

	tok, err := req.Widget.Tokenize(ctx, processor.TokenizeRequest{
		BillingPostalCode: req.Address.PostalCode,
	})
	if err != nil {
		return nil, &TokenizeError{Code: "TOKENIZE_FAILED", Message: "The card could not be read. Please try again."}
	}
	if tok.Status != processor.TokenizeOK || tok.Token == "" {
		code := "GENERIC_DECLINE"
		if len(tok.Errors) > 0 && tok.Errors[0].Code != "" {
			code = tok.Errors[0].Code
		}
		return nil, &TokenizeError{Code: code, Message: tokenizeMessage(code)}
	}

	ver, err := req.Session.VerifyBuyer(ctx, tok.Token, processor.VerifyDetails{
		Intent:       "CHARGE",
		AmountCents:  req.AmountCents,
		Currency:     req.Currency,
		GivenName:    req.Contact.FirstName,
		FamilyName:   req.Contact.LastName,
		Email:        req.Contact.Email,
		Phone:        phone,
		AddressLines: addressLines(req.Address),
		City:         req.Address.City,
		State:        req.Address.State,
		PostalCode:   req.Address.PostalCode,
	})
	if err != nil {
		return nil, &VerificationError{Err: err}
	}

	orderID := fmt.Sprintf("bz-%s", uuid.New().String())
	pay := &models.Payment{
		UserID:         req.UserID,
		Kind:           req.Kind,
		ReferenceID:    req.ReferenceID,
		AmountCents:    req.AmountCents,
		Currency:       req.Currency,
		Provider:       "card",
		ProviderRef:    orderID,
		Status:         domain.PaymentStatusPending,
		IdempotencyKey: orderID,
	}
	if o.payments != nil {
		if err := o.payments.Create(pay); err != nil {
			return nil, &SubmissionError{Err: fmt.Errorf("record payment: %w", err)}
		}
	}

	resp, err := o.settle.SubmitPayment(ctx, settlement.PaymentRequest{
		ReferenceID:          fmt.Sprintf("%d", req.ReferenceID),
		Kind:                 req.Kind,
		OrderID:              orderID,
		AmountCents:          req.AmountCents,
		Currency:             req.Currency,
		PaymentToken:         tok.Token,
		VerificationToken:    ver.Token,
		FirstName:            req.Contact.FirstName,
		LastName:             req.Contact.LastName,
		Email:                req.Contact.Email,
		Phone:                phone,
		AddressLine1:         req.Address.AddressLine1,
		AddressLine2:         req.Address.AddressLine2,
		City:                 req.Address.City,
		State:                req.Address.State,
		PostalCode:           req.Address.PostalCode,
		EmailValidationToken: emailToken,
	})
	if err != nil {
		o.markFailed(pay, err.Error())
		if httpErr, ok := err.(*settlement.HTTPError); ok {
			return nil, &SubmissionError{StatusCode: httpErr.StatusCode, Err: err}
		}
		return nil, &SubmissionError{Err: err}
	}

	// Only an explicit COMPLETED counts. A 200 with any other status is a
	// reported failure, never a silent success.
	if resp.PaymentStatus != domain.PaymentStatusCompleted {
		o.markFailed(pay, "payment status "+resp.PaymentStatus)
		return nil, &IncompletePaymentError{Status: resp.PaymentStatus}
	}

	if o.payments != nil {
		now := time.Now()
		pay.Status = domain.PaymentStatusCompleted
		pay.OrderRef = resp.OrderRef
		pay.PaymentRef = resp.PaymentRef
		pay.ReceiptNumber = resp.ReceiptNumber
		pay.CompletedAt = &now
		if err := o.payments.Update(pay); err != nil {
			log.Printf("[CHECKOUT] payment %s completed but row update failed: %v", orderID, err)
		}
	}
	log.Printf("[CHECKOUT] order_id=%s COMPLETED order_ref=%s receipt=%s", orderID, resp.OrderRef, resp.ReceiptNumber)
	return &SubmissionResult{
		OrderRef:      resp.OrderRef,
		PaymentRef:    resp.PaymentRef,
		ReceiptNumber: resp.ReceiptNumber,
	}, nil
}

func (o *Orchestrator) markFailed(pay *models.Payment, reason string) {
	if o.payments == nil || pay.ID == 0 {
		return
	}
	pay.Status = domain.PaymentStatusFailed
	if len(reason) > 512 {
		reason = reason[:512]
	}
	pay.FailureReason = reason
	if err := o.payments.Update(pay); err != nil {
		log.Printf("[CHECKOUT] failed to mark payment %s FAILED: %v", pay.ProviderRef, err)
	}
}

func addressLines(a BillingAddress) []string {
	lines := []string{a.AddressLine1}
	if a.AddressLine2 != "" {
		lines = append(lines, a.AddressLine2)
	}
	return lines
}
