package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// PaymentRequest is the payload for the settlement service's payment endpoint.
type PaymentRequest struct {
	ReferenceID          string `json:"reference_id"`
	Kind                 string `json:"kind"` // CLASSIFIED | SUBSCRIPTION
	OrderID              string `json:"order_id"`
	AmountCents          int64  `json:"amount_cents"`
	Currency             string `json:"currency"`
	PaymentToken         string `json:"payment_token"`
	VerificationToken    string `json:"verification_token"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	AddressLine1         string `json:"address_line1"`
	AddressLine2         string `json:"address_line2,omitempty"`
	City                 string `json:"city"`
	State                string `json:"state"`
	PostalCode           string `json:"postal_code"`
	EmailValidationToken string `json:"email_validation_token"`
}

// PaymentResponse is the settlement service's view of the payment. Only an
// explicit COMPLETED payment status means the charge went through; callers
// must not treat a 200 with any other status as success.
type PaymentResponse struct {
	PaymentStatus string `json:"payment_status"`
	OrderRef      string `json:"order_ref"`
	PaymentRef    string `json:"payment_ref"`
	ReceiptNumber string `json:"receipt_number"`
}

type paymentEnvelope struct {
	Response PaymentResponse `json:"response"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HTTPError is a non-2xx answer from the settlement service.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("settlement: %d %s", e.StatusCode, e.Message)
}

// Client talks to the payment settlement service.
type Client struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://pay.bizlist.example.com"
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// SubmitPayment posts the tokenized payment to the settlement service.
func (c *Client) SubmitPayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	body, _ := json.Marshal(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/v1/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	log.Printf("[SETTLEMENT] POST /api/v1/payments order_id=%s kind=%s reference_id=%s amount_cents=%d",
		req.OrderID, req.Kind, req.ReferenceID, req.AmountCents)
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil {
			if eb.Message != "" {
				msg = eb.Message
			} else if eb.Error != "" {
				msg = eb.Error
			}
		}
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: msg}
	}
	var out paymentEnvelope
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("settlement: decode response: %w", err)
	}
	log.Printf("[SETTLEMENT] order_id=%s payment_status=%s order_ref=%s", req.OrderID, out.Response.PaymentStatus, out.Response.OrderRef)
	return &out.Response, nil
}
