package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSubmitPaymentRoundTrip(t *testing.T) {
	var got PaymentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/payments" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": map[string]string{
				"payment_status": "COMPLETED",
				"order_ref":      "O-1",
				"payment_ref":    "P-1",
				"receipt_number": "R-1",
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	resp, err := c.SubmitPayment(context.Background(), PaymentRequest{
		OrderID:      "bz-123",
		Kind:         "CLASSIFIED",
		ReferenceID:  "42",
		AmountCents:  999,
		PaymentToken: "tok_abc",
	})
	if err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}
	if resp.PaymentStatus != "COMPLETED" || resp.OrderRef != "O-1" || resp.ReceiptNumber != "R-1" {
		t.Errorf("response = %+v", resp)
	}
	if got.OrderID != "bz-123" || got.PaymentToken != "tok_abc" {
		t.Errorf("server saw %+v", got)
	}
}

func TestSubmitPaymentHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "card verification failed"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.SubmitPayment(context.Background(), PaymentRequest{OrderID: "bz-1"})
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want *HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", httpErr.StatusCode)
	}
	if httpErr.Message != "card verification failed" {
		t.Errorf("message = %q", httpErr.Message)
	}
}

func TestSubmitPaymentDecodesNonCompletedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": map[string]string{"payment_status": "FAILED"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	resp, err := c.SubmitPayment(context.Background(), PaymentRequest{OrderID: "bz-2"})
	if err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}
	// A 200 with a non-COMPLETED status must surface as-is; the caller
	// decides it is a failure.
	if resp.PaymentStatus != "FAILED" {
		t.Errorf("payment status = %q, want FAILED", resp.PaymentStatus)
	}
}
