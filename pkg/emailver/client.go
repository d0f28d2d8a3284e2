package emailver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the email validation service. Codes are issued and checked
// remotely; we only ever see pass/fail.
type Client struct {
	BaseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://verify.bizlist.example.com"
	}
	return &Client{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type sendReq struct {
	EmailAddress string `json:"email_address"`
	Context      string `json:"context"`
	TargetID     string `json:"target_id"`
}

type validateReq struct {
	Token        string `json:"token"`
	EmailAddress string `json:"email_address"`
	Context      string `json:"context"`
	TargetID     string `json:"target_id"`
}

type errorResp struct {
	Message string `json:"message"`
}

// Send asks the validation service to dispatch a verification code.
func (c *Client) Send(ctx context.Context, email, scope, targetID string) error {
	return c.post(ctx, "/api/v1/send", sendReq{EmailAddress: email, Context: scope, TargetID: targetID})
}

// Validate checks a user-supplied token. A nil return means verified.
func (c *Client) Validate(ctx context.Context, token, email, scope, targetID string) error {
	return c.post(ctx, "/api/v1/validate", validateReq{
		Token:        token,
		EmailAddress: email,
		Context:      scope,
		TargetID:     targetID,
	})
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	respBody, _ := io.ReadAll(resp.Body)
	var eb errorResp
	if json.Unmarshal(respBody, &eb) == nil && eb.Message != "" {
		return fmt.Errorf("email validation: %s", eb.Message)
	}
	return fmt.Errorf("email validation failed: %d", resp.StatusCode)
}
