package processor

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

// WebFactory talks to the processor's hosted-widget API over HTTP.
type WebFactory struct {
	BaseURL string
	client  *http.Client
}

func NewWebFactory(baseURL string) *WebFactory {
	if baseURL == "" {
		baseURL = "https://connect.cardproc.example.com"
	}
	return &WebFactory{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type createSessionReq struct {
	ApplicationID string `json:"application_id"`
	LocationID    string `json:"location_id"`
}

type createSessionResp struct {
	SessionID string `json:"session_id"`
	ExpiresAt string `json:"expires_at"`
}

func (f *WebFactory) CreateSession(ctx context.Context, appID, locationID string) (Session, error) {
	if appID == "" || locationID == "" {
		return nil, ErrMissingCredentials
	}
	var out createSessionResp
	err := f.post(ctx, "/v1/web/sessions", createSessionReq{ApplicationID: appID, LocationID: locationID}, &out)
	if err != nil {
		return nil, &SDKLoadError{Err: err}
	}
	if out.SessionID == "" {
		return nil, &SDKLoadError{Err: fmt.Errorf("empty session id")}
	}
	log.Printf("[PROCESSOR] session created id=%s", out.SessionID)
	return &webSession{factory: f, id: out.SessionID}, nil
}

// post sends a JSON request and decodes a JSON response. Non-2xx responses
// come back as errors carrying the status and body.
func (f *WebFactory) post(ctx context.Context, path string, payload, out interface{}) error {
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %d %s", path, resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

type webSession struct {
	factory *WebFactory
	id      string
}

type createCardReq struct {
	Style CardStyle `json:"style"`
}

type createCardResp struct {
	CardID string `json:"card_id"`
}

func (s *webSession) Card(ctx context.Context, style CardStyle) (CardWidget, error) {
	var out createCardResp
	path := fmt.Sprintf("/v1/web/sessions/%s/card", s.id)
	if err := s.factory.post(ctx, path, createCardReq{Style: style}, &out); err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}
	return &webCard{factory: s.factory, sessionID: s.id, id: out.CardID}, nil
}

type verifyBuyerReq struct {
	Token   string        `json:"token"`
	Details VerifyDetails `json:"details"`
}

func (s *webSession) VerifyBuyer(ctx context.Context, token string, d VerifyDetails) (*Verification, error) {
	var out Verification
	path := fmt.Sprintf("/v1/web/sessions/%s/verify-buyer", s.id)
	if err := s.factory.post(ctx, path, verifyBuyerReq{Token: token, Details: d}, &out); err != nil {
		return nil, fmt.Errorf("verify buyer: %w", err)
	}
	if out.Token == "" {
		return nil, fmt.Errorf("verify buyer: empty verification token")
	}
	return &out, nil
}

type webCard struct {
	factory   *WebFactory
	sessionID string
	id        string
}

type attachReq struct {
	ContainerID string `json:"container_id"`
}

func (c *webCard) Attach(ctx context.Context, containerID string) error {
	path := fmt.Sprintf("/v1/web/cards/%s/attach", c.id)
	if err := c.factory.post(ctx, path, attachReq{ContainerID: containerID}, nil); err != nil {
		return fmt.Errorf("attach card: %w", err)
	}
	return nil
}

func (c *webCard) Tokenize(ctx context.Context, req TokenizeRequest) (*TokenizeResult, error) {
	var out TokenizeResult
	path := fmt.Sprintf("/v1/web/cards/%s/tokenize", c.id)
	if err := c.factory.post(ctx, path, req, &out); err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	return &out, nil
}

func (c *webCard) Destroy() error {
	// Destroy runs from cleanup paths; a short deadline keeps teardown from
	// hanging on a dead processor connection.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.factory.BaseURL+"/v1/web/cards/"+c.id, nil)
	if err != nil {
		return err
	}
	resp, err := c.factory.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("destroy card: %d %s", resp.StatusCode, string(body))
	}
	return nil
}
