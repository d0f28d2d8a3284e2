package processor

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StubFactory is a no-op processor for development; every card tokenizes OK.
type StubFactory struct{}

func (StubFactory) CreateSession(ctx context.Context, appID, locationID string) (Session, error) {
	if appID == "" || locationID == "" {
		return nil, ErrMissingCredentials
	}
	return &StubSession{}, nil
}

type StubSession struct{}

func (s *StubSession) Card(ctx context.Context, style CardStyle) (CardWidget, error) {
	return &StubCard{}, nil
}

func (s *StubSession) VerifyBuyer(ctx context.Context, token string, d VerifyDetails) (*Verification, error) {
	return &Verification{Token: "stub_ver_" + token}, nil
}

type StubCard struct {
	mu        sync.Mutex
	destroyed bool
}

func (c *StubCard) Attach(ctx context.Context, containerID string) error {
	return nil
}

func (c *StubCard) Tokenize(ctx context.Context, req TokenizeRequest) (*TokenizeResult, error) {
	return &TokenizeResult{
		Status: TokenizeOK,
		Token:  fmt.Sprintf("stub_tok_%d", time.Now().UnixNano()),
	}, nil
}

func (c *StubCard) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyed = true
	return nil
}
