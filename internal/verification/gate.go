package verification

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Service is the email validation collaborator (see pkg/emailver for the
// HTTP implementation).
type Service interface {
	Send(ctx context.Context, email, scope, targetID string) error
	Validate(ctx context.Context, token, email, scope, targetID string) error
}

// ValidatorFunc adapts a function to the Validate half of Service.
type ValidatorFunc func(ctx context.Context, token, email, scope, targetID string) error

func (f ValidatorFunc) Send(ctx context.Context, email, scope, targetID string) error {
	return nil
}

func (f ValidatorFunc) Validate(ctx context.Context, token, email, scope, targetID string) error {
	return f(ctx, token, email, scope, targetID)
}

var (
	ErrTokenRequired   = errors.New("verification code is required")
	ErrEmailUnknown    = errors.New("no email address on this checkout")
	ErrVerifyInFlight  = errors.New("verification already in progress")
)

// State is the gate's externally visible state.
type State struct {
	Token       string `json:"-"`
	IsVerified  bool   `json:"is_verified"`
	IsVerifying bool   `json:"is_verifying"`
	Err         string `json:"error,omitempty"`
}

// Gate tracks email verification for one checkout. It is deliberately
// decoupled from widget initialization: the card widget may become ready
// before the email is verified, but submission stays blocked until this gate
// opens.
type Gate struct {
	svc      Service
	email    string
	scope    string
	targetID string

	mu    sync.Mutex
	state State
}

func NewGate(svc Service, email, scope, targetID string) *Gate {
	return &Gate{svc: svc, email: email, scope: scope, targetID: targetID}
}

// Send asks the validation service to dispatch a fresh verification code.
func (g *Gate) Send(ctx context.Context) error {
	if g.email == "" {
		return ErrEmailUnknown
	}
	return g.svc.Send(ctx, g.email, g.scope, g.targetID)
}

// Validate checks the token against the validation service. On success the
// gate opens and the error clears; on failure the gate stays closed with a
// user-facing message.
func (g *Gate) Validate(ctx context.Context, token string) error {
	if token == "" {
		g.setErr(ErrTokenRequired.Error())
		return ErrTokenRequired
	}
	if g.email == "" {
		g.setErr(ErrEmailUnknown.Error())
		return ErrEmailUnknown
	}
	g.mu.Lock()
	if g.state.IsVerifying {
		g.mu.Unlock()
		return ErrVerifyInFlight
	}
	g.state.IsVerifying = true
	g.mu.Unlock()

	err := g.svc.Validate(ctx, token, g.email, g.scope, g.targetID)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.IsVerifying = false
	if err != nil {
		g.state.Err = fmt.Sprintf("Could not verify your email: %v", err)
		return err
	}
	g.state.Token = token
	g.state.IsVerified = true
	g.state.Err = ""
	return nil
}

// Verified reports whether the gate is open.
func (g *Gate) Verified() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.IsVerified
}

// Token returns the verified token, or empty while the gate is closed.
func (g *Gate) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.state.IsVerified {
		return ""
	}
	return g.state.Token
}

// Email returns the address this gate verifies.
func (g *Gate) Email() string { return g.email }

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) setErr(msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Err = msg
}
