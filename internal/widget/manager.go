package widget

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"bizlist/pkg/processor"
)

// Status is the single observable state of one widget initialization cycle.
// One enum instead of independent booleans: illegal combinations like
// "initialized and initializing" cannot be represented.
type Status int

const (
	StatusIdle Status = iota
	StatusInitializing
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusInitializing:
		return "INITIALIZING"
	case StatusReady:
		return "READY"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ErrNotReady is returned when handles are requested before initialization
// has completed.
var ErrNotReady = errors.New("widget: not initialized")

// Snapshot is the externally visible state of the manager at one instant.
type Snapshot struct {
	Status     Status `json:"-"`
	StatusText string `json:"status"`
	Err        string `json:"error,omitempty"`
	Attempt    int    `json:"attempt"`
	RetryCount int    `json:"retry_count"`
	Terminal   bool   `json:"terminal"`
}

// Config tunes one manager. Zero values get the production defaults.
type Config struct {
	AppID       string
	LocationID  string
	ContainerID string
	Style       processor.CardStyle

	MaxRetries    int
	SettleDelay   time.Duration
	ContainerWait time.Duration
	PollInterval  time.Duration
}

// Manager drives one widget session through Idle → Initializing → Ready with
// bounded retries. It exclusively owns the session and widget handles for the
// lifetime of one cycle; replacing them always goes through destroy-then-create.
type Manager struct {
	cfg        Config
	factory    processor.Factory
	registry   *Registry
	controller *Controller

	mu         sync.Mutex
	status     Status
	errMsg     string
	retryCount int
	attempt    int
	terminal   bool
	running    bool
	gen        int // bumped on retry/close so stale goroutines drop their results
	session    processor.Session
	widget     processor.CardWidget
	cancel     context.CancelFunc
	onChange   func(Snapshot)
}

func NewManager(factory processor.Factory, registry *Registry, cfg Config) *Manager {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = 500 * time.Millisecond
	}
	if cfg.ContainerWait == 0 {
		cfg.ContainerWait = 5 * time.Second
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	return &Manager{
		cfg:        cfg,
		factory:    factory,
		registry:   registry,
		controller: NewController(),
	}
}

// SetOnChange registers a callback invoked after every status transition.
// Must be set before Initialize.
func (m *Manager) SetOnChange(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Initialize starts the cycle. It only acts from Idle: while a cycle is
// running or the widget is ready, further calls are no-ops, so re-render
// storms cannot spawn duplicate sessions or widgets. A terminal error also
// stays put until an explicit Retry.
func (m *Manager) Initialize() {
	m.mu.Lock()
	if m.status != StatusIdle || m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.status = StatusInitializing
	m.gen++
	gen := m.gen
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mu.Unlock()
	m.notify()
	go m.run(ctx, gen)
}

// Retry is the manual affordance: it tears down whatever exists (even a
// ready widget) and rebuilds with a fresh retry budget.
func (m *Manager) Retry() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.gen++
	gen := m.gen
	m.session = nil
	m.widget = nil
	m.retryCount = 0
	m.attempt = 0
	m.terminal = false
	m.errMsg = ""
	m.status = StatusInitializing
	m.running = true
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mu.Unlock()
	m.controller.Destroy()
	m.notify()
	go m.run(ctx, gen)
}

// Close cancels any pending work, destroys the widget, clears the session
// and resets to Idle. Safe to call repeatedly; never panics.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.gen++
	m.session = nil
	m.widget = nil
	m.status = StatusIdle
	m.errMsg = ""
	m.retryCount = 0
	m.attempt = 0
	m.terminal = false
	m.running = false
	m.mu.Unlock()
	m.controller.Destroy()
}

// Snapshot returns the current observable state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Handles returns the live session and widget, or ErrNotReady.
func (m *Manager) Handles() (processor.Session, processor.CardWidget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != StatusReady || m.session == nil || m.widget == nil {
		return nil, nil, ErrNotReady
	}
	return m.session, m.widget, nil
}

func (m *Manager) run(ctx context.Context, gen int) {
	for {
		m.mu.Lock()
		if gen != m.gen {
			m.mu.Unlock()
			return
		}
		m.status = StatusInitializing
		m.attempt = m.retryCount + 1
		attempt := m.attempt
		m.mu.Unlock()
		m.notify()
		log.Printf("[WIDGET] init attempt=%d container=%s", attempt, m.cfg.ContainerID)

		sess, err := m.factory.CreateSession(ctx, m.cfg.AppID, m.cfg.LocationID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if !m.fail(gen, err) {
				return
			}
			continue
		}

		// Settle delay: the client UI may still be committing the checkout
		// view when the session resolves. Waiting before the first container
		// poll avoids burning the poll budget on a half-built page.
		if !sleepCtx(ctx, m.cfg.SettleDelay) {
			return
		}

		cont, err := WaitForContainer(ctx, m.registry, m.cfg.ContainerID, m.cfg.ContainerWait, m.cfg.PollInterval)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if !m.fail(gen, err) {
				return
			}
			continue
		}

		card, err := m.controller.Attach(ctx, sess, cont.ID, m.cfg.Style)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if !m.fail(gen, err) {
				return
			}
			continue
		}

		m.mu.Lock()
		if gen != m.gen || ctx.Err() != nil {
			// Superseded while attaching. Destroy only this cycle's widget:
			// a newer cycle may already have attached its own, and that one
			// must stay live.
			m.mu.Unlock()
			m.controller.DestroyIf(card)
			return
		}
		m.session = sess
		m.widget = card
		m.status = StatusReady
		m.errMsg = ""
		m.running = false
		m.mu.Unlock()
		m.notify()
		log.Printf("[WIDGET] ready container=%s attempt=%d", cont.ID, attempt)
		return
	}
}

// fail records an attempt failure and reports whether the loop should try
// again. Configuration errors and an exhausted retry budget are terminal
// until a manual Retry.
func (m *Manager) fail(gen int, err error) bool {
	fatal := errors.Is(err, processor.ErrMissingCredentials)
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return false
	}
	m.retryCount++
	m.errMsg = initMessage(err)
	m.status = StatusError
	stop := fatal || m.retryCount >= m.cfg.MaxRetries
	if stop {
		m.terminal = true
		m.running = false
	}
	retries := m.retryCount
	m.mu.Unlock()
	m.notify()
	if stop {
		log.Printf("[WIDGET] init failed terminally after %d attempt(s): %v", retries, err)
	} else {
		log.Printf("[WIDGET] init attempt %d failed, retrying: %v", retries, err)
	}
	return !stop
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		Status:     m.status,
		StatusText: m.status.String(),
		Err:        m.errMsg,
		Attempt:    m.attempt,
		RetryCount: m.retryCount,
		Terminal:   m.terminal,
	}
}

func (m *Manager) notify() {
	m.mu.Lock()
	fn := m.onChange
	snap := m.snapshotLocked()
	m.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func initMessage(err error) string {
	switch {
	case errors.Is(err, processor.ErrMissingCredentials):
		return "Payments are not configured. Please contact support."
	case errors.Is(err, ErrContainerNotFound):
		return "The payment form could not find its place on the page."
	default:
		var loadErr *processor.SDKLoadError
		if errors.As(err, &loadErr) {
			return "Could not reach the payment provider."
		}
		return "The payment form failed to load."
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
