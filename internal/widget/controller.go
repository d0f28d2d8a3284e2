package widget

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"bizlist/pkg/processor"
)

// ErrAttachInProgress rejects a second Attach while one is still pending.
// Two concurrent attaches would race two widgets onto the same container.
var ErrAttachInProgress = errors.New("widget: attach already in progress")

// Controller owns at most one live card widget at a time. Replacement is
// always destroy-then-create.
type Controller struct {
	mu        sync.Mutex
	widget    processor.CardWidget
	attaching bool
}

func NewController() *Controller {
	return &Controller{}
}

// Attach creates a card widget from the session and attaches it to the
// container. Any previously held widget is destroyed first.
func (c *Controller) Attach(ctx context.Context, session processor.Session, containerID string, style processor.CardStyle) (processor.CardWidget, error) {
	c.mu.Lock()
	if c.attaching {
		c.mu.Unlock()
		return nil, ErrAttachInProgress
	}
	c.attaching = true
	prev := c.widget
	c.widget = nil
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.attaching = false
		c.mu.Unlock()
	}()

	destroyQuietly(prev)

	card, err := session.Card(ctx, style)
	if err != nil {
		return nil, fmt.Errorf("create card widget: %w", err)
	}
	if err := card.Attach(ctx, containerID); err != nil {
		destroyQuietly(card)
		return nil, fmt.Errorf("attach card widget: %w", err)
	}
	c.mu.Lock()
	c.widget = card
	c.mu.Unlock()
	return card, nil
}

// Destroy tears down the current widget if any. Calling it again, or with no
// widget held, is a no-op.
func (c *Controller) Destroy() {
	c.mu.Lock()
	w := c.widget
	c.widget = nil
	c.mu.Unlock()
	destroyQuietly(w)
}

// DestroyIf tears down w only while the controller still holds it. A caller
// that lost ownership must not touch the controller's current widget: if w
// was already replaced, the replacing Attach destroyed it.
func (c *Controller) DestroyIf(w processor.CardWidget) {
	if w == nil {
		return
	}
	c.mu.Lock()
	if c.widget != w {
		c.mu.Unlock()
		return
	}
	c.widget = nil
	c.mu.Unlock()
	destroyQuietly(w)
}

// Widget returns the currently attached widget, or nil.
func (c *Controller) Widget() processor.CardWidget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.widget
}

// destroyQuietly swallows teardown errors: destroy runs from cleanup paths
// where nothing can usefully react to a failure.
func destroyQuietly(w processor.CardWidget) {
	if w == nil {
		return
	}
	if err := w.Destroy(); err != nil {
		log.Printf("[WIDGET] destroy error (ignored): %v", err)
	}
}
