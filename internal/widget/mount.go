package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Container is a client-reported mount target for the card widget. The
// browser owns the DOM; all we know is what it has told us.
type Container struct {
	ID         string
	Connected  bool
	ReportedAt time.Time
}

// Registry tracks containers the client UI has reported as mounted. The UI
// may report before or after widget initialization starts; WaitForContainer
// absorbs that race.
type Registry struct {
	mu         sync.RWMutex
	containers map[string]Container
}

func NewRegistry() *Registry {
	return &Registry{containers: make(map[string]Container)}
}

// Report records that the container exists and whether it is connected to
// the document. Reporting the same ID again just refreshes it.
func (r *Registry) Report(id string, connected bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.containers[id] = Container{ID: id, Connected: connected, ReportedAt: time.Now()}
}

// Remove drops a container, e.g. when the owning view unmounts.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.containers, id)
}

func (r *Registry) Lookup(id string) (Container, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.containers[id]
	return c, ok
}

// ErrContainerNotFound means the container never showed up before the deadline.
var ErrContainerNotFound = errors.New("widget: container not found")

// WaitForContainer polls the registry at a fixed interval until the container
// exists and is connected, or maxWait elapses. It has no side effects and is
// safe to call repeatedly.
func WaitForContainer(ctx context.Context, reg *Registry, id string, maxWait, interval time.Duration) (Container, error) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	deadline := time.Now().Add(maxWait)
	for {
		if c, ok := reg.Lookup(id); ok && c.Connected {
			return c, nil
		}
		if !time.Now().Before(deadline) {
			return Container{}, fmt.Errorf("%w: %q after %s", ErrContainerNotFound, id, maxWait)
		}
		select {
		case <-ctx.Done():
			return Container{}, ctx.Err()
		case <-time.After(interval):
		}
	}
}
