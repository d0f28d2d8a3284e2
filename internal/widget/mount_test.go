package widget

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForContainerResolvesOnLateReport(t *testing.T) {
	reg := NewRegistry()
	go func() {
		time.Sleep(20 * time.Millisecond)
		reg.Report("card-container-1", true)
	}()
	c, err := WaitForContainer(context.Background(), reg, "card-container-1", 500*time.Millisecond, 2*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitForContainer: %v", err)
	}
	if c.ID != "card-container-1" {
		t.Errorf("container ID = %q, want card-container-1", c.ID)
	}
}

func TestWaitForContainerTimesOut(t *testing.T) {
	reg := NewRegistry()
	_, err := WaitForContainer(context.Background(), reg, "missing", 30*time.Millisecond, 2*time.Millisecond)
	if !errors.Is(err, ErrContainerNotFound) {
		t.Fatalf("err = %v, want ErrContainerNotFound", err)
	}
}

func TestWaitForContainerIgnoresDisconnected(t *testing.T) {
	reg := NewRegistry()
	reg.Report("detached", false)
	_, err := WaitForContainer(context.Background(), reg, "detached", 30*time.Millisecond, 2*time.Millisecond)
	if !errors.Is(err, ErrContainerNotFound) {
		t.Fatalf("err = %v, want ErrContainerNotFound for disconnected container", err)
	}
}

func TestWaitForContainerHonorsCancellation(t *testing.T) {
	reg := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := WaitForContainer(ctx, reg, "never", time.Minute, 2*time.Millisecond)
		done <- err
	}()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForContainer did not return after cancellation")
	}
}

func TestRegistryRemove(t *testing.T) {
	reg := NewRegistry()
	reg.Report("c1", true)
	if _, ok := reg.Lookup("c1"); !ok {
		t.Fatal("expected container after Report")
	}
	reg.Remove("c1")
	if _, ok := reg.Lookup("c1"); ok {
		t.Fatal("expected container gone after Remove")
	}
}
