package checkout

import (
	"errors"
	"testing"
	"time"

	"bizlist/internal/widget"
	"bizlist/pkg/processor"
)

func TestStorePutGetRemove(t *testing.T) {
	store := NewStore()
	reg := widget.NewRegistry()
	reg.Report("card-container-s1", true)
	mgr := widget.NewManager(processor.StubFactory{}, reg, widget.Config{
		AppID:         "app",
		LocationID:    "loc",
		ContainerID:   "card-container-s1",
		SettleDelay:   time.Millisecond,
		ContainerWait: 50 * time.Millisecond,
		PollInterval:  time.Millisecond,
	})
	sess := &Session{ID: "s1", UserID: 7, Kind: "CLASSIFIED", ReferenceID: 42, Manager: mgr}

	store.Put(sess)
	got, err := store.Get("s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != sess {
		t.Error("Get returned a different session")
	}

	mgr.Initialize()
	deadline := time.Now().Add(2 * time.Second)
	for mgr.Snapshot().Status != widget.StatusReady {
		if time.Now().After(deadline) {
			t.Fatal("manager never became ready")
		}
		time.Sleep(2 * time.Millisecond)
	}

	store.Remove("s1")
	if _, err := store.Get("s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Get after Remove err = %v, want ErrSessionNotFound", err)
	}
	if snap := mgr.Snapshot(); snap.Status != widget.StatusIdle {
		t.Errorf("manager status after Remove = %s, want IDLE", snap.Status)
	}

	// Removing twice must not panic or resurrect anything.
	store.Remove("s1")
}
