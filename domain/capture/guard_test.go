package capture

import (
	"errors"
	"testing"
	"time"
)

func TestReleaseGuard_CloseDuringReadDoesNotWait(t *testing.T) {
	releases := 0
	g := NewReleaseGuard(func() error { releases++; return nil })

	if err := g.BeginRead(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := g.BeginRead(); !errors.Is(err, ErrReadInProgress) {
		t.Fatalf("second reader should be rejected, got %v", err)
	}

	closed := make(chan error, 1)
	go func() { closed <- g.Close() }()
	select {
	case err := <-closed:
		if err != nil {
			t.Fatalf("close: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Close blocked behind a read in flight")
	}
	if releases != 0 {
		t.Fatalf("released while the read was in flight")
	}

	if err := g.EndRead(); !errors.Is(err, ErrDeviceClosed) {
		t.Fatalf("EndRead after Close = %v, want ErrDeviceClosed", err)
	}
	if releases != 1 {
		t.Fatalf("releases = %d, want 1", releases)
	}
	if err := g.BeginRead(); !errors.Is(err, ErrDeviceClosed) {
		t.Fatalf("read after close = %v", err)
	}
	_ = g.Close()
	if releases != 1 {
		t.Fatalf("second close released again")
	}
}

func TestReleaseGuard_CloseWhenIdleReleasesAtOnce(t *testing.T) {
	releases := 0
	g := NewReleaseGuard(func() error { releases++; return nil })
	if err := g.BeginRead(); err != nil {
		t.Fatal(err)
	}
	if err := g.EndRead(); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := g.Close(); err != nil || releases != 1 {
		t.Fatalf("close err=%v releases=%d", err, releases)
	}
}
