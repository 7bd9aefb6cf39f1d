package preview

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/soocke/timelapse-go/domain/capture"
)

type mockDevice struct {
	mu        sync.Mutex
	reads     int
	closes    int
	failAfter int
	gate      chan struct{} // when set, reads block until closed; Close does not release them
}

func (d *mockDevice) Size() (int, int) { return 16, 9 }

func (d *mockDevice) Read() (*image.RGBA, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closes > 0 {
		return nil, capture.ErrDeviceClosed
	}
	d.reads++
	if d.failAfter > 0 && d.reads > d.failAfter {
		return nil, errors.New("read failed")
	}
	if d.gate != nil {
		d.mu.Unlock()
		<-d.gate
		d.mu.Lock()
	}
	return image.NewRGBA(image.Rect(0, 0, 16, 9)), nil
}

func (d *mockDevice) readCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reads
}

func (d *mockDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closes++
	return nil
}

func (d *mockDevice) closeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

type mockOpener struct {
	mu    sync.Mutex
	dev   *mockDevice
	opens int
}

func (o *mockOpener) Open(index int) (capture.Device, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opens++
	if o.dev == nil {
		return nil, errors.New("no camera")
	}
	return o.dev, nil
}

func (o *mockOpener) setDevice(d *mockDevice) {
	o.mu.Lock()
	o.dev = d
	o.mu.Unlock()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRelay_RelaysUntilStopped(t *testing.T) {
	dev := &mockDevice{}
	r := NewRelay(nil, &mockOpener{dev: dev}, time.Millisecond)
	r.Start(context.Background(), 1)
	waitFor(t, func() bool { return r.Stats().Frames >= 3 })

	snap := r.LatestFrame()
	if snap.Image == nil || snap.Sequence < 3 || snap.CapturedAt.IsZero() {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	r.Stop()
	r.Wait()
	if r.Running() {
		t.Fatalf("relay still running after Stop")
	}
	if dev.closeCount() != 1 {
		t.Fatalf("device closed %d times, want 1", dev.closeCount())
	}
	if r.Err() != nil {
		t.Fatalf("stop should not record an error, got %v", r.Err())
	}
	r.Stop() // idempotent
}

func TestRelay_OpenFailure(t *testing.T) {
	r := NewRelay(nil, &mockOpener{}, time.Millisecond)
	r.Start(context.Background(), 3)
	r.Wait()
	if r.Running() || r.Err() == nil {
		t.Fatalf("expected stopped relay with error, running=%v err=%v", r.Running(), r.Err())
	}
	if r.LatestFrame().Image != nil {
		t.Fatalf("no frame expected")
	}
}

func TestRelay_StopsOnReadFailure(t *testing.T) {
	dev := &mockDevice{failAfter: 2}
	r := NewRelay(nil, &mockOpener{dev: dev}, time.Millisecond)
	r.Start(context.Background(), 0)
	r.Wait()
	if r.Err() == nil {
		t.Fatalf("expected read error")
	}
	if got := r.Stats().Frames; got != 2 {
		t.Fatalf("frames = %d, want 2", got)
	}
	if dev.closeCount() != 1 {
		t.Fatalf("device closed %d times", dev.closeCount())
	}
}

func TestRelay_ContextCancel(t *testing.T) {
	dev := &mockDevice{}
	r := NewRelay(nil, &mockOpener{dev: dev}, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx, 0)
	waitFor(t, func() bool { return r.Stats().Frames >= 1 })
	cancel()
	r.Wait()
	if r.Running() {
		t.Fatalf("relay should stop on context cancel")
	}
}

func TestRelay_StartWhileRunningIsNoop(t *testing.T) {
	opener := &mockOpener{dev: &mockDevice{}}
	r := NewRelay(nil, opener, time.Millisecond)
	r.Start(context.Background(), 0)
	r.Start(context.Background(), 0)
	waitFor(t, func() bool { return r.Stats().Frames >= 1 })
	r.Stop()
	r.Wait()
	opener.mu.Lock()
	defer opener.mu.Unlock()
	if opener.opens != 1 {
		t.Fatalf("opened %d times, want 1", opener.opens)
	}
}

func TestRelay_RestartWhileStoppedRunIsStillReading(t *testing.T) {
	stalled := &mockDevice{gate: make(chan struct{})}
	opener := &mockOpener{dev: stalled}
	r := NewRelay(nil, opener, time.Millisecond)
	r.Start(context.Background(), 0)
	waitFor(t, func() bool { return stalled.readCount() >= 1 })

	r.Stop()
	fresh := &mockDevice{}
	opener.setDevice(fresh)
	r.Start(context.Background(), 0)
	if !r.Running() {
		t.Fatalf("relay should run right after a quick stop/start")
	}
	waitFor(t, func() bool { return fresh.readCount() >= 2 })

	close(stalled.gate)
	if !r.Running() || r.Err() != nil {
		t.Fatalf("old run ending must not affect the new one: running=%v err=%v", r.Running(), r.Err())
	}
	r.Stop()
	r.Wait()
	if stalled.closeCount() != 1 || fresh.closeCount() != 1 {
		t.Fatalf("close counts stalled=%d fresh=%d, want 1/1", stalled.closeCount(), fresh.closeCount())
	}
	opener.mu.Lock()
	defer opener.mu.Unlock()
	if opener.opens != 2 {
		t.Fatalf("opened %d times, want 2", opener.opens)
	}
}
