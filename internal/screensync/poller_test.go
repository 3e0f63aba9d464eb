package screensync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/postercast/postercast/internal/relay"
)

type fakeRelay struct {
	readState func(ctx context.Context, room string, sinceVersion uint64) (relay.ReadResponse, error)
	present   func(ctx context.Context, room string, payload relay.Payload) (relay.WriteResponse, error)
	clear     func(ctx context.Context, room string) (relay.WriteResponse, error)
}

func (f *fakeRelay) ReadState(ctx context.Context, room string, sinceVersion uint64) (relay.ReadResponse, error) {
	return f.readState(ctx, room, sinceVersion)
}

func (f *fakeRelay) Present(ctx context.Context, room string, payload relay.Payload) (relay.WriteResponse, error) {
	return f.present(ctx, room, payload)
}

func (f *fakeRelay) Clear(ctx context.Context, room string) (relay.WriteResponse, error) {
	return f.clear(ctx, room)
}

func collectUpdates(buffer int) (chan Update, func(Update)) {
	ch := make(chan Update, buffer)
	return ch, func(u Update) { ch <- u }
}

func waitForUpdate(t *testing.T, ch chan Update) Update {
	t.Helper()
	select {
	case u := <-ch:
		return u
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for update")
		return Update{}
	}
}

func TestPresenterDeliversChangedStateOnce(t *testing.T) {
	var polls int32
	fake := &fakeRelay{
		readState: func(_ context.Context, room string, sinceVersion uint64) (relay.ReadResponse, error) {
			if room != "hall" {
				t.Errorf("unexpected room %q", room)
			}
			if atomic.AddInt32(&polls, 1) == 1 {
				return relay.ReadResponse{
					Changed: true,
					Version: 3,
					Payload: &relay.Payload{ID: "ABS-1", Title: "First"},
				}, nil
			}
			return relay.ReadResponse{Changed: false, Version: sinceVersion}, nil
		},
	}

	updates, onUpdate := collectUpdates(16)
	p, err := NewPresenter(fake, PresenterOptions{
		Room:     "hall",
		Interval: time.Millisecond,
		OnUpdate: onUpdate,
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	u := waitForUpdate(t, updates)
	if u.State == nil || u.State.Version != 3 || u.State.Payload.Title != "First" {
		t.Fatalf("unexpected update: %+v", u)
	}
	if u.Status != StatusConnected {
		t.Fatalf("expected connected status, got %s", u.Status)
	}

	// Unchanged polls produce no further updates.
	for atomic.LoadInt32(&polls) < 4 {
		time.Sleep(time.Millisecond)
	}
	select {
	case u := <-updates:
		t.Fatalf("unexpected extra update: %+v", u)
	default:
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("run returned %v, want context.Canceled", err)
	}
}

func TestPresenterReportsDisconnectAfterThreshold(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)
	fake := &fakeRelay{
		readState: func(context.Context, string, uint64) (relay.ReadResponse, error) {
			if failing.Load() {
				return relay.ReadResponse{}, errors.New("relay unreachable")
			}
			return relay.ReadResponse{Changed: false, Version: 0}, nil
		},
	}

	updates, onUpdate := collectUpdates(16)
	p, err := NewPresenter(fake, PresenterOptions{
		Room:             "hall",
		Interval:         time.Millisecond,
		FailureThreshold: 2,
		OnUpdate:         onUpdate,
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	u := waitForUpdate(t, updates)
	if u.Status != StatusDisconnected || u.State != nil {
		t.Fatalf("expected disconnect update, got %+v", u)
	}

	failing.Store(false)
	u = waitForUpdate(t, updates)
	if u.Status != StatusConnected {
		t.Fatalf("expected reconnect update, got %+v", u)
	}
}

func TestPresenterDeliversRelayRestart(t *testing.T) {
	var polls int32
	fake := &fakeRelay{
		readState: func(context.Context, string, uint64) (relay.ReadResponse, error) {
			switch atomic.AddInt32(&polls, 1) {
			case 1:
				return relay.ReadResponse{Changed: true, Version: 7, Payload: &relay.Payload{ID: "a", Title: "A"}}, nil
			default:
				// A restarted relay forgets the room and reports the
				// absent baseline.
				return relay.ReadResponse{Changed: true, Version: 0}, nil
			}
		},
	}

	updates, onUpdate := collectUpdates(16)
	p, err := NewPresenter(fake, PresenterOptions{Room: "hall", Interval: time.Millisecond, OnUpdate: onUpdate})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	u := waitForUpdate(t, updates)
	if u.State == nil || u.State.Version != 7 {
		t.Fatalf("unexpected first update: %+v", u)
	}
	u = waitForUpdate(t, updates)
	if u.State == nil || u.State.Version != 0 || u.State.Payload != nil {
		t.Fatalf("expected absent-baseline update, got %+v", u)
	}
}

func TestControllerTracksAckedVersions(t *testing.T) {
	var version uint64
	fake := &fakeRelay{
		present: func(context.Context, string, relay.Payload) (relay.WriteResponse, error) {
			version++
			return relay.WriteResponse{OK: true, Version: version}, nil
		},
		clear: func(context.Context, string) (relay.WriteResponse, error) {
			version++
			return relay.WriteResponse{OK: true, Version: version}, nil
		},
	}

	c, err := NewController(fake, "hall")
	if err != nil {
		t.Fatal(err)
	}
	if c.LastAckedVersion() != 0 {
		t.Fatalf("fresh controller acked version = %d", c.LastAckedVersion())
	}

	v, err := c.Present(context.Background(), relay.Payload{ID: "ABS-1", Title: "T"})
	if err != nil || v != 1 {
		t.Fatalf("present = %d, %v", v, err)
	}
	v, err = c.Clear(context.Background())
	if err != nil || v != 2 {
		t.Fatalf("clear = %d, %v", v, err)
	}
	if c.LastAckedVersion() != 2 {
		t.Fatalf("acked version = %d, want 2", c.LastAckedVersion())
	}
}

func TestNewPresenterValidation(t *testing.T) {
	if _, err := NewPresenter(nil, PresenterOptions{Room: "r"}); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewPresenter(&fakeRelay{}, PresenterOptions{Room: "  "}); err == nil {
		t.Fatal("expected error for empty room")
	}
	if _, err := NewController(&fakeRelay{}, ""); err == nil {
		t.Fatal("expected error for empty room")
	}
}
