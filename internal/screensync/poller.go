package screensync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/postercast/postercast/internal/relay"
)

// Status reports whether the presenter believes it can still reach the relay.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// Update is delivered to the presenter callback on every changed read and on
// every status transition.
type Update struct {
	State  *relay.ReadResponse
	Status Status
}

type Logger interface {
	Printf(format string, args ...any)
}

// PresenterOptions configures a polling presenter.
type PresenterOptions struct {
	Room     string
	Interval time.Duration
	// FailureThreshold is the number of consecutive failed polls before the
	// presenter reports StatusDisconnected. Non-positive selects 3.
	FailureThreshold int
	Logger           Logger
	OnUpdate         func(Update)
}

// Presenter polls a room at a fixed interval and forwards changed state to its
// callback. It never skips backwards: only responses whose version exceeds the
// highest seen so far are delivered.
type Presenter struct {
	client    RelayClient
	room      string
	interval  time.Duration
	threshold int
	logger    Logger
	onUpdate  func(Update)

	lastVersion uint64
	seen        bool
	failures    int
	status      Status
}

func NewPresenter(client RelayClient, opts PresenterOptions) (*Presenter, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	room := strings.TrimSpace(opts.Room)
	if room == "" {
		return nil, fmt.Errorf("room is required")
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	threshold := opts.FailureThreshold
	if threshold <= 0 {
		threshold = 3
	}
	return &Presenter{
		client:    client,
		room:      room,
		interval:  interval,
		threshold: threshold,
		logger:    opts.Logger,
		onUpdate:  opts.OnUpdate,
		status:    StatusConnected,
	}, nil
}

// Run polls until the context is cancelled. It polls once immediately so a
// late joiner renders current state without waiting a full interval.
func (p *Presenter) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *Presenter) pollOnce(ctx context.Context) {
	since := p.lastVersion
	resp, err := p.client.ReadState(ctx, p.room, since)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.failures++
		p.logf("poll failed (%d consecutive): %v", p.failures, err)
		if p.failures >= p.threshold && p.status != StatusDisconnected {
			p.status = StatusDisconnected
			p.notify(Update{Status: p.status})
		}
		return
	}

	if p.failures > 0 || p.status != StatusConnected {
		p.failures = 0
		p.status = StatusConnected
		p.notify(Update{Status: p.status})
	}

	if !resp.Changed {
		return
	}
	// A restarted relay can report version 0 for a room we already saw at a
	// higher version; that still means "render nothing", so deliver it.
	if p.seen && resp.Version == p.lastVersion {
		return
	}
	p.lastVersion = resp.Version
	p.seen = true
	state := resp
	p.notify(Update{State: &state, Status: p.status})
}

func (p *Presenter) notify(u Update) {
	if p.onUpdate == nil {
		return
	}
	p.onUpdate(u)
}

func (p *Presenter) logf(format string, args ...any) {
	if p.logger == nil {
		return
	}
	p.logger.Printf(format, args...)
}
