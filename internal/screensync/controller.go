package screensync

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/postercast/postercast/internal/relay"
)

// Controller pushes selections into a room and remembers the version each
// write was acknowledged at. Concurrent controllers on the same room race at
// the relay; the one whose write lands last wins.
type Controller struct {
	client RelayClient
	room   string

	mu          sync.Mutex
	lastVersion uint64
}

func NewController(client RelayClient, room string) (*Controller, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	room = strings.TrimSpace(room)
	if room == "" {
		return nil, fmt.Errorf("room is required")
	}
	return &Controller{client: client, room: room}, nil
}

func (c *Controller) Present(ctx context.Context, payload relay.Payload) (uint64, error) {
	resp, err := c.client.Present(ctx, c.room, payload)
	if err != nil {
		return 0, err
	}
	c.record(resp.Version)
	return resp.Version, nil
}

func (c *Controller) Clear(ctx context.Context) (uint64, error) {
	resp, err := c.client.Clear(ctx, c.room)
	if err != nil {
		return 0, err
	}
	c.record(resp.Version)
	return resp.Version, nil
}

// LastAckedVersion is the highest version the relay acknowledged for this
// controller's writes. Zero means no write has succeeded yet.
func (c *Controller) LastAckedVersion() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastVersion
}

func (c *Controller) record(version uint64) {
	c.mu.Lock()
	if version > c.lastVersion {
		c.lastVersion = version
	}
	c.mu.Unlock()
}
