// Package relay holds the server side of the presentation sync protocol: one
// versioned, last-writer-wins state object per room, kept behind a small
// storage abstraction so the protocol's guarantees do not depend on the
// backend.
package relay

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotImplemented = errors.New("not implemented")
)

// Action is a state-changing write kind.
type Action string

const (
	ActionPresent Action = "present"
	ActionClear   Action = "clear"
)

// Payload carries everything a presenter needs to render one abstract.
// FileData optionally embeds base64 content for files that are not reachable
// over the network from the presentation device.
type Payload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	FileURL     string `json:"fileUrl,omitempty"`
	FileType    string `json:"fileType,omitempty"`
	FileData    string `json:"fileData,omitempty"`
	LocalSource bool   `json:"localSource,omitempty"`
}

// WriteRequest is the controller-side wire contract.
type WriteRequest struct {
	Action  Action   `json:"action"`
	Room    string   `json:"room"`
	Payload *Payload `json:"payload,omitempty"`
}

// WriteResponse acknowledges a write with the new room version.
type WriteResponse struct {
	OK      bool   `json:"ok"`
	Version uint64 `json:"version"`
}

// ReadResponse is the presenter-side wire contract. Payload and Timestamp are
// only populated on changed reads.
type ReadResponse struct {
	Changed   bool     `json:"changed"`
	Version   uint64   `json:"version"`
	Payload   *Payload `json:"payload,omitempty"`
	Timestamp int64    `json:"timestamp,omitempty"`
}

// RoomInfo is the admin view of one live room.
type RoomInfo struct {
	Room       string `json:"room"`
	Version    uint64 `json:"version"`
	Presenting bool   `json:"presenting"`
	AgeSeconds int64  `json:"ageSeconds"`
}

type roomState struct {
	Payload   *Payload  `json:"payload,omitempty"`
	Timestamp int64     `json:"timestamp"`
	Version   uint64    `json:"version"`
	LastWrite time.Time `json:"lastWrite"`
}

// StoreOptions configures a Store. Zero values select an in-memory store with
// the default TTL and a running janitor.
type StoreOptions struct {
	// TTL is the inactivity window after which a room behaves as never
	// written. Non-positive selects the default of one hour.
	TTL time.Duration
	// Backend persists room snapshots across restarts. Nil keeps state in
	// memory only.
	Backend StateBackend
	// DisableJanitor skips the background sweep; expiry still applies lazily
	// on access. Used by tests.
	DisableJanitor bool
}

const defaultRoomTTL = time.Hour

// Store is the single source of truth for what happened most recently in each
// room. Writes are linearized under the store lock, so concurrent controllers
// race and the last write applied wins.
type Store struct {
	mu      sync.RWMutex
	rooms   map[string]*roomState
	ttl     time.Duration
	backend StateBackend

	watchMu  sync.Mutex
	watchers map[string]map[chan ReadResponse]struct{}

	now func() time.Time

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewStore(opts StoreOptions) *Store {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultRoomTTL
	}
	s := &Store{
		rooms:    map[string]*roomState{},
		ttl:      ttl,
		backend:  opts.Backend,
		watchers: map[string]map[chan ReadResponse]struct{}{},
		now:      time.Now,
		closed:   make(chan struct{}),
	}
	// Corrupt or unreadable snapshots are recovered by starting empty; a
	// relay that cannot remember its rooms is degraded, not broken.
	s.loadFromBackend()
	if !opts.DisableJanitor {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.janitor()
		}()
	}
	return s
}

func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		s.wg.Wait()
	})
}

// Write applies a present or clear action to a room. The version increments
// by exactly one on every write, even when the payload is identical to the
// previous one; monotonicity is write-count-driven, never content-driven.
func (s *Store) Write(req WriteRequest) (WriteResponse, error) {
	if req.Room == "" {
		return WriteResponse{}, fmt.Errorf("%w: missing room", ErrInvalidInput)
	}
	switch req.Action {
	case ActionPresent:
		if req.Payload == nil {
			return WriteResponse{}, fmt.Errorf("%w: present requires a payload", ErrInvalidInput)
		}
	case ActionClear:
	default:
		return WriteResponse{}, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, req.Action)
	}

	now := s.now()

	s.mu.Lock()
	room := s.rooms[req.Room]
	if room == nil || s.expired(room, now) {
		// An expired room restarts counting from the absent baseline.
		room = &roomState{}
		s.rooms[req.Room] = room
	}
	room.Version++
	room.Timestamp = now.UnixMilli()
	room.LastWrite = now
	if req.Action == ActionPresent {
		room.Payload = clonePayload(req.Payload)
	} else {
		room.Payload = nil
	}
	resp := WriteResponse{OK: true, Version: room.Version}
	read := readFromRoom(room)
	err := s.saveLocked()
	s.mu.Unlock()

	if err != nil {
		return WriteResponse{}, err
	}
	s.publish(req.Room, read)
	return resp, nil
}

// Read returns the room state relative to the highest version the caller has
// observed. Equality with the current version yields the cheap unchanged
// response; an absent (or expired) room always yields a changed response so
// the first poll of a session is definitive.
func (s *Store) Read(roomKey string, sinceVersion uint64) (ReadResponse, error) {
	if roomKey == "" {
		return ReadResponse{}, fmt.Errorf("%w: missing room", ErrInvalidInput)
	}

	now := s.now()
	s.mu.RLock()
	room := s.rooms[roomKey]
	if room == nil || s.expired(room, now) {
		s.mu.RUnlock()
		return ReadResponse{Changed: true, Version: 0}, nil
	}
	if room.Version == sinceVersion {
		resp := ReadResponse{Changed: false, Version: room.Version}
		s.mu.RUnlock()
		return resp, nil
	}
	resp := readFromRoom(room)
	s.mu.RUnlock()
	return resp, nil
}

// Rooms lists live (unexpired) rooms for the admin surface.
func (s *Store) Rooms() []RoomInfo {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RoomInfo, 0, len(s.rooms))
	for key, room := range s.rooms {
		if s.expired(room, now) {
			continue
		}
		out = append(out, RoomInfo{
			Room:       key,
			Version:    room.Version,
			Presenting: room.Payload != nil,
			AgeSeconds: int64(now.Sub(room.LastWrite).Seconds()),
		})
	}
	return out
}

func (s *Store) expired(room *roomState, now time.Time) bool {
	return now.Sub(room.LastWrite) > s.ttl
}

func (s *Store) janitor() {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.closed:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Store) sweep() {
	now := s.now()
	s.mu.Lock()
	removed := false
	for key, room := range s.rooms {
		if s.expired(room, now) {
			delete(s.rooms, key)
			removed = true
		}
	}
	if removed {
		_ = s.saveLocked()
	}
	s.mu.Unlock()
}

func readFromRoom(room *roomState) ReadResponse {
	return ReadResponse{
		Changed:   true,
		Version:   room.Version,
		Payload:   clonePayload(room.Payload),
		Timestamp: room.Timestamp,
	}
}

func clonePayload(p *Payload) *Payload {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
