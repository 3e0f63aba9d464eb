package relay

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// persistedState is the snapshot shape shared by every backend.
type persistedState struct {
	Rooms map[string]*roomState `json:"rooms"`
}

// StateBackend persists room snapshots. Load returning (nil, nil) means no
// snapshot exists yet.
type StateBackend interface {
	Load() (*persistedState, error)
	Save(state *persistedState) error
}

func (s *Store) loadFromBackend() {
	if s.backend == nil {
		return
	}
	snapshot, err := s.backend.Load()
	if err != nil || snapshot == nil || snapshot.Rooms == nil {
		return
	}
	s.rooms = snapshot.Rooms
}

// saveLocked snapshots the room map; callers hold s.mu.
func (s *Store) saveLocked() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Save(&persistedState{Rooms: s.rooms})
}

// JSONFileStateBackend keeps the snapshot in a single JSON file, written
// atomically via rename.
type JSONFileStateBackend struct {
	Path string
}

func NewJSONFileStateBackend(path string) *JSONFileStateBackend {
	return &JSONFileStateBackend{Path: strings.TrimSpace(path)}
}

func (b *JSONFileStateBackend) Load() (*persistedState, error) {
	if b == nil || strings.TrimSpace(b.Path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(b.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var snapshot persistedState
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (b *JSONFileStateBackend) Save(state *persistedState) error {
	if b == nil || strings.TrimSpace(b.Path) == "" || state == nil {
		return nil
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	dir := filepath.Dir(b.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := b.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, b.Path)
}

// InMemoryStateBackend round-trips snapshots through JSON so callers get the
// same copy semantics as the durable backends. Used in tests and as the
// explicit "memory" DSN.
type InMemoryStateBackend struct {
	mu       sync.Mutex
	snapshot *persistedState
}

func NewInMemoryStateBackend() *InMemoryStateBackend {
	return &InMemoryStateBackend{}
}

func (b *InMemoryStateBackend) Load() (*persistedState, error) {
	if b == nil {
		return nil, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.snapshot == nil {
		return nil, nil
	}
	return cloneSnapshot(b.snapshot)
}

func (b *InMemoryStateBackend) Save(state *persistedState) error {
	if b == nil || state == nil {
		return nil
	}
	clone, err := cloneSnapshot(state)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.snapshot = clone
	b.mu.Unlock()
	return nil
}

func cloneSnapshot(state *persistedState) (*persistedState, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	var clone persistedState
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, err
	}
	return &clone, nil
}
