package relay

import (
	"path/filepath"
	"testing"
)

func TestSQLiteBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.db")

	backend, err := NewSQLiteStateBackend(path)
	if err != nil {
		t.Fatal(err)
	}
	s := newTestStore(t, StoreOptions{Backend: backend})
	present(t, s, "hall", "ABS-1")
	present(t, s, "hall", "ABS-2")
	s.Close()

	restoredBackend, err := NewSQLiteStateBackend(path)
	if err != nil {
		t.Fatal(err)
	}
	restored := newTestStore(t, StoreOptions{Backend: restoredBackend})
	resp, err := restored.Read("hall", 0)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Changed || resp.Version != 2 {
		t.Fatalf("restored read = %+v", resp)
	}
	if resp.Payload == nil || resp.Payload.ID != "ABS-2" {
		t.Fatalf("restored payload = %+v", resp.Payload)
	}

	// Versions keep counting from the restored snapshot.
	if v := present(t, restored, "hall", "ABS-3").Version; v != 3 {
		t.Fatalf("version after restore = %d, want 3", v)
	}
}

func TestSQLiteBackendEmptyLoad(t *testing.T) {
	backend, err := NewSQLiteStateBackend(filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatal(err)
	}
	snapshot, err := backend.Load()
	if err != nil {
		t.Fatal(err)
	}
	if snapshot != nil {
		t.Fatalf("expected nil snapshot from fresh database, got %+v", snapshot)
	}
}
