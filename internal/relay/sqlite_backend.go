package relay

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	sqliteStateTable       = "postercast_rooms"
	sqliteOperationTimeout = 5 * time.Second
)

// SQLiteStateBackend mirrors the Postgres backend for single-host deployments
// that want durability without a database server.
type SQLiteStateBackend struct {
	path     string
	stateKey string

	initOnce sync.Once
	initErr  error
	db       *sql.DB
}

func NewSQLiteStateBackend(path string) (StateBackend, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrInvalidInput
	}
	return &SQLiteStateBackend{path: path, stateKey: "default"}, nil
}

func (b *SQLiteStateBackend) ensureReady() error {
	b.initOnce.Do(func() {
		db, err := sql.Open("sqlite", b.path)
		if err != nil {
			b.initErr = err
			return
		}
		// One writer at a time; the store serializes saves anyway.
		db.SetMaxOpenConns(1)
		ctx, cancel := context.WithTimeout(context.Background(), sqliteOperationTimeout)
		defer cancel()
		_, err = db.ExecContext(ctx, fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %s (
				state_key TEXT PRIMARY KEY,
				snapshot TEXT NOT NULL,
				updated_at INTEGER NOT NULL
			)`, sqliteStateTable))
		if err != nil {
			_ = db.Close()
			b.initErr = err
			return
		}
		b.db = db
	})
	return b.initErr
}

func (b *SQLiteStateBackend) Load() (*persistedState, error) {
	if b == nil {
		return nil, nil
	}
	if err := b.ensureReady(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqliteOperationTimeout)
	defer cancel()

	var payload string
	query := fmt.Sprintf("SELECT snapshot FROM %s WHERE state_key = ?", sqliteStateTable)
	err := b.db.QueryRowContext(ctx, query, b.stateKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snapshot persistedState
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (b *SQLiteStateBackend) Save(state *persistedState) error {
	if b == nil || state == nil {
		return nil
	}
	if err := b.ensureReady(); err != nil {
		return err
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqliteOperationTimeout)
	defer cancel()

	query := fmt.Sprintf(
		`INSERT INTO %s (state_key, snapshot, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (state_key) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at`,
		sqliteStateTable)
	_, err = b.db.ExecContext(ctx, query, b.stateKey, string(payload), time.Now().Unix())
	return err
}

func (b *SQLiteStateBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
