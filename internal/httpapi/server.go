// Package httpapi exposes the presentation relay over HTTP: a write endpoint
// for controllers, a versioned read endpoint for polling presenters, and a
// websocket fast path that pushes the same changed-read responses.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/postercast/postercast/internal/relay"
)

type ServerConfig struct {
	// MaxBodyBytes caps write bodies; embedded file data can make payloads
	// large, so the default is generous.
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = 16 << 20

type Server struct {
	store  *relay.Store
	cfg    ServerConfig
	logger *zap.Logger
}

func NewServer(store *relay.Store, logger *zap.Logger) *Server {
	return NewServerWithConfig(store, logger, ServerConfig{})
}

func NewServerWithConfig(store *relay.Store, logger *zap.Logger, cfg ServerConfig) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{store: store, cfg: cfg, logger: logger}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/health" && r.Method == http.MethodGet {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "v1" || parts[1] != "rooms" {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
		return
	}

	if len(parts) == 2 && r.Method == http.MethodGet {
		s.handleListRooms(w, r)
		return
	}
	if len(parts) != 4 {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
		return
	}
	room := parts[2]
	if strings.TrimSpace(room) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing room")
		return
	}

	switch {
	case parts[3] == "state" && r.Method == http.MethodGet:
		s.handleReadState(w, r, room)
	case parts[3] == "state" && r.Method == http.MethodPost:
		s.handleWriteState(w, r, room)
	case parts[3] == "watch" && r.Method == http.MethodGet:
		s.handleWatch(w, r, room)
	default:
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	}
}

func (s *Server) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rooms": s.store.Rooms()})
}

func (s *Server) handleReadState(w http.ResponseWriter, r *http.Request, room string) {
	sinceRaw := strings.TrimSpace(r.URL.Query().Get("sinceVersion"))
	var since uint64
	if sinceRaw != "" {
		parsed, err := strconv.ParseUint(sinceRaw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid sinceVersion")
			return
		}
		since = parsed
	}

	resp, err := s.store.Read(room, since)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWriteState(w http.ResponseWriter, r *http.Request, room string) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
		return
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json body")
		return
	}
	if err := relay.ValidateWriteBody(decoded); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid write request: "+err.Error())
		return
	}

	var req relay.WriteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json body")
		return
	}
	req.Room = room

	resp, err := s.store.Write(req)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.logger.Info("state written",
		zap.String("room", room),
		zap.String("action", string(req.Action)),
		zap.Uint64("version", resp.Version),
		zap.String("correlationId", r.Header.Get("X-Correlation-Id")),
	)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, relay.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	s.logger.Error("store operation failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "message": message})
}
