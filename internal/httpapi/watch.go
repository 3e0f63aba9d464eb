package httpapi

import (
	"net/http"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// handleWatch upgrades to a websocket and pushes a changed-read response for
// every write to the room, starting with the current state so a late joiner
// does not wait for the next write. Polling stays the contract of record; the
// socket only shortens the latency.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("watch upgrade failed", zap.String("room", room), zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "watch closed")

	ctx := r.Context()
	updates, cancel := s.store.Subscribe(room)
	defer cancel()

	initial, err := s.store.Read(room, ^uint64(0))
	if err != nil {
		conn.Close(websocket.StatusInternalError, "read failed")
		return
	}
	if err := wsjson.Write(ctx, conn, initial); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case resp := <-updates:
			if err := wsjson.Write(ctx, conn, resp); err != nil {
				return
			}
		}
	}
}
