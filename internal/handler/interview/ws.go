package interview

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	interviewservice "github.com/intervuelab/backend/internal/service/interview"
)

const (
	readDeadline = 60 * time.Second
	pingInterval = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// handleWebSocket runs the interview chat over a single WebSocket
// connection. Inbound frames carry candidate input and session
// control; everything the candidate should see arrives as broker
// events, so the write loop is the connection's only writer.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	if _, ok := h.store.GetSession(r.Context(), sessionID); !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events, unsubscribe := h.broker.Subscribe(sessionID)
	defer unsubscribe()

	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	go h.writeLoop(ctx, conn, sessionID, events)

	// Re-issue the pending prompt so a reconnecting client picks up
	// where the interview left off.
	h.flow.Advance(ctx, sessionID)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[websocket] read error: %v", err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(readDeadline))
			h.handleInbound(ctx, sessionID, &msg)
		}
	}
}

func (h *Handler) handleInbound(ctx context.Context, sessionID string, msg *inboundMessage) {
	switch msg.Type {
	case "message", "":
		h.flow.HandleCandidateText(ctx, sessionID, msg.Text)
	case "pause":
		h.flow.Pause(ctx, sessionID)
	case "resume":
		h.flow.Resume(ctx, sessionID)
	default:
		log.Printf("[websocket] unknown message type: %s", msg.Type)
	}
}

func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, sessionID string, events <-chan interviewservice.Event) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	connected := outgoingMessage{
		Type:      "connected",
		SessionID: sessionID,
		Timestamp: time.Now().Unix(),
	}
	if err := conn.WriteJSON(connected); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case ev, open := <-events:
			if !open {
				return
			}
			out := outgoingMessage{
				Type:      string(ev.Type),
				SessionID: sessionID,
				Data:      ev,
				Timestamp: time.Now().Unix(),
			}
			if err := conn.WriteJSON(out); err != nil {
				log.Printf("[websocket] write failed: %v", err)
				return
			}
		}
	}
}
