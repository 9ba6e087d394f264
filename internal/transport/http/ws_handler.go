package http

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"quiz-arena-service/internal/app"
	"quiz-arena-service/internal/domain"
	"quiz-arena-service/internal/engine"
	"github.com/gorilla/websocket"
)

// WSHandler runs the matchmaking search over a websocket: the client joins
// the pool on connect, the server polls the pairing rule on an interval and
// pushes the match once found. Closing the socket (or sending cancel)
// withdraws the entry, which is all cancellation means here.
type WSHandler struct {
	matchmaking  *app.MatchmakingService
	upgrader     websocket.Upgrader
	pollInterval time.Duration
}

func NewWSHandler(matchmaking *app.MatchmakingService, pollInterval time.Duration) *WSHandler {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &WSHandler{
		matchmaking:  matchmaking,
		pollInterval: pollInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type string `json:"type"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type matchedPayload struct {
	OpponentID     string           `json:"opponentId"`
	OpponentRating int              `json:"opponentRating"`
	Mode           domain.MatchMode `json:"mode"`
	Category       string           `json:"category,omitempty"`
}

type searchingPayload struct {
	WaitedSeconds int `json:"waitedSeconds"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and drives one matchmaking search.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	mode := domain.MatchMode(r.URL.Query().Get("mode"))
	if userID == "" || (mode != domain.ModeRandom && mode != domain.ModeRanked) {
		http.Error(w, "missing userId or invalid mode", http.StatusBadRequest)
		return
	}
	rating := engine.DefaultRating
	if rawRating := r.URL.Query().Get("rating"); rawRating != "" {
		parsed, err := strconv.Atoi(rawRating)
		if err != nil {
			http.Error(w, "invalid rating", http.StatusBadRequest)
			return
		}
		rating = parsed
	}
	category := r.URL.Query().Get("category")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	joined, err := h.matchmaking.Join(ctx, userID, mode, rating, category)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	// reader goroutine: surfaces cancel messages and connection loss
	cancelled := make(chan struct{})
	go func() {
		defer close(cancelled)
		for {
			var inbound inboundMessage
			if err := conn.ReadJSON(&inbound); err != nil {
				return
			}
			if inbound.Type == "cancel" {
				return
			}
		}
	}()

	matched := false
	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()
	defer func() {
		// a paired requester is already out of the pool; everyone else is
		// withdrawn on the way out so searches against them find nothing
		if !matched {
			if err := h.matchmaking.Leave(ctx, userID); err != nil {
				log.Printf("leave queue: %v", err)
			}
		}
	}()

	for {
		opponent, ok, err := h.matchmaking.FindMatch(ctx, userID, mode, rating)
		if err != nil {
			_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "matchmaking unavailable"}})
			log.Printf("find match: %v", err)
			return
		}
		if ok {
			matched = true
			_ = conn.WriteJSON(outboundMessage[matchedPayload]{Type: "matched", Payload: matchedPayload{
				OpponentID:     opponent.UserID,
				OpponentRating: opponent.Rating,
				Mode:           opponent.Mode,
				Category:       opponent.Category,
			}})
			return
		}

		// an entry that vanished without our cancel was claimed by another
		// requester's pairing; hand off to the game layer
		stillQueued, err := h.matchmaking.IsQueued(ctx, userID)
		if err == nil && !stillQueued {
			matched = true
			_ = conn.WriteJSON(outboundMessage[struct{}]{Type: "claimed"})
			return
		}

		waited := int(time.Since(joined.JoinedAt).Seconds())
		if err := conn.WriteJSON(outboundMessage[searchingPayload]{Type: "searching", Payload: searchingPayload{WaitedSeconds: waited}}); err != nil {
			return
		}

		select {
		case <-ticker.C:
		case <-cancelled:
			return
		case <-ctx.Done():
			return
		}
	}
}
