package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"proctor-scoring-service/internal/app"
	"proctor-scoring-service/internal/domain"
)

// RankingFeedHandler streams ranking snapshots to websocket clients: one
// message per completed ranking pass. Dashboards use it to keep cohort
// leaderboards live without polling.
type RankingFeedHandler struct {
	feed     *app.RankingFeed
	upgrader websocket.Upgrader
}

func NewRankingFeedHandler(feed *app.RankingFeed) *RankingFeedHandler {
	return &RankingFeedHandler{
		feed: feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the request and forwards ranking snapshots until the
// client disconnects.
func (h *RankingFeedHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	// Confirm the subscription so clients know passes from here on will be
	// delivered.
	if err := conn.WriteJSON(outboundMessage[struct{}]{Type: "subscribed"}); err != nil {
		log.Printf("ws write error: %v", err)
		return
	}

	// Drain the reader so close frames and pings are processed; inbound
	// payloads are ignored.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[domain.RankingSnapshot]{Type: "rankings", Payload: snapshot}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-readerDone:
			return
		}
	}
}
