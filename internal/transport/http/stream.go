package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

// Subscriber hands out subscriptions to the truck update feed.
type Subscriber interface {
	Subscribe(ctx context.Context) *redis.PubSub
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Dashboards connect from other origins; auth is out of scope here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const writeTimeout = 10 * time.Second

// handleStream bridges the Redis update channel onto a websocket. Every
// accepted sample shows up here as one JSON truck snapshot.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.subscriber == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "live feed unavailable"})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub := s.subscriber.Subscribe(ctx)
	defer sub.Close()

	// Reader goroutine: we ignore client frames but need ReadMessage to
	// notice a closed peer.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}
