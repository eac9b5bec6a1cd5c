package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/angelolockdev/trading-signals-generator/internal/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// websocket streams price ticks and the caller's signal change events.
// Browsers cannot set headers on WS handshakes, so the JWT rides in ?token=.
func (s *Server) websocket(c *gin.Context) {
	userID, err := parseToken(c.Query("token"), s.JWTSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":  "INVALID_TOKEN",
			"error": "invalid or expired token",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}
	defer conn.Close()

	changes, unsubChanges := s.Bus.Subscribe(events.EventSignalChange, 100)
	defer unsubChanges()
	ticks, unsubTicks := s.Bus.Subscribe(events.EventPriceTick, 100)
	defer unsubTicks()

	// Reader goroutine: only used to notice the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case msg, ok := <-changes:
			if !ok {
				return
			}
			change, isChange := msg.(events.SignalChange)
			if isChange && change.UserID != userID {
				continue
			}
			if err := conn.WriteJSON(wsMessage{Event: string(events.EventSignalChange), Data: msg}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case msg, ok := <-ticks:
			if !ok {
				return
			}
			if err := conn.WriteJSON(wsMessage{Event: string(events.EventPriceTick), Data: msg}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}
}
