package ws

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

type Handler struct {
	Hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{Hub: hub}
}

// NewWsUpgrader accepts only allowedOrigin, or same-host origins when allowedOrigin is empty.
func (h *Handler) NewWsUpgrader(allowedOrigin string) websocket.Upgrader {
	upgrader := websocket.Upgrader{
		Subprotocols: []string{"blogverse-v1"},
	}
	if allowedOrigin != "" {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return r.Header.Get("Origin") == allowedOrigin
		}
	}
	return upgrader
}

// ServeWS upgrades the request and subscribes the peer to the blog feed.
func (h *Handler) ServeWS(wsUpgrader websocket.Upgrader, w http.ResponseWriter, r *http.Request, shutdownCtx context.Context) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade ws connection: %v", err)
		return
	}

	client := NewClient(h.Hub, conn)
	select {
	case h.Hub.OpenCh <- client:
	case <-shutdownCtx.Done():
		conn.Close()
		return
	}

	go client.ReadPump(shutdownCtx)
	go client.WritePump(shutdownCtx)
}
