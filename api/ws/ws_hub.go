package ws

import (
	"context"
	"log"

	"github.com/zlnvch/blogverse/pubsub"
)

// Hub maintains the set of feed clients and broadcasts blog events to them.
type Hub struct {
	pubSub      pubsub.PubSub
	OpenCh      chan *Client
	CloseCh     chan *Client
	BroadcastCh chan []byte
	clients     map[*Client]struct{}
}

func NewHub(pubSub pubsub.PubSub) *Hub {
	return &Hub{
		pubSub:      pubSub,
		OpenCh:      make(chan *Client, 256),
		CloseCh:     make(chan *Client, 256),
		BroadcastCh: make(chan []byte, 1024),
		clients:     make(map[*Client]struct{}),
	}
}

const maxClients = 1000

func (h *Hub) Run(shutdownCtx context.Context) {
	for {
		select {
		case client := <-h.OpenCh:
			if len(h.clients) >= maxClients {
				log.Printf("Blog feed reached max connections (%d)", maxClients)
				close(client.Send)
				continue
			}
			h.clients[client] = struct{}{}

		case client := <-h.CloseCh:
			h.drop(client)

		case message := <-h.BroadcastCh:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer; disconnect rather than block the hub
					h.drop(client)
				}
			}

		case <-shutdownCtx.Done():
			return
		}
	}
}

// drop must only be called from Run, which owns the clients map.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
}

func (h *Hub) InitSubscriptions(shutdownCtx context.Context) error {
	err := h.pubSub.Subscribe(shutdownCtx, pubsub.BlogEventsChannel, func(message []byte) {
		select {
		case h.BroadcastCh <- message:
		case <-shutdownCtx.Done():
		}
	})
	if err != nil {
		log.Printf("WS hub failed to subscribe to %s: %v", pubsub.BlogEventsChannel, err)
		return err
	}
	return nil
}
