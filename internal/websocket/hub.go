// Package websocket pushes auth-state changes and assistant activity to
// connected browser tabs. Connections are grouped by session id; Redis
// pub/sub relays events across instances when configured.
package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	"github.com/mahdyhasan/augmind/internal/auth"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
)

const relayChannel = "augmind:ws_events"

type Hub struct {
	// clients groups connections by session id: one session may have
	// several tabs open.
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client
	log logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rdb:        rdb,
		log:        log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.relayFromRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.log.Info("websocket", "Client connected", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers a payload to every tab of one session, and relays it through
// Redis so tabs connected to other instances get it too.
func (h *Hub) Send(sessionID string, payload []byte) {
	h.deliverLocal(sessionID, payload)

	if h.rdb != nil {
		envelope, err := json.Marshal(relayEnvelope{SessionID: sessionID, Payload: payload})
		if err != nil {
			return
		}
		h.rdb.Publish(context.Background(), relayChannel, envelope)
	}
}

type relayEnvelope struct {
	SessionID string          `json:"session_id"`
	Payload   json.RawMessage `json:"payload"`
}

func (h *Hub) deliverLocal(sessionID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[sessionID]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- payload:
		default:
			h.log.Warn("websocket", "Send buffer full, dropping client", map[string]interface{}{
				"session_id": sessionID,
			})
			h.unregister <- client
		}
	}
}

// relayFromRedis applies envelopes published by other instances to the
// local connections.
func (h *Hub) relayFromRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, relayChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope relayEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			h.log.Warn("websocket", "Malformed relay envelope", map[string]interface{}{"error": err.Error()})
			continue
		}
		h.deliverLocal(envelope.SessionID, envelope.Payload)
	}
}

// RelayAuthEvents forwards bus events to the owning session's tabs, so a
// logout in one tab is reflected in the others.
func (h *Hub) RelayAuthEvents(ctx context.Context, subscriber message.Subscriber) error {
	messages, err := subscriber.Subscribe(ctx, auth.TopicAuthEvents)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var event auth.Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				h.log.Warn("websocket", "Malformed auth event", map[string]interface{}{"error": err.Error()})
				msg.Ack()
				continue
			}

			payload, err := json.Marshal(map[string]interface{}{
				"type": "auth",
				"data": event,
			})
			if err == nil && event.SessionID != "" {
				h.Send(event.SessionID, payload)
			}
			msg.Ack()
		}
	}()
	return nil
}
