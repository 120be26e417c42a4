package auth

import (
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// TopicAuthEvents carries auth-state changes on the in-process bus; the
// websocket hub relays them to connected tabs.
const TopicAuthEvents = "auth.events"

const (
	EventSignedIn       = "SIGNED_IN"
	EventSignedOut      = "SIGNED_OUT"
	EventTokenRefreshed = "TOKEN_REFRESHED"
	EventUserUpdated    = "USER_UPDATED"
)

// Event describes one auth-state transition of one browser session.
type Event struct {
	Type       string    `json:"type"`
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func publishEvent(bus message.Publisher, e Event) error {
	if bus == nil {
		return nil
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("type", e.Type)
	return bus.Publish(TopicAuthEvents, msg)
}
