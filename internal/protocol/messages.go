// Package protocol defines the JSON messages exchanged over the websocket
// between klondike servers and clients.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of message
type MessageType string

const (
	// Client -> Server
	TypeCreateGame  MessageType = "create_game"
	TypeAct         MessageType = "act"
	TypeDestroyGame MessageType = "destroy_game"
	TypeWatch       MessageType = "watch"
	TypeUnwatch     MessageType = "unwatch"

	// Server -> Client
	TypeGameCreated   MessageType = "game_created"
	TypeActResult     MessageType = "act_result"
	TypeGameDestroyed MessageType = "game_destroyed"
	TypeWatchStarted  MessageType = "watch_started"
	TypeNotification  MessageType = "notification"
	TypeWatchEnded    MessageType = "watch_ended"
	TypeError         MessageType = "error"
)

func (t MessageType) String() string {
	return string(t)
}

// Message is the envelope every frame is wrapped in. Replies carry the
// request_id of the request they answer; notifications carry none.
type Message struct {
	Type      MessageType     `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps data in an envelope stamped with now
func NewMessage(t MessageType, requestID string, data any, now time.Time) (*Message, error) {
	msg := &Message{
		Type:      t,
		RequestID: requestID,
		Timestamp: now,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", t, err)
		}
		msg.Data = raw
	}
	return msg, nil
}

// Marshal encodes an envelope for the wire
func Marshal(msg *Message) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal decodes an envelope. Malformed frames wrap ErrInvalidArgument.
func Unmarshal(b []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(b, &msg); err != nil {
		return nil, invalidArgument("message", "malformed json: %v", err)
	}
	if msg.Type == "" {
		return nil, invalidArgument("type", "is required")
	}
	return &msg, nil
}

// Decode unmarshals the payload into v and validates it. Failures wrap
// ErrInvalidArgument.
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return invalidArgument("data", "is required for %s", m.Type)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return invalidArgument("data", "malformed %s payload: %v", m.Type, err)
	}
	return validateStruct(v)
}

// Client -> Server payloads

// GameRef names a game. It is the payload of destroy_game, watch, unwatch,
// game_destroyed and watch_started.
type GameRef struct {
	GameID string `json:"game_id" validate:"required"`
}

// ActRequest applies an action to a game
type ActRequest struct {
	GameID string  `json:"game_id" validate:"required"`
	Action *Action `json:"action" validate:"required"`
}

// Server -> Client payloads

// GameCreated answers create_game
type GameCreated struct {
	GameID string   `json:"game_id"`
	State  Snapshot `json:"state"`
}

// ActResult answers a successful act
type ActResult struct {
	GameID  string   `json:"game_id"`
	Victory bool     `json:"victory"`
	State   Snapshot `json:"state"`
}

// Notification is pushed to watchers. Action is absent on the first
// notification of a stream, which only carries the current state.
type Notification struct {
	GameID string   `json:"game_id"`
	Action *Action  `json:"action,omitempty"`
	State  Snapshot `json:"state"`
}

// Reasons a watch stream ended
const (
	EndDestroyed = "destroyed"
	EndDropped   = "dropped"
	EndUnwatched = "unwatched"
)

// WatchEnded is the last message of a watch stream
type WatchEnded struct {
	GameID string `json:"game_id"`
	Reason string `json:"reason"`
}
