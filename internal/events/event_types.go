package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered   EventType = "user_registered"
	EventLoginFailed      EventType = "user_login_failed"
	EventFavouriteAdded   EventType = "favourite_added"
	EventFavouriteRemoved EventType = "favourite_removed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Username  string      `json:"username,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, userID, username string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Username:  username,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// FavouritePayload carries the item and resulting list size.
type FavouritePayload struct {
	ItemID string `json:"item_id"`
	Count  int    `json:"count"`
}

// LoginFailedPayload carries the client address of a rejected login.
type LoginFailedPayload struct {
	IP      string `json:"ip"`
	Blocked bool   `json:"blocked"`
}
