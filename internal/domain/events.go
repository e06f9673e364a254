package domain

import "time"

// EventType names a game event published to downstream consumers.
type EventType string

const (
	EventSessionCreated       EventType = "session.created"
	EventSessionStatusChanged EventType = "session.status_changed"
	EventPlayerJoined         EventType = "player.joined"
	EventPlayerFinished       EventType = "player.finished"
)

// Event is a notification about a game session.
type Event struct {
	Type          EventType     `json:"type"`
	GameSessionID string        `json:"gameSessionId"`
	UserID        string        `json:"userId,omitempty"`
	Status        SessionStatus `json:"status,omitempty"`
	OccurredAt    time.Time     `json:"occurredAt"`
}
