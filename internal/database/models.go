package database

import (
	"time"

	"github.com/google/uuid"
)

// EventKind is the lifecycle stream an event came from
type EventKind string

const (
	EventStateChange      EventKind = "state_change"
	EventConnected        EventKind = "connected"
	EventReconnectFailure EventKind = "reconnect_failure"
	EventIdle             EventKind = "idle"
)

// ConnectionEvent is one journalled lifecycle event of a streaming session
type ConnectionEvent struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SessionID uuid.UUID `db:"session_id" json:"session_id"`
	Kind      EventKind `db:"kind" json:"kind"`
	State     string    `db:"state" json:"state"`
	Detail    string    `db:"detail" json:"detail"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
