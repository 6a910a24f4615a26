package websocket

import (
	"encoding/json"
	"time"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError      Event = "error"
	EventPong       Event = "pong"
	EventSubscribed Event = "subscribed"
)

// SubscribedResponse confirms the stream is attached to a lecture.
type SubscribedResponse struct {
	Event     Event `json:"event"`
	LectureID int64 `json:"lecture_id"`
}

// LectureEventResponse forwards one lecture change. Event carries the change
// type, e.g. "attended_subject.applied".
type LectureEventResponse struct {
	Event     Event           `json:"event"`
	LectureID int64           `json:"lecture_id"`
	Data      json.RawMessage `json:"data,omitempty"`
	At        time.Time       `json:"at"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
