// Package events carries lecture change notifications to stream subscribers.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Type names a lecture change.
type Type string

const (
	LectureCreated         Type = "lecture.created"
	LectureModified        Type = "lecture.modified"
	LectureDeleted         Type = "lecture.deleted"
	AttendedSubjectApplied Type = "attended_subject.applied"
	AttendedSubjectRemoved Type = "attended_subject.removed"
)

// Event is a single change to one lecture.
type Event struct {
	Type      Type            `json:"type"`
	LectureID int64           `json:"lecture_id"`
	Data      json.RawMessage `json:"data,omitempty"`
	At        time.Time       `json:"at"`
}

// New builds an event whose Data is the JSON encoding of data.
func New(t Type, lectureID int64, data any) Event {
	e := Event{Type: t, LectureID: lectureID, At: time.Now().UTC()}
	if data != nil {
		if raw, err := json.Marshal(data); err == nil {
			e.Data = raw
		}
	}
	return e
}

// Bus fans lecture events out to subscribers of that lecture.
// Subscribe returns a channel that is closed once ctx is done.
type Bus interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(ctx context.Context, lectureID int64) (<-chan Event, error)
	Close() error
}
