package model

import "time"

// Student represents an enrolled student.
type Student struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Major      string    `json:"major"`
	EntranceAt time.Time `json:"entrance_at"`
}

// GetID returns the student's identifier.
func (s Student) GetID() int64 { return s.ID }

// WithID returns a copy carrying id.
func (s Student) WithID(id int64) Student {
	s.ID = id
	return s
}

// CreateStudentRequest is the payload for joining a new student.
// ID must be left out; it is only decoded so the service can reject it.
type CreateStudentRequest struct {
	ID    int64  `json:"id"`
	Name  string `json:"name" binding:"required,max=100"`
	Age   int    `json:"age" binding:"omitempty,min=0,max=200"`
	Major string `json:"major" binding:"max=100"`
}

// UpdateStudentRequest is a sparse patch: nil fields are left untouched.
type UpdateStudentRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Age   *int    `json:"age" binding:"omitempty,min=0,max=200"`
	Major *string `json:"major" binding:"omitempty,max=100"`
}
