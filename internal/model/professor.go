package model

import "time"

// Professor represents a member of the teaching staff.
type Professor struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Major    string    `json:"major"`
	JoinedAt time.Time `json:"joined_at"`
}

// GetID returns the professor's identifier.
func (p Professor) GetID() int64 { return p.ID }

// WithID returns a copy carrying id.
func (p Professor) WithID(id int64) Professor {
	p.ID = id
	return p
}

// CreateProfessorRequest is the payload for joining a new professor.
type CreateProfessorRequest struct {
	ID    int64  `json:"id"`
	Name  string `json:"name" binding:"required,max=100"`
	Major string `json:"major" binding:"max=100"`
}

// UpdateProfessorRequest is a sparse patch: nil fields are left untouched.
type UpdateProfessorRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Major *string `json:"major" binding:"omitempty,max=100"`
}
