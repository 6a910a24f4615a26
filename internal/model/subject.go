package model

// Subject represents an academic course taught by one professor.
type Subject struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProfessorID int64  `json:"professor_id"`
	// Professor is filled on read from ProfessorID and never stored.
	Professor *Professor `json:"professor"`
	Credit    int        `json:"credit"`
}

// GetID returns the subject's identifier.
func (s Subject) GetID() int64 { return s.ID }

// WithID returns a copy carrying id.
func (s Subject) WithID(id int64) Subject {
	s.ID = id
	return s
}

// Clone returns a copy that shares no pointers with s.
func (s Subject) Clone() Subject {
	if s.Professor != nil {
		p := *s.Professor
		s.Professor = &p
	}
	return s
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	ProfessorID int64  `json:"professor_id" binding:"required,min=1"`
	Credit      int    `json:"credit" binding:"omitempty,min=0"`
}

// UpdateSubjectRequest is a sparse patch: nil fields are left untouched.
type UpdateSubjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	ProfessorID *int64  `json:"professor_id" binding:"omitempty,min=1"`
	Credit      *int    `json:"credit" binding:"omitempty,min=0"`
}
