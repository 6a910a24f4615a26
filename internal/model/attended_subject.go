package model

// DefaultGrade is the grade of an enrollment that has not been graded yet.
const DefaultGrade = "None"

// AttendedSubject is a student's enrollment in a subject through a lecture.
type AttendedSubject struct {
	ID        int64  `json:"id"`
	SubjectID int64  `json:"subject_id"`
	StudentID int64  `json:"student_id"`
	Grade     string `json:"grade"`
	State     State  `json:"state"`
}

// GetID returns the enrollment's identifier.
func (a AttendedSubject) GetID() int64 { return a.ID }

// WithID returns a copy carrying id.
func (a AttendedSubject) WithID(id int64) AttendedSubject {
	a.ID = id
	return a
}

// AttendedSubjectView is an enrollment with its student resolved.
type AttendedSubjectView struct {
	ID        int64    `json:"id"`
	SubjectID int64    `json:"subject_id"`
	Student   *Student `json:"student"`
	Grade     string   `json:"grade"`
	State     State    `json:"state"`
}
