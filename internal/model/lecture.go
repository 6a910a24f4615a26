package model

// Lecture is a scheduled offering of a subject. It stores references only;
// LectureView carries the resolved entities.
type Lecture struct {
	ID                 int64   `json:"id"`
	SubjectID          int64   `json:"subject_id"`
	ProfessorID        int64   `json:"professor_id"`
	AttendedSubjectIDs []int64 `json:"attended_subject_ids"`
	LimitStudents      int     `json:"limit_students"`
	State              State   `json:"state"`
}

// GetID returns the lecture's identifier.
func (l Lecture) GetID() int64 { return l.ID }

// WithID returns a copy carrying id.
func (l Lecture) WithID(id int64) Lecture {
	l.ID = id
	return l
}

// Clone returns a copy whose attendee slice is not shared with l.
func (l Lecture) Clone() Lecture {
	if l.AttendedSubjectIDs != nil {
		ids := make([]int64, len(l.AttendedSubjectIDs))
		copy(ids, l.AttendedSubjectIDs)
		l.AttendedSubjectIDs = ids
	}
	return l
}

// LectureView is the read representation of a lecture.
type LectureView struct {
	ID               int64                 `json:"id"`
	Professor        *Professor            `json:"professor"`
	Subject          *Subject              `json:"subject"`
	AttendedSubjects []AttendedSubjectView `json:"attended_subjects"`
	LimitStudents    int                   `json:"limit_students"`
	State            State                 `json:"state"`
}

// ModifyLectureRequest is a sparse patch: nil fields are left untouched.
type ModifyLectureRequest struct {
	LimitStudents *int   `json:"limit_students"`
	State         *State `json:"state"`
}

// CreateLectureQuery carries the query parameters of lecture creation.
type CreateLectureQuery struct {
	LimitStudents *int `form:"limitStudents" json:"limitStudents" binding:"required"`
}
