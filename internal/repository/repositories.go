package repository

import (
	"github.com/stemsi/academia-backend/internal/database"
	"github.com/stemsi/academia-backend/internal/model"
)

// Set groups the repositories of every collection.
type Set struct {
	Students         *StudentRepository
	Professors       *ProfessorRepository
	Subjects         *SubjectRepository
	Lectures         *LectureRepository
	AttendedSubjects *AttendedSubjectRepository
}

// NewSet opens every collection on backend b.
func NewSet(b *database.Backend) *Set {
	return &Set{
		Students:         NewStudentRepository(database.Collection[model.Student](b, StudentCollection)),
		Professors:       NewProfessorRepository(database.Collection[model.Professor](b, ProfessorCollection)),
		Subjects:         NewSubjectRepository(database.Collection[model.Subject](b, SubjectCollection)),
		Lectures:         NewLectureRepository(database.Collection[model.Lecture](b, LectureCollection)),
		AttendedSubjects: NewAttendedSubjectRepository(database.Collection[model.AttendedSubject](b, AttendedSubjectCollection)),
	}
}

// NewMemorySet returns repositories backed by fresh in-memory stores.
func NewMemorySet() *Set {
	return NewSet(&database.Backend{})
}
