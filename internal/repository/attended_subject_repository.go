package repository

import (
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/store"
)

type AttendedSubjectRepository struct {
	collection[model.AttendedSubject]
}

func NewAttendedSubjectRepository(s store.Store[model.AttendedSubject]) *AttendedSubjectRepository {
	return &AttendedSubjectRepository{collection[model.AttendedSubject]{store: s}}
}
