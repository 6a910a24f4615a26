package repository

import (
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/store"
)

type LectureRepository struct {
	collection[model.Lecture]
}

func NewLectureRepository(s store.Store[model.Lecture]) *LectureRepository {
	return &LectureRepository{collection[model.Lecture]{store: s}}
}
