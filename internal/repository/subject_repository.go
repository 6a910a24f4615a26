package repository

import (
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/store"
)

type SubjectRepository struct {
	collection[model.Subject]
}

func NewSubjectRepository(s store.Store[model.Subject]) *SubjectRepository {
	return &SubjectRepository{collection[model.Subject]{store: s}}
}
