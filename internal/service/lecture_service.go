package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/stemsi/academia-backend/internal/apperror"
	"github.com/stemsi/academia-backend/internal/events"
	"github.com/stemsi/academia-backend/internal/metrics"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
	"github.com/stemsi/academia-backend/internal/store"
)

// LectureService owns lectures and the enrollments attached to them.
//
// A lecture stores only the ids of its subject, professor and attended
// subjects; the AttendedSubject collection is the single source of truth for
// enrollments. Mutations of one lecture are serialized. Enrollment mutations
// share a gate with ReconcileOrphans so the reconciler never observes an
// enrollment that is saved but not yet attached.
type LectureService struct {
	repos   *repository.Set
	bus     events.Bus
	metrics *metrics.Metrics
	log     zerolog.Logger

	// enforceCapacity rejects enrollments past limit_students. When false the
	// limit is informational only.
	enforceCapacity bool

	locks *lectureLocks
	gate  sync.RWMutex
}

// NewLectureService creates a new LectureService.
func NewLectureService(repos *repository.Set, bus events.Bus, m *metrics.Metrics, enforceCapacity bool, log zerolog.Logger) *LectureService {
	return &LectureService{
		repos:           repos,
		bus:             bus,
		metrics:         m,
		log:             log.With().Str("component", "lecture_service").Logger(),
		enforceCapacity: enforceCapacity,
		locks:           newLectureLocks(),
	}
}

// CreateLecture opens a lecture for a subject, taught by the subject's
// professor. Nothing is stored when either does not resolve.
func (s *LectureService) CreateLecture(ctx context.Context, subjectID int64, limitStudents int) (model.LectureView, error) {
	subject, err := s.repos.Subjects.GetByID(ctx, subjectID)
	if err != nil {
		return model.LectureView{}, lookupErr(err, "subject", subjectID)
	}
	professor, err := s.repos.Professors.GetByID(ctx, subject.ProfessorID)
	if err != nil {
		return model.LectureView{}, lookupErr(err, "professor", subject.ProfessorID)
	}

	lecture, err := s.repos.Lectures.Save(ctx, model.Lecture{
		SubjectID:          subject.ID,
		ProfessorID:        professor.ID,
		AttendedSubjectIDs: []int64{},
		LimitStudents:      limitStudents,
		State:              model.StateApply,
	})
	if err != nil {
		return model.LectureView{}, err
	}

	s.log.Info().
		Int64("lecture_id", lecture.ID).
		Int64("subject_id", subject.ID).
		Int("limit_students", limitStudents).
		Msg("Lecture created")

	s.publish(ctx, events.LectureCreated, lecture.ID, nil)
	return s.view(ctx, lecture)
}

// ModifyLecture patches limit_students and state. State must be a known
// value and DONE is terminal.
func (s *LectureService) ModifyLecture(ctx context.Context, lectureID int64, req model.ModifyLectureRequest) (model.LectureView, error) {
	unlock := s.locks.lock(lectureID)
	defer unlock()

	lecture, err := s.repos.Lectures.GetByID(ctx, lectureID)
	if err != nil {
		return model.LectureView{}, lookupErr(err, "lecture", lectureID)
	}

	if req.State != nil {
		next := *req.State
		if !next.Valid() {
			return model.LectureView{}, apperror.InvalidArgument("unknown lecture state %q", next)
		}
		if !lecture.State.CanTransitionTo(next) {
			return model.LectureView{}, apperror.Conflict("lecture %d cannot move from %s to %s", lectureID, lecture.State, next)
		}
		lecture.State = next
	}
	if req.LimitStudents != nil {
		lecture.LimitStudents = *req.LimitStudents
	}

	lecture, err = s.repos.Lectures.Save(ctx, lecture)
	if err != nil {
		return model.LectureView{}, err
	}

	s.publish(ctx, events.LectureModified, lecture.ID, map[string]any{
		"limit_students": lecture.LimitStudents,
		"state":          lecture.State,
	})
	return s.view(ctx, lecture)
}

// ApplyAttendedSubject enrolls a student into a lecture's subject and
// attaches the new enrollment to the lecture.
func (s *LectureService) ApplyAttendedSubject(ctx context.Context, lectureID, studentID int64) (model.LectureView, error) {
	s.gate.RLock()
	defer s.gate.RUnlock()

	student, err := s.repos.Students.GetByID(ctx, studentID)
	if err != nil {
		return model.LectureView{}, lookupErr(err, "student", studentID)
	}

	unlock := s.locks.lock(lectureID)
	defer unlock()

	lecture, err := s.repos.Lectures.GetByID(ctx, lectureID)
	if err != nil {
		return model.LectureView{}, lookupErr(err, "lecture", lectureID)
	}

	if lecture.State == model.StateDone {
		s.metrics.Enrollments.WithLabelValues(metrics.OutcomeRejected).Inc()
		return model.LectureView{}, apperror.Conflict("lecture %d is closed for enrollment", lectureID)
	}
	if s.enforceCapacity && len(lecture.AttendedSubjectIDs) >= lecture.LimitStudents {
		s.metrics.Enrollments.WithLabelValues(metrics.OutcomeRejected).Inc()
		return model.LectureView{}, apperror.Conflict("lecture %d is full (%d students)", lectureID, lecture.LimitStudents)
	}

	attended, err := s.repos.AttendedSubjects.Save(ctx, model.AttendedSubject{
		SubjectID: lecture.SubjectID,
		StudentID: student.ID,
		Grade:     model.DefaultGrade,
		State:     model.StateApply,
	})
	if err != nil {
		return model.LectureView{}, err
	}

	lecture.AttendedSubjectIDs = append(lecture.AttendedSubjectIDs, attended.ID)
	lecture, err = s.repos.Lectures.Save(ctx, lecture)
	if err != nil {
		if delErr := s.repos.AttendedSubjects.Delete(ctx, attended.ID); delErr != nil {
			s.log.Error().Err(delErr).Int64("attended_subject_id", attended.ID).Msg("Failed to roll back enrollment")
		}
		return model.LectureView{}, fmt.Errorf("attach enrollment to lecture %d: %w", lectureID, err)
	}

	s.metrics.Enrollments.WithLabelValues(metrics.OutcomeApplied).Inc()
	s.log.Info().
		Int64("lecture_id", lectureID).
		Int64("student_id", studentID).
		Int64("attended_subject_id", attended.ID).
		Int("attendees", len(lecture.AttendedSubjectIDs)).
		Msg("Student enrolled")

	s.publish(ctx, events.AttendedSubjectApplied, lectureID, map[string]int64{
		"attended_subject_id": attended.ID,
		"student_id":          studentID,
	})
	return s.view(ctx, lecture)
}

// RemoveAttendedSubject detaches an enrollment from a lecture and deletes it.
// A lecture with no attendees reports true; an id the lecture does not hold
// reports false and changes nothing.
func (s *LectureService) RemoveAttendedSubject(ctx context.Context, lectureID, attendedID int64) (bool, error) {
	s.gate.RLock()
	defer s.gate.RUnlock()

	unlock := s.locks.lock(lectureID)
	defer unlock()

	lecture, err := s.repos.Lectures.GetByID(ctx, lectureID)
	if err != nil {
		return false, lookupErr(err, "lecture", lectureID)
	}
	if len(lecture.AttendedSubjectIDs) == 0 {
		return true, nil
	}

	idx := slices.Index(lecture.AttendedSubjectIDs, attendedID)
	if idx < 0 {
		return false, nil
	}
	lecture.AttendedSubjectIDs = slices.Delete(lecture.AttendedSubjectIDs, idx, idx+1)

	if _, err := s.repos.Lectures.Save(ctx, lecture); err != nil {
		return false, err
	}
	// Once detached the record is an orphan; ReconcileOrphans collects it if
	// this delete fails.
	if err := s.repos.AttendedSubjects.Delete(ctx, attendedID); err != nil {
		s.log.Warn().Err(err).Int64("attended_subject_id", attendedID).Msg("Failed to delete detached enrollment")
	}

	s.metrics.Enrollments.WithLabelValues(metrics.OutcomeRemoved).Inc()
	s.log.Info().
		Int64("lecture_id", lectureID).
		Int64("attended_subject_id", attendedID).
		Msg("Enrollment removed")

	s.publish(ctx, events.AttendedSubjectRemoved, lectureID, map[string]int64{
		"attended_subject_id": attendedID,
	})
	return true, nil
}

// DeleteLecture removes a lecture that has no enrollments left.
func (s *LectureService) DeleteLecture(ctx context.Context, lectureID int64) error {
	unlock := s.locks.lock(lectureID)
	defer unlock()

	lecture, err := s.repos.Lectures.GetByID(ctx, lectureID)
	if err != nil {
		return lookupErr(err, "lecture", lectureID)
	}
	if n := len(lecture.AttendedSubjectIDs); n > 0 {
		return apperror.Conflict("cannot delete lecture with active enrollments (%d remaining)", n)
	}

	if err := s.repos.Lectures.Delete(ctx, lectureID); err != nil {
		return err
	}

	s.log.Info().Int64("lecture_id", lectureID).Msg("Lecture deleted")
	s.publish(ctx, events.LectureDeleted, lectureID, nil)
	return nil
}

// GetLecture returns the resolved view of one lecture.
func (s *LectureService) GetLecture(ctx context.Context, lectureID int64) (model.LectureView, error) {
	lecture, err := s.repos.Lectures.GetByID(ctx, lectureID)
	if err != nil {
		return model.LectureView{}, lookupErr(err, "lecture", lectureID)
	}
	return s.view(ctx, lecture)
}

// ListLectures returns every lecture, newest first.
func (s *LectureService) ListLectures(ctx context.Context) ([]model.LectureView, error) {
	lectures, err := s.repos.Lectures.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]model.LectureView, 0, len(lectures))
	for _, l := range lectures {
		v, err := s.view(ctx, l)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// ReconcileOrphans deletes attended subjects that no lecture references and
// returns how many were removed.
func (s *LectureService) ReconcileOrphans(ctx context.Context) (int, error) {
	s.gate.Lock()
	defer s.gate.Unlock()

	lectures, err := s.repos.Lectures.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list lectures: %w", err)
	}
	referenced := make(map[int64]struct{})
	for _, l := range lectures {
		for _, id := range l.AttendedSubjectIDs {
			referenced[id] = struct{}{}
		}
	}

	attended, err := s.repos.AttendedSubjects.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list attended subjects: %w", err)
	}

	removed := 0
	for _, a := range attended {
		if _, ok := referenced[a.ID]; ok {
			continue
		}
		if err := s.repos.AttendedSubjects.Delete(ctx, a.ID); err != nil {
			return removed, fmt.Errorf("delete orphan %d: %w", a.ID, err)
		}
		removed++
	}

	s.metrics.ReconcileRuns.Inc()
	if removed > 0 {
		s.metrics.OrphansRemoved.Add(float64(removed))
		s.log.Info().Int("removed", removed).Msg("Orphan enrollments removed")
	}
	return removed, nil
}

// view resolves the lecture's references. References that no longer resolve
// are logged and left empty.
func (s *LectureService) view(ctx context.Context, l model.Lecture) (model.LectureView, error) {
	v := model.LectureView{
		ID:               l.ID,
		AttendedSubjects: make([]model.AttendedSubjectView, 0, len(l.AttendedSubjectIDs)),
		LimitStudents:    l.LimitStudents,
		State:            l.State,
	}

	subject, err := s.repos.Subjects.GetByID(ctx, l.SubjectID)
	switch {
	case err == nil:
		if subject.Professor, err = resolveProfessor(ctx, s.repos.Professors, subject.ProfessorID, s.log); err != nil {
			return v, err
		}
		v.Subject = &subject
	case errors.Is(err, store.ErrNotFound):
		s.log.Warn().Int64("lecture_id", l.ID).Int64("subject_id", l.SubjectID).Msg("Lecture subject does not resolve")
	default:
		return v, fmt.Errorf("get subject %d: %w", l.SubjectID, err)
	}

	if v.Professor, err = resolveProfessor(ctx, s.repos.Professors, l.ProfessorID, s.log); err != nil {
		return v, err
	}

	for _, id := range l.AttendedSubjectIDs {
		a, err := s.repos.AttendedSubjects.GetByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			s.log.Warn().Int64("lecture_id", l.ID).Int64("attended_subject_id", id).Msg("Enrollment does not resolve")
			continue
		}
		if err != nil {
			return v, fmt.Errorf("get attended subject %d: %w", id, err)
		}
		student, err := resolveStudent(ctx, s.repos.Students, a.StudentID, s.log)
		if err != nil {
			return v, err
		}
		v.AttendedSubjects = append(v.AttendedSubjects, model.AttendedSubjectView{
			ID:        a.ID,
			SubjectID: a.SubjectID,
			Student:   student,
			Grade:     a.Grade,
			State:     a.State,
		})
	}
	return v, nil
}

func (s *LectureService) publish(ctx context.Context, t events.Type, lectureID int64, data any) {
	if err := s.bus.Publish(ctx, events.New(t, lectureID, data)); err != nil {
		s.log.Warn().Err(err).Str("type", string(t)).Int64("lecture_id", lectureID).Msg("Failed to publish lecture event")
		return
	}
	s.metrics.LectureEvents.WithLabelValues(string(t)).Inc()
}
