package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/response"
	"github.com/stemsi/academia-backend/internal/service"
	"github.com/stemsi/academia-backend/internal/validator"
)

// LectureHandler exposes lectures and their enrollments.
type LectureHandler struct {
	lectureService *service.LectureService
}

// NewLectureHandler creates a new LectureHandler.
func NewLectureHandler(lectureService *service.LectureService) *LectureHandler {
	return &LectureHandler{lectureService: lectureService}
}

// List godoc
// GET /education/lectures
func (h *LectureHandler) List(c *gin.Context) {
	lectures, err := h.lectureService.ListLectures(c.Request.Context())
	if err != nil {
		response.FailErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, lectures)
}

// Get godoc
// GET /education/lectures/:id
func (h *LectureHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	lecture, err := h.lectureService.GetLecture(c.Request.Context(), id)
	if err != nil {
		response.FailErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, lecture)
}

// Create godoc
// POST /education/lectures/:id?limitStudents=N
// :id is the subject the lecture is opened for.
func (h *LectureHandler) Create(c *gin.Context) {
	subjectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var q model.CreateLectureQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lecture, err := h.lectureService.CreateLecture(c.Request.Context(), subjectID, *q.LimitStudents)
	if err != nil {
		response.FailErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, lecture)
}

// Modify godoc
// PUT /education/lectures/:id
func (h *LectureHandler) Modify(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.ModifyLectureRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lecture, err := h.lectureService.ModifyLecture(c.Request.Context(), id, req)
	if err != nil {
		response.FailErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, lecture)
}

// ApplyAttendedSubject godoc
// POST /education/lectures/:id/attendedSubject/students/:studentId
func (h *LectureHandler) ApplyAttendedSubject(c *gin.Context) {
	lectureID, ok := paramID(c, "id")
	if !ok {
		return
	}
	studentID, ok := paramID(c, "studentId")
	if !ok {
		return
	}

	lecture, err := h.lectureService.ApplyAttendedSubject(c.Request.Context(), lectureID, studentID)
	if err != nil {
		response.FailErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, lecture)
}

// RemoveAttendedSubject godoc
// DELETE /education/lectures/:id/attendedSubject/:attendedId
func (h *LectureHandler) RemoveAttendedSubject(c *gin.Context) {
	lectureID, ok := paramID(c, "id")
	if !ok {
		return
	}
	attendedID, ok := paramID(c, "attendedId")
	if !ok {
		return
	}

	removed, err := h.lectureService.RemoveAttendedSubject(c.Request.Context(), lectureID, attendedID)
	if err != nil {
		response.FailErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": removed})
}

// Delete godoc
// DELETE /education/lectures/:id
// Refused with 409 while the lecture still has enrollments.
func (h *LectureHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.lectureService.DeleteLecture(c.Request.Context(), id); err != nil {
		response.FailErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "lecture deleted successfully"})
}
