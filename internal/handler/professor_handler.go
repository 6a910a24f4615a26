package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/response"
	"github.com/stemsi/academia-backend/internal/service"
	"github.com/stemsi/academia-backend/internal/validator"
)

// ProfessorHandler exposes professor CRUD.
type ProfessorHandler struct {
	professorService *service.ProfessorService
}

// NewProfessorHandler creates a new ProfessorHandler.
func NewProfessorHandler(professorService *service.ProfessorService) *ProfessorHandler {
	return &ProfessorHandler{professorService: professorService}
}

// Join godoc
// POST /professors
func (h *ProfessorHandler) Join(c *gin.Context) {
	var req model.CreateProfessorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	professor, err := h.professorService.Join(c.Request.Context(), req)
	if err != nil {
		response.FailErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, professor)
}

// Modify godoc
// PUT /professors/:id
func (h *ProfessorHandler) Modify(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateProfessorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	professor, err := h.professorService.Modify(c.Request.Context(), id, req)
	if err != nil {
		response.FailErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, professor)
}

// List godoc
// GET /professors
func (h *ProfessorHandler) List(c *gin.Context) {
	professors, err := h.professorService.List(c.Request.Context())
	if err != nil {
		response.FailErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, professors)
}

// Get godoc
// GET /professors/:id
func (h *ProfessorHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	professor, err := h.professorService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FailErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, professor)
}

// ListByMajor godoc
// GET /professors/major/:major
// GET /professors/subjects/:major
func (h *ProfessorHandler) ListByMajor(c *gin.Context) {
	professors, err := h.professorService.ListByMajor(c.Request.Context(), c.Param("major"))
	if err != nil {
		response.FailErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, professors)
}

// Delete godoc
// DELETE /professors/:id
func (h *ProfessorHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.professorService.Delete(c.Request.Context(), id); err != nil {
		response.FailErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "professor deleted successfully"})
}
