package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/sirawit/examportal/internal/dto"
	"github.com/sirawit/examportal/internal/service"
)

type ExamSetController struct {
	examSetService service.ExamSetService
}

func NewExamSetController(examSetService service.ExamSetService) *ExamSetController {
	return &ExamSetController{examSetService: examSetService}
}

// CreateExamSet godoc
// @Summary (Admin) Create an exam set with topic weights
// @Tags Admin - Exam Sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exam_set body dto.ExamSetCreateDTO true "Exam set data"
// @Success 201 {object} dto.ExamSetResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/exam-sets [post]
func (c *ExamSetController) CreateExamSet(ctx *gin.Context) {
	var req dto.ExamSetCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.examSetService.Create(req)
	if err != nil {
		log.Warn().Err(err).Msg("Admin CreateExamSet: rejected")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create exam set", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListExamSets godoc
// @Summary (Admin) List all exam sets, drafts included
// @Tags Admin - Exam Sets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ExamSetResponseDTO
// @Router /admin/exam-sets [get]
func (c *ExamSetController) ListExamSets(ctx *gin.Context) {
	sets, err := c.examSetService.ListAll()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list exam sets", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, sets)
}

// GetExamSet godoc
// @Summary (Admin) Get an exam set with its topic weights
// @Tags Admin - Exam Sets
// @Produce json
// @Security BearerAuth
// @Param set_id path string true "Exam set ID"
// @Success 200 {object} dto.ExamSetResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/exam-sets/{set_id} [get]
func (c *ExamSetController) GetExamSet(ctx *gin.Context) {
	id, ok := parseID(ctx, "set_id")
	if !ok {
		return
	}
	resp, err := c.examSetService.Get(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateExamSet godoc
// @Summary (Admin) Update an exam set and replace its topic weights
// @Description The topic weight replacement runs in a single transaction.
// @Tags Admin - Exam Sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param set_id path string true "Exam set ID"
// @Param exam_set body dto.ExamSetUpdateDTO true "Exam set data"
// @Success 200 {object} dto.ExamSetResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/exam-sets/{set_id} [put]
func (c *ExamSetController) UpdateExamSet(ctx *gin.Context) {
	id, ok := parseID(ctx, "set_id")
	if !ok {
		return
	}
	var req dto.ExamSetUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.examSetService.Update(id, req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to update exam set", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SetExamSetStatus godoc
// @Summary (Admin) Change an exam set's publication status
// @Tags Admin - Exam Sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param set_id path string true "Exam set ID"
// @Param status body dto.ExamSetStatusDTO true "New status"
// @Success 200 {object} dto.ExamSetResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/exam-sets/{set_id}/status [patch]
func (c *ExamSetController) SetExamSetStatus(ctx *gin.Context) {
	id, ok := parseID(ctx, "set_id")
	if !ok {
		return
	}
	var req dto.ExamSetStatusDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.examSetService.SetStatus(id, req.Status)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to update status", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteExamSet godoc
// @Summary (Admin) Delete an exam set and its topic weights
// @Tags Admin - Exam Sets
// @Security BearerAuth
// @Param set_id path string true "Exam set ID"
// @Success 204 "Deleted"
// @Router /admin/exam-sets/{set_id} [delete]
func (c *ExamSetController) DeleteExamSet(ctx *gin.Context) {
	id, ok := parseID(ctx, "set_id")
	if !ok {
		return
	}
	if err := c.examSetService.Delete(id); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete exam set", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}
