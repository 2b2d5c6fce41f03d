package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sirawit/examportal/internal/dto"
	"github.com/sirawit/examportal/internal/middleware"
	"github.com/sirawit/examportal/internal/service"
)

// ExamController is the test-taker surface: browsing published exam sets,
// running a session, submitting, and reviewing attempts.
type ExamController struct {
	examSetService service.ExamSetService
	sessionService service.SessionService
	attemptService service.AttemptService
}

func NewExamController(
	examSetService service.ExamSetService,
	sessionService service.SessionService,
	attemptService service.AttemptService,
) *ExamController {
	return &ExamController{
		examSetService: examSetService,
		sessionService: sessionService,
		attemptService: attemptService,
	}
}

// ListExamSets godoc
// @Summary List published exam sets
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ExamSetSummaryDTO
// @Router /exam-sets [get]
func (c *ExamController) ListExamSets(ctx *gin.Context) {
	sets, err := c.examSetService.ListPublished()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list exam sets", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, sets)
}

// StartSession godoc
// @Summary Start or resume an exam session
// @Description A fresh session assembles and shuffles once; a reload resumes the same snapshot.
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Param set_id path string true "Exam set ID"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 404 {object} dto.ErrorResponse "Exam set not found or not published"
// @Failure 409 {object} dto.ErrorResponse "Attempt already submitted"
// @Router /exam-sets/{set_id}/session [post]
func (c *ExamController) StartSession(ctx *gin.Context) {
	setID, ok := c.parseSetID(ctx)
	if !ok {
		return
	}
	userID := middleware.CurrentUserID(ctx)

	state, err := c.sessionService.StartOrResume(ctx.Request.Context(), setID, userID)
	if err != nil {
		c.replySessionError(ctx, setID, err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// GetSession godoc
// @Summary Get the current session state
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Param set_id path string true "Exam set ID"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 404 {object} dto.ErrorResponse "No session in progress"
// @Router /exam-sets/{set_id}/session [get]
func (c *ExamController) GetSession(ctx *gin.Context) {
	setID, ok := c.parseSetID(ctx)
	if !ok {
		return
	}
	state, err := c.sessionService.GetState(ctx.Request.Context(), setID, middleware.CurrentUserID(ctx))
	if err != nil {
		c.replySessionError(ctx, setID, err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// SelectAnswer godoc
// @Summary Record an answer for the current question
// @Tags Exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param set_id path string true "Exam set ID"
// @Param answer body dto.SelectAnswerDTO true "Chosen choice"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt already submitted"
// @Router /exam-sets/{set_id}/session/answer [post]
func (c *ExamController) SelectAnswer(ctx *gin.Context) {
	setID, ok := c.parseSetID(ctx)
	if !ok {
		return
	}
	var req dto.SelectAnswerDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	state, err := c.sessionService.SelectAnswer(ctx.Request.Context(), setID, middleware.CurrentUserID(ctx), req.ChoiceID)
	if err != nil {
		c.replySessionError(ctx, setID, err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// Navigate godoc
// @Summary Move the current-question pointer
// @Description Accepts an explicit index or a next/prev direction; boundary moves are no-ops.
// @Tags Exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param set_id path string true "Exam set ID"
// @Param navigation body dto.NavigateDTO true "Navigation target"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /exam-sets/{set_id}/session/navigate [post]
func (c *ExamController) Navigate(ctx *gin.Context) {
	setID, ok := c.parseSetID(ctx)
	if !ok {
		return
	}
	var req dto.NavigateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	state, err := c.sessionService.Navigate(ctx.Request.Context(), setID, middleware.CurrentUserID(ctx), req)
	if err != nil {
		c.replySessionError(ctx, setID, err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// SubmitSession godoc
// @Summary Submit the attempt
// @Description Grades against the authoritative correct choices and persists the attempt with its details atomically.
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Param set_id path string true "Exam set ID"
// @Success 200 {object} dto.SubmitResponseDTO
// @Failure 404 {object} dto.ErrorResponse "No session in progress"
// @Failure 409 {object} dto.ErrorResponse "Attempt already submitted"
// @Router /exam-sets/{set_id}/session/submit [post]
func (c *ExamController) SubmitSession(ctx *gin.Context) {
	setID, ok := c.parseSetID(ctx)
	if !ok {
		return
	}
	result, err := c.sessionService.Submit(ctx.Request.Context(), setID, middleware.CurrentUserID(ctx))
	if err != nil {
		c.replySessionError(ctx, setID, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ListMyAttempts godoc
// @Summary List the current user's attempts, newest first
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.AttemptSummaryDTO
// @Router /my-attempts [get]
func (c *ExamController) ListMyAttempts(ctx *gin.Context) {
	attempts, err := c.attemptService.ListUserAttempts(middleware.CurrentUserID(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list attempts", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// GetAttempt godoc
// @Summary Review a persisted attempt
// @Description Read-only: overall score, elapsed time, per-topic accuracy, and selected-vs-correct per question.
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Param attempt_id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id} [get]
func (c *ExamController) GetAttempt(ctx *gin.Context) {
	attemptID, err := uuid.Parse(ctx.Param("attempt_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid attempt_id format"})
		return
	}
	resp, err := c.attemptService.GetAttemptDetails(attemptID, middleware.CurrentUserID(ctx))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *ExamController) parseSetID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("set_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid set_id format"})
		return uuid.Nil, false
	}
	return id, true
}

func (c *ExamController) replySessionError(ctx *gin.Context, setID uuid.UUID, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyExamSet):
		// No questions to run: the client renders an empty state instead of
		// a session.
		ctx.JSON(http.StatusOK, dto.SessionStateDTO{ExamSetID: setID, Status: "empty", Questions: []dto.SessionQuestionDTO{}})
	case errors.Is(err, service.ErrExamSetUnavailable):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Exam set is not available"})
	case errors.Is(err, service.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No session in progress"})
	case errors.Is(err, service.ErrAlreadySubmitted):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Attempt has already been submitted"})
	case errors.Is(err, service.ErrChoiceNotInQuestion):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Choice does not belong to the current question"})
	case errors.Is(err, service.ErrInvalidNavigation):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Str("examSetID", setID.String()).Msg("Session operation failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Session operation failed", Details: []string{err.Error()}})
	}
}
