package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sirawit/examportal/internal/dto"
	"github.com/sirawit/examportal/internal/service"
)

// CatalogController exposes the authoring surface: subjects, topics,
// questions with their choices, and image upload.
type CatalogController struct {
	catalogService service.CatalogService
	storageService service.StorageService
}

func NewCatalogController(catalogService service.CatalogService, storageService service.StorageService) *CatalogController {
	return &CatalogController{catalogService: catalogService, storageService: storageService}
}

// CreateSubject godoc
// @Summary (Admin) Create a subject
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subject body dto.SubjectCreateDTO true "Subject data"
// @Success 201 {object} dto.SubjectResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/subjects [post]
func (c *CatalogController) CreateSubject(ctx *gin.Context) {
	var req dto.SubjectCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.catalogService.CreateSubject(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create subject", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListSubjects godoc
// @Summary (Admin) List subjects with their topics
// @Tags Admin - Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SubjectResponseDTO
// @Router /admin/subjects [get]
func (c *CatalogController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.catalogService.ListSubjects()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list subjects", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, subjects)
}

// UpdateSubject godoc
// @Summary (Admin) Rename a subject
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subject_id path string true "Subject ID"
// @Param subject body dto.SubjectCreateDTO true "Subject data"
// @Success 200 {object} dto.SubjectResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/subjects/{subject_id} [put]
func (c *CatalogController) UpdateSubject(ctx *gin.Context) {
	id, ok := parseID(ctx, "subject_id")
	if !ok {
		return
	}
	var req dto.SubjectCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.catalogService.UpdateSubject(id, req)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteSubject godoc
// @Summary (Admin) Delete a subject
// @Tags Admin - Catalog
// @Security BearerAuth
// @Param subject_id path string true "Subject ID"
// @Success 204 "Deleted"
// @Router /admin/subjects/{subject_id} [delete]
func (c *CatalogController) DeleteSubject(ctx *gin.Context) {
	id, ok := parseID(ctx, "subject_id")
	if !ok {
		return
	}
	if err := c.catalogService.DeleteSubject(id); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete subject", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// CreateTopic godoc
// @Summary (Admin) Create a topic under a subject
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param topic body dto.TopicCreateDTO true "Topic data"
// @Success 201 {object} dto.TopicResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/topics [post]
func (c *CatalogController) CreateTopic(ctx *gin.Context) {
	var req dto.TopicCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.catalogService.CreateTopic(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create topic", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListTopics godoc
// @Summary (Admin) List topics, optionally filtered by subject
// @Tags Admin - Catalog
// @Produce json
// @Security BearerAuth
// @Param subject_id query string false "Subject ID filter"
// @Success 200 {array} dto.TopicResponseDTO
// @Router /admin/topics [get]
func (c *CatalogController) ListTopics(ctx *gin.Context) {
	var subjectID *uuid.UUID
	if raw := ctx.Query("subject_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid subject_id format"})
			return
		}
		subjectID = &id
	}
	topics, err := c.catalogService.ListTopics(subjectID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list topics", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, topics)
}

// UpdateTopic godoc
// @Summary (Admin) Update a topic's name or parent subject
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param topic_id path string true "Topic ID"
// @Param topic body dto.TopicCreateDTO true "Updated topic data"
// @Success 200 {object} dto.TopicResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/topics/{topic_id} [put]
func (c *CatalogController) UpdateTopic(ctx *gin.Context) {
	id, ok := parseID(ctx, "topic_id")
	if !ok {
		return
	}
	var req dto.TopicCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.catalogService.UpdateTopic(id, req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to update topic", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteTopic godoc
// @Summary (Admin) Delete a topic
// @Tags Admin - Catalog
// @Security BearerAuth
// @Param topic_id path string true "Topic ID"
// @Success 204 "Deleted"
// @Router /admin/topics/{topic_id} [delete]
func (c *CatalogController) DeleteTopic(ctx *gin.Context) {
	id, ok := parseID(ctx, "topic_id")
	if !ok {
		return
	}
	if err := c.catalogService.DeleteTopic(id); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete topic", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// CreateQuestion godoc
// @Summary (Admin) Create a question with its choices
// @Description Validates the payload against the question type and requires exactly one correct choice.
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question body dto.QuestionCreateDTO true "Question data including choices"
// @Success 201 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/questions [post]
func (c *CatalogController) CreateQuestion(ctx *gin.Context) {
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.catalogService.CreateQuestion(req)
	if err != nil {
		log.Warn().Err(err).Msg("Admin CreateQuestion: rejected")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create question", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetQuestion godoc
// @Summary (Admin) Get a question with its choices
// @Tags Admin - Catalog
// @Produce json
// @Security BearerAuth
// @Param question_id path string true "Question ID"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/questions/{question_id} [get]
func (c *CatalogController) GetQuestion(ctx *gin.Context) {
	id, ok := parseID(ctx, "question_id")
	if !ok {
		return
	}
	resp, err := c.catalogService.GetQuestion(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListQuestions godoc
// @Summary (Admin) List questions of a topic
// @Tags Admin - Catalog
// @Produce json
// @Security BearerAuth
// @Param topic_id query string true "Topic ID"
// @Success 200 {array} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/questions [get]
func (c *CatalogController) ListQuestions(ctx *gin.Context) {
	raw := ctx.Query("topic_id")
	topicID, err := uuid.Parse(raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "topic_id query parameter is required"})
		return
	}
	questions, err := c.catalogService.ListQuestionsByTopic(topicID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// UpdateQuestion godoc
// @Summary (Admin) Update a question and replace its choices
// @Description Rejected when the question is already referenced by an attempt.
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question_id path string true "Question ID"
// @Param question body dto.QuestionCreateDTO true "Question data including choices"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/questions/{question_id} [put]
func (c *CatalogController) UpdateQuestion(ctx *gin.Context) {
	id, ok := parseID(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.catalogService.UpdateQuestion(id, req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to update question", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Tags Admin - Catalog
// @Security BearerAuth
// @Param question_id path string true "Question ID"
// @Success 204 "Deleted"
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/questions/{question_id} [delete]
func (c *CatalogController) DeleteQuestion(ctx *gin.Context) {
	id, ok := parseID(ctx, "question_id")
	if !ok {
		return
	}
	if err := c.catalogService.DeleteQuestion(id); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to delete question", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// UploadImage godoc
// @Summary (Admin) Upload a question or choice image
// @Tags Admin - Catalog
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 201 {object} dto.UploadResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/questions/images [post]
func (c *CatalogController) UploadImage(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing file field", Details: []string{err.Error()}})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Could not read uploaded file", Details: []string{err.Error()}})
		return
	}
	defer file.Close()

	resp, err := c.storageService.UploadImage(
		ctx.Request.Context(),
		"questions",
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Upload failed", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// parseID reads a uuid path parameter, replying 400 on malformed input.
func parseID(ctx *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(param))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + param + " format"})
		return uuid.Nil, false
	}
	return id, true
}
