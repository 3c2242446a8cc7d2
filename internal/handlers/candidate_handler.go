package handlers

import (
	"net/http"

	"hireflow_backend/internal/middleware"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/services"
	"hireflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	*BaseHandler
	candidateService *services.CandidateService
}

func NewCandidateHandler(base *BaseHandler, candidateService *services.CandidateService) *CandidateHandler {
	return &CandidateHandler{
		BaseHandler:      base,
		candidateService: candidateService,
	}
}

// RegisterRoutes регистрирует маршруты кандидатов и пайплайна
func (h *CandidateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	candidates := rg.Group("/candidates")
	{
		candidates.GET("", h.ListCandidates)
		candidates.GET("/pipeline", h.PipelineSummary)
		candidates.GET("/:id", h.GetCandidate)
		candidates.GET("/:id/stage-options", h.StageOptions)
	}

	write := candidates.Group("")
	write.Use(middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleRecruiter))
	{
		write.POST("", h.CreateCandidate)
		write.POST("/:id/advance", h.AdvanceStage)
		write.POST("/:id/reject", h.RejectCandidate)
		write.POST("/:id/withdraw", h.WithdrawCandidate)
	}

	admin := candidates.Group("")
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.DELETE("/:id", h.DeleteCandidate)
	}
}

// CreateCandidate godoc
// @Summary Создать кандидата
// @Description Создаёт кандидата на вакансию; начальная стадия всегда APPLIED
// @Tags candidates
// @Accept json
// @Produce json
// @Param candidate body dto.CreateCandidateRequest true "Данные кандидата"
// @Success 201 {object} models.Candidate
// @Failure 400 {object} appErrors.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} appErrors.ErrorResponse "Email уже занят"
// @Router /candidates [post]
func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCandidateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	candidate, err := h.candidateService.CreateCandidate(db, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, candidate)
}

func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	db := h.GetDB(c)

	candidate, err := h.candidateService.GetCandidate(db, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidate)
}

func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	var req dto.ListCandidatesRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}
	req.Page, req.Size = ParsePagination(c)

	db := h.GetDB(c)

	candidates, total, err := h.candidateService.ListCandidates(db, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"candidates": candidates,
		"total":      total,
		"page":       req.Page,
		"page_size":  req.Size,
	})
}

// PipelineSummary godoc
// @Summary Сводка пайплайна
// @Description Количество кандидатов на каждой стадии (опционально по вакансии)
// @Tags candidates
// @Produce json
// @Param job_id query string false "ID вакансии"
// @Success 200 {object} dto.PipelineSummaryResponse
// @Router /candidates/pipeline [get]
func (h *CandidateHandler) PipelineSummary(c *gin.Context) {
	db := h.GetDB(c)

	summary, err := h.candidateService.PipelineSummary(db, c.Query("job_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *CandidateHandler) StageOptions(c *gin.Context) {
	db := h.GetDB(c)

	options, err := h.candidateService.StageOptions(db, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, options)
}

// AdvanceStage godoc
// @Summary Продвинуть кандидата
// @Description Ручное продвижение строго вперёд по основной цепочке; боковые выходы недостижимы
// @Tags candidates
// @Accept json
// @Produce json
// @Param id path string true "ID кандидата"
// @Param body body dto.AdvanceStageRequest true "Целевая стадия"
// @Success 200 {object} models.Candidate
// @Failure 400 {object} appErrors.ErrorResponse "Недопустимая целевая стадия"
// @Router /candidates/{id}/advance [post]
func (h *CandidateHandler) AdvanceStage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AdvanceStageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	candidate, err := h.candidateService.AdvanceStage(db, userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidate)
}

func (h *CandidateHandler) RejectCandidate(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RejectionPayload
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	candidate, err := h.candidateService.RejectCandidate(db, userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidate)
}

func (h *CandidateHandler) WithdrawCandidate(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	candidate, err := h.candidateService.WithdrawCandidate(db, userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidate)
}

func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	if err := h.candidateService.DeleteCandidate(db, userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Candidate deleted"})
}
