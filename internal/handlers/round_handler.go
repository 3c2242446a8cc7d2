package handlers

import (
	"net/http"

	"hireflow_backend/internal/middleware"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/services"
	"hireflow_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RoundHandler struct {
	*BaseHandler
	roundService *services.RoundService
}

func NewRoundHandler(base *BaseHandler, roundService *services.RoundService) *RoundHandler {
	return &RoundHandler{
		BaseHandler:  base,
		roundService: roundService,
	}
}

// RegisterRoutes регистрирует маршруты раундов и фидбека
func (h *RoundHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/candidates/:id/rounds", h.ListRounds)
	rg.POST("/candidates/:id/rounds", h.ScheduleRound)

	rounds := rg.Group("/rounds")
	{
		rounds.GET("/:id", h.GetRound)
		rounds.POST("/:id/feedback", h.SubmitFeedback)
	}

	admin := rounds.Group("")
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.PATCH("/:id/status", h.UpdateRoundStatus)
	}
}

// ScheduleRound godoc
// @Summary Запланировать раунд
// @Description Создаёт раунд с номером max+1 и переводит кандидата на стадию типа раунда
// @Tags rounds
// @Accept json
// @Produce json
// @Param id path string true "ID кандидата"
// @Param round body dto.ScheduleRoundRequest true "Параметры раунда"
// @Success 201 {object} models.InterviewRound
// @Failure 409 {object} appErrors.ErrorResponse "Номер раунда уже занят"
// @Router /candidates/{id}/rounds [post]
func (h *RoundHandler) ScheduleRound(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ScheduleRoundRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	round, err := h.roundService.ScheduleRound(db, userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, round)
}

// SubmitFeedback godoc
// @Summary Подать фидбек по раунду
// @Description Фидбек неизменяем; рекомендация NO/STRONG_NO требует rejection-блок и атомарно отклоняет кандидата
// @Tags rounds
// @Accept json
// @Produce json
// @Param id path string true "ID раунда"
// @Param feedback body dto.SubmitFeedbackRequest true "Фидбек"
// @Success 201 {object} models.Feedback
// @Failure 403 {object} appErrors.ErrorResponse "Не назначенный интервьюер"
// @Failure 409 {object} appErrors.ErrorResponse "Фидбек уже подан"
// @Router /rounds/{id}/feedback [post]
func (h *RoundHandler) SubmitFeedback(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitFeedbackRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	feedback, err := h.roundService.SubmitFeedback(db, userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

func (h *RoundHandler) GetRound(c *gin.Context) {
	db := h.GetDB(c)

	round, err := h.roundService.GetRound(db, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, round)
}

func (h *RoundHandler) ListRounds(c *gin.Context) {
	db := h.GetDB(c)

	rounds, err := h.roundService.ListRounds(db, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rounds": rounds})
}

func (h *RoundHandler) UpdateRoundStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateRoundStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	round, err := h.roundService.UpdateRoundStatus(db, userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, round)
}
