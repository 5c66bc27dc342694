package handlers

import (
	"net/http"

	"github.com/MC3-2026/assessment-delivery-service/internal/services"
	"github.com/MC3-2026/assessment-delivery-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type DeliveryHandler struct {
	BaseHandler
	deliveryService services.DeliveryService
}

func NewDeliveryHandler(deliveryService services.DeliveryService, logger utils.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		BaseHandler:     NewBaseHandler(logger),
		deliveryService: deliveryService,
	}
}

// CreateTaken starts a new attempt against an offering
func (h *DeliveryHandler) CreateTaken(c *gin.Context) {
	offeringID := h.parseIDParam(c, "offering_id")
	if offeringID == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	taken, err := h.deliveryService.CreateTaken(c.Request.Context(), offeringID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, taken)
}

// GetTaken returns a taken owned by the caller
func (h *DeliveryHandler) GetTaken(c *gin.Context) {
	takenID := h.parseIDParam(c, "taken_id")
	if takenID == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	taken, err := h.deliveryService.GetTaken(c.Request.Context(), takenID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, taken)
}

// FinishTaken marks a taken as completed
func (h *DeliveryHandler) FinishTaken(c *gin.Context) {
	takenID := h.parseIDParam(c, "taken_id")
	if takenID == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	taken, err := h.deliveryService.FinishTaken(c.Request.Context(), takenID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, taken)
}

// GetQuestions lists the questions of a taken with per-question status
func (h *DeliveryHandler) GetQuestions(c *gin.Context) {
	takenID := h.parseIDParam(c, "taken_id")
	if takenID == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	questions, err := h.deliveryService.GetQuestions(c.Request.Context(), takenID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// GetQuestion returns a single question of a taken
func (h *DeliveryHandler) GetQuestion(c *gin.Context) {
	takenID := h.parseIDParam(c, "taken_id")
	if takenID == 0 {
		return
	}
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	question, err := h.deliveryService.GetQuestion(c.Request.Context(), takenID, questionID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// SubmitResponse scores a submission and returns the verdict
func (h *DeliveryHandler) SubmitResponse(c *gin.Context) {
	takenID := h.parseIDParam(c, "taken_id")
	if takenID == 0 {
		return
	}
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	verdict, err := h.deliveryService.SubmitResponse(c.Request.Context(), takenID, questionID, payload, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// GetQuestionStatus replays the stored submission against the current answers
func (h *DeliveryHandler) GetQuestionStatus(c *gin.Context) {
	takenID := h.parseIDParam(c, "taken_id")
	if takenID == 0 {
		return
	}
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	status, err := h.deliveryService.GetQuestionStatus(c.Request.Context(), takenID, questionID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Surrender gives up on a question and reveals its answer set
func (h *DeliveryHandler) Surrender(c *gin.Context) {
	takenID := h.parseIDParam(c, "taken_id")
	if takenID == 0 {
		return
	}
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	answers, err := h.deliveryService.Surrender(c.Request.Context(), takenID, questionID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, answers)
}
