package handlers

import (
	"net/http"

	"github.com/MC3-2026/assessment-delivery-service/internal/services"
	"github.com/MC3-2026/assessment-delivery-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AssessmentHandler struct {
	BaseHandler
	assessmentService services.AssessmentService
}

func NewAssessmentHandler(assessmentService services.AssessmentService, logger utils.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assessmentService: assessmentService,
	}
}

// CreateAssessment creates an assessment in a bank
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	bankID := h.parseIDParam(c, "bank_id")
	if bankID == 0 {
		return
	}

	var req services.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	assessment, err := h.assessmentService.Create(c.Request.Context(), bankID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assessment)
}

// GetAssessment retrieves an assessment, optionally with its items
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	id := h.parseIDParam(c, "assessment_id")
	if id == 0 {
		return
	}

	var (
		assessment interface{}
		err        error
	)
	if c.Query("include_items") == "true" {
		assessment, err = h.assessmentService.GetByIDWithItems(c.Request.Context(), id)
	} else {
		assessment, err = h.assessmentService.GetByID(c.Request.Context(), id)
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// UpdateAssessment updates assessment metadata
func (h *AssessmentHandler) UpdateAssessment(c *gin.Context) {
	id := h.parseIDParam(c, "assessment_id")
	if id == 0 {
		return
	}

	var req services.UpdateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	assessment, err := h.assessmentService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// DeleteAssessment deletes an assessment
func (h *AssessmentHandler) DeleteAssessment(c *gin.Context) {
	id := h.parseIDParam(c, "assessment_id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.assessmentService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Assessment deleted successfully",
	})
}

// ListAssessments lists the assessments of a bank
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	bankID := h.parseIDParam(c, "bank_id")
	if bankID == 0 {
		return
	}

	assessments, err := h.assessmentService.ListByBank(c.Request.Context(), bankID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessments)
}

// ===== ITEM LIST =====

type addItemRequest struct {
	ItemID uint `json:"item_id" binding:"required"`
	Order  int  `json:"order"`
}

// AddItem appends an item to an assessment
func (h *AssessmentHandler) AddItem(c *gin.Context) {
	assessmentID := h.parseIDParam(c, "assessment_id")
	if assessmentID == 0 {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	if err := h.assessmentService.AddItem(c.Request.Context(), assessmentID, req.ItemID, req.Order, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Item added to assessment",
	})
}

// RemoveItem detaches an item from an assessment
func (h *AssessmentHandler) RemoveItem(c *gin.Context) {
	assessmentID := h.parseIDParam(c, "assessment_id")
	if assessmentID == 0 {
		return
	}
	itemID := h.parseIDParam(c, "item_id")
	if itemID == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.assessmentService.RemoveItem(c.Request.Context(), assessmentID, itemID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Item removed from assessment",
	})
}

// GetItems lists the items attached to an assessment in order
func (h *AssessmentHandler) GetItems(c *gin.Context) {
	assessmentID := h.parseIDParam(c, "assessment_id")
	if assessmentID == 0 {
		return
	}

	items, err := h.assessmentService.GetItems(c.Request.Context(), assessmentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// ===== OFFERINGS =====

// CreateOffering publishes an assessment as an offering
func (h *AssessmentHandler) CreateOffering(c *gin.Context) {
	assessmentID := h.parseIDParam(c, "assessment_id")
	if assessmentID == 0 {
		return
	}

	var req services.CreateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	offering, err := h.assessmentService.CreateOffering(c.Request.Context(), assessmentID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, offering)
}

// GetOffering retrieves an offering
func (h *AssessmentHandler) GetOffering(c *gin.Context) {
	id := h.parseIDParam(c, "offering_id")
	if id == 0 {
		return
	}

	offering, err := h.assessmentService.GetOffering(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offering)
}

// ListOfferings lists the offerings of an assessment
func (h *AssessmentHandler) ListOfferings(c *gin.Context) {
	assessmentID := h.parseIDParam(c, "assessment_id")
	if assessmentID == 0 {
		return
	}

	offerings, err := h.assessmentService.ListOfferings(c.Request.Context(), assessmentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offerings)
}
