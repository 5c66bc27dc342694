package handlers

import (
	"net/http"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/MC3-2026/assessment-delivery-service/internal/repositories"
	"github.com/MC3-2026/assessment-delivery-service/internal/services"
	"github.com/MC3-2026/assessment-delivery-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	BaseHandler
	itemService services.ItemService
}

func NewItemHandler(itemService services.ItemService, logger utils.Logger) *ItemHandler {
	return &ItemHandler{
		BaseHandler: NewBaseHandler(logger),
		itemService: itemService,
	}
}

// CreateItem creates an item with its question and answers
func (h *ItemHandler) CreateItem(c *gin.Context) {
	bankID := h.parseIDParam(c, "bank_id")
	if bankID == 0 {
		return
	}

	var req services.CreateItemRequest
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

	item, err := h.itemService.Create(c.Request.Context(), bankID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetItem retrieves an item with question and answers
func (h *ItemHandler) GetItem(c *gin.Context) {
	id := h.parseIDParam(c, "item_id")
	if id == 0 {
		return
	}

	item, err := h.itemService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateItem updates item metadata
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id := h.parseIDParam(c, "item_id")
	if id == 0 {
		return
	}

	var req services.UpdateItemRequest
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

	item, err := h.itemService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem deletes an item
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id := h.parseIDParam(c, "item_id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Item deleted successfully",
	})
}

// ListItems lists the items of a bank
func (h *ItemHandler) ListItems(c *gin.Context) {
	bankID := h.parseIDParam(c, "bank_id")
	if bankID == 0 {
		return
	}

	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 20)

	filters := repositories.ItemFilters{
		BankID:    &bankID,
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if kindTag := c.Query("kind"); kindTag != "" {
		kind, ok := models.ParseAnswerKind(kindTag)
		if !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Unsupported question kind",
				Details: kindTag,
			})
			return
		}
		filters.Kind = &kind
	}

	items, err := h.itemService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// UpdateQuestion edits the question content of an item
func (h *ItemHandler) UpdateQuestion(c *gin.Context) {
	itemID := h.parseIDParam(c, "item_id")
	if itemID == 0 {
		return
	}

	var req services.UpdateQuestionRequest
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

	question, err := h.itemService.UpdateQuestion(c.Request.Context(), itemID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// AddAnswer appends an answer record to an item
func (h *ItemHandler) AddAnswer(c *gin.Context) {
	itemID := h.parseIDParam(c, "item_id")
	if itemID == 0 {
		return
	}

	var req services.AnswerRequest
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

	answer, err := h.itemService.AddAnswer(c.Request.Context(), itemID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, answer)
}

// UpdateAnswer replaces an answer record
func (h *ItemHandler) UpdateAnswer(c *gin.Context) {
	itemID := h.parseIDParam(c, "item_id")
	if itemID == 0 {
		return
	}
	answerID := h.parseIDParam(c, "answer_id")
	if answerID == 0 {
		return
	}

	var req services.AnswerRequest
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

	answer, err := h.itemService.UpdateAnswer(c.Request.Context(), itemID, answerID, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// DeleteAnswer removes an answer record
func (h *ItemHandler) DeleteAnswer(c *gin.Context) {
	itemID := h.parseIDParam(c, "item_id")
	if itemID == 0 {
		return
	}
	answerID := h.parseIDParam(c, "answer_id")
	if answerID == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.itemService.DeleteAnswer(c.Request.Context(), itemID, answerID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Answer deleted successfully",
	})
}
