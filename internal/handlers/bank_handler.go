package handlers

import (
	"net/http"

	"github.com/MC3-2026/assessment-delivery-service/internal/repositories"
	"github.com/MC3-2026/assessment-delivery-service/internal/services"
	"github.com/MC3-2026/assessment-delivery-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type BankHandler struct {
	BaseHandler
	bankService services.BankService
}

func NewBankHandler(bankService services.BankService, logger utils.Logger) *BankHandler {
	return &BankHandler{
		BaseHandler: NewBaseHandler(logger),
		bankService: bankService,
	}
}

// CreateBank creates a new bank
func (h *BankHandler) CreateBank(c *gin.Context) {
	var req services.CreateBankRequest
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

	bank, err := h.bankService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bank)
}

// GetBank retrieves a bank by ID
func (h *BankHandler) GetBank(c *gin.Context) {
	id := h.parseIDParam(c, "bank_id")
	if id == 0 {
		return
	}

	bank, err := h.bankService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bank)
}

// UpdateBank updates an existing bank
func (h *BankHandler) UpdateBank(c *gin.Context) {
	id := h.parseIDParam(c, "bank_id")
	if id == 0 {
		return
	}

	var req services.UpdateBankRequest
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

	bank, err := h.bankService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bank)
}

// DeleteBank deletes a bank
func (h *BankHandler) DeleteBank(c *gin.Context) {
	id := h.parseIDParam(c, "bank_id")
	if id == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.bankService.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Bank deleted successfully",
	})
}

// ListBanks lists banks with pagination
func (h *BankHandler) ListBanks(c *gin.Context) {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 20)

	filters := repositories.BankFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if creator := c.Query("created_by"); creator != "" {
		filters.CreatedBy = &creator
	}

	banks, err := h.bankService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, banks)
}
