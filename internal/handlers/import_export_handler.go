package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/MC3-2026/assessment-delivery-service/internal/services"
	"github.com/MC3-2026/assessment-delivery-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// 10 MB upload cap for import sheets.
const maxImportFileSize = 10 << 20

type ImportExportHandler struct {
	BaseHandler
	importExportService services.ImportExportService
}

func NewImportExportHandler(importExportService services.ImportExportService, logger utils.Logger) *ImportExportHandler {
	return &ImportExportHandler{
		BaseHandler:         NewBaseHandler(logger),
		importExportService: importExportService,
	}
}

// ImportItems accepts a CSV or Excel sheet and creates items row by row.
// The target bank is given as a form field.
func (h *ImportExportHandler) ImportItems(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	bankIDValue := c.PostForm("bank_id")
	bankID, err := strconv.ParseUint(bankIDValue, 10, 32)
	if err != nil || bankID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid bank_id form field",
			Details: bankIDValue,
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file upload",
			Details: err.Error(),
		})
		return
	}
	if fileHeader.Size > maxImportFileSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File too large",
			Details: fmt.Sprintf("maximum upload size is %d bytes", maxImportFileSize),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to open uploaded file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	summary, err := h.importExportService.ImportItemsFromFile(c.Request.Context(), uint(bankID), file, fileHeader.Filename, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportItems streams the bank's items as CSV or Excel, selected by the
// format query parameter (default csv).
func (h *ImportExportHandler) ExportItems(c *gin.Context) {
	bankID := h.parseIDParam(c, "bank_id")
	if bankID == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		data, err := h.importExportService.ExportItemsToCSV(c.Request.Context(), bankID, userID)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=bank_%d_items.csv", bankID))
		c.Data(http.StatusOK, "text/csv", data)
	case "xlsx", "excel":
		data, err := h.importExportService.ExportItemsToExcel(c.Request.Context(), bankID, userID)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=bank_%d_items.xlsx", bankID))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported export format",
			Details: format,
		})
	}
}
