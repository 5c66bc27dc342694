package handlers

import (
	"net/http"

	"github.com/MC3-2026/assessment-delivery-service/internal/services"
	"github.com/MC3-2026/assessment-delivery-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	bankHandler         *BankHandler
	itemHandler         *ItemHandler
	assessmentHandler   *AssessmentHandler
	deliveryHandler     *DeliveryHandler
	importExportHandler *ImportExportHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		bankHandler:         NewBankHandler(serviceManager.Bank(), logger),
		itemHandler:         NewItemHandler(serviceManager.Item(), logger),
		assessmentHandler:   NewAssessmentHandler(serviceManager.Assessment(), logger),
		deliveryHandler:     NewDeliveryHandler(serviceManager.Delivery(), logger),
		importExportHandler: NewImportExportHandler(serviceManager.ImportExport(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if auth != nil {
		v1.Use(auth)
	}
	{
		// Bank routes
		banks := v1.Group("/banks")
		{
			banks.POST("", hm.bankHandler.CreateBank)
			banks.GET("", hm.bankHandler.ListBanks)
			banks.GET("/:bank_id", hm.bankHandler.GetBank)
			banks.PUT("/:bank_id", hm.bankHandler.UpdateBank)
			banks.DELETE("/:bank_id", hm.bankHandler.DeleteBank)

			// Item management within a bank
			banks.POST("/:bank_id/items", hm.itemHandler.CreateItem)
			banks.GET("/:bank_id/items", hm.itemHandler.ListItems)

			// Assessment management within a bank
			banks.POST("/:bank_id/assessments", hm.assessmentHandler.CreateAssessment)
			banks.GET("/:bank_id/assessments", hm.assessmentHandler.ListAssessments)

			// Bulk export
			banks.GET("/:bank_id/export", hm.importExportHandler.ExportItems)
		}

		// Item routes
		items := v1.Group("/items")
		{
			items.GET("/:item_id", hm.itemHandler.GetItem)
			items.PUT("/:item_id", hm.itemHandler.UpdateItem)
			items.DELETE("/:item_id", hm.itemHandler.DeleteItem)

			items.PUT("/:item_id/question", hm.itemHandler.UpdateQuestion)
			items.POST("/:item_id/answers", hm.itemHandler.AddAnswer)
			items.PUT("/:item_id/answers/:answer_id", hm.itemHandler.UpdateAnswer)
			items.DELETE("/:item_id/answers/:answer_id", hm.itemHandler.DeleteAnswer)
		}

		// Assessment routes
		assessments := v1.Group("/assessments")
		{
			assessments.GET("/:assessment_id", hm.assessmentHandler.GetAssessment)
			assessments.PUT("/:assessment_id", hm.assessmentHandler.UpdateAssessment)
			assessments.DELETE("/:assessment_id", hm.assessmentHandler.DeleteAssessment)

			assessments.POST("/:assessment_id/items", hm.assessmentHandler.AddItem)
			assessments.GET("/:assessment_id/items", hm.assessmentHandler.GetItems)
			assessments.DELETE("/:assessment_id/items/:item_id", hm.assessmentHandler.RemoveItem)

			assessments.POST("/:assessment_id/offerings", hm.assessmentHandler.CreateOffering)
			assessments.GET("/:assessment_id/offerings", hm.assessmentHandler.ListOfferings)
		}

		// Offering routes
		offerings := v1.Group("/offerings")
		{
			offerings.GET("/:offering_id", hm.assessmentHandler.GetOffering)
			offerings.POST("/:offering_id/takens", hm.deliveryHandler.CreateTaken)
		}

		// Taken routes
		takens := v1.Group("/takens")
		{
			takens.GET("/:taken_id", hm.deliveryHandler.GetTaken)
			takens.POST("/:taken_id/finish", hm.deliveryHandler.FinishTaken)

			takens.GET("/:taken_id/questions", hm.deliveryHandler.GetQuestions)
			takens.GET("/:taken_id/questions/:question_id", hm.deliveryHandler.GetQuestion)
			takens.GET("/:taken_id/questions/:question_id/status", hm.deliveryHandler.GetQuestionStatus)
			takens.POST("/:taken_id/questions/:question_id/submit", hm.deliveryHandler.SubmitResponse)
			takens.POST("/:taken_id/questions/:question_id/surrender", hm.deliveryHandler.Surrender)
		}

		// Bulk import
		v1.POST("/import/items", hm.importExportHandler.ImportItems)
	}
}

// HealthCheck reports service liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "assessment-delivery-service",
	})
}
