package services

import (
	"log/slog"

	"github.com/MC3-2026/assessment-delivery-service/internal/cache"
	"github.com/MC3-2026/assessment-delivery-service/internal/events"
	"github.com/MC3-2026/assessment-delivery-service/internal/repositories"
	"github.com/MC3-2026/assessment-delivery-service/internal/validator"
)

// ServiceManager bundles the service surface handed to the HTTP layer.
type ServiceManager interface {
	Bank() BankService
	Item() ItemService
	Assessment() AssessmentService
	Delivery() DeliveryService
	ImportExport() ImportExportService
}

type serviceManager struct {
	bank         BankService
	item         ItemService
	assessment   AssessmentService
	delivery     DeliveryService
	importExport ImportExportService
}

func NewServiceManager(
	repo repositories.Repository,
	answers *cache.AnswerCache,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) ServiceManager {
	item := NewItemService(repo, answers, logger, validator)

	return &serviceManager{
		bank:         NewBankService(repo, logger, validator),
		item:         item,
		assessment:   NewAssessmentService(repo, logger, validator),
		delivery:     NewDeliveryService(repo, answers, publisher, logger, validator),
		importExport: NewImportExportService(item, repo, publisher, logger),
	}
}

func (m *serviceManager) Bank() BankService { return m.bank }

func (m *serviceManager) Item() ItemService { return m.item }

func (m *serviceManager) Assessment() AssessmentService { return m.assessment }

func (m *serviceManager) Delivery() DeliveryService { return m.delivery }

func (m *serviceManager) ImportExport() ImportExportService { return m.importExport }
