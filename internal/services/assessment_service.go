package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/MC3-2026/assessment-delivery-service/internal/repositories"
	"github.com/MC3-2026/assessment-delivery-service/internal/validator"
)

// AssessmentService manages assessments, their item lists and offerings.
type AssessmentService interface {
	Create(ctx context.Context, bankID uint, req *CreateAssessmentRequest, creatorID string) (*models.Assessment, error)
	GetByID(ctx context.Context, id uint) (*models.Assessment, error)
	GetByIDWithItems(ctx context.Context, id uint) (*models.Assessment, error)
	Update(ctx context.Context, id uint, req *UpdateAssessmentRequest, userID string) (*models.Assessment, error)
	Delete(ctx context.Context, id uint, userID string) error
	ListByBank(ctx context.Context, bankID uint) ([]*models.Assessment, error)

	AddItem(ctx context.Context, assessmentID, itemID uint, order int, userID string) error
	RemoveItem(ctx context.Context, assessmentID, itemID uint, userID string) error
	GetItems(ctx context.Context, assessmentID uint) ([]models.AssessmentItem, error)

	CreateOffering(ctx context.Context, assessmentID uint, req *CreateOfferingRequest, creatorID string) (*models.Offering, error)
	GetOffering(ctx context.Context, id uint) (*models.Offering, error)
	ListOfferings(ctx context.Context, assessmentID uint) ([]*models.Offering, error)
}

// ===== REQUEST TYPES =====

type CreateAssessmentRequest struct {
	DisplayName string  `json:"display_name" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	ItemIDs     []uint  `json:"item_ids"`
}

type UpdateAssessmentRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type CreateOfferingRequest struct {
	StartTime            *time.Time `json:"start_time"`
	Duration             *int       `json:"duration" validate:"omitempty,min=1,max=600"`
	MaxAttempts          *int       `json:"max_attempts" validate:"omitempty,min=1,max=100"`
	ReviewWhetherCorrect *bool      `json:"review_whether_correct"`
	ReviewSolution       *bool      `json:"review_solution"`
}

type assessmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAssessmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) AssessmentService {
	return &assessmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== ASSESSMENT OPERATIONS =====

func (s *assessmentService) Create(ctx context.Context, bankID uint, req *CreateAssessmentRequest, creatorID string) (*models.Assessment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.repo.Bank().GetByID(ctx, bankID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBankNotFound
		}
		return nil, fmt.Errorf("failed to get bank: %w", err)
	}

	assessment := &models.Assessment{
		BankID:      bankID,
		DisplayName: req.DisplayName,
		Description: req.Description,
		CreatedBy:   creatorID,
	}

	if err := s.repo.Assessment().Create(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	for i, itemID := range req.ItemIDs {
		if err := s.attachItem(ctx, assessment.ID, itemID, i); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Assessment created",
		"assessment_id", assessment.ID,
		"bank_id", bankID,
		"item_count", len(req.ItemIDs),
		"creator_id", creatorID)

	return assessment, nil
}

func (s *assessmentService) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	assessment, err := s.repo.Assessment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return assessment, nil
}

func (s *assessmentService) GetByIDWithItems(ctx context.Context, id uint) (*models.Assessment, error) {
	assessment, err := s.repo.Assessment().GetByIDWithItems(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return assessment, nil
}

func (s *assessmentService) Update(ctx context.Context, id uint, req *UpdateAssessmentRequest, userID string) (*models.Assessment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	assessment, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assessment.CreatedBy != userID {
		return nil, NewPermissionError(userID, id, "assessment", "update", "not the assessment owner")
	}

	if req.DisplayName != nil {
		assessment.DisplayName = *req.DisplayName
	}
	if req.Description != nil {
		assessment.Description = req.Description
	}

	if err := s.repo.Assessment().Update(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to update assessment: %w", err)
	}

	return assessment, nil
}

func (s *assessmentService) Delete(ctx context.Context, id uint, userID string) error {
	assessment, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if assessment.CreatedBy != userID {
		return NewPermissionError(userID, id, "assessment", "delete", "not the assessment owner")
	}

	if err := s.repo.Assessment().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete assessment: %w", err)
	}

	s.logger.Info("Assessment deleted", "assessment_id", id, "user_id", userID)
	return nil
}

func (s *assessmentService) ListByBank(ctx context.Context, bankID uint) ([]*models.Assessment, error) {
	assessments, err := s.repo.Assessment().ListByBank(ctx, bankID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, nil
}

// ===== ITEM LIST OPERATIONS =====

func (s *assessmentService) AddItem(ctx context.Context, assessmentID, itemID uint, order int, userID string) error {
	assessment, err := s.GetByID(ctx, assessmentID)
	if err != nil {
		return err
	}
	if assessment.CreatedBy != userID {
		return NewPermissionError(userID, assessmentID, "assessment", "add_item", "not the assessment owner")
	}

	return s.attachItem(ctx, assessmentID, itemID, order)
}

func (s *assessmentService) RemoveItem(ctx context.Context, assessmentID, itemID uint, userID string) error {
	assessment, err := s.GetByID(ctx, assessmentID)
	if err != nil {
		return err
	}
	if assessment.CreatedBy != userID {
		return NewPermissionError(userID, assessmentID, "assessment", "remove_item", "not the assessment owner")
	}

	if err := s.repo.Assessment().RemoveItem(ctx, assessmentID, itemID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to remove item: %w", err)
	}
	return nil
}

func (s *assessmentService) GetItems(ctx context.Context, assessmentID uint) ([]models.AssessmentItem, error) {
	if _, err := s.GetByID(ctx, assessmentID); err != nil {
		return nil, err
	}

	items, err := s.repo.Assessment().GetItems(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment items: %w", err)
	}
	return items, nil
}

func (s *assessmentService) attachItem(ctx context.Context, assessmentID, itemID uint, order int) error {
	if _, err := s.repo.Item().GetByID(ctx, itemID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to get item: %w", err)
	}

	if err := s.repo.Assessment().AddItem(ctx, assessmentID, itemID, order); err != nil {
		return fmt.Errorf("failed to add item to assessment: %w", err)
	}
	return nil
}

// ===== OFFERING OPERATIONS =====

func (s *assessmentService) CreateOffering(ctx context.Context, assessmentID uint, req *CreateOfferingRequest, creatorID string) (*models.Offering, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	assessment, err := s.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment.CreatedBy != creatorID {
		return nil, NewPermissionError(creatorID, assessmentID, "assessment", "create_offering", "not the assessment owner")
	}

	offering := &models.Offering{
		AssessmentID:         assessmentID,
		BankID:               assessment.BankID,
		StartTime:            req.StartTime,
		Duration:             req.Duration,
		MaxAttempts:          req.MaxAttempts,
		ReviewWhetherCorrect: true,
		CreatedBy:            creatorID,
	}
	if req.ReviewWhetherCorrect != nil {
		offering.ReviewWhetherCorrect = *req.ReviewWhetherCorrect
	}
	if req.ReviewSolution != nil {
		offering.ReviewSolution = *req.ReviewSolution
	}

	if err := s.repo.Offering().Create(ctx, offering); err != nil {
		return nil, fmt.Errorf("failed to create offering: %w", err)
	}

	s.logger.Info("Offering created",
		"offering_id", offering.ID,
		"assessment_id", assessmentID,
		"creator_id", creatorID)

	return offering, nil
}

func (s *assessmentService) GetOffering(ctx context.Context, id uint) (*models.Offering, error) {
	offering, err := s.repo.Offering().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrOfferingNotFound
		}
		return nil, fmt.Errorf("failed to get offering: %w", err)
	}
	return offering, nil
}

func (s *assessmentService) ListOfferings(ctx context.Context, assessmentID uint) ([]*models.Offering, error) {
	if _, err := s.GetByID(ctx, assessmentID); err != nil {
		return nil, err
	}

	offerings, err := s.repo.Offering().ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list offerings: %w", err)
	}
	return offerings, nil
}
