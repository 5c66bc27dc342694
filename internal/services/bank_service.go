package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/MC3-2026/assessment-delivery-service/internal/repositories"
	"github.com/MC3-2026/assessment-delivery-service/internal/validator"
)

// BankService manages assessment banks, the top-level containers for items
// and assessments.
type BankService interface {
	Create(ctx context.Context, req *CreateBankRequest, creatorID string) (*models.Bank, error)
	GetByID(ctx context.Context, id uint) (*models.Bank, error)
	Update(ctx context.Context, id uint, req *UpdateBankRequest, userID string) (*models.Bank, error)
	Delete(ctx context.Context, id uint, userID string) error
	List(ctx context.Context, filters repositories.BankFilters) (*BankListResponse, error)
}

type CreateBankRequest struct {
	DisplayName string  `json:"display_name" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type UpdateBankRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type BankListResponse struct {
	Banks []*models.Bank `json:"banks"`
	Total int64          `json:"total"`
}

type bankService struct {
	repo      repositories.Repository
	opLogger  *ServiceLogger
	validator *validator.Validator
}

func NewBankService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) BankService {
	return &bankService{
		repo:      repo,
		opLogger:  NewServiceLogger(logger, "bank_service"),
		validator: validator,
	}
}

func (s *bankService) Create(ctx context.Context, req *CreateBankRequest, creatorID string) (result *models.Bank, err error) {
	op := s.opLogger.WithOperation(ctx, "create_bank", creatorID)
	defer func() {
		var bankID uint
		if result != nil {
			bankID = result.ID
		}
		op.LogResult(bankID, "bank", err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	bank := &models.Bank{
		DisplayName: req.DisplayName,
		Description: req.Description,
		CreatedBy:   creatorID,
	}

	if err := s.repo.Bank().Create(ctx, bank); err != nil {
		return nil, fmt.Errorf("failed to create bank: %w", err)
	}

	return bank, nil
}

func (s *bankService) GetByID(ctx context.Context, id uint) (*models.Bank, error) {
	bank, err := s.repo.Bank().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBankNotFound
		}
		return nil, fmt.Errorf("failed to get bank: %w", err)
	}
	return bank, nil
}

func (s *bankService) Update(ctx context.Context, id uint, req *UpdateBankRequest, userID string) (result *models.Bank, err error) {
	op := s.opLogger.WithOperation(ctx, "update_bank", userID)
	defer func() { op.LogResult(id, "bank", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	bank, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if bank.CreatedBy != userID {
		return nil, NewPermissionError(userID, id, "bank", "update", "not the bank owner")
	}

	if req.DisplayName != nil {
		bank.DisplayName = *req.DisplayName
	}
	if req.Description != nil {
		bank.Description = req.Description
	}

	if err := s.repo.Bank().Update(ctx, bank); err != nil {
		return nil, fmt.Errorf("failed to update bank: %w", err)
	}

	return bank, nil
}

func (s *bankService) Delete(ctx context.Context, id uint, userID string) (err error) {
	op := s.opLogger.WithOperation(ctx, "delete_bank", userID)
	defer func() { op.LogResult(id, "bank", err) }()

	bank, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if bank.CreatedBy != userID {
		return NewPermissionError(userID, id, "bank", "delete", "not the bank owner")
	}

	bankID := id
	items, _, err := s.repo.Item().List(ctx, repositories.ItemFilters{BankID: &bankID, Limit: 1})
	if err != nil {
		return fmt.Errorf("failed to check bank items: %w", err)
	}
	if len(items) > 0 {
		return ErrBankNotDeletable
	}

	if err := s.repo.Bank().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete bank: %w", err)
	}

	return nil
}

func (s *bankService) List(ctx context.Context, filters repositories.BankFilters) (*BankListResponse, error) {
	banks, total, err := s.repo.Bank().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}
	return &BankListResponse{Banks: banks, Total: total}, nil
}
