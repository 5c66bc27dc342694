package postgres

import (
	"context"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/MC3-2026/assessment-delivery-service/internal/repositories"
	"gorm.io/gorm"
)

type BankPostgreSQL struct {
	db *gorm.DB
}

func NewBankPostgreSQL(db *gorm.DB) repositories.BankRepository {
	return &BankPostgreSQL{db: db}
}

func (b *BankPostgreSQL) Create(ctx context.Context, bank *models.Bank) error {
	return b.db.WithContext(ctx).Create(bank).Error
}

func (b *BankPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Bank, error) {
	var bank models.Bank
	if err := b.db.WithContext(ctx).First(&bank, id).Error; err != nil {
		return nil, err
	}
	return &bank, nil
}

func (b *BankPostgreSQL) Update(ctx context.Context, bank *models.Bank) error {
	return b.db.WithContext(ctx).Save(bank).Error
}

func (b *BankPostgreSQL) Delete(ctx context.Context, id uint) error {
	return b.db.WithContext(ctx).Delete(&models.Bank{}, id).Error
}

func (b *BankPostgreSQL) List(ctx context.Context, filters repositories.BankFilters) ([]*models.Bank, int64, error) {
	var banks []*models.Bank
	var total int64

	query := b.db.WithContext(ctx).Model(&models.Bank{})
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applySort(query, filters.SortBy, filters.SortOrder, map[string]bool{
		"created_at":   true,
		"display_name": true,
	})
	query = applyPagination(query, filters.Limit, filters.Offset)

	if err := query.Find(&banks).Error; err != nil {
		return nil, 0, err
	}
	return banks, total, nil
}
