package postgres

import (
	"context"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/MC3-2026/assessment-delivery-service/internal/repositories"
	"gorm.io/gorm"
)

type AssessmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssessmentPostgreSQL(db *gorm.DB) repositories.AssessmentRepository {
	return &AssessmentPostgreSQL{db: db}
}

func (a *AssessmentPostgreSQL) Create(ctx context.Context, assessment *models.Assessment) error {
	return a.db.WithContext(ctx).Create(assessment).Error
}

func (a *AssessmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	var assessment models.Assessment
	if err := a.db.WithContext(ctx).First(&assessment, id).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (a *AssessmentPostgreSQL) GetByIDWithItems(ctx context.Context, id uint) (*models.Assessment, error) {
	var assessment models.Assessment
	if err := a.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, id")
		}).
		Preload("Items.Item").
		Preload("Items.Item.Question").
		First(&assessment, id).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (a *AssessmentPostgreSQL) Update(ctx context.Context, assessment *models.Assessment) error {
	return a.db.WithContext(ctx).Save(assessment).Error
}

func (a *AssessmentPostgreSQL) Delete(ctx context.Context, id uint) error {
	return a.db.WithContext(ctx).Delete(&models.Assessment{}, id).Error
}

func (a *AssessmentPostgreSQL) ListByBank(ctx context.Context, bankID uint) ([]*models.Assessment, error) {
	var assessments []*models.Assessment
	if err := a.db.WithContext(ctx).
		Where("bank_id = ?", bankID).
		Order("created_at desc").
		Find(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

func (a *AssessmentPostgreSQL) AddItem(ctx context.Context, assessmentID, itemID uint, order int) error {
	link := models.AssessmentItem{
		AssessmentID: assessmentID,
		ItemID:       itemID,
		Order:        order,
	}
	return a.db.WithContext(ctx).Create(&link).Error
}

func (a *AssessmentPostgreSQL) RemoveItem(ctx context.Context, assessmentID, itemID uint) error {
	return a.db.WithContext(ctx).
		Where("assessment_id = ? AND item_id = ?", assessmentID, itemID).
		Delete(&models.AssessmentItem{}).Error
}

func (a *AssessmentPostgreSQL) GetItems(ctx context.Context, assessmentID uint) ([]models.AssessmentItem, error) {
	var links []models.AssessmentItem
	if err := a.db.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("display_order, id").
		Preload("Item").
		Preload("Item.Question").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
