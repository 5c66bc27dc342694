package postgres

import (
	"context"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/MC3-2026/assessment-delivery-service/internal/repositories"
	"gorm.io/gorm"
)

type ItemPostgreSQL struct {
	db *gorm.DB
}

func NewItemPostgreSQL(db *gorm.DB) repositories.ItemRepository {
	return &ItemPostgreSQL{db: db}
}

func (i *ItemPostgreSQL) Create(ctx context.Context, item *models.Item) error {
	return i.db.WithContext(ctx).Create(item).Error
}

func (i *ItemPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := i.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (i *ItemPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := i.db.WithContext(ctx).
		Preload("Question").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, id")
		}).
		First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (i *ItemPostgreSQL) GetByQuestionID(ctx context.Context, questionID uint) (*models.Item, error) {
	var question models.Question
	if err := i.db.WithContext(ctx).First(&question, questionID).Error; err != nil {
		return nil, err
	}
	return i.GetByIDWithDetails(ctx, question.ItemID)
}

func (i *ItemPostgreSQL) Update(ctx context.Context, item *models.Item) error {
	return i.db.WithContext(ctx).Save(item).Error
}

func (i *ItemPostgreSQL) Delete(ctx context.Context, id uint) error {
	return i.db.WithContext(ctx).Delete(&models.Item{}, id).Error
}

func (i *ItemPostgreSQL) List(ctx context.Context, filters repositories.ItemFilters) ([]*models.Item, int64, error) {
	var items []*models.Item
	var total int64

	query := i.db.WithContext(ctx).Model(&models.Item{})
	if filters.BankID != nil {
		query = query.Where("bank_id = ?", *filters.BankID)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.Kind != nil {
		query = query.Joins("JOIN questions ON questions.item_id = items.id").
			Where("questions.kind = ?", *filters.Kind)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applySort(query, filters.SortBy, filters.SortOrder, map[string]bool{
		"created_at":   true,
		"display_name": true,
	})
	query = applyPagination(query, filters.Limit, filters.Offset)

	if err := query.Preload("Question").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (i *ItemPostgreSQL) GetQuestion(ctx context.Context, itemID uint) (*models.Question, error) {
	var question models.Question
	if err := i.db.WithContext(ctx).Where("item_id = ?", itemID).First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// GetAnswers returns the item's answers in store order. Evaluation is
// first-match-wins over this ordering.
func (i *ItemPostgreSQL) GetAnswers(ctx context.Context, itemID uint) ([]models.Answer, error) {
	var answers []models.Answer
	if err := i.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("display_order, id").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (i *ItemPostgreSQL) CreateAnswer(ctx context.Context, answer *models.Answer) error {
	return i.db.WithContext(ctx).Create(answer).Error
}

func (i *ItemPostgreSQL) UpdateAnswer(ctx context.Context, answer *models.Answer) error {
	return i.db.WithContext(ctx).Save(answer).Error
}

func (i *ItemPostgreSQL) DeleteAnswer(ctx context.Context, answerID uint) error {
	return i.db.WithContext(ctx).Delete(&models.Answer{}, answerID).Error
}

func (i *ItemPostgreSQL) UpdateQuestion(ctx context.Context, question *models.Question) error {
	return i.db.WithContext(ctx).Save(question).Error
}
