package postgres

import (
	"context"
	"time"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/MC3-2026/assessment-delivery-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ===== OFFERINGS =====

type OfferingPostgreSQL struct {
	db *gorm.DB
}

func NewOfferingPostgreSQL(db *gorm.DB) repositories.OfferingRepository {
	return &OfferingPostgreSQL{db: db}
}

func (o *OfferingPostgreSQL) Create(ctx context.Context, offering *models.Offering) error {
	return o.db.WithContext(ctx).Create(offering).Error
}

func (o *OfferingPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Offering, error) {
	var offering models.Offering
	if err := o.db.WithContext(ctx).First(&offering, id).Error; err != nil {
		return nil, err
	}
	return &offering, nil
}

func (o *OfferingPostgreSQL) Update(ctx context.Context, offering *models.Offering) error {
	return o.db.WithContext(ctx).Save(offering).Error
}

func (o *OfferingPostgreSQL) Delete(ctx context.Context, id uint) error {
	return o.db.WithContext(ctx).Delete(&models.Offering{}, id).Error
}

func (o *OfferingPostgreSQL) ListByAssessment(ctx context.Context, assessmentID uint) ([]*models.Offering, error) {
	var offerings []*models.Offering
	if err := o.db.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("created_at desc").
		Find(&offerings).Error; err != nil {
		return nil, err
	}
	return offerings, nil
}

// ===== TAKENS =====

type TakenPostgreSQL struct {
	db *gorm.DB
}

func NewTakenPostgreSQL(db *gorm.DB) repositories.TakenRepository {
	return &TakenPostgreSQL{db: db}
}

func (t *TakenPostgreSQL) Create(ctx context.Context, taken *models.Taken) error {
	return t.db.WithContext(ctx).Create(taken).Error
}

func (t *TakenPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Taken, error) {
	var taken models.Taken
	if err := t.db.WithContext(ctx).First(&taken, id).Error; err != nil {
		return nil, err
	}
	return &taken, nil
}

func (t *TakenPostgreSQL) GetByIDWithOffering(ctx context.Context, id uint) (*models.Taken, error) {
	var taken models.Taken
	if err := t.db.WithContext(ctx).Preload("Offering").First(&taken, id).Error; err != nil {
		return nil, err
	}
	return &taken, nil
}

func (t *TakenPostgreSQL) Update(ctx context.Context, taken *models.Taken) error {
	return t.db.WithContext(ctx).Save(taken).Error
}

func (t *TakenPostgreSQL) Delete(ctx context.Context, id uint) error {
	return t.db.WithContext(ctx).Delete(&models.Taken{}, id).Error
}

func (t *TakenPostgreSQL) List(ctx context.Context, filters repositories.TakenFilters) ([]*models.Taken, int64, error) {
	var takens []*models.Taken
	var total int64

	query := t.db.WithContext(ctx).Model(&models.Taken{})
	if filters.OfferingID != nil {
		query = query.Where("offering_id = ?", *filters.OfferingID)
	}
	if filters.TakerID != nil {
		query = query.Where("taker_id = ?", *filters.TakerID)
	}
	if filters.Completed != nil {
		if *filters.Completed {
			query = query.Where("completed_at IS NOT NULL")
		} else {
			query = query.Where("completed_at IS NULL")
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query.Order("created_at desc"), filters.Limit, filters.Offset)
	if err := query.Preload("Offering").Find(&takens).Error; err != nil {
		return nil, 0, err
	}
	return takens, total, nil
}

func (t *TakenPostgreSQL) CountByOfferingAndTaker(ctx context.Context, offeringID uint, takerID string) (int, error) {
	var count int64
	if err := t.db.WithContext(ctx).Model(&models.Taken{}).
		Where("offering_id = ? AND taker_id = ?", offeringID, takerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// ===== RESPONSES =====

type ResponsePostgreSQL struct {
	db *gorm.DB
}

func NewResponsePostgreSQL(db *gorm.DB) repositories.ResponseRepository {
	return &ResponsePostgreSQL{db: db}
}

// Upsert keeps one row per (taken, question); a re-submission overwrites the
// stored payload.
func (r *ResponsePostgreSQL) Upsert(ctx context.Context, response *models.Response) error {
	response.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "taken_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"kind", "payload", "surrendered", "updated_at",
		}),
	}).Create(response).Error
}

func (r *ResponsePostgreSQL) GetByTakenAndQuestion(ctx context.Context, takenID, questionID uint) (*models.Response, error) {
	var response models.Response
	if err := r.db.WithContext(ctx).
		Where("taken_id = ? AND question_id = ?", takenID, questionID).
		First(&response).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *ResponsePostgreSQL) ListByTaken(ctx context.Context, takenID uint) ([]*models.Response, error) {
	var responses []*models.Response
	if err := r.db.WithContext(ctx).
		Where("taken_id = ?", takenID).
		Order("question_id").
		Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

// ===== USERS =====

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) Upsert(ctx context.Context, user *models.User) error {
	return u.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "email", "last_login_at", "updated_at"}),
	}).Create(user).Error
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
