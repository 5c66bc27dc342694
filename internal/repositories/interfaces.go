package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type BankFilters struct {
	CreatedBy *string    `json:"created_by"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "created_at", "display_name"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

type ItemFilters struct {
	BankID    *uint              `json:"bank_id"`
	Kind      *models.AnswerKind `json:"kind"`
	CreatedBy *string            `json:"created_by"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	SortBy    string             `json:"sort_by"`
	SortOrder string             `json:"sort_order"`
}

type TakenFilters struct {
	OfferingID *uint   `json:"offering_id"`
	TakerID    *string `json:"taker_id"`
	Completed  *bool   `json:"completed"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

type BankRepository interface {
	Create(ctx context.Context, bank *models.Bank) error
	GetByID(ctx context.Context, id uint) (*models.Bank, error)
	Update(ctx context.Context, bank *models.Bank) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters BankFilters) ([]*models.Bank, int64, error)
}

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uint) (*models.Item, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Item, error)
	GetByQuestionID(ctx context.Context, questionID uint) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters ItemFilters) ([]*models.Item, int64, error)

	// Question / answer access. GetAnswers returns answers in store order;
	// the evaluator's first-match-wins rule depends on that ordering.
	GetQuestion(ctx context.Context, itemID uint) (*models.Question, error)
	GetAnswers(ctx context.Context, itemID uint) ([]models.Answer, error)
	CreateAnswer(ctx context.Context, answer *models.Answer) error
	UpdateAnswer(ctx context.Context, answer *models.Answer) error
	DeleteAnswer(ctx context.Context, answerID uint) error
	UpdateQuestion(ctx context.Context, question *models.Question) error
}

type AssessmentRepository interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	GetByID(ctx context.Context, id uint) (*models.Assessment, error)
	GetByIDWithItems(ctx context.Context, id uint) (*models.Assessment, error)
	Update(ctx context.Context, assessment *models.Assessment) error
	Delete(ctx context.Context, id uint) error
	ListByBank(ctx context.Context, bankID uint) ([]*models.Assessment, error)

	AddItem(ctx context.Context, assessmentID, itemID uint, order int) error
	RemoveItem(ctx context.Context, assessmentID, itemID uint) error
	GetItems(ctx context.Context, assessmentID uint) ([]models.AssessmentItem, error)
}

type OfferingRepository interface {
	Create(ctx context.Context, offering *models.Offering) error
	GetByID(ctx context.Context, id uint) (*models.Offering, error)
	Update(ctx context.Context, offering *models.Offering) error
	Delete(ctx context.Context, id uint) error
	ListByAssessment(ctx context.Context, assessmentID uint) ([]*models.Offering, error)
}

type TakenRepository interface {
	Create(ctx context.Context, taken *models.Taken) error
	GetByID(ctx context.Context, id uint) (*models.Taken, error)
	GetByIDWithOffering(ctx context.Context, id uint) (*models.Taken, error)
	Update(ctx context.Context, taken *models.Taken) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters TakenFilters) ([]*models.Taken, int64, error)
	CountByOfferingAndTaker(ctx context.Context, offeringID uint, takerID string) (int, error)
}

type ResponseRepository interface {
	// Upsert records the latest raw submission for a (taken, question) pair.
	Upsert(ctx context.Context, response *models.Response) error
	GetByTakenAndQuestion(ctx context.Context, takenID, questionID uint) (*models.Response, error)
	ListByTaken(ctx context.Context, takenID uint) ([]*models.Response, error)
}

type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Repository aggregates the content store contracts consumed by services.
type Repository interface {
	Bank() BankRepository
	Item() ItemRepository
	Assessment() AssessmentRepository
	Offering() OfferingRepository
	Taken() TakenRepository
	Response() ResponseRepository
	User() UserRepository

	Ping(ctx context.Context) error
	Close() error
}

// IsNotFoundError reports whether err is the store's record-not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
