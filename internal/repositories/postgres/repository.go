package postgres

import (
	"context"

	"github.com/MC3-2026/assessment-delivery-service/internal/repositories"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB

	bank       repositories.BankRepository
	item       repositories.ItemRepository
	assessment repositories.AssessmentRepository
	offering   repositories.OfferingRepository
	taken      repositories.TakenRepository
	response   repositories.ResponseRepository
	user       repositories.UserRepository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		bank:       NewBankPostgreSQL(db),
		item:       NewItemPostgreSQL(db),
		assessment: NewAssessmentPostgreSQL(db),
		offering:   NewOfferingPostgreSQL(db),
		taken:      NewTakenPostgreSQL(db),
		response:   NewResponsePostgreSQL(db),
		user:       NewUserPostgreSQL(db),
	}
}

func (r *Repository) Bank() repositories.BankRepository { return r.bank }

func (r *Repository) Item() repositories.ItemRepository { return r.item }

func (r *Repository) Assessment() repositories.AssessmentRepository { return r.assessment }

func (r *Repository) Offering() repositories.OfferingRepository { return r.offering }

func (r *Repository) Taken() repositories.TakenRepository { return r.taken }

func (r *Repository) Response() repositories.ResponseRepository { return r.response }

func (r *Repository) User() repositories.UserRepository { return r.user }

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
