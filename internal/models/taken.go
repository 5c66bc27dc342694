package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Offering is a scheduled instance of an assessment.
type Offering struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	AssessmentID uint `json:"assessment_id" gorm:"not null;index"`
	BankID       uint `json:"bank_id" gorm:"not null;index"`

	StartTime   *time.Time `json:"start_time,omitempty"`
	Duration    *int       `json:"duration,omitempty" validate:"omitempty,min=1"` // minutes
	MaxAttempts *int       `json:"max_attempts,omitempty" validate:"omitempty,min=1"`

	// Review options gate what a taken may reveal after a submission.
	ReviewWhetherCorrect bool `json:"review_whether_correct" gorm:"default:true"`
	ReviewSolution       bool `json:"review_solution" gorm:"default:false"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Offering) TableName() string {
	return "offerings"
}

// Taken is one student's attempt at an offering.
type Taken struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	OfferingID uint `json:"offering_id" gorm:"not null;index"`

	TakerID     string     `json:"taker_id" gorm:"not null;size:255;index"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Offering Offering `json:"offering" gorm:"foreignKey:OfferingID"`
}

func (Taken) TableName() string {
	return "takens"
}

// Response is the persisted raw submission for one (taken, question) pair.
// The scoring engine never reads it directly on submit; status lookup replays
// the stored payload through the same normalize/evaluate pipeline.
type Response struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	TakenID    uint `json:"taken_id" gorm:"not null;index;uniqueIndex:idx_taken_question"`
	QuestionID uint `json:"question_id" gorm:"not null;index;uniqueIndex:idx_taken_question"`

	Kind    AnswerKind     `json:"kind" gorm:"not null;size:50"`
	Payload datatypes.JSON `json:"payload" gorm:"type:jsonb"`

	Surrendered bool `json:"surrendered" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Response) TableName() string {
	return "responses"
}
