package models

import (
	"time"

	"gorm.io/gorm"
)

// Bank is the top-level container for items and assessments.
type Bank struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	DisplayName string  `json:"display_name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:255;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Items       []Item       `json:"items,omitempty" gorm:"foreignKey:BankID"`
	Assessments []Assessment `json:"assessments,omitempty" gorm:"foreignKey:BankID"`
}

func (Bank) TableName() string {
	return "banks"
}

// Assessment is an ordered collection of items within a bank.
type Assessment struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	BankID      uint    `json:"bank_id" gorm:"not null;index"`
	DisplayName string  `json:"display_name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:255;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Items     []AssessmentItem `json:"items,omitempty" gorm:"foreignKey:AssessmentID"`
	Offerings []Offering       `json:"offerings,omitempty" gorm:"foreignKey:AssessmentID"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// AssessmentItem links an item into an assessment at a position.
type AssessmentItem struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	AssessmentID uint `json:"assessment_id" gorm:"not null;index;uniqueIndex:idx_assessment_item"`
	ItemID       uint `json:"item_id" gorm:"not null;index;uniqueIndex:idx_assessment_item"`
	Order        int  `json:"order" gorm:"column:display_order;default:0"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Item Item `json:"item" gorm:"foreignKey:ItemID"`
}

func (AssessmentItem) TableName() string {
	return "assessment_items"
}
