package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Item is an assessment question unit. It owns exactly one Question and
// one-or-more Answers.
type Item struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	BankID      uint    `json:"bank_id" gorm:"not null;index"`
	DisplayName string  `json:"display_name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Genus       *string `json:"genus,omitempty" gorm:"size:100"`

	LearningObjectiveIDs datatypes.JSON `json:"learning_objective_ids,omitempty" gorm:"type:jsonb"` // []string

	// Solution is the stored explanation surfaced as feedback on a correct
	// submission, when the offering's review options allow it.
	Solution *string `json:"solution,omitempty" gorm:"type:text"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:255;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Question *Question `json:"question,omitempty" gorm:"foreignKey:ItemID"`
	Answers  []Answer  `json:"answers,omitempty" gorm:"foreignKey:ItemID"`
}

func (Item) TableName() string {
	return "items"
}

func (i *Item) ObjectiveIDs() []string {
	return decodeStringList(i.LearningObjectiveIDs)
}

// Choice is one selectable option of a multiple-choice question.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Name string `json:"name"`
}

// Question carries the student-facing side of an item. Identity is immutable;
// content may be edited by the bank owner.
type Question struct {
	ID     uint       `json:"id" gorm:"primaryKey"`
	ItemID uint       `json:"item_id" gorm:"uniqueIndex;not null"`
	Kind   AnswerKind `json:"kind" gorm:"not null;size:50" validate:"required,answer_kind"`
	Text   string     `json:"text" gorm:"not null;type:text" validate:"required"`

	// multi-choice kinds
	Choices     datatypes.JSON `json:"choices,omitempty" gorm:"type:jsonb"` // []Choice
	Rerandomize *string        `json:"rerandomize,omitempty" gorm:"size:30"`

	// ortho kinds
	FirstAngle *bool `json:"first_angle,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// ChoiceList decodes the stored choice column in authored order.
func (q *Question) ChoiceList() []Choice {
	if len(q.Choices) == 0 {
		return nil
	}
	var out []Choice
	if err := json.Unmarshal(q.Choices, &out); err != nil {
		return nil
	}
	return out
}

// EncodeChoices is the write-side counterpart of ChoiceList.
func EncodeChoices(choices []Choice) datatypes.JSON {
	if len(choices) == 0 {
		return nil
	}
	raw, err := json.Marshal(choices)
	if err != nil {
		return nil
	}
	return raw
}
