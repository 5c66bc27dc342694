package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// AnswerKind is the record kind shared by questions, answers and responses.
// The tag spelling matters: dispatch in the scoring engine is exact-match.
type AnswerKind string

const (
	KindShortText        AnswerKind = "short-text-answer"
	KindLabelOrthoFaces  AnswerKind = "label-ortho-faces"
	KindEulerRotation    AnswerKind = "euler-rotation"
	KindMultiChoiceOrtho AnswerKind = "multi-choice-ortho"
	KindMultiChoiceEdx   AnswerKind = "multi-choice-edx"
	KindFilesSubmission  AnswerKind = "files-submission"
	KindNumericResponse  AnswerKind = "numeric-response-edx"
)

// ParseAnswerKind rejects unknown kind tags at the boundary so the scoring
// engine never sees a tag outside the closed set.
func ParseAnswerKind(tag string) (AnswerKind, bool) {
	switch AnswerKind(tag) {
	case KindShortText, KindLabelOrthoFaces, KindEulerRotation,
		KindMultiChoiceOrtho, KindMultiChoiceEdx, KindFilesSubmission,
		KindNumericResponse:
		return AnswerKind(tag), true
	}
	return "", false
}

func (k AnswerKind) IsMultipleChoice() bool {
	return k == KindMultiChoiceOrtho || k == KindMultiChoiceEdx
}

type AnswerGenus string

const (
	GenusRightAnswer AnswerGenus = "right-answer"
	GenusWrongAnswer AnswerGenus = "wrong-answer"

	// GenusDefault is the framework placeholder genus assigned when an answer
	// was stored without an explicit genus. Treated as a right answer.
	GenusDefault AnswerGenus = "default"
)

// IsRightAnswer is the single place that decides genus equivalence.
func IsRightAnswer(genus AnswerGenus) bool {
	return genus == GenusRightAnswer || genus == GenusDefault || genus == ""
}

// Answer is one stored candidate answer for an item. Value columns are
// kind-specific; only the columns matching Kind are populated.
type Answer struct {
	ID     uint        `json:"id" gorm:"primaryKey"`
	ItemID uint        `json:"item_id" gorm:"not null;index"`
	Kind   AnswerKind  `json:"kind" gorm:"not null;size:50" validate:"required,answer_kind"`
	Genus  AnswerGenus `json:"genus" gorm:"default:right-answer;size:50" validate:"omitempty,answer_genus"`

	// short-text-answer
	Text *string `json:"text,omitempty" gorm:"type:text"`

	// label-ortho-faces
	FrontFaceValue *int `json:"front_face_value,omitempty"`
	SideFaceValue  *int `json:"side_face_value,omitempty"`
	TopFaceValue   *int `json:"top_face_value,omitempty"`

	// euler-rotation
	XAngle *int `json:"x_angle,omitempty"`
	YAngle *int `json:"y_angle,omitempty"`
	ZAngle *int `json:"z_angle,omitempty"`

	// numeric-response-edx
	Decimal   *float64 `json:"decimal,omitempty"`
	Tolerance *float64 `json:"tolerance,omitempty" validate:"omitempty,min=0"`

	// multi-choice-ortho / multi-choice-edx
	ChoiceIDs datatypes.JSON `json:"choice_ids,omitempty" gorm:"type:jsonb"` // []string

	// wrong-answer extras
	Feedback                     *string        `json:"feedback,omitempty" gorm:"type:text"`
	ConfusedLearningObjectiveIDs datatypes.JSON `json:"confused_learning_objective_ids,omitempty" gorm:"type:jsonb"` // []string

	// Store order. Evaluation is first-match-wins over this order.
	Order int `json:"order" gorm:"column:display_order;default:0;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Answer) TableName() string {
	return "answers"
}

// ChoiceIDList decodes the stored choice id column. A nil or malformed column
// decodes to an empty list.
func (a *Answer) ChoiceIDList() []string {
	return decodeStringList(a.ChoiceIDs)
}

// ConfusedObjectiveIDs decodes the confused learning objective id column.
func (a *Answer) ConfusedObjectiveIDs() []string {
	return decodeStringList(a.ConfusedLearningObjectiveIDs)
}

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// EncodeStringList is the write-side counterpart of decodeStringList.
func EncodeStringList(values []string) datatypes.JSON {
	if len(values) == 0 {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return raw
}
