package validator

import (
	"fmt"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
)

// ItemValidator handles kind-specific validation of question and answer
// content. Struct tags cover the shared columns; this covers the per-kind
// column combinations tags cannot express. Failures are ValidationError
// values so handlers map them to client errors.
type ItemValidator struct{}

// NewItemValidator creates a new item content validator
func NewItemValidator() *ItemValidator {
	return &ItemValidator{}
}

// ValidateQuestion checks the kind-specific content of a question
func (v *ItemValidator) ValidateQuestion(question *models.Question) error {
	if question.Text == "" {
		return NewValidationError("text", "question text is required", nil)
	}

	if _, ok := models.ParseAnswerKind(string(question.Kind)); !ok {
		return NewValidationError("kind", "unsupported question kind", string(question.Kind))
	}

	if question.Kind.IsMultipleChoice() {
		return v.validateChoices(question.ChoiceList())
	}

	return nil
}

// ValidateAnswer checks that an answer carries the value columns its kind
// requires
func (v *ItemValidator) ValidateAnswer(answer *models.Answer) error {
	if _, ok := models.ParseAnswerKind(string(answer.Kind)); !ok {
		return NewValidationError("kind", "unsupported answer kind", string(answer.Kind))
	}

	switch answer.Kind {
	case models.KindShortText:
		if answer.Text == nil || *answer.Text == "" {
			return NewValidationError("text", "short text answer requires text", nil)
		}
	case models.KindLabelOrthoFaces:
		if answer.FrontFaceValue == nil || answer.SideFaceValue == nil || answer.TopFaceValue == nil {
			return NewValidationError("face_values", "ortho faces answer requires front, side and top face values", nil)
		}
	case models.KindEulerRotation:
		if answer.XAngle == nil || answer.YAngle == nil || answer.ZAngle == nil {
			return NewValidationError("angles", "euler rotation answer requires x, y and z angles", nil)
		}
	case models.KindMultiChoiceOrtho, models.KindMultiChoiceEdx:
		if len(answer.ChoiceIDList()) == 0 {
			return NewValidationError("choice_ids", "multiple choice answer requires at least one choice id", nil)
		}
	case models.KindNumericResponse:
		if answer.Decimal == nil {
			return NewValidationError("decimal", "numeric answer requires a decimal value", nil)
		}
		if answer.Tolerance != nil && *answer.Tolerance < 0 {
			return NewValidationError("tolerance", "numeric answer tolerance must not be negative", *answer.Tolerance)
		}
	case models.KindFilesSubmission:
		// no value columns
	}

	if answer.Genus == models.GenusWrongAnswer && answer.Feedback == nil {
		return NewValidationError("feedback", "wrong answer requires feedback text", nil)
	}

	return nil
}

// ValidateItem validates an item together with its question and answers
func (v *ItemValidator) ValidateItem(item *models.Item) error {
	if item.DisplayName == "" {
		return NewValidationError("display_name", "item display name is required", nil)
	}

	if item.Question != nil {
		if err := v.ValidateQuestion(item.Question); err != nil {
			return fmt.Errorf("question: %w", err)
		}
	}

	for i := range item.Answers {
		if err := v.ValidateAnswer(&item.Answers[i]); err != nil {
			return fmt.Errorf("answer %d: %w", i+1, err)
		}
		if item.Question != nil && item.Answers[i].Kind != item.Question.Kind {
			return NewValidationError("answers",
				fmt.Sprintf("answer %d kind %s does not match question kind %s",
					i+1, item.Answers[i].Kind, item.Question.Kind), nil)
		}
	}

	return nil
}

func (v *ItemValidator) validateChoices(choices []models.Choice) error {
	if len(choices) < 2 {
		return NewValidationError("choices", "multiple choice question requires at least 2 choices", len(choices))
	}

	seen := make(map[string]bool, len(choices))
	for _, choice := range choices {
		if choice.ID == "" {
			return NewValidationError("choices", "choice id cannot be empty", nil)
		}
		if choice.Text == "" {
			return NewValidationError("choices", "choice text cannot be empty", choice.ID)
		}
		if seen[choice.ID] {
			return NewValidationError("choices", "duplicate choice id", choice.ID)
		}
		seen[choice.ID] = true
	}

	return nil
}
