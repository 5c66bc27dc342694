package validator

import (
	"testing"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestValidateQuestion_RequiresText(t *testing.T) {
	v := NewItemValidator()

	err := v.ValidateQuestion(&models.Question{Kind: models.KindShortText})

	assert.Error(t, err)
}

func TestValidateQuestion_RejectsUnknownKind(t *testing.T) {
	v := NewItemValidator()

	err := v.ValidateQuestion(&models.Question{Kind: "essay", Text: "Explain."})

	assert.Error(t, err)
}

func TestValidateQuestion_MultiChoiceNeedsTwoChoices(t *testing.T) {
	v := NewItemValidator()

	question := &models.Question{
		Kind: models.KindMultiChoiceEdx,
		Text: "Pick one",
		Choices: models.EncodeChoices([]models.Choice{
			{ID: "c1", Text: "Only option", Name: "Choice 1"},
		}),
	}

	err := v.ValidateQuestion(question)

	assert.Error(t, err)
}

func TestValidateQuestion_RejectsDuplicateChoiceIDs(t *testing.T) {
	v := NewItemValidator()

	question := &models.Question{
		Kind: models.KindMultiChoiceOrtho,
		Text: "Pick one",
		Choices: models.EncodeChoices([]models.Choice{
			{ID: "c1", Text: "First", Name: "Choice 1"},
			{ID: "c1", Text: "Second", Name: "Choice 2"},
		}),
	}

	err := v.ValidateQuestion(question)

	assert.Error(t, err)
}

func TestValidateAnswer_KindColumns(t *testing.T) {
	v := NewItemValidator()

	tests := []struct {
		name    string
		answer  models.Answer
		wantErr bool
	}{
		{
			name:   "short text with text",
			answer: models.Answer{Kind: models.KindShortText, Text: strPtr("orthographic")},
		},
		{
			name:    "short text without text",
			answer:  models.Answer{Kind: models.KindShortText},
			wantErr: true,
		},
		{
			name: "ortho faces complete",
			answer: models.Answer{
				Kind:           models.KindLabelOrthoFaces,
				FrontFaceValue: intPtr(1), SideFaceValue: intPtr(2), TopFaceValue: intPtr(3),
			},
		},
		{
			name: "ortho faces missing top",
			answer: models.Answer{
				Kind:           models.KindLabelOrthoFaces,
				FrontFaceValue: intPtr(1), SideFaceValue: intPtr(2),
			},
			wantErr: true,
		},
		{
			name: "euler rotation complete",
			answer: models.Answer{
				Kind:   models.KindEulerRotation,
				XAngle: intPtr(90), YAngle: intPtr(0), ZAngle: intPtr(270),
			},
		},
		{
			name:    "multi choice without choice ids",
			answer:  models.Answer{Kind: models.KindMultiChoiceEdx},
			wantErr: true,
		},
		{
			name: "numeric with negative tolerance",
			answer: models.Answer{
				Kind:    models.KindNumericResponse,
				Decimal: floatPtr(3.14), Tolerance: floatPtr(-0.1),
			},
			wantErr: true,
		},
		{
			name:   "files submission has no value columns",
			answer: models.Answer{Kind: models.KindFilesSubmission},
		},
		{
			name: "wrong answer without feedback",
			answer: models.Answer{
				Kind:      models.KindMultiChoiceEdx,
				Genus:     models.GenusWrongAnswer,
				ChoiceIDs: models.EncodeStringList([]string{"c2"}),
			},
			wantErr: true,
		},
		{
			name: "wrong answer with feedback",
			answer: models.Answer{
				Kind:      models.KindMultiChoiceEdx,
				Genus:     models.GenusWrongAnswer,
				ChoiceIDs: models.EncodeStringList([]string{"c2"}),
				Feedback:  strPtr("That is the side view."),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateAnswer(&tt.answer)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateItem_AnswerKindMustMatchQuestion(t *testing.T) {
	v := NewItemValidator()

	item := &models.Item{
		DisplayName: "Numeric item",
		Question: &models.Question{
			Kind: models.KindNumericResponse,
			Text: "What is the measured length?",
		},
		Answers: []models.Answer{
			{Kind: models.KindShortText, Text: strPtr("ten")},
		},
	}

	err := v.ValidateItem(item)

	assert.Error(t, err)
}
