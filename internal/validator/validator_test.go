package validator

import (
	"errors"
	"testing"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct_ReturnsTypedErrors(t *testing.T) {
	v := New()

	req := struct {
		DisplayName string `json:"display_name" validate:"required,max=200"`
		Kind        string `json:"kind" validate:"required,answer_kind"`
	}{
		Kind: "essay",
	}

	err := v.ValidateStruct(&req)
	require.Error(t, err)

	var converted ValidationErrors
	require.True(t, errors.As(err, &converted))
	require.Len(t, converted, 2)

	assert.Equal(t, "display_name", converted[0].Field)
	assert.Equal(t, "is required", converted[0].Message)
	assert.Equal(t, "kind", converted[1].Field)
	assert.Equal(t, "answer_kind", converted[1].Rule)
}

func TestValidate_ContentFailureIsTypedError(t *testing.T) {
	v := New()

	answer := &models.Answer{
		Kind:  models.KindNumericResponse,
		Genus: models.GenusRightAnswer,
	}

	err := v.Validate(answer)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "decimal", ve.Field)
}

func TestValidateItem_WrapsAnswerErrors(t *testing.T) {
	v := NewItemValidator()

	item := &models.Item{
		DisplayName: "Projection item",
		Question: &models.Question{
			Kind: models.KindShortText,
			Text: "Name the view.",
		},
		Answers: []models.Answer{
			{Kind: models.KindShortText},
		},
	}

	err := v.ValidateItem(item)
	require.Error(t, err)

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), "answer 1")
}
