package scoring

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_LabelOrthoFaces(t *testing.T) {
	t.Run("decoded mapping", func(t *testing.T) {
		payload := map[string]any{
			"integerValues": map[string]any{
				"frontFaceValue": float64(0),
				"sideFaceValue":  float64(1),
				"topFaceValue":   float64(2),
			},
		}

		sub, err := Normalize(payload, models.KindLabelOrthoFaces)
		require.NoError(t, err)
		require.NotNil(t, sub.Faces)
		assert.Equal(t, FaceValues{Front: 0, Side: 1, Top: 2}, *sub.Faces)
	})

	t.Run("stringified JSON mapping", func(t *testing.T) {
		payload := map[string]any{
			"integerValues": `{"frontFaceValue": 3, "sideFaceValue": 4, "topFaceValue": 5}`,
		}

		sub, err := Normalize(payload, models.KindLabelOrthoFaces)
		require.NoError(t, err)
		require.NotNil(t, sub.Faces)
		assert.Equal(t, FaceValues{Front: 3, Side: 4, Top: 5}, *sub.Faces)
	})

	t.Run("missing mapping", func(t *testing.T) {
		_, err := Normalize(map[string]any{}, models.KindLabelOrthoFaces)
		assert.True(t, IsInvalidArgument(err))
	})
}

func TestNormalize_MultiChoice(t *testing.T) {
	t.Run("list of ids", func(t *testing.T) {
		payload := map[string]any{"choiceIds": []any{"a", "b"}}

		sub, err := Normalize(payload, models.KindMultiChoiceEdx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, sub.ChoiceIDs)
	})

	t.Run("scalar id is listified", func(t *testing.T) {
		payload := map[string]any{"choiceIds": "only-one"}

		sub, err := Normalize(payload, models.KindMultiChoiceOrtho)
		require.NoError(t, err)
		assert.Equal(t, []string{"only-one"}, sub.ChoiceIDs)
	})

	t.Run("non-string element rejected", func(t *testing.T) {
		payload := map[string]any{"choiceIds": []any{"a", 7}}

		_, err := Normalize(payload, models.KindMultiChoiceEdx)
		assert.True(t, IsInvalidArgument(err))
	})
}

func TestNormalize_NumericResponse(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{"json float", float64(1.5), 1.5},
		{"numeric string", "2.75", 2.75},
		{"json.Number", json.Number("0.25"), 0.25},
		{"integer", 3, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := Normalize(map[string]any{"decimalValue": tt.value}, models.KindNumericResponse)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sub.Decimal)
		})
	}

	t.Run("non-numeric string rejected", func(t *testing.T) {
		_, err := Normalize(map[string]any{"decimalValue": "not a number"}, models.KindNumericResponse)
		assert.True(t, IsInvalidArgument(err))
	})
}

func TestNormalize_UnsupportedKinds(t *testing.T) {
	for _, kind := range []models.AnswerKind{models.KindShortText, models.KindEulerRotation, "made-up-kind"} {
		t.Run(string(kind), func(t *testing.T) {
			_, err := Normalize(map[string]any{}, kind)
			assert.True(t, errors.Is(err, ErrUnsupported))
		})
	}
}

func TestNormalize_FilesSubmissionHasNoValue(t *testing.T) {
	sub, err := Normalize(map[string]any{"files": map[string]any{"report": "..."}}, models.KindFilesSubmission)
	require.NoError(t, err)
	assert.Equal(t, models.KindFilesSubmission, sub.Kind)
	assert.Nil(t, sub.ChoiceIDs)
	assert.Nil(t, sub.Faces)
}

func TestReplay(t *testing.T) {
	answers := []models.Answer{numericAnswer(2.04, 0.71)}

	t.Run("correct replay", func(t *testing.T) {
		response := &models.Response{
			Kind:    models.KindNumericResponse,
			Payload: mustJSON(t, map[string]any{"decimalValue": 1.5}),
		}

		status, err := Replay(response, answers)
		require.NoError(t, err)
		assert.True(t, status.Responded)
		require.NotNil(t, status.Correct)
		assert.True(t, *status.Correct)
	})

	t.Run("status tracks edited answer set", func(t *testing.T) {
		response := &models.Response{
			Kind:    models.KindNumericResponse,
			Payload: mustJSON(t, map[string]any{"decimalValue": 1.5}),
		}

		narrowed := []models.Answer{numericAnswer(2.04, 0.1)}
		status, err := Replay(response, narrowed)
		require.NoError(t, err)
		require.NotNil(t, status.Correct)
		assert.False(t, *status.Correct)
	})

	t.Run("not responded never evaluates", func(t *testing.T) {
		status := NotResponded()
		assert.False(t, status.Responded)
		assert.Nil(t, status.Correct)
	})
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}
