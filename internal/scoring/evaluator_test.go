package scoring

import (
	"testing"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func numericAnswer(decimal, tolerance float64) models.Answer {
	return models.Answer{
		Kind:      models.KindNumericResponse,
		Genus:     models.GenusRightAnswer,
		Decimal:   floatPtr(decimal),
		Tolerance: floatPtr(tolerance),
	}
}

func facesAnswer(front, side, top int) models.Answer {
	return models.Answer{
		Kind:           models.KindLabelOrthoFaces,
		Genus:          models.GenusRightAnswer,
		FrontFaceValue: intPtr(front),
		SideFaceValue:  intPtr(side),
		TopFaceValue:   intPtr(top),
	}
}

func choiceAnswer(genus models.AnswerGenus, choiceIDs ...string) models.Answer {
	return models.Answer{
		Kind:      models.KindMultiChoiceEdx,
		Genus:     genus,
		ChoiceIDs: models.EncodeStringList(choiceIDs),
	}
}

func TestEvaluate_NumericTolerance(t *testing.T) {
	const d, tol, eps = 10.0, 0.5, 0.001
	answers := []models.Answer{numericAnswer(d, tol)}

	tests := []struct {
		name    string
		value   float64
		correct bool
	}{
		{"exact value", d, true},
		{"upper bound inclusive", d + tol, true},
		{"lower bound inclusive", d - tol, true},
		{"just above upper bound", d + tol + eps, false},
		{"just below lower bound", d - tol - eps, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &Submission{Kind: models.KindNumericResponse, Decimal: tt.value}
			correct, err := Evaluate(sub, answers)
			require.NoError(t, err)
			assert.Equal(t, tt.correct, correct)
		})
	}
}

func TestEvaluate_NumericScenario(t *testing.T) {
	// decimal 2.04 with tolerance 0.71 accepts [1.33, 2.75]
	answers := []models.Answer{numericAnswer(2.04, 0.71)}

	correct, err := Evaluate(&Submission{Kind: models.KindNumericResponse, Decimal: 1.5}, answers)
	require.NoError(t, err)
	assert.True(t, correct)

	correct, err = Evaluate(&Submission{Kind: models.KindNumericResponse, Decimal: 1.2}, answers)
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestEvaluate_MultipleChoiceExactSet(t *testing.T) {
	answers := []models.Answer{
		choiceAnswer(models.GenusRightAnswer, "choice-a"),
		choiceAnswer(models.GenusRightAnswer, "choice-b"),
	}

	tests := []struct {
		name    string
		ids     []string
		correct bool
	}{
		{"exact match", []string{"choice-a", "choice-b"}, true},
		{"exact match reversed order", []string{"choice-b", "choice-a"}, true},
		{"missing one required id", []string{"choice-a"}, false},
		{"one extra id", []string{"choice-a", "choice-b", "choice-c"}, false},
		{"right cardinality wrong ids", []string{"choice-a", "choice-c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &Submission{Kind: models.KindMultiChoiceEdx, ChoiceIDs: tt.ids}
			correct, err := Evaluate(sub, answers)
			require.NoError(t, err)
			assert.Equal(t, tt.correct, correct)
		})
	}
}

func TestEvaluate_MultipleChoiceDefaultGenusCountsAsRight(t *testing.T) {
	answers := []models.Answer{choiceAnswer(models.GenusDefault, "choice-a")}

	correct, err := Evaluate(&Submission{Kind: models.KindMultiChoiceOrtho, ChoiceIDs: []string{"choice-a"}}, answers)
	require.NoError(t, err)
	assert.True(t, correct)
}

func TestEvaluate_MultipleChoiceWrongAnswersExcludedFromRightSet(t *testing.T) {
	answers := []models.Answer{
		choiceAnswer(models.GenusRightAnswer, "choice-b"),
		choiceAnswer(models.GenusWrongAnswer, "choice-a"),
	}

	correct, err := Evaluate(&Submission{Kind: models.KindMultiChoiceEdx, ChoiceIDs: []string{"choice-b"}}, answers)
	require.NoError(t, err)
	assert.True(t, correct)

	correct, err = Evaluate(&Submission{Kind: models.KindMultiChoiceEdx, ChoiceIDs: []string{"choice-a"}}, answers)
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestEvaluate_MultipleChoiceThreeChoiceScenario(t *testing.T) {
	// Three-choice question, right answer at index 2.
	answers := []models.Answer{choiceAnswer(models.GenusRightAnswer, "choice-2")}

	correct, err := Evaluate(&Submission{Kind: models.KindMultiChoiceEdx, ChoiceIDs: []string{"choice-2"}}, answers)
	require.NoError(t, err)
	assert.True(t, correct)

	correct, err = Evaluate(&Submission{Kind: models.KindMultiChoiceEdx, ChoiceIDs: []string{"choice-1"}}, answers)
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestEvaluate_MultipleChoiceNilSubmissionIsInvalid(t *testing.T) {
	answers := []models.Answer{choiceAnswer(models.GenusRightAnswer, "choice-a")}

	_, err := Evaluate(&Submission{Kind: models.KindMultiChoiceEdx}, answers)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestEvaluate_LabelOrthoFaces(t *testing.T) {
	answers := []models.Answer{facesAnswer(1, 2, 3)}

	tests := []struct {
		name    string
		faces   FaceValues
		correct bool
	}{
		{"all components match", FaceValues{Front: 1, Side: 2, Top: 3}, true},
		{"front differs", FaceValues{Front: 9, Side: 2, Top: 3}, false},
		{"side differs", FaceValues{Front: 1, Side: 9, Top: 3}, false},
		{"top differs", FaceValues{Front: 1, Side: 2, Top: 9}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &Submission{Kind: models.KindLabelOrthoFaces, Faces: &tt.faces}
			correct, err := Evaluate(sub, answers)
			require.NoError(t, err)
			assert.Equal(t, tt.correct, correct)
		})
	}
}

func TestEvaluate_FilesSubmissionAlwaysCorrect(t *testing.T) {
	correct, err := Evaluate(&Submission{Kind: models.KindFilesSubmission}, nil)
	require.NoError(t, err)
	assert.True(t, correct)
}

func TestEvaluate_FallbackFirstMatchWins(t *testing.T) {
	// Two numeric answers both covering the submission; the walk must stop at
	// the first one, in store order.
	answers := []models.Answer{
		numericAnswer(5.0, 1.0),
		numericAnswer(5.5, 1.0),
	}

	correct, err := Evaluate(&Submission{Kind: models.KindNumericResponse, Decimal: 5.2}, answers)
	require.NoError(t, err)
	assert.True(t, correct)
}

func TestEvaluate_FallbackSkipsUncomparableKinds(t *testing.T) {
	answers := []models.Answer{
		{Kind: models.KindShortText, Genus: models.GenusRightAnswer, Text: strPtr("blue")},
		numericAnswer(3.0, 0.0),
	}

	correct, err := Evaluate(&Submission{Kind: models.KindNumericResponse, Decimal: 3.0}, answers)
	require.NoError(t, err)
	assert.True(t, correct)
}

func TestEvaluate_FallbackSingleChoiceAgainstStoredAnswer(t *testing.T) {
	// A faces-kind question with a stray multi-choice answer in its set: the
	// fallback path compares a single-element submission against the stored
	// choice id.
	answers := []models.Answer{choiceAnswer(models.GenusRightAnswer, "choice-x")}

	sub := &Submission{Kind: models.KindLabelOrthoFaces, ChoiceIDs: []string{"choice-x"}}
	correct, err := Evaluate(sub, answers)
	require.NoError(t, err)
	assert.True(t, correct)
}

func TestVerdict_WrongAnswerFeedbackConcatenation(t *testing.T) {
	wrongA := choiceAnswer(models.GenusWrongAnswer, "choice-a")
	wrongA.Feedback = strPtr("A")
	wrongA.ConfusedLearningObjectiveIDs = models.EncodeStringList([]string{"lo-1", "lo-2"})

	wrongB := choiceAnswer(models.GenusWrongAnswer, "choice-a")
	wrongB.Feedback = strPtr("B")
	wrongB.ConfusedLearningObjectiveIDs = models.EncodeStringList([]string{"lo-3"})

	noFeedback := choiceAnswer(models.GenusWrongAnswer, "choice-a")

	answers := []models.Answer{wrongA, wrongB, noFeedback}
	sub := &Submission{Kind: models.KindMultiChoiceEdx, ChoiceIDs: []string{"choice-a"}}

	verdict := NewVerdict(false)
	verdict.ApplyWrongAnswerFeedback(sub, answers)

	assert.Equal(t, "A; B", verdict.Feedback)
	assert.Equal(t, []string{"lo-1", "lo-2", "lo-3"}, verdict.ConfusedLearningObjectiveIDs)
}

func TestVerdict_WrongAnswerFeedbackIgnoresUnmatchedChoices(t *testing.T) {
	wrong := choiceAnswer(models.GenusWrongAnswer, "choice-z")
	wrong.Feedback = strPtr("not this one")

	sub := &Submission{Kind: models.KindMultiChoiceEdx, ChoiceIDs: []string{"choice-a"}}

	verdict := NewVerdict(false)
	verdict.ApplyWrongAnswerFeedback(sub, []models.Answer{wrong})

	assert.Equal(t, DefaultFeedback, verdict.Feedback)
	assert.Empty(t, verdict.ConfusedLearningObjectiveIDs)
}

func TestVerdict_SolutionOverlay(t *testing.T) {
	verdict := NewVerdict(true)
	verdict.ApplySolution("because the projection is first-angle")
	assert.Equal(t, "because the projection is first-angle", verdict.Feedback)

	verdict = NewVerdict(true)
	verdict.ApplySolution("")
	assert.Equal(t, DefaultFeedback, verdict.Feedback)
}
