package scoring

import (
	"github.com/MC3-2026/assessment-delivery-service/internal/models"
)

// Evaluate decides correctness of a normalized submission against the full
// answer collection of one question, in the content store's returned order.
//
// Multiple-choice submissions are compared as exact sets against the
// right-answer choice ids. Everything else walks the answer list and matches
// structurally against each answer's own recorded kind; the first answer that
// matches wins, so the answer ordering must not be re-sorted by callers.
func Evaluate(sub *Submission, answers []models.Answer) (bool, error) {
	if sub.Kind == models.KindFilesSubmission {
		// The file was accepted; there is nothing to compare.
		return true, nil
	}

	if sub.Kind.IsMultipleChoice() {
		return evaluateMultipleChoice(sub, answers)
	}

	for i := range answers {
		answer := &answers[i]
		matched, err := matchAnswer(sub, answer)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// evaluateMultipleChoice requires an exact-set match between the submitted
// choice ids and the right-answer set. Cardinality is checked first so a
// larger submitted set containing all right answers cannot pass.
func evaluateMultipleChoice(sub *Submission, answers []models.Answer) (bool, error) {
	if sub.ChoiceIDs == nil {
		return false, invalidArgument("choiceIds should be a list, in a student response")
	}

	var rightAnswers []*models.Answer
	for i := range answers {
		if models.IsRightAnswer(answers[i].Genus) {
			rightAnswers = append(rightAnswers, &answers[i])
		}
	}

	if len(sub.ChoiceIDs) != len(rightAnswers) {
		return false, nil
	}

	submitted := make(map[string]struct{}, len(sub.ChoiceIDs))
	for _, id := range sub.ChoiceIDs {
		submitted[id] = struct{}{}
	}

	for _, answer := range rightAnswers {
		ids := answer.ChoiceIDList()
		if len(ids) == 0 {
			return false, nil
		}
		if _, ok := submitted[ids[0]]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// matchAnswer dispatches on the stored answer's kind, not the submission's:
// submission and answer are matched structurally.
func matchAnswer(sub *Submission, answer *models.Answer) (bool, error) {
	switch answer.Kind {
	case models.KindLabelOrthoFaces:
		if sub.Faces == nil {
			return false, nil
		}
		if answer.FrontFaceValue == nil || answer.SideFaceValue == nil || answer.TopFaceValue == nil {
			return false, nil
		}
		return *answer.FrontFaceValue == sub.Faces.Front &&
			*answer.SideFaceValue == sub.Faces.Side &&
			*answer.TopFaceValue == sub.Faces.Top, nil

	case models.KindMultiChoiceOrtho, models.KindMultiChoiceEdx:
		if sub.ChoiceIDs == nil {
			return false, invalidArgument("choiceIds should be a list, in a student response")
		}
		if len(sub.ChoiceIDs) != 1 {
			return false, nil
		}
		ids := answer.ChoiceIDList()
		return len(ids) > 0 && ids[0] == sub.ChoiceIDs[0], nil

	case models.KindNumericResponse:
		if sub.Kind != models.KindNumericResponse || answer.Decimal == nil {
			return false, nil
		}
		tolerance := 0.0
		if answer.Tolerance != nil {
			tolerance = *answer.Tolerance
		}
		expected := *answer.Decimal
		return expected-tolerance <= sub.Decimal && sub.Decimal <= expected+tolerance, nil

	default:
		// No comparison rule for this answer kind; skip it.
		return false, nil
	}
}
