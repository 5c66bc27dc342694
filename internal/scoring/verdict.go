package scoring

import (
	"strings"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
)

// DefaultFeedback is returned whenever no stored feedback applies.
const DefaultFeedback = "No feedback available."

// Verdict is the per-evaluation output. It is constructed fresh for every
// submission and never stored.
type Verdict struct {
	Correct                      bool     `json:"correct"`
	Feedback                     string   `json:"feedback"`
	ConfusedLearningObjectiveIDs []string `json:"confusedLearningObjectiveIds,omitempty"`
}

// NewVerdict builds a verdict carrying the default feedback text. Callers
// layer richer feedback on top without altering correctness.
func NewVerdict(correct bool) *Verdict {
	return &Verdict{Correct: correct, Feedback: DefaultFeedback}
}

// ApplyWrongAnswerFeedback collects every wrong-answer-genus answer whose
// stored choice id intersects the submitted set, joins their feedback strings
// in store order, and unions their confused learning objective ids. Answers
// lacking feedback or objective ids are silently skipped; when neither is
// found the existing feedback stands.
func (v *Verdict) ApplyWrongAnswerFeedback(sub *Submission, answers []models.Answer) {
	if sub == nil || !sub.Kind.IsMultipleChoice() {
		return
	}

	submitted := make(map[string]struct{}, len(sub.ChoiceIDs))
	for _, id := range sub.ChoiceIDs {
		submitted[id] = struct{}{}
	}

	var feedback []string
	var confused []string
	for i := range answers {
		answer := &answers[i]
		if answer.Genus != models.GenusWrongAnswer {
			continue
		}
		ids := answer.ChoiceIDList()
		if len(ids) == 0 {
			continue
		}
		if _, ok := submitted[ids[0]]; !ok {
			continue
		}
		if answer.Feedback != nil {
			feedback = append(feedback, *answer.Feedback)
		}
		confused = append(confused, answer.ConfusedObjectiveIDs()...)
	}

	if len(feedback) > 0 {
		v.Feedback = strings.Join(feedback, "; ")
	}
	if len(confused) > 0 {
		v.ConfusedLearningObjectiveIDs = confused
	}
}

// ApplySolution overlays a stored solution explanation. Empty solutions are
// ignored so the default text survives.
func (v *Verdict) ApplySolution(solution string) {
	if solution != "" {
		v.Feedback = solution
	}
}
