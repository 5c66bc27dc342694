package scoring

import (
	"encoding/json"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
)

// QuestionStatus reports whether a question has been responded to and, if so,
// whether the response is correct against the CURRENT answer set. Correct is
// absent entirely when no response exists.
type QuestionStatus struct {
	Responded bool  `json:"responded"`
	Correct   *bool `json:"correct,omitempty"`
}

// NotResponded is the status of a question with no stored response. The
// evaluator is never invoked for it.
func NotResponded() *QuestionStatus {
	return &QuestionStatus{Responded: false}
}

// Replay re-runs the stored raw payload of a response through the same
// normalize/evaluate pipeline used on submit. Because the current answers are
// used, the status of a responded question can change when the answer key is
// edited after the response was recorded; that is intentional.
func Replay(response *models.Response, answers []models.Answer) (*QuestionStatus, error) {
	var payload map[string]any
	if len(response.Payload) > 0 {
		if err := json.Unmarshal(response.Payload, &payload); err != nil {
			return nil, invalidArgument("stored response payload is not valid JSON: " + err.Error())
		}
	}

	sub, err := Normalize(payload, response.Kind)
	if err != nil {
		return nil, err
	}
	correct, err := Evaluate(sub, answers)
	if err != nil {
		return nil, err
	}
	return &QuestionStatus{Responded: true, Correct: &correct}, nil
}
