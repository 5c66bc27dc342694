package scoring

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
)

// FaceValues is the canonical value of a label-ortho-faces submission.
type FaceValues struct {
	Front int `json:"frontFaceValue"`
	Side  int `json:"sideFaceValue"`
	Top   int `json:"topFaceValue"`
}

// Submission is the canonical value extracted from a raw response payload.
// Exactly one of the kind-specific fields is populated, matching Kind.
type Submission struct {
	Kind      models.AnswerKind
	ChoiceIDs []string
	Decimal   float64
	Faces     *FaceValues
}

// Normalize extracts a canonical Submission from a loosely typed payload.
// Dispatch is purely on kind; the payload shape is never sniffed. A scalar
// choiceIds value is coerced into a single-element list so every call site
// sees the same policy.
func Normalize(payload map[string]any, kind models.AnswerKind) (*Submission, error) {
	switch kind {
	case models.KindLabelOrthoFaces:
		faces, err := faceValuesFrom(payload["integerValues"])
		if err != nil {
			return nil, err
		}
		return &Submission{Kind: kind, Faces: faces}, nil

	case models.KindMultiChoiceOrtho, models.KindMultiChoiceEdx:
		ids, err := choiceIDsFrom(payload["choiceIds"])
		if err != nil {
			return nil, err
		}
		return &Submission{Kind: kind, ChoiceIDs: ids}, nil

	case models.KindNumericResponse:
		value, err := decimalFrom(payload["decimalValue"])
		if err != nil {
			return nil, err
		}
		return &Submission{Kind: kind, Decimal: value}, nil

	case models.KindFilesSubmission:
		// Nothing comparable; presence of the upload is sufficient.
		return &Submission{Kind: kind}, nil

	default:
		return nil, unsupportedKind(kind)
	}
}

// faceValuesFrom accepts either the decoded integerValues mapping or the same
// mapping still serialized as a JSON string.
func faceValuesFrom(raw any) (*FaceValues, error) {
	switch v := raw.(type) {
	case nil:
		return nil, invalidArgument("integerValues is required for a label-ortho-faces response")
	case string:
		var faces FaceValues
		if err := json.Unmarshal([]byte(v), &faces); err != nil {
			return nil, invalidArgument("integerValues is not valid JSON: " + err.Error())
		}
		return &faces, nil
	case map[string]any:
		front, okF := intFrom(v["frontFaceValue"])
		side, okS := intFrom(v["sideFaceValue"])
		top, okT := intFrom(v["topFaceValue"])
		if !okF || !okS || !okT {
			return nil, invalidArgument("integerValues must carry integer frontFaceValue, sideFaceValue and topFaceValue")
		}
		return &FaceValues{Front: front, Side: side, Top: top}, nil
	default:
		return nil, invalidArgument(fmt.Sprintf("integerValues has unexpected type %T", raw))
	}
}

func choiceIDsFrom(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, invalidArgument("choiceIds is required for a multi-choice response")
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		ids := make([]string, 0, len(v))
		for _, elem := range v {
			id, ok := elem.(string)
			if !ok {
				return nil, invalidArgument(fmt.Sprintf("choiceIds element has unexpected type %T", elem))
			}
			ids = append(ids, id)
		}
		return ids, nil
	default:
		return nil, invalidArgument(fmt.Sprintf("choiceIds has unexpected type %T", raw))
	}
}

func decimalFrom(raw any) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, invalidArgument("decimalValue is required for a numeric response")
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case json.Number:
		value, err := v.Float64()
		if err != nil {
			return 0, invalidArgument("decimalValue is not numeric: " + err.Error())
		}
		return value, nil
	case string:
		value, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, invalidArgument("decimalValue is not numeric: " + err.Error())
		}
		return value, nil
	default:
		return 0, invalidArgument(fmt.Sprintf("decimalValue has unexpected type %T", raw))
	}
}

func intFrom(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case json.Number:
		value, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(value), true
	case string:
		value, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return value, true
	default:
		return 0, false
	}
}
