package scoring

import (
	"errors"
	"fmt"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
)

// ErrUnsupported is returned when dispatch on an answer record kind has no
// matching case. It propagates to the caller unmodified.
var ErrUnsupported = errors.New("unsupported answer record kind")

func unsupportedKind(kind models.AnswerKind) error {
	return fmt.Errorf("%w: %q", ErrUnsupported, kind)
}

// InvalidArgumentError is returned when a submission's shape does not match
// what its declared kind requires.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Reason
}

func invalidArgument(reason string) error {
	return &InvalidArgumentError{Reason: reason}
}

// IsInvalidArgument reports whether err is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var iae *InvalidArgumentError
	return errors.As(err, &iae)
}
