package lifecycle

import (
	"errors"
	"fmt"
)

// Outcome classifies the result of a lifecycle operation.
type Outcome int

// Lifecycle outcomes.
const (
	// OutcomeSuccess means the operation completed.
	OutcomeSuccess Outcome = iota
	// OutcomeInvalidArgument means the caller supplied a malformed resource.
	OutcomeInvalidArgument
	// OutcomeNotFound means the target identifier is not in the store.
	OutcomeNotFound
	// OutcomeFailure means the store failed; the operation had no effect.
	OutcomeFailure
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeInvalidArgument:
		return "invalid_argument"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "failure"
	}
}

// Sentinels matched by errors.Is against *Error.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)

// Error is returned for caller-attributable lifecycle failures.
// Message is meant to be shown to the caller verbatim.
type Error struct {
	Outcome Outcome
	Kind    string
	ID      int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches ErrInvalidArgument and ErrNotFound by outcome.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidArgument:
		return e.Outcome == OutcomeInvalidArgument
	case ErrNotFound:
		return e.Outcome == OutcomeNotFound
	default:
		return false
	}
}

func invalidArgument(kind, format string, args ...any) *Error {
	return &Error{
		Outcome: OutcomeInvalidArgument,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func notFound(kind string, id int) *Error {
	return &Error{
		Outcome: OutcomeNotFound,
		Kind:    kind,
		ID:      id,
		Message: fmt.Sprintf("%s %d not found", kind, id),
	}
}

// OutcomeOf classifies err. A nil error is OutcomeSuccess.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}

	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr.Outcome
	}

	return OutcomeFailure
}
