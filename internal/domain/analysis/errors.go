package analysis

import "errors"

var (
	// ErrTimeout indicates the analyzer exceeded its wall-clock budget and was killed.
	ErrTimeout = errors.New("analyzer timed out")
	// ErrDomainError indicates the analyzer reported a square root of a negative number.
	ErrDomainError = errors.New("domain error in analyzed expression")
	// ErrInvalidInput covers process failures and unparseable reports.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyQuery is returned before any work is done for a blank query.
	ErrEmptyQuery = errors.New("missing input parameter")
)

// Classify maps any error onto the failure taxonomy. Unknown errors are invalid input.
func Classify(err error) FailureClass {
	switch {
	case errors.Is(err, ErrTimeout):
		return FailureTimeout
	case errors.Is(err, ErrDomainError):
		return FailureDomainError
	default:
		return FailureInvalidInput
	}
}
