package analysis

import (
	"encoding/json"
	"time"
)

// Query teks mentah dalam grammar input FPTaylor, tidak divalidasi di sini
type Query string

// FailureClass enum
type FailureClass string

const (
	FailureTimeout      FailureClass = "timeout"
	FailureDomainError  FailureClass = "domain_error"
	FailureInvalidInput FailureClass = "invalid_input"
)

// Message is the fixed, non-leaking text shown to callers for a failure.
func (f FailureClass) Message() string {
	switch f {
	case FailureTimeout:
		return "Timeout"
	case FailureDomainError:
		return "Domain Error"
	default:
		return "Invalid Input"
	}
}

// Result value object, only produced from a successful parse of a successful run
type Result struct {
	Lower   float64
	Upper   float64
	Error   float64
	Elapsed time.Duration
}

// MarshalJSON writes the canonical {lower, upper, error, time} shape, time in seconds.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Lower float64 `json:"lower"`
		Upper float64 `json:"upper"`
		Error float64 `json:"error"`
		Time  float64 `json:"time"`
	}{
		Lower: r.Lower,
		Upper: r.Upper,
		Error: r.Error,
		Time:  r.Elapsed.Seconds(),
	})
}

// Outcome is the union returned by the pipeline: exactly one of Result or
// Failure is meaningful, selected by OK.
type Outcome struct {
	Query   Query
	OK      bool
	Result  Result
	Failure FailureClass
}

func Succeeded(q Query, r Result) Outcome {
	return Outcome{Query: q, OK: true, Result: r}
}

func Failed(q Query, f FailureClass) Outcome {
	return Outcome{Query: q, Failure: f}
}

// Status label used by logs and metrics.
func (o Outcome) Status() string {
	if o.OK {
		return "success"
	}
	return string(o.Failure)
}
