package analysis

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ReportContractVersion names the FPTaylor report phrasing this parser matches.
// Bump it together with the fixtures in testdata when the tool's output changes.
const ReportContractVersion = "fptaylor-report/1"

// DomainErrorSignature is what FPTaylor prints on stderr when it finds sqrt of a negative value.
const DomainErrorSignature = "Potential exception detected: Sqrt of negative number at:"

var (
	rxBounds   = regexp.MustCompile(`Bounds \(floating-point\): \[([^,]*), ([^,\]]*)\]`)
	rxAbsError = regexp.MustCompile(`Absolute error \(exact\): ([^\s]*)`)
)

// Report holds the numbers extracted from one analyzer run.
type Report struct {
	Lower float64
	Upper float64
	Error float64
}

// Parse extracts bounds and absolute error from the analyzer's stdout.
// A domain-error signature on stderr wins over anything in stdout.
func Parse(stdout, stderr string) (Report, error) {
	if strings.Contains(stderr, DomainErrorSignature) {
		return Report{}, ErrDomainError
	}

	m := rxBounds.FindStringSubmatch(stdout)
	if m == nil {
		return Report{}, fmt.Errorf("%w: bounds line not found", ErrInvalidInput)
	}
	lower, err := parseNumber("lower bound", m[1])
	if err != nil {
		return Report{}, err
	}
	upper, err := parseNumber("upper bound", m[2])
	if err != nil {
		return Report{}, err
	}

	m = rxAbsError.FindStringSubmatch(stdout)
	if m == nil {
		return Report{}, fmt.Errorf("%w: absolute error line not found", ErrInvalidInput)
	}
	absErr, err := parseNumber("absolute error", m[1])
	if err != nil {
		return Report{}, err
	}

	return Report{Lower: lower, Upper: upper, Error: absErr}, nil
}

func parseNumber(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidInput, field, raw)
	}
	// inf and nan parse fine but cannot be encoded as JSON
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %s %q is not finite", ErrInvalidInput, field, raw)
	}
	return v, nil
}
