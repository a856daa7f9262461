package analysis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultJSONShape(t *testing.T) {
	r := Result{Lower: 1, Upper: 2, Error: 0.000001, Elapsed: 1500 * time.Millisecond}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lower":1,"upper":2,"error":0.000001,"time":1.5}`, string(b))
}

func TestOutcomeStatus(t *testing.T) {
	assert.Equal(t, "success", Succeeded("q", Result{}).Status())
	assert.Equal(t, "timeout", Failed("q", FailureTimeout).Status())
	assert.Equal(t, "Domain Error", FailureDomainError.Message())
	assert.Equal(t, "Invalid Input", FailureInvalidInput.Message())
	assert.Equal(t, "Timeout", FailureTimeout.Message())
}
