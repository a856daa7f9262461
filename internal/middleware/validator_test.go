package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/bryanwahyu/fptaylor-service/internal/domain/analysis"
)

func TestValidateQuery(t *testing.T) {
	assert.ErrorIs(t, ValidateQuery("", 0), domain.ErrEmptyQuery)
	assert.ErrorIs(t, ValidateQuery(" \t\n", 0), domain.ErrEmptyQuery)
	assert.EqualError(t, ValidateQuery("x\x00y", 0), "input contains NUL bytes")
	assert.Error(t, ValidateQuery(strings.Repeat("a", 11), 10))

	assert.NoError(t, ValidateQuery(strings.Repeat("a", 10), 10))
	assert.NoError(t, ValidateQuery(strings.Repeat("a", 1<<20), 0), "0 disables the size limit")
	assert.NoError(t, ValidateQuery("Variables real x in [0, 1]; Expressions r = x + 1;", 1024))
}
