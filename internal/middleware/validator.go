package middleware

import (
	"errors"
	"fmt"
	"strings"

	domain "github.com/bryanwahyu/fptaylor-service/internal/domain/analysis"
)

// ValidateQuery only guards the request boundary: blank input, NUL bytes and
// oversize bodies. Grammar errors are left to the analyzer itself.
func ValidateQuery(query string, maxBytes int) error {
	if strings.TrimSpace(query) == "" {
		return domain.ErrEmptyQuery
	}
	if strings.ContainsRune(query, '\x00') {
		return errors.New("input contains NUL bytes")
	}
	if maxBytes > 0 && len(query) > maxBytes {
		return fmt.Errorf("input too large: %d bytes (max %d)", len(query), maxBytes)
	}
	return nil
}
