package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errLeaveTaken = Conflict("leave already processed")

func TestError_MatchesKindAndSentinel(t *testing.T) {
	wrapped := fmt.Errorf("failed to approve leave: %w", errLeaveTaken)

	assert.True(t, errors.Is(wrapped, errLeaveTaken))
	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.False(t, errors.Is(wrapped, ErrNotFound))

	var appErr *Error
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "leave already processed", appErr.Error())
	assert.Equal(t, ErrConflict, appErr.Kind())
}

func TestError_DistinctSentinelsOfSameKind(t *testing.T) {
	other := Conflict("leave already processed")

	assert.False(t, errors.Is(other, errLeaveTaken))
	assert.True(t, errors.Is(other, ErrConflict))
}
