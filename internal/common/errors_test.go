package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrap(t *testing.T) {
	err := NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "CONFIG_ERROR")
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "open database"))

	wrapped := WrapError(ErrDatabase, "open database")
	require.Error(t, wrapped)
	assert.True(t, errors.Is(wrapped, ErrDatabase), "wrapping must preserve the sentinel")
	assert.Contains(t, wrapped.Error(), "open database")
}
