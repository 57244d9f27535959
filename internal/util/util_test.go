package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, 66.67, Round2(200.0/3))
	assert.Equal(t, 80.0, Round2(80))
	assert.Equal(t, -12.35, Round2(-12.345))
}

func TestMustParseUint(t *testing.T) {
	assert.EqualValues(t, 42, MustParseUint("42"))
	assert.EqualValues(t, 0, MustParseUint("not-a-number"))
	assert.EqualValues(t, 0, MustParseUint("-1"))
}

func TestValidationError(t *testing.T) {
	err := Invalid("lesson", "out of range")
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "lesson: out of range", err.Error())

	wrapped := fmt.Errorf("submit failed: %w", err)
	assert.True(t, IsValidationError(wrapped))

	assert.False(t, IsValidationError(errors.New("plain")))
	assert.False(t, IsValidationError(nil))
}
