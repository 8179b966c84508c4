package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_CollectsFirstFailurePerField(t *testing.T) {
	v := NewValidator()
	v.Field("position", "a", Required, MinLength(2), MaxLength(0)).
		Field("company", "Acme", Required, MinLength(2)).
		Field("location", "", Required, MinLength(2))

	require.True(t, v.HasErrors())
	require.Len(t, v.Errors(), 2)
	assert.Equal(t, "position", v.Errors()[0].Field)
	assert.Equal(t, "must be at least 2 characters", v.Errors()[0].Message)
	assert.Equal(t, "location", v.Errors()[1].Field)
	assert.Equal(t, "is required", v.Errors()[1].Message)
	assert.Equal(t, "position: must be at least 2 characters; location: is required", v.ErrorMessage())
}

func TestMinLength_CountsRunes(t *testing.T) {
	rule := MinLength(2)
	assert.Nil(t, rule("position", "日本"))
	assert.NotNil(t, rule("position", "日"))
	assert.Nil(t, rule("position", 42), "non-strings are ignored")
}

func TestOneOf(t *testing.T) {
	rule := OneOf("pending", "interview")
	assert.Nil(t, rule("status", "pending"))

	err := rule("status", "accepted")
	require.NotNil(t, err)
	assert.Equal(t, "must be one of pending, interview", err.Message)
}

func TestWithMessage(t *testing.T) {
	rule := WithMessage(MinLength(2), "position must be at least two characters long")

	err := rule("position", "a")
	require.NotNil(t, err)
	assert.Equal(t, "position must be at least two characters long", err.Message)
	assert.Nil(t, rule("position", "ab"))
}

func TestValidateAndReturnError(t *testing.T) {
	v := NewValidator()
	require.NoError(t, ValidateAndReturnError(v))

	v.Field("id", "nope", UUID)
	err := ValidateAndReturnError(v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "VALIDATION_ERROR", ErrorCode(err))
}

func TestDatabaseError(t *testing.T) {
	cause := errors.New("connection refused")
	err := DatabaseError("find jobs", cause)

	assert.True(t, errors.Is(err, ErrDatabase))
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, DatabaseError("noop", nil))
}
