package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	err := New(KindUnknownEntity, "unknown entity \"Hotel\"")

	assert.ErrorIs(t, err, ErrUnknownEntity)
	assert.NotErrorIs(t, err, ErrTypeMismatch)

	wrapped := fmt.Errorf("create: %w", err)
	assert.ErrorIs(t, wrapped, ErrUnknownEntity)
	assert.Equal(t, KindUnknownEntity, KindOf(wrapped))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("duplicate key")
	err := New(KindPersistence, "could not save record").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Error(), "duplicate key")
}

func TestError_Fields(t *testing.T) {
	err := New(KindValidationFailure, "invalid signup form").
		WithField("password", "password is required").
		WithField("email", "email is invalid")

	assert.Equal(t, "[VALIDATION_FAILURE] invalid signup form (email: email is invalid; password: password is required)", err.Error())
	assert.Len(t, err.Fields, 2)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))

	e, ok := As(fmt.Errorf("x: %w", Newf(KindTypeMismatch, "record must be an object, got %s", "array")))
	assert.True(t, ok)
	assert.Equal(t, "record must be an object, got array", e.Message)
}
