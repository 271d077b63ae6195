package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("invalid request",
		ValidationDetail{Field: "phone", Message: "phone is required"})

	assert.Equal(t, "invalid request", err.Error())

	ve, ok := IsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "phone", ve.Details[0].Field)

	_, ok = IsValidationError(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("order not found")

	_, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "order not found", err.Error())

	_, ok = IsNotFoundError(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("order is deleted")

	_, ok := IsConflictError(err)
	assert.True(t, ok)

	_, ok = IsConflictError(NewNotFoundError("nope"))
	assert.False(t, ok)
}

func TestUnauthorizedError(t *testing.T) {
	err := NewUnauthorizedError("bad secret")

	_, ok := IsUnauthorizedError(err)
	assert.True(t, ok)
}

func TestInvalidTransitionError(t *testing.T) {
	err := NewInvalidTransitionError("completed", "pending")

	ite, ok := IsInvalidTransitionError(err)
	require.True(t, ok)
	assert.Equal(t, "completed", ite.From)
	assert.Equal(t, "pending", ite.To)
	assert.Equal(t, `transition from "completed" to "pending" is not allowed`, err.Error())
}

func TestInternalError(t *testing.T) {
	cause := fmt.Errorf("driver: bad connection")
	err := NewInternalError("failed to load order", cause)

	assert.Equal(t, "failed to load order: driver: bad connection", err.Error())
	assert.Equal(t, cause, err.Unwrap())

	bare := NewInternalError("failed to load order", nil)
	assert.Equal(t, "failed to load order", bare.Error())
}
