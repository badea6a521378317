package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "unauthorized", UnauthorizedError{}.Error())
	assert.Equal(t, "ticket not found", NotFoundError{Resource: "ticket"}.Error())
	assert.Equal(t, "tripId: is required", ValidationError{Field: "tripId", Msg: "is required"}.Error())
	assert.Equal(t, "seat conflict: taken", ConflictError{Resource: "seat", Msg: "taken"}.Error())
	assert.Equal(t, "ticket is in state CANCELLED", InvalidStateError{Resource: "ticket", Status: "CANCELLED"}.Error())
	assert.Equal(t, "internal error", InternalError{}.Error())
}

func TestPredicatesFollowWrapping(t *testing.T) {
	cause := errors.New("sql: no rows")
	wrapped := fmt.Errorf("cancel: %w", NotFoundError{Resource: "ticket", Err: cause})

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.ErrorIs(t, wrapped, cause)

	assert.True(t, IsInvalidState(fmt.Errorf("x: %w", InvalidStateError{})))
	assert.True(t, IsInternal(InternalError{Err: cause}))
	assert.True(t, IsValidation(ValidationError{}))
	assert.True(t, IsUnauthorized(UnauthorizedError{}))
	assert.False(t, IsInternal(cause))
}
