package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("bad %s", "input"), http.StatusBadRequest},
		{Conflict("Username already exists"), http.StatusBadRequest},
		{InsufficientStock("Paracetamol", 2, 5), http.StatusBadRequest},
		{NotFound("Medicine not found"), http.StatusNotFound},
		{Store("insert medicine", errors.New("disk full")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, Status(c.err), c.err.Error())
	}
}

func TestWrappedKindSurvives(t *testing.T) {
	err := fmt.Errorf("purchase: %w", NotFound("Pharmacist not found"))
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindConflict))
	assert.False(t, Is(nil, KindStore))
}

func TestPublicMessageHidesStoreErrors(t *testing.T) {
	cause := errors.New("connection refused")
	err := Store("load medicine", cause)

	assert.Equal(t, "Server error", PublicMessage(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")

	assert.Equal(t, "Insufficient stock for Aspirin. Available: 1, Requested: 3",
		PublicMessage(InsufficientStock("Aspirin", 1, 3)))
}
