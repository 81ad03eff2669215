package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad input"), KindValidation},
		{"permission", Permission("not allowed"), KindPermission},
		{"invalid state", InvalidState("wrong status"), KindInvalidState},
		{"conflict", Conflict("stale version"), KindConflict},
		{"period closed", PeriodClosed("closed"), KindPeriodClosed},
		{"not found", NotFound("invoice", "abc"), KindNotFound},
		{"plain error", errors.New("boom"), Kind("")},
		{"nil", nil, Kind("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("submit failed: %w", Conflict("stale version"))
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestError_Is(t *testing.T) {
	err := Validation("quantity must be positive")

	assert.True(t, errors.Is(err, Validation("")))
	assert.False(t, errors.Is(err, Conflict("")))
}

func TestWrap(t *testing.T) {
	cause := errors.New("no line items")
	err := Wrap(KindValidation, cause, "document %s is not submittable", "inv-1")

	assert.Equal(t, KindValidation, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "inv-1")
	assert.Contains(t, err.Error(), "no line items")
}

func TestNotFound_Message(t *testing.T) {
	err := NotFound("invoice", "abc-123")
	require.Equal(t, "invoice abc-123 not found", err.Error())
}
