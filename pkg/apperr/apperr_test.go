package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindInvalidTransition, KindOf(InvalidTransition("wrong state")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := NotFound("scan not found")
	wrapped := fmt.Errorf("loading scan: %w", inner)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindForbidden))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "bad input", Validation("bad input").Error())

	cause := errors.New("dial tcp: refused")
	err := AnalysisFailed("AI service unreachable", cause)
	assert.Equal(t, "AI service unreachable", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "validation_error", KindValidation.String())
	assert.Equal(t, "delivery_failed", KindDeliveryFailed.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
