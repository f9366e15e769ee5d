package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(New(KindNotFound, "missing")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := New(KindInsufficientFunds, "balance too low")
	wrapped := fmt.Errorf("placing order: %w", inner)

	assert.Equal(t, KindInsufficientFunds, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindInsufficientFunds))
	assert.False(t, Is(wrapped, KindConflict))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindInternal, "loading cart", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "loading cart")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestIsNil(t *testing.T) {
	assert.False(t, Is(nil, KindInternal))
}
