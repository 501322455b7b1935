package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTranslateConstraint(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	t.Run("mapped sqlite message", func(t *testing.T) {
		err := TranslateConstraint(log, "provincia", errors.New("UNIQUE constraint failed: provinces.code"))
		var ce *ConstraintError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "Ya existe una provincia con este código", ce.Message)
	})

	t.Run("mapped postgres message", func(t *testing.T) {
		raw := `ERROR: duplicate key value violates unique constraint "districts_pkey" (SQLSTATE 23505)`
		err := TranslateConstraint(log, "distrito", errors.New(raw))
		assert.Equal(t, "Ya existe un distrito con este código", err.Error())
	})

	t.Run("unmapped constraint keeps the raw text", func(t *testing.T) {
		raw := "CHECK constraint failed: weird"
		err := TranslateConstraint(log, "distrito", errors.New(raw))
		var ce *ConstraintError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, raw, ce.Message)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("connection refused")
		assert.Same(t, boom, TranslateConstraint(log, "distrito", boom))
		assert.Nil(t, TranslateConstraint(log, "distrito", nil))
	})

	entries := logs.FilterMessage("constraint violation").All()
	require.Len(t, entries, 3)
	assert.Equal(t, "provincia", entries[0].ContextMap()["entity"])
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Tiene registros dependientes activos", UserMessage(fmt.Errorf("delete: %w", ErrHasActiveChildren)))
	assert.Equal(t, "El registro padre no existe", UserMessage(ErrParentNotFound))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
	assert.Equal(t, "dup", UserMessage(&ConstraintError{Message: "dup"}))
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(fmt.Errorf("wrapped: %w", ErrHasActiveChildren)))
	assert.True(t, IsUserError(ErrParentNotFound))
	assert.True(t, IsUserError(&ConstraintError{Message: "x"}))
	assert.False(t, IsUserError(errors.New("disk I/O error")))
}
