package waivefine_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/waivefine"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

func Test_Decide(t *testing.T) {
	fineID, staffID, userID := uuid.New(), uuid.New(), uuid.NewString()
	now := time.Date(2025, 5, 2, 15, 0, 0, 0, time.UTC)
	lostFine := core.BuildFineAssessed(fineID.String(), "loan", userID, "item", decimal.RequireFromString("27.25"), 29, core.FineReasonLost, now)

	t.Run("waives the outstanding balance and unlocks", func(t *testing.T) {
		result := waivefine.Decide(core.DomainEvents{lostFine}, waivefine.BuildCommand(fineID, staffID, now))

		require.Len(t, result.Events, 1)
		waived, ok := result.Events[0].(core.FineWaived)
		require.True(t, ok)
		assert.True(t, decimal.RequireFromString("27.25").Equal(waived.Amount))
		assert.Equal(t, staffID.String(), waived.WaivedBy)
		assert.True(t, waived.UnlocksAccount)
	})

	t.Run("settled fine", func(t *testing.T) {
		paid := core.BuildFinePaid(fineID.String(), "loan", userID, decimal.RequireFromString("27.25"), "ref", true, now)

		result := waivefine.Decide(core.DomainEvents{lostFine, paid}, waivefine.BuildCommand(fineID, staffID, now))

		assert.ErrorIs(t, result.HasError(), core.ErrFineAlreadySettled)
		assert.Empty(t, result.Events)
	})

	t.Run("unknown fine", func(t *testing.T) {
		result := waivefine.Decide(core.DomainEvents{}, waivefine.BuildCommand(fineID, staffID, now))

		assert.ErrorIs(t, result.HasError(), core.ErrFineNotFound)
	})
}
