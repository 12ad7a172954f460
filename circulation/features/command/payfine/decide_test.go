package payfine_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/payfine"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

func Test_Decide(t *testing.T) {
	fineID, userID := uuid.New(), uuid.New()
	now := time.Date(2025, 5, 2, 15, 0, 0, 0, time.UTC)
	lateFine := core.BuildFineAssessed(fineID.String(), "loan", userID.String(), "item", decimal.RequireFromString("1.50"), 6, core.FineReasonOverdue, now)
	lostFine := core.BuildFineAssessed(fineID.String(), "loan", userID.String(), "item", decimal.RequireFromString("27.25"), 29, core.FineReasonLost, now)

	t.Run("pays the outstanding balance", func(t *testing.T) {
		command := payfine.BuildCommand(fineID, userID, decimal.RequireFromString("1.5"), "tok", now)

		result := payfine.Decide(core.DomainEvents{lateFine}, command, "ref-1")

		require.NoError(t, result.HasError())
		require.Len(t, result.Events, 1)
		paid, ok := result.Events[0].(core.FinePaid)
		require.True(t, ok)
		assert.Equal(t, "ref-1", paid.PaymentReference)
		assert.True(t, decimal.RequireFromString("1.50").Equal(paid.Amount))
		assert.False(t, paid.UnlocksAccount)
	})

	t.Run("paying the only lost fine unlocks the account", func(t *testing.T) {
		command := payfine.BuildCommand(fineID, userID, decimal.RequireFromString("27.25"), "tok", now)

		result := payfine.Decide(core.DomainEvents{lostFine}, command, "ref-2")

		paid, ok := result.Events[0].(core.FinePaid)
		require.True(t, ok)
		assert.True(t, paid.UnlocksAccount)
	})

	t.Run("another open lost fine keeps the lock", func(t *testing.T) {
		otherLost := core.BuildFineAssessed(uuid.NewString(), "loan-2", userID.String(), "item", decimal.NewFromInt(30), 35, core.FineReasonLost, now)
		command := payfine.BuildCommand(fineID, userID, decimal.RequireFromString("27.25"), "tok", now)

		result := payfine.Decide(core.DomainEvents{lostFine, otherLost}, command, "ref-3")

		paid, ok := result.Events[0].(core.FinePaid)
		require.True(t, ok)
		assert.False(t, paid.UnlocksAccount)
	})

	t.Run("failures are recorded", func(t *testing.T) {
		settled := core.BuildFinePaid(fineID.String(), "loan", userID.String(), decimal.RequireFromString("1.50"), "ref", false, now)

		testCases := []struct {
			description string
			history     core.DomainEvents
			command     payfine.Command
			reference   string
			expected    error
		}{
			{"unknown fine", core.DomainEvents{}, payfine.BuildCommand(fineID, userID, decimal.NewFromInt(1), "", now), "ref", core.ErrFineNotFound},
			{"someone else's fine", core.DomainEvents{lateFine}, payfine.BuildCommand(fineID, uuid.New(), decimal.RequireFromString("1.50"), "", now), "ref", core.ErrFineNotFound},
			{"already paid", core.DomainEvents{lateFine, settled}, payfine.BuildCommand(fineID, userID, decimal.RequireFromString("1.50"), "", now), "ref", core.ErrFineAlreadySettled},
			{"wrong amount", core.DomainEvents{lateFine}, payfine.BuildCommand(fineID, userID, decimal.NewFromInt(1), "", now), "ref", core.ErrAmountMismatch},
			{"declined charge", core.DomainEvents{lateFine}, payfine.BuildCommand(fineID, userID, decimal.RequireFromString("1.50"), "", now), "", core.ErrPaymentFailed},
		}

		for _, tc := range testCases {
			t.Run(tc.description, func(t *testing.T) {
				result := payfine.Decide(tc.history, tc.command, tc.reference)

				assert.ErrorIs(t, result.HasError(), tc.expected)
				require.Len(t, result.Events, 1)
				failed, ok := result.Events[0].(core.PayingFineFailed)
				require.True(t, ok)
				assert.Equal(t, core.CodeOf(tc.expected), failed.FailureCode)
			})
		}
	})
}
