package checkoutcopy_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/checkoutcopy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

func Test_Decide_Success_WhenCopyAvailable(t *testing.T) {
	// arrange
	itemID, copyID, userID, loanID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	policy := core.DefaultPolicy()

	history := core.DomainEvents{
		givenCopyAdded(copyID, itemID, now.Add(-time.Hour)),
		givenUserRegistered(userID, now.Add(-time.Hour)),
	}

	// act
	result := checkoutcopy.Decide(history, checkoutcopy.BuildCommand(loanID, copyID, userID, now), policy)

	// assert
	require.Equal(t, "success", result.Outcome)
	require.Len(t, result.Events, 1)
	checkedOut, ok := result.Events[0].(core.CopyCheckedOut)
	require.True(t, ok)
	assert.Equal(t, loanID.String(), checkedOut.LoanID)
	assert.Equal(t, itemID.String(), checkedOut.ItemID)
	assert.True(t, checkedOut.DueAt.Equal(core.ToOccurredAt(now).Add(14*24*time.Hour)))
}

func Test_Decide_FulfillsReadyHoldOfSameUser(t *testing.T) {
	// arrange
	itemID, copyID, userID, loanID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	history := core.DomainEvents{
		givenCopyAdded(copyID, itemID, now.Add(-2*time.Hour)),
		givenUserRegistered(userID, now.Add(-2*time.Hour)),
		core.BuildHoldPromoted("hold-1", itemID.String(), userID.String(), copyID.String(), now.Add(-time.Hour), now.Add(71*time.Hour)),
	}

	// act
	result := checkoutcopy.Decide(history, checkoutcopy.BuildCommand(loanID, copyID, userID, now), core.DefaultPolicy())

	// assert
	require.Len(t, result.Events, 2)
	assert.Equal(t, core.HoldFulfilledEventType, result.Events[0].IsEventType())
	assert.Equal(t, core.CopyCheckedOutEventType, result.Events[1].IsEventType())
}

func Test_Decide_Idempotent_WhenLoanAlreadyOpened(t *testing.T) {
	itemID, copyID, userID, loanID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	history := core.DomainEvents{
		givenCopyAdded(copyID, itemID, now.Add(-2*time.Hour)),
		givenUserRegistered(userID, now.Add(-2*time.Hour)),
		givenCheckedOut(loanID, copyID, itemID, userID, now.Add(-time.Hour)),
	}

	result := checkoutcopy.Decide(history, checkoutcopy.BuildCommand(loanID, copyID, userID, now), core.DefaultPolicy())

	assert.True(t, result.IsIdempotent())
}

func Test_Decide_BusinessErrors(t *testing.T) {
	itemID, copyID, userID, otherUserID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	lostFineID := uuid.NewString()

	openLoans := core.DomainEvents{givenCopyAdded(copyID, itemID, now), givenUserRegistered(userID, now)}
	for i := 0; i < 5; i++ {
		openLoans = append(openLoans, givenCheckedOut(uuid.New(), uuid.New(), uuid.New(), userID, now.Add(-time.Hour)))
	}

	testCases := []struct {
		name     string
		history  core.DomainEvents
		expected error
	}{
		{
			name:     "copy unknown",
			history:  core.DomainEvents{givenUserRegistered(userID, now)},
			expected: core.ErrCopyNotFound,
		},
		{
			name:     "user unknown",
			history:  core.DomainEvents{givenCopyAdded(copyID, itemID, now)},
			expected: core.ErrUserNotFound,
		},
		{
			name: "copy on loan",
			history: core.DomainEvents{
				givenCopyAdded(copyID, itemID, now),
				givenUserRegistered(userID, now),
				givenCheckedOut(uuid.New(), copyID, itemID, otherUserID, now),
			},
			expected: core.ErrCopyNotAvailable,
		},
		{
			name: "copy held for another user",
			history: core.DomainEvents{
				givenCopyAdded(copyID, itemID, now),
				givenUserRegistered(userID, now),
				core.BuildHoldPromoted("hold-1", itemID.String(), otherUserID.String(), copyID.String(), now, now.Add(72*time.Hour)),
			},
			expected: core.ErrCopyNotAvailable,
		},
		{
			name: "account locked",
			history: core.DomainEvents{
				givenCopyAdded(copyID, itemID, now),
				givenUserRegistered(userID, now),
				core.BuildFineAssessed(lostFineID, "loan", userID.String(), "item", decimal.RequireFromString("27.25"), 29, core.FineReasonLost, now),
			},
			expected: core.ErrAccountLocked,
		},
		{
			name:     "loan limit reached",
			history:  openLoans,
			expected: core.ErrLoanLimitExceeded,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := checkoutcopy.Decide(tc.history, checkoutcopy.BuildCommand(uuid.New(), copyID, userID, now), core.DefaultPolicy())

			assertErrorDecision(t, result, tc.expected)
		})
	}
}

func givenCopyAdded(copyID, itemID uuid.UUID, at time.Time) core.DomainEvent {
	return core.BuildCopyAddedToCirculation(copyID.String(), itemID.String(), at)
}

func givenUserRegistered(userID uuid.UUID, at time.Time) core.DomainEvent {
	return core.BuildUserRegistered(userID.String(), "Patron", core.RolePatron, at)
}

func givenCheckedOut(loanID, copyID, itemID, userID uuid.UUID, at time.Time) core.DomainEvent {
	return core.BuildCopyCheckedOut(loanID.String(), copyID.String(), itemID.String(), userID.String(), at.Add(14*24*time.Hour), at)
}

func assertErrorDecision(t *testing.T, result core.DecisionResult, expected error) {
	t.Helper()

	assert.Equal(t, "error", result.Outcome)
	assert.ErrorIs(t, result.HasError(), expected)
	require.Len(t, result.Events, 1)
	failed, ok := result.Events[0].(core.CheckingOutCopyFailed)
	require.True(t, ok)
	assert.Equal(t, core.CodeOf(expected), failed.FailureCode)
}
