package accepthold_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/accepthold"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

type fixture struct {
	holdID, itemID, copyID, userID uuid.UUID
	now                            time.Time
}

func newFixture() fixture {
	return fixture{holdID: uuid.New(), itemID: uuid.New(), copyID: uuid.New(), userID: uuid.New(), now: time.Now()}
}

func (f fixture) readyHold() core.DomainEvents {
	return core.DomainEvents{
		core.BuildItemAddedToCatalog(f.itemID.String(), "Dune", "Frank Herbert", f.now.Add(-48*time.Hour)),
		core.BuildCopyAddedToCirculation(f.copyID.String(), f.itemID.String(), f.now.Add(-48*time.Hour)),
		core.BuildCopyCheckedOut("loan-0", f.copyID.String(), f.itemID.String(), "other", f.now, f.now.Add(-47*time.Hour)),
		core.BuildHoldPlaced(f.holdID.String(), f.itemID.String(), f.userID.String(), f.now.Add(-46*time.Hour)),
		core.BuildCopyReturned("loan-0", f.copyID.String(), f.itemID.String(), "other", f.now, f.now.Add(-time.Hour)),
		core.BuildHoldPromoted(f.holdID.String(), f.itemID.String(), f.userID.String(), f.copyID.String(), f.now.Add(-time.Hour), f.now.Add(71*time.Hour)),
	}
}

func Test_Decide_Success(t *testing.T) {
	f := newFixture()
	loanID := uuid.New()

	result := accepthold.Decide(f.readyHold(), accepthold.BuildCommand(f.holdID, f.userID, loanID, f.now), core.DefaultPolicy())

	require.Equal(t, "success", result.Outcome)
	require.Len(t, result.Events, 2)
	fulfilled, ok := result.Events[0].(core.HoldFulfilled)
	require.True(t, ok)
	assert.Equal(t, f.copyID.String(), fulfilled.CopyID)
	assert.Equal(t, loanID.String(), fulfilled.LoanID)
	assert.Equal(t, core.CopyCheckedOutEventType, result.Events[1].IsEventType())
}

func Test_Decide_Idempotent_WhenFulfilledWithSameLoan(t *testing.T) {
	f := newFixture()
	loanID := uuid.New()

	history := append(f.readyHold(),
		core.BuildHoldFulfilled(f.holdID.String(), f.itemID.String(), f.userID.String(), f.copyID.String(), loanID.String(), f.now),
		core.BuildCopyCheckedOut(loanID.String(), f.copyID.String(), f.itemID.String(), f.userID.String(), f.now.Add(time.Hour), f.now),
	)

	result := accepthold.Decide(history, accepthold.BuildCommand(f.holdID, f.userID, loanID, f.now), core.DefaultPolicy())

	assert.True(t, result.IsIdempotent())
}

func Test_Decide_BusinessErrors(t *testing.T) {
	f := newFixture()

	testCases := []struct {
		name     string
		history  core.DomainEvents
		command  accepthold.Command
		expected error
	}{
		{"unknown hold", core.DomainEvents{}, accepthold.BuildCommand(f.holdID, f.userID, uuid.New(), f.now), core.ErrHoldNotFound},
		{"other user's hold", f.readyHold(), accepthold.BuildCommand(f.holdID, uuid.New(), uuid.New(), f.now), core.ErrNotOwner},
		{"pickup window lapsed", f.readyHold(), accepthold.BuildCommand(f.holdID, f.userID, uuid.New(), f.now.Add(72*time.Hour)), core.ErrHoldNotReady},
		{"still queued", f.readyHold()[:5], accepthold.BuildCommand(f.holdID, f.userID, uuid.New(), f.now), core.ErrHoldNotReady},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := accepthold.Decide(tc.history, tc.command, core.DefaultPolicy())

			assert.ErrorIs(t, result.HasError(), tc.expected)
			require.Len(t, result.Events, 1)
			failed, ok := result.Events[0].(core.HoldRequestFailed)
			require.True(t, ok)
			assert.Equal(t, core.HoldActionAccept, failed.Action)
		})
	}
}
