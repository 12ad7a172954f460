package placehold_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/placehold"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/returncopy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore/memengine"
	"github.com/AntonStoeckl/library-circulation-engine/testutil/circulation/helper"
)

func Test_CommandHandler_ReturnRacingPlaceHolds_PromotesOnlyTheQueueHead(t *testing.T) {
	const rounds = 10

	for range rounds {
		// arrange
		es := memengine.NewEventStore()
		policy := core.DefaultPolicy()
		retry := shell.WithRetryOptions(shell.WithMaxAttempts(20), shell.WithBaseDelay(time.Millisecond))
		now := time.Now()

		itemID, copyID, loanID := helper.GivenUniqueID(t), helper.GivenUniqueID(t), helper.GivenUniqueID(t)
		borrower, first, second, third := helper.GivenUniqueID(t), helper.GivenUniqueID(t), helper.GivenUniqueID(t), helper.GivenUniqueID(t)
		firstHoldID := helper.GivenUniqueID(t)

		helper.GivenEvents(t, es,
			givenItem(itemID, now.Add(-2*time.Hour)),
			core.BuildCopyAddedToCirculation(copyID.String(), itemID.String(), now.Add(-2*time.Hour)),
			givenUser(borrower, now.Add(-2*time.Hour)),
			givenUser(first, now.Add(-2*time.Hour)),
			givenUser(second, now.Add(-2*time.Hour)),
			givenUser(third, now.Add(-2*time.Hour)),
			core.BuildCopyCheckedOut(loanID.String(), copyID.String(), itemID.String(), borrower.String(), now.Add(policy.LoanPeriod), now.Add(-time.Hour)),
			core.BuildHoldPlaced(firstHoldID.String(), itemID.String(), first.String(), now.Add(-30*time.Minute)),
		)

		returns := returncopy.NewCommandHandler(es, finepolicy.NewCalculator(timewindow.New(nil), policy), policy, retry)
		holds := placehold.NewCommandHandler(es, policy, retry)

		// act
		var wg sync.WaitGroup
		errs := make([]error, 3)

		wg.Add(3)
		go func() {
			defer wg.Done()
			_, errs[0] = returns.Handle(context.Background(), returncopy.BuildCommand(loanID, now))
		}()
		go func() {
			defer wg.Done()
			_, errs[1] = holds.Handle(context.Background(), placehold.BuildCommand(uuid.New(), itemID, second, now))
		}()
		go func() {
			defer wg.Done()
			_, errs[2] = holds.Handle(context.Background(), placehold.BuildCommand(uuid.New(), itemID, third, now))
		}()
		wg.Wait()

		// assert
		for _, err := range errs {
			require.NoError(t, err)
		}

		promoted := core.EventsOfType[core.HoldPromoted](helper.AllEvents(t, es))
		require.Len(t, promoted, 1)
		assert.Equal(t, firstHoldID.String(), promoted[0].HoldID)
		assert.Equal(t, copyID.String(), promoted[0].CopyID)

		queue := holdqueue.Project(itemID.String(), helper.AllEvents(t, es))
		ready := 0
		for _, hold := range queue.Holds() {
			if hold.Status == holdqueue.HoldReady {
				ready++
				assert.Equal(t, first.String(), hold.UserID)
			}
		}
		assert.Equal(t, 1, ready)
		assert.Len(t, queue.Queued(), 2)
	}
}
