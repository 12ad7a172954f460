package engine_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/engine"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/inbox"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore/memengine"
	"github.com/AntonStoeckl/library-circulation-engine/testutil/circulation/helper"
	"github.com/AntonStoeckl/library-circulation-engine/testutil/circulation/testdoubles"
)

// Monday, inside the default opening hours.
var monday = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

type fixture struct {
	clock     *timewindow.FixedClock
	publisher *testdoubles.PublisherSpy
	logger    *testdoubles.ContextualLoggerSpy
	engine    *engine.Engine
}

func givenEngine(t *testing.T) fixture {
	t.Helper()

	return givenEngineOn(t, memengine.NewEventStore())
}

func givenEngineOn(t *testing.T, eventStore shell.EventStore) fixture {
	t.Helper()

	f := fixture{
		clock:     timewindow.NewFixedClock(monday),
		publisher: testdoubles.NewPublisherSpy(),
		logger:    testdoubles.NewContextualLoggerSpy(),
	}
	f.engine = engine.New(
		eventStore,
		engine.WithClock(f.clock),
		engine.WithPublisher(f.publisher),
		engine.WithLogger(f.logger),
		engine.WithShellOptions(shell.WithRetryOptions(shell.WithMaxAttempts(20), shell.WithBaseDelay(time.Millisecond))),
	)

	return f
}

func givenPatron(t *testing.T, f fixture, name string) uuid.UUID {
	t.Helper()

	userID := helper.GivenUniqueID(t)
	require.NoError(t, f.engine.RegisterUser(context.Background(), userID, name, core.RolePatron))

	return userID
}

func givenItemWithCopy(t *testing.T, f fixture) (uuid.UUID, uuid.UUID) {
	t.Helper()

	itemID, copyID := helper.GivenUniqueID(t), helper.GivenUniqueID(t)
	require.NoError(t, f.engine.AddCatalogItem(context.Background(), itemID, "The Dispossessed", "Ursula K. Le Guin"))
	_, err := f.engine.AddCopy(context.Background(), copyID, itemID)
	require.NoError(t, err)

	return itemID, copyID
}

func notificationsOf(t *testing.T, f fixture, userID uuid.UUID, notificationType string) []inbox.Notification {
	t.Helper()

	list, err := f.engine.Notifications(context.Background(), userID, "")
	require.NoError(t, err)

	result := make([]inbox.Notification, 0)
	for _, n := range list.Notifications {
		if n.Type == notificationType {
			result = append(result, n)
		}
	}

	return result
}

func Test_Engine_ReturnWithQueuedHold_NotifiesHoldReadyOnce(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenEngine(t)
	alice, bob := givenPatron(t, f, "Alice"), givenPatron(t, f, "Bob")
	itemID, copyID := givenItemWithCopy(t, f)

	loan, err := f.engine.Checkout(ctx, copyID, alice)
	require.NoError(t, err)
	_, err = f.engine.PlaceHold(ctx, itemID, bob)
	require.NoError(t, err)

	// act
	outcome, err := f.engine.Return(ctx, uuid.MustParse(loan.LoanID))
	require.NoError(t, err)

	for range 3 {
		_, err = f.engine.SweepExpiredHolds(ctx)
		require.NoError(t, err)
	}

	// assert
	assert.Nil(t, outcome.Fine)
	require.Len(t, outcome.Promoted, 1)
	assert.Equal(t, bob.String(), outcome.Promoted[0].UserID)
	assert.Equal(t, copyID.String(), outcome.Promoted[0].CopyID)

	readyNotices := notificationsOf(t, f, bob, core.NotificationHoldReady)
	require.Len(t, readyNotices, 1)
	assert.Equal(t, copyID.String(), readyNotices[0].Metadata["copy_id"])
	assert.Len(t, f.publisher.Messages(core.NotificationHoldReady), 1)
}

func Test_Engine_HeldCopy_OnlyTheHoldOwnerCanCheckItOut(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenEngine(t)
	alice, bob, carol := givenPatron(t, f, "Alice"), givenPatron(t, f, "Bob"), givenPatron(t, f, "Carol")
	itemID, copyID := givenItemWithCopy(t, f)

	loan, err := f.engine.Checkout(ctx, copyID, alice)
	require.NoError(t, err)
	hold, err := f.engine.PlaceHold(ctx, itemID, bob)
	require.NoError(t, err)
	_, err = f.engine.Return(ctx, uuid.MustParse(loan.LoanID))
	require.NoError(t, err)

	// act
	_, carolErr := f.engine.Checkout(ctx, copyID, carol)
	bobLoan, bobErr := f.engine.AcceptReadyHold(ctx, uuid.MustParse(hold.HoldID), bob)

	// assert
	assert.ErrorIs(t, carolErr, core.ErrCopyNotAvailable)
	require.NoError(t, bobErr)
	assert.Equal(t, copyID.String(), bobLoan.CopyID)
	assert.Equal(t, bob.String(), bobLoan.UserID)
}

func Test_Engine_SweepExpiredHolds_PassesCopyToNextHold(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenEngine(t)
	alice, bob, carol := givenPatron(t, f, "Alice"), givenPatron(t, f, "Bob"), givenPatron(t, f, "Carol")
	itemID, copyID := givenItemWithCopy(t, f)

	loan, err := f.engine.Checkout(ctx, copyID, alice)
	require.NoError(t, err)
	_, err = f.engine.PlaceHold(ctx, itemID, bob)
	require.NoError(t, err)
	_, err = f.engine.PlaceHold(ctx, itemID, carol)
	require.NoError(t, err)
	_, err = f.engine.Return(ctx, uuid.MustParse(loan.LoanID))
	require.NoError(t, err)

	f.clock.Advance(f.engine.Policy().PickupWindow)

	// act
	report, err := f.engine.SweepExpiredHolds(ctx)
	require.NoError(t, err)
	again, err := f.engine.SweepExpiredHolds(ctx)
	require.NoError(t, err)

	// assert
	assert.Equal(t, 1, report.Changed)
	assert.Zero(t, report.Failed)
	assert.Zero(t, again.Changed)

	assert.Len(t, notificationsOf(t, f, bob, core.NotificationHoldExpired), 1)
	assert.Len(t, notificationsOf(t, f, carol, core.NotificationHoldReady), 1)

	queue, err := f.engine.ItemQueue(ctx, itemID)
	require.NoError(t, err)
	require.Len(t, queue.Holds, 1)
	assert.Equal(t, carol.String(), queue.Holds[0].UserID)
	assert.Equal(t, holdqueue.HoldReady, queue.Holds[0].Status)
	assert.Equal(t, copyID.String(), queue.Holds[0].CopyID)
}

func Test_Engine_LostLoan_LocksAccountUntilFineIsPaid(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenEngine(t)
	alice := givenPatron(t, f, "Alice")
	_, copyID := givenItemWithCopy(t, f)
	_, secondCopyID := givenItemWithCopy(t, f)

	loan, err := f.engine.Checkout(ctx, copyID, alice)
	require.NoError(t, err)
	loanID := uuid.MustParse(loan.LoanID)

	f.clock.Set(loan.DueAt.Add(29 * 24 * time.Hour))

	// act
	report, err := f.engine.SweepOverdue(ctx)
	require.NoError(t, err)
	_, lockedCheckoutErr := f.engine.Checkout(ctx, secondCopyID, alice)
	lockedAccount, err := f.engine.FinesOfUser(ctx, alice, true)
	require.NoError(t, err)

	paid, payErr := f.engine.PayFine(ctx, core.FineIDForLoan(loanID), alice, lockedAccount.TotalOutstanding, "tok_visa")
	_, secondPayErr := f.engine.PayFine(ctx, core.FineIDForLoan(loanID), alice, lockedAccount.TotalOutstanding, "tok_visa")
	unlockedAccount, err := f.engine.FinesOfUser(ctx, alice, false)
	require.NoError(t, err)

	// assert
	assert.Equal(t, 1, report.Changed)
	assert.ErrorIs(t, lockedCheckoutErr, core.ErrAccountLocked)
	assert.True(t, lockedAccount.Locked)
	assert.True(t, decimal.RequireFromString("27.25").Equal(lockedAccount.TotalOutstanding), lockedAccount.TotalOutstanding.String())

	require.NoError(t, payErr)
	assert.True(t, paid.UnlocksAccount)
	assert.ErrorIs(t, secondPayErr, core.ErrFineAlreadySettled)
	assert.False(t, unlockedAccount.Locked)
	assert.True(t, unlockedAccount.TotalOutstanding.IsZero())

	assert.Len(t, notificationsOf(t, f, alice, core.NotificationLostMarked), 1)
	assert.Len(t, notificationsOf(t, f, alice, core.NotificationSuspended), 1)
	assert.Len(t, notificationsOf(t, f, alice, core.NotificationAccountReinstated), 1)

	loans, err := f.engine.LoansOfUser(ctx, alice, false)
	require.NoError(t, err)
	require.Len(t, loans.Loans, 1)
	assert.Equal(t, ledger.LoanLost, loans.Loans[0].Status)
}

func Test_Engine_SweepOverdue_WarnsOncePerLoan(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenEngine(t)
	alice := givenPatron(t, f, "Alice")
	_, copyID := givenItemWithCopy(t, f)

	loan, err := f.engine.Checkout(ctx, copyID, alice)
	require.NoError(t, err)

	f.clock.Set(loan.DueAt.Add(22 * 24 * time.Hour))

	// act
	first, err := f.engine.SweepOverdue(ctx)
	require.NoError(t, err)
	second, err := f.engine.SweepOverdue(ctx)
	require.NoError(t, err)

	// assert
	assert.Equal(t, 1, first.Changed)
	assert.Zero(t, second.Changed)
	warnings := notificationsOf(t, f, alice, core.NotificationLostWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, loan.LoanID, warnings[0].DedupKey)
	assert.Empty(t, notificationsOf(t, f, alice, core.NotificationLostMarked))
}

func Test_Engine_SweepReminders_DueSoonThenOverdue(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenEngine(t)
	alice := givenPatron(t, f, "Alice")
	_, copyID := givenItemWithCopy(t, f)

	loan, err := f.engine.Checkout(ctx, copyID, alice)
	require.NoError(t, err)

	// act
	f.clock.Set(loan.DueAt.Add(-24 * time.Hour))
	_, err = f.engine.SweepReminders(ctx)
	require.NoError(t, err)
	_, err = f.engine.SweepReminders(ctx)
	require.NoError(t, err)

	f.clock.Set(loan.DueAt.Add(25 * time.Hour))
	_, err = f.engine.SweepReminders(ctx)
	require.NoError(t, err)
	_, err = f.engine.SweepReminders(ctx)
	require.NoError(t, err)

	// assert
	assert.Len(t, notificationsOf(t, f, alice, core.NotificationDueSoon), 1)
	overdue := notificationsOf(t, f, alice, core.NotificationOverdue)
	require.Len(t, overdue, 1)
	assert.Equal(t, "0.25", overdue[0].Metadata["estimated_fine"])
}

func Test_Engine_SweepReminders_RoomExpiring(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenEngine(t)
	alice := givenPatron(t, f, "Alice")
	roomID := helper.GivenUniqueID(t)
	require.NoError(t, f.engine.RegisterRoom(ctx, roomID, "Study Room A", 4, timewindow.DefaultWeeklyHours()))

	reservation, err := f.engine.CreateReservation(ctx, roomID, alice, monday, monday.Add(time.Hour))
	require.NoError(t, err)

	f.clock.Advance(50 * time.Minute)

	// act
	first, err := f.engine.SweepReminders(ctx)
	require.NoError(t, err)
	second, err := f.engine.SweepReminders(ctx)
	require.NoError(t, err)

	// assert
	assert.Equal(t, 1, first.Changed)
	assert.Zero(t, second.Changed)
	expiring := notificationsOf(t, f, alice, core.NotificationRoomExpiring)
	require.Len(t, expiring, 1)
	assert.Equal(t, reservation.ReservationID, expiring[0].DedupKey)
}

func Test_Engine_PublishFailure_IsLoggedAndNotificationKept(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenEngine(t)
	f.publisher.Err = errors.New("broker unreachable")
	alice := givenPatron(t, f, "Alice")

	// act
	emitted, err := f.engine.Emit(ctx, alice, core.NotificationOverdue, map[string]string{"loan_id": "l-1"}, "l-1")

	// assert
	require.NoError(t, err)
	assert.True(t, emitted)
	assert.Len(t, notificationsOf(t, f, alice, core.NotificationOverdue), 1)
	assert.True(t, f.logger.HasMessage("warn", "notification publish failed"))
}

func Test_Engine_Emit_DeduplicatesUntilDismissed(t *testing.T) {
	// arrange
	ctx := context.Background()
	f := givenEngine(t)
	alice := givenPatron(t, f, "Alice")

	// act
	first, err := f.engine.Emit(ctx, alice, core.NotificationOverdue, nil, "loan-1")
	require.NoError(t, err)
	duplicate, err := f.engine.Emit(ctx, alice, core.NotificationOverdue, nil, "loan-1")
	require.NoError(t, err)

	existing := notificationsOf(t, f, alice, core.NotificationOverdue)
	require.Len(t, existing, 1)
	require.NoError(t, f.engine.DismissNotification(ctx, uuid.MustParse(existing[0].NotificationID), alice))

	afterDismiss, err := f.engine.Emit(ctx, alice, core.NotificationOverdue, nil, "loan-1")
	require.NoError(t, err)

	// assert
	assert.True(t, first)
	assert.False(t, duplicate)
	assert.True(t, afterDismiss)
}

func Test_Engine_RunSweep_UnknownName(t *testing.T) {
	// arrange
	f := givenEngine(t)

	// act
	_, err := f.engine.RunSweep(context.Background(), "defragment")

	// assert
	assert.ErrorIs(t, err, engine.ErrUnknownSweep)
	assert.Equal(t, core.CodeInvalidPayload, core.CodeOf(err))
}

func Test_Engine_RunAllSweeps_ReportsEverySweep(t *testing.T) {
	// arrange
	f := givenEngine(t)

	// act
	reports := f.engine.RunAllSweeps(context.Background())

	// assert
	require.Len(t, reports, len(engine.SweepNames()))
	for i, name := range engine.SweepNames() {
		assert.Equal(t, name, reports[i].Sweep)
		assert.Zero(t, reports[i].Failed)
	}
}

var errStoreUnavailable = errors.New("store unavailable")

// failingOnceStore fails the first append that stores a notification of the given type.
type failingOnceStore struct {
	shell.EventStore

	mu               sync.Mutex
	notificationType string
	failed           bool
}

func newFailingOnceStore(notificationType string) *failingOnceStore {
	return &failingOnceStore{EventStore: memengine.NewEventStore(), notificationType: notificationType}
}

func (s *failingOnceStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	storableEvents ...eventstore.StorableEvent,
) error {

	s.mu.Lock()
	for _, event := range storableEvents {
		if !s.failed &&
			event.EventType == core.NotificationEmittedEventType &&
			bytes.Contains(event.PayloadJSON, []byte(`"Type":"`+s.notificationType+`"`)) {

			s.failed = true
			s.mu.Unlock()

			return errStoreUnavailable
		}
	}
	s.mu.Unlock()

	return s.EventStore.Append(ctx, filter, expectedMaxSequenceNumber, storableEvents...)
}

func (s *failingOnceStore) hasFailed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.failed
}

func Test_Engine_SweepOverdue_RedeliversSuspendedAfterFailedEmit(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := newFailingOnceStore(core.NotificationSuspended)
	f := givenEngineOn(t, store)
	alice := givenPatron(t, f, "Alice")
	_, copyID := givenItemWithCopy(t, f)

	loan, err := f.engine.Checkout(ctx, copyID, alice)
	require.NoError(t, err)
	f.clock.Set(loan.DueAt.Add(29 * 24 * time.Hour))

	// act
	first, err := f.engine.SweepOverdue(ctx)
	require.NoError(t, err)
	second, err := f.engine.SweepOverdue(ctx)
	require.NoError(t, err)

	// assert
	assert.True(t, store.hasFailed())
	assert.True(t, f.logger.HasMessage("error", "notification follow-up failed"))
	assert.Equal(t, 2, first.Changed)
	assert.Zero(t, second.Changed)
	assert.Len(t, notificationsOf(t, f, alice, core.NotificationLostMarked), 1)
	assert.Len(t, notificationsOf(t, f, alice, core.NotificationSuspended), 1)
}

func Test_Engine_SweepOverdue_RedeliversAccountReinstatedAfterFailedEmit(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := newFailingOnceStore(core.NotificationAccountReinstated)
	f := givenEngineOn(t, store)
	alice := givenPatron(t, f, "Alice")
	_, copyID := givenItemWithCopy(t, f)

	loan, err := f.engine.Checkout(ctx, copyID, alice)
	require.NoError(t, err)
	loanID := uuid.MustParse(loan.LoanID)
	f.clock.Set(loan.DueAt.Add(29 * 24 * time.Hour))
	_, err = f.engine.SweepOverdue(ctx)
	require.NoError(t, err)

	account, err := f.engine.FinesOfUser(ctx, alice, true)
	require.NoError(t, err)
	paid, err := f.engine.PayFine(ctx, core.FineIDForLoan(loanID), alice, account.TotalOutstanding, "tok_visa")
	require.NoError(t, err)
	require.True(t, paid.UnlocksAccount)
	require.Empty(t, notificationsOf(t, f, alice, core.NotificationAccountReinstated))

	// act
	_, err = f.engine.SweepOverdue(ctx)
	require.NoError(t, err)
	_, err = f.engine.SweepOverdue(ctx)
	require.NoError(t, err)

	// assert
	assert.True(t, store.hasFailed())
	assert.Len(t, notificationsOf(t, f, alice, core.NotificationAccountReinstated), 1)
}

func Test_Engine_SweepExpiredHolds_RedeliversHoldExpiredAfterFailedEmit(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := newFailingOnceStore(core.NotificationHoldExpired)
	f := givenEngineOn(t, store)
	alice, bob := givenPatron(t, f, "Alice"), givenPatron(t, f, "Bob")
	itemID, copyID := givenItemWithCopy(t, f)

	loan, err := f.engine.Checkout(ctx, copyID, alice)
	require.NoError(t, err)
	_, err = f.engine.PlaceHold(ctx, itemID, bob)
	require.NoError(t, err)
	_, err = f.engine.Return(ctx, uuid.MustParse(loan.LoanID))
	require.NoError(t, err)
	f.clock.Advance(f.engine.Policy().PickupWindow)

	// act
	_, err = f.engine.SweepExpiredHolds(ctx)
	require.NoError(t, err)
	missing := notificationsOf(t, f, bob, core.NotificationHoldExpired)
	_, err = f.engine.SweepExpiredHolds(ctx)
	require.NoError(t, err)
	_, err = f.engine.SweepExpiredHolds(ctx)
	require.NoError(t, err)

	// assert
	assert.True(t, store.hasFailed())
	assert.Empty(t, missing)
	assert.Len(t, notificationsOf(t, f, bob, core.NotificationHoldExpired), 1)
}
