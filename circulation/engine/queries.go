package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/fineestimate"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/finesbyuser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/holdsbyuser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/itemqueue"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/loansbyuser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/notificationsbyuser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/overdueloans"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/roomreservations"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/rooms"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/inbox"
)

// LoansOfUser lists the user's loans, newest first.
func (e *Engine) LoansOfUser(ctx context.Context, userID uuid.UUID, activeOnly bool) (loansbyuser.LoansOfUser, error) {
	return e.loansByUser.Handle(ctx, loansbyuser.BuildQuery(userID, activeOnly, e.clock.Now()))
}

// EstimateFine returns the fine a loan has accrued or been assessed.
func (e *Engine) EstimateFine(ctx context.Context, loanID uuid.UUID) (fineestimate.Estimate, error) {
	return e.fineEstimate.Handle(ctx, fineestimate.BuildQuery(loanID, e.clock.Now()))
}

// HoldsOfUser lists the user's holds with their queue positions.
func (e *Engine) HoldsOfUser(ctx context.Context, userID uuid.UUID, activeOnly bool) (holdsbyuser.HoldsOfUser, error) {
	return e.holdsByUser.Handle(ctx, holdsbyuser.BuildQuery(userID, activeOnly))
}

// ItemQueue returns the hold queue and copy availability of an item.
func (e *Engine) ItemQueue(ctx context.Context, itemID uuid.UUID) (itemqueue.ItemQueue, error) {
	return e.itemQueue.Handle(ctx, itemqueue.BuildQuery(itemID))
}

// Rooms lists the rooms in service.
func (e *Engine) Rooms(ctx context.Context) (rooms.Rooms, error) {
	return e.rooms.Handle(ctx, rooms.BuildQuery())
}

// RoomReservations lists a room's reservations with their computed status.
func (e *Engine) RoomReservations(
	ctx context.Context,
	roomID uuid.UUID,
	includeCancelled bool,
) (roomreservations.RoomReservations, error) {

	return e.roomReservations.Handle(ctx, roomreservations.BuildQuery(roomID, includeCancelled, e.clock.Now()))
}

// FinesOfUser returns the user's fines, balance and lock state.
func (e *Engine) FinesOfUser(ctx context.Context, userID uuid.UUID, openOnly bool) (finesbyuser.FineAccount, error) {
	return e.finesByUser.Handle(ctx, finesbyuser.BuildQuery(userID, openOnly))
}

// Notifications lists the user's notifications, newest first. An empty status lists all.
func (e *Engine) Notifications(
	ctx context.Context,
	userID uuid.UUID,
	status inbox.Status,
) (notificationsbyuser.Notifications, error) {

	return e.notificationsByUser.Handle(ctx, notificationsbyuser.BuildQuery(userID, status))
}

// Notification returns one of the user's notifications.
func (e *Engine) Notification(ctx context.Context, notificationID, userID uuid.UUID) (inbox.Notification, error) {
	list, err := e.Notifications(ctx, userID, "")
	if err != nil {
		return inbox.Notification{}, err
	}

	for _, n := range list.Notifications {
		if n.NotificationID == notificationID.String() {
			return n, nil
		}
	}

	return inbox.Notification{}, core.ErrNotificationNotFound
}

// OpenLoans lists active loans by due date.
func (e *Engine) OpenLoans(ctx context.Context, overdueOnly bool) (overdueloans.OpenLoans, error) {
	return e.overdueLoans.Handle(ctx, overdueloans.BuildQuery(overdueOnly, e.clock.Now()))
}
