package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/accepthold"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/addcatalogitem"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/addcopy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/cancelreservation"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/checkoutcopy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/createreservation"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/declinehold"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/dismissnotification"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/emitnotification"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/marknotificationread"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/payallfines"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/payfine"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/placehold"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/promotehold"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/registerroom"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/registeruser"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/removeroom"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/returncopy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/updateroom"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/waivefine"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
)

// ReturnOutcome describes everything one return changed.
type ReturnOutcome struct {
	Returned core.CopyReturned
	Fine     *core.FineAssessed
	Promoted []core.HoldPromoted
}

// RegisterUser adds a user with a role.
func (e *Engine) RegisterUser(ctx context.Context, userID uuid.UUID, name string, role core.Role) error {
	_, err := e.registerUser.Handle(ctx, registeruser.BuildCommand(userID, name, role, e.clock.Now()))

	return err
}

// AddCatalogItem adds a bibliographic item.
func (e *Engine) AddCatalogItem(ctx context.Context, itemID uuid.UUID, title, author string) error {
	_, err := e.addCatalogItem.Handle(ctx, addcatalogitem.BuildCommand(itemID, title, author, e.clock.Now()))

	return err
}

// AddCopy puts a new physical copy into circulation. A waiting hold is promoted to it.
func (e *Engine) AddCopy(ctx context.Context, copyID, itemID uuid.UUID) ([]core.HoldPromoted, error) {
	result, err := e.addCopy.Handle(ctx, addcopy.BuildCommand(copyID, itemID, e.clock.Now()))
	if err != nil {
		return nil, err
	}

	e.followUp(ctx, result.SuccessfulEvents())

	return core.EventsOfType[core.HoldPromoted](result.SuccessfulEvents()), nil
}

// Checkout lends copyID to userID under a new loan id.
func (e *Engine) Checkout(ctx context.Context, copyID, userID uuid.UUID) (core.CopyCheckedOut, error) {
	result, err := e.checkoutCopy.Handle(ctx, checkoutcopy.BuildCommand(uuid.New(), copyID, userID, e.clock.Now()))
	if err != nil {
		return core.CopyCheckedOut{}, err
	}

	return core.FirstOfType[core.CopyCheckedOut](result.SuccessfulEvents()), nil
}

// Return closes the loan, assesses a late fine and passes the copy to the next waiting hold.
func (e *Engine) Return(ctx context.Context, loanID uuid.UUID) (ReturnOutcome, error) {
	result, err := e.returnCopy.Handle(ctx, returncopy.BuildCommand(loanID, e.clock.Now()))
	if err != nil {
		return ReturnOutcome{}, err
	}

	events := result.SuccessfulEvents()
	e.followUp(ctx, events)

	outcome := ReturnOutcome{
		Returned: core.FirstOfType[core.CopyReturned](events),
		Promoted: core.EventsOfType[core.HoldPromoted](events),
	}
	if fines := core.EventsOfType[core.FineAssessed](events); len(fines) > 0 {
		outcome.Fine = &fines[0]
	}

	return outcome, nil
}

// PlaceHold queues userID for itemID. The hold is promoted at once if a copy is free.
func (e *Engine) PlaceHold(ctx context.Context, itemID, userID uuid.UUID) (core.HoldPlaced, error) {
	result, err := e.placeHold.Handle(ctx, placehold.BuildCommand(uuid.New(), itemID, userID, e.clock.Now()))
	if err != nil {
		return core.HoldPlaced{}, err
	}

	e.followUp(ctx, result.SuccessfulEvents())

	return core.FirstOfType[core.HoldPlaced](result.SuccessfulEvents()), nil
}

// PromoteIfPossible binds free copies of itemID to the head of its queue.
func (e *Engine) PromoteIfPossible(ctx context.Context, itemID uuid.UUID) ([]core.HoldPromoted, error) {
	result, err := e.promoteHold.Handle(ctx, promotehold.BuildCommand(itemID, e.clock.Now()))
	if err != nil {
		return nil, err
	}

	e.followUp(ctx, result.SuccessfulEvents())

	return core.EventsOfType[core.HoldPromoted](result.SuccessfulEvents()), nil
}

// AcceptReadyHold checks out the copy reserved for the hold.
func (e *Engine) AcceptReadyHold(ctx context.Context, holdID, userID uuid.UUID) (core.CopyCheckedOut, error) {
	result, err := e.acceptHold.Handle(ctx, accepthold.BuildCommand(holdID, userID, uuid.New(), e.clock.Now()))
	if err != nil {
		return core.CopyCheckedOut{}, err
	}

	return core.FirstOfType[core.CopyCheckedOut](result.SuccessfulEvents()), nil
}

// DeclineReadyHold cancels a queued or ready hold. A released copy goes to the next hold.
func (e *Engine) DeclineReadyHold(ctx context.Context, holdID, userID uuid.UUID) error {
	result, err := e.declineHold.Handle(ctx, declinehold.BuildCommand(holdID, userID, e.clock.Now()))
	if err != nil {
		return err
	}

	e.followUp(ctx, result.SuccessfulEvents())

	return nil
}

// RegisterRoom adds a bookable room.
func (e *Engine) RegisterRoom(
	ctx context.Context,
	roomID uuid.UUID,
	name string,
	capacity int,
	hours timewindow.WeeklyHours,
) error {

	_, err := e.registerRoom.Handle(ctx, registerroom.BuildCommand(roomID, name, capacity, hours, e.clock.Now()))

	return err
}

// UpdateRoom replaces a room's attributes.
func (e *Engine) UpdateRoom(
	ctx context.Context,
	roomID uuid.UUID,
	name string,
	capacity int,
	hours timewindow.WeeklyHours,
) error {

	_, err := e.updateRoom.Handle(ctx, updateroom.BuildCommand(roomID, name, capacity, hours, e.clock.Now()))

	return err
}

// RemoveRoom takes a room without upcoming reservations out of service.
func (e *Engine) RemoveRoom(ctx context.Context, roomID uuid.UUID) error {
	_, err := e.removeRoom.Handle(ctx, removeroom.BuildCommand(roomID, e.clock.Now()))

	return err
}

// CreateReservation books [start, end) of roomID for userID.
func (e *Engine) CreateReservation(
	ctx context.Context,
	roomID, userID uuid.UUID,
	start, end time.Time,
) (core.ReservationCreated, error) {

	command := createreservation.BuildCommand(uuid.New(), roomID, userID, start, end, e.clock.Now())
	result, err := e.createReservation.Handle(ctx, command)
	if err != nil {
		return core.ReservationCreated{}, err
	}

	return core.FirstOfType[core.ReservationCreated](result.SuccessfulEvents()), nil
}

// CancelReservation cancels an active reservation. Staff may cancel any reservation.
func (e *Engine) CancelReservation(ctx context.Context, reservationID, userID uuid.UUID, isStaff bool) error {
	_, err := e.cancelReservation.Handle(ctx, cancelreservation.BuildCommand(reservationID, userID, isStaff, e.clock.Now()))

	return err
}

// PayFine charges the outstanding amount of one fine.
func (e *Engine) PayFine(
	ctx context.Context,
	fineID, userID uuid.UUID,
	amount decimal.Decimal,
	paymentToken string,
) (core.FinePaid, error) {

	result, err := e.payFine.Handle(ctx, payfine.BuildCommand(fineID, userID, amount, paymentToken, e.clock.Now()))
	if err != nil {
		return core.FinePaid{}, err
	}

	e.followUp(ctx, result.SuccessfulEvents())

	return core.FirstOfType[core.FinePaid](result.SuccessfulEvents()), nil
}

// PayAllFines charges the user's total outstanding balance and settles every open fine.
func (e *Engine) PayAllFines(
	ctx context.Context,
	userID uuid.UUID,
	amount decimal.Decimal,
	paymentToken string,
) ([]core.FinePaid, error) {

	result, err := e.payAllFines.Handle(ctx, payallfines.BuildCommand(userID, amount, paymentToken, e.clock.Now()))
	if err != nil {
		return nil, err
	}

	e.followUp(ctx, result.SuccessfulEvents())

	return core.EventsOfType[core.FinePaid](result.SuccessfulEvents()), nil
}

// WaiveFine settles a fine without payment on behalf of staffID.
func (e *Engine) WaiveFine(ctx context.Context, fineID, staffID uuid.UUID) (core.FineWaived, error) {
	result, err := e.waiveFine.Handle(ctx, waivefine.BuildCommand(fineID, staffID, e.clock.Now()))
	if err != nil {
		return core.FineWaived{}, err
	}

	e.followUp(ctx, result.SuccessfulEvents())

	return core.FirstOfType[core.FineWaived](result.SuccessfulEvents()), nil
}

// Emit creates a notification unless one for the same key is still unread or read.
// It reports whether a notification was created.
func (e *Engine) Emit(
	ctx context.Context,
	userID uuid.UUID,
	notificationType string,
	metadata map[string]string,
	dedupKey string,
) (bool, error) {

	return e.emit(ctx, userID, notificationType, dedupKey, metadata, emitnotification.Standard)
}

// MarkNotificationRead marks one of the user's notifications as read.
func (e *Engine) MarkNotificationRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	_, err := e.markNotificationRead.Handle(ctx, marknotificationread.BuildCommand(notificationID, userID, e.clock.Now()))

	return err
}

// DismissNotification resolves one of the user's notifications.
func (e *Engine) DismissNotification(ctx context.Context, notificationID, userID uuid.UUID) error {
	_, err := e.dismissNotification.Handle(ctx, dismissnotification.BuildCommand(notificationID, userID, e.clock.Now()))

	return err
}
