package engine

import (
	"context"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/emitnotification"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/expirereadyholds"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/markloanlost"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/promotehold"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/query/overdueloans"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/roomschedule"
)

// Sweep names.
const (
	SweepExpiredHolds = "expired-holds"
	SweepOverdue      = "overdue"
	SweepReminders    = "reminders"
	SweepPromotions   = "promotions"
)

const (
	logMsgSweepEntityFailed = "sweep entity failed"
	logMsgSweepCompleted    = "sweep completed"
	logAttrSweep            = "sweep"
	logAttrEntityID         = "entity_id"
)

// redeliveryWindow bounds how far back sweeps look for follow-up notifications that were never stored.
const redeliveryWindow = 7 * 24 * time.Hour

// ErrUnknownSweep is returned by RunSweep for a name that is not one of the sweep constants.
var ErrUnknownSweep = core.NewError(core.CodeInvalidPayload, "unknown sweep")

// SweepReport summarizes one sweep run.
type SweepReport struct {
	Sweep    string
	At       time.Time
	Examined int
	Changed  int
	Failed   int
}

// SweepNames lists the sweeps in the order RunAllSweeps executes them.
func SweepNames() []string {
	return []string{SweepExpiredHolds, SweepPromotions, SweepOverdue, SweepReminders}
}

// RunSweep runs the named sweep.
func (e *Engine) RunSweep(ctx context.Context, name string) (SweepReport, error) {
	switch name {
	case SweepExpiredHolds:
		return e.SweepExpiredHolds(ctx)
	case SweepOverdue:
		return e.SweepOverdue(ctx)
	case SweepReminders:
		return e.SweepReminders(ctx)
	case SweepPromotions:
		return e.ReconcilePromotions(ctx)
	default:
		return SweepReport{}, ErrUnknownSweep
	}
}

// SweepExpiredHolds expires every ready hold whose pickup window lapsed and passes the copy on.
// Ready holds still within their window get their hold_ready notification if it is missing,
// and so do recently expired holds their hold_expired notification.
func (e *Engine) SweepExpiredHolds(ctx context.Context) (SweepReport, error) {
	report := SweepReport{Sweep: SweepExpiredHolds, At: e.clock.Now()}

	history, err := e.lookup.Load(ctx, "SweepExpiredHolds", holdqueue.ReadyHoldsFilter())
	if err != nil {
		return report, err
	}

	ready := readyHolds(history)
	lapsedItems := make([]string, 0)
	pending := make([]core.HoldPromoted, 0)

	for _, hold := range ready {
		if report.At.Before(hold.ExpiresAt) {
			pending = append(pending, hold)
			continue
		}

		if !slices.Contains(lapsedItems, hold.ItemID) {
			lapsedItems = append(lapsedItems, hold.ItemID)
		}
	}

	for _, itemID := range lapsedItems {
		report.Examined++

		id, parseErr := uuid.Parse(itemID)
		if parseErr != nil {
			e.sweepFailed(ctx, &report, itemID, parseErr)
			continue
		}

		result, handleErr := e.expireReadyHolds.Handle(ctx, expirereadyholds.BuildCommand(id, report.At))
		if handleErr != nil {
			e.sweepFailed(ctx, &report, itemID, handleErr)
			continue
		}

		if !result.Idempotent {
			report.Changed++
		}

		e.followUp(ctx, result.SuccessfulEvents())
	}

	for _, hold := range pending {
		report.Examined++

		n := holdReadyNotice(hold)
		if _, emitErr := e.emitOnce(ctx, n); emitErr != nil {
			e.sweepFailed(ctx, &report, hold.HoldID, emitErr)
		}
	}

	e.redeliver(ctx, &report, recentOf[core.HoldExpired](history, report.At))

	e.sweepCompleted(ctx, report)

	return report, nil
}

// readyHolds returns the promotions not yet followed by a fulfilment, cancellation or expiry.
func readyHolds(history core.DomainEvents) []core.HoldPromoted {
	ready := make([]core.HoldPromoted, 0)

	closeHold := func(holdID string) {
		ready = slices.DeleteFunc(ready, func(h core.HoldPromoted) bool { return h.HoldID == holdID })
	}

	for _, event := range history {
		switch e := event.(type) {
		case core.HoldPromoted:
			ready = append(ready, e)
		case core.HoldFulfilled:
			closeHold(e.HoldID)
		case core.HoldCancelled:
			closeHold(e.HoldID)
		case core.HoldExpired:
			closeHold(e.HoldID)
		}
	}

	return ready
}

// SweepOverdue marks loans past the lost threshold as lost and warns borrowers whose loans
// entered the warning period. Missing lost_marked, suspended and account_reinstated notifications
// of recent lock changes are emitted again.
func (e *Engine) SweepOverdue(ctx context.Context) (SweepReport, error) {
	report := SweepReport{Sweep: SweepOverdue, At: e.clock.Now()}

	open, err := e.overdueLoans.Handle(ctx, overdueloans.BuildQuery(true, report.At))
	if err != nil {
		return report, err
	}

	for _, loan := range open.Loans {
		if !loan.Lost && !loan.LostWarning {
			continue
		}

		report.Examined++

		if loan.Lost {
			changed, lostErr := e.markLost(ctx, loan.LoanID, report.At)
			if lostErr != nil {
				e.sweepFailed(ctx, &report, loan.LoanID, lostErr)
				continue
			}

			if changed {
				report.Changed++
			}

			continue
		}

		emitted, emitErr := e.emitOnce(ctx, notice{
			userID:   loan.UserID,
			kind:     core.NotificationLostWarning,
			dedupKey: loan.LoanID,
			metadata: map[string]string{
				"loan_id":      loan.LoanID,
				"item_id":      loan.ItemID,
				"due_at":       loan.DueAt.Format(time.RFC3339),
				"days_overdue": strconv.Itoa(loan.DaysOverdue),
			},
		})
		if emitErr != nil {
			e.sweepFailed(ctx, &report, loan.LoanID, emitErr)
			continue
		}

		if emitted {
			report.Changed++
		}
	}

	lockChanges, err := e.lookup.Load(ctx, "SweepOverdue", finepolicy.LockChangesFilter())
	if err != nil {
		return report, err
	}

	e.redeliver(ctx, &report, recent(lockChanges, report.At))

	e.sweepCompleted(ctx, report)

	return report, nil
}

// redeliver emits the follow-up notifications of events whose own emission failed.
// Notifications that exist already, in any status, are left alone.
func (e *Engine) redeliver(ctx context.Context, report *SweepReport, events core.DomainEvents) {
	for _, n := range noticesFor(events) {
		emitted, err := e.emitOnce(ctx, n)
		if err != nil {
			e.sweepFailed(ctx, report, n.dedupKey, err)
			continue
		}

		if emitted {
			report.Changed++
		}
	}
}

// recent keeps the events that occurred within the redelivery window before now.
func recent(events core.DomainEvents, now time.Time) core.DomainEvents {
	since := now.Add(-redeliveryWindow)

	return slices.DeleteFunc(slices.Clone(events), func(event core.DomainEvent) bool {
		return event.HasOccurredAt().Before(since)
	})
}

func recentOf[T core.DomainEvent](events core.DomainEvents, now time.Time) core.DomainEvents {
	matched := make(core.DomainEvents, 0)
	for _, event := range core.EventsOfType[T](events) {
		matched = append(matched, event)
	}

	return recent(matched, now)
}

func (e *Engine) markLost(ctx context.Context, loanID string, now time.Time) (bool, error) {
	id, err := uuid.Parse(loanID)
	if err != nil {
		return false, err
	}

	result, err := e.markLoanLost.Handle(ctx, markloanlost.BuildCommand(id, now))
	if err != nil {
		return false, err
	}

	e.followUp(ctx, result.SuccessfulEvents())

	return !result.Idempotent, nil
}

// SweepReminders sends due_soon, overdue and room_expiring reminders, each at most once per key.
func (e *Engine) SweepReminders(ctx context.Context) (SweepReport, error) {
	report := SweepReport{Sweep: SweepReminders, At: e.clock.Now()}

	open, err := e.overdueLoans.Handle(ctx, overdueloans.BuildQuery(false, report.At))
	if err != nil {
		return report, err
	}

	history, err := e.lookup.Load(ctx, "SweepReminders", roomschedule.ScheduleFilter())
	if err != nil {
		return report, err
	}

	reminders := loanReminders(open.Loans, report.At, e.policy.DueSoonLead)
	reminders = append(reminders, roomReminders(roomschedule.Project(history), report.At, e.policy.RoomExpiringLead)...)

	for _, n := range reminders {
		report.Examined++

		emitted, emitErr := e.emitOnce(ctx, n)
		if emitErr != nil {
			e.sweepFailed(ctx, &report, n.dedupKey, emitErr)
			continue
		}

		if emitted {
			report.Changed++
		}
	}

	e.sweepCompleted(ctx, report)

	return report, nil
}

func loanReminders(loans []overdueloans.LoanInfo, now time.Time, dueSoonLead time.Duration) []notice {
	result := make([]notice, 0)

	for _, loan := range loans {
		metadata := map[string]string{
			"loan_id": loan.LoanID,
			"item_id": loan.ItemID,
			"due_at":  loan.DueAt.Format(time.RFC3339),
		}

		switch {
		case loan.Lost:
			continue

		case loan.Overdue:
			metadata["estimated_fine"] = loan.EstimatedFine.StringFixed(2)
			result = append(result, notice{userID: loan.UserID, kind: core.NotificationOverdue, dedupKey: loan.LoanID, metadata: metadata})

		case loan.DueAt.Sub(now) <= dueSoonLead:
			result = append(result, notice{
				userID:   loan.UserID,
				kind:     core.NotificationDueSoon,
				dedupKey: loan.LoanID + "|" + loan.DueAt.Format(time.RFC3339),
				metadata: metadata,
			})
		}
	}

	return result
}

func roomReminders(schedule *roomschedule.Schedule, now time.Time, lead time.Duration) []notice {
	result := make([]notice, 0)

	for _, reservation := range schedule.AllReservations() {
		if !reservation.IsUpcomingOrRunning(now) || reservation.StartTime.After(now) {
			continue
		}

		if reservation.EndTime.Sub(now) > lead {
			continue
		}

		result = append(result, notice{
			userID:   reservation.UserID,
			kind:     core.NotificationRoomExpiring,
			dedupKey: reservation.ReservationID,
			metadata: map[string]string{
				"reservation_id": reservation.ReservationID,
				"room_id":        reservation.RoomID,
				"end_time":       reservation.EndTime.Format(time.RFC3339),
			},
		})
	}

	return result
}

// ReconcilePromotions runs PromoteIfPossible for every catalog item.
// Promotion normally happens in the append that frees a copy, so this sweep rarely changes anything.
func (e *Engine) ReconcilePromotions(ctx context.Context) (SweepReport, error) {
	report := SweepReport{Sweep: SweepPromotions, At: e.clock.Now()}

	history, err := e.lookup.Load(ctx, "ReconcilePromotions", ledger.CatalogFilter())
	if err != nil {
		return report, err
	}

	for _, event := range history {
		item, ok := event.(core.ItemAddedToCatalog)
		if !ok {
			continue
		}

		report.Examined++

		itemID, parseErr := uuid.Parse(item.ItemID)
		if parseErr != nil {
			e.sweepFailed(ctx, &report, item.ItemID, parseErr)
			continue
		}

		result, handleErr := e.promoteHold.Handle(ctx, promotehold.BuildCommand(itemID, report.At))
		if handleErr != nil {
			e.sweepFailed(ctx, &report, item.ItemID, handleErr)
			continue
		}

		if !result.Idempotent {
			report.Changed++
		}

		e.followUp(ctx, result.SuccessfulEvents())
	}

	e.sweepCompleted(ctx, report)

	return report, nil
}

// RunAllSweeps runs every sweep in order. A failing sweep does not stop the others.
func (e *Engine) RunAllSweeps(ctx context.Context) []SweepReport {
	reports := make([]SweepReport, 0, len(SweepNames()))

	for _, name := range SweepNames() {
		report, err := e.RunSweep(ctx, name)
		if err != nil {
			e.logger.ErrorContext(ctx, logMsgSweepEntityFailed, logAttrSweep, name, "error", err.Error())
			continue
		}

		reports = append(reports, report)
	}

	return reports
}

func (e *Engine) emitOnce(ctx context.Context, n notice) (bool, error) {
	userID, err := uuid.Parse(n.userID)
	if err != nil {
		return false, err
	}

	return e.emit(ctx, userID, n.kind, n.dedupKey, n.metadata, emitnotification.OncePerKey)
}

func (e *Engine) sweepFailed(ctx context.Context, report *SweepReport, entityID string, err error) {
	report.Failed++

	e.logger.ErrorContext(ctx, logMsgSweepEntityFailed, logAttrSweep, report.Sweep, logAttrEntityID, entityID, "error", err.Error())
}

func (e *Engine) sweepCompleted(ctx context.Context, report SweepReport) {
	e.logger.InfoContext(
		ctx,
		logMsgSweepCompleted,
		logAttrSweep, report.Sweep,
		"examined", report.Examined,
		"changed", report.Changed,
		"failed", report.Failed,
	)
}
