package engine

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/features/command/emitnotification"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/notify"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	logMsgFollowUpFailed = "notification follow-up failed"
	logMsgPublishFailed  = "notification publish failed"
	logAttrUserID        = "user_id"
	logAttrType          = "notification_type"
	logAttrDedupKey      = "dedup_key"
	logAttrNotification  = "notification_id"
)

// notice is one notification derived from a domain event.
type notice struct {
	userID   string
	kind     string
	dedupKey string
	metadata map[string]string
	mode     emitnotification.Mode
}

// noticesFor maps appended events to the notifications they cause.
func noticesFor(events core.DomainEvents) []notice {
	result := make([]notice, 0)

	for _, event := range events {
		switch e := event.(type) {
		case core.HoldPromoted:
			result = append(result, holdReadyNotice(e))

		case core.HoldExpired:
			result = append(result, notice{
				userID:   e.UserID,
				kind:     core.NotificationHoldExpired,
				dedupKey: e.HoldID,
				metadata: map[string]string{"hold_id": e.HoldID, "item_id": e.ItemID},
			})

		case core.LoanMarkedLost:
			metadata := map[string]string{
				"loan_id":      e.LoanID,
				"item_id":      e.ItemID,
				"due_at":       e.DueAt.Format(time.RFC3339),
				"days_overdue": strconv.Itoa(e.DaysOverdue),
			}
			result = append(result, notice{userID: e.UserID, kind: core.NotificationLostMarked, dedupKey: e.LoanID, metadata: metadata})

			if e.LocksAccount {
				result = append(result, notice{
					userID:   e.UserID,
					kind:     core.NotificationSuspended,
					dedupKey: e.LoanID,
					metadata: map[string]string{"loan_id": e.LoanID},
				})
			}

		case core.FinePaid:
			if e.UnlocksAccount {
				result = append(result, reinstatedNotice(e.UserID, e.FineID))
			}

		case core.FineWaived:
			if e.UnlocksAccount {
				result = append(result, reinstatedNotice(e.UserID, e.FineID))
			}
		}
	}

	return result
}

func holdReadyNotice(e core.HoldPromoted) notice {
	return notice{
		userID:   e.UserID,
		kind:     core.NotificationHoldReady,
		dedupKey: e.HoldID + "|" + e.AvailableSince.Format(time.RFC3339),
		metadata: map[string]string{
			"hold_id":    e.HoldID,
			"item_id":    e.ItemID,
			"copy_id":    e.CopyID,
			"expires_at": e.ExpiresAt.Format(time.RFC3339),
		},
	}
}

func reinstatedNotice(userID, fineID string) notice {
	return notice{
		userID:   userID,
		kind:     core.NotificationAccountReinstated,
		dedupKey: fineID,
		metadata: map[string]string{"fine_id": fineID},
	}
}

// followUp emits the notifications caused by events. The events are committed already,
// so failures are logged and do not fail the operation.
func (e *Engine) followUp(ctx context.Context, events core.DomainEvents) {
	for _, n := range noticesFor(events) {
		userID, err := uuid.Parse(n.userID)
		if err != nil {
			e.logger.ErrorContext(ctx, logMsgFollowUpFailed, logAttrUserID, n.userID, logAttrType, n.kind, "error", err.Error())
			continue
		}

		if _, err = e.emit(ctx, userID, n.kind, n.dedupKey, n.metadata, n.mode); err != nil {
			e.logger.ErrorContext(
				ctx,
				logMsgFollowUpFailed,
				logAttrUserID, n.userID,
				logAttrType, n.kind,
				logAttrDedupKey, n.dedupKey,
				"error", err.Error(),
			)
		}
	}
}

// emit appends a notification and publishes it once it exists. It reports whether one was created.
func (e *Engine) emit(
	ctx context.Context,
	userID uuid.UUID,
	notificationType string,
	dedupKey string,
	metadata map[string]string,
	mode emitnotification.Mode,
) (bool, error) {

	command := emitnotification.BuildCommand(uuid.New(), userID, notificationType, dedupKey, metadata, mode, e.clock.Now())

	result, err := e.emitNotification.Handle(ctx, command)
	if err != nil {
		return false, err
	}

	emitted := core.EventsOfType[core.NotificationEmitted](result.SuccessfulEvents())
	for _, event := range emitted {
		if err = e.publisher.Publish(ctx, notify.MessageFrom(event)); err != nil {
			e.logger.WarnContext(
				ctx,
				logMsgPublishFailed,
				logAttrNotification, event.NotificationID,
				logAttrType, event.Type,
				"error", err.Error(),
			)
		}
	}

	return len(emitted) > 0, nil
}
