package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// ErrMappingToDomainEventFailed is returned when a stored payload cannot be unmarshalled.
var ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

// ErrMappingToDomainEventUnknownEventType is returned for event types this package does not know.
var ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")

// DomainEventFrom converts a StorableEvent to a DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	payload := storableEvent.PayloadJSON

	switch storableEvent.EventType {
	case core.UserRegisteredEventType:
		return unmarshalInto[core.UserRegistered](payload)
	case core.ItemAddedToCatalogEventType:
		return unmarshalInto[core.ItemAddedToCatalog](payload)
	case core.CopyAddedToCirculationEventType:
		return unmarshalInto[core.CopyAddedToCirculation](payload)

	case core.CopyCheckedOutEventType:
		return unmarshalInto[core.CopyCheckedOut](payload)
	case core.CheckingOutCopyFailedEventType:
		return unmarshalInto[core.CheckingOutCopyFailed](payload)
	case core.CopyReturnedEventType:
		return unmarshalInto[core.CopyReturned](payload)
	case core.ReturningCopyFailedEventType:
		return unmarshalInto[core.ReturningCopyFailed](payload)
	case core.LoanMarkedLostEventType:
		return unmarshalInto[core.LoanMarkedLost](payload)

	case core.HoldPlacedEventType:
		return unmarshalInto[core.HoldPlaced](payload)
	case core.PlacingHoldFailedEventType:
		return unmarshalInto[core.PlacingHoldFailed](payload)
	case core.HoldPromotedEventType:
		return unmarshalInto[core.HoldPromoted](payload)
	case core.HoldFulfilledEventType:
		return unmarshalInto[core.HoldFulfilled](payload)
	case core.HoldCancelledEventType:
		return unmarshalInto[core.HoldCancelled](payload)
	case core.HoldExpiredEventType:
		return unmarshalInto[core.HoldExpired](payload)
	case core.HoldRequestFailedEventType:
		return unmarshalInto[core.HoldRequestFailed](payload)

	case core.RoomRegisteredEventType:
		return unmarshalInto[core.RoomRegistered](payload)
	case core.RoomUpdatedEventType:
		return unmarshalInto[core.RoomUpdated](payload)
	case core.RoomRemovedEventType:
		return unmarshalInto[core.RoomRemoved](payload)
	case core.ReservationCreatedEventType:
		return unmarshalInto[core.ReservationCreated](payload)
	case core.CreatingReservationFailedEventType:
		return unmarshalInto[core.CreatingReservationFailed](payload)
	case core.ReservationCancelledEventType:
		return unmarshalInto[core.ReservationCancelled](payload)

	case core.FineAssessedEventType:
		return unmarshalInto[core.FineAssessed](payload)
	case core.FinePaidEventType:
		return unmarshalInto[core.FinePaid](payload)
	case core.FineWaivedEventType:
		return unmarshalInto[core.FineWaived](payload)
	case core.PayingFineFailedEventType:
		return unmarshalInto[core.PayingFineFailed](payload)

	case core.NotificationEmittedEventType:
		return unmarshalInto[core.NotificationEmitted](payload)
	case core.NotificationReadEventType:
		return unmarshalInto[core.NotificationRead](payload)
	case core.NotificationResolvedEventType:
		return unmarshalInto[core.NotificationResolved](payload)

	default:
		return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
	}
}

// DomainEventsFrom converts multiple StorableEvents to DomainEvents, preserving their order.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

func unmarshalInto[T core.DomainEvent](payload []byte) (core.DomainEvent, error) {
	var event T
	if err := jsoniter.ConfigFastest.Unmarshal(payload, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
