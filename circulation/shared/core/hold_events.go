package core

import (
	"time"
)

const (
	HoldPlacedEventType        = "HoldPlaced"
	PlacingHoldFailedEventType = "PlacingHoldFailed"
	HoldPromotedEventType      = "HoldPromoted"
	HoldFulfilledEventType     = "HoldFulfilled"
	HoldCancelledEventType     = "HoldCancelled"
	HoldExpiredEventType       = "HoldExpired"
	HoldRequestFailedEventType = "HoldRequestFailed"
)

// Actions recorded in HoldRequestFailed.
const (
	HoldActionAccept  = "accept"
	HoldActionDecline = "decline"
)

// HoldPlaced enqueues a hold. Queue order is the order of these events.
type HoldPlaced struct {
	HoldID     HoldIDString
	ItemID     ItemIDString
	UserID     UserIDString
	OccurredAt time.Time
}

func BuildHoldPlaced(holdID, itemID, userID string, occurredAt time.Time) DomainEvent {
	return HoldPlaced{
		HoldID:     holdID,
		ItemID:     itemID,
		UserID:     userID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e HoldPlaced) IsEventType() string      { return HoldPlacedEventType }
func (e HoldPlaced) HasOccurredAt() time.Time { return e.OccurredAt }
func (e HoldPlaced) IsErrorEvent() bool       { return false }

// PlacingHoldFailed records a denied hold request.
type PlacingHoldFailed struct {
	ItemID      ItemIDString
	UserID      UserIDString
	FailureCode ErrCode
	FailureInfo string
	OccurredAt  time.Time
}

func BuildPlacingHoldFailed(itemID, userID string, err *Error, occurredAt time.Time) DomainEvent {
	return PlacingHoldFailed{
		ItemID:      itemID,
		UserID:      userID,
		FailureCode: err.Code,
		FailureInfo: err.Msg,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e PlacingHoldFailed) IsEventType() string      { return PlacingHoldFailedEventType }
func (e PlacingHoldFailed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e PlacingHoldFailed) IsErrorEvent() bool       { return true }

// HoldPromoted makes a queued hold ready and reserves CopyID for it until ExpiresAt.
type HoldPromoted struct {
	HoldID         HoldIDString
	ItemID         ItemIDString
	UserID         UserIDString
	CopyID         CopyIDString
	AvailableSince time.Time
	ExpiresAt      time.Time
	OccurredAt     time.Time
}

func BuildHoldPromoted(holdID, itemID, userID, copyID string, availableSince, expiresAt time.Time) DomainEvent {
	return HoldPromoted{
		HoldID:         holdID,
		ItemID:         itemID,
		UserID:         userID,
		CopyID:         copyID,
		AvailableSince: ToOccurredAt(availableSince),
		ExpiresAt:      ToOccurredAt(expiresAt),
		OccurredAt:     ToOccurredAt(availableSince),
	}
}

func (e HoldPromoted) IsEventType() string      { return HoldPromotedEventType }
func (e HoldPromoted) HasOccurredAt() time.Time { return e.OccurredAt }
func (e HoldPromoted) IsErrorEvent() bool       { return false }

// HoldFulfilled records that the patron picked up the reserved copy. A CopyCheckedOut follows in the same append.
type HoldFulfilled struct {
	HoldID     HoldIDString
	ItemID     ItemIDString
	UserID     UserIDString
	CopyID     CopyIDString
	LoanID     LoanIDString
	OccurredAt time.Time
}

func BuildHoldFulfilled(holdID, itemID, userID, copyID, loanID string, occurredAt time.Time) DomainEvent {
	return HoldFulfilled{
		HoldID:     holdID,
		ItemID:     itemID,
		UserID:     userID,
		CopyID:     copyID,
		LoanID:     loanID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e HoldFulfilled) IsEventType() string      { return HoldFulfilledEventType }
func (e HoldFulfilled) HasOccurredAt() time.Time { return e.OccurredAt }
func (e HoldFulfilled) IsErrorEvent() bool       { return false }

// HoldCancelled records a decline. CopyID is set when a ready hold released its reserved copy.
type HoldCancelled struct {
	HoldID     HoldIDString
	ItemID     ItemIDString
	UserID     UserIDString
	CopyID     CopyIDString
	OccurredAt time.Time
}

func BuildHoldCancelled(holdID, itemID, userID, copyID string, occurredAt time.Time) DomainEvent {
	return HoldCancelled{
		HoldID:     holdID,
		ItemID:     itemID,
		UserID:     userID,
		CopyID:     copyID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e HoldCancelled) IsEventType() string      { return HoldCancelledEventType }
func (e HoldCancelled) HasOccurredAt() time.Time { return e.OccurredAt }
func (e HoldCancelled) IsErrorEvent() bool       { return false }

// HoldExpired records a ready hold whose pickup window lapsed. CopyID is released.
type HoldExpired struct {
	HoldID     HoldIDString
	ItemID     ItemIDString
	UserID     UserIDString
	CopyID     CopyIDString
	OccurredAt time.Time
}

func BuildHoldExpired(holdID, itemID, userID, copyID string, occurredAt time.Time) DomainEvent {
	return HoldExpired{
		HoldID:     holdID,
		ItemID:     itemID,
		UserID:     userID,
		CopyID:     copyID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e HoldExpired) IsEventType() string      { return HoldExpiredEventType }
func (e HoldExpired) HasOccurredAt() time.Time { return e.OccurredAt }
func (e HoldExpired) IsErrorEvent() bool       { return false }

// HoldRequestFailed records a denied accept or decline.
type HoldRequestFailed struct {
	HoldID      HoldIDString
	UserID      UserIDString
	Action      string
	FailureCode ErrCode
	FailureInfo string
	OccurredAt  time.Time
}

func BuildHoldRequestFailed(holdID, userID, action string, err *Error, occurredAt time.Time) DomainEvent {
	return HoldRequestFailed{
		HoldID:      holdID,
		UserID:      userID,
		Action:      action,
		FailureCode: err.Code,
		FailureInfo: err.Msg,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e HoldRequestFailed) IsEventType() string      { return HoldRequestFailedEventType }
func (e HoldRequestFailed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e HoldRequestFailed) IsErrorEvent() bool       { return true }
