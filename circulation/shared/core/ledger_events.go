package core

import (
	"time"
)

const (
	CopyCheckedOutEventType        = "CopyCheckedOut"
	CheckingOutCopyFailedEventType = "CheckingOutCopyFailed"
	CopyReturnedEventType          = "CopyReturned"
	ReturningCopyFailedEventType   = "ReturningCopyFailed"
	LoanMarkedLostEventType        = "LoanMarkedLost"
)

// CopyCheckedOut opens a Loan.
type CopyCheckedOut struct {
	LoanID     LoanIDString
	CopyID     CopyIDString
	ItemID     ItemIDString
	UserID     UserIDString
	DueAt      time.Time
	OccurredAt time.Time
}

func BuildCopyCheckedOut(loanID, copyID, itemID, userID string, dueAt, occurredAt time.Time) DomainEvent {
	return CopyCheckedOut{
		LoanID:     loanID,
		CopyID:     copyID,
		ItemID:     itemID,
		UserID:     userID,
		DueAt:      ToOccurredAt(dueAt),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e CopyCheckedOut) IsEventType() string      { return CopyCheckedOutEventType }
func (e CopyCheckedOut) HasOccurredAt() time.Time { return e.OccurredAt }
func (e CopyCheckedOut) IsErrorEvent() bool       { return false }

// CheckingOutCopyFailed records a denied checkout.
type CheckingOutCopyFailed struct {
	CopyID      CopyIDString
	UserID      UserIDString
	FailureCode ErrCode
	FailureInfo string
	OccurredAt  time.Time
}

func BuildCheckingOutCopyFailed(copyID, userID string, err *Error, occurredAt time.Time) DomainEvent {
	return CheckingOutCopyFailed{
		CopyID:      copyID,
		UserID:      userID,
		FailureCode: err.Code,
		FailureInfo: err.Msg,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e CheckingOutCopyFailed) IsEventType() string      { return CheckingOutCopyFailedEventType }
func (e CheckingOutCopyFailed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e CheckingOutCopyFailed) IsErrorEvent() bool       { return true }

// CopyReturned closes a Loan.
type CopyReturned struct {
	LoanID     LoanIDString
	CopyID     CopyIDString
	ItemID     ItemIDString
	UserID     UserIDString
	DueAt      time.Time
	OccurredAt time.Time
}

func BuildCopyReturned(loanID, copyID, itemID, userID string, dueAt, occurredAt time.Time) DomainEvent {
	return CopyReturned{
		LoanID:     loanID,
		CopyID:     copyID,
		ItemID:     itemID,
		UserID:     userID,
		DueAt:      ToOccurredAt(dueAt),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e CopyReturned) IsEventType() string      { return CopyReturnedEventType }
func (e CopyReturned) HasOccurredAt() time.Time { return e.OccurredAt }
func (e CopyReturned) IsErrorEvent() bool       { return false }

// ReturningCopyFailed records a denied return.
type ReturningCopyFailed struct {
	LoanID      LoanIDString
	FailureCode ErrCode
	FailureInfo string
	OccurredAt  time.Time
}

func BuildReturningCopyFailed(loanID string, err *Error, occurredAt time.Time) DomainEvent {
	return ReturningCopyFailed{
		LoanID:      loanID,
		FailureCode: err.Code,
		FailureInfo: err.Msg,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e ReturningCopyFailed) IsEventType() string      { return ReturningCopyFailedEventType }
func (e ReturningCopyFailed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ReturningCopyFailed) IsErrorEvent() bool       { return true }

// LoanMarkedLost closes a Loan that stayed overdue beyond the lost threshold. The copy becomes lost.
// LocksAccount is true if the user's account was unlocked before.
type LoanMarkedLost struct {
	LoanID       LoanIDString
	CopyID       CopyIDString
	ItemID       ItemIDString
	UserID       UserIDString
	DueAt        time.Time
	DaysOverdue  int
	LocksAccount bool
	OccurredAt   time.Time
}

func BuildLoanMarkedLost(
	loanID, copyID, itemID, userID string,
	dueAt time.Time,
	daysOverdue int,
	locksAccount bool,
	occurredAt time.Time,
) DomainEvent {
	return LoanMarkedLost{
		LoanID:       loanID,
		CopyID:       copyID,
		ItemID:       itemID,
		UserID:       userID,
		DueAt:        ToOccurredAt(dueAt),
		DaysOverdue:  daysOverdue,
		LocksAccount: locksAccount,
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

func (e LoanMarkedLost) IsEventType() string      { return LoanMarkedLostEventType }
func (e LoanMarkedLost) HasOccurredAt() time.Time { return e.OccurredAt }
func (e LoanMarkedLost) IsErrorEvent() bool       { return false }
