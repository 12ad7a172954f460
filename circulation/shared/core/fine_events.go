package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FineAssessedEventType     = "FineAssessed"
	FinePaidEventType         = "FinePaid"
	FineWaivedEventType       = "FineWaived"
	PayingFineFailedEventType = "PayingFineFailed"
)

// Fine reasons.
const (
	FineReasonOverdue = "overdue"
	FineReasonLost    = "lost"
)

// FineAssessed sets the assessed amount of a loan's fine. A later assessment of the same fine replaces the earlier one.
type FineAssessed struct {
	FineID      FineIDString
	LoanID      LoanIDString
	UserID      UserIDString
	ItemID      ItemIDString
	Amount      decimal.Decimal
	DaysOverdue int
	Reason      string
	OccurredAt  time.Time
}

func BuildFineAssessed(
	fineID, loanID, userID, itemID string,
	amount decimal.Decimal,
	daysOverdue int,
	reason string,
	occurredAt time.Time,
) DomainEvent {
	return FineAssessed{
		FineID:      fineID,
		LoanID:      loanID,
		UserID:      userID,
		ItemID:      itemID,
		Amount:      amount,
		DaysOverdue: daysOverdue,
		Reason:      reason,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e FineAssessed) IsEventType() string      { return FineAssessedEventType }
func (e FineAssessed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e FineAssessed) IsErrorEvent() bool       { return false }

// FinePaid settles the full outstanding amount of a fine.
// UnlocksAccount is true if this settlement cleared the user's last open lost-item fine.
type FinePaid struct {
	FineID           FineIDString
	LoanID           LoanIDString
	UserID           UserIDString
	Amount           decimal.Decimal
	PaymentReference string
	UnlocksAccount   bool
	OccurredAt       time.Time
}

func BuildFinePaid(
	fineID, loanID, userID string,
	amount decimal.Decimal,
	paymentReference string,
	unlocksAccount bool,
	occurredAt time.Time,
) DomainEvent {
	return FinePaid{
		FineID:           fineID,
		LoanID:           loanID,
		UserID:           userID,
		Amount:           amount,
		PaymentReference: paymentReference,
		UnlocksAccount:   unlocksAccount,
		OccurredAt:       ToOccurredAt(occurredAt),
	}
}

func (e FinePaid) IsEventType() string      { return FinePaidEventType }
func (e FinePaid) HasOccurredAt() time.Time { return e.OccurredAt }
func (e FinePaid) IsErrorEvent() bool       { return false }

// FineWaived settles a fine without payment.
type FineWaived struct {
	FineID         FineIDString
	LoanID         LoanIDString
	UserID         UserIDString
	Amount         decimal.Decimal
	WaivedBy       UserIDString
	UnlocksAccount bool
	OccurredAt     time.Time
}

func BuildFineWaived(
	fineID, loanID, userID string,
	amount decimal.Decimal,
	waivedBy string,
	unlocksAccount bool,
	occurredAt time.Time,
) DomainEvent {
	return FineWaived{
		FineID:         fineID,
		LoanID:         loanID,
		UserID:         userID,
		Amount:         amount,
		WaivedBy:       waivedBy,
		UnlocksAccount: unlocksAccount,
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

func (e FineWaived) IsEventType() string      { return FineWaivedEventType }
func (e FineWaived) HasOccurredAt() time.Time { return e.OccurredAt }
func (e FineWaived) IsErrorEvent() bool       { return false }

// PayingFineFailed records a rejected payment.
type PayingFineFailed struct {
	FineID      FineIDString
	UserID      UserIDString
	Amount      decimal.Decimal
	FailureCode ErrCode
	FailureInfo string
	OccurredAt  time.Time
}

func BuildPayingFineFailed(fineID, userID string, amount decimal.Decimal, err *Error, occurredAt time.Time) DomainEvent {
	return PayingFineFailed{
		FineID:      fineID,
		UserID:      userID,
		Amount:      amount,
		FailureCode: err.Code,
		FailureInfo: err.Msg,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e PayingFineFailed) IsEventType() string      { return PayingFineFailedEventType }
func (e PayingFineFailed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e PayingFineFailed) IsErrorEvent() bool       { return true }
