package finepolicy

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

type FineStatus = string

const (
	FineOpen   FineStatus = "open"
	FinePaid   FineStatus = "paid"
	FineWaived FineStatus = "waived"
)

// Fine is the projected state of one fine.
type Fine struct {
	FineID      string
	LoanID      string
	UserID      string
	ItemID      string
	Reason      string
	DaysOverdue int
	Assessed    decimal.Decimal
	Paid        decimal.Decimal
	Waived      decimal.Decimal
	Status      FineStatus
	AssessedAt  time.Time
	SettledAt   time.Time
}

// Outstanding is assessed minus paid minus waived.
func (f Fine) Outstanding() decimal.Decimal {
	return f.Assessed.Sub(f.Paid).Sub(f.Waived)
}

// IsOpen reports whether the fine still has an outstanding balance.
func (f Fine) IsOpen() bool {
	return f.Status == FineOpen
}

// Account is the fine account of one user.
type Account struct {
	order []*Fine
	index map[string]*Fine
}

// ProjectAccount folds fine events into an Account. Other events are ignored.
func ProjectAccount(history core.DomainEvents) *Account {
	account := &Account{index: make(map[string]*Fine)}
	for _, event := range history {
		account.Apply(event)
	}

	return account
}

// Apply folds one event into the account.
func (a *Account) Apply(event core.DomainEvent) {
	switch e := event.(type) {
	case core.FineAssessed:
		fine, ok := a.index[e.FineID]
		if !ok {
			fine = &Fine{FineID: e.FineID, LoanID: e.LoanID, UserID: e.UserID, ItemID: e.ItemID}
			a.order = append(a.order, fine)
			a.index[e.FineID] = fine
		}

		fine.Assessed = e.Amount
		fine.Reason = e.Reason
		fine.DaysOverdue = e.DaysOverdue
		fine.AssessedAt = e.OccurredAt
		fine.Status = FineOpen
		if !fine.Outstanding().IsPositive() {
			fine.Status = FinePaid
		}

	case core.FinePaid:
		if fine, ok := a.index[e.FineID]; ok {
			fine.Paid = fine.Paid.Add(e.Amount)
			fine.Status = FinePaid
			fine.SettledAt = e.OccurredAt
		}

	case core.FineWaived:
		if fine, ok := a.index[e.FineID]; ok {
			fine.Waived = fine.Waived.Add(e.Amount)
			fine.Status = FineWaived
			fine.SettledAt = e.OccurredAt
		}
	}
}

// Fine returns one fine.
func (a *Account) Fine(fineID string) (Fine, bool) {
	fine, ok := a.index[fineID]
	if !ok {
		return Fine{}, false
	}

	return *fine, true
}

// Fines returns all fines in assessment order.
func (a *Account) Fines() []Fine {
	result := make([]Fine, 0, len(a.order))
	for _, fine := range a.order {
		result = append(result, *fine)
	}

	return result
}

// OpenFines returns the fines with an outstanding balance.
func (a *Account) OpenFines() []Fine {
	result := make([]Fine, 0)
	for _, fine := range a.order {
		if fine.IsOpen() {
			result = append(result, *fine)
		}
	}

	return result
}

// TotalOutstanding sums the outstanding balance of all open fines.
func (a *Account) TotalOutstanding() decimal.Decimal {
	total := decimal.Zero
	for _, fine := range a.OpenFines() {
		total = total.Add(fine.Outstanding())
	}

	return total
}

// Locked reports whether the account is locked: at least one open lost-item fine with a positive balance.
func (a *Account) Locked() bool {
	for _, fine := range a.order {
		if fine.IsOpen() && fine.Reason == core.FineReasonLost && fine.Outstanding().IsPositive() {
			return true
		}
	}

	return false
}

// FineFilter selects the events of one fine.
func FineFilter(fineID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.FineAssessedEventType, core.FinePaidEventType, core.FineWaivedEventType).
		AndAnyPredicateOf(eventstore.P("FineID", fineID)).
		Finalize()
}

// AccountFilter selects the fine events of one user.
func AccountFilter(userID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.FineAssessedEventType, core.FinePaidEventType, core.FineWaivedEventType).
		AndAnyPredicateOf(eventstore.P("UserID", userID)).
		Finalize()
}

// LockChangesFilter selects the events that can lock or unlock an account.
func LockChangesFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.LoanMarkedLostEventType, core.FinePaidEventType, core.FineWaivedEventType).
		Finalize()
}
