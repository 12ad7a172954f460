// Package payallfines implements paying the total outstanding balance of a user at once.
package payallfines

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Check validates the payment before the gateway is charged. It returns the total to charge and
// the idempotency key that identifies exactly this set of open fines.
func Check(history core.DomainEvents, command Command) (decimal.Decimal, string, *core.Error) {
	account := finepolicy.ProjectAccount(history)

	open := account.OpenFines()
	if len(open) == 0 {
		return decimal.Zero, "", core.ErrNoOutstandingFines
	}

	total := account.TotalOutstanding()
	if !command.Amount.Equal(total) {
		return decimal.Zero, "", core.ErrAmountMismatch
	}

	ids := make([]string, 0, len(open))
	for _, fine := range open {
		ids = append(ids, fine.FineID)
	}
	slices.Sort(ids)

	return total, "total:" + strings.Join(ids, ","), nil
}

// Decide pays every open fine of the user.
//
//	GIVEN: the user has open fines and the amount equals their total
//	THEN: one FinePaid per open fine is generated, all carrying the same paymentReference
//	THEN: the FinePaid that lifts the account lock has UnlocksAccount set
//	ERROR: no_outstanding_fines, amount_mismatch, payment_failed if paymentReference is empty
func Decide(history core.DomainEvents, command Command, paymentReference string) core.DecisionResult {
	if _, _, failure := Check(history, command); failure != nil {
		return core.RejectedDecision(failure)
	}

	if paymentReference == "" {
		return core.RejectedDecision(core.ErrPaymentFailed)
	}

	account := finepolicy.ProjectAccount(history)
	wasLocked := account.Locked()

	events := make(core.DomainEvents, 0)
	for _, fine := range account.OpenFines() {
		paid := core.BuildFinePaid(fine.FineID, fine.LoanID, fine.UserID, fine.Outstanding(), paymentReference, false, command.OccurredAt)
		account.Apply(paid)

		if wasLocked && !account.Locked() {
			paid = core.BuildFinePaid(fine.FineID, fine.LoanID, fine.UserID, fine.Outstanding(), paymentReference, true, command.OccurredAt)
			wasLocked = false
		}

		events = append(events, paid)
	}

	return core.SuccessDecision(events[0], events[1:]...)
}

// BuildEventFilter creates the filter for the fine account of the user.
func BuildEventFilter(command Command) eventstore.Filter {
	return finepolicy.AccountFilter(command.UserID.String())
}
