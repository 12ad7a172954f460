// Package payfine implements paying one fine through the payment gateway.
package payfine

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Check validates the payment before the gateway is charged. It returns the fine to charge, or the failure.
func Check(history core.DomainEvents, command Command) (finepolicy.Fine, *core.Error) {
	fine, ok := finepolicy.ProjectAccount(history).Fine(command.FineID.String())
	if !ok || fine.UserID != command.UserID.String() {
		return finepolicy.Fine{}, core.ErrFineNotFound
	}

	if !fine.IsOpen() {
		return finepolicy.Fine{}, core.ErrFineAlreadySettled
	}

	if !command.Amount.Equal(fine.Outstanding()) {
		return finepolicy.Fine{}, core.ErrAmountMismatch
	}

	return fine, nil
}

// Decide records the payment of the fine with the gateway's reference.
//
//	GIVEN: the fine belongs to the user and is open
//	GIVEN: the amount equals the outstanding balance
//	THEN: FinePaid is generated, UnlocksAccount is set if this payment lifts the account lock
//	ERROR: fine_not_found, fine_already_settled, amount_mismatch
//	ERROR: payment_failed if paymentReference is empty
func Decide(history core.DomainEvents, command Command, paymentReference string) core.DecisionResult {
	fine, failure := Check(history, command)
	if failure == nil && paymentReference == "" {
		failure = core.ErrPaymentFailed
	}

	if failure != nil {
		return core.ErrorDecision(
			core.BuildPayingFineFailed(command.FineID.String(), command.UserID.String(), command.Amount, failure, command.OccurredAt),
			failure,
		)
	}

	account := finepolicy.ProjectAccount(history)
	wasLocked := account.Locked()

	paid := core.BuildFinePaid(fine.FineID, fine.LoanID, fine.UserID, fine.Outstanding(), paymentReference, false, command.OccurredAt)
	account.Apply(paid)

	if wasLocked && !account.Locked() {
		paid = core.BuildFinePaid(fine.FineID, fine.LoanID, fine.UserID, fine.Outstanding(), paymentReference, true, command.OccurredAt)
	}

	return core.SuccessDecision(paid)
}

// BuildEventFilter creates the filter for the fine and the fine account of the paying user.
func BuildEventFilter(command Command) eventstore.Filter {
	return finepolicy.FineFilter(command.FineID.String()).Or(finepolicy.AccountFilter(command.UserID.String()))
}
