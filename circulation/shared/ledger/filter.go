package ledger

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// LoanFilter selects the ledger events of one loan.
func LoanFilter(loanID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CopyCheckedOutEventType,
			core.CopyReturnedEventType,
			core.LoanMarkedLostEventType,
		).
		AndAnyPredicateOf(eventstore.P("LoanID", loanID)).
		Finalize()
}

// CopyFilter selects everything that changes the status of one copy.
func CopyFilter(copyID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CopyAddedToCirculationEventType,
			core.CopyCheckedOutEventType,
			core.CopyReturnedEventType,
			core.LoanMarkedLostEventType,
			core.HoldPromotedEventType,
			core.HoldCancelledEventType,
			core.HoldExpiredEventType,
		).
		AndAnyPredicateOf(eventstore.P("CopyID", copyID)).
		Finalize()
}

// BorrowerEventTypes are the event types a user's borrowing eligibility depends on:
// registration, open loans and the fines behind the account lock.
var BorrowerEventTypes = []string{
	core.UserRegisteredEventType,
	core.CopyCheckedOutEventType,
	core.CopyReturnedEventType,
	core.LoanMarkedLostEventType,
	core.FineAssessedEventType,
	core.FinePaidEventType,
	core.FineWaivedEventType,
}

// BorrowerFilter selects the events a user's borrowing eligibility depends on.
func BorrowerFilter(userID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(BorrowerEventTypes[0], BorrowerEventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("UserID", userID)).
		Finalize()
}

// UserFilter selects the registration of one user.
func UserFilter(userID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.UserRegisteredEventType).
		AndAnyPredicateOf(eventstore.P("UserID", userID)).
		Finalize()
}

// CatalogFilter selects all catalog entries, used by read models that show titles.
func CatalogFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.ItemAddedToCatalogEventType).
		Finalize()
}

// AllLoansFilter selects the ledger events of every loan.
func AllLoansFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.CopyCheckedOutEventType,
			core.CopyReturnedEventType,
			core.LoanMarkedLostEventType,
		).
		Finalize()
}
