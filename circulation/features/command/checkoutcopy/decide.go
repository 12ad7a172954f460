package checkoutcopy

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// state represents the current state projected from the event history.
type state struct {
	copyKnown      bool
	itemID         string
	copyStatus     holdqueue.CopyStatus
	heldByHoldID   string
	heldForUserID  string
	heldExpiresAt  time.Time
	userRegistered bool
	openLoans      int
	accountLocked  bool
	loanExists     bool
	loanMatches    bool
}

// Decide determines whether the copy can be lent to the user.
//
//	GIVEN: a copy with CopyID and a user with UserID
//	WHEN: CheckoutCopy is received
//	THEN: CopyCheckedOut is generated with DueAt = now + LoanPeriod
//	THEN: HoldFulfilled precedes it if the copy is held for this user's ready hold
//	ERROR: copy_not_found, user_not_found, copy_not_available, account_locked, loan_limit_exceeded
//	IDEMPOTENCY: a loan with this LoanID for the same copy and user already exists
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	s := project(history, command)

	if s.loanExists {
		if s.loanMatches {
			return core.IdempotentDecision()
		}

		return core.RejectedDecision(core.NewError(core.CodeInvalidPayload, "loan id is already in use"))
	}

	if failure := checkFailures(s, command, policy); failure != nil {
		return core.ErrorDecision(
			core.BuildCheckingOutCopyFailed(command.CopyID.String(), command.UserID.String(), failure, command.OccurredAt),
			failure,
		)
	}

	checkedOut := core.BuildCopyCheckedOut(
		command.LoanID.String(),
		command.CopyID.String(),
		s.itemID,
		command.UserID.String(),
		command.OccurredAt.Add(policy.LoanPeriod),
		command.OccurredAt,
	)

	if s.copyStatus == holdqueue.CopyHeld {
		fulfilled := core.BuildHoldFulfilled(
			s.heldByHoldID,
			s.itemID,
			command.UserID.String(),
			command.CopyID.String(),
			command.LoanID.String(),
			command.OccurredAt,
		)

		return core.SuccessDecision(fulfilled, checkedOut)
	}

	return core.SuccessDecision(checkedOut)
}

func checkFailures(s state, command Command, policy core.Policy) *core.Error {
	switch {
	case !s.copyKnown:
		return core.ErrCopyNotFound

	case !s.userRegistered:
		return core.ErrUserNotFound

	case !availableFor(s, command):
		return core.ErrCopyNotAvailable

	case s.accountLocked:
		return core.ErrAccountLocked

	case s.openLoans >= policy.MaxOpenLoans:
		return core.ErrLoanLimitExceeded

	default:
		return nil
	}
}

// availableFor reports whether the copy is free, or reserved for this user by a ready hold whose
// pickup window is still open.
func availableFor(s state, command Command) bool {
	switch s.copyStatus {
	case holdqueue.CopyAvailable:
		return true

	case holdqueue.CopyHeld:
		return s.heldForUserID == command.UserID.String() && command.OccurredAt.Before(s.heldExpiresAt)

	default:
		return false
	}
}

// project builds the current state by replaying all events from the history.
func project(history core.DomainEvents, command Command) state {
	copyID, userID, loanID := command.CopyID.String(), command.UserID.String(), command.LoanID.String()
	s := state{}

	for _, event := range history {
		switch e := event.(type) {
		case core.CopyAddedToCirculation:
			if e.CopyID == copyID {
				s.copyKnown = true
				s.itemID = e.ItemID
				s.copyStatus = holdqueue.CopyAvailable
			}

		case core.CopyCheckedOut:
			if e.CopyID == copyID {
				s.setCopy(holdqueue.CopyOnLoan)
			}
			if e.LoanID == loanID {
				s.loanExists = true
				s.loanMatches = e.CopyID == copyID && e.UserID == userID
			}

		case core.CopyReturned:
			if e.CopyID == copyID {
				s.setCopy(holdqueue.CopyAvailable)
			}

		case core.LoanMarkedLost:
			if e.CopyID == copyID {
				s.setCopy(holdqueue.CopyLost)
			}

		case core.HoldPromoted:
			if e.CopyID == copyID {
				s.setCopy(holdqueue.CopyHeld)
				s.heldByHoldID = e.HoldID
				s.heldForUserID = e.UserID
				s.heldExpiresAt = e.ExpiresAt
			}

		case core.HoldCancelled:
			if e.CopyID == copyID {
				s.setCopy(holdqueue.CopyAvailable)
			}

		case core.HoldExpired:
			if e.CopyID == copyID {
				s.setCopy(holdqueue.CopyAvailable)
			}

		case core.UserRegistered:
			if e.UserID == userID {
				s.userRegistered = true
			}
		}
	}

	s.openLoans = ledger.ProjectLoans(history).OpenLoansOf(userID)
	s.accountLocked = finepolicy.ProjectAccount(history).Locked()

	return s
}

func (s *state) setCopy(status holdqueue.CopyStatus) {
	s.copyStatus = status
	s.heldByHoldID = ""
	s.heldForUserID = ""
	s.heldExpiresAt = time.Time{}
}

// BuildEventFilter creates the filter for the copy's status events and the borrower's eligibility events.
func BuildEventFilter(command Command) eventstore.Filter {
	return ledger.CopyFilter(command.CopyID.String()).
		Or(ledger.BorrowerFilter(command.UserID.String())).
		Or(ledger.LoanFilter(command.LoanID.String()))
}
