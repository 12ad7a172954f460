package loansbyuser

import (
	"slices"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// ProjectLoansOfUser lists the user's loans, newest checkout first.
//
//	INCLUDES: title and author of the item, if catalogued
//	INCLUDES: days overdue and the estimated fine, counted until now, the return or the loss
//	EXCLUDES: closed loans if ActiveOnly is set
func ProjectLoansOfUser(history core.DomainEvents, query Query, calculator finepolicy.Calculator) LoansOfUser {
	userID := query.UserID.String()
	titles := make(map[string]core.ItemAddedToCatalog)

	for _, event := range history {
		if e, ok := event.(core.ItemAddedToCatalog); ok {
			titles[e.ItemID] = e
		}
	}

	result := LoansOfUser{UserID: userID, Loans: make([]LoanInfo, 0)}

	for _, loan := range ledger.ProjectLoans(history).All() {
		if loan.UserID != userID {
			continue
		}

		if loan.IsActive() {
			result.Open++
		} else if query.ActiveOnly {
			continue
		}

		until := query.Now
		switch loan.Status {
		case ledger.LoanReturned:
			until = loan.ReturnedAt
		case ledger.LoanLost:
			until = loan.LostAt
		}

		days := calculator.DaysOverdue(loan.DueAt, until)
		result.Loans = append(result.Loans, LoanInfo{
			LoanID:        loan.LoanID,
			CopyID:        loan.CopyID,
			ItemID:        loan.ItemID,
			Title:         titles[loan.ItemID].Title,
			Author:        titles[loan.ItemID].Author,
			Status:        loan.Status,
			CheckedOutAt:  loan.CheckedOutAt,
			DueAt:         loan.DueAt,
			ReturnedAt:    loan.ReturnedAt,
			Overdue:       loan.IsActive() && until.After(loan.DueAt),
			DaysOverdue:   days,
			EstimatedFine: calculator.EstimateFine(loan.DueAt, until),
		})
	}

	slices.SortStableFunc(result.Loans, func(a, b LoanInfo) int {
		return b.CheckedOutAt.Compare(a.CheckedOutAt)
	})
	result.Count = len(result.Loans)

	return result
}

// BuildEventFilter creates the filter for the user's ledger events and the catalog.
func BuildEventFilter(query Query) eventstore.Filter {
	return ledger.BorrowerFilter(query.UserID.String()).Or(ledger.CatalogFilter())
}

