// Package finesbyuser implements the fine account of a user, including the derived lock.
package finesbyuser

import (
	"slices"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// ProjectFineAccount lists the fines of the user, newest assessment first.
func ProjectFineAccount(history core.DomainEvents, query Query) FineAccount {
	account := finepolicy.ProjectAccount(history)
	result := FineAccount{
		UserID:           query.UserID.String(),
		Fines:            make([]FineInfo, 0),
		TotalOutstanding: account.TotalOutstanding(),
		Locked:           account.Locked(),
	}

	for _, fine := range account.Fines() {
		if query.OpenOnly && !fine.IsOpen() {
			continue
		}

		result.Fines = append(result.Fines, FineInfo{
			FineID:      fine.FineID,
			LoanID:      fine.LoanID,
			ItemID:      fine.ItemID,
			Reason:      fine.Reason,
			DaysOverdue: fine.DaysOverdue,
			Amount:      fine.Assessed,
			Outstanding: fine.Outstanding(),
			Status:      fine.Status,
			AssessedAt:  fine.AssessedAt,
			SettledAt:   fine.SettledAt,
		})
	}

	slices.Reverse(result.Fines)

	return result
}

// BuildEventFilter creates the filter for the user's fine account.
func BuildEventFilter(query Query) eventstore.Filter {
	return finepolicy.AccountFilter(query.UserID.String())
}
