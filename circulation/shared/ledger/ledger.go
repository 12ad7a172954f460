// Package ledger projects loans and borrowers from ledger events. The projections are shared by the
// command slices that check loan state and by the read models.
package ledger

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

type LoanStatus = string

const (
	LoanActive   LoanStatus = "active"
	LoanReturned LoanStatus = "returned"
	LoanLost     LoanStatus = "lost"
)

// Loan is the projected state of one loan.
type Loan struct {
	LoanID       string
	CopyID       string
	ItemID       string
	UserID       string
	CheckedOutAt time.Time
	DueAt        time.Time
	ReturnedAt   time.Time // zero while open
	LostAt       time.Time
	Status       LoanStatus
}

// IsActive reports whether the loan is still open.
func (l Loan) IsActive() bool {
	return l.Status == LoanActive
}

// Loans is a projection of loans in checkout order.
type Loans struct {
	order []*Loan
	index map[string]*Loan
}

// ProjectLoans folds ledger events into Loans. Other events are ignored.
func ProjectLoans(history core.DomainEvents) *Loans {
	loans := &Loans{index: make(map[string]*Loan)}

	for _, event := range history {
		loans.Apply(event)
	}

	return loans
}

// Apply folds one event into the projection.
func (l *Loans) Apply(event core.DomainEvent) {
	switch e := event.(type) {
	case core.CopyCheckedOut:
		loan := &Loan{
			LoanID:       e.LoanID,
			CopyID:       e.CopyID,
			ItemID:       e.ItemID,
			UserID:       e.UserID,
			CheckedOutAt: e.OccurredAt,
			DueAt:        e.DueAt,
			Status:       LoanActive,
		}
		l.order = append(l.order, loan)
		l.index[e.LoanID] = loan

	case core.CopyReturned:
		if loan, ok := l.index[e.LoanID]; ok {
			loan.Status = LoanReturned
			loan.ReturnedAt = e.OccurredAt
		}

	case core.LoanMarkedLost:
		if loan, ok := l.index[e.LoanID]; ok {
			loan.Status = LoanLost
			loan.LostAt = e.OccurredAt
		}
	}
}

// Loan returns one loan.
func (l *Loans) Loan(loanID string) (Loan, bool) {
	loan, ok := l.index[loanID]
	if !ok {
		return Loan{}, false
	}

	return *loan, true
}

// All returns every loan in checkout order.
func (l *Loans) All() []Loan {
	result := make([]Loan, 0, len(l.order))
	for _, loan := range l.order {
		result = append(result, *loan)
	}

	return result
}

// Active returns the open loans in checkout order.
func (l *Loans) Active() []Loan {
	result := make([]Loan, 0)
	for _, loan := range l.order {
		if loan.IsActive() {
			result = append(result, *loan)
		}
	}

	return result
}

// OpenLoansOf counts the user's open loans.
func (l *Loans) OpenLoansOf(userID string) int {
	count := 0
	for _, loan := range l.order {
		if loan.UserID == userID && loan.IsActive() {
			count++
		}
	}

	return count
}

// User is a registered library account.
type User struct {
	UserID string
	Name   string
	Role   core.Role
}

// Users is a projection of registered users.
type Users map[string]User

// ProjectUsers folds UserRegistered events into Users.
func ProjectUsers(history core.DomainEvents) Users {
	users := make(Users)
	for _, event := range history {
		if e, ok := event.(core.UserRegistered); ok {
			users[e.UserID] = User{UserID: e.UserID, Name: e.Name, Role: e.Role}
		}
	}

	return users
}
