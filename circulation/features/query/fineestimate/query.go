package fineestimate

import (
	"time"

	"github.com/google/uuid"
)

const (
	queryType = "FineEstimate"
)

// Query represents the intent to see what a loan costs so far.
type Query struct {
	LoanID uuid.UUID
	Now    time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(loanID uuid.UUID, now time.Time) Query {
	return Query{
		LoanID: loanID,
		Now:    now,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
