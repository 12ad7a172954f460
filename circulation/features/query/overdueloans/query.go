package overdueloans

import (
	"time"
)

const (
	queryType = "OverdueLoans"
)

// Query represents the intent to list open loans, optionally only the overdue ones.
type Query struct {
	OverdueOnly bool
	Now         time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(overdueOnly bool, now time.Time) Query {
	return Query{
		OverdueOnly: overdueOnly,
		Now:         now,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
