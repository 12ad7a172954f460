package loansbyuser

import (
	"time"

	"github.com/google/uuid"
)

const (
	queryType = "LoansByUser"
)

// Query represents the intent to list the loans of a user.
type Query struct {
	UserID     uuid.UUID
	ActiveOnly bool
	Now        time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(userID uuid.UUID, activeOnly bool, now time.Time) Query {
	return Query{
		UserID:     userID,
		ActiveOnly: activeOnly,
		Now:        now,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
