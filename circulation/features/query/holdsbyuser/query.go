package holdsbyuser

import (
	"github.com/google/uuid"
)

const (
	queryType = "HoldsByUser"
)

// Query represents the intent to list the holds of a user.
type Query struct {
	UserID     uuid.UUID
	ActiveOnly bool
}

// BuildQuery creates a new Query.
func BuildQuery(userID uuid.UUID, activeOnly bool) Query {
	return Query{
		UserID:     userID,
		ActiveOnly: activeOnly,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
