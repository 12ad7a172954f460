package finesbyuser

import (
	"github.com/google/uuid"
)

const (
	queryType = "FinesByUser"
)

// Query represents the intent to see the fine account of a user.
type Query struct {
	UserID   uuid.UUID
	OpenOnly bool
}

// BuildQuery creates a new Query.
func BuildQuery(userID uuid.UUID, openOnly bool) Query {
	return Query{
		UserID:   userID,
		OpenOnly: openOnly,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
