package notificationsbyuser

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/inbox"
)

const (
	queryType = "NotificationsByUser"
)

// Query represents the intent to poll the notifications of a user.
type Query struct {
	UserID uuid.UUID
	Status inbox.Status // empty for all
}

// BuildQuery creates a new Query.
func BuildQuery(userID uuid.UUID, status inbox.Status) Query {
	return Query{
		UserID: userID,
		Status: status,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
