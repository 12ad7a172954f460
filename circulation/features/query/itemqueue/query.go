package itemqueue

import (
	"github.com/google/uuid"
)

const (
	queryType = "ItemQueue"
)

// Query represents the intent to see the holds queue and the availability of an item.
type Query struct {
	ItemID uuid.UUID
}

// BuildQuery creates a new Query.
func BuildQuery(itemID uuid.UUID) Query {
	return Query{
		ItemID: itemID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
