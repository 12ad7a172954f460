package rooms

const (
	queryType = "Rooms"
)

// Query represents the intent to list the rooms in service.
type Query struct{}

// BuildQuery creates a new Query.
func BuildQuery() Query {
	return Query{}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
