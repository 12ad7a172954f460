package eventstore

import (
	"errors"
)

var (
	// ErrConcurrencyConflict is returned by Append when events matching the filter were appended
	// after the expected max sequence number was queried.
	ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

	ErrEmptyEventsTableName        = errors.New("events table name must not be empty")
	ErrNilDatabaseConnection       = errors.New("database connection must not be nil")
	ErrNoEventsToAppend            = errors.New("at least one event must be supplied")
	ErrBuildingQueryFailed         = errors.New("building the query failed")
	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrScanningDBRowFailed         = errors.New("scanning a database row failed")
	ErrBuildingStorableEventFailed = errors.New("building a storable event failed")
	ErrAppendingEventFailed        = errors.New("appending events failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting the rows affected count failed")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number for a "dynamic event stream".
type MaxSequenceNumberUint = uint
