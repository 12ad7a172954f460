// Package postgresengine provides a PostgreSQL implementation of the event store.
//
// Events live in a single append-only table. Queries and the conditional insert are built with goqu.
// The conditional insert computes the max sequence number of all events matching the filter in a CTE
// and only inserts when it still equals the expected value; it runs in a SERIALIZABLE transaction so
// that concurrent appends into the same consistency boundary cannot both commit. Serialization
// failures surface as eventstore.ErrConcurrencyConflict.
//
// Supported connection types: pgxpool.Pool (optionally with a replica pool), sql.DB (lib/pq) and sqlx.DB.
//
// Example:
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	es, err := postgresengine.NewEventStoreFromPGXPool(pool, postgresengine.WithLogger(slog.Default()))
//	if err != nil {
//		// handle error
//	}
//	if err := es.EnsureSchema(ctx); err != nil {
//		// handle error
//	}
package postgresengine
