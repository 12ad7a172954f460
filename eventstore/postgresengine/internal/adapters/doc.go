// Package adapters provide database adapter implementations for the PostgreSQL event store.
//
// pgxpool.Pool, sql.DB and sqlx.DB are supported through the common DBAdapter interface.
// Conditional appends run in SERIALIZABLE transactions, so that two appends racing on the same
// consistency boundary cannot both commit.
package adapters
