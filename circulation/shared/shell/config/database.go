package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore/memengine"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore/postgresengine"
)

// ErrOpeningEventStoreFailed is returned when the configured database cannot be reached.
var ErrOpeningEventStoreFailed = errors.New("opening event store failed")

// Observability carries the optional logger and tracing collector handed to the event store engine.
type Observability struct {
	Logger  eventstore.Logger
	Tracing eventstore.TracingCollector
}

// OpenEventStore connects the configured engine and returns it with a function releasing its connections.
// PostgreSQL engines create their table if EnsureSchema is set.
func OpenEventStore(ctx context.Context, cfg DB, obs Observability) (shell.EventStore, func(), error) {
	if cfg.Driver == DriverMemory {
		opts := make([]memengine.Option, 0, 1)
		if obs.Logger != nil {
			opts = append(opts, memengine.WithLogger(obs.Logger))
		}

		return memengine.NewEventStore(opts...), func() {}, nil
	}

	opts := []postgresengine.Option{postgresengine.WithTableName(cfg.Table)}
	if obs.Logger != nil {
		opts = append(opts, postgresengine.WithLogger(obs.Logger))
	}
	if obs.Tracing != nil {
		opts = append(opts, postgresengine.WithTracing(obs.Tracing))
	}

	es, closeFn, err := openPostgres(ctx, cfg, opts)
	if err != nil {
		return nil, nil, errors.Join(ErrOpeningEventStoreFailed, err)
	}

	if cfg.EnsureSchema {
		if err = es.EnsureSchema(ctx); err != nil {
			closeFn()
			return nil, nil, errors.Join(ErrOpeningEventStoreFailed, err)
		}
	}

	return es, closeFn, nil
}

func openPostgres(ctx context.Context, cfg DB, opts []postgresengine.Option) (postgresengine.EventStore, func(), error) {
	switch cfg.Driver {
	case DriverPGX:
		primary, err := NewPGXPool(ctx, cfg, cfg.DSN)
		if err != nil {
			return postgresengine.EventStore{}, nil, err
		}

		if cfg.ReplicaDSN == "" {
			es, err := postgresengine.NewEventStoreFromPGXPool(primary, opts...)
			return es, primary.Close, err
		}

		replica, err := NewPGXPool(ctx, cfg, cfg.ReplicaDSN)
		if err != nil {
			primary.Close()
			return postgresengine.EventStore{}, nil, err
		}

		es, err := postgresengine.NewEventStoreFromPGXPoolAndReplica(primary, replica, opts...)

		return es, func() { primary.Close(); replica.Close() }, err

	case DriverSQL:
		db, err := NewSQLDB(ctx, cfg)
		if err != nil {
			return postgresengine.EventStore{}, nil, err
		}

		es, err := postgresengine.NewEventStoreFromSQLDB(db, opts...)

		return es, func() { _ = db.Close() }, err

	case DriverSQLX:
		db, err := NewSQLXDB(ctx, cfg)
		if err != nil {
			return postgresengine.EventStore{}, nil, err
		}

		es, err := postgresengine.NewEventStoreFromSQLX(db, opts...)

		return es, func() { _ = db.Close() }, err

	default:
		return postgresengine.EventStore{}, nil, fmt.Errorf("%w: unknown DB_DRIVER %q", ErrInvalidConfig, cfg.Driver)
	}
}

// PGXPoolConfig builds a pgxpool.Config for dsn with the pool settings of cfg.
func PGXPoolConfig(cfg DB, dsn string) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	return poolConfig, nil
}

// NewPGXPool opens and pings a pgx pool for dsn.
func NewPGXPool(ctx context.Context, cfg DB, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := PGXPoolConfig(cfg, dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// NewSQLDB opens and pings a database/sql connection pool using lib/pq.
func NewSQLDB(ctx context.Context, cfg DB) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	configureSQLPool(db, cfg)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// NewSQLXDB opens and pings an sqlx connection pool using lib/pq.
func NewSQLXDB(ctx context.Context, cfg DB) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	configureSQLPool(db.DB, cfg)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func configureSQLPool(db *sql.DB, cfg DB) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}
