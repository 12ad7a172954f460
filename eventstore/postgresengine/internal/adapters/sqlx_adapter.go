package adapters

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// SQLXAdapter implements DBAdapter for sqlx.DB.
type SQLXAdapter struct {
	db *sqlx.DB
}

func NewSQLXAdapter(db *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{db: db}
}

func (s *SQLXAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	return queryStd(ctx, s.db, query)
}

func (s *SQLXAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	return execStd(ctx, s.db, query)
}

func (s *SQLXAdapter) ExecSerializable(ctx context.Context, query string) (DBResult, error) {
	return execSerializableStd(ctx, s.db, query)
}
