package postgresengine

import (
	"context"
	"errors"
	"fmt"
)

var ErrInvalidEventsTableName = errors.New("events table name must be a lower case sql identifier")

var ErrCreatingSchemaFailed = errors.New("creating the events schema failed")

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number  BIGSERIAL PRIMARY KEY,
	occurred_at      TIMESTAMPTZ NOT NULL,
	event_type       TEXT NOT NULL,
	payload          JSONB NOT NULL,
	metadata         JSONB NOT NULL DEFAULT '{}'::jsonb,
	append_timestamp TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
);
CREATE INDEX IF NOT EXISTS %[1]s_event_type_idx ON %[1]s (event_type);
CREATE INDEX IF NOT EXISTS %[1]s_payload_idx ON %[1]s USING GIN (payload jsonb_path_ops);
`

// SchemaSQL returns the DDL for the configured events table.
func (es EventStore) SchemaSQL() string {
	return fmt.Sprintf(schemaTemplate, es.eventTableName)
}

// EnsureSchema creates the events table and its indexes if they do not exist yet.
func (es EventStore) EnsureSchema(ctx context.Context) error {
	if _, err := es.db.Exec(ctx, es.SchemaSQL()); err != nil {
		if es.logger != nil {
			es.logger.Error(logMsgCreateSchemaFailed, logAttrError, err.Error())
		}

		return errors.Join(ErrCreatingSchemaFailed, err)
	}

	return nil
}
