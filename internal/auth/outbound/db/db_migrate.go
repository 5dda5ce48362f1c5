package db

import (
	"context"
)

const schema = `
CREATE TABLE IF NOT EXISTS auth_users (
	id            BIGSERIAL PRIMARY KEY,
	mobile_number TEXT NOT NULL UNIQUE,
	role          TEXT NOT NULL DEFAULT 'USER' CHECK (role IN ('USER', 'OWNER', 'ADMIN', 'BOTH')),
	verified      BOOLEAN NOT NULL DEFAULT FALSE
)`

// Migrate creates the identity table when missing.
func (s *DB) Migrate(ctx context.Context) (err error) {
	ctx, span := s.startSpan(ctx, "Migrate")
	defer func() { s.endSpan(span, err) }()

	if _, err = s.conn.Exec(ctx, schema); err != nil {
		err = s.mapError(err)
		return err
	}
	return nil
}
