package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver
)

// NewDBConnection opens the pool and verifies it with a ping.
func NewDBConnection(connString string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS contact_leads (
	id              BIGSERIAL PRIMARY KEY,
	name            TEXT NOT NULL,
	email           TEXT NOT NULL,
	subject         TEXT NOT NULL,
	message         TEXT NOT NULL,
	company         TEXT,
	role            TEXT,
	lead_type       TEXT NOT NULL DEFAULT 'contact',
	status          TEXT NOT NULL DEFAULT 'unread',
	priority        TEXT NOT NULL DEFAULT 'medium',
	quality_score   DOUBLE PRECISION NOT NULL DEFAULT 0,
	internal_notes  TEXT NOT NULL DEFAULT '',
	tags            JSONB NOT NULL DEFAULT '[]',
	flagged         BOOLEAN NOT NULL DEFAULT FALSE,
	last_contacted  TIMESTAMPTZ,
	follow_up_date  TIMESTAMPTZ,
	contact_history JSONB NOT NULL DEFAULT '[]',
	source          TEXT NOT NULL DEFAULT 'contact_form',
	metadata        JSONB NOT NULL DEFAULT '{}',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_contact_leads_created_at ON contact_leads (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_contact_leads_status ON contact_leads (status);
`

// EnsureSchema creates the leads table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
