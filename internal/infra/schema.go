package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS members (
    id                    UUID PRIMARY KEY,
    email                 TEXT NOT NULL UNIQUE,
    first_name            TEXT NOT NULL,
    last_name             TEXT NOT NULL DEFAULT '',
    phone                 TEXT NOT NULL DEFAULT '',
    birth_date            TEXT NOT NULL DEFAULT '',
    heritage              TEXT[] NOT NULL DEFAULT '{}',
    cultural_interests    TEXT[] NOT NULL DEFAULT '{}',
    languages             TEXT[] NOT NULL DEFAULT '{}',
    location              TEXT NOT NULL,
    specific_area         TEXT NOT NULL DEFAULT '',
    community_preferences TEXT[] NOT NULL DEFAULT '{}',
    plan                  TEXT NOT NULL,
    billing_cycle         TEXT NOT NULL,
    agree_to_marketing    BOOLEAN NOT NULL DEFAULT FALSE,
    created_at            TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS subscriptions (
    id            UUID PRIMARY KEY,
    member_id     UUID NOT NULL REFERENCES members (id),
    plan          TEXT NOT NULL,
    billing_cycle TEXT NOT NULL,
    amount_pence  BIGINT NOT NULL,
    currency      TEXT NOT NULL,
    status        TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS subscriptions_member_id_idx ON subscriptions (member_id);
`

// EnsureSchema creates the member tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
