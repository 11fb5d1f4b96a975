package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultTimeout = 10 * time.Second

// DB is the query surface the repositories use. *pgxpool.Pool satisfies it;
// tests substitute a scripted implementation.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Config captures the minimal settings required to establish a Postgres pool.
type Config struct {
	DSN     string
	Timeout time.Duration
}

// Connect establishes a pgx pool, verifies connectivity with a ping, and
// applies the embedded schema. A default timeout is applied when none is
// provided.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	if err := applySchema(connectCtx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// applySchema executes the embedded DDL statement by statement. Every
// statement is IF NOT EXISTS, so startup is idempotent.
func applySchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS cities (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS citizens (
	id             BIGSERIAL PRIMARY KEY,
	name           TEXT NOT NULL,
	phone          TEXT NOT NULL DEFAULT '',
	address        TEXT NOT NULL,
	city           TEXT NOT NULL,
	location_notes TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS associations (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	phone       TEXT NOT NULL,
	address     TEXT NOT NULL DEFAULT '',
	city        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	logo_url    TEXT NOT NULL DEFAULT '',
	verified    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS recyclers (
	id             BIGSERIAL PRIMARY KEY,
	name           TEXT NOT NULL,
	phone          TEXT NOT NULL,
	city           TEXT NOT NULL,
	association_id BIGINT NOT NULL REFERENCES associations(id),
	status         TEXT NOT NULL DEFAULT 'available'
	               CHECK (status IN ('available', 'en_route', 'inactive')),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS identities (
	id            BIGSERIAL PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL CHECK (role IN ('citizen', 'recycler', 'association')),
	profile_id    BIGINT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS pickup_requests (
	id              BIGSERIAL PRIMARY KEY,
	citizen_id      BIGINT NOT NULL REFERENCES citizens(id),
	association_id  BIGINT NOT NULL REFERENCES associations(id),
	recycler_id     BIGINT REFERENCES recyclers(id),
	address         TEXT NOT NULL,
	city            TEXT NOT NULL,
	references_note TEXT NOT NULL DEFAULT '',
	materials       TEXT NOT NULL,
	comments        TEXT NOT NULL DEFAULT '',
	request_date    DATE NOT NULL,
	collection_date DATE,
	status          TEXT NOT NULL DEFAULT 'pending'
	                CHECK (status IN ('pending', 'assigned', 'in_progress', 'completed', 'cancelled')),
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_requests_citizen     ON pickup_requests (citizen_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_requests_association ON pickup_requests (association_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_requests_recycler    ON pickup_requests (recycler_id, status);
CREATE INDEX IF NOT EXISTS idx_recyclers_association ON recyclers (association_id);

CREATE TABLE IF NOT EXISTS request_history (
	id          BIGSERIAL PRIMARY KEY,
	request_id  BIGINT NOT NULL REFERENCES pickup_requests(id),
	from_status TEXT NOT NULL DEFAULT '',
	to_status   TEXT NOT NULL,
	actor_role  TEXT NOT NULL,
	actor_id    BIGINT NOT NULL,
	notes       TEXT NOT NULL DEFAULT '',
	changed_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_request ON request_history (request_id, changed_at)
`
