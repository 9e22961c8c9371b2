package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL is applied on every boot; all statements are idempotent.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
	id              BIGSERIAL PRIMARY KEY,
	code            TEXT UNIQUE,
	name            TEXT UNIQUE NOT NULL,
	contract_year   INTEGER NOT NULL DEFAULT 0,
	contractor      TEXT,
	total_amount    NUMERIC(18,2) NOT NULL DEFAULT 0,
	rp_amount       NUMERIC(18,2) NOT NULL DEFAULT 0,
	sgp_amount      NUMERIC(18,2) NOT NULL DEFAULT 0,
	men_amount      NUMERIC(18,2) NOT NULL DEFAULT 0,
	sgr_amount      NUMERIC(18,2) NOT NULL DEFAULT 0,
	funding_sources TEXT
);

CREATE TABLE IF NOT EXISTS municipalities (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS institutions (
	id              BIGSERIAL PRIMARY KEY,
	name            TEXT NOT NULL,
	municipality_id BIGINT NOT NULL REFERENCES municipalities(id),
	UNIQUE (name, municipality_id)
);

CREATE TABLE IF NOT EXISTS sites (
	id             BIGSERIAL PRIMARY KEY,
	name           TEXT NOT NULL,
	institution_id BIGINT NOT NULL REFERENCES institutions(id),
	UNIQUE (name, institution_id)
);

CREATE TABLE IF NOT EXISTS indicators (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS activities (
	id          BIGSERIAL PRIMARY KEY,
	project_id  BIGINT NOT NULL REFERENCES projects(id),
	description TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS progress_records (
	id              BIGSERIAL PRIMARY KEY,
	project_id      BIGINT NOT NULL REFERENCES projects(id),
	activity_id     BIGINT NOT NULL REFERENCES activities(id),
	site_id         BIGINT REFERENCES sites(id),
	indicator_id    BIGINT REFERENCES indicators(id),
	percentage      DOUBLE PRECISION NOT NULL DEFAULT 0,
	record_date     TEXT NOT NULL,
	responsible     TEXT,
	notes           TEXT,
	is_addition     BOOLEAN NOT NULL DEFAULT FALSE,
	addition_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
	addition_source TEXT
);
`

// EnsureSchema creates the tables on first run. Catalog rows are only ever
// appended by the application, so no migration machinery is needed here.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}
