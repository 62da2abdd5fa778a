package history

// createSchemaSQL is the DDL for the bootstrap_history audit table,
// kept in the admin database.
const createSchemaSQL = `CREATE TABLE IF NOT EXISTS bootstrap_history (
    id            BIGSERIAL PRIMARY KEY,
    directive     TEXT NOT NULL,
    target        TEXT NOT NULL,
    status        TEXT NOT NULL,
    plan_checksum TEXT NOT NULL,
    applied_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    duration_ms   INTEGER NOT NULL
)`
