package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the check report database schema.
const Schema = `
-- Check report records table
CREATE TABLE IF NOT EXISTS check_reports (
    id TEXT PRIMARY KEY,

    -- What was checked
    grammar_path TEXT NOT NULL,
    version TEXT,

    -- Outcome
    status TEXT NOT NULL,
    rule_count INTEGER NOT NULL,
    diagnostics TEXT,
    from_cache BOOLEAN NOT NULL,

    -- Timing
    duration_us INTEGER NOT NULL,
    checked_at TIMESTAMP NOT NULL,
    recorded_at TIMESTAMP NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_check_reports_checked_at ON check_reports(checked_at);
CREATE INDEX IF NOT EXISTS idx_check_reports_grammar_path ON check_reports(grammar_path);
CREATE INDEX IF NOT EXISTS idx_check_reports_status ON check_reports(status);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
